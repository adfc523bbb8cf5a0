package handlers

import (
	"fmt"
	"strings"

	"github.com/greenbridge-eco/greenbridge/internal/models"
)

type ValidationError struct {
	Field       string `json:"field"`
	Description string `json:"description"`
}

func validateOrganization(req OrganizationRequest) []ValidationError {
	errs := []ValidationError{}
	if strings.TrimSpace(req.Name) == "" {
		errs = append(errs, ValidationError{Field: "Name", Description: "Name is required"})
	}
	if !models.ValidOrgType(req.Type) {
		errs = append(errs, ValidationError{Field: "Type", Description: "Type must be brand, recycler or charity"})
	}
	if req.PrimaryContactEmail != "" && !models.ValidEmail(req.PrimaryContactEmail) {
		errs = append(errs, ValidationError{Field: "PrimaryContactEmail", Description: "Invalid email address"})
	}
	if req.PrimaryContactPhone != "" && !models.ValidPhoneNumber(req.PrimaryContactPhone) {
		errs = append(errs, ValidationError{Field: "PrimaryContactPhone", Description: "Invalid phone number"})
	}
	if req.Latitude != nil && !models.ValidLatitude(*req.Latitude) {
		errs = append(errs, ValidationError{Field: "Latitude", Description: "Latitude must be between -90 and 90"})
	}
	if req.Longitude != nil && !models.ValidLongitude(*req.Longitude) {
		errs = append(errs, ValidationError{Field: "Longitude", Description: "Longitude must be between -180 and 180"})
	}
	return errs
}

func validateMaterial(req MaterialRequest) []ValidationError {
	errs := []ValidationError{}
	if strings.TrimSpace(req.Name) == "" {
		errs = append(errs, ValidationError{Field: "Name", Description: "Name is required"})
	}
	if strings.TrimSpace(req.Code) == "" {
		errs = append(errs, ValidationError{Field: "Code", Description: "Code is required"})
	}
	if req.CategoryID == "" {
		errs = append(errs, ValidationError{Field: "CategoryID", Description: "Category is required"})
	}
	if req.ValuePerKg < 0 {
		errs = append(errs, ValidationError{Field: "ValuePerKg", Description: "Value per kg cannot be negative"})
	}
	if req.CO2OffsetKg < 0 {
		errs = append(errs, ValidationError{Field: "CO2OffsetKg", Description: "CO2 offset cannot be negative"})
	}
	return errs
}

func validateCollectionItem(req CollectionItemRequest) []ValidationError {
	errs := []ValidationError{}
	if req.MaterialID == "" {
		errs = append(errs, ValidationError{Field: "MaterialID", Description: "Material is required"})
	}
	if req.WeightKg < limits.MinItemWeightKg || req.WeightKg > limits.MaxItemWeightKg {
		errs = append(errs, ValidationError{
			Field:       "WeightKg",
			Description: fmt.Sprintf("Weight must be between %.1f and %.1f kg", limits.MinItemWeightKg, limits.MaxItemWeightKg),
		})
	}
	if req.Quantity <= 0 {
		errs = append(errs, ValidationError{Field: "Quantity", Description: "Quantity must be greater than zero"})
	}
	if req.WasteCode != "" && !models.ValidWasteCode(req.WasteCode) {
		errs = append(errs, ValidationError{Field: "WasteCode", Description: "Waste code must match AB1234 format"})
	}
	return errs
}

func validateCoordinates(lat, lng float64) []ValidationError {
	errs := []ValidationError{}
	if !models.ValidLatitude(lat) {
		errs = append(errs, ValidationError{Field: "Latitude", Description: "Latitude must be between -90 and 90"})
	}
	if !models.ValidLongitude(lng) {
		errs = append(errs, ValidationError{Field: "Longitude", Description: "Longitude must be between -180 and 180"})
	}
	return errs
}
