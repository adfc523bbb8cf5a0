package handlers

import (
	"time"

	"github.com/greenbridge-eco/greenbridge/internal/models"
)

type RegisterRequest struct {
	Email       string `json:"email"`
	Password    string `json:"password"`
	FirstName   string `json:"first_name"`
	LastName    string `json:"last_name"`
	Role        string `json:"role"`
	PhoneNumber string `json:"phone_number"`
	Address     string `json:"address"`
}

type CredentialsRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type LoginResult struct {
	Token        string      `json:"token"`
	RefreshToken string      `json:"refresh_token"`
	User         models.User `json:"user"`
}

type RegisterResult struct {
	Message string      `json:"message"`
	Token   string      `json:"token"`
	User    models.User `json:"user"`
}

type RefreshRequest struct {
	RefreshToken string `json:"refresh_token"`
}

type PasswordResetRequest struct {
	Email string `json:"email"`
}

type PasswordResetConfirm struct {
	Token       string `json:"token"`
	NewPassword string `json:"new_password"`
}

type Meta struct {
	TotalCount int `json:"total_count"`
}

type OrganizationRequest struct {
	Name                string   `json:"name"`
	Type                string   `json:"type"`
	TaxID               string   `json:"tax_id"`
	RegistrationNumber  string   `json:"registration_number"`
	Website             string   `json:"website"`
	PrimaryContactName  string   `json:"primary_contact_name"`
	PrimaryContactEmail string   `json:"primary_contact_email"`
	PrimaryContactPhone string   `json:"primary_contact_phone"`
	AddressLine1        string   `json:"address_line1"`
	AddressLine2        string   `json:"address_line2"`
	City                string   `json:"city"`
	StateProvince       string   `json:"state_province"`
	PostalCode          string   `json:"postal_code"`
	Country             string   `json:"country"`
	Latitude            *float64 `json:"latitude"`
	Longitude           *float64 `json:"longitude"`
}

type OrganizationsSearchResult struct {
	Data []models.Organization `json:"data"`
	Meta Meta                  `json:"meta,omitempty"`
}

type RejectRequest struct {
	Reason string `json:"reason"`
}

type CategoryRequest struct {
	Name        string `json:"name"`
	Code        string `json:"code"`
	Description string `json:"description"`
	ParentID    string `json:"parent_id"`
	Recyclable  bool   `json:"recyclable"`
	Hazardous   bool   `json:"hazardous"`
}

type CategoryResponse struct {
	models.WasteCategory
	Path string `json:"path,omitempty"`
}

type MaterialRequest struct {
	Name        string  `json:"name"`
	Code        string  `json:"code"`
	Description string  `json:"description"`
	CategoryID  string  `json:"category_id"`
	Recyclable  bool    `json:"recyclable"`
	ValuePerKg  float64 `json:"value_per_kg"`
	CO2OffsetKg float64 `json:"co2_offset_per_kg"`
}

type MaterialsSearchResult struct {
	Data []models.Material `json:"data"`
	Meta Meta              `json:"meta,omitempty"`
}

type MaterialSimilarityResult struct {
	Data []models.Material `json:"data"`
}

type CollectionRequest struct {
	CollectionDate time.Time `json:"collection_date"`
	LocationName   string    `json:"location_name"`
	Address        string    `json:"address"`
	Latitude       *float64  `json:"latitude"`
	Longitude      *float64  `json:"longitude"`
	Notes          string    `json:"notes"`
	RecyclerID     string    `json:"recycler_id"`
	BrandID        string    `json:"brand_id"`
	CustomCode     string    `json:"custom_code"`
}

type CollectionResponse struct {
	models.WasteCollection
	TotalWeightKg float64 `json:"total_weight_kg"`
}

type CollectionsSearchResult struct {
	Data []CollectionResponse `json:"data"`
	Meta Meta                 `json:"meta,omitempty"`
}

type CollectionItemRequest struct {
	MaterialID string  `json:"material_id"`
	WeightKg   float64 `json:"weight_kg"`
	Quantity   int     `json:"quantity"`
	WasteCode  string  `json:"waste_code"`
	Notes      string  `json:"notes"`
}

type StatusChangeRequest struct {
	Status string `json:"status"`
}

type FacilityRequest struct {
	Name           string   `json:"name"`
	Address        string   `json:"address"`
	Latitude       float64  `json:"latitude"`
	Longitude      float64  `json:"longitude"`
	ContactEmail   string   `json:"contact_email"`
	ContactPhone   string   `json:"contact_phone"`
	CapacityTons   *int     `json:"capacity_tons"`
	OperatingHours string   `json:"operating_hours"`
	Certifications string   `json:"certifications"`
	MaterialIDs    []string `json:"material_ids"`
}

type DropoffRequest struct {
	Name           string   `json:"name"`
	Description    string   `json:"description"`
	Address        string   `json:"address"`
	Latitude       float64  `json:"latitude"`
	Longitude      float64  `json:"longitude"`
	OperatingHours string   `json:"operating_hours"`
	ContactPhone   string   `json:"contact_phone"`
	ContactEmail   string   `json:"contact_email"`
	Website        string   `json:"website"`
	Active         *bool    `json:"active"`
	MaterialIDs    []string `json:"material_ids"`
}

type SetMaterialsRequest struct {
	MaterialIDs []string `json:"material_ids"`
}

type UploadResult struct {
	Key string `json:"key"`
	URL string `json:"url,omitempty"`
}

type ImportMaterialsResult struct {
	ImportedMaterialsCount int               `json:"imported"`
	Errors                 []ValidationError `json:"errors"`
}
