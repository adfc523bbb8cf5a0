package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/greenbridge-eco/greenbridge/internal/models"
	"github.com/greenbridge-eco/greenbridge/internal/repo"
	"github.com/greenbridge-eco/greenbridge/internal/ws"
)

// CreateOrganizationHandler godoc
// @Summary Register an organization (starts pending verification)
// @Tags organizations
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param organization body OrganizationRequest true "Organization to register"
// @Success 201 {object} models.Organization
// @Failure 400 {object} []ValidationError
// @Router /api/v1/organizations [post]
func CreateOrganizationHandler(w http.ResponseWriter, r *http.Request) {
	claims, err := ClaimsFromRequest(r)
	if err != nil {
		http.Error(w, "unauthorized", http.StatusUnauthorized)
		return
	}

	var req OrganizationRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid input", http.StatusBadRequest)
		return
	}

	validationErrors := validateOrganization(req)
	if len(validationErrors) > 0 {
		w.WriteHeader(http.StatusBadRequest)
		json.NewEncoder(w).Encode(validationErrors)
		return
	}

	org := models.Organization{
		Name:                req.Name,
		Type:                req.Type,
		Status:              models.OrgStatusPending,
		TaxID:               req.TaxID,
		RegistrationNumber:  req.RegistrationNumber,
		Website:             req.Website,
		PrimaryContactName:  req.PrimaryContactName,
		PrimaryContactEmail: req.PrimaryContactEmail,
		PrimaryContactPhone: req.PrimaryContactPhone,
		AddressLine1:        req.AddressLine1,
		AddressLine2:        req.AddressLine2,
		City:                req.City,
		StateProvince:       req.StateProvince,
		PostalCode:          req.PostalCode,
		Country:             req.Country,
		Latitude:            req.Latitude,
		Longitude:           req.Longitude,
		CreatedBy:           claims.UserID,
		Active:              true,
	}

	created, err := orgRepo.Create(org)
	if err != nil {
		if errors.Is(err, repo.ErrDuplicatedValueUnique) {
			http.Error(w, "organization name already registered", http.StatusConflict)
			return
		}
		http.Error(w, "could not create organization", http.StatusInternalServerError)
		return
	}

	writeJSONOrLog(w, http.StatusCreated, created)
}

// GetOrganizationHandler godoc
// @Summary Get organization by ID
// @Tags organizations
// @Produce json
// @Param id path string true "Organization ID"
// @Success 200 {object} models.Organization
// @Failure 404 {string} string "Not found"
// @Router /api/v1/organizations/{id} [get]
func GetOrganizationHandler(w http.ResponseWriter, r *http.Request) {
	org, err := orgRepo.GetByID(chi.URLParam(r, "id"))
	if err != nil {
		if errors.Is(err, repo.ErrOrganizationNotFound) {
			http.Error(w, "organization not found", http.StatusNotFound)
			return
		}
		http.Error(w, "could not fetch organization", http.StatusInternalServerError)
		return
	}
	writeJSONOrLog(w, http.StatusOK, org)
}

// FilterOrganizationsHandler godoc
// @Summary Filter and paginate organizations
// @Tags organizations
// @Produce json
// @Param name query string false "Filter by name"
// @Param type query string false "Filter by type"
// @Param status query string false "Filter by verification status"
// @Param offset query int false "Offset for pagination"
// @Param limit query int false "Limit for pagination"
// @Success 200 {object} OrganizationsSearchResult
// @Failure 400 {string} string "Invalid query"
// @Router /api/v1/organizations [get]
func FilterOrganizationsHandler(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	filter := repo.OrganizationFilter{
		Name:   q.Get("name"),
		Type:   q.Get("type"),
		Status: q.Get("status"),
		Offset: parseIntPtr(q.Get("offset")),
		Limit:  parseIntPtr(q.Get("limit")),
	}
	if filter.Type != "" && !models.ValidOrgType(filter.Type) {
		http.Error(w, "invalid organization type", http.StatusBadRequest)
		return
	}
	if filter.Limit != nil && *filter.Limit <= 0 {
		http.Error(w, "limit must be greater than zero", http.StatusBadRequest)
		return
	}
	if filter.Offset != nil && *filter.Offset < 0 {
		http.Error(w, "offset must be zero or positive", http.StatusBadRequest)
		return
	}

	orgs, total, err := orgRepo.Filter(filter)
	if err != nil {
		http.Error(w, "could not filter organizations", http.StatusInternalServerError)
		return
	}

	writeJSONOrLog(w, http.StatusOK, OrganizationsSearchResult{
		Data: orgs,
		Meta: Meta{TotalCount: total},
	})
}

// MyOrganizationsHandler godoc
// @Summary List the organizations registered by the current user
// @Tags organizations
// @Security BearerAuth
// @Produce json
// @Success 200 {array} models.Organization
// @Router /api/v1/organizations/mine [get]
func MyOrganizationsHandler(w http.ResponseWriter, r *http.Request) {
	claims, err := ClaimsFromRequest(r)
	if err != nil {
		http.Error(w, "unauthorized", http.StatusUnauthorized)
		return
	}

	orgs, _, err := orgRepo.Filter(repo.OrganizationFilter{CreatedBy: claims.UserID})
	if err != nil {
		http.Error(w, "could not fetch organizations", http.StatusInternalServerError)
		return
	}
	writeJSONOrLog(w, http.StatusOK, orgs)
}

// UpdateOrganizationHandler godoc
// @Summary Update an organization's details
// @Tags organizations
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param id path string true "Organization ID"
// @Param organization body OrganizationRequest true "Updated details"
// @Success 200 {object} models.Organization
// @Failure 400 {object} []ValidationError
// @Failure 404 {string} string "Not found"
// @Router /api/v1/organizations/{id} [put]
func UpdateOrganizationHandler(w http.ResponseWriter, r *http.Request) {
	claims, err := ClaimsFromRequest(r)
	if err != nil {
		http.Error(w, "unauthorized", http.StatusUnauthorized)
		return
	}

	org, err := orgRepo.GetByID(chi.URLParam(r, "id"))
	if err != nil {
		if errors.Is(err, repo.ErrOrganizationNotFound) {
			http.Error(w, "organization not found", http.StatusNotFound)
			return
		}
		http.Error(w, "could not fetch organization", http.StatusInternalServerError)
		return
	}
	if claims.Role != models.RoleAdmin && org.CreatedBy != claims.UserID {
		http.Error(w, "forbidden", http.StatusForbidden)
		return
	}

	var req OrganizationRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid input", http.StatusBadRequest)
		return
	}

	validationErrors := validateOrganization(req)
	if len(validationErrors) > 0 {
		w.WriteHeader(http.StatusBadRequest)
		json.NewEncoder(w).Encode(validationErrors)
		return
	}

	org.Name = req.Name
	org.Type = req.Type
	org.TaxID = req.TaxID
	org.RegistrationNumber = req.RegistrationNumber
	org.Website = req.Website
	org.PrimaryContactName = req.PrimaryContactName
	org.PrimaryContactEmail = req.PrimaryContactEmail
	org.PrimaryContactPhone = req.PrimaryContactPhone
	org.AddressLine1 = req.AddressLine1
	org.AddressLine2 = req.AddressLine2
	org.City = req.City
	org.StateProvince = req.StateProvince
	org.PostalCode = req.PostalCode
	org.Country = req.Country
	org.Latitude = req.Latitude
	org.Longitude = req.Longitude

	updated, err := orgRepo.Update(org)
	if err != nil {
		http.Error(w, "could not update organization", http.StatusInternalServerError)
		return
	}
	writeJSONOrLog(w, http.StatusOK, updated)
}

// VerifyOrganizationHandler godoc
// @Summary Approve a pending organization
// @Tags admin
// @Security BearerAuth
// @Produce json
// @Param id path string true "Organization ID"
// @Success 200 {object} models.Organization
// @Failure 404 {string} string "Not found"
// @Failure 409 {string} string "Not pending"
// @Router /api/v1/admin/organizations/{id}/verify [post]
func VerifyOrganizationHandler(w http.ResponseWriter, r *http.Request) {
	claims, err := ClaimsFromRequest(r)
	if err != nil {
		http.Error(w, "unauthorized", http.StatusUnauthorized)
		return
	}

	org, err := orgRepo.SetStatus(chi.URLParam(r, "id"), models.OrgStatusVerified, claims.UserID, "")
	if err != nil {
		writeStatusChangeError(w, err)
		return
	}

	notifyOrgDecision(org, ws.EventOrganizationVerified,
		"Organization "+org.Name+" has been verified.")
	writeJSONOrLog(w, http.StatusOK, org)
}

// RejectOrganizationHandler godoc
// @Summary Reject a pending organization
// @Tags admin
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param id path string true "Organization ID"
// @Param rejection body RejectRequest true "Rejection reason"
// @Success 200 {object} models.Organization
// @Failure 404 {string} string "Not found"
// @Failure 409 {string} string "Not pending"
// @Router /api/v1/admin/organizations/{id}/reject [post]
func RejectOrganizationHandler(w http.ResponseWriter, r *http.Request) {
	claims, err := ClaimsFromRequest(r)
	if err != nil {
		http.Error(w, "unauthorized", http.StatusUnauthorized)
		return
	}

	var req RejectRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Reason == "" {
		http.Error(w, "rejection reason is required", http.StatusBadRequest)
		return
	}

	org, err := orgRepo.SetStatus(chi.URLParam(r, "id"), models.OrgStatusRejected, claims.UserID, req.Reason)
	if err != nil {
		writeStatusChangeError(w, err)
		return
	}

	notifyOrgDecision(org, ws.EventOrganizationRejected,
		"Organization "+org.Name+" was rejected: "+req.Reason)
	writeJSONOrLog(w, http.StatusOK, org)
}

// DeleteOrganizationHandler godoc
// @Summary Soft-delete an organization
// @Tags admin
// @Security BearerAuth
// @Param id path string true "Organization ID"
// @Success 204 "Deleted"
// @Failure 404 {string} string "Not found"
// @Router /api/v1/admin/organizations/{id} [delete]
func DeleteOrganizationHandler(w http.ResponseWriter, r *http.Request) {
	if err := orgRepo.SoftDelete(chi.URLParam(r, "id")); err != nil {
		if errors.Is(err, repo.ErrOrganizationNotFound) {
			http.Error(w, "organization not found", http.StatusNotFound)
			return
		}
		http.Error(w, "could not delete organization", http.StatusInternalServerError)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func writeStatusChangeError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, repo.ErrOrganizationNotFound):
		http.Error(w, "organization not found", http.StatusNotFound)
	case errors.Is(err, repo.ErrInvalidTransition):
		http.Error(w, "organization is not pending verification", http.StatusConflict)
	default:
		http.Error(w, "could not change organization status", http.StatusInternalServerError)
	}
}

func notifyOrgDecision(org models.Organization, eventType, message string) {
	if hub != nil {
		hub.Publish(ws.Event{
			Type:    eventType,
			UserID:  org.CreatedBy,
			Subject: org.ID,
			Message: message,
		})
	}
	if mailer != nil && org.PrimaryContactEmail != "" {
		mailer.Send(org.PrimaryContactEmail, "GreenBridge verification update", message)
	}
}
