package handlers_test_suite

import (
	"encoding/json"
	"net/http"
	"testing"

	handler "github.com/greenbridge-eco/greenbridge/internal/http/handlers"
	"github.com/greenbridge-eco/greenbridge/internal/models"
)

func createOrganization(t *testing.T, token string, req handler.OrganizationRequest) models.Organization {
	t.Helper()
	r := newTestRouter()

	w := doJSON(r, http.MethodPost, "/api/v1/organizations", token, req)
	if w.Code != http.StatusCreated {
		t.Fatalf("expected 201 Created, got %d: %s", w.Code, w.Body.String())
	}
	var org models.Organization
	if err := json.NewDecoder(w.Body).Decode(&org); err != nil {
		t.Fatalf("error decoding response: %v", err)
	}
	return org
}

func TestCreateOrganizationHandler_StartsPending(t *testing.T) {
	t.Cleanup(orgRepo.Clear)

	org := createOrganization(t, recyclerToken, handler.OrganizationRequest{
		Name: "GreenCycle Ltd",
		Type: models.OrgTypeRecycler,
	})

	if org.Status != models.OrgStatusPending {
		t.Errorf("expected status pending, got %q", org.Status)
	}
	if org.CreatedBy == "" {
		t.Error("expected created_by to be stamped from the token")
	}
}

func TestCreateOrganizationHandler_Invalid(t *testing.T) {
	t.Cleanup(orgRepo.Clear)
	r := newTestRouter()

	badLat := 95.0
	tests := []struct {
		name           string
		payload        handler.OrganizationRequest
		expectedErrors []string
	}{
		{
			name:           "Missing name and type",
			payload:        handler.OrganizationRequest{},
			expectedErrors: []string{"Name", "Type"},
		},
		{
			name:           "Unknown type",
			payload:        handler.OrganizationRequest{Name: "X", Type: "ngo"},
			expectedErrors: []string{"Type"},
		},
		{
			name: "Bad contact details",
			payload: handler.OrganizationRequest{
				Name:                "X",
				Type:                models.OrgTypeBrand,
				PrimaryContactEmail: "nope",
				PrimaryContactPhone: "abc",
			},
			expectedErrors: []string{"PrimaryContactEmail", "PrimaryContactPhone"},
		},
		{
			name: "Latitude out of range",
			payload: handler.OrganizationRequest{
				Name:     "X",
				Type:     models.OrgTypeBrand,
				Latitude: &badLat,
			},
			expectedErrors: []string{"Latitude"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := doJSON(r, http.MethodPost, "/api/v1/organizations", recyclerToken, tt.payload)
			if w.Code != http.StatusBadRequest {
				t.Fatalf("expected 400, got %d", w.Code)
			}

			var resp []handler.ValidationError
			if err := json.NewDecoder(w.Body).Decode(&resp); err != nil {
				t.Fatalf("error decoding response: %v", err)
			}
			for _, field := range tt.expectedErrors {
				found := false
				for _, e := range resp {
					if e.Field == field {
						found = true
						break
					}
				}
				if !found {
					t.Errorf("expected error for field %q, but not found", field)
				}
			}
		})
	}
}

func TestVerifyOrganizationHandler(t *testing.T) {
	t.Cleanup(orgRepo.Clear)
	r := newTestRouter()

	org := createOrganization(t, recyclerToken, handler.OrganizationRequest{
		Name: "EcoSort", Type: models.OrgTypeRecycler,
	})

	// Only admins may verify.
	if w := doJSON(r, http.MethodPost, "/api/v1/admin/organizations/"+org.ID+"/verify", recyclerToken, nil); w.Code != http.StatusForbidden {
		t.Fatalf("expected 403 for non-admin, got %d", w.Code)
	}

	w := doJSON(r, http.MethodPost, "/api/v1/admin/organizations/"+org.ID+"/verify", adminToken, nil)
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
	}

	var verified models.Organization
	if err := json.NewDecoder(w.Body).Decode(&verified); err != nil {
		t.Fatalf("error decoding response: %v", err)
	}
	if verified.Status != models.OrgStatusVerified {
		t.Errorf("expected status verified, got %q", verified.Status)
	}
	if verified.VerifiedBy == "" || verified.VerificationDate == nil {
		t.Error("expected verifier and verification date to be stamped")
	}

	// A second verify must fail: the organization is no longer pending.
	if w := doJSON(r, http.MethodPost, "/api/v1/admin/organizations/"+org.ID+"/verify", adminToken, nil); w.Code != http.StatusConflict {
		t.Errorf("expected 409 on double verify, got %d", w.Code)
	}
}

func TestRejectOrganizationHandler(t *testing.T) {
	t.Cleanup(orgRepo.Clear)
	r := newTestRouter()

	org := createOrganization(t, recyclerToken, handler.OrganizationRequest{
		Name: "Shady Disposal", Type: models.OrgTypeRecycler,
	})

	// Reason is mandatory.
	if w := doJSON(r, http.MethodPost, "/api/v1/admin/organizations/"+org.ID+"/reject", adminToken, handler.RejectRequest{}); w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 without reason, got %d", w.Code)
	}

	w := doJSON(r, http.MethodPost, "/api/v1/admin/organizations/"+org.ID+"/reject", adminToken,
		handler.RejectRequest{Reason: "no valid permits"})
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
	}

	var rejected models.Organization
	if err := json.NewDecoder(w.Body).Decode(&rejected); err != nil {
		t.Fatalf("error decoding response: %v", err)
	}
	if rejected.Status != models.OrgStatusRejected {
		t.Errorf("expected status rejected, got %q", rejected.Status)
	}
	if rejected.RejectionReason != "no valid permits" {
		t.Errorf("expected rejection reason recorded, got %q", rejected.RejectionReason)
	}
}

func TestFilterOrganizationsHandler(t *testing.T) {
	t.Cleanup(orgRepo.Clear)
	r := newTestRouter()

	createOrganization(t, recyclerToken, handler.OrganizationRequest{Name: "Alpha Recycling", Type: models.OrgTypeRecycler})
	createOrganization(t, recyclerToken, handler.OrganizationRequest{Name: "Beta Brands", Type: models.OrgTypeBrand})

	w := doJSON(r, http.MethodGet, "/api/v1/organizations?type=recycler", "", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}

	var resp handler.OrganizationsSearchResult
	if err := json.NewDecoder(w.Body).Decode(&resp); err != nil {
		t.Fatalf("error decoding response: %v", err)
	}
	if resp.Meta.TotalCount != 1 {
		t.Errorf("expected 1 recycler, got %d", resp.Meta.TotalCount)
	}
	if len(resp.Data) != 1 || resp.Data[0].Name != "Alpha Recycling" {
		t.Errorf("unexpected filter result: %+v", resp.Data)
	}
}

func TestUpdateOrganizationHandler_OwnerOnly(t *testing.T) {
	t.Cleanup(orgRepo.Clear)
	r := newTestRouter()

	org := createOrganization(t, recyclerToken, handler.OrganizationRequest{
		Name: "Owned Org", Type: models.OrgTypeRecycler,
	})

	update := handler.OrganizationRequest{Name: "Renamed Org", Type: models.OrgTypeBrand}
	if w := doJSON(r, http.MethodPut, "/api/v1/organizations/"+org.ID, consumerToken, update); w.Code != http.StatusForbidden {
		t.Fatalf("expected 403 for non-owner, got %d", w.Code)
	}

	w := doJSON(r, http.MethodPut, "/api/v1/organizations/"+org.ID, recyclerToken, update)
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200 for owner, got %d: %s", w.Code, w.Body.String())
	}
	var updated models.Organization
	if err := json.NewDecoder(w.Body).Decode(&updated); err != nil {
		t.Fatalf("error decoding response: %v", err)
	}
	if updated.Name != "Renamed Org" {
		t.Errorf("expected renamed organization, got %q", updated.Name)
	}
	if updated.Type != models.OrgTypeBrand {
		t.Errorf("expected the type change to persist, got %q", updated.Type)
	}
	if updated.Status != models.OrgStatusPending {
		t.Errorf("update must not touch verification status, got %q", updated.Status)
	}
}

func TestMyOrganizationsHandler(t *testing.T) {
	t.Cleanup(orgRepo.Clear)
	r := newTestRouter()

	createOrganization(t, recyclerToken, handler.OrganizationRequest{
		Name: "Mine", Type: models.OrgTypeRecycler,
	})
	createOrganization(t, consumerToken, handler.OrganizationRequest{
		Name: "Someone Else's", Type: models.OrgTypeCharity,
	})

	w := doJSON(r, http.MethodGet, "/api/v1/organizations/mine", recyclerToken, nil)
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
	}
	var mine []models.Organization
	if err := json.NewDecoder(w.Body).Decode(&mine); err != nil {
		t.Fatalf("error decoding response: %v", err)
	}
	if len(mine) != 1 || mine[0].Name != "Mine" {
		t.Errorf("expected only the caller's organization, got %+v", mine)
	}

	if w := doJSON(r, http.MethodGet, "/api/v1/organizations/mine", "", nil); w.Code != http.StatusUnauthorized {
		t.Errorf("expected 401 without a token, got %d", w.Code)
	}
}
