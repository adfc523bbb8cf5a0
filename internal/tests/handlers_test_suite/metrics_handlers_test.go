package handlers_test_suite

import (
	"encoding/json"
	"net/http"
	"testing"

	handler "github.com/greenbridge-eco/greenbridge/internal/http/handlers"
	"github.com/greenbridge-eco/greenbridge/internal/models"
	"github.com/greenbridge-eco/greenbridge/internal/repo"
)

func TestGetDashboardMetricsHandler(t *testing.T) {
	t.Cleanup(func() {
		collectionRepo.Clear()
		orgRepo.Clear()
		clearCatalog()
	})
	r := newTestRouter()

	category := seedCategory("Plastics", "PLA")
	material := seedMaterial("PET", "PET-01", category.ID)
	createOrganization(t, recyclerToken, handler.OrganizationRequest{
		Name: "Pending Org",
		Type: models.OrgTypeRecycler,
	})

	collection := createCollection(t, consumerToken)
	w := doJSON(r, http.MethodPost, "/api/v1/collections/"+collection.ID+"/items", consumerToken,
		handler.CollectionItemRequest{MaterialID: material.ID, WeightKg: 10, Quantity: 1})
	if w.Code != http.StatusCreated {
		t.Fatalf("seeding item failed: %d: %s", w.Code, w.Body.String())
	}
	for _, status := range []string{models.CollectionScheduled, models.CollectionInProgress, models.CollectionCompleted} {
		if w := doJSON(r, http.MethodPost, "/api/v1/collections/"+collection.ID+"/status", consumerToken,
			handler.StatusChangeRequest{Status: status}); w.Code != http.StatusOK {
			t.Fatalf("seeding transition to %s failed: %d", status, w.Code)
		}
	}

	w = doJSON(r, http.MethodGet, "/api/v1/admin/dashboard", adminToken, nil)
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
	}

	var metrics repo.DashboardMetrics
	if err := json.NewDecoder(w.Body).Decode(&metrics); err != nil {
		t.Fatalf("error decoding response: %v", err)
	}
	if metrics.TotalUsers < 3 {
		t.Errorf("expected at least the seeded users, got %d", metrics.TotalUsers)
	}
	if metrics.PendingOrganizations != 1 {
		t.Errorf("expected 1 pending organization, got %d", metrics.PendingOrganizations)
	}
	if metrics.CompletedCollections != 1 {
		t.Errorf("expected 1 completed collection, got %d", metrics.CompletedCollections)
	}
	if metrics.TotalWeightKg != 10 {
		t.Errorf("expected 10kg collected, got %v", metrics.TotalWeightKg)
	}
	if metrics.TopMaterial.Name != material.Name {
		t.Errorf("expected %s as top material, got %+v", material.Name, metrics.TopMaterial)
	}
}

func TestGetDashboardMetricsHandler_AdminOnly(t *testing.T) {
	r := newTestRouter()

	for _, token := range []string{recyclerToken, consumerToken} {
		w := doJSON(r, http.MethodGet, "/api/v1/admin/dashboard", token, nil)
		if w.Code != http.StatusForbidden {
			t.Errorf("expected 403, got %d", w.Code)
		}
	}
}
