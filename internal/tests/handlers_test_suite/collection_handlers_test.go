package handlers_test_suite

import (
	"encoding/json"
	"fmt"
	"net/http"
	"testing"
	"time"

	handler "github.com/greenbridge-eco/greenbridge/internal/http/handlers"
	"github.com/greenbridge-eco/greenbridge/internal/models"
)

func createCollection(t *testing.T, token string) handler.CollectionResponse {
	t.Helper()
	r := newTestRouter()

	w := doJSON(r, http.MethodPost, "/api/v1/collections", token, handler.CollectionRequest{
		CollectionDate: time.Now().Add(48 * time.Hour),
		LocationName:   "Warehouse 4",
		Address:        "12 Harbour Rd",
	})
	if w.Code != http.StatusCreated {
		t.Fatalf("expected 201 Created, got %d: %s", w.Code, w.Body.String())
	}
	var resp handler.CollectionResponse
	if err := json.NewDecoder(w.Body).Decode(&resp); err != nil {
		t.Fatalf("error decoding response: %v", err)
	}
	return resp
}

func TestCreateCollectionHandler_StartsPending(t *testing.T) {
	t.Cleanup(collectionRepo.Clear)

	collection := createCollection(t, consumerToken)
	if collection.Status != models.CollectionPending {
		t.Errorf("expected status pending, got %q", collection.Status)
	}
	if collection.CreatedBy == "" {
		t.Error("expected created_by to be stamped from the token")
	}
}

func TestCreateCollectionHandler_RequiresDate(t *testing.T) {
	t.Cleanup(collectionRepo.Clear)
	r := newTestRouter()

	w := doJSON(r, http.MethodPost, "/api/v1/collections", consumerToken, handler.CollectionRequest{
		LocationName: "No date",
	})
	if w.Code != http.StatusBadRequest {
		t.Errorf("expected 400 without date, got %d", w.Code)
	}
}

func TestChangeCollectionStatusHandler_Lifecycle(t *testing.T) {
	t.Cleanup(collectionRepo.Clear)
	r := newTestRouter()

	collection := createCollection(t, consumerToken)

	steps := []string{
		models.CollectionScheduled,
		models.CollectionInProgress,
		models.CollectionCompleted,
	}
	for _, status := range steps {
		w := doJSON(r, http.MethodPost, "/api/v1/collections/"+collection.ID+"/status", consumerToken,
			handler.StatusChangeRequest{Status: status})
		if w.Code != http.StatusOK {
			t.Fatalf("transition to %s failed: %d: %s", status, w.Code, w.Body.String())
		}
		var resp handler.CollectionResponse
		if err := json.NewDecoder(w.Body).Decode(&resp); err != nil {
			t.Fatalf("error decoding response: %v", err)
		}
		if resp.Status != status {
			t.Fatalf("expected status %s, got %s", status, resp.Status)
		}
	}

	// Completed is terminal.
	w := doJSON(r, http.MethodPost, "/api/v1/collections/"+collection.ID+"/status", consumerToken,
		handler.StatusChangeRequest{Status: models.CollectionCancelled})
	if w.Code != http.StatusConflict {
		t.Errorf("expected 409 cancelling a completed collection, got %d", w.Code)
	}
}

func TestChangeCollectionStatusHandler_InvalidJumps(t *testing.T) {
	t.Cleanup(collectionRepo.Clear)
	r := newTestRouter()

	tests := []struct {
		name   string
		target string
	}{
		{name: "Pending straight to in_progress", target: models.CollectionInProgress},
		{name: "Pending straight to completed", target: models.CollectionCompleted},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			collection := createCollection(t, consumerToken)
			w := doJSON(r, http.MethodPost, "/api/v1/collections/"+collection.ID+"/status", consumerToken,
				handler.StatusChangeRequest{Status: tt.target})
			if w.Code != http.StatusConflict {
				t.Errorf("expected 409, got %d", w.Code)
			}
		})
	}
}

func TestCancelOnlyBeforeWorkStarts(t *testing.T) {
	t.Cleanup(collectionRepo.Clear)
	r := newTestRouter()

	collection := createCollection(t, consumerToken)

	// pending -> cancelled is fine.
	w := doJSON(r, http.MethodPost, "/api/v1/collections/"+collection.ID+"/status", consumerToken,
		handler.StatusChangeRequest{Status: models.CollectionCancelled})
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200 cancelling pending, got %d", w.Code)
	}

	// in_progress -> cancelled is not.
	other := createCollection(t, consumerToken)
	for _, status := range []string{models.CollectionScheduled, models.CollectionInProgress} {
		if w := doJSON(r, http.MethodPost, "/api/v1/collections/"+other.ID+"/status", consumerToken,
			handler.StatusChangeRequest{Status: status}); w.Code != http.StatusOK {
			t.Fatalf("setup transition to %s failed: %d", status, w.Code)
		}
	}
	w = doJSON(r, http.MethodPost, "/api/v1/collections/"+other.ID+"/status", consumerToken,
		handler.StatusChangeRequest{Status: models.CollectionCancelled})
	if w.Code != http.StatusConflict {
		t.Errorf("expected 409 cancelling in_progress, got %d", w.Code)
	}
}

func TestAddCollectionItemHandler(t *testing.T) {
	t.Cleanup(func() {
		collectionRepo.Clear()
		clearCatalog()
	})
	r := newTestRouter()

	category := seedCategory("Plastics", "PLA")
	material := seedMaterial("PET", "PET-01", category.ID)
	collection := createCollection(t, consumerToken)

	w := doJSON(r, http.MethodPost, "/api/v1/collections/"+collection.ID+"/items", consumerToken,
		handler.CollectionItemRequest{
			MaterialID: material.ID,
			WeightKg:   12.5,
			Quantity:   3,
			WasteCode:  "PL0001",
		})
	if w.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", w.Code, w.Body.String())
	}

	var item models.CollectionItem
	if err := json.NewDecoder(w.Body).Decode(&item); err != nil {
		t.Fatalf("error decoding response: %v", err)
	}
	if item.CollectionID != collection.ID {
		t.Errorf("item not linked to collection: %+v", item)
	}

	// Total weight reflects the item.
	w = doJSON(r, http.MethodGet, "/api/v1/collections/"+collection.ID, consumerToken, nil)
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
	var resp handler.CollectionResponse
	if err := json.NewDecoder(w.Body).Decode(&resp); err != nil {
		t.Fatalf("error decoding response: %v", err)
	}
	if resp.TotalWeightKg != 12.5 {
		t.Errorf("expected total weight 12.5, got %v", resp.TotalWeightKg)
	}
}

func TestAddCollectionItemHandler_Invalid(t *testing.T) {
	t.Cleanup(func() {
		collectionRepo.Clear()
		clearCatalog()
	})
	r := newTestRouter()

	category := seedCategory("Plastics", "PLA")
	material := seedMaterial("PET", "PET-01", category.ID)
	collection := createCollection(t, consumerToken)

	tests := []struct {
		name           string
		payload        handler.CollectionItemRequest
		expectedErrors []string
	}{
		{
			name:           "Weight below minimum",
			payload:        handler.CollectionItemRequest{MaterialID: material.ID, WeightKg: 0.01, Quantity: 1},
			expectedErrors: []string{"WeightKg"},
		},
		{
			name:           "Weight above maximum",
			payload:        handler.CollectionItemRequest{MaterialID: material.ID, WeightKg: 99999, Quantity: 1},
			expectedErrors: []string{"WeightKg"},
		},
		{
			name:           "Zero quantity",
			payload:        handler.CollectionItemRequest{MaterialID: material.ID, WeightKg: 5, Quantity: 0},
			expectedErrors: []string{"Quantity"},
		},
		{
			name:           "Malformed waste code",
			payload:        handler.CollectionItemRequest{MaterialID: material.ID, WeightKg: 5, Quantity: 1, WasteCode: "1234AB"},
			expectedErrors: []string{"WasteCode"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := doJSON(r, http.MethodPost, "/api/v1/collections/"+collection.ID+"/items", consumerToken, tt.payload)
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

func TestFilterCollectionsHandler_ScopedToOwner(t *testing.T) {
	t.Cleanup(collectionRepo.Clear)
	r := newTestRouter()

	createCollection(t, consumerToken)
	createCollection(t, recyclerToken)

	w := doJSON(r, http.MethodGet, "/api/v1/collections", consumerToken, nil)
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
	var mine handler.CollectionsSearchResult
	if err := json.NewDecoder(w.Body).Decode(&mine); err != nil {
		t.Fatalf("error decoding response: %v", err)
	}
	if mine.Meta.TotalCount != 1 {
		t.Errorf("expected consumer to see 1 collection, got %d", mine.Meta.TotalCount)
	}

	// Admin sees everything.
	w = doJSON(r, http.MethodGet, "/api/v1/collections", adminToken, nil)
	var all handler.CollectionsSearchResult
	if err := json.NewDecoder(w.Body).Decode(&all); err != nil {
		t.Fatalf("error decoding response: %v", err)
	}
	if all.Meta.TotalCount != 2 {
		t.Errorf("expected admin to see 2 collections, got %d", all.Meta.TotalCount)
	}
}

func TestCollectionPagination(t *testing.T) {
	t.Cleanup(collectionRepo.Clear)
	r := newTestRouter()

	for i := 0; i < 5; i++ {
		createCollection(t, consumerToken)
	}

	w := doJSON(r, http.MethodGet, fmt.Sprintf("/api/v1/collections?offset=%d&limit=%d", 3, 2), adminToken, nil)
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
	var resp handler.CollectionsSearchResult
	if err := json.NewDecoder(w.Body).Decode(&resp); err != nil {
		t.Fatalf("error decoding response: %v", err)
	}
	if resp.Meta.TotalCount != 5 {
		t.Errorf("expected total 5, got %d", resp.Meta.TotalCount)
	}
	if len(resp.Data) != 2 {
		t.Errorf("expected page of 2, got %d", len(resp.Data))
	}
}

func TestCollectionMutations_OwnerOnly(t *testing.T) {
	t.Cleanup(collectionRepo.Clear)
	r := newTestRouter()

	collection := createCollection(t, consumerToken)

	// Another authenticated user cannot touch someone else's collection.
	w := doJSON(r, http.MethodPut, "/api/v1/collections/"+collection.ID, recyclerToken,
		handler.CollectionRequest{LocationName: "Hijacked"})
	if w.Code != http.StatusForbidden {
		t.Errorf("expected 403 updating another user's collection, got %d", w.Code)
	}

	w = doJSON(r, http.MethodPost, "/api/v1/collections/"+collection.ID+"/status", recyclerToken,
		handler.StatusChangeRequest{Status: models.CollectionScheduled})
	if w.Code != http.StatusForbidden {
		t.Errorf("expected 403 transitioning another user's collection, got %d", w.Code)
	}

	w = doJSON(r, http.MethodDelete, "/api/v1/collections/"+collection.ID, recyclerToken, nil)
	if w.Code != http.StatusForbidden {
		t.Errorf("expected 403 deleting another user's collection, got %d", w.Code)
	}

	// The owner and admins still can.
	w = doJSON(r, http.MethodPost, "/api/v1/collections/"+collection.ID+"/status", consumerToken,
		handler.StatusChangeRequest{Status: models.CollectionScheduled})
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200 for the owner, got %d: %s", w.Code, w.Body.String())
	}
	w = doJSON(r, http.MethodDelete, "/api/v1/collections/"+collection.ID, adminToken, nil)
	if w.Code != http.StatusNoContent {
		t.Errorf("expected 204 for admin delete, got %d: %s", w.Code, w.Body.String())
	}
}
