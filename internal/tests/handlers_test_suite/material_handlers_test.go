package handlers_test_suite

import (
	"encoding/json"
	"net/http"
	"testing"

	handler "github.com/greenbridge-eco/greenbridge/internal/http/handlers"
	"github.com/greenbridge-eco/greenbridge/internal/models"
)

func clearCatalog() {
	materialRepo.Clear()
	categoryRepo.Clear()
}

func TestCreateCategoryHandler_TreeAndPath(t *testing.T) {
	t.Cleanup(clearCatalog)
	r := newTestRouter()

	w := doJSON(r, http.MethodPost, "/api/v1/categories", adminToken, handler.CategoryRequest{
		Name: "Plastics", Code: "PLA", Recyclable: true,
	})
	if w.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", w.Code, w.Body.String())
	}
	var root models.WasteCategory
	if err := json.NewDecoder(w.Body).Decode(&root); err != nil {
		t.Fatalf("error decoding response: %v", err)
	}

	w = doJSON(r, http.MethodPost, "/api/v1/categories", adminToken, handler.CategoryRequest{
		Name: "Bottles", Code: "PLA-BOT", ParentID: root.ID, Recyclable: true,
	})
	if w.Code != http.StatusCreated {
		t.Fatalf("expected 201 for child, got %d", w.Code)
	}
	var child models.WasteCategory
	if err := json.NewDecoder(w.Body).Decode(&child); err != nil {
		t.Fatalf("error decoding response: %v", err)
	}

	w = doJSON(r, http.MethodGet, "/api/v1/categories/"+child.ID, "", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
	var resp handler.CategoryResponse
	if err := json.NewDecoder(w.Body).Decode(&resp); err != nil {
		t.Fatalf("error decoding response: %v", err)
	}
	if resp.Path != "Plastics > Bottles" {
		t.Errorf("expected path 'Plastics > Bottles', got %q", resp.Path)
	}
}

func TestCreateCategoryHandler_UnknownParent(t *testing.T) {
	t.Cleanup(clearCatalog)
	r := newTestRouter()

	w := doJSON(r, http.MethodPost, "/api/v1/categories", adminToken, handler.CategoryRequest{
		Name: "Orphan", Code: "ORP", ParentID: "missing",
	})
	if w.Code != http.StatusBadRequest {
		t.Errorf("expected 400 for unknown parent, got %d", w.Code)
	}
}

func TestCreateMaterialHandler_Valid(t *testing.T) {
	t.Cleanup(clearCatalog)
	r := newTestRouter()

	category := seedCategory("Plastics", "PLA")
	w := doJSON(r, http.MethodPost, "/api/v1/materials", recyclerToken, handler.MaterialRequest{
		Name:        "PET",
		Code:        "PET-01",
		CategoryID:  category.ID,
		Recyclable:  true,
		ValuePerKg:  0.35,
		CO2OffsetKg: 1.7,
	})
	if w.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", w.Code, w.Body.String())
	}

	var material models.Material
	if err := json.NewDecoder(w.Body).Decode(&material); err != nil {
		t.Fatalf("error decoding response: %v", err)
	}
	if material.ValuePerKg != 0.35 {
		t.Errorf("expected value 0.35, got %v", material.ValuePerKg)
	}
}

func TestCreateMaterialHandler_Invalid(t *testing.T) {
	t.Cleanup(clearCatalog)
	r := newTestRouter()

	tests := []struct {
		name           string
		payload        handler.MaterialRequest
		expectedErrors []string
	}{
		{
			name:           "Missing everything",
			payload:        handler.MaterialRequest{},
			expectedErrors: []string{"Name", "Code", "CategoryID"},
		},
		{
			name:           "Negative value",
			payload:        handler.MaterialRequest{Name: "X", Code: "X1", CategoryID: "c", ValuePerKg: -1},
			expectedErrors: []string{"ValuePerKg"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := doJSON(r, http.MethodPost, "/api/v1/materials", recyclerToken, tt.payload)
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

func TestFilterMaterialsHandler(t *testing.T) {
	t.Cleanup(clearCatalog)
	r := newTestRouter()

	category := seedCategory("Metals", "MET")
	seedMaterial("Aluminum", "ALU-01", category.ID)
	seedMaterial("Copper", "COP-01", category.ID)

	w := doJSON(r, http.MethodGet, "/api/v1/materials?q=alu", "", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
	var resp handler.MaterialsSearchResult
	if err := json.NewDecoder(w.Body).Decode(&resp); err != nil {
		t.Fatalf("error decoding response: %v", err)
	}
	if resp.Meta.TotalCount != 1 || len(resp.Data) != 1 {
		t.Fatalf("expected exactly one match, got %d", resp.Meta.TotalCount)
	}
	if resp.Data[0].Name != "Aluminum" {
		t.Errorf("expected Aluminum, got %q", resp.Data[0].Name)
	}
}

func TestDeleteMaterialHandler_InUse(t *testing.T) {
	t.Cleanup(func() {
		collectionRepo.Clear()
		clearCatalog()
	})
	r := newTestRouter()

	category := seedCategory("Glass", "GLA")
	material := seedMaterial("Clear Glass", "GLA-01", category.ID)

	collection, err := collectionRepo.Create(models.WasteCollection{Status: models.CollectionPending})
	if err != nil {
		t.Fatalf("could not seed collection: %v", err)
	}
	if _, err := collectionRepo.AddItem(models.CollectionItem{
		CollectionID: collection.ID,
		MaterialID:   material.ID,
		WeightKg:     5,
		Quantity:     1,
	}); err != nil {
		t.Fatalf("could not seed item: %v", err)
	}

	w := doJSON(r, http.MethodDelete, "/api/v1/materials/"+material.ID, adminToken, nil)
	if w.Code != http.StatusConflict {
		t.Fatalf("expected 409 while referenced, got %d", w.Code)
	}

	if err := collectionRepo.RemoveItem(collection.ID, collection.ID); err == nil {
		t.Fatal("expected error removing with wrong item id")
	}

	items, err := collectionRepo.GetByID(collection.ID)
	if err != nil {
		t.Fatalf("could not reload collection: %v", err)
	}
	if err := collectionRepo.RemoveItem(collection.ID, items.Items[0].ID); err != nil {
		t.Fatalf("could not remove item: %v", err)
	}

	w = doJSON(r, http.MethodDelete, "/api/v1/materials/"+material.ID, adminToken, nil)
	if w.Code != http.StatusNoContent {
		t.Errorf("expected 204 once unreferenced, got %d", w.Code)
	}
}

func TestMaterialHandlers_RoleEnforcement(t *testing.T) {
	t.Cleanup(clearCatalog)
	r := newTestRouter()

	category := seedCategory("Paper", "PAP")
	w := doJSON(r, http.MethodPost, "/api/v1/materials", consumerToken, handler.MaterialRequest{
		Name: "Cardboard", Code: "CAR-01", CategoryID: category.ID,
	})
	if w.Code != http.StatusForbidden {
		t.Errorf("expected 403 for consumer, got %d", w.Code)
	}
}
