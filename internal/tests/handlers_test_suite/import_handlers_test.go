package handlers_test_suite

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	handler "github.com/greenbridge-eco/greenbridge/internal/http/handlers"
	"github.com/greenbridge-eco/greenbridge/internal/repo"
)

func doImport(r http.Handler, token, csvContent string) *httptest.ResponseRecorder {
	body, contentType := multipartCSV(csvContent, "materials.csv")
	req := httptest.NewRequest(http.MethodPost, "/api/v1/materials/import", body)
	req.Header.Set("Content-Type", contentType)
	req.Header.Set("Authorization", "Bearer "+token)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestImportMaterialsHandler(t *testing.T) {
	t.Cleanup(clearCatalog)
	r := newTestRouter()

	category := seedCategory("Metals", "MET")
	csvContent := strings.Join([]string{
		"name,code,category_id,value_per_kg,co2_offset_per_kg,recyclable",
		fmt.Sprintf("Aluminium,ALU-01,%s,1.2,9.1,true", category.ID),
		fmt.Sprintf("Steel,STE-01,%s,0.3,1.8,true", category.ID),
	}, "\n")

	w := doImport(r, adminToken, csvContent)
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
	}

	var result handler.ImportMaterialsResult
	if err := json.NewDecoder(w.Body).Decode(&result); err != nil {
		t.Fatalf("error decoding response: %v", err)
	}
	if result.ImportedMaterialsCount != 2 {
		t.Errorf("expected 2 imported materials, got %d", result.ImportedMaterialsCount)
	}
	if len(result.Errors) != 0 {
		t.Errorf("expected no row errors, got %+v", result.Errors)
	}

	materials, _, err := materialRepo.Filter(repo.MaterialFilter{Query: "alu"})
	if err != nil {
		t.Fatalf("error filtering materials: %v", err)
	}
	if len(materials) != 1 || materials[0].Code != "ALU-01" {
		t.Errorf("imported material not found via filter: %+v", materials)
	}
}

func TestImportMaterialsHandler_RowErrors(t *testing.T) {
	t.Cleanup(clearCatalog)
	r := newTestRouter()

	category := seedCategory("Metals", "MET")
	csvContent := strings.Join([]string{
		"name,code,category_id,value_per_kg",
		fmt.Sprintf("Aluminium,ALU-01,%s,1.2", category.ID),
		fmt.Sprintf(",MISSING-NAME,%s,0.5", category.ID),
		"Copper,COP-01,no-such-category,2.0",
	}, "\n")

	w := doImport(r, adminToken, csvContent)
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
	}

	var result handler.ImportMaterialsResult
	if err := json.NewDecoder(w.Body).Decode(&result); err != nil {
		t.Fatalf("error decoding response: %v", err)
	}
	if result.ImportedMaterialsCount != 1 {
		t.Errorf("expected 1 imported material, got %d", result.ImportedMaterialsCount)
	}
	if len(result.Errors) != 2 {
		t.Fatalf("expected 2 row errors, got %+v", result.Errors)
	}
	// Line numbers count the header as line 1.
	if result.Errors[0].Field != "row 3" || result.Errors[1].Field != "row 4" {
		t.Errorf("unexpected error rows: %+v", result.Errors)
	}
}

func TestImportMaterialsHandler_BadHeader(t *testing.T) {
	r := newTestRouter()

	w := doImport(r, adminToken, "name,code\nAluminium,ALU-01")
	if w.Code != http.StatusBadRequest {
		t.Errorf("expected 400 for missing category_id column, got %d", w.Code)
	}
}

func TestImportMaterialsHandler_MissingFile(t *testing.T) {
	r := newTestRouter()

	w := doJSON(r, http.MethodPost, "/api/v1/materials/import", adminToken, nil)
	if w.Code != http.StatusBadRequest {
		t.Errorf("expected 400 without a file, got %d", w.Code)
	}
}

func TestImportMaterialsHandler_RoleEnforcement(t *testing.T) {
	r := newTestRouter()

	w := doImport(r, consumerToken, "name,code,category_id\nAluminium,ALU-01,x")
	if w.Code != http.StatusForbidden {
		t.Errorf("expected 403 for consumer, got %d", w.Code)
	}
}
