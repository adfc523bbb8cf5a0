package handlers_test_suite

import (
	"encoding/json"
	"fmt"
	"net/http"
	"testing"

	handler "github.com/greenbridge-eco/greenbridge/internal/http/handlers"
	"github.com/greenbridge-eco/greenbridge/internal/models"
	"github.com/greenbridge-eco/greenbridge/internal/repo"
)

// Coordinates around central Amsterdam, roughly 1km apart per 0.009 degrees
// of latitude.
const (
	amsterdamLat = 52.3676
	amsterdamLng = 4.9041
)

func createFacility(t *testing.T, token, name string, lat, lng float64) models.RecyclingFacility {
	t.Helper()
	r := newTestRouter()

	w := doJSON(r, http.MethodPost, "/api/v1/facilities", token, handler.FacilityRequest{
		Name:      name,
		Address:   "Somewhere in Amsterdam",
		Latitude:  lat,
		Longitude: lng,
	})
	if w.Code != http.StatusCreated {
		t.Fatalf("expected 201 Created, got %d: %s", w.Code, w.Body.String())
	}
	var facility models.RecyclingFacility
	if err := json.NewDecoder(w.Body).Decode(&facility); err != nil {
		t.Fatalf("error decoding response: %v", err)
	}
	return facility
}

func TestCreateFacilityHandler(t *testing.T) {
	t.Cleanup(facilityRepo.Clear)

	facility := createFacility(t, recyclerToken, "North Plant", amsterdamLat, amsterdamLng)
	if facility.OperatorID == "" {
		t.Error("expected operator to be stamped from the token")
	}
}

func TestCreateFacilityHandler_Invalid(t *testing.T) {
	t.Cleanup(facilityRepo.Clear)
	r := newTestRouter()

	tests := []struct {
		name    string
		payload handler.FacilityRequest
	}{
		{name: "Missing name", payload: handler.FacilityRequest{Latitude: 10, Longitude: 10}},
		{name: "Latitude out of range", payload: handler.FacilityRequest{Name: "Bad", Latitude: 95, Longitude: 10}},
		{name: "Longitude out of range", payload: handler.FacilityRequest{Name: "Bad", Latitude: 10, Longitude: 190}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := doJSON(r, http.MethodPost, "/api/v1/facilities", recyclerToken, tt.payload)
			if w.Code != http.StatusBadRequest {
				t.Errorf("expected 400, got %d", w.Code)
			}
		})
	}
}

func TestFacilityHandlers_RoleEnforcement(t *testing.T) {
	t.Cleanup(facilityRepo.Clear)
	r := newTestRouter()

	w := doJSON(r, http.MethodPost, "/api/v1/facilities", consumerToken, handler.FacilityRequest{
		Name: "Not allowed", Latitude: 10, Longitude: 10,
	})
	if w.Code != http.StatusForbidden {
		t.Errorf("expected 403 for consumer, got %d", w.Code)
	}
}

func TestUpdateFacilityHandler_OwnerOnly(t *testing.T) {
	t.Cleanup(facilityRepo.Clear)
	r := newTestRouter()

	facility := createFacility(t, recyclerToken, "North Plant", amsterdamLat, amsterdamLng)

	payload := handler.FacilityRequest{Name: "Renamed", Latitude: amsterdamLat, Longitude: amsterdamLng}

	// brand is allowed past the role gate but is not the operator.
	brandClient := seedUserToken("brand-geo@greenbridge.eco", models.RoleBrand)
	w := doJSON(r, http.MethodPut, "/api/v1/facilities/"+facility.ID, brandClient, payload)
	if w.Code != http.StatusForbidden {
		t.Errorf("expected 403 for non-operator, got %d", w.Code)
	}

	// admin can always update.
	w = doJSON(r, http.MethodPut, "/api/v1/facilities/"+facility.ID, adminToken, payload)
	if w.Code != http.StatusOK {
		t.Errorf("expected 200 for admin, got %d: %s", w.Code, w.Body.String())
	}
}

func TestNearbyFacilitiesHandler(t *testing.T) {
	t.Cleanup(facilityRepo.Clear)
	r := newTestRouter()

	createFacility(t, recyclerToken, "Close", amsterdamLat+0.009, amsterdamLng)  // ~1km north
	createFacility(t, recyclerToken, "Closer", amsterdamLat+0.002, amsterdamLng) // ~220m north
	createFacility(t, recyclerToken, "Rotterdam", 51.9244, 4.4777)               // ~57km away

	url := fmt.Sprintf("/api/v1/facilities/nearby?lat=%f&lng=%f&radiusKm=5", amsterdamLat, amsterdamLng)
	w := doJSON(r, http.MethodGet, url, "", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
	}

	var hits []repo.NearbyFacility
	if err := json.NewDecoder(w.Body).Decode(&hits); err != nil {
		t.Fatalf("error decoding response: %v", err)
	}
	if len(hits) != 2 {
		t.Fatalf("expected 2 facilities within 5km, got %d", len(hits))
	}
	if hits[0].Name != "Closer" || hits[1].Name != "Close" {
		t.Errorf("expected nearest-first ordering, got %q then %q", hits[0].Name, hits[1].Name)
	}
	if hits[0].DistanceKm <= 0 || hits[0].DistanceKm >= hits[1].DistanceKm {
		t.Errorf("unexpected distances: %v then %v", hits[0].DistanceKm, hits[1].DistanceKm)
	}
}

func TestNearbyFacilitiesHandler_BadParams(t *testing.T) {
	r := newTestRouter()

	tests := []struct {
		name string
		url  string
	}{
		{name: "Missing coordinates", url: "/api/v1/facilities/nearby"},
		{name: "Latitude out of range", url: "/api/v1/facilities/nearby?lat=95&lng=4.9"},
		{name: "Zero radius", url: "/api/v1/facilities/nearby?lat=52.3&lng=4.9&radiusKm=0"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := doJSON(r, http.MethodGet, tt.url, "", nil)
			if w.Code != http.StatusBadRequest {
				t.Errorf("expected 400, got %d", w.Code)
			}
		})
	}
}

func TestDropoffHandlers_ActiveFiltering(t *testing.T) {
	t.Cleanup(dropoffRepo.Clear)
	r := newTestRouter()

	inactive := false
	w := doJSON(r, http.MethodPost, "/api/v1/dropoffs", recyclerToken, handler.DropoffRequest{
		Name: "Open point", Latitude: amsterdamLat, Longitude: amsterdamLng,
	})
	if w.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", w.Code, w.Body.String())
	}
	w = doJSON(r, http.MethodPost, "/api/v1/dropoffs", recyclerToken, handler.DropoffRequest{
		Name: "Closed point", Latitude: amsterdamLat, Longitude: amsterdamLng, Active: &inactive,
	})
	if w.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", w.Code, w.Body.String())
	}

	w = doJSON(r, http.MethodGet, "/api/v1/dropoffs", "", nil)
	var active []models.DropoffPoint
	if err := json.NewDecoder(w.Body).Decode(&active); err != nil {
		t.Fatalf("error decoding response: %v", err)
	}
	if len(active) != 1 || active[0].Name != "Open point" {
		t.Errorf("expected only the active point, got %+v", active)
	}

	w = doJSON(r, http.MethodGet, "/api/v1/dropoffs?all=true", "", nil)
	var all []models.DropoffPoint
	if err := json.NewDecoder(w.Body).Decode(&all); err != nil {
		t.Fatalf("error decoding response: %v", err)
	}
	if len(all) != 2 {
		t.Errorf("expected 2 points with all=true, got %d", len(all))
	}
}

func TestNearbyDropoffsHandler(t *testing.T) {
	t.Cleanup(dropoffRepo.Clear)
	r := newTestRouter()

	w := doJSON(r, http.MethodPost, "/api/v1/dropoffs", recyclerToken, handler.DropoffRequest{
		Name: "City point", Latitude: amsterdamLat + 0.004, Longitude: amsterdamLng,
	})
	if w.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d", w.Code)
	}

	url := fmt.Sprintf("/api/v1/dropoffs/nearby?lat=%f&lng=%f", amsterdamLat, amsterdamLng)
	w = doJSON(r, http.MethodGet, url, "", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
	var hits []repo.NearbyDropoff
	if err := json.NewDecoder(w.Body).Decode(&hits); err != nil {
		t.Fatalf("error decoding response: %v", err)
	}
	if len(hits) != 1 || hits[0].Name != "City point" {
		t.Errorf("expected the city point within the default radius, got %+v", hits)
	}
}

func TestSetFacilityMaterialsHandler(t *testing.T) {
	t.Cleanup(func() {
		facilityRepo.Clear()
		clearCatalog()
	})
	r := newTestRouter()

	category := seedCategory("Plastics", "PLA")
	pet := seedMaterial("PET", "PET-01", category.ID)
	hdpe := seedMaterial("HDPE", "HDPE-01", category.ID)
	facility := createFacility(t, recyclerToken, "Sorting Plant", amsterdamLat, amsterdamLng)

	w := doJSON(r, http.MethodPut, "/api/v1/facilities/"+facility.ID+"/materials", recyclerToken,
		handler.SetMaterialsRequest{MaterialIDs: []string{pet.ID, hdpe.ID}})
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
	}
	var updated models.RecyclingFacility
	if err := json.NewDecoder(w.Body).Decode(&updated); err != nil {
		t.Fatalf("error decoding response: %v", err)
	}
	if len(updated.MaterialIDs) != 2 {
		t.Errorf("expected 2 accepted materials, got %v", updated.MaterialIDs)
	}

	// Unknown material ids are rejected before anything is written.
	w = doJSON(r, http.MethodPut, "/api/v1/facilities/"+facility.ID+"/materials", recyclerToken,
		handler.SetMaterialsRequest{MaterialIDs: []string{"no-such-material"}})
	if w.Code != http.StatusBadRequest {
		t.Errorf("expected 400 for unknown material, got %d", w.Code)
	}
}
