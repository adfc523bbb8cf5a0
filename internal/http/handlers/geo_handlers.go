package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/greenbridge-eco/greenbridge/internal/models"
	"github.com/greenbridge-eco/greenbridge/internal/repo"
)

// CreateFacilityHandler godoc
// @Summary Register a recycling facility
// @Tags geo
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param facility body FacilityRequest true "Facility to register"
// @Success 201 {object} models.RecyclingFacility
// @Failure 400 {object} []ValidationError
// @Router /api/v1/facilities [post]
func CreateFacilityHandler(w http.ResponseWriter, r *http.Request) {
	claims, err := ClaimsFromRequest(r)
	if err != nil {
		http.Error(w, "unauthorized", http.StatusUnauthorized)
		return
	}

	var req FacilityRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid input", http.StatusBadRequest)
		return
	}
	if req.Name == "" {
		http.Error(w, "name is required", http.StatusBadRequest)
		return
	}
	if validationErrors := validateCoordinates(req.Latitude, req.Longitude); len(validationErrors) > 0 {
		w.WriteHeader(http.StatusBadRequest)
		json.NewEncoder(w).Encode(validationErrors)
		return
	}

	created, err := facilityRepo.Create(models.RecyclingFacility{
		Name:           req.Name,
		OperatorID:     claims.UserID,
		Address:        req.Address,
		Latitude:       req.Latitude,
		Longitude:      req.Longitude,
		ContactEmail:   req.ContactEmail,
		ContactPhone:   req.ContactPhone,
		CapacityTons:   req.CapacityTons,
		OperatingHours: req.OperatingHours,
		Certifications: req.Certifications,
	})
	if err != nil {
		http.Error(w, "could not create facility", http.StatusInternalServerError)
		return
	}

	if len(req.MaterialIDs) > 0 {
		if err := facilityRepo.SetMaterials(created.ID, req.MaterialIDs); err != nil {
			http.Error(w, "could not assign materials", http.StatusInternalServerError)
			return
		}
		created.MaterialIDs = req.MaterialIDs
	}
	writeJSONOrLog(w, http.StatusCreated, created)
}

// GetFacilityHandler godoc
// @Summary Get facility by ID
// @Tags geo
// @Produce json
// @Param id path string true "Facility ID"
// @Success 200 {object} models.RecyclingFacility
// @Failure 404 {string} string "Not found"
// @Router /api/v1/facilities/{id} [get]
func GetFacilityHandler(w http.ResponseWriter, r *http.Request) {
	facility, err := facilityRepo.GetByID(chi.URLParam(r, "id"))
	if err != nil {
		if errors.Is(err, repo.ErrFacilityNotFound) {
			http.Error(w, "facility not found", http.StatusNotFound)
			return
		}
		http.Error(w, "could not fetch facility", http.StatusInternalServerError)
		return
	}
	writeJSONOrLog(w, http.StatusOK, facility)
}

// ListFacilitiesHandler godoc
// @Summary List facilities, optionally by operator
// @Tags geo
// @Produce json
// @Param operatorId query string false "Filter by operator"
// @Success 200 {array} models.RecyclingFacility
// @Router /api/v1/facilities [get]
func ListFacilitiesHandler(w http.ResponseWriter, r *http.Request) {
	facilities, err := facilityRepo.List(r.URL.Query().Get("operatorId"))
	if err != nil {
		http.Error(w, "could not fetch facilities", http.StatusInternalServerError)
		return
	}
	writeJSONOrLog(w, http.StatusOK, facilities)
}

// UpdateFacilityHandler godoc
// @Summary Update a facility
// @Tags geo
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param id path string true "Facility ID"
// @Param facility body FacilityRequest true "Updated facility"
// @Success 200 {object} models.RecyclingFacility
// @Failure 404 {string} string "Not found"
// @Router /api/v1/facilities/{id} [put]
func UpdateFacilityHandler(w http.ResponseWriter, r *http.Request) {
	claims, err := ClaimsFromRequest(r)
	if err != nil {
		http.Error(w, "unauthorized", http.StatusUnauthorized)
		return
	}

	facility, err := facilityRepo.GetByID(chi.URLParam(r, "id"))
	if err != nil {
		if errors.Is(err, repo.ErrFacilityNotFound) {
			http.Error(w, "facility not found", http.StatusNotFound)
			return
		}
		http.Error(w, "could not fetch facility", http.StatusInternalServerError)
		return
	}
	if claims.Role != models.RoleAdmin && facility.OperatorID != claims.UserID {
		http.Error(w, "forbidden", http.StatusForbidden)
		return
	}

	var req FacilityRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid input", http.StatusBadRequest)
		return
	}
	if validationErrors := validateCoordinates(req.Latitude, req.Longitude); len(validationErrors) > 0 {
		w.WriteHeader(http.StatusBadRequest)
		json.NewEncoder(w).Encode(validationErrors)
		return
	}

	facility.Name = req.Name
	facility.Address = req.Address
	facility.Latitude = req.Latitude
	facility.Longitude = req.Longitude
	facility.ContactEmail = req.ContactEmail
	facility.ContactPhone = req.ContactPhone
	facility.CapacityTons = req.CapacityTons
	facility.OperatingHours = req.OperatingHours
	facility.Certifications = req.Certifications

	updated, err := facilityRepo.Update(facility)
	if err != nil {
		http.Error(w, "could not update facility", http.StatusInternalServerError)
		return
	}

	if req.MaterialIDs != nil {
		if err := facilityRepo.SetMaterials(updated.ID, req.MaterialIDs); err != nil {
			http.Error(w, "could not assign materials", http.StatusInternalServerError)
			return
		}
		updated.MaterialIDs = req.MaterialIDs
	}
	writeJSONOrLog(w, http.StatusOK, updated)
}

// SetFacilityMaterialsHandler godoc
// @Summary Replace the materials a facility accepts
// @Tags geo
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param id path string true "Facility ID"
// @Param materials body SetMaterialsRequest true "Accepted material IDs"
// @Success 200 {object} models.RecyclingFacility
// @Failure 404 {string} string "Not found"
// @Router /api/v1/facilities/{id}/materials [put]
func SetFacilityMaterialsHandler(w http.ResponseWriter, r *http.Request) {
	claims, err := ClaimsFromRequest(r)
	if err != nil {
		http.Error(w, "unauthorized", http.StatusUnauthorized)
		return
	}

	facility, err := facilityRepo.GetByID(chi.URLParam(r, "id"))
	if err != nil {
		if errors.Is(err, repo.ErrFacilityNotFound) {
			http.Error(w, "facility not found", http.StatusNotFound)
			return
		}
		http.Error(w, "could not fetch facility", http.StatusInternalServerError)
		return
	}
	if claims.Role != models.RoleAdmin && facility.OperatorID != claims.UserID {
		http.Error(w, "forbidden", http.StatusForbidden)
		return
	}

	var req SetMaterialsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid input", http.StatusBadRequest)
		return
	}
	for _, id := range req.MaterialIDs {
		if _, err := materialRepo.GetByID(id); err != nil {
			http.Error(w, "material "+id+" not found", http.StatusBadRequest)
			return
		}
	}

	if err := facilityRepo.SetMaterials(facility.ID, req.MaterialIDs); err != nil {
		http.Error(w, "could not assign materials", http.StatusInternalServerError)
		return
	}
	facility.MaterialIDs = req.MaterialIDs
	writeJSONOrLog(w, http.StatusOK, facility)
}

// DeleteFacilityHandler godoc
// @Summary Soft-delete a facility
// @Tags geo
// @Security BearerAuth
// @Param id path string true "Facility ID"
// @Success 204 "Deleted"
// @Failure 404 {string} string "Not found"
// @Router /api/v1/facilities/{id} [delete]
func DeleteFacilityHandler(w http.ResponseWriter, r *http.Request) {
	if err := facilityRepo.SoftDelete(chi.URLParam(r, "id")); err != nil {
		if errors.Is(err, repo.ErrFacilityNotFound) {
			http.Error(w, "facility not found", http.StatusNotFound)
			return
		}
		http.Error(w, "could not delete facility", http.StatusInternalServerError)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// NearbyFacilitiesHandler godoc
// @Summary Facilities within a radius of a point, nearest first
// @Tags geo
// @Produce json
// @Param lat query number true "Latitude"
// @Param lng query number true "Longitude"
// @Param radiusKm query number false "Search radius in km"
// @Param limit query int false "Result count"
// @Success 200 {array} repo.NearbyFacility
// @Failure 400 {string} string "Invalid coordinates"
// @Router /api/v1/facilities/nearby [get]
func NearbyFacilitiesHandler(w http.ResponseWriter, r *http.Request) {
	lat, lng, radiusKm, limit, ok := nearbyParams(w, r)
	if !ok {
		return
	}

	results, err := facilityRepo.Nearby(lat, lng, radiusKm, limit)
	if err != nil {
		http.Error(w, "could not search facilities", http.StatusInternalServerError)
		return
	}
	writeJSONOrLog(w, http.StatusOK, results)
}

// CreateDropoffHandler godoc
// @Summary Register a public dropoff point
// @Tags geo
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param dropoff body DropoffRequest true "Dropoff point to register"
// @Success 201 {object} models.DropoffPoint
// @Failure 400 {object} []ValidationError
// @Router /api/v1/dropoffs [post]
func CreateDropoffHandler(w http.ResponseWriter, r *http.Request) {
	claims, err := ClaimsFromRequest(r)
	if err != nil {
		http.Error(w, "unauthorized", http.StatusUnauthorized)
		return
	}

	var req DropoffRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid input", http.StatusBadRequest)
		return
	}
	if req.Name == "" {
		http.Error(w, "name is required", http.StatusBadRequest)
		return
	}
	if validationErrors := validateCoordinates(req.Latitude, req.Longitude); len(validationErrors) > 0 {
		w.WriteHeader(http.StatusBadRequest)
		json.NewEncoder(w).Encode(validationErrors)
		return
	}

	active := true
	if req.Active != nil {
		active = *req.Active
	}

	created, err := dropoffRepo.Create(models.DropoffPoint{
		Name:           req.Name,
		Description:    req.Description,
		Address:        req.Address,
		Latitude:       req.Latitude,
		Longitude:      req.Longitude,
		OperatorID:     claims.UserID,
		OperatingHours: req.OperatingHours,
		ContactPhone:   req.ContactPhone,
		ContactEmail:   req.ContactEmail,
		Website:        req.Website,
		Active:         active,
	})
	if err != nil {
		http.Error(w, "could not create dropoff point", http.StatusInternalServerError)
		return
	}

	if len(req.MaterialIDs) > 0 {
		if err := dropoffRepo.SetMaterials(created.ID, req.MaterialIDs); err != nil {
			http.Error(w, "could not assign materials", http.StatusInternalServerError)
			return
		}
		created.MaterialIDs = req.MaterialIDs
	}
	writeJSONOrLog(w, http.StatusCreated, created)
}

// GetDropoffHandler godoc
// @Summary Get dropoff point by ID
// @Tags geo
// @Produce json
// @Param id path string true "Dropoff ID"
// @Success 200 {object} models.DropoffPoint
// @Failure 404 {string} string "Not found"
// @Router /api/v1/dropoffs/{id} [get]
func GetDropoffHandler(w http.ResponseWriter, r *http.Request) {
	dropoff, err := dropoffRepo.GetByID(chi.URLParam(r, "id"))
	if err != nil {
		if errors.Is(err, repo.ErrDropoffNotFound) {
			http.Error(w, "dropoff point not found", http.StatusNotFound)
			return
		}
		http.Error(w, "could not fetch dropoff point", http.StatusInternalServerError)
		return
	}
	writeJSONOrLog(w, http.StatusOK, dropoff)
}

// ListDropoffsHandler godoc
// @Summary List dropoff points
// @Tags geo
// @Produce json
// @Param all query bool false "Include inactive points"
// @Success 200 {array} models.DropoffPoint
// @Router /api/v1/dropoffs [get]
func ListDropoffsHandler(w http.ResponseWriter, r *http.Request) {
	includeAll := r.URL.Query().Get("all") == "true"
	dropoffs, err := dropoffRepo.List(!includeAll)
	if err != nil {
		http.Error(w, "could not fetch dropoff points", http.StatusInternalServerError)
		return
	}
	writeJSONOrLog(w, http.StatusOK, dropoffs)
}

// UpdateDropoffHandler godoc
// @Summary Update a dropoff point
// @Tags geo
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param id path string true "Dropoff ID"
// @Param dropoff body DropoffRequest true "Updated dropoff point"
// @Success 200 {object} models.DropoffPoint
// @Failure 404 {string} string "Not found"
// @Router /api/v1/dropoffs/{id} [put]
func UpdateDropoffHandler(w http.ResponseWriter, r *http.Request) {
	claims, err := ClaimsFromRequest(r)
	if err != nil {
		http.Error(w, "unauthorized", http.StatusUnauthorized)
		return
	}

	dropoff, err := dropoffRepo.GetByID(chi.URLParam(r, "id"))
	if err != nil {
		if errors.Is(err, repo.ErrDropoffNotFound) {
			http.Error(w, "dropoff point not found", http.StatusNotFound)
			return
		}
		http.Error(w, "could not fetch dropoff point", http.StatusInternalServerError)
		return
	}
	if claims.Role != models.RoleAdmin && dropoff.OperatorID != claims.UserID {
		http.Error(w, "forbidden", http.StatusForbidden)
		return
	}

	var req DropoffRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid input", http.StatusBadRequest)
		return
	}
	if validationErrors := validateCoordinates(req.Latitude, req.Longitude); len(validationErrors) > 0 {
		w.WriteHeader(http.StatusBadRequest)
		json.NewEncoder(w).Encode(validationErrors)
		return
	}

	dropoff.Name = req.Name
	dropoff.Description = req.Description
	dropoff.Address = req.Address
	dropoff.Latitude = req.Latitude
	dropoff.Longitude = req.Longitude
	dropoff.OperatingHours = req.OperatingHours
	dropoff.ContactPhone = req.ContactPhone
	dropoff.ContactEmail = req.ContactEmail
	dropoff.Website = req.Website
	if req.Active != nil {
		dropoff.Active = *req.Active
	}

	updated, err := dropoffRepo.Update(dropoff)
	if err != nil {
		http.Error(w, "could not update dropoff point", http.StatusInternalServerError)
		return
	}

	if req.MaterialIDs != nil {
		if err := dropoffRepo.SetMaterials(updated.ID, req.MaterialIDs); err != nil {
			http.Error(w, "could not assign materials", http.StatusInternalServerError)
			return
		}
		updated.MaterialIDs = req.MaterialIDs
	}
	writeJSONOrLog(w, http.StatusOK, updated)
}

// SetDropoffMaterialsHandler godoc
// @Summary Replace the materials a dropoff point accepts
// @Tags geo
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param id path string true "Dropoff ID"
// @Param materials body SetMaterialsRequest true "Accepted material IDs"
// @Success 200 {object} models.DropoffPoint
// @Failure 404 {string} string "Not found"
// @Router /api/v1/dropoffs/{id}/materials [put]
func SetDropoffMaterialsHandler(w http.ResponseWriter, r *http.Request) {
	claims, err := ClaimsFromRequest(r)
	if err != nil {
		http.Error(w, "unauthorized", http.StatusUnauthorized)
		return
	}

	dropoff, err := dropoffRepo.GetByID(chi.URLParam(r, "id"))
	if err != nil {
		if errors.Is(err, repo.ErrDropoffNotFound) {
			http.Error(w, "dropoff point not found", http.StatusNotFound)
			return
		}
		http.Error(w, "could not fetch dropoff point", http.StatusInternalServerError)
		return
	}
	if claims.Role != models.RoleAdmin && dropoff.OperatorID != claims.UserID {
		http.Error(w, "forbidden", http.StatusForbidden)
		return
	}

	var req SetMaterialsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid input", http.StatusBadRequest)
		return
	}
	for _, id := range req.MaterialIDs {
		if _, err := materialRepo.GetByID(id); err != nil {
			http.Error(w, "material "+id+" not found", http.StatusBadRequest)
			return
		}
	}

	if err := dropoffRepo.SetMaterials(dropoff.ID, req.MaterialIDs); err != nil {
		http.Error(w, "could not assign materials", http.StatusInternalServerError)
		return
	}
	dropoff.MaterialIDs = req.MaterialIDs
	writeJSONOrLog(w, http.StatusOK, dropoff)
}

// DeleteDropoffHandler godoc
// @Summary Soft-delete a dropoff point
// @Tags geo
// @Security BearerAuth
// @Param id path string true "Dropoff ID"
// @Success 204 "Deleted"
// @Failure 404 {string} string "Not found"
// @Router /api/v1/dropoffs/{id} [delete]
func DeleteDropoffHandler(w http.ResponseWriter, r *http.Request) {
	if err := dropoffRepo.SoftDelete(chi.URLParam(r, "id")); err != nil {
		if errors.Is(err, repo.ErrDropoffNotFound) {
			http.Error(w, "dropoff point not found", http.StatusNotFound)
			return
		}
		http.Error(w, "could not delete dropoff point", http.StatusInternalServerError)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// NearbyDropoffsHandler godoc
// @Summary Dropoff points within a radius of a point, nearest first
// @Tags geo
// @Produce json
// @Param lat query number true "Latitude"
// @Param lng query number true "Longitude"
// @Param radiusKm query number false "Search radius in km"
// @Param limit query int false "Result count"
// @Success 200 {array} repo.NearbyDropoff
// @Failure 400 {string} string "Invalid coordinates"
// @Router /api/v1/dropoffs/nearby [get]
func NearbyDropoffsHandler(w http.ResponseWriter, r *http.Request) {
	lat, lng, radiusKm, limit, ok := nearbyParams(w, r)
	if !ok {
		return
	}

	results, err := dropoffRepo.Nearby(lat, lng, radiusKm, limit)
	if err != nil {
		http.Error(w, "could not search dropoff points", http.StatusInternalServerError)
		return
	}
	writeJSONOrLog(w, http.StatusOK, results)
}

func nearbyParams(w http.ResponseWriter, r *http.Request) (lat, lng, radiusKm float64, limit int, ok bool) {
	q := r.URL.Query()

	latPtr := parseFloatPtr(q.Get("lat"))
	lngPtr := parseFloatPtr(q.Get("lng"))
	if latPtr == nil || lngPtr == nil {
		http.Error(w, "lat and lng are required", http.StatusBadRequest)
		return 0, 0, 0, 0, false
	}
	if !models.ValidLatitude(*latPtr) || !models.ValidLongitude(*lngPtr) {
		http.Error(w, "invalid coordinates", http.StatusBadRequest)
		return 0, 0, 0, 0, false
	}

	radiusKm = limits.NearbyDefaultRadiusKm
	if radiusPtr := parseFloatPtr(q.Get("radiusKm")); radiusPtr != nil {
		if *radiusPtr <= 0 {
			http.Error(w, "radius must be greater than zero", http.StatusBadRequest)
			return 0, 0, 0, 0, false
		}
		radiusKm = *radiusPtr
	}

	limit = 20
	if limitPtr := parseIntPtr(q.Get("limit")); limitPtr != nil && *limitPtr > 0 {
		limit = *limitPtr
	}
	return *latPtr, *lngPtr, radiusKm, limit, true
}
