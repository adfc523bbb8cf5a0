package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	appmetrics "github.com/greenbridge-eco/greenbridge/internal/metrics"
	"github.com/greenbridge-eco/greenbridge/internal/models"
	"github.com/greenbridge-eco/greenbridge/internal/repo"
	"github.com/greenbridge-eco/greenbridge/internal/ws"
)

// CreateCollectionHandler godoc
// @Summary Create a waste collection (starts pending)
// @Tags collections
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param collection body CollectionRequest true "Collection to create"
// @Success 201 {object} CollectionResponse
// @Failure 400 {object} []ValidationError
// @Router /api/v1/collections [post]
func CreateCollectionHandler(w http.ResponseWriter, r *http.Request) {
	claims, err := ClaimsFromRequest(r)
	if err != nil {
		http.Error(w, "unauthorized", http.StatusUnauthorized)
		return
	}

	var req CollectionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid input", http.StatusBadRequest)
		return
	}
	if req.CollectionDate.IsZero() {
		http.Error(w, "collection date is required", http.StatusBadRequest)
		return
	}
	if req.Latitude != nil && req.Longitude != nil {
		if validationErrors := validateCoordinates(*req.Latitude, *req.Longitude); len(validationErrors) > 0 {
			w.WriteHeader(http.StatusBadRequest)
			json.NewEncoder(w).Encode(validationErrors)
			return
		}
	}

	collection := models.WasteCollection{
		CollectionDate: req.CollectionDate,
		Status:         models.CollectionPending,
		LocationName:   req.LocationName,
		Address:        req.Address,
		Latitude:       req.Latitude,
		Longitude:      req.Longitude,
		Notes:          req.Notes,
		RecyclerID:     req.RecyclerID,
		BrandID:        req.BrandID,
		CustomCode:     req.CustomCode,
		CreatedBy:      claims.UserID,
	}

	created, err := collectionRepo.Create(collection)
	if err != nil {
		http.Error(w, "could not create collection", http.StatusInternalServerError)
		return
	}
	writeJSONOrLog(w, http.StatusCreated, toCollectionResponse(created))
}

// GetCollectionHandler godoc
// @Summary Get collection by ID, items included
// @Tags collections
// @Security BearerAuth
// @Produce json
// @Param id path string true "Collection ID"
// @Success 200 {object} CollectionResponse
// @Failure 404 {string} string "Not found"
// @Router /api/v1/collections/{id} [get]
func GetCollectionHandler(w http.ResponseWriter, r *http.Request) {
	collection, err := collectionRepo.GetByID(chi.URLParam(r, "id"))
	if err != nil {
		if errors.Is(err, repo.ErrCollectionNotFound) {
			http.Error(w, "collection not found", http.StatusNotFound)
			return
		}
		http.Error(w, "could not fetch collection", http.StatusInternalServerError)
		return
	}
	writeJSONOrLog(w, http.StatusOK, toCollectionResponse(collection))
}

// FilterCollectionsHandler godoc
// @Summary Filter and paginate collections
// @Tags collections
// @Security BearerAuth
// @Produce json
// @Param status query string false "Filter by status"
// @Param recyclerId query string false "Filter by recycler organization"
// @Param brandId query string false "Filter by brand organization"
// @Param from query string false "Collection date lower bound (RFC3339)"
// @Param to query string false "Collection date upper bound (RFC3339)"
// @Param offset query int false "Offset for pagination"
// @Param limit query int false "Limit for pagination"
// @Success 200 {object} CollectionsSearchResult
// @Failure 400 {string} string "Invalid query"
// @Router /api/v1/collections [get]
func FilterCollectionsHandler(w http.ResponseWriter, r *http.Request) {
	claims, err := ClaimsFromRequest(r)
	if err != nil {
		http.Error(w, "unauthorized", http.StatusUnauthorized)
		return
	}

	q := r.URL.Query()
	filter := repo.CollectionFilter{
		Status:     q.Get("status"),
		RecyclerID: q.Get("recyclerId"),
		BrandID:    q.Get("brandId"),
		Offset:     parseIntPtr(q.Get("offset")),
		Limit:      parseIntPtr(q.Get("limit")),
	}
	if filter.Status != "" && !models.ValidCollectionStatus(filter.Status) {
		http.Error(w, "invalid status", http.StatusBadRequest)
		return
	}
	if from := q.Get("from"); from != "" {
		t, err := time.Parse(time.RFC3339, from)
		if err != nil {
			http.Error(w, "invalid from date", http.StatusBadRequest)
			return
		}
		filter.From = &t
	}
	if to := q.Get("to"); to != "" {
		t, err := time.Parse(time.RFC3339, to)
		if err != nil {
			http.Error(w, "invalid to date", http.StatusBadRequest)
			return
		}
		filter.To = &t
	}

	// Non-admins only see their own collections.
	if claims.Role != models.RoleAdmin {
		filter.CreatedBy = claims.UserID
	}

	collections, total, err := collectionRepo.Filter(filter)
	if err != nil {
		http.Error(w, "could not filter collections", http.StatusInternalServerError)
		return
	}

	resp := CollectionsSearchResult{
		Data: make([]CollectionResponse, len(collections)),
		Meta: Meta{TotalCount: total},
	}
	for i, c := range collections {
		resp.Data[i] = toCollectionResponse(c)
	}
	writeJSONOrLog(w, http.StatusOK, resp)
}

// UpdateCollectionHandler godoc
// @Summary Update a collection's details
// @Tags collections
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param id path string true "Collection ID"
// @Param collection body CollectionRequest true "Updated collection"
// @Success 200 {object} CollectionResponse
// @Failure 403 {string} string "Forbidden"
// @Failure 404 {string} string "Not found"
// @Failure 409 {string} string "Collection already completed"
// @Router /api/v1/collections/{id} [put]
func UpdateCollectionHandler(w http.ResponseWriter, r *http.Request) {
	claims, err := ClaimsFromRequest(r)
	if err != nil {
		http.Error(w, "unauthorized", http.StatusUnauthorized)
		return
	}

	collection, err := collectionRepo.GetByID(chi.URLParam(r, "id"))
	if err != nil {
		if errors.Is(err, repo.ErrCollectionNotFound) {
			http.Error(w, "collection not found", http.StatusNotFound)
			return
		}
		http.Error(w, "could not fetch collection", http.StatusInternalServerError)
		return
	}
	if claims.Role != models.RoleAdmin && collection.CreatedBy != claims.UserID {
		http.Error(w, "forbidden", http.StatusForbidden)
		return
	}
	if collection.Status == models.CollectionCompleted || collection.Status == models.CollectionCancelled {
		http.Error(w, "collection can no longer be edited", http.StatusConflict)
		return
	}

	var req CollectionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid input", http.StatusBadRequest)
		return
	}

	if !req.CollectionDate.IsZero() {
		collection.CollectionDate = req.CollectionDate
	}
	collection.LocationName = req.LocationName
	collection.Address = req.Address
	collection.Latitude = req.Latitude
	collection.Longitude = req.Longitude
	collection.Notes = req.Notes
	collection.RecyclerID = req.RecyclerID
	collection.BrandID = req.BrandID
	collection.CustomCode = req.CustomCode

	updated, err := collectionRepo.Update(collection)
	if err != nil {
		http.Error(w, "could not update collection", http.StatusInternalServerError)
		return
	}
	writeJSONOrLog(w, http.StatusOK, toCollectionResponse(updated))
}

// ChangeCollectionStatusHandler godoc
// @Summary Move a collection through its lifecycle
// @Description Allowed transitions: pending→scheduled/cancelled, scheduled→in_progress/cancelled, in_progress→completed
// @Tags collections
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param id path string true "Collection ID"
// @Param status body StatusChangeRequest true "Target status"
// @Success 200 {object} CollectionResponse
// @Failure 400 {string} string "Invalid status"
// @Failure 403 {string} string "Forbidden"
// @Failure 404 {string} string "Not found"
// @Failure 409 {string} string "Transition not allowed"
// @Router /api/v1/collections/{id}/status [post]
func ChangeCollectionStatusHandler(w http.ResponseWriter, r *http.Request) {
	claims, err := ClaimsFromRequest(r)
	if err != nil {
		http.Error(w, "unauthorized", http.StatusUnauthorized)
		return
	}

	var req StatusChangeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid input", http.StatusBadRequest)
		return
	}
	if !models.ValidCollectionStatus(req.Status) {
		http.Error(w, "invalid status", http.StatusBadRequest)
		return
	}

	id := chi.URLParam(r, "id")
	collection, err := collectionRepo.GetByID(id)
	if err != nil {
		if errors.Is(err, repo.ErrCollectionNotFound) {
			http.Error(w, "collection not found", http.StatusNotFound)
			return
		}
		http.Error(w, "could not fetch collection", http.StatusInternalServerError)
		return
	}
	if claims.Role != models.RoleAdmin && collection.CreatedBy != claims.UserID {
		http.Error(w, "forbidden", http.StatusForbidden)
		return
	}

	if !models.CanTransition(collection.Status, req.Status) {
		http.Error(w, "transition from "+collection.Status+" to "+req.Status+" not allowed", http.StatusConflict)
		return
	}

	// The repo re-checks the source status so concurrent transitions cannot
	// both win.
	updated, err := collectionRepo.UpdateStatus(id, collection.Status, req.Status)
	if err != nil {
		if errors.Is(err, repo.ErrInvalidTransition) {
			http.Error(w, "collection status changed concurrently", http.StatusConflict)
			return
		}
		http.Error(w, "could not change status", http.StatusInternalServerError)
		return
	}

	appmetrics.RecordCollectionTransition(updated.Status)
	if hub != nil {
		hub.Publish(ws.Event{
			Type:    ws.EventCollectionStatus,
			UserID:  updated.CreatedBy,
			Subject: updated.ID,
			Message: "Collection " + updated.ID + " is now " + updated.Status,
		})
	}

	writeJSONOrLog(w, http.StatusOK, toCollectionResponse(updated))
}

// DeleteCollectionHandler godoc
// @Summary Delete a collection and its items
// @Tags collections
// @Security BearerAuth
// @Param id path string true "Collection ID"
// @Success 204 "Deleted"
// @Failure 403 {string} string "Forbidden"
// @Failure 404 {string} string "Not found"
// @Router /api/v1/collections/{id} [delete]
func DeleteCollectionHandler(w http.ResponseWriter, r *http.Request) {
	claims, err := ClaimsFromRequest(r)
	if err != nil {
		http.Error(w, "unauthorized", http.StatusUnauthorized)
		return
	}

	collection, err := collectionRepo.GetByID(chi.URLParam(r, "id"))
	if err != nil {
		if errors.Is(err, repo.ErrCollectionNotFound) {
			http.Error(w, "collection not found", http.StatusNotFound)
			return
		}
		http.Error(w, "could not fetch collection", http.StatusInternalServerError)
		return
	}
	if claims.Role != models.RoleAdmin && collection.CreatedBy != claims.UserID {
		http.Error(w, "forbidden", http.StatusForbidden)
		return
	}

	if err := collectionRepo.Delete(collection.ID); err != nil {
		if errors.Is(err, repo.ErrCollectionNotFound) {
			http.Error(w, "collection not found", http.StatusNotFound)
			return
		}
		http.Error(w, "could not delete collection", http.StatusInternalServerError)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// AddCollectionItemHandler godoc
// @Summary Add a weighed item to a collection
// @Tags collections
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param id path string true "Collection ID"
// @Param item body CollectionItemRequest true "Item to add"
// @Success 201 {object} models.CollectionItem
// @Failure 400 {object} []ValidationError
// @Failure 404 {string} string "Not found"
// @Failure 409 {string} string "Collection already completed"
// @Router /api/v1/collections/{id}/items [post]
func AddCollectionItemHandler(w http.ResponseWriter, r *http.Request) {
	var req CollectionItemRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid input", http.StatusBadRequest)
		return
	}

	validationErrors := validateCollectionItem(req)
	if len(validationErrors) > 0 {
		w.WriteHeader(http.StatusBadRequest)
		json.NewEncoder(w).Encode(validationErrors)
		return
	}

	collectionID := chi.URLParam(r, "id")
	collection, err := collectionRepo.GetByID(collectionID)
	if err != nil {
		if errors.Is(err, repo.ErrCollectionNotFound) {
			http.Error(w, "collection not found", http.StatusNotFound)
			return
		}
		http.Error(w, "could not fetch collection", http.StatusInternalServerError)
		return
	}
	if collection.Status == models.CollectionCompleted || collection.Status == models.CollectionCancelled {
		http.Error(w, "collection can no longer be edited", http.StatusConflict)
		return
	}

	if _, err := materialRepo.GetByID(req.MaterialID); err != nil {
		http.Error(w, "material not found", http.StatusBadRequest)
		return
	}

	item, err := collectionRepo.AddItem(models.CollectionItem{
		CollectionID: collectionID,
		MaterialID:   req.MaterialID,
		WeightKg:     req.WeightKg,
		Quantity:     req.Quantity,
		WasteCode:    req.WasteCode,
		Notes:        req.Notes,
	})
	if err != nil {
		http.Error(w, "could not add item", http.StatusInternalServerError)
		return
	}
	writeJSONOrLog(w, http.StatusCreated, item)
}

// RemoveCollectionItemHandler godoc
// @Summary Remove an item from a collection
// @Tags collections
// @Security BearerAuth
// @Param id path string true "Collection ID"
// @Param itemId path string true "Item ID"
// @Success 204 "Removed"
// @Failure 404 {string} string "Not found"
// @Router /api/v1/collections/{id}/items/{itemId} [delete]
func RemoveCollectionItemHandler(w http.ResponseWriter, r *http.Request) {
	err := collectionRepo.RemoveItem(chi.URLParam(r, "id"), chi.URLParam(r, "itemId"))
	if err != nil {
		switch {
		case errors.Is(err, repo.ErrCollectionNotFound):
			http.Error(w, "collection not found", http.StatusNotFound)
		case errors.Is(err, repo.ErrItemNotFound):
			http.Error(w, "item not found", http.StatusNotFound)
		default:
			http.Error(w, "could not remove item", http.StatusInternalServerError)
		}
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func toCollectionResponse(c models.WasteCollection) CollectionResponse {
	return CollectionResponse{WasteCollection: c, TotalWeightKg: c.TotalWeightKg()}
}
