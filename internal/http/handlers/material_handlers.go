package handlers

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/greenbridge-eco/greenbridge/internal/models"
	"github.com/greenbridge-eco/greenbridge/internal/repo"
	"github.com/greenbridge-eco/greenbridge/internal/search"
)

// CreateCategoryHandler godoc
// @Summary Create a waste category
// @Tags materials
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param category body CategoryRequest true "Category to add"
// @Success 201 {object} models.WasteCategory
// @Failure 400 {string} string "Invalid input"
// @Router /api/v1/categories [post]
func CreateCategoryHandler(w http.ResponseWriter, r *http.Request) {
	var req CategoryRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid input", http.StatusBadRequest)
		return
	}
	if strings.TrimSpace(req.Name) == "" || strings.TrimSpace(req.Code) == "" {
		http.Error(w, "name and code are required", http.StatusBadRequest)
		return
	}

	if req.ParentID != "" {
		if _, err := categoryRepo.GetByID(req.ParentID); err != nil {
			http.Error(w, "parent category not found", http.StatusBadRequest)
			return
		}
	}

	created, err := categoryRepo.Create(models.WasteCategory{
		Name:        req.Name,
		Code:        req.Code,
		Description: req.Description,
		ParentID:    req.ParentID,
		Recyclable:  req.Recyclable,
		Hazardous:   req.Hazardous,
	})
	if err != nil {
		if errors.Is(err, repo.ErrDuplicatedValueUnique) {
			http.Error(w, "category code already exists", http.StatusConflict)
			return
		}
		http.Error(w, "could not create category", http.StatusInternalServerError)
		return
	}
	writeJSONOrLog(w, http.StatusCreated, created)
}

// GetCategoriesHandler godoc
// @Summary List all waste categories
// @Tags materials
// @Produce json
// @Success 200 {array} models.WasteCategory
// @Router /api/v1/categories [get]
func GetCategoriesHandler(w http.ResponseWriter, r *http.Request) {
	categories, err := categoryRepo.GetAll()
	if err != nil {
		http.Error(w, "could not fetch categories", http.StatusInternalServerError)
		return
	}
	writeJSONOrLog(w, http.StatusOK, categories)
}

// GetCategoryHandler godoc
// @Summary Get a category with its full hierarchical path
// @Tags materials
// @Produce json
// @Param id path string true "Category ID"
// @Success 200 {object} CategoryResponse
// @Failure 404 {string} string "Not found"
// @Router /api/v1/categories/{id} [get]
func GetCategoryHandler(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	category, err := categoryRepo.GetByID(id)
	if err != nil {
		if errors.Is(err, repo.ErrCategoryNotFound) {
			http.Error(w, "category not found", http.StatusNotFound)
			return
		}
		http.Error(w, "could not fetch category", http.StatusInternalServerError)
		return
	}

	path, err := categoryRepo.Path(id)
	if err != nil {
		log.Printf("failed to resolve category path: %v", err)
	}
	writeJSONOrLog(w, http.StatusOK, CategoryResponse{WasteCategory: category, Path: path})
}

// UpdateCategoryHandler godoc
// @Summary Update a waste category
// @Tags materials
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param id path string true "Category ID"
// @Param category body CategoryRequest true "Updated category"
// @Success 200 {object} models.WasteCategory
// @Failure 404 {string} string "Not found"
// @Router /api/v1/categories/{id} [put]
func UpdateCategoryHandler(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	var req CategoryRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid input", http.StatusBadRequest)
		return
	}
	if req.ParentID == id {
		http.Error(w, "category cannot be its own parent", http.StatusBadRequest)
		return
	}

	category, err := categoryRepo.GetByID(id)
	if err != nil {
		if errors.Is(err, repo.ErrCategoryNotFound) {
			http.Error(w, "category not found", http.StatusNotFound)
			return
		}
		http.Error(w, "could not fetch category", http.StatusInternalServerError)
		return
	}

	category.Name = req.Name
	category.Code = req.Code
	category.Description = req.Description
	category.ParentID = req.ParentID
	category.Recyclable = req.Recyclable
	category.Hazardous = req.Hazardous

	updated, err := categoryRepo.Update(category)
	if err != nil {
		http.Error(w, "could not update category", http.StatusInternalServerError)
		return
	}
	writeJSONOrLog(w, http.StatusOK, updated)
}

// DeleteCategoryHandler godoc
// @Summary Soft-delete a waste category
// @Tags materials
// @Security BearerAuth
// @Param id path string true "Category ID"
// @Success 204 "Deleted"
// @Failure 404 {string} string "Not found"
// @Router /api/v1/categories/{id} [delete]
func DeleteCategoryHandler(w http.ResponseWriter, r *http.Request) {
	if err := categoryRepo.SoftDelete(chi.URLParam(r, "id")); err != nil {
		if errors.Is(err, repo.ErrCategoryNotFound) {
			http.Error(w, "category not found", http.StatusNotFound)
			return
		}
		http.Error(w, "could not delete category", http.StatusInternalServerError)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// CreateMaterialHandler godoc
// @Summary Create a material
// @Tags materials
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param material body MaterialRequest true "Material to add"
// @Success 201 {object} models.Material
// @Failure 400 {object} []ValidationError
// @Router /api/v1/materials [post]
func CreateMaterialHandler(w http.ResponseWriter, r *http.Request) {
	var req MaterialRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid input", http.StatusBadRequest)
		return
	}

	validationErrors := validateMaterial(req)
	if len(validationErrors) > 0 {
		w.WriteHeader(http.StatusBadRequest)
		json.NewEncoder(w).Encode(validationErrors)
		return
	}

	if _, err := categoryRepo.GetByID(req.CategoryID); err != nil {
		http.Error(w, "category not found", http.StatusBadRequest)
		return
	}

	created, err := materialRepo.Create(models.Material{
		Name:        req.Name,
		Code:        req.Code,
		Description: req.Description,
		CategoryID:  req.CategoryID,
		Recyclable:  req.Recyclable,
		ValuePerKg:  req.ValuePerKg,
		CO2OffsetKg: req.CO2OffsetKg,
	})
	if err != nil {
		if errors.Is(err, repo.ErrDuplicatedValueUnique) {
			http.Error(w, "material code already exists", http.StatusConflict)
			return
		}
		http.Error(w, "could not create material", http.StatusInternalServerError)
		return
	}

	indexMaterial(created)
	writeJSONOrLog(w, http.StatusCreated, created)
}

// GetMaterialHandler godoc
// @Summary Get material by ID
// @Tags materials
// @Produce json
// @Param id path string true "Material ID"
// @Success 200 {object} models.Material
// @Failure 404 {string} string "Not found"
// @Router /api/v1/materials/{id} [get]
func GetMaterialHandler(w http.ResponseWriter, r *http.Request) {
	material, err := materialRepo.GetByID(chi.URLParam(r, "id"))
	if err != nil {
		if errors.Is(err, repo.ErrMaterialNotFound) {
			http.Error(w, "material not found", http.StatusNotFound)
			return
		}
		http.Error(w, "could not fetch material", http.StatusInternalServerError)
		return
	}
	writeJSONOrLog(w, http.StatusOK, material)
}

// FilterMaterialsHandler godoc
// @Summary Filter and paginate materials
// @Tags materials
// @Produce json
// @Param q query string false "Filter by name or code"
// @Param categoryId query string false "Filter by category"
// @Param recyclable query bool false "Filter by recyclability"
// @Param offset query int false "Offset for pagination"
// @Param limit query int false "Limit for pagination"
// @Success 200 {object} MaterialsSearchResult
// @Failure 400 {string} string "Invalid query"
// @Router /api/v1/materials [get]
func FilterMaterialsHandler(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	filter := repo.MaterialFilter{
		Query:      q.Get("q"),
		CategoryID: q.Get("categoryId"),
		Recyclable: parseBoolPtr(q.Get("recyclable")),
		Offset:     parseIntPtr(q.Get("offset")),
		Limit:      parseIntPtr(q.Get("limit")),
	}
	if filter.Limit != nil && *filter.Limit <= 0 {
		http.Error(w, "limit must be greater than zero", http.StatusBadRequest)
		return
	}
	if filter.Offset != nil && *filter.Offset < 0 {
		http.Error(w, "offset must be zero or positive", http.StatusBadRequest)
		return
	}

	materials, total, err := materialRepo.Filter(filter)
	if err != nil {
		http.Error(w, "could not filter materials", http.StatusInternalServerError)
		return
	}

	writeJSONOrLog(w, http.StatusOK, MaterialsSearchResult{
		Data: materials,
		Meta: Meta{TotalCount: total},
	})
}

// SearchMaterialsHandler godoc
// @Summary Similarity search over material names
// @Tags materials
// @Produce json
// @Param q query string true "Free-text query"
// @Param limit query int false "Result count (default 10)"
// @Success 200 {object} MaterialSimilarityResult
// @Failure 400 {string} string "Invalid query"
// @Router /api/v1/materials/search [get]
func SearchMaterialsHandler(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query().Get("q")
	if strings.TrimSpace(query) == "" {
		http.Error(w, "query is required", http.StatusBadRequest)
		return
	}
	if vectorStore == nil {
		http.Error(w, "search is not available", http.StatusServiceUnavailable)
		return
	}

	k := 10
	if limit := parseIntPtr(r.URL.Query().Get("limit")); limit != nil && *limit > 0 {
		k = *limit
	}

	hits, err := vectorStore.Search(search.EmbedText(query, search.DefaultDims), k)
	if err != nil {
		http.Error(w, "search failed", http.StatusInternalServerError)
		return
	}

	result := MaterialSimilarityResult{Data: []models.Material{}}
	for _, hit := range hits {
		material, err := materialRepo.GetByID(hit.ID)
		if err != nil {
			continue // deleted since indexing
		}
		result.Data = append(result.Data, material)
	}
	writeJSONOrLog(w, http.StatusOK, result)
}

// UpdateMaterialHandler godoc
// @Summary Update a material
// @Tags materials
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param id path string true "Material ID"
// @Param material body MaterialRequest true "Updated material"
// @Success 200 {object} models.Material
// @Failure 400 {object} []ValidationError
// @Failure 404 {string} string "Not found"
// @Router /api/v1/materials/{id} [put]
func UpdateMaterialHandler(w http.ResponseWriter, r *http.Request) {
	var req MaterialRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid input", http.StatusBadRequest)
		return
	}

	validationErrors := validateMaterial(req)
	if len(validationErrors) > 0 {
		w.WriteHeader(http.StatusBadRequest)
		json.NewEncoder(w).Encode(validationErrors)
		return
	}

	material, err := materialRepo.GetByID(chi.URLParam(r, "id"))
	if err != nil {
		if errors.Is(err, repo.ErrMaterialNotFound) {
			http.Error(w, "material not found", http.StatusNotFound)
			return
		}
		http.Error(w, "could not fetch material", http.StatusInternalServerError)
		return
	}

	material.Name = req.Name
	material.Code = req.Code
	material.Description = req.Description
	material.CategoryID = req.CategoryID
	material.Recyclable = req.Recyclable
	material.ValuePerKg = req.ValuePerKg
	material.CO2OffsetKg = req.CO2OffsetKg

	updated, err := materialRepo.Update(material)
	if err != nil {
		http.Error(w, "could not update material", http.StatusInternalServerError)
		return
	}

	indexMaterial(updated)
	writeJSONOrLog(w, http.StatusOK, updated)
}

// DeleteMaterialHandler godoc
// @Summary Soft-delete a material
// @Tags materials
// @Security BearerAuth
// @Param id path string true "Material ID"
// @Success 204 "Deleted"
// @Failure 404 {string} string "Not found"
// @Failure 409 {string} string "Material in use"
// @Router /api/v1/materials/{id} [delete]
func DeleteMaterialHandler(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if err := materialRepo.SoftDelete(id); err != nil {
		switch {
		case errors.Is(err, repo.ErrMaterialNotFound):
			http.Error(w, "material not found", http.StatusNotFound)
		case errors.Is(err, repo.ErrMaterialInUse):
			http.Error(w, "material is referenced by collection items", http.StatusConflict)
		default:
			http.Error(w, "could not delete material", http.StatusInternalServerError)
		}
		return
	}

	if vectorStore != nil {
		if err := vectorStore.Remove(id); err != nil {
			log.Printf("failed to remove material from search index: %v", err)
		}
	}
	w.WriteHeader(http.StatusNoContent)
}

func indexMaterial(m models.Material) {
	if vectorStore == nil {
		return
	}
	text := m.Name + " " + m.Description
	if err := vectorStore.Index(m.ID, search.EmbedText(text, search.DefaultDims)); err != nil {
		log.Printf("failed to index material %s: %v", m.ID, err)
	}
}
