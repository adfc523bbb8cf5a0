package repo

import (
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"

	models "github.com/greenbridge-eco/greenbridge/internal/models"
)

type InMemoryCategoryRepository struct {
	categories []models.WasteCategory
}

func NewInMemoryCategoryRepository() *InMemoryCategoryRepository {
	return &InMemoryCategoryRepository{categories: []models.WasteCategory{}}
}

func (r *InMemoryCategoryRepository) Create(c models.WasteCategory) (models.WasteCategory, error) {
	for _, existing := range r.categories {
		if existing.Code == c.Code && existing.DeletedAt == nil {
			return models.WasteCategory{}, ErrDuplicatedValueUnique
		}
	}
	if c.ID == "" {
		c.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	c.CreatedAt = now
	c.UpdatedAt = now
	r.categories = append(r.categories, c)
	return c, nil
}

func (r *InMemoryCategoryRepository) GetAll() ([]models.WasteCategory, error) {
	var categories []models.WasteCategory
	for _, c := range r.categories {
		if c.DeletedAt == nil {
			categories = append(categories, c)
		}
	}
	sort.Slice(categories, func(i, j int) bool { return categories[i].Name < categories[j].Name })
	return categories, nil
}

func (r *InMemoryCategoryRepository) GetByID(id string) (models.WasteCategory, error) {
	for _, c := range r.categories {
		if c.ID == id && c.DeletedAt == nil {
			return c, nil
		}
	}
	return models.WasteCategory{}, ErrCategoryNotFound
}

func (r *InMemoryCategoryRepository) Update(c models.WasteCategory) (models.WasteCategory, error) {
	for i, existing := range r.categories {
		if existing.ID == c.ID && existing.DeletedAt == nil {
			c.Code = existing.Code
			c.CreatedAt = existing.CreatedAt
			c.UpdatedAt = time.Now().UTC()
			r.categories[i] = c
			return c, nil
		}
	}
	return models.WasteCategory{}, ErrCategoryNotFound
}

func (r *InMemoryCategoryRepository) SoftDelete(id string) error {
	for i, c := range r.categories {
		if c.ID == id && c.DeletedAt == nil {
			now := time.Now().UTC()
			r.categories[i].DeletedAt = &now
			return nil
		}
	}
	return ErrCategoryNotFound
}

func (r *InMemoryCategoryRepository) Path(id string) (string, error) {
	c, err := r.GetByID(id)
	if err != nil {
		return "", err
	}

	names := []string{c.Name}
	for c.ParentID != "" {
		parent, err := r.GetByID(c.ParentID)
		if err != nil {
			break
		}
		names = append([]string{parent.Name}, names...)
		c = parent
	}
	return strings.Join(names, " > "), nil
}

func (r *InMemoryCategoryRepository) Clear() {
	r.categories = []models.WasteCategory{}
}

type InMemoryMaterialRepository struct {
	materials []models.Material

	// itemCounts tracks references from collection items so SoftDelete can
	// refuse to remove materials still in use, mirroring the FK protection.
	itemCounts map[string]int
}

func NewInMemoryMaterialRepository() *InMemoryMaterialRepository {
	return &InMemoryMaterialRepository{
		materials:  []models.Material{},
		itemCounts: map[string]int{},
	}
}

func (r *InMemoryMaterialRepository) Create(m models.Material) (models.Material, error) {
	for _, existing := range r.materials {
		if existing.Code == m.Code && existing.DeletedAt == nil {
			return models.Material{}, ErrDuplicatedValueUnique
		}
	}
	if m.ID == "" {
		m.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	m.CreatedAt = now
	m.UpdatedAt = now
	r.materials = append(r.materials, m)
	return m, nil
}

func (r *InMemoryMaterialRepository) GetByID(id string) (models.Material, error) {
	for _, m := range r.materials {
		if m.ID == id && m.DeletedAt == nil {
			return m, nil
		}
	}
	return models.Material{}, ErrMaterialNotFound
}

func (r *InMemoryMaterialRepository) GetByCode(code string) (models.Material, error) {
	for _, m := range r.materials {
		if m.Code == code && m.DeletedAt == nil {
			return m, nil
		}
	}
	return models.Material{}, ErrMaterialNotFound
}

func (r *InMemoryMaterialRepository) Update(m models.Material) (models.Material, error) {
	for i, existing := range r.materials {
		if existing.ID == m.ID && existing.DeletedAt == nil {
			m.Code = existing.Code
			m.CreatedAt = existing.CreatedAt
			m.UpdatedAt = time.Now().UTC()
			r.materials[i] = m
			return m, nil
		}
	}
	return models.Material{}, ErrMaterialNotFound
}

func (r *InMemoryMaterialRepository) SoftDelete(id string) error {
	if r.itemCounts[id] > 0 {
		return ErrMaterialInUse
	}
	for i, m := range r.materials {
		if m.ID == id && m.DeletedAt == nil {
			now := time.Now().UTC()
			r.materials[i].DeletedAt = &now
			return nil
		}
	}
	return ErrMaterialNotFound
}

func matchesMaterialFilter(m models.Material, f MaterialFilter) bool {
	if f.Query != "" {
		q := strings.ToLower(f.Query)
		if !strings.Contains(strings.ToLower(m.Name), q) &&
			!strings.Contains(strings.ToLower(m.Code), q) {
			return false
		}
	}
	if f.CategoryID != "" && m.CategoryID != f.CategoryID {
		return false
	}
	if f.Recyclable != nil && m.Recyclable != *f.Recyclable {
		return false
	}
	return true
}

func (r *InMemoryMaterialRepository) Filter(f MaterialFilter) ([]models.Material, int, error) {
	var filtered []models.Material
	for _, m := range r.materials {
		if m.DeletedAt == nil && matchesMaterialFilter(m, f) {
			filtered = append(filtered, m)
		}
	}
	sort.Slice(filtered, func(i, j int) bool { return filtered[i].Name < filtered[j].Name })

	page := paginate(len(filtered), f.Offset, f.Limit)
	return filtered[page.start:page.end], len(filtered), nil
}

// TrackItem registers a collection-item reference to a material.
func (r *InMemoryMaterialRepository) TrackItem(materialID string) {
	r.itemCounts[materialID]++
}

// UntrackItem releases a collection-item reference to a material.
func (r *InMemoryMaterialRepository) UntrackItem(materialID string) {
	if r.itemCounts[materialID] > 0 {
		r.itemCounts[materialID]--
	}
}

func (r *InMemoryMaterialRepository) Clear() {
	r.materials = []models.Material{}
	r.itemCounts = map[string]int{}
}
