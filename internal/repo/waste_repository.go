package repo

import models "github.com/greenbridge-eco/greenbridge/internal/models"

// CategoryRepository manages the waste category tree.
type CategoryRepository interface {
	Create(c models.WasteCategory) (models.WasteCategory, error)
	GetAll() ([]models.WasteCategory, error)
	GetByID(id string) (models.WasteCategory, error)
	Update(c models.WasteCategory) (models.WasteCategory, error)
	SoftDelete(id string) error
	// Path returns the full hierarchical path, e.g. "Electronics > Computers > Laptops".
	Path(id string) (string, error)
}

type MaterialFilter struct {
	Query      string
	CategoryID string
	Recyclable *bool
	Offset     *int
	Limit      *int
}

// MaterialRepository manages recyclable materials.
type MaterialRepository interface {
	Create(m models.Material) (models.Material, error)
	GetByID(id string) (models.Material, error)
	GetByCode(code string) (models.Material, error)
	Update(m models.Material) (models.Material, error)
	SoftDelete(id string) error
	Filter(f MaterialFilter) ([]models.Material, int, error)
}
