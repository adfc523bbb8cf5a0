package repo

import (
	"time"

	models "github.com/greenbridge-eco/greenbridge/internal/models"
)

type CollectionFilter struct {
	Status     string
	RecyclerID string
	BrandID    string
	CreatedBy  string
	From       *time.Time
	To         *time.Time
	Offset     *int
	Limit      *int
}

// CollectionRepository manages waste collections and their items.
type CollectionRepository interface {
	Create(c models.WasteCollection) (models.WasteCollection, error)
	GetByID(id string) (models.WasteCollection, error)
	Update(c models.WasteCollection) (models.WasteCollection, error)
	Delete(id string) error
	Filter(f CollectionFilter) ([]models.WasteCollection, int, error)
	AddItem(item models.CollectionItem) (models.CollectionItem, error)
	RemoveItem(collectionID, itemID string) error
	// UpdateStatus moves a collection from one status to another atomically.
	// It fails with ErrInvalidTransition when the collection is not in `from`.
	UpdateStatus(id, from, to string) (models.WasteCollection, error)
	// ScheduledBetween lists non-cancelled collections due in the given window.
	ScheduledBetween(from, to time.Time) ([]models.WasteCollection, error)
}
