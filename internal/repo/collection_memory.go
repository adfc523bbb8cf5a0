package repo

import (
	"sort"
	"time"

	"github.com/google/uuid"

	models "github.com/greenbridge-eco/greenbridge/internal/models"
)

type InMemoryCollectionRepository struct {
	collections []models.WasteCollection
	items       []models.CollectionItem

	// materials, when set, keeps the in-use reference counts in sync so the
	// material repository can enforce delete protection like the FK does.
	materials *InMemoryMaterialRepository
}

func NewInMemoryCollectionRepository() *InMemoryCollectionRepository {
	return &InMemoryCollectionRepository{}
}

// LinkMaterials wires the material repository for reference tracking.
func (r *InMemoryCollectionRepository) LinkMaterials(m *InMemoryMaterialRepository) {
	r.materials = m
}

func (r *InMemoryCollectionRepository) Create(c models.WasteCollection) (models.WasteCollection, error) {
	if c.ID == "" {
		c.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	c.CreatedAt = now
	c.UpdatedAt = now
	if c.Status == "" {
		c.Status = models.CollectionPending
	}
	c.Items = nil
	r.collections = append(r.collections, c)
	return c, nil
}

func (r *InMemoryCollectionRepository) GetByID(id string) (models.WasteCollection, error) {
	for _, c := range r.collections {
		if c.ID == id {
			c.Items = r.itemsFor(id)
			return c, nil
		}
	}
	return models.WasteCollection{}, ErrCollectionNotFound
}

func (r *InMemoryCollectionRepository) itemsFor(collectionID string) []models.CollectionItem {
	var items []models.CollectionItem
	for _, item := range r.items {
		if item.CollectionID == collectionID {
			items = append(items, item)
		}
	}
	return items
}

func (r *InMemoryCollectionRepository) Update(c models.WasteCollection) (models.WasteCollection, error) {
	for i, existing := range r.collections {
		if existing.ID == c.ID {
			c.Status = existing.Status
			c.CreatedBy = existing.CreatedBy
			c.CreatedAt = existing.CreatedAt
			c.UpdatedAt = time.Now().UTC()
			c.Items = nil
			r.collections[i] = c
			return r.GetByID(c.ID)
		}
	}
	return models.WasteCollection{}, ErrCollectionNotFound
}

func (r *InMemoryCollectionRepository) Delete(id string) error {
	for i, c := range r.collections {
		if c.ID == id {
			for _, item := range r.itemsFor(id) {
				if r.materials != nil {
					r.materials.UntrackItem(item.MaterialID)
				}
			}
			var kept []models.CollectionItem
			for _, item := range r.items {
				if item.CollectionID != id {
					kept = append(kept, item)
				}
			}
			r.items = kept
			r.collections = append(r.collections[:i], r.collections[i+1:]...)
			return nil
		}
	}
	return ErrCollectionNotFound
}

func matchesCollectionFilter(c models.WasteCollection, f CollectionFilter) bool {
	if f.Status != "" && c.Status != f.Status {
		return false
	}
	if f.RecyclerID != "" && c.RecyclerID != f.RecyclerID {
		return false
	}
	if f.BrandID != "" && c.BrandID != f.BrandID {
		return false
	}
	if f.CreatedBy != "" && c.CreatedBy != f.CreatedBy {
		return false
	}
	if f.From != nil && c.CollectionDate.Before(*f.From) {
		return false
	}
	if f.To != nil && c.CollectionDate.After(*f.To) {
		return false
	}
	return true
}

func (r *InMemoryCollectionRepository) Filter(f CollectionFilter) ([]models.WasteCollection, int, error) {
	var filtered []models.WasteCollection
	for _, c := range r.collections {
		if matchesCollectionFilter(c, f) {
			c.Items = r.itemsFor(c.ID)
			filtered = append(filtered, c)
		}
	}
	sort.Slice(filtered, func(i, j int) bool {
		return filtered[i].CollectionDate.After(filtered[j].CollectionDate)
	})

	page := paginate(len(filtered), f.Offset, f.Limit)
	return filtered[page.start:page.end], len(filtered), nil
}

func (r *InMemoryCollectionRepository) AddItem(item models.CollectionItem) (models.CollectionItem, error) {
	if _, err := r.GetByID(item.CollectionID); err != nil {
		return models.CollectionItem{}, err
	}
	if item.ID == "" {
		item.ID = uuid.NewString()
	}
	item.CreatedAt = time.Now().UTC()
	r.items = append(r.items, item)
	if r.materials != nil {
		r.materials.TrackItem(item.MaterialID)
	}
	return item, nil
}

func (r *InMemoryCollectionRepository) RemoveItem(collectionID, itemID string) error {
	for i, item := range r.items {
		if item.ID == itemID && item.CollectionID == collectionID {
			if r.materials != nil {
				r.materials.UntrackItem(item.MaterialID)
			}
			r.items = append(r.items[:i], r.items[i+1:]...)
			return nil
		}
	}
	return ErrItemNotFound
}

func (r *InMemoryCollectionRepository) UpdateStatus(id, from, to string) (models.WasteCollection, error) {
	for i, c := range r.collections {
		if c.ID != id {
			continue
		}
		if c.Status != from {
			return models.WasteCollection{}, ErrInvalidTransition
		}
		r.collections[i].Status = to
		r.collections[i].UpdatedAt = time.Now().UTC()
		return r.GetByID(id)
	}
	return models.WasteCollection{}, ErrCollectionNotFound
}

func (r *InMemoryCollectionRepository) ScheduledBetween(from, to time.Time) ([]models.WasteCollection, error) {
	var collections []models.WasteCollection
	for _, c := range r.collections {
		if c.Status != models.CollectionPending && c.Status != models.CollectionScheduled {
			continue
		}
		if c.CollectionDate.Before(from) || c.CollectionDate.After(to) {
			continue
		}
		c.Items = r.itemsFor(c.ID)
		collections = append(collections, c)
	}
	sort.Slice(collections, func(i, j int) bool {
		return collections[i].CollectionDate.Before(collections[j].CollectionDate)
	})
	return collections, nil
}

func (r *InMemoryCollectionRepository) Clear() {
	r.collections = nil
	r.items = nil
}
