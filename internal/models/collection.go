package models

import "time"

// Waste collection lifecycle.
const (
	CollectionPending    = "pending"
	CollectionScheduled  = "scheduled"
	CollectionInProgress = "in_progress"
	CollectionCompleted  = "completed"
	CollectionCancelled  = "cancelled"
)

// WasteCollection records a collection event created by a brand, recycler or citizen.
type WasteCollection struct {
	ID             string           `json:"id"`
	CollectionDate time.Time        `json:"collection_date"`
	Status         string           `json:"status"`
	LocationName   string           `json:"location_name"`
	Address        string           `json:"address"`
	Latitude       *float64         `json:"latitude,omitempty"`
	Longitude      *float64         `json:"longitude,omitempty"`
	Notes          string           `json:"notes,omitempty"`
	RecyclerID     string           `json:"recycler_id,omitempty"`
	BrandID        string           `json:"brand_id,omitempty"`
	CustomCode     string           `json:"custom_code,omitempty"`
	Items          []CollectionItem `json:"items,omitempty"`
	CreatedBy      string           `json:"created_by,omitempty"`
	CreatedAt      time.Time        `json:"created_at"`
	UpdatedAt      time.Time        `json:"updated_at"`
}

// CollectionItem is a single weighed batch of one material within a collection.
type CollectionItem struct {
	ID           string    `json:"id"`
	CollectionID string    `json:"collection_id"`
	MaterialID   string    `json:"material_id"`
	WeightKg     float64   `json:"weight_kg"`
	Quantity     int       `json:"quantity"`
	WasteCode    string    `json:"waste_code,omitempty"`
	Notes        string    `json:"notes,omitempty"`
	ImageKey     string    `json:"image_key,omitempty"`
	CreatedAt    time.Time `json:"created_at"`
}

// CanTransition reports whether a collection may move from one status to another.
// Cancellation is only allowed before work starts.
func CanTransition(from, to string) bool {
	switch from {
	case CollectionPending:
		return to == CollectionScheduled || to == CollectionCancelled
	case CollectionScheduled:
		return to == CollectionInProgress || to == CollectionCancelled
	case CollectionInProgress:
		return to == CollectionCompleted
	}
	return false
}

func ValidCollectionStatus(s string) bool {
	switch s {
	case CollectionPending, CollectionScheduled, CollectionInProgress,
		CollectionCompleted, CollectionCancelled:
		return true
	}
	return false
}

// TotalWeightKg sums the weight of all items in the collection.
func (c WasteCollection) TotalWeightKg() float64 {
	var total float64
	for _, item := range c.Items {
		total += item.WeightKg
	}
	return total
}
