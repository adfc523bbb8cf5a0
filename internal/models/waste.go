package models

import "time"

// WasteCategory is a node in the category tree (Plastics, Glass, Electronics...).
type WasteCategory struct {
	ID          string     `json:"id"`
	Name        string     `json:"name"`
	Code        string     `json:"code"`
	Description string     `json:"description,omitempty"`
	ParentID    string     `json:"parent_id,omitempty"`
	Recyclable  bool       `json:"recyclable"`
	Hazardous   bool       `json:"hazardous"`
	ImageKey    string     `json:"image_key,omitempty"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
	DeletedAt   *time.Time `json:"-"`
}

// Material is a concrete recyclable material (PET, HDPE, Aluminum...).
type Material struct {
	ID           string     `json:"id"`
	Name         string     `json:"name"`
	Code         string     `json:"code"`
	Description  string     `json:"description,omitempty"`
	CategoryID   string     `json:"category_id"`
	Recyclable   bool       `json:"recyclable"`
	ValuePerKg   float64    `json:"value_per_kg"`
	CO2OffsetKg  float64    `json:"co2_offset_per_kg"`
	ImageKey     string     `json:"image_key,omitempty"`
	CreatedAt    time.Time  `json:"created_at"`
	UpdatedAt    time.Time  `json:"updated_at"`
	DeletedAt    *time.Time `json:"-"`
}
