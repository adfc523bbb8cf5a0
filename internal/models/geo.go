package models

import "time"

// RecyclingFacility is a processing site operated by a recycler.
type RecyclingFacility struct {
	ID             string     `json:"id"`
	Name           string     `json:"name"`
	OperatorID     string     `json:"operator_id"`
	Address        string     `json:"address"`
	Latitude       float64    `json:"latitude"`
	Longitude      float64    `json:"longitude"`
	ContactEmail   string     `json:"contact_email,omitempty"`
	ContactPhone   string     `json:"contact_phone,omitempty"`
	CapacityTons   *int       `json:"capacity_tons,omitempty"`
	OperatingHours string     `json:"operating_hours,omitempty"`
	Certifications string     `json:"certifications,omitempty"`
	MaterialIDs    []string   `json:"material_ids,omitempty"`
	CreatedAt      time.Time  `json:"created_at"`
	UpdatedAt      time.Time  `json:"updated_at"`
	DeletedAt      *time.Time `json:"-"`
}

// DropoffPoint is a public site where citizens can leave sorted waste.
type DropoffPoint struct {
	ID             string     `json:"id"`
	Name           string     `json:"name"`
	Description    string     `json:"description,omitempty"`
	Address        string     `json:"address"`
	Latitude       float64    `json:"latitude"`
	Longitude      float64    `json:"longitude"`
	OperatorID     string     `json:"operator_id"`
	OperatingHours string     `json:"operating_hours,omitempty"`
	ContactPhone   string     `json:"contact_phone,omitempty"`
	ContactEmail   string     `json:"contact_email,omitempty"`
	Website        string     `json:"website,omitempty"`
	Active         bool       `json:"active"`
	MaterialIDs    []string   `json:"material_ids,omitempty"`
	CreatedAt      time.Time  `json:"created_at"`
	UpdatedAt      time.Time  `json:"updated_at"`
	DeletedAt      *time.Time `json:"-"`
}
