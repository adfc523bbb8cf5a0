package models

import "time"

// Organization types.
const (
	OrgTypeBrand    = "brand"
	OrgTypeRecycler = "recycler"
	OrgTypeCharity  = "charity"
)

// Organization verification statuses.
const (
	OrgStatusPending  = "pending"
	OrgStatusVerified = "verified"
	OrgStatusRejected = "rejected"
)

type Organization struct {
	ID                  string     `json:"id"`
	Name                string     `json:"name"`
	Type                string     `json:"type"`
	Status              string     `json:"status"`
	TaxID               string     `json:"tax_id,omitempty"`
	RegistrationNumber  string     `json:"registration_number,omitempty"`
	Website             string     `json:"website,omitempty"`
	PrimaryContactName  string     `json:"primary_contact_name,omitempty"`
	PrimaryContactEmail string     `json:"primary_contact_email,omitempty"`
	PrimaryContactPhone string     `json:"primary_contact_phone,omitempty"`
	AddressLine1        string     `json:"address_line1,omitempty"`
	AddressLine2        string     `json:"address_line2,omitempty"`
	City                string     `json:"city,omitempty"`
	StateProvince       string     `json:"state_province,omitempty"`
	PostalCode          string     `json:"postal_code,omitempty"`
	Country             string     `json:"country,omitempty"`
	Latitude            *float64   `json:"latitude,omitempty"`
	Longitude           *float64   `json:"longitude,omitempty"`
	CreatedBy           string     `json:"created_by,omitempty"`
	VerifiedBy          string     `json:"verified_by,omitempty"`
	VerificationDate    *time.Time `json:"verification_date,omitempty"`
	RejectionReason     string     `json:"rejection_reason,omitempty"`
	Active              bool       `json:"active"`
	CreatedAt           time.Time  `json:"created_at"`
	UpdatedAt           time.Time  `json:"updated_at"`
	DeletedAt           *time.Time `json:"-"`
}

func ValidOrgType(t string) bool {
	switch t {
	case OrgTypeBrand, OrgTypeRecycler, OrgTypeCharity:
		return true
	}
	return false
}
