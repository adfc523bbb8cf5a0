package repo

import models "github.com/greenbridge-eco/greenbridge/internal/models"

// NearbyFacility is a facility hit from a radius search, closest first.
type NearbyFacility struct {
	models.RecyclingFacility
	DistanceKm float64 `json:"distance_km"`
}

// NearbyDropoff is a dropoff point hit from a radius search, closest first.
type NearbyDropoff struct {
	models.DropoffPoint
	DistanceKm float64 `json:"distance_km"`
}

// FacilityRepository manages recycling facilities.
type FacilityRepository interface {
	Create(f models.RecyclingFacility) (models.RecyclingFacility, error)
	GetByID(id string) (models.RecyclingFacility, error)
	Update(f models.RecyclingFacility) (models.RecyclingFacility, error)
	SoftDelete(id string) error
	List(operatorID string) ([]models.RecyclingFacility, error)
	SetMaterials(id string, materialIDs []string) error
	Nearby(lat, lng, radiusKm float64, limit int) ([]NearbyFacility, error)
}

// DropoffRepository manages public dropoff points.
type DropoffRepository interface {
	Create(d models.DropoffPoint) (models.DropoffPoint, error)
	GetByID(id string) (models.DropoffPoint, error)
	Update(d models.DropoffPoint) (models.DropoffPoint, error)
	SoftDelete(id string) error
	List(activeOnly bool) ([]models.DropoffPoint, error)
	SetMaterials(id string, materialIDs []string) error
	Nearby(lat, lng, radiusKm float64, limit int) ([]NearbyDropoff, error)
}
