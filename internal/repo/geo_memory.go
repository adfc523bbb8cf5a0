package repo

import (
	"math"
	"sort"
	"time"

	"github.com/google/uuid"

	models "github.com/greenbridge-eco/greenbridge/internal/models"
)

const earthRadiusKm = 6371.0

// haversineKm computes the great-circle distance between two coordinates.
func haversineKm(lat1, lng1, lat2, lng2 float64) float64 {
	dLat := (lat2 - lat1) * math.Pi / 180
	dLng := (lng2 - lng1) * math.Pi / 180

	a := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(lat1*math.Pi/180)*math.Cos(lat2*math.Pi/180)*
			math.Sin(dLng/2)*math.Sin(dLng/2)
	return 2 * earthRadiusKm * math.Atan2(math.Sqrt(a), math.Sqrt(1-a))
}

type InMemoryFacilityRepository struct {
	facilities []models.RecyclingFacility
}

func NewInMemoryFacilityRepository() *InMemoryFacilityRepository {
	return &InMemoryFacilityRepository{facilities: []models.RecyclingFacility{}}
}

func (r *InMemoryFacilityRepository) Create(f models.RecyclingFacility) (models.RecyclingFacility, error) {
	if f.ID == "" {
		f.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	f.CreatedAt = now
	f.UpdatedAt = now
	r.facilities = append(r.facilities, f)
	return f, nil
}

func (r *InMemoryFacilityRepository) GetByID(id string) (models.RecyclingFacility, error) {
	for _, f := range r.facilities {
		if f.ID == id && f.DeletedAt == nil {
			return f, nil
		}
	}
	return models.RecyclingFacility{}, ErrFacilityNotFound
}

func (r *InMemoryFacilityRepository) Update(f models.RecyclingFacility) (models.RecyclingFacility, error) {
	for i, existing := range r.facilities {
		if existing.ID == f.ID && existing.DeletedAt == nil {
			f.OperatorID = existing.OperatorID
			f.MaterialIDs = existing.MaterialIDs
			f.CreatedAt = existing.CreatedAt
			f.UpdatedAt = time.Now().UTC()
			r.facilities[i] = f
			return f, nil
		}
	}
	return models.RecyclingFacility{}, ErrFacilityNotFound
}

func (r *InMemoryFacilityRepository) SoftDelete(id string) error {
	for i, f := range r.facilities {
		if f.ID == id && f.DeletedAt == nil {
			now := time.Now().UTC()
			r.facilities[i].DeletedAt = &now
			return nil
		}
	}
	return ErrFacilityNotFound
}

func (r *InMemoryFacilityRepository) List(operatorID string) ([]models.RecyclingFacility, error) {
	var facilities []models.RecyclingFacility
	for _, f := range r.facilities {
		if f.DeletedAt != nil {
			continue
		}
		if operatorID != "" && f.OperatorID != operatorID {
			continue
		}
		facilities = append(facilities, f)
	}
	sort.Slice(facilities, func(i, j int) bool { return facilities[i].Name < facilities[j].Name })
	return facilities, nil
}

func (r *InMemoryFacilityRepository) SetMaterials(id string, materialIDs []string) error {
	for i, f := range r.facilities {
		if f.ID == id && f.DeletedAt == nil {
			r.facilities[i].MaterialIDs = materialIDs
			return nil
		}
	}
	return ErrFacilityNotFound
}

func (r *InMemoryFacilityRepository) Nearby(lat, lng, radiusKm float64, limit int) ([]NearbyFacility, error) {
	var results []NearbyFacility
	for _, f := range r.facilities {
		if f.DeletedAt != nil {
			continue
		}
		d := haversineKm(lat, lng, f.Latitude, f.Longitude)
		if d <= radiusKm {
			results = append(results, NearbyFacility{RecyclingFacility: f, DistanceKm: d})
		}
	}
	sort.Slice(results, func(i, j int) bool { return results[i].DistanceKm < results[j].DistanceKm })
	if limit > 0 && len(results) > limit {
		results = results[:limit]
	}
	return results, nil
}

func (r *InMemoryFacilityRepository) Clear() {
	r.facilities = []models.RecyclingFacility{}
}

type InMemoryDropoffRepository struct {
	points []models.DropoffPoint
}

func NewInMemoryDropoffRepository() *InMemoryDropoffRepository {
	return &InMemoryDropoffRepository{points: []models.DropoffPoint{}}
}

func (r *InMemoryDropoffRepository) Create(d models.DropoffPoint) (models.DropoffPoint, error) {
	if d.ID == "" {
		d.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	d.CreatedAt = now
	d.UpdatedAt = now
	r.points = append(r.points, d)
	return d, nil
}

func (r *InMemoryDropoffRepository) GetByID(id string) (models.DropoffPoint, error) {
	for _, d := range r.points {
		if d.ID == id && d.DeletedAt == nil {
			return d, nil
		}
	}
	return models.DropoffPoint{}, ErrDropoffNotFound
}

func (r *InMemoryDropoffRepository) Update(d models.DropoffPoint) (models.DropoffPoint, error) {
	for i, existing := range r.points {
		if existing.ID == d.ID && existing.DeletedAt == nil {
			d.OperatorID = existing.OperatorID
			d.MaterialIDs = existing.MaterialIDs
			d.CreatedAt = existing.CreatedAt
			d.UpdatedAt = time.Now().UTC()
			r.points[i] = d
			return d, nil
		}
	}
	return models.DropoffPoint{}, ErrDropoffNotFound
}

func (r *InMemoryDropoffRepository) SoftDelete(id string) error {
	for i, d := range r.points {
		if d.ID == id && d.DeletedAt == nil {
			now := time.Now().UTC()
			r.points[i].DeletedAt = &now
			r.points[i].Active = false
			return nil
		}
	}
	return ErrDropoffNotFound
}

func (r *InMemoryDropoffRepository) List(activeOnly bool) ([]models.DropoffPoint, error) {
	var points []models.DropoffPoint
	for _, d := range r.points {
		if d.DeletedAt != nil {
			continue
		}
		if activeOnly && !d.Active {
			continue
		}
		points = append(points, d)
	}
	sort.Slice(points, func(i, j int) bool { return points[i].Name < points[j].Name })
	return points, nil
}

func (r *InMemoryDropoffRepository) SetMaterials(id string, materialIDs []string) error {
	for i, d := range r.points {
		if d.ID == id && d.DeletedAt == nil {
			r.points[i].MaterialIDs = materialIDs
			return nil
		}
	}
	return ErrDropoffNotFound
}

func (r *InMemoryDropoffRepository) Nearby(lat, lng, radiusKm float64, limit int) ([]NearbyDropoff, error) {
	var results []NearbyDropoff
	for _, d := range r.points {
		if d.DeletedAt != nil || !d.Active {
			continue
		}
		dist := haversineKm(lat, lng, d.Latitude, d.Longitude)
		if dist <= radiusKm {
			results = append(results, NearbyDropoff{DropoffPoint: d, DistanceKm: dist})
		}
	}
	sort.Slice(results, func(i, j int) bool { return results[i].DistanceKm < results[j].DistanceKm })
	if limit > 0 && len(results) > limit {
		results = results[:limit]
	}
	return results, nil
}

func (r *InMemoryDropoffRepository) Clear() {
	r.points = []models.DropoffPoint{}
}
