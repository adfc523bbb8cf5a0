package repo

import models "github.com/greenbridge-eco/greenbridge/internal/models"

type InMemoryMetricsRepository struct {
	users       *InMemoryUserRepository
	orgs        *InMemoryOrganizationRepository
	materials   *InMemoryMaterialRepository
	collections *InMemoryCollectionRepository
}

func NewInMemoryMetricsRepository() *InMemoryMetricsRepository {
	return &InMemoryMetricsRepository{}
}

func (r *InMemoryMetricsRepository) SetRepositories(
	users *InMemoryUserRepository,
	orgs *InMemoryOrganizationRepository,
	materials *InMemoryMaterialRepository,
	collections *InMemoryCollectionRepository,
) {
	r.users = users
	r.orgs = orgs
	r.materials = materials
	r.collections = collections
}

func (r *InMemoryMetricsRepository) GetDashboardMetrics() (DashboardMetrics, error) {
	var m DashboardMetrics

	for _, u := range r.users.users {
		if u.DeletedAt == nil {
			m.TotalUsers++
		}
	}
	for _, o := range r.orgs.orgs {
		if o.DeletedAt != nil {
			continue
		}
		m.TotalOrganizations++
		if o.Status == models.OrgStatusPending {
			m.PendingOrganizations++
		}
	}

	weightByMaterial := map[string]float64{}
	for _, c := range r.collections.collections {
		m.TotalCollections++
		if c.Status != models.CollectionCompleted {
			continue
		}
		m.CompletedCollections++
		for _, item := range r.collections.itemsFor(c.ID) {
			m.TotalWeightKg += item.WeightKg
			if mat, err := r.materials.GetByID(item.MaterialID); err == nil {
				m.TotalCO2OffsetKg += item.WeightKg * mat.CO2OffsetKg
				weightByMaterial[mat.Name] += item.WeightKg
			}
		}
	}

	for name, kg := range weightByMaterial {
		if kg > m.TopMaterial.WeightKg {
			m.TopMaterial = TopMaterial{Name: name, WeightKg: kg}
		}
	}
	return m, nil
}
