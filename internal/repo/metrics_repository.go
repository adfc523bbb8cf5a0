package repo

type TopMaterial struct {
	Name     string  `json:"name"`
	WeightKg float64 `json:"weight_kg"`
}

// DashboardMetrics summarizes platform activity for the admin dashboard.
type DashboardMetrics struct {
	TotalUsers           int         `json:"total_users"`
	TotalOrganizations   int         `json:"total_organizations"`
	PendingOrganizations int         `json:"pending_organizations"`
	TotalCollections     int         `json:"total_collections"`
	CompletedCollections int         `json:"completed_collections"`
	TotalWeightKg        float64     `json:"total_weight_kg"`
	TotalCO2OffsetKg     float64     `json:"total_co2_offset_kg"`
	TopMaterial          TopMaterial `json:"top_material"`
}

type MetricsRepository interface {
	GetDashboardMetrics() (DashboardMetrics, error)
}
