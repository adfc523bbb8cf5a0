package repo

import (
	"context"
	"database/sql"
	"time"

	models "github.com/greenbridge-eco/greenbridge/internal/models"
)

type PostgresMetricsRepository struct {
	db *sql.DB
}

func NewPostgresMetricsRepository(db *sql.DB) *PostgresMetricsRepository {
	return &PostgresMetricsRepository{db: db}
}

func (r *PostgresMetricsRepository) GetDashboardMetrics() (DashboardMetrics, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()

	var m DashboardMetrics

	_ = r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM users WHERE deleted_at IS NULL`).Scan(&m.TotalUsers)
	_ = r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM organizations WHERE deleted_at IS NULL`).Scan(&m.TotalOrganizations)
	_ = r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM organizations WHERE deleted_at IS NULL AND status = $1`,
		models.OrgStatusPending).Scan(&m.PendingOrganizations)
	_ = r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM waste_collections`).Scan(&m.TotalCollections)
	_ = r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM waste_collections WHERE status = $1`,
		models.CollectionCompleted).Scan(&m.CompletedCollections)

	_ = r.db.QueryRowContext(ctx, `
		SELECT COALESCE(SUM(ci.weight_kg), 0), COALESCE(SUM(ci.weight_kg * mt.co2_offset_per_kg), 0)
		FROM collection_items ci
		JOIN materials mt ON ci.material_id = mt.id
		JOIN waste_collections wc ON ci.collection_id = wc.id
		WHERE wc.status = $1
	`, models.CollectionCompleted).Scan(&m.TotalWeightKg, &m.TotalCO2OffsetKg)

	_ = r.db.QueryRowContext(ctx, `
		SELECT mt.name, SUM(ci.weight_kg) AS kg
		FROM collection_items ci
		JOIN materials mt ON ci.material_id = mt.id
		GROUP BY mt.name
		ORDER BY kg DESC
		LIMIT 1
	`).Scan(&m.TopMaterial.Name, &m.TopMaterial.WeightKg)

	return m, nil
}
