package repo

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"

	models "github.com/greenbridge-eco/greenbridge/internal/models"
)

type PostgresFacilityRepository struct {
	db *sql.DB
}

func NewPostgresFacilityRepository(db *sql.DB) *PostgresFacilityRepository {
	return &PostgresFacilityRepository{db: db}
}

const facilityColumns = `f.id, f.name, f.operator_id, f.address, f.latitude, f.longitude,
	f.contact_email, f.contact_phone, f.capacity_tons, f.operating_hours, f.certifications,
	COALESCE(array_agg(fm.material_id::text) FILTER (WHERE fm.material_id IS NOT NULL), '{}'),
	f.created_at, f.updated_at`

const facilityJoin = ` FROM recycling_facilities f
	LEFT JOIN facility_materials fm ON fm.facility_id = f.id`

const facilityGroup = ` GROUP BY f.id`

func (r *PostgresFacilityRepository) Create(f models.RecyclingFacility) (models.RecyclingFacility, error) {
	if f.ID == "" {
		f.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	f.CreatedAt = now
	f.UpdatedAt = now

	query := `INSERT INTO recycling_facilities (id, name, operator_id, address, latitude, longitude,
		contact_email, contact_phone, capacity_tons, operating_hours, certifications, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)`
	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()

	_, err := r.db.ExecContext(ctx, query, f.ID, f.Name, f.OperatorID, f.Address, f.Latitude,
		f.Longitude, f.ContactEmail, f.ContactPhone, f.CapacityTons, f.OperatingHours,
		f.Certifications, f.CreatedAt, f.UpdatedAt)
	if err != nil {
		return models.RecyclingFacility{}, err
	}
	if len(f.MaterialIDs) > 0 {
		if err := r.SetMaterials(f.ID, f.MaterialIDs); err != nil {
			return models.RecyclingFacility{}, err
		}
	}
	return f, nil
}

func (r *PostgresFacilityRepository) GetByID(id string) (models.RecyclingFacility, error) {
	query := `SELECT ` + facilityColumns + facilityJoin +
		` WHERE f.id = $1 AND f.deleted_at IS NULL` + facilityGroup
	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()

	var f models.RecyclingFacility
	err := r.db.QueryRowContext(ctx, query, id).Scan(&f.ID, &f.Name, &f.OperatorID, &f.Address,
		&f.Latitude, &f.Longitude, &f.ContactEmail, &f.ContactPhone, &f.CapacityTons,
		&f.OperatingHours, &f.Certifications, pq.Array(&f.MaterialIDs), &f.CreatedAt, &f.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return models.RecyclingFacility{}, ErrFacilityNotFound
	}
	return f, err
}

func (r *PostgresFacilityRepository) Update(f models.RecyclingFacility) (models.RecyclingFacility, error) {
	f.UpdatedAt = time.Now().UTC()
	query := `UPDATE recycling_facilities SET name = $1, address = $2, latitude = $3, longitude = $4,
		contact_email = $5, contact_phone = $6, capacity_tons = $7, operating_hours = $8,
		certifications = $9, updated_at = $10
		WHERE id = $11 AND deleted_at IS NULL`
	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()

	res, err := r.db.ExecContext(ctx, query, f.Name, f.Address, f.Latitude, f.Longitude,
		f.ContactEmail, f.ContactPhone, f.CapacityTons, f.OperatingHours, f.Certifications,
		f.UpdatedAt, f.ID)
	if err != nil {
		return models.RecyclingFacility{}, err
	}
	rowsAffected, _ := res.RowsAffected()
	if rowsAffected == 0 {
		return models.RecyclingFacility{}, ErrFacilityNotFound
	}
	return r.GetByID(f.ID)
}

func (r *PostgresFacilityRepository) SoftDelete(id string) error {
	query := `UPDATE recycling_facilities SET deleted_at = $1 WHERE id = $2 AND deleted_at IS NULL`
	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()

	res, err := r.db.ExecContext(ctx, query, time.Now().UTC(), id)
	if err != nil {
		return err
	}
	rowsAffected, _ := res.RowsAffected()
	if rowsAffected == 0 {
		return ErrFacilityNotFound
	}
	return nil
}

func (r *PostgresFacilityRepository) List(operatorID string) ([]models.RecyclingFacility, error) {
	query := `SELECT ` + facilityColumns + facilityJoin + ` WHERE f.deleted_at IS NULL`
	args := []any{}
	if operatorID != "" {
		query += ` AND f.operator_id = $1`
		args = append(args, operatorID)
	}
	query += facilityGroup + ` ORDER BY f.name`

	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var facilities []models.RecyclingFacility
	for rows.Next() {
		var f models.RecyclingFacility
		if err := rows.Scan(&f.ID, &f.Name, &f.OperatorID, &f.Address, &f.Latitude, &f.Longitude,
			&f.ContactEmail, &f.ContactPhone, &f.CapacityTons, &f.OperatingHours,
			&f.Certifications, pq.Array(&f.MaterialIDs), &f.CreatedAt, &f.UpdatedAt); err != nil {
			return nil, err
		}
		facilities = append(facilities, f)
	}
	return facilities, rows.Err()
}

func (r *PostgresFacilityRepository) SetMaterials(id string, materialIDs []string) error {
	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `DELETE FROM facility_materials WHERE facility_id = $1`, id); err != nil {
		return err
	}
	for _, materialID := range materialIDs {
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO facility_materials (facility_id, material_id) VALUES ($1, $2)`,
			id, materialID); err != nil {
			return err
		}
	}
	return tx.Commit()
}

// Nearby uses the PostGIS geography column: ST_DWithin runs on the spatial
// index, ST_Distance orders the survivors.
func (r *PostgresFacilityRepository) Nearby(lat, lng, radiusKm float64, limit int) ([]NearbyFacility, error) {
	query := `SELECT ` + facilityColumns + `,
		ST_Distance(f.geom, ST_SetSRID(ST_MakePoint($1, $2), 4326)::geography) / 1000.0 AS distance_km` +
		facilityJoin + `
		WHERE f.deleted_at IS NULL
		AND ST_DWithin(f.geom, ST_SetSRID(ST_MakePoint($1, $2), 4326)::geography, $3)` +
		facilityGroup + `, distance_km
		ORDER BY distance_km
		LIMIT $4`
	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()

	rows, err := r.db.QueryContext(ctx, query, lng, lat, radiusKm*1000, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var results []NearbyFacility
	for rows.Next() {
		var nf NearbyFacility
		if err := rows.Scan(&nf.ID, &nf.Name, &nf.OperatorID, &nf.Address, &nf.Latitude,
			&nf.Longitude, &nf.ContactEmail, &nf.ContactPhone, &nf.CapacityTons,
			&nf.OperatingHours, &nf.Certifications, pq.Array(&nf.MaterialIDs),
			&nf.CreatedAt, &nf.UpdatedAt, &nf.DistanceKm); err != nil {
			return nil, err
		}
		results = append(results, nf)
	}
	return results, rows.Err()
}

type PostgresDropoffRepository struct {
	db *sql.DB
}

func NewPostgresDropoffRepository(db *sql.DB) *PostgresDropoffRepository {
	return &PostgresDropoffRepository{db: db}
}

const dropoffColumns = `d.id, d.name, d.description, d.address, d.latitude, d.longitude,
	d.operator_id, d.operating_hours, d.contact_phone, d.contact_email, d.website, d.active,
	COALESCE(array_agg(dm.material_id::text) FILTER (WHERE dm.material_id IS NOT NULL), '{}'),
	d.created_at, d.updated_at`

const dropoffJoin = ` FROM dropoff_points d
	LEFT JOIN dropoff_materials dm ON dm.dropoff_id = d.id`

const dropoffGroup = ` GROUP BY d.id`

func (r *PostgresDropoffRepository) Create(d models.DropoffPoint) (models.DropoffPoint, error) {
	if d.ID == "" {
		d.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	d.CreatedAt = now
	d.UpdatedAt = now

	query := `INSERT INTO dropoff_points (id, name, description, address, latitude, longitude,
		operator_id, operating_hours, contact_phone, contact_email, website, active, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)`
	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()

	_, err := r.db.ExecContext(ctx, query, d.ID, d.Name, d.Description, d.Address, d.Latitude,
		d.Longitude, d.OperatorID, d.OperatingHours, d.ContactPhone, d.ContactEmail,
		d.Website, d.Active, d.CreatedAt, d.UpdatedAt)
	if err != nil {
		return models.DropoffPoint{}, err
	}
	if len(d.MaterialIDs) > 0 {
		if err := r.SetMaterials(d.ID, d.MaterialIDs); err != nil {
			return models.DropoffPoint{}, err
		}
	}
	return d, nil
}

func (r *PostgresDropoffRepository) GetByID(id string) (models.DropoffPoint, error) {
	query := `SELECT ` + dropoffColumns + dropoffJoin +
		` WHERE d.id = $1 AND d.deleted_at IS NULL` + dropoffGroup
	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()

	var d models.DropoffPoint
	err := r.db.QueryRowContext(ctx, query, id).Scan(&d.ID, &d.Name, &d.Description, &d.Address,
		&d.Latitude, &d.Longitude, &d.OperatorID, &d.OperatingHours, &d.ContactPhone,
		&d.ContactEmail, &d.Website, &d.Active, pq.Array(&d.MaterialIDs), &d.CreatedAt, &d.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return models.DropoffPoint{}, ErrDropoffNotFound
	}
	return d, err
}

func (r *PostgresDropoffRepository) Update(d models.DropoffPoint) (models.DropoffPoint, error) {
	d.UpdatedAt = time.Now().UTC()
	query := `UPDATE dropoff_points SET name = $1, description = $2, address = $3, latitude = $4,
		longitude = $5, operating_hours = $6, contact_phone = $7, contact_email = $8,
		website = $9, active = $10, updated_at = $11
		WHERE id = $12 AND deleted_at IS NULL`
	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()

	res, err := r.db.ExecContext(ctx, query, d.Name, d.Description, d.Address, d.Latitude,
		d.Longitude, d.OperatingHours, d.ContactPhone, d.ContactEmail, d.Website, d.Active,
		d.UpdatedAt, d.ID)
	if err != nil {
		return models.DropoffPoint{}, err
	}
	rowsAffected, _ := res.RowsAffected()
	if rowsAffected == 0 {
		return models.DropoffPoint{}, ErrDropoffNotFound
	}
	return r.GetByID(d.ID)
}

func (r *PostgresDropoffRepository) SoftDelete(id string) error {
	query := `UPDATE dropoff_points SET deleted_at = $1, active = false WHERE id = $2 AND deleted_at IS NULL`
	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()

	res, err := r.db.ExecContext(ctx, query, time.Now().UTC(), id)
	if err != nil {
		return err
	}
	rowsAffected, _ := res.RowsAffected()
	if rowsAffected == 0 {
		return ErrDropoffNotFound
	}
	return nil
}

func (r *PostgresDropoffRepository) List(activeOnly bool) ([]models.DropoffPoint, error) {
	query := `SELECT ` + dropoffColumns + dropoffJoin + ` WHERE d.deleted_at IS NULL`
	if activeOnly {
		query += ` AND d.active`
	}
	query += dropoffGroup + ` ORDER BY d.name`

	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var points []models.DropoffPoint
	for rows.Next() {
		var d models.DropoffPoint
		if err := rows.Scan(&d.ID, &d.Name, &d.Description, &d.Address, &d.Latitude, &d.Longitude,
			&d.OperatorID, &d.OperatingHours, &d.ContactPhone, &d.ContactEmail, &d.Website,
			&d.Active, pq.Array(&d.MaterialIDs), &d.CreatedAt, &d.UpdatedAt); err != nil {
			return nil, err
		}
		points = append(points, d)
	}
	return points, rows.Err()
}

func (r *PostgresDropoffRepository) SetMaterials(id string, materialIDs []string) error {
	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `DELETE FROM dropoff_materials WHERE dropoff_id = $1`, id); err != nil {
		return err
	}
	for _, materialID := range materialIDs {
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO dropoff_materials (dropoff_id, material_id) VALUES ($1, $2)`,
			id, materialID); err != nil {
			return err
		}
	}
	return tx.Commit()
}

func (r *PostgresDropoffRepository) Nearby(lat, lng, radiusKm float64, limit int) ([]NearbyDropoff, error) {
	query := `SELECT ` + dropoffColumns + `,
		ST_Distance(d.geom, ST_SetSRID(ST_MakePoint($1, $2), 4326)::geography) / 1000.0 AS distance_km` +
		dropoffJoin + `
		WHERE d.deleted_at IS NULL AND d.active
		AND ST_DWithin(d.geom, ST_SetSRID(ST_MakePoint($1, $2), 4326)::geography, $3)` +
		dropoffGroup + `, distance_km
		ORDER BY distance_km
		LIMIT $4`
	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()

	rows, err := r.db.QueryContext(ctx, query, lng, lat, radiusKm*1000, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var results []NearbyDropoff
	for rows.Next() {
		var nd NearbyDropoff
		if err := rows.Scan(&nd.ID, &nd.Name, &nd.Description, &nd.Address, &nd.Latitude,
			&nd.Longitude, &nd.OperatorID, &nd.OperatingHours, &nd.ContactPhone,
			&nd.ContactEmail, &nd.Website, &nd.Active, pq.Array(&nd.MaterialIDs),
			&nd.CreatedAt, &nd.UpdatedAt, &nd.DistanceKm); err != nil {
			return nil, err
		}
		results = append(results, nd)
	}
	return results, rows.Err()
}
