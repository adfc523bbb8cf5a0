package repo

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	models "github.com/greenbridge-eco/greenbridge/internal/models"
)

type PostgresCollectionRepository struct {
	db *sql.DB
}

func NewPostgresCollectionRepository(db *sql.DB) *PostgresCollectionRepository {
	return &PostgresCollectionRepository{db: db}
}

const collectionColumns = `id, collection_date, status, location_name, address, latitude, longitude,
	notes, COALESCE(recycler_id::text, ''), COALESCE(brand_id::text, ''), custom_code,
	COALESCE(created_by::text, ''), created_at, updated_at`

func (r *PostgresCollectionRepository) Create(c models.WasteCollection) (models.WasteCollection, error) {
	if c.ID == "" {
		c.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	c.CreatedAt = now
	c.UpdatedAt = now
	if c.Status == "" {
		c.Status = models.CollectionPending
	}

	query := `INSERT INTO waste_collections (id, collection_date, status, location_name, address,
		latitude, longitude, notes, recycler_id, brand_id, custom_code, created_by, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, NULLIF($9, '')::uuid, NULLIF($10, '')::uuid,
			$11, NULLIF($12, '')::uuid, $13, $14)`
	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()

	_, err := r.db.ExecContext(ctx, query, c.ID, c.CollectionDate, c.Status, c.LocationName,
		c.Address, c.Latitude, c.Longitude, c.Notes, c.RecyclerID, c.BrandID, c.CustomCode,
		c.CreatedBy, c.CreatedAt, c.UpdatedAt)
	return c, err
}

func (r *PostgresCollectionRepository) GetByID(id string) (models.WasteCollection, error) {
	query := `SELECT ` + collectionColumns + ` FROM waste_collections WHERE id = $1`
	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()

	var c models.WasteCollection
	err := r.db.QueryRowContext(ctx, query, id).Scan(&c.ID, &c.CollectionDate, &c.Status,
		&c.LocationName, &c.Address, &c.Latitude, &c.Longitude, &c.Notes,
		&c.RecyclerID, &c.BrandID, &c.CustomCode, &c.CreatedBy, &c.CreatedAt, &c.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return models.WasteCollection{}, ErrCollectionNotFound
	}
	if err != nil {
		return models.WasteCollection{}, err
	}

	items, err := r.itemsFor(ctx, id)
	if err != nil {
		return models.WasteCollection{}, err
	}
	c.Items = items
	return c, nil
}

func (r *PostgresCollectionRepository) itemsFor(ctx context.Context, collectionID string) ([]models.CollectionItem, error) {
	query := `SELECT id, collection_id, material_id, weight_kg, quantity, waste_code, notes, image_key, created_at
		FROM collection_items WHERE collection_id = $1 ORDER BY created_at`
	rows, err := r.db.QueryContext(ctx, query, collectionID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var items []models.CollectionItem
	for rows.Next() {
		var item models.CollectionItem
		if err := rows.Scan(&item.ID, &item.CollectionID, &item.MaterialID, &item.WeightKg,
			&item.Quantity, &item.WasteCode, &item.Notes, &item.ImageKey, &item.CreatedAt); err != nil {
			return nil, err
		}
		items = append(items, item)
	}
	return items, rows.Err()
}

func (r *PostgresCollectionRepository) Update(c models.WasteCollection) (models.WasteCollection, error) {
	c.UpdatedAt = time.Now().UTC()
	query := `UPDATE waste_collections SET collection_date = $1, location_name = $2, address = $3,
		latitude = $4, longitude = $5, notes = $6, recycler_id = NULLIF($7, '')::uuid,
		brand_id = NULLIF($8, '')::uuid, custom_code = $9, updated_at = $10
		WHERE id = $11`
	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()

	res, err := r.db.ExecContext(ctx, query, c.CollectionDate, c.LocationName, c.Address,
		c.Latitude, c.Longitude, c.Notes, c.RecyclerID, c.BrandID, c.CustomCode, c.UpdatedAt, c.ID)
	if err != nil {
		return models.WasteCollection{}, err
	}
	rowsAffected, _ := res.RowsAffected()
	if rowsAffected == 0 {
		return models.WasteCollection{}, ErrCollectionNotFound
	}
	return r.GetByID(c.ID)
}

func (r *PostgresCollectionRepository) Delete(id string) error {
	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()

	// Items go first; the FK has no cascade.
	if _, err := r.db.ExecContext(ctx, `DELETE FROM collection_items WHERE collection_id = $1`, id); err != nil {
		return err
	}
	res, err := r.db.ExecContext(ctx, `DELETE FROM waste_collections WHERE id = $1`, id)
	if err != nil {
		return err
	}
	rowsAffected, _ := res.RowsAffected()
	if rowsAffected == 0 {
		return ErrCollectionNotFound
	}
	return nil
}

func (r *PostgresCollectionRepository) Filter(f CollectionFilter) ([]models.WasteCollection, int, error) {
	conditions := ""
	args := []any{}
	argIdx := 1

	if f.Status != "" {
		conditions += fmt.Sprintf(" AND status = $%d", argIdx)
		args = append(args, f.Status)
		argIdx++
	}
	if f.RecyclerID != "" {
		conditions += fmt.Sprintf(" AND recycler_id = $%d", argIdx)
		args = append(args, f.RecyclerID)
		argIdx++
	}
	if f.BrandID != "" {
		conditions += fmt.Sprintf(" AND brand_id = $%d", argIdx)
		args = append(args, f.BrandID)
		argIdx++
	}
	if f.CreatedBy != "" {
		conditions += fmt.Sprintf(" AND created_by = $%d", argIdx)
		args = append(args, f.CreatedBy)
		argIdx++
	}
	if f.From != nil {
		conditions += fmt.Sprintf(" AND collection_date >= $%d", argIdx)
		args = append(args, *f.From)
		argIdx++
	}
	if f.To != nil {
		conditions += fmt.Sprintf(" AND collection_date <= $%d", argIdx)
		args = append(args, *f.To)
		argIdx++
	}

	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()

	var totalCount int
	countQuery := "SELECT COUNT(*) FROM waste_collections WHERE 1=1" + conditions
	if err := r.db.QueryRowContext(ctx, countQuery, args...).Scan(&totalCount); err != nil {
		return nil, 0, err
	}

	query := `SELECT ` + collectionColumns + ` FROM waste_collections WHERE 1=1` + conditions +
		` ORDER BY collection_date DESC`
	if f.Limit != nil && *f.Limit > 0 {
		query += fmt.Sprintf(" LIMIT $%d", argIdx)
		args = append(args, *f.Limit)
		argIdx++
	}
	if f.Offset != nil && *f.Offset > 0 {
		query += fmt.Sprintf(" OFFSET $%d", argIdx)
		args = append(args, *f.Offset)
		argIdx++
	}

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var collections []models.WasteCollection
	for rows.Next() {
		var c models.WasteCollection
		if err := rows.Scan(&c.ID, &c.CollectionDate, &c.Status, &c.LocationName, &c.Address,
			&c.Latitude, &c.Longitude, &c.Notes, &c.RecyclerID, &c.BrandID, &c.CustomCode,
			&c.CreatedBy, &c.CreatedAt, &c.UpdatedAt); err != nil {
			return nil, 0, err
		}
		collections = append(collections, c)
	}
	return collections, totalCount, rows.Err()
}

func (r *PostgresCollectionRepository) AddItem(item models.CollectionItem) (models.CollectionItem, error) {
	if item.ID == "" {
		item.ID = uuid.NewString()
	}
	item.CreatedAt = time.Now().UTC()

	query := `INSERT INTO collection_items (id, collection_id, material_id, weight_kg, quantity,
		waste_code, notes, image_key, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`
	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()

	_, err := r.db.ExecContext(ctx, query, item.ID, item.CollectionID, item.MaterialID,
		item.WeightKg, item.Quantity, item.WasteCode, item.Notes, item.ImageKey, item.CreatedAt)
	return item, err
}

func (r *PostgresCollectionRepository) RemoveItem(collectionID, itemID string) error {
	query := `DELETE FROM collection_items WHERE id = $1 AND collection_id = $2`
	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()

	res, err := r.db.ExecContext(ctx, query, itemID, collectionID)
	if err != nil {
		return err
	}
	rowsAffected, _ := res.RowsAffected()
	if rowsAffected == 0 {
		return ErrItemNotFound
	}
	return nil
}

func (r *PostgresCollectionRepository) UpdateStatus(id, from, to string) (models.WasteCollection, error) {
	query := `UPDATE waste_collections SET status = $1, updated_at = $2 WHERE id = $3 AND status = $4`
	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()

	res, err := r.db.ExecContext(ctx, query, to, time.Now().UTC(), id, from)
	if err != nil {
		return models.WasteCollection{}, err
	}
	rowsAffected, _ := res.RowsAffected()
	if rowsAffected == 0 {
		if _, err := r.GetByID(id); err != nil {
			return models.WasteCollection{}, err
		}
		return models.WasteCollection{}, ErrInvalidTransition
	}
	return r.GetByID(id)
}

func (r *PostgresCollectionRepository) ScheduledBetween(from, to time.Time) ([]models.WasteCollection, error) {
	query := `SELECT ` + collectionColumns + ` FROM waste_collections
		WHERE collection_date BETWEEN $1 AND $2 AND status IN ($3, $4)
		ORDER BY collection_date`
	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()

	rows, err := r.db.QueryContext(ctx, query, from, to, models.CollectionPending, models.CollectionScheduled)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var collections []models.WasteCollection
	for rows.Next() {
		var c models.WasteCollection
		if err := rows.Scan(&c.ID, &c.CollectionDate, &c.Status, &c.LocationName, &c.Address,
			&c.Latitude, &c.Longitude, &c.Notes, &c.RecyclerID, &c.BrandID, &c.CustomCode,
			&c.CreatedBy, &c.CreatedAt, &c.UpdatedAt); err != nil {
			return nil, err
		}
		collections = append(collections, c)
	}
	return collections, rows.Err()
}
