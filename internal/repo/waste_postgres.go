package repo

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	models "github.com/greenbridge-eco/greenbridge/internal/models"
)

type PostgresCategoryRepository struct {
	db *sql.DB
}

func NewPostgresCategoryRepository(db *sql.DB) *PostgresCategoryRepository {
	return &PostgresCategoryRepository{db: db}
}

const categoryColumns = `id, name, code, description, COALESCE(parent_id::text, ''),
	recyclable, hazardous, image_key, created_at, updated_at`

func (r *PostgresCategoryRepository) Create(c models.WasteCategory) (models.WasteCategory, error) {
	if c.ID == "" {
		c.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	c.CreatedAt = now
	c.UpdatedAt = now

	query := `INSERT INTO waste_categories (id, name, code, description, parent_id, recyclable, hazardous, image_key, created_at, updated_at)
		VALUES ($1, $2, $3, $4, NULLIF($5, '')::uuid, $6, $7, $8, $9, $10)`
	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()

	_, err := r.db.ExecContext(ctx, query, c.ID, c.Name, c.Code, c.Description, c.ParentID,
		c.Recyclable, c.Hazardous, c.ImageKey, c.CreatedAt, c.UpdatedAt)
	if err != nil {
		if strings.Contains(err.Error(), "unique constraint") {
			return models.WasteCategory{}, ErrDuplicatedValueUnique
		}
		return models.WasteCategory{}, err
	}
	return c, nil
}

func (r *PostgresCategoryRepository) GetAll() ([]models.WasteCategory, error) {
	query := `SELECT ` + categoryColumns + ` FROM waste_categories WHERE deleted_at IS NULL ORDER BY name`
	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var categories []models.WasteCategory
	for rows.Next() {
		var c models.WasteCategory
		if err := rows.Scan(&c.ID, &c.Name, &c.Code, &c.Description, &c.ParentID,
			&c.Recyclable, &c.Hazardous, &c.ImageKey, &c.CreatedAt, &c.UpdatedAt); err != nil {
			return nil, err
		}
		categories = append(categories, c)
	}
	return categories, rows.Err()
}

func (r *PostgresCategoryRepository) GetByID(id string) (models.WasteCategory, error) {
	query := `SELECT ` + categoryColumns + ` FROM waste_categories WHERE id = $1 AND deleted_at IS NULL`
	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()

	var c models.WasteCategory
	err := r.db.QueryRowContext(ctx, query, id).Scan(&c.ID, &c.Name, &c.Code, &c.Description,
		&c.ParentID, &c.Recyclable, &c.Hazardous, &c.ImageKey, &c.CreatedAt, &c.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return models.WasteCategory{}, ErrCategoryNotFound
	}
	return c, err
}

func (r *PostgresCategoryRepository) Update(c models.WasteCategory) (models.WasteCategory, error) {
	c.UpdatedAt = time.Now().UTC()
	query := `UPDATE waste_categories SET name = $1, description = $2,
		parent_id = NULLIF($3, '')::uuid, recyclable = $4, hazardous = $5, image_key = $6, updated_at = $7
		WHERE id = $8 AND deleted_at IS NULL`
	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()

	res, err := r.db.ExecContext(ctx, query, c.Name, c.Description, c.ParentID,
		c.Recyclable, c.Hazardous, c.ImageKey, c.UpdatedAt, c.ID)
	if err != nil {
		return models.WasteCategory{}, err
	}
	rowsAffected, _ := res.RowsAffected()
	if rowsAffected == 0 {
		return models.WasteCategory{}, ErrCategoryNotFound
	}
	return r.GetByID(c.ID)
}

func (r *PostgresCategoryRepository) SoftDelete(id string) error {
	query := `UPDATE waste_categories SET deleted_at = $1 WHERE id = $2 AND deleted_at IS NULL`
	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()

	res, err := r.db.ExecContext(ctx, query, time.Now().UTC(), id)
	if err != nil {
		return err
	}
	rowsAffected, _ := res.RowsAffected()
	if rowsAffected == 0 {
		return ErrCategoryNotFound
	}
	return nil
}

func (r *PostgresCategoryRepository) Path(id string) (string, error) {
	query := `
		WITH RECURSIVE chain AS (
			SELECT id, name, parent_id, 0 AS depth
			FROM waste_categories WHERE id = $1 AND deleted_at IS NULL
			UNION ALL
			SELECT c.id, c.name, c.parent_id, chain.depth + 1
			FROM waste_categories c
			JOIN chain ON c.id = chain.parent_id
		)
		SELECT name FROM chain ORDER BY depth DESC`
	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()

	rows, err := r.db.QueryContext(ctx, query, id)
	if err != nil {
		return "", err
	}
	defer rows.Close()

	var names []string
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return "", err
		}
		names = append(names, name)
	}
	if len(names) == 0 {
		return "", ErrCategoryNotFound
	}
	return strings.Join(names, " > "), rows.Err()
}

type PostgresMaterialRepository struct {
	db *sql.DB
}

func NewPostgresMaterialRepository(db *sql.DB) *PostgresMaterialRepository {
	return &PostgresMaterialRepository{db: db}
}

const materialColumns = `id, name, code, description, category_id, recyclable,
	value_per_kg, co2_offset_per_kg, image_key, created_at, updated_at`

func (r *PostgresMaterialRepository) Create(m models.Material) (models.Material, error) {
	if m.ID == "" {
		m.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	m.CreatedAt = now
	m.UpdatedAt = now

	query := `INSERT INTO materials (id, name, code, description, category_id, recyclable,
		value_per_kg, co2_offset_per_kg, image_key, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)`
	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()

	_, err := r.db.ExecContext(ctx, query, m.ID, m.Name, m.Code, m.Description, m.CategoryID,
		m.Recyclable, m.ValuePerKg, m.CO2OffsetKg, m.ImageKey, m.CreatedAt, m.UpdatedAt)
	if err != nil {
		if strings.Contains(err.Error(), "unique constraint") {
			return models.Material{}, ErrDuplicatedValueUnique
		}
		return models.Material{}, err
	}
	return m, nil
}

func (r *PostgresMaterialRepository) GetByID(id string) (models.Material, error) {
	query := `SELECT ` + materialColumns + ` FROM materials WHERE id = $1 AND deleted_at IS NULL`
	return r.getOne(query, id)
}

func (r *PostgresMaterialRepository) GetByCode(code string) (models.Material, error) {
	query := `SELECT ` + materialColumns + ` FROM materials WHERE code = $1 AND deleted_at IS NULL`
	return r.getOne(query, code)
}

func (r *PostgresMaterialRepository) getOne(query string, arg any) (models.Material, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()

	var m models.Material
	err := r.db.QueryRowContext(ctx, query, arg).Scan(&m.ID, &m.Name, &m.Code, &m.Description,
		&m.CategoryID, &m.Recyclable, &m.ValuePerKg, &m.CO2OffsetKg, &m.ImageKey,
		&m.CreatedAt, &m.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return models.Material{}, ErrMaterialNotFound
	}
	return m, err
}

func (r *PostgresMaterialRepository) Update(m models.Material) (models.Material, error) {
	m.UpdatedAt = time.Now().UTC()
	query := `UPDATE materials SET name = $1, description = $2, category_id = $3, recyclable = $4,
		value_per_kg = $5, co2_offset_per_kg = $6, image_key = $7, updated_at = $8
		WHERE id = $9 AND deleted_at IS NULL`
	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()

	res, err := r.db.ExecContext(ctx, query, m.Name, m.Description, m.CategoryID, m.Recyclable,
		m.ValuePerKg, m.CO2OffsetKg, m.ImageKey, m.UpdatedAt, m.ID)
	if err != nil {
		return models.Material{}, err
	}
	rowsAffected, _ := res.RowsAffected()
	if rowsAffected == 0 {
		return models.Material{}, ErrMaterialNotFound
	}
	return r.GetByID(m.ID)
}

func (r *PostgresMaterialRepository) SoftDelete(id string) error {
	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()

	var inUse bool
	err := r.db.QueryRowContext(ctx,
		`SELECT EXISTS (SELECT 1 FROM collection_items WHERE material_id = $1)`, id).Scan(&inUse)
	if err != nil {
		return err
	}
	if inUse {
		return ErrMaterialInUse
	}

	res, err := r.db.ExecContext(ctx,
		`UPDATE materials SET deleted_at = $1 WHERE id = $2 AND deleted_at IS NULL`,
		time.Now().UTC(), id)
	if err != nil {
		return err
	}
	rowsAffected, _ := res.RowsAffected()
	if rowsAffected == 0 {
		return ErrMaterialNotFound
	}
	return nil
}

func (r *PostgresMaterialRepository) Filter(f MaterialFilter) ([]models.Material, int, error) {
	conditions := ""
	args := []any{}
	argIdx := 1

	if f.Query != "" {
		conditions += fmt.Sprintf(" AND (name ILIKE $%d OR code ILIKE $%d)", argIdx, argIdx)
		args = append(args, "%"+f.Query+"%")
		argIdx++
	}
	if f.CategoryID != "" {
		conditions += fmt.Sprintf(" AND category_id = $%d", argIdx)
		args = append(args, f.CategoryID)
		argIdx++
	}
	if f.Recyclable != nil {
		conditions += fmt.Sprintf(" AND recyclable = $%d", argIdx)
		args = append(args, *f.Recyclable)
		argIdx++
	}

	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()

	var totalCount int
	countQuery := "SELECT COUNT(*) FROM materials WHERE deleted_at IS NULL" + conditions
	if err := r.db.QueryRowContext(ctx, countQuery, args...).Scan(&totalCount); err != nil {
		return nil, 0, err
	}

	query := `SELECT ` + materialColumns + ` FROM materials WHERE deleted_at IS NULL` + conditions + ` ORDER BY name`
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

	var materials []models.Material
	for rows.Next() {
		var m models.Material
		if err := rows.Scan(&m.ID, &m.Name, &m.Code, &m.Description, &m.CategoryID,
			&m.Recyclable, &m.ValuePerKg, &m.CO2OffsetKg, &m.ImageKey,
			&m.CreatedAt, &m.UpdatedAt); err != nil {
			return nil, 0, err
		}
		materials = append(materials, m)
	}
	return materials, totalCount, rows.Err()
}
