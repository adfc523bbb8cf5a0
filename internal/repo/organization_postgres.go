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

type PostgresOrganizationRepository struct {
	db *sql.DB
}

func NewPostgresOrganizationRepository(db *sql.DB) *PostgresOrganizationRepository {
	return &PostgresOrganizationRepository{db: db}
}

const orgColumns = `id, name, type, status, tax_id, registration_number, website,
	primary_contact_name, primary_contact_email, primary_contact_phone,
	address_line1, address_line2, city, state_province, postal_code, country,
	latitude, longitude, COALESCE(created_by::text, ''), COALESCE(verified_by::text, ''),
	verification_date, rejection_reason, active, created_at, updated_at`

func (r *PostgresOrganizationRepository) Create(o models.Organization) (models.Organization, error) {
	if o.ID == "" {
		o.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	o.CreatedAt = now
	o.UpdatedAt = now
	o.Status = models.OrgStatusPending
	o.Active = true

	query := `INSERT INTO organizations (id, name, type, status, tax_id, registration_number, website,
		primary_contact_name, primary_contact_email, primary_contact_phone,
		address_line1, address_line2, city, state_province, postal_code, country,
		latitude, longitude, created_by, active, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18,
			NULLIF($19, '')::uuid, $20, $21, $22)`
	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()

	_, err := r.db.ExecContext(ctx, query, o.ID, o.Name, o.Type, o.Status, o.TaxID,
		o.RegistrationNumber, o.Website, o.PrimaryContactName, o.PrimaryContactEmail,
		o.PrimaryContactPhone, o.AddressLine1, o.AddressLine2, o.City, o.StateProvince,
		o.PostalCode, o.Country, o.Latitude, o.Longitude, o.CreatedBy, o.Active,
		o.CreatedAt, o.UpdatedAt)
	return o, err
}

func (r *PostgresOrganizationRepository) GetByID(id string) (models.Organization, error) {
	query := `SELECT ` + orgColumns + ` FROM organizations WHERE id = $1 AND deleted_at IS NULL`
	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()

	return scanOrganization(r.db.QueryRowContext(ctx, query, id))
}

func (r *PostgresOrganizationRepository) Update(o models.Organization) (models.Organization, error) {
	o.UpdatedAt = time.Now().UTC()
	query := `UPDATE organizations SET name = $1, type = $2, tax_id = $3, registration_number = $4,
		website = $5, primary_contact_name = $6, primary_contact_email = $7,
		primary_contact_phone = $8, address_line1 = $9, address_line2 = $10, city = $11,
		state_province = $12, postal_code = $13, country = $14, latitude = $15,
		longitude = $16, updated_at = $17
		WHERE id = $18 AND deleted_at IS NULL`
	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()

	res, err := r.db.ExecContext(ctx, query, o.Name, o.Type, o.TaxID, o.RegistrationNumber, o.Website,
		o.PrimaryContactName, o.PrimaryContactEmail, o.PrimaryContactPhone,
		o.AddressLine1, o.AddressLine2, o.City, o.StateProvince, o.PostalCode, o.Country,
		o.Latitude, o.Longitude, o.UpdatedAt, o.ID)
	if err != nil {
		return models.Organization{}, err
	}
	rowsAffected, _ := res.RowsAffected()
	if rowsAffected == 0 {
		return models.Organization{}, ErrOrganizationNotFound
	}
	return r.GetByID(o.ID)
}

func (r *PostgresOrganizationRepository) Filter(f OrganizationFilter) ([]models.Organization, int, error) {
	conditions := ""
	args := []any{}
	argIdx := 1

	if f.Name != "" {
		conditions += fmt.Sprintf(" AND name ILIKE $%d", argIdx)
		args = append(args, "%"+f.Name+"%")
		argIdx++
	}
	if f.Type != "" {
		conditions += fmt.Sprintf(" AND type = $%d", argIdx)
		args = append(args, f.Type)
		argIdx++
	}
	if f.Status != "" {
		conditions += fmt.Sprintf(" AND status = $%d", argIdx)
		args = append(args, f.Status)
		argIdx++
	}
	if f.CreatedBy != "" {
		conditions += fmt.Sprintf(" AND created_by = $%d", argIdx)
		args = append(args, f.CreatedBy)
		argIdx++
	}

	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()

	var totalCount int
	countQuery := "SELECT COUNT(*) FROM organizations WHERE deleted_at IS NULL" + conditions
	if err := r.db.QueryRowContext(ctx, countQuery, args...).Scan(&totalCount); err != nil {
		return nil, 0, err
	}

	query := `SELECT ` + orgColumns + ` FROM organizations WHERE deleted_at IS NULL` + conditions + ` ORDER BY name`
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

	var orgs []models.Organization
	for rows.Next() {
		o, err := scanOrganizationRow(rows)
		if err != nil {
			return nil, 0, err
		}
		orgs = append(orgs, o)
	}
	return orgs, totalCount, rows.Err()
}

func (r *PostgresOrganizationRepository) SetStatus(id, status, verifiedBy, rejectionReason string) (models.Organization, error) {
	query := `UPDATE organizations
		SET status = $1, verified_by = NULLIF($2, '')::uuid, verification_date = $3,
			rejection_reason = $4, updated_at = $5
		WHERE id = $6 AND status = $7 AND deleted_at IS NULL`
	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()

	var verificationDate any
	if status == models.OrgStatusVerified {
		verificationDate = time.Now().UTC()
	}

	res, err := r.db.ExecContext(ctx, query, status, verifiedBy, verificationDate,
		rejectionReason, time.Now().UTC(), id, models.OrgStatusPending)
	if err != nil {
		return models.Organization{}, err
	}
	rowsAffected, _ := res.RowsAffected()
	if rowsAffected == 0 {
		// Either the organization does not exist or it already left pending.
		if _, err := r.GetByID(id); err != nil {
			return models.Organization{}, err
		}
		return models.Organization{}, ErrInvalidTransition
	}
	return r.GetByID(id)
}

func (r *PostgresOrganizationRepository) SoftDelete(id string) error {
	query := `UPDATE organizations SET deleted_at = $1, active = false WHERE id = $2 AND deleted_at IS NULL`
	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()

	res, err := r.db.ExecContext(ctx, query, time.Now().UTC(), id)
	if err != nil {
		return err
	}
	rowsAffected, _ := res.RowsAffected()
	if rowsAffected == 0 {
		return ErrOrganizationNotFound
	}
	return nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanOrganization(row *sql.Row) (models.Organization, error) {
	o, err := scanOrganizationRow(row)
	if errors.Is(err, sql.ErrNoRows) {
		return models.Organization{}, ErrOrganizationNotFound
	}
	return o, err
}

func scanOrganizationRow(row rowScanner) (models.Organization, error) {
	var o models.Organization
	err := row.Scan(&o.ID, &o.Name, &o.Type, &o.Status, &o.TaxID, &o.RegistrationNumber,
		&o.Website, &o.PrimaryContactName, &o.PrimaryContactEmail, &o.PrimaryContactPhone,
		&o.AddressLine1, &o.AddressLine2, &o.City, &o.StateProvince, &o.PostalCode,
		&o.Country, &o.Latitude, &o.Longitude, &o.CreatedBy, &o.VerifiedBy,
		&o.VerificationDate, &o.RejectionReason, &o.Active, &o.CreatedAt, &o.UpdatedAt)
	return o, err
}
