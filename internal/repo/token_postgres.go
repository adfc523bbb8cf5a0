package repo

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/google/uuid"

	models "github.com/greenbridge-eco/greenbridge/internal/models"
)

type PostgresTokenRepository struct {
	db *sql.DB
}

func NewPostgresTokenRepository(db *sql.DB) *PostgresTokenRepository {
	return &PostgresTokenRepository{db: db}
}

func (r *PostgresTokenRepository) Create(t models.UserToken) (models.UserToken, error) {
	if t.ID == "" {
		t.ID = uuid.NewString()
	}
	t.CreatedAt = time.Now().UTC()

	query := `INSERT INTO user_tokens (id, user_id, email, token_type, token, expires_at, used, created_at)
		VALUES ($1, NULLIF($2, ''), $3, $4, $5, $6, $7, $8)`
	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()

	_, err := r.db.ExecContext(ctx, query, t.ID, t.UserID, t.Email, t.Type, t.Token,
		t.ExpiresAt, t.Used, t.CreatedAt)
	return t, err
}

func (r *PostgresTokenRepository) GetByToken(token, tokenType string) (models.UserToken, error) {
	query := `SELECT id, COALESCE(user_id::text, ''), email, token_type, token, expires_at, used, used_at, created_at
		FROM user_tokens WHERE token = $1 AND token_type = $2`
	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()

	var t models.UserToken
	err := r.db.QueryRowContext(ctx, query, token, tokenType).Scan(
		&t.ID, &t.UserID, &t.Email, &t.Type, &t.Token, &t.ExpiresAt, &t.Used, &t.UsedAt, &t.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return models.UserToken{}, ErrTokenNotFound
	}
	return t, err
}

func (r *PostgresTokenRepository) MarkUsed(id string) error {
	query := `UPDATE user_tokens SET used = true, used_at = $1 WHERE id = $2 AND used = false`
	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()

	res, err := r.db.ExecContext(ctx, query, time.Now().UTC(), id)
	if err != nil {
		return err
	}
	rowsAffected, _ := res.RowsAffected()
	if rowsAffected == 0 {
		return ErrTokenNotFound
	}
	return nil
}

func (r *PostgresTokenRepository) DeleteExpired(before time.Time) (int, error) {
	query := `DELETE FROM user_tokens WHERE expires_at < $1`
	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()

	res, err := r.db.ExecContext(ctx, query, before)
	if err != nil {
		return 0, err
	}
	rowsAffected, _ := res.RowsAffected()
	return int(rowsAffected), nil
}
