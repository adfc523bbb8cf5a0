package repo

import (
	"time"

	"github.com/google/uuid"

	models "github.com/greenbridge-eco/greenbridge/internal/models"
)

type InMemoryTokenRepository struct {
	tokens []models.UserToken
}

func NewInMemoryTokenRepository() *InMemoryTokenRepository {
	return &InMemoryTokenRepository{tokens: []models.UserToken{}}
}

func (r *InMemoryTokenRepository) Create(t models.UserToken) (models.UserToken, error) {
	if t.ID == "" {
		t.ID = uuid.NewString()
	}
	t.CreatedAt = time.Now().UTC()
	r.tokens = append(r.tokens, t)
	return t, nil
}

func (r *InMemoryTokenRepository) GetByToken(token, tokenType string) (models.UserToken, error) {
	for _, t := range r.tokens {
		if t.Token == token && t.Type == tokenType {
			return t, nil
		}
	}
	return models.UserToken{}, ErrTokenNotFound
}

func (r *InMemoryTokenRepository) MarkUsed(id string) error {
	for i, t := range r.tokens {
		if t.ID == id && !t.Used {
			now := time.Now().UTC()
			r.tokens[i].Used = true
			r.tokens[i].UsedAt = &now
			return nil
		}
	}
	return ErrTokenNotFound
}

func (r *InMemoryTokenRepository) DeleteExpired(before time.Time) (int, error) {
	var kept []models.UserToken
	deleted := 0
	for _, t := range r.tokens {
		if t.ExpiresAt.Before(before) {
			deleted++
			continue
		}
		kept = append(kept, t)
	}
	r.tokens = kept
	return deleted, nil
}

// FindByUser returns the most recent live token of the given type for a user.
func (r *InMemoryTokenRepository) FindByUser(userID, tokenType string) (models.UserToken, bool) {
	for i := len(r.tokens) - 1; i >= 0; i-- {
		t := r.tokens[i]
		if t.UserID == userID && t.Type == tokenType && !t.Used {
			return t, true
		}
	}
	return models.UserToken{}, false
}

func (r *InMemoryTokenRepository) Clear() {
	r.tokens = []models.UserToken{}
}
