package repo

import (
	"time"

	models "github.com/greenbridge-eco/greenbridge/internal/models"
)

// TokenRepository manages single-use user tokens (verification, reset, invitation).
type TokenRepository interface {
	Create(token models.UserToken) (models.UserToken, error)
	GetByToken(token, tokenType string) (models.UserToken, error)
	MarkUsed(id string) error
	DeleteExpired(before time.Time) (int, error)
}
