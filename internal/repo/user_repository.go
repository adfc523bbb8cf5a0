package repo

import models "github.com/greenbridge-eco/greenbridge/internal/models"

// UserRepository defines the interface for user account data operations.
type UserRepository interface {
	Create(user models.User) (models.User, error)
	GetByEmail(email string) (models.User, error)
	GetByID(id string) (models.User, error)
	Update(user models.User) (models.User, error)
	SoftDelete(id string) error
	ListByRole(role string) ([]models.User, error)
}
