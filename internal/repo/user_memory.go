package repo

import (
	"time"

	"github.com/google/uuid"

	models "github.com/greenbridge-eco/greenbridge/internal/models"
)

type InMemoryUserRepository struct {
	users []models.User
}

func NewInMemoryUserRepository() *InMemoryUserRepository {
	return &InMemoryUserRepository{users: []models.User{}}
}

func (r *InMemoryUserRepository) Create(u models.User) (models.User, error) {
	for _, user := range r.users {
		if user.Email == u.Email && user.DeletedAt == nil {
			return models.User{}, ErrDuplicatedValueUnique
		}
	}

	if u.ID == "" {
		u.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	u.CreatedAt = now
	u.UpdatedAt = now
	r.users = append(r.users, u)
	return u, nil
}

func (r *InMemoryUserRepository) GetByEmail(email string) (models.User, error) {
	for _, u := range r.users {
		if u.Email == email && u.DeletedAt == nil {
			return u, nil
		}
	}
	return models.User{}, ErrUserNotFound
}

func (r *InMemoryUserRepository) GetByID(id string) (models.User, error) {
	for _, u := range r.users {
		if u.ID == id && u.DeletedAt == nil {
			return u, nil
		}
	}
	return models.User{}, ErrUserNotFound
}

func (r *InMemoryUserRepository) Update(u models.User) (models.User, error) {
	for i, existing := range r.users {
		if existing.ID == u.ID && existing.DeletedAt == nil {
			u.CreatedAt = existing.CreatedAt
			u.UpdatedAt = time.Now().UTC()
			r.users[i] = u
			return u, nil
		}
	}
	return models.User{}, ErrUserNotFound
}

func (r *InMemoryUserRepository) SoftDelete(id string) error {
	for i, u := range r.users {
		if u.ID == id && u.DeletedAt == nil {
			now := time.Now().UTC()
			r.users[i].DeletedAt = &now
			r.users[i].Active = false
			return nil
		}
	}
	return ErrUserNotFound
}

// ListByRole returns users with the given role; an empty role matches all.
func (r *InMemoryUserRepository) ListByRole(role string) ([]models.User, error) {
	var users []models.User
	for _, u := range r.users {
		if (role == "" || u.Role == role) && u.DeletedAt == nil {
			users = append(users, u)
		}
	}
	return users, nil
}

func (r *InMemoryUserRepository) Clear() {
	r.users = []models.User{}
}
