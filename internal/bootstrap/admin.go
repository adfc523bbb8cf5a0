package bootstrap

import (
	"errors"
	"log"

	"github.com/greenbridge-eco/greenbridge/internal/auth"
	"github.com/greenbridge-eco/greenbridge/internal/models"
	"github.com/greenbridge-eco/greenbridge/internal/repo"
)

// EnsureAdmin creates the platform admin account when it does not exist yet.
// An existing account is left untouched, password included, so rotating
// ADMIN_PASSWORD in the environment never silently resets credentials.
func EnsureAdmin(users repo.UserRepository, email, password string) error {
	if email == "" || password == "" {
		log.Println("admin account not configured, skipping")
		return nil
	}

	_, err := users.GetByEmail(email)
	if err == nil {
		return nil
	}
	if !errors.Is(err, repo.ErrUserNotFound) {
		return err
	}

	hash, err := auth.HashPassword(password)
	if err != nil {
		return err
	}
	_, err = users.Create(models.User{
		Email:        email,
		Role:         models.RoleAdmin,
		Active:       true,
		Verified:     true,
		PasswordHash: hash,
	})
	if err != nil {
		return err
	}
	log.Printf("created admin account %s", email)
	return nil
}
