package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/greenbridge-eco/greenbridge/internal/auth"
	"github.com/greenbridge-eco/greenbridge/internal/models"
	"github.com/greenbridge-eco/greenbridge/internal/repo"
)

// ListUsersHandler godoc
// @Summary List users, optionally by role
// @Tags admin
// @Security BearerAuth
// @Produce json
// @Param role query string false "Filter by role"
// @Success 200 {array} models.User
// @Failure 403 {string} string "Forbidden"
// @Router /api/v1/admin/users [get]
func ListUsersHandler(w http.ResponseWriter, r *http.Request) {
	role := r.URL.Query().Get("role")
	if role != "" && !models.ValidRole(role) {
		http.Error(w, "invalid role", http.StatusBadRequest)
		return
	}

	users, err := userRepo.ListByRole(role)
	if err != nil {
		http.Error(w, "could not fetch users", http.StatusInternalServerError)
		return
	}
	writeJSONOrLog(w, http.StatusOK, users)
}

// CreateUserHandler godoc
// @Summary Create a user with an explicit role
// @Description Unlike registration, any role may be assigned and no email verification is required.
// @Tags admin
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param user body RegisterRequest true "User to create"
// @Success 201 {object} models.User
// @Failure 400 {string} string "Invalid input"
// @Failure 409 {string} string "Email already registered"
// @Router /api/v1/admin/users [post]
func CreateUserHandler(w http.ResponseWriter, r *http.Request) {
	var req RegisterRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid input", http.StatusBadRequest)
		return
	}
	if !models.ValidEmail(req.Email) {
		http.Error(w, "invalid email address", http.StatusBadRequest)
		return
	}
	if len(req.Password) < 8 {
		http.Error(w, "password must be at least 8 characters", http.StatusBadRequest)
		return
	}
	if !models.ValidRole(req.Role) {
		http.Error(w, "invalid role", http.StatusBadRequest)
		return
	}

	hash, err := auth.HashPassword(req.Password)
	if err != nil {
		http.Error(w, "could not create user", http.StatusInternalServerError)
		return
	}
	created, err := userRepo.Create(models.User{
		Email:        req.Email,
		PasswordHash: hash,
		FirstName:    req.FirstName,
		LastName:     req.LastName,
		Role:         req.Role,
		PhoneNumber:  req.PhoneNumber,
		Address:      req.Address,
		Active:       true,
		Verified:     true,
	})
	if err != nil {
		if errors.Is(err, repo.ErrDuplicatedValueUnique) {
			http.Error(w, "email already registered", http.StatusConflict)
			return
		}
		http.Error(w, "could not create user", http.StatusInternalServerError)
		return
	}
	writeJSONOrLog(w, http.StatusCreated, created)
}

// GetUserHandler godoc
// @Summary Get user by ID
// @Tags admin
// @Security BearerAuth
// @Produce json
// @Param id path string true "User ID"
// @Success 200 {object} models.User
// @Failure 404 {string} string "Not found"
// @Router /api/v1/admin/users/{id} [get]
func GetUserHandler(w http.ResponseWriter, r *http.Request) {
	user, err := userRepo.GetByID(chi.URLParam(r, "id"))
	if err != nil {
		if errors.Is(err, repo.ErrUserNotFound) {
			http.Error(w, "user not found", http.StatusNotFound)
			return
		}
		http.Error(w, "could not fetch user", http.StatusInternalServerError)
		return
	}
	writeJSONOrLog(w, http.StatusOK, user)
}

// UpdateProfileHandler godoc
// @Summary Update the authenticated user's profile
// @Tags auth
// @Security BearerAuth
// @Accept json
// @Produce json
// @Success 200 {object} models.User
// @Failure 400 {string} string "Invalid input"
// @Router /api/v1/auth/me [put]
func UpdateProfileHandler(w http.ResponseWriter, r *http.Request) {
	claims, err := ClaimsFromRequest(r)
	if err != nil {
		http.Error(w, "unauthorized", http.StatusUnauthorized)
		return
	}

	var req struct {
		FirstName   string `json:"first_name"`
		LastName    string `json:"last_name"`
		PhoneNumber string `json:"phone_number"`
		Address     string `json:"address"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid input", http.StatusBadRequest)
		return
	}
	if req.PhoneNumber != "" && !models.ValidPhoneNumber(req.PhoneNumber) {
		http.Error(w, "invalid phone number", http.StatusBadRequest)
		return
	}

	user, err := userRepo.GetByID(claims.UserID)
	if err != nil {
		http.Error(w, "user not found", http.StatusNotFound)
		return
	}
	user.FirstName = req.FirstName
	user.LastName = req.LastName
	user.PhoneNumber = req.PhoneNumber
	user.Address = req.Address

	updated, err := userRepo.Update(user)
	if err != nil {
		http.Error(w, "could not update profile", http.StatusInternalServerError)
		return
	}
	writeJSONOrLog(w, http.StatusOK, updated)
}

// DeactivateUserHandler godoc
// @Summary Soft-delete a user account
// @Tags admin
// @Security BearerAuth
// @Param id path string true "User ID"
// @Success 204 "Deleted"
// @Failure 404 {string} string "Not found"
// @Router /api/v1/admin/users/{id} [delete]
func DeactivateUserHandler(w http.ResponseWriter, r *http.Request) {
	if err := userRepo.SoftDelete(chi.URLParam(r, "id")); err != nil {
		if errors.Is(err, repo.ErrUserNotFound) {
			http.Error(w, "user not found", http.StatusNotFound)
			return
		}
		http.Error(w, "could not delete user", http.StatusInternalServerError)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
