package handlers

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"time"

	"github.com/google/uuid"

	"github.com/greenbridge-eco/greenbridge/internal/auth"
	"github.com/greenbridge-eco/greenbridge/internal/models"
	"github.com/greenbridge-eco/greenbridge/internal/repo"
)

const refreshTokenTTL = 30 * 24 * time.Hour

// RegisterHandler godoc
// @Summary Register new user and return JWT token
// @Tags auth
// @Accept json
// @Produce json
// @Param registration body RegisterRequest true "account details"
// @Success 201 {object} RegisterResult
// @Failure 400 {string} string "Invalid input"
// @Failure 409 {string} string "User exists"
// @Router /api/v1/auth/register [post]
func RegisterHandler(w http.ResponseWriter, r *http.Request) {
	var req RegisterRequest
	if err := readJSON(w, r, &req); err != nil {
		http.Error(w, "invalid input", http.StatusBadRequest)
		return
	}

	if req.Email == "" || req.Password == "" {
		http.Error(w, "missing credentials", http.StatusBadRequest)
		return
	}
	if !models.ValidEmail(req.Email) {
		http.Error(w, "invalid email address", http.StatusBadRequest)
		return
	}
	if len(req.Password) < 8 {
		http.Error(w, "password too short", http.StatusBadRequest)
		return
	}
	if req.PhoneNumber != "" && !models.ValidPhoneNumber(req.PhoneNumber) {
		http.Error(w, "invalid phone number", http.StatusBadRequest)
		return
	}

	// Self-registration never grants admin.
	role := req.Role
	if role == "" {
		role = models.RoleConsumer
	}
	if !models.ValidRole(role) || role == models.RoleAdmin {
		http.Error(w, "invalid role", http.StatusBadRequest)
		return
	}

	hash, err := auth.HashPassword(req.Password)
	if err != nil {
		http.Error(w, "failed to hash password", http.StatusInternalServerError)
		return
	}

	user := models.User{
		Email:        req.Email,
		FirstName:    req.FirstName,
		LastName:     req.LastName,
		Role:         role,
		PhoneNumber:  req.PhoneNumber,
		Address:      req.Address,
		Active:       true,
		PasswordHash: hash,
	}

	created, err := userRepo.Create(user)
	if err != nil {
		if errors.Is(err, repo.ErrDuplicatedValueUnique) {
			http.Error(w, "email already registered", http.StatusConflict)
		} else {
			http.Error(w, "failed to register user", http.StatusInternalServerError)
		}
		return
	}

	// Email verification token; account works before verification but some
	// flows (organization creation) require a verified address.
	verification := models.UserToken{
		UserID:    created.ID,
		Email:     created.Email,
		Type:      models.TokenEmailVerification,
		Token:     uuid.NewString(),
		ExpiresAt: time.Now().Add(48 * time.Hour),
	}
	if _, err := tokenRepo.Create(verification); err != nil {
		log.Printf("failed to create verification token: %v", err)
	} else if mailer != nil {
		mailer.Send(created.Email, "Verify your GreenBridge account",
			"Welcome to GreenBridge!\n\nYour verification code: "+verification.Token)
	}

	token, err := auth.GenerateToken(created)
	if err != nil {
		http.Error(w, "failed to generate token", http.StatusInternalServerError)
		return
	}

	w.WriteHeader(http.StatusCreated)
	err = json.NewEncoder(w).Encode(RegisterResult{
		Message: "user registered",
		Token:   token,
		User:    created,
	})
	if err != nil {
		log.Printf("Failed to write JSON response: %v", err)
	}
}

// LoginHandler godoc
// @Summary Authenticate user and return JWT + refresh tokens
// @Tags auth
// @Accept json
// @Produce json
// @Param credentials body CredentialsRequest true "email and password"
// @Success 200 {object} LoginResult
// @Failure 400 {string} string "Invalid input"
// @Failure 401 {string} string "Unauthorized"
// @Router /api/v1/auth/login [post]
func LoginHandler(w http.ResponseWriter, r *http.Request) {
	var credentials CredentialsRequest
	if err := readJSON(w, r, &credentials); err != nil {
		http.Error(w, "invalid input", http.StatusBadRequest)
		return
	}

	user, err := userRepo.GetByEmail(credentials.Email)
	if err != nil {
		http.Error(w, "invalid credentials", http.StatusUnauthorized)
		return
	}
	if !user.Active {
		http.Error(w, "account disabled", http.StatusUnauthorized)
		return
	}
	if !auth.CheckPassword(user.PasswordHash, credentials.Password) {
		http.Error(w, "invalid credentials", http.StatusUnauthorized)
		return
	}

	token, err := auth.GenerateToken(user)
	if err != nil {
		http.Error(w, "could not generate token", http.StatusInternalServerError)
		return
	}

	refresh := ""
	if refreshStore != nil {
		refresh, err = refreshStore.Issue(user.ID, refreshTokenTTL)
		if err != nil {
			http.Error(w, "could not issue refresh token", http.StatusInternalServerError)
			return
		}
	}

	err = json.NewEncoder(w).Encode(LoginResult{Token: token, RefreshToken: refresh, User: user})
	if err != nil {
		log.Printf("Failed to write JSON response: %v", err)
	}
}

// RefreshHandler godoc
// @Summary Exchange a refresh token for a new JWT
// @Tags auth
// @Accept json
// @Produce json
// @Param refresh body RefreshRequest true "refresh token"
// @Success 200 {object} LoginResult
// @Failure 401 {string} string "Unauthorized"
// @Router /api/v1/auth/refresh [post]
func RefreshHandler(w http.ResponseWriter, r *http.Request) {
	var req RefreshRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.RefreshToken == "" {
		http.Error(w, "invalid input", http.StatusBadRequest)
		return
	}

	userID, err := refreshStore.Validate(req.RefreshToken)
	if err != nil {
		http.Error(w, "invalid refresh token", http.StatusUnauthorized)
		return
	}

	user, err := userRepo.GetByID(userID)
	if err != nil || !user.Active {
		http.Error(w, "invalid refresh token", http.StatusUnauthorized)
		return
	}

	token, err := auth.GenerateToken(user)
	if err != nil {
		http.Error(w, "could not generate token", http.StatusInternalServerError)
		return
	}

	err = json.NewEncoder(w).Encode(LoginResult{Token: token, RefreshToken: req.RefreshToken, User: user})
	if err != nil {
		log.Printf("Failed to write JSON response: %v", err)
	}
}

// LogoutHandler godoc
// @Summary Revoke a refresh token
// @Tags auth
// @Security BearerAuth
// @Accept json
// @Param refresh body RefreshRequest true "refresh token"
// @Success 204 "Logged out"
// @Router /api/v1/auth/logout [post]
func LogoutHandler(w http.ResponseWriter, r *http.Request) {
	var req RefreshRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err == nil && req.RefreshToken != "" && refreshStore != nil {
		_ = refreshStore.Revoke(req.RefreshToken)
	}
	w.WriteHeader(http.StatusNoContent)
}

// MeHandler godoc
// @Summary Current authenticated user
// @Tags auth
// @Security BearerAuth
// @Produce json
// @Success 200 {object} models.User
// @Failure 401 {string} string "Unauthorized"
// @Router /api/v1/auth/me [get]
func MeHandler(w http.ResponseWriter, r *http.Request) {
	claims, err := ClaimsFromRequest(r)
	if err != nil {
		http.Error(w, "unauthorized", http.StatusUnauthorized)
		return
	}

	user, err := userRepo.GetByID(claims.UserID)
	if err != nil {
		http.Error(w, "user not found", http.StatusNotFound)
		return
	}
	writeJSONOrLog(w, http.StatusOK, user)
}

// VerifyEmailHandler godoc
// @Summary Confirm an email verification token
// @Tags auth
// @Produce json
// @Param token query string true "verification token"
// @Success 200 {object} map[string]string
// @Failure 400 {string} string "Invalid token"
// @Router /api/v1/auth/verify [get]
func VerifyEmailHandler(w http.ResponseWriter, r *http.Request) {
	tokenStr := r.URL.Query().Get("token")
	if tokenStr == "" {
		http.Error(w, "token is required", http.StatusBadRequest)
		return
	}

	token, err := tokenRepo.GetByToken(tokenStr, models.TokenEmailVerification)
	if err != nil || !token.Valid(time.Now()) {
		http.Error(w, "invalid or expired token", http.StatusBadRequest)
		return
	}

	user, err := userRepo.GetByID(token.UserID)
	if err != nil {
		http.Error(w, "user not found", http.StatusBadRequest)
		return
	}
	user.Verified = true
	if _, err := userRepo.Update(user); err != nil {
		http.Error(w, "could not verify account", http.StatusInternalServerError)
		return
	}
	if err := tokenRepo.MarkUsed(token.ID); err != nil {
		log.Printf("failed to mark token used: %v", err)
	}

	writeJSONOrLog(w, http.StatusOK, map[string]string{"message": "email verified"})
}

// RequestPasswordResetHandler godoc
// @Summary Send a password reset token by email
// @Tags auth
// @Accept json
// @Success 202 {object} map[string]string
// @Router /api/v1/auth/password-reset [post]
func RequestPasswordResetHandler(w http.ResponseWriter, r *http.Request) {
	var req PasswordResetRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Email == "" {
		http.Error(w, "invalid input", http.StatusBadRequest)
		return
	}

	// Always answer 202 so the endpoint does not leak which emails exist.
	user, err := userRepo.GetByEmail(req.Email)
	if err == nil {
		reset := models.UserToken{
			UserID:    user.ID,
			Email:     user.Email,
			Type:      models.TokenPasswordReset,
			Token:     uuid.NewString(),
			ExpiresAt: time.Now().Add(2 * time.Hour),
		}
		if _, err := tokenRepo.Create(reset); err != nil {
			log.Printf("failed to create reset token: %v", err)
		} else if mailer != nil {
			mailer.Send(user.Email, "GreenBridge password reset",
				"Your password reset code: "+reset.Token+"\n\nIt expires in two hours.")
		}
	}

	writeJSONOrLog(w, http.StatusAccepted, map[string]string{"message": "reset email sent if the account exists"})
}

// ConfirmPasswordResetHandler godoc
// @Summary Set a new password using a reset token
// @Tags auth
// @Accept json
// @Success 200 {object} map[string]string
// @Failure 400 {string} string "Invalid token"
// @Router /api/v1/auth/password-reset/confirm [post]
func ConfirmPasswordResetHandler(w http.ResponseWriter, r *http.Request) {
	var req PasswordResetConfirm
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Token == "" {
		http.Error(w, "invalid input", http.StatusBadRequest)
		return
	}
	if len(req.NewPassword) < 8 {
		http.Error(w, "password too short", http.StatusBadRequest)
		return
	}

	token, err := tokenRepo.GetByToken(req.Token, models.TokenPasswordReset)
	if err != nil || !token.Valid(time.Now()) {
		http.Error(w, "invalid or expired token", http.StatusBadRequest)
		return
	}

	user, err := userRepo.GetByID(token.UserID)
	if err != nil {
		http.Error(w, "user not found", http.StatusBadRequest)
		return
	}

	hash, err := auth.HashPassword(req.NewPassword)
	if err != nil {
		http.Error(w, "failed to hash password", http.StatusInternalServerError)
		return
	}
	user.PasswordHash = hash
	if _, err := userRepo.Update(user); err != nil {
		http.Error(w, "could not update password", http.StatusInternalServerError)
		return
	}
	if err := tokenRepo.MarkUsed(token.ID); err != nil {
		log.Printf("failed to mark token used: %v", err)
	}

	writeJSONOrLog(w, http.StatusOK, map[string]string{"message": "password updated"})
}

func writeJSONOrLog(w http.ResponseWriter, status int, data any) {
	if err := writeJSON(w, status, data); err != nil {
		log.Printf("Failed to write JSON response: %v", err)
	}
}
