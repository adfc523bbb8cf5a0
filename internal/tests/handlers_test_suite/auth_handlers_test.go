package handlers_test_suite

import (
	"encoding/json"
	"net/http"
	"testing"

	"github.com/greenbridge-eco/greenbridge/internal/auth"
	handler "github.com/greenbridge-eco/greenbridge/internal/http/handlers"
	"github.com/greenbridge-eco/greenbridge/internal/models"
)

func TestRegisterHandler_Valid(t *testing.T) {
	r := newTestRouter()

	w := doJSON(r, http.MethodPost, "/api/v1/auth/register", "", handler.RegisterRequest{
		Email:     "maria@example.com",
		Password:  "longenough",
		FirstName: "Maria",
		Role:      models.RoleBrand,
	})

	if w.Code != http.StatusCreated {
		t.Fatalf("expected 201 Created, got %d: %s", w.Code, w.Body.String())
	}

	var resp handler.RegisterResult
	if err := json.NewDecoder(w.Body).Decode(&resp); err != nil {
		t.Fatalf("error decoding response: %v", err)
	}
	if resp.Token == "" {
		t.Error("expected a token in the response")
	}
	if resp.User.Email != "maria@example.com" {
		t.Errorf("expected email maria@example.com, got %q", resp.User.Email)
	}
	if resp.User.Role != models.RoleBrand {
		t.Errorf("expected role brand, got %q", resp.User.Role)
	}
}

func TestRegisterHandler_Invalid(t *testing.T) {
	r := newTestRouter()

	tests := []struct {
		name       string
		payload    handler.RegisterRequest
		expectCode int
	}{
		{
			name:       "Missing email",
			payload:    handler.RegisterRequest{Password: "longenough"},
			expectCode: http.StatusBadRequest,
		},
		{
			name:       "Bad email format",
			payload:    handler.RegisterRequest{Email: "not-an-email", Password: "longenough"},
			expectCode: http.StatusBadRequest,
		},
		{
			name:       "Short password",
			payload:    handler.RegisterRequest{Email: "a@b.co", Password: "short"},
			expectCode: http.StatusBadRequest,
		},
		{
			name:       "Admin role not self-assignable",
			payload:    handler.RegisterRequest{Email: "a@b.co", Password: "longenough", Role: models.RoleAdmin},
			expectCode: http.StatusBadRequest,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := doJSON(r, http.MethodPost, "/api/v1/auth/register", "", tt.payload)
			if w.Code != tt.expectCode {
				t.Errorf("expected status %d, got %d", tt.expectCode, w.Code)
			}
		})
	}
}

func TestRegisterHandler_DuplicateEmail(t *testing.T) {
	r := newTestRouter()

	payload := handler.RegisterRequest{Email: "dup@example.com", Password: "longenough"}
	if w := doJSON(r, http.MethodPost, "/api/v1/auth/register", "", payload); w.Code != http.StatusCreated {
		t.Fatalf("expected 201 on first registration, got %d", w.Code)
	}
	if w := doJSON(r, http.MethodPost, "/api/v1/auth/register", "", payload); w.Code != http.StatusConflict {
		t.Errorf("expected 409 on duplicate registration, got %d", w.Code)
	}
}

func TestLoginHandler_WrongPassword(t *testing.T) {
	r := newTestRouter()

	w := doJSON(r, http.MethodPost, "/api/v1/auth/login", "", handler.CredentialsRequest{
		Email:    "admin@greenbridge.eco",
		Password: "wrong",
	})
	if w.Code != http.StatusUnauthorized {
		t.Errorf("expected 401, got %d", w.Code)
	}
}

func TestRefreshHandler_RoundTrip(t *testing.T) {
	r := newTestRouter()

	w := doJSON(r, http.MethodPost, "/api/v1/auth/login", "", handler.CredentialsRequest{
		Email:    "admin@greenbridge.eco",
		Password: "secret-pw",
	})
	if w.Code != http.StatusOK {
		t.Fatalf("login failed: %d", w.Code)
	}
	var login handler.LoginResult
	if err := json.NewDecoder(w.Body).Decode(&login); err != nil {
		t.Fatalf("error decoding login response: %v", err)
	}
	if login.RefreshToken == "" {
		t.Fatal("expected a refresh token")
	}

	w = doJSON(r, http.MethodPost, "/api/v1/auth/refresh", "", handler.RefreshRequest{RefreshToken: login.RefreshToken})
	if w.Code != http.StatusOK {
		t.Fatalf("refresh failed: %d: %s", w.Code, w.Body.String())
	}
	var refreshed handler.LoginResult
	if err := json.NewDecoder(w.Body).Decode(&refreshed); err != nil {
		t.Fatalf("error decoding refresh response: %v", err)
	}
	if refreshed.Token == "" {
		t.Error("expected a new access token")
	}

	// Logout revokes the refresh token.
	w = doJSON(r, http.MethodPost, "/api/v1/auth/logout", login.Token, handler.RefreshRequest{RefreshToken: login.RefreshToken})
	if w.Code != http.StatusNoContent {
		t.Fatalf("logout failed: %d", w.Code)
	}
	w = doJSON(r, http.MethodPost, "/api/v1/auth/refresh", "", handler.RefreshRequest{RefreshToken: login.RefreshToken})
	if w.Code != http.StatusUnauthorized {
		t.Errorf("expected 401 after logout, got %d", w.Code)
	}
}

func TestMeHandler(t *testing.T) {
	r := newTestRouter()

	w := doJSON(r, http.MethodGet, "/api/v1/auth/me", consumerToken, nil)
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
	var user models.User
	if err := json.NewDecoder(w.Body).Decode(&user); err != nil {
		t.Fatalf("error decoding response: %v", err)
	}
	if user.Email != "consumer@greenbridge.eco" {
		t.Errorf("expected consumer@greenbridge.eco, got %q", user.Email)
	}

	if w := doJSON(r, http.MethodGet, "/api/v1/auth/me", "", nil); w.Code != http.StatusUnauthorized {
		t.Errorf("expected 401 without token, got %d", w.Code)
	}
}

func TestPasswordResetFlow(t *testing.T) {
	r := newTestRouter()

	w := doJSON(r, http.MethodPost, "/api/v1/auth/password-reset", "", handler.PasswordResetRequest{
		Email: "consumer@greenbridge.eco",
	})
	if w.Code != http.StatusAccepted {
		t.Fatalf("expected 202, got %d", w.Code)
	}

	// The token lands in the repository; fetch it as the mail would carry it.
	user, err := userRepo.GetByEmail("consumer@greenbridge.eco")
	if err != nil {
		t.Fatalf("seed user missing: %v", err)
	}
	reset := findTokenForUser(t, user.ID, models.TokenPasswordReset)

	w = doJSON(r, http.MethodPost, "/api/v1/auth/password-reset/confirm", "", handler.PasswordResetConfirm{
		Token:       reset,
		NewPassword: "brand-new-pw",
	})
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
	}

	if _, err := generateToken(r, "consumer@greenbridge.eco", "brand-new-pw"); err != nil {
		t.Errorf("login with new password failed: %v", err)
	}

	// Single use: same token again must fail.
	w = doJSON(r, http.MethodPost, "/api/v1/auth/password-reset/confirm", "", handler.PasswordResetConfirm{
		Token:       reset,
		NewPassword: "another-pw",
	})
	if w.Code != http.StatusBadRequest {
		t.Errorf("expected 400 on reused token, got %d", w.Code)
	}

	// Restore the seed password for the other tests.
	restoreSeedPassword(t, user.ID)
}

func findTokenForUser(t *testing.T, userID, tokenType string) string {
	t.Helper()
	tok, ok := tokenRepo.FindByUser(userID, tokenType)
	if !ok {
		t.Fatal("expected a token for the user")
	}
	return tok.Token
}

func restoreSeedPassword(t *testing.T, userID string) {
	t.Helper()
	user, err := userRepo.GetByID(userID)
	if err != nil {
		t.Fatalf("user missing: %v", err)
	}
	hash, _ := auth.HashPassword("secret-pw")
	user.PasswordHash = hash
	if _, err := userRepo.Update(user); err != nil {
		t.Fatalf("could not restore password: %v", err)
	}
}
