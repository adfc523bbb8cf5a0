package auth

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/greenbridge-eco/greenbridge/internal/models"
)

var (
	jwtSecret = []byte("dev-only-secret")
	accessTTL = 15 * time.Minute
)

var ErrInvalidToken = errors.New("invalid token")

// SetSecret replaces the signing key. Call once at startup before any token
// is issued or parsed.
func SetSecret(secret string) {
	if secret != "" {
		jwtSecret = []byte(secret)
	}
}

func SetAccessTTL(ttl time.Duration) {
	if ttl > 0 {
		accessTTL = ttl
	}
}

func GenerateToken(user models.User) (string, error) {
	claims := jwt.MapClaims{
		"sub":   user.ID,
		"email": user.Email,
		"role":  user.Role,
		"exp":   time.Now().Add(accessTTL).Unix(),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(jwtSecret)
}

func ParseToken(tokenStr string) (*jwt.Token, error) {
	return jwt.Parse(tokenStr, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, ErrInvalidToken
		}
		return jwtSecret, nil
	})
}

// TokenClaims is the subset of claims handlers care about.
type TokenClaims struct {
	UserID string
	Email  string
	Role   string
}

func ClaimsFromToken(token *jwt.Token) (TokenClaims, error) {
	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok || !token.Valid {
		return TokenClaims{}, ErrInvalidToken
	}

	tc := TokenClaims{}
	if sub, ok := claims["sub"].(string); ok {
		tc.UserID = sub
	}
	if email, ok := claims["email"].(string); ok {
		tc.Email = email
	}
	if role, ok := claims["role"].(string); ok {
		tc.Role = role
	}
	if tc.UserID == "" {
		return TokenClaims{}, ErrInvalidToken
	}
	return tc, nil
}
