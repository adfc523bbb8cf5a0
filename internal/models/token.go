package models

import "time"

// Token purposes.
const (
	TokenEmailVerification = "email_verification"
	TokenPasswordReset     = "password_reset"
	TokenInvitation        = "invitation"
)

// UserToken is a single-use token (verification, password reset, invitation).
type UserToken struct {
	ID        string     `json:"id"`
	UserID    string     `json:"user_id,omitempty"`
	Email     string     `json:"email,omitempty"`
	Type      string     `json:"type"`
	Token     string     `json:"token"`
	ExpiresAt time.Time  `json:"expires_at"`
	Used      bool       `json:"used"`
	UsedAt    *time.Time `json:"used_at,omitempty"`
	CreatedAt time.Time  `json:"created_at"`
}

// Valid reports whether the token is unused and unexpired at the given time.
func (t UserToken) Valid(now time.Time) bool {
	return !t.Used && t.ExpiresAt.After(now)
}
