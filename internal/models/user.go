package models

import "time"

// User roles. Email is the login identifier; there are no usernames.
const (
	RoleAdmin    = "admin"
	RoleBrand    = "brand"
	RoleRecycler = "recycler"
	RoleCharity  = "charity"
	RoleConsumer = "consumer"
)

type User struct {
	ID           string     `json:"id"`
	Email        string     `json:"email"`
	FirstName    string     `json:"first_name,omitempty"`
	LastName     string     `json:"last_name,omitempty"`
	Role         string     `json:"role"`
	PhoneNumber  string     `json:"phone_number,omitempty"`
	Address      string     `json:"address,omitempty"`
	Active       bool       `json:"active"`
	Verified     bool       `json:"verified"`
	PasswordHash string     `json:"-"`
	CreatedAt    time.Time  `json:"created_at"`
	UpdatedAt    time.Time  `json:"updated_at"`
	DeletedAt    *time.Time `json:"-"`
}

// FullName returns first and last name joined, or the email when both are empty.
func (u User) FullName() string {
	switch {
	case u.FirstName == "" && u.LastName == "":
		return u.Email
	case u.LastName == "":
		return u.FirstName
	case u.FirstName == "":
		return u.LastName
	}
	return u.FirstName + " " + u.LastName
}

func ValidRole(role string) bool {
	switch role {
	case RoleAdmin, RoleBrand, RoleRecycler, RoleCharity, RoleConsumer:
		return true
	}
	return false
}
