// Package models holds the persisted shapes shared by the credential store,
// the session holder and the auth engine.
package models

import (
	"strings"
	"time"
)

const (
	// RoleBusinessOwner is the only role an account can have.
	RoleBusinessOwner = "business_owner"

	// DefaultAvatar is assigned to every new account.
	DefaultAvatar = "https://via.placeholder.com/150"
)

// Account is one registered identity as kept in the credential store.
//
// Password is stored in plain text. This mirrors the demo credential policy
// and must be replaced with salted hashes before any real use.
type Account struct {
	ID           string    `json:"id"`
	Name         string    `json:"name"`
	Email        string    `json:"email"`
	Password     string    `json:"password"`
	BusinessName string    `json:"businessName"`
	Phone        string    `json:"phone"`
	Role         string    `json:"role"`
	Avatar       string    `json:"avatar"`
	CreatedAt    time.Time `json:"createdAt"`
}

// User is an Account without its password. It is the only account shape
// written to the session record or handed to the presentation layer.
type User struct {
	ID           string    `json:"id"`
	Name         string    `json:"name"`
	Email        string    `json:"email"`
	BusinessName string    `json:"businessName"`
	Phone        string    `json:"phone"`
	Role         string    `json:"role"`
	Avatar       string    `json:"avatar"`
	CreatedAt    time.Time `json:"createdAt"`
}

// User returns the sanitized view of a. Missing role and avatar fall back to
// their defaults.
func (a Account) User() User {
	u := User{
		ID:           a.ID,
		Name:         a.Name,
		Email:        a.Email,
		BusinessName: a.BusinessName,
		Phone:        a.Phone,
		Role:         a.Role,
		Avatar:       a.Avatar,
		CreatedAt:    a.CreatedAt,
	}
	if u.Role == "" {
		u.Role = RoleBusinessOwner
	}
	if u.Avatar == "" {
		u.Avatar = DefaultAvatar
	}
	return u
}

// NormalizeEmail is the canonical form of an email used as the account key.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// Session is the single active login on this device.
type Session struct {
	LoggedIn bool   `json:"loggedIn"`
	User     *User  `json:"user"`
	Token    string `json:"token"`
}

// Valid reports whether all three parts of the session are present.
func (s *Session) Valid() bool {
	return s != nil && s.LoggedIn && s.User != nil && s.User.ID != "" && s.User.Email != "" && s.Token != ""
}
