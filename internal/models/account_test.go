package models

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAccountUser_StripsPassword(t *testing.T) {
	a := Account{
		ID:        "u1",
		Name:      "Alice",
		Email:     "alice@example.com",
		Password:  "secret123",
		Role:      "admin",
		Avatar:    "a.png",
		CreatedAt: time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC),
	}

	u := a.User()
	assert.Equal(t, "admin", u.Role)
	assert.Equal(t, "a.png", u.Avatar)
	assert.Equal(t, a.CreatedAt, u.CreatedAt)

	b, err := json.Marshal(u)
	require.NoError(t, err)
	assert.NotContains(t, string(b), "password")
	assert.NotContains(t, string(b), "secret123")
}

func TestAccountUser_Defaults(t *testing.T) {
	u := Account{ID: "u1", Email: "a@b.co"}.User()
	assert.Equal(t, RoleBusinessOwner, u.Role)
	assert.Equal(t, DefaultAvatar, u.Avatar)
}

func TestNormalizeEmail(t *testing.T) {
	assert.Equal(t, "alice@example.com", NormalizeEmail("  Alice@Example.COM "))
}

func TestSessionValid(t *testing.T) {
	u := &User{ID: "u1", Email: "a@b.co"}
	tests := []struct {
		name string
		s    *Session
		want bool
	}{
		{"nil", nil, false},
		{"complete", &Session{LoggedIn: true, User: u, Token: "t"}, true},
		{"not logged in", &Session{User: u, Token: "t"}, false},
		{"no user", &Session{LoggedIn: true, Token: "t"}, false},
		{"no token", &Session{LoggedIn: true, User: u}, false},
		{"user without id", &Session{LoggedIn: true, User: &User{Email: "a@b.co"}, Token: "t"}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.s.Valid())
		})
	}
}
