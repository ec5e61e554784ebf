package auth

import (
	"errors"

	"github.com/dmitrijs2005/bizdesk/internal/validate"
)

var (
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrDuplicateAccount   = errors.New("account already exists")
	ErrAccountNotFound    = errors.New("account not found")
	ErrNoActiveSession    = errors.New("no active session")
	ErrUpdate             = errors.New("profile update failed")
	ErrLogoutIncomplete   = errors.New("logout incomplete")
)

const (
	msgInvalidCredentials = `Invalid credentials. Use "` + DemoPassword + `" for demo.`
	msgDuplicateAccount   = "An account with this email already exists"
	msgAccountNotFound    = "Email not found"
	msgUpdateNoSession    = "Failed to update profile: you are not logged in."
	msgUpdate             = "Failed to update profile."
	msgLogout             = "Failed to logout. Please try again."
	msgGeneric            = "An error occurred. Please try again."
)

// UserMessage turns an operation error into the one line shown to the user.
// Storage details stay in the logs.
func UserMessage(err error) string {
	switch {
	case err == nil:
		return ""
	case errors.Is(err, validate.ErrValidation):
		return err.Error()
	case errors.Is(err, ErrInvalidCredentials):
		return msgInvalidCredentials
	case errors.Is(err, ErrDuplicateAccount):
		return msgDuplicateAccount
	case errors.Is(err, ErrAccountNotFound):
		return msgAccountNotFound
	case errors.Is(err, ErrNoActiveSession):
		return msgUpdateNoSession
	case errors.Is(err, ErrUpdate):
		return msgUpdate
	case errors.Is(err, ErrLogoutIncomplete):
		return msgLogout
	}
	return msgGeneric
}
