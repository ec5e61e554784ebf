package auth

import "github.com/dmitrijs2005/bizdesk/internal/models"

// Result is the outcome of Login, Register, UpdateProfile and ForgotPassword.
type Result struct {
	Success bool
	// User is set on success of Login, Register and UpdateProfile.
	User *models.User
	Err  error

	message string
}

// Message is the user-facing line for the outcome.
func (r Result) Message() string {
	if r.Err != nil {
		return UserMessage(r.Err)
	}
	return r.message
}

func failure(err error) Result {
	return Result{Err: err}
}

func success(u *models.User, msg string) Result {
	return Result{Success: true, User: u, message: msg}
}

// Status is the outcome of CheckAuthStatus. Err carries a storage problem
// met on the way even when a session was eventually established.
type Status struct {
	LoggedIn bool
	User     *models.User
	Err      error
}
