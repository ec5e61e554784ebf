package auth

import (
	"context"

	"github.com/dmitrijs2005/bizdesk/internal/credentials"
	"github.com/dmitrijs2005/bizdesk/internal/validate"
)

// ForgotPassword checks that an account exists for email. No message is
// sent and the engine state is not touched.
func (e *Engine) ForgotPassword(ctx context.Context, email string) Result {
	e.op.Lock()
	defer e.op.Unlock()

	if err := e.delay(ctx); err != nil {
		return failure(err)
	}

	v := &validate.Validator{}
	v.Required("email", email, "Email is required").
		Email("email", email, "Please enter a valid email")
	if err := v.Err(); err != nil {
		return failure(err)
	}

	accounts, err := e.creds.LoadAll(ctx)
	if err != nil {
		e.log.Error(ctx, "forgot password lookup failed", "error", err)
		return failure(err)
	}
	if credentials.Find(accounts, email) < 0 {
		return failure(ErrAccountNotFound)
	}

	e.log.Info(ctx, "password reset requested", "email", email)
	return success(nil, "Password reset instructions sent to your email")
}
