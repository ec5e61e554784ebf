package auth

import (
	"context"
	"strings"

	"github.com/dmitrijs2005/bizdesk/internal/credentials"
	"github.com/dmitrijs2005/bizdesk/internal/models"
	"github.com/dmitrijs2005/bizdesk/internal/validate"
)

const minNameLen = 2

func validateRegister(in models.RegisterInput) error {
	v := &validate.Validator{}
	v.Required("name", in.Name, "Full name is required").
		MinLenTrimmed("name", in.Name, minNameLen, "Name must be at least 2 characters")
	v.Required("email", in.Email, "Email is required").
		Email("email", in.Email, "Please enter a valid email")
	v.Required("password", in.Password, "Password is required").
		MinLen("password", in.Password, minPasswordLen, "Password must be at least 6 characters")
	v.Required("confirmPassword", in.ConfirmPassword, "Please confirm your password").
		Match("confirmPassword", in.ConfirmPassword, in.Password, "Passwords do not match")
	v.Required("businessName", in.BusinessName, "Business name is required").
		MinLenTrimmed("businessName", in.BusinessName, minNameLen, "Business name must be at least 2 characters")
	v.Phone("phone", in.Phone, "Please enter a valid phone number")
	return v.Err()
}

// Register creates an account and signs it in. Every form violation is
// reported at once.
func (e *Engine) Register(ctx context.Context, in models.RegisterInput) Result {
	e.op.Lock()
	defer e.op.Unlock()

	prev := e.begin(ctx)
	u, tok, err := e.register(ctx, in)
	if err != nil {
		e.setSnapshot(ctx, prev)
		e.log.Warn(ctx, "registration failed", "email", in.Email, "error", err)
		return failure(err)
	}

	e.authenticated(ctx, u, tok)
	e.log.Info(ctx, "registration succeeded", "email", u.Email)
	return success(&u, "Account created successfully!")
}

func (e *Engine) register(ctx context.Context, in models.RegisterInput) (models.User, string, error) {
	if err := e.delay(ctx); err != nil {
		return models.User{}, "", err
	}
	if err := validateRegister(in); err != nil {
		return models.User{}, "", err
	}

	accounts, err := e.loadAccounts(ctx)
	if err != nil {
		return models.User{}, "", err
	}
	if credentials.Find(accounts, in.Email) >= 0 {
		return models.User{}, "", ErrDuplicateAccount
	}

	account := models.Account{
		ID:           e.newID(),
		Name:         strings.TrimSpace(in.Name),
		Email:        models.NormalizeEmail(in.Email),
		Password:     in.Password,
		BusinessName: strings.TrimSpace(in.BusinessName),
		Phone:        strings.TrimSpace(in.Phone),
		Role:         models.RoleBusinessOwner,
		Avatar:       models.DefaultAvatar,
		CreatedAt:    e.now().UTC(),
	}
	if err := e.creds.SaveAll(ctx, append(accounts, account)); err != nil {
		return models.User{}, "", err
	}

	u := account.User()
	tok := e.newToken()
	if err := e.sessions.Save(ctx, u, tok); err != nil {
		return models.User{}, "", err
	}
	return u, tok, nil
}
