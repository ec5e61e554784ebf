package auth

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/dmitrijs2005/bizdesk/internal/common"
	"github.com/dmitrijs2005/bizdesk/internal/credentials"
	"github.com/dmitrijs2005/bizdesk/internal/models"
	"github.com/dmitrijs2005/bizdesk/internal/validate"
)

// DemoPassword is the only password Login accepts.
const DemoPassword = "password123"

const minPasswordLen = 6

func validateLogin(email, password string) error {
	v := &validate.Validator{}
	v.Custom("credentials", email == "" || password == "", validate.RuleRequired, "Please enter both email and password").
		Email("email", email, "Please enter a valid email address").
		MinLen("password", password, minPasswordLen, "Password must be at least 6 characters")
	return v.FirstErr()
}

// loadAccounts reads the credential store. Undecodable data is replaced by
// an empty collection on the next save.
func (e *Engine) loadAccounts(ctx context.Context) ([]models.Account, error) {
	accounts, err := e.creds.LoadAll(ctx)
	if errors.Is(err, common.ErrCorruptRecord) {
		e.log.Warn(ctx, "credential store is corrupt, starting from empty", "error", err)
		return []models.Account{}, nil
	}
	return accounts, err
}

// Login signs in with the demo credential policy: any well-formed email is
// accepted with DemoPassword, and an account is created for unknown emails.
func (e *Engine) Login(ctx context.Context, email, password string) Result {
	e.op.Lock()
	defer e.op.Unlock()

	prev := e.begin(ctx)
	u, tok, err := e.login(ctx, email, password)
	if err != nil {
		e.setSnapshot(ctx, prev)
		e.log.Warn(ctx, "login failed", "email", email, "error", err)
		return failure(err)
	}

	e.authenticated(ctx, u, tok)
	e.log.Info(ctx, "login succeeded", "email", u.Email)
	return success(&u, fmt.Sprintf("Welcome back, %s!", u.Name))
}

func (e *Engine) login(ctx context.Context, email, password string) (models.User, string, error) {
	if err := e.delay(ctx); err != nil {
		return models.User{}, "", err
	}
	if err := validateLogin(email, password); err != nil {
		return models.User{}, "", err
	}
	if password != DemoPassword {
		return models.User{}, "", ErrInvalidCredentials
	}

	accounts, err := e.loadAccounts(ctx)
	if err != nil {
		return models.User{}, "", err
	}

	var account models.Account
	if i := credentials.Find(accounts, email); i >= 0 {
		account = accounts[i]
	} else {
		normalized := models.NormalizeEmail(email)
		local, _, _ := strings.Cut(normalized, "@")
		account = models.Account{
			ID:           e.newID(),
			Name:         local,
			Email:        normalized,
			Password:     password,
			BusinessName: local + " Business",
			Role:         models.RoleBusinessOwner,
			Avatar:       models.DefaultAvatar,
			CreatedAt:    e.now().UTC(),
		}
		if err := e.creds.SaveAll(ctx, append(accounts, account)); err != nil {
			return models.User{}, "", err
		}
		e.log.Info(ctx, "account created on first login", "email", normalized)
	}

	u := account.User()
	tok := e.newToken()
	if err := e.sessions.Save(ctx, u, tok); err != nil {
		return models.User{}, "", err
	}
	return u, tok, nil
}
