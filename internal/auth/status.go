package auth

import (
	"context"

	"github.com/dmitrijs2005/bizdesk/internal/models"
)

// Fixed attributes of the auto-provisioned demo user.
const (
	DemoUserID       = "1"
	DemoUserName     = "Demo User"
	DemoUserEmail    = "demo@rmbbusiness.com"
	DemoBusinessName = "RMB Demo Business"
	DemoUserPhone    = "+1234567890"
)

func (e *Engine) demoUser() models.User {
	return models.Account{
		ID:           DemoUserID,
		Name:         DemoUserName,
		Email:        DemoUserEmail,
		BusinessName: DemoBusinessName,
		Phone:        DemoUserPhone,
		Role:         models.RoleBusinessOwner,
		Avatar:       models.DefaultAvatar,
		CreatedAt:    e.now().UTC(),
	}.User()
}

// CheckAuthStatus restores the persisted session. Without one the engine
// stays Unauthenticated, or logs in the demo user when auto-provisioning is
// enabled. A failing medium is treated as no session and reported in Err.
func (e *Engine) CheckAuthStatus(ctx context.Context) Status {
	e.op.Lock()
	defer e.op.Unlock()

	prev := e.begin(ctx)
	if err := e.delay(ctx); err != nil {
		e.setSnapshot(ctx, prev)
		return Status{LoggedIn: prev.State == Authenticated, User: prev.User, Err: err}
	}

	s, loadErr := e.sessions.Load(ctx)
	if loadErr != nil {
		e.log.Error(ctx, "failed to load session", "error", loadErr)
	}
	if s.Valid() {
		e.authenticated(ctx, *s.User, s.Token)
		e.log.Info(ctx, "session restored", "email", s.User.Email)
		u := *s.User
		return Status{LoggedIn: true, User: &u}
	}

	if !e.opts.AutoProvisionDemoUser {
		e.unauthenticated(ctx)
		return Status{Err: loadErr}
	}

	u := e.demoUser()
	tok := e.newDemoToken()
	if err := e.sessions.Save(ctx, u, tok); err != nil {
		e.log.Error(ctx, "failed to provision demo user", "error", err)
		e.unauthenticated(ctx)
		if loadErr == nil {
			loadErr = err
		}
		return Status{Err: loadErr}
	}

	e.authenticated(ctx, u, tok)
	e.log.Info(ctx, "demo user provisioned", "email", u.Email)
	return Status{LoggedIn: true, User: &u, Err: loadErr}
}
