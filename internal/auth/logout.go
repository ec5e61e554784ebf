package auth

import (
	"context"
	"fmt"

	"github.com/dmitrijs2005/bizdesk/internal/common"
)

// Logout clears the persisted session. The engine ends Unauthenticated even
// when the storage cleanup fails; the error then wraps ErrLogoutIncomplete.
func (e *Engine) Logout(ctx context.Context) error {
	e.op.Lock()
	defer e.op.Unlock()

	e.begin(ctx)
	err := e.delay(ctx)
	if err == nil {
		err = e.sessions.Clear(ctx)
	}
	e.unauthenticated(ctx)

	if err != nil {
		e.log.Error(ctx, "logout incomplete", "error", err)
		return fmt.Errorf("%w: %w", ErrLogoutIncomplete, err)
	}
	e.log.Info(ctx, "logged out")
	return nil
}

// ResetAllData wipes the whole storage medium, accounts included.
func (e *Engine) ResetAllData(ctx context.Context) error {
	e.op.Lock()
	defer e.op.Unlock()

	err := e.delay(ctx)
	if err == nil {
		err = e.kv.Clear(ctx)
	}
	e.unauthenticated(ctx)

	if err != nil {
		e.log.Error(ctx, "reset failed", "error", err)
		return fmt.Errorf("%w: %w", common.ErrStorageWrite, err)
	}
	e.log.Warn(ctx, "all data cleared")
	return nil
}
