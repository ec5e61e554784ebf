package auth

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"strings"

	"github.com/dmitrijs2005/bizdesk/internal/common"
	"github.com/dmitrijs2005/bizdesk/internal/credentials"
	"github.com/dmitrijs2005/bizdesk/internal/models"
	"github.com/dmitrijs2005/bizdesk/internal/validate"
)

func validatePatch(p models.ProfilePatch) error {
	v := &validate.Validator{}
	if p.Name != nil {
		v.Required("name", *p.Name, "Full name is required").
			MinLenTrimmed("name", *p.Name, minNameLen, "Name must be at least 2 characters")
	}
	if p.BusinessName != nil {
		v.Required("businessName", *p.BusinessName, "Business name is required").
			MinLenTrimmed("businessName", *p.BusinessName, minNameLen, "Business name must be at least 2 characters")
	}
	if p.Phone != nil {
		v.Phone("phone", *p.Phone, "Please enter a valid phone number")
	}
	return v.Err()
}

func trimPatch(p models.ProfilePatch) models.ProfilePatch {
	trim := func(s *string) *string {
		if s == nil {
			return nil
		}
		t := strings.TrimSpace(*s)
		return &t
	}
	return models.ProfilePatch{
		Name:         trim(p.Name),
		BusinessName: trim(p.BusinessName),
		Phone:        trim(p.Phone),
		Avatar:       p.Avatar,
	}
}

// UpdateProfile merges patch into the signed-in user, persists the session
// and mirrors the change into the credential store entry of that user.
func (e *Engine) UpdateProfile(ctx context.Context, patch models.ProfilePatch) Result {
	e.op.Lock()
	defer e.op.Unlock()

	cur := e.Snapshot()
	if cur.State != Authenticated || cur.User == nil {
		return failure(fmt.Errorf("%w: %w", ErrUpdate, ErrNoActiveSession))
	}

	if err := e.delay(ctx); err != nil {
		return failure(fmt.Errorf("%w: %w", ErrUpdate, err))
	}
	if err := validatePatch(patch); err != nil {
		return failure(err)
	}
	if patch.Empty() {
		return success(cur.User, "Nothing to update.")
	}

	updated := trimPatch(patch).Apply(*cur.User)

	prev, err := e.syncAccount(ctx, updated)
	if err != nil {
		e.log.Error(ctx, "profile update failed", "email", updated.Email, "error", err)
		return failure(fmt.Errorf("%w: %w", ErrUpdate, err))
	}
	if err := e.sessions.Save(ctx, updated, cur.Token); err != nil {
		e.log.Error(ctx, "profile update failed", "email", updated.Email, "error", err)
		if prev != nil {
			if rerr := e.creds.SaveAll(ctx, prev); rerr != nil {
				e.log.Error(ctx, "credential store rollback failed", "email", updated.Email, "error", rerr)
			}
		}
		return failure(fmt.Errorf("%w: %w", ErrUpdate, err))
	}

	e.authenticated(ctx, updated, cur.Token)
	e.log.Info(ctx, "profile updated", "email", updated.Email)
	return success(&updated, "Profile updated successfully!")
}

// syncAccount copies the patchable fields of u into its credential store
// entry and returns the accounts as they were before, for rollback. Users
// without an entry (the demo user) are skipped and nil is returned.
func (e *Engine) syncAccount(ctx context.Context, u models.User) ([]models.Account, error) {
	accounts, err := e.creds.LoadAll(ctx)
	if errors.Is(err, common.ErrCorruptRecord) {
		e.log.Warn(ctx, "credential store is corrupt, profile not mirrored", "error", err)
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	i := credentials.Find(accounts, u.Email)
	if i < 0 {
		return nil, nil
	}
	prev := slices.Clone(accounts)
	accounts[i].Name = u.Name
	accounts[i].BusinessName = u.BusinessName
	accounts[i].Phone = u.Phone
	accounts[i].Avatar = u.Avatar
	if err := e.creds.SaveAll(ctx, accounts); err != nil {
		return nil, err
	}
	return prev, nil
}
