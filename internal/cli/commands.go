package cli

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/dmitrijs2005/bizdesk/internal/auth"
	"github.com/dmitrijs2005/bizdesk/internal/common"
	"github.com/dmitrijs2005/bizdesk/internal/models"
)

var (
	getSimpleText = GetSimpleText
	getPassword   = GetPassword
)

var errAborted = errors.New("aborted")

// readSecret reads a password and returns it as a string. The raw bytes are
// wiped before returning.
func (a *App) readSecret(prompt string) (string, error) {
	pw, err := getPassword(a.out, prompt)
	if err != nil {
		return "", err
	}
	defer common.WipeByteArray(pw)
	return string(pw), nil
}

func (a *App) report(r auth.Result) error {
	a.println(r.Message())
	if !r.Success {
		return r.Err
	}
	return nil
}

func (a *App) printUser(u *models.User) {
	if u == nil {
		return
	}
	a.println("Name:         ", u.Name)
	a.println("Email:        ", u.Email)
	a.println("Business:     ", u.BusinessName)
	a.println("Phone:        ", u.Phone)
	a.println("Role:         ", u.Role)
	a.println("Member since: ", u.CreatedAt.Format("2006-01-02"))
}

func (a *App) Status(ctx context.Context) error {
	st := a.svc.CheckAuthStatus(ctx)
	if st.Err != nil {
		a.log.Warn(ctx, "status check met a storage error", "error", st.Err)
	}
	if !st.LoggedIn || st.User == nil {
		a.println("Not logged in.")
		return nil
	}
	a.println(fmt.Sprintf("Logged in as %s <%s>", st.User.Name, st.User.Email))
	return nil
}

func (a *App) Login(ctx context.Context) error {
	if a.isLoggedIn() {
		a.println("Already logged in. Use 'logout' first.")
		return nil
	}

	email, err := getSimpleText(a.reader, "Email", a.out)
	if err != nil {
		return err
	}
	password, err := a.readSecret("Password")
	if err != nil {
		return err
	}

	return a.report(a.svc.Login(ctx, email, password))
}

func (a *App) Register(ctx context.Context) error {
	if a.isLoggedIn() {
		a.println("Already logged in. Use 'logout' first.")
		return nil
	}

	var in models.RegisterInput
	var err error

	fields := []struct {
		prompt string
		dst    *string
	}{
		{"Full name", &in.Name},
		{"Email", &in.Email},
		{"Business name", &in.BusinessName},
		{"Phone (optional)", &in.Phone},
	}
	for _, f := range fields {
		if *f.dst, err = getSimpleText(a.reader, f.prompt, a.out); err != nil {
			return err
		}
	}

	if in.Password, err = a.readSecret("Password"); err != nil {
		return err
	}
	if in.ConfirmPassword, err = a.readSecret("Confirm password"); err != nil {
		return err
	}

	return a.report(a.svc.Register(ctx, in))
}

func (a *App) Forgot(ctx context.Context) error {
	email, err := getSimpleText(a.reader, "Email", a.out)
	if err != nil {
		return err
	}
	return a.report(a.svc.ForgotPassword(ctx, email))
}

func (a *App) Profile(ctx context.Context) error {
	snap := a.svc.Snapshot()
	if snap.State != auth.Authenticated || snap.User == nil {
		a.println("Not logged in.")
		return nil
	}
	a.printUser(snap.User)
	return nil
}

// Update asks for each patchable field. An empty answer keeps the current
// value; a single "-" clears the phone number.
func (a *App) Update(ctx context.Context) error {
	snap := a.svc.Snapshot()
	if snap.State != auth.Authenticated || snap.User == nil {
		a.println("Not logged in.")
		return nil
	}

	var patch models.ProfilePatch

	ask := func(label, current string) (*string, error) {
		s, err := getSimpleText(a.reader, fmt.Sprintf("%s [%s]", label, current), a.out)
		if err != nil || s == "" {
			return nil, err
		}
		return &s, nil
	}

	var err error
	if patch.Name, err = ask("Full name", snap.User.Name); err != nil {
		return err
	}
	if patch.BusinessName, err = ask("Business name", snap.User.BusinessName); err != nil {
		return err
	}
	if patch.Phone, err = ask("Phone ('-' to clear)", snap.User.Phone); err != nil {
		return err
	}
	if patch.Phone != nil && *patch.Phone == "-" {
		empty := ""
		patch.Phone = &empty
	}

	r := a.svc.UpdateProfile(ctx, patch)
	if err := a.report(r); err != nil {
		return err
	}
	a.printUser(r.User)
	return nil
}

func (a *App) Logout(ctx context.Context) error {
	if !a.isLoggedIn() {
		a.println("Not logged in.")
		return nil
	}
	if err := a.svc.Logout(ctx); err != nil {
		a.println(auth.UserMessage(err))
		return err
	}
	a.println("Logged out.")
	return nil
}

// Keys prints the persisted keys with their value sizes.
func (a *App) Keys(ctx context.Context) error {
	keys, err := a.svc.StoredKeys(ctx)
	if err != nil {
		a.println(auth.UserMessage(err))
		return err
	}
	if len(keys) == 0 {
		a.println("No stored data.")
		return nil
	}
	for _, k := range keys {
		a.println(fmt.Sprintf("%-16s %d bytes", k.Key, k.Size))
	}
	return nil
}

// Reset wipes every stored account and the session after confirmation.
func (a *App) Reset(ctx context.Context) error {
	answer, err := getSimpleText(a.reader, "This deletes all accounts and the session. Type 'yes' to continue", a.out)
	if err != nil {
		return err
	}
	if !strings.EqualFold(answer, "yes") {
		a.println("Cancelled.")
		return errAborted
	}
	if err := a.svc.ResetAllData(ctx); err != nil {
		a.println(auth.UserMessage(err))
		return err
	}
	a.println("All data has been reset.")
	return nil
}
