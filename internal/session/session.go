// Package session persists the single active session of this device.
//
// Two layouts are supported. The composite layout keeps the whole session in
// one record and cannot be torn by the storage layer. The split layout keeps
// the legacy three keys (isLoggedIn, userData, authToken); Load treats any
// incomplete combination as no session and clears the leftovers.
package session

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/dmitrijs2005/bizdesk/internal/common"
	"github.com/dmitrijs2005/bizdesk/internal/logging"
	"github.com/dmitrijs2005/bizdesk/internal/models"
	"github.com/dmitrijs2005/bizdesk/internal/storage"
)

type Layout string

const (
	LayoutComposite Layout = "composite"
	LayoutSplit     Layout = "split"
)

// ParseLayout accepts "composite", "split" or "" (composite).
func ParseLayout(s string) (Layout, error) {
	switch Layout(s) {
	case "", LayoutComposite:
		return LayoutComposite, nil
	case LayoutSplit:
		return LayoutSplit, nil
	}
	return "", fmt.Errorf("unknown session layout %q", s)
}

const loggedInValue = "true"

type Holder struct {
	kv     storage.Store
	layout Layout
	log    logging.Logger
}

func New(kv storage.Store, layout Layout, log logging.Logger) *Holder {
	if layout == "" {
		layout = LayoutComposite
	}
	return &Holder{kv: kv, layout: layout, log: log.With("component", "session", "layout", string(layout))}
}

// Load returns the persisted session, or nil when there is none. Only a
// failing medium produces an error (wrapping common.ErrStorageRead).
func (h *Holder) Load(ctx context.Context) (*models.Session, error) {
	var (
		s      *models.Session
		reason string
		err    error
	)
	if h.layout == LayoutSplit {
		s, reason, err = h.loadSplit(ctx)
	} else {
		s, reason, err = h.loadComposite(ctx)
	}
	if err != nil {
		return nil, fmt.Errorf("%w: %w", common.ErrStorageRead, err)
	}
	if reason != "" {
		h.log.Warn(ctx, "discarding unusable session", "reason", reason)
		if err := h.kv.Delete(ctx, common.SessionKeys...); err != nil {
			h.log.Warn(ctx, "failed to clear unusable session", "error", err)
		}
		return nil, nil
	}
	return s, nil
}

func (h *Holder) loadComposite(ctx context.Context) (*models.Session, string, error) {
	raw, ok, err := h.kv.Get(ctx, common.KeySession)
	if err != nil {
		return nil, "", err
	}
	if !ok {
		return nil, "", nil
	}

	var s models.Session
	if err := json.Unmarshal([]byte(raw), &s); err != nil {
		return nil, "corrupt session record", nil
	}
	if !s.Valid() {
		return nil, "incomplete session record", nil
	}
	return &s, "", nil
}

func (h *Holder) loadSplit(ctx context.Context) (*models.Session, string, error) {
	loggedIn, okFlag, err := h.kv.Get(ctx, common.KeyIsLoggedIn)
	if err != nil {
		return nil, "", err
	}
	userData, okUser, err := h.kv.Get(ctx, common.KeyUserData)
	if err != nil {
		return nil, "", err
	}
	token, okToken, err := h.kv.Get(ctx, common.KeyAuthToken)
	if err != nil {
		return nil, "", err
	}

	if !okFlag && !okUser && !okToken {
		return nil, "", nil
	}
	if !okFlag || !okUser || !okToken {
		return nil, "torn session keys", nil
	}
	if loggedIn != loggedInValue {
		return nil, "session flag not set", nil
	}

	var u models.User
	if err := json.Unmarshal([]byte(userData), &u); err != nil {
		return nil, "corrupt user data", nil
	}

	s := &models.Session{LoggedIn: true, User: &u, Token: token}
	if !s.Valid() {
		return nil, "incomplete session record", nil
	}
	return s, "", nil
}

// Save persists user and token as the active session.
func (h *Holder) Save(ctx context.Context, user models.User, token string) error {
	s := models.Session{LoggedIn: true, User: &user, Token: token}

	var err error
	if h.layout == LayoutSplit {
		var data []byte
		data, err = json.Marshal(user)
		if err != nil {
			return fmt.Errorf("%w: encode user: %w", common.ErrStorageWrite, err)
		}
		err = h.kv.SetMany(ctx, map[string]string{
			common.KeyIsLoggedIn: loggedInValue,
			common.KeyUserData:   string(data),
			common.KeyAuthToken:  token,
		})
	} else {
		var data []byte
		data, err = json.Marshal(s)
		if err != nil {
			return fmt.Errorf("%w: encode session: %w", common.ErrStorageWrite, err)
		}
		err = h.kv.Set(ctx, common.KeySession, string(data))
	}
	if err != nil {
		return fmt.Errorf("%w: %w", common.ErrStorageWrite, err)
	}
	return nil
}

// Clear removes the session keys of both layouts. On failure some keys may
// remain; the next Load discards them as torn.
func (h *Holder) Clear(ctx context.Context) error {
	if err := h.kv.Delete(ctx, common.SessionKeys...); err != nil {
		return fmt.Errorf("%w: %w", common.ErrStorageWrite, err)
	}
	return nil
}
