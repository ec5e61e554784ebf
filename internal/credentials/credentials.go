// Package credentials persists the collection of registered accounts as one
// JSON array under the registeredUsers key.
//
// There is no partial update: every mutation reads the whole collection,
// changes it and writes it back.
package credentials

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/dmitrijs2005/bizdesk/internal/common"
	"github.com/dmitrijs2005/bizdesk/internal/models"
	"github.com/dmitrijs2005/bizdesk/internal/storage"
)

type Store struct {
	kv storage.Store
}

func New(kv storage.Store) *Store {
	return &Store{kv: kv}
}

// LoadAll returns the stored accounts, or an empty slice when nothing was
// saved yet. Medium failures and undecodable data are wrapped in
// common.ErrStorageRead; the latter also matches common.ErrCorruptRecord.
func (s *Store) LoadAll(ctx context.Context) ([]models.Account, error) {
	raw, ok, err := s.kv.Get(ctx, common.KeyRegisteredUsers)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", common.ErrStorageRead, err)
	}
	if !ok || raw == "" {
		return []models.Account{}, nil
	}

	var accounts []models.Account
	if err := json.Unmarshal([]byte(raw), &accounts); err != nil {
		return nil, fmt.Errorf("%w: %w: %s: %w", common.ErrStorageRead, common.ErrCorruptRecord, common.KeyRegisteredUsers, err)
	}
	if accounts == nil {
		accounts = []models.Account{}
	}
	return accounts, nil
}

// SaveAll replaces the whole collection.
func (s *Store) SaveAll(ctx context.Context, accounts []models.Account) error {
	if accounts == nil {
		accounts = []models.Account{}
	}
	data, err := json.Marshal(accounts)
	if err != nil {
		return fmt.Errorf("%w: encode accounts: %w", common.ErrStorageWrite, err)
	}
	if err := s.kv.Set(ctx, common.KeyRegisteredUsers, string(data)); err != nil {
		return fmt.Errorf("%w: %w", common.ErrStorageWrite, err)
	}
	return nil
}

// Find returns the index of the account whose email matches email after
// normalization, or -1.
func Find(accounts []models.Account, email string) int {
	want := models.NormalizeEmail(email)
	for i, a := range accounts {
		if models.NormalizeEmail(a.Email) == want {
			return i
		}
	}
	return -1
}
