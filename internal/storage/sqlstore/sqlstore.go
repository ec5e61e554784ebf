// Package sqlstore implements storage.Store on top of database/sql. The sqlite
// and postgres packages open the connection, run migrations and hand the
// *sql.DB over to New with their placeholder dialect.
package sqlstore

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/dmitrijs2005/bizdesk/internal/dbx"
	"github.com/dmitrijs2005/bizdesk/internal/storage"
)

var _ storage.Store = (*Store)(nil)

// Dialect selects the bind-parameter style.
type Dialect int

const (
	// Question uses "?" placeholders (SQLite).
	Question Dialect = iota
	// Dollar uses "$n" placeholders (PostgreSQL).
	Dollar
)

type queries struct {
	get    string
	upsert string
	del    string
	list   string
	clear  string
}

func queriesFor(d Dialect) queries {
	q := queries{
		get:    `SELECT value FROM kv_entries WHERE key = ?`,
		upsert: `INSERT INTO kv_entries (key, value) VALUES (?, ?) ON CONFLICT(key) DO UPDATE SET value = excluded.value`,
		del:    `DELETE FROM kv_entries WHERE key = ?`,
		list:   `SELECT key, value FROM kv_entries`,
		clear:  `DELETE FROM kv_entries`,
	}
	if d == Dollar {
		q.get = `SELECT value FROM kv_entries WHERE key = $1`
		q.upsert = `INSERT INTO kv_entries (key, value) VALUES ($1, $2) ON CONFLICT(key) DO UPDATE SET value = excluded.value`
		q.del = `DELETE FROM kv_entries WHERE key = $1`
	}
	return q
}

type Store struct {
	db *sql.DB
	q  queries
}

// New wraps an already migrated database.
func New(db *sql.DB, d Dialect) *Store {
	return &Store{db: db, q: queriesFor(d)}
}

func (s *Store) Get(ctx context.Context, key string) (string, bool, error) {
	var value string
	err := s.db.QueryRowContext(ctx, s.q.get, key).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("failed to get kv[%s]: %w", key, err)
	}
	return value, true, nil
}

func (s *Store) Set(ctx context.Context, key, value string) error {
	if _, err := s.db.ExecContext(ctx, s.q.upsert, key, value); err != nil {
		return fmt.Errorf("failed to set kv[%s]: %w", key, err)
	}
	return nil
}

// SetMany upserts every pair in one transaction.
func (s *Store) SetMany(ctx context.Context, values map[string]string) error {
	err := dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		for k, v := range values {
			if _, err := tx.ExecContext(ctx, s.q.upsert, k, v); err != nil {
				return fmt.Errorf("kv[%s]: %w", k, err)
			}
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("failed to set kv batch: %w", err)
	}
	return nil
}

func (s *Store) Delete(ctx context.Context, keys ...string) error {
	switch len(keys) {
	case 0:
		return nil
	case 1:
		if _, err := s.db.ExecContext(ctx, s.q.del, keys[0]); err != nil {
			return fmt.Errorf("failed to delete kv[%s]: %w", keys[0], err)
		}
		return nil
	}

	err := dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		for _, k := range keys {
			if _, err := tx.ExecContext(ctx, s.q.del, k); err != nil {
				return fmt.Errorf("kv[%s]: %w", k, err)
			}
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("failed to delete kv batch: %w", err)
	}
	return nil
}

func (s *Store) List(ctx context.Context) (map[string]string, error) {
	rows, err := s.db.QueryContext(ctx, s.q.list)
	if err != nil {
		return nil, fmt.Errorf("failed to list kv: %w", err)
	}
	defer rows.Close()

	result := make(map[string]string)
	for rows.Next() {
		var key, value string
		if err := rows.Scan(&key, &value); err != nil {
			return nil, fmt.Errorf("failed to scan kv row: %w", err)
		}
		result[key] = value
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate kv rows: %w", err)
	}
	return result, nil
}

func (s *Store) Clear(ctx context.Context) error {
	if _, err := s.db.ExecContext(ctx, s.q.clear); err != nil {
		return fmt.Errorf("failed to clear kv: %w", err)
	}
	return nil
}

func (s *Store) Close() error {
	return s.db.Close()
}
