// Package sqlite opens a file-backed SQLite database (pure-Go modernc driver),
// applies the embedded goose migrations and exposes it as a storage.Store.
package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"path/filepath"

	"github.com/dmitrijs2005/bizdesk/internal/filex"
	"github.com/dmitrijs2005/bizdesk/internal/storage/sqlite/migrations"
	"github.com/dmitrijs2005/bizdesk/internal/storage/sqlstore"
	"github.com/pressly/goose/v3"

	_ "modernc.org/sqlite"
)

// gooseUpContext is a seam for testing goose.UpContext.
var gooseUpContext = func(ctx context.Context, db *sql.DB, dir string, opts ...goose.OptionsFunc) error {
	return goose.UpContext(ctx, db, dir, opts...)
}

// RunMigrations applies the embedded schema. Safe to call repeatedly.
func RunMigrations(ctx context.Context, db *sql.DB) error {
	goose.SetBaseFS(migrations.Migrations)
	if err := goose.SetDialect("sqlite3"); err != nil {
		return fmt.Errorf("failed to set goose dialect: %w", err)
	}
	return gooseUpContext(ctx, db, ".")
}

// Open creates dataDir (relative to the working directory) if needed and
// opens fileName inside it. A fileName of ":memory:" skips the directory.
func Open(ctx context.Context, dataDir, fileName string) (*sqlstore.Store, error) {
	dsn := fileName
	if fileName != ":memory:" {
		dir, err := filex.EnsureSubdDir(dataDir)
		if err != nil {
			return nil, fmt.Errorf("data dir: %w", err)
		}
		dsn = filepath.Join(dir, fileName)
	}

	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("db open error: %w", err)
	}
	// A single connection serializes writers and keeps ":memory:" on one database.
	db.SetMaxOpenConns(1)

	if err := RunMigrations(ctx, db); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("migration error: %w", err)
	}

	return sqlstore.New(db, sqlstore.Question), nil
}
