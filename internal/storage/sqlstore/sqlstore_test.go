package sqlstore

import (
	"context"
	"database/sql"
	"errors"
	"regexp"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	_ "modernc.org/sqlite"
)

func setupDB(t *testing.T) *sql.DB {
	t.Helper()
	db, err := sql.Open("sqlite", ":memory:")
	require.NoError(t, err)
	db.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = db.Close() })

	_, err = db.Exec(`
CREATE TABLE kv_entries (
  key   TEXT PRIMARY KEY,
  value TEXT NOT NULL
);`)
	require.NoError(t, err)
	return db
}

func TestSetAndGet_InsertThenGet(t *testing.T) {
	s := New(setupDB(t), Question)
	ctx := context.Background()

	require.NoError(t, s.Set(ctx, "authToken", "session_1_abc"))

	v, ok, err := s.Get(ctx, "authToken")
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, "session_1_abc", v)
}

func TestGet_NotExists_ReturnsNotOK(t *testing.T) {
	s := New(setupDB(t), Question)

	v, ok, err := s.Get(context.Background(), "absent")
	require.NoError(t, err)
	require.False(t, ok)
	require.Empty(t, v)
}

func TestGet_EmptyValueIsPresent(t *testing.T) {
	s := New(setupDB(t), Question)
	ctx := context.Background()

	require.NoError(t, s.Set(ctx, "k", ""))
	_, ok, err := s.Get(ctx, "k")
	require.NoError(t, err)
	require.True(t, ok)
}

func TestSet_UpsertOverwritesValue(t *testing.T) {
	s := New(setupDB(t), Question)
	ctx := context.Background()

	require.NoError(t, s.Set(ctx, "k", "old"))
	require.NoError(t, s.Set(ctx, "k", "new"))

	v, _, err := s.Get(ctx, "k")
	require.NoError(t, err)
	require.Equal(t, "new", v)
}

func TestSetMany_WritesAllPairs(t *testing.T) {
	s := New(setupDB(t), Question)
	ctx := context.Background()

	require.NoError(t, s.SetMany(ctx, map[string]string{
		"isLoggedIn": "true",
		"userData":   `{"id":"1"}`,
		"authToken":  "t",
	}))

	m, err := s.List(ctx)
	require.NoError(t, err)
	assert.Len(t, m, 3)
	assert.Equal(t, "true", m["isLoggedIn"])
}

func TestDelete_RemovesKeys_AndIsIdempotent(t *testing.T) {
	s := New(setupDB(t), Question)
	ctx := context.Background()

	require.NoError(t, s.SetMany(ctx, map[string]string{"a": "1", "b": "2", "c": "3"}))
	require.NoError(t, s.Delete(ctx, "a", "b"))
	require.NoError(t, s.Delete(ctx, "a"))
	require.NoError(t, s.Delete(ctx))

	m, err := s.List(ctx)
	require.NoError(t, err)
	assert.Equal(t, map[string]string{"c": "3"}, m)
}

func TestClear_RemovesAllKeys(t *testing.T) {
	s := New(setupDB(t), Question)
	ctx := context.Background()

	require.NoError(t, s.Set(ctx, "a", "1"))
	require.NoError(t, s.Set(ctx, "b", "2"))
	require.NoError(t, s.Clear(ctx))

	m, err := s.List(ctx)
	require.NoError(t, err)
	assert.Empty(t, m)
}

func TestErrorsAreWrapped_WhenDBClosed(t *testing.T) {
	db := setupDB(t)
	s := New(db, Question)
	ctx := context.Background()
	require.NoError(t, db.Close())

	_, _, err := s.Get(ctx, "k")
	require.ErrorContains(t, err, "failed to get kv[k]")

	require.ErrorContains(t, s.Set(ctx, "k", "v"), "failed to set kv[k]")
	require.ErrorContains(t, s.SetMany(ctx, map[string]string{"k": "v"}), "failed to set kv batch")
	require.ErrorContains(t, s.Delete(ctx, "k"), "failed to delete kv[k]")
	require.ErrorContains(t, s.Clear(ctx), "failed to clear kv")

	_, err = s.List(ctx)
	require.ErrorContains(t, err, "failed to list kv")
}

func TestDollarDialect_UsesNumberedPlaceholders(t *testing.T) {
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	require.NoError(t, err)
	defer db.Close()

	s := New(db, Dollar)
	ctx := context.Background()

	mock.ExpectQuery(regexp.QuoteMeta(`SELECT value FROM kv_entries WHERE key = $1`)).
		WithArgs("userData").
		WillReturnRows(sqlmock.NewRows([]string{"value"}).AddRow(`{"id":"1"}`))

	v, ok, err := s.Get(ctx, "userData")
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, `{"id":"1"}`, v)

	mock.ExpectBegin()
	mock.ExpectExec(regexp.QuoteMeta(`INSERT INTO kv_entries (key, value) VALUES ($1, $2)`)).
		WithArgs("authToken", "t").
		WillReturnError(errors.New("disk full"))
	mock.ExpectRollback()

	err = s.SetMany(ctx, map[string]string{"authToken": "t"})
	require.ErrorContains(t, err, "disk full")

	require.NoError(t, mock.ExpectationsWereMet())
}
