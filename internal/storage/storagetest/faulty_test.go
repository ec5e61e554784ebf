package storagetest

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFaulty_PassThroughWhenDisarmed(t *testing.T) {
	f := New()
	ctx := context.Background()

	require.NoError(t, f.Set(ctx, "a", "1"))
	require.NoError(t, f.SetMany(ctx, map[string]string{"b": "2"}))
	assert.Equal(t, 2, f.Writes())

	m, err := f.List(ctx)
	require.NoError(t, err)
	assert.Equal(t, map[string]string{"a": "1", "b": "2"}, m)
}

func TestFaulty_ReadAndWriteFaults(t *testing.T) {
	f := New()
	ctx := context.Background()
	require.NoError(t, f.Set(ctx, "a", "1"))

	f.FailReads(ErrInjectedRead)
	_, _, err := f.Get(ctx, "a")
	assert.ErrorIs(t, err, ErrInjectedRead)
	_, err = f.List(ctx)
	assert.ErrorIs(t, err, ErrInjectedRead)

	f.FailWrites(ErrQuotaExceeded)
	assert.ErrorIs(t, f.Set(ctx, "a", "2"), ErrQuotaExceeded)
	assert.ErrorIs(t, f.SetMany(ctx, map[string]string{"a": "2"}), ErrQuotaExceeded)

	boom := errors.New("boom")
	f.FailDeletes(boom)
	assert.ErrorIs(t, f.Delete(ctx, "a"), boom)
	assert.ErrorIs(t, f.Clear(ctx), boom)

	f.Reset()
	v, ok, err := f.Get(ctx, "a")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "1", v)
}

func TestFaulty_TearSetMany_WritesPrefixInKeyOrder(t *testing.T) {
	f := New()
	ctx := context.Background()
	f.TearSetMany(1)

	err := f.SetMany(ctx, map[string]string{"b": "2", "a": "1", "c": "3"})
	require.ErrorIs(t, err, ErrQuotaExceeded)

	m, err := f.List(ctx)
	require.NoError(t, err)
	assert.Equal(t, map[string]string{"a": "1"}, m)
}

func TestFaulty_FailWritesTo_OnlyNamedKeys(t *testing.T) {
	f := New()
	ctx := context.Background()
	f.FailWritesTo(ErrQuotaExceeded, "session")

	require.NoError(t, f.Set(ctx, "registeredUsers", "[]"))
	assert.ErrorIs(t, f.Set(ctx, "session", "{}"), ErrQuotaExceeded)
	assert.ErrorIs(t, f.SetMany(ctx, map[string]string{"a": "1", "session": "{}"}), ErrQuotaExceeded)

	m, err := f.List(ctx)
	require.NoError(t, err)
	assert.Equal(t, map[string]string{"registeredUsers": "[]"}, m)

	f.FailWritesTo(nil, "session")
	require.NoError(t, f.Set(ctx, "session", "{}"))
}
