package redis

import (
	"context"
	"testing"

	"github.com/alicebob/miniredis/v2"
	goredis "github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestStore(t *testing.T, prefix string) (*Store, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := goredis.NewClient(&goredis.Options{Addr: mr.Addr()})
	s := New(client, prefix)
	t.Cleanup(func() { _ = s.Close() })
	return s, mr
}

func TestGetSet_UsesPrefix(t *testing.T) {
	s, mr := newTestStore(t, "bizdesk:")
	ctx := context.Background()

	require.NoError(t, s.Set(ctx, "authToken", "session_1_x"))

	raw, err := mr.Get("bizdesk:authToken")
	require.NoError(t, err)
	assert.Equal(t, "session_1_x", raw)

	v, ok, err := s.Get(ctx, "authToken")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "session_1_x", v)
}

func TestGet_Absent(t *testing.T) {
	s, _ := newTestStore(t, "p:")

	_, ok, err := s.Get(context.Background(), "nope")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestSetMany_ListAndDelete(t *testing.T) {
	s, _ := newTestStore(t, "p:")
	ctx := context.Background()

	require.NoError(t, s.SetMany(ctx, map[string]string{
		"isLoggedIn": "true",
		"userData":   "{}",
		"authToken":  "t",
	}))

	m, err := s.List(ctx)
	require.NoError(t, err)
	assert.Equal(t, map[string]string{"isLoggedIn": "true", "userData": "{}", "authToken": "t"}, m)

	require.NoError(t, s.Delete(ctx, "isLoggedIn", "userData", "missing"))
	m, err = s.List(ctx)
	require.NoError(t, err)
	assert.Equal(t, map[string]string{"authToken": "t"}, m)
}

func TestClear_LeavesForeignKeys(t *testing.T) {
	s, mr := newTestStore(t, "p:")
	ctx := context.Background()

	require.NoError(t, mr.Set("other:key", "keep"))
	require.NoError(t, s.Set(ctx, "a", "1"))
	require.NoError(t, s.Set(ctx, "b", "2"))

	require.NoError(t, s.Clear(ctx))

	m, err := s.List(ctx)
	require.NoError(t, err)
	assert.Empty(t, m)
	assert.True(t, mr.Exists("other:key"))
}

func TestErrors_WhenServerDown(t *testing.T) {
	s, mr := newTestStore(t, "p:")
	ctx := context.Background()
	mr.Close()

	_, _, err := s.Get(ctx, "k")
	assert.ErrorContains(t, err, "redis get k")
	assert.ErrorContains(t, s.Set(ctx, "k", "v"), "redis set k")
	assert.ErrorContains(t, s.SetMany(ctx, map[string]string{"k": "v"}), "redis set batch")
	assert.ErrorContains(t, s.Delete(ctx, "k"), "redis del")
	_, err = s.List(ctx)
	assert.ErrorContains(t, err, "redis scan")
}

func TestOpen_PingsServer(t *testing.T) {
	mr := miniredis.RunT(t)

	s, err := Open(context.Background(), Options{Addr: mr.Addr(), KeyPrefix: "x:"})
	require.NoError(t, err)
	require.NoError(t, s.Close())

	mr.Close()
	_, err = Open(context.Background(), Options{Addr: mr.Addr()})
	require.Error(t, err)
}

func TestScanPattern_EscapesGlob(t *testing.T) {
	assert.Equal(t, "bizdesk:*", scanPattern("bizdesk:"))
	assert.Equal(t, `a\*b\?c\[d\]e\\:*`, scanPattern(`a*b?c[d]e\:`))
}

func TestClear_PrefixWithGlobCharsKeepsForeignKeys(t *testing.T) {
	s, mr := newTestStore(t, "app*:")
	ctx := context.Background()

	require.NoError(t, s.Set(ctx, "session", "{}"))
	require.NoError(t, mr.Set("app1:session", "other"))
	require.NoError(t, mr.Set("apple:x", "other"))

	m, err := s.List(ctx)
	require.NoError(t, err)
	assert.Equal(t, map[string]string{"session": "{}"}, m)

	require.NoError(t, s.Clear(ctx))
	assert.False(t, mr.Exists("app*:session"))
	assert.True(t, mr.Exists("app1:session"))
	assert.True(t, mr.Exists("apple:x"))
}
