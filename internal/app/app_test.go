package app

import (
	"bytes"
	"context"
	"io"
	"strings"
	"testing"

	"github.com/dmitrijs2005/bizdesk/internal/common"
	"github.com/dmitrijs2005/bizdesk/internal/config"
	"github.com/dmitrijs2005/bizdesk/internal/storage"
	"github.com/dmitrijs2005/bizdesk/internal/storage/memory"
	"github.com/dmitrijs2005/bizdesk/internal/storage/sqlstore"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testConfig(t *testing.T, driver string) *config.Config {
	t.Helper()
	c := &config.Config{}
	c.LoadDefaults()
	c.StorageDriver = driver
	c.DataDir = t.TempDir()
	return c
}

func TestOpenStore_Memory(t *testing.T) {
	s, err := OpenStore(context.Background(), testConfig(t, storage.DriverMemory))
	require.NoError(t, err)
	assert.IsType(t, &memory.Store{}, s)
}

func TestOpenStore_SQLite(t *testing.T) {
	c := testConfig(t, storage.DriverSQLite)
	c.DatabaseFile = ":memory:"

	s, err := OpenStore(context.Background(), c)
	require.NoError(t, err)
	defer s.Close()
	assert.IsType(t, &sqlstore.Store{}, s)

	require.NoError(t, s.Set(context.Background(), common.KeySession, "{}"))
	v, ok, err := s.Get(context.Background(), common.KeySession)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "{}", v)
}

func TestOpenStore_Unknown(t *testing.T) {
	_, err := OpenStore(context.Background(), testConfig(t, "floppy"))
	require.ErrorContains(t, err, `unknown storage driver "floppy"`)
}

func TestOpenStore_PostgresNeedsDSN(t *testing.T) {
	_, err := OpenStore(context.Background(), testConfig(t, storage.DriverPostgres))
	require.Error(t, err)
}

func TestNewApp_BadLogLevel(t *testing.T) {
	c := testConfig(t, storage.DriverMemory)
	c.LogLevel = "loud"

	_, err := NewApp(context.Background(), c, strings.NewReader(""), &bytes.Buffer{}, &bytes.Buffer{})
	require.ErrorContains(t, err, "logger init error")
}

func TestNewApp_BadLayout(t *testing.T) {
	c := testConfig(t, storage.DriverMemory)
	c.SessionLayout = "zigzag"

	_, err := NewApp(context.Background(), c, strings.NewReader(""), &bytes.Buffer{}, &bytes.Buffer{})
	require.Error(t, err)
}

func TestApp_RunDemoSession(t *testing.T) {
	c := testConfig(t, storage.DriverMemory)
	c.AutoProvisionDemoUser = true

	var out, logs bytes.Buffer
	app, err := NewApp(context.Background(), c, strings.NewReader("profile\nexit\n"), &out, &logs)
	require.NoError(t, err)

	require.NoError(t, app.Run(context.Background()))
	assert.Contains(t, out.String(), "Logged in as")
	assert.Contains(t, out.String(), "demo@rmbbusiness.com")
	assert.Contains(t, logs.String(), "starting bizdesk")
}

func TestApp_RunReturnsOnCancelWithBlockedInput(t *testing.T) {
	c := testConfig(t, storage.DriverMemory)

	in, w := io.Pipe()
	defer w.Close()

	var out, logs bytes.Buffer
	app, err := NewApp(context.Background(), c, in, &out, &logs)
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	require.NoError(t, app.Run(ctx))
}
