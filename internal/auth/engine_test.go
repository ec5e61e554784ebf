package auth

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrijs2005/bizdesk/internal/common"
	"github.com/dmitrijs2005/bizdesk/internal/credentials"
	"github.com/dmitrijs2005/bizdesk/internal/logging"
	"github.com/dmitrijs2005/bizdesk/internal/models"
	"github.com/dmitrijs2005/bizdesk/internal/session"
	"github.com/dmitrijs2005/bizdesk/internal/storage/storagetest"
)

var fixedNow = time.Date(2025, 3, 4, 5, 6, 7, 0, time.UTC)

func newTestEngine(t *testing.T, opts Options) (*Engine, *storagetest.Faulty) {
	t.Helper()
	kv := storagetest.New()
	e := New(kv, logging.Discard(), opts)

	var n int
	e.now = func() time.Time { return fixedNow }
	e.newID = func() string {
		n++
		return fmt.Sprintf("id-%d", n)
	}
	e.newToken = func() string {
		n++
		return fmt.Sprintf("session_%d_tok", n)
	}
	return e, kv
}

func storedAccounts(t *testing.T, kv *storagetest.Faulty) []models.Account {
	t.Helper()
	accounts, err := credentials.New(kv).LoadAll(context.Background())
	require.NoError(t, err)
	return accounts
}

func TestNew_StartsUnauthenticated(t *testing.T) {
	e, _ := newTestEngine(t, Options{})

	snap := e.Snapshot()
	assert.Equal(t, Unauthenticated, snap.State)
	assert.Nil(t, snap.User)
	assert.Empty(t, snap.Token)
}

func TestState_String(t *testing.T) {
	assert.Equal(t, "unauthenticated", Unauthenticated.String())
	assert.Equal(t, "authenticating", Authenticating.String())
	assert.Equal(t, "authenticated", Authenticated.String())
	assert.Equal(t, "unknown", State(42).String())
}

func TestSnapshot_IsACopy(t *testing.T) {
	e, _ := newTestEngine(t, Options{})
	res := e.Login(context.Background(), "alice@example.com", DemoPassword)
	require.True(t, res.Success)

	snap := e.Snapshot()
	snap.User.Name = "mutated"
	res.User.Name = "mutated too"

	assert.Equal(t, "alice", e.Snapshot().User.Name)
}

func TestSubscribe_ReceivesTransitionsAndUnsubscribes(t *testing.T) {
	e, _ := newTestEngine(t, Options{})
	ctx := context.Background()

	var mu sync.Mutex
	var states []State
	unsubscribe := e.Subscribe(func(s Snapshot) {
		mu.Lock()
		defer mu.Unlock()
		states = append(states, s.State)
	})

	require.True(t, e.Login(ctx, "alice@example.com", DemoPassword).Success)
	require.NoError(t, e.Logout(ctx))

	mu.Lock()
	assert.Equal(t, []State{Authenticating, Authenticated, Authenticating, Unauthenticated}, states)
	mu.Unlock()

	unsubscribe()
	require.True(t, e.Login(ctx, "alice@example.com", DemoPassword).Success)

	mu.Lock()
	assert.Len(t, states, 4)
	mu.Unlock()
}

func TestSimulatedLatency_HonoursCancellation(t *testing.T) {
	e, _ := newTestEngine(t, Options{SimulatedLatency: time.Hour})
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	res := e.Login(ctx, "alice@example.com", DemoPassword)
	assert.False(t, res.Success)
	assert.ErrorIs(t, res.Err, context.Canceled)
	assert.Equal(t, Unauthenticated, e.Snapshot().State)
}

func TestSimulatedLatency_Delays(t *testing.T) {
	e, _ := newTestEngine(t, Options{SimulatedLatency: 20 * time.Millisecond})

	start := time.Now()
	res := e.ForgotPassword(context.Background(), "nobody@example.com")
	assert.ErrorIs(t, res.Err, ErrAccountNotFound)
	assert.GreaterOrEqual(t, time.Since(start), 20*time.Millisecond)
}

func TestOperations_AreSerialized(t *testing.T) {
	e, kv := newTestEngine(t, Options{})
	ctx := context.Background()

	var wg sync.WaitGroup
	for i := range 10 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			e.Login(ctx, fmt.Sprintf("user%d@example.com", i), DemoPassword)
		}()
	}
	wg.Wait()

	assert.Len(t, storedAccounts(t, kv), 10, "no lost updates within one engine")
	assert.Equal(t, Authenticated, e.Snapshot().State)
}

func TestSplitLayout_EndToEnd(t *testing.T) {
	e, kv := newTestEngine(t, Options{SessionLayout: session.LayoutSplit})
	ctx := context.Background()

	require.True(t, e.Login(ctx, "alice@example.com", DemoPassword).Success)

	m, err := kv.List(ctx)
	require.NoError(t, err)
	assert.Equal(t, "true", m[common.KeyIsLoggedIn])
	assert.NotEmpty(t, m[common.KeyAuthToken])
	assert.NotContains(t, m, common.KeySession)

	fresh := New(kv, logging.Discard(), Options{SessionLayout: session.LayoutSplit})
	st := fresh.CheckAuthStatus(ctx)
	assert.True(t, st.LoggedIn)
	assert.Equal(t, "alice@example.com", st.User.Email)
}
