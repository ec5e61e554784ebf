// Package auth is the authentication state machine of bizdesk: it validates
// credentials and profile data, keeps the credential store and the persisted
// session in step, and exposes the current state to the presentation layer.
//
// Operations on one Engine are serialized; each runs to completion before the
// next starts. A failed operation leaves the engine in the stable state it
// had before, except Logout and ResetAllData which always end
// Unauthenticated.
package auth

import (
	"context"
	"sync"
	"time"

	"github.com/dmitrijs2005/bizdesk/internal/credentials"
	"github.com/dmitrijs2005/bizdesk/internal/logging"
	"github.com/dmitrijs2005/bizdesk/internal/models"
	"github.com/dmitrijs2005/bizdesk/internal/session"
	"github.com/dmitrijs2005/bizdesk/internal/storage"
	"github.com/dmitrijs2005/bizdesk/internal/token"
	"github.com/google/uuid"
)

// Service is what the presentation layer needs from the engine.
type Service interface {
	CheckAuthStatus(ctx context.Context) Status
	Login(ctx context.Context, email, password string) Result
	Register(ctx context.Context, in models.RegisterInput) Result
	Logout(ctx context.Context) error
	UpdateProfile(ctx context.Context, patch models.ProfilePatch) Result
	ResetAllData(ctx context.Context) error
	ForgotPassword(ctx context.Context, email string) Result
	StoredKeys(ctx context.Context) ([]KeyInfo, error)
	Snapshot() Snapshot
}

var _ Service = (*Engine)(nil)

type Options struct {
	// AutoProvisionDemoUser makes CheckAuthStatus log in the fixed demo
	// user when no valid session is stored.
	AutoProvisionDemoUser bool
	// SimulatedLatency delays every operation.
	SimulatedLatency time.Duration
	SessionLayout    session.Layout
}

type Engine struct {
	// op serializes operations.
	op sync.Mutex

	mu     sync.RWMutex
	snap   Snapshot
	subs   map[int]func(Snapshot)
	nextID int

	kv       storage.Store
	creds    *credentials.Store
	sessions *session.Holder
	opts     Options
	log      logging.Logger

	now          func() time.Time
	newID        func() string
	newToken     func() string
	newDemoToken func() string
}

// New builds an engine over kv. The engine starts Unauthenticated; call
// CheckAuthStatus to restore a persisted session.
func New(kv storage.Store, log logging.Logger, opts Options) *Engine {
	log = log.With("component", "auth")
	return &Engine{
		snap:         Snapshot{State: Unauthenticated},
		subs:         make(map[int]func(Snapshot)),
		kv:           kv,
		creds:        credentials.New(kv),
		sessions:     session.New(kv, opts.SessionLayout, log),
		opts:         opts,
		log:          log,
		now:          time.Now,
		newID:        uuid.NewString,
		newToken:     token.NewSession,
		newDemoToken: token.NewDemo,
	}
}

// Snapshot returns the current state. It never blocks on a running operation.
func (e *Engine) Snapshot() Snapshot {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.snap.clone()
}

// Subscribe registers fn to be called with every new snapshot. fn runs on
// the goroutine of the operation that changed the state and must not call
// engine operations. The returned func unsubscribes.
func (e *Engine) Subscribe(fn func(Snapshot)) func() {
	e.mu.Lock()
	id := e.nextID
	e.nextID++
	e.subs[id] = fn
	e.mu.Unlock()

	return func() {
		e.mu.Lock()
		delete(e.subs, id)
		e.mu.Unlock()
	}
}

func (e *Engine) setSnapshot(ctx context.Context, next Snapshot) {
	e.mu.Lock()
	prev := e.snap.State
	e.snap = next.clone()
	subs := make([]func(Snapshot), 0, len(e.subs))
	for _, fn := range e.subs {
		subs = append(subs, fn)
	}
	e.mu.Unlock()

	if prev != next.State {
		e.log.Debug(ctx, "state changed", "from", prev.String(), "to", next.State.String())
	}
	for _, fn := range subs {
		fn(next.clone())
	}
}

// begin marks the engine Authenticating and returns the snapshot to restore
// if the operation fails.
func (e *Engine) begin(ctx context.Context) Snapshot {
	prev := e.Snapshot()
	next := prev
	next.State = Authenticating
	e.setSnapshot(ctx, next)
	return prev
}

func (e *Engine) authenticated(ctx context.Context, u models.User, tok string) {
	e.setSnapshot(ctx, Snapshot{State: Authenticated, User: &u, Token: tok})
}

func (e *Engine) unauthenticated(ctx context.Context) {
	e.setSnapshot(ctx, Snapshot{State: Unauthenticated})
}

// delay waits for the configured simulated latency or until ctx is done.
func (e *Engine) delay(ctx context.Context) error {
	if e.opts.SimulatedLatency <= 0 {
		return ctx.Err()
	}
	t := time.NewTimer(e.opts.SimulatedLatency)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}
