package cli

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"sync"

	"github.com/dmitrijs2005/bizdesk/internal/auth"
	"github.com/dmitrijs2005/bizdesk/internal/logging"
)

type App struct {
	svc    auth.Service
	reader *bufio.Reader
	out    io.Writer
	log    logging.Logger

	// busy is held while a command runs.
	busy sync.Mutex
}

func NewApp(svc auth.Service, in io.Reader, out io.Writer, log logging.Logger) *App {
	return &App{
		svc:    svc,
		reader: bufio.NewReader(in),
		out:    out,
		log:    log.With("component", "cli"),
	}
}

func (a *App) isLoggedIn() bool {
	return a.svc.Snapshot().State == auth.Authenticated
}

func (a *App) getStatus() string {
	snap := a.svc.Snapshot()
	if snap.State == auth.Authenticated && snap.User != nil {
		return fmt.Sprintf("(%s)", snap.User.Email)
	}
	return "(guest)"
}

// Run restores the previous session and serves commands until the input
// ends or the user quits.
func (a *App) Run(ctx context.Context) {
	a.busy.Lock()
	if ctx.Err() != nil {
		a.busy.Unlock()
		return
	}
	fmt.Fprintln(a.out, "Welcome to bizdesk (type 'help' for commands)")
	_ = a.Status(ctx)
	a.busy.Unlock()

	runREPL(ctx, a, a.getStatus, a.reader, &a.busy)
}

// Drain waits for the command in progress, if any, to return. Once ctx
// passed to Run is done no further command starts, so after Drain the
// engine is idle.
func (a *App) Drain() {
	a.busy.Lock()
	defer a.busy.Unlock()
}

func (a *App) println(args ...any) {
	fmt.Fprintln(a.out, args...)
}
