package cli

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"sync"
)

// printlnFn is a test seam for REPL output.
var printlnFn = fmt.Println

// execIface is the command surface the REPL dispatches to. *App satisfies
// it; tests provide a stub.
type execIface interface {
	isLoggedIn() bool
	Status(ctx context.Context) error
	Login(ctx context.Context) error
	Register(ctx context.Context) error
	Forgot(ctx context.Context) error
	Profile(ctx context.Context) error
	Update(ctx context.Context) error
	Logout(ctx context.Context) error
	Reset(ctx context.Context) error
	Keys(ctx context.Context) error
}

// runREPL reads a line from reader, takes the first token as the command and
// dispatches it to a. It returns on EOF, on "exit"/"quit" or once ctx is
// done. Each command runs while holding busy.
//
// Errors returned by command handlers are ignored here; handlers report
// their own outcome to the user.
func runREPL(ctx context.Context, a execIface, statusFn func() string, reader *bufio.Reader, busy sync.Locker) {
	for {
		if ctx.Err() != nil {
			return
		}
		printlnFn(fmt.Sprintf("bizdesk %s > ", statusFn()))
		line, err := reader.ReadString('\n')
		if err != nil && (!errors.Is(err, io.EOF) || line == "") {
			return
		}
		parts := strings.Fields(line)
		if len(parts) == 0 {
			continue
		}

		busy.Lock()
		quit := dispatch(ctx, a, parts[0])
		busy.Unlock()
		if quit {
			return
		}
	}
}

// dispatch runs one command and reports whether the REPL should stop.
func dispatch(ctx context.Context, a execIface, cmd string) bool {
	if ctx.Err() != nil {
		return true
	}

	switch cmd {
	case "help":
		if a.isLoggedIn() {
			printlnFn("Available commands: status, profile, update, logout, keys, reset, exit")
		} else {
			printlnFn("Available commands: status, login, register, forgot, keys, reset, exit")
		}

	case "status":
		_ = a.Status(ctx)

	case "login":
		_ = a.Login(ctx)

	case "register":
		_ = a.Register(ctx)

	case "forgot":
		_ = a.Forgot(ctx)

	case "profile":
		_ = a.Profile(ctx)

	case "update":
		_ = a.Update(ctx)

	case "logout":
		_ = a.Logout(ctx)

	case "reset":
		_ = a.Reset(ctx)

	case "keys":
		_ = a.Keys(ctx)

	case "exit", "quit":
		printlnFn("Bye!")
		return true

	default:
		printlnFn("Unknown command:", cmd)
	}
	return false
}
