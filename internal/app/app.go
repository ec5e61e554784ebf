// Package app is the composition root of the bizdesk CLI. It opens the
// configured storage backend, builds the auth engine over it and runs the
// REPL until the user quits or the process is signalled.
package app

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/dmitrijs2005/bizdesk/internal/auth"
	"github.com/dmitrijs2005/bizdesk/internal/cli"
	"github.com/dmitrijs2005/bizdesk/internal/config"
	"github.com/dmitrijs2005/bizdesk/internal/logging"
	"github.com/dmitrijs2005/bizdesk/internal/session"
	"github.com/dmitrijs2005/bizdesk/internal/storage"
	"github.com/dmitrijs2005/bizdesk/internal/storage/memory"
	"github.com/dmitrijs2005/bizdesk/internal/storage/postgres"
	"github.com/dmitrijs2005/bizdesk/internal/storage/redis"
	"github.com/dmitrijs2005/bizdesk/internal/storage/s3"
	"github.com/dmitrijs2005/bizdesk/internal/storage/sqlite"
)

type App struct {
	config *config.Config
	logger logging.Logger
	store  storage.Store
	engine *auth.Engine
	cli    *cli.App
}

// OpenStore opens the backend named by c.StorageDriver.
func OpenStore(ctx context.Context, c *config.Config) (storage.Store, error) {
	var (
		s   storage.Store
		err error
	)

	switch c.StorageDriver {
	case storage.DriverMemory:
		s = memory.New()
	case storage.DriverSQLite:
		s, err = sqlite.Open(ctx, c.DataDir, c.DatabaseFile)
	case storage.DriverPostgres:
		s, err = postgres.Open(ctx, c.PostgresDSN)
	case storage.DriverRedis:
		s, err = redis.Open(ctx, redis.Options{
			Addr:      c.RedisAddr,
			Password:  c.RedisPassword,
			DB:        c.RedisDB,
			KeyPrefix: c.RedisKeyPrefix,
		})
	case storage.DriverS3:
		s, err = s3.Open(ctx, s3.Options{
			Bucket:       c.S3Bucket,
			Region:       c.S3Region,
			BaseEndpoint: c.S3BaseEndpoint,
			AccessKey:    c.S3AccessKey,
			SecretKey:    c.S3SecretKey,
			KeyPrefix:    c.S3KeyPrefix,
		})
	default:
		return nil, fmt.Errorf("unknown storage driver %q", c.StorageDriver)
	}

	if err != nil {
		return nil, err
	}
	return s, nil
}

// NewApp wires the application. Log records go to logOut, the REPL talks
// over in and out.
func NewApp(ctx context.Context, c *config.Config, in io.Reader, out, logOut io.Writer) (*App, error) {
	logger, err := logging.New(logOut, c.LogLevel, c.LogFormat)
	if err != nil {
		return nil, fmt.Errorf("logger init error: %w", err)
	}

	layout, err := session.ParseLayout(c.SessionLayout)
	if err != nil {
		return nil, err
	}

	store, err := OpenStore(ctx, c)
	if err != nil {
		return nil, fmt.Errorf("storage init error: %w", err)
	}

	engine := auth.New(store, logger, auth.Options{
		AutoProvisionDemoUser: c.AutoProvisionDemoUser,
		SimulatedLatency:      c.SimulatedLatency,
		SessionLayout:         layout,
	})

	return &App{
		config: c,
		logger: logger,
		store:  store,
		engine: engine,
		cli:    cli.NewApp(engine, in, out, logger),
	}, nil
}

func (app *App) initSignalHandler(cancelFunc context.CancelFunc) func() {
	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT)

	done := make(chan struct{})
	go func() {
		select {
		case <-sigs:
			cancelFunc()
		case <-done:
		}
	}()

	return func() {
		signal.Stop(sigs)
		close(done)
	}
}

// Run serves the REPL and closes the store on the way out. It returns when
// the REPL ends or ctx is cancelled, whichever comes first.
func (app *App) Run(ctx context.Context) error {
	ctx, cancelFunc := context.WithCancel(ctx)
	defer cancelFunc()

	stop := app.initSignalHandler(cancelFunc)
	defer stop()

	app.logger.Info(ctx, "starting bizdesk",
		"driver", app.config.StorageDriver,
		"layout", app.config.SessionLayout,
	)

	done := make(chan struct{})
	go func() {
		defer close(done)
		app.cli.Run(ctx)
	}()

	select {
	case <-done:
	case <-ctx.Done():
		app.logger.Info(ctx, "interrupted")
		app.cli.Drain()
	}

	return app.Close()
}

func (app *App) Close() error {
	if err := app.store.Close(); err != nil {
		return fmt.Errorf("storage close error: %w", err)
	}
	return nil
}
