package config

import (
	"flag"
	"io"

	"github.com/dmitrijs2005/bizdesk/internal/flagx"
)

// parseFlags overlays cfg with the flags listed in the package doc. Other
// arguments are filtered out with flagx.FilterArgs first.
func parseFlags(cfg *Config, args []string) error {
	args = flagx.FilterArgs(args, []string{"-s", "-d", "-f", "-l", "-demo", "-v"})

	fs := flag.NewFlagSet("bizdesk", flag.ContinueOnError)
	fs.SetOutput(io.Discard)

	fs.StringVar(&cfg.StorageDriver, "s", cfg.StorageDriver, "storage driver")
	fs.StringVar(&cfg.DataDir, "d", cfg.DataDir, "data directory")
	fs.StringVar(&cfg.DatabaseFile, "f", cfg.DatabaseFile, "sqlite database file")
	fs.StringVar(&cfg.SessionLayout, "l", cfg.SessionLayout, "session layout")
	fs.BoolVar(&cfg.AutoProvisionDemoUser, "demo", cfg.AutoProvisionDemoUser, "auto-provision the demo user")
	fs.StringVar(&cfg.LogLevel, "v", cfg.LogLevel, "log level")

	return fs.Parse(args)
}
