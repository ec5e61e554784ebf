package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"

	"github.com/caarlos0/env/v11"
	"github.com/dmitrijs2005/bizdesk/internal/flagx"
	"github.com/joho/godotenv"
)

const (
	envPrefix      = "BIZDESK_"
	defaultEnvFile = ".env"
)

// environ is a seam for tests.
var environ = os.Environ

// parseEnv overlays cfg with BIZDESK_* variables. Values from the dotenv file
// are used only where the process environment does not set the variable.
// The process environment itself is left untouched.
func parseEnv(cfg *Config, args []string) error {
	vars, err := readEnvFile(flagx.EnvFileFlags(args))
	if err != nil {
		return err
	}

	for _, kv := range environ() {
		k, v, ok := strings.Cut(kv, "=")
		if ok {
			vars[k] = v
		}
	}

	if err := env.ParseWithOptions(cfg, env.Options{
		Prefix:      envPrefix,
		Environment: vars,
	}); err != nil {
		return fmt.Errorf("parse environment: %w", err)
	}
	return nil
}

// readEnvFile reads path, or .env when path is empty. A missing default
// file is not an error.
func readEnvFile(path string) (map[string]string, error) {
	explicit := path != ""
	if !explicit {
		path = defaultEnvFile
	}

	vars, err := godotenv.Read(path)
	if err != nil {
		if !explicit && errors.Is(err, fs.ErrNotExist) {
			return map[string]string{}, nil
		}
		return nil, fmt.Errorf("read env file %s: %w", path, err)
	}
	return vars, nil
}
