package config

import (
	"fmt"
	"slices"
	"time"

	"github.com/dmitrijs2005/bizdesk/internal/session"
	"github.com/dmitrijs2005/bizdesk/internal/storage"
)

// Config holds runtime settings for the bizdesk CLI. The env tags name the
// variables without the BIZDESK_ prefix.
type Config struct {
	StorageDriver string `env:"STORAGE_DRIVER"`

	DataDir      string `env:"DATA_DIR"`
	DatabaseFile string `env:"DATABASE_FILE"`

	PostgresDSN string `env:"POSTGRES_DSN"`

	RedisAddr      string `env:"REDIS_ADDR"`
	RedisPassword  string `env:"REDIS_PASSWORD"`
	RedisDB        int    `env:"REDIS_DB"`
	RedisKeyPrefix string `env:"REDIS_KEY_PREFIX"`

	S3Bucket       string `env:"S3_BUCKET"`
	S3Region       string `env:"S3_REGION"`
	S3BaseEndpoint string `env:"S3_BASE_ENDPOINT"`
	S3AccessKey    string `env:"S3_ACCESS_KEY"`
	S3SecretKey    string `env:"S3_SECRET_KEY"`
	S3KeyPrefix    string `env:"S3_KEY_PREFIX"`

	SessionLayout         string        `env:"SESSION_LAYOUT"`
	AutoProvisionDemoUser bool          `env:"AUTO_PROVISION_DEMO_USER"`
	SimulatedLatency      time.Duration `env:"SIMULATED_LATENCY"`

	LogLevel  string `env:"LOG_LEVEL"`
	LogFormat string `env:"LOG_FORMAT"`
}

// LoadDefaults populates c with sensible defaults.
func (c *Config) LoadDefaults() {
	c.StorageDriver = storage.DriverSQLite
	c.DataDir = "data"
	c.DatabaseFile = "bizdesk.db"
	c.RedisAddr = "127.0.0.1:6379"
	c.RedisKeyPrefix = "bizdesk:"
	c.S3Region = "us-east-1"
	c.S3KeyPrefix = "bizdesk/"
	c.SessionLayout = string(session.LayoutComposite)
	c.LogLevel = "info"
	c.LogFormat = "text"
}

// Validate rejects settings no component can work with.
func (c *Config) Validate() error {
	if !slices.Contains(storage.Drivers, c.StorageDriver) {
		return fmt.Errorf("unknown storage driver %q", c.StorageDriver)
	}
	if _, err := session.ParseLayout(c.SessionLayout); err != nil {
		return err
	}
	if c.SimulatedLatency < 0 {
		return fmt.Errorf("simulated latency must not be negative")
	}
	switch c.StorageDriver {
	case storage.DriverPostgres:
		if c.PostgresDSN == "" {
			return fmt.Errorf("postgres driver requires a DSN")
		}
	case storage.DriverRedis:
		if c.RedisKeyPrefix == "" {
			return fmt.Errorf("redis driver requires a key prefix")
		}
	case storage.DriverS3:
		if c.S3Bucket == "" {
			return fmt.Errorf("s3 driver requires a bucket")
		}
		if c.S3KeyPrefix == "" {
			return fmt.Errorf("s3 driver requires a key prefix")
		}
	}
	return nil
}

// LoadConfig builds a Config from defaults, then overlays the JSON file,
// the dotenv file, the environment and the flags found in args (usually
// os.Args[1:]). Later sources take precedence over earlier ones.
func LoadConfig(args []string) (*Config, error) {
	cfg := &Config{}
	cfg.LoadDefaults()

	if err := parseJson(cfg, args); err != nil {
		return nil, err
	}
	if err := parseEnv(cfg, args); err != nil {
		return nil, err
	}
	if err := parseFlags(cfg, args); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, nil
}
