package config

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/dmitrijs2005/bizdesk/internal/flagx"
	"github.com/dmitrijs2005/bizdesk/internal/timex"
)

// JsonConfig is a DTO used exclusively for JSON unmarshalling. Pointer
// fields tell an absent key from a zero value.
type JsonConfig struct {
	StorageDriver string `json:"storage_driver"`

	DataDir      string `json:"data_dir"`
	DatabaseFile string `json:"database_file"`

	PostgresDSN string `json:"postgres_dsn"`

	RedisAddr      string  `json:"redis_addr"`
	RedisPassword  string  `json:"redis_password"`
	RedisDB        *int    `json:"redis_db"`
	RedisKeyPrefix *string `json:"redis_key_prefix"`

	S3Bucket       string  `json:"s3_bucket"`
	S3Region       string  `json:"s3_region"`
	S3BaseEndpoint string  `json:"s3_base_endpoint"`
	S3AccessKey    string  `json:"s3_access_key"`
	S3SecretKey    string  `json:"s3_secret_key"`
	S3KeyPrefix    *string `json:"s3_key_prefix"`

	SessionLayout         string          `json:"session_layout"`
	AutoProvisionDemoUser *bool           `json:"auto_provision_demo_user"`
	SimulatedLatency      *timex.Duration `json:"simulated_latency"`

	LogLevel  string `json:"log_level"`
	LogFormat string `json:"log_format"`
}

func setString(dst *string, v string) {
	if v != "" {
		*dst = v
	}
}

// parseJson overlays cfg with the file named by -c/-config, if any.
func parseJson(cfg *Config, args []string) error {
	jsonConfigFile := flagx.JsonConfigFlags(args)
	if jsonConfigFile == "" {
		return nil
	}

	data, err := os.ReadFile(jsonConfigFile)
	if err != nil {
		return fmt.Errorf("read config %s: %w", jsonConfigFile, err)
	}

	var jc JsonConfig
	if err := json.Unmarshal(data, &jc); err != nil {
		return fmt.Errorf("parse config %s: %w", jsonConfigFile, err)
	}

	setString(&cfg.StorageDriver, jc.StorageDriver)
	setString(&cfg.DataDir, jc.DataDir)
	setString(&cfg.DatabaseFile, jc.DatabaseFile)
	setString(&cfg.PostgresDSN, jc.PostgresDSN)
	setString(&cfg.RedisAddr, jc.RedisAddr)
	setString(&cfg.RedisPassword, jc.RedisPassword)
	if jc.RedisDB != nil {
		cfg.RedisDB = *jc.RedisDB
	}
	if jc.RedisKeyPrefix != nil {
		cfg.RedisKeyPrefix = *jc.RedisKeyPrefix
	}
	setString(&cfg.S3Bucket, jc.S3Bucket)
	setString(&cfg.S3Region, jc.S3Region)
	setString(&cfg.S3BaseEndpoint, jc.S3BaseEndpoint)
	setString(&cfg.S3AccessKey, jc.S3AccessKey)
	setString(&cfg.S3SecretKey, jc.S3SecretKey)
	if jc.S3KeyPrefix != nil {
		cfg.S3KeyPrefix = *jc.S3KeyPrefix
	}
	setString(&cfg.SessionLayout, jc.SessionLayout)
	if jc.AutoProvisionDemoUser != nil {
		cfg.AutoProvisionDemoUser = *jc.AutoProvisionDemoUser
	}
	if jc.SimulatedLatency != nil {
		cfg.SimulatedLatency = jc.SimulatedLatency.Duration
	}
	setString(&cfg.LogLevel, jc.LogLevel)
	setString(&cfg.LogFormat, jc.LogFormat)

	return nil
}
