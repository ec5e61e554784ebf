// Package config loads runtime configuration for the bizdesk CLI.
//
// Sources & precedence
//
//  1. Built-in defaults (see (*Config).LoadDefaults).
//  2. Optional JSON file selected with -c or -config.
//  3. Optional dotenv file (-e or -env-file, default ".env"; a missing
//     default file is ignored).
//  4. Environment variables prefixed with BIZDESK_, which win over the
//     dotenv file.
//  5. Command-line flags.
//
// Supported flags
//
//	-s string   storage driver: memory, sqlite, postgres, redis, s3
//	-d string   data directory for the sqlite database
//	-f string   sqlite database file name
//	-l string   session layout: composite or split
//	-demo       log in the demo user when no session is stored
//	-v string   log level: debug, info, warn, error
//
// # JSON schema
//
// Durations accept strings like "500ms" or integer nanoseconds:
//
//	{
//	  "storage_driver": "redis",
//	  "redis_addr": "127.0.0.1:6379",
//	  "session_layout": "composite",
//	  "auto_provision_demo_user": true,
//	  "simulated_latency": "500ms",
//	  "log_level": "debug"
//	}
package config
