// Package storage defines the key/value medium the credential store and the
// session holder persist into. Values are opaque strings.
//
// Implementations live in sub-packages (memory, sqlite, postgres, redis, s3)
// and are selected by configuration in the composition root.
package storage

import "context"

// Store is a flat string key/value medium.
//
// Contract:
//   - Get returns ok=false and a nil error when the key is absent.
//   - SetMany writes all pairs or none where the medium supports transactions;
//     backends that cannot guarantee this document it.
//   - Delete is idempotent: deleting an absent key is not an error.
//   - Clear removes every key owned by the store (its namespace, if any).
//
// All methods must honor context cancellation/timeouts.
type Store interface {
	Get(ctx context.Context, key string) (string, bool, error)
	Set(ctx context.Context, key, value string) error
	SetMany(ctx context.Context, values map[string]string) error
	Delete(ctx context.Context, keys ...string) error
	List(ctx context.Context) (map[string]string, error)
	Clear(ctx context.Context) error
	Close() error
}

// Driver names accepted by configuration.
const (
	DriverMemory   = "memory"
	DriverSQLite   = "sqlite"
	DriverPostgres = "postgres"
	DriverRedis    = "redis"
	DriverS3       = "s3"
)

// Drivers lists every supported driver name.
var Drivers = []string{DriverMemory, DriverSQLite, DriverPostgres, DriverRedis, DriverS3}
