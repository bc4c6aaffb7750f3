package slot

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"
)

// CurrentAccountKey is the slot holding the logged-in account name.
const CurrentAccountKey = "currentAccount"

// Store is a durable key-value slot. Values survive process restarts.
type Store interface {
	// Get returns ok=false when the key has no value.
	Get(ctx context.Context, key string) (value string, ok bool, err error)
	Set(ctx context.Context, key, value string) error
	// Remove is a no-op for missing keys.
	Remove(ctx context.Context, key string) error
}

// Driver names accepted by Open.
const (
	DriverPostgres = "postgres"
	DriverRedis    = "redis"
	DriverSQLite   = "sqlite"
)

// Options carries the backend handles Open may need. Only the selected driver's field is used.
type Options struct {
	Pool       *pgxpool.Pool
	Redis      *redis.Client
	SQLitePath string
}

// Open selects a Store implementation by driver name.
func Open(driver string, opts Options) (Store, error) {
	switch driver {
	case "", DriverPostgres:
		if opts.Pool == nil {
			return nil, fmt.Errorf("slot: postgres driver needs a pool")
		}
		return NewPostgres(opts.Pool), nil
	case DriverRedis:
		if opts.Redis == nil {
			return nil, fmt.Errorf("slot: redis driver needs a client")
		}
		return NewRedis(opts.Redis), nil
	case DriverSQLite:
		store, err := NewSQLite(opts.SQLitePath)
		if err != nil {
			return nil, err
		}
		return store, nil
	default:
		return nil, fmt.Errorf("slot: unknown driver %q", driver)
	}
}
