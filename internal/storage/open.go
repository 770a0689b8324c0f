package storage

import (
	"context"
	"fmt"

	"pokesearch/internal/db"
)

// Options selects and configures a driver.
type Options struct {
	Driver      string
	RedisURL    string
	DatabaseURL string
}

// Open creates the configured Storage. For postgres it also applies the
// embedded migrations.
func Open(ctx context.Context, opts Options) (Storage, error) {
	switch opts.Driver {
	case "", DriverMemory:
		return NewMemory(), nil
	case DriverRedis:
		return NewRedis(opts.RedisURL), nil
	case DriverPostgres:
		database, err := db.New(ctx, opts.DatabaseURL)
		if err != nil {
			return nil, err
		}
		if err := database.RunMigrations(opts.DatabaseURL); err != nil {
			database.Close()
			return nil, err
		}
		return db.NewKV(database, 0), nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownDriver, opts.Driver)
	}
}
