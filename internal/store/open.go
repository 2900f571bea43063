package store

import (
	"context"
	"fmt"

	"github.com/lox/headsup/internal/config"
)

// Open returns the store selected by the storage settings.
func Open(ctx context.Context, cfg config.StorageSettings) (Store, error) {
	switch cfg.Driver {
	case config.DriverMemory, "":
		return NewMemory(), nil
	case config.DriverSQLite:
		return OpenSQLite(ctx, cfg.DSN)
	case config.DriverPostgres:
		return OpenPostgres(ctx, cfg.DSN)
	default:
		return nil, fmt.Errorf("unknown storage driver %q", cfg.Driver)
	}
}
