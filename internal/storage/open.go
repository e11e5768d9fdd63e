package storage

import (
	"context"
	"fmt"

	"github.com/Veraticus/finlens/internal/common"
	"github.com/Veraticus/finlens/internal/config"
	"github.com/Veraticus/finlens/internal/service"
)

// Open creates the backend selected by the storage configuration, migrated
// and ready for use.
func Open(ctx context.Context, cfg config.StorageConfig) (service.Store, error) {
	switch cfg.Driver {
	case config.DriverSQLite:
		store, err := NewSQLiteStore(cfg.Path)
		if err != nil {
			return nil, err
		}
		if err := store.Migrate(ctx); err != nil {
			_ = store.Close()
			return nil, fmt.Errorf("failed to migrate %s: %w", cfg.Path, err)
		}
		return store, nil
	case config.DriverRedis:
		return NewRedisStore(ctx, cfg.RedisAddr, cfg.RedisPrefix)
	case config.DriverMemory:
		return NewMemoryStore(), nil
	default:
		return nil, fmt.Errorf("storage driver %q: %w", cfg.Driver, common.ErrInvalidConfig)
	}
}
