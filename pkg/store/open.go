package store

import (
	"context"
	"fmt"

	"github.com/sipeed/walletbot/pkg/config"
	"github.com/sipeed/walletbot/pkg/logger"
)

// Open connects the backend selected by cfg.Store.Driver.
func Open(ctx context.Context, cfg *config.Config) (Store, error) {
	ctx, cancel := context.WithTimeout(ctx, cfg.Store.ConnectTimeout)
	defer cancel()

	switch cfg.Store.Driver {
	case config.StoreMemory:
		return NewMemoryStore(), nil
	case config.StoreSQLite:
		return OpenSQLite(ctx, cfg.SQLitePath())
	case config.StoreMongo:
		return OpenMongo(ctx, cfg.Store.MongoURI, cfg.Store.MongoDatabase)
	default:
		return nil, fmt.Errorf("unknown store driver %q", cfg.Store.Driver)
	}
}

// OpenOrMemory is Open, except that a connection failure is logged and an
// in-memory store is returned so the bot keeps serving in degraded mode.
// The returned driver name is the one actually in use.
func OpenOrMemory(ctx context.Context, cfg *config.Config) (Store, string) {
	s, err := Open(ctx, cfg)
	if err != nil {
		logger.ErrorCF("store", "Wallet store unavailable, falling back to memory", map[string]any{
			"driver": cfg.Store.Driver,
			"error":  err.Error(),
		})
		return NewMemoryStore(), config.StoreMemory
	}
	return s, cfg.Store.Driver
}
