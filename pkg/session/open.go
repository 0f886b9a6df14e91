package session

import (
	"fmt"

	"github.com/sipeed/walletbot/pkg/config"
)

// Open builds the Table selected by cfg.Session.Backend.
func Open(cfg *config.Config) (Table, error) {
	switch cfg.Session.Backend {
	case config.SessionMemory, "":
		return NewMemoryTable(cfg.Session.TTL), nil
	case config.SessionRedis:
		return NewRedisTable(cfg.Session.RedisURL, cfg.Session.TTL)
	default:
		return nil, fmt.Errorf("unknown session backend %q", cfg.Session.Backend)
	}
}
