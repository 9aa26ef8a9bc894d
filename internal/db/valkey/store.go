// Package valkey opens the rueidis-backed store against Valkey with valkey-search.
// Collections, indexes and metadata are laid out exactly as on Redis; only
// document counting differs.
package valkey

import (
	"github.com/kailas-cloud/vecprov/internal/db"
	"github.com/kailas-cloud/vecprov/internal/db/redis"
)

// NewStore creates a Valkey store.
func NewStore(cfg redis.Config) (*redis.Store, error) {
	return redis.NewStore(withValkeyDefaults(cfg))
}

// Connector returns a db.Connector for Valkey. Every call is one connection attempt.
func Connector(cfg redis.Config) db.Connector {
	return redis.Connector(withValkeyDefaults(cfg))
}

func withValkeyDefaults(cfg redis.Config) redis.Config {
	cfg.ScanCount = true
	return cfg
}
