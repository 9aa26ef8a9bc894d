package main

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/kailas-cloud/vecprov/internal/config"
	"github.com/kailas-cloud/vecprov/internal/db"
	"github.com/kailas-cloud/vecprov/internal/db/milvus"
	dbRedis "github.com/kailas-cloud/vecprov/internal/db/redis"
	dbValkey "github.com/kailas-cloud/vecprov/internal/db/valkey"
)

// newConnector picks the store driver. Each attempt is bounded by the
// configured connect timeout.
func newConnector(cfg config.StoreConfig, logger *zap.Logger) (db.Connector, error) {
	var connect db.Connector
	switch cfg.Driver {
	case config.DriverMilvus:
		connect = milvus.Connector(milvus.Config{
			Host:     cfg.Host,
			Port:     cfg.Port,
			Username: cfg.User,
			Password: cfg.Password,
			Logger:   logger,
		})
	case config.DriverRedis:
		connect = dbRedis.Connector(redisConfig(cfg, logger))
	case config.DriverValkey:
		connect = dbValkey.Connector(redisConfig(cfg, logger))
	default:
		return nil, fmt.Errorf("unknown store driver %q", cfg.Driver)
	}
	return withTimeout(connect, cfg), nil
}

func redisConfig(cfg config.StoreConfig, logger *zap.Logger) dbRedis.Config {
	return dbRedis.Config{
		Addrs:     []string{cfg.Address()},
		Username:  cfg.User,
		Password:  cfg.Password,
		DB:        cfg.DB,
		KeyPrefix: cfg.KeyPrefix,
		Logger:    logger,
	}
}

func withTimeout(connect db.Connector, cfg config.StoreConfig) db.Connector {
	timeout := cfg.ConnectTimeout()
	if timeout <= 0 {
		return connect
	}
	return func(ctx context.Context) (db.Store, error) {
		ctx, cancel := context.WithTimeout(ctx, timeout)
		defer cancel()
		return connect(ctx)
	}
}
