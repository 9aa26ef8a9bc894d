package valkey

import (
	"github.com/redis/rueidis"

	"github.com/kailas-cloud/vecprov/internal/db/redis"
)

// NewStoreForTest wraps an arbitrary rueidis.Client (e.g. a mock) with Valkey settings.
func NewStoreForTest(c rueidis.Client) *redis.Store {
	return redis.NewStoreForTestWithConfig(c, withValkeyDefaults(redis.Config{}))
}
