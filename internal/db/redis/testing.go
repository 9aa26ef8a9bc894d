package redis

import "github.com/redis/rueidis"

// NewStoreForTest wraps an arbitrary rueidis.Client (e.g. a mock) under the default key prefix.
func NewStoreForTest(client rueidis.Client) *Store {
	return newStore(client, "", nil)
}

// NewStoreForTestWithConfig wraps a client honouring KeyPrefix, ScanCount and Logger from cfg.
func NewStoreForTestWithConfig(client rueidis.Client, cfg Config) *Store {
	s := newStore(client, cfg.KeyPrefix, cfg.Logger)
	s.scanCount = cfg.ScanCount
	return s
}
