package redis

import (
	"context"
	"fmt"
	"strings"

	"github.com/redis/rueidis"
	"go.uber.org/zap"

	"github.com/kailas-cloud/vecprov/internal/db"
)

// Compile-time check: Store implements db.Store.
var _ db.Store = (*Store)(nil)

const defaultKeyPrefix = "vecprov"

// Config holds connection parameters for a Redis store.
type Config struct {
	Addrs     []string
	Username  string
	Password  string
	DB        int
	KeyPrefix string // namespace for metadata hashes and indexes, default "vecprov"
	// ScanCount counts documents with SCAN instead of FT.SEARCH. valkey-search
	// rejects FT.SEARCH without a KNN clause.
	ScanCount bool
	Logger    *zap.Logger
}

// Store implements db.Store via rueidis for Redis 8+ and Valkey with the search module.
// Collections are metadata hashes; vector indexes are FT indexes over a per-collection key prefix.
type Store struct {
	client    rueidis.Client
	prefix    string
	scanCount bool
	logger    *zap.Logger
}

// NewStore creates a Redis store via rueidis.
func NewStore(cfg Config) (*Store, error) {
	if len(cfg.Addrs) == 0 {
		return nil, fmt.Errorf("addrs is required")
	}

	client, err := rueidis.NewClient(rueidis.ClientOption{
		InitAddress:  cfg.Addrs,
		Username:     cfg.Username,
		Password:     cfg.Password,
		SelectDB:     cfg.DB,
		DisableCache: true,
		AlwaysRESP2:  true, // FT.SEARCH result parsing expects RESP2 array format
	})
	if err != nil {
		if isAuthErr(err) {
			return nil, &db.Error{Op: db.OpConnect, Err: fmt.Errorf("%w: %v", db.ErrUnauthorized, err)}
		}
		return nil, &db.Error{Op: db.OpConnect, Err: err}
	}

	s := newStore(client, cfg.KeyPrefix, cfg.Logger)
	s.scanCount = cfg.ScanCount
	return s, nil
}

func newStore(client rueidis.Client, prefix string, logger *zap.Logger) *Store {
	if prefix == "" {
		prefix = defaultKeyPrefix
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Store{client: client, prefix: prefix, logger: logger}
}

// Connector returns a db.Connector that opens a store and pings it.
// Every call is one independent connection attempt.
func Connector(cfg Config) db.Connector {
	return func(ctx context.Context) (db.Store, error) {
		s, err := NewStore(cfg)
		if err != nil {
			return nil, err
		}
		if err := s.Ping(ctx); err != nil {
			s.Close()
			return nil, err
		}
		return s, nil
	}
}

// Ping checks connectivity.
func (s *Store) Ping(ctx context.Context) error {
	cmd := s.client.B().Ping().Build()
	if err := s.client.Do(ctx, cmd).Error(); err != nil {
		if isAuthErr(err) {
			return &db.Error{Op: db.OpConnect, Err: fmt.Errorf("%w: %v", db.ErrUnauthorized, err)}
		}
		return &db.Error{Op: db.OpConnect, Err: fmt.Errorf("ping: %w", err)}
	}
	return nil
}

// Close shuts down the client.
func (s *Store) Close() {
	s.client.Close()
}

func (s *Store) do(ctx context.Context, cmd rueidis.Completed) rueidis.RedisResult {
	return s.client.Do(ctx, cmd)
}

func (s *Store) b() rueidis.Builder {
	return s.client.B()
}

func (s *Store) metaKey(name string) string {
	return s.prefix + ":collection:" + name
}

// docPrefix keeps documents under their own namespace so no collection name
// can reach the metadata hashes.
func (s *Store) docPrefix(name string) string {
	return s.prefix + ":doc:" + name + ":"
}

func (s *Store) indexName(collection, field string) string {
	return s.prefix + ":" + collection + ":" + field + ":idx"
}

// isAuthErr recognises WRONGPASS/NOAUTH replies, including those surfaced during the handshake.
func isAuthErr(err error) bool {
	if isRedisErr(err, "wrongpass") || isRedisErr(err, "noauth") {
		return true
	}
	msg := strings.ToUpper(err.Error())
	return strings.Contains(msg, "WRONGPASS") || strings.Contains(msg, "NOAUTH")
}

// isRedisErr checks if err is a Redis server error containing substr (case-insensitive).
func isRedisErr(err error, substr string) bool {
	re, ok := rueidis.IsRedisErr(err)
	if !ok {
		return false
	}
	return strings.Contains(strings.ToLower(re.Error()), strings.ToLower(substr))
}
