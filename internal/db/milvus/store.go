// Package milvus implements db.Store on top of the Milvus Go SDK.
package milvus

import (
	"context"
	"errors"
	"fmt"
	"net"
	"strconv"
	"strings"

	"github.com/milvus-io/milvus/client/v2/entity"
	"github.com/milvus-io/milvus/client/v2/index"
	"github.com/milvus-io/milvus/client/v2/milvusclient"
	"go.uber.org/zap"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"github.com/kailas-cloud/vecprov/internal/db"
)

// Compile-time check: Store implements db.Store.
var _ db.Store = (*Store)(nil)

// Config holds connection parameters for a Milvus server.
type Config struct {
	Host     string
	Port     int
	Username string
	Password string
	Logger   *zap.Logger
}

// Address returns host:port.
func (c Config) Address() string {
	return net.JoinHostPort(c.Host, strconv.Itoa(c.Port))
}

// api is the subset of the SDK the store uses.
type api interface {
	HasCollection(ctx context.Context, name string) (bool, error)
	CreateCollection(ctx context.Context, schema *entity.Schema) error
	CreateIndex(ctx context.Context, collection, field string, idx index.Index) error
	ListCollections(ctx context.Context) ([]string, error)
	DescribeCollection(ctx context.Context, name string) (*entity.Collection, error)
	CollectionStats(ctx context.Context, name string) (map[string]string, error)
	Close(ctx context.Context) error
}

// Store implements db.Store for Milvus.
type Store struct {
	api    api
	logger *zap.Logger
}

// NewStore dials Milvus.
func NewStore(ctx context.Context, cfg Config) (*Store, error) {
	if cfg.Host == "" {
		return nil, fmt.Errorf("host is required")
	}
	c, err := milvusclient.New(ctx, &milvusclient.ClientConfig{
		Address:  cfg.Address(),
		Username: cfg.Username,
		Password: cfg.Password,
	})
	if err != nil {
		return nil, wrap(db.OpConnect, err)
	}
	return newStore(&sdk{c: c}, cfg.Logger), nil
}

// Connector returns a db.Connector. Every call is one connection attempt.
func Connector(cfg Config) db.Connector {
	return func(ctx context.Context) (db.Store, error) {
		return NewStore(ctx, cfg)
	}
}

func newStore(a api, logger *zap.Logger) *Store {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Store{api: a, logger: logger}
}

// HasCollection reports whether a collection exists.
func (s *Store) HasCollection(ctx context.Context, name string) (bool, error) {
	ok, err := s.api.HasCollection(ctx, name)
	if err != nil {
		return false, wrap(db.OpHasCollection, err)
	}
	return ok, nil
}

// CreateCollection creates a collection from the schema.
func (s *Store) CreateCollection(ctx context.Context, schema *db.CollectionSchema) error {
	es, err := toEntitySchema(schema)
	if err != nil {
		return &db.Error{Op: db.OpCreateCollection, Err: err}
	}
	if err := s.api.CreateCollection(ctx, es); err != nil {
		return wrap(db.OpCreateCollection, err)
	}
	return nil
}

// CreateIndex builds an index on one field and waits for the build to finish.
func (s *Store) CreateIndex(ctx context.Context, collection, field string, params *db.IndexParams) error {
	idx, err := toIndex(field, params)
	if err != nil {
		return &db.Error{Op: db.OpCreateIndex, Err: err}
	}
	s.logger.Debug("creating index",
		zap.String("collection", collection),
		zap.String("field", field),
		zap.Any("params", idx.Params()))
	if err := s.api.CreateIndex(ctx, collection, field, idx); err != nil {
		return wrap(db.OpCreateIndex, err)
	}
	return nil
}

// ListCollections returns all collection names.
func (s *Store) ListCollections(ctx context.Context) ([]string, error) {
	names, err := s.api.ListCollections(ctx)
	if err != nil {
		return nil, wrap(db.OpListCollections, err)
	}
	return names, nil
}

// DescribeCollection returns description, field names and row count.
// When stats are unavailable the partial info is returned with the error.
func (s *Store) DescribeCollection(ctx context.Context, name string) (*db.CollectionInfo, error) {
	coll, err := s.api.DescribeCollection(ctx, name)
	if err != nil {
		return nil, wrap(db.OpDescribeCollection, err)
	}
	info := fromEntityCollection(name, coll)

	stats, err := s.api.CollectionStats(ctx, name)
	if err != nil {
		return info, wrap(db.OpDescribeCollection, err)
	}
	count, err := rowCount(stats)
	if err != nil {
		return info, &db.Error{Op: db.OpDescribeCollection, Err: err}
	}
	info.EntityCount = count
	return info, nil
}

// Close releases the connection.
func (s *Store) Close() {
	if err := s.api.Close(context.Background()); err != nil {
		s.logger.Warn("close milvus client", zap.Error(err))
	}
}

func toEntitySchema(schema *db.CollectionSchema) (*entity.Schema, error) {
	if schema == nil || schema.Name == "" {
		return nil, errors.New("collection name is required")
	}
	fields := make([]*entity.Field, 0, len(schema.Fields))
	for _, f := range schema.Fields {
		ef, err := toEntityField(f)
		if err != nil {
			return nil, err
		}
		fields = append(fields, ef)
	}
	return &entity.Schema{
		CollectionName:     schema.Name,
		Description:        schema.Description,
		Fields:             fields,
		EnableDynamicField: schema.DynamicFields,
	}, nil
}

func toEntityField(f db.FieldSchema) (*entity.Field, error) {
	ef := &entity.Field{Name: f.Name, PrimaryKey: f.PrimaryKey}
	switch f.Type {
	case db.FieldVarChar:
		ef.DataType = entity.FieldTypeVarChar
		ef.TypeParams = map[string]string{"max_length": strconv.Itoa(f.MaxLength)}
	case db.FieldInt64:
		ef.DataType = entity.FieldTypeInt64
	case db.FieldFloat:
		ef.DataType = entity.FieldTypeFloat
	case db.FieldFloatVector:
		ef.DataType = entity.FieldTypeFloatVector
		ef.TypeParams = map[string]string{"dim": strconv.Itoa(f.Dim)}
	default:
		return nil, fmt.Errorf("%w: field type %q", db.ErrUnsupported, f.Type)
	}
	return ef, nil
}

// toIndex passes metric, algorithm and params through as a generic index.
func toIndex(field string, params *db.IndexParams) (index.Index, error) {
	if params == nil {
		return nil, errors.New("index params are required")
	}
	if params.Algorithm == "" || params.Metric == "" {
		return nil, errors.New("index algorithm and metric are required")
	}
	p := make(map[string]string, len(params.Params)+2)
	for k, v := range params.Params {
		p[k] = fmt.Sprint(v)
	}
	p["index_type"] = strings.ToUpper(params.Algorithm)
	p["metric_type"] = strings.ToUpper(params.Metric)
	return index.NewGenericIndex(field+"_idx", p), nil
}

func fromEntityCollection(name string, coll *entity.Collection) *db.CollectionInfo {
	info := &db.CollectionInfo{Name: name}
	if coll == nil || coll.Schema == nil {
		return info
	}
	info.Description = coll.Schema.Description
	for _, f := range coll.Schema.Fields {
		info.Fields = append(info.Fields, f.Name)
	}
	return info
}

func rowCount(stats map[string]string) (int64, error) {
	raw, ok := stats["row_count"]
	if !ok {
		return 0, nil
	}
	n, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("parse row_count %q: %w", raw, err)
	}
	return n, nil
}

// wrap classifies SDK errors into db sentinels.
func wrap(op string, err error) error {
	switch {
	case isUnauthenticated(err):
		return &db.Error{Op: op, Err: fmt.Errorf("%w: %v", db.ErrUnauthorized, err)}
	case op == db.OpCreateCollection && containsFold(err.Error(), "already exist"):
		return &db.Error{Op: op, Err: fmt.Errorf("%w: %v", db.ErrCollectionExists, err)}
	case containsFold(err.Error(), "collection not found") || containsFold(err.Error(), "can't find collection"):
		return &db.Error{Op: op, Err: fmt.Errorf("%w: %v", db.ErrCollectionNotFound, err)}
	default:
		return &db.Error{Op: op, Err: err}
	}
}

func isUnauthenticated(err error) bool {
	if st, ok := status.FromError(err); ok && st.Code() == codes.Unauthenticated {
		return true
	}
	return containsFold(err.Error(), "unauthenticated") || containsFold(err.Error(), "auth check failure")
}

func containsFold(s, substr string) bool {
	return strings.Contains(strings.ToLower(s), strings.ToLower(substr))
}
