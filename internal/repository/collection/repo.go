package collection

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/kailas-cloud/vecprov/internal/db"
	"github.com/kailas-cloud/vecprov/internal/domain"
	domcol "github.com/kailas-cloud/vecprov/internal/domain/collection"
	"github.com/kailas-cloud/vecprov/internal/metrics"
)

// store is the consumer interface for collections (ISP).
type store interface {
	HasCollection(ctx context.Context, name string) (bool, error)
	CreateCollection(ctx context.Context, schema *db.CollectionSchema) error
	CreateIndex(ctx context.Context, collection, field string, params *db.IndexParams) error
	ListCollections(ctx context.Context) ([]string, error)
	DescribeCollection(ctx context.Context, name string) (*db.CollectionInfo, error)
	Close()
}

// Repo implements usecase/provision.Repository.
type Repo struct {
	store store
	now   func() time.Time
}

// New creates a collection repository.
func New(s store) *Repo {
	return &Repo{store: s, now: time.Now}
}

// Opener adapts a db.Connector into a repository factory. Each call is one
// connection attempt; store errors come back translated to domain sentinels.
func Opener(connect db.Connector) func(ctx context.Context) (*Repo, error) {
	return func(ctx context.Context) (*Repo, error) {
		defer metrics.ObserveStoreOp(db.OpConnect, time.Now())

		s, err := connect(ctx)
		if err != nil {
			return nil, fmt.Errorf("connect: %w", translate(err))
		}
		return New(s), nil
	}
}

// Close releases the underlying store.
func (r *Repo) Close() {
	r.store.Close()
}

// Exists reports whether the collection is already in the store.
func (r *Repo) Exists(ctx context.Context, name string) (bool, error) {
	defer metrics.ObserveStoreOp(db.OpHasCollection, r.now())

	ok, err := r.store.HasCollection(ctx, name)
	if err != nil {
		return false, fmt.Errorf("has collection %s: %w", name, translate(err))
	}
	return ok, nil
}

// Create creates the collection without indexes.
// A collection that appeared since Exists yields domain.ErrAlreadyExists.
func (r *Repo) Create(ctx context.Context, spec domcol.Spec) error {
	defer metrics.ObserveStoreOp(db.OpCreateCollection, r.now())

	if err := r.store.CreateCollection(ctx, toSchema(spec)); err != nil {
		return fmt.Errorf("create collection %s: %w", spec.Name(), translate(err))
	}
	return nil
}

// CreateIndex builds the index declared on fieldName.
func (r *Repo) CreateIndex(ctx context.Context, spec domcol.Spec, fieldName string) error {
	idx, ok := spec.Index(fieldName)
	if !ok {
		return fmt.Errorf("collection %s: no index declared on %s: %w", spec.Name(), fieldName, domain.ErrInvalidSchema)
	}

	defer metrics.ObserveStoreOp(db.OpCreateIndex, r.now())

	if err := r.store.CreateIndex(ctx, spec.Name(), fieldName, toIndexParams(idx)); err != nil {
		return fmt.Errorf("create index %s.%s: %w", spec.Name(), fieldName, translate(err))
	}
	return nil
}

// List returns every collection name in the store.
func (r *Repo) List(ctx context.Context) ([]string, error) {
	defer metrics.ObserveStoreOp(db.OpListCollections, r.now())

	names, err := r.store.ListCollections(ctx)
	if err != nil {
		return nil, fmt.Errorf("list collections: %w", translate(err))
	}
	return names, nil
}

// Describe returns what the store knows about a collection. On error the
// returned Info still carries the name and whatever the store reported.
func (r *Repo) Describe(ctx context.Context, name string) (domcol.Info, error) {
	defer metrics.ObserveStoreOp(db.OpDescribeCollection, r.now())

	raw, err := r.store.DescribeCollection(ctx, name)
	info := fromCollectionInfo(name, raw)
	if err != nil {
		return info, fmt.Errorf("describe collection %s: %w", name, translate(err))
	}
	return info, nil
}

// translate maps store sentinels onto domain sentinels, keeping the original chain.
func translate(err error) error {
	switch {
	case errors.Is(err, db.ErrCollectionExists):
		return errors.Join(domain.ErrAlreadyExists, err)
	case errors.Is(err, db.ErrCollectionNotFound):
		return errors.Join(domain.ErrNotFound, err)
	case errors.Is(err, db.ErrUnauthorized):
		return errors.Join(domain.ErrUnauthorized, err)
	case errors.Is(err, db.ErrUnsupported):
		return errors.Join(domain.ErrInvalidSchema, err)
	default:
		return err
	}
}
