package collection

import (
	"context"
	"testing"

	"github.com/kailas-cloud/vecprov/internal/db"
	domcol "github.com/kailas-cloud/vecprov/internal/domain/collection"
	"github.com/kailas-cloud/vecprov/internal/domain/collection/field"
	"github.com/kailas-cloud/vecprov/internal/domain/collection/index"
)

// mockStore implements the consumer interface for tests.
type mockStore struct {
	hasFn      func(ctx context.Context, name string) (bool, error)
	createFn   func(ctx context.Context, schema *db.CollectionSchema) error
	indexFn    func(ctx context.Context, collection, field string, params *db.IndexParams) error
	listFn     func(ctx context.Context) ([]string, error)
	describeFn func(ctx context.Context, name string) (*db.CollectionInfo, error)
	closed     bool
}

func (m *mockStore) HasCollection(ctx context.Context, name string) (bool, error) {
	if m.hasFn != nil {
		return m.hasFn(ctx, name)
	}
	return false, nil
}

func (m *mockStore) CreateCollection(ctx context.Context, schema *db.CollectionSchema) error {
	if m.createFn != nil {
		return m.createFn(ctx, schema)
	}
	return nil
}

func (m *mockStore) CreateIndex(ctx context.Context, collection, field string, params *db.IndexParams) error {
	if m.indexFn != nil {
		return m.indexFn(ctx, collection, field, params)
	}
	return nil
}

func (m *mockStore) ListCollections(ctx context.Context) ([]string, error) {
	if m.listFn != nil {
		return m.listFn(ctx)
	}
	return nil, nil
}

func (m *mockStore) DescribeCollection(ctx context.Context, name string) (*db.CollectionInfo, error) {
	if m.describeFn != nil {
		return m.describeFn(ctx, name)
	}
	return &db.CollectionInfo{Name: name}, nil
}

func (m *mockStore) Close() {
	m.closed = true
}

func newTestRepo(t *testing.T) (*Repo, *mockStore) {
	t.Helper()
	ms := &mockStore{}
	return New(ms), ms
}

func testSpec(t *testing.T) domcol.Spec {
	t.Helper()
	idx, err := index.New(index.Cosine, "IVF_FLAT", map[string]any{"nlist": 256})
	if err != nil {
		t.Fatalf("index.New: %v", err)
	}
	spec, err := domcol.New(
		"prefs",
		"user preferences",
		[]field.Field{
			field.Reconstruct("id", field.String, 64, 0, true),
			field.Reconstruct("embedding", field.Vector, 0, 768, false),
			field.Reconstruct("weight", field.Float32, 0, 0, false),
			field.Reconstruct("updated_at", field.Int64, 0, 0, false),
		},
		map[string]index.Spec{"embedding": idx},
		domcol.WithDynamicFields(),
	)
	if err != nil {
		t.Fatalf("collection.New: %v", err)
	}
	return spec
}
