package milvus

import (
	"context"
	"fmt"

	"github.com/milvus-io/milvus/client/v2/entity"
	"github.com/milvus-io/milvus/client/v2/index"
	"github.com/milvus-io/milvus/client/v2/milvusclient"
)

// sdk adapts *milvusclient.Client to api.
type sdk struct {
	c *milvusclient.Client
}

func (a *sdk) HasCollection(ctx context.Context, name string) (bool, error) {
	return a.c.HasCollection(ctx, milvusclient.NewHasCollectionOption(name))
}

func (a *sdk) CreateCollection(ctx context.Context, schema *entity.Schema) error {
	return a.c.CreateCollection(ctx, milvusclient.NewCreateCollectionOption(schema.CollectionName, schema))
}

func (a *sdk) CreateIndex(ctx context.Context, collection, field string, idx index.Index) error {
	task, err := a.c.CreateIndex(ctx, milvusclient.NewCreateIndexOption(collection, field, idx))
	if err != nil {
		return err
	}
	if err := task.Await(ctx); err != nil {
		return fmt.Errorf("await index build: %w", err)
	}
	return nil
}

func (a *sdk) ListCollections(ctx context.Context) ([]string, error) {
	return a.c.ListCollections(ctx, milvusclient.NewListCollectionOption())
}

func (a *sdk) DescribeCollection(ctx context.Context, name string) (*entity.Collection, error) {
	return a.c.DescribeCollection(ctx, milvusclient.NewDescribeCollectionOption(name))
}

func (a *sdk) CollectionStats(ctx context.Context, name string) (map[string]string, error) {
	return a.c.GetCollectionStats(ctx, milvusclient.NewGetCollectionStatsOption(name))
}

func (a *sdk) Close(ctx context.Context) error {
	return a.c.Close(ctx)
}
