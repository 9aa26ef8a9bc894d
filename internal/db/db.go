package db

import "context"

// Store is the narrow vector-store facade the provisioner depends on.
type Store interface {
	CollectionManager
	IndexManager
	Close()
}

// Connector opens a Store. Each call is one connection attempt.
type Connector func(ctx context.Context) (Store, error)

// CollectionManager provides collection lifecycle and inspection operations.
type CollectionManager interface {
	HasCollection(ctx context.Context, name string) (bool, error)
	CreateCollection(ctx context.Context, schema *CollectionSchema) error
	ListCollections(ctx context.Context) ([]string, error)
	DescribeCollection(ctx context.Context, name string) (*CollectionInfo, error)
}

// IndexManager builds indexes over collection fields.
type IndexManager interface {
	CreateIndex(ctx context.Context, collection, field string, params *IndexParams) error
}

// FieldType enumerates field storage types understood by drivers.
type FieldType string

const (
	// FieldVarChar is a bounded string.
	FieldVarChar FieldType = "varchar"
	// FieldInt64 is a 64-bit integer.
	FieldInt64 FieldType = "int64"
	// FieldFloat is a 32-bit float.
	FieldFloat FieldType = "float"
	// FieldFloatVector is a dense float32 vector.
	FieldFloatVector FieldType = "float_vector"
)

// FieldSchema describes one column of a collection.
type FieldSchema struct {
	Name       string    `json:"name"`
	Type       FieldType `json:"type"`
	MaxLength  int       `json:"max_length,omitempty"`
	Dim        int       `json:"dim,omitempty"`
	PrimaryKey bool      `json:"primary_key,omitempty"`
}

// CollectionSchema is everything a driver needs to create a collection.
type CollectionSchema struct {
	Name          string
	Description   string
	Fields        []FieldSchema
	DynamicFields bool
}

// IndexParams configures an index on one field. Params are algorithm-specific.
type IndexParams struct {
	Metric    string
	Algorithm string
	Params    map[string]any
}

// CollectionInfo is what a store reports about an existing collection.
type CollectionInfo struct {
	Name        string
	Description string
	Fields      []string
	EntityCount int64
}
