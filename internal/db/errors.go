package db

import "errors"

// Sentinel errors for store operations.
var (
	ErrCollectionExists   = errors.New("db: collection already exists")
	ErrCollectionNotFound = errors.New("db: collection not found")
	ErrUnauthorized       = errors.New("db: unauthorized")
	ErrUnsupported        = errors.New("db: unsupported")
)

// Op constants name store operations for error context.
const (
	OpConnect            = "connect"
	OpHasCollection      = "has_collection"
	OpCreateCollection   = "create_collection"
	OpCreateIndex        = "create_index"
	OpListCollections    = "list_collections"
	OpDescribeCollection = "describe_collection"
)

// Error wraps an underlying error with the operation name for diagnostics.
type Error struct {
	Op  string
	Err error
}

func (e *Error) Error() string { return e.Op + ": " + e.Err.Error() }
func (e *Error) Unwrap() error { return e.Err }
