package provision

import (
	"context"

	domcol "github.com/kailas-cloud/vecprov/internal/domain/collection"
)

// Repository defines the storage contract for provisioning.
type Repository interface {
	Exists(ctx context.Context, name string) (bool, error)
	Create(ctx context.Context, spec domcol.Spec) error
	CreateIndex(ctx context.Context, spec domcol.Spec, field string) error
	List(ctx context.Context) ([]string, error)
	Describe(ctx context.Context, name string) (domcol.Info, error)
}

// Reporter receives outcomes as soon as they are known.
type Reporter interface {
	Result(r Result)
	Entry(e Entry)
	Done(s Summary)
}
