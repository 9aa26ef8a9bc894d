package provision

import (
	"context"
	"sort"
	"testing"

	"github.com/kailas-cloud/vecprov/internal/catalog"
	"github.com/kailas-cloud/vecprov/internal/domain"
	domcol "github.com/kailas-cloud/vecprov/internal/domain/collection"
)

type call struct {
	op, name, field string
}

// fakeRepo is an in-memory store with optional fault injection.
type fakeRepo struct {
	collections map[string]domcol.Spec
	indexes     map[string][]string
	calls       []call

	existsErr   map[string]error
	createErr   map[string]error
	indexErr    map[string]error
	listErr     error
	describeErr map[string]error
}

func newFakeRepo() *fakeRepo {
	return &fakeRepo{
		collections: make(map[string]domcol.Spec),
		indexes:     make(map[string][]string),
	}
}

func (f *fakeRepo) Exists(_ context.Context, name string) (bool, error) {
	f.calls = append(f.calls, call{op: "exists", name: name})
	if err := f.existsErr[name]; err != nil {
		return false, err
	}
	_, ok := f.collections[name]
	return ok, nil
}

func (f *fakeRepo) Create(_ context.Context, spec domcol.Spec) error {
	f.calls = append(f.calls, call{op: "create", name: spec.Name()})
	if err := f.createErr[spec.Name()]; err != nil {
		return err
	}
	if _, ok := f.collections[spec.Name()]; ok {
		return domain.ErrAlreadyExists
	}
	f.collections[spec.Name()] = spec
	return nil
}

func (f *fakeRepo) CreateIndex(_ context.Context, spec domcol.Spec, field string) error {
	f.calls = append(f.calls, call{op: "index", name: spec.Name(), field: field})
	if err := f.indexErr[spec.Name()]; err != nil {
		return err
	}
	f.indexes[spec.Name()] = append(f.indexes[spec.Name()], field)
	return nil
}

func (f *fakeRepo) List(_ context.Context) ([]string, error) {
	f.calls = append(f.calls, call{op: "list"})
	if f.listErr != nil {
		return nil, f.listErr
	}
	names := make([]string, 0, len(f.collections))
	for n := range f.collections {
		names = append(names, n)
	}
	sort.Strings(names)
	return names, nil
}

func (f *fakeRepo) Describe(_ context.Context, name string) (domcol.Info, error) {
	f.calls = append(f.calls, call{op: "describe", name: name})
	info := domcol.Info{Name: name}
	spec, ok := f.collections[name]
	if ok {
		info.Description = spec.Description()
		for _, fl := range spec.Fields() {
			info.Fields = append(info.Fields, fl.Name())
		}
	}
	if err := f.describeErr[name]; err != nil {
		return info, err
	}
	if !ok {
		return info, domain.ErrNotFound
	}
	return info, nil
}

func (f *fakeRepo) count(op string) int {
	n := 0
	for _, c := range f.calls {
		if c.op == op {
			n++
		}
	}
	return n
}

func newTestService(t *testing.T) (*Service, *fakeRepo, *Recorder) {
	t.Helper()
	repo := newFakeRepo()
	rec := &Recorder{}
	return New(repo, rec), repo, rec
}

func defaultCatalog(t *testing.T) []domcol.Spec {
	t.Helper()
	return catalog.Default()
}
