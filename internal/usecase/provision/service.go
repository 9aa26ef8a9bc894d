// Package provision applies a collection catalog to a vector store with
// create-if-absent semantics and reports what the store holds afterwards.
package provision

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/kailas-cloud/vecprov/internal/domain"
	domcol "github.com/kailas-cloud/vecprov/internal/domain/collection"
	"github.com/kailas-cloud/vecprov/internal/logger"
	"github.com/kailas-cloud/vecprov/internal/metrics"
)

// ErrProvisionFailed means at least one collection ended in StatusFailed.
var ErrProvisionFailed = errors.New("provisioning failed")

// Status is the outcome of applying one collection.
type Status string

const (
	// StatusCreated means the collection and its indexes were created in this run.
	StatusCreated Status = "created"
	// StatusAlreadyExisted means the collection was present and left untouched.
	StatusAlreadyExisted Status = "already_existed"
	// StatusFailed means a store call failed; Err holds the cause.
	StatusFailed Status = "failed"
)

// Result is the per-run outcome for one collection.
type Result struct {
	Name   string
	Status Status
	Err    error
}

// Entry is one line of the post-run inventory. Err is set when the store
// could not fully describe the collection.
type Entry struct {
	Name        string
	Description string
	Fields      []string
	EntityCount int64
	Err         error
}

// Summary aggregates a run.
type Summary struct {
	Results   []Result
	Inventory []Entry
}

// Count returns the number of results with the given status.
func (s Summary) Count(status Status) int {
	n := 0
	for _, r := range s.Results {
		if r.Status == status {
			n++
		}
	}
	return n
}

// Service provisions collections one at a time.
type Service struct {
	repo     Repository
	reporter Reporter
	now      func() time.Time
}

// New creates a provisioning service. reporter can be nil.
func New(repo Repository, reporter Reporter) *Service {
	if reporter == nil {
		reporter = nopReporter{}
	}
	return &Service{repo: repo, reporter: reporter, now: time.Now}
}

// Apply ensures one collection exists. An existing collection is never
// modified. Store errors are captured in the Result, never returned.
func (s *Service) Apply(ctx context.Context, spec domcol.Spec) Result {
	ctx = logger.With(ctx, zap.String("collection", spec.Name()))
	res := s.apply(ctx, spec)

	log := logger.FromContext(ctx)
	if res.Err != nil {
		log.Error("collection failed", zap.Error(res.Err))
	} else {
		log.Info("collection provisioned", zap.String("status", string(res.Status)))
	}
	metrics.CollectionsTotal.WithLabelValues(string(res.Status)).Inc()
	return res
}

func (s *Service) apply(ctx context.Context, spec domcol.Spec) Result {
	name := spec.Name()

	exists, err := s.repo.Exists(ctx, name)
	if err != nil {
		return Result{Name: name, Status: StatusFailed, Err: err}
	}
	if exists {
		return Result{Name: name, Status: StatusAlreadyExisted}
	}

	if err := s.repo.Create(ctx, spec); err != nil {
		if errors.Is(err, domain.ErrAlreadyExists) {
			logger.FromContext(ctx).Info("collection created concurrently, skipping indexes")
			return Result{Name: name, Status: StatusAlreadyExisted}
		}
		return Result{Name: name, Status: StatusFailed, Err: err}
	}

	for _, f := range spec.IndexedFields() {
		logger.FromContext(ctx).Debug("creating index", zap.String("field", f))
		if err := s.repo.CreateIndex(ctx, spec, f); err != nil {
			return Result{Name: name, Status: StatusFailed, Err: fmt.Errorf("index %s: %w", f, err)}
		}
	}
	return Result{Name: name, Status: StatusCreated}
}

// Provision applies every spec in order. A failure never stops the ones after it.
func (s *Service) Provision(ctx context.Context, specs []domcol.Spec) []Result {
	results := make([]Result, 0, len(specs))
	for _, spec := range specs {
		res := s.Apply(ctx, spec)
		s.reporter.Result(res)
		results = append(results, res)
	}
	return results
}

// Inventory lists and describes every collection in the store. It never
// fails: a list error yields an empty inventory and describe errors are kept
// on the entry.
func (s *Service) Inventory(ctx context.Context) []Entry {
	log := logger.FromContext(ctx)

	names, err := s.repo.List(ctx)
	if err != nil {
		log.Warn("list collections failed, inventory skipped", zap.Error(err))
		return nil
	}

	entries := make([]Entry, 0, len(names))
	for _, name := range names {
		info, err := s.repo.Describe(ctx, name)
		if err != nil {
			log.Warn("describe collection failed", zap.String("collection", name), zap.Error(err))
		}
		e := Entry{
			Name:        name,
			Description: info.Description,
			Fields:      info.Fields,
			EntityCount: info.EntityCount,
			Err:         err,
		}
		s.reporter.Entry(e)
		entries = append(entries, e)
	}
	return entries
}

// Run provisions specs, then takes the inventory. It returns ErrProvisionFailed
// when any spec failed; the Summary is complete either way.
func (s *Service) Run(ctx context.Context, specs []domcol.Spec) (Summary, error) {
	log := logger.FromContext(ctx)
	log.Info("provisioning started", zap.Int("collections", len(specs)))

	sum := Summary{Results: s.Provision(ctx, specs)}
	sum.Inventory = s.Inventory(ctx)
	s.reporter.Done(sum)

	failed := sum.Count(StatusFailed)
	log.Info("provisioning finished",
		zap.Int("created", sum.Count(StatusCreated)),
		zap.Int("already_existed", sum.Count(StatusAlreadyExisted)),
		zap.Int("failed", failed),
		zap.Int("inventory", len(sum.Inventory)))

	if failed > 0 {
		return sum, fmt.Errorf("%w: %d of %d collection(s)", ErrProvisionFailed, failed, len(specs))
	}
	metrics.MarkSuccess(s.now())
	return sum, nil
}

type nopReporter struct{}

func (nopReporter) Result(Result) {}
func (nopReporter) Entry(Entry)   {}
func (nopReporter) Done(Summary)  {}
