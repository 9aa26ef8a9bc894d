// Package readiness waits for the vector store to accept connections.
package readiness

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/cenkalti/backoff/v4"
	"go.uber.org/zap"

	"github.com/kailas-cloud/vecprov/internal/domain"
	"github.com/kailas-cloud/vecprov/internal/logger"
	"github.com/kailas-cloud/vecprov/internal/metrics"
)

// ErrNotReady means the store never became reachable within the attempt budget.
var ErrNotReady = errors.New("store not ready")

// Config bounds the wait.
type Config struct {
	MaxAttempts int
	Interval    time.Duration
}

// DefaultConfig is 30 attempts five seconds apart.
func DefaultConfig() Config {
	return Config{MaxAttempts: 30, Interval: 5 * time.Second}
}

// Wait calls connect until it succeeds, at most cfg.MaxAttempts times with a
// fixed cfg.Interval between attempts. domain.ErrUnauthorized stops the wait
// at once; every other error is retried. Failures wrap ErrNotReady together
// with the last connect error.
func Wait[T any](ctx context.Context, cfg Config, connect ConnectFunc[T]) (T, error) {
	log := logger.FromContext(ctx)
	if cfg.MaxAttempts < 1 {
		cfg.MaxAttempts = 1
	}

	var (
		handle   T
		attempts int
	)
	op := func() error {
		attempts++
		h, err := connect(ctx)
		if err != nil {
			if errors.Is(err, domain.ErrUnauthorized) {
				return backoff.Permanent(err)
			}
			return err
		}
		handle = h
		return nil
	}
	notify := func(err error, next time.Duration) {
		log.Info("waiting for vector store",
			zap.Int("attempt", attempts),
			zap.Int("max_attempts", cfg.MaxAttempts),
			zap.Duration("retry_in", next),
			zap.Error(err))
	}

	policy := backoff.WithContext(
		backoff.WithMaxRetries(backoff.NewConstantBackOff(cfg.Interval), uint64(cfg.MaxAttempts-1)),
		ctx,
	)
	err := backoff.RetryNotify(op, policy, notify)
	metrics.ReadinessAttempts.Set(float64(attempts))

	if err != nil {
		var zero T
		log.Error("vector store not ready", zap.Int("attempts", attempts), zap.Error(err))
		return zero, fmt.Errorf("%w after %d attempt(s): %w", ErrNotReady, attempts, err)
	}

	log.Info("vector store ready", zap.Int("attempts", attempts))
	return handle, nil
}
