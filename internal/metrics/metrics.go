// Package metrics holds the provisioning run's Prometheus metrics. A one-shot job
// has nothing to scrape, so the private Registry is pushed to a Pushgateway at exit.
package metrics

import (
	"context"
	"fmt"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/push"
)

// Registry holds every vecprov metric.
var Registry = prometheus.NewRegistry()

// Provisioning metrics.
var (
	CollectionsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "vecprov",
			Name:      "collections_total",
			Help:      "Provisioning outcomes per collection",
		},
		[]string{"status"}, // "created" / "already_existed" / "failed"
	)

	StoreOperationDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "vecprov",
			Name:      "store_operation_duration_seconds",
			Help:      "Vector store call duration in seconds",
			Buckets:   []float64{0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30},
		},
		[]string{"op"},
	)

	ReadinessAttempts = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Namespace: "vecprov",
			Name:      "readiness_attempts",
			Help:      "Connection attempts made before the store became reachable or the wait gave up",
		},
	)

	LastRunSuccess = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Namespace: "vecprov",
			Name:      "last_run_success_timestamp_seconds",
			Help:      "Unix time of the last run in which every collection was provisioned",
		},
	)
)

func init() {
	Registry.MustRegister(CollectionsTotal)
	Registry.MustRegister(StoreOperationDuration)
	Registry.MustRegister(ReadinessAttempts)
	Registry.MustRegister(LastRunSuccess)
}

// ObserveStoreOp records the duration of a store call started at start.
func ObserveStoreOp(op string, start time.Time) {
	StoreOperationDuration.WithLabelValues(op).Observe(time.Since(start).Seconds())
}

// MarkSuccess stamps LastRunSuccess with now.
func MarkSuccess(now time.Time) {
	LastRunSuccess.Set(float64(now.Unix()))
}

// Push sends the Registry to a Pushgateway under job, replacing the job's previous metrics.
func Push(ctx context.Context, url, job string) error {
	if err := push.New(url, job).Gatherer(Registry).PushContext(ctx); err != nil {
		return fmt.Errorf("push metrics to %s: %w", url, err)
	}
	return nil
}
