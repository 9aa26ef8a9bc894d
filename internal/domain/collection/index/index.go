// Package index holds the vector index value object attached to collection fields.
package index

import (
	"fmt"
	"maps"
	"strings"
)

// Metric is the distance metric used by a vector index.
type Metric string

// Supported metrics.
const (
	Cosine Metric = "COSINE"
	L2     Metric = "L2"
	IP     Metric = "IP"
)

// ParseMetric accepts a metric name in any case.
func ParseMetric(s string) (Metric, error) {
	m := Metric(strings.ToUpper(strings.TrimSpace(s)))
	if !m.IsValid() {
		return "", fmt.Errorf("unknown metric %q", s)
	}
	return m, nil
}

// IsValid checks if the metric is supported.
func (m Metric) IsValid() bool {
	return m == Cosine || m == L2 || m == IP
}

// Spec is an immutable index configuration for one vector field.
// Algorithm and params are store-specific and passed through as-is.
type Spec struct {
	metric    Metric
	algorithm string
	params    map[string]any
}

// New validates and creates an index Spec. params is copied.
func New(metric Metric, algorithm string, params map[string]any) (Spec, error) {
	if !metric.IsValid() {
		return Spec{}, fmt.Errorf("invalid metric %q", metric)
	}
	if algorithm == "" {
		return Spec{}, fmt.Errorf("index algorithm is required")
	}
	return Spec{metric: metric, algorithm: algorithm, params: maps.Clone(params)}, nil
}

// Metric returns the distance metric.
func (s Spec) Metric() Metric { return s.metric }

// Algorithm returns the index algorithm, e.g. IVF_FLAT.
func (s Spec) Algorithm() string { return s.algorithm }

// Params returns a copy of the algorithm params.
func (s Spec) Params() map[string]any { return maps.Clone(s.params) }

// Param returns a single param.
func (s Spec) Param(key string) (any, bool) {
	v, ok := s.params[key]
	return v, ok
}
