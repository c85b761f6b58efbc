// Package metrics exposes Prometheus metrics for context refreshes.
package metrics

import (
	"fmt"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "fsctx"

// Outcome labels the result of one refresh.
type Outcome string

const (
	OutcomeSuccess Outcome = "success"
	OutcomeFailure Outcome = "failure"
)

// RefreshStats summarises one refresh.
type RefreshStats struct {
	Definitions int
	Resources   int
	Overrides   int
}

// Recorder records refresh metrics. A nil *Recorder records nothing, so
// callers never need to check whether metrics are enabled.
type Recorder struct {
	refreshes   *prometheus.CounterVec
	duration    prometheus.Histogram
	definitions prometheus.Gauge
	resources   prometheus.Counter
	overrides   prometheus.Counter
}

// NewRecorder creates the collectors and registers them with reg.
func NewRecorder(reg prometheus.Registerer) (*Recorder, error) {
	r := &Recorder{
		refreshes: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "refreshes_total",
				Help:      "Total number of context refreshes by outcome",
			},
			[]string{"outcome"},
		),
		duration: prometheus.NewHistogram(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "refresh_duration_seconds",
				Help:      "Duration of context refreshes",
				Buckets:   prometheus.DefBuckets,
			},
		),
		definitions: prometheus.NewGauge(
			prometheus.GaugeOpts{
				Namespace: namespace,
				Name:      "definitions",
				Help:      "Number of definitions in the most recently refreshed context",
			},
		),
		resources: prometheus.NewCounter(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "resources_loaded_total",
				Help:      "Total number of definition resources loaded",
			},
		),
		overrides: prometheus.NewCounter(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "definition_overrides_total",
				Help:      "Total number of definitions overridden by a later source",
			},
		),
	}

	for _, c := range []prometheus.Collector{r.refreshes, r.duration, r.definitions, r.resources, r.overrides} {
		if err := reg.Register(c); err != nil {
			return nil, fmt.Errorf("failed to register refresh metrics: %w", err)
		}
	}
	return r, nil
}

// ObserveRefresh records a finished refresh.
func (r *Recorder) ObserveRefresh(outcome Outcome, took time.Duration, stats RefreshStats) {
	if r == nil {
		return
	}
	r.refreshes.WithLabelValues(string(outcome)).Inc()
	r.duration.Observe(took.Seconds())
	r.resources.Add(float64(stats.Resources))
	r.overrides.Add(float64(stats.Overrides))
	if outcome == OutcomeSuccess {
		r.definitions.Set(float64(stats.Definitions))
	}
}

// Handler serves the metrics gathered by g.
func Handler(g prometheus.Gatherer) http.Handler {
	return promhttp.HandlerFor(g, promhttp.HandlerOpts{})
}
