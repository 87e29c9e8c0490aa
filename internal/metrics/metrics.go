// Package metrics exposes Prometheus series for the account deletion lifecycle.
package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Outcome labels.
const (
	ResultSuccess  = "success"
	ResultFailure  = "failure"
	ResultNotFound = "not_found"
	ResultDeferred = "deferred"
)

// Recorder is what the deletion services report to.
type Recorder interface {
	RecordDeletion(mode, result string)
	RecordSweep(processed, failed int, duration time.Duration)
	RecordIdentityCleanup(result string)
}

// Collector is the Prometheus-backed Recorder.
type Collector struct {
	deletions       *prometheus.CounterVec
	sweepProcessed  prometheus.Counter
	sweepFailed     prometheus.Counter
	sweepDuration   prometheus.Histogram
	identityCleanup *prometheus.CounterVec
}

// NewCollector creates the collector and registers its series on reg.
func NewCollector(reg prometheus.Registerer) *Collector {
	c := &Collector{
		deletions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "quizhub_deletions_total",
			Help: "Account deletions executed, by effective mode and result.",
		}, []string{"mode", "result"}),
		sweepProcessed: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "quizhub_sweep_processed_total",
			Help: "Due deletions executed successfully by the sweep.",
		}),
		sweepFailed: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "quizhub_sweep_failed_total",
			Help: "Due deletions the sweep failed to execute.",
		}),
		sweepDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "quizhub_sweep_duration_seconds",
			Help:    "Wall time of one sweep run.",
			Buckets: prometheus.DefBuckets,
		}),
		identityCleanup: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "quizhub_identity_cleanup_total",
			Help: "Identity provider account deletions, by result.",
		}, []string{"result"}),
	}

	reg.MustRegister(
		c.deletions,
		c.sweepProcessed,
		c.sweepFailed,
		c.sweepDuration,
		c.identityCleanup,
	)
	return c
}

func (c *Collector) RecordDeletion(mode, result string) {
	c.deletions.WithLabelValues(mode, result).Inc()
}

func (c *Collector) RecordSweep(processed, failed int, duration time.Duration) {
	c.sweepProcessed.Add(float64(processed))
	c.sweepFailed.Add(float64(failed))
	c.sweepDuration.Observe(duration.Seconds())
}

func (c *Collector) RecordIdentityCleanup(result string) {
	c.identityCleanup.WithLabelValues(result).Inc()
}

// Nop discards everything.
type Nop struct{}

func (Nop) RecordDeletion(string, string)       {}
func (Nop) RecordSweep(int, int, time.Duration) {}
func (Nop) RecordIdentityCleanup(string)        {}

// Handler serves the registry in the Prometheus text format.
func Handler(gatherer prometheus.Gatherer) http.Handler {
	return promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{})
}
