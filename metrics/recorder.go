// Package metrics wires hlx's command-exchange accounting into
// Prometheus. Manager optionally takes a *Recorder; a nil recorder is a
// no-op.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Recorder records command-exchange outcomes and durations. The zero
// value is not usable; construct with NewRecorder. A nil *Recorder is
// valid and every method becomes a no-op, so metrics are never
// load-bearing for protocol correctness.
type Recorder struct {
	exchanges *prometheus.CounterVec
	duration  prometheus.Histogram
}

// NewRecorder registers its collectors with reg and returns a ready
// Recorder. Passing prometheus.NewRegistry() (rather than the global
// DefaultRegisterer) keeps tests hermetic.
func NewRecorder(reg prometheus.Registerer) *Recorder {
	r := &Recorder{
		exchanges: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "hlx_exchanges_total",
			Help: "Command exchanges completed, by outcome.",
		}, []string{"outcome"}),
		duration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "hlx_exchange_duration_seconds",
			Help:    "Command exchange round-trip latency.",
			Buckets: prometheus.DefBuckets,
		}),
	}
	reg.MustRegister(r.exchanges, r.duration)
	return r
}

// Outcome names used with Observe.
const (
	OutcomeOK      = "ok"
	OutcomeTimeout = "timeout"
	OutcomeError   = "error"
)

// Observe records one completed exchange. Safe to call on a nil
// Recorder.
func (r *Recorder) Observe(outcome string, d time.Duration) {
	if r == nil {
		return
	}
	r.exchanges.WithLabelValues(outcome).Inc()
	r.duration.Observe(d.Seconds())
}
