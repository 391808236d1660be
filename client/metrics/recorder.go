// Package metrics wires the application controller's refresh and
// state-change activity into Prometheus, the client-side counterpart to
// hlx/metrics.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Recorder records application-controller activity: full-refresh
// outcomes and durations, and state-change events by controller. The
// zero value is not usable; construct with NewRecorder. A nil *Recorder
// is valid and every method becomes a no-op, so metrics are never
// load-bearing for application behaviour.
type Recorder struct {
	refreshes       *prometheus.CounterVec
	refreshDuration prometheus.Histogram
	stateChanges    *prometheus.CounterVec
}

// NewRecorder registers its collectors with reg and returns a ready
// Recorder. Passing prometheus.NewRegistry() (rather than the global
// DefaultRegisterer) keeps tests hermetic.
func NewRecorder(reg prometheus.Registerer) *Recorder {
	r := &Recorder{
		refreshes: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "hlx_client_refreshes_total",
			Help: "Application-controller Refresh calls completed, by outcome.",
		}, []string{"outcome"}),
		refreshDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "hlx_client_refresh_duration_seconds",
			Help:    "Application-controller Refresh wall-clock duration.",
			Buckets: prometheus.DefBuckets,
		}),
		stateChanges: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "hlx_client_state_changes_total",
			Help: "StateChange events delivered, by controller.",
		}, []string{"controller"}),
	}
	reg.MustRegister(r.refreshes, r.refreshDuration, r.stateChanges)
	return r
}

// Outcome names used with ObserveRefresh.
const (
	OutcomeOK    = "ok"
	OutcomeError = "error"
)

// ObserveRefresh records one completed Refresh call. Safe to call on a
// nil Recorder.
func (r *Recorder) ObserveRefresh(outcome string, d time.Duration) {
	if r == nil {
		return
	}
	r.refreshes.WithLabelValues(outcome).Inc()
	r.refreshDuration.Observe(d.Seconds())
}

// ObserveStateChange records one StateChange dispatched for controller.
// Safe to call on a nil Recorder.
func (r *Recorder) ObserveStateChange(controller string) {
	if r == nil {
		return
	}
	r.stateChanges.WithLabelValues(controller).Inc()
}
