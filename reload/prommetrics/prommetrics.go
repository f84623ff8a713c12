// Package prommetrics reports Reloader activity to Prometheus.
//
//	reg := prometheus.NewRegistry()
//	r := reload.New(w).Metrics(prommetrics.New(reg, "phantom"))
package prommetrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/katalvlaran/phantom/reload"
)

// Provider implements reload.MetricsProvider.
type Provider struct {
	changes     prometheus.Counter
	loads       *prometheus.CounterVec
	duration    prometheus.Histogram
	state       prometheus.Gauge
	transitions *prometheus.CounterVec
}

var _ reload.MetricsProvider = (*Provider)(nil)

// New registers the reload metrics on reg under namespace.
// Panics if the metrics are already registered on reg.
func New(reg prometheus.Registerer, namespace string) *Provider {
	f := promauto.With(reg)

	return &Provider{
		// changes counts raw payloads delivered by the watcher
		changes: f.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "reload",
			Name:      "changes_received_total",
			Help:      "Raw source changes received from the watcher",
		}),
		loads: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "reload",
			Name:      "loads_total",
			Help:      "Processed loads by result and failing stage",
		}, []string{"result", "stage"}), // result: success|failure; stage: decode|build|validate
		duration: f.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "reload",
			Name:      "load_duration_seconds",
			Help:      "Decode plus build duration in seconds",
			Buckets:   prometheus.ExponentialBuckets(0.0001, 2, 14), // 0.1ms to ~1.6s
		}),
		state: f.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: "reload",
			Name:      "state",
			Help:      "Current reloader state (0 loading, 1 healthy, 2 degraded, 3 empty)",
		}),
		transitions: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "reload",
			Name:      "state_transitions_total",
			Help:      "Reloader state transitions",
		}, []string{"from", "to"}),
	}
}

// OnStateChange implements reload.MetricsProvider.
func (p *Provider) OnStateChange(from, to reload.State) {
	p.state.Set(float64(to))
	p.transitions.WithLabelValues(from.String(), to.String()).Inc()
}

// OnProcessSuccess implements reload.MetricsProvider.
func (p *Provider) OnProcessSuccess(d time.Duration) {
	p.loads.WithLabelValues("success", "").Inc()
	p.duration.Observe(d.Seconds())
}

// OnProcessFailure implements reload.MetricsProvider.
func (p *Provider) OnProcessFailure(stage reload.Stage, d time.Duration) {
	p.loads.WithLabelValues("failure", string(stage)).Inc()
	p.duration.Observe(d.Seconds())
}

// OnChangeReceived implements reload.MetricsProvider.
func (p *Provider) OnChangeReceived() {
	p.changes.Inc()
}
