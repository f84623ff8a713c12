package reload

import "time"

// MetricsProvider observes table loads. Package prommetrics exports them to
// Prometheus.
type MetricsProvider interface {
	// OnStateChange reports a move between States.
	OnStateChange(from, to State)

	// OnProcessSuccess reports a table that was swapped in or found
	// unchanged. The duration covers decode and snapshot build.
	OnProcessSuccess(duration time.Duration)

	// OnProcessFailure reports a rejected table and where it failed.
	OnProcessFailure(stage Stage, duration time.Duration)

	// OnChangeReceived reports raw table bytes arriving from the watcher,
	// before debounce.
	OnChangeReceived()
}

// NoOpMetricsProvider discards every callback. Embed it to implement only
// the methods you need.
type NoOpMetricsProvider struct{}

func (NoOpMetricsProvider) OnStateChange(_, _ State)                  {}
func (NoOpMetricsProvider) OnProcessSuccess(_ time.Duration)          {}
func (NoOpMetricsProvider) OnProcessFailure(_ Stage, _ time.Duration) {}
func (NoOpMetricsProvider) OnChangeReceived()                         {}
