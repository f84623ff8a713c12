// Package reload keeps a designer.Snapshot current while the measurement
// source changes underneath it.
//
// A Reloader watches a source for raw bytes, decodes them into a
// measurement.Table, builds a new Snapshot, and swaps it in atomically:
//
//	Watcher → Decode → Build → Swap
//
// Readers call Current() and always get a complete Snapshot, either the
// previous one or the new one, never a partially built state. If any step
// fails, the previous Snapshot stays active and the Reloader reports a
// degraded state while it keeps watching.
//
// # State Machine
//
//   - Loading: no data processed yet
//   - Healthy: the last change was applied
//   - Degraded: the last change failed, the previous snapshot is active
//   - Empty: the first load failed, no snapshot exists
//
// # Observability
//
// Lifecycle events are emitted as capitan signals (see signals.go), state
// and load outcomes are reported to an optional MetricsProvider, and a
// *slog.Logger receives one line per load.
//
// # Example
//
//	r := reload.New(reload.NewFileWatcher("phantoms_table.csv"),
//	    designer.WithFamilyOrder("EF50", "EF30", "EF10"),
//	).Logger(logger)
//
//	if err := r.Start(ctx); err != nil {
//	    logger.Warn("initial load failed", "err", err)
//	}
//	res, err := r.Current().Query(45)
package reload
