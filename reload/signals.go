package reload

import "github.com/zoobzio/capitan"

// Lifecycle signals.
var (
	// ReloaderStarted is emitted when a Reloader begins watching.
	ReloaderStarted = capitan.NewSignal(
		"phantom.reload.started",
		"Reloader watching started",
	)

	// ReloaderStopped is emitted when a Reloader stops watching.
	ReloaderStopped = capitan.NewSignal(
		"phantom.reload.stopped",
		"Reloader watching stopped",
	)

	// ReloaderStateChanged is emitted on every state transition.
	ReloaderStateChanged = capitan.NewSignal(
		"phantom.reload.state.changed",
		"Reloader state transition",
	)
)

// Load signals.
var (
	// ChangeReceived is emitted when raw data arrives from the watcher.
	ChangeReceived = capitan.NewSignal(
		"phantom.reload.change.received",
		"Raw change received from watcher",
	)

	// DecodeFailed is emitted when the raw data is not a valid table.
	DecodeFailed = capitan.NewSignal(
		"phantom.reload.decode.failed",
		"Measurement table could not be decoded",
	)

	// BuildFailed is emitted when no snapshot could be built from the table.
	BuildFailed = capitan.NewSignal(
		"phantom.reload.build.failed",
		"Snapshot build failed",
	)

	// SnapshotUnchanged is emitted when the table fingerprint matches the
	// active snapshot and nothing is rebuilt.
	SnapshotUnchanged = capitan.NewSignal(
		"phantom.reload.snapshot.unchanged",
		"Table unchanged, snapshot kept",
	)

	// SnapshotSwapped is emitted after a new snapshot becomes current.
	SnapshotSwapped = capitan.NewSignal(
		"phantom.reload.snapshot.swapped",
		"New snapshot applied",
	)
)
