package reload

import "github.com/zoobzio/capitan"

// Field keys for Reloader events.
var (
	// KeyState is the current state of the Reloader.
	KeyState = capitan.NewStringKey("state")

	// KeyOldState is the previous state before a transition.
	KeyOldState = capitan.NewStringKey("old_state")

	// KeyNewState is the new state after a transition.
	KeyNewState = capitan.NewStringKey("new_state")

	// KeyStage is the load Stage that failed.
	KeyStage = capitan.NewStringKey("stage")

	// KeyError is the error message when a load fails.
	KeyError = capitan.NewStringKey("error")

	// KeyDebounce is the configured debounce duration.
	KeyDebounce = capitan.NewDurationKey("debounce")

	// KeyFingerprint is the hex fingerprint of the loaded table.
	KeyFingerprint = capitan.NewStringKey("fingerprint")

	// KeyFamilies is the number of usable families in the new snapshot.
	KeyFamilies = capitan.NewIntKey("families")

	// KeyRejected is the number of families rejected by the build.
	KeyRejected = capitan.NewIntKey("rejected")
)
