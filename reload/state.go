package reload

// State tracks which snapshot, if any, is answering queries.
type State int32

const (
	// StateLoading: the first table has not been read yet; Current is nil.
	StateLoading State = iota

	// StateHealthy: the last table read produced the snapshot now served
	// (or matched its fingerprint).
	StateHealthy

	// StateDegraded: the last table read was rejected; queries are still
	// answered from the older snapshot.
	StateDegraded

	// StateEmpty: no table has ever produced a usable snapshot; Current is
	// nil until one does.
	StateEmpty
)

func (s State) String() string {
	switch s {
	case StateLoading:
		return "loading"
	case StateHealthy:
		return "healthy"
	case StateDegraded:
		return "degraded"
	case StateEmpty:
		return "empty"
	default:
		return "unknown"
	}
}

// Stage names the step of a table load that failed.
type Stage string

const (
	// StageDecode: the raw bytes are not a valid measurement table.
	StageDecode Stage = "decode"

	// StageBuild: the table decoded but a snapshot could not be built.
	StageBuild Stage = "build"

	// StageValidate: the snapshot built, but every family was rejected.
	StageValidate Stage = "validate"
)
