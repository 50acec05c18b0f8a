package orchestrate

// State is the lifecycle stage of a write action run.
type State uint8

const (
	StateIdle State = iota
	StateValidating
	StateUploading
	StateSubmitting
	StateConfirming
	StateSucceeded
	StateFailed
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateValidating:
		return "validating"
	case StateUploading:
		return "uploading"
	case StateSubmitting:
		return "submitting"
	case StateConfirming:
		return "confirming"
	case StateSucceeded:
		return "succeeded"
	case StateFailed:
		return "failed"
	default:
		return "unknown"
	}
}
