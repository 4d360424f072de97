package hfsm

// Kind enumerates the transition-request and task kinds recognized by the
// engine. REMAIN is internal forwarding passthrough and is never directly
// enqueued by user code.
type Kind int

const (
	// Remain is the internal passthrough used by forwardRequest when a
	// region has no pending request for a given child; never user-facing.
	Remain Kind = iota
	// Change selects a prong via the region's configured strategy.
	Change
	// Restart always selects prong 0 (the Composite/restart-default strategy).
	Restart
	// Resume selects the region's last-active (resumable) prong.
	Resume
	// Utilize selects a prong by the Utilitarian strategy (argmax utility).
	Utilize
	// Randomize selects a prong by the RandomUtil strategy (rank-gated
	// weighted random draw).
	Randomize
	// Schedule records a resumable prong without propagating a request.
	Schedule
)

// String renders the Kind the way Logger implementations want to print it.
func (k Kind) String() string {
	switch k {
	case Remain:
		return "REMAIN"
	case Change:
		return "CHANGE"
	case Restart:
		return "RESTART"
	case Resume:
		return "RESUME"
	case Utilize:
		return "UTILIZE"
	case Randomize:
		return "RANDOMIZE"
	case Schedule:
		return "SCHEDULE"
	default:
		return "UNKNOWN"
	}
}

// isChangeLike reports whether a request kind is resolved by
// StateRegistry.requestImmediate (as opposed to Schedule, which is not).
func (k Kind) isChangeLike() bool {
	switch k {
	case Change, Restart, Resume, Utilize, Randomize:
		return true
	default:
		return false
	}
}

// Request is a single queued transition request: a tagged union of kind,
// target state, and an optional user payload (e.g. data to stash with
// SetStateData before the destination is entered).
type Request struct {
	Kind    Kind
	State   StateID
	Payload any
}

func newRequest(kind Kind, state StateID, payload any) Request {
	return Request{Kind: kind, State: state, Payload: payload}
}
