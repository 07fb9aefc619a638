package vecbridge

import "sync/atomic"

// State is the lifecycle state of an instance.
//
// States advance strictly in declaration order:
//
//	Starting -> Accepting -> Draining -> ReclaimingEngine -> Terminated
type State int32

const (
	// StateStarting: the engine is being constructed.
	StateStarting State = iota
	// StateAccepting: the dispatch loop runs and requests are accepted.
	StateAccepting
	// StateDraining: the channel is closed and buffered requests are dispatched.
	StateDraining
	// StateReclaimingEngine: waiting for in-flight requests to release the engine.
	StateReclaimingEngine
	// StateTerminated: the engine is closed.
	StateTerminated
)

func (s State) String() string {
	switch s {
	case StateStarting:
		return "starting"
	case StateAccepting:
		return "accepting"
	case StateDraining:
		return "draining"
	case StateReclaimingEngine:
		return "reclaiming_engine"
	case StateTerminated:
		return "terminated"
	default:
		return "unknown"
	}
}

// lifecycle holds the current State.
type lifecycle struct {
	state atomic.Int32
}

func (l *lifecycle) load() State {
	return State(l.state.Load())
}

// advance moves from the given state to its successor. It returns false if
// the current state is not from.
func (l *lifecycle) advance(from State) (State, bool) {
	if from >= StateTerminated {
		return from, false
	}
	to := from + 1
	return to, l.state.CompareAndSwap(int32(from), int32(to))
}
