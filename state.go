package soloworker

import "sync/atomic"

// runState is the monotonic state of a SharedState: Running transitions to
// Ended exactly once, either via a clean Join/Close or via panic poisoning.
// There is no intermediate "terminating" state, unlike eventloop.Loop's
// [LoopState] state machine (eventloop.StateTerminating): the transition
// itself is a single store, and whatever is still queued is drained
// afterwards (by the worker on its next iteration after a shutdown request,
// or by the poison guard straight after a panic).
type runState uint32

const (
	// stateRunning is the state a SharedState starts in.
	stateRunning runState = iota
	// stateEnded is terminal: no further nodes may be pushed once reached.
	stateEnded
)

func (s runState) String() string {
	switch s {
	case stateRunning:
		return "Running"
	case stateEnded:
		return "Ended"
	default:
		return "Unknown"
	}
}

// atomicRunState is a lock-free wrapper, grounded on eventloop.FastState:
// the same load/CAS shape, narrowed to the two states this executor needs.
type atomicRunState struct {
	v atomic.Uint32
}

func (s *atomicRunState) Load() runState {
	return runState(s.v.Load())
}

// setEnded stores Ended directly. Callers are responsible for only calling
// this once, under whatever lock also guards the terminal-error field that
// accompanies the transition (see SharedState.poison/requestShutdown); a
// bare CAS here would let the transition race ahead of that field's write.
func (s *atomicRunState) setEnded() {
	s.v.Store(uint32(stateEnded))
}
