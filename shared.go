package soloworker

import "sync"

// testHooks are injection points used only by this package's own tests to
// force specific interleavings around the handshake's race window.
// Grounded on eventloop.Loop's testHooks field (PrePollSleep/PrePollAwake/
// OnFastPathEntry callbacks used by its race/chaos tests).
type testHooks struct {
	// afterArriveBeforePark runs in the submitter goroutine, after arrive()
	// but before park, when a test needs to force the worker to finish
	// first despite program order.
	afterArriveBeforePark func()
	// afterPopBeforeRun runs in the worker goroutine, after a node is
	// popped but before its closure executes.
	afterPopBeforeRun func()
}

// SharedState is the heap-allocated state jointly owned by a Handle and
// its worker goroutine. It is never copied or moved: both owners hold it
// through a pointer for their entire lifetime, and it is only eligible for
// collection once both have let go of their reference, which Go's garbage
// collector tracks for us in place of manual reference counting.
type SharedState struct {
	mu    sync.Mutex
	q     queue
	state atomicRunState
	waker *idleWaker

	affinity goroutineAffinity
	tag      Tag

	logger *Logger

	workerExited chan struct{}
	workerErr    error // set once, before workerExited is closed

	// endErr is the Panicked a submit made after RunState reaches Ended
	// observes. Its zero value (Value: nil) is exactly what a clean
	// requestShutdown leaves it at, matching spec.md's single opaque
	// Panicked kind: a submit after a clean Join/Close and a submit after
	// a recovered panic both fail with Panicked, distinguished only by
	// whether Value is nil.
	endErr Panicked

	testHooks *testHooks
}

func newSharedState(logger *Logger) (*SharedState, error) {
	waker, err := newIdleWaker()
	if err != nil {
		return nil, err
	}
	return &SharedState{
		waker:        waker,
		tag:          nextTag(),
		logger:       logger,
		workerExited: make(chan struct{}),
	}, nil
}

// scheduleInPlace publishes n to the queue. The caller is responsible for
// the remaining handshake step (parking, or for pollEntry, a channel
// receive), since that differs between the Schedule and Poll entry kinds.
func (s *SharedState) scheduleInPlace(n *node) error {
	s.mu.Lock()
	if s.state.Load() == stateEnded {
		err := s.endErr
		s.mu.Unlock()
		return err
	}
	wasEmpty := s.q.pushFront(n)
	s.mu.Unlock()
	if wasEmpty {
		s.waker.wake()
	}
	return nil
}

// requestShutdown moves the run-state to Ended and wakes the worker so it
// notices on its next wait. Idempotent.
func (s *SharedState) requestShutdown() {
	s.mu.Lock()
	first := s.state.Load() == stateRunning
	if first {
		s.state.setEnded()
	}
	s.mu.Unlock()
	if first {
		s.waker.wake()
	}
}

// releaseAll steals every currently queued node and releases each with
// err. Used both by the worker's panic-poison guard and by a graceful
// shutdown that still finds nodes queued: neither path distinguishes
// "drained because of a panic" from "drained because of a clean shutdown
// race" in how a released node is treated, only in the error value
// attached.
func (s *SharedState) releaseAll(err error) int {
	s.mu.Lock()
	nodes := s.q.steal()
	s.mu.Unlock()
	for _, n := range nodes {
		n.entry.release(err)
	}
	return len(nodes)
}

// poison moves the run-state to Ended (if not already) and releases every
// still-queued node with Panicked{value}. The caller is responsible for
// logging the panic itself (the message differs between a task panic and
// a prelude panic); poison only logs the drain, since that part is
// identical either way.
func (s *SharedState) poison(value any) bool {
	s.mu.Lock()
	first := s.state.Load() == stateRunning
	if first {
		s.endErr = Panicked{Value: value}
		s.state.setEnded()
	}
	s.mu.Unlock()

	released := s.releaseAll(Panicked{Value: value})
	if first {
		s.logShutdownDrain(released)
	}
	return first
}
