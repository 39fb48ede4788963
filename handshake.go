package soloworker

import "sync/atomic"

// handshake implements a release protocol between one submitter and the
// worker goroutine: a three-state atomic counter (0 neither done, 1 one
// side done, 2 both done) shared between them for one schedule entry.
//
// A Rust implementation of this pattern typically uses fetch_add, which
// returns the value *before* the increment; Go's atomic.Uint32.Add returns
// the value *after*. arrive below restates the protocol in terms of the
// post-increment value so the same method serves both parties: whichever
// caller observes the counter land on 1 is the one that got there first
// and has no wake to perform (a first-arriving submitter parks; a
// first-arriving worker simply returns, and the submitter, arriving later,
// sees the counter land on 2 and does not block); whichever caller
// observes it land on 2 is second and is responsible for the wake.
type handshake struct {
	flag atomic.Uint32
	park *parker
}

func newHandshake() handshake {
	return handshake{park: newParker()}
}

// arrive performs one party's step of the protocol, reporting whether this
// call was the first of the two to run.
func (h *handshake) arrive() (first bool) {
	return h.flag.Add(1) == 1
}

// waitForCompletion is the submitter's half: arrive, and if first, park
// until the worker's own arrive call brings the counter to 2. If the
// worker already finished (this call arrives second), the predicate is
// already satisfied and park returns without blocking.
//
// afterArrive, if non-nil, runs after arrive but before parking, giving a
// test a window to force the worker to finish first despite program order.
func (h *handshake) waitForCompletion(afterArrive func()) {
	if first := h.arrive(); first {
		if afterArrive != nil {
			afterArrive()
		}
		h.park.park(func() bool { return h.flag.Load() == 2 })
	}
}

// signalCompletion is the worker's (or a shutdown/poison release's) half:
// arrive, and if second, unpark the submitter. If the submitter has not
// yet reached waitForCompletion (this call arrives first), there is
// nothing parked to wake; the submitter's own arrive will observe the
// counter already non-zero and skip parking entirely.
func (h *handshake) signalCompletion() {
	if first := h.arrive(); !first {
		h.park.unparkOne()
	}
}
