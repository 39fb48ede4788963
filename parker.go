package soloworker

import "sync"

// parker is the one-shot, two-party park/unpark primitive attached to a
// single submitted node. It backs the submit handshake (handshake.go)
// that follows scheduleInPlace: a submitter parks on it until the worker
// (or a shutdown/poison release) calls unparkOne, and the wake is never
// lost even if unparkOne runs before park, since the "done" bit persists
// past the call that set it.
//
// This is deliberately a plain mutex+condvar, not the idleWaker in
// parker_linux.go (eventfd) or parker_other.go (channel): those exist once per
// SharedState to wake an idle worker goroutine efficiently across many
// submits, whereas a parker exists once per submit and is discarded
// immediately after, so the allocation and syscall cost of a platform
// wakeup primitive per call would be wasted here.
type parker struct {
	mu   sync.Mutex
	cond sync.Cond
	done bool
}

func newParker() *parker {
	p := &parker{}
	p.cond.L = &p.mu
	return p
}

// park blocks until pred returns true or unparkOne has been called,
// whichever happens first. pred is re-checked after every spurious wake.
func (p *parker) park(pred func() bool) {
	p.mu.Lock()
	for !p.done && !pred() {
		p.cond.Wait()
	}
	p.mu.Unlock()
}

// unparkOne wakes the parked caller, if any is or ever becomes parked.
// Idempotent: calling it before, during, or after park is always safe, and
// calling it more than once is benign.
func (p *parker) unparkOne() {
	p.mu.Lock()
	p.done = true
	p.mu.Unlock()
	p.cond.Signal()
}
