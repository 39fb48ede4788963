package soloworker

// Handle is the public lifecycle and submission surface for an executor.
// It is safe to share across any number of goroutines: every method
// synchronizes through the underlying SharedState.
type Handle struct {
	shared *SharedState
}

// Submit runs fn on the worker goroutine and blocks the calling goroutine
// until it completes, returning fn's result. Because the call blocks, fn
// may safely close over local variables of the calling goroutine's stack
// frame: the calling goroutine cannot resume, and therefore cannot
// invalidate those references, until the worker has finished with them.
//
// Calling Submit from the worker goroutine itself returns
// ErrReentrantSubmit immediately: the worker cannot block waiting on its
// own queue.
func Submit[T any](h *Handle, fn func() T) (T, error) {
	var zero T
	if h.shared.affinity.isCurrent() {
		return zero, ErrReentrantSubmit
	}

	var result T
	se := newScheduleEntry(func() { result = fn() })
	if err := h.shared.scheduleInPlace(&node{entry: se}); err != nil {
		return zero, err
	}
	var afterArrive func()
	if h.shared.testHooks != nil {
		afterArrive = h.shared.testHooks.afterArriveBeforePark
	}
	if err := se.wait(afterArrive); err != nil {
		return zero, err
	}
	return result, nil
}

// SubmitVoid is Submit for a closure with no return value.
func SubmitVoid(h *Handle, fn func()) error {
	_, err := Submit(h, func() struct{} {
		fn()
		return struct{}{}
	})
	return err
}

// SubmitDrop moves value onto the worker goroutine and drops it there by
// calling its Close method. This is how a caller holding a Tagged value
// safely discards it from any other goroutine, since Tagged.Close would
// otherwise abort when called off the worker: a Tagged value's Drop is
// only defined on its matching goroutine.
func SubmitDrop[T any](h *Handle, value Tagged[T]) error {
	return SubmitVoid(h, value.Close)
}

// Join requests shutdown, waits for the worker goroutine to exit, then
// reports the worker's terminal error, if any (nil on a clean shutdown).
// Idempotent: calling it more than once, or concurrently, is safe, and
// every caller observes the same result.
func (h *Handle) Join() error {
	h.shared.requestShutdown()
	<-h.shared.workerExited
	return h.shared.workerErr
}

// Close requests shutdown, waits for the worker to exit, and discards its
// terminal error: dropping the handle implicitly joins, ignoring panic
// results, since there is no caller left to deliver a Panicked to. Prefer
// Join when the caller wants to observe whether the worker ended cleanly.
func (h *Handle) Close() {
	_ = h.Join()
}
