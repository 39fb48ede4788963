package soloworker

// scheduleEntry is the TaskNode payload for a synchronous Submit/SubmitDrop
// call. fn runs on the worker goroutine and writes its result through
// variables captured by closure, directly into the submitter's own
// stack-resident result slot.
type scheduleEntry struct {
	hs         handshake
	fn         func()
	releaseErr error
}

func newScheduleEntry(fn func()) *scheduleEntry {
	return &scheduleEntry{hs: newHandshake(), fn: fn}
}

func (e *scheduleEntry) run() { e.fn() }

func (e *scheduleEntry) release(err error) {
	e.releaseErr = err
	e.hs.signalCompletion()
}

// wait blocks the submitter until the worker (or a poison/shutdown drain)
// has released this entry, then returns whatever error was attached.
func (e *scheduleEntry) wait(afterArrive func()) error {
	e.hs.waitForCompletion(afterArrive)
	return e.releaseErr
}

