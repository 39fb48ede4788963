package soloworker

import (
	"runtime"
	"sync/atomic"
)

// Tag identifies a single executor instance. A Tag is assigned once per
// Builder.Build call from a process-wide monotonic counter rather than
// derived from a heap address: reusing a short-lived executor's memory
// address for a later executor would let a stale Tagged value from the
// first pass its affinity check against the second.
type Tag uint64

var tagCounter atomic.Uint64

// nextTag allocates the next globally unique Tag.
func nextTag() Tag {
	return Tag(tagCounter.Add(1))
}

// goroutineAffinity tracks the identity of the single worker goroutine
// owned by a SharedState. Grounded on eventloop.Loop's
// loopGoroutineID/isLoopThread/getGoroutineID trio: eventloop.Loop records
// its loop goroutine's id once at Run() entry and compares against it from
// arbitrary other goroutines to implement isLoopThread; this executor uses
// the same trick to reject a reentrant Submit from the worker itself.
type goroutineAffinity struct {
	workerGoroutineID atomic.Uint64
}

// bind records that the calling goroutine is now the worker goroutine,
// called once when the worker starts.
func (a *goroutineAffinity) bind() {
	a.workerGoroutineID.Store(currentGoroutineID())
}

// isCurrent reports whether the calling goroutine is the bound worker
// goroutine.
func (a *goroutineAffinity) isCurrent() bool {
	return currentGoroutineID() == a.workerGoroutineID.Load()
}

// currentGoroutineID returns the calling goroutine's runtime id, parsed out
// of runtime.Stack's header line. Grounded verbatim on
// eventloop.getGoroutineID: runtime.Stack is the only portable way to learn
// a goroutine's id without cgo or assembly, paid once per affinity check
// for the same reason eventloop pays it: no stable public API exposes
// goroutine ids.
func currentGoroutineID() uint64 {
	var buf [64]byte
	n := runtime.Stack(buf[:], false)
	var id uint64
	for i := len("goroutine "); i < n; i++ {
		if buf[i] >= '0' && buf[i] <= '9' {
			id = id*10 + uint64(buf[i]-'0')
		} else {
			break
		}
	}
	return id
}
