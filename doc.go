// Package soloworker provides a single-threaded executor: one dedicated
// worker goroutine, pinned to its own OS thread, that any number of
// submitter goroutines can hand closures to and block on synchronously.
//
// # Architecture
//
// A [Handle] owns a [SharedState] (queue + run-state + a worker wakeup) and
// the worker goroutine spawned for it by [Builder.Build]. Submitting a task
// ([Submit]) allocates a node on the caller's stack, links it into
// the shared intrusive queue, wakes the worker if it was idle, then blocks
// the caller until the worker has either run the closure or released its
// claim on it. The blocking discipline is what lets the closure reference
// the caller's local variables without copying or boxing: the caller
// cannot leave its stack frame while the worker might still touch it.
//
// [SubmitAsync] offers the same handshake without blocking an OS
// thread: the calling goroutine suspends on a channel receive instead of a
// park, trading the synchronous guarantee for the ability to run many
// pending submits per OS thread.
//
// # Thread affinity
//
// Closures run by the worker execute with the executor's [Tag] recorded for
// their goroutine. Values wrapped in [Tagged] capture that tag; dereferencing
// or dropping a [Tagged] value from any other goroutine aborts the process,
// since recovering from the mismatch would otherwise risk silently
// corrupting state that is only valid on the worker.
//
// # Panics
//
// A panic inside a submitted closure, or inside a [WithPrelude]
// function, poisons the executor: its run-state moves to Ended, every
// currently parked submitter wakes with [Panicked], the queue is drained
// and every other waiting submitter is released the same way, and every
// future [Submit]/[SubmitAsync] call fails immediately.
//
// # Non-goals
//
// No multi-worker scheduling, no work stealing, no preemption, no
// priorities or fairness beyond FIFO, no persistence, no cross-process use.
package soloworker
