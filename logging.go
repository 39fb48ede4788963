package soloworker

import (
	"fmt"
	"os"

	"github.com/joeycumines/logiface"
	"github.com/joeycumines/stumpy"
)

// Logger is the logger type used throughout this package, grounded on
// logiface-stumpy's example_test.go: a logiface.Logger[*stumpy.Event] built
// with stumpy's default JSON writer, used directly rather than hand-rolling
// a bespoke logging stack.
type Logger = logiface.Logger[*stumpy.Event]

// newDefaultLogger builds the Logger used when a Builder is not given one
// explicitly via WithLogger.
func newDefaultLogger() *Logger {
	return stumpy.L.New(stumpy.L.WithStumpy())
}

// violationLogger is implemented by a SharedState so the package-level
// affinity registry can route a Tagged mismatch back through the owning
// executor's configured Logger before the process aborts.
type violationLogger interface {
	LogAffinityViolation(capturedTag, currentTag Tag, onWorker bool)
}

// LogAffinityViolation implements violationLogger for SharedState.
func (s *SharedState) LogAffinityViolation(capturedTag, currentTag Tag, onWorker bool) {
	s.logger.Crit().
		Int64(`captured_tag`, int64(capturedTag)).
		Int64(`current_tag`, int64(currentTag)).
		Bool(`on_worker_goroutine`, onWorker).
		Log(`tagged value accessed from the wrong goroutine, aborting`)
}

// fallbackLogAffinityViolation is used when the registry has no source for
// capturedTag: the registry only holds an entry while a worker is running a
// closure, so this is the path taken whenever the owning executor is not
// running one at the moment of the violation (including a Tagged value
// constructed outside of any worker closure, whose Tag matches nothing).
// There is no SharedState to log through, so this writes directly to
// stderr.
func fallbackLogAffinityViolation(capturedTag, currentTag Tag, onWorker bool) {
	fmt.Fprintf(os.Stderr,
		"soloworker: tagged value accessed from the wrong goroutine, aborting: captured_tag=%d current_tag=%d on_worker_goroutine=%t\n",
		capturedTag, currentTag, onWorker)
}

// logWorkerPanic records a panic recovered from a submitted closure, before
// the poison guard drains and releases the queue.
func (s *SharedState) logWorkerPanic(value any) {
	s.logger.Err().
		Any(`value`, value).
		Log(`worker goroutine recovered a panic, poisoning executor`)
}

// logPreludePanic records a panic recovered from a Builder.WithPrelude
// function, before the worker goroutine exits without ever having served a
// task.
func (s *SharedState) logPreludePanic(value any) {
	s.logger.Err().
		Any(`value`, value).
		Log(`prelude panicked before the worker could start serving tasks`)
}

// logShutdownDrain records, as one entry, how many queued nodes were
// released with an error when the executor ended, whether by a clean
// shutdown or by poisoning. Nothing is logged when none were released.
func (s *SharedState) logShutdownDrain(released int) {
	if released == 0 {
		return
	}
	s.logger.Warning().
		Int64(`released`, int64(released)).
		Log(`executor shut down with tasks still queued, released them with an error`)
}
