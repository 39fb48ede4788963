package soloworker

// Tagged wraps a value that is only valid to access on the worker goroutine
// of the executor that constructed it, via [Submit] or
// [SubmitAsync]. It exists for values that are not safe to share
// across goroutines at all (not even behind a mutex) but which a caller
// nonetheless wants to hold onto and pass back into later submits.
//
// Tagged must be constructed with [NewTagged] from inside a closure running
// on the worker goroutine; constructing it anywhere else captures a Tag
// that can never match any worker, so every later [Tagged.Value] or
// [Tagged.Close] call on it aborts.
type Tagged[T any] struct {
	tag   Tag
	value T
}

// NewTagged wraps value, capturing the Tag of the executor currently
// running the calling goroutine's closure. Call it only from inside a
// closure passed to Submit/SubmitAsync.
func NewTagged[T any](value T) Tagged[T] {
	tag, _ := currentWorkerTag()
	return Tagged[T]{tag: tag, value: value}
}

// Value returns the wrapped value, aborting the process if the calling
// goroutine is not the worker goroutine of the executor whose Tag was
// captured at construction. This is a safety property, not a recoverable
// error: a mismatch here means the caller is about to touch a value with
// no happens-before relationship establishing it is safe to read, so
// continuing would risk silently corrupting state rather than failing
// loudly.
func (t Tagged[T]) Value() T {
	if tag, ok := currentWorkerTag(); !ok || tag != t.tag {
		abortAffinityViolation(t.tag, tag, ok)
	}
	return t.value
}

// Close drops the wrapped value on the correct worker goroutine, enforcing
// the same affinity check as Value. Prefer [SubmitDrop] to move a
// Tagged value onto its worker before discarding it from another goroutine;
// calling Close directly from off the worker aborts exactly like Value.
func (t Tagged[T]) Close() {
	if tag, ok := currentWorkerTag(); !ok || tag != t.tag {
		abortAffinityViolation(t.tag, tag, ok)
	}
}

// currentWorkerTag is overridden per-SharedState via a package-level
// registry so Tagged, which carries no reference back to its owning
// executor, can still find out what tag (if any) is active on the calling
// goroutine. Only one SharedState's affinity state is ever relevant to a
// given goroutine at a time, since the worker goroutine is pinned to
// exactly one executor for its lifetime.
var activeAffinity registry

func currentWorkerTag() (Tag, bool) {
	return activeAffinity.current()
}
