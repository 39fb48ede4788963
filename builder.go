package soloworker

// Builder configures an executor before its worker goroutine is spawned,
// generalizing eventloop/options.go's LoopOption/loopOptionImpl/
// resolveLoopOptions closure-option pattern: each BuilderOption is a
// closure applied to an unexported Builder field.
type Builder struct {
	prelude func()
	logger  *Logger
}

// BuilderOption configures a Builder. See WithPrelude, WithLogger.
type BuilderOption interface {
	apply(*Builder)
}

type builderOptionFunc func(*Builder)

func (f builderOptionFunc) apply(b *Builder) { f(b) }

// NewBuilder constructs a Builder with the given options applied in order.
func NewBuilder(options ...BuilderOption) *Builder {
	b := &Builder{}
	for _, o := range options {
		o.apply(b)
	}
	return b
}

// WithPrelude sets a function to run on the worker goroutine before it
// starts serving submits. A panic inside prelude poisons the executor
// exactly as a panic inside a submitted closure would: every submit made
// afterward observes Panicked, with Value set to the recovered value,
// since the run-state is already Ended.
func WithPrelude(fn func()) BuilderOption {
	return builderOptionFunc(func(b *Builder) { b.prelude = fn })
}

// WithLogger sets the Logger the executor uses for its own diagnostics
// (worker/prelude panics, shutdown drains, Tagged affinity violations). A
// Builder with no WithLogger option uses the package default, stderr JSON
// at Info level (see newDefaultLogger).
func WithLogger(logger *Logger) BuilderOption {
	return builderOptionFunc(func(b *Builder) { b.logger = logger })
}

// Build heap-allocates the executor's SharedState and spawns its worker
// goroutine, returning a Handle immediately. Build does not wait for the
// prelude to finish, mirroring the fire-and-forget semantics of spawning
// an OS thread. The first Submit naturally blocks until the worker has
// finished any prelude and reached the front of its queue, so callers
// that need the prelude's side effects visible before their own code runs
// get that ordering for free without Build itself synchronizing on it.
func (b *Builder) Build() (*Handle, error) {
	logger := b.logger
	if logger == nil {
		logger = newDefaultLogger()
	}
	shared, err := newSharedState(logger)
	if err != nil {
		return nil, err
	}
	go runWorker(shared, b.prelude)
	return &Handle{shared: shared}, nil
}
