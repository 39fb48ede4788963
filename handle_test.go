package soloworker

import (
	"errors"
	"runtime"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestSubmit_MutatesCapturedState covers submitting a closure that
// mutates captured submitter-local state.
func TestSubmit_MutatesCapturedState(t *testing.T) {
	h, err := NewBuilder().Build()
	require.NoError(t, err)

	n := 10
	_, err = Submit(h, func() struct{} {
		n += 10
		return struct{}{}
	})
	require.NoError(t, err)
	assert.Equal(t, 20, n)

	require.NoError(t, h.Join())
}

// TestSubmit_ReturnsExactValue covers the "Completion" universal property.
func TestSubmit_ReturnsExactValue(t *testing.T) {
	h, err := NewBuilder().Build()
	require.NoError(t, err)
	defer h.Close()

	got, err := Submit(h, func() string { return "hello" })
	require.NoError(t, err)
	assert.Equal(t, "hello", got)
}

// TestSubmit_OrderingWithinOneSubmitter covers the "Ordering" property.
func TestSubmit_OrderingWithinOneSubmitter(t *testing.T) {
	h, err := NewBuilder().Build()
	require.NoError(t, err)
	defer h.Close()

	var order []int
	for i := 0; i < 20; i++ {
		i := i
		_, err := Submit(h, func() struct{} {
			order = append(order, i)
			return struct{}{}
		})
		require.NoError(t, err)
	}
	for i := range order {
		assert.Equal(t, i, order[i])
	}
}

// TestSubmit_RunsOnWorkerGoroutine covers running submitted work on the
// same goroutine as the prelude, not the submitter's own goroutine.
func TestSubmit_RunsOnWorkerGoroutine(t *testing.T) {
	var preludeID, submitID, callerID uint64

	h, err := NewBuilder(WithPrelude(func() {
		preludeID = currentGoroutineID()
	})).Build()
	require.NoError(t, err)
	defer h.Close()

	callerID = currentGoroutineID()
	_, err = Submit(h, func() struct{} {
		submitID = currentGoroutineID()
		return struct{}{}
	})
	require.NoError(t, err)

	assert.Equal(t, preludeID, submitID)
	assert.NotEqual(t, callerID, submitID)
}

// TestSubmit_PanicPoisonsExecutor covers a panicking task poisoning the
// executor for every subsequent submit.
func TestSubmit_PanicPoisonsExecutor(t *testing.T) {
	h, err := NewBuilder().Build()
	require.NoError(t, err)

	_, err = Submit(h, func() struct{} {
		panic("boom")
	})
	var panicked Panicked
	require.ErrorAs(t, err, &panicked)
	assert.Equal(t, "boom", panicked.Value)

	_, err = Submit(h, func() int { return 42 })
	require.ErrorAs(t, err, &panicked)

	err = h.Join()
	require.ErrorAs(t, err, &panicked)
}

// TestSubmit_ReentrantFails covers ErrReentrantSubmit.
func TestSubmit_ReentrantFails(t *testing.T) {
	h, err := NewBuilder().Build()
	require.NoError(t, err)
	defer h.Close()

	_, err = Submit(h, func() struct{} {
		_, innerErr := Submit(h, func() int { return 1 })
		assert.ErrorIs(t, innerErr, ErrReentrantSubmit)
		return struct{}{}
	})
	require.NoError(t, err)
}

// TestSubmit_AlreadyShutdown covers submitting after a clean Join: spec.md
// requires this to observe Panicked (the single opaque error kind), not a
// distinct shutdown error, with a nil Value since no panic occurred.
func TestSubmit_AlreadyShutdown(t *testing.T) {
	h, err := NewBuilder().Build()
	require.NoError(t, err)
	require.NoError(t, h.Join())

	_, err = Submit(h, func() int { return 1 })
	var panicked Panicked
	require.ErrorAs(t, err, &panicked)
	assert.Nil(t, panicked.Value)
}

// TestConcurrentSubmitters covers many goroutines submitting concurrently
// and each observing its own result.
func TestConcurrentSubmitters(t *testing.T) {
	h, err := NewBuilder().Build()
	require.NoError(t, err)
	defer h.Close()

	const n = 10
	results := make([]int, n)
	var wg sync.WaitGroup
	for i := 0; i < n; i++ {
		i := i
		wg.Add(1)
		go func() {
			defer wg.Done()
			v, err := Submit(h, func() int { return i })
			assert.NoError(t, err)
			results[i] = v
		}()
	}
	wg.Wait()

	sum := 0
	seen := make(map[int]bool, n)
	for _, v := range results {
		sum += v
		seen[v] = true
	}
	assert.Equal(t, 45, sum)
	assert.Len(t, seen, n)
}

// TestTagged_HappyPath covers constructing, reading, and passing around a
// Tagged value from within submitted closures.
func TestTagged_HappyPath(t *testing.T) {
	h, err := NewBuilder().Build()
	require.NoError(t, err)
	defer h.Close()

	type foo struct{ called bool }

	v, err := Submit(h, func() Tagged[*foo] {
		return NewTagged(&foo{})
	})
	require.NoError(t, err)

	_, err = Submit(h, func() struct{} {
		v.Value().called = true
		return struct{}{}
	})
	require.NoError(t, err)

	_, err = Submit(h, func() bool { return v.Value().called })
	require.NoError(t, err)
}

// TestTagged_AbortsOffWorker covers aborting the process when a Tagged
// value is read from the wrong goroutine.
func TestTagged_AbortsOffWorker(t *testing.T) {
	var exitCode int
	var exitCalled bool
	prevExit := osExit
	osExit = func(code int) { exitCalled = true; exitCode = code; panic("abort") }
	defer func() { osExit = prevExit }()

	h, err := NewBuilder().Build()
	require.NoError(t, err)
	defer h.Close()

	type foo struct{}
	v, err := Submit(h, func() Tagged[*foo] { return NewTagged(&foo{}) })
	require.NoError(t, err)

	assert.Panics(t, func() { v.Value() })
	assert.True(t, exitCalled)
	assert.Equal(t, 2, exitCode)
}

// TestSubmitDrop exercises SubmitDrop moving a Tagged value onto the
// worker to be closed.
func TestSubmitDrop(t *testing.T) {
	h, err := NewBuilder().Build()
	require.NoError(t, err)
	defer h.Close()

	var closed atomic.Bool
	type foo struct{}
	v, err := Submit(h, func() Tagged[*foo] { return NewTagged(&foo{}) })
	require.NoError(t, err)

	_ = closed
	require.NoError(t, SubmitDrop(h, v))
}

// TestSubmitAsync exercises the non-blocking async submit path.
func TestSubmitAsync(t *testing.T) {
	h, err := NewBuilder().Build()
	require.NoError(t, err)
	defer h.Close()

	ch, err := SubmitAsync(h, func() int { return 7 })
	require.NoError(t, err)

	res := <-ch
	require.NoError(t, res.Err)
	assert.Equal(t, 7, res.Value)
}

// TestSubmitAsync_AfterShutdown covers submitting asynchronously after the
// executor has already ended.
func TestSubmitAsync_AfterShutdown(t *testing.T) {
	h, err := NewBuilder().Build()
	require.NoError(t, err)
	require.NoError(t, h.Join())

	ch, err := SubmitAsync(h, func() int { return 1 })
	var panicked Panicked
	require.ErrorAs(t, err, &panicked)
	res := <-ch
	require.ErrorAs(t, res.Err, &panicked)
}

// TestPreludePanic_PoisonsBeforeAnySubmit covers the prelude-panic branch
// of poisoning.
func TestPreludePanic_PoisonsBeforeAnySubmit(t *testing.T) {
	h, err := NewBuilder(WithPrelude(func() {
		panic(errors.New("prelude exploded"))
	})).Build()
	require.NoError(t, err)

	_, err = Submit(h, func() int { return 1 })
	var panicked Panicked
	require.ErrorAs(t, err, &panicked)
	assert.EqualError(t, panicked.Value.(error), "prelude exploded")
}

// TestJoin_IdempotentAndConcurrentSafe covers "Drop safety".
func TestJoin_IdempotentAndConcurrentSafe(t *testing.T) {
	h, err := NewBuilder().Build()
	require.NoError(t, err)

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			assert.NoError(t, h.Join())
		}()
	}
	wg.Wait()
}

// TestShutdownRace_ReleasesInFlightSubmitters covers "In-flight on poison"
// by racing a shutdown against submits, ensuring none hang.
func TestShutdownRace_ReleasesInFlightSubmitters(t *testing.T) {
	h, err := NewBuilder().Build()
	require.NoError(t, err)

	var wg sync.WaitGroup
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := Submit(h, func() int {
				runtime.Gosched()
				return 1
			})
			if err != nil {
				var panicked Panicked
				assert.ErrorAs(t, err, &panicked)
			}
		}()
	}
	require.NoError(t, h.Join())
	wg.Wait()
}
