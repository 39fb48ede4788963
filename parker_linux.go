//go:build linux

package soloworker

import (
	"encoding/binary"

	"golang.org/x/sys/unix"
)

// idleWaker wakes the worker goroutine when it has found the queue empty
// and is about to block waiting for new work. Grounded on
// eventloop/wakeup_linux.go's createWakeFd: an eventfd is cheaper than a
// pipe (one fd, kernel-coalesced counter, no drain loop needed beyond a
// single read) for the same "wake a sleeper" purpose, just applied here to
// a single dedicated worker goroutine rather than an I/O poller.
type idleWaker struct {
	fd int
}

func newIdleWaker() (*idleWaker, error) {
	fd, err := unix.Eventfd(0, unix.EFD_CLOEXEC)
	if err != nil {
		return nil, err
	}
	return &idleWaker{fd: fd}, nil
}

// wake increments the eventfd counter, which is itself the coalescing
// mechanism: any number of wakes before the next read collapse into one
// readable event.
func (w *idleWaker) wake() {
	var buf [8]byte
	binary.NativeEndian.PutUint64(buf[:], 1)
	for {
		_, err := unix.Write(w.fd, buf[:])
		if err != unix.EINTR {
			return
		}
	}
}

// wait blocks until at least one wake has occurred since the last wait,
// consuming the eventfd's counter back to zero.
func (w *idleWaker) wait() {
	var buf [8]byte
	for {
		_, err := unix.Read(w.fd, buf[:])
		if err != unix.EINTR {
			return
		}
	}
}

func (w *idleWaker) close() error {
	return unix.Close(w.fd)
}
