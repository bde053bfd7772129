package hotkey

import (
	"sync"
	"time"
)

// commandQueue hands register and reset requests from any goroutine to the
// event loop. pending, reset and resetDone are guarded by mu; wake carries at
// most one outstanding signal.
type commandQueue struct {
	mu        sync.Mutex
	pending   []HotKey
	reset     bool
	resetDone chan struct{}

	wake chan struct{}
}

func newCommandQueue() *commandQueue {
	return &commandQueue{wake: make(chan struct{}, 1)}
}

func (q *commandQueue) push(h HotKey) {
	q.mu.Lock()
	q.pending = append(q.pending, h)
	q.mu.Unlock()
	q.signal()
}

// requestReset sets the reset flag and returns a channel closed once the loop
// has cleared every grab. Registrations still queued are discarded.
func (q *commandQueue) requestReset() <-chan struct{} {
	q.mu.Lock()
	q.pending = nil
	q.reset = true
	if q.resetDone == nil {
		q.resetDone = make(chan struct{})
	}
	done := q.resetDone
	q.mu.Unlock()
	q.signal()
	return done
}

// clear drops queued registrations without involving the loop.
func (q *commandQueue) clear() {
	q.mu.Lock()
	q.pending = nil
	q.mu.Unlock()
}

func (q *commandQueue) signal() {
	select {
	case q.wake <- struct{}{}:
	default:
	}
}

// service runs the pending reset and registrations in FIFO order while
// holding the lock.
func (q *commandQueue) service(revokeAll func(), install func(HotKey)) {
	q.mu.Lock()
	defer q.mu.Unlock()

	if q.reset {
		revokeAll()
		q.reset = false
		close(q.resetDone)
		q.resetDone = nil
	}

	for len(q.pending) > 0 {
		h := q.pending[0]
		q.pending[0] = HotKey{}
		q.pending = q.pending[1:]
		install(h)
	}
}

// wait blocks until a request is signalled, d elapses or stop is closed.
// It returns false when stop is closed.
func (q *commandQueue) wait(d time.Duration, stop <-chan struct{}) bool {
	timer := time.NewTimer(d)
	defer timer.Stop()

	select {
	case <-stop:
		return false
	case <-q.wake:
	case <-timer.C:
	}
	return true
}
