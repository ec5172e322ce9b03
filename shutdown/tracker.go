// Package shutdown coordinates a graceful stop of a long-running command:
// in-flight renders are allowed to finish, cleanup hooks run in priority
// order, and a second interrupt forces the process out.
package shutdown

import (
	"errors"
	"sync"
	"time"
)

// ErrTrackerClosed is returned when an operation is started after shutdown began.
var ErrTrackerClosed = errors.New("shutdown: no new operations accepted")

// ErrWaitTimeout is returned when in-flight operations outlive the wait.
var ErrWaitTimeout = errors.New("shutdown: operations did not finish in time")

// OperationTracker counts in-flight operations. Once closed it rejects new
// ones while letting existing ones drain.
type OperationTracker struct {
	mu     sync.Mutex
	active int
	closed bool
	idle   chan struct{}
}

// NewOperationTracker returns an open tracker with nothing in flight.
func NewOperationTracker() *OperationTracker {
	idle := make(chan struct{})
	close(idle)
	return &OperationTracker{idle: idle}
}

// Start registers a new operation. It returns false once the tracker is
// closed; on true the caller must call Done exactly once.
func (t *OperationTracker) Start() bool {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.closed {
		return false
	}
	if t.active == 0 {
		t.idle = make(chan struct{})
	}
	t.active++
	return true
}

// Done marks one operation finished.
func (t *OperationTracker) Done() {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.active == 0 {
		return
	}
	t.active--
	if t.active == 0 {
		close(t.idle)
	}
}

// Wait blocks until nothing is in flight or timeout elapses.
func (t *OperationTracker) Wait(timeout time.Duration) error {
	t.mu.Lock()
	idle := t.idle
	t.mu.Unlock()

	timer := time.NewTimer(timeout)
	defer timer.Stop()

	select {
	case <-idle:
		return nil
	case <-timer.C:
		return ErrWaitTimeout
	}
}

// Close stops the tracker from accepting new operations.
func (t *OperationTracker) Close() {
	t.mu.Lock()
	t.closed = true
	t.mu.Unlock()
}

// Active returns the number of operations in flight.
func (t *OperationTracker) Active() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.active
}

// IsClosed reports whether Close has been called.
func (t *OperationTracker) IsClosed() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.closed
}
