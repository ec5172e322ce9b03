package shutdown

import (
	"os"
	"sync"
	"syscall"

	"hashart/core"
)

// SignalCounter remembers the signals received so far. The first one asks
// for a graceful stop; reaching forceAfter calls onForce with the signal.
type SignalCounter struct {
	mu         sync.Mutex
	count      int
	first      os.Signal
	forceAfter int
	onForce    func(os.Signal)
}

// NewSignalCounter returns a counter that calls onForce (may be nil) when
// the forceAfter-th signal arrives.
func NewSignalCounter(forceAfter int, onForce func(os.Signal)) *SignalCounter {
	return &SignalCounter{forceAfter: forceAfter, onForce: onForce}
}

// Record counts sig and returns the new total.
func (s *SignalCounter) Record(sig os.Signal) int {
	s.mu.Lock()
	s.count++
	if s.count == 1 {
		s.first = sig
	}
	count := s.count
	force := s.onForce != nil && count >= s.forceAfter
	onForce := s.onForce
	s.mu.Unlock()

	if force {
		onForce(sig)
	}
	return count
}

// Count returns how many signals were recorded.
func (s *SignalCounter) Count() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.count
}

// First returns the signal that started shutdown, or nil.
func (s *SignalCounter) First() os.Signal {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.first
}

// SignalExitCode maps a signal to the conventional 128+n exit code.
// Anything that is not SIGTERM counts as an interrupt.
func SignalExitCode(sig os.Signal) int {
	if sig == syscall.SIGTERM {
		return core.ExitCodeSIGTERM
	}
	return core.ExitCodeSIGINT
}
