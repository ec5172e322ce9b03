package db

import (
	"sync"
	"sync/atomic"
	"time"
)

// DefaultQueueCapacity is the default buffer size for queued records.
const DefaultQueueCapacity = 100

// DefaultDrainTimeout bounds how long Close waits for queued records.
const DefaultDrainTimeout = 30 * time.Second

// WriteHandler persists one record.
type WriteHandler func(rec RenderRecord) error

// AsyncWriter moves history inserts off the render path: records are queued
// on a buffered channel and written by one background goroutine.
//
// Usage:
//
//	repo := NewRepository(database)
//	writer := NewAsyncWriter(repo.WriteHandler(), DefaultQueueCapacity)
//	writer.Start()
//	defer writer.Close(DefaultDrainTimeout)
//
//	repo = repo.WithAsyncWriter(writer)
type AsyncWriter struct {
	queue   chan RenderRecord
	handler WriteHandler
	wg      sync.WaitGroup

	mu      sync.RWMutex
	started bool
	closed  bool

	written atomic.Int64
	failed  atomic.Int64
	onError func(RenderRecord, error)
}

// NewAsyncWriter creates a stopped writer. capacity <= 0 uses the default.
func NewAsyncWriter(handler WriteHandler, capacity int) *AsyncWriter {
	if capacity <= 0 {
		capacity = DefaultQueueCapacity
	}
	return &AsyncWriter{
		queue:   make(chan RenderRecord, capacity),
		handler: handler,
	}
}

// OnError registers a callback for failed writes. Call before Start.
func (w *AsyncWriter) OnError(fn func(RenderRecord, error)) {
	w.onError = fn
}

// Start launches the background goroutine. Subsequent calls are no-ops.
func (w *AsyncWriter) Start() {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.started || w.closed {
		return
	}
	w.started = true
	w.wg.Add(1)
	go w.run()
}

func (w *AsyncWriter) run() {
	defer w.wg.Done()

	for rec := range w.queue {
		if err := w.handler(rec); err != nil {
			w.failed.Add(1)
			if w.onError != nil {
				w.onError(rec, err)
			}
			continue
		}
		w.written.Add(1)
	}
}

// Write queues rec without blocking. It returns false when the queue is
// full or the writer has been closed.
func (w *AsyncWriter) Write(rec RenderRecord) bool {
	w.mu.RLock()
	defer w.mu.RUnlock()

	if w.closed {
		return false
	}
	select {
	case w.queue <- rec:
		return true
	default:
		return false
	}
}

// Close stops accepting records and waits up to timeout for the queue to
// drain. It returns false on timeout.
func (w *AsyncWriter) Close(timeout time.Duration) bool {
	w.mu.Lock()
	if w.closed {
		w.mu.Unlock()
		return true
	}
	w.closed = true
	close(w.queue)
	started := w.started
	w.mu.Unlock()

	if !started {
		return true
	}

	done := make(chan struct{})
	go func() {
		w.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		return true
	case <-time.After(timeout):
		return false
	}
}

// IsStarted reports whether the writer is running and accepting records.
func (w *AsyncWriter) IsStarted() bool {
	w.mu.RLock()
	defer w.mu.RUnlock()
	return w.started && !w.closed
}

// Pending returns the number of queued records.
func (w *AsyncWriter) Pending() int {
	return len(w.queue)
}

// Written returns how many records were persisted.
func (w *AsyncWriter) Written() int64 {
	return w.written.Load()
}

// Failed returns how many records the handler rejected.
func (w *AsyncWriter) Failed() int64 {
	return w.failed.Load()
}
