package metrics

import (
	"sync"
	"time"
)

// DefaultHistoryCapacity is how many records Recent can return.
const DefaultHistoryCapacity = 100

type formatStats struct {
	count    int64
	bytes    int64
	total    time.Duration
	min, max time.Duration
}

// Store is the in-memory Collector. Recent records live in a ring buffer;
// totals cover every record ever seen.
type Store struct {
	mu  sync.RWMutex
	now func() time.Time

	ring []RenderRecord
	head int
	size int

	total, succeeded, failed, skipped int64
	bytes                             int64
	byFormat                          map[string]*formatStats

	started time.Time
}

// NewStore returns a Store keeping up to capacity recent records
// (DefaultHistoryCapacity when capacity < 1).
func NewStore(capacity int) *Store {
	return newStore(capacity, time.Now)
}

func newStore(capacity int, now func() time.Time) *Store {
	if capacity < 1 {
		capacity = DefaultHistoryCapacity
	}
	return &Store{
		now:      now,
		ring:     make([]RenderRecord, capacity),
		byFormat: make(map[string]*formatStats),
		started:  now(),
	}
}

// Record adds rec. A zero At is stamped with the current time.
func (s *Store) Record(rec RenderRecord) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if rec.At.IsZero() {
		rec.At = s.now()
	}
	s.ring[s.head] = rec
	s.head = (s.head + 1) % len(s.ring)
	if s.size < len(s.ring) {
		s.size++
	}

	s.total++
	switch rec.Status {
	case StatusOK:
		s.succeeded++
		s.bytes += rec.Bytes
		s.addFormat(rec)
	case StatusSkipped:
		s.skipped++
	default:
		s.failed++
	}
}

func (s *Store) addFormat(rec RenderRecord) {
	st, ok := s.byFormat[rec.Format]
	if !ok {
		st = &formatStats{min: rec.Duration, max: rec.Duration}
		s.byFormat[rec.Format] = st
	}
	st.count++
	st.bytes += rec.Bytes
	st.total += rec.Duration
	if rec.Duration < st.min {
		st.min = rec.Duration
	}
	if rec.Duration > st.max {
		st.max = rec.Duration
	}
}

// Summary aggregates the records seen so far.
func (s *Store) Summary() Summary {
	s.mu.RLock()
	defer s.mu.RUnlock()

	sum := Summary{
		Total:     s.total,
		Succeeded: s.succeeded,
		Failed:    s.failed,
		Skipped:   s.skipped,
		Bytes:     s.bytes,
		Elapsed:   s.now().Sub(s.started),
		ByFormat:  make(map[string]*FormatSummary, len(s.byFormat)),
	}
	for format, st := range s.byFormat {
		sum.ByFormat[format] = &FormatSummary{
			Count:       st.count,
			Bytes:       st.bytes,
			AvgDuration: st.total / time.Duration(st.count),
			MinDuration: st.min,
			MaxDuration: st.max,
		}
	}
	return sum
}

// Recent returns up to limit records, oldest first.
func (s *Store) Recent(limit int) []RenderRecord {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if limit <= 0 || s.size == 0 {
		return []RenderRecord{}
	}
	if limit > s.size {
		limit = s.size
	}

	out := make([]RenderRecord, limit)
	n := len(s.ring)
	for i := 0; i < limit; i++ {
		out[i] = s.ring[(s.head-limit+i+n)%n]
	}
	return out
}

// Failures returns the recent records that did not succeed.
func (s *Store) Failures() []RenderRecord {
	var out []RenderRecord
	for _, rec := range s.Recent(len(s.ring)) {
		if rec.Status == StatusFailed {
			out = append(out, rec)
		}
	}
	return out
}

var _ Collector = (*Store)(nil)
