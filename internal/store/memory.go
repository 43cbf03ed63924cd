package store

import (
	"errors"
	"sort"
	"sync"
	"time"

	"github.com/i474232898/weather-destination-advisor/internal/weather"
)

var (
	// ErrNotFound is returned when no report is available for a given watch list.
	ErrNotFound = errors.New("no destination report for watch list")
)

// MemoryStore is a concurrency-safe in-memory implementation of weather.Store.
//
// Reports are kept per watch-list key and ordered by GeneratedAt, not by the
// order they were saved in: concurrent evaluations of the same watch list
// (scheduler and HTTP) may finish out of order.
type MemoryStore struct {
	mu sync.RWMutex

	// key: watch-list key, value: reports sorted by GeneratedAt
	reports map[string][]weather.BestDestinationReport

	maxHistory int           // max number of reports per watch list
	maxAge     time.Duration // max age relative to now

	now func() time.Time
}

// NewMemoryStore creates a new MemoryStore with optional limits.
// If maxHistory or maxAge is <= 0, it is treated as unlimited.
func NewMemoryStore(maxHistory int, maxAge time.Duration) *MemoryStore {
	return &MemoryStore{
		reports:    make(map[string][]weather.BestDestinationReport),
		maxHistory: maxHistory,
		maxAge:     maxAge,
		now:        time.Now,
	}
}

// SaveReport inserts a report in GeneratedAt order and enforces retention.
// A watch list whose reports all expire is forgotten.
func (s *MemoryStore) SaveReport(key string, report weather.BestDestinationReport) {
	s.mu.Lock()
	defer s.mu.Unlock()

	history := s.reports[key]

	// after any report with the same timestamp, so equal times keep save order
	i := sort.Search(len(history), func(i int) bool {
		return history[i].GeneratedAt.After(report.GeneratedAt)
	})
	history = append(history, weather.BestDestinationReport{})
	copy(history[i+1:], history[i:])
	history[i] = report

	history = s.retain(history)
	if len(history) == 0 {
		delete(s.reports, key)
		return
	}
	s.reports[key] = history
}

// retain drops the oldest reports beyond maxHistory and those older than maxAge.
func (s *MemoryStore) retain(history []weather.BestDestinationReport) []weather.BestDestinationReport {
	if s.maxHistory > 0 && len(history) > s.maxHistory {
		history = history[len(history)-s.maxHistory:]
	}
	if s.maxAge > 0 {
		cutoff := s.now().Add(-s.maxAge)
		history = history[firstAtOrAfter(history, cutoff):]
	}
	return history
}

// GetLatest returns the most recently generated report for a watch list.
func (s *MemoryStore) GetLatest(key string) (weather.BestDestinationReport, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	history := s.reports[key]
	if len(history) == 0 {
		return weather.BestDestinationReport{}, ErrNotFound
	}
	return history[len(history)-1], nil
}

// GetRange returns all reports for a watch list generated between from and to
// (inclusive), oldest first.
func (s *MemoryStore) GetRange(key string, from, to time.Time) ([]weather.BestDestinationReport, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	history := s.reports[key]
	lo := firstAtOrAfter(history, from)
	hi := sort.Search(len(history), func(i int) bool {
		return history[i].GeneratedAt.After(to)
	})
	if lo >= hi {
		return nil, ErrNotFound
	}

	out := make([]weather.BestDestinationReport, hi-lo)
	copy(out, history[lo:hi])
	return out, nil
}

func firstAtOrAfter(history []weather.BestDestinationReport, t time.Time) int {
	return sort.Search(len(history), func(i int) bool {
		return !history[i].GeneratedAt.Before(t)
	})
}
