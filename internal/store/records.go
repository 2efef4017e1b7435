package store

import (
	"errors"
	"sync"
	"time"

	"github.com/akorchev/weather-notify/internal/forecast"
)

var (
	// ErrNotFound is returned when no record is available for a location.
	ErrNotFound = errors.New("no forecast record for location")
)

// recordHistory holds a time-ordered list of forecast records for one city.
type recordHistory struct {
	Records []forecast.ForecastRecord
}

// MemoryStore is a concurrency-safe in-memory implementation of the record
// store. Each day's run appends a fresh record; older records age out by
// count and age.
type MemoryStore struct {
	mu sync.RWMutex

	// key: location key, value: history
	data map[string]*recordHistory

	maxHistory int           // max number of records per location (0 = unlimited)
	maxAge     time.Duration // max age of records (0 = unlimited)
}

// NewMemoryStore creates a new MemoryStore with optional limits.
func NewMemoryStore(maxHistory int, maxAge time.Duration) *MemoryStore {
	return &MemoryStore{
		data:       make(map[string]*recordHistory),
		maxHistory: maxHistory,
		maxAge:     maxAge,
	}
}

// SaveRecord appends a record for a location and enforces retention.
func (s *MemoryStore) SaveRecord(loc forecast.Location, rec forecast.ForecastRecord) {
	key := loc.Key()

	s.mu.Lock()
	defer s.mu.Unlock()

	history, ok := s.data[key]
	if !ok {
		history = &recordHistory{}
		s.data[key] = history
	}

	history.Records = append(history.Records, rec)

	if s.maxHistory > 0 && len(history.Records) > s.maxHistory {
		over := len(history.Records) - s.maxHistory
		history.Records = history.Records[over:]
	}

	if s.maxAge > 0 {
		cutoff := time.Now().Add(-s.maxAge)
		i := 0
		for ; i < len(history.Records); i++ {
			if !history.Records[i].CreatedAt.Before(cutoff) {
				break
			}
		}
		if i > 0 && i < len(history.Records) {
			history.Records = history.Records[i:]
		}
	}
}

// Latest returns the most recent record for a location.
func (s *MemoryStore) Latest(loc forecast.Location) (forecast.ForecastRecord, error) {
	key := loc.Key()

	s.mu.RLock()
	defer s.mu.RUnlock()

	history, ok := s.data[key]
	if !ok || len(history.Records) == 0 {
		return forecast.ForecastRecord{}, ErrNotFound
	}
	return history.Records[len(history.Records)-1], nil
}

// Range returns all records for a location whose date falls between from
// and to (inclusive).
func (s *MemoryStore) Range(loc forecast.Location, from, to time.Time) ([]forecast.ForecastRecord, error) {
	key := loc.Key()

	s.mu.RLock()
	defer s.mu.RUnlock()

	history, ok := s.data[key]
	if !ok || len(history.Records) == 0 {
		return nil, ErrNotFound
	}

	var result []forecast.ForecastRecord
	for _, rec := range history.Records {
		if !rec.Date.Before(from) && !rec.Date.After(to) {
			result = append(result, rec)
		}
	}

	if len(result) == 0 {
		return nil, ErrNotFound
	}
	return result, nil
}
