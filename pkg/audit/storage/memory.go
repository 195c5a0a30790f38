package storage

import (
	"context"
	"sort"
	"sync"
	"time"

	"sragops/vigil/pkg/audit"
)

// MemoryStorage implements audit.Storage using an in-memory slice.
// Intended for tests and the CLI demo; records do not survive the process.
type MemoryStorage struct {
	mu      sync.RWMutex
	records []*audit.DecisionRecord
	byID    map[string]struct{}
}

// NewMemoryStorage creates a new in-memory storage backend.
func NewMemoryStorage() *MemoryStorage {
	return &MemoryStorage{
		byID: make(map[string]struct{}),
	}
}

// Store persists a decision record to memory. Duplicate ids are rejected,
// matching the SQLite backend's primary key behavior.
func (s *MemoryStorage) Store(ctx context.Context, record *audit.DecisionRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.byID[record.DecisionID]; exists {
		return audit.NewStorageError("memory", "store",
			&duplicateIDError{id: record.DecisionID})
	}

	// Copy so later caller mutation cannot reach the stored record.
	recordCopy := *record
	s.records = append(s.records, &recordCopy)
	s.byID[record.DecisionID] = struct{}{}

	return nil
}

// History returns up to limit records, most recent first.
func (s *MemoryStorage) History(ctx context.Context, limit int) ([]*audit.DecisionRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	results := make([]*audit.DecisionRecord, 0, len(s.records))
	for _, r := range s.records {
		recordCopy := *r
		results = append(results, &recordCopy)
	}

	sort.Slice(results, func(i, j int) bool {
		if !results[i].Timestamp.Equal(results[j].Timestamp) {
			return results[i].Timestamp.After(results[j].Timestamp)
		}
		return results[i].DecisionID > results[j].DecisionID
	})

	if limit > 0 && limit < len(results) {
		results = results[:limit]
	}

	return results, nil
}

// Summary aggregates all records with Timestamp >= since.
func (s *MemoryStorage) Summary(ctx context.Context, since time.Time) (*audit.Summary, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	summary := &audit.Summary{DecisionsByType: map[string]int{}}
	errorCount := 0

	for _, r := range s.records {
		if r.Timestamp.Before(since) {
			continue
		}
		summary.TotalDecisions++
		summary.DecisionsByType[r.DecisionType]++
		if r.Status == audit.StatusError {
			errorCount++
		}
	}

	if summary.TotalDecisions > 0 {
		summary.ErrorRate = 100 * float64(errorCount) / float64(summary.TotalDecisions)
	}

	return summary, nil
}

// Count returns the total number of stored records.
func (s *MemoryStorage) Count(ctx context.Context) (int64, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return int64(len(s.records)), nil
}

// Close is a no-op for the memory backend.
func (s *MemoryStorage) Close() error {
	return nil
}

type duplicateIDError struct {
	id string
}

func (e *duplicateIDError) Error() string {
	return "duplicate decision id " + e.id
}
