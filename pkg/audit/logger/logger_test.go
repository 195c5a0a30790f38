package logger

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"sragops/vigil/pkg/audit"
	"sragops/vigil/pkg/audit/storage"
)

func newTestLogger(t *testing.T) (*DecisionLogger, *storage.MemoryStorage) {
	t.Helper()

	store := storage.NewMemoryStorage()
	t.Cleanup(func() { store.Close() })
	return NewDecisionLogger(store, nil), store
}

func interpretationRecord() *audit.DecisionRecord {
	return &audit.DecisionRecord{
		DecisionType:    audit.TypeClinicalInterpretation,
		ActorRole:       "data_analyst",
		MetricType:      "mortality_rate",
		MetricValue:     15.5,
		ThresholdUsed:   10.0,
		Interpretation:  "Rate above threshold, requires review",
		ConfidenceScore: 0.9,
		Status:          audit.StatusRecorded,
	}
}

// TestLogDecision_AssignsIDAndTimestamp tests that the logger stamps both
// identity fields and that the stored record carries the caller's data.
func TestLogDecision_AssignsIDAndTimestamp(t *testing.T) {
	l, _ := newTestLogger(t)
	ctx := context.Background()

	before := time.Now().UTC()
	id, err := l.LogDecision(ctx, interpretationRecord())
	if err != nil {
		t.Fatalf("LogDecision() failed: %v", err)
	}
	if id == "" {
		t.Fatal("Expected a non-empty decision id")
	}

	results, err := l.History(ctx, 1)
	if err != nil {
		t.Fatalf("History() failed: %v", err)
	}
	if len(results) != 1 {
		t.Fatalf("Expected 1 record, got %d", len(results))
	}

	got := results[0]
	if got.DecisionID != id {
		t.Errorf("Expected stored id %q, got %q", id, got.DecisionID)
	}
	if got.Timestamp.Before(before) {
		t.Errorf("Timestamp %v predates the call at %v", got.Timestamp, before)
	}
	if got.Timestamp.Location() != time.UTC {
		t.Errorf("Expected UTC timestamp, got %v", got.Timestamp.Location())
	}
	if got.MetricValue != 15.5 || got.ConfidenceScore != 0.9 {
		t.Errorf("Caller fields not preserved: %+v", got)
	}
}

// TestLogDecision_CallerRecordUntouched tests that the caller's struct is
// not mutated by id and timestamp stamping.
func TestLogDecision_CallerRecordUntouched(t *testing.T) {
	l, _ := newTestLogger(t)

	record := interpretationRecord()
	if _, err := l.LogDecision(context.Background(), record); err != nil {
		t.Fatalf("LogDecision() failed: %v", err)
	}

	if record.DecisionID != "" {
		t.Errorf("Caller's DecisionID was mutated to %q", record.DecisionID)
	}
	if !record.Timestamp.IsZero() {
		t.Errorf("Caller's Timestamp was mutated to %v", record.Timestamp)
	}
}

// TestLogDecision_UniqueOrderedIDs tests id uniqueness and strictly
// monotonic timestamps under concurrent writers.
func TestLogDecision_UniqueOrderedIDs(t *testing.T) {
	l, _ := newTestLogger(t)
	ctx := context.Background()

	const writers = 20
	const perWriter = 10

	var wg sync.WaitGroup
	for i := 0; i < writers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < perWriter; j++ {
				if _, err := l.LogDecision(ctx, interpretationRecord()); err != nil {
					t.Errorf("LogDecision() failed: %v", err)
					return
				}
			}
		}()
	}
	wg.Wait()

	results, err := l.History(ctx, writers*perWriter)
	if err != nil {
		t.Fatalf("History() failed: %v", err)
	}
	if len(results) != writers*perWriter {
		t.Fatalf("Expected %d records, got %d", writers*perWriter, len(results))
	}

	seen := make(map[string]bool, len(results))
	for i, r := range results {
		if seen[r.DecisionID] {
			t.Fatalf("Duplicate decision id %q", r.DecisionID)
		}
		seen[r.DecisionID] = true

		// History is most recent first; timestamps strictly decrease.
		if i > 0 && !results[i-1].Timestamp.After(r.Timestamp) {
			t.Fatalf("Timestamps not strictly ordered at position %d: %v then %v",
				i, results[i-1].Timestamp, r.Timestamp)
		}
	}
}

// TestHistory_LimitHandling tests the default and the clamp.
func TestHistory_LimitHandling(t *testing.T) {
	l, _ := newTestLogger(t)
	ctx := context.Background()

	for i := 0; i < 5; i++ {
		if _, err := l.LogDecision(ctx, interpretationRecord()); err != nil {
			t.Fatalf("LogDecision() failed: %v", err)
		}
	}

	results, err := l.History(ctx, 0)
	if err != nil {
		t.Fatalf("History(0) failed: %v", err)
	}
	if len(results) != 5 {
		t.Errorf("History(0): expected all 5 records under default limit, got %d", len(results))
	}

	results, err = l.History(ctx, -3)
	if err != nil {
		t.Fatalf("History(-3) failed: %v", err)
	}
	if len(results) != 5 {
		t.Errorf("History(-3): expected default limit, got %d records", len(results))
	}

	results, err = l.History(ctx, 2)
	if err != nil {
		t.Fatalf("History(2) failed: %v", err)
	}
	if len(results) != 2 {
		t.Errorf("History(2): expected 2 records, got %d", len(results))
	}

	if _, err := l.History(ctx, MaxHistoryLimit+1); err != nil {
		t.Errorf("History above max should clamp, not fail: %v", err)
	}
}

// failingStorage always fails Store, for exercising the error path.
type failingStorage struct {
	audit.Storage
}

func (f *failingStorage) Store(ctx context.Context, record *audit.DecisionRecord) error {
	return audit.NewStorageError("test", "store", errors.New("disk full"))
}

// TestLogDecision_StorageError tests that a failed Store surfaces the error
// and returns no id.
func TestLogDecision_StorageError(t *testing.T) {
	l := NewDecisionLogger(&failingStorage{Storage: storage.NewMemoryStorage()}, nil)

	id, err := l.LogDecision(context.Background(), interpretationRecord())
	if err == nil {
		t.Fatal("Expected storage error to propagate")
	}
	if id != "" {
		t.Errorf("Expected empty id on failure, got %q", id)
	}

	var storageErr *audit.StorageError
	if !errors.As(err, &storageErr) {
		t.Errorf("Expected StorageError, got %T", err)
	}
}
