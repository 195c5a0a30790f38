package ratelimit

import (
	"log/slog"
	"sync"
	"time"
)

// Quota configures the call budget for one operation type.
type Quota struct {
	// MaxCalls is the number of calls permitted per window.
	MaxCalls int

	// Window is the duration of the fixed window.
	Window time.Duration
}

// DefaultQuotas returns the quotas applied when none are configured.
func DefaultQuotas() map[string]Quota {
	return map[string]Quota{
		"database_query":        {MaxCalls: 3, Window: time.Minute},
		"generate_reports":      {MaxCalls: 5, Window: time.Hour},
		"record_interpretation": {MaxCalls: 30, Window: time.Minute},
	}
}

// Result contains the outcome of a rate limit check.
type Result struct {
	// Allowed indicates if the call is permitted.
	Allowed bool

	// Limit is the configured quota for the operation (0 = unlimited).
	Limit int

	// Remaining is how many calls remain in the current window.
	Remaining int

	// Reset is when the current window expires.
	Reset time.Time
}

type key struct {
	operation string
	actor     string
}

// window is the counter state for one (operation, actor) key.
// Mutated only by the Limiter under its lock.
type window struct {
	start time.Time
	count int
}

// Limiter tracks per-(operation, actor) call counts in fixed time windows
// and enforces the configured quotas.
//
// The check-and-increment for a key is one atomic step under the limiter
// lock; the lock is never held across I/O to the optional store's write
// queue. Window expiry resets the counter lazily on the next call.
type Limiter struct {
	quotas map[string]Quota
	store  *SQLiteStore

	mu      sync.Mutex
	windows map[key]*window

	logger *slog.Logger

	// Sweeper state
	sweepDone chan struct{}
	sweepOnce sync.Once
	wg        sync.WaitGroup
}

// NewLimiter creates a limiter with the given quotas. Nil quotas fall back
// to DefaultQuotas. A non-nil store seeds counters from persisted state so
// quotas survive restarts.
func NewLimiter(quotas map[string]Quota, store *SQLiteStore) *Limiter {
	if quotas == nil {
		quotas = DefaultQuotas()
	}

	l := &Limiter{
		quotas:    quotas,
		store:     store,
		windows:   make(map[key]*window),
		logger:    slog.Default().With("component", "guardrails.ratelimit"),
		sweepDone: make(chan struct{}),
	}

	if store != nil {
		states, err := store.Load()
		if err != nil {
			l.logger.Warn("failed to load persisted rate windows, starting empty", "error", err)
		} else {
			now := time.Now()
			for _, st := range states {
				q, ok := quotas[st.Operation]
				if !ok || now.Sub(st.WindowStart) >= q.Window {
					continue // unlimited or already expired
				}
				l.windows[key{st.Operation, st.Actor}] = &window{start: st.WindowStart, count: st.Count}
			}
			l.logger.Info("rate windows restored", "keys", len(l.windows))
		}
	}

	return l
}

// Check records one call for (operation, actor) and reports whether it is
// within quota. Calls beyond the quota are counted as denied, not added to
// the window.
func (l *Limiter) Check(operation, actor string) Result {
	q, limited := l.quotas[operation]
	if !limited || q.MaxCalls <= 0 {
		return Result{Allowed: true}
	}

	now := time.Now()
	k := key{operation, actor}

	l.mu.Lock()
	w, ok := l.windows[k]
	if !ok || now.Sub(w.start) >= q.Window {
		// New window, lazily replacing any expired one.
		w = &window{start: now}
		l.windows[k] = w
	}

	allowed := w.count < q.MaxCalls
	if allowed {
		w.count++
	}
	res := Result{
		Allowed:   allowed,
		Limit:     q.MaxCalls,
		Remaining: q.MaxCalls - w.count,
		Reset:     w.start.Add(q.Window),
	}
	snapshot := WindowState{Operation: operation, Actor: actor, WindowStart: w.start, Count: w.count}
	l.mu.Unlock()

	if allowed && l.store != nil {
		if err := l.store.Save(snapshot); err != nil {
			l.logger.Warn("failed to persist rate window", "operation", operation, "actor", actor, "error", err)
		}
	}

	return res
}

// Sweep removes windows that expired before now. Called by the background
// sweeper; exported for tests and manual compaction.
func (l *Limiter) Sweep() int {
	now := time.Now()

	l.mu.Lock()
	removed := 0
	for k, w := range l.windows {
		q, ok := l.quotas[k.operation]
		if !ok || now.Sub(w.start) >= q.Window {
			delete(l.windows, k)
			removed++
		}
	}
	l.mu.Unlock()

	if removed > 0 && l.store != nil {
		if err := l.store.Prune(now); err != nil {
			l.logger.Warn("failed to prune persisted rate windows", "error", err)
		}
	}

	return removed
}

// StartSweeper launches a background goroutine that sweeps expired windows
// every interval. The sweeper only bounds memory; correctness never depends
// on it because expiry is re-checked on every call.
func (l *Limiter) StartSweeper(interval time.Duration) {
	if interval <= 0 {
		return
	}

	l.wg.Add(1)
	go func() {
		defer l.wg.Done()
		ticker := time.NewTicker(interval)
		defer ticker.Stop()

		for {
			select {
			case <-l.sweepDone:
				return
			case <-ticker.C:
				if n := l.Sweep(); n > 0 {
					l.logger.Debug("swept expired rate windows", "removed", n)
				}
			}
		}
	}()
}

// Close stops the background sweeper and closes the attached store.
func (l *Limiter) Close() error {
	l.sweepOnce.Do(func() { close(l.sweepDone) })
	l.wg.Wait()

	if l.store != nil {
		return l.store.Close()
	}
	return nil
}
