package digest

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/robfig/cron/v3"

	"sragops/vigil/pkg/audit"
)

// Summarizer is the slice of the DecisionLogger the digest needs.
type Summarizer interface {
	Summary(ctx context.Context, since time.Time) (*audit.Summary, error)
}

// Config contains configuration for the digest scheduler.
type Config struct {
	// Schedule is a standard cron expression (e.g. "0 6 * * *" for daily
	// at 6 AM). Empty disables the digest.
	Schedule string

	// WindowHours is the trailing window each digest covers.
	// Default: 24
	WindowHours int
}

// Scheduler runs the audit digest job on a cron schedule.
type Scheduler struct {
	summarizer Summarizer
	config     Config
	cron       *cron.Cron
	logger     *slog.Logger

	mu      sync.Mutex
	running bool
}

// NewScheduler creates a digest scheduler.
func NewScheduler(summarizer Summarizer, config Config) *Scheduler {
	if config.WindowHours <= 0 {
		config.WindowHours = 24
	}
	return &Scheduler{
		summarizer: summarizer,
		config:     config,
		cron:       cron.New(),
		logger:     slog.Default().With("component", "audit.digest"),
	}
}

// Start begins scheduled digests. If no schedule is configured the
// scheduler does nothing. The scheduler stops when ctx is cancelled or
// Stop is called.
func (s *Scheduler) Start(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.config.Schedule == "" {
		s.logger.Info("digest schedule not configured, skipping scheduler")
		return nil
	}

	if _, err := cron.ParseStandard(s.config.Schedule); err != nil {
		return fmt.Errorf("invalid digest schedule %q: %w", s.config.Schedule, err)
	}

	if _, err := s.cron.AddFunc(s.config.Schedule, func() {
		s.runDigest(ctx)
	}); err != nil {
		return fmt.Errorf("failed to schedule digest: %w", err)
	}

	s.cron.Start()
	s.running = true

	s.logger.Info("audit digest scheduler started",
		"schedule", s.config.Schedule,
		"window_hours", s.config.WindowHours,
	)

	go func() {
		<-ctx.Done()
		s.Stop()
	}()

	return nil
}

// runDigest executes one digest cycle.
func (s *Scheduler) runDigest(ctx context.Context) {
	since := time.Now().UTC().Add(-time.Duration(s.config.WindowHours) * time.Hour)

	summary, err := s.summarizer.Summary(ctx, since)
	if err != nil {
		s.logger.Error("audit digest failed", "error", err)
		return
	}

	s.logger.Info("audit digest",
		"window_hours", s.config.WindowHours,
		"total_decisions", summary.TotalDecisions,
		"error_rate_percent", summary.ErrorRate,
		"decisions_by_type", summary.DecisionsByType,
	)
}

// Stop stops the scheduler and waits for any running job to complete.
func (s *Scheduler) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.cron != nil && s.running {
		ctx := s.cron.Stop()
		<-ctx.Done()
		s.running = false
		s.logger.Info("audit digest scheduler stopped")
	}
}

// IsRunning reports whether the scheduler is active.
func (s *Scheduler) IsRunning() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.running
}
