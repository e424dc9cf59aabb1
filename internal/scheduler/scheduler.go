package scheduler

import (
	"context"
	"log"
	"time"

	"github.com/mwalton/price-tracker/internal/models"
)

// Tracker is the subset of the tracker service the scheduler drives
type Tracker interface {
	AddURL(ctx context.Context, url string) (*models.TrackedURL, bool, error)
	CheckAllPrices(ctx context.Context) (*models.CheckResult, error)
}

// Notifier consumes the result of a check cycle
type Notifier interface {
	NotifyChanges(result *models.CheckResult)
}

// Config holds the scheduler settings
type Config struct {
	Recurring bool
	Interval  time.Duration
	SeedURLs  []string
}

// Scheduler runs check-and-notify cycles: once at startup, and on a
// fixed interval when recurring mode is enabled. Cycles run strictly one
// at a time.
type Scheduler struct {
	tracker  Tracker
	notifier Notifier
	cfg      Config
}

// New creates a scheduler
func New(tracker Tracker, notifier Notifier, cfg Config) *Scheduler {
	return &Scheduler{
		tracker:  tracker,
		notifier: notifier,
		cfg:      cfg,
	}
}

// Run blocks until ctx is cancelled. The first cycle runs immediately;
// subsequent cycles fire on the configured interval if recurring mode is
// enabled, otherwise Run returns after the first cycle.
func (s *Scheduler) Run(ctx context.Context) {
	s.runCycle(ctx)

	if !s.cfg.Recurring {
		return
	}

	interval := s.cfg.Interval
	if interval <= 0 {
		interval = 12 * time.Hour
	}

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	log.Printf("Scheduler started, checking every %v", interval)

	for {
		select {
		case <-ctx.Done():
			log.Println("Scheduler stopping")
			return
		case <-ticker.C:
			s.runCycle(ctx)
		}
	}
}

// runCycle seeds the initial URL set, checks all prices and notifies.
// Seeding is idempotent: already-tracked URLs are a logged no-op inside
// AddURL.
func (s *Scheduler) runCycle(ctx context.Context) {
	log.Println("Checking prices...")

	for _, url := range s.cfg.SeedURLs {
		if _, _, err := s.tracker.AddURL(ctx, url); err != nil {
			log.Printf("Failed to add seed URL %s: %v", url, err)
		}
	}

	result, err := s.tracker.CheckAllPrices(ctx)
	if err != nil {
		log.Printf("Price check failed: %v", err)
		return
	}

	log.Printf("Found %d updates and %d new items", len(result.Updates), len(result.NewItems))
	log.Println("Notifying changes...")
	s.notifier.NotifyChanges(result)
}
