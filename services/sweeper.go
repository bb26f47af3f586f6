package services

import (
	"context"
	"sync"
	"time"

	"github.com/formgate/formgate-backend/internal/store"
	"github.com/formgate/formgate-backend/logger"
)

// Sweeper periodically removes submissions older than the retention window.
// The sweep is best-effort: an insert racing the boundary either survives to
// the next cycle or is swept, both acceptable.
type Sweeper struct {
	store    store.SubmissionStore
	interval time.Duration
	maxAge   time.Duration

	mu      sync.Mutex
	cancel  context.CancelFunc
	done    chan struct{}
	running bool
}

// NewSweeper creates a sweeper over the given store.
func NewSweeper(s store.SubmissionStore, interval, maxAge time.Duration) *Sweeper {
	return &Sweeper{
		store:    s,
		interval: interval,
		maxAge:   maxAge,
	}
}

// Start launches the background sweep loop. Calling Start on a running
// sweeper is a no-op.
func (s *Sweeper) Start() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.running {
		return
	}

	ctx, cancel := context.WithCancel(context.Background())
	s.cancel = cancel
	s.done = make(chan struct{})
	s.running = true

	go s.run(ctx)
	logger.GetLogger().Infow("Submission sweeper started",
		"interval", s.interval, "retention", s.maxAge)
}

// Stop terminates the loop and waits for the in-flight sweep to finish.
func (s *Sweeper) Stop() {
	s.mu.Lock()
	if !s.running {
		s.mu.Unlock()
		return
	}
	s.running = false
	cancel := s.cancel
	done := s.done
	s.mu.Unlock()

	cancel()
	<-done
}

func (s *Sweeper) run(ctx context.Context) {
	defer close(s.done)

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			s.SweepOnce(ctx)
		case <-ctx.Done():
			return
		}
	}
}

// SweepOnce performs a single sweep pass. Exposed so tests and operators can
// trigger a cycle without waiting for the ticker.
func (s *Sweeper) SweepOnce(ctx context.Context) {
	log := logger.GetLogger()

	removed, err := s.store.DeleteExpired(ctx, s.maxAge)
	if err != nil {
		log.Errorw("Submission sweep failed", "error", err)
		return
	}
	if removed > 0 {
		log.Infow("Expired submissions removed", "count", removed)
	}
}
