// Package scheduler runs periodic background jobs on cron schedules.
package scheduler

import (
	"context"
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/robfig/cron/v3"

	"github.com/JordiMolto/MyMediaVerse/internal/config"
	"github.com/JordiMolto/MyMediaVerse/internal/enrich"
)

// EnrichSweepScheduler periodically enriches every item that still lacks
// core metadata. Sweeps run without a session, so they only touch the
// local store.
type EnrichSweepScheduler struct {
	engine *enrich.Engine
	lister enrich.MissingLister
	config config.EnrichSweep

	cron       *cron.Cron
	entryID    cron.EntryID
	mu         sync.RWMutex
	isRunning  bool
	isSweeping bool
	cancelFunc context.CancelFunc
}

// NewEnrichSweepScheduler creates a new scheduler instance.
func NewEnrichSweepScheduler(engine *enrich.Engine, lister enrich.MissingLister, cfg config.EnrichSweep) *EnrichSweepScheduler {
	return &EnrichSweepScheduler{
		engine: engine,
		lister: lister,
		config: cfg,
		cron:   cron.New(cron.WithParser(cron.NewParser(cron.Minute | cron.Hour | cron.Dom | cron.Month | cron.Dow))),
	}
}

// Start begins the scheduler if the sweep is enabled.
func (s *EnrichSweepScheduler) Start(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.isRunning {
		return nil
	}

	if !s.config.Enabled {
		log.Printf("Enrichment sweep scheduler: disabled")
		return nil
	}

	entryID, err := s.cron.AddFunc(s.config.Schedule, func() {
		s.runSweep()
	})
	if err != nil {
		return fmt.Errorf("invalid cron schedule '%s': %w", s.config.Schedule, err)
	}
	s.entryID = entryID

	var cancelCtx context.Context
	cancelCtx, s.cancelFunc = context.WithCancel(ctx)

	s.cron.Start()
	s.isRunning = true

	log.Printf("Enrichment sweep scheduler: started with schedule '%s'", s.config.Schedule)

	go func() {
		<-cancelCtx.Done()
		s.Stop()
	}()

	return nil
}

// Stop gracefully stops the scheduler, waiting for a running sweep.
func (s *EnrichSweepScheduler) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.isRunning {
		return
	}

	ctx := s.cron.Stop()
	<-ctx.Done()

	s.isRunning = false
	s.cancelFunc = nil

	log.Printf("Enrichment sweep scheduler: stopped")
}

// RunNow triggers an immediate sweep.
func (s *EnrichSweepScheduler) RunNow() {
	go s.runSweep()
}

// IsRunning reports whether the scheduler is active.
func (s *EnrichSweepScheduler) IsRunning() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.isRunning
}

// NextRunTime returns when the next sweep will occur.
func (s *EnrichSweepScheduler) NextRunTime() *time.Time {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if !s.isRunning {
		return nil
	}
	for _, entry := range s.cron.Entries() {
		if entry.ID == s.entryID {
			t := entry.Next
			return &t
		}
	}
	return nil
}

func (s *EnrichSweepScheduler) runSweep() {
	s.mu.Lock()
	if s.isSweeping {
		s.mu.Unlock()
		log.Printf("Enrichment sweep: skipped (already running)")
		return
	}
	s.isSweeping = true
	s.mu.Unlock()

	defer func() {
		s.mu.Lock()
		s.isSweeping = false
		s.mu.Unlock()
	}()

	start := time.Now()
	result, err := s.engine.EnrichAllMissing(context.Background(), s.lister)
	if err != nil {
		log.Printf("Enrichment sweep: failed after %v: %v", time.Since(start).Round(time.Second), err)
		return
	}

	log.Printf("Enrichment sweep: completed in %v (%d total, %d enriched, %d skipped, %d failed)",
		time.Since(start).Round(time.Second), result.Total, result.Succeeded, result.Skipped, result.Failed)
}
