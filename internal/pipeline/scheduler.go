package pipeline

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/robfig/cron/v3"

	"github.com/manchete-hq/manchete-harvester/internal/config"
	"github.com/manchete-hq/manchete-harvester/internal/logger"
)

// Scheduler runs every configured source once at startup and then on a
// fixed interval. Each cycle runs on its own goroutine, so a slow or
// failing source never delays another; cron does not wait for a
// previous cycle of the same source either.
type Scheduler struct {
	orch     *Orchestrator
	sources  []config.Source
	interval time.Duration
	log      logger.Logger

	cron    *cron.Cron
	wg      sync.WaitGroup
	stopped atomic.Bool
}

// NewScheduler builds a scheduler over the orchestrator.
func NewScheduler(orch *Orchestrator, sources []config.Source, interval time.Duration, log logger.Logger) *Scheduler {
	return &Scheduler{
		orch:     orch,
		sources:  sources,
		interval: interval,
		log:      logger.Ensure(log),
	}
}

// Start kicks off an immediate cycle for every source and registers
// the recurring schedule. It returns once the schedule is installed.
func (s *Scheduler) Start(ctx context.Context) error {
	if len(s.sources) == 0 {
		return fmt.Errorf("no sources configured")
	}

	for _, src := range s.sources {
		s.launch(ctx, src)
	}

	s.cron = cron.New()
	spec := fmt.Sprintf("@every %s", s.interval)
	for _, src := range s.sources {
		src := src
		if _, err := s.cron.AddFunc(spec, func() { s.launch(ctx, src) }); err != nil {
			return fmt.Errorf("schedule source %s: %w", src.Name, err)
		}
	}
	s.cron.Start()

	s.log.InfoObj("scheduler started", "scheduler_started", map[string]any{
		"sources":  len(s.sources),
		"interval": s.interval.String(),
	})
	return nil
}

// launch runs one source cycle on its own goroutine. After Stop no new
// cycle is admitted; in-flight ones run to completion.
func (s *Scheduler) launch(ctx context.Context, src config.Source) {
	if s.stopped.Load() || ctx.Err() != nil {
		return
	}

	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		// a feed failure here is already logged and isolated; other
		// sources proceed regardless
		_, _ = s.orch.RunCycle(ctx, src)
	}()
}

// Stop prevents new cycles and waits for in-flight ones, bounded by
// the given context.
func (s *Scheduler) Stop(ctx context.Context) error {
	s.stopped.Store(true)
	if s.cron != nil {
		s.cron.Stop()
	}

	done := make(chan struct{})
	go func() {
		s.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		s.log.InfoObj("scheduler stopped", "scheduler_stopped", nil)
		return nil
	case <-ctx.Done():
		return fmt.Errorf("shutdown wait: %w", ctx.Err())
	}
}
