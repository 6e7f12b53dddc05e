package scheduler

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/robfig/cron/v3"

	"BtcPulse/internal/usecase"
	"BtcPulse/pkg/logger"
)

// Scheduler drives periodic refresh cycles. The cron wrapper skips a tick
// when the previous run is still going, and the coordinator rejects overlap
// on its own as well, so a slow cycle never stacks.
type Scheduler struct {
	cron     *cron.Cron
	coord    *usecase.RefreshCoordinator
	log      *logger.Logger
	interval time.Duration
}

func New(coord *usecase.RefreshCoordinator, log *logger.Logger, interval time.Duration) *Scheduler {
	return &Scheduler{
		cron:     cron.New(cron.WithChain(cron.SkipIfStillRunning(cron.DiscardLogger))),
		coord:    coord,
		log:      log.With(logger.String("component", "scheduler")),
		interval: interval,
	}
}

// Start runs an immediate first cycle, then schedules recurring ones. The
// first cycle is synchronous so the HTTP API has data as soon as possible
// after boot.
func (s *Scheduler) Start(ctx context.Context) error {
	if _, err := s.coord.RunCycle(ctx); err != nil {
		// First cycle failing is not fatal; the API answers 503 until a
		// later cycle publishes.
		s.log.Error("initial refresh failed", logger.Error(err))
	}

	schedule := fmt.Sprintf("@every %s", s.interval)
	_, err := s.cron.AddFunc(schedule, func() {
		if _, err := s.coord.RunCycle(ctx); err != nil {
			if errors.Is(err, usecase.ErrCycleInFlight) {
				s.log.Warn("refresh still running, tick skipped")
				return
			}
			s.log.Error("refresh failed", logger.Error(err))
		}
	})
	if err != nil {
		return fmt.Errorf("schedule refresh: %w", err)
	}

	s.cron.Start()
	s.log.Info("refresh scheduled", logger.Duration("interval", s.interval))
	return nil
}

// Stop halts scheduling and waits for any running cycle to finish.
func (s *Scheduler) Stop() {
	ctx := s.cron.Stop()
	<-ctx.Done()
	s.log.Info("scheduler stopped")
}
