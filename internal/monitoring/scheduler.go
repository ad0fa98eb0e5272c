package monitoring

import (
	"context"
	"fmt"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/rs/zerolog/log"

	"github.com/Ngassaki-chadrack-sidney/prise-de-note/internal/services"
)

// Scheduler runs periodic note snapshots on a cron schedule.
type Scheduler struct {
	snapshotSvc services.SnapshotServiceProvider
	schedule    cron.Schedule
	nextRunAt   time.Time
	ticker      *time.Ticker
	done        chan bool
}

// NewScheduler creates a scheduler from a standard 5-field cron expression.
func NewScheduler(snapshotSvc services.SnapshotServiceProvider, cronExpr string) (*Scheduler, error) {
	schedule, err := cron.ParseStandard(cronExpr)
	if err != nil {
		return nil, fmt.Errorf("invalid snapshot cron expression %q: %w", cronExpr, err)
	}
	return &Scheduler{
		snapshotSvc: snapshotSvc,
		schedule:    schedule,
		nextRunAt:   schedule.Next(time.Now()),
		done:        make(chan bool),
	}, nil
}

// Run starts the scheduler's ticking loop.
func (s *Scheduler) Run() {
	log.Info().Time("next_run", s.nextRunAt).Msg("Starting snapshot scheduler...")
	s.ticker = time.NewTicker(1 * time.Minute)
	defer s.ticker.Stop()

	for {
		select {
		case <-s.done:
			log.Info().Msg("Stopping snapshot scheduler.")
			return
		case <-s.ticker.C:
			s.runDueTask()
		}
	}
}

// Stop halts the scheduler.
func (s *Scheduler) Stop() {
	s.done <- true
}

func (s *Scheduler) runDueTask() {
	now := time.Now()
	if now.Before(s.nextRunAt) {
		return
	}
	s.nextRunAt = s.schedule.Next(now)

	log.Info().Msg("Scheduler: running snapshots for all users")
	if err := s.snapshotSvc.SnapshotAllUsers(context.Background()); err != nil {
		log.Error().Err(err).Msg("Scheduler: snapshot run failed")
	}
}
