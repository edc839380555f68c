package scheduler

import (
	"context"
	"fmt"
	"time"

	"homework_status_bot/internal/app"

	"github.com/robfig/cron/v3"
	"github.com/sirupsen/logrus"
)

// PollScheduler drives a PollService: one poll, then a wait until the next
// activation of the schedule, forever. Polls never overlap.
type PollScheduler struct {
	service  app.PollService
	schedule cron.Schedule
	logger   *logrus.Entry
	now      func() time.Time
}

// NewPollScheduler parses spec as a standard cron expression or descriptor
// (e.g. "@every 10m", "*/10 * * * *").
func NewPollScheduler(service app.PollService, logger *logrus.Entry, spec string) (*PollScheduler, error) {
	schedule, err := cron.ParseStandard(spec)
	if err != nil {
		return nil, fmt.Errorf("invalid poll schedule %q: %w", spec, err)
	}
	return NewPollSchedulerWithSchedule(service, logger, schedule), nil
}

func NewPollSchedulerWithSchedule(service app.PollService, logger *logrus.Entry, schedule cron.Schedule) *PollScheduler {
	return &PollScheduler{
		service:  service,
		schedule: schedule,
		logger:   logger,
		now:      time.Now,
	}
}

// Run polls until ctx is cancelled and then returns ctx.Err().
// Failures inside a poll are handled by the service and never end the loop.
func (s *PollScheduler) Run(ctx context.Context) error {
	s.logger.Info("Starting poll loop")
	for {
		out := s.service.Poll(ctx)
		entry := s.logger.WithField("checkpoint", int64(out.Checkpoint))
		if out.Err != nil {
			entry = entry.WithField("failure", app.ClassifyFailure(out.Err))
		}
		entry.Debug("Poll cycle finished")

		if err := s.wait(ctx); err != nil {
			s.logger.Info("Poll loop stopped")
			return err
		}
	}
}

// wait sleeps until the next activation. It returns early with ctx.Err() on cancellation.
func (s *PollScheduler) wait(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	now := s.now()
	next := s.schedule.Next(now)
	d := next.Sub(now)
	if d < 0 {
		d = 0
	}
	s.logger.WithField("next_poll", next.Format(time.RFC3339)).Debug("Waiting for next poll")

	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
