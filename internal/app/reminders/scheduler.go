package reminders

import (
	"context"
	"fmt"
	"time"

	"github.com/robfig/cron/v3"

	"github.com/PabloGalante/organizer-agent/internal/domain"
	"github.com/PabloGalante/organizer-agent/internal/observability"
)

// Publisher delivers fired reminders, e.g. to connected clients.
type Publisher interface {
	PublishReminder(r domain.Reminder)
}

// Scheduler runs Sweep on a cron schedule.
type Scheduler struct {
	cron *cron.Cron
	svc  *Service
	pub  Publisher
	now  func() time.Time
}

// NewScheduler registers the sweep under spec ("@every 1m", "*/5 * * * *").
// pub may be nil, in which case reminders are only logged.
func NewScheduler(svc *Service, pub Publisher, spec string) (*Scheduler, error) {
	s := &Scheduler{
		cron: cron.New(cron.WithChain(cron.SkipIfStillRunning(cron.DiscardLogger))),
		svc:  svc,
		pub:  pub,
		now:  time.Now,
	}
	if _, err := s.cron.AddFunc(spec, func() { s.Tick(context.Background()) }); err != nil {
		return nil, fmt.Errorf("schedule reminders %q: %w", spec, err)
	}
	return s, nil
}

// Run starts the schedule and blocks until ctx is done, then waits for a
// running sweep to finish.
func (s *Scheduler) Run(ctx context.Context) error {
	s.cron.Start()
	<-ctx.Done()
	<-s.cron.Stop().Done()
	return nil
}

// Tick runs one sweep and publishes what fired.
func (s *Scheduler) Tick(ctx context.Context) []domain.Reminder {
	log := observability.LoggerFromContext(ctx).With("component", "reminders")

	fired, err := s.svc.Sweep(ctx, s.now())
	if err != nil {
		log.Error("reminder sweep failed", "error", err)
	}
	for _, r := range fired {
		log.Info("reminder", "kind", r.Kind, "title", r.Title, "message", r.Message)
		if s.pub != nil {
			s.pub.PublishReminder(r)
		}
	}
	return fired
}
