// Package reminders turns due-soon assignments and upcoming events into
// one-shot notices.
package reminders

import (
	"context"
	"fmt"
	"time"

	"github.com/dustin/go-humanize"

	"github.com/PabloGalante/organizer-agent/internal/domain"
	"github.com/PabloGalante/organizer-agent/internal/observability"
)

// Source is the read side of the Domain Store the sweep needs.
type Source interface {
	DueSoonAssignments(now time.Time) []domain.Assignment
	UpcomingEvents(now time.Time) []domain.ScheduleEvent
}

// Service holds the logic of finding reminders that have not fired yet.
type Service struct {
	source Source
	store  domain.ReminderStore
}

// NewService creates a reminder service from a Source and a ReminderStore.
func NewService(source Source, store domain.ReminderStore) *Service {
	return &Service{source: source, store: store}
}

// Sweep returns the reminders that became due at now and were not fired
// before. An item fires once per due value, so a rescheduled item fires
// again.
func (s *Service) Sweep(ctx context.Context, now time.Time) ([]domain.Reminder, error) {
	var candidates []domain.Reminder

	for _, a := range s.source.DueSoonAssignments(now) {
		candidates = append(candidates, domain.Reminder{
			Key:     fmt.Sprintf("assignment:%s:%s", a.ID, a.DueDate.Format(domain.DateLayout)),
			Kind:    domain.ReminderAssignment,
			ItemID:  string(a.ID),
			Title:   a.Title,
			At:      a.DueDate,
			Message: assignmentMessage(now, a),
			FiredAt: now,
		})
	}
	for _, e := range s.source.UpcomingEvents(now) {
		at := e.At()
		candidates = append(candidates, domain.Reminder{
			Key:     fmt.Sprintf("event:%s:%s", e.ID, at.Format(time.RFC3339)),
			Kind:    domain.ReminderEvent,
			ItemID:  string(e.ID),
			Title:   e.Title,
			At:      at,
			Message: fmt.Sprintf("%s starts %s (%s at %s).", e.Title, humanize.RelTime(at, now, "ago", "from now"), e.Date.Format(domain.DateLayout), e.Time),
			FiredAt: now,
		})
	}

	var fired []domain.Reminder
	for _, r := range candidates {
		fresh, err := s.store.RecordReminder(r)
		if err != nil {
			return fired, fmt.Errorf("record reminder %s: %w", r.Key, err)
		}
		if fresh {
			fired = append(fired, r)
		}
	}

	if len(fired) > 0 {
		observability.LoggerFromContext(ctx).Info("reminders fired", "count", len(fired))
	}
	return fired, nil
}

// Recent returns the last limit reminders, oldest first. If limit <= 0 a
// reasonable default is used.
func (s *Service) Recent(limit int) ([]domain.Reminder, error) {
	if limit <= 0 {
		limit = 20
	}
	return s.store.RecentReminders(limit)
}

func assignmentMessage(now time.Time, a domain.Assignment) string {
	today := domain.Midnight(now.In(a.DueDate.Location()))
	due := domain.Midnight(a.DueDate)

	var when string
	switch days := int(due.Sub(today).Hours() / 24); days {
	case 0:
		when = "today"
	case 1:
		when = "tomorrow"
	default:
		when = humanize.RelTime(due, today, "ago", "from now")
	}
	return fmt.Sprintf("%s is due %s (%s).", a.Title, when, a.DueDate.Format(domain.DateLayout))
}
