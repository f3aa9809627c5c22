package memory

import (
	"cmp"
	"slices"
	"strings"
	"time"

	"github.com/PabloGalante/organizer-agent/internal/domain"
)

// AddScheduleEvent creates an event. Attendees follow the same defaulting
// rule as assignments.
func (s *Store) AddScheduleEvent(title string, date time.Time, at domain.Clock, attendees []domain.MemberID) (domain.ScheduleEvent, error) {
	title = strings.TrimSpace(title)
	if title == "" {
		return domain.ScheduleEvent{}, domain.Reject(domain.ErrInvalidEvent, "An event needs a title.")
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	e := &domain.ScheduleEvent{
		ID:        domain.EventID(domain.NewID()),
		Title:     title,
		Date:      domain.Midnight(date.In(s.opts.Location)),
		Time:      at,
		Attendees: s.knownMembersLocked(attendees),
	}
	s.events = append(s.events, e)

	return e.Clone(), nil
}

// UpdateScheduleEvent edits an event in place.
func (s *Store) UpdateScheduleEvent(id domain.EventID, title string, date time.Time, at domain.Clock, attendees []domain.MemberID) (domain.ScheduleEvent, error) {
	title = strings.TrimSpace(title)
	if title == "" {
		return domain.ScheduleEvent{}, domain.Reject(domain.ErrInvalidEvent, "An event needs a title.")
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	i := slices.IndexFunc(s.events, func(e *domain.ScheduleEvent) bool { return e.ID == id })
	if i < 0 {
		return domain.ScheduleEvent{}, domain.ErrEventNotFound
	}
	e := s.events[i]
	e.Title = title
	e.Date = domain.Midnight(date.In(s.opts.Location))
	e.Time = at
	e.Attendees = s.knownMembersLocked(attendees)

	return e.Clone(), nil
}

// RemoveScheduleEvent deletes an event and reports whether it existed.
func (s *Store) RemoveScheduleEvent(id domain.EventID) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	before := len(s.events)
	s.events = slices.DeleteFunc(s.events, func(e *domain.ScheduleEvent) bool { return e.ID == id })
	return len(s.events) != before
}

// RemoveScheduleEventByName deletes the first event whose title matches
// (ignoring case).
func (s *Store) RemoveScheduleEventByName(title string) (domain.ScheduleEvent, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	i := slices.IndexFunc(s.events, func(e *domain.ScheduleEvent) bool { return domain.SameName(e.Title, title) })
	if i < 0 {
		return domain.ScheduleEvent{}, false
	}
	removed := s.events[i].Clone()
	s.events = slices.Delete(s.events, i, i+1)
	return removed, true
}

// ListScheduleEvents returns every event ordered by date then time.
func (s *Store) ListScheduleEvents() []domain.ScheduleEvent {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]domain.ScheduleEvent, 0, len(s.events))
	for _, e := range s.events {
		out = append(out, e.Clone())
	}
	slices.SortStableFunc(out, compareEvents)
	return out
}

// UpcomingEvents lists events starting inside the events threshold at now.
func (s *Store) UpcomingEvents(now time.Time) []domain.ScheduleEvent {
	pref := s.NotificationPreference(domain.CategoryEvents)

	var out []domain.ScheduleEvent
	for _, e := range s.ListScheduleEvents() {
		if domain.EventSoon(now, e, pref) {
			out = append(out, e)
		}
	}
	return out
}

func compareEvents(x, y domain.ScheduleEvent) int {
	return cmp.Or(
		x.Date.Compare(y.Date),
		cmp.Compare(x.Time.Minutes(), y.Time.Minutes()),
	)
}
