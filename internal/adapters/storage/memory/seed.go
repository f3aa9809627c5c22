package memory

import (
	"fmt"

	"github.com/PabloGalante/organizer-agent/internal/domain"
)

// SeedDemo loads the demo group: one extra member, three assignments and
// two events. Useful for local runs; tests build their own data.
func (s *Store) SeedDemo() error {
	alice, _, err := s.AddMember("Alice")
	if err != nil {
		return fmt.Errorf("seed member: %w", err)
	}
	me := s.CurrentUserID()

	assignments := []struct {
		title     string
		due       string
		done      bool
		assignees []domain.MemberID
	}{
		{"Calculus Homework", "2024-09-15", false, []domain.MemberID{me}},
		{"History Essay Draft", "2024-09-20", true, []domain.MemberID{alice.ID}},
		{"Group Project Proposal", "2024-09-22", false, []domain.MemberID{me, alice.ID}},
	}
	for _, a := range assignments {
		due, err := domain.ParseDate(a.due, s.Location())
		if err != nil {
			return fmt.Errorf("seed assignment: %w", err)
		}
		created, err := s.AddAssignment(a.title, due, a.assignees)
		if err != nil {
			return fmt.Errorf("seed assignment: %w", err)
		}
		if a.done {
			s.ToggleAssignmentComplete(created.ID)
		}
	}

	events := []struct {
		title     string
		date      string
		at        string
		attendees []domain.MemberID
	}{
		{"Study Group for Physics", "2024-09-14", "15:00", []domain.MemberID{me, alice.ID}},
		{"Professor's Office Hours", "2024-09-16", "11:30", []domain.MemberID{me}},
	}
	for _, e := range events {
		date, err := domain.ParseDate(e.date, s.Location())
		if err != nil {
			return fmt.Errorf("seed event: %w", err)
		}
		clock, err := domain.ParseClock(e.at)
		if err != nil {
			return fmt.Errorf("seed event: %w", err)
		}
		if _, err := s.AddScheduleEvent(e.title, date, clock, e.attendees); err != nil {
			return fmt.Errorf("seed event: %w", err)
		}
	}

	return nil
}
