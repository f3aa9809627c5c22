package memory

import (
	"slices"
	"strings"
	"time"

	"github.com/PabloGalante/organizer-agent/internal/domain"
)

// AddAssignment creates an incomplete assignment. Unknown assignee ids are
// dropped; an empty result defaults to the current user.
func (s *Store) AddAssignment(title string, due time.Time, assignees []domain.MemberID) (domain.Assignment, error) {
	title = strings.TrimSpace(title)
	if title == "" {
		return domain.Assignment{}, domain.Reject(domain.ErrInvalidAssignment, "An assignment needs a title.")
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	a := &domain.Assignment{
		ID:        domain.AssignmentID(domain.NewID()),
		Title:     title,
		DueDate:   domain.Midnight(due.In(s.opts.Location)),
		Assignees: s.knownMembersLocked(assignees),
	}
	s.assignments = append(s.assignments, a)

	return a.Clone(), nil
}

// UpdateAssignment edits title, due date and assignees in place.
func (s *Store) UpdateAssignment(id domain.AssignmentID, title string, due time.Time, assignees []domain.MemberID) (domain.Assignment, error) {
	title = strings.TrimSpace(title)
	if title == "" {
		return domain.Assignment{}, domain.Reject(domain.ErrInvalidAssignment, "An assignment needs a title.")
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	a := s.assignmentLocked(id)
	if a == nil {
		return domain.Assignment{}, domain.ErrAssignmentNotFound
	}
	a.Title = title
	a.DueDate = domain.Midnight(due.In(s.opts.Location))
	a.Assignees = s.knownMembersLocked(assignees)

	return a.Clone(), nil
}

// ToggleAssignmentComplete flips the completion flag. Unknown ids are a no-op.
func (s *Store) ToggleAssignmentComplete(id domain.AssignmentID) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if a := s.assignmentLocked(id); a != nil {
		a.Completed = !a.Completed
	}
}

// CompleteAssignmentByName marks the first assignment whose title matches
// (ignoring case) as complete and reports whether one was found.
func (s *Store) CompleteAssignmentByName(title string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, a := range s.assignments {
		if domain.SameName(a.Title, title) {
			a.Completed = true
			return true
		}
	}
	return false
}

// Assignment looks up an assignment by id.
func (s *Store) Assignment(id domain.AssignmentID) (domain.Assignment, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	a := s.assignmentLocked(id)
	if a == nil {
		return domain.Assignment{}, domain.ErrAssignmentNotFound
	}
	return a.Clone(), nil
}

// ListAssignments returns the filtered assignments ordered by due date,
// ties kept in insertion order.
func (s *Store) ListAssignments(filter domain.AssignmentFilter) []domain.Assignment {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]domain.Assignment, 0, len(s.assignments))
	for _, a := range s.assignments {
		if filter.Match(*a, s.currentUser) {
			out = append(out, a.Clone())
		}
	}
	slices.SortStableFunc(out, func(x, y domain.Assignment) int {
		return x.DueDate.Compare(y.DueDate)
	})
	return out
}

// DueSoonAssignments lists incomplete assignments inside the deadline
// threshold at now.
func (s *Store) DueSoonAssignments(now time.Time) []domain.Assignment {
	pref := s.NotificationPreference(domain.CategoryDeadlines)

	var out []domain.Assignment
	for _, a := range s.ListAssignments(domain.FilterAll) {
		if !a.Completed && domain.AssignmentDueSoon(now, a, pref) {
			out = append(out, a)
		}
	}
	return out
}

func (s *Store) assignmentLocked(id domain.AssignmentID) *domain.Assignment {
	i := slices.IndexFunc(s.assignments, func(a *domain.Assignment) bool { return a.ID == id })
	if i < 0 {
		return nil
	}
	return s.assignments[i]
}
