package domain

import (
	"fmt"
	"slices"
	"strings"
	"time"
)

// Assignment is a piece of coursework with a due date.
type Assignment struct {
	ID        AssignmentID `json:"id"`
	Title     string       `json:"title"`
	DueDate   time.Time    `json:"due_date"`
	Completed bool         `json:"completed"`
	Assignees []MemberID   `json:"assignees"`
}

// HasAssignee reports whether id is among the assignees.
func (a Assignment) HasAssignee(id MemberID) bool {
	return slices.Contains(a.Assignees, id)
}

// Clone returns a copy that shares no slices with a.
func (a Assignment) Clone() Assignment {
	a.Assignees = slices.Clone(a.Assignees)
	return a
}

type AssignmentFilter string

const (
	FilterAll   AssignmentFilter = "all"
	FilterMine  AssignmentFilter = "mine"
	FilterGroup AssignmentFilter = "group"
)

// ParseAssignmentFilter accepts "all", "mine" (or "my") and "group".
// Blank input means all.
func ParseAssignmentFilter(s string) (AssignmentFilter, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "all":
		return FilterAll, nil
	case "mine", "my":
		return FilterMine, nil
	case "group":
		return FilterGroup, nil
	default:
		return FilterAll, fmt.Errorf("unknown assignment filter %q (valid: all, mine, group)", s)
	}
}

// Match reports whether a passes the filter for the given current user.
func (f AssignmentFilter) Match(a Assignment, currentUser MemberID) bool {
	switch f {
	case FilterMine:
		return a.HasAssignee(currentUser)
	case FilterGroup:
		return len(a.Assignees) > 1
	default:
		return true
	}
}

// ParseDate parses a YYYY-MM-DD calendar date at midnight in loc.
func ParseDate(s string, loc *time.Location) (time.Time, error) {
	if loc == nil {
		loc = time.Local
	}
	t, err := time.ParseInLocation(DateLayout, strings.TrimSpace(s), loc)
	if err != nil {
		return time.Time{}, fmt.Errorf("parse date %q: %w", s, err)
	}
	return t, nil
}

// Midnight truncates t to the start of its calendar day in t's location.
func Midnight(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}
