package domain

import (
	"fmt"
	"math"
	"slices"
	"strconv"
	"strings"
	"time"
)

type TimeUnit string

const (
	UnitMinutes TimeUnit = "minutes"
	UnitHours   TimeUnit = "hours"
	UnitDays    TimeUnit = "days"
)

// ReminderCategory selects which preference applies to an item.
type ReminderCategory string

const (
	CategoryDeadlines ReminderCategory = "deadlines"
	CategoryEvents    ReminderCategory = "events"
)

// ParseReminderCategory maps blank input to deadlines.
func ParseReminderCategory(s string) (ReminderCategory, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "deadline", "deadlines", "assignments":
		return CategoryDeadlines, nil
	case "event", "events", "schedule":
		return CategoryEvents, nil
	default:
		return "", fmt.Errorf("unknown reminder category %q", s)
	}
}

// Units lists the units accepted for the category.
func (c ReminderCategory) Units() []TimeUnit {
	if c == CategoryEvents {
		return []TimeUnit{UnitMinutes, UnitHours, UnitDays}
	}
	return []TimeUnit{UnitHours, UnitDays}
}

// NotificationPreference says how long before an item it counts as soon.
type NotificationPreference struct {
	Amount float64  `json:"amount"`
	Unit   TimeUnit `json:"unit"`
}

// Validate checks the preference against the units of a category.
func (p NotificationPreference) Validate(c ReminderCategory) error {
	if math.IsNaN(p.Amount) || math.IsInf(p.Amount, 0) || p.Amount <= 0 {
		return fmt.Errorf("amount must be a positive number, got %v", p.Amount)
	}
	if !slices.Contains(c.Units(), p.Unit) {
		return fmt.Errorf("unit %q is not valid for %s", p.Unit, c)
	}
	return nil
}

// Threshold converts the preference to a duration.
func (p NotificationPreference) Threshold() time.Duration {
	var unit time.Duration
	switch p.Unit {
	case UnitMinutes:
		unit = time.Minute
	case UnitDays:
		unit = 24 * time.Hour
	default:
		unit = time.Hour
	}
	return time.Duration(p.Amount * float64(unit))
}

func (p NotificationPreference) String() string {
	return strconv.FormatFloat(p.Amount, 'f', -1, 64) + " " + string(p.Unit)
}

// DueSoon reports whether at falls within the preference's threshold from
// now. Items in the past are never due soon.
func DueSoon(now, at time.Time, p NotificationPreference) bool {
	remaining := at.Sub(now)
	if remaining < 0 {
		return false
	}
	return remaining <= p.Threshold()
}

// AssignmentDueSoon compares calendar days only: both sides are truncated
// to midnight in the due date's location.
func AssignmentDueSoon(now time.Time, a Assignment, p NotificationPreference) bool {
	loc := a.DueDate.Location()
	return DueSoon(Midnight(now.In(loc)), Midnight(a.DueDate), p)
}

// EventSoon compares the event's date and time against now.
func EventSoon(now time.Time, e ScheduleEvent, p NotificationPreference) bool {
	return DueSoon(now, e.At(), p)
}
