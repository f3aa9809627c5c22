package domain

import (
	"fmt"
	"slices"
	"strings"
	"time"
)

// Clock is a local time of day with minute precision.
type Clock struct {
	Hour   int
	Minute int
}

// ParseClock parses HH:MM (24h).
func ParseClock(s string) (Clock, error) {
	t, err := time.Parse(ClockLayout, strings.TrimSpace(s))
	if err != nil {
		return Clock{}, fmt.Errorf("parse time %q: %w", s, err)
	}
	return Clock{Hour: t.Hour(), Minute: t.Minute()}, nil
}

func (c Clock) String() string {
	return fmt.Sprintf("%02d:%02d", c.Hour, c.Minute)
}

// Minutes returns the minutes since midnight.
func (c Clock) Minutes() int {
	return c.Hour*60 + c.Minute
}

func (c Clock) MarshalText() ([]byte, error) {
	return []byte(c.String()), nil
}

func (c *Clock) UnmarshalText(b []byte) error {
	parsed, err := ParseClock(string(b))
	if err != nil {
		return err
	}
	*c = parsed
	return nil
}

// ScheduleEvent is a dated, timed happening for some members.
type ScheduleEvent struct {
	ID        EventID    `json:"id"`
	Title     string     `json:"title"`
	Date      time.Time  `json:"date"`
	Time      Clock      `json:"time"`
	Attendees []MemberID `json:"attendees"`
}

// At combines the event's date and clock in the date's location.
func (e ScheduleEvent) At() time.Time {
	y, m, d := e.Date.Date()
	return time.Date(y, m, d, e.Time.Hour, e.Time.Minute, 0, 0, e.Date.Location())
}

func (e ScheduleEvent) HasAttendee(id MemberID) bool {
	return slices.Contains(e.Attendees, id)
}

func (e ScheduleEvent) Clone() ScheduleEvent {
	e.Attendees = slices.Clone(e.Attendees)
	return e
}
