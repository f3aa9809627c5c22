package domain

import "time"

type ReminderKind string

const (
	ReminderAssignment ReminderKind = "assignment"
	ReminderEvent      ReminderKind = "event"
)

// Reminder is a notice that an assignment is due soon or an event is
// about to happen.
type Reminder struct {
	// Key identifies the item and its due value, so a rescheduled item
	// fires again.
	Key     string       `json:"key"`
	Kind    ReminderKind `json:"kind"`
	ItemID  string       `json:"item_id"`
	Title   string       `json:"title"`
	At      time.Time    `json:"at"`
	Message string       `json:"message"`
	FiredAt time.Time    `json:"fired_at"`
}

// ReminderStore remembers which reminders already fired.
type ReminderStore interface {
	RecordReminder(r Reminder) (bool, error)
	RecentReminders(limit int) ([]Reminder, error)
}
