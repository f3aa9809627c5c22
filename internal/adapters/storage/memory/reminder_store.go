package memory

import (
	"sync"

	"github.com/PabloGalante/organizer-agent/internal/domain"
)

// ReminderStore is a simple in-memory implementation of domain.ReminderStore.
// It is NOT persistent and is only suitable for development / local mode.
type ReminderStore struct {
	mu    sync.RWMutex
	fired map[string]struct{}
	log   []domain.Reminder
}

// NewReminderStore creates a new in-memory ReminderStore.
func NewReminderStore() *ReminderStore {
	return &ReminderStore{
		fired: make(map[string]struct{}),
	}
}

// RecordReminder saves r unless a reminder with the same key already fired.
// It reports whether r was new.
func (s *ReminderStore) RecordReminder(r domain.Reminder) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, seen := s.fired[r.Key]; seen {
		return false, nil
	}

	s.fired[r.Key] = struct{}{}
	s.log = append(s.log, r)

	return true, nil
}

// RecentReminders returns the last `limit` reminders, oldest first.
// If limit <= 0, returns all.
func (s *ReminderStore) RecentReminders(limit int) ([]domain.Reminder, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if limit <= 0 || limit > len(s.log) {
		limit = len(s.log)
	}

	start := len(s.log) - limit
	out := make([]domain.Reminder, limit)
	copy(out, s.log[start:])

	return out, nil
}
