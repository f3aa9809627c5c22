package memory

import (
	"fmt"

	"github.com/PabloGalante/organizer-agent/internal/domain"
)

// SetNotificationPreference replaces the active preference of a category
// and returns the confirmation shown to the user.
func (s *Store) SetNotificationPreference(c domain.ReminderCategory, amount float64, unit domain.TimeUnit) (string, error) {
	pref := domain.NotificationPreference{Amount: amount, Unit: unit}
	if err := pref.Validate(c); err != nil {
		return "", domain.Reject(domain.ErrInvalidPreference, invalidPreferenceText(c))
	}

	s.mu.Lock()
	s.prefs[c] = pref
	s.mu.Unlock()

	if c == domain.CategoryEvents {
		return fmt.Sprintf("Notification preference updated to %s before an event.", pref), nil
	}
	return fmt.Sprintf("Notification preference updated to %s before deadline.", pref), nil
}

// NotificationPreference returns the active preference of a category.
func (s *Store) NotificationPreference(c domain.ReminderCategory) domain.NotificationPreference {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.prefs[c]
}

func invalidPreferenceText(c domain.ReminderCategory) string {
	if c == domain.CategoryEvents {
		return "Invalid time unit or value. Please use a positive number of 'minutes', 'hours' or 'days'."
	}
	return "Invalid time unit or value. Please use 'days' or 'hours'."
}
