package domain_test

import (
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/PabloGalante/organizer-agent/internal/domain"
)

func mustDate(t *testing.T, s string) time.Time {
	t.Helper()
	d, err := domain.ParseDate(s, time.UTC)
	require.NoError(t, err)
	return d
}

func TestAssignmentDueSoon(t *testing.T) {
	pref := domain.NotificationPreference{Amount: 2, Unit: domain.UnitDays}
	now := mustDate(t, "2024-09-14").Add(15 * time.Hour)

	tests := []struct {
		due  string
		want bool
	}{
		{"2024-09-15", true},
		{"2024-09-16", true},
		{"2024-09-14", true},
		{"2024-09-20", false},
		{"2024-09-13", false},
	}

	for _, tt := range tests {
		t.Run(tt.due, func(t *testing.T) {
			a := domain.Assignment{DueDate: mustDate(t, tt.due)}
			assert.Equal(t, tt.want, domain.AssignmentDueSoon(now, a, pref))
		})
	}
}

func TestEventSoonUsesTimeOfDay(t *testing.T) {
	pref := domain.NotificationPreference{Amount: 30, Unit: domain.UnitMinutes}
	ev := domain.ScheduleEvent{
		Date: mustDate(t, "2024-09-14"),
		Time: domain.Clock{Hour: 15, Minute: 0},
	}

	assert.True(t, domain.EventSoon(ev.At().Add(-20*time.Minute), ev, pref))
	assert.False(t, domain.EventSoon(ev.At().Add(-45*time.Minute), ev, pref))
	assert.False(t, domain.EventSoon(ev.At().Add(time.Minute), ev, pref))
}

func TestNotificationPreferenceValidate(t *testing.T) {
	ok := domain.NotificationPreference{Amount: 3, Unit: domain.UnitHours}
	require.NoError(t, ok.Validate(domain.CategoryDeadlines))

	minutes := domain.NotificationPreference{Amount: 15, Unit: domain.UnitMinutes}
	assert.Error(t, minutes.Validate(domain.CategoryDeadlines))
	assert.NoError(t, minutes.Validate(domain.CategoryEvents))

	for _, amount := range []float64{0, -1, math.NaN(), math.Inf(1)} {
		p := domain.NotificationPreference{Amount: amount, Unit: domain.UnitDays}
		assert.Error(t, p.Validate(domain.CategoryDeadlines), "amount %v", amount)
	}
}

func TestThresholdAndString(t *testing.T) {
	p := domain.NotificationPreference{Amount: 1.5, Unit: domain.UnitHours}
	assert.Equal(t, 90*time.Minute, p.Threshold())
	assert.Equal(t, "1.5 hours", p.String())
}

func TestParseAssignmentFilter(t *testing.T) {
	f, err := domain.ParseAssignmentFilter("my")
	require.NoError(t, err)
	assert.Equal(t, domain.FilterMine, f)

	f, err = domain.ParseAssignmentFilter("")
	require.NoError(t, err)
	assert.Equal(t, domain.FilterAll, f)

	_, err = domain.ParseAssignmentFilter("yours")
	assert.Error(t, err)
}

func TestParseClock(t *testing.T) {
	c, err := domain.ParseClock("09:05")
	require.NoError(t, err)
	assert.Equal(t, "09:05", c.String())

	_, err = domain.ParseClock("25:00")
	assert.Error(t, err)
}
