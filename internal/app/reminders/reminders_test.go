package reminders

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"

	"github.com/PabloGalante/organizer-agent/internal/adapters/storage/memory"
	"github.com/PabloGalante/organizer-agent/internal/domain"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

var sweepNow = time.Date(2024, 9, 14, 14, 15, 0, 0, time.UTC)

func seededStore(t *testing.T) *memory.Store {
	t.Helper()
	opts := memory.DefaultOptions()
	opts.Location = time.UTC
	store := memory.NewStore(opts)
	require.NoError(t, store.SeedDemo())
	return store
}

func TestSweepFiresOncePerDueValue(t *testing.T) {
	ctx := context.Background()
	store := seededStore(t)
	svc := NewService(store, memory.NewReminderStore())

	fired, err := svc.Sweep(ctx, sweepNow)
	require.NoError(t, err)
	require.Len(t, fired, 2)

	assert.Equal(t, domain.ReminderAssignment, fired[0].Kind)
	assert.Equal(t, "Calculus Homework is due tomorrow (2024-09-15).", fired[0].Message)
	assert.Equal(t, domain.ReminderEvent, fired[1].Kind)
	assert.Equal(t, "Study Group for Physics starts 45 minutes from now (2024-09-14 at 15:00).", fired[1].Message)

	again, err := svc.Sweep(ctx, sweepNow.Add(time.Minute))
	require.NoError(t, err)
	assert.Empty(t, again)

	// Rescheduling makes the assignment fire again.
	calculus := store.ListAssignments(domain.FilterMine)[0]
	require.Equal(t, "Calculus Homework", calculus.Title)
	due, err := domain.ParseDate("2024-09-16", time.UTC)
	require.NoError(t, err)
	_, err = store.UpdateAssignment(calculus.ID, calculus.Title, due, calculus.Assignees)
	require.NoError(t, err)

	again, err = svc.Sweep(ctx, sweepNow.Add(2*time.Minute))
	require.NoError(t, err)
	require.Len(t, again, 1)
	assert.Equal(t, "Calculus Homework is due 2 days from now (2024-09-16).", again[0].Message)

	recent, err := svc.Recent(0)
	require.NoError(t, err)
	assert.Len(t, recent, 3)
}

func TestSweepSkipsCompletedAndRespectsPreference(t *testing.T) {
	ctx := context.Background()
	store := seededStore(t)
	_, err := store.SetNotificationPreference(domain.CategoryDeadlines, 12, domain.UnitHours)
	require.NoError(t, err)
	_, err = store.SetNotificationPreference(domain.CategoryEvents, 30, domain.UnitMinutes)
	require.NoError(t, err)

	svc := NewService(store, memory.NewReminderStore())
	fired, err := svc.Sweep(ctx, sweepNow)
	require.NoError(t, err)
	assert.Empty(t, fired)
}

type recordingPublisher struct {
	mu  sync.Mutex
	got []domain.Reminder
}

func (p *recordingPublisher) PublishReminder(r domain.Reminder) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.got = append(p.got, r)
}

func TestSchedulerTickPublishes(t *testing.T) {
	pub := &recordingPublisher{}
	sched, err := NewScheduler(NewService(seededStore(t), memory.NewReminderStore()), pub, "@every 1m")
	require.NoError(t, err)
	sched.now = func() time.Time { return sweepNow }

	fired := sched.Tick(context.Background())
	assert.Len(t, fired, 2)
	assert.Len(t, pub.got, 2)

	assert.Empty(t, sched.Tick(context.Background()))
	assert.Len(t, pub.got, 2)
}

func TestSchedulerRunStopsWithContext(t *testing.T) {
	sched, err := NewScheduler(NewService(seededStore(t), memory.NewReminderStore()), nil, "@every 1h")
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- sched.Run(ctx) }()

	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("scheduler did not stop")
	}
}

func TestNewSchedulerRejectsBadSpec(t *testing.T) {
	_, err := NewScheduler(NewService(seededStore(t), memory.NewReminderStore()), nil, "every so often")
	assert.Error(t, err)
}
