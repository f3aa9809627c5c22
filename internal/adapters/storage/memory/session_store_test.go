package memory_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/PabloGalante/organizer-agent/internal/adapters/storage/memory"
	"github.com/PabloGalante/organizer-agent/internal/domain"
)

func TestSessionStoreLifecycle(t *testing.T) {
	store := memory.NewSessionStore()
	now := time.Now()

	older := &domain.Session{ID: "s1", MemberID: "m1", CreatedAt: now.Add(-time.Hour)}
	newer := &domain.Session{ID: "s2", MemberID: "m1", CreatedAt: now}
	other := &domain.Session{ID: "s3", MemberID: "m2", CreatedAt: now}

	for _, s := range []*domain.Session{older, newer, other} {
		require.NoError(t, store.CreateSession(s))
	}
	assert.Error(t, store.CreateSession(older))

	got, err := store.ListSessionsByMember("m1", 0)
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, domain.SessionID("s2"), got[0].ID)

	got, err = store.ListSessionsByMember("m1", 1)
	require.NoError(t, err)
	assert.Len(t, got, 1)

	_, err = store.GetSession("missing")
	assert.ErrorIs(t, err, domain.ErrSessionNotFound)
	assert.ErrorIs(t, store.UpdateSession(&domain.Session{ID: "missing"}), domain.ErrSessionNotFound)
}

func TestTranscriptStoreSnapshotIsIsolated(t *testing.T) {
	store := memory.NewTranscriptStore()

	require.NoError(t, store.AppendEntry("s1", domain.TranscriptEntry{Role: domain.RoleUser, Text: "hi"}))
	snap, err := store.Transcript("s1")
	require.NoError(t, err)

	_ = append(snap, domain.TranscriptEntry{Role: domain.RoleAssistant, Text: "sneaky"})
	snap[0].Text = "changed"

	again, err := store.Transcript("s1")
	require.NoError(t, err)
	require.Len(t, again, 1)
	assert.Equal(t, "hi", again[0].Text)
}

func TestReminderStoreDeduplicates(t *testing.T) {
	store := memory.NewReminderStore()

	fresh, err := store.RecordReminder(domain.Reminder{Key: "a:1", Title: "Essay"})
	require.NoError(t, err)
	assert.True(t, fresh)

	fresh, err = store.RecordReminder(domain.Reminder{Key: "a:1", Title: "Essay"})
	require.NoError(t, err)
	assert.False(t, fresh)

	_, err = store.RecordReminder(domain.Reminder{Key: "e:2", Title: "Study"})
	require.NoError(t, err)

	recent, err := store.RecentReminders(1)
	require.NoError(t, err)
	require.Len(t, recent, 1)
	assert.Equal(t, "Study", recent[0].Title)

	all, err := store.RecentReminders(0)
	require.NoError(t, err)
	assert.Len(t, all, 2)
}
