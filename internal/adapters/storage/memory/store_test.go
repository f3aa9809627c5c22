package memory_test

import (
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/PabloGalante/organizer-agent/internal/adapters/storage/memory"
	"github.com/PabloGalante/organizer-agent/internal/domain"
)

func newTestStore(t *testing.T) *memory.Store {
	t.Helper()
	opts := memory.DefaultOptions()
	opts.Location = time.UTC
	return memory.NewStore(opts)
}

func date(t *testing.T, s string) time.Time {
	t.Helper()
	d, err := domain.ParseDate(s, time.UTC)
	require.NoError(t, err)
	return d
}

func TestNewStoreHasCurrentUser(t *testing.T) {
	s := newTestStore(t)

	members := s.Members()
	require.Len(t, members, 1)
	assert.Equal(t, s.CurrentUserID(), members[0].ID)
	assert.Equal(t, "Me", members[0].Name)
	assert.Equal(t, "me@university.edu", members[0].Email)
}

func TestAddMemberDistinctNames(t *testing.T) {
	s := newTestStore(t)

	names := []string{"Alice", "Bob", "Chen Li", "Dana"}
	for _, n := range names {
		m, msg, err := s.AddMember(n)
		require.NoError(t, err)
		assert.Equal(t, n, m.Name)
		assert.Equal(t, fmt.Sprintf("Successfully added %s to the group.", n), msg)
		assert.NotEmpty(t, m.AvatarURL)
	}

	assert.Len(t, s.Members(), len(names)+1)
}

func TestAddMemberRejectsDuplicateIgnoringCase(t *testing.T) {
	s := newTestStore(t)

	_, _, err := s.AddMember("Alice")
	require.NoError(t, err)

	_, msg, err := s.AddMember("alice")
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrInvalidMember)
	assert.Empty(t, msg)
	assert.Equal(t, "alice is already in the group or the name is invalid.", err.Error())
	assert.Len(t, s.Members(), 2)
}

func TestAddMemberRejectsBlank(t *testing.T) {
	s := newTestStore(t)

	_, _, err := s.AddMember("   ")
	assert.ErrorIs(t, err, domain.ErrInvalidMember)
	assert.Len(t, s.Members(), 1)
}

func TestRemoveMemberCascades(t *testing.T) {
	s := newTestStore(t)
	me := s.CurrentUserID()
	alice, _, err := s.AddMember("Alice")
	require.NoError(t, err)
	bob, _, err := s.AddMember("Bob")
	require.NoError(t, err)

	shared, err := s.AddAssignment("Lab report", date(t, "2024-10-01"), []domain.MemberID{me, alice.ID, bob.ID})
	require.NoError(t, err)
	solo, err := s.AddAssignment("Alice essay", date(t, "2024-10-02"), []domain.MemberID{alice.ID})
	require.NoError(t, err)
	ev, err := s.AddScheduleEvent("Study", date(t, "2024-10-03"), domain.Clock{Hour: 10}, []domain.MemberID{alice.ID, bob.ID})
	require.NoError(t, err)

	msg, err := s.RemoveMember(alice.ID)
	require.NoError(t, err)
	assert.Equal(t, "Successfully removed Alice from the group.", msg)

	for _, a := range s.ListAssignments(domain.FilterAll) {
		assert.False(t, a.HasAssignee(alice.ID), "assignment %q still lists Alice", a.Title)
		assert.NotEmpty(t, a.Assignees)
	}
	for _, e := range s.ListScheduleEvents() {
		assert.False(t, e.HasAttendee(alice.ID))
	}

	got, err := s.Assignment(shared.ID)
	require.NoError(t, err)
	assert.Equal(t, []domain.MemberID{me, bob.ID}, got.Assignees)

	// Alice was the only assignee: falls back to the current user.
	got, err = s.Assignment(solo.ID)
	require.NoError(t, err)
	assert.Equal(t, []domain.MemberID{me}, got.Assignees)

	events := s.ListScheduleEvents()
	require.Len(t, events, 1)
	assert.Equal(t, ev.ID, events[0].ID)
	assert.Equal(t, []domain.MemberID{bob.ID}, events[0].Attendees)
}

func TestRemoveMemberUnknownAndSelf(t *testing.T) {
	s := newTestStore(t)

	_, err := s.RemoveMember("nope")
	assert.ErrorIs(t, err, domain.ErrMemberNotFound)

	_, err = s.RemoveMember(s.CurrentUserID())
	assert.ErrorIs(t, err, domain.ErrCurrentUser)
	assert.Len(t, s.Members(), 1)
}

func TestUpdateMember(t *testing.T) {
	s := newTestStore(t)
	_, _, err := s.AddMember("Alice")
	require.NoError(t, err)

	m, err := s.UpdateMember(s.CurrentUserID(), "Sam", "sam@school.edu")
	require.NoError(t, err)
	assert.Equal(t, "Sam", m.Name)
	assert.Equal(t, "sam@school.edu", m.Email)

	_, err = s.UpdateMember(s.CurrentUserID(), "ALICE", "")
	assert.ErrorIs(t, err, domain.ErrInvalidMember)
}

func TestAddAssignmentDefaultsToCurrentUser(t *testing.T) {
	s := newTestStore(t)

	a, err := s.AddAssignment("Essay", date(t, "2024-12-01"), nil)
	require.NoError(t, err)
	assert.Equal(t, []domain.MemberID{s.CurrentUserID()}, a.Assignees)
	assert.False(t, a.Completed)
	assert.NotEmpty(t, a.ID)

	b, err := s.AddAssignment("Other", date(t, "2024-12-01"), []domain.MemberID{"ghost"})
	require.NoError(t, err)
	assert.Equal(t, []domain.MemberID{s.CurrentUserID()}, b.Assignees)
	assert.NotEqual(t, a.ID, b.ID)
}

func TestListAssignmentsFilters(t *testing.T) {
	s := newTestStore(t)
	me := s.CurrentUserID()
	alice, _, err := s.AddMember("Alice")
	require.NoError(t, err)

	_, err = s.AddAssignment("Mine", date(t, "2024-09-15"), []domain.MemberID{me})
	require.NoError(t, err)
	_, err = s.AddAssignment("Hers", date(t, "2024-09-20"), []domain.MemberID{alice.ID})
	require.NoError(t, err)
	_, err = s.AddAssignment("Ours", date(t, "2024-09-22"), []domain.MemberID{me, alice.ID})
	require.NoError(t, err)

	all := s.ListAssignments(domain.FilterAll)
	mine := s.ListAssignments(domain.FilterMine)
	group := s.ListAssignments(domain.FilterGroup)

	assert.Len(t, all, 3)
	for _, a := range mine {
		assert.True(t, a.HasAssignee(me))
		assert.Contains(t, all, a)
	}
	for _, a := range group {
		assert.Greater(t, len(a.Assignees), 1)
		assert.Contains(t, all, a)
	}
	assert.Equal(t, []string{"Mine", "Ours"}, titles(mine))
	assert.Equal(t, []string{"Ours"}, titles(group))
}

func TestListAssignmentsOrderedByDueDateStable(t *testing.T) {
	s := newTestStore(t)

	for _, tc := range []struct{ title, due string }{
		{"late", "2024-11-01"},
		{"first tie", "2024-10-01"},
		{"early", "2024-09-01"},
		{"second tie", "2024-10-01"},
	} {
		_, err := s.AddAssignment(tc.title, date(t, tc.due), nil)
		require.NoError(t, err)
	}

	assert.Equal(t, []string{"early", "first tie", "second tie", "late"}, titles(s.ListAssignments(domain.FilterAll)))
}

func TestToggleAndCompleteByName(t *testing.T) {
	s := newTestStore(t)
	a, err := s.AddAssignment("History Essay", date(t, "2024-12-01"), nil)
	require.NoError(t, err)

	s.ToggleAssignmentComplete(a.ID)
	got, _ := s.Assignment(a.ID)
	assert.True(t, got.Completed)

	s.ToggleAssignmentComplete(a.ID)
	got, _ = s.Assignment(a.ID)
	assert.False(t, got.Completed)

	s.ToggleAssignmentComplete("missing")

	assert.True(t, s.CompleteAssignmentByName("history ESSAY"))
	got, _ = s.Assignment(a.ID)
	assert.True(t, got.Completed)

	assert.False(t, s.CompleteAssignmentByName("History"))
}

func TestScheduleEventsOrderedByDateAndTime(t *testing.T) {
	s := newTestStore(t)

	add := func(title, d string, h, m int) {
		_, err := s.AddScheduleEvent(title, date(t, d), domain.Clock{Hour: h, Minute: m}, nil)
		require.NoError(t, err)
	}
	add("afternoon", "2024-09-14", 15, 0)
	add("next day", "2024-09-15", 8, 0)
	add("morning", "2024-09-14", 9, 30)

	var got []string
	for _, e := range s.ListScheduleEvents() {
		got = append(got, e.Title)
		assert.Equal(t, []domain.MemberID{s.CurrentUserID()}, e.Attendees)
	}
	assert.Equal(t, []string{"morning", "afternoon", "next day"}, got)
}

func TestRemoveScheduleEvent(t *testing.T) {
	s := newTestStore(t)
	e, err := s.AddScheduleEvent("Office Hours", date(t, "2024-09-16"), domain.Clock{Hour: 11, Minute: 30}, nil)
	require.NoError(t, err)
	_, err = s.AddScheduleEvent("Study Group", date(t, "2024-09-17"), domain.Clock{Hour: 11, Minute: 30}, nil)
	require.NoError(t, err)

	assert.True(t, s.RemoveScheduleEvent(e.ID))
	assert.False(t, s.RemoveScheduleEvent(e.ID))

	removed, ok := s.RemoveScheduleEventByName("study group")
	require.True(t, ok)
	assert.Equal(t, "Study Group", removed.Title)
	assert.Empty(t, s.ListScheduleEvents())
}

func TestSetNotificationPreference(t *testing.T) {
	s := newTestStore(t)

	msg, err := s.SetNotificationPreference(domain.CategoryDeadlines, 3, domain.UnitHours)
	require.NoError(t, err)
	assert.Equal(t, "Notification preference updated to 3 hours before deadline.", msg)
	assert.Equal(t, domain.NotificationPreference{Amount: 3, Unit: domain.UnitHours}, s.NotificationPreference(domain.CategoryDeadlines))

	_, err = s.SetNotificationPreference(domain.CategoryDeadlines, -1, domain.UnitDays)
	assert.ErrorIs(t, err, domain.ErrInvalidPreference)
	_, err = s.SetNotificationPreference(domain.CategoryDeadlines, 5, domain.UnitMinutes)
	assert.ErrorIs(t, err, domain.ErrInvalidPreference)
	assert.Equal(t, domain.NotificationPreference{Amount: 3, Unit: domain.UnitHours}, s.NotificationPreference(domain.CategoryDeadlines))

	msg, err = s.SetNotificationPreference(domain.CategoryEvents, 15, domain.UnitMinutes)
	require.NoError(t, err)
	assert.Equal(t, "Notification preference updated to 15 minutes before an event.", msg)
}

func TestDueSoonAssignmentsSkipsCompleted(t *testing.T) {
	s := newTestStore(t)
	now := date(t, "2024-09-14")

	soon, err := s.AddAssignment("soon", date(t, "2024-09-15"), nil)
	require.NoError(t, err)
	done, err := s.AddAssignment("done", date(t, "2024-09-15"), nil)
	require.NoError(t, err)
	s.ToggleAssignmentComplete(done.ID)
	_, err = s.AddAssignment("later", date(t, "2024-09-20"), nil)
	require.NoError(t, err)
	_, err = s.AddAssignment("past", date(t, "2024-09-13"), nil)
	require.NoError(t, err)

	got := s.DueSoonAssignments(now)
	require.Len(t, got, 1)
	assert.Equal(t, soon.ID, got[0].ID)
}

func TestSeedDemo(t *testing.T) {
	s := newTestStore(t)
	require.NoError(t, s.SeedDemo())

	assert.Len(t, s.Members(), 2)
	assert.Len(t, s.ListAssignments(domain.FilterAll), 3)
	assert.Len(t, s.ListAssignments(domain.FilterGroup), 1)
	assert.Len(t, s.ListScheduleEvents(), 2)
}

func titles(as []domain.Assignment) []string {
	out := make([]string, 0, len(as))
	for _, a := range as {
		out = append(out, a.Title)
	}
	return out
}
