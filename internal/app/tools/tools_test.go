package tools_test

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/PabloGalante/organizer-agent/internal/adapters/storage/memory"
	"github.com/PabloGalante/organizer-agent/internal/app/resolver"
	"github.com/PabloGalante/organizer-agent/internal/app/tools"
	"github.com/PabloGalante/organizer-agent/internal/domain"
)

type fixture struct {
	store    *memory.Store
	registry *tools.Registry
	tctx     tools.ToolContext
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	opts := memory.DefaultOptions()
	opts.Location = time.UTC
	store := memory.NewStore(opts)

	now, err := domain.ParseDate("2024-09-14", time.UTC)
	require.NoError(t, err)

	return &fixture{
		store:    store,
		registry: tools.NewOrganizerRegistry(store, resolver.New(store)),
		tctx:     tools.ToolContext{SessionID: "s1", Now: now.Add(9 * time.Hour)},
	}
}

func (f *fixture) exec(name string, args map[string]any) string {
	return f.registry.Execute(context.Background(), f.tctx, domain.ToolCall{Name: name, Args: args})
}

func TestSpecsCatalogue(t *testing.T) {
	f := newFixture(t)

	var names []string
	for _, s := range f.registry.Specs() {
		names = append(names, s.Name)
		assert.NotEmpty(t, s.Description, s.Name)
	}
	assert.Equal(t, []string{
		"addAssignment", "completeAssignment", "listAssignments",
		"addScheduleEvent", "listScheduleEvents", "removeScheduleEvent",
		"addMember", "removeMember", "getStudyTips", "addNotificationPreference",
	}, names)
}

func TestUnknownFunction(t *testing.T) {
	f := newFixture(t)
	assert.Equal(t, "Unknown function: summonHomework", f.exec("summonHomework", nil))
}

func TestCompleteAssignmentRoundTrip(t *testing.T) {
	f := newFixture(t)
	due, _ := domain.ParseDate("2024-12-01", time.UTC)
	a, err := f.store.AddAssignment("History Essay", due, nil)
	require.NoError(t, err)

	got := f.exec("completeAssignment", map[string]any{"name": "history essay"})
	assert.Contains(t, got, "history essay")
	assert.Contains(t, got, "complete")

	stored, err := f.store.Assignment(a.ID)
	require.NoError(t, err)
	assert.True(t, stored.Completed)
}

func TestCompleteAssignmentNotFoundLeavesStateAlone(t *testing.T) {
	f := newFixture(t)
	due, _ := domain.ParseDate("2024-12-01", time.UTC)
	_, err := f.store.AddAssignment("History Essay", due, nil)
	require.NoError(t, err)
	before := f.store.ListAssignments(domain.FilterAll)

	got := f.exec("completeAssignment", map[string]any{"name": "Chemistry"})
	assert.Equal(t, "Assignment 'Chemistry' not found.", got)
	assert.Equal(t, before, f.store.ListAssignments(domain.FilterAll))
}

func TestAddAssignmentResolvesAssignees(t *testing.T) {
	f := newFixture(t)
	alice, _, err := f.store.AddMember("Alice")
	require.NoError(t, err)

	got := f.exec("addAssignment", map[string]any{
		"name":      "history essay",
		"dueDate":   "2024-12-01",
		"assignees": []any{"alice"},
	})
	assert.Equal(t, "Successfully added assignment: history essay (due 2024-12-01, for Alice).", got)

	list := f.store.ListAssignments(domain.FilterAll)
	require.Len(t, list, 1)
	assert.Equal(t, "history essay", list[0].Title)
	assert.Equal(t, "2024-12-01", list[0].DueDate.Format(domain.DateLayout))
	assert.Equal(t, []domain.MemberID{alice.ID}, list[0].Assignees)
}

func TestAddAssignmentDefaultsAndNotesUnknownNames(t *testing.T) {
	f := newFixture(t)

	got := f.exec("addAssignment", map[string]any{
		"name":      "Lab",
		"dueDate":   "2024-12-01",
		"assignees": []any{"Bob"},
	})
	assert.Contains(t, got, "for Me")
	assert.Contains(t, got, "skipped")

	list := f.store.ListAssignments(domain.FilterAll)
	require.Len(t, list, 1)
	assert.Equal(t, []domain.MemberID{f.store.CurrentUserID()}, list[0].Assignees)
}

func TestAddAssignmentRejectsBadArguments(t *testing.T) {
	f := newFixture(t)

	tests := []struct {
		name string
		args map[string]any
		want string
	}{
		{"missing name", map[string]any{"dueDate": "2024-12-01"}, "Could not run addAssignment: missing or invalid 'name' (expected text)."},
		{"wrong type", map[string]any{"name": 42, "dueDate": "2024-12-01"}, "Could not run addAssignment: missing or invalid 'name' (expected text)."},
		{"bad assignees", map[string]any{"name": "x", "dueDate": "2024-12-01", "assignees": []any{1}}, "Could not run addAssignment: missing or invalid 'assignees' (expected a list of names)."},
		{"bad date", map[string]any{"name": "x", "dueDate": "next friday"}, "I couldn't understand the due date 'next friday'. Please use YYYY-MM-DD."},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, f.exec("addAssignment", tt.args))
		})
	}
	assert.Empty(t, f.store.ListAssignments(domain.FilterAll))
}

func TestListAssignmentsText(t *testing.T) {
	f := newFixture(t)
	require.NoError(t, f.store.SeedDemo())

	all := f.exec("listAssignments", map[string]any{})
	assert.Contains(t, all, "3 assignment(s) (filter: all)")
	assert.Contains(t, all, "- Calculus Homework: due 2024-09-15, not completed, due soon, for Me")
	assert.Contains(t, all, "- History Essay Draft: due 2024-09-20, completed, for Alice")

	mine := f.exec("listAssignments", map[string]any{"filter": "my"})
	assert.Contains(t, mine, "2 assignment(s) (filter: mine)")
	assert.NotContains(t, mine, "History Essay Draft")

	group := f.exec("listAssignments", map[string]any{"filter": "group"})
	assert.Contains(t, group, "- Group Project Proposal: due 2024-09-22, not completed, for Me and Alice")

	bad := f.exec("listAssignments", map[string]any{"filter": "theirs"})
	assert.Contains(t, bad, "Could not run listAssignments")
}

func TestScheduleTools(t *testing.T) {
	f := newFixture(t)

	got := f.exec("addScheduleEvent", map[string]any{"title": "Study Group", "date": "2024-09-14", "time": "15:00"})
	assert.Equal(t, "Successfully added event: Study Group (2024-09-14 at 15:00, for Me).", got)

	assert.Equal(t, "I couldn't understand the time '3pm'. Please use HH:MM.",
		f.exec("addScheduleEvent", map[string]any{"title": "x", "date": "2024-09-14", "time": "3pm"}))

	list := f.exec("listScheduleEvents", nil)
	assert.Contains(t, list, "1 event(s):")
	assert.Contains(t, list, "- Study Group: 2024-09-14 at 15:00, for Me")

	assert.Equal(t, "Successfully removed event: Study Group", f.exec("removeScheduleEvent", map[string]any{"title": "study group"}))
	assert.Equal(t, "The schedule is empty.", f.exec("listScheduleEvents", nil))
	assert.Equal(t, "Event 'Gym' not found.", f.exec("removeScheduleEvent", map[string]any{"title": "Gym"}))
}

func TestMemberTools(t *testing.T) {
	f := newFixture(t)

	assert.Equal(t, "Successfully added Alex to the group.", f.exec("addMember", map[string]any{"name": "Alex"}))
	assert.Equal(t, "alex is already in the group or the name is invalid.", f.exec("addMember", map[string]any{"name": "alex"}))
	assert.Len(t, f.store.Members(), 2)

	assert.Equal(t, "Member 'Jordan' not found.", f.exec("removeMember", map[string]any{"name": "Jordan"}))
	assert.Equal(t, "You can't remove yourself from the group.", f.exec("removeMember", map[string]any{"name": "me"}))
	assert.Equal(t, "Successfully removed Alex from the group.", f.exec("removeMember", map[string]any{"name": "ALEX"}))
	assert.Len(t, f.store.Members(), 1)
}

func TestNotificationPreferenceTool(t *testing.T) {
	f := newFixture(t)

	got := f.exec("addNotificationPreference", map[string]any{"timeValue": 3.0, "timeUnit": "Hours"})
	assert.Equal(t, "Notification preference updated to 3 hours before deadline.", got)

	got = f.exec("addNotificationPreference", map[string]any{"timeValue": json.Number("45"), "timeUnit": "minutes", "category": "events"})
	assert.Equal(t, "Notification preference updated to 45 minutes before an event.", got)

	got = f.exec("addNotificationPreference", map[string]any{"timeValue": 2, "timeUnit": "weeks"})
	assert.Equal(t, "Invalid time unit or value. Please use 'days' or 'hours'.", got)

	got = f.exec("addNotificationPreference", map[string]any{"timeValue": "soon", "timeUnit": "days"})
	assert.Equal(t, "Could not run addNotificationPreference: missing or invalid 'timeValue' (expected a number).", got)

	assert.Equal(t, domain.NotificationPreference{Amount: 3, Unit: domain.UnitHours},
		f.store.NotificationPreference(domain.CategoryDeadlines))
}

func TestStudyTips(t *testing.T) {
	f := newFixture(t)
	assert.Contains(t, f.exec("getStudyTips", map[string]any{"extra": true}), "Pomodoro")
}
