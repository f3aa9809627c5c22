package tools

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/PabloGalante/organizer-agent/internal/app/resolver"
	"github.com/PabloGalante/organizer-agent/internal/domain"
)

// Organizer is the part of the Domain Store the tools drive.
type Organizer interface {
	Location() *time.Location
	CurrentUserID() domain.MemberID
	Members() []domain.Member
	MemberNames(ids []domain.MemberID) []string

	AddMember(name string) (domain.Member, string, error)
	RemoveMember(id domain.MemberID) (string, error)

	AddAssignment(title string, due time.Time, assignees []domain.MemberID) (domain.Assignment, error)
	CompleteAssignmentByName(title string) bool
	ListAssignments(filter domain.AssignmentFilter) []domain.Assignment

	AddScheduleEvent(title string, date time.Time, at domain.Clock, attendees []domain.MemberID) (domain.ScheduleEvent, error)
	RemoveScheduleEventByName(title string) (domain.ScheduleEvent, bool)
	ListScheduleEvents() []domain.ScheduleEvent

	SetNotificationPreference(c domain.ReminderCategory, amount float64, unit domain.TimeUnit) (string, error)
	NotificationPreference(c domain.ReminderCategory) domain.NotificationPreference
}

const studyTips = "Of course! Here are a few tips: 1. Use the Pomodoro Technique (25 mins study, 5 mins break). " +
	"2. Find a dedicated study space. 3. Test yourself with practice questions to reinforce learning."

// NewOrganizerRegistry registers the organizer catalogue.
func NewOrganizerRegistry(org Organizer, names *resolver.Resolver) *Registry {
	h := &handlers{org: org, names: names}
	r := NewRegistry()

	r.Register(&typedTool[addAssignmentArgs]{
		spec: domain.ToolSpec{
			Name:        "addAssignment",
			Description: "Adds a new assignment to the user's list. Can be assigned to one or more group members.",
			Params: []domain.Param{
				{Name: "name", Type: domain.ParamString, Required: true, Description: "The name or title of the assignment, e.g., 'History Essay'."},
				{Name: "dueDate", Type: domain.ParamString, Required: true, Description: "The due date of the assignment as YYYY-MM-DD, e.g., '2024-12-01'."},
				{Name: "assignees", Type: domain.ParamArray, Items: domain.ParamString, Description: "An array of names of the members this assignment is for. E.g., ['Sarah', 'Me']. Optional."},
			},
		},
		decode: decodeAddAssignment,
		run:    h.addAssignment,
	})

	r.Register(&typedTool[nameArgs]{
		spec: domain.ToolSpec{
			Name:        "completeAssignment",
			Description: "Marks an existing assignment as completed based on its name.",
			Params: []domain.Param{
				{Name: "name", Type: domain.ParamString, Required: true, Description: "The name of the assignment to mark as complete."},
			},
		},
		decode: decodeName,
		run:    h.completeAssignment,
	})

	r.Register(&typedTool[domain.AssignmentFilter]{
		spec: domain.ToolSpec{
			Name:        "listAssignments",
			Description: "Lists current assignments. Can be filtered to show all, only the user's, or only group assignments.",
			Params: []domain.Param{
				{Name: "filter", Type: domain.ParamString, Description: "The filter to apply. Can be 'my', 'group', or 'all'. Defaults to 'all'."},
			},
		},
		decode: decodeFilter,
		run:    h.listAssignments,
	})

	r.Register(&typedTool[addEventArgs]{
		spec: domain.ToolSpec{
			Name:        "addScheduleEvent",
			Description: "Adds a new event to the user's schedule. Can be for one or more group members.",
			Params: []domain.Param{
				{Name: "title", Type: domain.ParamString, Required: true, Description: "The title of the event, e.g., 'Study Group'."},
				{Name: "date", Type: domain.ParamString, Required: true, Description: "The date of the event as YYYY-MM-DD, e.g., '2024-11-20'."},
				{Name: "time", Type: domain.ParamString, Required: true, Description: "The time of the event as HH:MM (24h), e.g., '14:30'."},
				{Name: "attendees", Type: domain.ParamArray, Items: domain.ParamString, Description: "An array of names of the members attending this event. E.g., ['John', 'Me']. Optional."},
			},
		},
		decode: decodeAddEvent,
		run:    h.addScheduleEvent,
	})

	r.Register(&typedTool[struct{}]{
		spec: domain.ToolSpec{
			Name:        "listScheduleEvents",
			Description: "Lists all events in the user's schedule.",
		},
		decode: noArgs,
		run:    h.listScheduleEvents,
	})

	r.Register(&typedTool[nameArgs]{
		spec: domain.ToolSpec{
			Name:        "removeScheduleEvent",
			Description: "Removes an event from the schedule based on its title.",
			Params: []domain.Param{
				{Name: "title", Type: domain.ParamString, Required: true, Description: "The title of the event to remove."},
			},
		},
		decode: decodeTitle,
		run:    h.removeScheduleEvent,
	})

	r.Register(&typedTool[nameArgs]{
		spec: domain.ToolSpec{
			Name:        "addMember",
			Description: "Adds a new member to the project group.",
			Params: []domain.Param{
				{Name: "name", Type: domain.ParamString, Required: true, Description: "The name of the member to add, e.g., 'Alex'."},
			},
		},
		decode: decodeName,
		run:    h.addMember,
	})

	r.Register(&typedTool[nameArgs]{
		spec: domain.ToolSpec{
			Name:        "removeMember",
			Description: "Removes a member from the project group.",
			Params: []domain.Param{
				{Name: "name", Type: domain.ParamString, Required: true, Description: "The name of the member to remove, e.g., 'Alex'."},
			},
		},
		decode: decodeName,
		run:    h.removeMember,
	})

	r.Register(&typedTool[struct{}]{
		spec: domain.ToolSpec{
			Name:        "getStudyTips",
			Description: "Provides the user with general study tips or advice.",
		},
		decode: noArgs,
		run: func(context.Context, ToolContext, struct{}) string {
			return studyTips
		},
	})

	r.Register(&typedTool[preferenceArgs]{
		spec: domain.ToolSpec{
			Name:        "addNotificationPreference",
			Description: "Sets the user's preference for when to be notified about an approaching deadline or event.",
			Params: []domain.Param{
				{Name: "timeValue", Type: domain.ParamNumber, Required: true, Description: "The numeric value for the time before a deadline, e.g., 2."},
				{Name: "timeUnit", Type: domain.ParamString, Required: true, Description: "The unit of time. Can be 'days' or 'hours' (events also accept 'minutes')."},
				{Name: "category", Type: domain.ParamString, Description: "What the reminder is for: 'deadlines' (default) or 'events'."},
			},
		},
		decode: decodePreference,
		run:    h.setPreference,
	})

	return r
}

// --- typed argument records --- //

type nameArgs struct {
	Name string
}

type addAssignmentArgs struct {
	Name      string
	DueDate   string
	Assignees []string
}

type addEventArgs struct {
	Title     string
	Date      string
	Time      string
	Attendees []string
}

type preferenceArgs struct {
	Amount   float64
	Unit     domain.TimeUnit
	Category domain.ReminderCategory
}

func decodeName(a args) (nameArgs, error) {
	name, err := a.str("name", true)
	return nameArgs{Name: name}, err
}

func decodeTitle(a args) (nameArgs, error) {
	title, err := a.str("title", true)
	return nameArgs{Name: title}, err
}

func decodeFilter(a args) (domain.AssignmentFilter, error) {
	raw, err := a.str("filter", false)
	if err != nil {
		return domain.FilterAll, err
	}
	return domain.ParseAssignmentFilter(raw)
}

func decodeAddAssignment(a args) (addAssignmentArgs, error) {
	var (
		in  addAssignmentArgs
		err error
	)
	if in.Name, err = a.str("name", true); err != nil {
		return in, err
	}
	if in.DueDate, err = a.str("dueDate", true); err != nil {
		return in, err
	}
	in.Assignees, err = a.strs("assignees")
	return in, err
}

func decodeAddEvent(a args) (addEventArgs, error) {
	var (
		in  addEventArgs
		err error
	)
	if in.Title, err = a.str("title", true); err != nil {
		return in, err
	}
	if in.Date, err = a.str("date", true); err != nil {
		return in, err
	}
	if in.Time, err = a.str("time", true); err != nil {
		return in, err
	}
	in.Attendees, err = a.strs("attendees")
	return in, err
}

func decodePreference(a args) (preferenceArgs, error) {
	var in preferenceArgs

	amount, err := a.num("timeValue", true)
	if err != nil {
		return in, err
	}
	unit, err := a.str("timeUnit", true)
	if err != nil {
		return in, err
	}
	rawCategory, err := a.str("category", false)
	if err != nil {
		return in, err
	}
	category, err := domain.ParseReminderCategory(rawCategory)
	if err != nil {
		return in, err
	}

	in.Amount = amount
	in.Unit = domain.TimeUnit(strings.ToLower(unit))
	in.Category = category
	return in, nil
}

// --- handlers --- //

type handlers struct {
	org   Organizer
	names *resolver.Resolver
}

func (h *handlers) addAssignment(_ context.Context, _ ToolContext, in addAssignmentArgs) string {
	due, err := domain.ParseDate(in.DueDate, h.org.Location())
	if err != nil {
		return fmt.Sprintf("I couldn't understand the due date '%s'. Please use YYYY-MM-DD.", in.DueDate)
	}

	ids := h.names.Resolve(in.Assignees)
	a, err := h.org.AddAssignment(in.Name, due, ids)
	if err != nil {
		return rejectionText(err)
	}

	msg := fmt.Sprintf("Successfully added assignment: %s (due %s, for %s)",
		a.Title, a.DueDate.Format(domain.DateLayout), joinNames(h.org.MemberNames(a.Assignees)))
	return msg + unresolvedNote(in.Assignees, len(ids))
}

func (h *handlers) completeAssignment(_ context.Context, _ ToolContext, in nameArgs) string {
	if h.org.CompleteAssignmentByName(in.Name) {
		return fmt.Sprintf("Successfully marked '%s' as complete.", in.Name)
	}
	return fmt.Sprintf("Assignment '%s' not found.", in.Name)
}

func (h *handlers) listAssignments(_ context.Context, tctx ToolContext, filter domain.AssignmentFilter) string {
	list := h.org.ListAssignments(filter)
	if len(list) == 0 {
		return fmt.Sprintf("There are no assignments (filter: %s).", filter)
	}

	pref := h.org.NotificationPreference(domain.CategoryDeadlines)
	var b strings.Builder
	fmt.Fprintf(&b, "%d assignment(s) (filter: %s):", len(list), filter)
	for _, a := range list {
		status := "not completed"
		if a.Completed {
			status = "completed"
		} else if domain.AssignmentDueSoon(tctx.Now, a, pref) {
			status = "not completed, due soon"
		}
		fmt.Fprintf(&b, "\n- %s: due %s, %s, for %s",
			a.Title, a.DueDate.Format(domain.DateLayout), status, joinNames(h.org.MemberNames(a.Assignees)))
	}
	return b.String()
}

func (h *handlers) addScheduleEvent(_ context.Context, _ ToolContext, in addEventArgs) string {
	date, err := domain.ParseDate(in.Date, h.org.Location())
	if err != nil {
		return fmt.Sprintf("I couldn't understand the date '%s'. Please use YYYY-MM-DD.", in.Date)
	}
	clock, err := domain.ParseClock(in.Time)
	if err != nil {
		return fmt.Sprintf("I couldn't understand the time '%s'. Please use HH:MM.", in.Time)
	}

	ids := h.names.Resolve(in.Attendees)
	e, err := h.org.AddScheduleEvent(in.Title, date, clock, ids)
	if err != nil {
		return rejectionText(err)
	}

	msg := fmt.Sprintf("Successfully added event: %s (%s at %s, for %s)",
		e.Title, e.Date.Format(domain.DateLayout), e.Time, joinNames(h.org.MemberNames(e.Attendees)))
	return msg + unresolvedNote(in.Attendees, len(ids))
}

func (h *handlers) listScheduleEvents(_ context.Context, tctx ToolContext, _ struct{}) string {
	list := h.org.ListScheduleEvents()
	if len(list) == 0 {
		return "The schedule is empty."
	}

	pref := h.org.NotificationPreference(domain.CategoryEvents)
	var b strings.Builder
	fmt.Fprintf(&b, "%d event(s):", len(list))
	for _, e := range list {
		fmt.Fprintf(&b, "\n- %s: %s at %s, for %s",
			e.Title, e.Date.Format(domain.DateLayout), e.Time, joinNames(h.org.MemberNames(e.Attendees)))
		if domain.EventSoon(tctx.Now, e, pref) {
			b.WriteString(" (happening soon)")
		}
	}
	return b.String()
}

func (h *handlers) removeScheduleEvent(_ context.Context, _ ToolContext, in nameArgs) string {
	if e, ok := h.org.RemoveScheduleEventByName(in.Name); ok {
		return fmt.Sprintf("Successfully removed event: %s", e.Title)
	}
	return fmt.Sprintf("Event '%s' not found.", in.Name)
}

func (h *handlers) addMember(_ context.Context, _ ToolContext, in nameArgs) string {
	_, msg, err := h.org.AddMember(in.Name)
	if err != nil {
		return rejectionText(err)
	}
	return msg
}

func (h *handlers) removeMember(_ context.Context, _ ToolContext, in nameArgs) string {
	m, ok := h.names.Lookup(in.Name)
	if !ok {
		return fmt.Sprintf("Member '%s' not found.", in.Name)
	}
	msg, err := h.org.RemoveMember(m.ID)
	if err != nil {
		if errors.Is(err, domain.ErrMemberNotFound) {
			return fmt.Sprintf("Member '%s' not found.", in.Name)
		}
		return rejectionText(err)
	}
	return msg
}

func (h *handlers) setPreference(_ context.Context, _ ToolContext, in preferenceArgs) string {
	msg, err := h.org.SetNotificationPreference(in.Category, in.Amount, in.Unit)
	if err != nil {
		return rejectionText(err)
	}
	return msg
}

// --- formatting helpers --- //

func rejectionText(err error) string {
	if domain.IsRejection(err) {
		return err.Error()
	}
	return fmt.Sprintf("Something went wrong: %v.", err)
}

func joinNames(names []string) string {
	switch len(names) {
	case 0:
		return "nobody"
	case 1:
		return names[0]
	default:
		return strings.Join(names[:len(names)-1], ", ") + " and " + names[len(names)-1]
	}
}

func unresolvedNote(requested []string, resolved int) string {
	var asked int
	for _, n := range requested {
		if strings.TrimSpace(n) != "" {
			asked++
		}
	}
	if asked > resolved {
		return ". Some of the names given are not in the group, so they were skipped."
	}
	return "."
}
