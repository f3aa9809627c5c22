package httpadapter

import (
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/PabloGalante/organizer-agent/internal/domain"
)

// ─────────────────────────────────────────────
// Organizer DTOs
// ─────────────────────────────────────────────

type memberRequest struct {
	Name  string `json:"name"`
	Email string `json:"email,omitempty"`
}

type memberResponse struct {
	domain.Member
	IsCurrentUser bool `json:"is_current_user"`
}

type messageResponse struct {
	Message string `json:"message"`
}

type assignmentRequest struct {
	Title       string   `json:"title"`
	DueDate     string   `json:"due_date"`
	AssigneeIDs []string `json:"assignee_ids"`
}

type assignmentResponse struct {
	ID            string   `json:"id"`
	Title         string   `json:"title"`
	DueDate       string   `json:"due_date"`
	Completed     bool     `json:"completed"`
	DueSoon       bool     `json:"due_soon"`
	AssigneeIDs   []string `json:"assignee_ids"`
	AssigneeNames []string `json:"assignee_names"`
}

type eventRequest struct {
	Title       string   `json:"title"`
	Date        string   `json:"date"`
	Time        string   `json:"time"`
	AttendeeIDs []string `json:"attendee_ids"`
}

type eventResponse struct {
	ID            string   `json:"id"`
	Title         string   `json:"title"`
	Date          string   `json:"date"`
	Time          string   `json:"time"`
	Soon          bool     `json:"soon"`
	AttendeeIDs   []string `json:"attendee_ids"`
	AttendeeNames []string `json:"attendee_names"`
}

type preferenceRequest struct {
	Category  string  `json:"category,omitempty"`
	Amount    float64 `json:"amount"`
	Unit      string  `json:"unit"`
	SessionID string  `json:"session_id,omitempty"`
}

type setPreferenceResponse struct {
	Message    string                        `json:"message"`
	Preference domain.NotificationPreference `json:"preference"`
}

type preferencesResponse struct {
	Deadlines domain.NotificationPreference `json:"deadlines"`
	Events    domain.NotificationPreference `json:"events"`
}

// ─────────────────────────────────────────────
// Members
// ─────────────────────────────────────────────

func (s *Server) handleListMembers(w http.ResponseWriter, _ *http.Request) {
	current := s.org.CurrentUserID()
	members := s.org.Members()

	out := make([]memberResponse, 0, len(members))
	for _, m := range members {
		out = append(out, memberResponse{Member: m, IsCurrentUser: m.ID == current})
	}
	writeJSON(w, http.StatusOK, out)
}

func (s *Server) handleAddMember(w http.ResponseWriter, r *http.Request) {
	var req memberRequest
	if !decode(w, r, &req) {
		return
	}

	m, _, err := s.org.AddMember(req.Name)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, memberResponse{Member: m, IsCurrentUser: false})
}

func (s *Server) handleUpdateMember(w http.ResponseWriter, r *http.Request) {
	var req memberRequest
	if !decode(w, r, &req) {
		return
	}

	id := domain.MemberID(r.PathValue("id"))
	m, err := s.org.UpdateMember(id, req.Name, req.Email)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, memberResponse{Member: m, IsCurrentUser: id == s.org.CurrentUserID()})
}

func (s *Server) handleRemoveMember(w http.ResponseWriter, r *http.Request) {
	msg, err := s.org.RemoveMember(domain.MemberID(r.PathValue("id")))
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, messageResponse{Message: msg})
}

// ─────────────────────────────────────────────
// Assignments
// ─────────────────────────────────────────────

func (s *Server) handleListAssignments(w http.ResponseWriter, r *http.Request) {
	filter, err := domain.ParseAssignmentFilter(r.URL.Query().Get("filter"))
	if err != nil {
		badRequest(w, err.Error())
		return
	}

	list := s.org.ListAssignments(filter)
	out := make([]assignmentResponse, 0, len(list))
	for _, a := range list {
		out = append(out, s.toAssignmentResponse(a))
	}
	writeJSON(w, http.StatusOK, out)
}

func (s *Server) handleAddAssignment(w http.ResponseWriter, r *http.Request) {
	var req assignmentRequest
	if !decode(w, r, &req) {
		return
	}
	due, err := domain.ParseDate(req.DueDate, s.org.Location())
	if err != nil {
		badRequest(w, "due_date must be YYYY-MM-DD")
		return
	}

	a, err := s.org.AddAssignment(req.Title, due, memberIDs(req.AssigneeIDs))
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, s.toAssignmentResponse(a))
}

func (s *Server) handleUpdateAssignment(w http.ResponseWriter, r *http.Request) {
	var req assignmentRequest
	if !decode(w, r, &req) {
		return
	}
	due, err := domain.ParseDate(req.DueDate, s.org.Location())
	if err != nil {
		badRequest(w, "due_date must be YYYY-MM-DD")
		return
	}

	a, err := s.org.UpdateAssignment(domain.AssignmentID(r.PathValue("id")), req.Title, due, memberIDs(req.AssigneeIDs))
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, s.toAssignmentResponse(a))
}

func (s *Server) handleToggleAssignment(w http.ResponseWriter, r *http.Request) {
	id := domain.AssignmentID(r.PathValue("id"))
	if _, err := s.org.Assignment(id); err != nil {
		writeError(w, r, err)
		return
	}

	s.org.ToggleAssignmentComplete(id)

	a, err := s.org.Assignment(id)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, s.toAssignmentResponse(a))
}

// ─────────────────────────────────────────────
// Schedule
// ─────────────────────────────────────────────

func (s *Server) handleListEvents(w http.ResponseWriter, _ *http.Request) {
	list := s.org.ListScheduleEvents()
	out := make([]eventResponse, 0, len(list))
	for _, e := range list {
		out = append(out, s.toEventResponse(e))
	}
	writeJSON(w, http.StatusOK, out)
}

func (s *Server) handleAddEvent(w http.ResponseWriter, r *http.Request) {
	var req eventRequest
	if !decode(w, r, &req) {
		return
	}
	date, clock, ok := s.parseWhen(w, req)
	if !ok {
		return
	}

	e, err := s.org.AddScheduleEvent(req.Title, date, clock, memberIDs(req.AttendeeIDs))
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, s.toEventResponse(e))
}

func (s *Server) handleUpdateEvent(w http.ResponseWriter, r *http.Request) {
	var req eventRequest
	if !decode(w, r, &req) {
		return
	}
	date, clock, ok := s.parseWhen(w, req)
	if !ok {
		return
	}

	e, err := s.org.UpdateScheduleEvent(domain.EventID(r.PathValue("id")), req.Title, date, clock, memberIDs(req.AttendeeIDs))
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, s.toEventResponse(e))
}

func (s *Server) handleRemoveEvent(w http.ResponseWriter, r *http.Request) {
	if !s.org.RemoveScheduleEvent(domain.EventID(r.PathValue("id"))) {
		writeError(w, r, domain.ErrEventNotFound)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// ─────────────────────────────────────────────
// Preferences
// ─────────────────────────────────────────────

func (s *Server) handleGetPreferences(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, preferencesResponse{
		Deadlines: s.org.NotificationPreference(domain.CategoryDeadlines),
		Events:    s.org.NotificationPreference(domain.CategoryEvents),
	})
}

// handleSetPreference saves a preference. With a session_id the
// confirmation is also posted to that conversation.
func (s *Server) handleSetPreference(w http.ResponseWriter, r *http.Request) {
	var req preferenceRequest
	if !decode(w, r, &req) {
		return
	}
	category, err := domain.ParseReminderCategory(req.Category)
	if err != nil {
		badRequest(w, err.Error())
		return
	}

	msg, err := s.org.SetNotificationPreference(category, req.Amount, domain.TimeUnit(trimmed(req.Unit)))
	if err != nil {
		writeError(w, r, err)
		return
	}

	if req.SessionID != "" {
		if _, err := s.conv.Announce(r.Context(), domain.SessionID(req.SessionID), msg); err != nil {
			writeError(w, r, err)
			return
		}
	}
	writeJSON(w, http.StatusOK, setPreferenceResponse{
		Message:    msg,
		Preference: s.org.NotificationPreference(category),
	})
}

// ─────────────────────────────────────────────
// Organizer Helpers
// ─────────────────────────────────────────────

func decode(w http.ResponseWriter, r *http.Request, v any) bool {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		badRequest(w, "invalid JSON body")
		return false
	}
	return true
}

func (s *Server) parseWhen(w http.ResponseWriter, req eventRequest) (date domain.Timestamp, clock domain.Clock, ok bool) {
	date, err := domain.ParseDate(req.Date, s.org.Location())
	if err != nil {
		badRequest(w, "date must be YYYY-MM-DD")
		return date, clock, false
	}
	clock, err = domain.ParseClock(req.Time)
	if err != nil {
		badRequest(w, fmt.Sprintf("time %q must be HH:MM", req.Time))
		return date, clock, false
	}
	return date, clock, true
}

func (s *Server) toAssignmentResponse(a domain.Assignment) assignmentResponse {
	pref := s.org.NotificationPreference(domain.CategoryDeadlines)
	return assignmentResponse{
		ID:            string(a.ID),
		Title:         a.Title,
		DueDate:       a.DueDate.Format(domain.DateLayout),
		Completed:     a.Completed,
		DueSoon:       !a.Completed && domain.AssignmentDueSoon(s.now(), a, pref),
		AssigneeIDs:   idStrings(a.Assignees),
		AssigneeNames: s.org.MemberNames(a.Assignees),
	}
}

func (s *Server) toEventResponse(e domain.ScheduleEvent) eventResponse {
	pref := s.org.NotificationPreference(domain.CategoryEvents)
	return eventResponse{
		ID:            string(e.ID),
		Title:         e.Title,
		Date:          e.Date.Format(domain.DateLayout),
		Time:          e.Time.String(),
		Soon:          domain.EventSoon(s.now(), e, pref),
		AttendeeIDs:   idStrings(e.Attendees),
		AttendeeNames: s.org.MemberNames(e.Attendees),
	}
}

func memberIDs(raw []string) []domain.MemberID {
	out := make([]domain.MemberID, 0, len(raw))
	for _, id := range raw {
		out = append(out, domain.MemberID(trimmed(id)))
	}
	return out
}

func idStrings(ids []domain.MemberID) []string {
	out := make([]string, 0, len(ids))
	for _, id := range ids {
		out = append(out, string(id))
	}
	return out
}
