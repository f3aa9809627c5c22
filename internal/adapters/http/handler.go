package httpadapter

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/PabloGalante/organizer-agent/internal/app/conversation"
	"github.com/PabloGalante/organizer-agent/internal/domain"
	"github.com/PabloGalante/organizer-agent/internal/observability"
)

// Organizer is the Domain Store surface the REST handlers use.
type Organizer interface {
	Location() *time.Location
	CurrentUserID() domain.MemberID
	Members() []domain.Member
	Member(id domain.MemberID) (domain.Member, error)
	MemberNames(ids []domain.MemberID) []string
	AddMember(name string) (domain.Member, string, error)
	UpdateMember(id domain.MemberID, name, email string) (domain.Member, error)
	RemoveMember(id domain.MemberID) (string, error)

	Assignment(id domain.AssignmentID) (domain.Assignment, error)
	ListAssignments(filter domain.AssignmentFilter) []domain.Assignment
	AddAssignment(title string, due time.Time, assignees []domain.MemberID) (domain.Assignment, error)
	UpdateAssignment(id domain.AssignmentID, title string, due time.Time, assignees []domain.MemberID) (domain.Assignment, error)
	ToggleAssignmentComplete(id domain.AssignmentID)

	ListScheduleEvents() []domain.ScheduleEvent
	AddScheduleEvent(title string, date time.Time, at domain.Clock, attendees []domain.MemberID) (domain.ScheduleEvent, error)
	UpdateScheduleEvent(id domain.EventID, title string, date time.Time, at domain.Clock, attendees []domain.MemberID) (domain.ScheduleEvent, error)
	RemoveScheduleEvent(id domain.EventID) bool

	NotificationPreference(c domain.ReminderCategory) domain.NotificationPreference
	SetNotificationPreference(c domain.ReminderCategory, amount float64, unit domain.TimeUnit) (string, error)
}

// ReminderLog lists fired reminders.
type ReminderLog interface {
	Recent(limit int) ([]domain.Reminder, error)
}

type Deps struct {
	Conversation *conversation.Service
	Organizer    Organizer
	Reminders    ReminderLog // optional
	Hub          *Hub        // optional, serves /ws
	Now          func() time.Time
}

type Server struct {
	conv      *conversation.Service
	org       Organizer
	reminders ReminderLog
	now       func() time.Time
}

func NewServer(deps Deps) http.Handler {
	s := &Server{
		conv:      deps.Conversation,
		org:       deps.Organizer,
		reminders: deps.Reminders,
		now:       deps.Now,
	}
	if s.now == nil {
		s.now = time.Now
	}

	mux := http.NewServeMux()
	mux.HandleFunc("GET /healthz", func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})

	mux.HandleFunc("GET /sessions", s.handleListSessions)
	mux.HandleFunc("POST /sessions", s.handleCreateSession)
	mux.HandleFunc("GET /sessions/{id}", s.handleGetSession)
	mux.HandleFunc("POST /sessions/{id}/messages", s.handleSendMessage)

	mux.HandleFunc("GET /members", s.handleListMembers)
	mux.HandleFunc("POST /members", s.handleAddMember)
	mux.HandleFunc("PUT /members/{id}", s.handleUpdateMember)
	mux.HandleFunc("DELETE /members/{id}", s.handleRemoveMember)

	mux.HandleFunc("GET /assignments", s.handleListAssignments)
	mux.HandleFunc("POST /assignments", s.handleAddAssignment)
	mux.HandleFunc("PUT /assignments/{id}", s.handleUpdateAssignment)
	mux.HandleFunc("POST /assignments/{id}/toggle", s.handleToggleAssignment)

	mux.HandleFunc("GET /events", s.handleListEvents)
	mux.HandleFunc("POST /events", s.handleAddEvent)
	mux.HandleFunc("PUT /events/{id}", s.handleUpdateEvent)
	mux.HandleFunc("DELETE /events/{id}", s.handleRemoveEvent)

	mux.HandleFunc("GET /preferences", s.handleGetPreferences)
	mux.HandleFunc("PUT /preferences", s.handleSetPreference)

	if s.reminders != nil {
		mux.HandleFunc("GET /reminders", s.handleListReminders)
	}
	if deps.Hub != nil {
		mux.Handle("GET /ws", deps.Hub)
	}

	return chainMiddlewares(mux, withLogging, withCORS, withRequestID)
}

// ─────────────────────────────────────────────
// Conversation DTOs
// ─────────────────────────────────────────────

type createSessionRequest struct {
	Title string `json:"title,omitempty"`
}

type createSessionResponse struct {
	Session sessionResponse `json:"session"`
	Welcome entryResponse   `json:"welcome_message"`
}

type sessionResponse struct {
	ID        string    `json:"id"`
	MemberID  string    `json:"member_id"`
	Title     string    `json:"title"`
	Busy      bool      `json:"busy"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

type entryResponse struct {
	Role      string    `json:"role"`
	Text      string    `json:"text"`
	ToolName  string    `json:"tool_name,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

type sendMessageRequest struct {
	Text string `json:"text"`
}

type sendMessageResponse struct {
	UserMessage  entryResponse   `json:"user_message"`
	AgentMessage entryResponse   `json:"agent_message"`
	ToolResults  []entryResponse `json:"tool_results,omitempty"`
	Faulted      bool            `json:"faulted"`
}

type getSessionResponse struct {
	Session  sessionResponse `json:"session"`
	Messages []entryResponse `json:"messages"`
}

// ─────────────────────────────────────────────
// Conversation handlers
// ─────────────────────────────────────────────

func (s *Server) handleListSessions(w http.ResponseWriter, r *http.Request) {
	sessions, err := s.conv.Sessions(r.Context(), s.org.CurrentUserID(), 0)
	if err != nil {
		writeError(w, r, err)
		return
	}

	out := make([]sessionResponse, 0, len(sessions))
	for _, sess := range sessions {
		out = append(out, s.toSessionResponse(sess))
	}
	writeJSON(w, http.StatusOK, out)
}

func (s *Server) handleCreateSession(w http.ResponseWriter, r *http.Request) {
	var req createSessionRequest
	if r.ContentLength != 0 {
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			badRequest(w, "invalid JSON body")
			return
		}
	}

	out, err := s.conv.StartSession(r.Context(), conversation.StartSessionInput{
		MemberID: s.org.CurrentUserID(),
		Title:    req.Title,
	})
	if err != nil {
		writeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusCreated, createSessionResponse{
		Session: s.toSessionResponse(out.Session),
		Welcome: toEntryResponse(out.Welcome),
	})
}

func (s *Server) handleGetSession(w http.ResponseWriter, r *http.Request) {
	session, entries, err := s.conv.Timeline(r.Context(), domain.SessionID(r.PathValue("id")))
	if err != nil {
		writeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, getSessionResponse{
		Session:  s.toSessionResponse(session),
		Messages: toEntriesResponse(entries),
	})
}

func (s *Server) handleSendMessage(w http.ResponseWriter, r *http.Request) {
	var req sendMessageRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		badRequest(w, "invalid JSON body")
		return
	}

	out, err := s.conv.SendMessage(r.Context(), conversation.SendMessageInput{
		SessionID: domain.SessionID(r.PathValue("id")),
		Text:      req.Text,
	})
	if err != nil {
		writeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, sendMessageResponse{
		UserMessage:  toEntryResponse(out.UserEntry),
		AgentMessage: toEntryResponse(out.Reply),
		ToolResults:  toEntriesResponse(out.ToolResults),
		Faulted:      out.Faulted,
	})
}

func (s *Server) handleListReminders(w http.ResponseWriter, r *http.Request) {
	list, err := s.reminders.Recent(0)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, list)
}

// ─────────────────────────────────────────────
// Conversation Helpers
// ─────────────────────────────────────────────

func (s *Server) toSessionResponse(sess *domain.Session) sessionResponse {
	return sessionResponse{
		ID:        string(sess.ID),
		MemberID:  string(sess.MemberID),
		Title:     sess.Title,
		Busy:      s.conv.Busy(sess.ID),
		CreatedAt: sess.CreatedAt,
		UpdatedAt: sess.UpdatedAt,
	}
}

func toEntryResponse(e domain.TranscriptEntry) entryResponse {
	return entryResponse{
		Role:      string(e.Role),
		Text:      e.Text,
		ToolName:  e.ToolName,
		CreatedAt: e.CreatedAt,
	}
}

func toEntriesResponse(entries []domain.TranscriptEntry) []entryResponse {
	out := make([]entryResponse, 0, len(entries))
	for _, e := range entries {
		out = append(out, toEntryResponse(e))
	}
	return out
}

// ─────────────────────────────────────────────
// HTTP Helpers
// ─────────────────────────────────────────────

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func badRequest(w http.ResponseWriter, msg string) {
	writeJSON(w, http.StatusBadRequest, map[string]string{
		"error": msg,
	})
}

// writeError maps domain errors to status codes. Rejections carry the
// sentence meant for the user.
func writeError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case domain.IsNotFound(err):
		writeJSON(w, http.StatusNotFound, map[string]string{"error": err.Error()})
	case domain.IsRejection(err), errors.Is(err, domain.ErrEmptyMessage):
		badRequest(w, err.Error())
	case errors.Is(err, domain.ErrBusy):
		writeJSON(w, http.StatusConflict, map[string]string{"error": err.Error()})
	default:
		observability.LoggerFromContext(r.Context()).Error("request failed", "path", r.URL.Path, "error", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{
			"error": "internal server error",
		})
	}
}

func trimmed(s string) string { return strings.TrimSpace(s) }
