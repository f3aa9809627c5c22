package conversation

import (
	"context"
	"errors"
	"strings"
	"sync"
	"time"

	"github.com/PabloGalante/organizer-agent/internal/app/agentflow"
	"github.com/PabloGalante/organizer-agent/internal/domain"
	"github.com/PabloGalante/organizer-agent/internal/observability"
)

const (
	WelcomeText = "Hello! I'm your student organizer assistant. You can add assignments for your group, " +
		"schedule events, and manage your team members."
	FaultText = "Sorry, I encountered an error. Please try again."
	LimitText = "Sorry, that request took too many steps. Please try again with a simpler request."
)

// Runner runs one user turn. *agentflow.Orchestrator implements it.
type Runner interface {
	Run(ctx context.Context, in agentflow.RunInput) (agentflow.RunOutput, error)
}

type Service struct {
	runner      Runner
	sessions    domain.SessionStore
	transcripts domain.TranscriptStore
	now         func() time.Time

	mu   sync.Mutex
	busy map[domain.SessionID]bool
}

func NewService(runner Runner, sessions domain.SessionStore, transcripts domain.TranscriptStore) *Service {
	return &Service{
		runner:      runner,
		sessions:    sessions,
		transcripts: transcripts,
		now:         time.Now,
		busy:        make(map[domain.SessionID]bool),
	}
}

type StartSessionInput struct {
	MemberID domain.MemberID
	Title    string
}

type StartSessionOutput struct {
	Session *domain.Session
	Welcome domain.TranscriptEntry
}

// StartSession creates a session whose transcript opens with the welcome
// message.
func (s *Service) StartSession(ctx context.Context, in StartSessionInput) (*StartSessionOutput, error) {
	now := s.now()

	log := observability.LoggerFromContext(ctx).With("member_id", in.MemberID)
	log.Info("starting new session")

	session := &domain.Session{
		ID:        domain.SessionID(domain.NewID()),
		MemberID:  in.MemberID,
		Title:     strings.TrimSpace(in.Title),
		CreatedAt: now,
		UpdatedAt: now,
	}

	if err := s.sessions.CreateSession(session); err != nil {
		log.Error("failed to create session", "error", err)
		return nil, err
	}

	welcome := domain.TranscriptEntry{Role: domain.RoleAssistant, Text: WelcomeText, CreatedAt: now}
	if err := s.transcripts.AppendEntry(session.ID, welcome); err != nil {
		log.Error("failed to append welcome message", "error", err)
		return nil, err
	}

	log.Info("session started", "session_id", session.ID)

	return &StartSessionOutput{Session: session, Welcome: welcome}, nil
}

type SendMessageInput struct {
	SessionID domain.SessionID
	Text      string
}

type SendMessageOutput struct {
	UserEntry   domain.TranscriptEntry
	Reply       domain.TranscriptEntry
	ToolResults []domain.TranscriptEntry
	// Faulted is set when Reply is an apology rather than a model answer.
	Faulted bool
}

// SendMessage runs one conversation turn. Blank text is rejected and so is
// a message for a session whose previous turn has not finished. Model and
// protocol failures do not surface as errors: the turn ends with an
// apology in the transcript and tool effects already applied stay.
func (s *Service) SendMessage(ctx context.Context, in SendMessageInput) (*SendMessageOutput, error) {
	text := strings.TrimSpace(in.Text)
	if text == "" {
		return nil, domain.ErrEmptyMessage
	}

	session, err := s.sessions.GetSession(in.SessionID)
	if err != nil {
		return nil, err
	}

	if !s.acquire(session.ID) {
		return nil, domain.ErrBusy
	}
	defer s.release(session.ID)

	ctx = observability.WithSessionID(ctx, string(session.ID))
	log := observability.LoggerFromContext(ctx)
	log.Info("sending message", "chars", len(text))

	out := &SendMessageOutput{
		UserEntry: domain.TranscriptEntry{Role: domain.RoleUser, Text: text, CreatedAt: s.now()},
	}
	if err := s.transcripts.AppendEntry(session.ID, out.UserEntry); err != nil {
		log.Error("failed to append user message", "error", err)
		return nil, err
	}

	transcript, err := s.transcripts.Transcript(session.ID)
	if err != nil {
		log.Error("failed to load transcript", "error", err)
		return nil, err
	}

	run, err := s.runner.Run(ctx, agentflow.RunInput{
		SessionID: session.ID,
		History:   transcript.ToProtocolHistory(),
		OnToolResult: func(call domain.ToolCall, result string) {
			entry := domain.TranscriptEntry{
				Role:      domain.RoleToolResult,
				Text:      result,
				ToolName:  call.Name,
				CreatedAt: s.now(),
			}
			if err := s.transcripts.AppendEntry(session.ID, entry); err != nil {
				log.Error("failed to append tool result", "tool", call.Name, "error", err)
				return
			}
			out.ToolResults = append(out.ToolResults, entry)
		},
	})

	replyText := run.Reply
	if err != nil {
		out.Faulted = true
		replyText = FaultText
		if errors.Is(err, domain.ErrToolLoopLimit) {
			replyText = LimitText
		}
		log.Error("conversation turn failed", "error", err, "tool_calls", run.ToolCalls)
	}

	out.Reply = domain.TranscriptEntry{Role: domain.RoleAssistant, Text: replyText, CreatedAt: s.now()}
	if err := s.transcripts.AppendEntry(session.ID, out.Reply); err != nil {
		log.Error("failed to append reply", "error", err)
		return nil, err
	}

	session.UpdatedAt = s.now()
	if session.Title == "" {
		session.Title = titleFrom(text)
	}
	if err := s.sessions.UpdateSession(session); err != nil {
		log.Error("failed to update session", "error", err)
		return nil, err
	}

	log.Info("send message completed", "tool_calls", run.ToolCalls, "faulted", out.Faulted)
	return out, nil
}

// Announce appends an assistant entry that did not come from the model,
// e.g. the confirmation of a change made directly in the UI.
func (s *Service) Announce(ctx context.Context, sessionID domain.SessionID, text string) (domain.TranscriptEntry, error) {
	if _, err := s.sessions.GetSession(sessionID); err != nil {
		return domain.TranscriptEntry{}, err
	}

	entry := domain.TranscriptEntry{Role: domain.RoleAssistant, Text: text, CreatedAt: s.now()}
	if err := s.transcripts.AppendEntry(sessionID, entry); err != nil {
		observability.LoggerFromContext(ctx).Error("failed to append announcement", "session_id", sessionID, "error", err)
		return domain.TranscriptEntry{}, err
	}
	return entry, nil
}

// Busy reports whether a turn is in flight for the session.
func (s *Service) Busy(sessionID domain.SessionID) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.busy[sessionID]
}

// Timeline returns the session and the entries a person should see.
func (s *Service) Timeline(ctx context.Context, sessionID domain.SessionID) (*domain.Session, []domain.TranscriptEntry, error) {
	log := observability.LoggerFromContext(ctx).With("session_id", sessionID)

	session, err := s.sessions.GetSession(sessionID)
	if err != nil {
		log.Error("failed to get session", "error", err)
		return nil, nil, err
	}

	transcript, err := s.transcripts.Transcript(sessionID)
	if err != nil {
		log.Error("failed to get transcript", "error", err)
		return nil, nil, err
	}

	visible := transcript.Visible()
	log.Debug("fetched session timeline", "entries", len(visible))
	return session, visible, nil
}

// Sessions lists a member's sessions, newest first.
func (s *Service) Sessions(_ context.Context, memberID domain.MemberID, limit int) ([]*domain.Session, error) {
	if limit <= 0 {
		limit = 20
	}
	return s.sessions.ListSessionsByMember(memberID, limit)
}

func (s *Service) acquire(id domain.SessionID) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.busy[id] {
		return false
	}
	s.busy[id] = true
	return true
}

func (s *Service) release(id domain.SessionID) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.busy, id)
}

func titleFrom(text string) string {
	const maxRunes = 40
	if r := []rune(text); len(r) > maxRunes {
		return strings.TrimSpace(string(r[:maxRunes])) + "..."
	}
	return text
}
