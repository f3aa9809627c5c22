package llm

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"strings"
	"sync"

	"github.com/PabloGalante/organizer-agent/internal/domain"
)

// MockLLM is an offline model. It asks for a listing when the message
// mentions one and otherwise echoes the message.
type MockLLM struct{}

func NewMockLLM() *MockLLM {
	return &MockLLM{}
}

func (m *MockLLM) Generate(_ context.Context, req domain.ModelRequest) (*domain.ModelResponse, error) {
	if len(req.History) == 0 {
		return nil, errors.New("mock llm: empty history")
	}
	last := req.History[len(req.History)-1]

	if last.Result != nil {
		return &domain.ModelResponse{Text: "Here is what I found:\n" + last.Result.Content}, nil
	}

	text := strings.ToLower(last.Text)
	switch {
	case strings.Contains(text, "assignment") && hasTool(req.Tools, "listAssignments"):
		return &domain.ModelResponse{Calls: []domain.ToolCall{{Name: "listAssignments", Args: map[string]any{"filter": "all"}}}}, nil
	case (strings.Contains(text, "schedule") || strings.Contains(text, "event")) && hasTool(req.Tools, "listScheduleEvents"):
		return &domain.ModelResponse{Calls: []domain.ToolCall{{Name: "listScheduleEvents", Args: map[string]any{}}}}, nil
	}

	return &domain.ModelResponse{
		Text: fmt.Sprintf("I'm running offline, so I can only list things for now. You said %q.", last.Text),
	}, nil
}

func hasTool(specs []domain.ToolSpec, name string) bool {
	return slices.ContainsFunc(specs, func(s domain.ToolSpec) bool { return s.Name == name })
}

// ScriptedModel replays queued responses in order and records every
// request it receives. Used by tests to drive the conversation loop.
type ScriptedModel struct {
	mu       sync.Mutex
	steps    []scriptStep
	requests []domain.ModelRequest
}

type scriptStep struct {
	resp *domain.ModelResponse
	err  error
}

func NewScriptedModel() *ScriptedModel {
	return &ScriptedModel{}
}

// Reply queues a plain text response.
func (s *ScriptedModel) Reply(text string) *ScriptedModel {
	return s.push(scriptStep{resp: &domain.ModelResponse{Text: text}})
}

// Call queues a response nominating one tool call.
func (s *ScriptedModel) Call(name string, args map[string]any) *ScriptedModel {
	call := domain.ToolCall{ID: domain.NewID(), Name: name, Args: args}
	return s.push(scriptStep{resp: &domain.ModelResponse{Calls: []domain.ToolCall{call}}})
}

// Respond queues an arbitrary response.
func (s *ScriptedModel) Respond(resp *domain.ModelResponse) *ScriptedModel {
	return s.push(scriptStep{resp: resp})
}

// Fail queues a transport error.
func (s *ScriptedModel) Fail(err error) *ScriptedModel {
	return s.push(scriptStep{err: err})
}

func (s *ScriptedModel) push(step scriptStep) *ScriptedModel {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.steps = append(s.steps, step)
	return s
}

func (s *ScriptedModel) Generate(ctx context.Context, req domain.ModelRequest) (*domain.ModelResponse, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	req.History = slices.Clone(req.History)
	s.requests = append(s.requests, req)

	if len(s.steps) == 0 {
		return nil, errors.New("scripted model: no response queued")
	}
	step := s.steps[0]
	s.steps = s.steps[1:]
	return step.resp, step.err
}

// Requests returns what the model has been sent so far.
func (s *ScriptedModel) Requests() []domain.ModelRequest {
	s.mu.Lock()
	defer s.mu.Unlock()
	return slices.Clone(s.requests)
}

// Pending is the number of queued steps not yet consumed.
func (s *ScriptedModel) Pending() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.steps)
}
