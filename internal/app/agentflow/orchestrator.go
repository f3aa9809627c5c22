// Package agentflow runs the conversation loop: the model is asked for a
// reply, any tool it nominates is executed and its result fed back, until
// the model answers in plain text.
package agentflow

import (
	"context"
	"fmt"
	"slices"
	"strings"
	"time"

	"github.com/PabloGalante/organizer-agent/internal/app/tools"
	"github.com/PabloGalante/organizer-agent/internal/domain"
	"github.com/PabloGalante/organizer-agent/internal/observability"
)

// State is a position in the loop. Used for logging only.
type State string

const (
	StateAwaitingUserInput State = "awaiting_user_input"
	StateModelRequested    State = "model_requested"
	StateToolRequested     State = "tool_requested"
	StateToolExecuted      State = "tool_executed"
	StateFinalReply        State = "final_reply_received"
)

const DefaultMaxToolCalls = 8

// Executor runs tool calls. *tools.Registry implements it.
type Executor interface {
	Specs() []domain.ToolSpec
	Execute(ctx context.Context, tctx tools.ToolContext, call domain.ToolCall) string
}

type Options struct {
	// MaxToolCalls bounds tool executions per turn. Zero means
	// DefaultMaxToolCalls.
	MaxToolCalls int
	// SystemPrompt builds the instruction for a request made at now.
	SystemPrompt func(now time.Time) string
	// Now defaults to time.Now.
	Now func() time.Time
}

// Orchestrator drives one user turn through the model and the tools.
type Orchestrator struct {
	model domain.ModelClient
	exec  Executor
	opts  Options
}

func NewOrchestrator(model domain.ModelClient, exec Executor, opts Options) *Orchestrator {
	if opts.MaxToolCalls <= 0 {
		opts.MaxToolCalls = DefaultMaxToolCalls
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	return &Orchestrator{model: model, exec: exec, opts: opts}
}

type RunInput struct {
	SessionID domain.SessionID
	// History is the projected transcript, ending with the new user turn.
	History []domain.Turn
	// OnToolResult is called after each tool execution, before the model
	// sees the result.
	OnToolResult func(call domain.ToolCall, result string)
}

type RunOutput struct {
	Reply     string
	ToolCalls int
	// History is the input history plus the call and response turns added
	// during the run.
	History []domain.Turn
}

// Run loops until the model replies without a tool call. A reply with
// neither text nor a call is domain.ErrEmptyResponse; a call beyond
// MaxToolCalls is domain.ErrToolLoopLimit. Tool effects that happened
// before an error stay applied.
func (o *Orchestrator) Run(ctx context.Context, in RunInput) (RunOutput, error) {
	log := observability.LoggerFromContext(ctx)

	out := RunOutput{History: slices.Clone(in.History)}
	specs := o.exec.Specs()
	tctx := tools.ToolContext{
		SessionID: string(in.SessionID),
		RequestID: observability.RequestID(ctx),
	}

	for {
		now := o.opts.Now()
		req := domain.ModelRequest{History: out.History, Tools: specs}
		if o.opts.SystemPrompt != nil {
			req.System = o.opts.SystemPrompt(now)
		}

		log.Debug("loop state", "state", StateModelRequested, "turns", len(out.History))
		resp, err := o.model.Generate(ctx, req)
		if err != nil {
			return out, fmt.Errorf("model request: %w", err)
		}

		if len(resp.Calls) == 0 {
			reply := strings.TrimSpace(resp.Text)
			if reply == "" {
				return out, domain.ErrEmptyResponse
			}
			out.Reply = reply
			log.Debug("loop state", "state", StateFinalReply, "tool_calls", out.ToolCalls)
			return out, nil
		}

		call := resp.Calls[0]
		if len(resp.Calls) > 1 {
			log.Warn("model nominated several tools, running the first only",
				"tool", call.Name, "ignored", len(resp.Calls)-1)
		}
		if out.ToolCalls >= o.opts.MaxToolCalls {
			log.Warn("tool call limit reached", "limit", o.opts.MaxToolCalls, "tool", call.Name)
			return out, domain.ErrToolLoopLimit
		}
		log.Debug("loop state", "state", StateToolRequested, "tool", call.Name)

		tctx.Now = now
		result := o.exec.Execute(ctx, tctx, call)
		out.ToolCalls++
		log.Debug("loop state", "state", StateToolExecuted, "tool", call.Name)

		if in.OnToolResult != nil {
			in.OnToolResult(call, result)
		}

		out.History = append(out.History,
			domain.Turn{Role: domain.WireModel, Call: &call},
			domain.Turn{Role: domain.WireUser, Result: &domain.ToolResult{CallID: call.ID, Name: call.Name, Content: result}},
		)
	}
}
