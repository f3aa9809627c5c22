// Package tools holds the catalogue of operations the model may call and
// the executor that runs them.
package tools

import (
	"context"
	"fmt"
	"time"

	"github.com/PabloGalante/organizer-agent/internal/domain"
	"github.com/PabloGalante/organizer-agent/internal/observability"
)

// ToolContext brings metadata of the call to the tool
type ToolContext struct {
	SessionID string
	RequestID string
	Now       time.Time
}

// Tool represents an operation the model can invoke. Input is the raw
// argument bag the model produced; output is always a sentence, never a
// structured value, because it becomes the model's next observation.
type Tool interface {
	Name() string
	Spec() domain.ToolSpec
	Call(ctx context.Context, tctx ToolContext, args map[string]any) string
}

// Registry holds available tools.
type Registry struct {
	tools map[string]Tool
	order []string
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{tools: make(map[string]Tool)}
}

// Register adds t, replacing any tool with the same name.
func (r *Registry) Register(t Tool) {
	if _, exists := r.tools[t.Name()]; !exists {
		r.order = append(r.order, t.Name())
	}
	r.tools[t.Name()] = t
}

// Get returns the named tool or nil.
func (r *Registry) Get(name string) Tool {
	return r.tools[name]
}

// Specs returns the catalogue in registration order.
func (r *Registry) Specs() []domain.ToolSpec {
	specs := make([]domain.ToolSpec, 0, len(r.order))
	for _, name := range r.order {
		specs = append(specs, r.tools[name].Spec())
	}
	return specs
}

// Execute dispatches call by name. Unknown names are reported as text so
// the model can correct itself on its next turn.
func (r *Registry) Execute(ctx context.Context, tctx ToolContext, call domain.ToolCall) string {
	log := observability.LoggerFromContext(ctx).With("tool", call.Name)

	t := r.tools[call.Name]
	if t == nil {
		log.Warn("model requested unknown tool")
		return fmt.Sprintf("Unknown function: %s", call.Name)
	}
	if tctx.Now.IsZero() {
		tctx.Now = time.Now()
	}

	start := time.Now()
	result := t.Call(ctx, tctx, call.Args)
	log.Info("tool executed", "elapsed_ms", time.Since(start).Milliseconds())

	return result
}

// typedTool decodes the raw argument bag into A before running. A decode
// failure is reported back as text and the operation does not run.
type typedTool[A any] struct {
	spec   domain.ToolSpec
	decode func(args) (A, error)
	run    func(ctx context.Context, tctx ToolContext, in A) string
}

func (t *typedTool[A]) Name() string { return t.spec.Name }

func (t *typedTool[A]) Spec() domain.ToolSpec { return t.spec }

func (t *typedTool[A]) Call(ctx context.Context, tctx ToolContext, raw map[string]any) string {
	in, err := t.decode(args(raw))
	if err != nil {
		return fmt.Sprintf("Could not run %s: %v.", t.spec.Name, err)
	}
	return t.run(ctx, tctx, in)
}

func noArgs(args) (struct{}, error) { return struct{}{}, nil }
