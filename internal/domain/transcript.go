package domain

import "fmt"

// WireRole is a role in the two-role history the model transport accepts.
type WireRole string

const (
	WireUser  WireRole = "user"
	WireModel WireRole = "model"
)

// Turn is one item of outbound model history. Exactly one of Text, Call
// or Result is meaningful.
type Turn struct {
	Role   WireRole
	Text   string
	Call   *ToolCall
	Result *ToolResult
}

// Transcript is an ordered, append-only log of entries.
type Transcript []TranscriptEntry

// Visible returns the entries a person should see: tool results are kept
// for the model but hidden from the chat view.
func (t Transcript) Visible() []TranscriptEntry {
	out := make([]TranscriptEntry, 0, len(t))
	for _, e := range t {
		if e.Role == RoleToolResult {
			continue
		}
		out = append(out, e)
	}
	return out
}

// ToProtocolHistory projects the transcript onto the wire roles:
//
//	user        -> user   text as is
//	assistant   -> model  text as is
//	tool-result -> model  "[<tool> result] <text>"
//
// Order is preserved. Function call/response turns only exist inside a
// single turn of the loop and are never stored in a transcript.
func (t Transcript) ToProtocolHistory() []Turn {
	out := make([]Turn, 0, len(t))
	for _, e := range t {
		out = append(out, projectEntry(e))
	}
	return out
}

func projectEntry(e TranscriptEntry) Turn {
	switch e.Role {
	case RoleUser:
		return Turn{Role: WireUser, Text: e.Text}
	case RoleToolResult:
		name := e.ToolName
		if name == "" {
			name = "tool"
		}
		return Turn{Role: WireModel, Text: fmt.Sprintf("[%s result] %s", name, e.Text)}
	default:
		return Turn{Role: WireModel, Text: e.Text}
	}
}
