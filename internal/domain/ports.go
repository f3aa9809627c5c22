package domain

import "context"

// ModelClient defines how the core application talks to a hosted model
// with function calling.
type ModelClient interface {
	Generate(ctx context.Context, req ModelRequest) (*ModelResponse, error)
}

// ModelRequest is the full payload of one model round trip.
type ModelRequest struct {
	System  string
	History []Turn
	Tools   []ToolSpec
}

// ModelResponse is either plain text or one or more nominated tool calls.
type ModelResponse struct {
	Text  string
	Calls []ToolCall
}

// ToolCall is a structured request from the model to run an operation.
type ToolCall struct {
	ID   string
	Name string
	Args map[string]any

	// Signature is an opaque token some models attach to a call and
	// expect back unchanged in the next request.
	Signature []byte
}

// ToolResult is the textual outcome of a tool call, sent back to the model.
type ToolResult struct {
	CallID  string
	Name    string
	Content string
}

type ParamType string

const (
	ParamString  ParamType = "string"
	ParamNumber  ParamType = "number"
	ParamInteger ParamType = "integer"
	ParamBoolean ParamType = "boolean"
	ParamArray   ParamType = "array"
)

// Param describes one named tool parameter.
type Param struct {
	Name        string
	Type        ParamType
	Description string
	Required    bool

	// Items is the element type for array parameters.
	Items ParamType
}

// ToolSpec is what the model sees of a tool.
type ToolSpec struct {
	Name        string
	Description string
	Params      []Param
}

// SessionStore defines session persistence.
type SessionStore interface {
	CreateSession(session *Session) error
	UpdateSession(session *Session) error
	GetSession(id SessionID) (*Session, error)
	ListSessionsByMember(memberID MemberID, limit int) ([]*Session, error)
}

// TranscriptStore keeps append-only transcripts per session.
type TranscriptStore interface {
	AppendEntry(sessionID SessionID, entry TranscriptEntry) error
	Transcript(sessionID SessionID) (Transcript, error)
}
