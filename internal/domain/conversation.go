package domain

// Session is one conversation between the current user and the assistant.
type Session struct {
	ID        SessionID
	MemberID  MemberID
	Title     string
	CreatedAt Timestamp
	UpdatedAt Timestamp
}

// TranscriptEntry is one line of a session transcript.
type TranscriptEntry struct {
	Role Role
	Text string

	// ToolName is set on tool-result entries only.
	ToolName  string
	CreatedAt Timestamp
}
