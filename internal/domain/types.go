package domain

import (
	"time"

	"github.com/google/uuid"
)

type SessionID string
type MemberID string
type AssignmentID string
type EventID string

type Role string

const (
	RoleUser       Role = "user"
	RoleAssistant  Role = "assistant"
	RoleToolResult Role = "tool-result"
)

type Timestamp = time.Time

// Calendar layouts used on the wire and in tool arguments.
const (
	DateLayout  = "2006-01-02"
	ClockLayout = "15:04"
)

// NewID returns a fresh random identifier. Identifiers are never reused.
func NewID() string {
	return uuid.NewString()
}
