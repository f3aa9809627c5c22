package domain

import "errors"

var (
	ErrInvalidMember      = errors.New("invalid or duplicate member name")
	ErrMemberNotFound     = errors.New("member not found")
	ErrCurrentUser        = errors.New("the current user cannot be removed")
	ErrInvalidAssignment  = errors.New("invalid assignment")
	ErrAssignmentNotFound = errors.New("assignment not found")
	ErrInvalidEvent       = errors.New("invalid schedule event")
	ErrEventNotFound      = errors.New("schedule event not found")
	ErrInvalidPreference  = errors.New("invalid notification preference")
	ErrSessionNotFound    = errors.New("session not found")

	ErrEmptyMessage  = errors.New("message text is empty")
	ErrBusy          = errors.New("a conversation turn is already in progress")
	ErrEmptyResponse = errors.New("model returned an empty response")
	ErrToolLoopLimit = errors.New("too many tool calls in one turn")
)

// RejectionError carries the sentence shown to the user for a validation
// failure while still matching its sentinel with errors.Is.
type RejectionError struct {
	Reason error
	Text   string
}

func (e *RejectionError) Error() string { return e.Text }

func (e *RejectionError) Unwrap() error { return e.Reason }

// Reject builds a RejectionError.
func Reject(reason error, text string) error {
	return &RejectionError{Reason: reason, Text: text}
}

// IsNotFound reports whether err is one of the lookup misses.
func IsNotFound(err error) bool {
	return errors.Is(err, ErrMemberNotFound) ||
		errors.Is(err, ErrAssignmentNotFound) ||
		errors.Is(err, ErrEventNotFound) ||
		errors.Is(err, ErrSessionNotFound)
}

// IsRejection reports whether err is a validation rejection.
func IsRejection(err error) bool {
	var rej *RejectionError
	return errors.As(err, &rej)
}
