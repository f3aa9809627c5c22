package domain

import (
	"strings"

	"golang.org/x/text/cases"
)

// FoldName returns the case-folded, trimmed form of a name or title used
// for case-insensitive comparisons.
func FoldName(s string) string {
	// A Caser is stateful; build one per call so this is goroutine safe.
	return cases.Fold().String(strings.TrimSpace(s))
}

// SameName reports whether a and b are equal ignoring case.
func SameName(a, b string) bool {
	return FoldName(a) == FoldName(b)
}

// IsCurrentUserAlias reports whether name is the "me" token.
func IsCurrentUserAlias(name string) bool {
	return SameName(name, CurrentUserAlias)
}
