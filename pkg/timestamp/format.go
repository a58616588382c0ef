// Package timestamp assigns and persists a human-readable timestamp per
// message identity, with distinct backfill rules for a conversation's
// opening turns versus its steady state.
package timestamp

import (
	"strings"
	"time"
)

// Layout is the timestamp layout inside the enclosing parentheses.
const Layout = "Monday, 2006-01-02 15:04:05"

// Format renders a time as the persisted timestamp string,
// e.g. "(Tuesday, 2026-08-25 14:03:09)".
func Format(t time.Time) string {
	return "(" + t.Format(Layout) + ")"
}

// Parse reads a formatted timestamp string back into a time. Unparsable
// strings are treated as "no timestamp": ok is false and no error is raised.
func Parse(s string) (time.Time, bool) {
	trimmed := strings.TrimSpace(s)
	trimmed = strings.TrimPrefix(trimmed, "(")
	trimmed = strings.TrimSuffix(trimmed, ")")
	trimmed = strings.TrimSpace(trimmed)

	t, err := time.Parse(Layout, trimmed)
	if err != nil {
		return time.Time{}, false
	}

	return t, true
}
