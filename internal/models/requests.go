package models

import (
	"strings"
	"time"
)

// CreatePollRequest is the typed input for creating a poll. The web layer is
// responsible for turning form or JSON input into this shape.
type CreatePollRequest struct {
	Question               string
	Options                []string
	AllowMultipleAnswers   bool
	HideResultsUntilClosed bool
	AutoCloseAt            *time.Time
	AdminSecret            *string
	DuplicateStrategy      DuplicateStrategy
	NumberOfCodes          int
}

// EditPollRequest carries the settings an administrator may change.
// A nil AutoCloseAt clears automatic closing; a nil AdminSecret removes
// admin access from the poll.
type EditPollRequest struct {
	HideResultsUntilClosed bool
	AutoCloseAt            *time.Time
	AdminSecret            *string
}

// NormalizeOptions drops blank option entries, keeping order.
func NormalizeOptions(options []string) []string {
	out := make([]string, 0, len(options))
	for _, o := range options {
		if trimmed := strings.TrimSpace(o); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}
