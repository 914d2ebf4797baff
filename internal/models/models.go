package models

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

// NewID returns a globally unique identifier for a new entity.
var NewID = uuid.NewString

// DuplicateStrategy controls how repeat voting is prevented
type DuplicateStrategy string

const (
	StrategyNone    DuplicateStrategy = "none"
	StrategyCookies DuplicateStrategy = "cookies"
	StrategyCodes   DuplicateStrategy = "codes"
)

// ParseDuplicateStrategy validates a strategy name
func ParseDuplicateStrategy(s string) (DuplicateStrategy, error) {
	switch DuplicateStrategy(strings.ToLower(strings.TrimSpace(s))) {
	case StrategyNone:
		return StrategyNone, nil
	case StrategyCookies:
		return StrategyCookies, nil
	case StrategyCodes:
		return StrategyCodes, nil
	}
	return "", fmt.Errorf("unknown duplicate vote checking strategy %q", s)
}

// Valid reports whether s is one of the known strategies
func (s DuplicateStrategy) Valid() bool {
	_, err := ParseDuplicateStrategy(string(s))
	return err == nil
}

// Poll is the top-level votable question with its configuration
type Poll struct {
	ID                     string            `json:"id"`
	Question               string            `json:"question"`
	DuplicateVoteChecking  DuplicateStrategy `json:"duplicate_vote_checking"`
	AllowMultipleAnswers   bool              `json:"allow_multiple_answers"`
	HideResultsUntilClosed bool              `json:"hide_results_until_closed"`
	ClosesAt               *time.Time        `json:"closes_at,omitempty"`
	AdminSecretHash        string            `json:"-"`
	CreatedAt              time.Time         `json:"created_at"`
}

// HasAdminSecret reports whether the poll can be administered at all
func (p *Poll) HasAdminSecret() bool {
	return p.AdminSecretHash != ""
}

// Option is one selectable answer within a poll
type Option struct {
	ID       string `json:"id"`
	PollID   string `json:"-"`
	Text     string `json:"text"`
	Position int    `json:"-"`
}

// Vote is one recorded selection of an option
type Vote struct {
	ID       string    `json:"id"`
	OptionID string    `json:"option_id"`
	CastAt   time.Time `json:"cast_at"`
}

// VotingCode is a single-use token granting one vote under the codes strategy
type VotingCode struct {
	ID     string `json:"id"`
	PollID string `json:"-"`
	Used   bool   `json:"used"`
}

// OptionTally is an option together with the number of votes it received
type OptionTally struct {
	Option
	VoteCount int `json:"vote_count"`
}
