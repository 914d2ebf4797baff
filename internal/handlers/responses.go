package handlers

import (
	"net/url"
	"time"
)

// ConfigResponse is the response for the client configuration endpoint
type ConfigResponse struct {
	Timezone string `json:"timezone"`
}

// CreatePollResponse is the response for poll creation
type CreatePollResponse struct {
	ID         string   `json:"id"`
	VotingURLs []string `json:"voting_urls,omitempty"`
}

// OptionResponse is one selectable option
type OptionResponse struct {
	ID   string `json:"id"`
	Text string `json:"text"`
}

// PollResponse is the voter's view of an open poll
type PollResponse struct {
	ID                     string           `json:"id"`
	New                    bool             `json:"new"`
	Question               string           `json:"question"`
	Options                []OptionResponse `json:"options"`
	MultipleAnswersAllowed bool             `json:"multiple_answers_allowed"`
	HasVoted               bool             `json:"has_voted"`
	ClosesAt               *time.Time       `json:"closes_at,omitempty"`
	ClosesIn               string           `json:"closes_in,omitempty"`
	VotingURLs             []string         `json:"voting_urls,omitempty"`
}

// ResultResponse is one option's tally
type ResultResponse struct {
	ID        string  `json:"id"`
	Text      string  `json:"text"`
	VoteCount int     `json:"vote_count"`
	Share     float64 `json:"share"`
	Swatch    string  `json:"swatch,omitempty"`
}

// ResultsResponse is the results page payload
type ResultsResponse struct {
	ID             string           `json:"id"`
	Question       string           `json:"question"`
	Voted          bool             `json:"voted"`
	AlreadyClosed  bool             `json:"already_closed"`
	Closed         bool             `json:"closed"`
	ResultsVisible bool             `json:"results_visible"`
	TotalVotes     *int             `json:"total_votes,omitempty"`
	Results        []ResultResponse `json:"results,omitempty"`
	Chart          string           `json:"chart,omitempty"`
}

// CodeResponse is a voting code as shown to the administrator
type CodeResponse struct {
	Code      string `json:"code"`
	Used      bool   `json:"used"`
	VotingURL string `json:"voting_url"`
}

// PollSettingsResponse is the editable part of a poll
type PollSettingsResponse struct {
	DuplicateVoteChecking  string     `json:"duplicate_vote_checking"`
	AllowMultipleAnswers   bool       `json:"allow_multiple_answers"`
	HideResultsUntilClosed bool       `json:"hide_results_until_closed"`
	ClosesAt               *time.Time `json:"closes_at,omitempty"`
}

// AdminResponse is the administrator's view of a poll
type AdminResponse struct {
	ID              string               `json:"id"`
	Question        string               `json:"question"`
	Changed         bool                 `json:"changed"`
	Closed          bool                 `json:"closed"`
	VoteCount       int                  `json:"vote_count"`
	ExtraVotingURLs []string             `json:"extra_voting_urls"`
	UnusedCodes     int                  `json:"unused_codes"`
	Codes           []CodeResponse       `json:"codes,omitempty"`
	Settings        PollSettingsResponse `json:"settings"`
}

func pollPath(id string) string {
	return "/api/polls/" + url.PathEscape(id)
}

func pollWithCodePath(id, code string) string {
	if code == "" {
		return pollPath(id)
	}
	return pollPath(id) + "?code=" + url.QueryEscape(code)
}

func resultsPath(id string) string {
	return pollPath(id) + "/results"
}

func adminPath(id, password string) string {
	return pollPath(id) + "/admin?password=" + url.QueryEscape(password)
}
