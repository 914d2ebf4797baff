package handlers

import (
	"strings"
	"time"

	"github.com/abrezinsky/pollbox/internal/models"
)

// CreatePollRequest is the JSON body for creating a poll. Checkbox fields
// default to false when absent and null option entries are dropped.
type CreatePollRequest struct {
	Question               string    `json:"question"`
	Options                []*string `json:"options"`
	AllowMultipleAnswers   bool      `json:"allow_multiple_answers"`
	HideResultsUntilClosed bool      `json:"hide_results_until_closed"`
	AutomaticallyClose     bool      `json:"automatically_close_poll"`
	CloseDateTime          string    `json:"automatically_close_poll_datetime"`
	SetAdminPassword       bool      `json:"set_admin_password"`
	AdminPassword          string    `json:"admin_password"`
	DuplicateVoteChecking  string    `json:"duplicate_vote_checking"`
	NumberOfCodes          int       `json:"number_of_codes"`
}

// VoteRequest is the JSON body for casting a vote
type VoteRequest struct {
	Options []string `json:"options"`
}

// AdminEditRequest is the JSON body of an admin action. Exactly one of
// ExtraCodes, CloseNow or the settings fields is acted on, in that order.
type AdminEditRequest struct {
	ExtraCodes             *int   `json:"extra_codes"`
	CloseNow               bool   `json:"close_now"`
	HideResultsUntilClosed bool   `json:"hide_results_until_closed"`
	AutomaticallyClose     bool   `json:"automatically_close_poll"`
	CloseDateTime          string `json:"automatically_close_poll_datetime"`
	SetAdminPassword       bool   `json:"set_admin_password"`
	AdminPassword          string `json:"admin_password"`
}

var dateTimeLayouts = []string{
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02T15:04",
	"2006-01-02 15:04:05",
	"2006-01-02 15:04",
}

// parseDateTime reads a submitted deadline; values without an offset are
// taken in loc.
func parseDateTime(value string, loc *time.Location) (time.Time, error) {
	value = strings.TrimSpace(value)
	if t, err := time.Parse(time.RFC3339, value); err == nil {
		return t, nil
	}
	var lastErr error
	for _, layout := range dateTimeLayouts[1:] {
		t, err := time.ParseInLocation(layout, value, loc)
		if err == nil {
			return t, nil
		}
		lastErr = err
	}
	return time.Time{}, lastErr
}

func (h *Handlers) deadline(enabled bool, value string) (*time.Time, error) {
	if !enabled {
		return nil, nil
	}
	if strings.TrimSpace(value) == "" {
		return nil, ValidationError("automatically_close_poll_datetime is required")
	}
	t, err := parseDateTime(value, h.location)
	if err != nil {
		return nil, ValidationError("automatically_close_poll_datetime is not a valid date")
	}
	return &t, nil
}

func adminSecret(set bool, password string) *string {
	if !set {
		return nil
	}
	return &password
}

// toCreatePoll converts the web form into the typed request
func (h *Handlers) toCreatePoll(req CreatePollRequest) (models.CreatePollRequest, error) {
	options := make([]string, 0, len(req.Options))
	for _, o := range req.Options {
		if o != nil {
			options = append(options, *o)
		}
	}

	closesAt, err := h.deadline(req.AutomaticallyClose, req.CloseDateTime)
	if err != nil {
		return models.CreatePollRequest{}, err
	}

	strategy, err := models.ParseDuplicateStrategy(req.DuplicateVoteChecking)
	if err != nil {
		return models.CreatePollRequest{}, ValidationError(err.Error())
	}

	return models.CreatePollRequest{
		Question:               req.Question,
		Options:                options,
		AllowMultipleAnswers:   req.AllowMultipleAnswers,
		HideResultsUntilClosed: req.HideResultsUntilClosed,
		AutoCloseAt:            closesAt,
		AdminSecret:            adminSecret(req.SetAdminPassword, req.AdminPassword),
		DuplicateStrategy:      strategy,
		NumberOfCodes:          req.NumberOfCodes,
	}, nil
}

func (h *Handlers) toEditPoll(req AdminEditRequest) (models.EditPollRequest, error) {
	closesAt, err := h.deadline(req.AutomaticallyClose, req.CloseDateTime)
	if err != nil {
		return models.EditPollRequest{}, err
	}
	return models.EditPollRequest{
		HideResultsUntilClosed: req.HideResultsUntilClosed,
		AutoCloseAt:            closesAt,
		AdminSecret:            adminSecret(req.SetAdminPassword, req.AdminPassword),
	}, nil
}
