package services

import (
	"context"

	"github.com/abrezinsky/pollbox/internal/chart"
	"github.com/abrezinsky/pollbox/internal/models"
)

// PollServicer defines the interface for poll operations
type PollServicer interface {
	CreatePoll(ctx context.Context, req models.CreatePollRequest) (*CreatedPoll, error)
	GetPoll(ctx context.Context, id string) (*models.Poll, error)
	View(ctx context.Context, id string, cred VoterCredential) (*PollView, error)
	CastVote(ctx context.Context, id string, optionIDs []string, cred VoterCredential) (VoteOutcome, error)
	GetResults(ctx context.Context, id string) (*Results, error)
	IssueExtraCodes(ctx context.Context, id string, n int, secret string) ([]models.VotingCode, error)
	EditPoll(ctx context.Context, id string, req models.EditPollRequest, secret string) (*EditResult, error)
	CloseNow(ctx context.Context, id string, secret string) error
	AdminView(ctx context.Context, id string, secret string) (*AdminView, error)
	VotingURL(pollID, code string) string
	QRCode(ctx context.Context, pollID, code string) ([]byte, error)
}

// ChartRenderer renders and caches a poll's pie chart
type ChartRenderer interface {
	Render(ctx context.Context, pollID string, tallies []models.OptionTally) (*chart.Result, error)
}

// Ensure implementation satisfies interface
var _ PollServicer = (*PollService)(nil)
var _ ChartRenderer = (*chart.Renderer)(nil)
