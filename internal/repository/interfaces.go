package repository

import (
	"context"
	"time"

	"github.com/abrezinsky/pollbox/internal/models"
)

// PollRepository defines poll data operations
type PollRepository interface {
	CreatePoll(ctx context.Context, poll *models.Poll, options []models.Option, codes []models.VotingCode) error
	GetPoll(ctx context.Context, id string) (*models.Poll, error)
	UpdatePollSettings(ctx context.Context, id string, hideResults bool, closesAt *time.Time, adminSecretHash string) error
	SetClosesAt(ctx context.Context, id string, closesAt time.Time) error
}

// OptionRepository defines option data operations
type OptionRepository interface {
	ListOptions(ctx context.Context, pollID string) ([]models.Option, error)
}

// CastVoteParams describes one vote-casting unit of work
type CastVoteParams struct {
	PollID    string
	Votes     []models.Vote
	CodeID    string // consumed when set
	SessionID string // marked as voted when set
}

// VoteRepository defines vote data operations
type VoteRepository interface {
	CastVote(ctx context.Context, params CastVoteParams) error
	CountVotes(ctx context.Context, pollID string) (int, error)
	CountVotesByOption(ctx context.Context, pollID string) (map[string]int, error)
}

// VotingCodeRepository defines voting code data operations
type VotingCodeRepository interface {
	CreateVotingCodes(ctx context.Context, codes []models.VotingCode) error
	GetVotingCode(ctx context.Context, pollID, id string) (*models.VotingCode, error)
	CountUnusedCodes(ctx context.Context, pollID string) (int, error)
	ListVotingCodes(ctx context.Context, pollID string) ([]models.VotingCode, error)
}

// VoterMarkRepository records which browser sessions voted in which polls
type VoterMarkRepository interface {
	HasVoterMark(ctx context.Context, sessionID, pollID string) (bool, error)
}

// FullRepository combines all repository interfaces
// Use this when a service needs access to multiple domains
type FullRepository interface {
	PollRepository
	OptionRepository
	VoteRepository
	VotingCodeRepository
	VoterMarkRepository
}

// Ensure Repository implements all interfaces
var _ FullRepository = (*Repository)(nil)
