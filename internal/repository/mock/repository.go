package mock

import (
	"context"
	"time"

	"github.com/abrezinsky/pollbox/internal/models"
	"github.com/abrezinsky/pollbox/internal/repository"
)

// Repository wraps a real repository and allows injecting errors for testing.
// This provides a flexible way to test error paths without complex database manipulation.
//
// Usage:
//
//	realRepo := testutil.NewTestRepository(t)
//	mockRepo := mock.NewRepository(realRepo)
//	mockRepo.CountVotesError = errors.New("database error")
//	svc := services.NewPollService(log, mockRepo, ...)
//	_, err := svc.GetResults(ctx, pollID, viewer)
//	// err now reports the backend as unavailable
type Repository struct {
	repository.FullRepository

	// ===== Poll Errors =====
	CreatePollError         error
	GetPollError            error
	UpdatePollSettingsError error
	SetClosesAtError        error

	// ===== Option Errors =====
	ListOptionsError error

	// ===== Vote Errors =====
	CastVoteError           error
	CountVotesError         error
	CountVotesByOptionError error

	// ===== Voting Code Errors =====
	CreateVotingCodesError error
	GetVotingCodeError     error
	CountUnusedCodesError  error
	ListVotingCodesError   error

	// ===== Voter Mark Errors =====
	HasVoterMarkError error

	// CastVoteCalls counts CastVote invocations that reached the wrapper
	CastVoteCalls int
}

// NewRepository creates a new mock repository wrapping a real repository
func NewRepository(real repository.FullRepository) *Repository {
	return &Repository{FullRepository: real}
}

func (m *Repository) CreatePoll(ctx context.Context, poll *models.Poll, options []models.Option, codes []models.VotingCode) error {
	if m.CreatePollError != nil {
		return m.CreatePollError
	}
	return m.FullRepository.CreatePoll(ctx, poll, options, codes)
}

func (m *Repository) GetPoll(ctx context.Context, id string) (*models.Poll, error) {
	if m.GetPollError != nil {
		return nil, m.GetPollError
	}
	return m.FullRepository.GetPoll(ctx, id)
}

func (m *Repository) UpdatePollSettings(ctx context.Context, id string, hideResults bool, closesAt *time.Time, adminSecretHash string) error {
	if m.UpdatePollSettingsError != nil {
		return m.UpdatePollSettingsError
	}
	return m.FullRepository.UpdatePollSettings(ctx, id, hideResults, closesAt, adminSecretHash)
}

func (m *Repository) SetClosesAt(ctx context.Context, id string, closesAt time.Time) error {
	if m.SetClosesAtError != nil {
		return m.SetClosesAtError
	}
	return m.FullRepository.SetClosesAt(ctx, id, closesAt)
}

func (m *Repository) ListOptions(ctx context.Context, pollID string) ([]models.Option, error) {
	if m.ListOptionsError != nil {
		return nil, m.ListOptionsError
	}
	return m.FullRepository.ListOptions(ctx, pollID)
}

func (m *Repository) CastVote(ctx context.Context, params repository.CastVoteParams) error {
	m.CastVoteCalls++
	if m.CastVoteError != nil {
		return m.CastVoteError
	}
	return m.FullRepository.CastVote(ctx, params)
}

func (m *Repository) CountVotes(ctx context.Context, pollID string) (int, error) {
	if m.CountVotesError != nil {
		return 0, m.CountVotesError
	}
	return m.FullRepository.CountVotes(ctx, pollID)
}

func (m *Repository) CountVotesByOption(ctx context.Context, pollID string) (map[string]int, error) {
	if m.CountVotesByOptionError != nil {
		return nil, m.CountVotesByOptionError
	}
	return m.FullRepository.CountVotesByOption(ctx, pollID)
}

func (m *Repository) CreateVotingCodes(ctx context.Context, codes []models.VotingCode) error {
	if m.CreateVotingCodesError != nil {
		return m.CreateVotingCodesError
	}
	return m.FullRepository.CreateVotingCodes(ctx, codes)
}

func (m *Repository) GetVotingCode(ctx context.Context, pollID, id string) (*models.VotingCode, error) {
	if m.GetVotingCodeError != nil {
		return nil, m.GetVotingCodeError
	}
	return m.FullRepository.GetVotingCode(ctx, pollID, id)
}

func (m *Repository) CountUnusedCodes(ctx context.Context, pollID string) (int, error) {
	if m.CountUnusedCodesError != nil {
		return 0, m.CountUnusedCodesError
	}
	return m.FullRepository.CountUnusedCodes(ctx, pollID)
}

func (m *Repository) ListVotingCodes(ctx context.Context, pollID string) ([]models.VotingCode, error) {
	if m.ListVotingCodesError != nil {
		return nil, m.ListVotingCodesError
	}
	return m.FullRepository.ListVotingCodes(ctx, pollID)
}

func (m *Repository) HasVoterMark(ctx context.Context, sessionID, pollID string) (bool, error) {
	if m.HasVoterMarkError != nil {
		return false, m.HasVoterMarkError
	}
	return m.FullRepository.HasVoterMark(ctx, sessionID, pollID)
}

// Ensure mock implements the full interface
var _ repository.FullRepository = (*Repository)(nil)
