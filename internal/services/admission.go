package services

import (
	"context"
	stderrors "errors"

	"github.com/abrezinsky/pollbox/internal/models"
	"github.com/abrezinsky/pollbox/internal/repository"
)

// VoterCredential is what a voter presents: their browser session and,
// for code polls, a voting code.
type VoterCredential struct {
	SessionID string
	Code      string
}

// AdmissionRepository defines the repository methods needed by AdmissionGuard
type AdmissionRepository interface {
	repository.VotingCodeRepository
	repository.VoterMarkRepository
}

// AdmissionGuard decides whether a voter has already voted under the
// poll's duplicate-vote strategy
type AdmissionGuard struct {
	repo AdmissionRepository
}

func NewAdmissionGuard(repo AdmissionRepository) *AdmissionGuard {
	return &AdmissionGuard{repo: repo}
}

// HasVoted reports whether cred is barred from voting in poll. Under the
// codes strategy an unknown code counts as already voted.
func (g *AdmissionGuard) HasVoted(ctx context.Context, poll *models.Poll, cred VoterCredential) (bool, error) {
	switch poll.DuplicateVoteChecking {
	case models.StrategyCookies:
		if cred.SessionID == "" {
			return false, nil
		}
		return g.repo.HasVoterMark(ctx, cred.SessionID, poll.ID)

	case models.StrategyCodes:
		if cred.Code == "" {
			return true, nil
		}
		code, err := g.repo.GetVotingCode(ctx, poll.ID, cred.Code)
		if stderrors.Is(err, repository.ErrNotFound) {
			return true, nil
		}
		if err != nil {
			return false, err
		}
		return code.Used, nil
	}
	return false, nil
}
