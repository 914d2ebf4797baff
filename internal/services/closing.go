package services

import (
	"context"
	"time"

	"github.com/abrezinsky/pollbox/internal/models"
	"github.com/abrezinsky/pollbox/internal/repository"
)

// ClosingEvaluator computes whether a poll is closed
type ClosingEvaluator struct {
	repo repository.VotingCodeRepository
	now  func() time.Time
}

func NewClosingEvaluator(repo repository.VotingCodeRepository) *ClosingEvaluator {
	return &ClosingEvaluator{repo: repo, now: time.Now}
}

// Now returns the evaluator's current time
func (e *ClosingEvaluator) Now() time.Time {
	return e.now()
}

// IsClosed reports whether poll is closed at the current time
func (e *ClosingEvaluator) IsClosed(ctx context.Context, poll *models.Poll) (bool, error) {
	return e.IsClosedAt(ctx, poll, e.now())
}

// IsClosedAt reports whether poll is closed at now: its closing time has
// passed, or it uses codes and none are left unused. A poll is still open
// at the exact closing instant.
func (e *ClosingEvaluator) IsClosedAt(ctx context.Context, poll *models.Poll, now time.Time) (bool, error) {
	if poll.ClosesAt != nil && now.After(*poll.ClosesAt) {
		return true, nil
	}
	if poll.DuplicateVoteChecking == models.StrategyCodes {
		unused, err := e.repo.CountUnusedCodes(ctx, poll.ID)
		if err != nil {
			return false, err
		}
		return unused == 0, nil
	}
	return false, nil
}
