package services

import (
	"context"
	stderrors "errors"
	"strings"
	"time"

	"github.com/abrezinsky/pollbox/internal/auth"
	"github.com/abrezinsky/pollbox/internal/errors"
	"github.com/abrezinsky/pollbox/internal/logger"
	"github.com/abrezinsky/pollbox/internal/models"
	"github.com/abrezinsky/pollbox/internal/repository"
)

// VoteOutcome is the result of a vote attempt
type VoteOutcome int

const (
	VoteOK VoteOutcome = iota
	VoteClosed
	VoteAlreadyVoted
	VoteInvalidOptions
)

func (o VoteOutcome) String() string {
	switch o {
	case VoteOK:
		return "ok"
	case VoteClosed:
		return "closed"
	case VoteAlreadyVoted:
		return "already_voted"
	case VoteInvalidOptions:
		return "invalid_options"
	}
	return "unknown"
}

// Err returns the service error describing a rejected vote, or nil
func (o VoteOutcome) Err() error {
	switch o {
	case VoteClosed:
		return ErrPollClosed
	case VoteAlreadyVoted:
		return ErrAlreadyVoted
	case VoteInvalidOptions:
		return ErrInvalidOptions
	}
	return nil
}

// CreatedPoll is a newly stored poll with its options and initial codes
type CreatedPoll struct {
	Poll    *models.Poll
	Options []models.Option
	Codes   []models.VotingCode
}

// PollView is what a voter sees before voting
type PollView struct {
	Poll     *models.Poll
	Options  []models.Option
	Closed   bool
	HasVoted bool
}

// Results is the outcome of a poll as far as the viewer may see it.
// Tallies and Chart are empty unless Visible.
type Results struct {
	Poll       *models.Poll
	Closed     bool
	Visible    bool
	TotalVotes int
	Tallies    []Tally
	Chart      []byte
	Swatches   map[string][]byte
}

// EditResult tells the caller where an administrator should go next
type EditResult struct {
	Closed       bool
	AdminRemoved bool
}

// AdminView is the administrator's overview of a poll
type AdminView struct {
	Poll        *models.Poll
	Closed      bool
	VoteCount   int
	Codes       []models.VotingCode
	UnusedCodes int
}

// PollService implements poll creation, voting and administration
type PollService struct {
	log     logger.Logger
	repo    repository.FullRepository
	guard   *AdmissionGuard
	closing *ClosingEvaluator
	codes   *CodeIssuer
	results ResultsAggregator
	charts  ChartRenderer
	newID   func() string
}

// NewPollService creates a new PollService. baseURL prefixes voting links.
func NewPollService(log logger.Logger, repo repository.FullRepository, charts ChartRenderer, baseURL string) *PollService {
	return &PollService{
		log:     log,
		repo:    repo,
		guard:   NewAdmissionGuard(repo),
		closing: NewClosingEvaluator(repo),
		codes:   NewCodeIssuer(repo, baseURL),
		charts:  charts,
		newID:   models.NewID,
	}
}

// SetClock replaces the time source. Used by tests.
func (s *PollService) SetClock(now func() time.Time) {
	s.closing.now = now
}

// SetIDGenerator replaces the identifier generator. Used by tests.
func (s *PollService) SetIDGenerator(newID func() string) {
	s.newID = newID
	s.codes.newID = newID
}

// unavailable wraps a store failure so callers can tell it from a rejection
func (s *PollService) unavailable(op string, err error) error {
	s.log.Error("Backend failure", "op", op, "error", err)
	return errors.Unavailable(err)
}

// CreatePoll validates and stores a new poll
func (s *PollService) CreatePoll(ctx context.Context, req models.CreatePollRequest) (*CreatedPoll, error) {
	now := s.closing.Now()

	question := strings.TrimSpace(req.Question)
	if question == "" {
		return nil, errors.Validation("question is required")
	}

	texts := models.NormalizeOptions(req.Options)
	if len(texts) < 2 {
		return nil, errors.Validation("at least two options are required")
	}
	seen := make(map[string]bool, len(texts))
	for _, text := range texts {
		if seen[text] {
			return nil, errors.Validationf("option %q is listed more than once", text)
		}
		seen[text] = true
	}

	strategy := req.DuplicateStrategy
	if strategy == "" {
		strategy = models.StrategyNone
	}
	if !strategy.Valid() {
		return nil, errors.Validationf("unknown duplicate vote checking strategy %q", req.DuplicateStrategy)
	}
	if strategy == models.StrategyCodes && req.NumberOfCodes < 2 {
		return nil, errors.Validation("number of codes must be at least 2")
	}

	if req.AutoCloseAt != nil && !req.AutoCloseAt.After(now) {
		return nil, errors.Validation("auto close time must be in the future")
	}
	if req.AdminSecret != nil && *req.AdminSecret == "" {
		return nil, errors.Validation("admin password must not be empty")
	}

	var secretHash string
	if req.AdminSecret != nil {
		hash, err := auth.HashSecret(*req.AdminSecret)
		if err != nil {
			return nil, errors.Internal(err)
		}
		secretHash = hash
	}

	poll := &models.Poll{
		ID:                     s.newID(),
		Question:               question,
		DuplicateVoteChecking:  strategy,
		AllowMultipleAnswers:   req.AllowMultipleAnswers,
		HideResultsUntilClosed: req.HideResultsUntilClosed,
		AdminSecretHash:        secretHash,
		CreatedAt:              now.UTC(),
	}
	if req.AutoCloseAt != nil {
		closesAt := req.AutoCloseAt.UTC()
		poll.ClosesAt = &closesAt
	}

	options := make([]models.Option, len(texts))
	for i, text := range texts {
		options[i] = models.Option{ID: s.newID(), PollID: poll.ID, Text: text, Position: i}
	}

	var codes []models.VotingCode
	if strategy == models.StrategyCodes {
		codes = s.codes.Generate(poll.ID, req.NumberOfCodes)
	}

	if err := s.repo.CreatePoll(ctx, poll, options, codes); err != nil {
		return nil, s.unavailable("create poll", err)
	}

	s.log.Info("Poll created", "poll_id", poll.ID, "options", len(options), "strategy", string(strategy), "codes", len(codes))
	return &CreatedPoll{Poll: poll, Options: options, Codes: codes}, nil
}

// GetPoll loads a poll, reporting a missing one as not found
func (s *PollService) GetPoll(ctx context.Context, id string) (*models.Poll, error) {
	poll, err := s.repo.GetPoll(ctx, id)
	if stderrors.Is(err, repository.ErrNotFound) {
		return nil, errors.NotFound("poll not found")
	}
	if err != nil {
		return nil, s.unavailable("get poll", err)
	}
	return poll, nil
}

// IsClosed reports whether a poll is closed now
func (s *PollService) IsClosed(ctx context.Context, poll *models.Poll) (bool, error) {
	closed, err := s.closing.IsClosed(ctx, poll)
	if err != nil {
		return false, s.unavailable("evaluate closing", err)
	}
	return closed, nil
}

// View loads a poll with its options and the voter's standing
func (s *PollService) View(ctx context.Context, id string, cred VoterCredential) (*PollView, error) {
	poll, err := s.GetPoll(ctx, id)
	if err != nil {
		return nil, err
	}

	closed, err := s.IsClosed(ctx, poll)
	if err != nil {
		return nil, err
	}

	options, err := s.repo.ListOptions(ctx, poll.ID)
	if err != nil {
		return nil, s.unavailable("list options", err)
	}

	hasVoted, err := s.guard.HasVoted(ctx, poll, cred)
	if err != nil {
		return nil, s.unavailable("check admission", err)
	}

	return &PollView{Poll: poll, Options: options, Closed: closed, HasVoted: hasVoted}, nil
}

// CastVote records a voter's selection. Expected rejections are reported
// through the outcome; the error is reserved for missing polls and
// backend failures.
func (s *PollService) CastVote(ctx context.Context, id string, optionIDs []string, cred VoterCredential) (VoteOutcome, error) {
	poll, err := s.GetPoll(ctx, id)
	if err != nil {
		return VoteOK, err
	}

	closed, err := s.IsClosed(ctx, poll)
	if err != nil {
		return VoteOK, err
	}
	if closed {
		s.log.Debug("Vote rejected: poll closed", "poll_id", poll.ID)
		return VoteClosed, nil
	}

	voted, err := s.guard.HasVoted(ctx, poll, cred)
	if err != nil {
		return VoteOK, s.unavailable("check admission", err)
	}
	if voted {
		s.log.Debug("Vote rejected: already voted", "poll_id", poll.ID, "strategy", string(poll.DuplicateVoteChecking))
		return VoteAlreadyVoted, nil
	}

	if !validSelection(optionIDs, poll.AllowMultipleAnswers) {
		s.log.Debug("Vote rejected: invalid selection", "poll_id", poll.ID, "options", len(optionIDs))
		return VoteInvalidOptions, nil
	}

	castAt := s.closing.Now().UTC()
	params := repository.CastVoteParams{PollID: poll.ID}
	for _, optionID := range optionIDs {
		params.Votes = append(params.Votes, models.Vote{ID: s.newID(), OptionID: optionID, CastAt: castAt})
	}
	switch poll.DuplicateVoteChecking {
	case models.StrategyCodes:
		params.CodeID = cred.Code
	case models.StrategyCookies:
		params.SessionID = cred.SessionID
	}

	err = s.repo.CastVote(ctx, params)
	switch {
	case stderrors.Is(err, repository.ErrForeignOption):
		s.log.Debug("Vote rejected: option not in poll", "poll_id", poll.ID)
		return VoteInvalidOptions, nil
	case stderrors.Is(err, repository.ErrCodeUsed), stderrors.Is(err, repository.ErrVoterMarked):
		// Lost a race with a concurrent vote on the same credential.
		s.log.Debug("Vote rejected: credential consumed concurrently", "poll_id", poll.ID)
		return VoteAlreadyVoted, nil
	case err != nil:
		return VoteOK, s.unavailable("cast vote", err)
	}

	s.log.Info("Vote recorded", "poll_id", poll.ID, "options", len(optionIDs))
	return VoteOK, nil
}

// validSelection checks the shape of a selection: non-empty, distinct,
// and a single option unless multiple answers are allowed.
func validSelection(optionIDs []string, allowMultiple bool) bool {
	if len(optionIDs) == 0 {
		return false
	}
	if !allowMultiple && len(optionIDs) != 1 {
		return false
	}
	seen := make(map[string]bool, len(optionIDs))
	for _, id := range optionIDs {
		if id == "" || seen[id] {
			return false
		}
		seen[id] = true
	}
	return true
}

// GetResults tallies a poll and renders its chart when results are visible
func (s *PollService) GetResults(ctx context.Context, id string) (*Results, error) {
	poll, err := s.GetPoll(ctx, id)
	if err != nil {
		return nil, err
	}

	closed, err := s.IsClosed(ctx, poll)
	if err != nil {
		return nil, err
	}

	results := &Results{
		Poll:    poll,
		Closed:  closed,
		Visible: s.results.Visible(poll, closed),
	}
	if !results.Visible {
		return results, nil
	}

	options, err := s.repo.ListOptions(ctx, poll.ID)
	if err != nil {
		return nil, s.unavailable("list options", err)
	}
	counts, err := s.repo.CountVotesByOption(ctx, poll.ID)
	if err != nil {
		return nil, s.unavailable("count votes", err)
	}

	results.Tallies, results.TotalVotes = s.results.Aggregate(options, counts)

	rendered, err := s.charts.Render(ctx, poll.ID, OptionTallies(results.Tallies))
	if err != nil {
		return nil, err
	}
	results.Chart = rendered.Chart
	results.Swatches = rendered.Swatches

	return results, nil
}

// authorize loads a poll and checks the presented admin secret
func (s *PollService) authorize(ctx context.Context, id, secret string) (*models.Poll, error) {
	poll, err := s.GetPoll(ctx, id)
	if err != nil {
		return nil, err
	}
	if !auth.VerifySecret(poll.AdminSecretHash, secret) {
		s.log.Debug("Admin access denied", "poll_id", poll.ID)
		return nil, ErrUnauthorized
	}
	return poll, nil
}

// AdminView returns the administrator's overview of a poll
func (s *PollService) AdminView(ctx context.Context, id string, secret string) (*AdminView, error) {
	poll, err := s.authorize(ctx, id, secret)
	if err != nil {
		return nil, err
	}

	closed, err := s.IsClosed(ctx, poll)
	if err != nil {
		return nil, err
	}

	voteCount, err := s.repo.CountVotes(ctx, poll.ID)
	if err != nil {
		return nil, s.unavailable("count votes", err)
	}

	view := &AdminView{Poll: poll, Closed: closed, VoteCount: voteCount}
	if poll.DuplicateVoteChecking == models.StrategyCodes {
		view.Codes, err = s.repo.ListVotingCodes(ctx, poll.ID)
		if err != nil {
			return nil, s.unavailable("list codes", err)
		}
		for _, c := range view.Codes {
			if !c.Used {
				view.UnusedCodes++
			}
		}
	}
	return view, nil
}

// IssueExtraCodes adds n voting codes to a code poll. A poll closed only
// because its codes ran out becomes open again.
func (s *PollService) IssueExtraCodes(ctx context.Context, id string, n int, secret string) ([]models.VotingCode, error) {
	poll, err := s.authorize(ctx, id, secret)
	if err != nil {
		return nil, err
	}
	if poll.DuplicateVoteChecking != models.StrategyCodes {
		return nil, ErrCodesNotEnabled
	}
	if n < 1 {
		return nil, ErrInvalidCodeCount
	}

	wasClosed, err := s.IsClosed(ctx, poll)
	if err != nil {
		return nil, err
	}

	codes, err := s.codes.Issue(ctx, poll.ID, n)
	if err != nil {
		return nil, s.unavailable("issue codes", err)
	}

	if wasClosed {
		if stillClosed, err := s.IsClosed(ctx, poll); err == nil && !stillClosed {
			s.log.Warn("Extra codes reopened a poll closed by code exhaustion", "poll_id", poll.ID)
		}
	}
	s.log.Info("Voting codes issued", "poll_id", poll.ID, "count", len(codes))
	return codes, nil
}

// EditPoll replaces the admin-editable settings. A nil AdminSecret in req
// removes admin access for good.
func (s *PollService) EditPoll(ctx context.Context, id string, req models.EditPollRequest, secret string) (*EditResult, error) {
	poll, err := s.authorize(ctx, id, secret)
	if err != nil {
		return nil, err
	}

	now := s.closing.Now()
	if req.AutoCloseAt != nil && !req.AutoCloseAt.After(now) {
		return nil, errors.Validation("auto close time must be in the future")
	}
	if req.AdminSecret != nil && *req.AdminSecret == "" {
		return nil, errors.Validation("admin password must not be empty")
	}

	var secretHash string
	if req.AdminSecret != nil {
		// Keep the stored hash when the secret is unchanged.
		if auth.VerifySecret(poll.AdminSecretHash, *req.AdminSecret) {
			secretHash = poll.AdminSecretHash
		} else if secretHash, err = auth.HashSecret(*req.AdminSecret); err != nil {
			return nil, errors.Internal(err)
		}
	}

	var closesAt *time.Time
	if req.AutoCloseAt != nil {
		t := req.AutoCloseAt.UTC()
		closesAt = &t
	}

	if err := s.repo.UpdatePollSettings(ctx, poll.ID, req.HideResultsUntilClosed, closesAt, secretHash); err != nil {
		return nil, s.unavailable("update poll", err)
	}

	poll.HideResultsUntilClosed = req.HideResultsUntilClosed
	poll.ClosesAt = closesAt
	poll.AdminSecretHash = secretHash

	closed, err := s.IsClosed(ctx, poll)
	if err != nil {
		return nil, err
	}

	s.log.Info("Poll settings changed", "poll_id", poll.ID, "admin_removed", req.AdminSecret == nil)
	return &EditResult{Closed: closed, AdminRemoved: req.AdminSecret == nil}, nil
}

// CloseNow closes a poll immediately by setting its closing time to now
func (s *PollService) CloseNow(ctx context.Context, id string, secret string) error {
	poll, err := s.authorize(ctx, id, secret)
	if err != nil {
		return err
	}

	if err := s.repo.SetClosesAt(ctx, poll.ID, s.closing.Now().UTC()); err != nil {
		return s.unavailable("close poll", err)
	}

	s.log.Info("Poll closed", "poll_id", poll.ID)
	return nil
}

// VotingURL returns the voting link for a code
func (s *PollService) VotingURL(pollID, code string) string {
	return s.codes.VotingURL(pollID, code)
}

// VotingURLs returns the voting links for codes in order
func (s *PollService) VotingURLs(pollID string, codes []models.VotingCode) []string {
	return s.codes.VotingURLs(pollID, codes)
}

// QRCode renders the voting link of a code belonging to the poll
func (s *PollService) QRCode(ctx context.Context, pollID, code string) ([]byte, error) {
	_, err := s.repo.GetVotingCode(ctx, pollID, code)
	if stderrors.Is(err, repository.ErrNotFound) {
		return nil, errors.NotFound("voting code not found")
	}
	if err != nil {
		return nil, s.unavailable("get voting code", err)
	}

	png, err := s.codes.QRCode(pollID, code)
	if err != nil {
		return nil, errors.Internal(err)
	}
	return png, nil
}
