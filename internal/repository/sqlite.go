package repository

import (
	"context"
	"database/sql"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"github.com/abrezinsky/pollbox/internal/models"
)

// Repository provides data access methods
type Repository struct {
	db *sql.DB
}

// New creates a new Repository
func New(dbPath string) (*Repository, error) {
	db, err := sql.Open("sqlite3", dbPath)
	if err != nil {
		return nil, err
	}

	// Enable foreign key constraints
	if _, err := db.Exec("PRAGMA foreign_keys = ON"); err != nil {
		return nil, err
	}

	// SQLite works best with a single connection; this also serialises
	// every transaction, which CastVote relies on.
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)

	repo := &Repository{db: db}

	if err := repo.migrate(); err != nil {
		return nil, err
	}

	return repo, nil
}

// Close closes the database connection
func (r *Repository) Close() error {
	if r.db != nil {
		return r.db.Close()
	}
	return nil
}

// Ping checks if the database connection is alive
func (r *Repository) Ping(ctx context.Context) error {
	return r.db.PingContext(ctx)
}

// migrate runs database migrations
func (r *Repository) migrate() error {
	migrations := []string{
		`CREATE TABLE IF NOT EXISTS polls (
			id TEXT PRIMARY KEY,
			question TEXT NOT NULL,
			duplicate_vote_checking TEXT NOT NULL DEFAULT 'none'
				CHECK (duplicate_vote_checking IN ('none', 'cookies', 'codes')),
			allow_multiple_answers BOOLEAN NOT NULL DEFAULT 0,
			hide_results_until_closed BOOLEAN NOT NULL DEFAULT 0,
			closes_at DATETIME,
			admin_secret_hash TEXT,
			created_at DATETIME NOT NULL
		)`,
		`CREATE TABLE IF NOT EXISTS options (
			id TEXT PRIMARY KEY,
			poll_id TEXT NOT NULL,
			text TEXT NOT NULL,
			position INTEGER NOT NULL,
			FOREIGN KEY (poll_id) REFERENCES polls(id),
			UNIQUE(poll_id, text)
		)`,
		`CREATE TABLE IF NOT EXISTS votes (
			id TEXT PRIMARY KEY,
			poll_id TEXT NOT NULL,
			option_id TEXT NOT NULL,
			cast_at DATETIME NOT NULL,
			FOREIGN KEY (poll_id) REFERENCES polls(id),
			FOREIGN KEY (option_id) REFERENCES options(id)
		)`,
		`CREATE TABLE IF NOT EXISTS voting_codes (
			id TEXT PRIMARY KEY,
			poll_id TEXT NOT NULL,
			used BOOLEAN NOT NULL DEFAULT 0,
			FOREIGN KEY (poll_id) REFERENCES polls(id)
		)`,
		`CREATE TABLE IF NOT EXISTS voter_marks (
			session_id TEXT NOT NULL,
			poll_id TEXT NOT NULL,
			marked_at DATETIME NOT NULL,
			PRIMARY KEY (session_id, poll_id),
			FOREIGN KEY (poll_id) REFERENCES polls(id)
		)`,
		`CREATE INDEX IF NOT EXISTS idx_options_poll ON options(poll_id)`,
		`CREATE INDEX IF NOT EXISTS idx_votes_poll ON votes(poll_id)`,
		`CREATE INDEX IF NOT EXISTS idx_votes_option ON votes(option_id)`,
		`CREATE INDEX IF NOT EXISTS idx_voting_codes_poll ON voting_codes(poll_id, used)`,
	}

	for _, migration := range migrations {
		if _, err := r.db.Exec(migration); err != nil {
			return err
		}
	}
	return nil
}

// ==================== Poll Methods ====================

// CreatePoll stores a poll with its options and initial voting codes in one transaction
func (r *Repository) CreatePoll(ctx context.Context, poll *models.Poll, options []models.Option, codes []models.VotingCode) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx, `
		INSERT INTO polls (id, question, duplicate_vote_checking, allow_multiple_answers,
		                   hide_results_until_closed, closes_at, admin_secret_hash, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	`, poll.ID, poll.Question, string(poll.DuplicateVoteChecking), poll.AllowMultipleAnswers,
		poll.HideResultsUntilClosed, nullTime(poll.ClosesAt), nullString(poll.AdminSecretHash), poll.CreatedAt.UTC())
	if err != nil {
		return err
	}

	for _, opt := range options {
		if _, err := tx.ExecContext(ctx, `
			INSERT INTO options (id, poll_id, text, position) VALUES (?, ?, ?, ?)
		`, opt.ID, poll.ID, opt.Text, opt.Position); err != nil {
			return err
		}
	}

	if err := insertCodes(ctx, tx, codes); err != nil {
		return err
	}

	return tx.Commit()
}

// GetPoll retrieves a poll by id
func (r *Repository) GetPoll(ctx context.Context, id string) (*models.Poll, error) {
	var p models.Poll
	var strategy string
	var closesAt sql.NullTime
	var secretHash sql.NullString

	err := r.db.QueryRowContext(ctx, `
		SELECT id, question, duplicate_vote_checking, allow_multiple_answers,
		       hide_results_until_closed, closes_at, admin_secret_hash, created_at
		FROM polls WHERE id = ?
	`, id).Scan(&p.ID, &p.Question, &strategy, &p.AllowMultipleAnswers,
		&p.HideResultsUntilClosed, &closesAt, &secretHash, &p.CreatedAt)
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}

	p.DuplicateVoteChecking = models.DuplicateStrategy(strategy)
	if closesAt.Valid {
		t := closesAt.Time.UTC()
		p.ClosesAt = &t
	}
	p.AdminSecretHash = secretHash.String
	p.CreatedAt = p.CreatedAt.UTC()
	return &p, nil
}

// UpdatePollSettings replaces the admin-editable settings of a poll
func (r *Repository) UpdatePollSettings(ctx context.Context, id string, hideResults bool, closesAt *time.Time, adminSecretHash string) error {
	result, err := r.db.ExecContext(ctx, `
		UPDATE polls SET hide_results_until_closed = ?, closes_at = ?, admin_secret_hash = ?
		WHERE id = ?
	`, hideResults, nullTime(closesAt), nullString(adminSecretHash), id)
	if err != nil {
		return err
	}
	return requireRow(result)
}

// SetClosesAt sets the automatic closing time of a poll
func (r *Repository) SetClosesAt(ctx context.Context, id string, closesAt time.Time) error {
	result, err := r.db.ExecContext(ctx, `UPDATE polls SET closes_at = ? WHERE id = ?`, closesAt.UTC(), id)
	if err != nil {
		return err
	}
	return requireRow(result)
}

// ==================== Option Methods ====================

// ListOptions returns the options of a poll in creation order
func (r *Repository) ListOptions(ctx context.Context, pollID string) ([]models.Option, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, poll_id, text, position FROM options WHERE poll_id = ? ORDER BY position
	`, pollID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var options []models.Option
	for rows.Next() {
		var o models.Option
		if err := rows.Scan(&o.ID, &o.PollID, &o.Text, &o.Position); err != nil {
			return nil, err
		}
		options = append(options, o)
	}
	return options, rows.Err()
}

// ==================== Vote Methods ====================

// CastVote inserts all votes of one submission atomically. Each option is
// checked for membership in the poll inside the transaction; the voting code
// is consumed with a conditional update so two submissions can never share
// one code.
func (r *Repository) CastVote(ctx context.Context, params CastVoteParams) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	for _, vote := range params.Votes {
		var owned int
		if err := tx.QueryRowContext(ctx, `
			SELECT COUNT(*) FROM options WHERE id = ? AND poll_id = ?
		`, vote.OptionID, params.PollID).Scan(&owned); err != nil {
			return err
		}
		if owned == 0 {
			return ErrForeignOption
		}

		if _, err := tx.ExecContext(ctx, `
			INSERT INTO votes (id, poll_id, option_id, cast_at) VALUES (?, ?, ?, ?)
		`, vote.ID, params.PollID, vote.OptionID, vote.CastAt.UTC()); err != nil {
			return err
		}
	}

	if params.CodeID != "" {
		result, err := tx.ExecContext(ctx, `
			UPDATE voting_codes SET used = 1 WHERE id = ? AND poll_id = ? AND used = 0
		`, params.CodeID, params.PollID)
		if err != nil {
			return err
		}
		if n, err := result.RowsAffected(); err != nil {
			return err
		} else if n == 0 {
			return ErrCodeUsed
		}
	}

	if params.SessionID != "" {
		result, err := tx.ExecContext(ctx, `
			INSERT OR IGNORE INTO voter_marks (session_id, poll_id, marked_at) VALUES (?, ?, ?)
		`, params.SessionID, params.PollID, time.Now().UTC())
		if err != nil {
			return err
		}
		if n, err := result.RowsAffected(); err != nil {
			return err
		} else if n == 0 {
			return ErrVoterMarked
		}
	}

	return tx.Commit()
}

// CountVotes returns the total number of vote rows for a poll
func (r *Repository) CountVotes(ctx context.Context, pollID string) (int, error) {
	var count int
	err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM votes WHERE poll_id = ?`, pollID).Scan(&count)
	return count, err
}

// CountVotesByOption returns option id -> vote count for options with at least one vote
func (r *Repository) CountVotesByOption(ctx context.Context, pollID string) (map[string]int, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT option_id, COUNT(*) FROM votes WHERE poll_id = ? GROUP BY option_id
	`, pollID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	counts := make(map[string]int)
	for rows.Next() {
		var optionID string
		var count int
		if err := rows.Scan(&optionID, &count); err != nil {
			return nil, err
		}
		counts[optionID] = count
	}
	return counts, rows.Err()
}

// ==================== Voting Code Methods ====================

// CreateVotingCodes stores a batch of codes atomically
func (r *Repository) CreateVotingCodes(ctx context.Context, codes []models.VotingCode) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if err := insertCodes(ctx, tx, codes); err != nil {
		return err
	}
	return tx.Commit()
}

// GetVotingCode looks up a code belonging to a poll
func (r *Repository) GetVotingCode(ctx context.Context, pollID, id string) (*models.VotingCode, error) {
	var c models.VotingCode
	err := r.db.QueryRowContext(ctx, `
		SELECT id, poll_id, used FROM voting_codes WHERE id = ? AND poll_id = ?
	`, id, pollID).Scan(&c.ID, &c.PollID, &c.Used)
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &c, nil
}

// CountUnusedCodes returns the number of codes still available for a poll
func (r *Repository) CountUnusedCodes(ctx context.Context, pollID string) (int, error) {
	var count int
	err := r.db.QueryRowContext(ctx, `
		SELECT COUNT(*) FROM voting_codes WHERE poll_id = ? AND used = 0
	`, pollID).Scan(&count)
	return count, err
}

// ListVotingCodes returns all codes of a poll in creation order
func (r *Repository) ListVotingCodes(ctx context.Context, pollID string) ([]models.VotingCode, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, poll_id, used FROM voting_codes WHERE poll_id = ? ORDER BY rowid
	`, pollID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var codes []models.VotingCode
	for rows.Next() {
		var c models.VotingCode
		if err := rows.Scan(&c.ID, &c.PollID, &c.Used); err != nil {
			return nil, err
		}
		codes = append(codes, c)
	}
	return codes, rows.Err()
}

// ==================== Voter Mark Methods ====================

// HasVoterMark reports whether a browser session already voted in a poll
func (r *Repository) HasVoterMark(ctx context.Context, sessionID, pollID string) (bool, error) {
	var count int
	err := r.db.QueryRowContext(ctx, `
		SELECT COUNT(*) FROM voter_marks WHERE session_id = ? AND poll_id = ?
	`, sessionID, pollID).Scan(&count)
	return count > 0, err
}

// ==================== Helpers ====================

func insertCodes(ctx context.Context, tx *sql.Tx, codes []models.VotingCode) error {
	for _, code := range codes {
		if _, err := tx.ExecContext(ctx, `
			INSERT INTO voting_codes (id, poll_id, used) VALUES (?, ?, ?)
		`, code.ID, code.PollID, code.Used); err != nil {
			return err
		}
	}
	return nil
}

func requireRow(result sql.Result) error {
	n, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

func nullTime(t *time.Time) sql.NullTime {
	if t == nil {
		return sql.NullTime{}
	}
	return sql.NullTime{Time: t.UTC(), Valid: true}
}

func nullString(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}
