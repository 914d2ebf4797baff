package repository

import "errors"

// ErrNotFound is returned when a requested record is not found in the repository.
// This abstracts away the underlying storage implementation (SQL, NoSQL, etc.)
// from the service layer.
var ErrNotFound = errors.New("record not found")

// ErrForeignOption is returned by CastVote when an option id does not belong
// to the poll. The whole vote is rolled back.
var ErrForeignOption = errors.New("option does not belong to poll")

// ErrCodeUsed is returned by CastVote when the presented voting code was
// already consumed (or never existed) at commit time.
var ErrCodeUsed = errors.New("voting code already used")

// ErrVoterMarked is returned by CastVote when the browser session already
// holds a vote marker for the poll.
var ErrVoterMarked = errors.New("voter already marked for poll")
