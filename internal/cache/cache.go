// Package cache holds rendered poll charts between requests.
package cache

import (
	"context"
	stderrors "errors"
	"time"
)

// ChartTTL bounds how long a rendered chart is kept regardless of staleness
const ChartTTL = 24 * time.Hour

// ErrMiss is returned by Get when no live entry exists for a poll
var ErrMiss = stderrors.New("cache miss")

// Entry is a rendered chart together with the vote count it was rendered for
type Entry struct {
	VoteCount int               `msgpack:"vote_count"`
	Chart     []byte            `msgpack:"chart"`
	Swatches  map[string][]byte `msgpack:"swatches"`
}

// Store is a keyed chart cache. Concurrent Puts for one poll are last
// writer wins.
type Store interface {
	Get(ctx context.Context, pollID string) (Entry, error)
	Put(ctx context.Context, pollID string, entry Entry, ttl time.Duration) error
	Has(ctx context.Context, pollID string) (bool, error)
}
