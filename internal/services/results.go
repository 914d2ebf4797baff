package services

import (
	"github.com/abrezinsky/pollbox/internal/models"
)

// Tally is an option's vote count and share of all votes
type Tally struct {
	models.OptionTally
	Share float64 `json:"share"`
}

// ResultsAggregator tallies votes and gates their visibility
type ResultsAggregator struct{}

// Aggregate pairs each option with its vote count and share, keeping
// option order. Share is 0 when no votes were cast.
func (ResultsAggregator) Aggregate(options []models.Option, counts map[string]int) ([]Tally, int) {
	total := 0
	for _, o := range options {
		total += counts[o.ID]
	}

	tallies := make([]Tally, len(options))
	for i, o := range options {
		count := counts[o.ID]
		share := 0.0
		if total > 0 {
			share = float64(count) / float64(total)
		}
		tallies[i] = Tally{
			OptionTally: models.OptionTally{Option: o, VoteCount: count},
			Share:       share,
		}
	}
	return tallies, total
}

// Visible reports whether per-option results may be shown
func (ResultsAggregator) Visible(poll *models.Poll, closed bool) bool {
	return !poll.HideResultsUntilClosed || closed
}

// OptionTallies strips shares for chart rendering
func OptionTallies(tallies []Tally) []models.OptionTally {
	out := make([]models.OptionTally, len(tallies))
	for i, t := range tallies {
		out[i] = t.OptionTally
	}
	return out
}
