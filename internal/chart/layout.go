// Package chart renders poll tallies as pie charts with legend swatches.
package chart

import (
	"math"
	"sort"

	"github.com/abrezinsky/pollbox/internal/models"
)

// Slice is one plotted option. Angles are whole degrees measured clockwise
// from three o'clock.
type Slice struct {
	OptionID string
	Votes    int
	Rank     int
	StartDeg int
	EndDeg   int
}

// Total sums the vote counts of all tallies
func Total(tallies []models.OptionTally) int {
	total := 0
	for _, t := range tallies {
		total += t.VoteCount
	}
	return total
}

// Layout orders the options with votes by descending count and assigns
// consecutive arcs starting at 0 degrees. Zero-vote options are left out.
// Each span is rounded independently and ends are clamped to 360, so the
// circle may not close exactly.
func Layout(tallies []models.OptionTally) []Slice {
	total := Total(tallies)
	if total == 0 {
		return nil
	}

	plotted := make([]models.OptionTally, 0, len(tallies))
	for _, t := range tallies {
		if t.VoteCount > 0 {
			plotted = append(plotted, t)
		}
	}
	sort.SliceStable(plotted, func(i, j int) bool {
		return plotted[i].VoteCount > plotted[j].VoteCount
	})

	slices := make([]Slice, len(plotted))
	start := 0
	for i, t := range plotted {
		degrees := int(math.Round(float64(t.VoteCount) / float64(total) * 360))
		end := start + degrees
		if end > 360 {
			end = 360
		}
		slices[i] = Slice{
			OptionID: t.ID,
			Votes:    t.VoteCount,
			Rank:     i,
			StartDeg: start,
			EndDeg:   end,
		}
		start = end
	}
	return slices
}

// Span is the arc width of the slice in degrees
func (s Slice) Span() int {
	return s.EndDeg - s.StartDeg
}
