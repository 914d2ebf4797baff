package chart

import (
	"context"
	stderrors "errors"
	"image/color"

	"github.com/abrezinsky/pollbox/internal/cache"
	"github.com/abrezinsky/pollbox/internal/errors"
	"github.com/abrezinsky/pollbox/internal/logger"
	"github.com/abrezinsky/pollbox/internal/models"
)

const (
	DefaultSize          = 512
	DefaultPadding       = 16
	DefaultSupersampling = 8
)

// Result is a rendered chart with one swatch per plotted option
type Result struct {
	VoteCount int
	Chart     []byte
	Swatches  map[string][]byte
	Cached    bool
}

// Renderer draws pie charts and keeps them in a cache keyed by poll id.
// A cached chart is reused only while the poll's total vote count is unchanged.
type Renderer struct {
	log     logger.Logger
	store   cache.Store
	shuffle ShuffleFunc

	Size          int
	Padding       int
	Supersampling int
}

// NewRenderer creates a Renderer producing 512px charts
func NewRenderer(log logger.Logger, store cache.Store) *Renderer {
	return &Renderer{
		log:           log,
		store:         store,
		shuffle:       DefaultShuffle,
		Size:          DefaultSize,
		Padding:       DefaultPadding,
		Supersampling: DefaultSupersampling,
	}
}

// SetShuffle replaces the palette shuffle. Used by tests.
func (r *Renderer) SetShuffle(shuffle ShuffleFunc) {
	r.shuffle = shuffle
}

// Render returns the chart for a poll's tallies, from cache when the vote
// count matches. Cache backend failures are reported as unavailable.
func (r *Renderer) Render(ctx context.Context, pollID string, tallies []models.OptionTally) (*Result, error) {
	total := Total(tallies)

	entry, err := r.store.Get(ctx, pollID)
	switch {
	case err == nil && entry.VoteCount == total:
		return &Result{VoteCount: entry.VoteCount, Chart: entry.Chart, Swatches: entry.Swatches, Cached: true}, nil
	case err != nil && !stderrors.Is(err, cache.ErrMiss):
		r.log.Error("Chart cache read failed", "poll_id", pollID, "error", err)
		return nil, errors.Unavailable(err)
	}

	result, err := r.Draw(tallies)
	if err != nil {
		return nil, errors.Internal(err)
	}

	err = r.store.Put(ctx, pollID, cache.Entry{
		VoteCount: result.VoteCount,
		Chart:     result.Chart,
		Swatches:  result.Swatches,
	}, cache.ChartTTL)
	if err != nil {
		r.log.Error("Chart cache write failed", "poll_id", pollID, "error", err)
		return nil, errors.Unavailable(err)
	}

	r.log.Debug("Chart rendered", "poll_id", pollID, "vote_count", total)
	return result, nil
}

// Draw renders tallies without consulting the cache
func (r *Renderer) Draw(tallies []models.OptionTally) (*Result, error) {
	slices := Layout(tallies)
	palette := Palette(r.shuffle)

	colors := make([]color.RGBA, len(slices))
	swatches := make(map[string][]byte, len(slices))
	for i, s := range slices {
		colors[i] = SliceColor(palette, s.Rank, len(slices))

		b, err := encodePNG(swatch(colors[i]))
		if err != nil {
			return nil, err
		}
		swatches[s.OptionID] = b
	}

	factor := r.Supersampling
	if factor < 1 {
		factor = 1
	}
	canvas := drawPie(r.Size*factor, r.Padding*factor, slices, colors)

	chart, err := encodePNG(downsample(canvas, r.Size))
	if err != nil {
		return nil, err
	}

	return &Result{
		VoteCount: Total(tallies),
		Chart:     chart,
		Swatches:  swatches,
	}, nil
}
