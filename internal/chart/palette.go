package chart

import (
	"image/color"
	"math/rand"

	"github.com/lucasb-eyer/go-colorful"
)

// BaseColors is the fixed palette slices cycle through
var BaseColors = []string{
	"#E8963F",
	"#AD3FE8",
	"#3FE86F",
	"#E8E33F",
	"#3F64EB",
	"#E83F65",
	"#3FE8DB",
}

// ShuffleFunc permutes n elements through swap, like rand.Shuffle
type ShuffleFunc func(n int, swap func(i, j int))

// DefaultShuffle draws from the process-wide random source
var DefaultShuffle ShuffleFunc = rand.Shuffle

// Palette returns the base colours in a shuffled order
func Palette(shuffle ShuffleFunc) []colorful.Color {
	palette := make([]colorful.Color, len(BaseColors))
	for i, hex := range BaseColors {
		palette[i], _ = colorful.Hex(hex)
	}
	if shuffle != nil {
		shuffle(len(palette), func(i, j int) {
			palette[i], palette[j] = palette[j], palette[i]
		})
	}
	return palette
}

// SliceColor picks the colour for the slice at rank among n plotted slices.
// Each full pass through the palette is blended further toward white so
// repeated hues stay distinguishable. Channels are truncated, not rounded.
func SliceColor(palette []colorful.Color, rank, n int) color.RGBA {
	size := len(palette)
	r, g, b := palette[rank%size].RGB255()
	cycle := rank / size
	steps := n/size + 1

	lighten := func(v uint8) uint8 {
		return v + uint8((int(255-v)*cycle)/steps)
	}
	return color.RGBA{R: lighten(r), G: lighten(g), B: lighten(b), A: 0xFF}
}
