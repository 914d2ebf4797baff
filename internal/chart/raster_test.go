package chart

import (
	"image/color"
	"testing"
)

func TestDrawPie_SlicesRunClockwiseFromThreeOClock(t *testing.T) {
	red := color.RGBA{0xFF, 0, 0, 0xFF}
	blue := color.RGBA{0, 0, 0xFF, 0xFF}
	slices := []Slice{
		{OptionID: "a", Votes: 1, Rank: 0, StartDeg: 0, EndDeg: 90},
		{OptionID: "b", Votes: 3, Rank: 1, StartDeg: 90, EndDeg: 360},
	}

	img := drawPie(200, 10, slices, []color.RGBA{red, blue})

	if b := img.Bounds(); b.Dx() != 200 || b.Dy() != 200 {
		t.Fatalf("expected 200x200 canvas, got %v", b)
	}

	tests := []struct {
		name string
		deg  float64
		want color.RGBA
	}{
		// y grows downward, so 45 degrees is below-right of the centre
		{"first quadrant", 45, red},
		{"just before straight down", 80, red},
		{"left", 180, blue},
		{"up", 270, blue},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			x, y := pointAt(200, 10, tt.deg, 0.6)
			if got := rgbaAt(img, x, y); !nearColor(got, tt.want) {
				t.Errorf("expected %v at %v degrees (%d,%d), got %v", tt.want, tt.deg, x, y, got)
			}
		})
	}

	for _, p := range [][2]int{{0, 0}, {199, 0}, {100, 3}, {3, 100}} {
		if c := rgbaAt(img, p[0], p[1]); c.A != 0 {
			t.Errorf("expected padding at %v to stay transparent, got %v", p, c)
		}
	}
}

func TestDrawPie_FullCircleAndEmptySlices(t *testing.T) {
	green := color.RGBA{0, 0xFF, 0, 0xFF}
	slices := []Slice{
		{OptionID: "a", Votes: 5, StartDeg: 0, EndDeg: 360},
		{OptionID: "b", Votes: 0, StartDeg: 360, EndDeg: 360},
	}

	img := drawPie(100, 5, slices, []color.RGBA{green, {0xFF, 0, 0, 0xFF}})

	for _, deg := range []float64{0, 90, 180, 270, 359} {
		x, y := pointAt(100, 5, deg, 0.5)
		if got := rgbaAt(img, x, y); !nearColor(got, green) {
			t.Errorf("expected full circle at %v degrees, got %v", deg, got)
		}
	}
}

func TestSwatch_IsSolid(t *testing.T) {
	c := color.RGBA{0x3F, 0x64, 0xEB, 0xFF}
	img := swatch(c)

	if b := img.Bounds(); b.Dx() != SwatchSize || b.Dy() != SwatchSize {
		t.Fatalf("expected %dx%d swatch, got %v", SwatchSize, SwatchSize, b)
	}
	for y := 0; y < SwatchSize; y++ {
		for x := 0; x < SwatchSize; x++ {
			if got := rgbaAt(img, x, y); !nearColor(got, c) {
				t.Fatalf("expected solid %v at (%d,%d), got %v", c, x, y, got)
			}
		}
	}
}
