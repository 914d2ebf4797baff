package chart

import (
	"image/color"
	"testing"

	"github.com/lucasb-eyer/go-colorful"
)

func near(a, b uint8) bool {
	d := int(a) - int(b)
	return d >= -1 && d <= 1
}

func nearColor(a, b color.RGBA) bool {
	return near(a.R, b.R) && near(a.G, b.G) && near(a.B, b.B) && a.A == b.A
}

func TestPalette_Unshuffled(t *testing.T) {
	p := Palette(nil)
	if len(p) != 7 {
		t.Fatalf("expected 7 base colours, got %d", len(p))
	}
	for i, hex := range BaseColors {
		want, _ := colorful.Hex(hex)
		if p[i] != want {
			t.Errorf("colour %d: expected %s, got %s", i, hex, p[i].Hex())
		}
	}
}

func TestPalette_ShuffleIsPermutation(t *testing.T) {
	reverse := func(n int, swap func(i, j int)) {
		for i := 0; i < n/2; i++ {
			swap(i, n-1-i)
		}
	}
	p := Palette(reverse)
	if p[0].Hex() != "#3fe8db" || p[6].Hex() != "#e8963f" {
		t.Errorf("expected reversed palette, got first %s last %s", p[0].Hex(), p[6].Hex())
	}

	seen := make(map[string]bool)
	for _, c := range Palette(DefaultShuffle) {
		seen[c.Hex()] = true
	}
	if len(seen) != 7 {
		t.Errorf("expected 7 distinct colours after shuffle, got %d", len(seen))
	}
}

func TestSliceColor(t *testing.T) {
	p := Palette(nil)

	tests := []struct {
		name string
		rank int
		n    int
		want color.RGBA
	}{
		{"first pass is the base colour", 0, 3, color.RGBA{0xE8, 0x96, 0x3F, 0xFF}},
		{"last base colour", 6, 7, color.RGBA{0x3F, 0xE8, 0xDB, 0xFF}},
		// n=8: second pass blended by 1/(8/7+1) = 1/2, 202.5 truncates to 202
		{"second pass halfway to white", 7, 8, color.RGBA{243, 202, 159, 0xFF}},
		// n=14: second pass blended by 1/(14/7+1) = 1/3, 239.67 truncates to 239
		{"second pass a third to white", 8, 14, color.RGBA{200, 127, 239, 0xFF}},
		// n=15: third pass blended by 2/3
		{"third pass two thirds to white", 14, 15, color.RGBA{247, 220, 191, 0xFF}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := SliceColor(p, tt.rank, tt.n)
			if got != tt.want {
				t.Errorf("expected %v, got %v", tt.want, got)
			}
		})
	}
}

func TestSliceColor_RepeatsAreLighter(t *testing.T) {
	p := Palette(nil)
	first := SliceColor(p, 0, 8)
	repeat := SliceColor(p, 7, 8)
	if first == repeat {
		t.Fatal("expected repeated hue to differ")
	}
	if repeat.R < first.R || repeat.G < first.G || repeat.B < first.B {
		t.Errorf("expected repeat %v to be lighter than %v", repeat, first)
	}
}
