package chart

import (
	"bytes"
	"encoding/base64"
	"image"
	"image/color"
	"image/png"

	"github.com/fogleman/gg"
	"github.com/nfnt/resize"
)

// SwatchSize is the edge length of a legend swatch in pixels
const SwatchSize = 13

// drawPie paints slices onto a transparent square canvas of edge size,
// leaving padding on every side. Angles start at three o'clock and run
// clockwise.
func drawPie(size, padding int, slices []Slice, colors []color.RGBA) image.Image {
	dc := gg.NewContext(size, size)
	cx := float64(size) / 2
	cy := float64(size) / 2
	radius := float64(size-2*padding) / 2

	for i, s := range slices {
		if s.EndDeg <= s.StartDeg {
			continue
		}
		dc.MoveTo(cx, cy)
		dc.DrawArc(cx, cy, radius, gg.Radians(float64(s.StartDeg)), gg.Radians(float64(s.EndDeg)))
		dc.ClosePath()
		dc.SetColor(colors[i])
		dc.Fill()
	}
	return dc.Image()
}

// downsample shrinks a supersampled canvas to its target edge length
func downsample(img image.Image, size int) image.Image {
	return resize.Resize(uint(size), uint(size), img, resize.Lanczos3)
}

func swatch(c color.RGBA) image.Image {
	dc := gg.NewContext(SwatchSize, SwatchSize)
	dc.DrawRectangle(0, 0, SwatchSize, SwatchSize)
	dc.SetColor(c)
	dc.Fill()
	return dc.Image()
}

func encodePNG(img image.Image) ([]byte, error) {
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// DataURI embeds PNG bytes for direct use in an img src attribute
func DataURI(pngBytes []byte) string {
	if len(pngBytes) == 0 {
		return ""
	}
	return "data:image/png;base64," + base64.StdEncoding.EncodeToString(pngBytes)
}
