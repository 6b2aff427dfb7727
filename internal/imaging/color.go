package imaging

import (
	"fmt"
	"math"
	"strings"

	"github.com/lucasb-eyer/go-colorful"

	"github.com/ironsheep/imgedit/internal/imgerr"
	"github.com/ironsheep/imgedit/internal/pixel"
)

// RGBAColor holds 8-bit straight-alpha components.
type RGBAColor struct {
	R uint8 `json:"r"` // Red component (0-255)
	G uint8 `json:"g"` // Green component (0-255)
	B uint8 `json:"b"` // Blue component (0-255)
	A uint8 `json:"a"` // Alpha/opacity component (0-255, 255 = opaque)
}

// HSLColor represents a color in HSL (Hue, Saturation, Lightness) color space.
type HSLColor struct {
	H int `json:"h"` // Hue: 0-359 degrees (0=red, 120=green, 240=blue)
	S int `json:"s"` // Saturation: 0-100 percent (0=gray, 100=vivid)
	L int `json:"l"` // Lightness: 0-100 percent (0=black, 50=normal, 100=white)
}

// ColorResult describes one pixel in several representations.
type ColorResult struct {
	ARGB uint32    `json:"argb"` // Packed value as stored in the buffer
	Hex  string    `json:"hex"`  // "#RRGGBB" (alpha excluded)
	RGBA RGBAColor `json:"rgba"` // Straight components
	HSL  HSLColor  `json:"hsl"`  // Perceptual representation (alpha ignored)
}

// Sample returns the pixel at (x, y).
//
// Valid coordinates are 0 <= x < buf.Width and 0 <= y < buf.Height;
// anything else fails with an out-of-bounds error.
func Sample(buf *pixel.Buffer, x, y int) (*ColorResult, error) {
	if x < 0 || y < 0 || x >= buf.Width || y >= buf.Height {
		return nil, imgerr.OutOfBounds("sample",
			"coordinates (%d,%d) outside image bounds %dx%d", x, y, buf.Width, buf.Height)
	}
	return describe(buf.Pix[y*buf.Width+x]), nil
}

func describe(v uint32) *ColorResult {
	c := pixel.Unpack(v)
	cf := colorful.Color{
		R: float64(c.R) / 255.0,
		G: float64(c.G) / 255.0,
		B: float64(c.B) / 255.0,
	}
	h, s, l := cf.Hsl()

	return &ColorResult{
		ARGB: v,
		Hex:  strings.ToUpper(cf.Hex()),
		RGBA: RGBAColor{R: c.R, G: c.G, B: c.B, A: c.A},
		HSL: HSLColor{
			H: int(math.Round(h)) % 360,
			S: int(math.Round(s * 100)),
			L: int(math.Round(l * 100)),
		},
	}
}

// LabeledPoint is a pixel coordinate with an optional descriptive label.
type LabeledPoint struct {
	X     int    `json:"x" yaml:"x"`
	Y     int    `json:"y" yaml:"y"`
	Label string `json:"label,omitempty" yaml:"label,omitempty"`
}

// LabeledColorResult combines a color sample with its location and label.
type LabeledColorResult struct {
	Label string      `json:"label,omitempty"`
	X     int         `json:"x"`
	Y     int         `json:"y"`
	Color ColorResult `json:"color"`
}

// SampleMany samples every point in order. If any point is out of bounds
// the whole call fails and no partial results are returned.
func SampleMany(buf *pixel.Buffer, points []LabeledPoint) ([]LabeledColorResult, error) {
	results := make([]LabeledColorResult, 0, len(points))

	for _, p := range points {
		c, err := Sample(buf, p.X, p.Y)
		if err != nil {
			return nil, fmt.Errorf("failed to sample point (%d,%d): %w", p.X, p.Y, err)
		}
		results = append(results, LabeledColorResult{
			Label: p.Label,
			X:     p.X,
			Y:     p.Y,
			Color: *c,
		})
	}

	return results, nil
}
