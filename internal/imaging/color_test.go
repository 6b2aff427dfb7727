package imaging

import (
	"errors"
	"testing"

	"github.com/ironsheep/imgedit/internal/imgerr"
)

func TestSample(t *testing.T) {
	buf := createSolidBuffer(100, 100, 0xFFFF8040)

	result, err := Sample(buf, 50, 50)
	if err != nil {
		t.Fatalf("Sample failed: %v", err)
	}

	if result.ARGB != 0xFFFF8040 {
		t.Errorf("ARGB: got %#08x, want 0xFFFF8040", result.ARGB)
	}
	if result.Hex != "#FF8040" {
		t.Errorf("Hex: got %s, want #FF8040", result.Hex)
	}
	if result.RGBA.R != 255 || result.RGBA.G != 128 || result.RGBA.B != 64 || result.RGBA.A != 255 {
		t.Errorf("RGBA: got (%d,%d,%d,%d), want (255,128,64,255)",
			result.RGBA.R, result.RGBA.G, result.RGBA.B, result.RGBA.A)
	}
	if result.HSL.H != 20 || result.HSL.S != 100 || result.HSL.L != 63 {
		t.Errorf("HSL: got (%d,%d,%d), want (20,100,63)", result.HSL.H, result.HSL.S, result.HSL.L)
	}
}

func TestSample_HSL(t *testing.T) {
	tests := []struct {
		name    string
		argb    uint32
		h, s, l int
	}{
		{"red", argbRed, 0, 100, 50},
		{"green", argbGreen, 120, 100, 50},
		{"blue", argbBlue, 240, 100, 50},
		{"white", argbWhite, 0, 0, 100},
		{"black", argbBlack, 0, 0, 0},
		{"mid gray", 0xFF808080, 0, 0, 50},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result, err := Sample(createSolidBuffer(1, 1, tt.argb), 0, 0)
			if err != nil {
				t.Fatalf("Sample failed: %v", err)
			}
			if result.HSL.H != tt.h || result.HSL.S != tt.s || result.HSL.L != tt.l {
				t.Errorf("HSL: got (%d,%d,%d), want (%d,%d,%d)",
					result.HSL.H, result.HSL.S, result.HSL.L, tt.h, tt.s, tt.l)
			}
		})
	}
}

func TestSample_Translucent(t *testing.T) {
	result, err := Sample(createSolidBuffer(1, 1, 0x400000FF), 0, 0)
	if err != nil {
		t.Fatalf("Sample failed: %v", err)
	}
	if result.RGBA.A != 0x40 || result.RGBA.B != 0xFF {
		t.Errorf("RGBA: got %+v, want straight blue with alpha 0x40", result.RGBA)
	}
	if result.Hex != "#0000FF" {
		t.Errorf("Hex: got %s, want #0000FF", result.Hex)
	}
}

func TestSample_OutOfBounds(t *testing.T) {
	buf := createSolidBuffer(10, 10, argbRed)

	tests := []struct {
		name string
		x, y int
	}{
		{"negative x", -1, 5},
		{"negative y", 5, -1},
		{"x at width", 10, 5},
		{"y at height", 5, 10},
		{"far away", 1000, 1000},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Sample(buf, tt.x, tt.y)
			if !errors.Is(err, imgerr.ErrOutOfBounds) {
				t.Errorf("got %v, want out of bounds error", err)
			}
		})
	}
}

func TestSample_Corners(t *testing.T) {
	buf := createPatternBuffer(100, 100)

	tests := []struct {
		x, y int
		want uint32
	}{
		{0, 0, argbRed},
		{99, 0, argbGreen},
		{0, 99, argbBlue},
		{99, 99, argbWhite},
	}

	for _, tt := range tests {
		result, err := Sample(buf, tt.x, tt.y)
		if err != nil {
			t.Fatalf("Sample(%d,%d) failed: %v", tt.x, tt.y, err)
		}
		if result.ARGB != tt.want {
			t.Errorf("Sample(%d,%d): got %#08x, want %#08x", tt.x, tt.y, result.ARGB, tt.want)
		}
	}
}

func TestSampleMany(t *testing.T) {
	buf := createPatternBuffer(100, 100)

	points := []LabeledPoint{
		{X: 10, Y: 10, Label: "red_area"},
		{X: 90, Y: 10, Label: "green_area"},
		{X: 10, Y: 90},
	}

	results, err := SampleMany(buf, points)
	if err != nil {
		t.Fatalf("SampleMany failed: %v", err)
	}
	if len(results) != 3 {
		t.Fatalf("got %d samples, want 3", len(results))
	}
	if results[0].Label != "red_area" || results[0].Color.Hex != "#FF0000" {
		t.Errorf("sample 0: got %s %s, want red_area #FF0000", results[0].Label, results[0].Color.Hex)
	}
	if results[1].Color.Hex != "#00FF00" {
		t.Errorf("sample 1: got %s, want #00FF00", results[1].Color.Hex)
	}
	if results[2].Label != "" || results[2].Color.Hex != "#0000FF" {
		t.Errorf("sample 2: got %q %s, want unlabeled #0000FF", results[2].Label, results[2].Color.Hex)
	}
}

func TestSampleMany_FailsWhole(t *testing.T) {
	buf := createPatternBuffer(10, 10)

	results, err := SampleMany(buf, []LabeledPoint{{X: 1, Y: 1}, {X: 50, Y: 1}})
	if !errors.Is(err, imgerr.ErrOutOfBounds) {
		t.Errorf("got %v, want out of bounds error", err)
	}
	if results != nil {
		t.Errorf("got %d partial results, want none", len(results))
	}
}
