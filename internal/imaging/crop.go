package imaging

import (
	"image"

	"github.com/disintegration/imaging"

	"github.com/ironsheep/imgedit/internal/imgerr"
	"github.com/ironsheep/imgedit/internal/pixel"
)

// Rect is an axis-aligned region given by its top-left corner and size.
type Rect struct {
	X      int `json:"x" yaml:"x"`
	Y      int `json:"y" yaml:"y"`
	Width  int `json:"width" yaml:"width"`
	Height int `json:"height" yaml:"height"`
}

// Crop extracts a rectangular region from buf.
//
// The rectangle must satisfy x >= 0, y >= 0, width >= 0, height >= 0,
// x+width <= buf.Width and y+height <= buf.Height. Nothing is clamped: a
// rectangle that leaves the buffer fails with an out-of-bounds error.
// The result holds exactly width*height pixels copied row by row.
func Crop(buf *pixel.Buffer, x, y, width, height int) (*pixel.Buffer, error) {
	if x < 0 || y < 0 || width < 0 || height < 0 ||
		width > buf.Width-x || height > buf.Height-y {
		return nil, imgerr.OutOfBounds("crop",
			"region (%d,%d %dx%d) outside image bounds %dx%d",
			x, y, width, height, buf.Width, buf.Height)
	}
	if width == 0 || height == 0 {
		return pixel.New(width, height), nil
	}

	cropped := imaging.Crop(buf.NRGBA(), image.Rect(x, y, x+width, y+height))
	return pixel.FromImage(cropped), nil
}

// CropRect is Crop with the region given as a Rect.
func CropRect(buf *pixel.Buffer, r Rect) (*pixel.Buffer, error) {
	return Crop(buf, r.X, r.Y, r.Width, r.Height)
}

// RegionRect resolves a named region of a width x height image.
//
// Supported names are "top-left", "top-right", "bottom-left",
// "bottom-right", "top-half", "bottom-half", "left-half", "right-half" and
// "center" (the middle 50% on each axis). Odd sizes round the split point
// down, so "left-half" of a 5 pixel wide image is 2 pixels wide.
func RegionRect(region string, width, height int) (Rect, error) {
	midX := width / 2
	midY := height / 2

	switch region {
	case "top-left":
		return Rect{0, 0, midX, midY}, nil
	case "top-right":
		return Rect{midX, 0, width - midX, midY}, nil
	case "bottom-left":
		return Rect{0, midY, midX, height - midY}, nil
	case "bottom-right":
		return Rect{midX, midY, width - midX, height - midY}, nil
	case "top-half":
		return Rect{0, 0, width, midY}, nil
	case "bottom-half":
		return Rect{0, midY, width, height - midY}, nil
	case "left-half":
		return Rect{0, 0, midX, height}, nil
	case "right-half":
		return Rect{midX, 0, width - midX, height}, nil
	case "center":
		qW := width / 4
		qH := height / 4
		return Rect{qW, qH, width - 2*qW, height - 2*qH}, nil
	}
	return Rect{}, imgerr.OutOfBounds("crop", "unknown region %q", region)
}
