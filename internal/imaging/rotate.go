package imaging

import (
	"github.com/disintegration/imaging"

	"github.com/ironsheep/imgedit/internal/imgerr"
	"github.com/ironsheep/imgedit/internal/pixel"
)

// NormalizeDegrees reduces deg into [0, 360).
func NormalizeDegrees(deg int) int {
	d := deg % 360
	if d < 0 {
		d += 360
	}
	return d
}

// Rotate turns buf clockwise by degrees and returns the result.
//
// Parameters:
//   - buf: Source buffer. It is not modified.
//   - degrees: Clockwise angle. Reduced modulo 360 first, so -90 and 630
//     both mean 270.
//
// Returns:
//   - *pixel.Buffer: A new buffer. For 90 and 270 the width and height are
//     swapped; for 0 and 180 they are unchanged.
//   - error: Unsupported-transform error if the reduced angle is not one of
//     0, 90, 180 or 270.
//
// # Pixel Mapping
//
// For a source pixel at (x, y) in a W x H buffer:
//   - 90:  lands at (H-1-y, x)
//   - 180: lands at (W-1-x, H-1-y)
//   - 270: lands at (y, W-1-x)
func Rotate(buf *pixel.Buffer, degrees int) (*pixel.Buffer, error) {
	// disintegration/imaging rotates counter-clockwise.
	switch NormalizeDegrees(degrees) {
	case 0:
		return buf.Clone(), nil
	case 90:
		return pixel.FromImage(imaging.Rotate270(buf.NRGBA())), nil
	case 180:
		return pixel.FromImage(imaging.Rotate180(buf.NRGBA())), nil
	case 270:
		return pixel.FromImage(imaging.Rotate90(buf.NRGBA())), nil
	}
	return nil, imgerr.UnsupportedTransform("rotate",
		"%d degrees is not a multiple of 90", degrees)
}
