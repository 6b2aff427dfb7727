package imaging

import (
	"fmt"
	"strings"

	"github.com/disintegration/imaging"

	"github.com/ironsheep/imgedit/internal/imgerr"
	"github.com/ironsheep/imgedit/internal/pixel"
)

// Filter selects the resampling kernel used by Resize.
type Filter int

const (
	// Nearest copies the source pixel whose centre is closest to the
	// proportionally scaled destination centre. Colors are never blended.
	Nearest Filter = iota

	// Bilinear blends the 2x2 neighbourhood (tent kernel).
	Bilinear

	// CatmullRom is a sharp bicubic kernel.
	CatmullRom

	// Lanczos is a 3-lobe Lanczos kernel, best for photographic downscaling.
	Lanczos
)

var filterNames = map[Filter]string{
	Nearest:    "nearest",
	Bilinear:   "bilinear",
	CatmullRom: "catmullrom",
	Lanczos:    "lanczos",
}

func (f Filter) String() string {
	if name, ok := filterNames[f]; ok {
		return name
	}
	return fmt.Sprintf("Filter(%d)", int(f))
}

// ParseFilter maps a name such as "bilinear" to a Filter. The empty string
// selects Nearest.
func ParseFilter(name string) (Filter, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "", "nearest", "nearest-neighbor":
		return Nearest, nil
	case "bilinear", "linear":
		return Bilinear, nil
	case "catmullrom", "bicubic":
		return CatmullRom, nil
	case "lanczos":
		return Lanczos, nil
	}
	return Nearest, fmt.Errorf("unknown resize filter %q", name)
}

func (f Filter) kernel() imaging.ResampleFilter {
	switch f {
	case Bilinear:
		return imaging.Linear
	case CatmullRom:
		return imaging.CatmullRom
	case Lanczos:
		return imaging.Lanczos
	}
	return imaging.NearestNeighbor
}

// Resize scales buf to exactly width x height pixels.
//
// Parameters:
//   - buf: Source buffer. It is not modified.
//   - width, height: Target size. Either being 0 yields an empty buffer.
//   - filter: Resampling kernel. Nearest maps destination pixel (dx, dy) to
//     source (dx+0.5)*srcW/width, (dy+0.5)*srcH/height, clamped to the
//     source.
//
// Returns:
//   - *pixel.Buffer: A new buffer with width*height pixels.
//   - error: Out-of-bounds error for negative sizes, or for a non-empty
//     target when the source has no pixels to sample.
func Resize(buf *pixel.Buffer, width, height int, filter Filter) (*pixel.Buffer, error) {
	if width < 0 || height < 0 {
		return nil, imgerr.OutOfBounds("resize", "negative target size %dx%d", width, height)
	}
	if width == 0 || height == 0 {
		return pixel.New(width, height), nil
	}
	if buf.Empty() {
		return nil, imgerr.OutOfBounds("resize",
			"cannot resize %dx%d source to %dx%d", buf.Width, buf.Height, width, height)
	}
	if width == buf.Width && height == buf.Height {
		return buf.Clone(), nil
	}

	resized := imaging.Resize(buf.NRGBA(), width, height, filter.kernel())
	return pixel.FromImage(resized), nil
}
