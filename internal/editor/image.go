package editor

import (
	"fmt"

	"go.uber.org/zap"

	"github.com/ironsheep/imgedit/internal/codec"
	"github.com/ironsheep/imgedit/internal/config"
	"github.com/ironsheep/imgedit/internal/imaging"
	"github.com/ironsheep/imgedit/internal/imgerr"
	"github.com/ironsheep/imgedit/internal/pixel"
)

// EditableImage is the set of operations available on a decoded image.
type EditableImage interface {
	Rotate(degrees int) error
	Crop(x, y, width, height int) error
	Resize(width, height int) error
	Width() int
	Height() int
	ARGBPixels() ([]uint32, error)
	ToPNG() ([]byte, error)
	ToJPEG() ([]byte, error)
	Close() error
}

var _ EditableImage = (*Image)(nil)

// Image is a decoded image owned by the caller. The zero value is not usable;
// obtain one from an Editor.
type Image struct {
	buf    *pixel.Buffer
	format codec.Format
	editor *ImageEditor
	closed bool
}

// swap installs next as the current buffer.
func (img *Image) swap(op string, next *pixel.Buffer) {
	img.editor.logger.Debug("edit applied",
		zap.String("op", op),
		zap.Int("from_width", img.buf.Width),
		zap.Int("from_height", img.buf.Height),
		zap.Int("width", next.Width),
		zap.Int("height", next.Height))
	img.buf = next
}

func (img *Image) check() error {
	if img.closed {
		return imgerr.ErrClosed
	}
	return nil
}

// Rotate turns the image clockwise by degrees, which must be a multiple of
// 90. Negative angles rotate counter-clockwise.
func (img *Image) Rotate(degrees int) error {
	if err := img.check(); err != nil {
		return err
	}
	next, err := imaging.Rotate(img.buf, degrees)
	if err != nil {
		return err
	}
	img.swap("rotate", next)
	return nil
}

// Crop keeps only the given region.
func (img *Image) Crop(x, y, width, height int) error {
	if err := img.check(); err != nil {
		return err
	}
	next, err := imaging.Crop(img.buf, x, y, width, height)
	if err != nil {
		return err
	}
	img.swap("crop", next)
	return nil
}

// CropRegion crops to a named region such as "top-left" or "center".
func (img *Image) CropRegion(region string) error {
	if err := img.check(); err != nil {
		return err
	}
	r, err := imaging.RegionRect(region, img.buf.Width, img.buf.Height)
	if err != nil {
		return err
	}
	next, err := imaging.CropRect(img.buf, r)
	if err != nil {
		return err
	}
	img.swap("crop "+region, next)
	return nil
}

// Resize scales the image with the editor's configured filter.
func (img *Image) Resize(width, height int) error {
	return img.ResizeWith(width, height, img.editor.cfg.ResizeFilter)
}

// ResizeWith scales the image with an explicit filter.
func (img *Image) ResizeWith(width, height int, filter imaging.Filter) error {
	if err := img.check(); err != nil {
		return err
	}
	next, err := imaging.Resize(img.buf, width, height, filter)
	if err != nil {
		return err
	}
	img.swap("resize", next)
	return nil
}

// Apply runs steps in order. If any step fails the image is restored to its
// state before Apply and the error names the failing step (1-based).
func (img *Image) Apply(steps []config.Step) error {
	if err := img.check(); err != nil {
		return err
	}

	saved := img.buf
	for i, s := range steps {
		if err := img.applyStep(s); err != nil {
			img.buf = saved
			img.editor.logger.Debug("plan rolled back",
				zap.Int("step", i+1),
				zap.Stringer("edit", s),
				zap.Error(err))
			return fmt.Errorf("step %d (%s): %w", i+1, s, err)
		}
	}
	return nil
}

func (img *Image) applyStep(s config.Step) error {
	if err := s.Validate(); err != nil {
		return err
	}
	switch {
	case s.Rotate != nil:
		return img.Rotate(*s.Rotate)
	case s.Crop != nil:
		return img.Crop(s.Crop.X, s.Crop.Y, s.Crop.Width, s.Crop.Height)
	case s.Region != "":
		return img.CropRegion(s.Region)
	default:
		filter := img.editor.cfg.ResizeFilter
		if s.Resize.Filter != "" {
			// Validate already parsed the name.
			filter, _ = imaging.ParseFilter(s.Resize.Filter)
		}
		return img.ResizeWith(s.Resize.Width, s.Resize.Height, filter)
	}
}

// Width returns the current width, or 0 once closed.
func (img *Image) Width() int {
	if img.closed {
		return 0
	}
	return img.buf.Width
}

// Height returns the current height, or 0 once closed.
func (img *Image) Height() int {
	if img.closed {
		return 0
	}
	return img.buf.Height
}

// SourceFormat is the container the image was decoded from.
func (img *Image) SourceFormat() codec.Format { return img.format }

// ARGBPixels returns a row-major copy of the pixels as 0xAARRGGBB.
func (img *Image) ARGBPixels() ([]uint32, error) {
	if err := img.check(); err != nil {
		return nil, err
	}
	return img.buf.ARGB(), nil
}

// PixelAt describes the pixel at (x, y).
func (img *Image) PixelAt(x, y int) (*imaging.ColorResult, error) {
	if err := img.check(); err != nil {
		return nil, err
	}
	return imaging.Sample(img.buf, x, y)
}

// PixelsAt describes several pixels at once. Any out-of-range point fails
// the whole call.
func (img *Image) PixelsAt(points []imaging.LabeledPoint) ([]imaging.LabeledColorResult, error) {
	if err := img.check(); err != nil {
		return nil, err
	}
	return imaging.SampleMany(img.buf, points)
}

// Buffer returns a copy of the current buffer. It is unaffected by later
// edits.
func (img *Image) Buffer() (*pixel.Buffer, error) {
	if err := img.check(); err != nil {
		return nil, err
	}
	return img.buf.Clone(), nil
}

// ToPNG encodes the current buffer as PNG.
func (img *Image) ToPNG() ([]byte, error) {
	return img.Encode(codec.FormatPNG)
}

// ToJPEG encodes the current buffer as JPEG at the editor's quality.
// Alpha is discarded.
func (img *Image) ToJPEG() ([]byte, error) {
	return img.Encode(codec.FormatJPEG)
}

// Encode encodes the current buffer in format at the editor's quality.
func (img *Image) Encode(format codec.Format) ([]byte, error) {
	return img.EncodeQuality(format, img.editor.cfg.JPEGQuality)
}

// EncodeQuality is Encode with an explicit quality for lossy formats.
func (img *Image) EncodeQuality(format codec.Format, quality int) ([]byte, error) {
	if err := img.check(); err != nil {
		return nil, err
	}
	data, err := img.editor.registry.Encode(img.buf, format, quality)
	if err != nil {
		img.editor.logger.Warn("encode failed",
			zap.String("format", string(format)),
			zap.Error(err))
		return nil, err
	}
	return data, nil
}

// Close releases the pixel buffer. Further operations return
// imgerr.ErrClosed. Closing twice is a no-op.
func (img *Image) Close() error {
	img.closed = true
	img.buf = nil
	return nil
}
