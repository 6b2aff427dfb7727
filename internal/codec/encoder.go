package codec

import (
	"image"
	"image/png"
	"io"

	"github.com/anthonynsimon/bild/imgio"
)

// DefaultJPEGQuality is used when a caller passes a quality outside 1-100.
const DefaultJPEGQuality = 90

// Encoder serializes an image to one container format.
type Encoder interface {
	// Format returns the container this encoder produces.
	Format() Format

	// Extension returns the file extension without dot.
	Extension() string

	// Lossy reports whether encoding may change pixel values.
	Lossy() bool

	// Alpha reports whether the container keeps the alpha channel.
	Alpha() bool

	// Encode writes img to w. quality is ignored by lossless encoders.
	Encode(w io.Writer, img image.Image, quality int) error
}

// PNGEncoder writes lossless PNG, keeping alpha.
type PNGEncoder struct {
	// CompressionLevel selects the zlib effort. The zero value is
	// png.DefaultCompression.
	CompressionLevel png.CompressionLevel
}

func (e *PNGEncoder) Format() Format    { return FormatPNG }
func (e *PNGEncoder) Extension() string { return "png" }
func (e *PNGEncoder) Lossy() bool       { return false }
func (e *PNGEncoder) Alpha() bool       { return true }

func (e *PNGEncoder) Encode(w io.Writer, img image.Image, _ int) error {
	if e.CompressionLevel == png.DefaultCompression {
		return imgio.PNGEncoder()(w, img)
	}
	enc := &png.Encoder{CompressionLevel: e.CompressionLevel}
	return enc.Encode(w, img)
}

// JPEGEncoder writes baseline JPEG. Alpha is discarded before encoding.
type JPEGEncoder struct{}

func (e *JPEGEncoder) Format() Format    { return FormatJPEG }
func (e *JPEGEncoder) Extension() string { return "jpg" }
func (e *JPEGEncoder) Lossy() bool       { return true }
func (e *JPEGEncoder) Alpha() bool       { return false }

func (e *JPEGEncoder) Encode(w io.Writer, img image.Image, quality int) error {
	if quality <= 0 || quality > 100 {
		quality = DefaultJPEGQuality
	}
	return imgio.JPEGEncoder(quality)(w, img)
}

// BMPEncoder writes uncompressed BMP.
type BMPEncoder struct{}

func (e *BMPEncoder) Format() Format    { return FormatBMP }
func (e *BMPEncoder) Extension() string { return "bmp" }
func (e *BMPEncoder) Lossy() bool       { return false }
func (e *BMPEncoder) Alpha() bool       { return true }

func (e *BMPEncoder) Encode(w io.Writer, img image.Image, _ int) error {
	return imgio.BMPEncoder()(w, img)
}
