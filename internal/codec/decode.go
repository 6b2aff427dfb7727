package codec

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	"image/gif"
	"image/jpeg"
	"image/png"
	"io"

	"github.com/disintegration/imaging"
	"golang.org/x/image/bmp"
	"golang.org/x/image/tiff"
	"golang.org/x/image/webp"

	"github.com/ironsheep/imgedit/internal/imgerr"
	"github.com/ironsheep/imgedit/internal/pixel"
)

var (
	errEmptyInput    = errors.New("empty input")
	errUnknownFormat = errors.New("unrecognized image format")
)

// decoders maps each accepted container to its full-image decoder.
var decoders = map[Format]func(io.Reader) (image.Image, error){
	FormatPNG:  png.Decode,
	FormatJPEG: jpeg.Decode,
	FormatGIF:  gif.Decode,
	FormatBMP:  bmp.Decode,
	FormatTIFF: tiff.Decode,
	FormatWebP: webp.Decode,
}

// configDecoders maps each accepted container to its header-only decoder.
var configDecoders = map[Format]func(io.Reader) (image.Config, error){
	FormatPNG:  png.DecodeConfig,
	FormatJPEG: jpeg.DecodeConfig,
	FormatGIF:  gif.DecodeConfig,
	FormatBMP:  bmp.DecodeConfig,
	FormatTIFF: tiff.DecodeConfig,
	FormatWebP: webp.DecodeConfig,
}

// DecodeOption tunes a Decode call.
type DecodeOption func(*decodeConfig)

type decodeConfig struct {
	maxPixels  int64
	autoOrient bool
}

// WithMaxPixels refuses images whose header declares more than n pixels.
// The check runs before any pixel memory is allocated. n <= 0 disables it.
func WithMaxPixels(n int64) DecodeOption {
	return func(c *decodeConfig) {
		c.maxPixels = n
	}
}

// WithAutoOrient applies the EXIF orientation tag of JPEG input after
// decoding. Disabled by default.
func WithAutoOrient(enabled bool) DecodeOption {
	return func(c *decodeConfig) {
		c.autoOrient = enabled
	}
}

// Info describes an encoded image without decoding its pixels.
type Info struct {
	Width  int    `json:"width"`
	Height int    `json:"height"`
	Format Format `json:"format"`
}

// DecodeConfig reads only the image header and returns its dimensions and
// detected format.
func DecodeConfig(data []byte) (*Info, error) {
	if len(data) == 0 {
		return nil, imgerr.Decode("sniff", errEmptyInput)
	}
	format := Sniff(data)
	decodeCfg, ok := configDecoders[format]
	if !ok {
		return nil, imgerr.Decode("sniff", errUnknownFormat)
	}
	cfg, err := decodeCfg(bytes.NewReader(data))
	if err != nil {
		return nil, imgerr.Decode(string(format)+".decode", err)
	}
	return &Info{Width: cfg.Width, Height: cfg.Height, Format: format}, nil
}

// Decode decodes PNG, JPEG (or one of the secondary containers) into a
// straight-alpha ARGB buffer. The detected format is returned alongside.
func Decode(data []byte, opts ...DecodeOption) (*pixel.Buffer, Format, error) {
	var cfg decodeConfig
	for _, opt := range opts {
		opt(&cfg)
	}

	info, err := DecodeConfig(data)
	if err != nil {
		return nil, FormatUnknown, err
	}
	op := string(info.Format) + ".decode"

	if cfg.maxPixels > 0 && int64(info.Width)*int64(info.Height) > cfg.maxPixels {
		return nil, info.Format, imgerr.Decode(op,
			fmt.Errorf("%dx%d exceeds limit of %d pixels", info.Width, info.Height, cfg.maxPixels))
	}

	var img image.Image
	if cfg.autoOrient && info.Format == FormatJPEG {
		img, err = imaging.Decode(bytes.NewReader(data), imaging.AutoOrientation(true))
	} else {
		img, err = decoders[info.Format](bytes.NewReader(data))
	}
	if err != nil {
		return nil, info.Format, imgerr.Decode(op, err)
	}

	return pixel.FromImage(img), info.Format, nil
}
