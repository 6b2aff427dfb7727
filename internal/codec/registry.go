package codec

import (
	"bytes"
	"errors"
	"fmt"
	"image/png"
	"strings"

	"github.com/ironsheep/imgedit/internal/imgerr"
	"github.com/ironsheep/imgedit/internal/pixel"
)

var errZeroArea = errors.New("zero-area buffer")

// Registry holds the available encoders keyed by format.
type Registry struct {
	encoders map[Format]Encoder
}

// RegistryOption tunes NewRegistry.
type RegistryOption func(*Registry)

// WithPNGCompression sets the zlib effort used by the PNG encoder.
func WithPNGCompression(level png.CompressionLevel) RegistryOption {
	return func(r *Registry) {
		r.encoders[FormatPNG] = &PNGEncoder{CompressionLevel: level}
	}
}

// ParsePNGCompression maps "default", "none", "fast" or "best" to a zlib
// effort. The empty string is "default".
func ParsePNGCompression(name string) (png.CompressionLevel, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "", "default":
		return png.DefaultCompression, nil
	case "none":
		return png.NoCompression, nil
	case "fast", "speed":
		return png.BestSpeed, nil
	case "best", "size":
		return png.BestCompression, nil
	default:
		return png.DefaultCompression, fmt.Errorf("unknown png compression %q (want default, none, fast or best)", name)
	}
}

// NewRegistry creates a registry with the PNG, JPEG and BMP encoders.
func NewRegistry(opts ...RegistryOption) *Registry {
	r := &Registry{
		encoders: make(map[Format]Encoder),
	}
	for _, enc := range []Encoder{&PNGEncoder{}, &JPEGEncoder{}, &BMPEncoder{}} {
		r.encoders[enc.Format()] = enc
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Get returns the encoder for format, or nil if none is registered.
func (r *Registry) Get(format Format) Encoder {
	return r.encoders[format]
}

// Formats returns the registered formats in preference order.
func (r *Registry) Formats() []Format {
	var result []Format
	for _, f := range []Format{FormatPNG, FormatJPEG, FormatBMP} {
		if _, ok := r.encoders[f]; ok {
			result = append(result, f)
		}
	}
	return result
}

// Encode serializes buf as format. quality applies to lossy formats only.
// Formats that cannot carry alpha receive a fully opaque copy of buf.
func (r *Registry) Encode(buf *pixel.Buffer, format Format, quality int) ([]byte, error) {
	op := string(format) + ".encode"
	enc := r.Get(format)
	if enc == nil {
		return nil, imgerr.Encode(op, fmt.Errorf("no encoder for format %q", format))
	}
	if buf.Empty() {
		return nil, imgerr.Encode(op, errZeroArea)
	}

	img := buf.NRGBA()
	if !enc.Alpha() {
		for i := 3; i < len(img.Pix); i += 4 {
			img.Pix[i] = 0xFF
		}
	}

	var out bytes.Buffer
	out.Grow(buf.Len() * 2)
	if err := enc.Encode(&out, img, quality); err != nil {
		return nil, imgerr.Encode(op, err)
	}
	return out.Bytes(), nil
}

// String returns a summary of registered encoders.
func (r *Registry) String() string {
	var names []string
	for _, f := range r.Formats() {
		names = append(names, fmt.Sprintf("%s (.%s)", f, r.encoders[f].Extension()))
	}
	if len(names) == 0 {
		return "no encoders available"
	}
	return fmt.Sprintf("encoders: %s", strings.Join(names, ", "))
}

var defaultRegistry = NewRegistry()

// Encode serializes buf with the default registry.
func Encode(buf *pixel.Buffer, format Format, quality int) ([]byte, error) {
	return defaultRegistry.Encode(buf, format, quality)
}

// EncodePNG serializes buf as lossless PNG.
func EncodePNG(buf *pixel.Buffer) ([]byte, error) {
	return defaultRegistry.Encode(buf, FormatPNG, 0)
}

// EncodeJPEG serializes buf as JPEG at the given quality (1-100; other
// values select DefaultJPEGQuality). Alpha is discarded.
func EncodeJPEG(buf *pixel.Buffer, quality int) ([]byte, error) {
	return defaultRegistry.Encode(buf, FormatJPEG, quality)
}
