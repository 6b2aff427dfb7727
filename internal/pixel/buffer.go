// Package pixel holds the canonical decoded raster representation: a
// width, a height and a row-major slice of packed ARGB32 values.
//
// Alpha occupies the most significant byte, followed by red, green and blue.
// Alpha is straight (not premultiplied). A Buffer also satisfies image.Image
// so it can be passed directly to encoders and resamplers.
package pixel

import (
	"encoding/binary"
	"image"
	"image/color"

	"github.com/cespare/xxhash/v2"
	"github.com/disintegration/imaging"

	"github.com/ironsheep/imgedit/internal/imgerr"
)

// Buffer is a packed ARGB32 raster. len(Pix) == Width*Height always holds for
// buffers built by this package.
type Buffer struct {
	Width  int
	Height int
	Pix    []uint32
}

// New returns a zeroed (fully transparent black) buffer of the given size.
// It panics on negative dimensions.
func New(width, height int) *Buffer {
	if width < 0 || height < 0 {
		panic("pixel: negative buffer dimensions")
	}
	return &Buffer{
		Width:  width,
		Height: height,
		Pix:    make([]uint32, width*height),
	}
}

// FromARGB builds a buffer from a copy of pix. It fails with an
// out-of-bounds error when len(pix) does not match width*height.
func FromARGB(width, height int, pix []uint32) (*Buffer, error) {
	if width < 0 || height < 0 {
		return nil, imgerr.OutOfBounds("pixel.from", "negative dimensions %dx%d", width, height)
	}
	if len(pix) != width*height {
		return nil, imgerr.OutOfBounds("pixel.from", "got %d pixels for %dx%d", len(pix), width, height)
	}
	b := New(width, height)
	copy(b.Pix, pix)
	return b, nil
}

// FromImage converts any image.Image into a buffer. The result origin is
// always (0,0) regardless of img.Bounds().Min.
func FromImage(img image.Image) *Buffer {
	if pb, ok := img.(*Buffer); ok {
		return pb.Clone()
	}
	nrgba, ok := img.(*image.NRGBA)
	if !ok || nrgba.Rect.Min != (image.Point{}) {
		nrgba = imaging.Clone(img)
	}
	return fromNRGBA(nrgba)
}

func fromNRGBA(src *image.NRGBA) *Buffer {
	w, h := src.Rect.Dx(), src.Rect.Dy()
	b := New(w, h)
	for y := 0; y < h; y++ {
		row := src.Pix[y*src.Stride : y*src.Stride+w*4]
		dst := b.Pix[y*w : (y+1)*w]
		for x := range dst {
			p := row[x*4 : x*4+4 : x*4+4]
			dst[x] = uint32(p[3])<<24 | uint32(p[0])<<16 | uint32(p[1])<<8 | uint32(p[2])
		}
	}
	return b
}

// NRGBA returns a newly allocated *image.NRGBA holding the same pixels.
func (b *Buffer) NRGBA() *image.NRGBA {
	dst := image.NewNRGBA(image.Rect(0, 0, b.Width, b.Height))
	for i, v := range b.Pix {
		p := dst.Pix[i*4 : i*4+4 : i*4+4]
		p[0] = uint8(v >> 16)
		p[1] = uint8(v >> 8)
		p[2] = uint8(v)
		p[3] = uint8(v >> 24)
	}
	return dst
}

// ARGB returns a copy of the packed pixels in row-major order. Mutating the
// result does not affect the buffer.
func (b *Buffer) ARGB() []uint32 {
	out := make([]uint32, len(b.Pix))
	copy(out, b.Pix)
	return out
}

// Clone returns a deep copy of b.
func (b *Buffer) Clone() *Buffer {
	c, err := FromARGB(b.Width, b.Height, b.Pix)
	if err != nil {
		panic(err) // Pix no longer matches Width*Height
	}
	return c
}

// Len returns the pixel count.
func (b *Buffer) Len() int { return len(b.Pix) }

// Empty reports whether the buffer has zero area.
func (b *Buffer) Empty() bool { return b.Width == 0 || b.Height == 0 }

// Equal reports whether both buffers have the same size and pixels.
func (b *Buffer) Equal(o *Buffer) bool {
	if b.Width != o.Width || b.Height != o.Height || len(b.Pix) != len(o.Pix) {
		return false
	}
	for i := range b.Pix {
		if b.Pix[i] != o.Pix[i] {
			return false
		}
	}
	return true
}

// Opaque reports whether every pixel has alpha 0xFF.
func (b *Buffer) Opaque() bool {
	for _, v := range b.Pix {
		if v>>24 != 0xFF {
			return false
		}
	}
	return true
}

// Checksum returns an xxHash64 digest over the dimensions and pixels.
func (b *Buffer) Checksum() uint64 {
	h := xxhash.New()
	var scratch [8]byte
	binary.LittleEndian.PutUint32(scratch[0:4], uint32(b.Width))
	binary.LittleEndian.PutUint32(scratch[4:8], uint32(b.Height))
	h.Write(scratch[:])

	row := make([]byte, b.Width*4)
	for y := 0; y < b.Height; y++ {
		for x, v := range b.Pix[y*b.Width : (y+1)*b.Width] {
			binary.LittleEndian.PutUint32(row[x*4:], v)
		}
		h.Write(row)
	}
	return h.Sum64()
}

// ColorModel implements image.Image.
func (b *Buffer) ColorModel() color.Model { return color.NRGBAModel }

// Bounds implements image.Image.
func (b *Buffer) Bounds() image.Rectangle { return image.Rect(0, 0, b.Width, b.Height) }

// At implements image.Image. Points outside the buffer are transparent.
func (b *Buffer) At(x, y int) color.Color {
	if x < 0 || y < 0 || x >= b.Width || y >= b.Height {
		return color.NRGBA{}
	}
	return Unpack(b.Pix[y*b.Width+x])
}

// Pack converts a straight-alpha color into a packed ARGB value.
func Pack(c color.NRGBA) uint32 {
	return uint32(c.A)<<24 | uint32(c.R)<<16 | uint32(c.G)<<8 | uint32(c.B)
}

// Unpack splits a packed ARGB value into its components.
func Unpack(v uint32) color.NRGBA {
	return color.NRGBA{R: uint8(v >> 16), G: uint8(v >> 8), B: uint8(v), A: uint8(v >> 24)}
}
