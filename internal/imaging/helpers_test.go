package imaging

import (
	"testing"

	"github.com/ironsheep/imgedit/internal/pixel"
)

const (
	argbBlack = 0xFF000000
	argbWhite = 0xFFFFFFFF
	argbRed   = 0xFFFF0000
	argbGreen = 0xFF00FF00
	argbBlue  = 0xFF0000FF
)

// createSolidBuffer creates a buffer filled with one packed color.
func createSolidBuffer(width, height int, argb uint32) *pixel.Buffer {
	b := pixel.New(width, height)
	for i := range b.Pix {
		b.Pix[i] = argb
	}
	return b
}

// createPatternBuffer creates a buffer with different colors in each quadrant:
// red top-left, green top-right, blue bottom-left, white bottom-right.
func createPatternBuffer(width, height int) *pixel.Buffer {
	b := pixel.New(width, height)
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			var c uint32
			switch {
			case x < width/2 && y < height/2:
				c = argbRed
			case x >= width/2 && y < height/2:
				c = argbGreen
			case x < width/2 && y >= height/2:
				c = argbBlue
			default:
				c = argbWhite
			}
			b.Pix[y*width+x] = c
		}
	}
	return b
}

// createStripeBuffer creates a 3x3 buffer with a black top row, a red centre
// and white everywhere else.
func createStripeBuffer() *pixel.Buffer {
	b := createSolidBuffer(3, 3, argbWhite)
	for x := 0; x < 3; x++ {
		b.Pix[x] = argbBlack
	}
	b.Pix[4] = argbRed
	return b
}

// createSequentialBuffer creates an opaque buffer where every pixel holds its
// own row-major index in the low bits, so every pixel is distinct.
func createSequentialBuffer(width, height int) *pixel.Buffer {
	b := pixel.New(width, height)
	for i := range b.Pix {
		b.Pix[i] = 0xFF000000 | uint32(i)
	}
	return b
}

// createBlockBuffer creates a white buffer whose bottom-right quadrant is black.
func createBlockBuffer(size int) *pixel.Buffer {
	b := createSolidBuffer(size, size, argbWhite)
	for y := size / 2; y < size; y++ {
		for x := size / 2; x < size; x++ {
			b.Pix[y*size+x] = argbBlack
		}
	}
	return b
}

func assertSameBuffer(t *testing.T, got, want *pixel.Buffer) {
	t.Helper()
	if got.Width != want.Width || got.Height != want.Height {
		t.Fatalf("dimensions: got %dx%d, want %dx%d", got.Width, got.Height, want.Width, want.Height)
	}
	for i := range want.Pix {
		if got.Pix[i] != want.Pix[i] {
			t.Fatalf("pixel %d: got %#08x, want %#08x", i, got.Pix[i], want.Pix[i])
		}
	}
}

func mustRotate(t *testing.T, b *pixel.Buffer, degrees int) *pixel.Buffer {
	t.Helper()
	out, err := Rotate(b, degrees)
	if err != nil {
		t.Fatalf("Rotate(%d) failed: %v", degrees, err)
	}
	return out
}
