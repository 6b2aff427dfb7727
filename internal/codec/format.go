package codec

import (
	"bytes"
	"strings"
)

// Format identifies an image container.
type Format string

const (
	FormatPNG     Format = "png"
	FormatJPEG    Format = "jpeg"
	FormatGIF     Format = "gif"
	FormatBMP     Format = "bmp"
	FormatTIFF    Format = "tiff"
	FormatWebP    Format = "webp"
	FormatUnknown Format = "unknown"
)

// MimeType returns the IANA media type for f, or "application/octet-stream".
func (f Format) MimeType() string {
	switch f {
	case FormatPNG:
		return "image/png"
	case FormatJPEG:
		return "image/jpeg"
	case FormatGIF:
		return "image/gif"
	case FormatBMP:
		return "image/bmp"
	case FormatTIFF:
		return "image/tiff"
	case FormatWebP:
		return "image/webp"
	}
	return "application/octet-stream"
}

// ParseFormat maps a user-supplied name or file extension ("jpg", ".PNG")
// to a Format. Unrecognized names yield FormatUnknown.
func ParseFormat(name string) Format {
	switch strings.TrimPrefix(strings.ToLower(name), ".") {
	case "png":
		return FormatPNG
	case "jpg", "jpeg":
		return FormatJPEG
	case "gif":
		return FormatGIF
	case "bmp":
		return FormatBMP
	case "tif", "tiff":
		return FormatTIFF
	case "webp":
		return FormatWebP
	}
	return FormatUnknown
}

var (
	magicPNG    = []byte("\x89PNG\r\n\x1a\n")
	magicJPEG   = []byte{0xFF, 0xD8, 0xFF}
	magicGIF87  = []byte("GIF87a")
	magicGIF89  = []byte("GIF89a")
	magicBMP    = []byte("BM")
	magicTIFFLE = []byte("II*\x00")
	magicTIFFBE = []byte("MM\x00*")
	magicRIFF   = []byte("RIFF")
	magicWEBP   = []byte("WEBP")
)

// Sniff detects the container format from the leading magic bytes.
// It never looks at more than the first 12 bytes.
func Sniff(data []byte) Format {
	switch {
	case bytes.HasPrefix(data, magicPNG):
		return FormatPNG
	case bytes.HasPrefix(data, magicJPEG):
		return FormatJPEG
	case bytes.HasPrefix(data, magicGIF87), bytes.HasPrefix(data, magicGIF89):
		return FormatGIF
	case bytes.HasPrefix(data, magicTIFFLE), bytes.HasPrefix(data, magicTIFFBE):
		return FormatTIFF
	case len(data) >= 12 && bytes.Equal(data[0:4], magicRIFF) && bytes.Equal(data[8:12], magicWEBP):
		return FormatWebP
	case bytes.HasPrefix(data, magicBMP) && len(data) >= 14:
		return FormatBMP
	}
	return FormatUnknown
}
