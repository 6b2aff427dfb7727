// Package codec converts between compressed image bytes and pixel.Buffer.
//
// # Decoding
//
// Decode inspects the leading magic bytes to pick a decoder; the caller never
// names the format. PNG and JPEG are the primary containers. GIF (first frame
// only), BMP, TIFF and WebP are also accepted for decoding. Formats without an
// alpha channel decode as fully opaque (alpha 0xFF). Empty, truncated or
// unrecognized input fails with an imgerr decode error.
//
// # Encoding
//
// Encoders are looked up by Format in a Registry. PNG is lossless and keeps
// alpha; JPEG is lossy and drops alpha; BMP is lossless. Encoding a zero-area
// buffer fails with an imgerr encode error.
//
// All functions are synchronous and safe for concurrent use on distinct
// buffers.
package codec
