// Package imaging provides the geometric transforms of the editing core.
//
// Every function takes a *pixel.Buffer and returns a newly allocated buffer;
// the source is never modified, so callers may keep references to earlier
// buffers. Pixel data is copied into an *image.NRGBA before being handed to
// github.com/disintegration/imaging so that crops and right-angle rotations
// move bytes without any color conversion.
//
// # Coordinate System
//
// All pixel coordinates in this package are 0-based with the origin at the
// top-left corner:
//   - X: horizontal position (0 = leftmost pixel)
//   - Y: vertical position (0 = topmost pixel)
//   - Rectangles are given as a top-left corner plus width and height
//
// # Rotation
//
// Angles are in degrees, clockwise, and are reduced modulo 360 with negative
// values folded into range (-90 is 270). Only right angles are accepted;
// anything else fails with an unsupported-transform error rather than being
// rounded.
//
// # Error Handling
//
// Functions return imgerr errors for invalid inputs such as:
//   - Crop rectangles that leave the buffer (no clamping is done)
//   - Negative resize dimensions
//   - Pixel coordinates outside the buffer
//   - Rotation angles that are not a multiple of 90
//
// # Thread Safety
//
// All functions are stateless and may run concurrently, including on the
// same source buffer, as long as nobody writes to that buffer meanwhile.
package imaging
