// Package server exposes the image editor as an MCP (Model Context Protocol)
// tool server.
//
// The server speaks JSON-RPC 2.0 over a line-oriented stream, normally
// stdin/stdout:
//   - Input: one JSON-RPC request per line
//   - Output: one JSON-RPC response per line
//
// Supported MCP methods:
//   - initialize: Protocol handshake
//   - tools/list: Enumerate available tools
//   - tools/call: Execute a tool with arguments
//   - ping: Health check
//
// # Available Tools
//
// Image information:
//   - image_load: Decode an image and report format, size and checksum
//   - image_dimensions: Width and height only
//
// Edits (the source file is never modified; results are base64 PNG unless
// an output path is given):
//   - image_rotate: Rotate by a multiple of 90 degrees
//   - image_crop: Extract a rectangle
//   - image_crop_quadrant: Extract a named region (top-left, center, ...)
//   - image_resize: Scale to an exact size
//   - image_edit: Run a list of steps and optionally write the result
//
// Pixel access:
//   - image_sample_color: Describe one pixel
//   - image_sample_colors_multi: Describe several labelled pixels
//   - image_pixels: Packed ARGB values for small images
//
// # Image Caching
//
// Decoded buffers are cached by path and revalidated against the file's
// size and modification time on every call. Each tool call edits its own
// copy, so cached pixels never change.
package server
