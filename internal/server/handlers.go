package server

import (
	"encoding/base64"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"go.uber.org/zap"

	"github.com/ironsheep/imgedit/internal/codec"
	"github.com/ironsheep/imgedit/internal/config"
	"github.com/ironsheep/imgedit/internal/editor"
	"github.com/ironsheep/imgedit/internal/imaging"
	"github.com/ironsheep/imgedit/internal/imgerr"
)

// maxPixelDump caps image_pixels so a response stays a reasonable size.
const maxPixelDump = 256 * 256

// ToolCallParams represents the parameters for a tools/call MCP request.
type ToolCallParams struct {
	// Name is the tool to invoke (e.g., "image_load", "image_crop").
	Name string `json:"name"`

	// Arguments contains the tool-specific parameters as JSON.
	Arguments json.RawMessage `json:"arguments"`
}

// handleToolsCall processes a tools/call request and executes the specified tool.
//
// The response wraps the tool result in MCP's content format:
//
//	{
//	  "content": [{"type": "text", "text": "<JSON result>"}]
//	}
//
// Tool execution errors return a JSON-RPC error response with code -32000.
func (s *Server) handleToolsCall(req *MCPRequest) *MCPResponse {
	var params ToolCallParams
	if err := json.Unmarshal(req.Params, &params); err != nil {
		return s.errorResponse(req.ID, -32602, "Invalid params", err.Error())
	}

	result, err := s.executeTool(params.Name, params.Arguments)
	if err != nil {
		fields := []zap.Field{zap.String("tool", params.Name), zap.Error(err)}
		if kind := imgerr.KindOf(err); kind != 0 {
			fields = append(fields, zap.Stringer("kind", kind))
		}
		s.logger.Info("tool failed", fields...)
		return s.errorResponse(req.ID, -32000, "Tool execution failed", err.Error())
	}

	return &MCPResponse{
		JSONRPC: "2.0",
		ID:      req.ID,
		Result: map[string]interface{}{
			"content": []map[string]interface{}{
				{
					"type": "text",
					"text": mustMarshalJSON(result),
				},
			},
		},
	}
}

// executeTool dispatches tool execution to the appropriate handler function.
func (s *Server) executeTool(name string, args json.RawMessage) (interface{}, error) {
	switch name {
	// Image Information
	case "image_load":
		return s.handleImageLoad(args)
	case "image_dimensions":
		return s.handleImageDimensions(args)

	// Edit Operations
	case "image_rotate":
		return s.handleImageRotate(args)
	case "image_crop":
		return s.handleImageCrop(args)
	case "image_crop_quadrant":
		return s.handleImageCropQuadrant(args)
	case "image_resize":
		return s.handleImageResize(args)
	case "image_edit":
		return s.handleImageEdit(args)

	// Pixel Access
	case "image_sample_color":
		return s.handleImageSampleColor(args)
	case "image_sample_colors_multi":
		return s.handleImageSampleColorsMulti(args)
	case "image_pixels":
		return s.handleImagePixels(args)

	default:
		return nil, fmt.Errorf("unknown tool: %s", name)
	}
}

// mustMarshalJSON converts a value to pretty-printed JSON string.
// On marshal failure it returns an empty string.
func mustMarshalJSON(v interface{}) string {
	b, _ := json.MarshalIndent(v, "", "  ")
	return string(b)
}

func decodeArgs(args json.RawMessage, v interface{}) error {
	if len(args) == 0 {
		return fmt.Errorf("missing arguments")
	}
	if err := json.Unmarshal(args, v); err != nil {
		return fmt.Errorf("invalid arguments: %w", err)
	}
	return nil
}

// === Image Information Handlers ===

type pathArgs struct {
	Path string `json:"path"`
}

// ImageInfo describes a decoded image file.
type ImageInfo struct {
	Width         int    `json:"width"`
	Height        int    `json:"height"`
	Format        string `json:"format"`
	MimeType      string `json:"mime_type"`
	Opaque        bool   `json:"opaque"`
	Checksum      string `json:"checksum"`
	FileSizeBytes int64  `json:"file_size_bytes"`
}

// DimensionsResult contains the width and height of an image.
type DimensionsResult struct {
	Width  int `json:"width"`
	Height int `json:"height"`
}

func (s *Server) handleImageLoad(args json.RawMessage) (interface{}, error) {
	var a pathArgs
	if err := decodeArgs(args, &a); err != nil {
		return nil, err
	}
	img, err := s.cache.Open(a.Path)
	if err != nil {
		return nil, err
	}
	defer img.Close()

	buf, err := img.Buffer()
	if err != nil {
		return nil, err
	}
	stat, err := os.Stat(a.Path)
	if err != nil {
		return nil, fmt.Errorf("failed to stat file: %w", err)
	}

	return &ImageInfo{
		Width:         buf.Width,
		Height:        buf.Height,
		Format:        string(img.SourceFormat()),
		MimeType:      img.SourceFormat().MimeType(),
		Opaque:        buf.Opaque(),
		Checksum:      fmt.Sprintf("%016x", buf.Checksum()),
		FileSizeBytes: stat.Size(),
	}, nil
}

func (s *Server) handleImageDimensions(args json.RawMessage) (interface{}, error) {
	var a pathArgs
	if err := decodeArgs(args, &a); err != nil {
		return nil, err
	}
	img, err := s.cache.Open(a.Path)
	if err != nil {
		return nil, err
	}
	defer img.Close()
	return &DimensionsResult{Width: img.Width(), Height: img.Height()}, nil
}

// === Edit Operation Handlers ===

// outputArgs is shared by every edit tool.
type outputArgs struct {
	Output  string `json:"output,omitempty"`
	Format  string `json:"format,omitempty"`
	Quality int    `json:"quality,omitempty"`
}

// EditResult describes the image produced by an edit tool. Exactly one of
// Data and Output is set.
type EditResult struct {
	Width    int    `json:"width"`
	Height   int    `json:"height"`
	Format   string `json:"format"`
	MimeType string `json:"mime_type"`
	Bytes    int    `json:"bytes"`
	Data     string `json:"data,omitempty"`   // base64
	Output   string `json:"output,omitempty"` // file written
}

// edit opens path, runs steps on a private copy and encodes the result.
func (s *Server) edit(path string, steps []config.Step, out outputArgs) (*EditResult, error) {
	format := codec.FormatPNG
	if out.Format != "" {
		format = codec.ParseFormat(out.Format)
	} else if out.Output != "" {
		if f := codec.ParseFormat(filepath.Ext(out.Output)); f != codec.FormatUnknown {
			format = f
		}
	}
	if out.Quality < 0 || out.Quality > 100 {
		return nil, fmt.Errorf("quality must be 1-100, got %d", out.Quality)
	}

	img, err := s.cache.Open(path)
	if err != nil {
		return nil, err
	}
	defer img.Close()

	if err := img.Apply(steps); err != nil {
		return nil, err
	}

	var data []byte
	if out.Quality > 0 {
		data, err = img.EncodeQuality(format, out.Quality)
	} else {
		data, err = img.Encode(format)
	}
	if err != nil {
		return nil, err
	}

	result := &EditResult{
		Width:    img.Width(),
		Height:   img.Height(),
		Format:   string(format),
		MimeType: format.MimeType(),
		Bytes:    len(data),
	}
	if out.Output == "" {
		result.Data = base64.StdEncoding.EncodeToString(data)
		return result, nil
	}

	if err := os.WriteFile(out.Output, data, 0644); err != nil {
		return nil, fmt.Errorf("failed to write output: %w", err)
	}
	s.cache.Evict(out.Output)
	result.Output = out.Output
	return result, nil
}

type imageRotateArgs struct {
	Path    string `json:"path"`
	Degrees int    `json:"degrees"`
	outputArgs
}

func (s *Server) handleImageRotate(args json.RawMessage) (interface{}, error) {
	var a imageRotateArgs
	if err := decodeArgs(args, &a); err != nil {
		return nil, err
	}
	return s.edit(a.Path, []config.Step{config.RotateStep(a.Degrees)}, a.outputArgs)
}

type imageCropArgs struct {
	Path string `json:"path"`
	imaging.Rect
	outputArgs
}

func (s *Server) handleImageCrop(args json.RawMessage) (interface{}, error) {
	var a imageCropArgs
	if err := decodeArgs(args, &a); err != nil {
		return nil, err
	}
	return s.edit(a.Path, []config.Step{config.CropStep(a.Rect)}, a.outputArgs)
}

type imageCropQuadrantArgs struct {
	Path   string `json:"path"`
	Region string `json:"region"`
	outputArgs
}

func (s *Server) handleImageCropQuadrant(args json.RawMessage) (interface{}, error) {
	var a imageCropQuadrantArgs
	if err := decodeArgs(args, &a); err != nil {
		return nil, err
	}
	if a.Region == "" {
		return nil, fmt.Errorf("region is required")
	}
	return s.edit(a.Path, []config.Step{config.RegionStep(a.Region)}, a.outputArgs)
}

type imageResizeArgs struct {
	Path   string `json:"path"`
	Width  int    `json:"width"`
	Height int    `json:"height"`
	Filter string `json:"filter,omitempty"`
	outputArgs
}

func (s *Server) handleImageResize(args json.RawMessage) (interface{}, error) {
	var a imageResizeArgs
	if err := decodeArgs(args, &a); err != nil {
		return nil, err
	}
	return s.edit(a.Path, []config.Step{config.ResizeTo(a.Width, a.Height, a.Filter)}, a.outputArgs)
}

type imageEditArgs struct {
	Path  string        `json:"path"`
	Steps []config.Step `json:"steps"`
	outputArgs
}

func (s *Server) handleImageEdit(args json.RawMessage) (interface{}, error) {
	var a imageEditArgs
	if err := decodeArgs(args, &a); err != nil {
		return nil, err
	}
	if len(a.Steps) == 0 {
		return nil, fmt.Errorf("steps must not be empty")
	}
	return s.edit(a.Path, a.Steps, a.outputArgs)
}

// === Pixel Access Handlers ===

type imageSampleColorArgs struct {
	Path string `json:"path"`
	X    int    `json:"x"`
	Y    int    `json:"y"`
}

func (s *Server) handleImageSampleColor(args json.RawMessage) (interface{}, error) {
	var a imageSampleColorArgs
	if err := decodeArgs(args, &a); err != nil {
		return nil, err
	}
	img, err := s.cache.Open(a.Path)
	if err != nil {
		return nil, err
	}
	defer img.Close()
	return img.PixelAt(a.X, a.Y)
}

type imageSampleColorsMultiArgs struct {
	Path   string                 `json:"path"`
	Points []imaging.LabeledPoint `json:"points"`
}

func (s *Server) handleImageSampleColorsMulti(args json.RawMessage) (interface{}, error) {
	var a imageSampleColorsMultiArgs
	if err := decodeArgs(args, &a); err != nil {
		return nil, err
	}
	img, err := s.cache.Open(a.Path)
	if err != nil {
		return nil, err
	}
	defer img.Close()
	return img.PixelsAt(a.Points)
}

// PixelsResult holds packed ARGB pixels in row-major order.
type PixelsResult struct {
	Width  int      `json:"width"`
	Height int      `json:"height"`
	Pixels []uint32 `json:"pixels"`
}

func (s *Server) handleImagePixels(args json.RawMessage) (interface{}, error) {
	var a pathArgs
	if err := decodeArgs(args, &a); err != nil {
		return nil, err
	}
	img, err := s.cache.Open(a.Path)
	if err != nil {
		return nil, err
	}
	defer img.Close()
	return pixelsOf(img)
}

func pixelsOf(img *editor.Image) (*PixelsResult, error) {
	if n := img.Width() * img.Height(); n > maxPixelDump {
		return nil, fmt.Errorf("image has %d pixels; image_pixels is limited to %d", n, maxPixelDump)
	}
	pix, err := img.ARGBPixels()
	if err != nil {
		return nil, err
	}
	return &PixelsResult{Width: img.Width(), Height: img.Height(), Pixels: pix}, nil
}
