package server

import (
	"bytes"
	"encoding/base64"
	"encoding/json"
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/ironsheep/imgedit/internal/codec"
	"github.com/ironsheep/imgedit/internal/editor"
	"github.com/ironsheep/imgedit/internal/imaging"
)

// createTestImageFile writes a PNG whose top row is black, whose centre
// pixel is red and which is otherwise white, and returns its path.
func createTestImageFile(t *testing.T, width, height int) string {
	t.Helper()

	img := image.NewNRGBA(image.Rect(0, 0, width, height))
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			switch {
			case y == 0:
				img.Set(x, y, color.NRGBA{0, 0, 0, 255})
			case x == width/2 && y == height/2:
				img.Set(x, y, color.NRGBA{255, 0, 0, 255})
			default:
				img.Set(x, y, color.NRGBA{255, 255, 255, 255})
			}
		}
	}

	path := filepath.Join(t.TempDir(), "test.png")
	f, err := os.Create(path)
	if err != nil {
		t.Fatalf("failed to create file: %v", err)
	}
	defer f.Close()
	if err := png.Encode(f, img); err != nil {
		t.Fatalf("failed to encode image: %v", err)
	}
	return path
}

// callTool runs a tools/call request and decodes the text content into out.
func callTool(t *testing.T, s *Server, name string, args map[string]interface{}, out interface{}) {
	t.Helper()
	resp := callToolRaw(t, s, name, args)
	if resp.Error != nil {
		t.Fatalf("%s failed: %s (%v)", name, resp.Error.Message, resp.Error.Data)
	}

	result := resp.Result.(map[string]interface{})
	content := result["content"].([]map[string]interface{})
	if len(content) != 1 || content[0]["type"] != "text" {
		t.Fatalf("unexpected content: %v", content)
	}
	if err := json.Unmarshal([]byte(content[0]["text"].(string)), out); err != nil {
		t.Fatalf("failed to decode %s result: %v", name, err)
	}
}

func callToolRaw(t *testing.T, s *Server, name string, args map[string]interface{}) *MCPResponse {
	t.Helper()
	paramsJSON, err := json.Marshal(map[string]interface{}{
		"name":      name,
		"arguments": args,
	})
	if err != nil {
		t.Fatalf("failed to marshal params: %v", err)
	}
	resp := s.handleRequest(&MCPRequest{
		JSONRPC: "2.0",
		ID:      1,
		Method:  "tools/call",
		Params:  paramsJSON,
	})
	if resp == nil {
		t.Fatal("handleRequest returned nil")
	}
	return resp
}

func decodeEditData(t *testing.T, r *EditResult) []uint32 {
	t.Helper()
	data, err := base64.StdEncoding.DecodeString(r.Data)
	if err != nil {
		t.Fatalf("invalid base64: %v", err)
	}
	buf, _, err := codec.Decode(data)
	if err != nil {
		t.Fatalf("failed to decode result image: %v", err)
	}
	if buf.Width != r.Width || buf.Height != r.Height {
		t.Errorf("result says %dx%d, image is %dx%d", r.Width, r.Height, buf.Width, buf.Height)
	}
	return buf.Pix
}

func TestHandleToolsCall_ImageLoad(t *testing.T) {
	s := newTestServer()
	path := createTestImageFile(t, 100, 80)

	var info ImageInfo
	callTool(t, s, "image_load", map[string]interface{}{"path": path}, &info)

	if info.Width != 100 || info.Height != 80 {
		t.Errorf("got %dx%d, want 100x80", info.Width, info.Height)
	}
	if info.Format != "png" || info.MimeType != "image/png" {
		t.Errorf("format: got %s %s", info.Format, info.MimeType)
	}
	if !info.Opaque {
		t.Error("Opaque: got false, want true")
	}
	if len(info.Checksum) != 16 {
		t.Errorf("Checksum: got %q, want 16 hex digits", info.Checksum)
	}
	if info.FileSizeBytes <= 0 {
		t.Errorf("FileSizeBytes: got %d", info.FileSizeBytes)
	}
}

func TestHandleToolsCall_ImageDimensions(t *testing.T) {
	s := newTestServer()
	path := createTestImageFile(t, 200, 150)

	var dims DimensionsResult
	callTool(t, s, "image_dimensions", map[string]interface{}{"path": path}, &dims)
	if dims.Width != 200 || dims.Height != 150 {
		t.Errorf("got %dx%d, want 200x150", dims.Width, dims.Height)
	}
}

func TestHandleToolsCall_ImageRotate(t *testing.T) {
	s := newTestServer()
	path := createTestImageFile(t, 3, 3)

	var r EditResult
	callTool(t, s, "image_rotate", map[string]interface{}{"path": path, "degrees": 90}, &r)

	for i, v := range decodeEditData(t, &r) {
		isBlack := v == 0xFF000000
		if want := (i+1)%3 == 0; isBlack != want {
			t.Errorf("pixel %d: got %#08x, black=%v want %v", i, v, isBlack, want)
		}
	}
}

func TestHandleToolsCall_ImageCrop(t *testing.T) {
	s := newTestServer()
	path := createTestImageFile(t, 3, 3)

	var r EditResult
	callTool(t, s, "image_crop", map[string]interface{}{
		"path": path, "x": 1, "y": 1, "width": 1, "height": 1,
	}, &r)

	pix := decodeEditData(t, &r)
	if len(pix) != 1 || pix[0] != 0xFFFF0000 {
		t.Errorf("got %#x, want [0xffff0000]", pix)
	}
}

func TestHandleToolsCall_ImageCropQuadrant(t *testing.T) {
	s := newTestServer()
	path := createTestImageFile(t, 4, 4)

	var r EditResult
	callTool(t, s, "image_crop_quadrant", map[string]interface{}{"path": path, "region": "top-half"}, &r)
	if r.Width != 4 || r.Height != 2 {
		t.Errorf("got %dx%d, want 4x2", r.Width, r.Height)
	}
}

func TestHandleToolsCall_ImageResize(t *testing.T) {
	s := newTestServer()
	path := createTestImageFile(t, 3, 3)

	var r EditResult
	callTool(t, s, "image_resize", map[string]interface{}{
		"path": path, "width": 6, "height": 6, "filter": "nearest",
	}, &r)

	pix := decodeEditData(t, &r)
	if len(pix) != 36 {
		t.Fatalf("got %d pixels, want 36", len(pix))
	}
	for x := 0; x < 6; x++ {
		if pix[x] != 0xFF000000 {
			t.Errorf("top row pixel %d: got %#08x, want black", x, pix[x])
		}
	}
}

func TestHandleToolsCall_ImageEdit(t *testing.T) {
	s := newTestServer()
	path := createTestImageFile(t, 4, 4)
	out := filepath.Join(t.TempDir(), "out.jpg")

	var r EditResult
	callTool(t, s, "image_edit", map[string]interface{}{
		"path": path,
		"steps": []map[string]interface{}{
			{"rotate": 180},
			{"crop": map[string]int{"x": 0, "y": 2, "width": 4, "height": 2}},
			{"resize": map[string]interface{}{"width": 8, "height": 4, "filter": "bilinear"}},
		},
		"output":  out,
		"quality": 80,
	}, &r)

	if r.Output != out || r.Data != "" {
		t.Errorf("result should name the file and carry no data: %+v", r)
	}
	if r.Format != "jpeg" {
		t.Errorf("Format: got %s, want jpeg from extension", r.Format)
	}
	data, err := os.ReadFile(out)
	if err != nil {
		t.Fatalf("output not written: %v", err)
	}
	info, err := codec.DecodeConfig(data)
	if err != nil {
		t.Fatalf("DecodeConfig failed: %v", err)
	}
	if info.Width != 8 || info.Height != 4 || info.Format != codec.FormatJPEG {
		t.Errorf("got %+v, want 8x4 jpeg", info)
	}
}

func TestHandleToolsCall_ImageEditFailureWritesNothing(t *testing.T) {
	s := newTestServer()
	path := createTestImageFile(t, 4, 4)
	out := filepath.Join(t.TempDir(), "out.png")

	resp := callToolRaw(t, s, "image_edit", map[string]interface{}{
		"path":   path,
		"steps":  []map[string]interface{}{{"rotate": 90}, {"rotate": 45}},
		"output": out,
	})
	if resp.Error == nil || resp.Error.Code != -32000 {
		t.Fatalf("expected tool error, got %+v", resp)
	}
	if !strings.Contains(resp.Error.Data.(string), "step 2") {
		t.Errorf("error should name the failing step: %v", resp.Error.Data)
	}
	if _, err := os.Stat(out); err == nil {
		t.Error("output written despite failure")
	}
}

func TestHandleToolsCall_EditsDoNotLeakIntoCache(t *testing.T) {
	s := newTestServer()
	path := createTestImageFile(t, 3, 3)

	var r EditResult
	callTool(t, s, "image_crop", map[string]interface{}{
		"path": path, "x": 0, "y": 0, "width": 1, "height": 1,
	}, &r)

	var dims DimensionsResult
	callTool(t, s, "image_dimensions", map[string]interface{}{"path": path}, &dims)
	if dims.Width != 3 || dims.Height != 3 {
		t.Errorf("cached image changed to %dx%d", dims.Width, dims.Height)
	}
}

func TestHandleToolsCall_SampleColor(t *testing.T) {
	s := newTestServer()
	path := createTestImageFile(t, 3, 3)

	var c imaging.ColorResult
	callTool(t, s, "image_sample_color", map[string]interface{}{"path": path, "x": 1, "y": 1}, &c)
	if c.ARGB != 0xFFFF0000 || c.Hex != "#FF0000" {
		t.Errorf("got %#08x %s, want red", c.ARGB, c.Hex)
	}
	if c.HSL.H != 0 || c.HSL.S != 100 || c.HSL.L != 50 {
		t.Errorf("HSL: got %+v, want {0 100 50}", c.HSL)
	}
}

func TestHandleToolsCall_SampleColorsMulti(t *testing.T) {
	s := newTestServer()
	path := createTestImageFile(t, 3, 3)

	var results []imaging.LabeledColorResult
	callTool(t, s, "image_sample_colors_multi", map[string]interface{}{
		"path": path,
		"points": []map[string]interface{}{
			{"x": 0, "y": 0, "label": "corner"},
			{"x": 1, "y": 1, "label": "centre"},
		},
	}, &results)

	if len(results) != 2 {
		t.Fatalf("got %d results, want 2", len(results))
	}
	if results[0].Label != "corner" || results[0].Color.ARGB != 0xFF000000 {
		t.Errorf("corner: got %+v", results[0])
	}
	if results[1].Label != "centre" || results[1].Color.ARGB != 0xFFFF0000 {
		t.Errorf("centre: got %+v", results[1])
	}
}

func TestHandleToolsCall_Pixels(t *testing.T) {
	s := newTestServer()
	path := createTestImageFile(t, 3, 3)

	var p PixelsResult
	callTool(t, s, "image_pixels", map[string]interface{}{"path": path}, &p)
	if p.Width != 3 || p.Height != 3 || len(p.Pixels) != 9 {
		t.Fatalf("got %dx%d with %d pixels", p.Width, p.Height, len(p.Pixels))
	}
	if p.Pixels[4] != 0xFFFF0000 {
		t.Errorf("centre: got %#08x, want red", p.Pixels[4])
	}
}

func TestHandleToolsCall_PixelsTooLarge(t *testing.T) {
	s := newTestServer()
	path := createTestImageFile(t, 300, 300)

	resp := callToolRaw(t, s, "image_pixels", map[string]interface{}{"path": path})
	if resp.Error == nil || !strings.Contains(resp.Error.Data.(string), "limited") {
		t.Errorf("expected size limit error, got %+v", resp.Error)
	}
}

func TestHandleToolsCall_Errors(t *testing.T) {
	s := newTestServer()
	path := createTestImageFile(t, 3, 3)

	tests := []struct {
		name     string
		tool     string
		args     map[string]interface{}
		wantData string
	}{
		{"unknown tool", "image_blur", map[string]interface{}{"path": path}, "unknown tool"},
		{"missing file", "image_load", map[string]interface{}{"path": filepath.Join(t.TempDir(), "none.png")}, "stat"},
		{"crop outside", "image_crop", map[string]interface{}{"path": path, "x": 2, "y": 2, "width": 2, "height": 2}, "out of bounds"},
		{"sample outside", "image_sample_color", map[string]interface{}{"path": path, "x": 3, "y": 0}, "out of bounds"},
		{"bad angle", "image_rotate", map[string]interface{}{"path": path, "degrees": 30}, "unsupported transform"},
		{"bad region", "image_crop_quadrant", map[string]interface{}{"path": path, "region": "middle"}, "unknown region"},
		{"empty region", "image_crop_quadrant", map[string]interface{}{"path": path}, "region is required"},
		{"bad filter", "image_resize", map[string]interface{}{"path": path, "width": 2, "height": 2, "filter": "box"}, "filter"},
		{"no steps", "image_edit", map[string]interface{}{"path": path}, "steps must not be empty"},
		{"gif output", "image_rotate", map[string]interface{}{"path": path, "degrees": 90, "format": "gif"}, "encode error"},
		{"bad quality", "image_rotate", map[string]interface{}{"path": path, "degrees": 90, "quality": 500}, "quality"},
		{"wrong type", "image_rotate", map[string]interface{}{"path": path, "degrees": "ninety"}, "invalid arguments"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp := callToolRaw(t, s, tt.tool, tt.args)
			if resp.Error == nil {
				t.Fatal("expected error response")
			}
			if resp.Error.Code != -32000 {
				t.Errorf("Code: got %d, want -32000", resp.Error.Code)
			}
			data, _ := resp.Error.Data.(string)
			if !strings.Contains(data, tt.wantData) {
				t.Errorf("Data: got %q, want it to contain %q", data, tt.wantData)
			}
		})
	}
}

func TestHandleToolsCall_InvalidParams(t *testing.T) {
	s := newTestServer()
	resp := s.handleRequest(&MCPRequest{
		JSONRPC: "2.0",
		ID:      1,
		Method:  "tools/call",
		Params:  json.RawMessage(`"not an object"`),
	})
	if resp.Error == nil || resp.Error.Code != -32602 {
		t.Errorf("expected -32602, got %+v", resp.Error)
	}
}

func TestMustMarshalJSON(t *testing.T) {
	got := mustMarshalJSON(map[string]int{"a": 1})
	if !bytes.Contains([]byte(got), []byte(`"a": 1`)) {
		t.Errorf("got %q", got)
	}
	if got := mustMarshalJSON(make(chan int)); got != "" {
		t.Errorf("unmarshalable value: got %q, want empty", got)
	}
}

func TestToolFailure_LogsKind(t *testing.T) {
	core, logs := observer.New(zapcore.InfoLevel)
	s := New(editor.New(editor.Config{}), zap.New(core), "test")
	path := createTestImageFile(t, 3, 3)

	resp := callToolRaw(t, s, "image_rotate", map[string]interface{}{"path": path, "degrees": 45})
	if resp.Error == nil || resp.Error.Code != -32000 {
		t.Fatalf("got %+v, want tool execution error", resp.Error)
	}
	resp = callToolRaw(t, s, "image_edit", map[string]interface{}{"path": path})
	if resp.Error == nil {
		t.Fatal("image_edit without steps should fail")
	}

	entries := logs.FilterMessage("tool failed").All()
	if len(entries) != 2 {
		t.Fatalf("got %d tool failure logs, want 2", len(entries))
	}
	if got := entries[0].ContextMap()["kind"]; got != "unsupported transform" {
		t.Errorf("rotate failure kind: got %v, want unsupported transform", got)
	}
	if _, ok := entries[1].ContextMap()["kind"]; ok {
		t.Errorf("plain argument error should not carry a kind: %v", entries[1].ContextMap())
	}
}
