package server

// Tool represents an MCP tool definition
type Tool struct {
	Name        string                 `json:"name"`
	Description string                 `json:"description"`
	InputSchema map[string]interface{} `json:"inputSchema"`
}

func stringProp(description string) map[string]interface{} {
	return map[string]interface{}{"type": "string", "description": description}
}

func intProp(description string) map[string]interface{} {
	return map[string]interface{}{"type": "integer", "description": description}
}

func objectSchema(props map[string]interface{}, required ...string) map[string]interface{} {
	return map[string]interface{}{
		"type":       "object",
		"properties": props,
		"required":   required,
	}
}

var pathProp = stringProp("Absolute path to the image file")

var outputProps = map[string]interface{}{
	"output":  stringProp("Optional file to write instead of returning base64 data"),
	"format":  stringProp("Output format: png (default), jpeg or bmp"),
	"quality": intProp("JPEG quality 1-100"),
}

// withOutput merges the shared output properties into props.
func withOutput(props map[string]interface{}) map[string]interface{} {
	for k, v := range outputProps {
		props[k] = v
	}
	return props
}

// GetToolDefinitions returns all available tools
func GetToolDefinitions() []Tool {
	return []Tool{
		// Image Information
		{
			Name:        "image_load",
			Description: "Decode an image file and return its format, dimensions, opacity and a checksum of the decoded pixels.",
			InputSchema: objectSchema(map[string]interface{}{
				"path": pathProp,
			}, "path"),
		},
		{
			Name:        "image_dimensions",
			Description: "Get the width and height of an image file.",
			InputSchema: objectSchema(map[string]interface{}{
				"path": pathProp,
			}, "path"),
		},

		// Edit Operations
		{
			Name:        "image_rotate",
			Description: "Rotate an image clockwise by a multiple of 90 degrees. Negative values rotate counter-clockwise.",
			InputSchema: objectSchema(withOutput(map[string]interface{}{
				"path":    pathProp,
				"degrees": intProp("Rotation in degrees; must be a multiple of 90"),
			}), "path", "degrees"),
		},
		{
			Name:        "image_crop",
			Description: "Crop a rectangular region. The rectangle must lie entirely inside the image.",
			InputSchema: objectSchema(withOutput(map[string]interface{}{
				"path":   pathProp,
				"x":      intProp("Left edge X coordinate (0-based)"),
				"y":      intProp("Top edge Y coordinate (0-based)"),
				"width":  intProp("Region width in pixels"),
				"height": intProp("Region height in pixels"),
			}), "path", "x", "y", "width", "height"),
		},
		{
			Name:        "image_crop_quadrant",
			Description: "Crop a named region: top-left, top-right, bottom-left, bottom-right, top-half, bottom-half, left-half, right-half or center.",
			InputSchema: objectSchema(withOutput(map[string]interface{}{
				"path": pathProp,
				"region": map[string]interface{}{
					"type":        "string",
					"description": "Named region",
					"enum": []string{
						"top-left", "top-right", "bottom-left", "bottom-right",
						"top-half", "bottom-half", "left-half", "right-half", "center",
					},
				},
			}), "path", "region"),
		},
		{
			Name:        "image_resize",
			Description: "Scale an image to exactly width x height pixels.",
			InputSchema: objectSchema(withOutput(map[string]interface{}{
				"path":   pathProp,
				"width":  intProp("Target width in pixels"),
				"height": intProp("Target height in pixels"),
				"filter": map[string]interface{}{
					"type":        "string",
					"description": "Resampling filter. Default is the server's configured filter.",
					"enum":        []string{"nearest", "bilinear", "catmullrom", "lanczos"},
				},
			}), "path", "width", "height"),
		},
		{
			Name:        "image_edit",
			Description: "Apply a sequence of edits. Each step sets exactly one of rotate, crop, region or resize. If any step fails nothing is written.",
			InputSchema: objectSchema(withOutput(map[string]interface{}{
				"path": pathProp,
				"steps": map[string]interface{}{
					"type":        "array",
					"description": `Steps such as {"rotate": 90}, {"crop": {"x": 0, "y": 0, "width": 10, "height": 10}}, {"region": "center"}, {"resize": {"width": 64, "height": 64, "filter": "bilinear"}}`,
					"items":       map[string]interface{}{"type": "object"},
				},
			}), "path", "steps"),
		},

		// Pixel Access
		{
			Name:        "image_sample_color",
			Description: "Get the color at a pixel as packed ARGB, hex, RGBA and HSL.",
			InputSchema: objectSchema(map[string]interface{}{
				"path": pathProp,
				"x":    intProp("X coordinate (0-based)"),
				"y":    intProp("Y coordinate (0-based)"),
			}, "path", "x", "y"),
		},
		{
			Name:        "image_sample_colors_multi",
			Description: "Sample colors at several labelled points. Fails if any point is outside the image.",
			InputSchema: objectSchema(map[string]interface{}{
				"path": pathProp,
				"points": map[string]interface{}{
					"type": "array",
					"items": objectSchema(map[string]interface{}{
						"x":     intProp("X coordinate"),
						"y":     intProp("Y coordinate"),
						"label": stringProp("Optional label for this point"),
					}, "x", "y"),
				},
			}, "path", "points"),
		},
		{
			Name:        "image_pixels",
			Description: "Return every pixel as packed 0xAARRGGBB in row-major order. Limited to small images.",
			InputSchema: objectSchema(map[string]interface{}{
				"path": pathProp,
			}, "path"),
		},
	}
}
