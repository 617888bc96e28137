package server

// Tool represents an MCP tool definition
type Tool struct {
	Name        string                 `json:"name"`
	Description string                 `json:"description"`
	InputSchema map[string]interface{} `json:"inputSchema"`
}

// commonSettingsProperties are the overrides accepted by every conversion tool.
func commonSettingsProperties() map[string]interface{} {
	return map[string]interface{}{
		"profile": map[string]interface{}{
			"type":        "string",
			"description": "Named settings profile from the server config. Explicit arguments override its values.",
		},
		"threshold": map[string]interface{}{
			"type":        "integer",
			"minimum":     0,
			"maximum":     255,
			"description": "Luminance cutoff 0-255. Default 128",
		},
		"invert": map[string]interface{}{
			"type":        "boolean",
			"description": "Flip lit/unlit for every on-surface pixel",
		},
		"filter": map[string]interface{}{
			"type":        "string",
			"enum":        []string{"nearest", "box", "linear", "catmullrom", "lanczos"},
			"description": "Resample filter used when fitting the image to the square surface. Default linear",
		},
		"tone_brightness": map[string]interface{}{
			"type":        "number",
			"description": "Brightness adjustment before thresholding, -1 to 1",
		},
		"contrast": map[string]interface{}{
			"type":        "number",
			"description": "Contrast adjustment before thresholding, -1 to 1",
		},
		"gamma": map[string]interface{}{
			"type":        "number",
			"description": "Gamma correction before thresholding (1 = none)",
		},
	}
}

func polarSettingsProperties() map[string]interface{} {
	return map[string]interface{}{
		"num_leds": map[string]interface{}{
			"type":        "integer",
			"description": "LEDs on the arm, across both sides of the hub. Must be even. Default 72",
		},
		"divisions": map[string]interface{}{
			"type":        "integer",
			"description": "Angular slices per rotation. Default 150",
		},
		"working_size": map[string]interface{}{
			"type":        "integer",
			"description": "Side of the square surface sampled in polar mode. Default 600",
		},
		"brightness": map[string]interface{}{
			"type":        "number",
			"description": "Scale factor for recorded LED colors, 0-1. Default 1",
		},
		"line_shift": map[string]interface{}{
			"type":        "integer",
			"description": "Rotate output lines so line j carries slice j+line_shift. Compensates for sensor placement",
		},
	}
}

func merge(maps ...map[string]interface{}) map[string]interface{} {
	out := make(map[string]interface{})
	for _, m := range maps {
		for k, v := range m {
			out[k] = v
		}
	}
	return out
}

// GetToolDefinitions returns all available tools
func GetToolDefinitions() []Tool {
	pathProp := map[string]interface{}{
		"path": map[string]interface{}{
			"type":        "string",
			"description": "Absolute path to the image file",
		},
	}
	nameProp := map[string]interface{}{
		"name": map[string]interface{}{
			"type":        "string",
			"description": "Array name for the result. Defaults to the file name",
		},
	}
	resolutionProp := map[string]interface{}{
		"resolution": map[string]interface{}{
			"type":        "integer",
			"description": "Grid side length in LEDs (output is resolution x resolution). Default 16",
		},
	}

	return []Tool{
		{
			Name:        "led_image_info",
			Description: "Load an image file and return its dimensions, format and derived array name.",
			InputSchema: map[string]interface{}{
				"type":       "object",
				"properties": pathProp,
				"required":   []string{"path"},
			},
		},

		// Conversion
		{
			Name:        "led_convert_grid",
			Description: "Convert an image to a square 1-bit LED matrix bitmap. The image is letterboxed onto a white square, pixels brighter than the threshold set their bit, rows are packed MSB-first. The result is kept in the session for led_render_code and led_preview.",
			InputSchema: map[string]interface{}{
				"type":       "object",
				"properties": merge(pathProp, nameProp, resolutionProp, commonSettingsProperties()),
				"required":   []string{"path"},
			},
		},
		{
			Name:        "led_convert_polar",
			Description: "Convert an image for a spinning persistence-of-vision LED arm. The image is sampled along angular slices; pixels darker than the threshold light their LED. Each line is returned as a sparse color list and as packed bits. The result is kept in the session.",
			InputSchema: map[string]interface{}{
				"type":       "object",
				"properties": merge(pathProp, nameProp, commonSettingsProperties(), polarSettingsProperties()),
				"required":   []string{"path"},
			},
		},
		{
			Name:        "led_convert_batch",
			Description: "Convert several images with the same settings. Images are processed in parallel; results are reported per image in submission order and one failure does not stop the rest.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": merge(map[string]interface{}{
					"paths": map[string]interface{}{
						"type":        "array",
						"items":       map[string]interface{}{"type": "string"},
						"description": "Absolute paths to the image files",
					},
					"mode": map[string]interface{}{
						"type":        "string",
						"enum":        []string{"grid", "polar"},
						"description": "Addressing scheme. Default grid",
					},
				}, resolutionProp, commonSettingsProperties(), polarSettingsProperties()),
				"required": []string{"paths"},
			},
		},
		{
			Name:        "led_pattern",
			Description: "Generate a circle or square test pattern for a POV arm without an input image. Useful for checking rotation timing. The result is kept in the session.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"shape": map[string]interface{}{
						"type":        "string",
						"enum":        []string{"circle", "square"},
						"description": "Pattern shape. Default circle",
					},
					"name": map[string]interface{}{
						"type":        "string",
						"description": "Array name for the result. Defaults to the shape",
					},
					"num_leds": map[string]interface{}{
						"type":        "integer",
						"description": "LEDs on the arm (even). Default 72",
					},
					"divisions": map[string]interface{}{
						"type":        "integer",
						"description": "Angular slices per rotation. Default 150",
					},
					"size": map[string]interface{}{
						"type":        "integer",
						"description": "Circle radius or square side in LEDs",
					},
					"color": map[string]interface{}{
						"type":        "string",
						"description": "Hex color like #00FFFF. Default #00FFFF",
					},
					"brightness": map[string]interface{}{
						"type":        "number",
						"description": "Color scale factor 0-1. Default 0.5",
					},
				},
			},
		},

		// Output
		{
			Name:        "led_render_code",
			Description: "Render converted images from the session as source code: one named byte array per image plus an index array of all images.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"format": map[string]interface{}{
						"type":        "string",
						"enum":        []string{"arduino", "micropython"},
						"description": "Target dialect. Default arduino",
					},
					"names": map[string]interface{}{
						"type":        "array",
						"items":       map[string]interface{}{"type": "string"},
						"description": "Images to include, in order. Default: whole session",
					},
					"with_colors": map[string]interface{}{
						"type":        "boolean",
						"description": "Also emit per-LED color tables for polar images",
					},
					"color_order": map[string]interface{}{
						"type":        "string",
						"enum":        []string{"rgb", "grb"},
						"description": "Byte order of emitted colors. WS281x strips use grb. Default rgb",
					},
				},
			},
		},
		{
			Name:        "led_preview",
			Description: "Render a converted image from the session as a base64-encoded PNG for visual checking.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"name": map[string]interface{}{
						"type":        "string",
						"description": "Name of the converted image",
					},
					"size": map[string]interface{}{
						"type":        "integer",
						"description": "Side of the preview in pixels, at most 4096. Default from config (400)",
					},
					"color": map[string]interface{}{
						"type":        "boolean",
						"description": "Draw polar LEDs in their recorded colors instead of white",
					},
				},
				"required": []string{"name"},
			},
		},

		// Session and configuration
		{
			Name:        "led_session_list",
			Description: "List converted images held in the session.",
			InputSchema: map[string]interface{}{
				"type":       "object",
				"properties": map[string]interface{}{},
			},
		},
		{
			Name:        "led_session_clear",
			Description: "Remove converted images from the session. Without names, clears everything including the image cache.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"names": map[string]interface{}{
						"type":        "array",
						"items":       map[string]interface{}{"type": "string"},
						"description": "Images to remove",
					},
				},
			},
		},
		{
			Name:        "led_profiles",
			Description: "List the named settings profiles available to the conversion tools.",
			InputSchema: map[string]interface{}{
				"type":       "object",
				"properties": map[string]interface{}{},
			},
		},
	}
}

// handleToolsList returns the list of available tools
func (s *Server) handleToolsList(req *MCPRequest) *MCPResponse {
	return &MCPResponse{
		JSONRPC: "2.0",
		ID:      req.ID,
		Result: map[string]interface{}{
			"tools": GetToolDefinitions(),
		},
	}
}
