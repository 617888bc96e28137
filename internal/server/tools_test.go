package server

import (
	"testing"
)

var expectedTools = []string{
	"led_image_info",
	"led_convert_grid",
	"led_convert_polar",
	"led_convert_batch",
	"led_pattern",
	"led_render_code",
	"led_preview",
	"led_session_list",
	"led_session_clear",
	"led_profiles",
}

func toolMap() map[string]Tool {
	m := make(map[string]Tool)
	for _, tool := range GetToolDefinitions() {
		m[tool.Name] = tool
	}
	return m
}

func TestGetToolDefinitions(t *testing.T) {
	tools := GetToolDefinitions()

	if len(tools) != len(expectedTools) {
		t.Fatalf("tool count: got %d, want %d", len(tools), len(expectedTools))
	}

	m := toolMap()
	for _, name := range expectedTools {
		if _, ok := m[name]; !ok {
			t.Errorf("Expected tool %s not found", name)
		}
	}
}

func TestToolDefinitions_Structure(t *testing.T) {
	for _, tool := range GetToolDefinitions() {
		t.Run(tool.Name, func(t *testing.T) {
			if tool.Name == "" {
				t.Error("Tool name is empty")
			}
			if tool.Description == "" {
				t.Error("Tool description is empty")
			}
			if tool.InputSchema == nil {
				t.Fatal("Tool InputSchema is nil")
			}
			if tool.InputSchema["type"] != "object" {
				t.Errorf("InputSchema type: got %v, want 'object'", tool.InputSchema["type"])
			}
			if _, ok := tool.InputSchema["properties"].(map[string]interface{}); !ok {
				t.Error("InputSchema properties missing or not a map")
			}
		})
	}
}

func TestToolDefinitions_Required(t *testing.T) {
	tests := map[string]string{
		"led_image_info":    "path",
		"led_convert_grid":  "path",
		"led_convert_polar": "path",
		"led_convert_batch": "paths",
		"led_preview":       "name",
	}

	m := toolMap()
	for name, param := range tests {
		t.Run(name, func(t *testing.T) {
			requiredList, ok := m[name].InputSchema["required"].([]string)
			if !ok {
				t.Fatal("'required' should be a string slice")
			}
			found := false
			for _, r := range requiredList {
				if r == param {
					found = true
				}
			}
			if !found {
				t.Errorf("tool should require %q", param)
			}
		})
	}
}

func TestToolDefinitions_SettingsProperties(t *testing.T) {
	m := toolMap()

	common := []string{"profile", "threshold", "invert", "filter", "tone_brightness", "contrast", "gamma"}
	polar := []string{"num_leds", "divisions", "working_size", "brightness", "line_shift"}

	check := func(tool string, params []string) {
		props := m[tool].InputSchema["properties"].(map[string]interface{})
		for _, p := range params {
			if _, ok := props[p]; !ok {
				t.Errorf("%s missing property %s", tool, p)
			}
		}
	}

	check("led_convert_grid", append(common, "resolution", "path", "name"))
	check("led_convert_polar", append(common, polar...))
	check("led_convert_batch", append(append(common, polar...), "paths", "mode", "resolution"))

	gridProps := m["led_convert_grid"].InputSchema["properties"].(map[string]interface{})
	if _, ok := gridProps["line_shift"]; ok {
		t.Error("grid tool should not offer polar-only line_shift")
	}
}

func TestHandleToolsList(t *testing.T) {
	s := New(nil)
	req := &MCPRequest{
		JSONRPC: "2.0",
		ID:      1,
	}

	resp := s.handleToolsList(req)

	if resp == nil {
		t.Fatal("handleToolsList returned nil")
	}
	if resp.Error != nil {
		t.Fatalf("Unexpected error: %v", resp.Error)
	}

	result, ok := resp.Result.(map[string]interface{})
	if !ok {
		t.Fatal("Result should be a map")
	}

	toolsList, ok := result["tools"].([]Tool)
	if !ok {
		t.Fatal("tools should be a slice of Tool")
	}

	if len(toolsList) != len(GetToolDefinitions()) {
		t.Errorf("Tool count: got %d, want %d", len(toolsList), len(GetToolDefinitions()))
	}
}
