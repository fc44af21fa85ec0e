package server

import (
	"encoding/json"
	"testing"
)

func TestGetToolDefinitions(t *testing.T) {
	tools := GetToolDefinitions()

	expectedTools := []string{
		"photo_open_directory",
		"photo_select",
		"photo_next",
		"photo_previous",
		"photo_current",
		"photo_detect_format",
		"photo_info",
		"photo_sample_color",
		"photo_export",
		"cache_stats",
	}

	toolMap := make(map[string]Tool)
	for _, tool := range tools {
		if _, dup := toolMap[tool.Name]; dup {
			t.Errorf("duplicate tool %s", tool.Name)
		}
		toolMap[tool.Name] = tool
	}

	for _, name := range expectedTools {
		if _, ok := toolMap[name]; !ok {
			t.Errorf("Expected tool %s not found", name)
		}
	}
	if len(tools) != len(expectedTools) {
		t.Errorf("Tool count: got %d, want %d", len(tools), len(expectedTools))
	}
}

func TestToolDefinitions_Structure(t *testing.T) {
	for _, tool := range GetToolDefinitions() {
		t.Run(tool.Name, func(t *testing.T) {
			if tool.Description == "" {
				t.Error("Tool description is empty")
			}
			if tool.InputSchema["type"] != "object" {
				t.Errorf("InputSchema type: got %v, want 'object'", tool.InputSchema["type"])
			}

			props, ok := tool.InputSchema["properties"].(map[string]interface{})
			if !ok {
				t.Fatal("InputSchema properties should be a map")
			}

			// Every required argument must be described.
			if required, ok := tool.InputSchema["required"]; ok {
				for _, name := range required.([]string) {
					if _, ok := props[name]; !ok {
						t.Errorf("required argument %s has no property", name)
					}
				}
			}
		})
	}
}

func TestToolDefinitions_Required(t *testing.T) {
	tests := map[string][]string{
		"photo_open_directory": {"dir"},
		"photo_select":         {"index"},
		"photo_detect_format":  {"path"},
		"photo_info":           {"path"},
		"photo_export":         {"output"},
		"photo_next":           nil,
		"photo_current":        nil,
		"photo_sample_color":   nil,
		"cache_stats":          nil,
	}

	toolMap := make(map[string]Tool)
	for _, tool := range GetToolDefinitions() {
		toolMap[tool.Name] = tool
	}

	for name, want := range tests {
		t.Run(name, func(t *testing.T) {
			required, ok := toolMap[name].InputSchema["required"]
			if want == nil {
				if ok {
					t.Errorf("expected no required arguments, got %v", required)
				}
				return
			}

			got, ok := required.([]string)
			if !ok {
				t.Fatalf("'required' should be a string slice, got %T", required)
			}
			if len(got) != len(want) {
				t.Fatalf("required: got %v, want %v", got, want)
			}
			for i := range want {
				if got[i] != want[i] {
					t.Errorf("required[%d]: got %s, want %s", i, got[i], want[i])
				}
			}
		})
	}
}

func TestToolDefinitions_OptionalDefaults(t *testing.T) {
	toolMap := make(map[string]Tool)
	for _, tool := range GetToolDefinitions() {
		toolMap[tool.Name] = tool
	}

	tests := []struct {
		tool, param string
		want        interface{}
	}{
		{"photo_export", "scale", 1.0},
		{"cache_stats", "clear", false},
	}
	for _, tt := range tests {
		props := toolMap[tt.tool].InputSchema["properties"].(map[string]interface{})
		param, ok := props[tt.param].(map[string]interface{})
		if !ok {
			t.Errorf("%s.%s missing", tt.tool, tt.param)
			continue
		}
		if param["default"] != tt.want {
			t.Errorf("%s.%s default: got %v, want %v", tt.tool, tt.param, param["default"], tt.want)
		}
	}
}

func TestToolDefinitions_MarshalJSON(t *testing.T) {
	data, err := json.Marshal(GetToolDefinitions())
	if err != nil {
		t.Fatalf("Failed to marshal: %v", err)
	}

	var decoded []struct {
		Name        string                 `json:"name"`
		InputSchema map[string]interface{} `json:"inputSchema"`
	}
	if err := json.Unmarshal(data, &decoded); err != nil {
		t.Fatalf("Failed to unmarshal: %v", err)
	}
	for _, tool := range decoded {
		if _, ok := tool.InputSchema["properties"].(map[string]interface{}); !ok {
			t.Errorf("%s: properties should encode as an object", tool.Name)
		}
	}
}
