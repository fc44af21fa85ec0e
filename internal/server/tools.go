package server

// Tool describes a callable tool and its argument schema.
type Tool struct {
	Name        string                 `json:"name"`
	Description string                 `json:"description"`
	InputSchema map[string]interface{} `json:"inputSchema"`
}

func objectSchema(properties map[string]interface{}, required ...string) map[string]interface{} {
	schema := map[string]interface{}{
		"type":       "object",
		"properties": properties,
	}
	if len(required) > 0 {
		schema["required"] = required
	}
	return schema
}

func prop(kind, description string) map[string]interface{} {
	return map[string]interface{}{
		"type":        kind,
		"description": description,
	}
}

func propDefault(kind, description string, def interface{}) map[string]interface{} {
	p := prop(kind, description)
	p["default"] = def
	return p
}

const optionalPathDescription = "Absolute path to an image file. Defaults to the currently selected photo."

// GetToolDefinitions returns all available tools.
func GetToolDefinitions() []Tool {
	return []Tool{
		// Browsing
		{
			Name:        "photo_open_directory",
			Description: "List the JPEG and RAW photos (.jpg, .jpeg, .raf, .raw) in a directory, read their EXIF metadata, and select and decode the first one.",
			InputSchema: objectSchema(map[string]interface{}{
				"dir": prop("string", "Absolute path to the directory"),
			}, "dir"),
		},
		{
			Name:        "photo_select",
			Description: "Select the photo at a position in the current list and decode it.",
			InputSchema: objectSchema(map[string]interface{}{
				"index": prop("integer", "0-based position in the photo list"),
			}, "index"),
		},
		{
			Name:        "photo_next",
			Description: "Select the next photo. Does nothing on the last photo.",
			InputSchema: objectSchema(map[string]interface{}{}),
		},
		{
			Name:        "photo_previous",
			Description: "Select the previous photo. Does nothing on the first photo.",
			InputSchema: objectSchema(map[string]interface{}{}),
		},
		{
			Name:        "photo_current",
			Description: "Report the selected photo: camera, exposure settings, EXIF metadata, decoded size and any viewer error.",
			InputSchema: objectSchema(map[string]interface{}{}),
		},

		// Inspection
		{
			Name:        "photo_detect_format",
			Description: "Identify an image's format from its header bytes, regardless of extension. RAW formats are reported per vendor (raw-fuji, raw-canon, raw-nikon, raw-sony, raw-panasonic) or as raw-generic.",
			InputSchema: objectSchema(map[string]interface{}{
				"path": prop("string", "Absolute path to the image file"),
			}, "path"),
		},
		{
			Name:        "photo_info",
			Description: "Decode an image through the cache and return its dimensions, detected format, file size and modification time.",
			InputSchema: objectSchema(map[string]interface{}{
				"path": prop("string", "Absolute path to the image file"),
			}, "path"),
		},
		{
			Name:        "photo_sample_color",
			Description: "Read decoded pixel colors as hex, RGB and HSL. Pass x and y for one point, or points for several; a radius averages a square patch around each point.",
			InputSchema: objectSchema(map[string]interface{}{
				"path":   prop("string", optionalPathDescription),
				"x":      prop("integer", "X coordinate (0-based)"),
				"y":      prop("integer", "Y coordinate (0-based)"),
				"radius": propDefault("integer", "Average the square of pixels within this distance of the point", 0),
				"points": map[string]interface{}{
					"type":        "array",
					"description": "Points to sample, in order",
					"items": objectSchema(map[string]interface{}{
						"x":      prop("integer", "X coordinate (0-based)"),
						"y":      prop("integer", "Y coordinate (0-based)"),
						"radius": prop("integer", "Averaging radius for this point"),
						"label":  prop("string", "Optional label echoed in the result"),
					}, "x", "y"),
				},
			}),
		},
		{
			Name:        "photo_export",
			Description: "Write a decoded image to a file. The codec follows the output extension (.png, .jpg, .gif, .tif, .bmp).",
			InputSchema: objectSchema(map[string]interface{}{
				"path":       prop("string", optionalPathDescription),
				"output":     prop("string", "Absolute path of the file to write"),
				"scale":      propDefault("number", "Scale factor applied before writing", 1.0),
				"max_width":  prop("integer", "Fit within this width first, preserving aspect ratio"),
				"max_height": prop("integer", "Fit within this height first, preserving aspect ratio"),
			}, "output"),
		},

		// Cache
		{
			Name:        "cache_stats",
			Description: "Report decoded-image cache hits, misses, evictions and occupancy. Optionally evict one path or clear the cache first.",
			InputSchema: objectSchema(map[string]interface{}{
				"evict": prop("string", "Path to drop from the cache"),
				"clear": propDefault("boolean", "Drop every cached image", false),
			}),
		},
	}
}

func (s *Server) handleToolsList(req *MCPRequest) *MCPResponse {
	return resultResponse(req.ID, map[string][]Tool{"tools": GetToolDefinitions()})
}

