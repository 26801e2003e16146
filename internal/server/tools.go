package server

// Tool represents an MCP tool definition
type Tool struct {
	Name        string                 `json:"name"`
	Description string                 `json:"description"`
	InputSchema map[string]interface{} `json:"inputSchema"`
}

func pathSchema(description string) map[string]interface{} {
	return map[string]interface{}{
		"type": "object",
		"properties": map[string]interface{}{
			"path": map[string]interface{}{
				"type":        "string",
				"description": description,
			},
		},
		"required": []string{"path"},
	}
}

// GetToolDefinitions returns all available tools
func GetToolDefinitions() []Tool {
	return []Tool{
		// Records
		{
			Name:        "parse_folder",
			Description: "Parse a patient folder name of the form \"<first> <last> <mm-yyyy>\" into a record with name and birth date.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"name": map[string]interface{}{
						"type":        "string",
						"description": "Folder name, e.g. \"John Doe 05-1990\"",
					},
				},
				"required": []string{"name"},
			},
		},
		{
			Name:        "extract_fields",
			Description: "Extract HN, gender and dates from OCR text. If a folder name is given the fields are merged into the record parsed from it.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"text": map[string]interface{}{
						"type":        "string",
						"description": "OCR text, one field per line",
					},
					"folder": map[string]interface{}{
						"type":        "string",
						"description": "Optional patient folder name to merge into",
					},
				},
				"required": []string{"text"},
			},
		},

		// Images
		{
			Name:        "image_info",
			Description: "Get dimensions, format and size of an image and whether it is large enough for the preprocessing crop window.",
			InputSchema: pathSchema("Absolute path to the image file"),
		},
		{
			Name:        "preprocess_image",
			Description: "Crop, binarize and trim a card scan, writing processed_<name> beside it. Returns the output path.",
			InputSchema: pathSchema("Absolute path to the card scan"),
		},
		{
			Name:        "preview_crop",
			Description: "Draw the preprocessing crop window and a labelled coordinate grid over an image. Returns a base64 PNG for tuning the crop geometry.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"path": map[string]interface{}{
						"type":        "string",
						"description": "Absolute path to the image file",
					},
					"grid_spacing": map[string]interface{}{
						"type":        "integer",
						"description": "Grid spacing in pixels, 0 for no grid. Default 50",
						"default":     50,
					},
				},
				"required": []string{"path"},
			},
		},

		// OCR
		{
			Name:        "ocr_image",
			Description: "Run OCR on an image and return the text. Set preprocess to run the card preprocessing first.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"path": map[string]interface{}{
						"type":        "string",
						"description": "Absolute path to the image file",
					},
					"preprocess": map[string]interface{}{
						"type":        "boolean",
						"description": "Preprocess the image before OCR. Default false",
						"default":     false,
					},
				},
				"required": []string{"path"},
			},
		},
		{
			Name:        "ocr_info",
			Description: "Report the Tesseract version and OCR engine configuration.",
			InputSchema: map[string]interface{}{
				"type":       "object",
				"properties": map[string]interface{}{},
			},
		},

		// Batch
		{
			Name:        "scan_directory",
			Description: "Process every patient folder under a root directory and return the records, gaps and incomplete count.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"root": map[string]interface{}{
						"type":        "string",
						"description": "Absolute path of the directory holding one folder per patient",
					},
					"layout": map[string]interface{}{
						"type":        "string",
						"enum":        []string{"flat", "nested"},
						"description": "Folder layout. Default flat",
						"default":     "flat",
					},
					"mode": map[string]interface{}{
						"type":        "string",
						"enum":        []string{"fields", "raw"},
						"description": "Extraction mode. Default fields",
						"default":     "fields",
					},
					"limit": map[string]interface{}{
						"type":        "integer",
						"description": "Process at most this many folders (0 = all)",
						"default":     0,
					},
				},
				"required": []string{"root"},
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
