package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"path/filepath"

	"github.com/th-dev-git/QSnich-img-processing/internal/batch"
	"github.com/th-dev-git/QSnich-img-processing/internal/extract"
	"github.com/th-dev-git/QSnich-img-processing/internal/person"
)

// ToolCallParams represents the parameters for a tools/call MCP request.
type ToolCallParams struct {
	// Name is the tool to invoke (e.g., "parse_folder", "ocr_image").
	Name string `json:"name"`

	// Arguments contains the tool-specific parameters as JSON.
	Arguments json.RawMessage `json:"arguments"`
}

// errNoEngine is returned by OCR tools when the server runs without Tesseract.
var errNoEngine = errors.New("OCR engine not configured")

// handleToolsCall processes a tools/call request and executes the specified tool.
//
// The response wraps the tool result in MCP's content format:
//
//	{
//	  "content": [{"type": "text", "text": "<JSON result>"}]
//	}
//
// Tool execution errors return a JSON-RPC error response with code -32000.
func (s *Server) handleToolsCall(ctx context.Context, req *MCPRequest) *MCPResponse {
	var params ToolCallParams
	if err := json.Unmarshal(req.Params, &params); err != nil {
		return s.errorResponse(req.ID, -32602, "Invalid params", err.Error())
	}

	result, err := s.executeTool(ctx, params.Name, params.Arguments)
	if err != nil {
		s.log.Warn("tool failed", "tool", params.Name, "error", err)
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
func (s *Server) executeTool(ctx context.Context, name string, args json.RawMessage) (interface{}, error) {
	if len(args) == 0 {
		args = json.RawMessage("{}")
	}

	switch name {
	// Records
	case "parse_folder":
		return s.handleParseFolder(args)
	case "extract_fields":
		return s.handleExtractFields(args)

	// Images
	case "image_info":
		return s.handleImageInfo(args)
	case "preprocess_image":
		return s.handlePreprocessImage(args)
	case "preview_crop":
		return s.handlePreviewCrop(args)

	// OCR
	case "ocr_image":
		return s.handleOCRImage(ctx, args)
	case "ocr_info":
		return s.handleOCRInfo()

	// Batch
	case "scan_directory":
		return s.handleScanDirectory(ctx, args)

	default:
		return nil, fmt.Errorf("unknown tool: %s", name)
	}
}

// errorResponse creates a JSON-RPC error response with the given details.
func (s *Server) errorResponse(id interface{}, code int, message, data string) *MCPResponse {
	return &MCPResponse{
		JSONRPC: "2.0",
		ID:      id,
		Error: &MCPError{
			Code:    code,
			Message: message,
			Data:    data,
		},
	}
}

// mustMarshalJSON converts a value to pretty-printed JSON string.
// On marshal failure it returns an empty string.
func mustMarshalJSON(v interface{}) string {
	b, _ := json.MarshalIndent(v, "", "  ")
	return string(b)
}

// === Record Handlers ===

type parseFolderArgs struct {
	Name string `json:"name"`
}

func (s *Server) handleParseFolder(args json.RawMessage) (interface{}, error) {
	var a parseFolderArgs
	if err := json.Unmarshal(args, &a); err != nil {
		return nil, err
	}
	p, err := person.ParseFolder(a.Name)
	if err != nil {
		return nil, err
	}
	return p, nil
}

type extractFieldsArgs struct {
	Text   string `json:"text"`
	Folder string `json:"folder"`
}

type extractFieldsResult struct {
	Person   person.Person `json:"person"`
	Gender   string        `json:"gender_class"`
	Gaps     []person.Gap  `json:"gaps"`
	Missing  []string      `json:"missing"`
	Complete bool          `json:"complete"`
}

func (s *Server) handleExtractFields(args json.RawMessage) (interface{}, error) {
	var a extractFieldsArgs
	if err := json.Unmarshal(args, &a); err != nil {
		return nil, err
	}

	var p person.Person
	if a.Folder != "" {
		var err error
		if p, err = person.ParseFolder(a.Folder); err != nil {
			return nil, err
		}
	}

	gaps := s.extractor.Apply(&p, a.Text)
	return extractFieldsResult{
		Person:   p,
		Gender:   extract.ClassifyGender(extract.Lines(a.Text)).String(),
		Gaps:     gaps,
		Missing:  p.Missing(),
		Complete: p.Complete(),
	}, nil
}

// === Image Handlers ===

type pathArgs struct {
	Path string `json:"path"`
}

func (s *Server) handleImageInfo(args json.RawMessage) (interface{}, error) {
	var a pathArgs
	if err := json.Unmarshal(args, &a); err != nil {
		return nil, err
	}
	return s.pre.Inspect(a.Path)
}

func (s *Server) handlePreprocessImage(args json.RawMessage) (interface{}, error) {
	var a pathArgs
	if err := json.Unmarshal(args, &a); err != nil {
		return nil, err
	}
	out, err := s.pre.Process(filepath.Dir(a.Path), filepath.Base(a.Path))
	if err != nil {
		return nil, err
	}
	return map[string]string{"output": out}, nil
}

type previewCropArgs struct {
	Path        string `json:"path"`
	GridSpacing *int   `json:"grid_spacing"`
}

func (s *Server) handlePreviewCrop(args json.RawMessage) (interface{}, error) {
	var a previewCropArgs
	if err := json.Unmarshal(args, &a); err != nil {
		return nil, err
	}
	spacing := 50
	if a.GridSpacing != nil {
		spacing = *a.GridSpacing
	}
	return s.pre.PreviewFile(a.Path, spacing)
}

// === OCR Handlers ===

type ocrImageArgs struct {
	Path       string `json:"path"`
	Preprocess bool   `json:"preprocess"`
}

type ocrImageResult struct {
	Text  string   `json:"text"`
	Lines []string `json:"lines"`
	Image string   `json:"image"`
}

func (s *Server) handleOCRImage(ctx context.Context, args json.RawMessage) (interface{}, error) {
	var a ocrImageArgs
	if err := json.Unmarshal(args, &a); err != nil {
		return nil, err
	}
	if s.engine == nil {
		return nil, errNoEngine
	}

	path := a.Path
	if a.Preprocess {
		out, err := s.pre.Process(filepath.Dir(a.Path), filepath.Base(a.Path))
		if err != nil {
			return nil, err
		}
		path = out
	}

	text, err := s.engine.Recognize(ctx, path)
	if err != nil {
		return nil, err
	}
	return ocrImageResult{Text: text, Lines: extract.Lines(text), Image: path}, nil
}

func (s *Server) handleOCRInfo() (interface{}, error) {
	if s.engine == nil {
		return nil, errNoEngine
	}
	return s.engine.Info(), nil
}

// === Batch Handlers ===

type scanDirectoryArgs struct {
	Root   string `json:"root"`
	Layout string `json:"layout"`
	Mode   string `json:"mode"`
	Limit  int    `json:"limit"`
}

type scanDirectoryResult struct {
	*batch.Result
	Incomplete int `json:"incomplete"`
}

func (s *Server) handleScanDirectory(ctx context.Context, args json.RawMessage) (interface{}, error) {
	var a scanDirectoryArgs
	if err := json.Unmarshal(args, &a); err != nil {
		return nil, err
	}
	if s.engine == nil {
		return nil, errNoEngine
	}

	cfg := s.cfg
	cfg.Root = a.Root
	cfg.Limit = a.Limit
	if a.Layout != "" {
		cfg.Layout = a.Layout
	}
	if a.Mode != "" {
		cfg.Mode = a.Mode
	}
	cfg.Serve = false
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	runner := batch.New(batch.OptionsFrom(cfg), s.pre, s.engine, s.extractor, s.log)
	res, err := runner.Run(ctx)
	if err != nil {
		return nil, err
	}
	return scanDirectoryResult{Result: res, Incomplete: len(res.Incomplete())}, nil
}
