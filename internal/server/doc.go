// Package server implements an MCP (Model Context Protocol) tool server for
// the ID-card scan pipeline.
//
// This package provides a JSON-RPC 2.0 server that exposes the same
// operations as the batch CLI, one step at a time, so a client can inspect
// why a particular card produced an incomplete record.
//
// # Protocol
//
// The server communicates over stdio using JSON-RPC 2.0:
//   - Input: JSON-RPC requests on stdin (one per line)
//   - Output: JSON-RPC responses on stdout
//
// Supported MCP methods:
//   - initialize: Protocol handshake
//   - tools/list: Enumerate available tools
//   - tools/call: Execute a tool with arguments
//   - ping: Health check
//
// # Available Tools
//
// Records:
//   - parse_folder: Parse "<first> <last> <mm-yyyy>" into a record
//   - extract_fields: Run the field heuristics over OCR text
//
// Images:
//   - image_info: Dimensions, format and crop fit
//   - preprocess_image: Crop, binarize and trim, writing processed_<name>
//
// OCR:
//   - ocr_image: Recognize text, optionally after preprocessing
//   - ocr_info: Tesseract version and engine configuration
//
// Batch:
//   - scan_directory: Run the full pipeline over a directory
//
// # Error Handling
//
// Tool execution errors are returned as JSON-RPC error responses with:
//   - code: -32000 (tool execution failure) or standard JSON-RPC codes
//   - message: Human-readable error description
//   - data: The Go error string
//
// # Usage
//
//	srv := server.New(server.Deps{Config: cfg, Preprocessor: pre, Engine: engine, Logger: logger})
//	if err := srv.Run(ctx, os.Stdin, os.Stdout); err != nil {
//	    return err
//	}
package server
