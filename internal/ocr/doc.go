// Package ocr recognizes text on preprocessed card images using Tesseract.
//
// This package wraps the Tesseract OCR engine (via gosseract/v2). An Engine
// owns a small pool of Tesseract clients for the duration of a run and must
// be closed when the run ends, whether it succeeded or not:
//
//	engine, err := ocr.Open(cfg)
//	if err != nil {
//		return err
//	}
//	defer engine.Close()
//
// # Prerequisites
//
// Tesseract and its language data must be installed on the system:
//   - Ubuntu/Debian: apt-get install tesseract-ocr tesseract-ocr-eng
//   - macOS: brew install tesseract
//
// Set Config.TessdataPrefix (or TESSDATA_PREFIX) when the traineddata files
// live outside the default location.
//
// # Concurrency
//
// A gosseract client is not safe for concurrent use. Engine hands each
// Recognize call an idle client from its pool and blocks until one is free,
// so callers may share a single Engine across goroutines. The pool size is
// Config.Clients.
//
// # Error Handling
//
// Recognize returns ErrEngineClosed after Close, the context error when the
// context ends while waiting for a client, and a wrapped gosseract error when
// Tesseract cannot load the image or language data.
package ocr
