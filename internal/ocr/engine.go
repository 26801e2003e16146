package ocr

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/otiai10/gosseract/v2"
)

// DefaultLanguage is the Tesseract language the card scans are read with.
const DefaultLanguage = "eng"

// ErrEngineClosed is returned by Recognize after the Engine has been closed.
var ErrEngineClosed = errors.New("ocr engine closed")

// Recognizer turns an image file into text.
type Recognizer interface {
	Recognize(ctx context.Context, path string) (string, error)
}

// Config selects the Tesseract language data and page layout analysis.
type Config struct {
	// Language is a Tesseract language code, or several joined with "+"
	// (e.g. "eng+tha").
	Language string

	// TessdataPrefix is the directory holding the traineddata files. Empty
	// uses the Tesseract default.
	TessdataPrefix string

	// PageSegMode is a Tesseract page segmentation mode. Zero keeps the
	// Tesseract default (PSM_SINGLE_BLOCK in gosseract).
	PageSegMode int

	// Clients is the number of Tesseract clients in the pool. Values below 1
	// are treated as 1.
	Clients int
}

// DefaultConfig returns a single-client English configuration.
func DefaultConfig() Config {
	return Config{Language: DefaultLanguage, Clients: 1}
}

// Languages splits Language into its "+"-joined parts.
func (c Config) Languages() []string {
	var langs []string
	for _, l := range strings.Split(c.Language, "+") {
		if l = strings.TrimSpace(l); l != "" {
			langs = append(langs, l)
		}
	}
	return langs
}

// Engine is a pool of configured Tesseract clients.
type Engine struct {
	cfg     Config
	clients chan *gosseract.Client

	mu     sync.RWMutex
	closed bool
}

// Open creates an Engine. The caller must call Close to release the
// underlying Tesseract handles.
func Open(cfg Config) (*Engine, error) {
	langs := cfg.Languages()
	if len(langs) == 0 {
		return nil, errors.New("ocr: language must not be empty")
	}
	if cfg.PageSegMode < 0 || cfg.PageSegMode > int(gosseract.PSM_RAW_LINE) {
		return nil, fmt.Errorf("ocr: page segmentation mode %d out of range", cfg.PageSegMode)
	}
	if cfg.Clients < 1 {
		cfg.Clients = 1
	}

	e := &Engine{
		cfg:     cfg,
		clients: make(chan *gosseract.Client, cfg.Clients),
	}
	for i := 0; i < cfg.Clients; i++ {
		client, err := newClient(cfg, langs)
		if err != nil {
			e.Close()
			return nil, err
		}
		e.clients <- client
	}
	return e, nil
}

func newClient(cfg Config, langs []string) (*gosseract.Client, error) {
	client := gosseract.NewClient()
	if cfg.TessdataPrefix != "" {
		if err := client.SetTessdataPrefix(cfg.TessdataPrefix); err != nil {
			client.Close()
			return nil, fmt.Errorf("failed to set tessdata path: %w", err)
		}
	}
	if err := client.SetLanguage(langs...); err != nil {
		client.Close()
		return nil, fmt.Errorf("failed to set language: %w", err)
	}
	if cfg.PageSegMode != 0 {
		if err := client.SetPageSegMode(gosseract.PageSegMode(cfg.PageSegMode)); err != nil {
			client.Close()
			return nil, fmt.Errorf("failed to set page segmentation mode: %w", err)
		}
	}
	return client, nil
}

// Config returns the configuration the Engine was opened with.
func (e *Engine) Config() Config {
	return e.cfg
}

// Recognize runs OCR on the image at path and returns the recognized text.
func (e *Engine) Recognize(ctx context.Context, path string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	var client *gosseract.Client
	select {
	case <-ctx.Done():
		return "", ctx.Err()
	case c, ok := <-e.clients:
		if !ok {
			return "", ErrEngineClosed
		}
		client = c
	}
	defer e.release(client)

	if err := client.SetImage(path); err != nil {
		return "", fmt.Errorf("failed to set image %s: %w", path, err)
	}
	text, err := client.Text()
	if err != nil {
		return "", fmt.Errorf("OCR failed for %s: %w", path, err)
	}
	return text, nil
}

func (e *Engine) release(client *gosseract.Client) {
	e.mu.RLock()
	defer e.mu.RUnlock()
	if e.closed {
		client.Close()
		return
	}
	e.clients <- client
}

// Close releases every Tesseract client. Clients currently in use are
// released when their Recognize call returns. Close is idempotent.
func (e *Engine) Close() error {
	e.mu.Lock()
	if e.closed {
		e.mu.Unlock()
		return nil
	}
	e.closed = true
	close(e.clients)
	e.mu.Unlock()

	var errs []error
	for c := range e.clients {
		if err := c.Close(); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// Info describes the OCR subsystem.
type Info struct {
	Available      bool   `json:"available"`
	Version        string `json:"version,omitempty"`
	Error          string `json:"error,omitempty"`
	Backend        string `json:"backend"`
	Language       string `json:"language"`
	TessdataPrefix string `json:"tessdata_prefix,omitempty"`
	Clients        int    `json:"clients"`
}

// Info reports the Tesseract version and engine configuration.
func (e *Engine) Info() Info {
	info := Info{
		Backend:        "gosseract",
		Language:       e.cfg.Language,
		TessdataPrefix: e.cfg.TessdataPrefix,
		Clients:        e.cfg.Clients,
	}

	version := gosseract.Version()
	if version == "" {
		info.Error = "tesseract version unavailable"
		return info
	}
	info.Available = true
	info.Version = version
	return info
}
