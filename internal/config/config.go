// Package config holds the run configuration shared by the CLI and the tool
// server.
package config

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/alexflint/go-arg"

	"github.com/th-dev-git/QSnich-img-processing/internal/extract"
	"github.com/th-dev-git/QSnich-img-processing/internal/imaging"
	"github.com/th-dev-git/QSnich-img-processing/internal/logging"
	"github.com/th-dev-git/QSnich-img-processing/internal/ocr"
)

// Folder layouts.
const (
	// LayoutFlat holds the card images directly in each person folder.
	LayoutFlat = "flat"
	// LayoutNested holds one "<prefix><mm-yyyy>" scan directory per film
	// inside each person folder.
	LayoutNested = "nested"
)

// Extraction modes.
const (
	// ModeFields extracts HN, gender and dates into Person records.
	ModeFields = "fields"
	// ModeRaw keeps the unprocessed OCR text per person.
	ModeRaw = "raw"
)

// RawFileName is the default name of the raw OCR dump.
const RawFileName = "raw_user.json"

// ErrInvalid is wrapped by every validation failure.
var ErrInvalid = errors.New("invalid configuration")

// Config is populated by go-arg from flags and environment variables.
type Config struct {
	Root   string `arg:"positional" help:"directory with one folder per person"`
	Layout string `arg:"--layout" default:"flat" help:"folder layout: flat or nested"`
	Mode   string `arg:"--mode" default:"fields" help:"extraction mode: fields or raw"`
	Limit  int    `arg:"--limit" help:"process at most N person folders (0 = all)"`

	Workers int    `arg:"-w,--workers" default:"1" help:"concurrent preprocessing workers"`
	OutDir  string `arg:"-o,--out-dir" default:"." help:"directory for the spreadsheet and raw dump"`
	XLSX    string `arg:"--xlsx" placeholder:"PREFIX" help:"write <timestamp>-PREFIX.xlsx"`
	RawOut  string `arg:"--raw-out" help:"raw dump path in raw mode (default <out-dir>/raw_user.json)"`
	NoTable bool   `arg:"--no-table" help:"do not print the result table"`

	Lang       string `arg:"--lang" default:"eng" help:"Tesseract language, e.g. eng or eng+tha"`
	Tessdata   string `arg:"--tessdata,env:TESSDATA_PREFIX" help:"Tesseract traineddata directory"`
	PSM        int    `arg:"--psm" help:"Tesseract page segmentation mode (0 = default)"`
	OCRClients int    `arg:"--ocr-clients" default:"1" help:"Tesseract clients shared by the workers"`

	CropWidth  int    `arg:"--crop-width" default:"300" help:"crop window width in pixels"`
	CropHeight int    `arg:"--crop-height" default:"200" help:"crop window height in pixels"`
	Threshold  int    `arg:"--threshold" default:"170" help:"binarization threshold (0-255)"`
	Background string `arg:"--background" default:"yellow" help:"flatten background colour (#RRGGBB or name)"`

	MaleLabel   string `arg:"--male-label" default:"ชาย" help:"gender value written for male cards"`
	FemaleLabel string `arg:"--female-label" default:"หญิง" help:"gender value written for female cards"`

	LogLevel string `arg:"--log-level,env:IDSCAN_LOG_LEVEL" default:"info" help:"debug, info, warn or error"`
	Serve    bool   `arg:"--serve" help:"run the JSON-RPC tool server on stdin/stdout"`
}

// Default returns the configuration produced by an empty command line,
// ignoring the environment.
func Default() Config {
	var c Config
	p, err := arg.NewParser(arg.Config{IgnoreEnv: true}, &c)
	if err != nil {
		panic(fmt.Sprintf("config: bad struct tags: %v", err))
	}
	if err := p.Parse(nil); err != nil {
		panic(fmt.Sprintf("config: parse defaults: %v", err))
	}
	return c
}

// Validate reports every invalid field at once. The returned error wraps
// ErrInvalid.
func (c Config) Validate() error {
	var errs []error
	add := func(format string, args ...any) {
		errs = append(errs, fmt.Errorf("%w: "+format, append([]any{ErrInvalid}, args...)...))
	}

	if !c.Serve && strings.TrimSpace(c.Root) == "" {
		add("root directory is required")
	}
	if c.Layout != LayoutFlat && c.Layout != LayoutNested {
		add("layout %q (want %s or %s)", c.Layout, LayoutFlat, LayoutNested)
	}
	if c.Mode != ModeFields && c.Mode != ModeRaw {
		add("mode %q (want %s or %s)", c.Mode, ModeFields, ModeRaw)
	}
	if c.Limit < 0 {
		add("limit %d must not be negative", c.Limit)
	}
	if c.Workers < 1 {
		add("workers %d must be at least 1", c.Workers)
	}
	if c.OCRClients < 1 {
		add("ocr-clients %d must be at least 1", c.OCRClients)
	}
	if len(c.OCR().Languages()) == 0 {
		add("language must not be empty")
	}
	if c.CropWidth <= 0 || c.CropHeight <= 0 {
		add("crop window %dx%d must be positive", c.CropWidth, c.CropHeight)
	}
	if c.Threshold < 0 || c.Threshold > 255 {
		add("threshold %d outside 0-255", c.Threshold)
	}
	if _, err := imaging.ParseColor(c.Background); err != nil {
		add("background: %v", err)
	}
	if strings.TrimSpace(c.MaleLabel) == "" || strings.TrimSpace(c.FemaleLabel) == "" {
		add("gender labels must not be empty")
	}
	if _, err := logging.ParseLevel(c.LogLevel); err != nil {
		add("%v", err)
	}
	return errors.Join(errs...)
}

// Preprocess returns the image preprocessing options.
func (c Config) Preprocess() imaging.Options {
	opts := imaging.DefaultOptions()
	opts.CropWidth = c.CropWidth
	opts.CropHeight = c.CropHeight
	opts.Threshold = uint8(c.Threshold)
	opts.Background = c.Background
	return opts
}

// OCR returns the Tesseract engine configuration.
func (c Config) OCR() ocr.Config {
	return ocr.Config{
		Language:       c.Lang,
		TessdataPrefix: c.Tessdata,
		PageSegMode:    c.PSM,
		Clients:        c.OCRClients,
	}
}

// Labels returns the gender labels written into records.
func (c Config) Labels() extract.Labels {
	return extract.Labels{Male: c.MaleLabel, Female: c.FemaleLabel}
}

// RawPath returns where the raw OCR dump is written.
func (c Config) RawPath() string {
	if c.RawOut != "" {
		return c.RawOut
	}
	return filepath.Join(c.OutDir, RawFileName)
}
