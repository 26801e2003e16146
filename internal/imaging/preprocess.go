package imaging

import (
	"fmt"
	"image"
	"image/color"
	"path/filepath"

	"github.com/anthonynsimon/bild/effect"
	"github.com/anthonynsimon/bild/segment"
	"github.com/disintegration/imaging"
)

// ProcessedPrefix is prepended to the source file name of every
// preprocessed image.
const ProcessedPrefix = "processed_"

// Options configures the preprocessing pipeline.
type Options struct {
	// CropWidth and CropHeight size the window cut from the image origin.
	CropWidth  int
	CropHeight int

	// Threshold is the luminance (0-255) at or above which a pixel turns
	// white; darker pixels turn black.
	Threshold uint8

	// Background is the colour the binarized crop is flattened onto, as
	// "#RRGGBB" or a colour name.
	Background string

	// TrimTolerance is the RGB distance (0-1) within which edge pixels count
	// as black border.
	TrimTolerance float64
}

// DefaultOptions returns the geometry and threshold tuned for the hospital's
// card scans.
func DefaultOptions() Options {
	return Options{
		CropWidth:     300,
		CropHeight:    200,
		Threshold:     170,
		Background:    "yellow",
		TrimTolerance: 0.1,
	}
}

// Preprocessor runs the fixed crop/binarize/trim pipeline.
type Preprocessor struct {
	opts       Options
	background color.NRGBA
}

// NewPreprocessor validates opts and returns a Preprocessor.
func NewPreprocessor(opts Options) (*Preprocessor, error) {
	if opts.CropWidth <= 0 || opts.CropHeight <= 0 {
		return nil, fmt.Errorf("crop window %dx%d must be positive", opts.CropWidth, opts.CropHeight)
	}
	if opts.TrimTolerance < 0 {
		return nil, fmt.Errorf("trim tolerance %v must not be negative", opts.TrimTolerance)
	}
	bg, err := ParseColor(opts.Background)
	if err != nil {
		return nil, err
	}
	return &Preprocessor{opts: opts, background: bg}, nil
}

// Options returns the options the Preprocessor was built with.
func (p *Preprocessor) Options() Options {
	return p.opts
}

// Apply runs the pipeline on an in-memory image.
//
// Returns ErrCropOutOfBounds when img is smaller than the crop window.
func (p *Preprocessor) Apply(img image.Image) (image.Image, error) {
	cropped, err := CropOrigin(img, p.opts.CropWidth, p.opts.CropHeight)
	if err != nil {
		return nil, err
	}

	gray := effect.Grayscale(cropped)
	sharp := effect.Sharpen(gray)
	bw := segment.Threshold(sharp, p.opts.Threshold)
	flat := Flatten(bw, p.background)

	return TrimBorders(flat, color.Black, p.opts.TrimTolerance), nil
}

// Process preprocesses dir/file and writes the result to
// dir/processed_<file>, overwriting any earlier output. It returns the path
// of the written file.
func (p *Preprocessor) Process(dir, file string) (string, error) {
	src := filepath.Join(dir, file)
	img, err := Open(src)
	if err != nil {
		return "", err
	}

	out, err := p.Apply(img)
	if err != nil {
		return "", fmt.Errorf("preprocess %s: %w", src, err)
	}

	dst := filepath.Join(dir, ProcessedPrefix+file)
	if err := imaging.Save(out, dst); err != nil {
		return "", fmt.Errorf("save %s: %w", dst, err)
	}
	return dst, nil
}

// Inspect loads metadata for path and reports whether it fits the crop
// window.
func (p *Preprocessor) Inspect(path string) (*ImageInfo, error) {
	info, err := LoadImageInfo(path)
	if err != nil {
		return nil, err
	}
	info.FitsCrop = info.Width >= p.opts.CropWidth && info.Height >= p.opts.CropHeight
	return info, nil
}
