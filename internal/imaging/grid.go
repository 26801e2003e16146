package imaging

import (
	"bytes"
	"encoding/base64"
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"image/png"

	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"
)

// PreviewResult is a PNG of the source image with the crop window and a
// coordinate grid drawn over it.
type PreviewResult struct {
	Width       int    `json:"width"`
	Height      int    `json:"height"`
	CropWidth   int    `json:"crop_width"`
	CropHeight  int    `json:"crop_height"`
	FitsCrop    bool   `json:"fits_crop"`
	GridSpacing int    `json:"grid_spacing"`
	MimeType    string `json:"mime_type"`
	ImageBase64 string `json:"image_base64"`
}

var (
	gridColor  = color.RGBA{0, 160, 255, 255}
	labelFg    = color.RGBA{255, 255, 255, 255}
	labelBg    = color.RGBA{0, 0, 0, 255}
	windowEdge = 2
)

// Preview draws the preprocessor's crop window in the configured background
// colour over img, plus a labelled grid every spacing pixels. A spacing of
// zero or less disables the grid.
func (p *Preprocessor) Preview(img image.Image, spacing int) (*PreviewResult, error) {
	bounds := img.Bounds()
	canvas := image.NewRGBA(image.Rect(0, 0, bounds.Dx(), bounds.Dy()))
	draw.Draw(canvas, canvas.Bounds(), img, bounds.Min, draw.Src)

	if spacing > 0 {
		drawGrid(canvas, spacing)
	}

	window := image.Rect(0, 0, p.opts.CropWidth, p.opts.CropHeight).Intersect(canvas.Bounds())
	drawOutline(canvas, window, p.background, windowEdge)

	var buf bytes.Buffer
	if err := png.Encode(&buf, canvas); err != nil {
		return nil, fmt.Errorf("encode preview: %w", err)
	}

	return &PreviewResult{
		Width:       bounds.Dx(),
		Height:      bounds.Dy(),
		CropWidth:   p.opts.CropWidth,
		CropHeight:  p.opts.CropHeight,
		FitsCrop:    bounds.Dx() >= p.opts.CropWidth && bounds.Dy() >= p.opts.CropHeight,
		GridSpacing: max(spacing, 0),
		MimeType:    "image/png",
		ImageBase64: base64.StdEncoding.EncodeToString(buf.Bytes()),
	}, nil
}

// PreviewFile opens path and calls Preview on it.
func (p *Preprocessor) PreviewFile(path string, spacing int) (*PreviewResult, error) {
	img, err := Open(path)
	if err != nil {
		return nil, err
	}
	return p.Preview(img, spacing)
}

func drawGrid(img *image.RGBA, spacing int) {
	b := img.Bounds()
	for x := spacing; x < b.Max.X; x += spacing {
		draw.Draw(img, image.Rect(x, 0, x+1, b.Max.Y), image.NewUniform(gridColor), image.Point{}, draw.Src)
	}
	for y := spacing; y < b.Max.Y; y += spacing {
		draw.Draw(img, image.Rect(0, y, b.Max.X, y+1), image.NewUniform(gridColor), image.Point{}, draw.Src)
	}

	for y := spacing; y < b.Max.Y; y += spacing {
		for x := spacing; x < b.Max.X; x += spacing {
			drawLabel(img, x+2, y+2, fmt.Sprintf("%d,%d", x, y))
		}
	}
}

// drawOutline strokes the inside of r with a border of the given width.
func drawOutline(img *image.RGBA, r image.Rectangle, c color.Color, width int) {
	if r.Empty() {
		return
	}
	src := image.NewUniform(c)
	edges := []image.Rectangle{
		image.Rect(r.Min.X, r.Min.Y, r.Max.X, r.Min.Y+width),
		image.Rect(r.Min.X, r.Max.Y-width, r.Max.X, r.Max.Y),
		image.Rect(r.Min.X, r.Min.Y, r.Min.X+width, r.Max.Y),
		image.Rect(r.Max.X-width, r.Min.Y, r.Max.X, r.Max.Y),
	}
	for _, e := range edges {
		draw.Draw(img, e.Intersect(r), src, image.Point{}, draw.Src)
	}
}

// drawLabel writes text with its top-left corner at (x, y) on an opaque box.
func drawLabel(img *image.RGBA, x, y int, text string) {
	face := basicfont.Face7x13
	d := &font.Drawer{Dst: img, Src: image.NewUniform(labelFg), Face: face}
	w := d.MeasureString(text).Ceil()
	h := face.Metrics().Height.Ceil()

	box := image.Rect(x-1, y-1, x+w+1, y+h).Intersect(img.Bounds())
	draw.Draw(img, box, image.NewUniform(labelBg), image.Point{}, draw.Src)

	d.Dot = fixed.P(x, y+face.Metrics().Ascent.Ceil())
	d.DrawString(text)
}
