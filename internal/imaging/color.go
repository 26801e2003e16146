package imaging

import (
	"fmt"
	"image"
	"image/color"
	"strings"

	"github.com/disintegration/imaging"
	"github.com/lucasb-eyer/go-colorful"
)

// namedColors are the colour names accepted in addition to hex notation.
var namedColors = map[string]string{
	"black":  "#000000",
	"white":  "#FFFFFF",
	"yellow": "#FFFF00",
	"red":    "#FF0000",
	"green":  "#00FF00",
	"blue":   "#0000FF",
}

// ParseColor parses "#RRGGBB" or one of a few colour names into an opaque
// colour.
func ParseColor(s string) (color.NRGBA, error) {
	v := strings.TrimSpace(strings.ToLower(s))
	if hex, ok := namedColors[v]; ok {
		v = hex
	}

	c, err := colorful.Hex(v)
	if err != nil {
		return color.NRGBA{}, fmt.Errorf("parse colour %q: %w", s, err)
	}
	r, g, b := c.RGB255()
	return color.NRGBA{R: r, G: g, B: b, A: 255}, nil
}

// Flatten composites img over an opaque background of colour bg, removing
// any transparency.
func Flatten(img image.Image, bg color.Color) *image.NRGBA {
	bounds := img.Bounds()
	canvas := imaging.New(bounds.Dx(), bounds.Dy(), bg)
	return imaging.Overlay(canvas, img, image.Pt(0, 0), 1.0)
}

// TrimBorders removes uniform borders of colour border from every edge of
// img and returns the remaining content box.
//
// A pixel belongs to the border when its RGB distance to border, as computed
// by go-colorful on a 0..1 scale, is at most tolerance. If every pixel matches
// the border colour the image is returned unchanged.
func TrimBorders(img image.Image, border color.Color, tolerance float64) *image.NRGBA {
	ref, _ := colorful.MakeColor(border)
	bounds := img.Bounds()

	content := image.Rectangle{}
	found := false
	for y := bounds.Min.Y; y < bounds.Max.Y; y++ {
		for x := bounds.Min.X; x < bounds.Max.X; x++ {
			c, ok := colorful.MakeColor(img.At(x, y))
			if !ok || c.DistanceRgb(ref) <= tolerance {
				continue
			}
			px := image.Rect(x, y, x+1, y+1)
			if !found {
				content = px
				found = true
			} else {
				content = content.Union(px)
			}
		}
	}

	if !found {
		return imaging.Clone(img)
	}
	return imaging.Crop(img, content)
}
