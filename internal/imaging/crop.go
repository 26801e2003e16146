package imaging

import (
	"errors"
	"fmt"
	"image"

	"github.com/disintegration/imaging"
)

// ErrCropOutOfBounds is returned when a crop window does not fit inside the
// source image.
var ErrCropOutOfBounds = errors.New("crop region outside image bounds")

// Crop extracts a rectangular region from an image.
//
// The region is given relative to the image origin (img.Bounds().Min), so
// image.Rect(0, 0, 300, 200) always means the top-left 300x200 pixels.
// Unlike imaging.Crop, which silently clamps, a region that does not fit
// entirely inside the image is an error.
func Crop(img image.Image, region image.Rectangle) (*image.NRGBA, error) {
	if region.Empty() {
		return nil, fmt.Errorf("invalid crop region %v: must have positive width and height", region)
	}

	bounds := img.Bounds()
	abs := region.Add(bounds.Min)
	if !abs.In(bounds) {
		return nil, fmt.Errorf("%w: region (%d,%d)-(%d,%d), image %dx%d",
			ErrCropOutOfBounds, region.Min.X, region.Min.Y, region.Max.X, region.Max.Y,
			bounds.Dx(), bounds.Dy())
	}

	return imaging.Crop(img, abs), nil
}

// CropOrigin crops a width x height window anchored at the image origin.
func CropOrigin(img image.Image, width, height int) (*image.NRGBA, error) {
	return Crop(img, image.Rect(0, 0, width, height))
}
