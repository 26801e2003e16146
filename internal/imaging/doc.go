// Package imaging prepares scanned ID-card images for OCR.
//
// The printed block on the cards sits in the top-left corner of every scan,
// so preprocessing is a fixed pipeline rather than an adaptive one:
//
//  1. Crop a fixed window anchored at the image origin (300x200 by default)
//  2. Convert to grayscale
//  3. Sharpen
//  4. Binarize at a fixed luminance threshold (170 by default), producing
//     pure black and white pixels
//  5. Flatten onto an opaque background colour (yellow by default)
//  6. Trim uniform black borders left by the scanner bed
//
// The result is written beside the source as "processed_<name>".
//
// Preview draws the crop window and a labelled grid over an unprocessed
// scan, for checking the window geometry against a new batch of cards.
//
// # Coordinate System
//
// Pixel coordinates are 0-based with the origin at the top-left corner.
// Regions use image.Rectangle semantics: Min is inclusive, Max is exclusive.
//
// # Error Handling
//
// Functions return errors for:
//   - Missing or undecodable image files
//   - Crop windows that do not fit inside the source (ErrCropOutOfBounds)
//   - Unparseable colour specifications
//   - Encoding errors while saving output
//
// # Thread Safety
//
// A Preprocessor holds only immutable options and may be shared by
// concurrent goroutines working on different files.
package imaging
