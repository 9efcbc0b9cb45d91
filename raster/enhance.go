package raster

import (
	"image"

	"github.com/disintegration/imaging"
)

// EnhanceOptions controls the page enhancement pipeline.
type EnhanceOptions struct {
	// MaxDimension caps the longer image side in pixels; 0 disables
	// resizing. A 300 DPI letter page is ~3300px tall, well above what
	// vision models resolve, so capping saves payload size.
	MaxDimension int

	// Grayscale drops color information. Scanned text is mostly
	// monochrome; grayscale improves contrast handling.
	Grayscale bool

	// Sharpen is the sharpening sigma; 0 disables.
	Sharpen float64

	// Contrast is the contrast adjustment percentage; 0 disables.
	Contrast float64
}

// DefaultEnhanceOptions returns the standard pipeline for scanned text.
func DefaultEnhanceOptions() EnhanceOptions {
	return EnhanceOptions{
		MaxDimension: 2500,
		Grayscale:    true,
		Sharpen:      2.5,
		Contrast:     30,
	}
}

// Enhance runs a rendered page through the enhancement pipeline to improve
// transcription accuracy on low-quality scans. Pure: the input image is
// never modified.
func Enhance(img image.Image, opts EnhanceOptions) image.Image {
	out := imaging.Clone(img)

	if opts.MaxDimension > 0 {
		bounds := out.Bounds()
		width, height := bounds.Dx(), bounds.Dy()
		if width > opts.MaxDimension || height > opts.MaxDimension {
			if width > height {
				out = imaging.Resize(out, opts.MaxDimension, 0, imaging.Lanczos)
			} else {
				out = imaging.Resize(out, 0, opts.MaxDimension, imaging.Lanczos)
			}
		}
	}

	if opts.Grayscale {
		out = imaging.Grayscale(out)
	}
	if opts.Sharpen > 0 {
		out = imaging.Sharpen(out, opts.Sharpen)
	}
	if opts.Contrast != 0 {
		out = imaging.AdjustContrast(out, opts.Contrast)
	}
	return out
}
