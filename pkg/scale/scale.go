// Package scale maps between native image-pixel coordinates and display coordinates.
//
// All stored layer geometry lives in the native space of the base image. The
// display space is the zoomed, on-screen rendition of that image; its only
// relation to native space is a single multiplier:
//
//	scale   = displayedWidth / nativeWidth
//	display = native * scale
//	native  = display / scale
//
// A [Transform] is a value. It must be rebuilt whenever the displayed size
// changes (viewport resize, image reload) rather than cached across such events.
package scale

import (
	"image"
	"math"

	"github.com/matzehuels/memegen/pkg/errors"
)

// Transform converts coordinates between native and display space.
type Transform struct {
	native image.Point
	scale  float64
}

// New builds a transform from the native image size and the currently displayed width.
//
// It fails with IMAGE_NOT_LOADED when the native width is zero (image metadata
// not yet known) and with INVALID_GEOMETRY for a non-positive displayed width.
func New(nativeWidth, nativeHeight int, displayedWidth float64) (Transform, error) {
	if nativeWidth <= 0 || nativeHeight <= 0 {
		return Transform{}, errors.New(errors.ErrCodeImageNotLoaded,
			"native image size %dx%d is not known", nativeWidth, nativeHeight)
	}
	if err := errors.ValidatePositive("displayed width", displayedWidth); err != nil {
		return Transform{}, err
	}
	return Transform{
		native: image.Pt(nativeWidth, nativeHeight),
		scale:  displayedWidth / float64(nativeWidth),
	}, nil
}

// Identity returns the scale 1.0 transform used for full-resolution export.
func Identity(nativeWidth, nativeHeight int) (Transform, error) {
	return New(nativeWidth, nativeHeight, float64(nativeWidth))
}

// Scale returns the display multiplier. It is zero for the zero Transform.
func (t Transform) Scale() float64 { return t.scale }

// Valid reports whether the transform was built from loaded image metadata.
func (t Transform) Valid() bool { return t.scale > 0 }

// Native returns the native image size.
func (t Transform) Native() image.Point { return t.native }

// ToDisplay converts a native length or coordinate to display space.
func (t Transform) ToDisplay(v float64) float64 { return v * t.scale }

// ToNative converts a display length or coordinate to native space.
// The zero Transform maps everything to zero.
func (t Transform) ToNative(v float64) float64 {
	if t.scale == 0 {
		return 0
	}
	return v / t.scale
}

// ToNativeInt converts a display value to the nearest native integer pixel.
func (t Transform) ToNativeInt(v float64) int {
	return int(math.Round(t.ToNative(v)))
}

// DisplaySize returns the size in display pixels of a surface spanning the whole image.
// Each dimension is at least one pixel.
func (t Transform) DisplaySize() image.Point {
	return SizeAt(t.native, t.scale)
}

// SizeAt scales a native size by s, rounding to whole pixels and never
// collapsing a dimension below one pixel.
func SizeAt(native image.Point, s float64) image.Point {
	w := int(math.Round(float64(native.X) * s))
	h := int(math.Round(float64(native.Y) * s))
	return image.Pt(max(1, w), max(1, h))
}
