// Package composite merges rendered layers in their final stacking order.
//
// The base image is always at the bottom. Text layers keep their store order
// among themselves; the drawing layer moves as one unit either above the
// whole text band or directly above the base:
//
//	drawingAboveText = true:  base, text[0] ... text[n-1], drawing
//	drawingAboveText = false: base, drawing, text[0] ... text[n-1]
//
// [Flatten] applies this order to bitmaps on one accumulation canvas for
// export; [AssignZ] expresses the same order as z-indices for live previews.
package composite

import (
	"image"
	"image/color"

	"github.com/disintegration/imaging"

	"github.com/matzehuels/memegen/pkg/layer"
	"github.com/matzehuels/memegen/pkg/render"
)

// BaseZ is the z-index of the base image in previews.
const BaseZ = 0

// Slot identifies one element of the final stack.
type Slot struct {
	Kind  layer.Kind // Empty for the base image
	Index int        // Position in the text slice; -1 for base and drawing
}

// Base reports whether the slot is the base image.
func (s Slot) Base() bool { return s.Kind == "" }

// Order returns the stack bottom to top for n text layers.
func Order(n int, hasDrawing, drawingAboveText bool) []Slot {
	out := make([]Slot, 0, n+2)
	out = append(out, Slot{Index: -1})
	drawing := Slot{Kind: layer.KindDrawing, Index: -1}
	if hasDrawing && !drawingAboveText {
		out = append(out, drawing)
	}
	for i := range n {
		out = append(out, Slot{Kind: layer.KindText, Index: i})
	}
	if hasDrawing && drawingAboveText {
		out = append(out, drawing)
	}
	return out
}

// Composite draws base, text surfaces and the drawing surface onto a fresh
// canvas of base's size in stacking order. A nil base gives a transparent
// canvas of size; a nil drawing is skipped. Surfaces are drawn at the origin
// and should already match the canvas size.
func Composite(base image.Image, size image.Point, text []image.Image, drawing image.Image, drawingAboveText bool) *image.NRGBA {
	canvas := newCanvas(base, size)
	for _, slot := range Order(len(text), drawing != nil, drawingAboveText) {
		var src image.Image
		switch {
		case slot.Base():
			continue
		case slot.Kind == layer.KindDrawing:
			src = drawing
		default:
			src = text[slot.Index]
		}
		canvas = imaging.Overlay(canvas, src, image.Point{}, 1.0)
	}
	return canvas
}

// Flatten composites a raster pass over base. The base is resized to the
// output size first when they differ.
func Flatten(base image.Image, out *render.RasterOutput) *image.NRGBA {
	text := make([]image.Image, len(out.Text))
	for i, s := range out.Text {
		text[i] = s.Image
	}
	return Composite(base, out.Size, text, out.Drawing, out.DrawingAboveText)
}

// AssignZ sets z-indices on an overlay pass: text ascending in store order,
// the drawing strictly above or below the whole band, the base at [BaseZ].
func AssignZ(out *render.OverlayOutput) {
	z := BaseZ
	for _, slot := range Order(len(out.Nodes), out.Drawing != nil, out.DrawingAboveText) {
		switch {
		case slot.Base():
			continue
		case slot.Kind == layer.KindDrawing:
			z++
			out.Drawing.ZIndex = z
		default:
			z++
			out.Nodes[slot.Index].ZIndex = z
		}
	}
}

func newCanvas(base image.Image, size image.Point) *image.NRGBA {
	if base == nil {
		return imaging.New(size.X, size.Y, color.Transparent)
	}
	if base.Bounds().Size() != size {
		return imaging.Resize(base, size.X, size.Y, imaging.Lanczos)
	}
	return imaging.Clone(base)
}
