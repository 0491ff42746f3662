package editor

import (
	"github.com/matzehuels/memegen/pkg/errors"
	"github.com/matzehuels/memegen/pkg/layer"
)

// Point is a pointer position in native image pixels.
type Point struct {
	X, Y float64
}

// EnableDrawing creates the drawing layer on first use, applies the pen and
// starts accepting pointer events.
func (e *Editor) EnableDrawing() error {
	ink := e.store.AddOrGetDrawingLayer()
	if err := ink.SetColor(e.pen.Color); err != nil {
		return err
	}
	if err := ink.SetLineWidth(e.pen.LineWidth); err != nil {
		return err
	}
	e.drawing = true
	return nil
}

// DisableDrawing stops accepting pointer events and closes any open stroke.
// The ink stays visible.
func (e *Editor) DisableDrawing() {
	e.drawing = false
	if ink, ok := e.store.Drawing(); ok {
		ink.PointerUp()
	}
}

// DrawingEnabled reports whether pointer events are accepted.
func (e *Editor) DrawingEnabled() bool { return e.drawing }

// EraseDrawing clears the ink. It works whether or not drawing is enabled.
func (e *Editor) EraseDrawing() { e.store.EraseDrawing() }

// SetInkColor sets the pen color for subsequent strokes.
func (e *Editor) SetInkColor(hex string) error {
	if ink, ok := e.store.Drawing(); ok {
		if err := ink.SetColor(hex); err != nil {
			return err
		}
	} else if err := errors.ValidateColor(hex); err != nil {
		return err
	}
	e.pen.Color = hex
	return nil
}

// SetInkWidth sets the pen width for subsequent strokes.
func (e *Editor) SetInkWidth(w float64) error {
	if ink, ok := e.store.Drawing(); ok {
		if err := ink.SetLineWidth(w); err != nil {
			return err
		}
	} else if err := errors.ValidatePositive("line width", w); err != nil {
		return err
	}
	e.pen.LineWidth = w
	return nil
}

// Pen returns the current ink style.
func (e *Editor) Pen() layer.InkStyle { return e.pen }

// PointerDown opens a stroke at p. It reports false when drawing is disabled.
func (e *Editor) PointerDown(p Point) bool {
	ink, ok := e.ink()
	if !ok {
		return false
	}
	ink.PointerDown(p.X, p.Y)
	return true
}

// PointerMove extends the open stroke to p. It reports whether ink was drawn.
func (e *Editor) PointerMove(p Point) bool {
	ink, ok := e.ink()
	if !ok {
		return false
	}
	return ink.PointerMove(p.X, p.Y)
}

// PointerUp closes the open stroke. Pointer-out is handled the same way.
func (e *Editor) PointerUp() {
	if ink, ok := e.ink(); ok {
		ink.PointerUp()
	}
}

// Stroke replays a whole pointer session through pts. It reports false when
// drawing is disabled or pts is empty.
func (e *Editor) Stroke(pts []Point) bool {
	if len(pts) == 0 || !e.PointerDown(pts[0]) {
		return false
	}
	for _, p := range pts[1:] {
		e.PointerMove(p)
	}
	e.PointerUp()
	return true
}

func (e *Editor) ink() (*layer.Ink, bool) {
	if !e.drawing {
		return nil, false
	}
	return e.store.Drawing()
}
