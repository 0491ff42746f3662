package layer

import (
	"image"
	"image/color"
	"image/draw"

	"github.com/fogleman/gg"

	"github.com/matzehuels/memegen/pkg/errors"
)

// dotSize is the side of the square painted on pointer down.
const dotSize = 2

// Ink is the freehand drawing surface. It is a native-resolution bitmap fed by
// pointer events whose coordinates are already in native pixels.
//
// A stroke session opens on [Ink.PointerDown] and closes on [Ink.PointerUp].
// Every [Ink.PointerMove] inside a session appends one segment immediately;
// nothing is buffered.
type Ink struct {
	img       *image.RGBA
	dc        *gg.Context
	color     color.Color
	colorHex  string
	lineWidth float64

	active     bool
	prevX      float64
	prevY      float64
	version    uint64
	strokeRuns int
}

func newInk(size image.Point, style InkStyle) *Ink {
	img := image.NewRGBA(image.Rect(0, 0, size.X, size.Y))
	k := &Ink{img: img, dc: gg.NewContextForRGBA(img), lineWidth: style.LineWidth}
	if err := k.SetColor(style.Color); err != nil {
		k.color, k.colorHex = color.RGBA{R: 0xff, A: 0xff}, "#FF0000"
	}
	if k.lineWidth <= 0 {
		k.lineWidth = DefaultInkStyle().LineWidth
	}
	k.dc.SetLineCapRound()
	k.dc.SetLineJoinRound()
	return k
}

func (k *Ink) resize(size image.Point) {
	if k.img.Rect.Size() == size {
		return
	}
	img := image.NewRGBA(image.Rect(0, 0, size.X, size.Y))
	draw.Draw(img, img.Rect, k.img, image.Point{}, draw.Src)
	k.img = img
	k.dc = gg.NewContextForRGBA(img)
	k.dc.SetLineCapRound()
	k.dc.SetLineJoinRound()
	k.active = false
	k.version++
}

// Color returns the pen color as a hex string.
func (k *Ink) Color() string { return k.colorHex }

// SetColor changes the pen color for subsequent strokes.
func (k *Ink) SetColor(hex string) error {
	c, err := errors.ParseColor(hex)
	if err != nil {
		return err
	}
	k.color, k.colorHex = c, hex
	return nil
}

// LineWidth returns the pen width in native pixels.
func (k *Ink) LineWidth() float64 { return k.lineWidth }

// SetLineWidth changes the pen width for subsequent strokes.
func (k *Ink) SetLineWidth(w float64) error {
	if err := errors.ValidatePositive("line width", w); err != nil {
		return err
	}
	k.lineWidth = w
	return nil
}

// Stroking reports whether a pointer session is open.
func (k *Ink) Stroking() bool { return k.active }

// PointerDown opens a stroke session and paints a dot at (x, y).
func (k *Ink) PointerDown(x, y float64) {
	k.active = true
	k.prevX, k.prevY = x, y
	k.dc.SetColor(k.color)
	k.dc.DrawRectangle(x, y, dotSize, dotSize)
	k.dc.Fill()
	k.strokeRuns++
	k.version++
}

// PointerMove draws a segment from the previous sample to (x, y) while a
// session is open. It reports whether anything was drawn.
func (k *Ink) PointerMove(x, y float64) bool {
	if !k.active {
		return false
	}
	k.dc.SetColor(k.color)
	k.dc.SetLineWidth(k.lineWidth)
	k.dc.DrawLine(k.prevX, k.prevY, x, y)
	k.dc.Stroke()
	k.prevX, k.prevY = x, y
	k.version++
	return true
}

// PointerUp closes the stroke session. Pointer-out events map here as well.
func (k *Ink) PointerUp() { k.active = false }

// Erase clears every pixel. The layer itself stays in place.
func (k *Ink) Erase() {
	k.dc.SetColor(color.Transparent)
	k.dc.Clear()
	k.active = false
	k.strokeRuns = 0
	k.version++
}

// Strokes returns the number of stroke sessions since the last erase.
func (k *Ink) Strokes() int { return k.strokeRuns }

// Version changes whenever the bitmap changes.
func (k *Ink) Version() uint64 { return k.version }

// Bounds returns the surface rectangle.
func (k *Ink) Bounds() image.Rectangle { return k.img.Bounds() }

// Snapshot returns a deep copy of the bitmap.
func (k *Ink) Snapshot() *image.RGBA {
	out := image.NewRGBA(k.img.Rect)
	copy(out.Pix, k.img.Pix)
	return out
}
