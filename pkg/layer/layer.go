package layer

import (
	"image"
	"slices"
)

// Kind tags the variant of a [Layer].
type Kind string

const (
	KindText    Kind = "text"
	KindDrawing Kind = "drawing"
)

// DrawingName identifies the drawing layer in snapshots and warnings.
const DrawingName = "drawing"

// Layer is either a [TextLayer] or a [DrawingLayer].
type Layer interface {
	Kind() Kind
	ID() string
}

// TextLayer is a positioned, styled caption. All geometry is in native pixels.
type TextLayer struct {
	Name        string
	Placeholder string // Hint shown by host UIs while Text is empty; not rendered
	Text        string // Already case-folded when uppercase is active
	X, Y        int    // Top-left corner
	MaxWidth    int    // Wrap boundary
	FontSize    int
	LineHeight  float64 // Multiplier of FontSize
	FontFamily  string  // CSS-style family list, e.g. "Impact, Arial"
	Color       string
	BorderColor string
	BorderWidth int

	// Height is derived from the last layout pass (lines * LineHeight * FontSize)
	// and is informational only.
	Height int
}

// Kind returns KindText.
func (t TextLayer) Kind() Kind { return KindText }

// ID returns the layer name.
func (t TextLayer) ID() string { return t.Name }

// Bounds returns the native-pixel box of the layer, using the derived height.
func (t TextLayer) Bounds() image.Rectangle {
	return image.Rect(t.X, t.Y, t.X+t.MaxWidth, t.Y+t.Height)
}

// DrawingLayer is a snapshot of the freehand ink surface. It always spans the
// whole image at native resolution.
type DrawingLayer struct {
	Bitmap  *image.RGBA
	Version uint64 // Incremented on every ink change
}

// Kind returns KindDrawing.
func (d DrawingLayer) Kind() Kind { return KindDrawing }

// ID returns DrawingName.
func (d DrawingLayer) ID() string { return DrawingName }

// Snapshot is a read-only copy of the store taken for rendering or
// serialization. Mutating it never affects the store.
type Snapshot struct {
	Native           image.Point
	Text             []TextLayer   // Store order, bottom to top
	Drawing          *DrawingLayer // Nil when no drawing layer exists
	DrawingAboveText bool
}

// Layers returns every layer in final stacking order, bottom to top.
// The drawing layer comes first or last depending on DrawingAboveText.
func (s Snapshot) Layers() []Layer {
	out := make([]Layer, 0, len(s.Text)+1)
	if s.Drawing != nil && !s.DrawingAboveText {
		out = append(out, *s.Drawing)
	}
	for _, t := range s.Text {
		out = append(out, t)
	}
	if s.Drawing != nil && s.DrawingAboveText {
		out = append(out, *s.Drawing)
	}
	return out
}

// Names returns the text layer names in store order.
func (s Snapshot) Names() []string {
	names := make([]string, len(s.Text))
	for i, t := range s.Text {
		names[i] = t.Name
	}
	return names
}

// Find returns the text layer with the given name.
func (s Snapshot) Find(name string) (TextLayer, bool) {
	i := slices.IndexFunc(s.Text, func(t TextLayer) bool { return t.Name == name })
	if i < 0 {
		return TextLayer{}, false
	}
	return s.Text[i], true
}

// Style holds the defaults applied to new text layers.
type Style struct {
	FontFamily  string
	FontSize    int
	LineHeight  float64
	Color       string
	BorderColor string
	BorderWidth int
}

// DefaultStyle is the classic white caption with a thin black outline.
func DefaultStyle() Style {
	return Style{
		FontFamily:  "Impact, Arial",
		FontSize:    42,
		LineHeight:  1.2,
		Color:       "#FFFFFF",
		BorderColor: "#000000",
		BorderWidth: 2,
	}
}

// InkStyle holds the pen used by the drawing layer.
type InkStyle struct {
	Color     string
	LineWidth float64
}

// DefaultInkStyle is a 10px red pen.
func DefaultInkStyle() InkStyle {
	return InkStyle{Color: "#FF0000", LineWidth: 10}
}

// TextPatch is a partial update of a text layer. Nil fields are left unchanged.
type TextPatch struct {
	Placeholder *string
	Text        *string
	X, Y        *int
	MaxWidth    *int
	FontSize    *int
	LineHeight  *float64
	FontFamily  *string
	Color       *string
	BorderColor *string
	BorderWidth *int
}

// Ptr returns a pointer to v, for building patches.
func Ptr[T any](v T) *T { return &v }

// IsEmpty reports whether the patch changes nothing.
func (p TextPatch) IsEmpty() bool {
	return p == (TextPatch{})
}

// apply returns t with the patch applied. It does not validate.
func (p TextPatch) apply(t TextLayer) TextLayer {
	set := func(dst *string, src *string) {
		if src != nil {
			*dst = *src
		}
	}
	setInt := func(dst *int, src *int) {
		if src != nil {
			*dst = *src
		}
	}
	set(&t.Placeholder, p.Placeholder)
	set(&t.Text, p.Text)
	setInt(&t.X, p.X)
	setInt(&t.Y, p.Y)
	setInt(&t.MaxWidth, p.MaxWidth)
	setInt(&t.FontSize, p.FontSize)
	if p.LineHeight != nil {
		t.LineHeight = *p.LineHeight
	}
	set(&t.FontFamily, p.FontFamily)
	set(&t.Color, p.Color)
	set(&t.BorderColor, p.BorderColor)
	setInt(&t.BorderWidth, p.BorderWidth)
	return t
}

// PatchFrom returns a patch that sets every field of t except the name and
// derived height.
func PatchFrom(t TextLayer) TextPatch {
	return TextPatch{
		Placeholder: Ptr(t.Placeholder),
		Text:        Ptr(t.Text),
		X:           Ptr(t.X),
		Y:           Ptr(t.Y),
		MaxWidth:    Ptr(t.MaxWidth),
		FontSize:    Ptr(t.FontSize),
		LineHeight:  Ptr(t.LineHeight),
		FontFamily:  Ptr(t.FontFamily),
		Color:       Ptr(t.Color),
		BorderColor: Ptr(t.BorderColor),
		BorderWidth: Ptr(t.BorderWidth),
	}
}
