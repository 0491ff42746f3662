package editor

import (
	"image"
	"strings"

	"github.com/matzehuels/memegen/pkg/errors"
	"github.com/matzehuels/memegen/pkg/layer"
)

// Position places a new text layer, either by preset or by explicit rectangle.
type Position struct {
	preset string
	rect   image.Rectangle
	isRect bool
}

// At places a layer by a "<vertical> <horizontal>" preset such as
// "top center" or "bottom right". Vertical words are top, center and bottom;
// horizontal words are left, center and right. Unknown words mean top or
// left, and anything but two words places the layer at the origin.
func At(preset string) Position { return Position{preset: preset} }

// InRect places a layer at r.Min with r's width as wrap boundary. The height
// is derived from the text and ignored here. An empty width keeps the default.
func InRect(r image.Rectangle) Position { return Position{rect: r, isRect: true} }

// CreateTextLayer adds a text layer and returns its name. Overrides are
// applied on top of the style defaults; a preset position wins over override
// coordinates.
func (e *Editor) CreateTextLayer(placeholder string, pos Position, overrides layer.TextPatch) (string, error) {
	p := overrides
	p.Placeholder = &placeholder
	e.opts.Limits.clamp(&p)

	native := e.store.Native()
	switch {
	case pos.isRect:
		p.X, p.Y = layer.Ptr(pos.rect.Min.X), layer.Ptr(pos.rect.Min.Y)
		if w := pos.rect.Dx(); w > 0 {
			p.MaxWidth = &w
		}
	default:
		w, h := e.boxSize(p)
		x, y := presetOrigin(pos.preset, native, w, h)
		p.X, p.Y = &x, &y
	}

	name, err := e.store.AddTextLayer(p)
	if err != nil {
		return "", err
	}
	e.logger.Debug("created text layer", "layer", name)
	return name, nil
}

// UpdateTextLayer merges patch into the named layer, clamping font size and
// border width to the configured limits. Either every field applies or none.
func (e *Editor) UpdateTextLayer(name string, patch layer.TextPatch) error {
	e.opts.Limits.clamp(&patch)
	return e.store.UpdateTextLayer(name, patch)
}

// RemoveTextLayer deletes the named text layer.
func (e *Editor) RemoveTextLayer(name string) error {
	if err := e.store.RemoveTextLayer(name); err != nil {
		return err
	}
	e.logger.Debug("removed text layer", "layer", name)
	return nil
}

// MoveTextLayer moves the named layer to a display-space position, as
// reported by a drag handle.
func (e *Editor) MoveTextLayer(name string, x, y float64) error {
	if !e.opts.DragResize {
		return errors.New(errors.ErrCodeUnsupported, "drag and resize are disabled")
	}
	t := e.Transform()
	nx, ny := t.ToNativeInt(x), t.ToNativeInt(y)
	return e.store.UpdateTextLayer(name, layer.TextPatch{X: &nx, Y: &ny})
}

// ResizeTextLayer sets the wrap width of the named layer from a display-space
// width.
func (e *Editor) ResizeTextLayer(name string, width float64) error {
	if !e.opts.DragResize {
		return errors.New(errors.ErrCodeUnsupported, "drag and resize are disabled")
	}
	w := e.Transform().ToNativeInt(width)
	if w <= 0 {
		return errors.New(errors.ErrCodeInvalidGeometry, "width must be positive, got %v", width)
	}
	return e.store.UpdateTextLayer(name, layer.TextPatch{MaxWidth: &w})
}

// SetCaptions fills the text layers in order with captions. Captions beyond
// the existing layers get new layers centered on the image.
func (e *Editor) SetCaptions(captions []string) error {
	names := e.store.ListLayers().Names()
	for i, c := range captions {
		if i < len(names) {
			if err := e.store.UpdateTextLayer(names[i], layer.TextPatch{Text: layer.Ptr(c)}); err != nil {
				return err
			}
			continue
		}
		if _, err := e.CreateTextLayer("", At("center center"), layer.TextPatch{Text: layer.Ptr(c)}); err != nil {
			return err
		}
	}
	return nil
}

// boxSize returns the width and single-line height a new layer built from p
// will have.
func (e *Editor) boxSize(p layer.TextPatch) (w, h int) {
	st := e.store.Style()
	w = e.store.Native().X
	if p.MaxWidth != nil {
		w = *p.MaxWidth
	}
	fs, lh := st.FontSize, st.LineHeight
	if p.FontSize != nil {
		fs = *p.FontSize
	}
	if p.LineHeight != nil {
		lh = *p.LineHeight
	}
	return w, round(lh * float64(fs))
}

func presetOrigin(preset string, native image.Point, w, h int) (x, y int) {
	words := strings.Fields(strings.ToLower(preset))
	if len(words) != 2 {
		return 0, 0
	}
	switch words[0] {
	case "center":
		y = native.Y / 2
	case "bottom":
		y = native.Y - h
	}
	switch words[1] {
	case "center":
		x = native.X/2 - w/2
	case "right":
		x = native.X - w
	}
	return x, y
}
