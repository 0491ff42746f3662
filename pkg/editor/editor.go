package editor

import (
	"image"
	"math"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/memegen/pkg/cache"
	"github.com/matzehuels/memegen/pkg/errors"
	"github.com/matzehuels/memegen/pkg/fonts"
	"github.com/matzehuels/memegen/pkg/layer"
	"github.com/matzehuels/memegen/pkg/render"
	"github.com/matzehuels/memegen/pkg/scale"
)

// Editor edits the layers of one base image.
type Editor struct {
	opts    Options
	store   *layer.Store
	base    image.Image
	display float64 // 0 follows the native width

	drawing bool
	pen     layer.InkStyle

	raster  *render.Raster
	overlay *render.Overlay
	fonts   render.FontSource
	cache   cache.Cache
	keyer   cache.Keyer
	logger  *log.Logger

	baseHash string // lazily computed, reset when the base changes
}

// New creates an editor for base. It fails with IMAGE_NOT_LOADED when base is
// nil or empty.
func New(base image.Image, opts Options) (*Editor, error) {
	native, err := nativeSize(base)
	if err != nil {
		return nil, err
	}
	if opts.Fonts == nil {
		opts.Fonts = fonts.NewResolver()
	}
	if opts.Cache == nil {
		opts.Cache = cache.NewNullCache()
	}
	if opts.Keyer == nil {
		opts.Keyer = cache.NewDefaultKeyer()
	}
	if opts.Logger == nil {
		opts.Logger = log.Default()
	}
	if opts.Format == "" {
		opts.Format = FormatPNG
	}
	if opts.JPEGQuality == 0 {
		opts.JPEGQuality = DefaultJPEGQuality
	}
	if _, ok := ValidFormats[opts.Format]; !ok {
		return nil, errors.New(errors.ErrCodeInvalidFormat, "unsupported export format %q", opts.Format)
	}
	if err := validatePen(opts.Layer.Ink); err != nil {
		return nil, err
	}

	store, err := layer.NewStore(native, opts.Layer)
	if err != nil {
		return nil, err
	}

	e := &Editor{
		opts:    opts,
		store:   store,
		base:    base,
		pen:     opts.Layer.Ink,
		raster:  render.NewRaster(opts.Fonts),
		overlay: render.NewOverlay(opts.Fonts),
		fonts:   opts.Fonts,
		cache:   opts.Cache,
		keyer:   opts.Keyer,
		logger:  opts.Logger,
	}
	if opts.DisplayWidth != 0 {
		if err := e.SetDisplayWidth(opts.DisplayWidth); err != nil {
			return nil, err
		}
	}

	if opts.DefaultTextboxes {
		if _, err := e.CreateTextLayer(TopPlaceholder, At("top center"), layer.TextPatch{}); err != nil {
			return nil, err
		}
		if _, err := e.CreateTextLayer(BottomPlaceholder, At("bottom center"), layer.TextPatch{}); err != nil {
			return nil, err
		}
	}
	if err := e.SetCaptions(opts.Captions); err != nil {
		return nil, err
	}
	return e, nil
}

// =============================================================================
// Image and Scale
// =============================================================================

// Base returns the current base image.
func (e *Editor) Base() image.Image { return e.base }

// Native returns the native size of the base image.
func (e *Editor) Native() image.Point { return e.store.Native() }

// SetBaseImage replaces the base image. The drawing layer is resized to the
// new image, keeping its ink anchored top-left, and every text layer whose box
// would extend past the new bottom edge is moved up to fit.
func (e *Editor) SetBaseImage(img image.Image) error {
	native, err := nativeSize(img)
	if err != nil {
		return err
	}
	if err := e.store.Resize(native); err != nil {
		return err
	}
	e.base = img
	e.baseHash = ""

	for _, t := range e.store.ListLayers().Text {
		if t.Y+t.Height <= native.Y {
			continue
		}
		y := max(0, native.Y-t.Height)
		if err := e.store.UpdateTextLayer(t.Name, layer.TextPatch{Y: &y}); err != nil {
			return err
		}
		e.logger.Debug("clamped layer to image", "layer", t.Name, "y", y)
	}
	return nil
}

// SetDisplayWidth records the on-screen width of the image. Zero resets it to
// the native width.
func (e *Editor) SetDisplayWidth(w float64) error {
	if w != 0 {
		if err := errors.ValidatePositive("display width", w); err != nil {
			return err
		}
	}
	e.display = w
	return nil
}

// Transform returns the current native/display transform.
func (e *Editor) Transform() scale.Transform {
	native := e.store.Native()
	w := e.display
	if w == 0 {
		w = float64(native.X)
	}
	t, _ := scale.New(native.X, native.Y, w)
	return t
}

// Scale returns the current display scale.
func (e *Editor) Scale() float64 { return e.Transform().Scale() }

// =============================================================================
// Session Toggles
// =============================================================================

// SetForceUppercase toggles uppercase captions. Turning it on folds every
// existing layer; turning it off keeps their text as is.
func (e *Editor) SetForceUppercase(on bool) { e.store.SetForceUppercase(on) }

// ForceUppercase reports whether captions are uppercased.
func (e *Editor) ForceUppercase() bool { return e.store.ForceUppercase() }

// SetDragResize enables or disables MoveTextLayer and ResizeTextLayer.
func (e *Editor) SetDragResize(on bool) { e.opts.DragResize = on }

// DragResize reports whether drag handles are enabled.
func (e *Editor) DragResize() bool { return e.opts.DragResize }

// SetDrawingAboveText places the drawing layer above or below every text layer.
func (e *Editor) SetDrawingAboveText(above bool) { e.store.SetDrawingAboveText(above) }

// DrawingAboveText reports the drawing layer position.
func (e *Editor) DrawingAboveText() bool { return e.store.DrawingAboveText() }

// Layers returns an ordered snapshot of every layer.
func (e *Editor) Layers() layer.Snapshot { return e.store.ListLayers() }

// TextLayer returns a copy of the named text layer.
func (e *Editor) TextLayer(name string) (layer.TextLayer, error) { return e.store.TextLayer(name) }

func nativeSize(img image.Image) (image.Point, error) {
	if img == nil {
		return image.Point{}, errors.New(errors.ErrCodeImageNotLoaded, "no base image")
	}
	b := img.Bounds()
	if b.Empty() {
		return image.Point{}, errors.New(errors.ErrCodeImageNotLoaded, "base image is empty")
	}
	return b.Size(), nil
}

func validatePen(pen layer.InkStyle) error {
	if err := errors.ValidateColor(pen.Color); err != nil {
		return err
	}
	return errors.ValidatePositive("line width", pen.LineWidth)
}

func round(v float64) int { return int(math.Round(v)) }
