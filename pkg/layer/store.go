package layer

import (
	"fmt"
	"image"
	"slices"
	"strconv"
	"strings"

	"github.com/matzehuels/memegen/pkg/errors"
)

// namePrefix is prepended to the counter when naming new text layers.
const namePrefix = "layer"

// Options configures a [Store].
type Options struct {
	Style            Style
	Ink              InkStyle
	ForceUppercase   bool
	DrawingAboveText bool
}

// DefaultOptions returns the stock style with uppercase captions and the
// drawing layer above text.
func DefaultOptions() Options {
	return Options{
		Style:            DefaultStyle(),
		Ink:              DefaultInkStyle(),
		ForceUppercase:   true,
		DrawingAboveText: true,
	}
}

// Store is the ordered collection of layers for one base image.
//
// A Store is not safe for concurrent use. Hosts drive it from a single event
// loop and serialize access themselves when that is not the case.
type Store struct {
	native  image.Point
	opts    Options
	text    []*TextLayer
	drawing *Ink
	nextID  int
}

// NewStore creates an empty store for an image of the given native size.
// It fails with IMAGE_NOT_LOADED when the size is not known yet.
func NewStore(native image.Point, opts Options) (*Store, error) {
	if native.X <= 0 || native.Y <= 0 {
		return nil, errors.New(errors.ErrCodeImageNotLoaded, "native image size %dx%d is not known", native.X, native.Y)
	}
	if err := validateStyle(opts.Style); err != nil {
		return nil, err
	}
	return &Store{native: native, opts: opts, nextID: 1}, nil
}

// Native returns the native image size the store was created for.
func (s *Store) Native() image.Point { return s.native }

// Resize changes the native size after the base image was replaced. Text
// geometry is kept as is; the ink surface is reallocated with its pixels
// anchored at the top-left corner.
func (s *Store) Resize(native image.Point) error {
	if native.X <= 0 || native.Y <= 0 {
		return errors.New(errors.ErrCodeImageNotLoaded, "native image size %dx%d is not known", native.X, native.Y)
	}
	s.native = native
	if s.drawing != nil {
		s.drawing.resize(native)
	}
	return nil
}

// Style returns the defaults applied to new text layers.
func (s *Store) Style() Style { return s.opts.Style }

// Len returns the number of text layers.
func (s *Store) Len() int { return len(s.text) }

// ForceUppercase reports whether text is case-folded on write.
func (s *Store) ForceUppercase() bool { return s.opts.ForceUppercase }

// SetForceUppercase toggles case folding. Enabling it folds the text of every
// existing layer; disabling it leaves stored text as is.
func (s *Store) SetForceUppercase(on bool) {
	s.opts.ForceUppercase = on
	if !on {
		return
	}
	for _, t := range s.text {
		t.Text = strings.ToUpper(t.Text)
	}
}

// DrawingAboveText reports where the drawing layer composites.
func (s *Store) DrawingAboveText() bool { return s.opts.DrawingAboveText }

// SetDrawingAboveText moves the drawing layer above (true) or below (false)
// every text layer. It only affects compositing.
func (s *Store) SetDrawingAboveText(above bool) { s.opts.DrawingAboveText = above }

// AddTextLayer appends a text layer built from the style defaults overlaid
// with init and returns its fresh name. The default MaxWidth spans the image.
func (s *Store) AddTextLayer(init TextPatch) (string, error) {
	st := s.opts.Style
	base := TextLayer{
		Name:        s.peekName(),
		MaxWidth:    s.native.X,
		FontSize:    st.FontSize,
		LineHeight:  st.LineHeight,
		FontFamily:  st.FontFamily,
		Color:       st.Color,
		BorderColor: st.BorderColor,
		BorderWidth: st.BorderWidth,
	}
	t := s.fold(init.apply(base))
	t.Height = initialHeight(t)
	if err := validateText(t); err != nil {
		return "", err
	}

	s.nextID++
	s.text = append(s.text, &t)
	return t.Name, nil
}

// UpdateTextLayer merges patch into the named layer. The patch is validated as
// a whole: either every field is applied or none is.
func (s *Store) UpdateTextLayer(name string, patch TextPatch) error {
	i, err := s.index(name)
	if err != nil {
		return err
	}
	t := s.fold(patch.apply(*s.text[i]))
	if err := validateText(t); err != nil {
		return err
	}
	*s.text[i] = t
	return nil
}

// RemoveTextLayer deletes the named text layer. The drawing layer cannot be
// removed this way; see [Store.EraseDrawing].
func (s *Store) RemoveTextLayer(name string) error {
	i, err := s.index(name)
	if err != nil {
		return err
	}
	s.text = slices.Delete(s.text, i, i+1)
	return nil
}

// TextLayer returns a copy of the named layer.
func (s *Store) TextLayer(name string) (TextLayer, error) {
	i, err := s.index(name)
	if err != nil {
		return TextLayer{}, err
	}
	return *s.text[i], nil
}

// SetHeights writes derived heights from a layout pass back into the layers.
// Unknown names are ignored since the store may have changed since the pass.
func (s *Store) SetHeights(heights map[string]int) {
	for _, t := range s.text {
		if h, ok := heights[t.Name]; ok {
			t.Height = h
		}
	}
}

// ReplaceText swaps every text layer for layers, keeping their names. The
// drawing layer is untouched. Names must be valid and unique; on failure the
// store is left unchanged.
func (s *Store) ReplaceText(layers []TextLayer) error {
	seen := make(map[string]bool, len(layers))
	next := make([]*TextLayer, 0, len(layers))
	nextID := s.nextID
	for _, l := range layers {
		if err := errors.ValidateLayerName(l.Name); err != nil {
			return err
		}
		if seen[l.Name] {
			return errors.New(errors.ErrCodeInvalidInput, "duplicate layer name %q", l.Name)
		}
		seen[l.Name] = true

		t := s.fold(l)
		if t.Height == 0 {
			t.Height = initialHeight(t)
		}
		if err := validateText(t); err != nil {
			return fmt.Errorf("layer %s: %w", l.Name, err)
		}
		if n, ok := nameIndex(t.Name); ok && n >= nextID {
			nextID = n + 1
		}
		next = append(next, &t)
	}
	s.text = next
	s.nextID = nextID
	return nil
}

// AddOrGetDrawingLayer returns the drawing surface, creating it on first use.
func (s *Store) AddOrGetDrawingLayer() *Ink {
	if s.drawing == nil {
		s.drawing = newInk(s.native, s.opts.Ink)
	}
	return s.drawing
}

// Drawing returns the drawing surface if it has been created.
func (s *Store) Drawing() (*Ink, bool) {
	return s.drawing, s.drawing != nil
}

// EraseDrawing clears the ink without removing the drawing layer.
// It is a no-op when no drawing layer exists.
func (s *Store) EraseDrawing() {
	if s.drawing != nil {
		s.drawing.Erase()
	}
}

// ListLayers returns a snapshot of the document. The snapshot shares no
// memory with the store.
func (s *Store) ListLayers() Snapshot {
	snap := Snapshot{
		Native:           s.native,
		Text:             make([]TextLayer, len(s.text)),
		DrawingAboveText: s.opts.DrawingAboveText,
	}
	for i, t := range s.text {
		snap.Text[i] = *t
	}
	if s.drawing != nil {
		snap.Drawing = &DrawingLayer{Bitmap: s.drawing.Snapshot(), Version: s.drawing.Version()}
	}
	return snap
}

func (s *Store) index(name string) (int, error) {
	i := slices.IndexFunc(s.text, func(t *TextLayer) bool { return t.Name == name })
	if i < 0 {
		return -1, errors.New(errors.ErrCodeNotFound, "text layer %q not found", name)
	}
	return i, nil
}

// peekName returns the next free generated name without consuming it.
func (s *Store) peekName() string {
	for {
		name := namePrefix + strconv.Itoa(s.nextID)
		if _, err := s.index(name); err != nil {
			return name
		}
		s.nextID++
	}
}

func (s *Store) fold(t TextLayer) TextLayer {
	if s.opts.ForceUppercase {
		t.Text = strings.ToUpper(t.Text)
	}
	return t
}

// nameIndex parses the counter out of a generated name like "layer12".
func nameIndex(name string) (int, bool) {
	rest, ok := strings.CutPrefix(name, namePrefix)
	if !ok {
		return 0, false
	}
	n, err := strconv.Atoi(rest)
	return n, err == nil && n > 0
}

// initialHeight is the single-line box height used before the first layout pass.
func initialHeight(t TextLayer) int {
	if t.FontSize <= 0 || t.LineHeight <= 0 {
		return 0
	}
	return int(float64(t.FontSize)*t.LineHeight + 0.5)
}

func validateText(t TextLayer) error {
	if err := errors.ValidatePositive("lineHeight", t.LineHeight); err != nil {
		return err
	}
	if err := errors.ValidateNonNegative("borderWidth", float64(t.BorderWidth)); err != nil {
		return err
	}
	if strings.TrimSpace(t.FontFamily) == "" {
		return errors.New(errors.ErrCodeInvalidInput, "font family cannot be empty")
	}
	if err := errors.ValidateColor(t.Color); err != nil {
		return err
	}
	return errors.ValidateColor(t.BorderColor)
}

func validateStyle(st Style) error {
	if err := errors.ValidatePositive("default font size", float64(st.FontSize)); err != nil {
		return err
	}
	return validateText(TextLayer{
		LineHeight:  st.LineHeight,
		BorderWidth: st.BorderWidth,
		FontFamily:  st.FontFamily,
		Color:       st.Color,
		BorderColor: st.BorderColor,
	})
}
