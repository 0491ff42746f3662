package layer

import (
	"image"
	"slices"
	"testing"

	"github.com/matzehuels/memegen/pkg/errors"
)

func newTestStore(t *testing.T, opts Options) *Store {
	t.Helper()
	s, err := NewStore(image.Pt(600, 400), opts)
	if err != nil {
		t.Fatalf("NewStore() error: %v", err)
	}
	return s
}

func TestNewStoreRequiresImage(t *testing.T) {
	_, err := NewStore(image.Point{}, DefaultOptions())
	if !errors.Is(err, errors.ErrCodeImageNotLoaded) {
		t.Errorf("NewStore(0x0) error = %v, want IMAGE_NOT_LOADED", err)
	}
}

func TestAddTextLayerDefaults(t *testing.T) {
	s := newTestStore(t, DefaultOptions())

	name, err := s.AddTextLayer(TextPatch{Text: Ptr("hello")})
	if err != nil {
		t.Fatalf("AddTextLayer() error: %v", err)
	}
	if name != "layer1" {
		t.Errorf("name = %q, want layer1", name)
	}

	got, err := s.TextLayer(name)
	if err != nil {
		t.Fatal(err)
	}
	want := TextLayer{
		Name:        "layer1",
		Text:        "HELLO",
		MaxWidth:    600,
		FontSize:    42,
		LineHeight:  1.2,
		FontFamily:  "Impact, Arial",
		Color:       "#FFFFFF",
		BorderColor: "#000000",
		BorderWidth: 2,
		Height:      50,
	}
	if got != want {
		t.Errorf("TextLayer() = %+v, want %+v", got, want)
	}
}

func TestAddTextLayerKeepsCaseWithoutUppercase(t *testing.T) {
	opts := DefaultOptions()
	opts.ForceUppercase = false
	s := newTestStore(t, opts)

	name, _ := s.AddTextLayer(TextPatch{Text: Ptr("Hello")})
	got, _ := s.TextLayer(name)
	if got.Text != "Hello" {
		t.Errorf("Text = %q, want %q", got.Text, "Hello")
	}

	s.SetForceUppercase(true)
	got, _ = s.TextLayer(name)
	if got.Text != "HELLO" {
		t.Errorf("after enabling uppercase Text = %q, want HELLO", got.Text)
	}

	s.SetForceUppercase(false)
	got, _ = s.TextLayer(name)
	if got.Text != "HELLO" {
		t.Errorf("disabling uppercase should not restore case, got %q", got.Text)
	}
}

func TestNamesAreNeverReused(t *testing.T) {
	s := newTestStore(t, DefaultOptions())

	first, _ := s.AddTextLayer(TextPatch{})
	second, _ := s.AddTextLayer(TextPatch{})
	if err := s.RemoveTextLayer(second); err != nil {
		t.Fatal(err)
	}
	third, _ := s.AddTextLayer(TextPatch{})

	if first == second || second == third || first == third {
		t.Errorf("names collide: %q %q %q", first, second, third)
	}
	if third != "layer3" {
		t.Errorf("third = %q, want layer3", third)
	}
}

func TestRemoveTextLayer(t *testing.T) {
	s := newTestStore(t, DefaultOptions())
	first, _ := s.AddTextLayer(TextPatch{Text: Ptr("top")})
	second, _ := s.AddTextLayer(TextPatch{Text: Ptr("bottom")})

	if names := s.ListLayers().Names(); !slices.Contains(names, first) {
		t.Fatalf("ListLayers() before removal = %v, missing %q", names, first)
	}

	if err := s.RemoveTextLayer(first); err != nil {
		t.Fatalf("RemoveTextLayer() error: %v", err)
	}

	names := s.ListLayers().Names()
	if !slices.Equal(names, []string{second}) {
		t.Errorf("ListLayers() = %v, want [%s]", names, second)
	}

	if err := s.RemoveTextLayer(first); !errors.Is(err, errors.ErrCodeNotFound) {
		t.Errorf("second RemoveTextLayer() error = %v, want NOT_FOUND", err)
	}
}

func TestUpdateTextLayer(t *testing.T) {
	s := newTestStore(t, DefaultOptions())
	name, _ := s.AddTextLayer(TextPatch{})

	err := s.UpdateTextLayer(name, TextPatch{
		Text:     Ptr("new text"),
		X:        Ptr(10),
		FontSize: Ptr(30),
		Color:    Ptr("#00FF00"),
	})
	if err != nil {
		t.Fatalf("UpdateTextLayer() error: %v", err)
	}

	got, _ := s.TextLayer(name)
	if got.Text != "NEW TEXT" || got.X != 10 || got.FontSize != 30 || got.Color != "#00FF00" {
		t.Errorf("TextLayer() = %+v", got)
	}
	if got.BorderColor != "#000000" {
		t.Errorf("untouched field changed: BorderColor = %q", got.BorderColor)
	}
}

func TestUpdateTextLayerIsAtomic(t *testing.T) {
	tests := []struct {
		name  string
		patch TextPatch
		code  errors.Code
	}{
		{"bad color", TextPatch{Text: Ptr("changed"), Color: Ptr("white")}, errors.ErrCodeInvalidInput},
		{"bad border color", TextPatch{X: Ptr(99), BorderColor: Ptr("#XYZ")}, errors.ErrCodeInvalidInput},
		{"zero line height", TextPatch{Y: Ptr(5), LineHeight: Ptr(0.0)}, errors.ErrCodeInvalidGeometry},
		{"negative border", TextPatch{FontSize: Ptr(12), BorderWidth: Ptr(-1)}, errors.ErrCodeInvalidGeometry},
		{"empty font", TextPatch{MaxWidth: Ptr(12), FontFamily: Ptr(" ")}, errors.ErrCodeInvalidInput},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := newTestStore(t, DefaultOptions())
			name, _ := s.AddTextLayer(TextPatch{Text: Ptr("original")})
			before, _ := s.TextLayer(name)

			err := s.UpdateTextLayer(name, tt.patch)
			if !errors.Is(err, tt.code) {
				t.Fatalf("UpdateTextLayer() error = %v, want %s", err, tt.code)
			}

			after, _ := s.TextLayer(name)
			if after != before {
				t.Errorf("layer changed after rejected update: %+v -> %+v", before, after)
			}
		})
	}
}

func TestUpdateMissingLayer(t *testing.T) {
	s := newTestStore(t, DefaultOptions())
	err := s.UpdateTextLayer("layer9", TextPatch{Text: Ptr("x")})
	if !errors.Is(err, errors.ErrCodeNotFound) {
		t.Errorf("UpdateTextLayer() error = %v, want NOT_FOUND", err)
	}
}

func TestNonPositiveGeometryIsStored(t *testing.T) {
	s := newTestStore(t, DefaultOptions())
	name, err := s.AddTextLayer(TextPatch{FontSize: Ptr(0), MaxWidth: Ptr(-5)})
	if err != nil {
		t.Fatalf("AddTextLayer() error: %v", err)
	}
	got, _ := s.TextLayer(name)
	if got.FontSize != 0 || got.MaxWidth != -5 || got.Height != 0 {
		t.Errorf("TextLayer() = %+v", got)
	}
}

func TestSnapshotIsACopy(t *testing.T) {
	s := newTestStore(t, DefaultOptions())
	name, _ := s.AddTextLayer(TextPatch{Text: Ptr("keep")})
	ink := s.AddOrGetDrawingLayer()

	snap := s.ListLayers()
	snap.Text[0].Text = "mutated"
	snap.Drawing.Bitmap.Pix[0] = 0xff

	got, _ := s.TextLayer(name)
	if got.Text != "KEEP" {
		t.Errorf("store text changed through snapshot: %q", got.Text)
	}
	if ink.Snapshot().Pix[0] != 0 {
		t.Error("store bitmap changed through snapshot")
	}
}

func TestSnapshotLayersOrder(t *testing.T) {
	s := newTestStore(t, DefaultOptions())
	a, _ := s.AddTextLayer(TextPatch{})
	b, _ := s.AddTextLayer(TextPatch{})

	ids := func() []string {
		var out []string
		for _, l := range s.ListLayers().Layers() {
			out = append(out, l.ID())
		}
		return out
	}

	if got := ids(); !slices.Equal(got, []string{a, b}) {
		t.Errorf("without drawing = %v", got)
	}

	s.AddOrGetDrawingLayer()
	if got := ids(); !slices.Equal(got, []string{a, b, DrawingName}) {
		t.Errorf("drawing above = %v", got)
	}

	s.SetDrawingAboveText(false)
	if got := ids(); !slices.Equal(got, []string{DrawingName, a, b}) {
		t.Errorf("drawing below = %v", got)
	}
}

func TestAddOrGetDrawingLayerIsIdempotent(t *testing.T) {
	s := newTestStore(t, DefaultOptions())
	if _, ok := s.Drawing(); ok {
		t.Fatal("drawing layer should not exist before first use")
	}
	first := s.AddOrGetDrawingLayer()
	second := s.AddOrGetDrawingLayer()
	if first != second {
		t.Error("AddOrGetDrawingLayer() created a second surface")
	}
	if first.Bounds() != image.Rect(0, 0, 600, 400) {
		t.Errorf("drawing bounds = %v, want native size", first.Bounds())
	}
}

func TestReplaceText(t *testing.T) {
	s := newTestStore(t, DefaultOptions())
	s.AddTextLayer(TextPatch{})

	layers := []TextLayer{
		{Name: "layer7", Text: "a", MaxWidth: 100, FontSize: 20, LineHeight: 1.2, FontFamily: "Impact", Color: "#FFF", BorderColor: "#000"},
		{Name: "custom", Text: "b", MaxWidth: 100, FontSize: 20, LineHeight: 1.2, FontFamily: "Impact", Color: "#FFF", BorderColor: "#000"},
	}
	if err := s.ReplaceText(layers); err != nil {
		t.Fatalf("ReplaceText() error: %v", err)
	}
	if names := s.ListLayers().Names(); !slices.Equal(names, []string{"layer7", "custom"}) {
		t.Errorf("names = %v", names)
	}

	next, _ := s.AddTextLayer(TextPatch{})
	if next != "layer8" {
		t.Errorf("next generated name = %q, want layer8", next)
	}
}

func TestReplaceTextRejectsDuplicates(t *testing.T) {
	s := newTestStore(t, DefaultOptions())
	keep, _ := s.AddTextLayer(TextPatch{})

	dup := TextLayer{Name: "x", MaxWidth: 1, FontSize: 1, LineHeight: 1, FontFamily: "Impact", Color: "#FFF", BorderColor: "#000"}
	if err := s.ReplaceText([]TextLayer{dup, dup}); !errors.Is(err, errors.ErrCodeInvalidInput) {
		t.Fatalf("ReplaceText() error = %v, want INVALID_INPUT", err)
	}
	if names := s.ListLayers().Names(); !slices.Equal(names, []string{keep}) {
		t.Errorf("store changed after failed replace: %v", names)
	}
}

func TestSetHeights(t *testing.T) {
	s := newTestStore(t, DefaultOptions())
	name, _ := s.AddTextLayer(TextPatch{})
	s.SetHeights(map[string]int{name: 151, "gone": 3})

	got, _ := s.TextLayer(name)
	if got.Height != 151 {
		t.Errorf("Height = %d, want 151", got.Height)
	}
	if got.Bounds() != image.Rect(0, 0, 600, 151) {
		t.Errorf("Bounds() = %v", got.Bounds())
	}
}

func TestResize(t *testing.T) {
	s := newTestStore(t, DefaultOptions())
	ink := s.AddOrGetDrawingLayer()
	ink.PointerDown(10, 10)
	ink.PointerUp()

	if err := s.Resize(image.Pt(300, 200)); err != nil {
		t.Fatal(err)
	}
	if s.Native() != image.Pt(300, 200) {
		t.Errorf("Native() = %v", s.Native())
	}
	if ink.Bounds() != image.Rect(0, 0, 300, 200) {
		t.Errorf("ink bounds = %v", ink.Bounds())
	}
	if ink.Snapshot().RGBAAt(10, 10).A == 0 {
		t.Error("ink pixels lost on resize")
	}
	if err := s.Resize(image.Point{}); !errors.Is(err, errors.ErrCodeImageNotLoaded) {
		t.Errorf("Resize(0x0) error = %v", err)
	}
}
