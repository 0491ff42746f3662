package render

import (
	"image"

	"github.com/matzehuels/memegen/pkg/errors"
	"github.com/matzehuels/memegen/pkg/layer"
	"github.com/matzehuels/memegen/pkg/scale"
	"github.com/matzehuels/memegen/pkg/textlayout"
)

// Renderer is implemented by both backends.
type Renderer interface {
	Render(snap layer.Snapshot, s float64) (Output, error)
}

// Output is what every backend returns.
type Output interface {
	// Warnings lists the layers that were skipped.
	Warnings() []errors.Warning
	// Heights maps each rendered layer to its derived native height.
	Heights() map[string]int
}

// Block is the display-space geometry of one wrapped text layer.
type Block struct {
	Name       string
	Left, Top  float64
	Width      float64
	Height     float64
	FontSize   float64
	LineHeight float64 // Multiplier of FontSize
	Lines      []string
}

// Baseline returns the y coordinate of the baseline of line i.
func (b Block) Baseline(i int) float64 {
	return b.Top + b.FontSize + float64(i)*b.LineHeight*b.FontSize
}

// Center returns the x coordinate lines are centered on.
func (b Block) Center() float64 {
	return b.Left + b.Width/2
}

// result carries the parts shared by every Output.
type result struct {
	warnings []errors.Warning
	heights  map[string]int
}

func newResult(n int) result {
	return result{heights: make(map[string]int, n)}
}

// Warnings implements [Output].
func (r *result) Warnings() []errors.Warning { return r.warnings }

// Heights implements [Output].
func (r *result) Heights() map[string]int { return r.heights }

func (r *result) skip(name string, err error) {
	r.warnings = append(r.warnings, errors.Warning{Layer: name, Err: err})
}

// prepare checks the render parameters and returns the display canvas size.
func prepare(snap layer.Snapshot, s float64) (image.Point, error) {
	if snap.Native.X <= 0 || snap.Native.Y <= 0 {
		return image.Point{}, errors.New(errors.ErrCodeImageNotLoaded, "cannot render before the image size is known")
	}
	if err := errors.ValidatePositive("scale", s); err != nil {
		return image.Point{}, err
	}
	return scale.SizeAt(snap.Native, s), nil
}

// layoutBlock wraps one text layer at scale s.
func layoutBlock(t layer.TextLayer, s float64, metrics textlayout.Metrics) (Block, int, error) {
	if t.FontSize <= 0 {
		return Block{}, 0, errors.New(errors.ErrCodeInvalidGeometry, "font size must be positive, got %d", t.FontSize)
	}
	if t.MaxWidth <= 0 {
		return Block{}, 0, errors.New(errors.ErrCodeInvalidGeometry, "max width must be positive, got %d", t.MaxWidth)
	}

	fs := float64(t.FontSize) * s
	m, err := metrics.Measurer(t.FontFamily, fs)
	if err != nil {
		return Block{}, 0, err
	}
	lines := textlayout.Wrap(t.Text, float64(t.MaxWidth)*s, m)

	b := Block{
		Name:       t.Name,
		Left:       float64(t.X) * s,
		Top:        float64(t.Y) * s,
		Width:      float64(t.MaxWidth) * s,
		Height:     float64(len(lines)) * t.LineHeight * fs,
		FontSize:   fs,
		LineHeight: t.LineHeight,
		Lines:      lines,
	}
	return b, textlayout.Height(len(lines), float64(t.FontSize), t.LineHeight), nil
}
