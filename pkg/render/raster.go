package render

import (
	"image"
	"math"

	"github.com/disintegration/imaging"
	"github.com/fogleman/gg"
	"golang.org/x/image/font"

	"github.com/matzehuels/memegen/pkg/errors"
	"github.com/matzehuels/memegen/pkg/layer"
	"github.com/matzehuels/memegen/pkg/textlayout"
)

// Outline sampling bounds. The outline is drawn by repeating the glyph run
// at points on a circle around the fill position.
const (
	minOutlineSamples = 8
	maxOutlineSamples = 64
)

// FontSource provides both measurement and drawable faces.
// [fonts.Resolver] implements it.
//
// [fonts.Resolver]: github.com/matzehuels/memegen/pkg/fonts#Resolver
type FontSource interface {
	textlayout.Metrics
	Face(family string, size float64) (font.Face, error)
}

// RasterOption configures a [Raster] renderer.
type RasterOption func(*Raster)

// WithResampleFilter sets the filter used to scale the drawing layer to the
// display size (default Lanczos).
func WithResampleFilter(f imaging.ResampleFilter) RasterOption {
	return func(r *Raster) { r.filter = f }
}

// Raster renders text layers to bitmaps.
type Raster struct {
	fonts  FontSource
	filter imaging.ResampleFilter
}

var _ Renderer = (*Raster)(nil)

// NewRaster creates a raster renderer drawing with faces from fonts.
func NewRaster(fonts FontSource, opts ...RasterOption) *Raster {
	r := &Raster{fonts: fonts, filter: imaging.Lanczos}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// TextSurface is the rendered bitmap of one text layer. It covers the whole
// display canvas and is transparent outside the glyphs.
type TextSurface struct {
	Name  string
	Image *image.RGBA
}

// RasterOutput holds the surfaces of one raster pass in store order.
type RasterOutput struct {
	Scale            float64
	Size             image.Point // Display canvas size
	Text             []TextSurface
	Blocks           []Block
	Drawing          image.Image // Display-size ink, nil without a drawing layer
	DrawingAboveText bool
	result
}

// Render implements [Renderer].
func (r *Raster) Render(snap layer.Snapshot, s float64) (Output, error) {
	return r.RenderRaster(snap, s)
}

// RenderRaster draws every text layer at scale s.
func (r *Raster) RenderRaster(snap layer.Snapshot, s float64) (*RasterOutput, error) {
	size, err := prepare(snap, s)
	if err != nil {
		return nil, err
	}

	out := &RasterOutput{
		Scale:            s,
		Size:             size,
		DrawingAboveText: snap.DrawingAboveText,
		result:           newResult(len(snap.Text)),
	}

	for _, t := range snap.Text {
		b, h, err := layoutBlock(t, s, r.fonts)
		if err != nil {
			out.skip(t.Name, err)
			continue
		}
		img, err := r.drawText(size, t, b, s)
		if err != nil {
			out.skip(t.Name, err)
			continue
		}
		out.Text = append(out.Text, TextSurface{Name: t.Name, Image: img})
		out.Blocks = append(out.Blocks, b)
		out.heights[t.Name] = h
	}

	if snap.Drawing != nil {
		out.Drawing = r.scaleDrawing(snap.Drawing.Bitmap, size)
	}
	return out, nil
}

func (r *Raster) drawText(size image.Point, t layer.TextLayer, b Block, s float64) (*image.RGBA, error) {
	fill, err := errors.ParseColor(t.Color)
	if err != nil {
		return nil, err
	}
	border, err := errors.ParseColor(t.BorderColor)
	if err != nil {
		return nil, err
	}
	face, err := r.fonts.Face(t.FontFamily, b.FontSize)
	if err != nil {
		return nil, err
	}
	defer face.Close()

	img := image.NewRGBA(image.Rect(0, 0, size.X, size.Y))
	dc := gg.NewContextForRGBA(img)
	dc.SetFontFace(face)
	x := b.Center()

	// Outline for every line first so that a tight line height never lets
	// one line's outline cover the previous line's fill.
	if offsets := outlineOffsets(float64(t.BorderWidth) * s); len(offsets) > 0 {
		dc.SetColor(border)
		for i, line := range b.Lines {
			y := b.Baseline(i)
			for _, o := range offsets {
				dc.DrawStringAnchored(line, x+o.X, y+o.Y, 0.5, 0)
			}
		}
	}

	dc.SetColor(fill)
	for i, line := range b.Lines {
		dc.DrawStringAnchored(line, x, b.Baseline(i), 0.5, 0)
	}
	return img, nil
}

func (r *Raster) scaleDrawing(bitmap *image.RGBA, size image.Point) image.Image {
	if bitmap.Bounds().Size() == size {
		return bitmap
	}
	return imaging.Resize(bitmap, size.X, size.Y, r.filter)
}

// outlineOffsets returns points on a circle of the given radius.
func outlineOffsets(radius float64) []gg.Point {
	if radius <= 0 {
		return nil
	}
	n := int(math.Ceil(4 * radius))
	n = min(max(n, minOutlineSamples), maxOutlineSamples)

	pts := make([]gg.Point, n)
	for i := range pts {
		a := 2 * math.Pi * float64(i) / float64(n)
		pts[i] = gg.Point{X: radius * math.Cos(a), Y: radius * math.Sin(a)}
	}
	return pts
}
