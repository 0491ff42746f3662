package render

import (
	"fmt"
	"image"
	"strings"

	"github.com/matzehuels/memegen/pkg/layer"
	"github.com/matzehuels/memegen/pkg/textlayout"
)

// shadowDirections are the four diagonals used to fake the outline.
var shadowDirections = [4][2]float64{{-1, -1}, {-1, 1}, {1, -1}, {1, 1}}

// Node is a positioned preview block with CSS-like styling.
type Node struct {
	Block
	FontFamily  string
	Color       string
	BorderColor string
	TextShadow  string  // CSS text-shadow value emulating the outline
	MinHeight   float64 // One line of text
	ZIndex      int     // Assigned by the compositor
}

// DrawingNode stands for the ink layer in a preview. The browser scales the
// native bitmap to the preview size.
type DrawingNode struct {
	Image   *image.RGBA
	Version uint64
	ZIndex  int
}

// OverlayOutput is the result of an overlay pass, nodes in store order.
type OverlayOutput struct {
	Scale            float64
	Size             image.Point
	Nodes            []Node
	Drawing          *DrawingNode
	DrawingAboveText bool
	result
}

// Overlay renders preview nodes without rasterizing text.
type Overlay struct {
	metrics textlayout.Metrics
}

var _ Renderer = (*Overlay)(nil)

// NewOverlay creates an overlay renderer that wraps text with metrics.
func NewOverlay(metrics textlayout.Metrics) *Overlay {
	return &Overlay{metrics: metrics}
}

// Render implements [Renderer].
func (o *Overlay) Render(snap layer.Snapshot, s float64) (Output, error) {
	return o.RenderOverlay(snap, s)
}

// RenderOverlay lays out every text layer at scale s.
func (o *Overlay) RenderOverlay(snap layer.Snapshot, s float64) (*OverlayOutput, error) {
	size, err := prepare(snap, s)
	if err != nil {
		return nil, err
	}

	out := &OverlayOutput{
		Scale:            s,
		Size:             size,
		DrawingAboveText: snap.DrawingAboveText,
		result:           newResult(len(snap.Text)),
	}
	for _, t := range snap.Text {
		b, h, err := layoutBlock(t, s, o.metrics)
		if err != nil {
			out.skip(t.Name, err)
			continue
		}
		out.Nodes = append(out.Nodes, Node{
			Block:       b,
			FontFamily:  t.FontFamily,
			Color:       t.Color,
			BorderColor: t.BorderColor,
			TextShadow:  TextShadow(float64(t.BorderWidth)*s, t.BorderColor),
			MinHeight:   b.FontSize,
		})
		out.heights[t.Name] = h
	}

	if snap.Drawing != nil {
		out.Drawing = &DrawingNode{Image: snap.Drawing.Bitmap, Version: snap.Drawing.Version}
	}
	return out, nil
}

// TextShadow returns a CSS text-shadow list with one hard shadow per
// diagonal at the given offset, e.g. "-2px -2px 0 #000,-2px 2px 0 #000,...".
// A zero width yields "none".
func TextShadow(width float64, color string) string {
	if width <= 0 {
		return "none"
	}
	parts := make([]string, len(shadowDirections))
	for i, d := range shadowDirections {
		parts[i] = fmt.Sprintf("%spx %spx 0 %s", num(d[0]*width), num(d[1]*width), color)
	}
	return strings.Join(parts, ",")
}

// num formats a CSS number without trailing zeros.
func num(v float64) string {
	s := fmt.Sprintf("%.2f", v)
	s = strings.TrimRight(s, "0")
	s = strings.TrimSuffix(s, ".")
	if s == "-0" {
		return "0"
	}
	return s
}
