package server

import (
	"github.com/matzehuels/memegen/pkg/errors"
	"github.com/matzehuels/memegen/pkg/layer"
	"github.com/matzehuels/memegen/pkg/render"
)

// layerJSON describes a text or drawing layer in compositing order.
type layerJSON struct {
	Type        string  `json:"type"`
	Name        string  `json:"name,omitempty"`
	Placeholder string  `json:"placeholder,omitempty"`
	Text        string  `json:"text"`
	X           int     `json:"x"`
	Y           int     `json:"y"`
	MaxWidth    int     `json:"maxWidth,omitempty"`
	Height      int     `json:"height,omitempty"`
	FontSize    int     `json:"fontSize,omitempty"`
	LineHeight  float64 `json:"lineHeight,omitempty"`
	Font        string  `json:"font,omitempty"`
	Color       string  `json:"color,omitempty"`
	BorderColor string  `json:"borderColor,omitempty"`
	BorderWidth int     `json:"borderWidth,omitempty"`
	Version     uint64  `json:"version,omitempty"`
}

func layersJSON(snap layer.Snapshot) []layerJSON {
	all := snap.Layers()
	out := make([]layerJSON, 0, len(all))
	for _, l := range all {
		switch l := l.(type) {
		case layer.TextLayer:
			out = append(out, textJSON(l))
		case layer.DrawingLayer:
			out = append(out, layerJSON{Type: string(layer.KindDrawing), Version: l.Version})
		}
	}
	return out
}

func textJSON(t layer.TextLayer) layerJSON {
	return layerJSON{
		Type:        string(layer.KindText),
		Name:        t.Name,
		Placeholder: t.Placeholder,
		Text:        t.Text,
		X:           t.X,
		Y:           t.Y,
		MaxWidth:    t.MaxWidth,
		Height:      t.Height,
		FontSize:    t.FontSize,
		LineHeight:  t.LineHeight,
		Font:        t.FontFamily,
		Color:       t.Color,
		BorderColor: t.BorderColor,
		BorderWidth: t.BorderWidth,
	}
}

// patchJSON is a partial text layer; absent fields stay unchanged.
type patchJSON struct {
	Placeholder *string  `json:"placeholder"`
	Text        *string  `json:"text"`
	X           *int     `json:"x"`
	Y           *int     `json:"y"`
	MaxWidth    *int     `json:"maxWidth"`
	FontSize    *int     `json:"fontSize"`
	LineHeight  *float64 `json:"lineHeight"`
	Font        *string  `json:"font"`
	Color       *string  `json:"color"`
	BorderColor *string  `json:"borderColor"`
	BorderWidth *int     `json:"borderWidth"`
}

func (p patchJSON) patch() layer.TextPatch {
	return layer.TextPatch{
		Placeholder: p.Placeholder,
		Text:        p.Text,
		X:           p.X,
		Y:           p.Y,
		MaxWidth:    p.MaxWidth,
		FontSize:    p.FontSize,
		LineHeight:  p.LineHeight,
		FontFamily:  p.Font,
		Color:       p.Color,
		BorderColor: p.BorderColor,
		BorderWidth: p.BorderWidth,
	}
}

type rectJSON struct {
	X      int `json:"x"`
	Y      int `json:"y"`
	Width  int `json:"width"`
	Height int `json:"height"`
}

// createJSON is the body of POST /layers. Position is a preset such as
// "bottom center"; Rect overrides it.
type createJSON struct {
	patchJSON
	Position string    `json:"position"`
	Rect     *rectJSON `json:"rect"`
}

type sessionJSON struct {
	ID     string      `json:"id"`
	Width  int         `json:"width"`
	Height int         `json:"height"`
	Scale  float64     `json:"scale"`
	Layers []layerJSON `json:"layers"`
}

type warningJSON struct {
	Layer string      `json:"layer"`
	Code  errors.Code `json:"code"`
	Error string      `json:"error"`
}

func warningsJSON(ws []errors.Warning) []warningJSON {
	out := make([]warningJSON, len(ws))
	for i, w := range ws {
		out[i] = warningJSON{Layer: w.Layer, Code: errors.GetCode(w.Err), Error: errors.UserMessage(w.Err)}
	}
	return out
}

type nodeJSON struct {
	Name        string   `json:"name"`
	Left        float64  `json:"left"`
	Top         float64  `json:"top"`
	Width       float64  `json:"width"`
	Height      float64  `json:"height"`
	MinHeight   float64  `json:"minHeight"`
	FontSize    float64  `json:"fontSize"`
	LineHeight  float64  `json:"lineHeight"`
	Lines       []string `json:"lines"`
	Font        string   `json:"font"`
	Color       string   `json:"color"`
	BorderColor string   `json:"borderColor"`
	TextShadow  string   `json:"textShadow"`
	ZIndex      int      `json:"zIndex"`
}

type drawingJSON struct {
	Version uint64 `json:"version"`
	ZIndex  int    `json:"zIndex"`
}

type previewJSON struct {
	Scale    float64       `json:"scale"`
	Width    int           `json:"width"`
	Height   int           `json:"height"`
	Nodes    []nodeJSON    `json:"nodes"`
	Drawing  *drawingJSON  `json:"drawing,omitempty"`
	Warnings []warningJSON `json:"warnings"`
}

func overlayJSON(out *render.OverlayOutput) previewJSON {
	p := previewJSON{
		Scale:    out.Scale,
		Width:    out.Size.X,
		Height:   out.Size.Y,
		Nodes:    make([]nodeJSON, len(out.Nodes)),
		Warnings: warningsJSON(out.Warnings()),
	}
	for i, n := range out.Nodes {
		p.Nodes[i] = nodeJSON{
			Name:        n.Name,
			Left:        n.Left,
			Top:         n.Top,
			Width:       n.Width,
			Height:      n.Height,
			MinHeight:   n.MinHeight,
			FontSize:    n.FontSize,
			LineHeight:  n.LineHeight,
			Lines:       n.Lines,
			Font:        n.FontFamily,
			Color:       n.Color,
			BorderColor: n.BorderColor,
			TextShadow:  n.TextShadow,
			ZIndex:      n.ZIndex,
		}
	}
	if out.Drawing != nil {
		p.Drawing = &drawingJSON{Version: out.Drawing.Version, ZIndex: out.Drawing.ZIndex}
	}
	return p
}
