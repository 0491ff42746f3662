package editor

import (
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/memegen/pkg/cache"
	"github.com/matzehuels/memegen/pkg/layer"
	"github.com/matzehuels/memegen/pkg/render"
)

// =============================================================================
// Default Values
// =============================================================================

const (
	// DefaultJPEGQuality is used when Options.JPEGQuality is zero.
	DefaultJPEGQuality = 90

	// DefaultCacheTTL is how long cached exports live.
	DefaultCacheTTL = 24 * time.Hour
)

// Default textbox placeholders.
const (
	TopPlaceholder    = "TOP TEXT"
	BottomPlaceholder = "BOTTOM TEXT"
)

// Limits bound the font size and border width accepted from callers. Values
// outside the range are clamped. A zero maximum disables the bound.
type Limits struct {
	MinFontSize    int
	MaxFontSize    int
	MinBorderWidth int
	MaxBorderWidth int
}

// Options configures an [Editor].
type Options struct {
	Layer  layer.Options
	Limits Limits

	// DragResize enables MoveTextLayer and ResizeTextLayer.
	DragResize bool

	// DefaultTextboxes creates empty top and bottom captions on New.
	DefaultTextboxes bool

	// Captions fill the text layers in order on New; extra captions get new
	// centered layers.
	Captions []string

	// DisplayWidth is the initial on-screen width; zero means native width.
	DisplayWidth float64

	// Format and JPEGQuality are the export defaults.
	Format      Format
	JPEGQuality int

	// Fonts resolves font families. Nil uses a resolver backed by system
	// fonts with embedded fallbacks.
	Fonts render.FontSource

	// Cache stores encoded exports. Nil disables caching.
	Cache    cache.Cache
	Keyer    cache.Keyer
	CacheTTL time.Duration

	Logger *log.Logger
}

// DefaultOptions returns the classic meme setup: uppercase Impact captions,
// default top and bottom textboxes, drawing above text, PNG export.
func DefaultOptions() Options {
	return Options{
		Layer: layer.DefaultOptions(),
		Limits: Limits{
			MinFontSize:    1,
			MaxFontSize:    128,
			MinBorderWidth: 0,
			MaxBorderWidth: 10,
		},
		DragResize:       true,
		DefaultTextboxes: true,
		Format:           FormatPNG,
		JPEGQuality:      DefaultJPEGQuality,
		CacheTTL:         DefaultCacheTTL,
	}
}

// clamp applies the limits to a patch in place.
func (l Limits) clamp(p *layer.TextPatch) {
	if p.FontSize != nil && l.MaxFontSize > 0 {
		p.FontSize = layer.Ptr(min(max(*p.FontSize, l.MinFontSize), l.MaxFontSize))
	}
	if p.BorderWidth != nil && l.MaxBorderWidth > 0 {
		p.BorderWidth = layer.Ptr(min(max(*p.BorderWidth, l.MinBorderWidth), l.MaxBorderWidth))
	}
}

// clampLayer applies the limits to a decoded layer in place.
func (l Limits) clampLayer(t *layer.TextLayer) {
	p := layer.TextPatch{FontSize: &t.FontSize, BorderWidth: &t.BorderWidth}
	l.clamp(&p)
	t.FontSize, t.BorderWidth = *p.FontSize, *p.BorderWidth
}
