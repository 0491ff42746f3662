// Package config loads memegen settings from TOML files.
//
// A file only needs the keys it changes; everything else keeps the value
// from [Default]:
//
//	[text]
//	font = "Anton, Impact"
//	size = 48
//
//	[limits]
//	max_font_size = 96
//
//	[export]
//	format = "jpeg"
//	jpeg_quality = 85
//
//	[server]
//	addr = ":9000"
//	redis = "localhost:6379"
//	key_prefix = "memegen:staging:"
//	cache_ttl = "2h"
package config

import (
	"fmt"
	"os"
	"time"

	"github.com/BurntSushi/toml"

	"github.com/matzehuels/memegen/pkg/editor"
	"github.com/matzehuels/memegen/pkg/errors"
	"github.com/matzehuels/memegen/pkg/layer"
)

// Config is the complete configuration.
type Config struct {
	Text    Text    `toml:"text"`
	Drawing Drawing `toml:"drawing"`
	Limits  Limits  `toml:"limits"`
	Editor  Editor  `toml:"editor"`
	Export  Export  `toml:"export"`
	Server  Server  `toml:"server"`
}

// Text holds the defaults of new text layers.
type Text struct {
	Color          string  `toml:"color"`
	Size           int     `toml:"size"`
	LineHeight     float64 `toml:"line_height"`
	Font           string  `toml:"font"`
	ForceUppercase bool    `toml:"force_uppercase"`
	BorderColor    string  `toml:"border_color"`
	BorderWidth    int     `toml:"border_width"`
}

// Drawing holds the pen and placement of the drawing layer.
type Drawing struct {
	Color     string  `toml:"color"`
	LineWidth float64 `toml:"line_width"`
	AboveText bool    `toml:"above_text"`
}

// Limits bound font size and border width; see [editor.Limits].
type Limits struct {
	MinFontSize    int `toml:"min_font_size"`
	MaxFontSize    int `toml:"max_font_size"`
	MinBorderWidth int `toml:"min_border_width"`
	MaxBorderWidth int `toml:"max_border_width"`
}

// Editor holds session behavior.
type Editor struct {
	DragResize       bool     `toml:"drag_resize"`
	DefaultTextboxes bool     `toml:"default_textboxes"`
	Captions         []string `toml:"captions"`
}

// Export holds the default output encoding.
type Export struct {
	Format      string `toml:"format"`
	JPEGQuality int    `toml:"jpeg_quality"`
}

// Server holds HTTP API settings.
type Server struct {
	Addr       string        `toml:"addr"`
	Redis      string        `toml:"redis"`
	KeyPrefix  string        `toml:"key_prefix"` // Namespace for keys in a shared redis
	CacheDir   string        `toml:"cache_dir"`
	CacheTTL   time.Duration `toml:"cache_ttl"`
	NoCache    bool          `toml:"no_cache"`
	SessionTTL time.Duration `toml:"session_ttl"`
}

// Default returns the stock configuration.
func Default() Config {
	st := layer.DefaultStyle()
	ink := layer.DefaultInkStyle()
	return Config{
		Text: Text{
			Color:          st.Color,
			Size:           st.FontSize,
			LineHeight:     st.LineHeight,
			Font:           st.FontFamily,
			ForceUppercase: true,
			BorderColor:    st.BorderColor,
			BorderWidth:    st.BorderWidth,
		},
		Drawing: Drawing{
			Color:     ink.Color,
			LineWidth: ink.LineWidth,
			AboveText: true,
		},
		Limits: Limits{
			MinFontSize:    1,
			MaxFontSize:    128,
			MinBorderWidth: 0,
			MaxBorderWidth: 10,
		},
		Editor: Editor{
			DragResize:       true,
			DefaultTextboxes: true,
		},
		Export: Export{
			Format:      string(editor.FormatPNG),
			JPEGQuality: editor.DefaultJPEGQuality,
		},
		Server: Server{
			Addr:       ":8080",
			CacheTTL:   editor.DefaultCacheTTL,
			SessionTTL: time.Hour,
		},
	}
}

// Load reads path over the defaults and validates the result.
func Load(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, err
	}
	return Parse(data)
}

// Parse decodes TOML data over the defaults and validates the result.
func Parse(data []byte) (Config, error) {
	cfg := Default()
	if err := toml.Unmarshal(data, &cfg); err != nil {
		return Config{}, errors.Wrap(errors.ErrCodeInvalidInput, err, "parse config")
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate reports the first invalid setting.
func (c Config) Validate() error {
	checks := []error{
		errors.ValidatePositive("text.size", float64(c.Text.Size)),
		errors.ValidatePositive("text.line_height", c.Text.LineHeight),
		errors.ValidateNonNegative("text.border_width", float64(c.Text.BorderWidth)),
		errors.ValidateColor(c.Text.Color),
		errors.ValidateColor(c.Text.BorderColor),
		errors.ValidateColor(c.Drawing.Color),
		errors.ValidatePositive("drawing.line_width", c.Drawing.LineWidth),
		errors.ValidateNonNegative("limits.min_font_size", float64(c.Limits.MinFontSize)),
		errors.ValidateNonNegative("limits.min_border_width", float64(c.Limits.MinBorderWidth)),
		bounds("font size", c.Limits.MinFontSize, c.Limits.MaxFontSize),
		bounds("border width", c.Limits.MinBorderWidth, c.Limits.MaxBorderWidth),
		errors.ValidateNonNegative("server.cache_ttl", float64(c.Server.CacheTTL)),
		errors.ValidateNonNegative("server.session_ttl", float64(c.Server.SessionTTL)),
	}
	for _, err := range checks {
		if err != nil {
			return err
		}
	}
	if c.Text.Font == "" {
		return errors.New(errors.ErrCodeInvalidInput, "text.font cannot be empty")
	}
	if _, err := editor.ParseFormat(c.Export.Format); err != nil {
		return err
	}
	if q := c.Export.JPEGQuality; q < 1 || q > 100 {
		return errors.New(errors.ErrCodeInvalidInput, "export.jpeg_quality must be within 1..100, got %d", q)
	}
	return nil
}

// LayerOptions converts the text and drawing sections to store options.
func (c Config) LayerOptions() layer.Options {
	return layer.Options{
		Style: layer.Style{
			FontFamily:  c.Text.Font,
			FontSize:    c.Text.Size,
			LineHeight:  c.Text.LineHeight,
			Color:       c.Text.Color,
			BorderColor: c.Text.BorderColor,
			BorderWidth: c.Text.BorderWidth,
		},
		Ink:              layer.InkStyle{Color: c.Drawing.Color, LineWidth: c.Drawing.LineWidth},
		ForceUppercase:   c.Text.ForceUppercase,
		DrawingAboveText: c.Drawing.AboveText,
	}
}

// EditorOptions converts the configuration to editor options. Fonts, cache
// and logger are left for the caller to fill in.
func (c Config) EditorOptions() editor.Options {
	opts := editor.DefaultOptions()
	opts.Layer = c.LayerOptions()
	opts.Limits = editor.Limits(c.Limits)
	opts.DragResize = c.Editor.DragResize
	opts.DefaultTextboxes = c.Editor.DefaultTextboxes
	opts.Captions = append([]string(nil), c.Editor.Captions...)
	opts.JPEGQuality = c.Export.JPEGQuality
	opts.CacheTTL = c.Server.CacheTTL
	if f, err := editor.ParseFormat(c.Export.Format); err == nil {
		opts.Format = f
	}
	return opts
}

func bounds(what string, lo, hi int) error {
	if hi != 0 && lo > hi {
		return errors.New(errors.ErrCodeInvalidInput, "min %s %d exceeds max %s %d", what, lo, what, hi)
	}
	return nil
}

// String renders the configuration back to TOML.
func (c Config) String() string {
	data, err := toml.Marshal(c)
	if err != nil {
		return fmt.Sprintf("config: %v", err)
	}
	return string(data)
}
