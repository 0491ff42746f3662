package textlayout

import (
	"math"
	"strings"

	"golang.org/x/image/font"
)

// Measurer reports the rendered width of a candidate line in pixels.
type Measurer interface {
	Measure(s string) float64
}

// MeasureFunc adapts a plain function to [Measurer].
type MeasureFunc func(s string) float64

// Measure calls f(s).
func (f MeasureFunc) Measure(s string) float64 { return f(s) }

// Metrics hands out measurers for a font family at a pixel size.
// The font resolver implements it; tests substitute fixed-advance metrics.
type Metrics interface {
	Measurer(family string, size float64) (Measurer, error)
}

// Wrap breaks text into lines narrower than maxWidth using m to measure.
// It never returns zero lines; empty text yields a single empty line.
func Wrap(text string, maxWidth float64, m Measurer) []string {
	words := strings.Split(text, " ")
	lines := make([]string, 0, 1+len(words)/4)
	current := words[0]

	for _, word := range words[1:] {
		tentative := current + " " + word
		if m.Measure(tentative) < maxWidth {
			current = tentative
			continue
		}
		lines = append(lines, current)
		current = word
	}

	return append(lines, current)
}

// Height returns the derived box height for n wrapped lines.
func Height(lines int, fontSize, lineHeight float64) int {
	return int(math.Round(float64(lines) * lineHeight * fontSize))
}

// FixedAdvance measures every rune as advance pixels wide.
// It is a deterministic stand-in for real font metrics.
type FixedAdvance float64

// Measure returns the rune count times the advance.
func (a FixedAdvance) Measure(s string) float64 {
	return float64(len([]rune(s))) * float64(a)
}

// FaceMeasurer measures strings with a font face's glyph advances.
type FaceMeasurer struct {
	Face font.Face
}

// Measure returns the advance width of s in pixels.
func (m FaceMeasurer) Measure(s string) float64 {
	return float64(font.MeasureString(m.Face, s)) / 64
}

// FixedMetrics hands out [FixedAdvance] measurers whose advance is a fixed
// fraction of the font size, for every family. Widths scale linearly with the
// size, which makes layouts exactly proportional across display scales.
type FixedMetrics float64

// Measurer implements [Metrics].
func (r FixedMetrics) Measurer(_ string, size float64) (Measurer, error) {
	return FixedAdvance(float64(r) * size), nil
}
