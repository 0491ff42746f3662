package textlayout

import (
	"reflect"
	"strings"
	"testing"

	"golang.org/x/image/font/basicfont"
)

// nineWide returns 9 pixels per character, spaces included.
var nineWide = MeasureFunc(func(s string) float64 { return 9 * float64(len(s)) })

func TestWrap(t *testing.T) {
	tests := []struct {
		name     string
		text     string
		maxWidth float64
		want     []string
	}{
		{"empty text", "", 100, []string{""}},
		{"single word", "HELLO", 100, []string{"HELLO"}},
		{"hello world foo", "HELLO WORLD FOO", 100, []string{"HELLO WORLD", "FOO"}},
		{"hello world foo narrow", "HELLO WORLD FOO", 90, []string{"HELLO", "WORLD FOO"}},
		{"all fits", "A B C", 100, []string{"A B C"}},
		{"long word alone", "SUPERCALIFRAGILISTIC", 100, []string{"SUPERCALIFRAGILISTIC"}},
		{"long word in the middle", "A SUPERCALIFRAGILISTIC B", 100, []string{"A", "SUPERCALIFRAGILISTIC", "B"}},
		{"exact boundary rejected", "ABCD EFGHI", 90, []string{"ABCD", "EFGHI"}},
		{"double space keeps empty word", "A  B", 100, []string{"A  B"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Wrap(tt.text, tt.maxWidth, nineWide)
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("Wrap(%q, %v) = %q, want %q", tt.text, tt.maxWidth, got, tt.want)
			}
		})
	}
}

func TestWrapLinesFit(t *testing.T) {
	texts := []string{
		"ONE DOES NOT SIMPLY WALK INTO MORDOR",
		"I HAVE NO IDEA WHAT I AM DOING",
		"A",
		"X XX XXX XXXX XXXXX XXXXXX XXXXXXX XXXXXXXX XXXXXXXXX XXXXXXXXXXXXXXXXXXXX",
	}
	for _, text := range texts {
		for _, maxWidth := range []float64{30, 100, 250, 1000} {
			lines := Wrap(text, maxWidth, nineWide)
			if len(lines) == 0 {
				t.Fatalf("Wrap(%q, %v) returned zero lines", text, maxWidth)
			}
			if got := strings.Join(lines, " "); got != text {
				t.Errorf("Wrap(%q, %v) lost words: %q", text, maxWidth, got)
			}
			for i, line := range lines {
				if nineWide(line) < maxWidth {
					continue
				}
				// Only a single unsplittable word may overflow.
				if strings.Contains(line, " ") {
					t.Errorf("Wrap(%q, %v) line %d %q overflows with %v", text, maxWidth, i, line, nineWide(line))
				}
			}
		}
	}
}

func TestHeight(t *testing.T) {
	tests := []struct {
		lines      int
		fontSize   float64
		lineHeight float64
		want       int
	}{
		{1, 42, 1.2, 50},
		{2, 42, 1.2, 101},
		{3, 20, 1.0, 60},
		{1, 0, 1.2, 0},
	}
	for _, tt := range tests {
		if got := Height(tt.lines, tt.fontSize, tt.lineHeight); got != tt.want {
			t.Errorf("Height(%d, %v, %v) = %d, want %d", tt.lines, tt.fontSize, tt.lineHeight, got, tt.want)
		}
	}
}

func TestFixedAdvance(t *testing.T) {
	if got := FixedAdvance(9).Measure("HELLO"); got != 45 {
		t.Errorf("Measure(HELLO) = %v, want 45", got)
	}
	if got := FixedAdvance(10).Measure("ÄÖÜ"); got != 30 {
		t.Errorf("Measure counts runes, got %v, want 30", got)
	}
}

func TestFaceMeasurer(t *testing.T) {
	m := FaceMeasurer{Face: basicfont.Face7x13}
	if got := m.Measure("HELLO"); got != 35 {
		t.Errorf("Measure(HELLO) = %v, want 35", got)
	}
	if got := m.Measure(""); got != 0 {
		t.Errorf("Measure(\"\") = %v, want 0", got)
	}
}

func TestFixedMetrics(t *testing.T) {
	m, err := FixedMetrics(0.5).Measurer("Impact", 20)
	if err != nil {
		t.Fatal(err)
	}
	if got := m.Measure("ABCD"); got != 40 {
		t.Errorf("Measure(ABCD) at 20px = %v, want 40", got)
	}
}
