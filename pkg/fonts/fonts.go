// Package fonts resolves CSS-style font family lists to parsed OpenType fonts.
//
// A family list such as "Impact, Arial" is tried left to right against the
// fonts installed on the system (via go-findfont). When none is found the
// embedded Go fonts are used, so rendering works on hosts without any fonts
// installed. Heavy display families (Impact, Anton, ...) fall back to Go Bold,
// everything else to Go Regular.
//
// Parsed fonts are cached per resolver; faces are cheap and created per size.
package fonts

import (
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/flopp/go-findfont"
	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/gobold"
	"golang.org/x/image/font/gofont/goregular"
	"golang.org/x/image/font/opentype"

	"github.com/matzehuels/memegen/pkg/errors"
	"github.com/matzehuels/memegen/pkg/textlayout"
)

// DPI is fixed at 72 so that a face size in points equals its size in pixels.
const DPI = 72

// boldFamilies fall back to the embedded bold face.
var boldFamilies = map[string]bool{
	"impact":           true,
	"anton":            true,
	"haettenschweiler": true,
	"oswald":           true,
	"bebas neue":       true,
}

// Embedded fallbacks are parsed once per process.
var (
	regularFont, boldFont *opentype.Font
	embeddedErr           error
	embeddedOnce          sync.Once
)

func embedded() (regular, bold *opentype.Font, err error) {
	embeddedOnce.Do(func() {
		regularFont, embeddedErr = opentype.Parse(goregular.TTF)
		if embeddedErr != nil {
			return
		}
		boldFont, embeddedErr = opentype.Parse(gobold.TTF)
	})
	return regularFont, boldFont, embeddedErr
}

// Option configures a [Resolver].
type Option func(*Resolver)

// WithoutSystemFonts disables the system font lookup so that only the
// embedded fonts are used. Output is then identical on every host.
func WithoutSystemFonts() Option {
	return func(r *Resolver) { r.system = false }
}

// WithFinder replaces the system font lookup. The finder receives a file name
// such as "Impact.ttf" and returns a path.
func WithFinder(find func(name string) (string, error)) Option {
	return func(r *Resolver) { r.find = find }
}

// Resolver maps family lists to fonts and creates faces.
// It is safe for concurrent use.
type Resolver struct {
	system bool
	find   func(string) (string, error)

	mu     sync.Mutex
	parsed map[string]*opentype.Font // keyed by the normalized family list
}

// NewResolver creates a resolver. By default installed fonts are preferred.
func NewResolver(opts ...Option) *Resolver {
	r := &Resolver{
		system: true,
		find:   findfont.Find,
		parsed: make(map[string]*opentype.Font),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

var _ textlayout.Metrics = (*Resolver)(nil)

// Font returns the font for a family list.
func (r *Resolver) Font(family string) (*opentype.Font, error) {
	key := normalize(family)

	r.mu.Lock()
	defer r.mu.Unlock()
	if f, ok := r.parsed[key]; ok {
		return f, nil
	}

	f, err := r.resolve(key)
	if err != nil {
		return nil, err
	}
	r.parsed[key] = f
	return f, nil
}

// Face returns a face of the given pixel size. Callers own the face and should
// Close it when done.
func (r *Resolver) Face(family string, size float64) (font.Face, error) {
	if err := errors.ValidatePositive("font size", size); err != nil {
		return nil, err
	}
	f, err := r.Font(family)
	if err != nil {
		return nil, err
	}
	face, err := opentype.NewFace(f, &opentype.FaceOptions{
		Size:    size,
		DPI:     DPI,
		Hinting: font.HintingNone,
	})
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInternal, err, "create face for %q", family)
	}
	return face, nil
}

// Measurer implements [textlayout.Metrics].
func (r *Resolver) Measurer(family string, size float64) (textlayout.Measurer, error) {
	face, err := r.Face(family, size)
	if err != nil {
		return nil, err
	}
	return textlayout.FaceMeasurer{Face: face}, nil
}

func (r *Resolver) resolve(families string) (*opentype.Font, error) {
	names := splitFamilies(families)
	if r.system {
		for _, name := range names {
			if f, ok := r.lookup(name); ok {
				return f, nil
			}
		}
	}

	regular, bold, err := embedded()
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInternal, err, "parse embedded fonts")
	}
	if len(names) > 0 && boldFamilies[names[0]] {
		return bold, nil
	}
	return regular, nil
}

// lookup tries the usual file names for a family on the system.
func (r *Resolver) lookup(name string) (*opentype.Font, bool) {
	base := strings.ReplaceAll(name, " ", "")
	for _, file := range []string{name + ".ttf", base + ".ttf", base + ".otf", base + ".ttc"} {
		path, err := r.find(file)
		if err != nil {
			continue
		}
		if f, err := parseFile(path); err == nil {
			return f, true
		}
	}
	return nil, false
}

func parseFile(path string) (*opentype.Font, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	if strings.EqualFold(filepath.Ext(path), ".ttc") {
		c, err := opentype.ParseCollection(data)
		if err != nil {
			return nil, err
		}
		return c.Font(0)
	}
	return opentype.Parse(data)
}

// splitFamilies turns `Impact, "Arial Black", sans-serif` into lowercase names.
// Generic CSS families carry no file and are dropped.
func splitFamilies(list string) []string {
	var out []string
	for _, part := range strings.Split(list, ",") {
		name := strings.ToLower(strings.Trim(strings.TrimSpace(part), `"'`))
		switch name {
		case "", "serif", "sans-serif", "monospace", "cursive", "fantasy", "system-ui":
			continue
		}
		out = append(out, name)
	}
	return out
}

func normalize(list string) string {
	return strings.Join(splitFamilies(list), ",")
}
