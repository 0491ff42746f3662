package document

import (
	"encoding/json"
	"fmt"
	"image"
	"math"
	"slices"
	"strconv"
	"strings"

	"github.com/matzehuels/memegen/pkg/errors"
	"github.com/matzehuels/memegen/pkg/layer"
)

// Record types.
const (
	TypeText    = "text"
	TypeDrawing = "drawing"
)

// Document is an ordered list of layer records.
type Document []Record

// Record is one serialized layer. Pointer fields distinguish absent values
// from zero values on input.
type Record struct {
	Type        string  `json:"type"`
	Name        string  `json:"name,omitempty"`
	Text        *string `json:"text,omitempty"`
	X           *Number `json:"x,omitempty"`
	Y           *Number `json:"y,omitempty"`
	MaxWidth    *Number `json:"maxWidth,omitempty"`
	FontSize    *Number `json:"fontSize,omitempty"`
	LineHeight  *Number `json:"lineHeight,omitempty"`
	Font        *string `json:"font,omitempty"`
	Color       *string `json:"color,omitempty"`
	BorderColor *string `json:"borderColor,omitempty"`
	BorderWidth *Number `json:"borderWidth,omitempty"`
}

// Number is a JSON number that also accepts a numeric string on input.
// It always encodes as a plain number.
type Number float64

// UnmarshalJSON implements [json.Unmarshaler].
func (n *Number) UnmarshalJSON(b []byte) error {
	s := string(b)
	if strings.HasPrefix(s, `"`) {
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
		s = strings.TrimSpace(s)
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return fmt.Errorf("invalid number %s", b)
	}
	*n = Number(v)
	return nil
}

func num(v float64) *Number {
	n := Number(v)
	return &n
}

// Serialize converts a snapshot to a document. The drawing record, if any, is
// placed at its compositing position.
func Serialize(snap layer.Snapshot) Document {
	doc := make(Document, 0, len(snap.Text)+1)
	for _, l := range snap.Layers() {
		switch l := l.(type) {
		case layer.TextLayer:
			doc = append(doc, textRecord(l))
		case layer.DrawingLayer:
			doc = append(doc, Record{Type: TypeDrawing})
		}
	}
	return doc
}

func textRecord(t layer.TextLayer) Record {
	return Record{
		Type:        TypeText,
		Name:        t.Name,
		Text:        &t.Text,
		X:           num(float64(t.X)),
		Y:           num(float64(t.Y)),
		MaxWidth:    num(float64(t.MaxWidth)),
		FontSize:    num(float64(t.FontSize)),
		LineHeight:  num(t.LineHeight),
		Font:        &t.FontFamily,
		Color:       &t.Color,
		BorderColor: &t.BorderColor,
		BorderWidth: num(float64(t.BorderWidth)),
	}
}

// Decode reconstructs the text layers of doc. Fields missing from a record
// default to style, and a missing maxWidth spans the native width.
func Decode(doc Document, native image.Point, style layer.Style) ([]layer.TextLayer, []errors.Warning, error) {
	var (
		out      []layer.TextLayer
		warnings []errors.Warning
		seen     = make(map[string]bool, len(doc))
	)

	for i := len(doc) - 1; i >= 0; i-- {
		r := doc[i]
		switch r.Type {
		case TypeText:
		case TypeDrawing:
			continue
		case "":
			return nil, nil, errors.New(errors.ErrCodeMalformedDocument, "record %d: missing type", i)
		default:
			warnings = append(warnings, errors.Warning{
				Layer: recordLabel(i, r),
				Err:   errors.New(errors.ErrCodeUnsupportedLayerKind, "unsupported layer type %q", r.Type),
			})
			continue
		}

		if err := errors.ValidateLayerName(r.Name); err != nil {
			return nil, nil, errors.Wrap(errors.ErrCodeMalformedDocument, err, "record %d", i)
		}
		if seen[r.Name] {
			return nil, nil, errors.New(errors.ErrCodeMalformedDocument, "record %d: duplicate layer name %q", i, r.Name)
		}
		seen[r.Name] = true

		t, err := r.toLayer(native, style)
		if err != nil {
			return nil, nil, errors.Wrap(errors.ErrCodeMalformedDocument, err, "record %d", i)
		}
		out = slices.Insert(out, 0, t)
	}
	slices.Reverse(warnings)
	return out, warnings, nil
}

func (r Record) toLayer(native image.Point, st layer.Style) (layer.TextLayer, error) {
	t := layer.TextLayer{
		Name:        r.Name,
		Text:        str(r.Text, ""),
		LineHeight:  float(r.LineHeight, st.LineHeight),
		FontFamily:  str(r.Font, st.FontFamily),
		Color:       str(r.Color, st.Color),
		BorderColor: str(r.BorderColor, st.BorderColor),
	}
	ints := []struct {
		field string
		src   *Number
		def   int
		dst   *int
	}{
		{"x", r.X, 0, &t.X},
		{"y", r.Y, 0, &t.Y},
		{"maxWidth", r.MaxWidth, native.X, &t.MaxWidth},
		{"fontSize", r.FontSize, st.FontSize, &t.FontSize},
		{"borderWidth", r.BorderWidth, st.BorderWidth, &t.BorderWidth},
	}
	for _, f := range ints {
		v, err := integer(f.field, f.src, f.def)
		if err != nil {
			return layer.TextLayer{}, err
		}
		*f.dst = v
	}
	return t, nil
}

// Deserialize builds a new store from doc.
func Deserialize(doc Document, native image.Point, opts layer.Options) (*layer.Store, []errors.Warning, error) {
	text, warnings, err := Decode(doc, native, opts.Style)
	if err != nil {
		return nil, nil, err
	}
	s, err := layer.NewStore(native, opts)
	if err != nil {
		return nil, nil, err
	}
	if err := s.ReplaceText(text); err != nil {
		return nil, nil, errors.Wrap(errors.ErrCodeMalformedDocument, err, "invalid layer")
	}
	return s, warnings, nil
}

// Marshal encodes doc as compact JSON.
func Marshal(doc Document) ([]byte, error) {
	if doc == nil {
		doc = Document{}
	}
	return json.Marshal(doc)
}

// Unmarshal decodes a JSON document.
func Unmarshal(data []byte) (Document, error) {
	var doc Document
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, errors.Wrap(errors.ErrCodeMalformedDocument, err, "decode document")
	}
	if doc == nil {
		return nil, errors.New(errors.ErrCodeMalformedDocument, "document must be an array of records")
	}
	return doc, nil
}

func recordLabel(i int, r Record) string {
	if r.Name != "" {
		return r.Name
	}
	return "#" + strconv.Itoa(i)
}

func str(p *string, def string) string {
	if p == nil {
		return def
	}
	return *p
}

// integer rounds p to a pixel value. Values outside the int32 range are
// rejected so the result is the same on every platform.
func integer(field string, p *Number, def int) (int, error) {
	if p == nil {
		return def, nil
	}
	v := math.Round(float64(*p))
	if math.IsNaN(v) || math.Abs(v) > math.MaxInt32 {
		return 0, errors.New(errors.ErrCodeMalformedDocument, "%s %v is out of range", field, float64(*p))
	}
	return int(v), nil
}

func float(p *Number, def float64) float64 {
	if p == nil {
		return def
	}
	return float64(*p)
}
