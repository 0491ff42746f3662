package render

import (
	"bytes"
	"image"
	"strings"
	"testing"

	"github.com/matzehuels/memegen/pkg/layer"
)

func TestOverlayHTML(t *testing.T) {
	snap := layer.Snapshot{
		Native: image.Pt(400, 300),
		Text: []layer.TextLayer{
			textLayer("layer1", "HELLO WORLD FOO", 10, 20, 100, 20),
			textLayer("layer2", "<B>", 0, 200, 400, 20),
		},
		Drawing:          &layer.DrawingLayer{Bitmap: image.NewRGBA(image.Rect(0, 0, 400, 300))},
		DrawingAboveText: true,
	}
	snap.Text[0].FontFamily = `"Arial Black", Impact`

	out, err := NewOverlay(nineWide).RenderOverlay(snap, 0.5)
	if err != nil {
		t.Fatal(err)
	}
	out.Nodes[0].ZIndex = 1
	out.Nodes[1].ZIndex = 2
	out.Drawing.ZIndex = 3

	var buf bytes.Buffer
	if err := out.HTML(&buf, image.NewRGBA(image.Rect(0, 0, 400, 300))); err != nil {
		t.Fatalf("HTML() error: %v", err)
	}
	html := buf.String()

	for _, want := range []string{
		`data-layer="layer1"`,
		`HELLO WORLD<br>FOO`,
		`&lt;B&gt;`,
		`width:200px;height:150px`,
		`left:5px;top:10px;width:50px`,
		`font-family:Arial Black, Impact`,
		`z-index:3`,
		`class="mg-base" src="data:image/png;base64,`,
		`class="mg-drawing-layer" src="data:image/png;base64,`,
	} {
		if !strings.Contains(html, want) {
			t.Errorf("HTML() missing %q\n%s", want, html)
		}
	}
	if strings.Contains(html, "ZgotmplZ") {
		t.Errorf("HTML() contains escaped-out values:\n%s", html)
	}
}

func TestOverlayHTMLWithoutImages(t *testing.T) {
	snap := layer.Snapshot{Native: image.Pt(10, 10)}
	out, err := NewOverlay(nineWide).RenderOverlay(snap, 1)
	if err != nil {
		t.Fatal(err)
	}
	var buf bytes.Buffer
	if err := out.HTML(&buf, nil); err != nil {
		t.Fatal(err)
	}
	if strings.Contains(buf.String(), "<img") {
		t.Errorf("HTML() without images = %s", buf.String())
	}
}
