package editor_test

import (
	"context"
	"fmt"
	"image/color"
	"io"

	"github.com/charmbracelet/log"
	"github.com/disintegration/imaging"

	"github.com/matzehuels/memegen/pkg/editor"
	"github.com/matzehuels/memegen/pkg/fonts"
	"github.com/matzehuels/memegen/pkg/layer"
)

func Example() {
	opts := editor.DefaultOptions()
	opts.Fonts = fonts.NewResolver(fonts.WithoutSystemFonts())
	opts.Logger = log.New(io.Discard)
	opts.Captions = []string{"one does not simply", "walk into mordor"}

	ed, err := editor.New(imaging.New(600, 400, color.Black), opts)
	if err != nil {
		panic(err)
	}
	name, _ := ed.CreateTextLayer("", editor.At("center center"), layer.TextPatch{
		Text:     layer.Ptr("or does he"),
		FontSize: layer.Ptr(24),
	})
	if _, err := ed.RenderPreview(context.Background()); err != nil {
		panic(err)
	}

	for _, l := range ed.Layers().Text {
		fmt.Printf("%s %q y=%d\n", l.Name, l.Text, l.Y)
	}
	fmt.Println("new:", name)
	// Output:
	// layer1 "ONE DOES NOT SIMPLY" y=0
	// layer2 "WALK INTO MORDOR" y=350
	// layer3 "OR DOES HE" y=200
	// new: layer3
}
