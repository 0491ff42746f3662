// Package pkg provides the core libraries for memegen caption editing.
//
// # Overview
//
// Memegen lays out outlined captions over a base image, keeps a freehand
// drawing layer, and composites everything at native resolution for export.
// The pkg directory is organized bottom to top:
//
//  1. [errors], [scale], [textlayout] - Error codes, display/native
//     coordinate mapping, and word wrapping
//  2. [layer] - The ordered layer store and the ink surface
//  3. [fonts], [render], [composite] - Font lookup, the overlay and raster
//     backends, and stacking order
//  4. [document], [cache], [config] - Layer documents, the export cache,
//     and TOML configuration
//  5. [editor] - The façade hosts drive
//
// # Architecture
//
// The typical data flow:
//
//	base image + captions
//	         ↓
//	    [layer] store (native-pixel geometry)
//	         ↓
//	    [render] overlay (preview) or raster (export) at scale s
//	         ↓
//	    [composite] stacking: base, text, drawing
//	         ↓
//	    PNG/JPEG/GIF/TIFF/BMP or HTML preview
//
// # Quick Start
//
//	ed, _ := editor.New(img, editor.DefaultOptions())
//	_ = ed.SetCaptions([]string{"ONE DOES NOT SIMPLY", "WALK INTO MORDOR"})
//	out, _ := ed.Export(ctx, editor.FormatPNG)
//	os.WriteFile("meme.png", out.Data, 0o644)
//
// Save and restore the layers:
//
//	_ = document.ExportJSON(ed.Serialize(), "meme.json")
//	doc, _ := document.ImportJSON("meme.json")
//	warnings, _ := ed.Deserialize(doc)
//
// # Testing
//
//	go test ./pkg/...          # All tests
//	go test ./pkg/editor/...   # Specific package
//	go test -run Example       # Examples only
//
// [errors]: https://pkg.go.dev/github.com/matzehuels/memegen/pkg/errors
// [scale]: https://pkg.go.dev/github.com/matzehuels/memegen/pkg/scale
// [textlayout]: https://pkg.go.dev/github.com/matzehuels/memegen/pkg/textlayout
// [layer]: https://pkg.go.dev/github.com/matzehuels/memegen/pkg/layer
// [fonts]: https://pkg.go.dev/github.com/matzehuels/memegen/pkg/fonts
// [render]: https://pkg.go.dev/github.com/matzehuels/memegen/pkg/render
// [composite]: https://pkg.go.dev/github.com/matzehuels/memegen/pkg/composite
// [document]: https://pkg.go.dev/github.com/matzehuels/memegen/pkg/document
// [cache]: https://pkg.go.dev/github.com/matzehuels/memegen/pkg/cache
// [config]: https://pkg.go.dev/github.com/matzehuels/memegen/pkg/config
// [editor]: https://pkg.go.dev/github.com/matzehuels/memegen/pkg/editor
package pkg
