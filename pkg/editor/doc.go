// Package editor is the host-facing interface of memegen.
//
// An [Editor] owns one base image and its layer store. Host UIs (the CLI, the
// HTTP API, or any widget toolkit) translate user actions into calls on it and
// re-render afterwards:
//
//	ed, err := editor.New(img, editor.DefaultOptions())
//	name, err := ed.CreateTextLayer("TOP TEXT", editor.At("top center"), layer.TextPatch{
//	    Text: layer.Ptr("one does not simply"),
//	})
//	preview, err := ed.RenderPreview(ctx)   // overlay nodes at display scale
//	err = ed.ExportRaster(ctx, w, editor.FormatPNG)
//
// # Coordinates
//
// Layer geometry is stored in native image pixels. The editor keeps the
// current display width and derives the scale from it; [Editor.MoveTextLayer]
// and [Editor.ResizeTextLayer] accept display coordinates from drag handles
// and convert them. Pointer events for the drawing layer are expected in
// native pixels.
//
// # Rendering
//
// Every render writes the derived text heights back into the store. Layers
// that cannot be rendered are skipped, logged at warn level and returned as
// warnings. Exports always render at scale 1.0 onto a canvas of their own,
// and can be cached by content hash (see [Options.Cache]).
//
// # Concurrency
//
// An Editor is not safe for concurrent use. Hosts that share one across
// goroutines must serialize access.
package editor
