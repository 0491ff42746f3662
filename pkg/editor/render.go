package editor

import (
	"bytes"
	"context"
	"image"
	"io"
	"time"

	"github.com/disintegration/imaging"

	"github.com/matzehuels/memegen/pkg/cache"
	"github.com/matzehuels/memegen/pkg/composite"
	"github.com/matzehuels/memegen/pkg/document"
	"github.com/matzehuels/memegen/pkg/errors"
	"github.com/matzehuels/memegen/pkg/observability"
	"github.com/matzehuels/memegen/pkg/render"
)

// Render backends, as reported to the render hooks.
const (
	BackendOverlay = "overlay"
	BackendRaster  = "raster"
)

// Export is an encoded full-resolution image.
type Export struct {
	Data        []byte
	Format      Format
	ContentType string
	Warnings    []errors.Warning // Empty when served from cache
	Cached      bool
}

// =============================================================================
// Preview
// =============================================================================

// Render lays out every text layer at scale s for a live overlay preview and
// assigns z-indices. Derived heights are written back to the store.
func (e *Editor) Render(ctx context.Context, s float64) (*render.OverlayOutput, error) {
	snap := e.store.ListLayers()
	start := time.Now()
	observability.Render().OnRenderStart(ctx, BackendOverlay, len(snap.Text))
	out, err := e.overlay.RenderOverlay(snap, s)
	observability.Render().OnRenderComplete(ctx, BackendOverlay, time.Since(start), err)
	if err != nil {
		return nil, err
	}
	composite.AssignZ(out)
	e.finish(ctx, BackendOverlay, out)
	return out, nil
}

// RenderPreview renders the overlay at the current display scale.
func (e *Editor) RenderPreview(ctx context.Context) (*render.OverlayOutput, error) {
	return e.Render(ctx, e.Scale())
}

// RenderRaster flattens the base image and every layer at scale s onto a new
// canvas.
func (e *Editor) RenderRaster(ctx context.Context, s float64) (*image.NRGBA, []errors.Warning, error) {
	snap := e.store.ListLayers()
	start := time.Now()
	observability.Render().OnRenderStart(ctx, BackendRaster, len(snap.Text))
	out, err := e.raster.RenderRaster(snap, s)
	observability.Render().OnRenderComplete(ctx, BackendRaster, time.Since(start), err)
	if err != nil {
		return nil, nil, err
	}
	e.finish(ctx, BackendRaster, out)
	return composite.Flatten(e.base, out), out.Warnings(), nil
}

// finish writes derived heights back and reports skipped layers.
func (e *Editor) finish(ctx context.Context, backend string, out render.Output) {
	e.store.SetHeights(out.Heights())
	for _, w := range out.Warnings() {
		e.logger.Warn("skipped layer", "backend", backend, "layer", w.Layer, "err", w.Err)
		observability.Render().OnLayerSkipped(ctx, backend, w.Layer, w.Err)
	}
}

// =============================================================================
// Export
// =============================================================================

// Export renders at native resolution and encodes the result. An empty format
// uses the configured default. Results are served from the cache when the
// base image, document, ink and format all match a previous export. Derived
// heights are written back on a hit as well.
func (e *Editor) Export(ctx context.Context, format Format) (*Export, error) {
	if format == "" {
		format = e.opts.Format
	}
	enc, ok := ValidFormats[format]
	if !ok {
		return nil, errors.New(errors.ErrCodeInvalidFormat, "unsupported export format %q", format)
	}

	key, err := e.exportKey(format)
	if err != nil {
		return nil, err
	}
	if data, hit, err := e.cache.Get(ctx, key); err != nil {
		e.logger.Warn("export cache read failed", "err", err)
	} else if hit {
		e.logger.Debug("export cache hit", "format", format)
		// Heights come from layout, which a hit would otherwise skip.
		if _, err := e.Render(ctx, 1.0); err != nil {
			return nil, err
		}
		return &Export{Data: data, Format: format, ContentType: format.ContentType(), Cached: true}, nil
	}

	img, warnings, err := e.RenderRaster(ctx, 1.0)
	if err != nil {
		return nil, err
	}
	var buf bytes.Buffer
	if err := imaging.Encode(&buf, img, enc, imaging.JPEGQuality(e.opts.JPEGQuality)); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInternal, err, "encode %s", format)
	}
	data := buf.Bytes()

	if err := e.cache.Set(ctx, key, data, e.opts.CacheTTL); err != nil {
		e.logger.Warn("export cache write failed", "err", err)
	}
	e.logger.Debug("exported image", "format", format, "bytes", len(data), "warnings", len(warnings))
	return &Export{Data: data, Format: format, ContentType: format.ContentType(), Warnings: warnings}, nil
}

// ExportRaster writes the encoded full-resolution image to w.
func (e *Editor) ExportRaster(ctx context.Context, w io.Writer, format Format) ([]errors.Warning, error) {
	out, err := e.Export(ctx, format)
	if err != nil {
		return nil, err
	}
	if _, err := w.Write(out.Data); err != nil {
		return nil, err
	}
	return out.Warnings, nil
}

// PreviewPNG flattens the layers at the display scale and encodes a PNG.
// Previews are cached per display width like exports.
func (e *Editor) PreviewPNG(ctx context.Context) (*Export, error) {
	width := e.Transform().DisplaySize().X
	key, err := e.previewKey(width)
	if err != nil {
		return nil, err
	}
	if data, hit, err := e.cache.Get(ctx, key); err != nil {
		e.logger.Warn("preview cache read failed", "err", err)
	} else if hit {
		return &Export{Data: data, Format: FormatPNG, ContentType: FormatPNG.ContentType(), Cached: true}, nil
	}

	img, warnings, err := e.RenderRaster(ctx, e.Scale())
	if err != nil {
		return nil, err
	}
	var buf bytes.Buffer
	if err := imaging.Encode(&buf, img, imaging.PNG); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInternal, err, "encode preview")
	}
	data := buf.Bytes()
	if err := e.cache.Set(ctx, key, data, e.opts.CacheTTL); err != nil {
		e.logger.Warn("preview cache write failed", "err", err)
	}
	return &Export{Data: data, Format: FormatPNG, ContentType: FormatPNG.ContentType(), Warnings: warnings}, nil
}

// contentHashes returns the base, document and ink hashes of the current
// state. The ink hash is empty without a drawing layer.
func (e *Editor) contentHashes() (base, doc, ink string, above bool, err error) {
	snap := e.store.ListLayers()
	data, err := document.Marshal(document.Serialize(snap))
	if err != nil {
		return "", "", "", false, err
	}
	if e.baseHash == "" {
		e.baseHash = cache.HashImage(e.base)
	}
	if snap.Drawing != nil {
		ink = cache.HashImage(snap.Drawing.Bitmap)
	}
	return e.baseHash, cache.Hash(data), ink, snap.DrawingAboveText, nil
}

func (e *Editor) exportKey(format Format) (string, error) {
	base, doc, ink, above, err := e.contentHashes()
	if err != nil {
		return "", err
	}
	opts := cache.ExportKeyOpts{
		BaseHash:     base,
		DocumentHash: doc,
		InkHash:      ink,
		DrawingAbove: above,
		Format:       string(format),
	}
	if format == FormatJPEG {
		opts.Quality = e.opts.JPEGQuality
	}
	return e.keyer.ExportKey(opts), nil
}

func (e *Editor) previewKey(width int) (string, error) {
	base, doc, ink, above, err := e.contentHashes()
	if err != nil {
		return "", err
	}
	return e.keyer.PreviewKey(cache.PreviewKeyOpts{
		BaseHash:     base,
		DocumentHash: doc,
		InkHash:      ink,
		DrawingAbove: above,
		Mode:         BackendRaster,
		Width:        width,
	}), nil
}
