package cli

import (
	"bytes"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/matzehuels/memegen/pkg/editor"
	"github.com/matzehuels/memegen/pkg/errors"
)

const (
	previewOverlay = "overlay"
	previewRaster  = "raster"

	defaultPreviewWidth = 600
)

// previewOptions holds CLI flags for the preview command.
type previewOptions struct {
	doc    string
	top    string
	bottom string
	width  float64
	mode   string
	output string
}

// previewCommand creates the preview command for scaled output.
func (c *CLI) previewCommand() *cobra.Command {
	opts := previewOptions{width: defaultPreviewWidth, mode: previewOverlay}

	cmd := &cobra.Command{
		Use:   "preview [image]",
		Short: "Write a scaled HTML overlay or PNG preview",
		Long: `Render the layers at display width.

The overlay mode writes a standalone HTML page with CSS-positioned captions
over the base image, the way a browser editor shows them. The raster mode
flattens everything into a PNG at the same scale.`,
		Example: `  memegen preview cat.jpg --top "HELLO" --width 400
  memegen preview cat.jpg --doc cat.json --mode raster -o preview.png`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runPreview(cmd, args[0], opts)
		},
	}

	cmd.Flags().StringVar(&opts.doc, "doc", "", "layer document (JSON)")
	cmd.Flags().StringVar(&opts.top, "top", "", "top caption")
	cmd.Flags().StringVar(&opts.bottom, "bottom", "", "bottom caption")
	cmd.Flags().Float64VarP(&opts.width, "width", "w", opts.width, "display width in pixels")
	cmd.Flags().StringVarP(&opts.mode, "mode", "m", opts.mode, "preview mode: overlay (HTML) or raster (PNG)")
	cmd.Flags().StringVarP(&opts.output, "output", "o", "", "output file (default: <image>-preview.<ext>)")

	return cmd
}

func (c *CLI) runPreview(cmd *cobra.Command, input string, opts previewOptions) error {
	ctx := cmd.Context()
	logger := loggerFromContext(ctx)
	prog := newProgress(logger)

	if err := errors.ValidatePositive("width", opts.width); err != nil {
		return err
	}
	ext := ".html"
	switch opts.mode {
	case previewOverlay:
	case previewRaster:
		ext = editor.FormatPNG.Extension()
	default:
		return errors.New(errors.ErrCodeInvalidInput, "unknown preview mode %q (want %s or %s)", opts.mode, previewOverlay, previewRaster)
	}

	ed, err := c.newEditor(ctx, editorInput{
		image:    input,
		doc:      opts.doc,
		captions: captions(opts.top, opts.bottom),
		width:    opts.width,
		noCache:  true,
	})
	if err != nil {
		return err
	}

	var buf bytes.Buffer
	var warnings []errors.Warning
	if opts.mode == previewRaster {
		out, err := ed.PreviewPNG(ctx)
		if err != nil {
			return err
		}
		warnings = out.Warnings
		buf.Write(out.Data)
	} else {
		out, err := ed.RenderPreview(ctx)
		if err != nil {
			return err
		}
		warnings = out.Warnings()
		if err := out.HTML(&buf, ed.Base()); err != nil {
			return fmt.Errorf("write overlay: %w", err)
		}
	}
	for _, w := range warnings {
		printWarning("%s", w)
	}

	path := opts.output
	if path == "" {
		path = outputPath(input, "-preview", ext)
	}
	if err := os.WriteFile(path, buf.Bytes(), 0o644); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}

	printSuccess("Preview written (%s, scale %.3g)", opts.mode, ed.Scale())
	printFile(path)
	printNextStep("Full resolution", "memegen export "+input)
	prog.done("previewed", "mode", opts.mode, "width", opts.width)
	return nil
}
