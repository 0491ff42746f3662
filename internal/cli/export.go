package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/matzehuels/memegen/pkg/editor"
)

// exportOptions holds CLI flags for the export command.
type exportOptions struct {
	doc     string
	top     string
	bottom  string
	format  string
	output  string
	noCache bool
}

// exportCommand creates the export command for full-resolution output.
func (c *CLI) exportCommand() *cobra.Command {
	opts := exportOptions{}

	cmd := &cobra.Command{
		Use:   "export [image]",
		Short: "Render captions onto an image at full resolution",
		Long: `Render captions onto an image and write the composited result.

Captions come from --top/--bottom, a saved layer document (--doc), or both;
--top/--bottom then replace the document text in order.`,
		Example: `  memegen export cat.jpg --top "I CAN HAS" --bottom "CHEEZBURGER"
  memegen export cat.jpg --doc cat.json --format jpeg -o out.jpg`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runExport(cmd, args[0], opts)
		},
	}

	cmd.Flags().StringVar(&opts.doc, "doc", "", "layer document (JSON)")
	cmd.Flags().StringVar(&opts.top, "top", "", "top caption")
	cmd.Flags().StringVar(&opts.bottom, "bottom", "", "bottom caption")
	cmd.Flags().StringVarP(&opts.format, "format", "f", "", "output format: png, jpeg, gif, tiff, bmp (default from config)")
	cmd.Flags().StringVarP(&opts.output, "output", "o", "", "output file (default: <image>-meme.<ext>)")
	cmd.Flags().BoolVar(&opts.noCache, "no-cache", false, "disable the export cache")

	return cmd
}

func (c *CLI) runExport(cmd *cobra.Command, input string, opts exportOptions) error {
	ctx := cmd.Context()
	logger := loggerFromContext(ctx)
	prog := newProgress(logger)

	var format editor.Format
	if opts.format != "" {
		f, err := editor.ParseFormat(opts.format)
		if err != nil {
			return err
		}
		format = f
	}

	ed, err := c.newEditor(ctx, editorInput{
		image:    input,
		doc:      opts.doc,
		captions: captions(opts.top, opts.bottom),
		noCache:  opts.noCache,
	})
	if err != nil {
		return err
	}

	spinner := newSpinner(ctx, cmd.ErrOrStderr(), "Rendering...")
	spinner.Start()
	out, err := ed.Export(ctx, format)
	spinner.Stop()
	if spinner.Cancelled() {
		return ctx.Err()
	}
	if err != nil {
		return fmt.Errorf("export: %w", err)
	}
	for _, w := range out.Warnings {
		printWarning("%s", w)
	}

	path := opts.output
	if path == "" {
		path = outputPath(input, "-meme", out.Format.Extension())
	}
	if err := os.WriteFile(path, out.Data, 0o644); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}

	native := ed.Native()
	printSuccess("Exported %s", out.Format)
	printExportStats(native.X, native.Y, len(ed.Layers().Text), len(out.Data), out.Cached)
	printFile(path)
	prog.done("exported", "format", out.Format, "cached", out.Cached)
	return nil
}
