// Package cli implements the memegen command-line interface.
//
// # Commands
//
//   - export: Render captions onto an image at full resolution
//   - preview: Write a scaled HTML overlay or PNG preview
//   - layers: List the layers of a saved document
//   - serve: Run the HTTP editing API
//   - cache: Manage the export cache
//
// # Logging
//
// All commands support --verbose (-v) for debug-level logging. The logger is
// carried on the [CLI] and through the command context.
//
// # Configuration
//
// Defaults come from [config.Default]; --config overlays a TOML file.
package cli

import (
	"context"
	"io"
	"os"
	"path/filepath"

	"github.com/charmbracelet/log"
	"github.com/disintegration/imaging"
	"github.com/spf13/cobra"

	"github.com/matzehuels/memegen/pkg/buildinfo"
	"github.com/matzehuels/memegen/pkg/cache"
	"github.com/matzehuels/memegen/pkg/config"
	"github.com/matzehuels/memegen/pkg/document"
	"github.com/matzehuels/memegen/pkg/editor"
)

// =============================================================================
// Constants
// =============================================================================

const (
	// appName is the application name used for directories and display.
	appName = "memegen"

	// cacheKeyType labels export cache events in the observability hooks.
	cacheKeyType = "export"
)

// Log levels exported for use in main.go.
const (
	LogDebug = log.DebugLevel
	LogInfo  = log.InfoLevel
)

// =============================================================================
// CLI - Central CLI State
// =============================================================================

// CLI holds shared state for all commands.
type CLI struct {
	Logger *log.Logger

	configPath string
}

// New creates a new CLI instance with a default logger.
func New(w io.Writer, level log.Level) *CLI {
	return &CLI{Logger: newLogger(w, level)}
}

// SetLogLevel updates the logger's level.
func (c *CLI) SetLogLevel(level log.Level) {
	c.Logger.SetLevel(level)
}

// RootCommand creates the root cobra command with all subcommands registered.
func (c *CLI) RootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:          appName,
		Short:        "Memegen puts captions and doodles on images",
		Long:         `Memegen lays out outlined captions over an image, lets you draw on top, and exports the composited result at full resolution.`,
		Version:      buildinfo.Version,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			cmd.SetContext(withLogger(cmd.Context(), c.Logger))
			return nil
		},
	}

	root.SetVersionTemplate(buildinfo.Template())
	root.PersistentFlags().StringVar(&c.configPath, "config", "", "TOML config file")

	root.AddCommand(c.exportCommand())
	root.AddCommand(c.previewCommand())
	root.AddCommand(c.layersCommand())
	root.AddCommand(c.serveCommand())
	root.AddCommand(c.cacheCommand())
	root.AddCommand(c.completionCommand())

	return root
}

// =============================================================================
// Config and Editor Factory
// =============================================================================

// loadConfig returns the defaults overlaid with --config, if given.
func (c *CLI) loadConfig() (config.Config, error) {
	if c.configPath == "" {
		return config.Default(), nil
	}
	cfg, err := config.Load(c.configPath)
	if err != nil {
		return config.Config{}, err
	}
	c.Logger.Debug("loaded config", "path", c.configPath)
	return cfg, nil
}

// editorInput names the sources of a CLI editing session.
type editorInput struct {
	image    string
	doc      string
	captions []string
	width    float64
	noCache  bool
}

// newEditor opens the image and builds an editor from config, captions and
// an optional document.
func (c *CLI) newEditor(ctx context.Context, in editorInput) (*editor.Editor, error) {
	logger := loggerFromContext(ctx)
	cfg, err := c.loadConfig()
	if err != nil {
		return nil, err
	}

	img, err := imaging.Open(in.image, imaging.AutoOrientation(true))
	if err != nil {
		return nil, err
	}

	exportCache, err := newCache(in.noCache)
	if err != nil {
		return nil, err
	}

	opts := cfg.EditorOptions()
	opts.Logger = logger
	opts.Cache = cache.Instrument(exportCache, cacheKeyType)
	opts.DisplayWidth = in.width
	if len(in.captions) > 0 && in.doc == "" {
		opts.Captions = in.captions
	}

	ed, err := editor.New(img, opts)
	if err != nil {
		return nil, err
	}
	if in.doc != "" {
		doc, err := document.ImportJSON(in.doc)
		if err != nil {
			return nil, err
		}
		warnings, err := ed.Deserialize(doc)
		if err != nil {
			return nil, err
		}
		for _, w := range warnings {
			printWarning("%s", w)
		}
		if len(in.captions) > 0 {
			if err := ed.SetCaptions(in.captions); err != nil {
				return nil, err
			}
		}
	}
	logger.Debug("opened image", "path", in.image, "size", ed.Native(), "layers", len(ed.Layers().Text))
	return ed, nil
}

// captions turns --top/--bottom into the caption list, keeping the top slot
// when only a bottom caption is given.
func captions(top, bottom string) []string {
	switch {
	case bottom != "":
		return []string{top, bottom}
	case top != "":
		return []string{top}
	default:
		return nil
	}
}

func newCache(noCache bool) (cache.Cache, error) {
	if noCache {
		return cache.NewNullCache(), nil
	}
	dir, err := cacheDir()
	if err != nil {
		return cache.NewNullCache(), nil
	}
	return cache.NewFileCache(dir)
}

// =============================================================================
// Paths
// =============================================================================

// cacheDir returns the cache directory using XDG standard (~/.cache/memegen/).
func cacheDir() (string, error) {
	if cacheHome := os.Getenv("XDG_CACHE_HOME"); cacheHome != "" {
		return filepath.Join(cacheHome, appName), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".cache", appName), nil
}

// outputPath derives "<dir>/<name>-meme<ext>" from the input image path.
func outputPath(input, suffix, ext string) string {
	base := filepath.Base(input)
	name := base[:len(base)-len(filepath.Ext(base))]
	return filepath.Join(filepath.Dir(input), name+suffix+ext)
}
