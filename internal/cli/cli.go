// Package cli implements the doctriage command-line interface.
//
// Commands share one [CLI] value holding the logger and the loaded
// configuration. Flags override the config file; see pkg/config for its
// location and sections.
//
// # Commands
//
//   - serve: run the HTTP API
//   - ingest: unpack and analyse a ZIP archive
//   - docs: list, inspect and triage documents
//   - relate: add a relationship or rerun discovery
//   - render: lay out and render the relationship graph
//   - browse: explore the graph in the terminal
//   - export, import: move the graph as a JSON bundle
//   - cache: inspect or clear the render cache
package cli

import (
	"context"
	"io"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/matzehuels/doctriage/pkg/analysis"
	"github.com/matzehuels/doctriage/pkg/buildinfo"
	"github.com/matzehuels/doctriage/pkg/cache"
	"github.com/matzehuels/doctriage/pkg/config"
	"github.com/matzehuels/doctriage/pkg/ingest"
	"github.com/matzehuels/doctriage/pkg/pipeline"
	"github.com/matzehuels/doctriage/pkg/storage"
)

// =============================================================================
// Constants
// =============================================================================

// appName is the application name used for directories and display.
const appName = "doctriage"

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

	// ConfigPath overrides config.Path when set (--config).
	ConfigPath string

	cfg *config.Config
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
		Short:        "Doctriage reviews legal document archives as a relationship graph",
		Long:         `Doctriage ingests document archives, tracks their review state, and lays out the relationships between documents as an interactive force-directed graph.`,
		Version:      buildinfo.Version,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			cmd.SetContext(withLogger(cmd.Context(), c.Logger))
			return nil
		},
	}

	root.SetVersionTemplate(buildinfo.Template())
	root.PersistentFlags().StringVar(&c.ConfigPath, "config", "", "config file (default "+config.Path()+")")

	root.AddCommand(c.serveCommand())
	root.AddCommand(c.ingestCommand())
	root.AddCommand(c.docsCommand())
	root.AddCommand(c.relateCommand())
	root.AddCommand(c.renderCommand())
	root.AddCommand(c.browseCommand())
	root.AddCommand(c.exportCommand())
	root.AddCommand(c.importCommand())
	root.AddCommand(c.cacheCommand())
	root.AddCommand(c.versionCommand())
	root.AddCommand(c.completionCommand())

	return root
}

// =============================================================================
// Configuration & Factories
// =============================================================================

// config loads the configuration once per process.
func (c *CLI) config() (*config.Config, error) {
	if c.cfg != nil {
		return c.cfg, nil
	}
	path := c.ConfigPath
	if path == "" {
		path = config.Path()
	}
	cfg, err := config.LoadFile(path)
	if err != nil {
		return nil, err
	}
	c.Logger.Debug("loaded config", "path", path, "storage", cfg.Storage.Backend, "cache", cfg.Cache.Backend)
	c.cfg = cfg
	return cfg, nil
}

// openStore opens the configured document store. Callers close it.
func (c *CLI) openStore(ctx context.Context) (storage.Store, error) {
	cfg, err := c.config()
	if err != nil {
		return nil, err
	}
	return cfg.OpenStore(ctx)
}

// newRunner creates a pipeline runner for CLI use.
func (c *CLI) newRunner(ctx context.Context, noCache bool) (*pipeline.Runner, error) {
	cfg, err := c.config()
	if err != nil {
		return nil, err
	}
	var ch cache.Cache = cache.NewNullCache()
	if !noCache {
		if ch, err = cfg.OpenCache(ctx); err != nil {
			c.Logger.Warn("cache unavailable, continuing without", "backend", cfg.Cache.Backend, "error", err)
			ch = cache.NewNullCache()
		}
	}
	r := pipeline.NewRunner(ch, cfg.Keyer(), c.Logger)
	r.TTL = cfg.Cache.TTL.Duration
	return r, nil
}

// newIngester wires the mock analyzer to store.
func (c *CLI) newIngester(store storage.Store) (*ingest.Ingester, error) {
	cfg, err := c.config()
	if err != nil {
		return nil, err
	}
	var opts []analysis.MockOption
	if cfg.Analysis.Seed != 0 {
		opts = append(opts, analysis.WithSeed(cfg.Analysis.Seed))
	}
	in := ingest.New(store, analysis.NewMock(opts...), c.Logger)
	if cfg.Analysis.Concurrency > 0 {
		in.Concurrency = cfg.Analysis.Concurrency
	}
	return in, nil
}

// renderDefaults turns the [render] section into pipeline options.
func renderDefaults(cfg *config.Config) pipeline.Options {
	opts := pipeline.Options{
		Width:    cfg.Render.Width,
		Height:   cfg.Render.Height,
		Seed:     cfg.Render.Seed,
		Renderer: cfg.Render.Renderer,
		Engine:   cfg.Render.Engine,
	}
	if cfg.Render.Format != "" {
		opts.Formats = []string{cfg.Render.Format}
	}
	return opts
}

// cacheDir returns the configured file cache directory.
func (c *CLI) cacheDir() (string, error) {
	cfg, err := c.config()
	if err != nil {
		return "", err
	}
	return cfg.Cache.Dir, nil
}
