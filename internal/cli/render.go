package cli

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/spf13/cobra"

	"github.com/matzehuels/doctriage/pkg/errors"
	"github.com/matzehuels/doctriage/pkg/graph"
	"github.com/matzehuels/doctriage/pkg/pipeline"
	"github.com/matzehuels/doctriage/pkg/storage"
)

// defaultOutput is the base name used when rendering from the store.
const defaultOutput = "graph"

// renderOpts holds the render flags. Unset flags fall back to the [render]
// section of the config.
type renderOpts struct {
	output     string
	formats    string
	noCache    bool
	fromLayout bool
	pipeline.Options
}

// renderCommand lays out and renders the relationship graph, either from
// the store or from an exported bundle.
func (c *CLI) renderCommand() *cobra.Command {
	var opts renderOpts

	cmd := &cobra.Command{
		Use:   "render [bundle.json]",
		Short: "Render the relationship graph",
		Long: `Render the document relationship graph as SVG, PNG, PDF, JSON layout,
DOT source, or a paint operation list.

Without an argument the graph is read from the configured store. A fixed
--seed makes the layout reproducible and lets it be cached.

With --layout the argument is a JSON layout written by an earlier render,
and its positions are painted again without solving.`,
		Example: `  doctriage render -f svg,png --focus 3f2a --seed 7
  doctriage render bundle.json --renderer graphviz --engine fdp -o out/matter
  doctriage render --layout graph.json -f png --scale 3`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			input := ""
			if len(args) == 1 {
				input = args[0]
			}
			if opts.fromLayout {
				if input == "" {
					return errors.New(errors.ErrCodeInvalidInput, "--layout needs a layout file argument")
				}
				return c.runRenderLayout(cmd, input, &opts)
			}
			return c.runRender(cmd, input, &opts)
		},
	}

	fl := cmd.Flags()
	fl.StringVarP(&opts.output, "output", "o", "", "output file (single format) or base path (multiple)")
	fl.StringVarP(&opts.formats, "format", "f", "", "output format(s): svg, png, pdf, json, dot, ops (comma-separated)")
	fl.Float64Var(&opts.Width, "width", 0, "viewport width")
	fl.Float64Var(&opts.Height, "height", 0, "viewport height")
	fl.StringVar(&opts.Focus, "focus", "", "document to centre")
	fl.StringVar(&opts.Scope, "scope", pipeline.ScopeAll, "all or neighbourhood (focus and its direct links)")
	fl.Uint64Var(&opts.Seed, "seed", 0, "layout seed (0 = random)")
	fl.IntVar(&opts.Iterations, "iterations", 0, "solver iterations (0 = default)")
	fl.StringVar(&opts.Renderer, "renderer", "", "relgraph or graphviz")
	fl.StringVar(&opts.Engine, "engine", "", "graphviz engine: dot, neato, fdp, sfdp, circo, twopi")
	fl.Float64Var(&opts.Scale, "scale", 0, "PNG scale factor")
	fl.BoolVar(&opts.Legend, "legend", false, "draw the category legend")
	fl.BoolVar(&opts.Titles, "titles", false, "add hover titles to SVG nodes")
	fl.BoolVar(&opts.Detailed, "detailed", false, "include status and tags in graphviz labels")
	fl.BoolVar(&opts.Refresh, "refresh", false, "ignore cached layouts and artifacts")
	fl.BoolVar(&opts.noCache, "no-cache", false, "disable the render cache")
	fl.BoolVar(&opts.fromLayout, "layout", false, "treat the argument as an exported JSON layout")

	return cmd
}

// merge fills unset options from the config defaults.
func (o *renderOpts) merge(def pipeline.Options) {
	if o.Width == 0 {
		o.Width = def.Width
	}
	if o.Height == 0 {
		o.Height = def.Height
	}
	if o.Seed == 0 {
		o.Seed = def.Seed
	}
	if o.Renderer == "" {
		o.Renderer = def.Renderer
	}
	if o.Engine == "" {
		o.Engine = def.Engine
	}
	o.Formats = parseFormats(o.formats, def.Formats)
}

// parseFormats splits a comma-separated list, falling back to def and then
// to SVG.
func parseFormats(s string, def []string) []string {
	if s == "" {
		if len(def) > 0 {
			return def
		}
		return []string{pipeline.FormatSVG}
	}
	var out []string
	for _, f := range strings.Split(s, ",") {
		if f = strings.ToLower(strings.TrimSpace(f)); f != "" && !slices.Contains(out, f) {
			out = append(out, f)
		}
	}
	return out
}

// basePath derives the output path without extension. A known format
// extension on output is stripped.
func basePath(output, input string) string {
	if output == "" {
		if input == "" {
			return defaultOutput
		}
		return strings.TrimSuffix(input, filepath.Ext(input))
	}
	ext := filepath.Ext(output)
	if pipeline.ValidFormats[strings.TrimPrefix(ext, ".")] {
		return strings.TrimSuffix(output, ext)
	}
	return output
}

// outputPaths maps each format to its file. A single format honours the
// exact --output path.
func outputPaths(output, input string, formats []string) map[string]string {
	paths := make(map[string]string, len(formats))
	if len(formats) == 1 && output != "" {
		paths[formats[0]] = output
		return paths
	}
	base := basePath(output, input)
	for _, f := range formats {
		ext := f
		if f == pipeline.FormatOps {
			ext = "ops.json"
		}
		// Never overwrite the input bundle.
		if f == pipeline.FormatJSON && base+".json" == input {
			ext = "layout.json"
		}
		paths[f] = base + "." + ext
	}
	return paths
}

func (c *CLI) loadBundle(ctx context.Context, input string) (graph.Bundle, error) {
	if input != "" {
		return graph.ReadBundleFile(input)
	}
	var b graph.Bundle
	err := c.withStore(ctx, func(store storage.Store) error {
		documents, rels, err := storage.Snapshot(ctx, store)
		if err != nil {
			return err
		}
		b = graph.NewBundle(documents, rels)
		return nil
	})
	return b, err
}

func (c *CLI) runRender(cmd *cobra.Command, input string, opts *renderOpts) error {
	ctx := cmd.Context()
	logger := loggerFromContext(ctx)

	cfg, err := c.config()
	if err != nil {
		return err
	}
	opts.merge(renderDefaults(cfg))
	opts.Logger = logger
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return err
	}

	b, err := c.loadBundle(ctx, input)
	if err != nil {
		return err
	}
	if len(b.Documents) == 0 {
		return errors.New(errors.ErrCodeInvalidInput, "no documents to render")
	}
	logger.Debug("loaded graph", "documents", len(b.Documents), "relationships", len(b.Relationships))

	runner, err := c.newRunner(ctx, opts.noCache)
	if err != nil {
		return err
	}
	defer runner.Close()

	spinner := newSpinnerWithContext(ctx, "Laying out graph")
	spinner.Start()
	res, err := runner.Execute(ctx, b, opts.Options)
	spinner.Stop()
	if err != nil {
		return err
	}

	if err := writeArtifacts(opts, input, res.Artifacts); err != nil {
		return err
	}
	printGraphStats(res.Stats.NodeCount, res.Stats.EdgeCount, res.CacheInfo.LayoutHit, res.CacheInfo.RenderHit)
	if opts.Seed == 0 {
		printDetail("seed %d (pass --seed to reproduce)", res.Layout.Seed)
	}
	return nil
}

// runRenderLayout paints a previously exported layout in new formats.
func (c *CLI) runRenderLayout(cmd *cobra.Command, input string, opts *renderOpts) error {
	ctx := cmd.Context()
	logger := loggerFromContext(ctx)

	cfg, err := c.config()
	if err != nil {
		return err
	}
	exported, err := graph.ReadLayoutFile(input)
	if err != nil {
		return err
	}
	l := exported.Parse()

	opts.merge(renderDefaults(cfg))
	opts.Width, opts.Height, opts.Seed = l.Width, l.Height, l.Seed
	opts.Logger = logger
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return err
	}
	logger.Debug("loaded layout", "nodes", len(l.Nodes), "edges", len(l.Edges), "seed", l.Seed)

	runner, err := c.newRunner(ctx, opts.noCache)
	if err != nil {
		return err
	}
	defer runner.Close()

	artifacts, renderHit, err := runner.RenderWithCacheInfo(ctx, l, opts.Options)
	if err != nil {
		return err
	}
	if err := writeArtifacts(opts, input, artifacts); err != nil {
		return err
	}
	printGraphStats(len(l.Nodes), len(l.Edges), true, renderHit)
	return nil
}

// writeArtifacts writes each rendered format next to input or under
// --output.
func writeArtifacts(opts *renderOpts, input string, artifacts map[string][]byte) error {
	paths := outputPaths(opts.output, input, opts.Formats)
	printSuccess("Rendered %s", strings.Join(opts.Formats, ", "))
	for _, f := range opts.Formats {
		if err := writeOutput(paths[f], artifacts[f]); err != nil {
			return err
		}
		printFile(paths[f])
	}
	return nil
}

// writeOutput writes data to path, creating parent directories.
func writeOutput(path string, data []byte) error {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create %s: %w", dir, err)
		}
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	return nil
}
