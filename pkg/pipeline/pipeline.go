// Package pipeline turns a document bundle into a solved relationship graph
// and renders it.
//
// This package implements the layout → render pipeline shared by the CLI,
// the HTTP API and the review TUI, so that every entry point projects,
// solves and paints a graph the same way.
//
// # Architecture
//
// The pipeline consists of two stages:
//
//  1. Layout: project documents onto nodes and run the force solver
//  2. Render: paint the layout in the requested formats (SVG, PNG, PDF, JSON, DOT, ops)
//
// Each stage can be run independently or through [Runner.Execute].
//
// # Usage
//
//	runner := pipeline.NewRunner(cache, nil, logger)
//	result, err := runner.Execute(ctx, bundle, pipeline.Options{
//	    Focus:   "doc-1",
//	    Seed:    42,
//	    Formats: []string{"svg"},
//	})
//	if err != nil {
//	    log.Fatal(err)
//	}
//	svg := result.Artifacts["svg"]
//
// # Caching
//
// Layouts and artifacts are cached only when [Options.Seed] is set. An
// unseeded solve is random on purpose and is never served from the cache.
package pipeline

import (
	"io"
	"slices"
	"strings"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/doctriage/pkg/cache"
	"github.com/matzehuels/doctriage/pkg/errors"
	"github.com/matzehuels/doctriage/pkg/render/nodelink"
)

// =============================================================================
// Default Values - Single Source of Truth for CLI, API, and TUI
// =============================================================================

const (
	// DefaultWidth is the default viewport width in pixels.
	DefaultWidth = 800.0

	// DefaultHeight is the default viewport height in pixels.
	DefaultHeight = 600.0

	// DefaultScale is the PNG scale factor.
	DefaultScale = 2.0
)

// Cache lifetimes.
const (
	TTLLayout   = 24 * time.Hour
	TTLArtifact = 24 * time.Hour
)

// Format constants for output formats.
const (
	FormatSVG  = "svg"
	FormatPNG  = "png"
	FormatPDF  = "pdf"
	FormatJSON = "json" // styled positions, see graph.Layout
	FormatDOT  = "dot"  // Graphviz source
	FormatOps  = "ops"  // display list of paint operations
)

// ValidFormats is the set of supported output formats.
var ValidFormats = map[string]bool{
	FormatSVG:  true,
	FormatPNG:  true,
	FormatPDF:  true,
	FormatJSON: true,
	FormatDOT:  true,
	FormatOps:  true,
}

// Scopes select which documents enter the layout.
const (
	ScopeAll           = "all"
	ScopeNeighbourhood = "neighbourhood"
)

// Renderers paint the image formats.
const (
	// RendererRelgraph paints the solved positions directly.
	RendererRelgraph = "relgraph"
	// RendererGraphviz hands the graph to a Graphviz engine, which places
	// the nodes itself.
	RendererGraphviz = "graphviz"
)

// Options configures a pipeline run.
type Options struct {
	// Layout
	Width      float64
	Height     float64
	Focus      string // document pulled to the centre; "" uses none
	Seed       uint64 // 0 draws a random seed
	Iterations int    // 0 uses the solver default
	Scope      string

	// Render
	Formats  []string
	Renderer string
	Engine   string // Graphviz engine, see nodelink.ParseEngine
	Scale    float64
	Legend   bool
	Titles   bool
	Detailed bool // DOT labels carry the status and tags

	// Refresh skips cache reads but still writes fresh results.
	Refresh bool

	Logger *log.Logger
}

// ValidateFormat checks that a format is supported.
func ValidateFormat(format string) error {
	if !ValidFormats[format] {
		return errors.New(errors.ErrCodeInvalidInput,
			"invalid format: %q (must be one of: %s)", format, strings.Join(formatNames(), ", "))
	}
	return nil
}

// ValidateFormats checks that all formats are supported.
func ValidateFormats(formats []string) error {
	for _, f := range formats {
		if err := ValidateFormat(f); err != nil {
			return err
		}
	}
	return nil
}

// ValidateScope checks that a scope is valid.
func ValidateScope(scope string) error {
	if scope != ScopeAll && scope != ScopeNeighbourhood {
		return errors.New(errors.ErrCodeInvalidInput,
			"invalid scope: %q (must be one of: all, neighbourhood)", scope)
	}
	return nil
}

// ValidateRenderer checks that a renderer is valid.
func ValidateRenderer(renderer string) error {
	if renderer != RendererRelgraph && renderer != RendererGraphviz {
		return errors.New(errors.ErrCodeInvalidInput,
			"invalid renderer: %q (must be one of: relgraph, graphviz)", renderer)
	}
	return nil
}

func formatNames() []string {
	names := make([]string, 0, len(ValidFormats))
	for f := range ValidFormats {
		names = append(names, f)
	}
	slices.Sort(names)
	return names
}

// =============================================================================
// Options Methods
// =============================================================================

// SetLayoutDefaults sets default values for layout computation.
func (o *Options) SetLayoutDefaults() {
	if o.Width == 0 {
		o.Width = DefaultWidth
	}
	if o.Height == 0 {
		o.Height = DefaultHeight
	}
	if o.Scope == "" {
		o.Scope = ScopeAll
	}
	if o.Logger == nil {
		o.Logger = log.NewWithOptions(io.Discard, log.Options{})
	}
}

// ValidateForLayout validates and sets defaults for layout computation.
func (o *Options) ValidateForLayout() error {
	o.SetLayoutDefaults()
	if o.Width < 0 || o.Height < 0 {
		return errors.New(errors.ErrCodeInvalidInput, "viewport must not be negative: %gx%g", o.Width, o.Height)
	}
	if o.Iterations < 0 {
		return errors.New(errors.ErrCodeInvalidInput, "iterations must not be negative: %d", o.Iterations)
	}
	if err := ValidateScope(o.Scope); err != nil {
		return err
	}
	if o.Scope == ScopeNeighbourhood && o.Focus == "" {
		return errors.New(errors.ErrCodeInvalidInput, "neighbourhood scope requires a focus document")
	}
	return nil
}

// SetRenderDefaults sets default values for rendering.
func (o *Options) SetRenderDefaults() {
	if len(o.Formats) == 0 {
		o.Formats = []string{FormatSVG}
	}
	if o.Renderer == "" {
		o.Renderer = RendererRelgraph
	}
	if o.Scale == 0 {
		o.Scale = DefaultScale
	}
	if o.Logger == nil {
		o.Logger = log.NewWithOptions(io.Discard, log.Options{})
	}
}

// ValidateForRender validates and sets defaults for rendering.
func (o *Options) ValidateForRender() error {
	o.SetRenderDefaults()
	if err := ValidateFormats(o.Formats); err != nil {
		return err
	}
	if err := ValidateRenderer(o.Renderer); err != nil {
		return err
	}
	if o.Scale < 0 {
		return errors.New(errors.ErrCodeInvalidInput, "scale must not be negative: %g", o.Scale)
	}
	_, err := nodelink.ParseEngine(o.Engine)
	return err
}

// ValidateAndSetDefaults checks and defaults both stages.
func (o *Options) ValidateAndSetDefaults() error {
	if err := o.ValidateForLayout(); err != nil {
		return err
	}
	return o.ValidateForRender()
}

// Cacheable reports whether results of these options may be cached.
func (o *Options) Cacheable() bool { return o.Seed != 0 }

// LayoutKeyOpts returns cache key options for layout computation.
func (o *Options) LayoutKeyOpts() cache.LayoutKeyOpts {
	return cache.LayoutKeyOpts{
		Width:      o.Width,
		Height:     o.Height,
		Focus:      o.Focus,
		Seed:       o.Seed,
		Iterations: o.Iterations,
		Scope:      o.Scope,
	}
}

// ArtifactKeyOpts returns cache key options for artifact rendering.
func (o *Options) ArtifactKeyOpts(format string) cache.ArtifactKeyOpts {
	k := cache.ArtifactKeyOpts{Format: format, Renderer: o.Renderer, Legend: o.Legend, Titles: o.Titles}
	if format == FormatPNG {
		k.Scale = o.Scale
	}
	if o.Renderer == RendererGraphviz || format == FormatDOT {
		k.Engine = o.Engine
		k.Detailed = o.Detailed
	}
	return k
}
