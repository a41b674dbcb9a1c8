// Package render provides visualization rendering for the document
// relationship graph.
//
// # Overview
//
// This package holds the pieces shared by every renderer:
//
//   - Generic format conversion (SVG to PDF/PNG)
//   - The force-directed relationship graph (in [relgraph] subpackages)
//   - Node-link diagrams through Graphviz (in [nodelink] subpackage)
//
// # Format Conversion
//
// The [ToPDF] and [ToPNG] functions convert any SVG to other formats using
// the external rsvg-convert tool (from librsvg).
//
//	svg := sink.RenderSVG(l)
//	pdf, err := render.ToPDF(ctx, svg)
//
// # Relationship Graph
//
// The relgraph subpackages split the interactive graph into its parts:
//   - [relgraph/layout]: force-directed positions
//   - [relgraph/styles]: node and edge visual encoding
//   - [relgraph/sink]: drawing surfaces (SVG, PNG, display list)
//   - [relgraph/interact]: hit-testing and the event-driven view
//
// # Node-Link Diagrams
//
// The [nodelink] subpackage exports the same documents and relationships as
// Graphviz DOT, for users who prefer a ranked layout.
//
//	dot := nodelink.ToDOT(documents, relationships, nodelink.Options{})
//	svg, err := nodelink.RenderSVG(ctx, dot)
//
// [relgraph]: github.com/matzehuels/doctriage/pkg/render/relgraph
// [relgraph/layout]: github.com/matzehuels/doctriage/pkg/render/relgraph/layout
// [relgraph/styles]: github.com/matzehuels/doctriage/pkg/render/relgraph/styles
// [relgraph/sink]: github.com/matzehuels/doctriage/pkg/render/relgraph/sink
// [relgraph/interact]: github.com/matzehuels/doctriage/pkg/render/relgraph/interact
// [nodelink]: github.com/matzehuels/doctriage/pkg/render/nodelink
package render
