// Package nodelink renders the relationship graph as a Graphviz diagram.
//
// # Overview
//
// The force-directed canvas of pkg/render/relgraph is the primary view. This
// package is the export path for users who want to post-process the graph in
// Graphviz tooling, or who prefer Graphviz's own placement (neato, fdp,
// circo) over the built-in solver.
//
// # Usage
//
// Convert nodes and edges to DOT, then render to SVG:
//
//	dot := nodelink.ToDOT(nodes, edges, nodelink.Options{Focus: id})
//	svg, err := nodelink.RenderSVG(ctx, dot, nodelink.EngineNeato)
//
// Nodes and edges use the same palette as the canvas: fill by review flag,
// stroke by relationship type, line width by strength, dashed referenced
// links.
//
// # Dependencies
//
// This package uses [github.com/goccy/go-graphviz] for in-process SVG
// rendering. PDF and PNG conversion requires librsvg (rsvg-convert).
package nodelink
