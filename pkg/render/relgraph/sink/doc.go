// Package sink paints a solved relationship graph onto a drawing surface.
//
// [Paint] is surface-agnostic: it clears the surface, strokes every edge,
// then fills every node so nodes sit on top. Surfaces:
//
//   - [SVGSurface]: an SVG document, with an optional legend and native
//     hover titles
//   - [RasterSurface]: a PNG drawn with fogleman/gg, no external tools
//   - [DisplayList]: the recorded draw operations, serialisable to JSON
//
// The Render* helpers wrap the common cases:
//
//	svg := sink.RenderSVG(l, sink.WithLegend())
//	png, err := sink.RenderPNG(l, sink.WithScale(2))
//	pdf, err := sink.RenderPDF(ctx, l)
package sink
