package sink

import (
	"bytes"
	"context"

	"github.com/matzehuels/doctriage/pkg/render"
	"github.com/matzehuels/doctriage/pkg/render/relgraph/layout"
)

// PNGOption configures PNG rendering.
type PNGOption func(*pngRenderer)

type pngRenderer struct {
	scale float64
}

// WithScale sets the PNG scale factor (default 2.0 for 2x resolution).
func WithScale(s float64) PNGOption {
	return func(r *pngRenderer) { r.scale = s }
}

// RenderPNG rasterises l in-process.
func RenderPNG(l layout.Layout, opts ...PNGOption) ([]byte, error) {
	r := pngRenderer{scale: 2.0}
	for _, opt := range opts {
		opt(&r)
	}
	s := NewRasterSurface(r.scale)
	Paint(s, l)
	return s.Bytes()
}

// RenderPDF renders l as PDF via SVG conversion.
// Requires librsvg: brew install librsvg (macOS), apt install librsvg2-bin (Linux).
func RenderPDF(ctx context.Context, l layout.Layout, opts ...SVGOption) ([]byte, error) {
	return render.ToPDF(ctx, RenderSVG(l, opts...))
}

// RenderJSON returns the display list of l as JSON.
func RenderJSON(l layout.Layout) ([]byte, error) {
	var d DisplayList
	Paint(&d, l)
	var buf bytes.Buffer
	if err := d.WriteJSON(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
