package sink

import (
	"bytes"
	"image"
	"io"
	"math"

	"github.com/fogleman/gg"
	"golang.org/x/image/font"

	"github.com/matzehuels/doctriage/pkg/fonts"
	"github.com/matzehuels/doctriage/pkg/render/relgraph/styles"
)

// RasterSurface draws into an in-memory RGBA image.
type RasterSurface struct {
	scale float64
	dc    *gg.Context
	faces map[float64]font.Face
}

var _ Surface = (*RasterSurface)(nil)

// NewRasterSurface creates a surface that renders at scale device pixels per
// layout unit. Scales <= 0 are treated as 1.
func NewRasterSurface(scale float64) *RasterSurface {
	if scale <= 0 {
		scale = 1
	}
	return &RasterSurface{scale: scale, faces: map[float64]font.Face{}}
}

func (r *RasterSurface) Clear(width, height float64) {
	w := max(1, int(math.Ceil(width*r.scale)))
	h := max(1, int(math.Ceil(height*r.scale)))
	r.dc = gg.NewContext(w, h)
	r.dc.Scale(r.scale, r.scale)
}

func (r *RasterSurface) Line(x1, y1, x2, y2 float64, s styles.EdgeStyle) {
	r.dc.SetColor(s.Stroke.NRGBA())
	r.dc.SetLineWidth(s.Width * r.scale)
	r.dc.SetDash(scaled(s.Dash, r.scale)...)
	r.dc.DrawLine(x1, y1, x2, y2)
	r.dc.Stroke()
	r.dc.SetDash()
}

// Circle approximates the glow with translucent rings, since gg has no
// shadow blur.
func (r *RasterSurface) Circle(cx, cy float64, s styles.NodeStyle) {
	if s.Glow != nil {
		const rings = 6
		for i := rings; i > 0; i-- {
			c := s.Glow.Color
			c.A = s.Glow.Color.A / rings
			r.dc.SetColor(c.NRGBA())
			r.dc.DrawCircle(cx, cy, s.Radius+s.Glow.Blur*float64(i)/rings)
			r.dc.Fill()
		}
	}
	r.dc.DrawCircle(cx, cy, s.Radius)
	r.dc.SetColor(s.Fill.NRGBA())
	r.dc.FillPreserve()
	r.dc.SetColor(s.Border.NRGBA())
	r.dc.SetLineWidth(s.BorderWidth * r.scale)
	r.dc.Stroke()
}

func (r *RasterSurface) Text(x, y float64, text string, c styles.Color, size float64) {
	// Faces are built in layout units; gg applies the context matrix to
	// each glyph.
	face, ok := r.faces[size]
	if !ok {
		var err error
		if face, err = fonts.Face(size); err != nil {
			return
		}
		r.faces[size] = face
	}
	r.dc.SetFontFace(face)
	r.dc.SetColor(c.NRGBA())
	r.dc.DrawStringAnchored(text, x, y, 0.5, 0.5)
}

// Image returns the current frame. It is nil before the first Clear.
func (r *RasterSurface) Image() image.Image {
	if r.dc == nil {
		return nil
	}
	return r.dc.Image()
}

// EncodePNG writes the current frame as PNG.
func (r *RasterSurface) EncodePNG(w io.Writer) error {
	if r.dc == nil {
		r.Clear(1, 1)
	}
	return r.dc.EncodePNG(w)
}

// Bytes returns the current frame as PNG bytes.
func (r *RasterSurface) Bytes() ([]byte, error) {
	var buf bytes.Buffer
	if err := r.EncodePNG(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func scaled(dash []float64, k float64) []float64 {
	if len(dash) == 0 {
		return nil
	}
	out := make([]float64, len(dash))
	for i, d := range dash {
		out[i] = d * k
	}
	return out
}
