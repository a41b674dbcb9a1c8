package sink

import (
	"bytes"
	"fmt"
	"html"
	"strings"

	"github.com/matzehuels/doctriage/pkg/fonts"
	"github.com/matzehuels/doctriage/pkg/render/relgraph/layout"
	"github.com/matzehuels/doctriage/pkg/render/relgraph/styles"
)

const glowFilterID = "node-glow"

// SVGSurface accumulates SVG elements. Call Bytes to get the document.
type SVGSurface struct {
	// Titles adds a native hover title with the node label to every node.
	Titles bool

	width, height float64
	body          bytes.Buffer
	glow          bool
	title         string // pending <title> for the next circle
}

var (
	_ Surface    = (*SVGSurface)(nil)
	_ NodeMarker = (*SVGSurface)(nil)
)

func (s *SVGSurface) Clear(width, height float64) {
	s.width, s.height = width, height
	s.body.Reset()
	s.glow = false
	s.title = ""
}

// MarkNode records the label used as the next circle's title.
func (s *SVGSurface) MarkNode(n layout.Node) {
	if !s.Titles {
		return
	}
	s.title = n.Label
	if s.title == "" {
		s.title = n.ID
	}
}

func (s *SVGSurface) Line(x1, y1, x2, y2 float64, st styles.EdgeStyle) {
	fmt.Fprintf(&s.body, `  <line x1="%.2f" y1="%.2f" x2="%.2f" y2="%.2f" stroke="%s" stroke-width="%.2f"`,
		x1, y1, x2, y2, st.Stroke.CSS(), st.Width)
	if st.Dashed() {
		parts := make([]string, len(st.Dash))
		for i, d := range st.Dash {
			parts[i] = fmt.Sprintf("%g", d)
		}
		fmt.Fprintf(&s.body, ` stroke-dasharray="%s"`, strings.Join(parts, ","))
	}
	s.body.WriteString("/>\n")
}

func (s *SVGSurface) Circle(cx, cy float64, st styles.NodeStyle) {
	fmt.Fprintf(&s.body, `  <circle cx="%.2f" cy="%.2f" r="%g" fill="%s" stroke="%s" stroke-width="%g"`,
		cx, cy, st.Radius, st.Fill.CSS(), st.Border.CSS(), st.BorderWidth)
	if st.Glow != nil {
		s.glow = true
		fmt.Fprintf(&s.body, ` filter="url(#%s)"`, glowFilterID)
	}
	if s.title == "" {
		s.body.WriteString("/>\n")
		return
	}
	fmt.Fprintf(&s.body, "><title>%s</title></circle>\n", html.EscapeString(s.title))
	s.title = ""
}

func (s *SVGSurface) Text(x, y float64, text string, c styles.Color, size float64) {
	fmt.Fprintf(&s.body, `  <text x="%.2f" y="%.2f" fill="%s" font-family="%s" font-size="%g" text-anchor="middle" dominant-baseline="middle" pointer-events="none">%s</text>`+"\n",
		x, y, c.CSS(), fonts.FontFamily, size, html.EscapeString(text))
}

// Bytes returns the complete SVG document.
func (s *SVGSurface) Bytes() []byte {
	var buf bytes.Buffer
	fmt.Fprintf(&buf, `<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 %.1f %.1f" width="%.0f" height="%.0f">`+"\n",
		s.width, s.height, s.width, s.height)
	if s.glow {
		g := styles.Accent.WithAlpha(0.7)
		fmt.Fprintf(&buf, `  <defs><filter id="%s" x="-100%%" y="-100%%" width="300%%" height="300%%">`+
			`<feDropShadow dx="0" dy="0" stdDeviation="%g" flood-color="%s" flood-opacity="%g"/></filter></defs>`+"\n",
			glowFilterID, styles.GlowBlur/2, g.Hex(), g.A)
	}
	buf.Write(s.body.Bytes())
	buf.WriteString("</svg>\n")
	return buf.Bytes()
}

// SVGOption configures [RenderSVG].
type SVGOption func(*svgRenderer)

type svgRenderer struct {
	legend bool
	titles bool
}

// WithLegend appends the colour legend below the graph.
func WithLegend() SVGOption { return func(r *svgRenderer) { r.legend = true } }

// WithTitles adds a native hover title with the node label to every node.
func WithTitles() SVGOption { return func(r *svgRenderer) { r.titles = true } }

// RenderSVG paints l as an SVG document.
func RenderSVG(l layout.Layout, opts ...SVGOption) []byte {
	var r svgRenderer
	for _, opt := range opts {
		opt(&r)
	}

	s := SVGSurface{Titles: r.titles}
	Paint(&s, l)
	if r.legend {
		renderLegend(&s)
	}
	return s.Bytes()
}

func renderLegend(s *SVGSurface) {
	const (
		swatch = 6.0
		gap    = 80.0
	)
	y := s.height - 12
	x := s.width/2 - gap*float64(len(styles.Legend))/2 + swatch
	for _, item := range styles.Legend {
		fmt.Fprintf(&s.body, `  <circle cx="%.2f" cy="%.2f" r="%g" fill="%s"/>`+"\n",
			x, y, swatch, item.Role.Fill().CSS())
		fmt.Fprintf(&s.body, `  <text x="%.2f" y="%.2f" fill="%s" font-family="%s" font-size="10" dominant-baseline="middle">%s</text>`+"\n",
			x+swatch+4, y, styles.Neutral.CSS(), fonts.FontFamily, item.Label)
		x += gap
	}
}
