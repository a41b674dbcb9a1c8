package sink

import (
	"github.com/matzehuels/doctriage/pkg/render/relgraph/layout"
	"github.com/matzehuels/doctriage/pkg/render/relgraph/styles"
)

// Surface is a persistent 2D drawing target. Content accumulates across
// calls until Clear.
type Surface interface {
	// Clear drops everything drawn so far and sizes the surface.
	Clear(width, height float64)
	// Line strokes a straight segment.
	Line(x1, y1, x2, y2 float64, s styles.EdgeStyle)
	// Circle fills a node disc (with its glow, if any) and then strokes its
	// border.
	Circle(cx, cy float64, s styles.NodeStyle)
	// Text draws a label centred on (x, y).
	Text(x, y float64, text string, c styles.Color, size float64)
}

// NodeMarker is implemented by surfaces that annotate the shapes of each
// node. Paint calls MarkNode right before drawing the node.
type NodeMarker interface {
	MarkNode(n layout.Node)
}

// Paint draws l onto s: clear, edges, then nodes. Nodes or edges without a
// position are skipped.
func Paint(s Surface, l layout.Layout) {
	s.Clear(l.Width, l.Height)

	for _, e := range l.Edges {
		a, okA := l.Positions[e.Source]
		b, okB := l.Positions[e.Target]
		if !okA || !okB {
			continue
		}
		s.Line(a.X, a.Y, b.X, b.Y, styles.Edge(e.Type, e.Strength))
	}

	for _, n := range l.Nodes {
		p, ok := l.Positions[n.ID]
		if !ok {
			continue
		}
		if m, ok := s.(NodeMarker); ok {
			m.MarkNode(n)
		}
		st := styles.Node(n, l.Focus)
		s.Circle(p.X, p.Y, st)
		if st.Glyph != "" {
			s.Text(p.X, p.Y, st.Glyph, st.GlyphColor, st.GlyphSize)
		}
	}
}
