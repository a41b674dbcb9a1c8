package interact

import "github.com/matzehuels/doctriage/pkg/render/relgraph/layout"

// Hit-test tolerances in pixels.
const (
	ClickTolerance = 12.0
	HoverTolerance = 10.0
)

// Mode selects the tolerance for a lookup.
type Mode string

const (
	ModeClick Mode = "click"
	ModeHover Mode = "hover"
)

// Tolerance returns the radius for m. Unknown modes use the click radius.
func (m Mode) Tolerance() float64 {
	if m == ModeHover {
		return HoverTolerance
	}
	return ClickTolerance
}

// ParseMode returns the Mode named s, defaulting to ModeClick.
func ParseMode(s string) Mode {
	if Mode(s) == ModeHover {
		return ModeHover
	}
	return ModeClick
}

// HitTest returns the first node, in layout order, whose position is within
// tolerance of (x, y).
func HitTest(l layout.Layout, x, y, tolerance float64) (layout.Node, bool) {
	ptr := layout.Point{X: x, Y: y}
	for _, n := range l.Nodes {
		p, ok := l.Positions[n.ID]
		if !ok {
			continue
		}
		if p.Dist(ptr) <= tolerance {
			return n, true
		}
	}
	return layout.Node{}, false
}
