package styles

import "github.com/matzehuels/doctriage/pkg/docs"

// EdgeStyle is the stroke for one relationship line.
type EdgeStyle struct {
	Stroke Color
	Width  float64
	Dash   []float64 // nil for a solid line
}

// Dashed reports whether the line has a dash pattern.
func (s EdgeStyle) Dashed() bool { return len(s.Dash) > 0 }

// ReferencedDash is the on/off pattern of referenced links.
var ReferencedDash = []float64{5, 3}

// Edge returns the style for a relationship of type t with the given
// strength.
func Edge(t docs.RelationshipType, strength float64) EdgeStyle {
	s := EdgeStyle{Width: EdgeWidth(strength)}
	switch t {
	case docs.RelReferenced:
		s.Stroke = NeutralDark.WithAlpha(0.6)
		s.Dash = ReferencedDash
	case docs.RelSimilar:
		s.Stroke = Accent.WithAlpha(0.6)
	case docs.RelSequential:
		s.Stroke = Success.WithAlpha(0.6)
	default:
		s.Stroke = Neutral.WithAlpha(0.4)
	}
	return s
}

// EdgeWidth is 1 + 2·strength.
func EdgeWidth(strength float64) float64 {
	return 1 + strength*2
}
