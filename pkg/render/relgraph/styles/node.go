package styles

import "github.com/matzehuels/doctriage/pkg/render/relgraph/layout"

// Node radii.
const (
	CurrentRadius = 12.0
	DefaultRadius = 8.0
	BorderWidth   = 2.0
	GlyphSize     = 8.0
	GlowBlur      = 12.0
)

// Glow is the soft shadow drawn behind the current node.
type Glow struct {
	Color Color
	Blur  float64
}

// NodeStyle is the fill, outline and glyph of one node.
type NodeStyle struct {
	Fill   Color
	Radius float64
	Border Color
	// BorderWidth is drawn after the fill.
	BorderWidth float64
	Glow        *Glow
	Glyph       string
	GlyphColor  Color
	GlyphSize   float64
}

// Role is the flag that decided a node's fill.
type Role string

const (
	RoleCurrent    Role = "current"
	RoleKey        Role = "key"
	RoleRelevant   Role = "relevant"
	RolePrivileged Role = "privileged"
	RoleDefault    Role = "default"
)

// RoleOf applies the fill priority current > key > relevant > privileged.
func RoleOf(n layout.Node) Role {
	switch {
	case n.IsCurrent:
		return RoleCurrent
	case n.IsKey:
		return RoleKey
	case n.IsRelevant:
		return RoleRelevant
	case n.IsPrivileged:
		return RolePrivileged
	default:
		return RoleDefault
	}
}

var roleFills = map[Role]Color{
	RoleCurrent:    Accent,
	RoleKey:        Amber,
	RoleRelevant:   Success,
	RolePrivileged: Danger,
	RoleDefault:    Neutral,
}

// Fill returns the fill colour for r.
func (r Role) Fill() Color { return roleFills[r] }

// Node returns the style for n. A node counts as current when it is flagged
// IsCurrent or its ID equals focus.
func Node(n layout.Node, focus string) NodeStyle {
	if focus != "" && n.ID == focus {
		n.IsCurrent = true
	}
	role := RoleOf(n)
	s := NodeStyle{
		Fill:        role.Fill(),
		Radius:      DefaultRadius,
		Border:      White,
		BorderWidth: BorderWidth,
		Glyph:       n.Category.Glyph(),
		GlyphColor:  White,
		GlyphSize:   GlyphSize,
	}
	if role == RoleCurrent {
		s.Radius = CurrentRadius
		s.Glow = &Glow{Color: Accent.WithAlpha(0.7), Blur: GlowBlur}
	}
	return s
}

// Legend lists the non-current roles in the order the review UI shows them.
var Legend = []struct {
	Label string
	Role  Role
}{
	{"Standard", RoleDefault},
	{"Relevant", RoleRelevant},
	{"Privileged", RolePrivileged},
	{"Key", RoleKey},
}
