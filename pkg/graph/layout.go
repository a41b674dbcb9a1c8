package graph

import (
	"encoding/json"
	"os"

	"github.com/matzehuels/doctriage/pkg/docs"
	"github.com/matzehuels/doctriage/pkg/errors"
	"github.com/matzehuels/doctriage/pkg/render/relgraph/layout"
	"github.com/matzehuels/doctriage/pkg/render/relgraph/styles"
)

// =============================================================================
// Layout - Styled Relationship Graph
// =============================================================================

// Layout is the serialized form of a solved relationship graph. Node and
// edge order follows the solver's, which hit-testing depends on.
type Layout struct {
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
	Focus  string  `json:"focus,omitempty"`
	Seed   uint64  `json:"seed"`
	Nodes  []Node  `json:"nodes"`
	Edges  []Edge  `json:"edges"`
}

// Node is a positioned, styled document.
type Node struct {
	ID           string        `json:"id"`
	Label        string        `json:"label"`
	Category     docs.Category `json:"category"`
	X            float64       `json:"x"`
	Y            float64       `json:"y"`
	Role         styles.Role   `json:"role"`
	Fill         string        `json:"fill"`
	Radius       float64       `json:"radius"`
	Glyph        string        `json:"glyph,omitempty"`
	IsKey        bool          `json:"isKey,omitempty"`
	IsRelevant   bool          `json:"isRelevant,omitempty"`
	IsPrivileged bool          `json:"isPrivileged,omitempty"`
}

// Edge is a styled relationship line between two positioned nodes.
type Edge struct {
	Source   string                `json:"source"`
	Target   string                `json:"target"`
	Type     docs.RelationshipType `json:"type"`
	Strength float64               `json:"strength"`
	Stroke   string                `json:"stroke"`
	Width    float64               `json:"width"`
	Dash     []float64             `json:"dash,omitempty"`
}

// Export resolves positions and styles of l. Nodes without a position are
// skipped.
func Export(l layout.Layout) Layout {
	out := Layout{
		Width:  l.Width,
		Height: l.Height,
		Focus:  l.Focus,
		Seed:   l.Seed,
		Nodes:  make([]Node, 0, len(l.Nodes)),
		Edges:  make([]Edge, 0, len(l.Edges)),
	}
	for _, n := range l.Nodes {
		p, ok := l.Position(n.ID)
		if !ok {
			continue
		}
		st := styles.Node(n, l.Focus)
		role := styles.RoleOf(n)
		if n.ID == l.Focus {
			role = styles.RoleCurrent
		}
		out.Nodes = append(out.Nodes, Node{
			ID:           n.ID,
			Label:        n.Label,
			Category:     n.Category,
			X:            p.X,
			Y:            p.Y,
			Role:         role,
			Fill:         st.Fill.CSS(),
			Radius:       st.Radius,
			Glyph:        st.Glyph,
			IsKey:        n.IsKey,
			IsRelevant:   n.IsRelevant,
			IsPrivileged: n.IsPrivileged,
		})
	}
	for _, e := range l.Edges {
		st := styles.Edge(e.Type, e.Strength)
		out.Edges = append(out.Edges, Edge{
			Source:   e.Source,
			Target:   e.Target,
			Type:     e.Type,
			Strength: e.Strength,
			Stroke:   st.Stroke.CSS(),
			Width:    st.Width,
			Dash:     st.Dash,
		})
	}
	return out
}

// Parse recovers the solver view of an exported layout. Styles are dropped;
// painting recomputes them from the flags.
func (l Layout) Parse() layout.Layout {
	out := layout.Layout{
		Width:     l.Width,
		Height:    l.Height,
		Focus:     l.Focus,
		Seed:      l.Seed,
		Nodes:     make([]layout.Node, len(l.Nodes)),
		Edges:     make([]layout.Edge, len(l.Edges)),
		Positions: make(layout.Positions, len(l.Nodes)),
	}
	for i, n := range l.Nodes {
		out.Nodes[i] = layout.Node{
			ID:           n.ID,
			Label:        n.Label,
			Category:     n.Category,
			IsCurrent:    n.Role == styles.RoleCurrent,
			IsKey:        n.IsKey,
			IsRelevant:   n.IsRelevant,
			IsPrivileged: n.IsPrivileged,
		}
		if _, dup := out.Positions[n.ID]; !dup {
			out.Positions[n.ID] = layout.Point{X: n.X, Y: n.Y}
		}
	}
	for i, e := range l.Edges {
		out.Edges[i] = layout.Edge{Source: e.Source, Target: e.Target, Type: e.Type, Strength: e.Strength}
	}
	return out
}

// =============================================================================
// Layout Serialization API
// =============================================================================

// MarshalLayout serializes a Layout to pretty-printed JSON bytes.
func MarshalLayout(l Layout) ([]byte, error) {
	return json.MarshalIndent(l, "", "  ")
}

// UnmarshalLayout deserializes JSON bytes into a Layout.
// The viewport must be non-empty.
func UnmarshalLayout(data []byte) (Layout, error) {
	var l Layout
	if err := json.Unmarshal(data, &l); err != nil {
		return Layout{}, errors.Wrap(errors.ErrCodeInvalidFormat, err, "unmarshal layout")
	}
	if l.Width <= 0 || l.Height <= 0 {
		return Layout{}, errors.New(errors.ErrCodeInvalidFormat, "layout viewport %gx%g is empty", l.Width, l.Height)
	}
	return l, nil
}

// WriteLayoutFile writes a Layout to a JSON file.
func WriteLayoutFile(l Layout, path string) error {
	data, err := MarshalLayout(l)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

// ReadLayoutFile reads a Layout from a JSON file.
func ReadLayoutFile(path string) (Layout, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Layout{}, errors.Wrap(errors.ErrCodeInvalidPath, err, "read %s", path)
	}
	return UnmarshalLayout(data)
}
