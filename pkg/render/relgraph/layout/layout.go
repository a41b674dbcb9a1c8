package layout

import (
	"math"

	"github.com/matzehuels/doctriage/pkg/docs"
)

// Node is a document projected for layout and painting.
type Node struct {
	ID           string        `json:"id"`
	Label        string        `json:"label"`
	Category     docs.Category `json:"category"`
	IsCurrent    bool          `json:"isCurrent,omitempty"`
	IsKey        bool          `json:"isKey,omitempty"`
	IsRelevant   bool          `json:"isRelevant,omitempty"`
	IsPrivileged bool          `json:"isPrivileged,omitempty"`
}

// Edge is an undirected attraction between two nodes. Source and Target are
// kept for type-specific rendering.
type Edge struct {
	Source   string                `json:"source"`
	Target   string                `json:"target"`
	Type     docs.RelationshipType `json:"type"`
	Strength float64               `json:"strength"`
}

// Point is a position in viewport space.
type Point struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Dist returns the Euclidean distance between p and q.
func (p Point) Dist(q Point) float64 {
	return math.Hypot(p.X-q.X, p.Y-q.Y)
}

// Positions maps node IDs to their computed positions.
type Positions map[string]Point

// Layout is the result of a solver run. Nodes keeps the caller's order,
// which hit-testing relies on for tie-breaking. Edges holds only the edges
// whose endpoints are both positioned.
type Layout struct {
	Width     float64   `json:"width"`
	Height    float64   `json:"height"`
	Focus     string    `json:"focus,omitempty"`
	Seed      uint64    `json:"seed,omitempty"`
	Nodes     []Node    `json:"nodes"`
	Edges     []Edge    `json:"edges"`
	Positions Positions `json:"positions"`
}

// Position returns the position of the node with the given ID.
func (l Layout) Position(id string) (Point, bool) {
	p, ok := l.Positions[id]
	return p, ok
}

// Center returns the centre of the viewport.
func (l Layout) Center() Point {
	return Point{X: l.Width / 2, Y: l.Height / 2}
}

// Node returns the node with the given ID.
func (l Layout) Node(id string) (Node, bool) {
	for _, n := range l.Nodes {
		if n.ID == id {
			return n, true
		}
	}
	return Node{}, false
}

// Empty reports whether the layout has no nodes.
func (l Layout) Empty() bool { return len(l.Nodes) == 0 }
