package layout

import (
	"fmt"
	"math"
	"testing"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"

	"github.com/matzehuels/doctriage/pkg/docs"
)

func genNodes(n int, focus bool) []Node {
	nodes := make([]Node, n)
	for i := range nodes {
		nodes[i] = Node{ID: fmt.Sprintf("n%d", i)}
	}
	if focus && n > 0 {
		nodes[n/2].IsCurrent = true
	}
	return nodes
}

func genEdges(n int, seed uint64) []Edge {
	if n < 2 {
		return nil
	}
	r := newRand(seed)
	var edges []Edge
	for i := 0; i < n; i++ {
		j := r.IntN(n)
		if i == j {
			continue
		}
		edges = append(edges, Edge{
			Source:   fmt.Sprintf("n%d", i),
			Target:   fmt.Sprintf("n%d", j),
			Type:     docs.RelationshipTypes[r.IntN(len(docs.RelationshipTypes))],
			Strength: r.Float64(),
		})
	}
	return edges
}

func TestLayoutProperties(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 200
	properties := gopter.NewProperties(parameters)

	properties.Property("positions stay inside the margin", prop.ForAll(
		func(n int, w, h float64, seed uint64, focus bool) bool {
			l := Solve(genNodes(n, focus), genEdges(n, seed), w, h, WithSeed(seed))
			for _, p := range l.Positions {
				if !inBounds(p, w, h) {
					return false
				}
			}
			return len(l.Positions) == n
		},
		gen.IntRange(0, 40),
		gen.Float64Range(60, 1600),
		gen.Float64Range(60, 1200),
		gen.UInt64(),
		gen.Bool(),
	))

	properties.Property("dangling edges do not move any node", prop.ForAll(
		func(n int, seed uint64, ghosts int) bool {
			nodes := genNodes(n, true)
			edges := genEdges(n, seed)
			withGhosts := append([]Edge(nil), edges...)
			for i := 0; i < ghosts; i++ {
				withGhosts = append(withGhosts,
					Edge{Source: fmt.Sprintf("n%d", i%max(n, 1)), Target: "ghost", Strength: 1},
					Edge{Source: "ghost", Target: "phantom", Strength: 1},
				)
			}
			a := Solve(nodes, edges, 800, 600, WithSeed(seed))
			b := Solve(nodes, withGhosts, 800, 600, WithSeed(seed))
			for id, p := range a.Positions {
				if b.Positions[id] != p {
					return false
				}
			}
			return len(a.Edges) == len(b.Edges)
		},
		gen.IntRange(0, 25),
		gen.UInt64(),
		gen.IntRange(1, 5),
	))

	properties.Property("focus ends within half the reachable radius of the centre", prop.ForAll(
		func(n int, w, h float64, seed uint64) bool {
			l := Solve(genNodes(n, true), genEdges(n, seed), w, h, WithSeed(seed))
			p, ok := l.Position(l.Focus)
			if !ok {
				return false
			}
			reach := math.Hypot(w/2-Margin, h/2-Margin)
			return p.Dist(l.Center()) <= reach/2+1e-9
		},
		gen.IntRange(1, 30),
		gen.Float64Range(100, 1600),
		gen.Float64Range(100, 1200),
		gen.UInt64(),
	))

	properties.Property("same seed yields same layout", prop.ForAll(
		func(n int, seed uint64) bool {
			nodes, edges := genNodes(n, false), genEdges(n, seed)
			a := Solve(nodes, edges, 700, 500, WithSeed(seed))
			b := Solve(nodes, edges, 700, 500, WithSeed(seed))
			for id, p := range a.Positions {
				if b.Positions[id] != p {
					return false
				}
			}
			return a.Seed == seed
		},
		gen.IntRange(0, 20),
		gen.UInt64(),
	))

	properties.TestingRun(t)
}
