package layout

import (
	"math"
	"slices"
)

// Solve computes positions for nodes within a width × height viewport.
// Duplicate node IDs share the position of their first occurrence.
func Solve(nodes []Node, edges []Edge, width, height float64, opts ...Option) Layout {
	sim := NewSimulation(nodes, edges, width, height, opts...)
	sim.Run()
	return sim.Layout()
}

// Simulation is a stepwise solver run. Most callers want [Solve].
type Simulation struct {
	cfg    config
	width  float64
	height float64
	focus  int // index into ids, -1 when none

	nodes []Node
	edges []Edge
	ids   []string
	pos   []Point
	links []link
	step  int
}

type link struct {
	a, b     int
	strength float64
}

// NewSimulation seeds a simulation without running any iteration.
func NewSimulation(nodes []Node, edges []Edge, width, height float64, opts ...Option) *Simulation {
	s := &Simulation{
		cfg:    newConfig(opts...),
		width:  width,
		height: height,
		focus:  -1,
		nodes:  nodes,
	}

	index := make(map[string]int, len(nodes))
	for _, n := range nodes {
		if _, dup := index[n.ID]; dup {
			continue
		}
		index[n.ID] = len(s.ids)
		s.ids = append(s.ids, n.ID)
	}

	focus := s.cfg.focus
	if focus == "" {
		for _, n := range nodes {
			if n.IsCurrent {
				focus = n.ID
				break
			}
		}
	}
	if i, ok := index[focus]; ok {
		s.focus = i
	}

	for _, e := range edges {
		a, okA := index[e.Source]
		b, okB := index[e.Target]
		if !okA || !okB {
			continue
		}
		s.edges = append(s.edges, e)
		strength := e.Strength
		if math.IsNaN(strength) {
			strength = 0
		}
		s.links = append(s.links, link{a: a, b: b, strength: strength})
	}

	s.seed()
	return s
}

// seed draws one random point per node, in node order, so the random stream
// does not depend on the edge set.
func (s *Simulation) seed() {
	s.pos = make([]Point, len(s.ids))
	for i, id := range s.ids {
		p := Point{
			X: s.cfg.rng.Float64()*(s.width-2*SeedInset) + SeedInset,
			Y: s.cfg.rng.Float64()*(s.height-2*SeedInset) + SeedInset,
		}
		if q, ok := s.cfg.initial[id]; ok {
			p = q
		}
		s.pos[i] = p
	}
	if s.focus >= 0 {
		s.pos[s.focus] = s.center()
	}
}

func (s *Simulation) center() Point {
	return Point{X: s.width / 2, Y: s.height / 2}
}

// Run performs the remaining iterations of the budget.
func (s *Simulation) Run() {
	for s.step < s.cfg.iterations {
		s.Step()
	}
}

// Step performs one iteration regardless of the budget.
func (s *Simulation) Step() {
	s.repel()
	s.attract()
	s.clamp()
	s.pullFocus()
	s.step++
}

// Steps returns the number of iterations performed so far.
func (s *Simulation) Steps() int { return s.step }

// Position returns the current position of the node with the given ID.
func (s *Simulation) Position(id string) (Point, bool) {
	for i, v := range s.ids {
		if v == id {
			return s.pos[i], true
		}
	}
	return Point{}, false
}

func (s *Simulation) repel() {
	k := s.cfg.repulsion
	for i := 0; i < len(s.pos); i++ {
		for j := i + 1; j < len(s.pos); j++ {
			dx := s.pos[j].X - s.pos[i].X
			dy := s.pos[j].Y - s.pos[i].Y
			d2 := dx*dx + dy*dy
			d := math.Sqrt(d2)
			if d == 0 {
				continue
			}
			f := k / d2
			fx, fy := f*dx/d, f*dy/d
			s.pos[i].X -= fx
			s.pos[i].Y -= fy
			s.pos[j].X += fx
			s.pos[j].Y += fy
		}
	}
}

func (s *Simulation) attract() {
	k := s.cfg.attraction
	for _, l := range s.links {
		dx := s.pos[l.b].X - s.pos[l.a].X
		dy := s.pos[l.b].Y - s.pos[l.a].Y
		d := math.Sqrt(dx*dx + dy*dy)
		if d == 0 {
			continue
		}
		f := k * d * l.strength
		fx, fy := f*dx/d, f*dy/d
		s.pos[l.a].X += fx
		s.pos[l.a].Y += fy
		s.pos[l.b].X -= fx
		s.pos[l.b].Y -= fy
	}
}

func (s *Simulation) clamp() {
	for i := range s.pos {
		s.pos[i].X = clampTo(s.pos[i].X, Margin, s.width-Margin)
		s.pos[i].Y = clampTo(s.pos[i].Y, Margin, s.height-Margin)
	}
}

// clampTo mirrors max(lo, min(hi, v)); for viewports narrower than twice the
// margin every value lands on lo.
func clampTo(v, lo, hi float64) float64 {
	return math.Max(lo, math.Min(hi, v))
}

func (s *Simulation) pullFocus() {
	if s.focus < 0 {
		return
	}
	c := s.center()
	p := &s.pos[s.focus]
	p.X = (p.X + c.X) / 2
	p.Y = (p.Y + c.Y) / 2
}

// Layout snapshots the current state.
func (s *Simulation) Layout() Layout {
	l := Layout{
		Width:     s.width,
		Height:    s.height,
		Nodes:     slices.Clone(s.nodes),
		Edges:     s.edges,
		Positions: make(Positions, len(s.ids)),
		Seed:      s.cfg.seed,
	}
	if s.focus >= 0 {
		l.Focus = s.ids[s.focus]
	}
	for i, id := range s.ids {
		l.Positions[id] = s.pos[i]
	}
	return l
}
