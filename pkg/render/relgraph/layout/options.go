package layout

import "math/rand/v2"

// Solver defaults.
const (
	DefaultIterations = 30
	DefaultRepulsion  = 300.0
	DefaultAttraction = 0.05

	// Margin is the inset every position is clamped to after each iteration.
	Margin = 30.0
	// SeedInset is the inset of the rectangle random seeds are drawn from.
	SeedInset = 50.0
)

// Option configures a solver run.
type Option func(*config)

type config struct {
	focus      string
	rng        *rand.Rand
	seed       uint64
	seeded     bool
	iterations int
	repulsion  float64
	attraction float64
	initial    Positions
}

func newConfig(opts ...Option) config {
	c := config{
		iterations: DefaultIterations,
		repulsion:  DefaultRepulsion,
		attraction: DefaultAttraction,
	}
	for _, opt := range opts {
		opt(&c)
	}
	if !c.seeded {
		c.seed = rand.Uint64()
	}
	c.rng = newRand(c.seed)
	return c
}

func newRand(seed uint64) *rand.Rand {
	return rand.New(rand.NewPCG(seed, seed^0xdeadbeef))
}

// WithFocus designates the node pulled towards the viewport centre. Without
// it, the first node flagged IsCurrent is used.
func WithFocus(id string) Option { return func(c *config) { c.focus = id } }

// WithSeed makes the random seeding reproducible.
func WithSeed(seed uint64) Option {
	return func(c *config) { c.seed = seed; c.seeded = true }
}

// WithIterations overrides the iteration budget. Values below zero are
// treated as zero.
func WithIterations(n int) Option {
	return func(c *config) { c.iterations = max(n, 0) }
}

// WithConstants overrides the repulsion and attraction coefficients.
func WithConstants(repulsion, attraction float64) Option {
	return func(c *config) { c.repulsion, c.attraction = repulsion, attraction }
}

// WithInitial starts nodes found in p from those positions instead of random
// seeds. The focus node is still placed at the centre.
func WithInitial(p Positions) Option { return func(c *config) { c.initial = p } }
