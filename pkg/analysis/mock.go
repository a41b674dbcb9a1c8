package analysis

import (
	"context"
	"fmt"
	"hash/fnv"
	"math/rand/v2"
	"time"

	"github.com/matzehuels/doctriage/pkg/docs"
)

// Probabilities of the review flags and of a relationship between any pair.
const (
	RelevantProbability   = 0.7
	PrivilegedProbability = 0.3
	KeyProbability        = 0.2
	RelateProbability     = 0.3
)

// MinStrength is the lower bound of proposed relationship strengths.
const MinStrength = 0.5

// Mock is an offline [Analyzer]. Results depend only on the seed and the
// document ID, so concurrent analysis is reproducible.
type Mock struct {
	seed  uint64
	delay time.Duration
}

// MockOption configures a Mock.
type MockOption func(*Mock)

// WithSeed fixes the random seed.
func WithSeed(seed uint64) MockOption {
	return func(m *Mock) { m.seed = seed }
}

// WithDelay simulates model latency on every call. The delay honours
// context cancellation.
func WithDelay(d time.Duration) MockOption {
	return func(m *Mock) { m.delay = d }
}

// NewMock returns a mock analyzer. Without [WithSeed] the seed is random.
func NewMock(opts ...MockOption) *Mock {
	m := &Mock{seed: rand.Uint64()}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// Seed returns the seed in use.
func (m *Mock) Seed() uint64 { return m.seed }

func (m *Mock) wait(ctx context.Context) error {
	if m.delay <= 0 {
		return ctx.Err()
	}
	t := time.NewTimer(m.delay)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}

func (m *Mock) rng(key string) *rand.Rand {
	h := fnv.New64a()
	_, _ = h.Write([]byte(key))
	return rand.New(rand.NewPCG(m.seed, h.Sum64()))
}

var (
	people        = []string{"John Smith", "Jane Doe", "Robert Johnson", "Maria Garcia", "Wei Chen"}
	organizations = []string{"ACME Corp", "Widget Inc", "Legal Dept", "Northwind LLP"}
	dates         = []string{"January 15, 2023", "December 31, 2024", "March 3, 2022"}
	locations     = []string{"New York", "Delaware", "London"}
	tagPool       = []string{"Agreement", "Contract", "Important", "Correspondence", "Financial"}
)

// pick returns n distinct entries of pool in pool order.
func pick(r *rand.Rand, pool []string, n int) []string {
	idx := r.Perm(len(pool))[:min(n, len(pool))]
	mark := make([]bool, len(pool))
	for _, i := range idx {
		mark[i] = true
	}
	out := make([]string, 0, n)
	for i, v := range pool {
		if mark[i] {
			out = append(out, v)
		}
	}
	return out
}

// Analyze fabricates a result for d.
func (m *Mock) Analyze(ctx context.Context, d docs.Document) (Result, error) {
	if err := m.wait(ctx); err != nil {
		return Result{}, err
	}
	r := m.rng(d.ID)
	cat := d.Category()

	summary := fmt.Sprintf("%s appears to be a legal agreement outlining terms between parties.", d.FileName)
	if cat == docs.CategoryEmail {
		summary = fmt.Sprintf("%s is correspondence discussing the terms of an agreement.", d.FileName)
	}

	return Result{
		DocumentID: d.ID,
		Summary:    summary,
		KeyPoints: []string{
			"Agreement dated January, 2023",
			"Parties include ACME Corp and Widget Inc",
			"Term is 24 months with automatic renewal",
			"Early termination requires 30 days notice",
		},
		Entities: docs.Entities{
			People:        pick(r, people, 1+r.IntN(3)),
			Organizations: pick(r, organizations, 1+r.IntN(3)),
			Dates:         pick(r, dates, 1+r.IntN(2)),
			Locations:     pick(r, locations, 1+r.IntN(2)),
		},
		IsRelevant:    r.Float64() < RelevantProbability,
		IsPrivileged:  r.Float64() < PrivilegedProbability,
		IsKey:         r.Float64() < KeyProbability,
		SuggestedTags: pick(r, tagPool, 2+r.IntN(2)),
	}, nil
}

// Relate links each ordered pair i<j with probability [RelateProbability],
// a uniformly chosen type and a strength in [0.5, 1).
func (m *Mock) Relate(ctx context.Context, ids []string) ([]docs.Relationship, error) {
	if err := m.wait(ctx); err != nil {
		return nil, err
	}
	r := rand.New(rand.NewPCG(m.seed, m.seed^0xdeadbeef))
	var out []docs.Relationship
	for i := 0; i < len(ids); i++ {
		for j := i + 1; j < len(ids); j++ {
			if ids[i] == ids[j] || r.Float64() >= RelateProbability {
				continue
			}
			out = append(out, docs.Relationship{
				SourceID: ids[i],
				TargetID: ids[j],
				Type:     docs.RelationshipTypes[r.IntN(len(docs.RelationshipTypes))],
				Strength: MinStrength + r.Float64()*(1-MinStrength),
			})
		}
	}
	return out, nil
}

var _ Analyzer = (*Mock)(nil)
