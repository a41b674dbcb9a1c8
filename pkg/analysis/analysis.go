// Package analysis produces summaries, entities, review flags and
// relationships for documents.
//
// The only implementation is [Mock], which fabricates plausible results
// from a seeded random source without any network access. It stands in for
// a model-backed analyzer behind the same [Analyzer] interface.
//
//	a := analysis.NewMock(analysis.WithSeed(7))
//	res, err := a.Analyze(ctx, doc)
//	doc = analysis.Apply(doc, res)
package analysis

import (
	"context"

	"github.com/matzehuels/doctriage/pkg/docs"
)

// Result is the analysis of one document.
type Result struct {
	DocumentID    string        `json:"documentId"`
	Summary       string        `json:"summary"`
	KeyPoints     []string      `json:"keyPoints"`
	Entities      docs.Entities `json:"entities"`
	IsRelevant    bool          `json:"isRelevant"`
	IsPrivileged  bool          `json:"isPrivileged"`
	IsKey         bool          `json:"isKey"`
	SuggestedTags []string      `json:"suggestedTags"`
}

// Analyzer analyses documents and proposes relationships between them.
// Implementations must be safe for concurrent use.
type Analyzer interface {
	Analyze(ctx context.Context, d docs.Document) (Result, error)
	// Relate proposes relationships among the given documents. Pairs are
	// considered in list order with the earlier document as source.
	Relate(ctx context.Context, ids []string) ([]docs.Relationship, error)
}

// Apply merges r into d: suggested tags are added without duplicates, the
// analysis fields and review flags are overwritten.
func Apply(d docs.Document, r Result) docs.Document {
	out := d.Clone()
	out.Summary = r.Summary
	out.KeyPoints = append([]string(nil), r.KeyPoints...)
	out.Entities = r.Entities
	out.IsRelevant = r.IsRelevant
	out.IsPrivileged = r.IsPrivileged
	out.IsKey = r.IsKey
	if out.Tags == nil {
		out.Tags = []string{}
	}
	out.MergeTags(r.SuggestedTags)
	return out
}
