package pipeline

import (
	"context"
	"time"

	"github.com/matzehuels/doctriage/pkg/errors"
	"github.com/matzehuels/doctriage/pkg/graph"
	"github.com/matzehuels/doctriage/pkg/observability"
	"github.com/matzehuels/doctriage/pkg/render/relgraph"
	"github.com/matzehuels/doctriage/pkg/render/relgraph/layout"
)

// Solve projects the bundle onto graph nodes and runs the force solver.
// The focus document, when set, is flagged current and must exist.
func Solve(ctx context.Context, b graph.Bundle, opts Options) (layout.Layout, error) {
	if err := opts.ValidateForLayout(); err != nil {
		return layout.Layout{}, err
	}
	if err := ctx.Err(); err != nil {
		return layout.Layout{}, err
	}
	if opts.Focus != "" {
		if _, ok := b.Document(opts.Focus); !ok {
			return layout.Layout{}, errors.New(errors.ErrCodeDocumentNotFound, "focus document %q not found", opts.Focus)
		}
	}

	documents, rels := b.Documents, b.Relationships
	if opts.Scope == ScopeNeighbourhood {
		documents, rels = relgraph.Neighbourhood(documents, rels, opts.Focus)
	}
	nodes := relgraph.ToNodes(documents, opts.Focus)
	edges := relgraph.ToEdges(rels)

	observability.Pipeline().OnLayoutStart(ctx, len(nodes))
	start := time.Now()

	l := layout.Solve(nodes, edges, opts.Width, opts.Height, solverOptions(opts)...)

	elapsed := time.Since(start)
	observability.Pipeline().OnLayoutComplete(ctx, len(l.Nodes), len(l.Edges), elapsed)
	opts.Logger.Debug("solved layout",
		"nodes", len(l.Nodes),
		"edges", len(l.Edges),
		"seed", l.Seed,
		"duration", elapsed)
	return l, nil
}

func solverOptions(opts Options) []layout.Option {
	var out []layout.Option
	if opts.Focus != "" {
		out = append(out, layout.WithFocus(opts.Focus))
	}
	if opts.Seed != 0 {
		out = append(out, layout.WithSeed(opts.Seed))
	}
	if opts.Iterations > 0 {
		out = append(out, layout.WithIterations(opts.Iterations))
	}
	return out
}
