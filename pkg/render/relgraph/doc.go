// Package relgraph projects review documents onto the relationship graph.
//
// The graph engine itself lives in the subpackages ([layout], [styles],
// [sink], [interact]); this package only converts domain values:
//
//	nodes := relgraph.ToNodes(documents, currentID)
//	edges := relgraph.ToEdges(relationships)
//	l := layout.Solve(nodes, edges, 800, 600, layout.WithFocus(currentID))
//
// [layout]: github.com/matzehuels/doctriage/pkg/render/relgraph/layout
// [styles]: github.com/matzehuels/doctriage/pkg/render/relgraph/styles
// [sink]: github.com/matzehuels/doctriage/pkg/render/relgraph/sink
// [interact]: github.com/matzehuels/doctriage/pkg/render/relgraph/interact
package relgraph
