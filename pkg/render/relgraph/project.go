package relgraph

import (
	"github.com/matzehuels/doctriage/pkg/docs"
	"github.com/matzehuels/doctriage/pkg/render/relgraph/layout"
)

// ToNodes projects documents onto graph nodes, preserving order. The
// document whose ID equals currentID is flagged IsCurrent.
func ToNodes(documents []docs.Document, currentID string) []layout.Node {
	nodes := make([]layout.Node, len(documents))
	for i, d := range documents {
		nodes[i] = layout.Node{
			ID:           d.ID,
			Label:        d.FileName,
			Category:     d.Category(),
			IsCurrent:    currentID != "" && d.ID == currentID,
			IsKey:        d.IsKey,
			IsRelevant:   d.IsRelevant,
			IsPrivileged: d.IsPrivileged,
		}
	}
	return nodes
}

// ToEdges projects relationships onto graph edges, preserving order.
func ToEdges(rels []docs.Relationship) []layout.Edge {
	edges := make([]layout.Edge, len(rels))
	for i, r := range rels {
		edges[i] = layout.Edge{
			Source:   r.SourceID,
			Target:   r.TargetID,
			Type:     r.Type,
			Strength: r.Strength,
		}
	}
	return edges
}

// Neighbourhood restricts the graph to focus and the documents directly
// related to it, as the detail pane of the review UI shows it. With an
// empty focus every document is kept.
func Neighbourhood(documents []docs.Document, rels []docs.Relationship, focus string) ([]docs.Document, []docs.Relationship) {
	if focus == "" {
		return documents, rels
	}
	keep := map[string]bool{focus: true}
	for _, id := range docs.RelatedIDs(focus, rels) {
		keep[id] = true
	}
	var outDocs []docs.Document
	for _, d := range documents {
		if keep[d.ID] {
			outDocs = append(outDocs, d)
		}
	}
	var outRels []docs.Relationship
	for _, r := range rels {
		if r.Touches(focus) {
			outRels = append(outRels, r)
		}
	}
	return outDocs, outRels
}
