// Package styles maps graph nodes and edges to their visual encoding.
//
// Edges are styled by relationship type: referenced links are dashed gray,
// similar links solid indigo, sequential links solid green, and anything else
// a faint gray. Line width grows linearly with strength, from 1 at strength 0
// to 3 at strength 1.
//
// Nodes are filled by the first matching flag in priority order
// current > key > relevant > privileged > default. The current node is
// larger and glows. Every node is outlined in white and carries a
// three-letter glyph when its category is recognised.
package styles
