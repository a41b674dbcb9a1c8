// Package layout computes force-directed positions for the document
// relationship graph.
//
// # Algorithm
//
// [Solve] seeds every node at a random point inset 50px from the viewport
// edges, pins the focus node (the open document) to the exact centre, and
// runs a fixed number of iterations. Each iteration:
//
//  1. Pushes every unordered pair of nodes apart with force 300/d².
//  2. Pulls the endpoints of every edge together with force 0.05·d·strength.
//  3. Clamps every node into [30, W-30] × [30, H-30].
//  4. Moves the focus node halfway towards the viewport centre.
//
// Pairs at distance zero are skipped, as are edges whose endpoints are not
// in the node set. The solver never fails; pathological input yields a
// degenerate but bounded layout.
//
// # Reproducibility
//
// Seeds are drawn from a PCG generator. Pass [WithSeed] to get the same
// positions for the same input, or [WithInitial] to start from a previous
// layout's positions instead of random points:
//
//	l := layout.Solve(nodes, edges, 800, 600, layout.WithFocus("doc-1"), layout.WithSeed(42))
//	p, ok := l.Position("doc-1")
//
// # Concurrency
//
// Solve shares no state between calls and may be called concurrently.
// A [Simulation] is owned by a single goroutine.
package layout
