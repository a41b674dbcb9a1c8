// Package graph provides the serialization formats of doctriage.
//
// This package defines the canonical wire format for review data and solved
// layouts, used for JSON files, API responses, caching and
// interoperability with other tools.
//
// # Core Types
//
//   - [Bundle]: a self-contained set of documents and relationships, the
//     unit of export, import and rendering
//   - [Layout]: a solved relationship graph with positions and the resolved
//     paint styles of every node and edge
//
// # Bundle Serialization
//
//	{
//	  "version": 1,
//	  "documents": [{"id": "d1", "fileName": "lease.pdf", ...}],
//	  "relationships": [{"sourceId": "d1", "targetId": "d2",
//	                     "relationshipType": "similar", "strength": 0.8}]
//	}
//
// Common operations:
//
//	b, _ := graph.ReadBundleFile("matter.json")  // File → Bundle
//	graph.WriteBundleFile(b, "export.json")      // Bundle → File
//	data, _ := graph.MarshalBundle(b)            // Bundle → []byte
//
// Reading validates the bundle: document IDs must be unique and every
// relationship must pass [docs.Relationship.Validate]. Relationships whose
// endpoints are missing from the bundle are kept; the layout drops them.
//
// # Layout Export
//
// [Export] converts a solver result into a [Layout] carrying everything a
// downstream renderer needs (positions, fills, radii, strokes, dash
// patterns, glyphs). [Layout.Parse] recovers the solver view so cached
// exports can be painted again:
//
//	exported := graph.Export(l)
//	data, _ := graph.MarshalLayout(exported)
//	...
//	cached, _ := graph.UnmarshalLayout(data)
//	sink.RenderSVG(cached.Parse())
//
// # Concurrency
//
// All functions are safe for concurrent reads but not concurrent writes.
package graph
