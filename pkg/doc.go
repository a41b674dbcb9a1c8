// Package pkg holds the doctriage libraries.
//
// # Overview
//
// Doctriage reviews archives of legal documents. Uploaded ZIP archives are
// unpacked into documents, analysed, linked by typed relationships, and
// shown as a force-directed graph that reviewers click through.
//
//  1. [docs] - documents, relationships, filters and review state
//  2. [analysis], [ingest] - archive extraction and mock analysis
//  3. [storage], [cache] - document stores and the render cache
//  4. [render] - the relationship graph layout, painters and hit-testing
//  5. [graph] - JSON bundles and exported layouts
//  6. [pipeline] - orchestration (bundle → layout → artifacts)
//  7. [config], [metrics], [observability] - ambient plumbing
//
// # Data flow
//
//	ZIP archive
//	     ↓
//	[ingest] (extract, analyse, relate)
//	     ↓
//	[storage] (documents + relationships)
//	     ↓
//	[pipeline] (solve layout, render, cache)
//	     ↓
//	SVG/PNG/PDF/JSON/DOT output, or [render/relgraph/interact] views
package pkg
