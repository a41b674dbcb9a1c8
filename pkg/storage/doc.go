// Package storage persists documents, relationships and archive metadata.
//
// # Backends
//
//   - [MemoryStore]: process memory, optionally mirrored to a JSON file so
//     the review state survives restarts (the "file" backend)
//   - [MongoStore]: MongoDB collections, for deployments shared by several
//     processes
//
// Both satisfy [Store]. [Open] selects a backend from [Options] and wraps it
// with [Instrument] so every call reports to the observability storage
// hooks.
//
// # Identity
//
// Documents and archives are keyed by ID. Relationships are keyed by their
// (source, target) pair, so upserting the same pair replaces the earlier
// type and strength.
//
// # Errors
//
// Lookups of unknown documents or archives return an error carrying
// DOCUMENT_NOT_FOUND or ARCHIVE_NOT_FOUND that also matches [ErrNotFound]
// with the standard errors.Is.
package storage
