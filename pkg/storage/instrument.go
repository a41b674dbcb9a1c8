package storage

import (
	"context"
	"time"

	"github.com/matzehuels/doctriage/pkg/docs"
	"github.com/matzehuels/doctriage/pkg/observability"
)

// Instrument wraps s so every call reports its latency and outcome to the
// observability storage hooks under the given backend name.
func Instrument(s Store, backend string) Store {
	if _, ok := s.(*instrumented); ok {
		return s
	}
	return &instrumented{inner: s, backend: backend}
}

type instrumented struct {
	inner   Store
	backend string
}

func (s *instrumented) observe(ctx context.Context, op string, start time.Time, err error) {
	observability.Storage().OnStorageOp(ctx, s.backend, op, time.Since(start), err)
}

func (s *instrumented) ListDocuments(ctx context.Context) ([]docs.Document, error) {
	start := time.Now()
	out, err := s.inner.ListDocuments(ctx)
	s.observe(ctx, "list_documents", start, err)
	return out, err
}

func (s *instrumented) GetDocument(ctx context.Context, id string) (docs.Document, error) {
	start := time.Now()
	d, err := s.inner.GetDocument(ctx, id)
	s.observe(ctx, "get_document", start, err)
	return d, err
}

func (s *instrumented) UpsertDocuments(ctx context.Context, documents ...docs.Document) error {
	start := time.Now()
	err := s.inner.UpsertDocuments(ctx, documents...)
	s.observe(ctx, "upsert_documents", start, err)
	return err
}

func (s *instrumented) DeleteDocument(ctx context.Context, id string) error {
	start := time.Now()
	err := s.inner.DeleteDocument(ctx, id)
	s.observe(ctx, "delete_document", start, err)
	return err
}

func (s *instrumented) DocumentsByArchive(ctx context.Context, archive string) ([]docs.Document, error) {
	start := time.Now()
	out, err := s.inner.DocumentsByArchive(ctx, archive)
	s.observe(ctx, "documents_by_archive", start, err)
	return out, err
}

func (s *instrumented) ListRelationships(ctx context.Context) ([]docs.Relationship, error) {
	start := time.Now()
	out, err := s.inner.ListRelationships(ctx)
	s.observe(ctx, "list_relationships", start, err)
	return out, err
}

func (s *instrumented) RelationshipsByDocument(ctx context.Context, id string) ([]docs.Relationship, error) {
	start := time.Now()
	out, err := s.inner.RelationshipsByDocument(ctx, id)
	s.observe(ctx, "relationships_by_document", start, err)
	return out, err
}

func (s *instrumented) UpsertRelationships(ctx context.Context, rels ...docs.Relationship) error {
	start := time.Now()
	err := s.inner.UpsertRelationships(ctx, rels...)
	s.observe(ctx, "upsert_relationships", start, err)
	return err
}

func (s *instrumented) DeleteRelationship(ctx context.Context, key docs.RelKey) error {
	start := time.Now()
	err := s.inner.DeleteRelationship(ctx, key)
	s.observe(ctx, "delete_relationship", start, err)
	return err
}

func (s *instrumented) ListArchives(ctx context.Context) ([]docs.Archive, error) {
	start := time.Now()
	out, err := s.inner.ListArchives(ctx)
	s.observe(ctx, "list_archives", start, err)
	return out, err
}

func (s *instrumented) UpsertArchive(ctx context.Context, a docs.Archive) error {
	start := time.Now()
	err := s.inner.UpsertArchive(ctx, a)
	s.observe(ctx, "upsert_archive", start, err)
	return err
}

func (s *instrumented) ClearArchive(ctx context.Context, fileName string) error {
	start := time.Now()
	err := s.inner.ClearArchive(ctx, fileName)
	s.observe(ctx, "clear_archive", start, err)
	return err
}

func (s *instrumented) Close() error { return s.inner.Close() }
