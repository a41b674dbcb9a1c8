package storage

import (
	"context"
	stderrors "errors"

	"github.com/matzehuels/doctriage/pkg/docs"
	"github.com/matzehuels/doctriage/pkg/errors"
)

// ErrNotFound is the sentinel wrapped by every not-found error of this
// package.
var ErrNotFound = stderrors.New("not found")

// Store is the repository for the review state.
type Store interface {
	// ListDocuments returns every document in insertion order.
	ListDocuments(ctx context.Context) ([]docs.Document, error)
	// GetDocument returns the document with the given ID.
	GetDocument(ctx context.Context, id string) (docs.Document, error)
	// UpsertDocuments inserts or replaces documents by ID. Replaced
	// documents keep their position.
	UpsertDocuments(ctx context.Context, documents ...docs.Document) error
	// DeleteDocument removes a document and every relationship touching it.
	DeleteDocument(ctx context.Context, id string) error
	// DocumentsByArchive returns the documents extracted from archive.
	DocumentsByArchive(ctx context.Context, archive string) ([]docs.Document, error)

	// ListRelationships returns every relationship.
	ListRelationships(ctx context.Context) ([]docs.Relationship, error)
	// RelationshipsByDocument returns relationships with id at either end.
	RelationshipsByDocument(ctx context.Context, id string) ([]docs.Relationship, error)
	// UpsertRelationships inserts or replaces relationships by endpoint pair.
	UpsertRelationships(ctx context.Context, rels ...docs.Relationship) error
	// DeleteRelationship removes the relationship with the given key.
	DeleteRelationship(ctx context.Context, key docs.RelKey) error

	// ListArchives returns archive metadata in insertion order.
	ListArchives(ctx context.Context) ([]docs.Archive, error)
	// UpsertArchive inserts or replaces archive metadata by ID.
	UpsertArchive(ctx context.Context, a docs.Archive) error
	// ClearArchive removes the named archive, its documents, and every
	// relationship touching those documents.
	ClearArchive(ctx context.Context, fileName string) error

	Close() error
}

func documentNotFound(id string) error {
	return errors.Wrap(errors.ErrCodeDocumentNotFound, ErrNotFound, "document %q", id)
}

func archiveNotFound(name string) error {
	return errors.Wrap(errors.ErrCodeArchiveNotFound, ErrNotFound, "archive %q", name)
}

func relationshipNotFound(k docs.RelKey) error {
	return errors.Wrap(errors.ErrCodeNotFound, ErrNotFound, "relationship %s -> %s", k.SourceID, k.TargetID)
}

func validateRelationships(rels []docs.Relationship) error {
	for _, r := range rels {
		if err := r.Validate(); err != nil {
			return err
		}
	}
	return nil
}

func validateDocuments(documents []docs.Document) error {
	for i := range documents {
		if documents[i].ID == "" {
			return errors.New(errors.ErrCodeInvalidInput, "document %q has no id", documents[i].FileName)
		}
		if err := docs.Validate(documents[i]); err != nil {
			return err
		}
	}
	return nil
}

// UpdateDocument loads the document with the given ID, applies fn and
// stores the result. Nothing is written when fn fails.
func UpdateDocument(ctx context.Context, s Store, id string, fn func(*docs.Document) error) (docs.Document, error) {
	d, err := s.GetDocument(ctx, id)
	if err != nil {
		return docs.Document{}, err
	}
	if err := fn(&d); err != nil {
		return docs.Document{}, err
	}
	if err := s.UpsertDocuments(ctx, d); err != nil {
		return docs.Document{}, err
	}
	return d, nil
}

// Snapshot returns every document and relationship.
func Snapshot(ctx context.Context, s Store) ([]docs.Document, []docs.Relationship, error) {
	documents, err := s.ListDocuments(ctx)
	if err != nil {
		return nil, nil, err
	}
	rels, err := s.ListRelationships(ctx)
	if err != nil {
		return nil, nil, err
	}
	return documents, rels, nil
}
