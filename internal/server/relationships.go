package server

import (
	"net/http"

	"github.com/matzehuels/doctriage/pkg/docs"
	"github.com/matzehuels/doctriage/pkg/errors"
)

func (s *Server) listRelationships(w http.ResponseWriter, r *http.Request) {
	rels, err := s.store.ListRelationships(r.Context())
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, rels)
}

// upsertRelationship creates or replaces the relationship between two
// existing documents.
func (s *Server) upsertRelationship(w http.ResponseWriter, r *http.Request) {
	var rel docs.Relationship
	if err := decode(r, &rel); err != nil {
		s.writeError(w, r, err)
		return
	}
	if err := rel.Validate(); err != nil {
		s.writeError(w, r, err)
		return
	}
	ctx := r.Context()
	for _, id := range []string{rel.SourceID, rel.TargetID} {
		if _, err := s.store.GetDocument(ctx, id); err != nil {
			s.writeError(w, r, err)
			return
		}
	}
	if err := s.store.UpsertRelationships(ctx, rel); err != nil {
		s.writeError(w, r, err)
		return
	}
	if err := s.refreshRelated(r, rel.SourceID, rel.TargetID); err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, rel)
}

// deleteRelationship removes the relationship named by the source and
// target query parameters.
func (s *Server) deleteRelationship(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	key := docs.RelKey{SourceID: q.Get("source"), TargetID: q.Get("target")}
	if key.SourceID == "" || key.TargetID == "" {
		s.writeError(w, r, errors.New(errors.ErrCodeInvalidInput, "source and target are required"))
		return
	}
	if err := s.store.DeleteRelationship(r.Context(), key); err != nil {
		s.writeError(w, r, err)
		return
	}
	if err := s.refreshRelated(r, key.SourceID, key.TargetID); err != nil {
		s.writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// relate reruns relationship discovery over every stored document.
func (s *Server) relate(w http.ResponseWriter, r *http.Request) {
	rels, err := s.ingester.Relate(r.Context())
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, rels)
}

// refreshRelated recomputes the related-document lists of ids.
func (s *Server) refreshRelated(r *http.Request, ids ...string) error {
	ctx := r.Context()
	for _, id := range ids {
		rels, err := s.store.RelationshipsByDocument(ctx, id)
		if err != nil {
			return err
		}
		d, err := s.store.GetDocument(ctx, id)
		if errors.IsNotFound(err) {
			continue
		}
		if err != nil {
			return err
		}
		d.RelatedDocuments = docs.RelatedIDs(id, rels)
		if err := s.store.UpsertDocuments(ctx, d); err != nil {
			return err
		}
	}
	return nil
}
