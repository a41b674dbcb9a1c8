package server

import (
	"net/http"
	"path"

	"github.com/go-chi/chi/v5"

	"github.com/matzehuels/doctriage/pkg/errors"
)

// archiveField is the multipart field carrying the ZIP file.
const archiveField = "file"

func (s *Server) listArchives(w http.ResponseWriter, r *http.Request) {
	archives, err := s.store.ListArchives(r.Context())
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, archives)
}

// uploadArchive ingests a multipart ZIP upload and responds with the
// archive record, its documents and the proposed relationships.
func (s *Server) uploadArchive(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, s.maxUpload)
	file, header, err := r.FormFile(archiveField)
	if err != nil {
		s.writeError(w, r, errors.Wrap(errors.ErrCodeInvalidInput, err, "expected a %q file field", archiveField))
		return
	}
	defer file.Close()

	// Large uploads are spooled to a temporary file, so the archive is read
	// in place rather than copied into memory.
	name := path.Base(header.Filename)
	res, err := s.ingester.Ingest(r.Context(), name, file, header.Size, nil)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, map[string]any{
		"archive":       res.Archive,
		"documents":     res.Documents,
		"relationships": res.Relationships,
	})
}

func (s *Server) clearArchive(w http.ResponseWriter, r *http.Request) {
	if err := s.store.ClearArchive(r.Context(), chi.URLParam(r, "name")); err != nil {
		s.writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
