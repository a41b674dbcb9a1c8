package server

import (
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/matzehuels/doctriage/pkg/docs"
	"github.com/matzehuels/doctriage/pkg/errors"
	"github.com/matzehuels/doctriage/pkg/storage"
)

type createDocumentRequest struct {
	FileName string   `json:"fileName" validate:"required,max=255"`
	FileType string   `json:"fileType" validate:"max=64"`
	FileSize int64    `json:"fileSize" validate:"gte=0"`
	Tags     []string `json:"tags" validate:"max=50"`
}

// updateDocumentRequest is a partial update; absent fields are unchanged.
type updateDocumentRequest struct {
	Status *string   `json:"status"`
	Tags   *[]string `json:"tags"`
	docs.Flags
}

type tagRequest struct {
	Tag string `json:"tag" validate:"required"`
}

type annotationRequest struct {
	Text       string    `json:"text" validate:"required,max=4000"`
	PageNumber int       `json:"pageNumber" validate:"gte=1"`
	Position   docs.Rect `json:"position"`
}

func (s *Server) listDocuments(w http.ResponseWriter, r *http.Request) {
	f, err := parseFilters(r.URL.Query())
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	all, err := s.store.ListDocuments(r.Context())
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, docs.Filter(all, f))
}

func (s *Server) createDocument(w http.ResponseWriter, r *http.Request) {
	var req createDocumentRequest
	if err := decode(r, &req); err != nil {
		s.writeError(w, r, err)
		return
	}
	fileType := req.FileType
	if fileType == "" {
		fileType = docs.FileTypeOf(req.FileName)
	}
	d, err := docs.NewDocument(req.FileName, fileType, req.FileSize)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	for _, t := range req.Tags {
		if err := d.AddTag(t); err != nil {
			s.writeError(w, r, err)
			return
		}
	}
	if err := s.store.UpsertDocuments(r.Context(), d); err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, d)
}

func (s *Server) getDocument(w http.ResponseWriter, r *http.Request) {
	d, err := s.store.GetDocument(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, d)
}

func (s *Server) updateDocument(w http.ResponseWriter, r *http.Request) {
	var req updateDocumentRequest
	if err := decode(r, &req); err != nil {
		s.writeError(w, r, err)
		return
	}
	s.mutate(w, r, http.StatusOK, func(d *docs.Document) error {
		if req.Status != nil {
			st, err := docs.ParseStatus(*req.Status)
			if err != nil {
				return err
			}
			if err := d.SetStatus(st); err != nil {
				return err
			}
		}
		if req.Tags != nil {
			d.Tags = []string{}
			for _, t := range *req.Tags {
				if err := d.AddTag(t); err != nil {
					return err
				}
			}
		}
		d.SetFlags(req.Flags)
		return nil
	})
}

func (s *Server) deleteDocument(w http.ResponseWriter, r *http.Request) {
	if err := s.store.DeleteDocument(r.Context(), chi.URLParam(r, "id")); err != nil {
		s.writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) addTag(w http.ResponseWriter, r *http.Request) {
	var req tagRequest
	if err := decode(r, &req); err != nil {
		s.writeError(w, r, err)
		return
	}
	s.mutate(w, r, http.StatusOK, func(d *docs.Document) error {
		return d.AddTag(req.Tag)
	})
}

func (s *Server) removeTag(w http.ResponseWriter, r *http.Request) {
	tag := chi.URLParam(r, "tag")
	if unescaped, err := url.PathUnescape(tag); err == nil {
		tag = unescaped
	}
	s.mutate(w, r, http.StatusOK, func(d *docs.Document) error {
		if !d.RemoveTag(tag) {
			return errors.New(errors.ErrCodeNotFound, "document has no tag %q", tag)
		}
		return nil
	})
}

func (s *Server) addAnnotation(w http.ResponseWriter, r *http.Request) {
	var req annotationRequest
	if err := decode(r, &req); err != nil {
		s.writeError(w, r, err)
		return
	}
	id := chi.URLParam(r, "id")
	a, err := docs.NewAnnotation(id, req.Text, req.PageNumber, req.Position)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	s.mutate(w, r, http.StatusCreated, func(d *docs.Document) error {
		d.Annotate(a)
		return nil
	})
}

func (s *Server) documentRelationships(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if _, err := s.store.GetDocument(r.Context(), id); err != nil {
		s.writeError(w, r, err)
		return
	}
	rels, err := s.store.RelationshipsByDocument(r.Context(), id)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, rels)
}

// mutate applies fn to the document named by the {id} parameter and
// responds with the stored result.
func (s *Server) mutate(w http.ResponseWriter, r *http.Request, status int, fn func(*docs.Document) error) {
	d, err := storage.UpdateDocument(r.Context(), s.store, chi.URLParam(r, "id"), fn)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, status, d)
}

// parseFilters reads list filters from query parameters. Repeated
// parameters (type, tag, status) match any of their values.
func parseFilters(q url.Values) (docs.Filters, error) {
	f := docs.Filters{
		Query:         q.Get("q"),
		Archive:       q.Get("archive"),
		DocumentTypes: q["type"],
		Tags:          q["tag"],
	}
	for _, raw := range q["status"] {
		st, err := docs.ParseStatus(raw)
		if err != nil {
			return docs.Filters{}, err
		}
		f.Status = append(f.Status, st)
	}

	var err error
	if f.IsRelevant, err = parseOptionalBool(q, "relevant"); err != nil {
		return docs.Filters{}, err
	}
	if f.IsPrivileged, err = parseOptionalBool(q, "privileged"); err != nil {
		return docs.Filters{}, err
	}
	if f.IsKey, err = parseOptionalBool(q, "key"); err != nil {
		return docs.Filters{}, err
	}
	if f.From, err = parseDate(q, "from"); err != nil {
		return docs.Filters{}, err
	}
	if f.To, err = parseDate(q, "to"); err != nil {
		return docs.Filters{}, err
	}
	return f, nil
}

func parseOptionalBool(q url.Values, key string) (*bool, error) {
	raw := q.Get(key)
	if raw == "" {
		return nil, nil
	}
	v, err := strconv.ParseBool(raw)
	if err != nil {
		return nil, errors.New(errors.ErrCodeInvalidInput, "%s: expected a boolean, got %q", key, raw)
	}
	return &v, nil
}

// parseDate accepts RFC 3339 timestamps or plain dates.
func parseDate(q url.Values, key string) (time.Time, error) {
	raw := q.Get(key)
	if raw == "" {
		return time.Time{}, nil
	}
	for _, layout := range []string{time.RFC3339, time.DateOnly} {
		if t, err := time.Parse(layout, raw); err == nil {
			return t, nil
		}
	}
	return time.Time{}, errors.New(errors.ErrCodeInvalidInput, "%s: expected a date, got %q", key, raw)
}
