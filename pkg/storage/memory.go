package storage

import (
	"context"
	"encoding/json"
	"maps"
	"os"
	"path/filepath"
	"slices"
	"sync"

	"github.com/matzehuels/doctriage/pkg/docs"
	"github.com/matzehuels/doctriage/pkg/errors"
)

// MemoryStore keeps the review state in memory. When created with
// [OpenFileStore], every mutation is mirrored to a JSON snapshot.
type MemoryStore struct {
	mu        sync.RWMutex
	order     []string
	documents map[string]docs.Document
	rels      []docs.Relationship
	archives  []docs.Archive
	path      string
}

// snapshot is the on-disk layout of the mirror file.
type snapshot struct {
	Documents     []docs.Document     `json:"documents"`
	Relationships []docs.Relationship `json:"relationships"`
	Archives      []docs.Archive      `json:"archives"`
}

// NewMemoryStore returns an empty store with no file mirror.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{documents: make(map[string]docs.Document)}
}

// OpenFileStore loads the snapshot at path, if any, and mirrors subsequent
// mutations to it.
func OpenFileStore(path string) (*MemoryStore, error) {
	s := NewMemoryStore()
	s.path = path

	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return s, nil
	}
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeStorage, err, "read %s", path)
	}
	var snap snapshot
	if err := json.Unmarshal(data, &snap); err != nil {
		return nil, errors.Wrap(errors.ErrCodeStorage, err, "decode %s", path)
	}
	for _, d := range snap.Documents {
		if _, ok := s.documents[d.ID]; !ok {
			s.order = append(s.order, d.ID)
		}
		s.documents[d.ID] = d
	}
	s.rels = snap.Relationships
	s.archives = snap.Archives
	return s, nil
}

// Path returns the mirror file, or "" for a pure in-memory store.
func (s *MemoryStore) Path() string { return s.path }

// persist writes the snapshot through a temporary file so a crash never
// leaves a truncated mirror. Callers hold the write lock.
func (s *MemoryStore) persist() error {
	if s.path == "" {
		return nil
	}
	snap := snapshot{
		Documents:     s.listLocked(func(docs.Document) bool { return true }),
		Relationships: s.rels,
		Archives:      s.archives,
	}
	data, err := json.MarshalIndent(snap, "", "  ")
	if err != nil {
		return errors.Wrap(errors.ErrCodeStorage, err, "encode snapshot")
	}
	if err := os.MkdirAll(filepath.Dir(s.path), 0755); err != nil {
		return errors.Wrap(errors.ErrCodeStorage, err, "create %s", filepath.Dir(s.path))
	}
	tmp := s.path + ".tmp"
	if err := os.WriteFile(tmp, data, 0644); err != nil {
		return errors.Wrap(errors.ErrCodeStorage, err, "write %s", tmp)
	}
	if err := os.Rename(tmp, s.path); err != nil {
		return errors.Wrap(errors.ErrCodeStorage, err, "replace %s", s.path)
	}
	return nil
}

// commit applies fn and mirrors the result. If the mirror cannot be
// written, the in-memory state is restored so memory and file never
// disagree. Callers hold the write lock.
func (s *MemoryStore) commit(fn func()) error {
	if s.path == "" {
		fn()
		return nil
	}
	order, documents := slices.Clone(s.order), maps.Clone(s.documents)
	rels, archives := slices.Clone(s.rels), slices.Clone(s.archives)
	fn()
	if err := s.persist(); err != nil {
		s.order, s.documents, s.rels, s.archives = order, documents, rels, archives
		return err
	}
	return nil
}

func (s *MemoryStore) listLocked(keep func(docs.Document) bool) []docs.Document {
	out := make([]docs.Document, 0, len(s.order))
	for _, id := range s.order {
		if d := s.documents[id]; keep(d) {
			out = append(out, d.Clone())
		}
	}
	return out
}

func (s *MemoryStore) ListDocuments(ctx context.Context) ([]docs.Document, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.listLocked(func(docs.Document) bool { return true }), nil
}

func (s *MemoryStore) GetDocument(ctx context.Context, id string) (docs.Document, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	d, ok := s.documents[id]
	if !ok {
		return docs.Document{}, documentNotFound(id)
	}
	return d.Clone(), nil
}

func (s *MemoryStore) UpsertDocuments(ctx context.Context, documents ...docs.Document) error {
	if err := validateDocuments(documents); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.commit(func() {
		for _, d := range documents {
			if _, ok := s.documents[d.ID]; !ok {
				s.order = append(s.order, d.ID)
			}
			s.documents[d.ID] = d.Clone()
		}
	})
}

func (s *MemoryStore) DeleteDocument(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.documents[id]; !ok {
		return documentNotFound(id)
	}
	return s.commit(func() { s.removeLocked(map[string]bool{id: true}) })
}

// removeLocked drops the documents in ids and every relationship touching
// them.
func (s *MemoryStore) removeLocked(ids map[string]bool) {
	for id := range ids {
		delete(s.documents, id)
	}
	s.order = slices.DeleteFunc(s.order, func(id string) bool { return ids[id] })
	s.rels = slices.DeleteFunc(s.rels, func(r docs.Relationship) bool {
		return ids[r.SourceID] || ids[r.TargetID]
	})
}

func (s *MemoryStore) DocumentsByArchive(ctx context.Context, archive string) ([]docs.Document, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.listLocked(func(d docs.Document) bool { return d.SourceArchive == archive }), nil
}

func (s *MemoryStore) ListRelationships(ctx context.Context) ([]docs.Relationship, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return slices.Clone(s.rels), nil
}

func (s *MemoryStore) RelationshipsByDocument(ctx context.Context, id string) ([]docs.Relationship, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []docs.Relationship
	for _, r := range s.rels {
		if r.Touches(id) {
			out = append(out, r)
		}
	}
	return out, nil
}

func (s *MemoryStore) UpsertRelationships(ctx context.Context, rels ...docs.Relationship) error {
	if err := validateRelationships(rels); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.commit(func() {
		for _, r := range rels {
			i := slices.IndexFunc(s.rels, func(x docs.Relationship) bool { return x.Key() == r.Key() })
			if i >= 0 {
				s.rels[i] = r
			} else {
				s.rels = append(s.rels, r)
			}
		}
	})
}

func (s *MemoryStore) DeleteRelationship(ctx context.Context, key docs.RelKey) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	match := func(r docs.Relationship) bool { return r.Key() == key }
	if !slices.ContainsFunc(s.rels, match) {
		return relationshipNotFound(key)
	}
	return s.commit(func() { s.rels = slices.DeleteFunc(s.rels, match) })
}

func (s *MemoryStore) ListArchives(ctx context.Context) ([]docs.Archive, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return slices.Clone(s.archives), nil
}

func (s *MemoryStore) UpsertArchive(ctx context.Context, a docs.Archive) error {
	if a.ID == "" {
		return errors.New(errors.ErrCodeInvalidInput, "archive %q has no id", a.FileName)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.commit(func() {
		if i := slices.IndexFunc(s.archives, func(x docs.Archive) bool { return x.ID == a.ID }); i >= 0 {
			s.archives[i] = a
		} else {
			s.archives = append(s.archives, a)
		}
	})
}

// ClearArchive collects the archive's document IDs before removing anything,
// so their relationships go too.
func (s *MemoryStore) ClearArchive(ctx context.Context, fileName string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	ids := make(map[string]bool)
	for id, d := range s.documents {
		if d.SourceArchive == fileName {
			ids[id] = true
		}
	}
	named := func(a docs.Archive) bool { return a.FileName == fileName }
	if len(ids) == 0 && !slices.ContainsFunc(s.archives, named) {
		return archiveNotFound(fileName)
	}
	return s.commit(func() {
		s.archives = slices.DeleteFunc(s.archives, named)
		s.removeLocked(ids)
	})
}

// Close flushes the mirror file.
func (s *MemoryStore) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.persist()
}

var _ Store = (*MemoryStore)(nil)
