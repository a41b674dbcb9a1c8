package graph

import (
	"bytes"
	"encoding/json"
	"io"
	"os"

	"github.com/matzehuels/doctriage/pkg/docs"
	"github.com/matzehuels/doctriage/pkg/errors"
)

// BundleVersion is the format version written by this package.
const BundleVersion = 1

// =============================================================================
// Bundle - Documents and Relationships
// =============================================================================

// Bundle is a self-contained set of documents and their relationships.
type Bundle struct {
	Version       int                 `json:"version"`
	Documents     []docs.Document     `json:"documents"`
	Relationships []docs.Relationship `json:"relationships"`
}

// NewBundle returns a bundle of the current version.
func NewBundle(documents []docs.Document, rels []docs.Relationship) Bundle {
	if documents == nil {
		documents = []docs.Document{}
	}
	if rels == nil {
		rels = []docs.Relationship{}
	}
	return Bundle{Version: BundleVersion, Documents: documents, Relationships: rels}
}

// Document returns the document with the given ID.
func (b Bundle) Document(id string) (docs.Document, bool) {
	for _, d := range b.Documents {
		if d.ID == id {
			return d, true
		}
	}
	return docs.Document{}, false
}

// Validate checks version, document ID uniqueness and relationships.
func (b Bundle) Validate() error {
	if b.Version > BundleVersion {
		return errors.New(errors.ErrCodeInvalidFormat, "bundle version %d is newer than supported version %d", b.Version, BundleVersion)
	}
	seen := make(map[string]bool, len(b.Documents))
	for _, d := range b.Documents {
		if d.ID == "" {
			return errors.New(errors.ErrCodeInvalidFormat, "document %q has no id", d.FileName)
		}
		if seen[d.ID] {
			return errors.New(errors.ErrCodeInvalidFormat, "duplicate document id %q", d.ID)
		}
		seen[d.ID] = true
	}
	for _, r := range b.Relationships {
		if err := r.Validate(); err != nil {
			return err
		}
	}
	return nil
}

// =============================================================================
// Bundle Serialization API
// =============================================================================

// MarshalBundle converts a bundle to indented JSON bytes.
func MarshalBundle(b Bundle) ([]byte, error) {
	var buf bytes.Buffer
	if err := WriteBundle(b, &buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// WriteBundle writes b as JSON to w. A zero version is written as the
// current one.
func WriteBundle(b Bundle, w io.Writer) error {
	if b.Version == 0 {
		b.Version = BundleVersion
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(b); err != nil {
		return errors.Wrap(errors.ErrCodeInternal, err, "encode bundle")
	}
	return nil
}

// WriteBundleFile writes b to a JSON file with 0644 permissions.
func WriteBundleFile(b Bundle, path string) error {
	f, err := os.Create(path)
	if err != nil {
		return errors.Wrap(errors.ErrCodeInvalidPath, err, "create %s", path)
	}
	defer f.Close()
	return WriteBundle(b, f)
}

// ReadBundle decodes and validates a bundle from r.
func ReadBundle(r io.Reader) (Bundle, error) {
	var b Bundle
	if err := json.NewDecoder(r).Decode(&b); err != nil {
		return Bundle{}, errors.Wrap(errors.ErrCodeInvalidFormat, err, "decode bundle")
	}
	if b.Version == 0 {
		b.Version = BundleVersion
	}
	if err := b.Validate(); err != nil {
		return Bundle{}, err
	}
	return b, nil
}

// UnmarshalBundle decodes and validates a bundle from bytes.
func UnmarshalBundle(data []byte) (Bundle, error) {
	return ReadBundle(bytes.NewReader(data))
}

// ReadBundleFile reads and validates a bundle from a JSON file.
func ReadBundleFile(path string) (Bundle, error) {
	f, err := os.Open(path)
	if err != nil {
		return Bundle{}, errors.Wrap(errors.ErrCodeInvalidPath, err, "open %s", path)
	}
	defer f.Close()
	return ReadBundle(f)
}
