package docs

import (
	"math"
	"slices"

	"github.com/matzehuels/doctriage/pkg/errors"
)

// RelationshipType tags how two documents relate.
type RelationshipType string

// The closed set of relationship types.
const (
	RelReferenced RelationshipType = "referenced"
	RelSimilar    RelationshipType = "similar"
	RelSequential RelationshipType = "sequential"
)

// RelationshipTypes lists every valid relationship type.
var RelationshipTypes = []RelationshipType{RelReferenced, RelSimilar, RelSequential}

// Valid reports whether t is one of the known relationship types.
func (t RelationshipType) Valid() bool {
	return slices.Contains(RelationshipTypes, t)
}

// Relationship is a typed, weighted link between two documents.
// It is identified by its (SourceID, TargetID) pair.
type Relationship struct {
	SourceID string           `json:"sourceId" bson:"source_id" validate:"required"`
	TargetID string           `json:"targetId" bson:"target_id" validate:"required"`
	Type     RelationshipType `json:"relationshipType" bson:"relationship_type"`
	Strength float64          `json:"strength" bson:"strength"`
}

// RelKey identifies a relationship by its ordered endpoint pair.
type RelKey struct {
	SourceID, TargetID string
}

// Key returns the identity of r.
func (r Relationship) Key() RelKey {
	return RelKey{SourceID: r.SourceID, TargetID: r.TargetID}
}

// Touches reports whether id is either endpoint of r.
func (r Relationship) Touches(id string) bool {
	return r.SourceID == id || r.TargetID == id
}

// Validate checks the closed type set, the strength range, and that the
// endpoints are present and distinct.
func (r Relationship) Validate() error {
	if r.SourceID == "" || r.TargetID == "" {
		return errors.New(errors.ErrCodeInvalidRelationship, "relationship endpoints cannot be empty")
	}
	if r.SourceID == r.TargetID {
		return errors.New(errors.ErrCodeInvalidRelationship, "relationship cannot link %q to itself", r.SourceID)
	}
	if !r.Type.Valid() {
		return errors.New(errors.ErrCodeInvalidRelationship, "unknown relationship type %q", r.Type)
	}
	if math.IsNaN(r.Strength) || r.Strength < 0 || r.Strength > 1 {
		return errors.New(errors.ErrCodeInvalidRelationship, "strength %v outside [0,1]", r.Strength)
	}
	return nil
}

// RelatedIDs returns the ids of documents linked to id, in relationship order
// and without duplicates.
func RelatedIDs(id string, rels []Relationship) []string {
	var out []string
	for _, r := range rels {
		var other string
		switch id {
		case r.SourceID:
			other = r.TargetID
		case r.TargetID:
			other = r.SourceID
		default:
			continue
		}
		if !slices.Contains(out, other) {
			out = append(out, other)
		}
	}
	return out
}
