package docs

import (
	"slices"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/matzehuels/doctriage/pkg/errors"
)

// Status is the review state of a document.
type Status string

// Review states, in the order a reviewer usually moves through them.
const (
	StatusUnread          Status = "Unread"
	StatusInProgress      Status = "In Progress"
	StatusReviewed        Status = "Reviewed"
	StatusNeedsSecondLook Status = "Needs Second Look"
)

// Statuses lists every valid review state.
var Statuses = []Status{StatusUnread, StatusInProgress, StatusReviewed, StatusNeedsSecondLook}

// ParseStatus returns the Status matching s, ignoring case.
func ParseStatus(s string) (Status, error) {
	for _, st := range Statuses {
		if strings.EqualFold(string(st), strings.TrimSpace(s)) {
			return st, nil
		}
	}
	return "", errors.New(errors.ErrCodeInvalidInput, "unknown status %q", s)
}

// Entities holds named entities extracted from a document.
type Entities struct {
	People        []string `json:"people" bson:"people"`
	Organizations []string `json:"organizations" bson:"organizations"`
	Dates         []string `json:"dates" bson:"dates"`
	Locations     []string `json:"locations" bson:"locations"`
}

// Empty reports whether no entity of any kind is present.
func (e Entities) Empty() bool {
	return len(e.People) == 0 && len(e.Organizations) == 0 && len(e.Dates) == 0 && len(e.Locations) == 0
}

// Rect is a page region in document coordinates.
type Rect struct {
	X      float64 `json:"x" bson:"x"`
	Y      float64 `json:"y" bson:"y"`
	Width  float64 `json:"width" bson:"width" validate:"gte=0"`
	Height float64 `json:"height" bson:"height" validate:"gte=0"`
}

// Annotation is a reviewer note anchored to a region of a page.
type Annotation struct {
	ID         string    `json:"id" bson:"id"`
	DocumentID string    `json:"documentId" bson:"document_id"`
	Text       string    `json:"text" bson:"text" validate:"required,max=4000"`
	CreatedAt  time.Time `json:"createdAt" bson:"created_at"`
	PageNumber int       `json:"pageNumber" bson:"page_number" validate:"gte=1"`
	Position   Rect      `json:"position" bson:"position"`
}

// Document is an uploaded file together with its review and analysis state.
type Document struct {
	ID            string       `json:"id" bson:"_id"`
	FileName      string       `json:"fileName" bson:"file_name" validate:"required"`
	FileType      string       `json:"fileType" bson:"file_type"`
	UploadDate    time.Time    `json:"uploadDate" bson:"upload_date"`
	FileSize      int64        `json:"fileSize" bson:"file_size" validate:"gte=0"`
	Tags          []string     `json:"tags" bson:"tags"`
	Status        Status       `json:"status" bson:"status"`
	IsRelevant    bool         `json:"isRelevant,omitempty" bson:"is_relevant"`
	IsPrivileged  bool         `json:"isPrivileged,omitempty" bson:"is_privileged"`
	IsKey         bool         `json:"isKey,omitempty" bson:"is_key"`
	Annotations   []Annotation `json:"annotations" bson:"annotations"`
	SourceArchive string       `json:"sourceArchive,omitempty" bson:"source_archive,omitempty"`

	Summary          string   `json:"summary,omitempty" bson:"summary,omitempty"`
	KeyPoints        []string `json:"keyPoints,omitempty" bson:"key_points,omitempty"`
	Entities         Entities `json:"entities" bson:"entities"`
	RelatedDocuments []string `json:"relatedDocuments,omitempty" bson:"related_documents,omitempty"`
}

// NewDocument creates an unread document with a fresh identifier.
// The upload date is set to now.
func NewDocument(fileName, fileType string, size int64) (Document, error) {
	if err := errors.ValidateFileName(fileName); err != nil {
		return Document{}, err
	}
	if size < 0 {
		return Document{}, errors.New(errors.ErrCodeInvalidInput, "file size cannot be negative")
	}
	return Document{
		ID:          NewID(),
		FileName:    fileName,
		FileType:    fileType,
		UploadDate:  time.Now().UTC(),
		FileSize:    size,
		Tags:        []string{},
		Status:      StatusUnread,
		Annotations: []Annotation{},
	}, nil
}

// NewID returns a new random identifier.
func NewID() string {
	return uuid.NewString()
}

// Category returns the coarse category of the document's file type.
func (d *Document) Category() Category {
	return CategoryOf(d.FileType)
}

// HasTag reports whether the document carries tag (case-sensitive).
func (d *Document) HasTag(tag string) bool {
	return slices.Contains(d.Tags, tag)
}

// AddTag appends tag unless it is already present.
func (d *Document) AddTag(tag string) error {
	if err := errors.ValidateTag(tag); err != nil {
		return err
	}
	tag = strings.TrimSpace(tag)
	if !d.HasTag(tag) {
		d.Tags = append(d.Tags, tag)
	}
	return nil
}

// RemoveTag removes tag and reports whether it was present.
func (d *Document) RemoveTag(tag string) bool {
	i := slices.Index(d.Tags, tag)
	if i < 0 {
		return false
	}
	d.Tags = slices.Delete(d.Tags, i, i+1)
	return true
}

// MergeTags adds every tag in tags, skipping duplicates and invalid tags.
func (d *Document) MergeTags(tags []string) {
	for _, t := range tags {
		_ = d.AddTag(t)
	}
}

// SetStatus updates the review status.
func (d *Document) SetStatus(s Status) error {
	if !slices.Contains(Statuses, s) {
		return errors.New(errors.ErrCodeInvalidInput, "unknown status %q", s)
	}
	d.Status = s
	return nil
}

// Flags groups the three review flags for partial updates.
// Nil fields are left unchanged.
type Flags struct {
	IsRelevant   *bool `json:"isRelevant,omitempty"`
	IsPrivileged *bool `json:"isPrivileged,omitempty"`
	IsKey        *bool `json:"isKey,omitempty"`
}

// SetFlags applies the non-nil fields of f.
func (d *Document) SetFlags(f Flags) {
	if f.IsRelevant != nil {
		d.IsRelevant = *f.IsRelevant
	}
	if f.IsPrivileged != nil {
		d.IsPrivileged = *f.IsPrivileged
	}
	if f.IsKey != nil {
		d.IsKey = *f.IsKey
	}
}

// NewAnnotation creates an annotation for the document with a fresh ID.
func NewAnnotation(documentID, text string, page int, pos Rect) (Annotation, error) {
	a := Annotation{
		ID:         NewID(),
		DocumentID: documentID,
		Text:       strings.TrimSpace(text),
		CreatedAt:  time.Now().UTC(),
		PageNumber: page,
		Position:   pos,
	}
	if err := Validate(a); err != nil {
		return Annotation{}, err
	}
	return a, nil
}

// Annotate attaches a to the document. The annotation's document ID is
// overwritten with the document's own ID.
func (d *Document) Annotate(a Annotation) {
	a.DocumentID = d.ID
	d.Annotations = append(d.Annotations, a)
}

// Clone returns a deep copy of the document.
func (d Document) Clone() Document {
	c := d
	c.Tags = slices.Clone(d.Tags)
	c.Annotations = slices.Clone(d.Annotations)
	c.KeyPoints = slices.Clone(d.KeyPoints)
	c.RelatedDocuments = slices.Clone(d.RelatedDocuments)
	c.Entities = Entities{
		People:        slices.Clone(d.Entities.People),
		Organizations: slices.Clone(d.Entities.Organizations),
		Dates:         slices.Clone(d.Entities.Dates),
		Locations:     slices.Clone(d.Entities.Locations),
	}
	return c
}

// Archive describes an uploaded ZIP archive.
type Archive struct {
	ID            string    `json:"id" bson:"_id"`
	FileName      string    `json:"fileName" bson:"file_name"`
	DocumentCount int       `json:"documentCount" bson:"document_count"`
	UploadDate    time.Time `json:"uploadDate" bson:"upload_date"`
}
