package docs

import (
	"slices"
	"strings"
	"time"
)

// Filters selects documents for the review list. Zero-valued fields do not
// filter.
type Filters struct {
	Query         string    `json:"query,omitempty"`
	From          time.Time `json:"from,omitempty"`
	To            time.Time `json:"to,omitempty"`
	DocumentTypes []string  `json:"documentTypes,omitempty"`
	Tags          []string  `json:"tags,omitempty"`
	Status        []Status  `json:"status,omitempty"`
	IsRelevant    *bool     `json:"isRelevant,omitempty"`
	IsPrivileged  *bool     `json:"isPrivileged,omitempty"`
	IsKey         *bool     `json:"isKey,omitempty"`
	Archive       string    `json:"archive,omitempty"`
}

// Filter returns the documents matching every set criterion, preserving
// input order.
//
//   - Query matches the file name case-insensitively.
//   - DocumentTypes match when any entry is a substring of the file type.
//   - Tags match when the document carries any of them.
//   - Status matches when the document status is in the list.
func Filter(documents []Document, f Filters) []Document {
	out := make([]Document, 0, len(documents))
	for _, d := range documents {
		if f.matches(&d) {
			out = append(out, d)
		}
	}
	return out
}

func (f Filters) matches(d *Document) bool {
	if f.Query != "" && !strings.Contains(strings.ToLower(d.FileName), strings.ToLower(f.Query)) {
		return false
	}
	if !f.From.IsZero() && d.UploadDate.Before(f.From) {
		return false
	}
	if !f.To.IsZero() && d.UploadDate.After(f.To) {
		return false
	}
	if len(f.DocumentTypes) > 0 && !slices.ContainsFunc(f.DocumentTypes, func(t string) bool {
		return strings.Contains(d.FileType, t)
	}) {
		return false
	}
	if len(f.Tags) > 0 && !slices.ContainsFunc(f.Tags, d.HasTag) {
		return false
	}
	if len(f.Status) > 0 && !slices.Contains(f.Status, d.Status) {
		return false
	}
	if f.IsRelevant != nil && d.IsRelevant != *f.IsRelevant {
		return false
	}
	if f.IsPrivileged != nil && d.IsPrivileged != *f.IsPrivileged {
		return false
	}
	if f.IsKey != nil && d.IsKey != *f.IsKey {
		return false
	}
	if f.Archive != "" && d.SourceArchive != f.Archive {
		return false
	}
	return true
}
