package docs

import (
	"mime"
	"path/filepath"
	"strings"
)

// Category is the coarse kind of a document used for glyphs and filters.
type Category string

// Known categories. Anything unmatched is CategoryGeneric.
const (
	CategoryPDF     Category = "pdf"
	CategoryDoc     Category = "doc"
	CategoryXLS     Category = "xls"
	CategoryEmail   Category = "email"
	CategoryGeneric Category = "generic"
)

// categoryRules is evaluated in order; the first rule with a matching
// substring wins.
var categoryRules = []struct {
	cat  Category
	subs []string
}{
	{CategoryPDF, []string{"pdf"}},
	{CategoryDoc, []string{"word", "doc"}},
	{CategoryXLS, []string{"xls", "spreadsheet", "excel"}},
	{CategoryEmail, []string{"email", "message"}},
}

// CategoryOf derives a category from a free-text file type by
// case-insensitive substring match.
func CategoryOf(fileType string) Category {
	t := strings.ToLower(fileType)
	for _, rule := range categoryRules {
		for _, s := range rule.subs {
			if strings.Contains(t, s) {
				return rule.cat
			}
		}
	}
	return CategoryGeneric
}

// Glyph returns the three-letter uppercase marker drawn on graph nodes, or
// "" for the generic category.
func (c Category) Glyph() string {
	if c == CategoryGeneric || c == "" {
		return ""
	}
	g := strings.ToUpper(string(c))
	if len(g) > 3 {
		g = g[:3]
	}
	return g
}

// extensionTypes covers review formats that mime.TypeByExtension does not
// know on every platform.
var extensionTypes = map[string]string{
	".pdf":  "application/pdf",
	".doc":  "application/msword",
	".docx": "application/vnd.openxmlformats-officedocument.wordprocessingml.document",
	".xls":  "application/vnd.ms-excel",
	".xlsx": "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet",
	".eml":  "message/rfc822",
	".msg":  "application/vnd.ms-outlook",
	".txt":  "text/plain",
	".rtf":  "application/rtf",
}

// FileTypeOf guesses a MIME file type from a file name's extension.
// Unknown extensions yield "application/octet-stream".
func FileTypeOf(fileName string) string {
	ext := strings.ToLower(filepath.Ext(fileName))
	if t, ok := extensionTypes[ext]; ok {
		return t
	}
	if t := mime.TypeByExtension(ext); t != "" {
		if i := strings.IndexByte(t, ';'); i >= 0 {
			t = t[:i]
		}
		return t
	}
	return "application/octet-stream"
}
