package errors

import (
	"strings"
	"unicode"
)

// ValidateFileName validates a document or archive file name.
// It rejects names that could be used for path traversal when the name is
// later used to build storage paths or cache keys.
//
// The validation rules are intentionally conservative:
//   - No empty names
//   - No control characters
//   - No path traversal sequences (..) or backslashes
//   - Maximum length of 256 characters
func ValidateFileName(name string) error {
	if name == "" {
		return New(ErrCodeInvalidInput, "file name cannot be empty")
	}
	if len(name) > 256 {
		return New(ErrCodeInvalidInput, "file name too long (max 256 characters)")
	}

	for _, r := range name {
		if unicode.IsControl(r) {
			return New(ErrCodeInvalidInput, "file name contains invalid control characters")
		}
	}

	for _, pattern := range []string{"..", "\x00", "\\"} {
		if strings.Contains(name, pattern) {
			return New(ErrCodeInvalidInput, "file name contains invalid characters: %q", pattern)
		}
	}
	return nil
}

// ValidateTag validates a free-text review tag.
// Tags are short labels, so anything beyond 64 characters is rejected.
func ValidateTag(tag string) error {
	t := strings.TrimSpace(tag)
	if t == "" {
		return New(ErrCodeInvalidInput, "tag cannot be empty")
	}
	if len(t) > 64 {
		return New(ErrCodeInvalidInput, "tag too long (max 64 characters)")
	}
	for _, r := range t {
		if unicode.IsControl(r) {
			return New(ErrCodeInvalidInput, "tag contains invalid control characters")
		}
	}
	return nil
}

// ValidatePath validates a relative path inside an uploaded archive.
//
// Validation rules:
//   - Path cannot be empty
//   - Maximum length of 500 characters
//   - No null bytes or control characters
//   - No absolute paths (must be relative)
//   - No path traversal sequences (..)
//   - No backslashes (Windows-style paths)
func ValidatePath(path string) error {
	if path == "" {
		return New(ErrCodeInvalidPath, "path cannot be empty")
	}

	const maxPathLength = 500
	if len(path) > maxPathLength {
		return New(ErrCodeInvalidPath, "path too long (max %d characters)", maxPathLength)
	}

	for _, r := range path {
		if r == '\x00' || unicode.IsControl(r) {
			return New(ErrCodeInvalidPath, "path contains invalid characters")
		}
	}

	if strings.HasPrefix(path, "/") {
		return New(ErrCodeInvalidPath, "path must be relative (cannot start with /)")
	}
	if strings.Contains(path, "..") {
		return New(ErrCodeInvalidPath, "path cannot contain path traversal sequences (..)")
	}
	if strings.Contains(path, "\\") {
		return New(ErrCodeInvalidPath, "path cannot contain backslashes")
	}
	return nil
}
