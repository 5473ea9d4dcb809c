package errors

import (
	"net/url"
	"strings"
	"unicode"
)

const maxIDLength = 256

// ValidateNodeID validates a node or edge identifier.
//
// The rules are intentionally loose because ids come from many producers
// (the classifier, imported files, external document systems):
//   - No empty ids
//   - No control characters
//   - Maximum length of 256 characters
func ValidateNodeID(id string) error {
	if id == "" {
		return New(ErrCodeInvalidInput, "id cannot be empty")
	}
	if len(id) > maxIDLength {
		return New(ErrCodeInvalidInput, "id too long (max %d characters)", maxIDLength)
	}
	for _, r := range id {
		if unicode.IsControl(r) {
			return New(ErrCodeInvalidInput, "id contains invalid control characters")
		}
	}
	return nil
}

// ValidateDocumentID validates an external document id that is used to build
// file names by directory-backed document sources. On top of the node id
// rules it rejects path separators and traversal sequences.
func ValidateDocumentID(id string) error {
	if err := ValidateNodeID(id); err != nil {
		return err
	}
	for _, pattern := range []string{"..", "/", "\\", "\x00"} {
		if strings.Contains(id, pattern) {
			return New(ErrCodeInvalidInput, "document id contains invalid characters: %q", pattern)
		}
	}
	return nil
}

// ValidateExportFilename validates the suggested file name of an export
// artifact. It must be a simple, visible basename ending in ".json".
func ValidateExportFilename(filename string) error {
	if filename == "" {
		return New(ErrCodeInvalidPath, "export filename cannot be empty")
	}
	if strings.ContainsAny(filename, "/\\") {
		return New(ErrCodeInvalidPath, "export filename cannot contain path separators")
	}
	if strings.HasPrefix(filename, ".") {
		return New(ErrCodeInvalidPath, "export filename cannot be a hidden file")
	}
	if !strings.HasSuffix(strings.ToLower(filename), ".json") {
		return New(ErrCodeInvalidPath, "export filename must end in .json")
	}
	return nil
}

// ValidateURL validates a URL string for link-preview fetching.
// It ensures the URL has a safe scheme (http or https) and a host.
func ValidateURL(rawURL string) error {
	if rawURL == "" {
		return New(ErrCodeInvalidInput, "URL cannot be empty")
	}
	if !strings.HasPrefix(rawURL, "http://") && !strings.HasPrefix(rawURL, "https://") {
		return New(ErrCodeInvalidInput, "URL must use http or https scheme")
	}
	u, err := url.Parse(rawURL)
	if err != nil {
		return Wrap(ErrCodeInvalidInput, err, "invalid URL")
	}
	if u.Host == "" {
		return New(ErrCodeInvalidInput, "URL must include a host")
	}
	return nil
}
