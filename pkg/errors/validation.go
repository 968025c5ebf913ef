package errors

import (
	"path/filepath"
	"regexp"
	"strings"
	"unicode"
)

// nodeKeyRegex matches document node keys ("title", "feed.row-1").
var nodeKeyRegex = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_.-]*$`)

// reservedKeys cannot be used as document node keys because anchors use them
// to refer to the implicit parent.
var reservedKeys = map[string]bool{"parent": true, "root": true}

// ValidateNodeKey validates a document node key.
//
// Keys are referenced by anchors ("title.bottom"), so they must be non-empty,
// at most 128 characters, start with a letter or underscore and must not
// collide with the reserved names "parent" and "root".
func ValidateNodeKey(key string) error {
	if key == "" {
		return New(ErrCodeInvalidDocument, "node key cannot be empty")
	}
	if len(key) > 128 {
		return New(ErrCodeInvalidDocument, "node key too long (max 128 characters)")
	}
	if reservedKeys[key] {
		return New(ErrCodeInvalidDocument, "node key %q is reserved", key)
	}
	if !nodeKeyRegex.MatchString(key) {
		return New(ErrCodeInvalidDocument, "invalid node key: %q", key)
	}
	return nil
}

// ValidatePath validates a user-supplied file path.
//
// Validation rules:
//   - Path cannot be empty
//   - Maximum length of 500 characters
//   - No null bytes or control characters
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
	return nil
}

// ValidateExtension checks that path ends with one of the allowed extensions.
// Comparison is case-insensitive; allowed entries include the leading dot.
func ValidateExtension(path string, allowed ...string) error {
	ext := strings.ToLower(filepath.Ext(path))
	for _, a := range allowed {
		if ext == a {
			return nil
		}
	}
	return New(ErrCodeInvalidFormat, "unsupported file extension %q (want one of %s)", ext, strings.Join(allowed, ", "))
}
