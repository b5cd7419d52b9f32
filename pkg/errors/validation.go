package errors

import (
	"strings"
	"unicode"
)

// ValidateNodeID validates a node identifier coming from untrusted input
// (CLI arguments, API paths) before it reaches the graph.
//
// The validation rules are intentionally conservative:
//   - No empty IDs
//   - No control characters
//   - No record delimiters used by the snapshot codec (| ; : newline)
//   - Maximum length of 256 characters
func ValidateNodeID(id string) error {
	if id == "" {
		return New(ErrCodeInvalidNode, "node ID cannot be empty")
	}

	if len(id) > 256 {
		return New(ErrCodeInvalidNode, "node ID too long (max 256 characters)")
	}

	for _, r := range id {
		if unicode.IsControl(r) {
			return New(ErrCodeInvalidNode, "node ID contains invalid control characters")
		}
	}

	// The snapshot codec reserves these as field and pair delimiters.
	if strings.ContainsAny(id, "|;:\n") {
		return New(ErrCodeInvalidNode, "node ID contains reserved characters (| ; : or newline)")
	}

	return nil
}

// ValidateSlotName validates a save-slot name for safety.
// It ensures the name is a simple identifier without path components, so
// file-backed stores cannot be steered outside their directory.
func ValidateSlotName(name string) error {
	if name == "" {
		return New(ErrCodeInvalidInput, "slot name cannot be empty")
	}

	if len(name) > 64 {
		return New(ErrCodeInvalidInput, "slot name too long (max 64 characters)")
	}

	if strings.ContainsAny(name, "/\\") {
		return New(ErrCodeInvalidInput, "slot name cannot contain path separators")
	}

	if strings.HasPrefix(name, ".") {
		return New(ErrCodeInvalidInput, "slot name cannot be a hidden file")
	}

	for _, r := range name {
		if unicode.IsControl(r) {
			return New(ErrCodeInvalidInput, "slot name contains invalid characters")
		}
	}

	return nil
}

// ValidatePath validates a user-supplied relative file path for safety.
// It prevents path traversal attacks and ensures reasonable path length.
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

	// Check for null bytes and control characters
	for _, r := range path {
		if r == '\x00' || unicode.IsControl(r) {
			return New(ErrCodeInvalidPath, "path contains invalid characters")
		}
	}

	// Must not be absolute path
	if strings.HasPrefix(path, "/") {
		return New(ErrCodeInvalidPath, "path must be relative (cannot start with /)")
	}

	// Check for path traversal
	if strings.Contains(path, "..") {
		return New(ErrCodeInvalidPath, "path cannot contain path traversal sequences (..)")
	}

	// No backslashes (potential Windows path injection)
	if strings.Contains(path, "\\") {
		return New(ErrCodeInvalidPath, "path cannot contain backslashes")
	}

	return nil
}
