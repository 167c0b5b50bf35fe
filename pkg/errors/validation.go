package errors

import (
	"math"
	"path/filepath"
	"strings"
	"unicode"
)

// maxIDLength bounds node IDs accepted from files and requests.
const maxIDLength = 256

// ValidateNodeID validates a node ID received from a request.
//
// Validation rules:
//   - ID cannot be empty
//   - Maximum length of 256 characters
//   - No control characters or null bytes
func ValidateNodeID(id string) error {
	if id == "" {
		return New(ErrCodeInvalidInput, "node id cannot be empty")
	}
	if len(id) > maxIDLength {
		return New(ErrCodeInvalidInput, "node id too long (max %d characters)", maxIDLength)
	}
	for _, r := range id {
		if unicode.IsControl(r) {
			return New(ErrCodeInvalidInput, "node id contains invalid control characters")
		}
	}
	return nil
}

// ValidateViewport validates viewport dimensions given by a user.
// Both must be finite and positive.
func ValidateViewport(width, height float64) error {
	for _, d := range []float64{width, height} {
		if math.IsNaN(d) || math.IsInf(d, 0) || d <= 0 {
			return New(ErrCodeInvalidViewport, "viewport must have positive finite size, got %vx%v", width, height)
		}
	}
	return nil
}

// GraphExtensions are the file extensions accepted for graph input.
var GraphExtensions = []string{".json", ".yaml", ".yml"}

// ValidateGraphFilename validates that a graph file has a supported extension.
func ValidateGraphFilename(filename string) error {
	if filename == "" {
		return New(ErrCodeInvalidPath, "graph filename cannot be empty")
	}
	ext := strings.ToLower(filepath.Ext(filename))
	for _, ok := range GraphExtensions {
		if ext == ok {
			return nil
		}
	}
	return New(ErrCodeInvalidFormat, "unsupported graph file %q (want .json, .yaml or .yml)", filepath.Base(filename))
}

// ValidatePath validates a relative path used inside a managed directory
// (cache entries, output prefixes).
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
