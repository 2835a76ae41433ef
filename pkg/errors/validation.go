package errors

import (
	"strings"
	"unicode"
)

// ValidateName validates a column or filter name.
// Names must be non-empty, at most 256 characters and free of control
// characters. code selects the error code reported on failure.
func ValidateName(code Code, kind, name string) error {
	if strings.TrimSpace(name) == "" {
		return New(code, "%s name cannot be empty", kind)
	}

	if len(name) > 256 {
		return New(code, "%s name too long (max 256 characters)", kind)
	}

	for _, r := range name {
		if unicode.IsControl(r) {
			return New(code, "%s name contains invalid control characters", kind)
		}
	}

	return nil
}

// ValidateColumnName validates a column name used by a render call.
func ValidateColumnName(name string) error {
	return ValidateName(ErrCodeMissingColumn, "column", name)
}

// ValidateFilterName validates a filter registration name.
func ValidateFilterName(name string) error {
	return ValidateName(ErrCodeInvalidFilter, "filter", name)
}

// ValidatePath validates an output file path for safety.
//
// Validation rules:
//   - Path cannot be empty
//   - Maximum length of 500 characters
//   - No null bytes or control characters
//   - No path traversal sequences (..)
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

	for _, part := range strings.FieldsFunc(path, func(r rune) bool { return r == '/' || r == '\\' }) {
		if part == ".." {
			return New(ErrCodeInvalidPath, "path cannot contain path traversal sequences (..)")
		}
	}

	return nil
}
