package errors

import (
	"regexp"
	"strings"
	"unicode"
)

// sampleNameRegex matches sample names such as "set_7Readme" or "set_15B".
var sampleNameRegex = regexp.MustCompile(`^[A-Za-z0-9][A-Za-z0-9_.-]*$`)

// ValidateSampleName validates a sample tree name before it is looked up.
// It rejects names that could be used for path traversal or injection
// through the HTTP API.
//
// The validation rules are intentionally conservative:
//   - No empty names
//   - No control characters
//   - Letters, digits, underscore, dot and dash only
//   - Maximum length of 64 characters
func ValidateSampleName(name string) error {
	if name == "" {
		return New(ErrCodeInvalidInput, "sample name cannot be empty")
	}

	if len(name) > 64 {
		return New(ErrCodeInvalidInput, "sample name too long (max 64 characters)")
	}

	for _, r := range name {
		if unicode.IsControl(r) {
			return New(ErrCodeInvalidInput, "sample name contains invalid control characters")
		}
	}

	if !sampleNameRegex.MatchString(name) {
		return New(ErrCodeInvalidInput, "invalid sample name: %q", name)
	}

	return nil
}

// ValidateTreePath validates the path of a tree file.
//
// Validation rules:
//   - Path cannot be empty
//   - Maximum length of 500 characters
//   - No null bytes or control characters
//   - Extension must be .json, .toml, .yaml or .yml
func ValidateTreePath(path string) error {
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

	lower := strings.ToLower(path)
	for _, ext := range []string{".json", ".toml", ".yaml", ".yml"} {
		if strings.HasSuffix(lower, ext) {
			return nil
		}
	}
	return New(ErrCodeInvalidFormat, "unsupported tree file extension: %q", path)
}
