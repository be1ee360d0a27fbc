package errors

import (
	"strings"
	"unicode"
)

// ValidateEntryName validates an entry basename before it is written into a
// fixed-width, NUL-padded name field of maxLen bytes.
//
// The validation rules are:
//   - No empty names
//   - No NUL bytes (they terminate the name on load)
//   - Maximum length of maxLen bytes
func ValidateEntryName(name string, maxLen int) error {
	if name == "" {
		return New(ErrCodeInvalidInput, "entry name cannot be empty")
	}
	if len(name) > maxLen {
		return New(ErrCodeInvalidInput, "entry name %q too long (max %d bytes)", name, maxLen)
	}
	if strings.ContainsRune(name, 0) {
		return New(ErrCodeInvalidInput, "entry name %q contains a NUL byte", name)
	}
	return nil
}

// ValidateTemplate validates an output template.
// A template without a placeholder is accepted; every page then writes to the
// same names, which is only useful when a single page results.
func ValidateTemplate(template string) error {
	if template == "" {
		return New(ErrCodeInvalidTemplate, "output template cannot be empty")
	}

	for _, r := range template {
		if r == '\x00' || unicode.IsControl(r) {
			return New(ErrCodeInvalidTemplate, "output template contains invalid characters")
		}
	}

	if strings.HasSuffix(template, "/") || strings.HasSuffix(template, "\\") {
		return New(ErrCodeInvalidTemplate, "output template %q names a directory, not a file", template)
	}

	return nil
}

// ValidateSize validates a square page size.
func ValidateSize(field string, size int) error {
	if size <= 0 {
		return New(ErrCodeInvalidSize, "%s must be positive, got %d", field, size)
	}
	return nil
}

// ValidateBorder validates a border width.
func ValidateBorder(border int) error {
	if border < 0 {
		return New(ErrCodeInvalidSize, "border must be non-negative, got %d", border)
	}
	return nil
}
