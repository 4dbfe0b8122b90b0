package errors

import (
	"strings"
	"unicode"
)

// ValidateDocumentID validates a scenario document ID for safety.
// Document IDs become file names and database keys, so they are restricted to
// a conservative alphabet.
//
// The validation rules are:
//   - No empty IDs
//   - Maximum length of 128 characters
//   - Only letters, digits, '-', '_' and '.'
//   - No path traversal sequences (..)
func ValidateDocumentID(id string) error {
	if id == "" {
		return New(ErrCodeInvalidID, "document id cannot be empty")
	}

	const maxIDLength = 128
	if len(id) > maxIDLength {
		return New(ErrCodeInvalidID, "document id too long (max %d characters)", maxIDLength)
	}

	if strings.Contains(id, "..") {
		return New(ErrCodeInvalidID, "document id cannot contain path traversal sequences (..)")
	}

	for _, r := range id {
		switch {
		case r == '-', r == '_', r == '.':
		case r < unicode.MaxASCII && (unicode.IsLetter(r) || unicode.IsDigit(r)):
		default:
			return New(ErrCodeInvalidID, "document id contains invalid character %q", r)
		}
	}

	return nil
}

// ValidateName validates a human-readable scenario name.
//   - Maximum length of 256 characters
//   - No control characters
func ValidateName(name string) error {
	if len(name) > 256 {
		return New(ErrCodeInvalidInput, "name too long (max 256 characters)")
	}
	for _, r := range name {
		if unicode.IsControl(r) {
			return New(ErrCodeInvalidInput, "name contains invalid control characters")
		}
	}
	return nil
}
