package errors

import (
	"strings"
	"unicode"
)

// maxMapNameLength bounds registry keys; map names are chosen by people.
const maxMapNameLength = 256

// ValidateMapName validates a map name before it becomes a registry key.
//
// The rules are intentionally conservative:
//   - No empty or whitespace-only names
//   - No control characters or null bytes
//   - Maximum length of 256 characters
func ValidateMapName(name string) error {
	if strings.TrimSpace(name) == "" {
		return New(ErrCodeInvalidMapName, "map name cannot be empty")
	}

	if len(name) > maxMapNameLength {
		return New(ErrCodeInvalidMapName, "map name too long (max %d characters)", maxMapNameLength)
	}

	for _, r := range name {
		if unicode.IsControl(r) {
			return New(ErrCodeInvalidMapName, "map name contains invalid control characters")
		}
	}

	return nil
}

// ValidateNodeID checks that an id handed in from outside (CLI argument,
// URL path) is usable as a map key.
func ValidateNodeID(id string) error {
	if id == "" {
		return New(ErrCodeInvalidInput, "node id cannot be empty")
	}
	for _, r := range id {
		if unicode.IsControl(r) || r == ',' {
			return New(ErrCodeInvalidInput, "node id contains invalid characters: %q", id)
		}
	}
	return nil
}
