package errors

import (
	"strings"
	"unicode"
)

// ValidatePackageName validates a package name for safety and correctness.
// It rejects names that could be used for path traversal or injection attacks.
//
// The validation rules are intentionally conservative:
//   - No empty names
//   - No control characters
//   - No path traversal sequences (.., //, etc.)
//   - Maximum length of 256 characters
//
// Ecosystem-specific syntax is checked by the package string parser.
func ValidatePackageName(name string) error {
	if name == "" {
		return New(ErrCodeInvalidPackage, "package name cannot be empty")
	}

	if len(name) > 256 {
		return New(ErrCodeInvalidPackage, "package name too long (max 256 characters)")
	}

	for _, r := range name {
		if unicode.IsControl(r) {
			return New(ErrCodeInvalidPackage, "package name contains invalid control characters")
		}
	}

	dangerousPatterns := []string{
		"..",   // Parent directory
		"//",   // Double slash
		"\x00", // Null byte
		"\\",   // Backslash (Windows path)
	}

	for _, pattern := range dangerousPatterns {
		if strings.Contains(name, pattern) {
			return New(ErrCodeInvalidPackage, "package name contains invalid characters: %q", pattern)
		}
	}

	return nil
}

// ValidateChannel validates a conda channel name or URL.
// Channels end up as command-line arguments of the installer, so whitespace
// and control characters are rejected.
func ValidateChannel(channel string) error {
	if channel == "" {
		return New(ErrCodeInvalidChannel, "channel cannot be empty")
	}
	for _, r := range channel {
		if unicode.IsControl(r) || unicode.IsSpace(r) {
			return New(ErrCodeInvalidChannel, "channel %q contains whitespace or control characters", channel)
		}
	}
	return nil
}
