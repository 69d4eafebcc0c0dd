package errors

import (
	"strings"
	"unicode"
)

// maxNodeIDLength bounds node identifiers; DAGs in this domain are small and
// identifiers end up as DOT labels and table cells.
const maxNodeIDLength = 128

// ValidateNodeID validates a node identifier for safety and correctness.
//
// The validation rules are intentionally conservative:
//   - No empty identifiers
//   - No whitespace or control characters
//   - No formula syntax (~ + ; , : #) that would break the text format
//   - Maximum length of 128 characters
func ValidateNodeID(id string) error {
	if id == "" {
		return New(ErrCodeInvalidNodeID, "node ID cannot be empty")
	}

	if len(id) > maxNodeIDLength {
		return New(ErrCodeInvalidNodeID, "node ID too long (max %d characters)", maxNodeIDLength)
	}

	for _, r := range id {
		if unicode.IsControl(r) || unicode.IsSpace(r) {
			return New(ErrCodeInvalidNodeID, "node ID %q contains whitespace or control characters", id)
		}
	}

	if strings.ContainsAny(id, "~+;,:#") {
		return New(ErrCodeInvalidNodeID, "node ID %q contains reserved characters", id)
	}

	return nil
}

// ValidateFormat checks that format is one of the allowed values.
// The allowed list is used verbatim in the error message.
func ValidateFormat(format string, allowed ...string) error {
	for _, a := range allowed {
		if format == a {
			return nil
		}
	}
	return New(ErrCodeInvalidFormat, "invalid format: %q (must be one of: %s)", format, strings.Join(allowed, ", "))
}
