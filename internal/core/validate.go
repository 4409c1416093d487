package core

import (
	"fmt"
	"strings"
)

// Input limits enforced at edit time.
const (
	// NameMaxWords caps variable names at a short human label.
	NameMaxWords = 3

	// InlineValueMaxLen caps values edited inline in the wizard.
	InlineValueMaxLen = 100

	// FieldValueMaxLen caps values edited in structured fields.
	FieldValueMaxLen = 2000
)

// ValidationError represents a validation failure.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("validation error: %s - %s", e.Field, e.Message)
}

// ValidateName checks that a variable name is a 1-3 word label.
func ValidateName(name string) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return &ValidationError{Field: "name", Message: "required"}
	}
	if len(strings.Fields(name)) > NameMaxWords {
		return &ValidationError{Field: "name", Message: fmt.Sprintf("at most %d words", NameMaxWords)}
	}
	if ContainsToken(name) {
		return &ValidationError{Field: "name", Message: "reserved placeholder syntax not allowed"}
	}
	return nil
}

// TruncateName trims a name down to the word limit. Used by callers that
// prefer truncation over rejection (e.g. importing analysis seeds).
func TruncateName(name string) string {
	words := strings.Fields(name)
	if len(words) > NameMaxWords {
		words = words[:NameMaxWords]
	}
	return strings.Join(words, " ")
}

// ValidateValue checks a variable value against a length cap and the
// reserved token syntax.
func ValidateValue(value string, maxLen int) error {
	if len([]rune(value)) > maxLen {
		return &ValidationError{Field: "value", Message: fmt.Sprintf("at most %d characters", maxLen)}
	}
	if ContainsToken(value) {
		return &ValidationError{Field: "value", Message: "reserved placeholder syntax not allowed"}
	}
	return nil
}

// ValidatePromptText checks that the raw prompt is usable for analysis.
func ValidatePromptText(text string) error {
	if strings.TrimSpace(text) == "" {
		return &ValidationError{Field: "prompt", Message: "required"}
	}
	return nil
}
