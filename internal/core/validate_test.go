package core

import (
	"strings"
	"testing"
)

func TestValidateName(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		wantErr bool
	}{
		{"single word", "Topic", false},
		{"three words", "Target Audience Group", false},
		{"four words", "way too many words", true},
		{"empty", "", true},
		{"whitespace only", "   ", true},
		{"reserved syntax", "{{value::x}}", true},
		{"surrounding spaces ok", "  Topic  ", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateName(tt.input)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateName(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			}
		})
	}
}

func TestValidateValueLengthCaps(t *testing.T) {
	if err := ValidateValue(strings.Repeat("a", InlineValueMaxLen), InlineValueMaxLen); err != nil {
		t.Errorf("value at the cap should pass: %v", err)
	}
	if err := ValidateValue(strings.Repeat("a", InlineValueMaxLen+1), InlineValueMaxLen); err == nil {
		t.Error("value over the cap should fail")
	}
	// The cap counts runes, not bytes.
	if err := ValidateValue(strings.Repeat("é", InlineValueMaxLen), InlineValueMaxLen); err != nil {
		t.Errorf("multibyte value at the cap should pass: %v", err)
	}
}

func TestValidationErrorMessage(t *testing.T) {
	err := &ValidationError{Field: "name", Message: "required"}
	if got := err.Error(); !strings.Contains(got, "name") || !strings.Contains(got, "required") {
		t.Errorf("Error() = %q", got)
	}
}
