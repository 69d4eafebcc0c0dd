package errors

import (
	"strings"
	"testing"
)

func TestValidateNodeID(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		wantErr bool
	}{
		{"valid simple", "x", false},
		{"valid with digits", "z1", false},
		{"valid with underscore", "U_w1_w2", false},
		{"valid with dot", "bmi.baseline", false},

		{"empty", "", true},
		{"too long", strings.Repeat("a", 200), true},
		{"space", "smoking status", true},
		{"tilde", "y~x", true},
		{"plus", "a+b", true},
		{"comma", "a,b", true},
		{"semicolon", "a;b", true},
		{"colon", "a:b", true},
		{"hash", "a#b", true},
		{"null byte", "foo\x00bar", true},
		{"newline", "foo\nbar", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateNodeID(tt.input)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateNodeID(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			}
			if err != nil && !Is(err, ErrCodeInvalidNodeID) {
				t.Errorf("ValidateNodeID(%q) code = %v, want %v", tt.input, GetCode(err), ErrCodeInvalidNodeID)
			}
		})
	}
}

func TestValidateFormat(t *testing.T) {
	if err := ValidateFormat("svg", "svg", "dot"); err != nil {
		t.Errorf("ValidateFormat(svg) = %v, want nil", err)
	}

	err := ValidateFormat("gif", "svg", "dot")
	if err == nil {
		t.Fatal("ValidateFormat(gif) = nil, want error")
	}
	if !strings.Contains(err.Error(), "svg, dot") {
		t.Errorf("error %q should list allowed formats", err)
	}
}
