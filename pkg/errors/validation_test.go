package errors

import (
	"strings"
	"testing"
)

func TestValidateMapName(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		wantErr bool
	}{
		{"valid simple", "ideas", false},
		{"valid with spaces", "My first map", false},
		{"valid unicode", "Ma première carte", false},
		{"valid punctuation", "q3/roadmap: draft", false},

		{"empty", "", true},
		{"blank", "   ", true},
		{"too long", strings.Repeat("a", 300), true},
		{"null byte", "foo\x00bar", true},
		{"newline", "foo\nbar", true},
		{"tab", "foo\tbar", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateMapName(tt.input)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateMapName(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			}
			if err != nil && !Is(err, ErrCodeInvalidMapName) {
				t.Errorf("ValidateMapName(%q) code = %v, want %v", tt.input, GetCode(err), ErrCodeInvalidMapName)
			}
		})
	}
}

func TestValidateNodeID(t *testing.T) {
	tests := []struct {
		input   string
		wantErr bool
	}{
		{"node-0", false},
		{"6f1c2a4e-9d7b-4c1e-8a55-3b2f0e9d1c77", false},
		{"", true},
		{"node-1,node-2", true},
		{"node\n", true},
	}

	for _, tt := range tests {
		err := ValidateNodeID(tt.input)
		if (err != nil) != tt.wantErr {
			t.Errorf("ValidateNodeID(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
		}
	}
}
