package validation

import (
	"strings"
	"testing"
)

func TestValidateEmail(t *testing.T) {
	tests := []struct {
		name    string
		email   string
		wantErr bool
	}{
		{name: "valid", email: "alice@example.com", wantErr: false},
		{name: "valid with plus", email: "alice+tag@example.co.uk", wantErr: false},
		{name: "empty", email: "", wantErr: true},
		{name: "whitespace only", email: "   ", wantErr: true},
		{name: "missing domain", email: "alice@", wantErr: true},
		{name: "missing at", email: "alice.example.com", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateEmail(tt.email)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateEmail(%q) error = %v, wantErr %v", tt.email, err, tt.wantErr)
			}
		})
	}
}

func TestValidateRelationLabel(t *testing.T) {
	tests := []struct {
		name    string
		label   string
		wantErr bool
	}{
		{name: "simple", label: "Sister", wantErr: false},
		{name: "multi word", label: "Great-uncle on mum's side", wantErr: false},
		{name: "empty", label: "", wantErr: true},
		{name: "whitespace only", label: "  ", wantErr: true},
		{name: "too long", label: strings.Repeat("x", 51), wantErr: true},
		{name: "at limit", label: strings.Repeat("x", 50), wantErr: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateRelationLabel(tt.label)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateRelationLabel(%q) error = %v, wantErr %v", tt.label, err, tt.wantErr)
			}
		})
	}
}

func TestValidateVisibility(t *testing.T) {
	for _, v := range []string{"public", "family", "private"} {
		if err := ValidateVisibility(v); err != nil {
			t.Errorf("ValidateVisibility(%q) = %v, want nil", v, err)
		}
	}
	for _, v := range []string{"", "shared", "Public", "everyone"} {
		if err := ValidateVisibility(v); err == nil {
			t.Errorf("ValidateVisibility(%q) = nil, want error", v)
		}
	}
}

func TestValidationErrorMessage(t *testing.T) {
	err := ValidationError{Field: "email", Message: "email is required"}
	if err.Error() != "email: email is required" {
		t.Errorf("unexpected error string: %q", err.Error())
	}
}
