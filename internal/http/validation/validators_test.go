package validation

import (
	"testing"
)

const errNameRequired = "Name is required."

func TestRequired(t *testing.T) {
	tests := []struct {
		name      string
		fieldName string
		maxLen    int
		value     string
		wantErr   bool
		errMsg    string
	}{
		{
			name:      "valid input",
			fieldName: "Name",
			maxLen:    10,
			value:     "valid",
			wantErr:   false,
		},
		{
			name:      "empty string",
			fieldName: "Name",
			maxLen:    10,
			value:     "",
			wantErr:   true,
			errMsg:    errNameRequired,
		},
		{
			name:      "whitespace only",
			fieldName: "Name",
			maxLen:    10,
			value:     "   ",
			wantErr:   true,
			errMsg:    errNameRequired,
		},
		{
			name:      "exceeds max length",
			fieldName: "Name",
			maxLen:    5,
			value:     "toolong",
			wantErr:   true,
			errMsg:    "Name cannot exceed 5 characters.",
		},
		{
			name:      "exactly max length",
			fieldName: "Name",
			maxLen:    5,
			value:     "exact",
			wantErr:   false,
		},
		{
			name:      "unicode characters within limit",
			fieldName: "Name",
			maxLen:    5,
			value:     "ééééé", // 5 runes, 10 bytes
			wantErr:   false,
		},
		{
			name:      "unicode characters exceeds limit",
			fieldName: "Name",
			maxLen:    5,
			value:     "éééééé", // 6 runes
			wantErr:   true,
			errMsg:    "Name cannot exceed 5 characters.",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v := Required(tt.fieldName, tt.maxLen)
			err := v(tt.value)
			if tt.wantErr && err == "" {
				t.Errorf("Required() expected error but got none")
			}
			if !tt.wantErr && err != "" {
				t.Errorf("Required() unexpected error: %v", err)
			}
			if tt.wantErr && err != tt.errMsg {
				t.Errorf("Required() error = %v, want %v", err, tt.errMsg)
			}
		})
	}
}

func TestRequiredRange(t *testing.T) {
	tests := []struct {
		name      string
		fieldName string
		min       int
		max       int
		value     string
		wantErr   bool
		errMsg    string
	}{
		{
			name:      "valid input",
			fieldName: "Name",
			min:       3,
			max:       10,
			value:     "valid",
			wantErr:   false,
		},
		{
			name:      "empty string",
			fieldName: "Name",
			min:       3,
			max:       10,
			value:     "",
			wantErr:   true,
			errMsg:    errNameRequired,
		},
		{
			name:      "too short",
			fieldName: "Name",
			min:       5,
			max:       10,
			value:     "ab",
			wantErr:   true,
			errMsg:    "Name must be between 5 and 10 characters.",
		},
		{
			name:      "too long",
			fieldName: "Name",
			min:       3,
			max:       5,
			value:     "toolong",
			wantErr:   true,
			errMsg:    "Name must be between 3 and 5 characters.",
		},
		{
			name:      "exactly min length",
			fieldName: "Name",
			min:       3,
			max:       10,
			value:     "abc",
			wantErr:   false,
		},
		{
			name:      "exactly max length",
			fieldName: "Name",
			min:       3,
			max:       5,
			value:     "abcde",
			wantErr:   false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v := RequiredRange(tt.fieldName, tt.min, tt.max)
			err := v(tt.value)
			if tt.wantErr && err == "" {
				t.Errorf("RequiredRange() expected error but got none")
			}
			if !tt.wantErr && err != "" {
				t.Errorf("RequiredRange() unexpected error: %v", err)
			}
			if tt.wantErr && err != tt.errMsg {
				t.Errorf("RequiredRange() error = %v, want %v", err, tt.errMsg)
			}
		})
	}
}

func TestEmail(t *testing.T) {
	v := Email("Email")
	cases := map[string]string{
		"":                       "",
		"jane@firm.law":          "",
		"  jane@firm.law ":       "",
		"jane":                   "Enter a valid email address.",
		"jane@":                  "Enter a valid email address.",
		"Jane <jane@firm.law>":   "Enter a valid email address.",
		"jane@firm.law, x@y.com": "Enter a valid email address.",
	}
	for in, want := range cases {
		if got := v(in); got != want {
			t.Errorf("Email(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestMatches(t *testing.T) {
	v := Matches("Passwords do not match.", "secret")
	if got := v("secret"); got != "" {
		t.Errorf("expected match, got %q", got)
	}
	if got := v("secret "); got != "Passwords do not match." {
		t.Errorf("expected mismatch message, got %q", got)
	}
}

func TestOptional(t *testing.T) {
	v := Optional("Name", 3)
	if got := v(""); got != "" {
		t.Errorf("empty value should pass, got %q", got)
	}
	if got := v("abcd"); got != "Name cannot exceed 3 characters." {
		t.Errorf("unexpected message %q", got)
	}
}

func TestFieldValidator_SingleFieldWithError(t *testing.T) {
	fv := New().Validate("name", "", Required("Name", 10))
	errs := fv.Errors()
	if len(errs) != 1 {
		t.Errorf("Expected 1 error, got %d", len(errs))
	}
	if errs["name"] != errNameRequired {
		t.Errorf("Expected %q, got %v", errNameRequired, errs["name"])
	}
	if fv.Valid() {
		t.Error("Expected Valid() to be false")
	}
}

func TestFieldValidator_MultipleFieldsWithErrors(t *testing.T) {
	fv := New().
		Validate("name", "", Required("Name", 10)).
		Validate("email", "nope", Required("Email", 254), Email("Email"))
	errs := fv.Errors()
	if len(errs) != 2 {
		t.Errorf("Expected 2 errors, got %d", len(errs))
	}
	if errs["email"] != "Enter a valid email address." {
		t.Errorf("unexpected email error %v", errs["email"])
	}
}

func TestFieldValidator_StopsAtFirstError(t *testing.T) {
	fv := New().Validate("email", "", Required("Email", 254), Email("Email"))
	// Should stop at Required error, not reach Email
	if got := fv.Errors()["email"]; got != "Email is required." {
		t.Errorf("Expected 'Email is required.', got %v", got)
	}
}

func TestFieldValidator_EmptyErrors(t *testing.T) {
	fv := New()
	if len(fv.Errors()) != 0 || !fv.Valid() {
		t.Errorf("Expected empty errors map, got %v", fv.Errors())
	}
}
