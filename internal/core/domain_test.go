package core

import (
	"encoding/json"
	"errors"
	"strings"
	"testing"

	"github.com/shopspring/decimal"
)

func TestValidateEmail(t *testing.T) {
	cases := []struct {
		email string
		want  error
	}{
		{"a@x.com", nil},
		{"first.last@example.org", nil},
		{"", ErrEmptyEmail},
		{"   ", ErrEmptyEmail},
		{"no-at-sign.com", ErrInvalidEmail},
		{"two@@x.com", ErrInvalidEmail},
		{"spaces in@x.com", ErrInvalidEmail},
		{"a@nodot", ErrInvalidEmail},
		{strings.Repeat("a", 250) + "@x.com", ErrInvalidEmail},
	}
	for i, tc := range cases {
		err := ValidateEmail(tc.email)
		if !errors.Is(err, tc.want) {
			t.Fatalf("case %d (%q): got %v, want %v", i, tc.email, err, tc.want)
		}
	}
}

func TestValidateCredentials(t *testing.T) {
	if err := ValidateCredentials("a@x.com", "p"); err != nil {
		t.Fatalf("expected ok, got %v", err)
	}
	if err := ValidateCredentials("a@x.com", ""); !errors.Is(err, ErrEmptyPassword) {
		t.Fatalf("expected ErrEmptyPassword, got %v", err)
	}
	if err := ValidateCredentials("", "p"); !errors.Is(err, ErrEmptyEmail) {
		t.Fatalf("expected ErrEmptyEmail, got %v", err)
	}
	if err := ValidateCredentials("a@x.com", strings.Repeat("p", MaxPasswordBytes)); err != nil {
		t.Fatalf("expected %d-byte password to be accepted, got %v", MaxPasswordBytes, err)
	}
	if err := ValidateCredentials("a@x.com", strings.Repeat("p", MaxPasswordBytes+1)); !errors.Is(err, ErrLongPassword) {
		t.Fatalf("expected ErrLongPassword, got %v", err)
	}
}

func TestNormalizeEmail(t *testing.T) {
	if got := NormalizeEmail("  A@X.Com "); got != "a@x.com" {
		t.Fatalf("NormalizeEmail = %q", got)
	}
}

func TestUserJSONHidesPasswordHash(t *testing.T) {
	b, err := json.Marshal(User{ID: 1, Email: "a@x.com", PasswordHash: "secret-hash"})
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	if strings.Contains(string(b), "secret-hash") {
		t.Fatalf("password hash leaked: %s", b)
	}
}

func TestDecimalFieldsMarshalAsNumbers(t *testing.T) {
	b, err := json.Marshal(MonthlyBalance{ID: 1, Balance: decimal.RequireFromString("12.5")})
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	if !strings.Contains(string(b), `"balance":12.5`) {
		t.Fatalf("balance not a JSON number: %s", b)
	}
}

func TestReferenceErrorIsInvalidReference(t *testing.T) {
	var err error = &ReferenceError{Field: "yearId", ID: 7}
	if !errors.Is(err, ErrInvalidReference) {
		t.Fatal("ReferenceError should match ErrInvalidReference")
	}
	if err.Error() != "invalid yearId: 7" {
		t.Fatalf("Error() = %q", err.Error())
	}
}

func TestValidationErrorMessage(t *testing.T) {
	if got := NewValidationError("name", "is required").Error(); got != "name: is required" {
		t.Fatalf("Error() = %q", got)
	}
	if got := NewValidationError("", "bad body").Error(); got != "bad body" {
		t.Fatalf("Error() = %q", got)
	}
}
