package service_test

import (
	"encoding/json"
	"errors"
	"strings"
	"testing"

	"github.com/unimaxdigital/agency-web/internal/domain"
	"github.com/unimaxdigital/agency-web/internal/service"
)

func TestRegistrationInput_Validate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*service.RegistrationInput)
		wantMsg string
	}{
		{"valid", func(*service.RegistrationInput) {}, ""},
		{"missing password", func(in *service.RegistrationInput) { in.Password = "" }, "Password is required"},
		{"mismatch before email", func(in *service.RegistrationInput) {
			in.Email = ""
			in.Password, in.ConfirmPassword = "a", "b"
		}, "Passwords do not match"},
		{"missing email", func(in *service.RegistrationInput) { in.Email = "  " }, "Email is required"},
		{"malformed email", func(in *service.RegistrationInput) { in.Email = "not-an-email" }, "Invalid email address"},
		{"password too long", func(in *service.RegistrationInput) {
			in.Password = strings.Repeat("p", 73)
			in.ConfirmPassword = in.Password
		}, "Password must be at most 72 bytes"},
		{"unknown account type", func(in *service.RegistrationInput) { in.AccountType = "guild" }, "Invalid accountType"},
		{"long phone", func(in *service.RegistrationInput) { in.Phone = strings.Repeat("1", 40) }, "phone must be at most 32 characters"},
		{"confirmation omitted", func(in *service.RegistrationInput) { in.ConfirmPassword = "" }, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			in := validInput("ada@example.com")
			tt.mutate(&in)
			err := in.Validate()

			if tt.wantMsg == "" {
				if err != nil {
					t.Fatalf("expected no error, got %v", err)
				}
				return
			}
			var verr *domain.ValidationError
			if !errors.As(err, &verr) {
				t.Fatalf("expected ValidationError, got %v", err)
			}
			if verr.Message != tt.wantMsg {
				t.Fatalf("expected %q, got %q", tt.wantMsg, verr.Message)
			}
			if !errors.Is(err, domain.ErrInvalidInput) {
				t.Fatal("ValidationError should match ErrInvalidInput")
			}
		})
	}
}

func TestRegistrationInput_ValidateNormalizes(t *testing.T) {
	in := validInput("  Ada@Example.COM ")
	in.AccountType = " Company "
	if err := in.Validate(); err != nil {
		t.Fatalf("Validate: %v", err)
	}
	if in.Email != "ada@example.com" {
		t.Fatalf("expected normalized email, got %q", in.Email)
	}
	if in.AccountType != "company" {
		t.Fatalf("expected lower-cased account type, got %q", in.AccountType)
	}
}

func TestFlag_UnmarshalJSON(t *testing.T) {
	tests := []struct {
		raw     string
		want    bool
		wantErr bool
	}{
		{`true`, true, false},
		{`false`, false, false},
		{`"true"`, true, false},
		{`"on"`, true, false},
		{`"false"`, false, false},
		{`""`, false, false},
		{`null`, false, false},
		{`"yes"`, false, true},
		{`1`, false, true},
	}
	for _, tt := range tests {
		t.Run(tt.raw, func(t *testing.T) {
			var in service.RegistrationInput
			err := json.Unmarshal([]byte(`{"agreeToTerms":`+tt.raw+`}`), &in)
			if tt.wantErr {
				if !errors.Is(err, domain.ErrInvalidInput) {
					t.Fatalf("expected ErrInvalidInput, got %v", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("Unmarshal: %v", err)
			}
			if bool(in.AgreeToTerms) != tt.want {
				t.Fatalf("expected %v, got %v", tt.want, in.AgreeToTerms)
			}
		})
	}
}

func TestRegistrationInput_RoleNotDecoded(t *testing.T) {
	var in service.RegistrationInput
	if err := json.Unmarshal([]byte(`{"email":"a@b.co","role":"admin"}`), &in); err != nil {
		t.Fatalf("Unmarshal: %v", err)
	}
	if in.Role != "" {
		t.Fatalf("role must not be read from JSON, got %q", in.Role)
	}
}
