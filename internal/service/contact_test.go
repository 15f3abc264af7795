package service_test

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/unimaxdigital/agency-web/internal/domain"
	"github.com/unimaxdigital/agency-web/internal/service"
)

func TestContactService_Submit(t *testing.T) {
	mailer := &recordingMailer{}
	svc := service.NewContactService(mailer, "inbox@unimax.test")

	err := svc.Submit(context.Background(), service.ContactInput{
		Name:    " Ada ",
		Email:   "ADA@example.com",
		Company: "Engines Ltd",
		Message: "Hello <there>\nSecond line",
	})
	if err != nil {
		t.Fatalf("Submit: %v", err)
	}

	m := mailer.last(t)
	if m.To != "inbox@unimax.test" {
		t.Fatalf("expected inbox recipient, got %s", m.To)
	}
	if m.Subject != "New inquiry from Ada (Engines Ltd)" {
		t.Fatalf("unexpected subject %q", m.Subject)
	}
	if !strings.Contains(m.HTML, "Hello &lt;there&gt;<br>Second line") {
		t.Fatalf("message should be escaped with line breaks, got %s", m.HTML)
	}
}

func TestContactService_Validation(t *testing.T) {
	svc := service.NewContactService(&recordingMailer{}, "inbox@unimax.test")
	tests := []struct {
		in   service.ContactInput
		want string
	}{
		{service.ContactInput{Email: "a@b.co", Message: "hi"}, "Name is required"},
		{service.ContactInput{Name: "A", Email: "nope", Message: "hi"}, "Invalid email address"},
		{service.ContactInput{Name: "A", Email: "a@b.co", Message: "   "}, "Message is required"},
	}
	for _, tt := range tests {
		err := svc.Submit(context.Background(), tt.in)
		var verr *domain.ValidationError
		if !errors.As(err, &verr) || verr.Message != tt.want {
			t.Errorf("expected %q, got %v", tt.want, err)
		}
	}
}

func TestContactService_MailFailure(t *testing.T) {
	svc := service.NewContactService(&recordingMailer{fail: true}, "inbox@unimax.test")
	err := svc.Submit(context.Background(), service.ContactInput{Name: "A", Email: "a@b.co", Message: "hi"})
	if err == nil || errors.Is(err, domain.ErrInvalidInput) {
		t.Fatalf("expected delivery error, got %v", err)
	}
}

func TestValidateSignUpStep(t *testing.T) {
	in := validInput("ada@example.com")
	for step := 1; step <= 3; step++ {
		if err := service.ValidateSignUpStep(step, in); err != nil {
			t.Fatalf("step %d: %v", step, err)
		}
	}

	tests := []struct {
		step   int
		mutate func(*service.RegistrationInput)
		want   string
	}{
		{1, func(in *service.RegistrationInput) { in.FirstName = " " }, "First name is required"},
		{1, func(in *service.RegistrationInput) { in.LastName = "" }, "Last name is required"},
		{1, func(in *service.RegistrationInput) { in.Email = "x" }, "Invalid email address"},
		{2, func(in *service.RegistrationInput) { in.ConfirmPassword = "" }, "Please confirm your password"},
		{2, func(in *service.RegistrationInput) { in.ConfirmPassword = "other" }, "Passwords do not match"},
		{2, func(in *service.RegistrationInput) { in.Password = "" }, "Password is required"},
		{3, func(in *service.RegistrationInput) { in.AgreeToTerms = false }, "You must agree to the terms and conditions"},
		{9, func(*service.RegistrationInput) {}, "Unknown step"},
	}
	for _, tt := range tests {
		in := validInput("ada@example.com")
		tt.mutate(&in)
		err := service.ValidateSignUpStep(tt.step, in)
		var verr *domain.ValidationError
		if !errors.As(err, &verr) || verr.Message != tt.want {
			t.Errorf("step %d: expected %q, got %v", tt.step, tt.want, err)
		}
	}
}
