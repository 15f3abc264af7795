package service

import (
	"context"
	"fmt"
	"html"
	"strings"

	"github.com/unimaxdigital/agency-web/internal/domain"
)

// ContactInput is an inquiry submitted through the contact form.
type ContactInput struct {
	Name    string `json:"name" validate:"required,max=100"`
	Email   string `json:"email" validate:"required,email,max=254"`
	Company string `json:"company" validate:"max=128"`
	Message string `json:"message" validate:"required,max=5000"`
}

// ContactService forwards inquiries to the agency inbox.
type ContactService struct {
	mailer domain.Mailer
	inbox  string
}

func NewContactService(mailer domain.Mailer, inbox string) *ContactService {
	return &ContactService{mailer: mailer, inbox: inbox}
}

// Submit validates the inquiry and mails it to the inbox.
func (s *ContactService) Submit(ctx context.Context, in ContactInput) error {
	in.Name = strings.TrimSpace(in.Name)
	in.Email = domain.NormalizeEmail(in.Email)
	in.Company = strings.TrimSpace(in.Company)
	in.Message = strings.TrimSpace(in.Message)

	if err := validate.Struct(in); err != nil {
		return translate(err)
	}

	subject := "New inquiry from " + in.Name
	if in.Company != "" {
		subject += " (" + in.Company + ")"
	}
	body := fmt.Sprintf("<p><strong>%s</strong> &lt;%s&gt;</p><p>%s</p>",
		html.EscapeString(in.Name),
		html.EscapeString(in.Email),
		strings.ReplaceAll(html.EscapeString(in.Message), "\n", "<br>"),
	)

	if err := s.mailer.Send(ctx, s.inbox, subject, body); err != nil {
		return fmt.Errorf("send inquiry: %w", err)
	}
	return nil
}
