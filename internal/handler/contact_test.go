package handler_test

import (
	"net/http"
	"strings"
	"testing"

	"github.com/unimaxdigital/agency-web/internal/handler"
	"github.com/unimaxdigital/agency-web/internal/service"
)

func TestContactForm_Submit(t *testing.T) {
	env := newTestEnv(t)

	_, body := env.postSignals(t, "/contact", map[string]string{
		"name": "Linus", "email": "linus@example.com", "company": "Kernel", "message": "We need a website.",
	})
	if !strings.Contains(body, "Thanks, Linus") {
		t.Fatalf("expected confirmation fragment, got %s", body)
	}
	mail := env.mailer.last(t)
	if mail.To != testInbox {
		t.Fatalf("expected mail to %s, got %s", testInbox, mail.To)
	}
	if !strings.Contains(mail.HTML, "We need a website.") {
		t.Fatalf("expected the message in the mail, got %s", mail.HTML)
	}
}

func TestContactForm_Validation(t *testing.T) {
	env := newTestEnv(t)

	_, body := env.postSignals(t, "/contact", map[string]string{
		"name": "Linus", "email": "linus@example.com", "message": "   ",
	})
	if !strings.Contains(body, "Message is required") {
		t.Fatalf("expected validation error, got %s", body)
	}
	if env.mailer.count() != 0 {
		t.Fatal("no mail expected for an invalid inquiry")
	}
}

func TestContactForm_TransportFailure(t *testing.T) {
	env := newTestEnv(t)
	env.mailer.fail = true

	_, body := env.postSignals(t, "/contact", map[string]string{
		"name": "Linus", "email": "linus@example.com", "message": "Hello",
	})
	if !strings.Contains(body, "could not send your message") {
		t.Fatalf("expected a delivery error, got %s", body)
	}
}

func TestContactForm_RateLimited(t *testing.T) {
	limiter := service.NewAttemptLimiter(1, 2)
	t.Cleanup(limiter.Close)
	env := newTestEnv(t, func(d *handler.Deps) { d.Limiter = limiter })

	inquiry := map[string]string{"name": "Linus", "email": "linus@example.com", "message": "Hello"}
	for i := range 2 {
		if resp, _ := env.postSignals(t, "/contact", inquiry); resp.StatusCode != http.StatusOK {
			t.Fatalf("attempt %d: expected 200, got %d", i+1, resp.StatusCode)
		}
	}
	resp, _ := env.postSignals(t, "/contact", inquiry)
	if resp.StatusCode != http.StatusTooManyRequests {
		t.Fatalf("expected 429, got %d", resp.StatusCode)
	}
	if env.mailer.count() != 2 {
		t.Fatalf("expected 2 mails, got %d", env.mailer.count())
	}
}
