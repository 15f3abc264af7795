// Package mailer delivers transactional email.
package mailer

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/unimaxdigital/agency-web/internal/domain"
	"github.com/wneessen/go-mail"
)

// SMTPConfig holds connection settings for an SMTP relay.
type SMTPConfig struct {
	Host     string
	Port     int
	Username string
	Password string
	From     string
}

// SMTP sends mail through an SMTP relay.
type SMTP struct {
	cfg  SMTPConfig
	opts []mail.Option
}

var _ domain.Mailer = (*SMTP)(nil)

// NewSMTP creates an SMTP mailer. Authentication is enabled when a username
// is configured.
func NewSMTP(cfg SMTPConfig) *SMTP {
	opts := []mail.Option{
		mail.WithPort(cfg.Port),
		mail.WithTLSPortPolicy(mail.TLSOpportunistic),
	}
	if cfg.Username != "" {
		opts = append(opts,
			mail.WithSMTPAuth(mail.SMTPAuthPlain),
			mail.WithUsername(cfg.Username),
			mail.WithPassword(cfg.Password),
		)
	}
	return &SMTP{cfg: cfg, opts: opts}
}

// Send delivers one HTML message. Failures wrap domain.ErrTransport.
func (s *SMTP) Send(ctx context.Context, to, subject, html string) error {
	msg, err := buildMessage(s.cfg.From, to, subject, html)
	if err != nil {
		return err
	}

	client, err := mail.NewClient(s.cfg.Host, s.opts...)
	if err != nil {
		return fmt.Errorf("%w: smtp client: %w", domain.ErrTransport, err)
	}
	if err := client.DialAndSendWithContext(ctx, msg); err != nil {
		return fmt.Errorf("%w: send mail: %w", domain.ErrTransport, err)
	}

	slog.Info("mail sent", "to", to, "subject", subject)
	return nil
}

func buildMessage(from, to, subject, html string) (*mail.Msg, error) {
	msg := mail.NewMsg()
	if err := msg.From(from); err != nil {
		return nil, fmt.Errorf("%w: invalid sender %q: %w", domain.ErrTransport, from, err)
	}
	if err := msg.To(to); err != nil {
		return nil, fmt.Errorf("%w: invalid recipient %q: %w", domain.ErrTransport, to, err)
	}
	msg.Subject(subject)
	msg.SetBodyString(mail.TypeTextHTML, html)
	return msg, nil
}

// Log writes messages to the structured log instead of sending them. It is
// used in development when no SMTP host is configured.
type Log struct {
	logger *slog.Logger
}

var _ domain.Mailer = (*Log)(nil)

// NewLog creates a Log mailer. A nil logger uses slog.Default.
func NewLog(logger *slog.Logger) *Log {
	if logger == nil {
		logger = slog.Default()
	}
	return &Log{logger: logger}
}

func (l *Log) Send(ctx context.Context, to, subject, html string) error {
	l.logger.InfoContext(ctx, "mail (not sent)", "to", to, "subject", subject, "body", html)
	return nil
}
