package mailer

import (
	"bytes"
	"context"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/unimaxdigital/agency-web/internal/domain"
)

func TestBuildMessage(t *testing.T) {
	msg, err := buildMessage("noreply@unimax.test", "ada@example.com", "Verify your email", "<p>hi</p>")
	require.NoError(t, err)

	var buf bytes.Buffer
	_, err = msg.WriteTo(&buf)
	require.NoError(t, err)

	raw := buf.String()
	assert.Contains(t, raw, "Subject: Verify your email")
	assert.Contains(t, raw, "<ada@example.com>")
	assert.Contains(t, raw, "text/html")
}

func TestBuildMessage_InvalidRecipient(t *testing.T) {
	_, err := buildMessage("noreply@unimax.test", "not an address", "s", "b")
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrTransport)
}

func TestSMTP_SendFailureWrapsTransport(t *testing.T) {
	// Port 1 on loopback refuses connections.
	m := NewSMTP(SMTPConfig{Host: "127.0.0.1", Port: 1, From: "noreply@unimax.test"})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	err := m.Send(ctx, "ada@example.com", "s", "<p>b</p>")
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrTransport)
}

func TestLog_Send(t *testing.T) {
	var buf bytes.Buffer
	m := NewLog(slog.New(slog.NewJSONHandler(&buf, nil)))

	err := m.Send(context.Background(), "ada@example.com", "Reset your password", "<a href=\"x\">x</a>")
	require.NoError(t, err)
	assert.Contains(t, buf.String(), `"to":"ada@example.com"`)
	assert.Contains(t, buf.String(), `"subject":"Reset your password"`)
}
