package mail

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"account-api.backend/internal/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSMTPSender_Send(t *testing.T) {
	cfg := config.MailConfig{Host: "smtp.example.com", Port: 587, Timeout: time.Second}
	s := NewSMTPSender(cfg)
	s.nowFunc = func() time.Time { return time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC) }

	var gotFrom, gotTo string
	var gotRaw []byte
	orig := deliver
	t.Cleanup(func() { deliver = orig })
	deliver = func(ctx context.Context, c config.MailConfig, from, to string, raw []byte) error {
		assert.Equal(t, cfg, c)
		gotFrom, gotTo, gotRaw = from, to, raw
		return nil
	}

	err := s.Send(context.Background(), Message{
		From:    `"No Reply" <no-reply@example.com>`,
		To:      "alice@example.com",
		Subject: "Hello",
		Body:    "line one\nline two\n",
	})
	require.NoError(t, err)

	assert.Equal(t, "no-reply@example.com", gotFrom)
	assert.Equal(t, "alice@example.com", gotTo)
	raw := string(gotRaw)
	assert.Contains(t, raw, "From: \"No Reply\" <no-reply@example.com>\r\n")
	assert.Contains(t, raw, "To: <alice@example.com>\r\n")
	assert.Contains(t, raw, "Subject: Hello\r\n")
	assert.Contains(t, raw, "Date: Fri, 02 Jan 2026 03:04:05 +0000\r\n")
	assert.True(t, strings.HasSuffix(raw, "\r\n\r\nline one\r\nline two\r\n"))
}

func TestSMTPSender_EncodesNonASCIISubject(t *testing.T) {
	s := NewSMTPSender(config.MailConfig{Host: "smtp.example.com", Port: 587})

	var gotRaw []byte
	orig := deliver
	t.Cleanup(func() { deliver = orig })
	deliver = func(_ context.Context, _ config.MailConfig, _, _ string, raw []byte) error {
		gotRaw = raw
		return nil
	}

	err := s.Send(context.Background(), Message{From: "a@example.com", To: "b@example.com", Subject: "Café", Body: "hi"})
	require.NoError(t, err)
	assert.Contains(t, string(gotRaw), "Subject: =?utf-8?q?Caf=C3=A9?=\r\n")
}

func TestSMTPSender_SendErrors(t *testing.T) {
	s := NewSMTPSender(config.MailConfig{Host: "smtp.example.com", Port: 587})

	orig := deliver
	t.Cleanup(func() { deliver = orig })
	deliver = func(context.Context, config.MailConfig, string, string, []byte) error {
		return errors.New("dial failed")
	}

	err := s.Send(context.Background(), Message{From: "bad", To: "a@example.com"})
	require.ErrorContains(t, err, "parse sender address")

	err = s.Send(context.Background(), Message{From: "a@example.com", To: ""})
	require.ErrorContains(t, err, "parse recipient address")

	err = s.Send(context.Background(), Message{From: "a@example.com", To: "b@example.com"})
	require.EqualError(t, err, "dial failed")
}

func TestDeliver_DialFailure(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := deliver(ctx, config.MailConfig{Host: "127.0.0.1", Port: 1, Timeout: 100 * time.Millisecond}, "a@example.com", "b@example.com", nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "dial smtp")
}
