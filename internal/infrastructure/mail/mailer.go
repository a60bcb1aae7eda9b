package mail

import (
	"context"
	"fmt"
	"net/url"
	"time"

	"account-api.backend/internal/config"
)

// Mailer renders application emails and hands them to a Sender
type Mailer struct {
	sender    Sender
	from      string
	appName   string
	clientURL string
	verify    *View
}

// NewMailer creates a Mailer for the configured sender identity
func NewMailer(sender Sender, appCfg config.AppConfig, mailCfg config.MailConfig) (*Mailer, error) {
	verify, err := ParseView(ViewVerifyEmail)
	if err != nil {
		return nil, err
	}
	return &Mailer{
		sender:    sender,
		from:      FormatAddress(mailCfg.FromName, mailCfg.From),
		appName:   appCfg.Name,
		clientURL: appCfg.ClientURL,
		verify:    verify,
	}, nil
}

// NewSender picks the SMTP transport, or the log sender when no host is configured
func NewSender(cfg config.MailConfig) Sender {
	if cfg.Host == "" {
		return NewLogSender()
	}
	return NewSMTPSender(cfg)
}

// VerificationLink builds the client-side link that carries token
func (m *Mailer) VerificationLink(token string) string {
	u, err := url.Parse(m.clientURL)
	if err != nil || u.Scheme == "" {
		return fmt.Sprintf("%s/verify-email?token=%s", m.clientURL, url.QueryEscape(token))
	}
	u = u.JoinPath("verify-email")
	u.RawQuery = url.Values{"token": {token}}.Encode()
	return u.String()
}

// SendVerification emails the verification link to the user
func (m *Mailer) SendVerification(ctx context.Context, name, email, token string, validFor time.Duration) error {
	subject, body, err := m.verify.Render(VerificationData{
		AppName:  m.appName,
		Name:     name,
		Link:     m.VerificationLink(token),
		ValidFor: formatValidity(validFor),
	})
	if err != nil {
		return fmt.Errorf("render verification email: %w", err)
	}
	return m.sender.Send(ctx, Message{
		From:    m.from,
		To:      FormatAddress(name, email),
		Subject: subject,
		Body:    body,
	})
}
