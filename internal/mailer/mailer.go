package mailer

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"
	"github.com/wneessen/go-mail"
)

// Mailer delivers account-lifecycle mail. Delivery failures are
// the caller's concern; no retries happen here.
type Mailer interface {
	SendConfirmation(ctx context.Context, to, name, token string) error
	SendPasswordReset(ctx context.Context, to, name, token string) error
}

type SMTPMailer struct {
	logger      zerolog.Logger
	client      *mail.Client
	from        string
	frontendURL string
}

func NewSMTP(
	logger zerolog.Logger,
	host string,
	port int,
	username string,
	password string,
	from string,
	frontendURL string,
) (*SMTPMailer, error) {
	client, err := mail.NewClient(
		host,
		mail.WithPort(port),
		mail.WithSMTPAuth(mail.SMTPAuthPlain),
		mail.WithUsername(username),
		mail.WithPassword(password),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create smtp client: %w", err)
	}

	return &SMTPMailer{
		logger:      logger,
		client:      client,
		from:        from,
		frontendURL: frontendURL,
	}, nil
}

func (m *SMTPMailer) SendConfirmation(ctx context.Context, to, name, token string) error {
	body := fmt.Sprintf(`<p>Hi %s, confirm your account.</p>
<p>Your account is almost ready, you only have to confirm it here:
<a href="%s/confirmar/%s">Confirm account</a></p>
<p>If you did not create this account, ignore this message.</p>`,
		name, m.frontendURL, token)

	return m.send(ctx, to, "Confirm your account", body)
}

func (m *SMTPMailer) SendPasswordReset(ctx context.Context, to, name, token string) error {
	body := fmt.Sprintf(`<p>Hi %s, you requested a password reset.</p>
<p>Follow this link to set a new password:
<a href="%s/reset-password/%s">Reset password</a></p>
<p>If you did not request this email, ignore this message.</p>`,
		name, m.frontendURL, token)

	return m.send(ctx, to, "Reset your password", body)
}

func (m *SMTPMailer) send(ctx context.Context, to, subject, body string) error {
	msg := mail.NewMsg()
	if err := msg.From(m.from); err != nil {
		return fmt.Errorf("failed to set sender: %w", err)
	}
	if err := msg.To(to); err != nil {
		return fmt.Errorf("failed to set recipient: %w", err)
	}
	msg.Subject(subject)
	msg.SetBodyString(mail.TypeTextHTML, body)

	err := m.client.DialAndSendWithContext(ctx, msg)
	if err != nil {
		return fmt.Errorf("failed to send mail: %w", err)
	}

	m.logger.Debug().
		Str("to", to).
		Str("subject", subject).
		Msg("sent mail")
	return nil
}

// Noop discards all mail. Used in tests and local setups
// without an SMTP relay.
type Noop struct{}

func (Noop) SendConfirmation(context.Context, string, string, string) error  { return nil }
func (Noop) SendPasswordReset(context.Context, string, string, string) error { return nil }
