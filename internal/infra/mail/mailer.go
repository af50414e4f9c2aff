package mail

import (
	"context"
	"fmt"

	gomail "github.com/wneessen/go-mail"
	"go.uber.org/zap"

	"github.com/wynresh/sunem/internal/core/port"
	"github.com/wynresh/sunem/internal/infra/config"
	"github.com/wynresh/sunem/internal/infra/logger"
)

// SMTPMailer delivers transactional mail over SMTP.
type SMTPMailer struct {
	client      *gomail.Client
	from        string
	frontendURL string
	log         *zap.Logger
}

// NewSMTPMailer builds the SMTP client from configuration.
func NewSMTPMailer(cfg config.MailSettings, log *zap.Logger) (*SMTPMailer, error) {
	opts := []gomail.Option{
		gomail.WithPort(cfg.Port),
		gomail.WithTLSPolicy(gomail.TLSOpportunistic),
	}
	if cfg.Username != "" {
		opts = append(opts,
			gomail.WithSMTPAuth(gomail.SMTPAuthPlain),
			gomail.WithUsername(cfg.Username),
			gomail.WithPassword(cfg.Password),
		)
	}

	client, err := gomail.NewClient(cfg.Host, opts...)
	if err != nil {
		return nil, fmt.Errorf("create smtp client: %w", err)
	}

	return &SMTPMailer{
		client:      client,
		from:        cfg.From,
		frontendURL: cfg.FrontendURL,
		log:         log,
	}, nil
}

// SendVerificationEmail sends the sign-up confirmation link carrying the
// verification token.
func (m *SMTPMailer) SendVerificationEmail(ctx context.Context, to, token string) error {
	msg := gomail.NewMsg()
	if err := msg.From(m.from); err != nil {
		return fmt.Errorf("set sender: %w", err)
	}
	if err := msg.To(to); err != nil {
		return fmt.Errorf("set recipient: %w", err)
	}

	link := fmt.Sprintf("%s/verify-email?token=%s", m.frontendURL, token)

	msg.Subject("Confirm your account")
	msg.SetBodyString(gomail.TypeTextPlain, fmt.Sprintf(
		"Welcome!\n\nFollow the link below to confirm your account:\n\n%s\n\nThe link expires soon. If you did not request this, ignore this message.\n", link))
	msg.AddAlternativeString(gomail.TypeTextHTML, fmt.Sprintf(
		`<p>Welcome!</p><p>Follow the link below to confirm your account:</p><p><a href=%q>%s</a></p><p>The link expires soon. If you did not request this, ignore this message.</p>`, link, link))

	if err := m.client.DialAndSendWithContext(ctx, msg); err != nil {
		return fmt.Errorf("send verification email: %w", err)
	}

	m.log.Info("verification email sent", zap.String("to", logger.MaskEmail(to)))
	return nil
}

var _ port.Mailer = (*SMTPMailer)(nil)

// LogMailer logs mail instead of sending it. Useful for development environments.
type LogMailer struct {
	log *zap.Logger
}

// NewLogMailer constructs a mailer that only logs deliveries.
func NewLogMailer(log *zap.Logger) *LogMailer {
	return &LogMailer{log: log}
}

// SendVerificationEmail logs the verification token instead of mailing it.
func (m *LogMailer) SendVerificationEmail(_ context.Context, to, token string) error {
	m.log.Info("stub verification email",
		zap.String("to", logger.MaskEmail(to)),
		zap.String("token", token),
	)
	return nil
}

var _ port.Mailer = (*LogMailer)(nil)
