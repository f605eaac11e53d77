package notifications

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"ferryman/internal/config"

	"github.com/wneessen/go-mail"
)

const timestampLayout = "2006-01-02 15:04:05"

type EmailNotifier struct {
	config  *config.Config
	enabled bool
	now     func() time.Time
	send    func(ctx context.Context, msg *mail.Msg) error
}

func NewEmailNotifier(cfg *config.Config) *EmailNotifier {
	n := &EmailNotifier{
		config:  cfg,
		enabled: cfg.GetNotifications().Email.Enabled,
		now:     time.Now,
	}
	n.send = n.dialAndSend
	return n
}

func (e *EmailNotifier) IsEnabled() bool {
	return e.enabled
}

// Notify mails subject and body to every configured recipient. The body
// gets a timestamp footer.
func (e *EmailNotifier) Notify(ctx context.Context, subject, body string, success bool) error {
	if !e.enabled {
		return nil
	}

	msg, err := e.buildMessage(subject, body)
	if err != nil {
		return err
	}

	if err := e.send(ctx, msg); err != nil {
		return fmt.Errorf("failed to send email notification: %w", err)
	}

	slog.Info("email notification sent", "subject", subject, "success", success)
	return nil
}

func (e *EmailNotifier) buildMessage(subject, body string) (*mail.Msg, error) {
	cfg := e.config.GetNotifications().Email

	msg := mail.NewMsg()
	if err := msg.From(cfg.From); err != nil {
		return nil, fmt.Errorf("invalid sender address %q: %w", cfg.From, err)
	}
	if err := msg.To(cfg.To...); err != nil {
		return nil, fmt.Errorf("invalid recipient address: %w", err)
	}
	msg.Subject(subject)
	msg.SetDate()
	msg.SetBodyString(mail.TypeTextPlain, fmt.Sprintf("%s\n\n---\nTimestamp: %s\n",
		body, e.now().Format(timestampLayout)))

	return msg, nil
}

func (e *EmailNotifier) dialAndSend(ctx context.Context, msg *mail.Msg) error {
	cfg := e.config.GetNotifications().Email

	opts := []mail.Option{mail.WithPort(cfg.Port)}
	switch cfg.TLS {
	case "tls":
		opts = append(opts, mail.WithSSL())
	case "none":
		opts = append(opts, mail.WithTLSPolicy(mail.NoTLS))
	default:
		opts = append(opts, mail.WithTLSPolicy(mail.TLSMandatory))
	}
	if cfg.Username != "" {
		opts = append(opts,
			mail.WithSMTPAuth(mail.SMTPAuthPlain),
			mail.WithUsername(cfg.Username),
			mail.WithPassword(cfg.Password))
	}

	client, err := mail.NewClient(cfg.Host, opts...)
	if err != nil {
		return fmt.Errorf("failed to create mail client: %w", err)
	}

	ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	return client.DialAndSendWithContext(ctx, msg)
}
