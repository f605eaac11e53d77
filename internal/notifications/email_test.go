package notifications

import (
	"bytes"
	"context"
	"errors"
	"testing"
	"time"

	"ferryman/internal/config"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/wneessen/go-mail"
)

func createEmailConfig(enabled bool) *config.Config {
	return &config.Config{
		Notifications: config.NotificationsConfig{
			Email: config.EmailConfig{
				Enabled: enabled,
				Host:    "smtp.example.com",
				Port:    587,
				From:    "ferryman@example.com",
				To:      []string{"ops@example.com", "backup@example.com"},
				TLS:     "starttls",
			},
		},
	}
}

// captureEmail swaps the SMTP delivery of n for one that records messages.
func captureEmail(n *EmailNotifier) *[]*mail.Msg {
	var sent []*mail.Msg
	n.send = func(_ context.Context, msg *mail.Msg) error {
		sent = append(sent, msg)
		return nil
	}
	n.now = func() time.Time { return time.Date(2024, 3, 8, 6, 30, 0, 0, time.UTC) }
	return &sent
}

func TestEmailNotify_BuildsMessage(t *testing.T) {
	notifier := NewEmailNotifier(createEmailConfig(true))
	sent := captureEmail(notifier)

	err := notifier.Notify(context.Background(), `Job "nightly" failed`, "Job \"nightly\" has failed.\n\nError: timeout", false)

	require.NoError(t, err)
	require.Len(t, *sent, 1)
	msg := (*sent)[0]

	assert.Equal(t, []string{`Job "nightly" failed`}, msg.GetGenHeader(mail.HeaderSubject))
	assert.Len(t, msg.GetToString(), 2)

	var buf bytes.Buffer
	_, err = msg.WriteTo(&buf)
	require.NoError(t, err)
	assert.Contains(t, buf.String(), "Error: timeout")
	assert.Contains(t, buf.String(), "---")
	assert.Contains(t, buf.String(), "Timestamp: 2024-03-08 06:30:00")
}

func TestEmailNotify_Disabled(t *testing.T) {
	notifier := NewEmailNotifier(createEmailConfig(false))
	sent := captureEmail(notifier)

	require.NoError(t, notifier.Notify(context.Background(), "s", "b", true))
	assert.Empty(t, *sent)
}

func TestEmailNotify_InvalidSender(t *testing.T) {
	cfg := createEmailConfig(true)
	cfg.Notifications.Email.From = "not an address"
	notifier := NewEmailNotifier(cfg)
	sent := captureEmail(notifier)

	err := notifier.Notify(context.Background(), "s", "b", true)

	assert.Error(t, err)
	assert.Contains(t, err.Error(), "invalid sender address")
	assert.Empty(t, *sent)
}

func TestEmailNotify_SendFailure(t *testing.T) {
	notifier := NewEmailNotifier(createEmailConfig(true))
	notifier.send = func(context.Context, *mail.Msg) error {
		return errors.New("dial tcp: connection refused")
	}

	err := notifier.Notify(context.Background(), "s", "b", false)

	assert.Error(t, err)
	assert.Contains(t, err.Error(), "failed to send email notification")
	assert.Contains(t, err.Error(), "connection refused")
}
