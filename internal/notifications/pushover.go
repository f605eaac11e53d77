package notifications

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"ferryman/internal/config"
)

const (
	pushoverAPIURL = "https://api.pushover.net/1/messages.json"

	priorityLow       = -1
	priorityEmergency = 2
)

// PushoverNotifier sends run outcomes and service alerts to the Pushover
// messages API.
type PushoverNotifier struct {
	config     *config.Config
	httpClient *http.Client
	enabled    bool
	apiURL     string
}

type pushoverRequest struct {
	Token     string `json:"token"`
	User      string `json:"user"`
	Message   string `json:"message"`
	Title     string `json:"title,omitempty"`
	Priority  int    `json:"priority,omitempty"`
	Timestamp int64  `json:"timestamp,omitempty"`
	Sound     string `json:"sound,omitempty"`
	Retry     int    `json:"retry,omitempty"`
	Expire    int    `json:"expire,omitempty"`
}

type pushoverResponse struct {
	Status  int      `json:"status"`
	Request string   `json:"request"`
	Errors  []string `json:"errors,omitempty"`
	Receipt string   `json:"receipt,omitempty"`
}

func NewPushoverNotifier(cfg *config.Config) *PushoverNotifier {
	return &PushoverNotifier{
		config:     cfg,
		httpClient: &http.Client{Timeout: 30 * time.Second},
		enabled:    cfg.GetNotifications().Pushover.Enabled,
		apiURL:     pushoverAPIURL,
	}
}

func (p *PushoverNotifier) IsEnabled() bool {
	return p.enabled
}

// Notify pushes a job outcome. A failure goes out at the configured
// priority, a success silently at low priority.
func (p *PushoverNotifier) Notify(ctx context.Context, subject, body string, success bool) error {
	if !p.enabled {
		return nil
	}

	if success {
		req := p.message(subject, body, priorityLow)
		req.Sound = "none"
		return p.sendNotification(ctx, req)
	}

	req := p.message(subject, body, p.config.GetNotifications().Pushover.Priority)
	req.Sound = "falling"
	return p.sendNotification(ctx, req)
}

// NotifySystemAlert reports a problem that is not tied to a single job
// run, such as a drive that failed to mount at startup.
func (p *PushoverNotifier) NotifySystemAlert(ctx context.Context, title, message string, priority int) error {
	if !p.enabled {
		return nil
	}

	req := p.message("Ferryman Alert: "+title, message, priority)
	req.Sound = alertSound(priority)
	return p.sendNotification(ctx, req)
}

// message fills in credentials and the fields emergency priority requires.
func (p *PushoverNotifier) message(title, body string, priority int) pushoverRequest {
	cfg := p.config.GetNotifications().Pushover

	req := pushoverRequest{
		Token:     cfg.Token,
		User:      cfg.User,
		Title:     title,
		Message:   body,
		Priority:  priority,
		Timestamp: time.Now().Unix(),
	}
	if priority == priorityEmergency {
		req.Retry = int(cfg.RetryInterval.Seconds())
		req.Expire = int(cfg.ExpireTime.Seconds())
	}
	return req
}

func alertSound(priority int) string {
	switch {
	case priority < 0:
		return "none"
	case priority == 1:
		return "persistent"
	case priority >= priorityEmergency:
		return "siren"
	}
	return "pushover"
}

func (p *PushoverNotifier) sendNotification(ctx context.Context, req pushoverRequest) error {
	payload, err := json.Marshal(req)
	if err != nil {
		return fmt.Errorf("failed to marshal pushover request: %w", err)
	}

	ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, p.apiURL, bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("failed to create HTTP request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("User-Agent", "ferryman/1.0")

	slog.Debug("sending pushover notification", "title", req.Title, "priority", req.Priority)

	resp, err := p.httpClient.Do(httpReq)
	if err != nil {
		return fmt.Errorf("failed to send pushover notification: %w", err)
	}
	defer resp.Body.Close()

	var result pushoverResponse
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		if resp.StatusCode >= http.StatusBadRequest {
			return fmt.Errorf("pushover returned HTTP %d", resp.StatusCode)
		}
		return fmt.Errorf("failed to decode pushover response: %w", err)
	}
	if result.Status != 1 {
		return fmt.Errorf("pushover API error: %s", strings.Join(result.Errors, ", "))
	}

	slog.Info("pushover notification sent", "request_id", result.Request, "receipt", result.Receipt)
	return nil
}
