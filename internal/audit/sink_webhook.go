package audit

import (
	"context"
	"fmt"
	"net/url"
	"strings"

	"github.com/go-resty/resty/v2"

	"github.com/MKhiriev/marketplace-auth/internal/config"
	"github.com/MKhiriev/marketplace-auth/internal/logger"
	"github.com/MKhiriev/marketplace-auth/models"
)

// WebhookSink POSTs each audit event as JSON to an external security-report
// collector. Delivery failures are logged and swallowed: the collector being
// down must never surface as an authentication error.
type WebhookSink struct {
	client *resty.Client
	url    string
	logger *logger.Logger
}

// NewWebhookSink constructs a [WebhookSink] from the audit configuration.
// Returns an error if the webhook URL is empty or cannot be parsed.
func NewWebhookSink(cfg config.Audit, log *logger.Logger) (*WebhookSink, error) {
	endpoint, err := normalizeWebhookURL(cfg.WebhookURL)
	if err != nil {
		return nil, fmt.Errorf("invalid audit webhook url: %w", err)
	}

	client := resty.New().
		SetTimeout(cfg.WebhookTimeout)

	return &WebhookSink{client: client, url: endpoint, logger: log}, nil
}

func normalizeWebhookURL(raw string) (string, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return "", fmt.Errorf("empty address")
	}

	if !strings.Contains(raw, "://") {
		raw = "http://" + raw
	}

	u, err := url.Parse(raw)
	if err != nil {
		return "", err
	}
	if u.Scheme == "" || u.Host == "" {
		return "", fmt.Errorf("address must include host and scheme")
	}

	return u.String(), nil
}

// Emit implements [Sink]. It delivers the event with a bounded timeout and
// logs, rather than returns, any delivery failure.
func (s *WebhookSink) Emit(ctx context.Context, event models.AuditEvent) {
	resp, err := s.client.R().
		SetContext(ctx).
		SetHeader("Content-Type", "application/json").
		SetBody(event).
		Post(s.url)
	if err != nil {
		s.logger.Warn().Err(err).Str("url", s.url).Msg("audit webhook delivery failed")
		return
	}
	if resp.IsError() {
		s.logger.Warn().Int("status", resp.StatusCode()).Str("url", s.url).Msg("audit webhook rejected event")
	}
}
