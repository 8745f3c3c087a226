package notify

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/cockroachdb/errors"
	jsoniter "github.com/json-iterator/go"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/dvhl/club-portal/internal/domain/notify"
)

type WebhookPublisherConfig struct {
	BaseURL string
	Token   string
	Timeout time.Duration
}

// WebhookPublisher posts notification requests to the club notifier service.
// The notifier owns fan-out and delivery channels; this just hands requests over.
type WebhookPublisher struct {
	client  *http.Client
	baseURL string
	token   string
	logger  *slog.Logger
}

func NewWebhookPublisher(cfg WebhookPublisherConfig, logger *slog.Logger) *WebhookPublisher {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	if logger == nil {
		logger = slog.Default()
	}

	return &WebhookPublisher{
		client: &http.Client{
			Timeout: timeout,
		},
		baseURL: strings.TrimRight(strings.TrimSpace(cfg.BaseURL), "/"),
		token:   strings.TrimSpace(cfg.Token),
		logger:  logger,
	}
}

func (p *WebhookPublisher) Publish(ctx context.Context, req notify.Request) error {
	if strings.TrimSpace(string(req.Kind)) == "" {
		return errors.New("notification kind is required")
	}

	baseURL, err := validateHTTPBaseURL(p.baseURL)
	if err != nil {
		return errors.Wrap(err, "invalid NOTIFIER_BASE_URL")
	}
	publishURL := baseURL + "/v1/notifications"

	body, err := jsoniter.Marshal(webhookPayload{
		Kind:      string(req.Kind),
		SeasonID:  req.SeasonID,
		TeamID:    req.TeamID,
		ActorID:   req.ActorID,
		SubjectID: req.SubjectID,
		Message:   req.Message,
	})
	if err != nil {
		return errors.Wrap(err, "marshal notification payload")
	}

	span := trace.SpanFromContext(ctx)
	if span.IsRecording() {
		span.SetAttributes(
			attribute.String("notify.kind", string(req.Kind)),
			attribute.String("notify.season_id", req.SeasonID),
			attribute.String("notify.publish_url", publishURL),
		)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, publishURL, strings.NewReader(string(body)))
	if err != nil {
		return errors.Wrap(err, "create notifier request")
	}
	httpReq.Header.Set("Content-Type", "application/json")
	if p.token != "" {
		httpReq.Header.Set("Authorization", "Bearer "+p.token)
	}

	resp, err := p.client.Do(httpReq)
	if err != nil {
		return errors.Wrapf(err, "publish notification kind=%s", req.Kind)
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	if resp.StatusCode/100 != 2 {
		raw, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return errors.Newf(
			"publish notification status=%d kind=%s body=%s",
			resp.StatusCode,
			req.Kind,
			strings.TrimSpace(string(raw)),
		)
	}

	p.logger.InfoContext(ctx, "notification published",
		"kind", string(req.Kind),
		"season_id", req.SeasonID,
		"subject_id", req.SubjectID,
	)
	return nil
}

type webhookPayload struct {
	Kind      string `json:"kind"`
	SeasonID  string `json:"season_id"`
	TeamID    string `json:"team_id,omitempty"`
	ActorID   string `json:"actor_id,omitempty"`
	SubjectID string `json:"subject_id,omitempty"`
	Message   string `json:"message,omitempty"`
}

func validateHTTPBaseURL(raw string) (string, error) {
	candidate := strings.TrimSpace(raw)
	if candidate == "" {
		return "", errors.New("value is empty")
	}

	parsed, err := url.Parse(candidate)
	if err != nil {
		return "", errors.Wrapf(err, "parse %q", candidate)
	}
	if parsed.Scheme != "http" && parsed.Scheme != "https" {
		return "", errors.Newf("%q uses unsupported scheme=%q; expected http or https", candidate, parsed.Scheme)
	}
	if strings.TrimSpace(parsed.Host) == "" {
		return "", errors.Newf("%q has empty host", candidate)
	}

	return strings.TrimRight(candidate, "/"), nil
}
