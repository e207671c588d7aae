// Package webhook delivers workflow events to an external webhook endpoint
// over the instrumented HTTP client. Delivery is best-effort: failures are
// logged and never surfaced to the caller.
package webhook

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"net/http"

	"taskdesk/internal/platform/httpclient"
	"taskdesk/internal/ports"
)

const eventsPath = "/events"

// Notifier posts workflow events as JSON to the configured webhook endpoint.
type Notifier struct {
	client *httpclient.Client
	logger *slog.Logger
}

var _ ports.Notifier = (*Notifier)(nil)

// NewNotifier creates a Notifier that delivers events through client.
func NewNotifier(client *httpclient.Client, logger *slog.Logger) *Notifier {
	return &Notifier{client: client, logger: logger}
}

func (n *Notifier) Notify(ctx context.Context, event ports.Event) {
	body, err := json.Marshal(event)
	if err != nil {
		n.logger.Error("encoding webhook event",
			slog.String("event_type", event.Type),
			slog.Any("error", err),
		)
		return
	}

	url := n.client.BaseURL() + eventsPath
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		n.logger.Error("building webhook request",
			slog.String("event_type", event.Type),
			slog.Any("error", err),
		)
		return
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := n.client.Do(ctx, req)
	if resp != nil {
		resp.Body.Close()
	}
	if err != nil {
		n.logger.Warn("webhook delivery failed",
			slog.String("event_type", event.Type),
			slog.String("entity_id", event.EntityID),
			slog.Any("error", err),
		)
		return
	}

	n.logger.Debug("webhook delivered",
		slog.String("event_type", event.Type),
		slog.String("entity_id", event.EntityID),
		slog.Int("status", resp.StatusCode),
	)
}

// LogNotifier records events in the service log only. It is used when the
// webhook integration is disabled.
type LogNotifier struct {
	logger *slog.Logger
}

var _ ports.Notifier = (*LogNotifier)(nil)

// NewLogNotifier creates a LogNotifier writing to logger.
func NewLogNotifier(logger *slog.Logger) *LogNotifier {
	return &LogNotifier{logger: logger}
}

func (n *LogNotifier) Notify(_ context.Context, event ports.Event) {
	n.logger.Info("workflow event",
		slog.String("event_type", event.Type),
		slog.String("entity_kind", event.EntityKind),
		slog.String("entity_id", event.EntityID),
		slog.String("actor", event.Actor),
	)
}
