package forwarders

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/kova98/articleanalyzer.api/metrics"
	"github.com/kova98/articleanalyzer.api/models"
	"github.com/pkg/errors"
)

// Webhook posts submissions to an external automation endpoint.
// Delivery is best effort: one attempt, failures are logged and dropped.
type Webhook struct {
	logger     *slog.Logger
	httpClient *http.Client
	metrics    *metrics.Metrics
	url        string
	timeout    time.Duration
}

func NewWebhook(logger *slog.Logger, httpClient *http.Client, m *metrics.Metrics, url string, timeout time.Duration) *Webhook {
	return &Webhook{
		logger:     logger,
		httpClient: httpClient,
		metrics:    m,
		url:        url,
		timeout:    timeout,
	}
}

// Dispatch forwards the payload on its own goroutine and returns immediately.
// The goroutine is not bound to any request context.
func (w *Webhook) Dispatch(payload models.ForwardPayload) {
	go func() {
		started := time.Now()
		defer func() {
			if r := recover(); r != nil {
				w.metrics.ObserveForward(started, errors.Errorf("forward: panic: %v", r))
				w.logger.Error("forward panicked", "session_id", payload.SessionID, "panic", r)
			}
		}()
		_ = w.Forward(context.Background(), payload)
	}()
}

func (w *Webhook) Forward(ctx context.Context, payload models.ForwardPayload) error {
	started := time.Now()
	err := w.post(ctx, payload)
	w.metrics.ObserveForward(started, err)

	if err != nil {
		w.logger.Error("background forwarding error", "session_id", payload.SessionID, "error", err)
		return err
	}

	w.logger.Info("forwarded submission", "session_id", payload.SessionID, "email", payload.Email, "article_url", payload.ArticleURL)
	return nil
}

func (w *Webhook) post(ctx context.Context, payload models.ForwardPayload) error {
	ctx, cancel := context.WithTimeout(ctx, w.timeout)
	defer cancel()

	body, err := json.Marshal(payload)
	if err != nil {
		return errors.Wrap(err, "forward: encode payload")
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, w.url, bytes.NewReader(body))
	if err != nil {
		return errors.Wrap(err, "forward: create request")
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := w.httpClient.Do(req)
	if err != nil {
		return errors.Wrap(err, "forward: post to webhook")
	}
	defer resp.Body.Close()

	// Drain so the connection can be reused; the body itself is ignored.
	_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, 64<<10))

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return errors.Errorf("forward: webhook responded %s", resp.Status)
	}
	return nil
}
