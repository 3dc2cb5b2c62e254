package publishers

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/samvad-hq/samvad-bulletin/pkg/bulletin"
	"github.com/samvad-hq/samvad-bulletin/pkg/httpclient"
)

// httpPublisher posts events to a webhook, either as the JSON event or as
// the bare announcement line.
type httpPublisher struct {
	id      string
	method  string
	url     string
	format  string
	headers map[string]string
	client  httpclient.Sender
	log     Logger
}

func newHTTPPublisher(_ context.Context, cfg PublisherConfig, log Logger) (Publisher, error) {
	if cfg.HTTP == nil {
		return nil, fmt.Errorf("publisher %q missing http configuration", cfg.ID)
	}

	headers := make(map[string]string, len(cfg.HTTP.Headers)+1)
	for k, v := range cfg.HTTP.Headers {
		headers[k] = v
	}
	if cfg.HTTP.Format == httpFormatText {
		setHeader(headers, "Content-Type", "text/plain; charset=utf-8")
	}

	return &httpPublisher{
		id:      cfg.ID,
		method:  cfg.HTTP.Method,
		url:     cfg.HTTP.URL,
		format:  cfg.HTTP.Format,
		headers: headers,
		client:  httpclient.NewRestyClient(time.Duration(cfg.HTTP.TimeoutSeconds) * time.Second),
		log:     ensureLogger(log),
	}, nil
}

func (h *httpPublisher) ID() string   { return h.id }
func (h *httpPublisher) Type() string { return TypeHTTP }

func (h *httpPublisher) Publish(ctx context.Context, evt Event) error {
	var body any = evt
	if h.format == httpFormatText {
		body = bulletin.Line(evt) + "\n"
	}

	resp, err := h.client.Send(ctx, h.method, h.url, h.headers, body)
	if err != nil {
		return fmt.Errorf("http request: %w", err)
	}
	if code := resp.StatusCode(); code < 200 || code > 299 {
		return fmt.Errorf("http response status %d: %s", code, readBodySnippet(resp.Body()))
	}
	h.log.DebugObj("http publisher delivered event", "publisher_http_delivery", map[string]any{
		"publisher_id": h.id,
		"event_id":     evt.ID,
		"format":       h.format,
	})
	return nil
}

// setHeader replaces every case variant of name so only one value is sent.
func setHeader(headers map[string]string, name, value string) {
	for k := range headers {
		if strings.EqualFold(k, name) {
			delete(headers, k)
		}
	}
	headers[name] = value
}

func readBodySnippet(body []byte) string {
	if len(body) > 512 {
		body = body[:512]
	}
	return strings.TrimSpace(string(body))
}
