package events

import (
	"context"
	"fmt"
	"time"

	"github.com/go-resty/resty/v2"
)

// httpSink posts events to a generic webhook endpoint.
type httpSink struct {
	id     string
	url    string
	method string
	client *resty.Client
	log    Logger
}

// newHTTPSink builds a webhook sink from the config entry.
func newHTTPSink(_ context.Context, cfg SinkConfig, log Logger) (Sink, error) {
	if cfg.HTTP == nil {
		return nil, fmt.Errorf("sink %q missing http configuration", cfg.ID)
	}

	client := resty.New().
		SetTimeout(time.Duration(cfg.HTTP.TimeoutSeconds) * time.Second).
		SetHeader("Content-Type", "application/json")
	for k, v := range cfg.HTTP.Headers {
		client.SetHeader(k, v)
	}

	return &httpSink{
		id:     cfg.ID,
		url:    cfg.HTTP.URL,
		method: cfg.HTTP.Method,
		client: client,
		log:    ensureLogger(log),
	}, nil
}

func (s *httpSink) ID() string   { return s.id }
func (s *httpSink) Type() string { return TypeHTTP }

// Publish delivers the event as a JSON request body.
func (s *httpSink) Publish(ctx context.Context, evt ArticleCreated) error {
	resp, err := s.client.R().
		SetContext(ctx).
		SetBody(evt).
		Execute(s.method, s.url)
	if err != nil {
		return fmt.Errorf("post event: %w", err)
	}
	if resp.StatusCode() < 200 || resp.StatusCode() > 299 {
		return fmt.Errorf("event endpoint returned status %d", resp.StatusCode())
	}

	s.log.DebugObj("http sink delivered event", "event_http_delivery", map[string]any{
		"status": resp.StatusCode(),
	})
	return nil
}
