// Package events fans out article-created notifications to external
// systems (queues, webhooks) so that push delivery, search indexing,
// and similar consumers can react without the pipeline knowing about
// them. Delivery is best-effort and never affects pipeline outcomes.
package events

import (
	"context"
	"time"
)

// ArticleCreated is the integration event emitted after a successful
// store create.
type ArticleCreated struct {
	ID        string    `json:"id"`
	Slug      string    `json:"slug"`
	Title     string    `json:"title"`
	Source    string    `json:"source"`
	Category  string    `json:"category"`
	URL       string    `json:"url"`
	CreatedAt time.Time `json:"createdAt"`
}

// Sink delivers events to one configured destination.
type Sink interface {
	ID() string
	Type() string
	Publish(ctx context.Context, evt ArticleCreated) error
}

// Logger is the minimal structured logger the sinks need. It matches
// the harvester's logger facade structurally.
type Logger interface {
	DebugObj(msg, event string, fields map[string]any)
	InfoObj(msg, event string, fields map[string]any)
	WarnObj(msg, event string, fields map[string]any)
	ErrorObj(msg, event string, fields map[string]any)
}

// nopLogger discards everything.
type nopLogger struct{}

func (nopLogger) DebugObj(string, string, map[string]any) {}
func (nopLogger) InfoObj(string, string, map[string]any)  {}
func (nopLogger) WarnObj(string, string, map[string]any)  {}
func (nopLogger) ErrorObj(string, string, map[string]any) {}

// ensureLogger returns log or a no-op fallback.
func ensureLogger(log Logger) Logger {
	if log == nil {
		return nopLogger{}
	}
	return log
}

// Fanout dispatches one event to every sink, logging failures instead
// of propagating them.
type Fanout struct {
	sinks []Sink
	log   Logger
}

// NewFanout builds a dispatcher over the given sinks.
func NewFanout(sinks []Sink, log Logger) *Fanout {
	return &Fanout{sinks: sinks, log: ensureLogger(log)}
}

// Emit delivers the event to all sinks. Sink errors are logged and
// swallowed: a broken queue must never fail a published article.
func (f *Fanout) Emit(ctx context.Context, evt ArticleCreated) {
	if f == nil {
		return
	}
	for _, sink := range f.sinks {
		if err := sink.Publish(ctx, evt); err != nil {
			f.log.ErrorObj("event sink delivery failed", "event_sink_error", map[string]any{
				"sink_id":   sink.ID(),
				"sink_type": sink.Type(),
				"slug":      evt.Slug,
				"error":     err.Error(),
			})
			continue
		}
		f.log.DebugObj("event delivered", "event_sink_delivery", map[string]any{
			"sink_id": sink.ID(),
			"slug":    evt.Slug,
		})
	}
}
