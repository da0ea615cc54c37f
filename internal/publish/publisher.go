package publish

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/manchete-hq/manchete-harvester/internal/domain"
	"github.com/manchete-hq/manchete-harvester/internal/logger"
)

// Result classifies one create attempt.
type Result string

const (
	ResultCreated   Result = "created"
	ResultDuplicate Result = "duplicate"
	ResultFailed    Result = "failed"
)

// storeCreator is the slice of the store client the publisher needs.
type storeCreator interface {
	Create(ctx context.Context, rec domain.PublishedRecord) (string, error)
}

// seenRecorder records successful publishes in the local cache.
type seenRecorder interface {
	Add(url, slug string) error
}

// Publisher performs the single idempotent create against the content
// store. Duplicate rejections from the store's own uniqueness
// constraint are a normal outcome, not an error.
type Publisher struct {
	store  storeCreator
	seen   seenRecorder
	author string
	log    logger.Logger
}

// New builds a publisher. seen may be nil.
func New(store storeCreator, seen seenRecorder, author string, log logger.Logger) *Publisher {
	return &Publisher{store: store, seen: seen, author: author, log: logger.Ensure(log)}
}

// Publish creates the record for an article already classified as new
// and returns the store-generated identifier. The publish timestamp
// comes from the feed date when it parses, else from the clock. A
// failed create is not retried within the cycle.
func (p *Publisher) Publish(ctx context.Context, art domain.Article, slug, feedDate string, featured bool) (Result, string, error) {
	rec := domain.PublishedRecord{
		Title:       art.Title,
		Slug:        slug,
		Summary:     art.Summary,
		Body:        art.Body,
		HeroImage:   art.HeroImage,
		VideoURL:    art.VideoURL,
		AudioURL:    art.AudioURL,
		Embed:       art.Embed,
		OriginalURL: art.OriginalURL,
		Source:      art.Source,
		Category:    art.Category,
		Author:      p.author,
		Status:      domain.StatusPublished,
		Featured:    featured,
		PublishedAt: parseFeedDate(feedDate),
	}

	id, err := p.store.Create(ctx, rec)
	if err != nil {
		if errors.Is(err, domain.ErrDuplicate) {
			return ResultDuplicate, "", nil
		}
		return ResultFailed, "", &domain.PublishError{Cause: err}
	}

	if p.seen != nil {
		if err := p.seen.Add(art.OriginalURL, slug); err != nil {
			p.log.WarnObj("seen cache write failed", "seen_cache_error", map[string]any{
				"url":   art.OriginalURL,
				"error": err.Error(),
			})
		}
	}

	p.log.InfoObj("article created", "article_created", map[string]any{
		"id":     id,
		"slug":   slug,
		"source": art.Source,
		"url":    art.OriginalURL,
	})
	return ResultCreated, id, nil
}

// feedDateLayouts are the date shapes seen across the portals' feeds.
var feedDateLayouts = []string{
	time.RFC1123Z,
	time.RFC1123,
	time.RFC822Z,
	time.RFC822,
	time.RFC3339,
	"2006-01-02 15:04:05",
}

// parseFeedDate parses the raw feed date, falling back to now.
func parseFeedDate(raw string) time.Time {
	raw = strings.TrimSpace(raw)
	if raw != "" {
		for _, layout := range feedDateLayouts {
			if t, err := time.Parse(layout, raw); err == nil {
				return t
			}
		}
	}
	return time.Now()
}
