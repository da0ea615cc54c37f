package dedup

import (
	"context"

	"github.com/manchete-hq/manchete-harvester/internal/logger"
	"github.com/manchete-hq/manchete-harvester/internal/store"
)

// Status is the outcome of a duplicate check.
type Status string

const (
	StatusNew       Status = "new"
	StatusDuplicate Status = "duplicate"
)

// storeQuerier is the slice of the store client the deduplicator needs.
type storeQuerier interface {
	CountByField(ctx context.Context, field, value string) (int, error)
}

// seenCache is the optional local cache probed before the store.
type seenCache interface {
	Has(url, slug string) (bool, error)
}

// Deduplicator decides whether a candidate was published before. It
// checks the original URL first and the generated slug second: two
// different source URLs can legitimately collapse to the same slug,
// and the slug probe is the safety net against that collision.
type Deduplicator struct {
	store storeQuerier
	cache seenCache
	log   logger.Logger
}

// New builds a deduplicator. cache may be nil.
func New(querier storeQuerier, cache seenCache, log logger.Logger) *Deduplicator {
	return &Deduplicator{store: querier, cache: cache, log: logger.Ensure(log)}
}

// Check classifies the candidate as new or duplicate. A store lookup
// failure is treated conservatively as new: a possible future
// duplicate beats silently dropping every item of the cycle.
func (d *Deduplicator) Check(ctx context.Context, originalURL, slug string) Status {
	if d.cache != nil {
		if hit, err := d.cache.Has(originalURL, slug); err == nil && hit {
			return StatusDuplicate
		}
	}

	if status, ok := d.query(ctx, store.FieldOriginalURL, originalURL); ok {
		if status == StatusDuplicate {
			return StatusDuplicate
		}
	} else {
		return StatusNew
	}

	if status, ok := d.query(ctx, store.FieldSlug, slug); ok {
		return status
	}
	return StatusNew
}

// query runs one filtered count; ok is false when the store was
// unreachable.
func (d *Deduplicator) query(ctx context.Context, field, value string) (Status, bool) {
	if value == "" {
		return StatusNew, true
	}

	count, err := d.store.CountByField(ctx, field, value)
	if err != nil {
		d.log.WarnObj("duplicate lookup failed, treating item as new", "dedup_lookup_error", map[string]any{
			"field": field,
			"value": value,
			"error": err.Error(),
		})
		return StatusNew, false
	}
	if count > 0 {
		return StatusDuplicate, true
	}
	return StatusNew, true
}
