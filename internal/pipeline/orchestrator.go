package pipeline

import (
	"context"
	"fmt"
	"time"

	"github.com/manchete-hq/manchete-harvester/internal/config"
	"github.com/manchete-hq/manchete-harvester/internal/dedup"
	"github.com/manchete-hq/manchete-harvester/internal/domain"
	"github.com/manchete-hq/manchete-harvester/internal/extract"
	"github.com/manchete-hq/manchete-harvester/internal/filter"
	"github.com/manchete-hq/manchete-harvester/internal/logger"
	"github.com/manchete-hq/manchete-harvester/internal/publish"
	"github.com/manchete-hq/manchete-harvester/internal/sanitize"
	"github.com/manchete-hq/manchete-harvester/internal/slugify"
	"github.com/manchete-hq/manchete-harvester/pkg/events"
)

// Consumer-side views of the pipeline stages, so each can be swapped
// in tests.
type (
	feedReader interface {
		Read(ctx context.Context, feedURL string, maxItems int) ([]domain.CandidateItem, error)
	}
	pageFetcher interface {
		Fetch(ctx context.Context, pageURL, userAgent string) (string, error)
	}
	duplicateChecker interface {
		Check(ctx context.Context, originalURL, slug string) dedup.Status
	}
	articlePublisher interface {
		Publish(ctx context.Context, art domain.Article, slug, feedDate string, featured bool) (publish.Result, string, error)
	}
	eventEmitter interface {
		Emit(ctx context.Context, evt events.ArticleCreated)
	}
)

// Orchestrator drives one source end to end: read the feed, then walk
// each candidate through fetch, extract, sanitize, filter, dedup, and
// publish. Item failures are isolated; only a feed failure aborts the
// cycle.
type Orchestrator struct {
	feeds      feedReader
	fetcher    pageFetcher
	strategies extract.Registry
	sanitizer  *sanitize.Sanitizer
	policy     *filter.TitleFilter
	dedup      duplicateChecker
	publisher  articlePublisher
	emitter    eventEmitter

	defaultDelay time.Duration
	defaultCap   int
	log          logger.Logger
}

// OrchestratorDeps wires the pipeline stages into the orchestrator.
type OrchestratorDeps struct {
	Feeds      feedReader
	Fetcher    pageFetcher
	Strategies extract.Registry
	Sanitizer  *sanitize.Sanitizer
	Policy     *filter.TitleFilter
	Dedup      duplicateChecker
	Publisher  articlePublisher
	Emitter    eventEmitter

	DefaultDelay time.Duration
	DefaultCap   int
	Log          logger.Logger
}

// NewOrchestrator builds the per-source pipeline driver.
func NewOrchestrator(deps OrchestratorDeps) *Orchestrator {
	return &Orchestrator{
		feeds:        deps.Feeds,
		fetcher:      deps.Fetcher,
		strategies:   deps.Strategies,
		sanitizer:    deps.Sanitizer,
		policy:       deps.Policy,
		dedup:        deps.Dedup,
		publisher:    deps.Publisher,
		emitter:      deps.Emitter,
		defaultDelay: deps.DefaultDelay,
		defaultCap:   deps.DefaultCap,
		log:          logger.Ensure(deps.Log),
	}
}

// RunCycle processes one polling cycle for the source. The returned
// error is non-nil only when the cycle aborted before any item ran
// (feed unavailable or unknown strategy).
func (o *Orchestrator) RunCycle(ctx context.Context, src config.Source) (domain.CycleStats, error) {
	var stats domain.CycleStats

	strategy, err := o.strategies.StrategyFor(src.Strategy)
	if err != nil {
		return stats, fmt.Errorf("source %s: %w", src.Name, err)
	}

	items, err := o.feeds.Read(ctx, src.FeedURL, src.Cap(o.defaultCap))
	if err != nil {
		o.log.ErrorObj("cycle aborted, feed unavailable", "cycle_aborted", map[string]any{
			"source": src.Name,
			"error":  err.Error(),
		})
		return stats, err
	}

	delay := src.Delay(o.defaultDelay)
	featuredPending := src.FeaturedFirst

	for i, item := range items {
		if ctx.Err() != nil {
			break
		}
		// politeness toward the portal, not a correctness requirement
		if i > 0 && delay > 0 {
			select {
			case <-ctx.Done():
				return stats, nil
			case <-time.After(delay):
			}
		}

		stats.Seen++
		out := o.processItem(ctx, src, strategy, item, featuredPending)
		if out.Outcome == domain.OutcomeCreated {
			featuredPending = false
		}
		stats.Record(out)

		if out.Outcome == domain.OutcomeSkipped {
			o.log.WarnObj("item skipped", "item_skipped", map[string]any{
				"source": src.Name,
				"url":    out.URL,
				"error":  out.Err.Error(),
			})
		}
	}

	o.log.InfoObj("cycle completed", "cycle_completed", map[string]any{
		"source":     src.Name,
		"seen":       stats.Seen,
		"created":    stats.Created,
		"duplicates": stats.Duplicates,
		"filtered":   stats.Filtered,
		"errors":     stats.Errors,
	})
	return stats, nil
}

// processItem runs one candidate through the pipeline stages and maps
// every failure to an explicit outcome.
func (o *Orchestrator) processItem(ctx context.Context, src config.Source, strategy extract.Strategy, item domain.CandidateItem, featured bool) domain.ItemOutcome {
	html, err := o.fetcher.Fetch(ctx, item.URL, src.UserAgent)
	if err != nil {
		return skipped(item.URL, err)
	}

	ext, err := extract.Run(strategy, html)
	if err != nil {
		return skipped(item.URL, err)
	}

	title := ext.Metadata.Title
	if title == "" {
		title = item.Title
	}

	body, err := o.sanitizer.Sanitize(ext.Body, src.BaseURL)
	if err != nil {
		return skipped(item.URL, err)
	}

	if keyword, rejected := o.policy.Rejects(title); rejected {
		o.log.InfoObj("item filtered by title policy", "item_filtered", map[string]any{
			"source":  src.Name,
			"url":     item.URL,
			"keyword": keyword,
		})
		return domain.ItemOutcome{URL: item.URL, Outcome: domain.OutcomeFiltered}
	}

	slug := slugify.Make(title)
	if slug == "" {
		return skipped(item.URL, domain.ErrExtractionEmpty)
	}

	if o.dedup.Check(ctx, item.URL, slug) == dedup.StatusDuplicate {
		return domain.ItemOutcome{URL: item.URL, Outcome: domain.OutcomeDuplicate}
	}

	art := domain.Article{
		Title:       title,
		Summary:     ext.Metadata.Summary,
		Body:        body,
		HeroImage:   ext.Metadata.HeroImage,
		VideoURL:    ext.Media.VideoURL,
		AudioURL:    ext.Media.AudioURL,
		Embed:       ext.Media.Embed,
		Source:      src.Name,
		Category:    src.Category,
		OriginalURL: item.URL,
	}

	result, id, err := o.publisher.Publish(ctx, art, slug, item.PubDate, featured)
	switch result {
	case publish.ResultCreated:
		if o.emitter != nil {
			o.emitter.Emit(ctx, events.ArticleCreated{
				ID:        id,
				Slug:      slug,
				Title:     title,
				Source:    src.Name,
				Category:  src.Category,
				URL:       item.URL,
				CreatedAt: time.Now().UTC(),
			})
		}
		return domain.ItemOutcome{URL: item.URL, Outcome: domain.OutcomeCreated}
	case publish.ResultDuplicate:
		return domain.ItemOutcome{URL: item.URL, Outcome: domain.OutcomeDuplicate}
	default:
		return skipped(item.URL, err)
	}
}

// skipped builds a skip outcome, guarding against a nil error.
func skipped(url string, err error) domain.ItemOutcome {
	if err == nil {
		err = fmt.Errorf("unknown failure")
	}
	return domain.ItemOutcome{URL: url, Outcome: domain.OutcomeSkipped, Err: err}
}
