package feed

import (
	"context"
	"fmt"
	"html"
	"regexp"
	"strings"

	"github.com/mmcdole/gofeed"

	"github.com/manchete-hq/manchete-harvester/internal/domain"
	"github.com/manchete-hq/manchete-harvester/internal/logger"
	"github.com/manchete-hq/manchete-harvester/pkg/httpclient"
)

// Reader retrieves an RSS feed and turns it into capped candidate
// items, in feed order.
type Reader struct {
	client httpclient.Client
	log    logger.Logger
}

// NewReader builds a feed reader over the given HTTP client.
func NewReader(client httpclient.Client, log logger.Logger) *Reader {
	return &Reader{client: client, log: logger.Ensure(log)}
}

// Read fetches and parses the feed, returning at most maxItems
// candidates. A retrieval failure wraps domain.ErrFeedUnavailable so
// the orchestrator can abort just this source's cycle.
func (r *Reader) Read(ctx context.Context, feedURL string, maxItems int) ([]domain.CandidateItem, error) {
	resp, err := r.client.Get(ctx, feedURL, map[string]string{
		"Accept": "application/rss+xml, application/xml, text/xml",
	})
	if err != nil {
		return nil, fmt.Errorf("%w: fetch %s: %v", domain.ErrFeedUnavailable, feedURL, err)
	}
	if resp.StatusCode() < 200 || resp.StatusCode() > 299 {
		return nil, fmt.Errorf("%w: %s returned status %d", domain.ErrFeedUnavailable, feedURL, resp.StatusCode())
	}

	body := string(resp.Body())

	items, err := parseStrict(body)
	if err != nil {
		r.log.WarnObj("feed is not strict XML, using tolerant extraction", "feed_fallback", map[string]any{
			"feed_url": feedURL,
			"error":    err.Error(),
		})
		items = parseTolerant(body)
	}

	if maxItems > 0 && len(items) > maxItems {
		items = items[:maxItems]
	}
	return items, nil
}

// parseStrict decodes the feed with gofeed.
func parseStrict(body string) ([]domain.CandidateItem, error) {
	parsed, err := gofeed.NewParser().ParseString(body)
	if err != nil {
		return nil, fmt.Errorf("parse feed: %w", err)
	}

	items := make([]domain.CandidateItem, 0, len(parsed.Items))
	for _, it := range parsed.Items {
		link := strings.TrimSpace(it.Link)
		if link == "" {
			continue
		}
		items = append(items, domain.CandidateItem{
			URL:     link,
			Title:   strings.TrimSpace(it.Title),
			PubDate: strings.TrimSpace(it.Published),
		})
	}
	return items, nil
}

var (
	itemRe    = regexp.MustCompile(`(?is)<item[\s>].*?</item>`)
	linkRe    = regexp.MustCompile(`(?is)<link[^>]*>(.*?)</link>`)
	titleRe   = regexp.MustCompile(`(?is)<title[^>]*>(.*?)</title>`)
	pubDateRe = regexp.MustCompile(`(?is)<pubDate[^>]*>(.*?)</pubDate>`)
	cdataRe   = regexp.MustCompile(`(?is)^\s*<!\[CDATA\[(.*?)\]\]>\s*$`)
)

// parseTolerant extracts items at the regex level for feeds that are
// not well-formed XML. Link, title, and date are pulled independently;
// a missing date never drops the item.
func parseTolerant(body string) []domain.CandidateItem {
	blocks := itemRe.FindAllString(body, -1)
	items := make([]domain.CandidateItem, 0, len(blocks))
	for _, block := range blocks {
		link := firstGroup(linkRe, block)
		if link == "" {
			continue
		}
		items = append(items, domain.CandidateItem{
			URL:     link,
			Title:   firstGroup(titleRe, block),
			PubDate: firstGroup(pubDateRe, block),
		})
	}
	return items
}

// firstGroup returns the first capture of re in s, with CDATA wrappers
// and entities resolved.
func firstGroup(re *regexp.Regexp, s string) string {
	m := re.FindStringSubmatch(s)
	if len(m) < 2 {
		return ""
	}
	val := strings.TrimSpace(m[1])
	if cd := cdataRe.FindStringSubmatch(val); len(cd) == 2 {
		val = strings.TrimSpace(cd[1])
	}
	return strings.TrimSpace(html.UnescapeString(val))
}
