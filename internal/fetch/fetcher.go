package fetch

import (
	"context"

	"github.com/manchete-hq/manchete-harvester/internal/domain"
	"github.com/manchete-hq/manchete-harvester/internal/logger"
	"github.com/manchete-hq/manchete-harvester/pkg/httpclient"
)

const (
	maxHTMLBodyBytes = 1 << 20 // 1 MiB

	// Some portals reject default library clients outright, so the
	// fetcher always presents itself as a desktop browser.
	defaultUserAgent = "Mozilla/5.0 (X11; Linux x86_64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/126.0.0.0 Safari/537.36"
)

// Fetcher retrieves a candidate page and returns its HTML decoded to
// UTF-8, resolving the declared character encoding along the way.
type Fetcher struct {
	client httpclient.Client
	log    logger.Logger
}

// NewFetcher builds a page fetcher over the given HTTP client.
func NewFetcher(client httpclient.Client, log logger.Logger) *Fetcher {
	return &Fetcher{client: client, log: logger.Ensure(log)}
}

// Fetch retrieves pageURL and returns the decoded document. userAgent
// overrides the browser default when non-empty. Failures come back as
// *domain.FetchError, which the orchestrator treats as a per-item skip.
func (f *Fetcher) Fetch(ctx context.Context, pageURL, userAgent string) (string, error) {
	if userAgent == "" {
		userAgent = defaultUserAgent
	}

	resp, err := f.client.Get(ctx, pageURL, map[string]string{
		"User-Agent":      userAgent,
		"Accept":          "text/html,application/xhtml+xml",
		"Accept-Language": "pt-BR,pt;q=0.9,en;q=0.5",
	})
	if err != nil {
		return "", &domain.FetchError{Cause: err}
	}
	if resp.StatusCode() < 200 || resp.StatusCode() > 299 {
		return "", &domain.FetchError{Status: resp.StatusCode()}
	}

	body := resp.Body()
	if len(body) > maxHTMLBodyBytes {
		f.log.DebugObj("html body truncated", "fetch_truncation", map[string]any{
			"url":      pageURL,
			"original": len(body),
			"kept":     maxHTMLBodyBytes,
		})
		body = body[:maxHTMLBodyBytes]
	}

	decoded, encName := decodeBody(body, resp.Header("Content-Type"))
	if encName != "utf-8" {
		f.log.DebugObj("decoded non-utf8 page", "fetch_decoded", map[string]any{
			"url":     pageURL,
			"charset": encName,
		})
	}
	return decoded, nil
}
