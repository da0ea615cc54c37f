package extract

import (
	"fmt"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/manchete-hq/manchete-harvester/internal/domain"
)

const (
	// minBodyChars is the text length below which the selector-based
	// body is considered incomplete and the paragraph fallback kicks in.
	minBodyChars = 300

	maxSummaryChars = 300
)

// Extraction is the raw result of running a strategy over a page,
// before sanitization.
type Extraction struct {
	Metadata domain.Metadata
	Body     string // unsanitized HTML fragment
	Media    Media
}

// Run applies the strategy to the decoded HTML. Malformed markup never
// errors here; a page yielding neither title nor body is reported as
// domain.ErrExtractionEmpty.
func Run(strategy Strategy, html string) (Extraction, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return Extraction{}, fmt.Errorf("parse html: %w", err)
	}

	ext := Extraction{
		Metadata: strategy.Metadata(doc),
		Body:     selectBody(doc, strategy.BodySelectors()),
		Media:    strategy.Media(doc),
	}
	ext.Metadata.Summary = truncate(ext.Metadata.Summary, maxSummaryChars)

	if ext.Metadata.Title == "" && strings.TrimSpace(ext.Body) == "" {
		return Extraction{}, domain.ErrExtractionEmpty
	}
	return ext, nil
}

// selectBody evaluates the selectors in order and keeps the longest
// fragment seen: later, less specific selectors sometimes match more
// complete regions than the dedicated article class. Too-short winners
// give way to the whole-document paragraph fallback.
func selectBody(doc *goquery.Document, selectors []string) string {
	var best string
	var bestLen int

	for _, selector := range selectors {
		sel := doc.Find(selector).First()
		if sel.Length() == 0 {
			continue
		}
		if textLen := len(strings.TrimSpace(sel.Text())); textLen > bestLen {
			if fragment, err := goquery.OuterHtml(sel); err == nil {
				best = fragment
				bestLen = textLen
			}
		}
	}

	if bestLen >= minBodyChars {
		return best
	}

	if fallback := fallbackBody(doc); len(strings.TrimSpace(fallback)) > 0 {
		return fallback
	}
	return best
}

// fallbackBody concatenates every content-bearing block element in
// document order.
func fallbackBody(doc *goquery.Document) string {
	var b strings.Builder
	doc.Find("p, h2, h3, h4, li, blockquote").Each(func(_ int, sel *goquery.Selection) {
		if strings.TrimSpace(sel.Text()) == "" {
			return
		}
		if fragment, err := goquery.OuterHtml(sel); err == nil {
			b.WriteString(fragment)
		}
	})
	return b.String()
}

// metaContent returns the trimmed content attribute of the first node
// matching the selector.
func metaContent(doc *goquery.Document, selector string) string {
	if node := doc.Find(selector).First(); node.Length() > 0 {
		if val, ok := node.Attr("content"); ok {
			return strings.TrimSpace(val)
		}
	}
	return ""
}

// openGraphMetadata extracts og: metadata with heading/empty fallbacks.
func openGraphMetadata(doc *goquery.Document) domain.Metadata {
	return domain.Metadata{
		Title: firstNonEmpty(
			metaContent(doc, `meta[property="og:title"]`),
			strings.TrimSpace(doc.Find("h1").First().Text()),
			strings.TrimSpace(doc.Find("title").First().Text()),
		),
		Summary: firstNonEmpty(
			metaContent(doc, `meta[property="og:description"]`),
			metaContent(doc, `meta[name="description"]`),
		),
		HeroImage: metaContent(doc, `meta[property="og:image"]`),
	}
}

// firstNonEmpty returns the first non-empty string from the given values.
func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if strings.TrimSpace(v) != "" {
			return strings.TrimSpace(v)
		}
	}
	return ""
}

// truncate caps s at max runes without splitting a rune, appending an
// ellipsis when something was cut.
func truncate(s string, max int) string {
	s = strings.TrimSpace(s)
	runes := []rune(s)
	if len(runes) <= max {
		return s
	}
	return strings.TrimSpace(string(runes[:max-1])) + "…"
}
