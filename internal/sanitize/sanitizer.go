package sanitize

import (
	"fmt"
	"net/url"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/net/html"

	"github.com/manchete-hq/manchete-harvester/internal/extract"
)

// Sanitizer turns a raw extracted body fragment into a clean,
// embeddable markup block: boilerplate removed, URLs absolute, media
// embeds normalized. Each pass is idempotent.
type Sanitizer struct {
	rules []rule
}

// rule is one ordered sanitization step.
type rule struct {
	name  string
	apply func(*pass)
}

// pass carries the per-invocation state through the rule table.
type pass struct {
	root *goquery.Selection
	base *url.URL
}

// New builds a sanitizer with the default rule table. Order matters:
// removals run before normalizations so dead markup never gets
// rewritten, and empty-node pruning runs after everything that can
// empty a node.
func New() *Sanitizer {
	return &Sanitizer{
		rules: []rule{
			{name: "drop-scripts", apply: dropScripts},
			{name: "drop-boilerplate-names", apply: dropBoilerplateNames},
			{name: "drop-boilerplate-phrases", apply: dropBoilerplatePhrases},
			{name: "absolutize-images", apply: absolutizeImages},
			{name: "link-to-embed", apply: linkToEmbed},
			{name: "classify-iframes", apply: classifyIframes},
			{name: "drop-imageless-figures", apply: dropImagelessFigures},
			{name: "prune-empty", apply: pruneEmpty},
			{name: "collapse-breaks", apply: collapseBreaks},
		},
	}
}

// Sanitize applies the rule table to the fragment and returns a single
// wrapping div. baseURL is the source's configured domain used to
// resolve relative image URLs.
func (s *Sanitizer) Sanitize(fragment, baseURL string) (string, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader("<div>" + fragment + "</div>"))
	if err != nil {
		return "", fmt.Errorf("parse fragment: %w", err)
	}

	base, err := url.Parse(baseURL)
	if err != nil {
		return "", fmt.Errorf("parse base url %q: %w", baseURL, err)
	}
	if base.Scheme == "" {
		base.Scheme = "https"
	}

	p := &pass{root: doc.Find("body > div").First(), base: base}
	for _, r := range s.rules {
		r.apply(p)
	}

	inner, err := p.root.Html()
	if err != nil {
		return "", fmt.Errorf("render fragment: %w", err)
	}
	return `<div class="article-content">` + strings.TrimSpace(inner) + `</div>`, nil
}

// dropScripts removes script and style nodes. Structured-data blocks
// (application/ld+json) are inert and kept for the front end.
func dropScripts(p *pass) {
	p.root.Find(`script:not([type="application/ld+json"]), style, link, noscript`).Remove()
}

// dropBoilerplateNames removes nodes whose class or id contains a
// known boilerplate name fragment.
func dropBoilerplateNames(p *pass) {
	p.root.Find("[class], [id]").Each(func(_ int, sel *goquery.Selection) {
		class, _ := sel.Attr("class")
		id, _ := sel.Attr("id")
		name := strings.ToLower(class + " " + id)
		for _, fragment := range boilerplateNameFragments {
			if strings.Contains(name, fragment) {
				sel.Remove()
				return
			}
		}
	})
}

// dropBoilerplatePhrases removes short nodes whose visible text is a
// known boilerplate phrase, unless the node carries media.
func dropBoilerplatePhrases(p *pass) {
	p.root.Find("p, div, span, a, li, aside, section, button").Each(func(_ int, sel *goquery.Selection) {
		text := strings.ToLower(strings.TrimSpace(sel.Text()))
		if text == "" || len([]rune(text)) > maxPhraseNodeChars {
			return
		}
		if hasMediaDescendant(sel) {
			return
		}
		for _, phrase := range boilerplatePhrases {
			if strings.Contains(text, phrase) {
				sel.Remove()
				return
			}
		}
	})
}

// hasMediaDescendant reports whether the node contains an image,
// video, or embed anywhere below it.
func hasMediaDescendant(sel *goquery.Selection) bool {
	return sel.Find("img, picture, video, audio, iframe, embed, object").Length() > 0
}

// absolutizeImages rewrites protocol-relative and root-relative image
// URLs (src, data-src, srcset) to absolute ones against the base.
func absolutizeImages(p *pass) {
	p.root.Find("img").Each(func(_ int, sel *goquery.Selection) {
		for _, attr := range []string{"src", "data-src"} {
			if val, ok := sel.Attr(attr); ok {
				sel.SetAttr(attr, p.absolutize(val))
			}
		}
		if srcset, ok := sel.Attr("srcset"); ok {
			sel.SetAttr("srcset", p.absolutizeSrcset(srcset))
		}
		// lazy-loaded images: promote data-src when src is missing
		if src, _ := sel.Attr("src"); strings.TrimSpace(src) == "" {
			if dataSrc, ok := sel.Attr("data-src"); ok && strings.TrimSpace(dataSrc) != "" {
				sel.SetAttr("src", dataSrc)
			}
		}
	})
}

// absolutize resolves a single URL reference against the base domain.
func (p *pass) absolutize(raw string) string {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return raw
	}

	ref, err := url.Parse(raw)
	if err != nil {
		return raw
	}
	if ref.IsAbs() {
		return raw
	}
	return p.base.ResolveReference(ref).String()
}

// absolutizeSrcset rewrites each URL entry of a srcset attribute,
// keeping the width/density descriptors intact.
func (p *pass) absolutizeSrcset(srcset string) string {
	entries := strings.Split(srcset, ",")
	out := make([]string, 0, len(entries))
	for _, entry := range entries {
		fields := strings.Fields(strings.TrimSpace(entry))
		if len(fields) == 0 {
			continue
		}
		fields[0] = p.absolutize(fields[0])
		out = append(out, strings.Join(fields, " "))
	}
	return strings.Join(out, ", ")
}

// linkToEmbed replaces bare anchors pointing at a YouTube watch URL
// with an embeddable iframe for the same video.
func linkToEmbed(p *pass) {
	p.root.Find("a[href]").Each(func(_ int, sel *goquery.Selection) {
		href, _ := sel.Attr("href")
		id := extract.YouTubeID(href)
		if id == "" {
			return
		}

		// only bare links: anchors whose text is the URL itself (or
		// nothing); a link inside running prose stays a link
		text := strings.TrimSpace(sel.Text())
		if text != "" && text != href {
			return
		}

		iframe := fmt.Sprintf(
			`<iframe src="https://www.youtube.com/embed/%s" frameborder="0" allowfullscreen></iframe>`, id)
		sel.ReplaceWithHtml(iframe)
	})
}

// classifyIframes annotates every iframe with a presentation class and
// a height hint based on its host.
func classifyIframes(p *pass) {
	p.root.Find("iframe").Each(func(_ int, sel *goquery.Selection) {
		src, _ := sel.Attr("src")
		class, height := classifyEmbedHost(src)
		sel.SetAttr("class", class)
		sel.SetAttr("height", height)
	})
}

// classifyEmbedHost maps an embed URL to its presentation class and
// height hint.
func classifyEmbedHost(src string) (string, string) {
	lower := strings.ToLower(src)
	for _, host := range videoIframeHosts {
		if strings.Contains(lower, host) {
			return classVideoEmbed, heightVideoEmbed
		}
	}
	for _, host := range audioIframeHosts {
		if strings.Contains(lower, host) {
			return classAudioEmbed, heightAudioEmbed
		}
	}
	return classOtherEmbed, heightOtherEmbed
}

// dropImagelessFigures removes figure elements without any image
// descendant; these are layout artifacts, not content.
func dropImagelessFigures(p *pass) {
	p.root.Find("figure").Each(func(_ int, sel *goquery.Selection) {
		if sel.Find("img, picture").Length() == 0 {
			sel.Remove()
		}
	})
}

// pruneEmpty removes nodes with no text and no meaningful inner
// markup, bottom-up, until a stable tree remains.
func pruneEmpty(p *pass) {
	for {
		removed := 0
		p.root.Find("p, div, span, ul, ol, li, section, aside, figure, blockquote, h1, h2, h3, h4, h5, h6").Each(func(_ int, sel *goquery.Selection) {
			if strings.TrimSpace(sel.Text()) != "" {
				return
			}
			if hasMediaDescendant(sel) {
				return
			}
			sel.Remove()
			removed++
		})
		if removed == 0 {
			return
		}
	}
}

// collapseBreaks reduces runs of consecutive <br> elements to one.
func collapseBreaks(p *pass) {
	p.root.Find("br").Each(func(_ int, sel *goquery.Selection) {
		node := sel.Get(0)
		if node == nil {
			return
		}
		prev := node.PrevSibling
		for prev != nil {
			if prev.Type == html.ElementNode {
				break
			}
			if prev.Type == html.TextNode && strings.TrimSpace(prev.Data) != "" {
				prev = nil
				break
			}
			prev = prev.PrevSibling
		}
		if prev != nil && prev.Type == html.ElementNode && prev.Data == "br" {
			sel.Remove()
		}
	})
}
