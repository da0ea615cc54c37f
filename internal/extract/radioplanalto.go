package extract

import (
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/manchete-hq/manchete-harvester/internal/domain"
)

const radioPlanaltoStrategyID = "radioplanalto"

// radioPlanaltoStrategy handles the Rádio Planalto portal, which
// attaches a podcast player to most articles. The raw player markup is
// carried along as the embed so the front end can reuse it verbatim.
type radioPlanaltoStrategy struct{}

// NewRadioPlanaltoStrategy builds the Rádio Planalto strategy.
func NewRadioPlanaltoStrategy() Strategy {
	return radioPlanaltoStrategy{}
}

func (radioPlanaltoStrategy) ID() string {
	return radioPlanaltoStrategyID
}

func (radioPlanaltoStrategy) Metadata(doc *goquery.Document) domain.Metadata {
	return openGraphMetadata(doc)
}

func (radioPlanaltoStrategy) BodySelectors() []string {
	return []string{
		"div.post-texto",
		"div.entry-content",
		"article",
	}
}

func (radioPlanaltoStrategy) Media(doc *goquery.Document) Media {
	media := detectMedia(doc)

	if media.AudioURL == "" {
		if src, ok := doc.Find("audio source[src]").First().Attr("src"); ok {
			media.AudioURL = strings.TrimSpace(src)
		}
	}
	if media.AudioURL != "" && media.Embed == "" {
		if wrap := doc.Find("div.player-podcast").First(); wrap.Length() > 0 {
			if fragment, err := goquery.OuterHtml(wrap); err == nil {
				media.Embed = fragment
			}
		}
	}
	return media
}
