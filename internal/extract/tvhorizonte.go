package extract

import (
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/manchete-hq/manchete-harvester/internal/domain"
)

const tvHorizonteStrategyID = "tvhorizonte"

// tvHorizonteStrategy handles the TV Horizonte portal. Its player is a
// custom element carrying the YouTube id in a data attribute rather
// than a plain iframe, so video detection checks that first.
type tvHorizonteStrategy struct{}

// NewTVHorizonteStrategy builds the TV Horizonte strategy.
func NewTVHorizonteStrategy() Strategy {
	return tvHorizonteStrategy{}
}

func (tvHorizonteStrategy) ID() string {
	return tvHorizonteStrategyID
}

func (tvHorizonteStrategy) Metadata(doc *goquery.Document) domain.Metadata {
	return openGraphMetadata(doc)
}

func (tvHorizonteStrategy) BodySelectors() []string {
	return []string{
		"div.video-descricao",
		"div.conteudo-noticia",
		"article",
	}
}

func (tvHorizonteStrategy) Media(doc *goquery.Document) Media {
	if player := doc.Find("player-video[data-video-id]").First(); player.Length() > 0 {
		if id, ok := player.Attr("data-video-id"); ok {
			if id = strings.TrimSpace(id); id != "" {
				return Media{VideoURL: YouTubeWatchURL(id)}
			}
		}
	}
	return detectMedia(doc)
}
