package extract

import (
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/manchete-hq/manchete-harvester/internal/domain"
)

const tribunaWebStrategyID = "tribunaweb"

// tribunaWebStrategy handles the Tribuna Web portal. The portal omits
// og:description on most articles; the subtitle heading under the
// title stands in for the summary.
type tribunaWebStrategy struct{}

// NewTribunaWebStrategy builds the Tribuna Web strategy.
func NewTribunaWebStrategy() Strategy {
	return tribunaWebStrategy{}
}

func (tribunaWebStrategy) ID() string {
	return tribunaWebStrategyID
}

func (tribunaWebStrategy) Metadata(doc *goquery.Document) domain.Metadata {
	meta := openGraphMetadata(doc)
	if meta.Summary == "" {
		meta.Summary = strings.TrimSpace(doc.Find("h2.materia-subtitulo").First().Text())
	}
	return meta
}

func (tribunaWebStrategy) BodySelectors() []string {
	return []string{
		"div.materia-conteudo",
		"div.noticia-texto",
		"article",
		"main",
	}
}

func (tribunaWebStrategy) Media(doc *goquery.Document) Media {
	return detectMedia(doc)
}
