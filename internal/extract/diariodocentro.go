package extract

import (
	"github.com/PuerkitoBio/goquery"

	"github.com/manchete-hq/manchete-harvester/internal/domain"
)

const diarioDoCentroStrategyID = "diariodocentro"

// diarioDoCentroStrategy handles the Diário do Centro portal. The
// portal publishes clean og: tags but wraps the body in a WordPress
// theme whose entry-content div often excludes the lead paragraph, so
// the wider single-post container is also tried.
type diarioDoCentroStrategy struct{}

// NewDiarioDoCentroStrategy builds the Diário do Centro strategy.
func NewDiarioDoCentroStrategy() Strategy {
	return diarioDoCentroStrategy{}
}

func (diarioDoCentroStrategy) ID() string {
	return diarioDoCentroStrategyID
}

func (diarioDoCentroStrategy) Metadata(doc *goquery.Document) domain.Metadata {
	return openGraphMetadata(doc)
}

func (diarioDoCentroStrategy) BodySelectors() []string {
	return []string{
		"div.td-post-content",
		"div.entry-content",
		"article.single-post",
		"article",
	}
}

func (diarioDoCentroStrategy) Media(doc *goquery.Document) Media {
	return detectMedia(doc)
}
