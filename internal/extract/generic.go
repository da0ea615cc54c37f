package extract

import (
	"github.com/PuerkitoBio/goquery"

	"github.com/manchete-hq/manchete-harvester/internal/domain"
)

const genericStrategyID = "generic"

// genericStrategy extracts from portals without a dedicated strategy:
// Open Graph metadata and the usual article landmarks.
type genericStrategy struct{}

// NewGenericStrategy builds the portal-agnostic extraction strategy.
func NewGenericStrategy() Strategy {
	return genericStrategy{}
}

func (genericStrategy) ID() string {
	return genericStrategyID
}

func (genericStrategy) Metadata(doc *goquery.Document) domain.Metadata {
	return openGraphMetadata(doc)
}

func (genericStrategy) BodySelectors() []string {
	return []string{
		"div.article-body",
		"div.entry-content",
		"div.post-content",
		"article",
		"main",
	}
}

func (genericStrategy) Media(doc *goquery.Document) Media {
	return detectMedia(doc)
}
