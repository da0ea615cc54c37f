package extract

import (
	"fmt"
	"strings"
	"sync"

	"github.com/PuerkitoBio/goquery"

	"github.com/manchete-hq/manchete-harvester/internal/domain"
)

// Media carries the optional audiovisual references found on a page.
type Media struct {
	VideoURL string
	AudioURL string
	Embed    string
}

// Strategy is the per-portal extraction contract: page metadata, an
// ordered body selector list, and portal-specific media detection.
type Strategy interface {
	ID() string
	Metadata(doc *goquery.Document) domain.Metadata
	BodySelectors() []string
	Media(doc *goquery.Document) Media
}

// Registry resolves the strategy configured for a source.
type Registry interface {
	StrategyFor(id string) (Strategy, error)
}

type strategyRegistry struct {
	strategies map[string]Strategy
	mu         sync.RWMutex
}

// NewRegistry builds a registry for the provided strategies.
func NewRegistry(strategies ...Strategy) Registry {
	reg := &strategyRegistry{
		strategies: make(map[string]Strategy, len(strategies)),
	}

	for _, s := range strategies {
		if s == nil {
			continue
		}
		reg.strategies[strings.ToLower(strings.TrimSpace(s.ID()))] = s
	}

	return reg
}

// StrategyFor selects the strategy registered under the given id.
func (r *strategyRegistry) StrategyFor(id string) (Strategy, error) {
	id = strings.ToLower(strings.TrimSpace(id))
	if id == "" {
		return nil, fmt.Errorf("strategy id is empty")
	}

	r.mu.RLock()
	defer r.mu.RUnlock()

	if s, ok := r.strategies[id]; ok {
		return s, nil
	}
	return nil, fmt.Errorf("no extraction strategy registered for %q", id)
}

// DefaultRegistry wires up the known portal strategies.
func DefaultRegistry() Registry {
	return NewRegistry(
		NewGenericStrategy(),
		NewDiarioDoCentroStrategy(),
		NewTribunaWebStrategy(),
		NewTVHorizonteStrategy(),
		NewRadioPlanaltoStrategy(),
	)
}
