package extract

import (
	"github.com/PuerkitoBio/goquery"
	"github.com/lukman83/catalog-scrap/internal/models"
	"github.com/lukman83/catalog-scrap/internal/platform"
)

// Chain tries strategies in order and keeps the first non-empty result.
type Chain struct {
	strategies []platform.Strategy
}

func NewChain(strategies ...platform.Strategy) *Chain {
	return &Chain{strategies: strategies}
}

// DefaultChain prefers structured cards and falls back to heading blobs.
func DefaultChain() *Chain {
	return NewChain(NewCardStrategy(DefaultCardLayout), NewHeadingStrategy())
}

// Extract returns the candidates of the first strategy that found any,
// along with that strategy's name. Both are empty when none did.
func (c *Chain) Extract(doc *goquery.Document) ([]models.RawCandidate, string) {
	for _, s := range c.strategies {
		if found := s.Extract(doc); len(found) > 0 {
			return found, s.Name()
		}
	}
	return nil, ""
}

// Names lists the strategies in evaluation order.
func (c *Chain) Names() []string {
	names := make([]string, len(c.strategies))
	for i, s := range c.strategies {
		names[i] = s.Name()
	}
	return names
}
