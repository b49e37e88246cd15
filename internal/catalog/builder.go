package catalog

import (
	"strings"

	"github.com/lukman83/catalog-scrap/internal/models"
	"github.com/lukman83/catalog-scrap/internal/normalize"
)

// RecordBuilder turns raw candidates into normalized products.
type RecordBuilder struct {
	resolver normalize.Resolver
}

// NewRecordBuilder resolves relative image paths against the origin of
// catalogURL.
func NewRecordBuilder(catalogURL string) (*RecordBuilder, error) {
	r, err := normalize.NewResolver(catalogURL)
	if err != nil {
		return nil, err
	}
	return &RecordBuilder{resolver: r}, nil
}

// Build normalizes c. It reports false for candidates without a title.
func (b *RecordBuilder) Build(c models.RawCandidate) (models.Product, bool) {
	title := strings.TrimSpace(c.Title)
	if title == "" {
		return models.Product{}, false
	}
	availability := strings.TrimSpace(c.AvailabilityText)
	shipping := strings.TrimSpace(c.ShippingText)

	return models.Product{
		Title:            title,
		Price:            normalize.ParsePrice(c.PriceText),
		ImageURL:         b.resolver.Abs(strings.TrimSpace(c.ImageURL)),
		CapacityMB:       normalize.CapacityMB(title),
		Colour:           normalize.Colour(title, c.ColourHint),
		AvailabilityText: models.StringPtr(availability),
		IsAvailable:      normalize.IsAvailable(availability),
		ShippingText:     models.StringPtr(shipping),
		ShippingDate:     normalize.ShippingDate(shipping),
	}, true
}
