package catalog

import "github.com/lukman83/catalog-scrap/internal/models"

// Dedupe keeps the first product of every Product.Key, preserving order.
func Dedupe(products []models.Product) []models.Product {
	seen := make(map[string]struct{}, len(products))
	out := make([]models.Product, 0, len(products))
	for _, p := range products {
		key := p.Key()
		if _, ok := seen[key]; ok {
			continue
		}
		seen[key] = struct{}{}
		out = append(out, p)
	}
	return out
}
