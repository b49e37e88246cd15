package catalog

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/lukman83/catalog-scrap/internal/models"
)

// Filter narrows a stored catalog. Zero fields match everything.
type Filter struct {
	Available     *bool
	Colour        string
	MinCapacityMB int
	MaxPrice      *float64
	// Query matches a case-insensitive substring of the title.
	Query string
	Limit int
}

func (f Filter) Match(p models.Product) bool {
	if f.Available != nil && p.IsAvailable != *f.Available {
		return false
	}
	if f.Colour != "" && !strings.EqualFold(models.Deref(p.Colour), f.Colour) {
		return false
	}
	if f.MinCapacityMB > 0 && (p.CapacityMB == nil || *p.CapacityMB < f.MinCapacityMB) {
		return false
	}
	if f.MaxPrice != nil && (p.Price == nil || *p.Price > *f.MaxPrice) {
		return false
	}
	if f.Query != "" && !strings.Contains(strings.ToLower(p.Title), strings.ToLower(f.Query)) {
		return false
	}
	return true
}

// Apply returns the matching products in their original order, at most
// Limit of them when Limit is positive.
func (f Filter) Apply(products []models.Product) []models.Product {
	out := make([]models.Product, 0, len(products))
	for _, p := range products {
		if !f.Match(p) {
			continue
		}
		out = append(out, p)
		if f.Limit > 0 && len(out) == f.Limit {
			break
		}
	}
	return out
}

// ParseFilter reads filter values from string parameters as they arrive
// from query strings, flags or tool arguments. Empty values are ignored.
func ParseFilter(available, colour, minCapacityMB, maxPrice, query, limit string) (Filter, error) {
	f := Filter{Colour: strings.TrimSpace(colour), Query: strings.TrimSpace(query)}
	if available != "" {
		v, err := strconv.ParseBool(available)
		if err != nil {
			return Filter{}, fmt.Errorf("available: %w", err)
		}
		f.Available = &v
	}
	if minCapacityMB != "" {
		v, err := strconv.Atoi(minCapacityMB)
		if err != nil {
			return Filter{}, fmt.Errorf("min_capacity_mb: %w", err)
		}
		f.MinCapacityMB = v
	}
	if maxPrice != "" {
		v, err := strconv.ParseFloat(maxPrice, 64)
		if err != nil {
			return Filter{}, fmt.Errorf("max_price: %w", err)
		}
		f.MaxPrice = &v
	}
	if limit != "" {
		v, err := strconv.Atoi(limit)
		if err != nil {
			return Filter{}, fmt.Errorf("limit: %w", err)
		}
		f.Limit = v
	}
	return f, nil
}
