package models

import (
	"strconv"
	"strings"
)

// RawCandidate is an unnormalized record pulled from one page element.
// Empty strings mean the field was not found.
type RawCandidate struct {
	Title            string
	PriceText        string
	ImageURL         string
	AvailabilityText string
	ShippingText     string
	ColourHint       string
}

// Product is the normalized output record. Nil pointers serialize as null.
type Product struct {
	Title            string   `json:"title"`
	Price            *float64 `json:"price"`
	ImageURL         *string  `json:"imageUrl"`
	CapacityMB       *int     `json:"capacityMB"`
	Colour           *string  `json:"colour"`
	AvailabilityText *string  `json:"availabilityText"`
	IsAvailable      bool     `json:"isAvailable"`
	ShippingText     *string  `json:"shippingText"`
	ShippingDate     *string  `json:"shippingDate"`
}

// Key identifies a product for deduplication: lowercased title, capacity
// and colour joined by "|", absent parts empty.
func (p Product) Key() string {
	var capacity string
	if p.CapacityMB != nil {
		capacity = strconv.Itoa(*p.CapacityMB)
	}
	return strings.ToLower(p.Title + "|" + capacity + "|" + Deref(p.Colour))
}

// StringPtr returns nil for an empty string.
func StringPtr(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

// Deref returns the pointed-to string or "".
func Deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
