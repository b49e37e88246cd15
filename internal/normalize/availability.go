package normalize

import (
	"regexp"
	"strings"
	"time"
)

// ParseAvailability pulls an availability phrase out of a text blob.
func ParseAvailability(blob string) string {
	v, _, _ := AvailabilityRules.Match(blob)
	return v
}

// IsAvailable derives the boolean stock flag. "out of stock" is checked
// before the looser "available" substring.
func IsAvailable(text string) bool {
	if text == "" {
		return false
	}
	t := strings.ToLower(text)
	if strings.Contains(t, "out of stock") {
		return false
	}
	if strings.Contains(t, "in stock") {
		return true
	}
	return strings.Contains(t, "available") && !strings.Contains(t, "unavailable")
}

// ParseShippingText pulls a shipping phrase out of a text blob.
func ParseShippingText(blob string) string {
	v, _, _ := ShippingRules.Match(blob)
	return v
}

var (
	isoDateRe  = regexp.MustCompile(`(\d{4}-\d{2}-\d{2})`)
	longDateRe = regexp.MustCompile(`(\d{1,2}\s+[A-Za-z]{3,9}\s+\d{4})`)

	longDateLayouts = []string{"2 January 2006", "2 Jan 2006"}
)

// ShippingDate returns an ISO date embedded in text, reformatting
// "1 March 2024" style dates. Unparseable dates yield nil.
func ShippingDate(text string) *string {
	if text == "" {
		return nil
	}
	if m := isoDateRe.FindStringSubmatch(text); m != nil {
		return &m[1]
	}
	m := longDateRe.FindStringSubmatch(text)
	if m == nil {
		return nil
	}
	raw := strings.Join(strings.Fields(m[1]), " ")
	for _, layout := range longDateLayouts {
		if t, err := time.Parse(layout, raw); err == nil {
			iso := t.Format(time.DateOnly)
			return &iso
		}
	}
	return nil
}
