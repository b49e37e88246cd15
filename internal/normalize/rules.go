package normalize

import (
	"regexp"
	"sort"
	"strings"
)

// Rule is one entry of an ordered classification list. When Result is set
// the rule yields it verbatim; otherwise it yields the first capture group
// (or the whole match when the pattern has no group), trimmed.
type Rule struct {
	Name     string
	Priority int
	Pattern  *regexp.Regexp
	Result   string
}

func (r Rule) match(text string) (string, bool) {
	m := r.Pattern.FindStringSubmatch(text)
	if m == nil {
		return "", false
	}
	if r.Result != "" {
		return r.Result, true
	}
	if len(m) > 1 {
		return strings.TrimSpace(m[1]), true
	}
	return strings.TrimSpace(m[0]), true
}

// RuleSet evaluates rules by ascending priority; the first match wins.
type RuleSet struct {
	rules []Rule
}

// NewRuleSet orders rules by priority. Rules sharing a priority keep
// their declaration order.
func NewRuleSet(rules ...Rule) RuleSet {
	sorted := make([]Rule, len(rules))
	copy(sorted, rules)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Priority < sorted[j].Priority
	})
	return RuleSet{rules: sorted}
}

// Rules returns the rules in evaluation order.
func (s RuleSet) Rules() []Rule {
	out := make([]Rule, len(s.rules))
	copy(out, s.rules)
	return out
}

// Match returns the value produced by the first matching rule along with
// that rule's name.
func (s RuleSet) Match(text string) (value, rule string, ok bool) {
	if text == "" {
		return "", "", false
	}
	for _, r := range s.rules {
		if v, ok := r.match(text); ok {
			return v, r.Name, true
		}
	}
	return "", "", false
}

// AvailabilityRules classify a free-text blob into an availability phrase.
var AvailabilityRules = NewRuleSet(
	Rule{Name: "label", Priority: 10, Pattern: regexp.MustCompile(`(?i)Availability:\s*(.+)`)},
	Rule{Name: "in-stock", Priority: 20, Pattern: regexp.MustCompile(`(?i)\b(In Stock[^\n]*)`)},
	Rule{Name: "out-of-stock", Priority: 30, Pattern: regexp.MustCompile(`(?i)\b(Out of Stock[^\n]*)`)},
	Rule{Name: "available", Priority: 40, Pattern: regexp.MustCompile(`(?i)\b(Available[^\n]*)`)},
)

// ShippingRules classify a free-text blob into a shipping phrase. Delivery,
// "Available on" and "Order within" share one tier: whichever appears first
// in the text wins.
var ShippingRules = NewRuleSet(
	Rule{Name: "scheduled", Priority: 10, Pattern: regexp.MustCompile(`(?i)\b(Delivery(?:\s+(?:by|from))?[^\n]*|Available\s+on[^\n]*|Order\s+within[^\n]*)`)},
	Rule{Name: "free-shipping", Priority: 20, Pattern: regexp.MustCompile(`(?i)\b(Free\s+(?:Delivery|Shipping)[^\n]*)`)},
	Rule{Name: "undeliverable", Priority: 30, Pattern: regexp.MustCompile(`(?i)\bUnavailable for delivery\b`), Result: "Unavailable for delivery"},
)

// ShippingKeywords flags a structured card line as shipping information.
var ShippingKeywords = regexp.MustCompile(`(?i)\b(Delivery|Available on|Free Shipping|Free Delivery|Unavailable for delivery)\b`)
