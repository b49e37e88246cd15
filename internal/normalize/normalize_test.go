package normalize

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParsePrice(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		in   string
		want *float64
	}{
		{"first currency token wins", "£1,299.00 was £1,499.00", ptr(1299.00)},
		{"currency with space", "Now £ 649.99", ptr(649.99)},
		{"year skipped in fallback", "Released 2023, 128", ptr(128.0)},
		{"longest digit run preferred", "2 for 499.50", ptr(499.50)},
		{"year accepted when currency marked", "£2023", ptr(2023.0)},
		{"only years", "From 1999 to 2024", nil},
		{"no digits", "Call for price", nil},
		{"empty", "", nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ParsePrice(tt.in)
			if tt.want == nil {
				assert.Nil(t, got)
				return
			}
			require.NotNil(t, got)
			assert.InDelta(t, *tt.want, *got, 0.0001)
		})
	}
}

func TestCapacityMB(t *testing.T) {
	t.Parallel()

	got := CapacityMB("iPhone 14 128GB")
	require.NotNil(t, got)
	assert.Equal(t, 131072, *got)

	got = CapacityMB("Nokia 3310 512 mb")
	require.NotNil(t, got)
	assert.Equal(t, 512, *got)

	got = CapacityMB("Galaxy S23 1gb")
	require.NotNil(t, got)
	assert.Equal(t, 1024, *got)

	assert.Nil(t, CapacityMB("Pixel 8 Pro"))

	tests := []struct {
		name  string
		title string
	}{
		{"zero gigabytes", "Prototype 0GB"},
		{"zero megabytes", "Prototype 0MB"},
		{"gigabytes overflow", "Phone 9007199254740993GB"},
		{"beyond int range", "Phone 99999999999999999999GB"},
		{"megabytes beyond int range", "Phone 99999999999999999999MB"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Nil(t, CapacityMB(tt.title))
		})
	}
}

func TestColour(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "sierra blue", *Colour("iPhone 13 Pro", "  Sierra Blue "))
	assert.Equal(t, "black", *Colour("Galaxy Black and White Edition", ""))
	assert.Equal(t, "grey", *Colour("Space GREY 64GB", ""))
	assert.Nil(t, Colour("Goldfinch Phone", ""), "word boundary must stop partial matches")
	assert.Nil(t, Colour("Pixel 8", ""))
}

func TestIsAvailable(t *testing.T) {
	t.Parallel()

	assert.False(t, IsAvailable(""))
	assert.False(t, IsAvailable("Unavailable for delivery"))
	assert.True(t, IsAvailable("In Stock - Available"))
	assert.False(t, IsAvailable("Out of Stock"))
	assert.False(t, IsAvailable("Out of stock, available soon"))
	assert.True(t, IsAvailable("Available on 2024-03-01"))
	assert.False(t, IsAvailable("Discontinued"))
}

func TestParseAvailability(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "In Stock Online", ParseAvailability("£99\nAvailability: In Stock Online\nFree Delivery"))
	assert.Equal(t, "Out of Stock", ParseAvailability("£99\nOut of Stock\nsomething"))
	assert.Equal(t, "In Stock", ParseAvailability("Out of Stock elsewhere\nIn Stock"), "in-stock outranks out-of-stock")
	assert.Equal(t, "Available soon", ParseAvailability("Available soon"))
	assert.Equal(t, "", ParseAvailability("nothing to see"))
}

func TestParseShippingText(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "Delivery by 2024-03-01", ParseShippingText("£10\nDelivery by 2024-03-01\n"))
	assert.Equal(t, "Available on 1 March 2024", ParseShippingText("Available on 1 March 2024"))
	assert.Equal(t, "Order within 6 hours", ParseShippingText("Order within 6 hours"))
	assert.Equal(t, "", ParseShippingText("In Stock"))
}

func TestShippingRules_OrderIsExplicit(t *testing.T) {
	t.Parallel()

	var names []string
	for _, r := range ShippingRules.Rules() {
		names = append(names, r.Name)
	}
	assert.Equal(t, []string{"scheduled", "free-shipping", "undeliverable"}, names)

	v, rule, ok := ShippingRules.Match("Order within 2 hours\nAvailable on 2024-01-01")
	require.True(t, ok)
	assert.Equal(t, "scheduled", rule)
	assert.Equal(t, "Order within 2 hours", v, "earliest phrase in the text wins")

	v, rule, ok = ShippingRules.Match("Free Shipping\nOrder within 3 hours")
	require.True(t, ok)
	assert.Equal(t, "scheduled", rule, "free shipping is only a fallback")
	assert.Equal(t, "Order within 3 hours", v)
}

func TestParseShippingText_EarliestPhraseWins(t *testing.T) {
	t.Parallel()

	blob := "£499\nAvailable on 1 March 2024\nDelivery by 5 March 2024"
	got := ParseShippingText(blob)
	assert.Equal(t, "Available on 1 March 2024", got)
	require.NotNil(t, ShippingDate(got))
	assert.Equal(t, "2024-03-01", *ShippingDate(got))

	blob = "£499\nDelivery by 5 March 2024\nAvailable on 1 March 2024"
	assert.Equal(t, "Delivery by 5 March 2024", ParseShippingText(blob))
}

func TestRuleSet_FixedResult(t *testing.T) {
	t.Parallel()

	set := NewRuleSet(ShippingRules.Rules()[2])
	v, rule, ok := set.Match("sorry, UNAVAILABLE FOR DELIVERY here")
	require.True(t, ok)
	assert.Equal(t, "undeliverable", rule)
	assert.Equal(t, "Unavailable for delivery", v)
}

func TestShippingDate(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "2024-03-01", *ShippingDate("Available on 2024-03-01"))
	assert.Equal(t, "2024-03-01", *ShippingDate("Dispatches 1 March 2024"))
	assert.Equal(t, "2025-12-09", *ShippingDate("Delivery from 9 Dec 2025"))
	assert.Equal(t, "2024-03-01", *ShippingDate("Delivery by 01  MARCH 2024"))
	assert.Nil(t, ShippingDate("Delivery by 41 March 2024"))
	assert.Nil(t, ShippingDate("Delivery tomorrow"))
	assert.Nil(t, ShippingDate(""))
}

func TestResolver_Abs(t *testing.T) {
	t.Parallel()

	r, err := NewResolver("https://www.magpiehq.com/developer-challenge/smartphones/?page=2")
	require.NoError(t, err)
	assert.Equal(t, "https://www.magpiehq.com", r.Origin)

	assert.Nil(t, r.Abs(""))
	assert.Equal(t, "https://cdn.example.com/a.png", *r.Abs("https://cdn.example.com/a.png"))
	assert.Equal(t, "https://www.magpiehq.com/images/iphone.png", *r.Abs("../images/iphone.png"))
	assert.Equal(t, "https://www.magpiehq.com/a/c/d.png", *r.Abs("/a/b/../c/./d.png"))
	assert.Equal(t, "https://www.magpiehq.com/img.png?v=2", *r.Abs("img.png?v=2"))

	_, err = NewResolver("/relative/only")
	assert.Error(t, err)
}

func ptr(f float64) *float64 { return &f }
