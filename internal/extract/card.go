package extract

import (
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/lukman83/catalog-scrap/internal/models"
	"github.com/lukman83/catalog-scrap/internal/normalize"
)

// CardLayout holds the CSS selectors of the structured product card.
type CardLayout struct {
	Card     string
	Name     string
	Capacity string
	Price    string
	Info     string
	Image    string
	Colour   string
}

// DefaultCardLayout matches the smartphone catalog markup.
var DefaultCardLayout = CardLayout{
	Card:     ".product",
	Name:     ".product-name",
	Capacity: ".product-capacity",
	Price:    ".my-8.block.text-center.text-lg",
	Info:     ".my-4.text-sm.block.text-center",
	Image:    "img[src]",
	Colour:   "[data-colour]",
}

const availabilityLabel = "availability:"

// CardStrategy reads one candidate per product card.
type CardStrategy struct {
	layout CardLayout
}

func NewCardStrategy(layout CardLayout) *CardStrategy {
	return &CardStrategy{layout: layout}
}

func (s *CardStrategy) Name() string { return "card" }

func (s *CardStrategy) Extract(doc *goquery.Document) []models.RawCandidate {
	l := s.layout
	var out []models.RawCandidate

	doc.Find(l.Card).Each(func(_ int, card *goquery.Selection) {
		name := collapse(card.Find(l.Name).First().Text())
		capacity := collapse(card.Find(l.Capacity).First().Text())
		title := strings.TrimSpace(name + " " + capacity)
		if title == "" {
			return
		}

		c := models.RawCandidate{
			Title:     title,
			PriceText: collapse(card.Find(l.Price).First().Text()),
		}
		if src, ok := card.Find(l.Image).First().Attr("src"); ok {
			c.ImageURL = strings.TrimSpace(src)
		}

		card.Find(l.Colour).EachWithBreak(func(_ int, sel *goquery.Selection) bool {
			v := strings.TrimSpace(sel.AttrOr("data-colour", ""))
			if v == "" {
				return true
			}
			c.ColourHint = strings.ToLower(v)
			return false
		})

		card.Find(l.Info).Each(func(_ int, sel *goquery.Selection) {
			line := collapse(sel.Text())
			if line == "" {
				return
			}
			if len(line) >= len(availabilityLabel) && strings.EqualFold(line[:len(availabilityLabel)], availabilityLabel) {
				c.AvailabilityText = strings.TrimSpace(line[len(availabilityLabel):])
				return
			}
			if c.ShippingText == "" && normalize.ShippingKeywords.MatchString(line) {
				c.ShippingText = line
			}
		})

		out = append(out, c)
	})

	return out
}

func collapse(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
