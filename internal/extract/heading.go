package extract

import (
	"fmt"
	"iter"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/lukman83/catalog-scrap/internal/models"
	"github.com/lukman83/catalog-scrap/internal/normalize"
	"github.com/rs/zerolog"
	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// HeadingStrategy treats every h3 as a product title and the loose markup
// between it and the next h3 as that product's description.
type HeadingStrategy struct {
	// DebugDir, when set, receives each collected blob as NNN_<title>.txt.
	DebugDir string
	Logger   zerolog.Logger
}

func NewHeadingStrategy() *HeadingStrategy { return &HeadingStrategy{} }

func (s *HeadingStrategy) Name() string { return "heading" }

func (s *HeadingStrategy) Extract(doc *goquery.Document) []models.RawCandidate {
	var out []models.RawCandidate

	doc.Find("h3").Each(func(idx int, h *goquery.Selection) {
		title := strings.TrimSpace(h.Text())
		if title == "" || len(h.Nodes) == 0 {
			return
		}

		blob, image := collectBlob(h.Nodes[0])
		if s.DebugDir != "" {
			if err := writeBlob(s.DebugDir, idx, title, blob); err != nil {
				s.Logger.Warn().Err(err).Str("title", title).Msg("blob dump failed")
			}
		}
		out = append(out, models.RawCandidate{
			Title:            title,
			PriceText:        blob,
			ImageURL:         image,
			AvailabilityText: normalize.ParseAvailability(blob),
			ShippingText:     normalize.ParseShippingText(blob),
		})
	})

	return out
}

var unsafeTitle = regexp.MustCompile(`(?i)[^a-z0-9]+`)

// BlobFileName is the dump file for the idx-th (zero-based) h3 of a page.
func BlobFileName(idx int, title string) string {
	safe := unsafeTitle.ReplaceAllString(title, "_")
	if safe == "" {
		safe = "product"
	}
	return fmt.Sprintf("%03d_%s.txt", idx+1, safe)
}

func writeBlob(dir string, idx int, title, blob string) error {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create debug dir: %w", err)
	}
	return os.WriteFile(filepath.Join(dir, BlobFileName(idx, title)), []byte(blob), 0o644)
}

func collectBlob(heading *html.Node) (blob, image string) {
	var b strings.Builder
	for n := range siblingsUntil(heading, isHeading) {
		switch n.Type {
		case html.TextNode:
			b.WriteString("\n")
			b.WriteString(cleanText(n.Data))
		case html.ElementNode:
			b.WriteString("\n")
			b.WriteString(cleanText(textContent(n)))
			if image == "" {
				image = firstImage(n)
			}
		}
	}
	return strings.TrimSpace(b.String()), image
}

// siblingsUntil yields the siblings following n, stopping before the first
// one for which stop reports true.
func siblingsUntil(n *html.Node, stop func(*html.Node) bool) iter.Seq[*html.Node] {
	return func(yield func(*html.Node) bool) {
		for c := n.NextSibling; c != nil; c = c.NextSibling {
			if stop(c) || !yield(c) {
				return
			}
		}
	}
}

func isHeading(n *html.Node) bool {
	return n.Type == html.ElementNode && n.DataAtom == atom.H3
}

func textContent(n *html.Node) string {
	var b strings.Builder
	for d := range n.Descendants() {
		if d.Type == html.TextNode {
			b.WriteString(d.Data)
		}
	}
	return b.String()
}

func firstImage(n *html.Node) string {
	if src, ok := imageSrc(n); ok {
		return src
	}
	for d := range n.Descendants() {
		if src, ok := imageSrc(d); ok {
			return src
		}
	}
	return ""
}

func imageSrc(n *html.Node) (string, bool) {
	if n.Type != html.ElementNode || n.DataAtom != atom.Img {
		return "", false
	}
	for _, a := range n.Attr {
		if a.Key == "src" && strings.TrimSpace(a.Val) != "" {
			return strings.TrimSpace(a.Val), true
		}
	}
	return "", false
}

var blankRun = regexp.MustCompile(`[ \t]+`)

func cleanText(s string) string {
	s = strings.ReplaceAll(s, "\u00a0", " ")
	return strings.TrimSpace(blankRun.ReplaceAllString(s, " "))
}
