package extract

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

var pageOfRe = regexp.MustCompile(`(?i)Page\s+\d+\s+of\s+(\d+)`)

// MaxPages reads the last page number advertised by a catalog page. A
// "Page X of Y" marker wins over pagination links.
func MaxPages(doc *goquery.Document) (int, bool) {
	if n, ok := maxPagesText(doc); ok {
		return n, true
	}
	return maxPagesLinks(doc)
}

func maxPagesText(doc *goquery.Document) (int, bool) {
	scope := doc.Find("#products")
	if scope.Length() == 0 {
		scope = doc.Selection
	}
	m := pageOfRe.FindStringSubmatch(scope.Text())
	if m == nil {
		return 0, false
	}
	n, err := strconv.Atoi(m[1])
	if err != nil {
		return 0, false
	}
	return n, true
}

func maxPagesLinks(doc *goquery.Document) (int, bool) {
	highest := 0
	doc.Find("#pages a").Each(func(_ int, a *goquery.Selection) {
		if n := leadingInt(strings.TrimSpace(a.Text())); n > highest {
			highest = n
		}
	})
	return highest, highest > 0
}

// leadingInt parses the digits at the start of s; anything else is 0.
func leadingInt(s string) int {
	end := 0
	for end < len(s) && s[end] >= '0' && s[end] <= '9' {
		end++
	}
	n, err := strconv.Atoi(s[:end])
	if err != nil {
		return 0
	}
	return n
}
