package normalize

import (
	"regexp"
	"sort"
	"strconv"
	"strings"
)

var (
	currencyPriceRe = regexp.MustCompile(`£\s*([0-9]+(?:,[0-9]{3})*(?:\.[0-9]{2})?)`)
	plainNumberRe   = regexp.MustCompile(`([0-9]+(?:,[0-9]{3})*(?:\.[0-9]{2})?)`)
)

const (
	yearFloor = 1900
	yearCeil  = 2100
)

// ParsePrice returns the first pound-marked amount in text. Without one it
// falls back to the unmarked number with the most digits that does not look
// like a year.
func ParsePrice(text string) *float64 {
	if text == "" {
		return nil
	}

	if m := currencyPriceRe.FindAllStringSubmatch(text, -1); len(m) > 0 {
		v, err := parseAmount(m[0][1])
		if err != nil {
			return nil
		}
		return &v
	}

	tokens := plainNumberRe.FindAllString(text, -1)
	sort.SliceStable(tokens, func(i, j int) bool {
		return digitCount(tokens[i]) > digitCount(tokens[j])
	})
	for _, tok := range tokens {
		v, err := parseAmount(tok)
		if err != nil {
			continue
		}
		if whole := int64(v); whole >= yearFloor && whole <= yearCeil {
			continue
		}
		return &v
	}
	return nil
}

func parseAmount(tok string) (float64, error) {
	tok = strings.NewReplacer(",", "", " ", "").Replace(tok)
	return strconv.ParseFloat(tok, 64)
}

func digitCount(s string) int {
	n := 0
	for _, r := range s {
		if r >= '0' && r <= '9' {
			n++
		}
	}
	return n
}
