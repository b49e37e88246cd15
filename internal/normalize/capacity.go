package normalize

import (
	"math"
	"regexp"
	"strconv"
	"strings"
)

var (
	gbRe = regexp.MustCompile(`(?i)(\d+)\s*GB\b`)
	mbRe = regexp.MustCompile(`(?i)(\d+)\s*MB\b`)
)

// Colours is the vocabulary searched in titles, in priority order.
var Colours = []string{
	"black", "white", "red", "blue", "green", "silver", "gold", "purple",
	"pink", "yellow", "grey", "gray", "graphite", "midnight", "starlight",
}

var colourRes = compileColours(Colours)

func compileColours(names []string) []*regexp.Regexp {
	out := make([]*regexp.Regexp, len(names))
	for i, c := range names {
		out[i] = regexp.MustCompile(`(?i)\b` + regexp.QuoteMeta(c) + `\b`)
	}
	return out
}

// CapacityMB reads a storage size from a title. GB values are converted to MB.
// Zero sizes and sizes that do not fit an int yield nil.
func CapacityMB(title string) *int {
	if m := gbRe.FindStringSubmatch(title); m != nil {
		n, err := strconv.Atoi(m[1])
		if err != nil || n <= 0 || n > math.MaxInt/1024 {
			return nil
		}
		mb := n * 1024
		return &mb
	}
	if m := mbRe.FindStringSubmatch(title); m != nil {
		n, err := strconv.Atoi(m[1])
		if err != nil || n <= 0 {
			return nil
		}
		return &n
	}
	return nil
}

// Colour prefers an explicit hint, then the first vocabulary word found in title.
func Colour(title, hint string) *string {
	if h := strings.ToLower(strings.TrimSpace(hint)); h != "" {
		return &h
	}
	for i, re := range colourRes {
		if re.MatchString(title) {
			c := Colours[i]
			return &c
		}
	}
	return nil
}
