package normalize

import (
	"fmt"
	"net/url"
	"regexp"
	"strings"
)

var schemeRe = regexp.MustCompile(`^[A-Za-z][A-Za-z0-9+.\-]*://`)

// Resolver turns image paths into absolute URLs rooted at Origin.
type Resolver struct {
	Origin string // scheme://host, no trailing slash
}

// NewResolver derives the origin from any URL on the site.
func NewResolver(siteURL string) (Resolver, error) {
	u, err := url.Parse(siteURL)
	if err != nil {
		return Resolver{}, fmt.Errorf("parse site url: %w", err)
	}
	if u.Scheme == "" || u.Host == "" {
		return Resolver{}, fmt.Errorf("site url %q is not absolute", siteURL)
	}
	return Resolver{Origin: u.Scheme + "://" + u.Host}, nil
}

// Abs leaves absolute URLs alone. Relative paths are resolved against the
// origin root with "." and ".." collapsed; query strings pass through as
// part of the last segment.
func (r Resolver) Abs(raw string) *string {
	if raw == "" {
		return nil
	}
	if schemeRe.MatchString(raw) {
		return &raw
	}

	var segments []string
	for _, seg := range strings.Split(raw, "/") {
		switch seg {
		case "", ".":
			continue
		case "..":
			if len(segments) > 0 {
				segments = segments[:len(segments)-1]
			}
			continue
		}
		segments = append(segments, seg)
	}
	abs := strings.TrimRight(r.Origin, "/") + "/" + strings.Join(segments, "/")
	return &abs
}
