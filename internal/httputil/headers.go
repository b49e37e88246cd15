package httputil

import "net/http"

// BrowserHeaders returns the headers of a desktop browser navigating from
// referer. An empty referer omits the header.
func BrowserHeaders(referer string) http.Header {
	h := http.Header{}
	h.Set("Accept", "text/html,application/xhtml+xml,application/xml;q=0.9,image/avif,image/webp,*/*;q=0.8")
	h.Set("Accept-Language", "en-GB,en;q=0.9")
	h.Set("Accept-Encoding", "gzip, deflate, br")
	h.Set("Cache-Control", "no-cache")
	h.Set("Upgrade-Insecure-Requests", "1")
	h.Set("Sec-Fetch-Dest", "document")
	h.Set("Sec-Fetch-Mode", "navigate")
	h.Set("Sec-Fetch-Site", "same-origin")
	if referer != "" {
		h.Set("Referer", referer)
	}
	return h
}

// Apply copies headers onto req without overwriting values already set.
func Apply(req *http.Request, h http.Header) {
	for k, vals := range h {
		if req.Header.Get(k) != "" {
			continue
		}
		for _, v := range vals {
			req.Header.Add(k, v)
		}
	}
}
