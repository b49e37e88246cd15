package polite

import (
	"net/http"
	"sync"
)

// Identity is a browser User-Agent with the headers that browser sends.
type Identity struct {
	UserAgent string
	Headers   http.Header
}

// IdentityPool hands out identities round-robin.
type IdentityPool struct {
	identities []Identity
	mu         sync.Mutex
	idx        int
}

// NewIdentityPool returns a pool of desktop browsers. A non-empty userAgent
// pins the pool to a single identity using that string.
func NewIdentityPool(userAgent string) *IdentityPool {
	if userAgent != "" {
		return &IdentityPool{identities: []Identity{{UserAgent: userAgent, Headers: chromeHeaders()}}}
	}
	return &IdentityPool{identities: defaultIdentities()}
}

// Next returns the next identity in round-robin order.
func (p *IdentityPool) Next() Identity {
	p.mu.Lock()
	defer p.mu.Unlock()
	id := p.identities[p.idx%len(p.identities)]
	p.idx++
	return id
}

func defaultIdentities() []Identity {
	return []Identity{
		{
			UserAgent: "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/133.0.0.0 Safari/537.36",
			Headers:   chromeHeaders(),
		},
		{
			UserAgent: "Mozilla/5.0 (Macintosh; Intel Mac OS X 10_15_7) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/133.0.0.0 Safari/537.36",
			Headers:   chromeHeaders(),
		},
		{
			UserAgent: "Mozilla/5.0 (X11; Linux x86_64; rv:135.0) Gecko/20100101 Firefox/135.0",
			Headers:   firefoxHeaders(),
		},
	}
}

func chromeHeaders() http.Header {
	h := http.Header{}
	h.Set("Sec-Ch-Ua", `"Chromium";v="133", "Not(A:Brand";v="99", "Google Chrome";v="133"`)
	h.Set("Sec-Ch-Ua-Mobile", "?0")
	h.Set("Sec-Fetch-User", "?1")
	return h
}

func firefoxHeaders() http.Header {
	h := http.Header{}
	h.Set("Sec-Fetch-User", "?1")
	h.Set("Priority", "u=0, i")
	return h
}
