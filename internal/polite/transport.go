package polite

import (
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/time/rate"
)

// ErrDisallowed is returned for URLs excluded by robots.txt.
var ErrDisallowed = errors.New("disallowed by robots.txt")

// Transport is an http.RoundTripper that paces requests the way a careful
// visitor would:
// Identity → RobotsCheck → RateLimiter → Delay (at least Crawl-delay) → Proxy → Send
type Transport struct {
	Base        http.RoundTripper
	Identities  *IdentityPool
	Robots      *RobotsChecker
	RateLimiter *rate.Limiter
	Delay       *Delay
	Proxy       *ProxyRotator
	Logger      zerolog.Logger
}

func (t *Transport) RoundTrip(req *http.Request) (*http.Response, error) {
	ctx := req.Context()
	req = req.Clone(ctx)

	// 1. Identity (UA + browser-specific headers)
	ua := req.Header.Get("User-Agent")
	if t.Identities != nil {
		id := t.Identities.Next()
		ua = id.UserAgent
		req.Header.Set("User-Agent", ua)
		for key, vals := range id.Headers {
			if req.Header.Get(key) == "" {
				for _, v := range vals {
					req.Header.Add(key, v)
				}
			}
		}
	}

	// 2. robots.txt
	if t.Robots != nil {
		allowed, err := t.Robots.IsAllowed(ctx, ua, req.URL.String())
		if err == nil && !allowed {
			return nil, fmt.Errorf("%w: %s", ErrDisallowed, req.URL.Path)
		}
	}

	// 3. Rate limiter token
	if t.RateLimiter != nil {
		if err := t.RateLimiter.Wait(ctx); err != nil {
			return nil, fmt.Errorf("rate limiter: %w", err)
		}
	}

	// 4. Jittered pause, never shorter than the site's Crawl-delay
	if t.Delay != nil {
		floor := t.crawlDelay(req, ua)
		if err := t.Delay.Wait(ctx, floor); err != nil {
			return nil, fmt.Errorf("delay: %w", err)
		}
	}

	// 5. Proxy
	transport := t.Base
	if t.Proxy != nil {
		p := t.Proxy.Next()
		t.Logger.Debug().Str("proxy", p.Name()).Str("url", req.URL.String()).Msg("routing through proxy")
		transport = p.Transport()
	}
	if transport == nil {
		transport = http.DefaultTransport
	}

	return transport.RoundTrip(req)
}

func (t *Transport) crawlDelay(req *http.Request, ua string) time.Duration {
	if t.Robots == nil {
		return 0
	}
	return t.Robots.CrawlDelay(req.Context(), ua, req.URL.String())
}

// Options configures NewTransport.
type Options struct {
	UserAgent     string
	DelayProfile  DelayProfile
	RatePerSecond float64
	RateBurst     int
	RespectRobots bool
	ProxyFile     string
	Logger        zerolog.Logger
}

// NewTransport assembles a Transport over base. robots.txt is downloaded
// with a plain client on base so the checker never recurses into itself.
func NewTransport(base http.RoundTripper, opts Options) (*Transport, error) {
	if base == nil {
		base = http.DefaultTransport
	}
	t := &Transport{
		Base:       base,
		Identities: NewIdentityPool(opts.UserAgent),
		Delay:      NewDelay(opts.DelayProfile),
		Logger:     opts.Logger,
	}
	if opts.RatePerSecond > 0 {
		t.RateLimiter = rate.NewLimiter(rate.Limit(opts.RatePerSecond), max(opts.RateBurst, 1))
	}
	if opts.RespectRobots {
		t.Robots = NewRobotsChecker(&http.Client{Transport: base, Timeout: 10 * time.Second})
	}
	if opts.ProxyFile != "" {
		providers, err := LoadProxyFile(opts.ProxyFile)
		if err != nil {
			return nil, err
		}
		t.Proxy = NewProxyRotator(providers)
	}
	return t, nil
}
