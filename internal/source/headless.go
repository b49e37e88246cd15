package source

import (
	"context"
	"fmt"
	"io"
	"strings"
	"sync"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/launcher"
	"github.com/go-rod/rod/lib/proto"
	"github.com/lukman83/catalog-scrap/internal/platform"
	"github.com/rs/zerolog"
)

// HeadlessOptions configures a HeadlessSource.
type HeadlessOptions struct {
	// Bin overrides the browser binary, otherwise rod downloads or finds one.
	Bin       string
	UserAgent string
	// Timeout bounds the wait for the rendered DOM to settle.
	Timeout time.Duration
	Logger  zerolog.Logger
}

// HeadlessSource renders pages in a headless Chromium so markup produced by
// scripts is visible to the extractors. One browser is shared by all pages
// and started on first use.
type HeadlessSource struct {
	opts HeadlessOptions

	mu       sync.Mutex
	launcher *launcher.Launcher
	browser  *rod.Browser
}

func NewHeadlessSource(opts HeadlessOptions) *HeadlessSource {
	if opts.Timeout <= 0 {
		opts.Timeout = 15 * time.Second
	}
	return &HeadlessSource{opts: opts}
}

func (h *HeadlessSource) Name() string { return "headless" }

func (h *HeadlessSource) Fetch(ctx context.Context, pageURL string) (*goquery.Document, error) {
	browser, err := h.ensureBrowser()
	if err != nil {
		return nil, &platform.FetchError{URL: pageURL, Err: err}
	}

	page, err := browser.Page(proto.TargetCreateTarget{})
	if err != nil {
		return nil, &platform.FetchError{URL: pageURL, Err: fmt.Errorf("open page: %w", err)}
	}
	defer page.Close()
	page = page.Context(ctx)

	if err := page.SetViewport(&proto.EmulationSetDeviceMetricsOverride{Width: 1920, Height: 1080}); err != nil {
		return nil, &platform.FetchError{URL: pageURL, Err: fmt.Errorf("set viewport: %w", err)}
	}
	if h.opts.UserAgent != "" {
		ua := &proto.NetworkSetUserAgentOverride{UserAgent: h.opts.UserAgent, AcceptLanguage: "en-GB"}
		if err := page.SetUserAgent(ua); err != nil {
			return nil, &platform.FetchError{URL: pageURL, Err: fmt.Errorf("set user agent: %w", err)}
		}
	}

	if err := page.Navigate(pageURL); err != nil {
		return nil, &platform.FetchError{URL: pageURL, Err: fmt.Errorf("navigate: %w", err)}
	}
	if err := page.WaitLoad(); err != nil {
		return nil, &platform.FetchError{URL: pageURL, Err: fmt.Errorf("wait load: %w", err)}
	}

	// Wait for client-side rendering to settle; a timeout here still leaves
	// whatever markup has rendered so far.
	timed := page.Timeout(h.opts.Timeout)
	if err := timed.WaitStable(time.Second); err == nil {
		_ = timed.WaitDOMStable(2*time.Second, 0.1)
	} else {
		h.opts.Logger.Debug().Err(err).Str("url", pageURL).Msg("page did not stabilise")
	}

	content, err := page.HTML()
	if err != nil {
		return nil, &platform.FetchError{URL: pageURL, Err: fmt.Errorf("get page HTML: %w", err)}
	}
	if strings.TrimSpace(content) == "" {
		return nil, &platform.FetchError{URL: pageURL, Err: fmt.Errorf("%w: empty DOM", platform.ErrUnparseable)}
	}

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(content))
	if err != nil {
		return nil, &platform.FetchError{URL: pageURL, Err: fmt.Errorf("%w: %v", platform.ErrUnparseable, err)}
	}
	return doc, nil
}

func (h *HeadlessSource) ensureBrowser() (*rod.Browser, error) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.browser != nil {
		return h.browser, nil
	}

	l := launcher.New().Headless(true).Logger(io.Discard)
	if h.opts.Bin != "" {
		l = l.Bin(h.opts.Bin)
	}
	controlURL, err := l.Launch()
	if err != nil {
		return nil, fmt.Errorf("launch browser: %w", err)
	}

	browser := rod.New().ControlURL(controlURL)
	if err := browser.Connect(); err != nil {
		l.Kill()
		return nil, fmt.Errorf("connect browser: %w", err)
	}

	h.launcher = l
	h.browser = browser
	h.opts.Logger.Debug().Str("control_url", controlURL).Msg("headless browser started")
	return browser, nil
}

// Close shuts the shared browser down. The source may be reused afterwards.
func (h *HeadlessSource) Close() error {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.browser == nil {
		return nil
	}
	err := h.browser.Close()
	h.launcher.Cleanup()
	h.browser = nil
	h.launcher = nil
	return err
}
