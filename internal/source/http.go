package source

import (
	"bytes"
	"context"
	"fmt"
	"net/http"
	"net/http/cookiejar"
	"os"
	"path/filepath"
	"regexp"

	"github.com/PuerkitoBio/goquery"
	"github.com/lukman83/catalog-scrap/internal/httputil"
	"github.com/lukman83/catalog-scrap/internal/platform"
	"github.com/rs/zerolog"
	"golang.org/x/net/html/charset"
)

// HTTPOptions configures an HTTPSource.
type HTTPOptions struct {
	// Client defaults to httputil.NewHTTPClient(nil, 0).
	Client *http.Client
	// Referer is sent with every request, normally the catalog root.
	Referer string
	// Retries is passed to httputil.DoWithRetry.
	Retries int
	// DebugDir, when set, receives a raw copy of every response.
	DebugDir string
	Logger   zerolog.Logger
}

// HTTPSource fetches pages with a plain HTTP client. Non-2xx responses with a
// body are still parsed since the catalog serves usable markup on errors.
type HTTPSource struct {
	client   *http.Client
	referer  string
	retries  int
	debugDir string
	logger   zerolog.Logger
}

func NewHTTPSource(opts HTTPOptions) *HTTPSource {
	client := opts.Client
	if client == nil {
		client = httputil.NewHTTPClient(nil, 0)
	}
	if client.Jar == nil {
		jar, _ := cookiejar.New(nil)
		c := *client
		c.Jar = jar
		client = &c
	}
	return &HTTPSource{
		client:   client,
		referer:  opts.Referer,
		retries:  opts.Retries,
		debugDir: opts.DebugDir,
		logger:   opts.Logger,
	}
}

func (s *HTTPSource) Name() string { return "http" }

func (s *HTTPSource) Fetch(ctx context.Context, pageURL string) (*goquery.Document, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, pageURL, nil)
	if err != nil {
		return nil, &platform.FetchError{URL: pageURL, Err: err}
	}
	httputil.Apply(req, httputil.BrowserHeaders(s.referer))

	resp, err := httputil.DoWithRetry(s.client, req, s.retries)
	if err != nil {
		return nil, &platform.FetchError{URL: pageURL, Err: err}
	}
	defer resp.Body.Close()

	body, err := httputil.ReadBody(resp)
	if err != nil {
		return nil, &platform.FetchError{URL: pageURL, Status: resp.StatusCode, Err: fmt.Errorf("read body: %w", err)}
	}

	if s.debugDir != "" {
		if err := writeDebug(s.debugDir, pageURL, resp.StatusCode, body); err != nil {
			s.logger.Warn().Err(err).Str("url", pageURL).Msg("debug dump failed")
		}
	}

	if len(bytes.TrimSpace(body)) == 0 {
		return nil, &platform.FetchError{
			URL:    pageURL,
			Status: resp.StatusCode,
			Err:    fmt.Errorf("%w: empty body", platform.ErrUnparseable),
		}
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		s.logger.Warn().Int("status", resp.StatusCode).Str("url", pageURL).Msg("non-2xx response, parsing body anyway")
	}

	r, err := charset.NewReader(bytes.NewReader(body), resp.Header.Get("Content-Type"))
	if err != nil {
		return nil, &platform.FetchError{URL: pageURL, Status: resp.StatusCode, Err: fmt.Errorf("%w: %v", platform.ErrUnparseable, err)}
	}
	doc, err := goquery.NewDocumentFromReader(r)
	if err != nil {
		return nil, &platform.FetchError{URL: pageURL, Status: resp.StatusCode, Err: fmt.Errorf("%w: %v", platform.ErrUnparseable, err)}
	}
	doc.Url = resp.Request.URL
	return doc, nil
}

var unsafeName = regexp.MustCompile(`(?i)[^a-z0-9]+`)

// DebugFileName is the dump file written for pageURL.
func DebugFileName(pageURL string) string {
	return "net_" + unsafeName.ReplaceAllString(pageURL, "_") + ".html"
}

func writeDebug(dir, pageURL string, status int, body []byte) error {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create debug dir: %w", err)
	}
	var buf bytes.Buffer
	fmt.Fprintf(&buf, "<!-- HTTP %d %s -->\n", status, pageURL)
	buf.Write(body)
	return os.WriteFile(filepath.Join(dir, DebugFileName(pageURL)), buf.Bytes(), 0o644)
}
