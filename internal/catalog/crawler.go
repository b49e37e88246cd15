package catalog

import (
	"context"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/lukman83/catalog-scrap/internal/extract"
	"github.com/lukman83/catalog-scrap/internal/models"
	"github.com/lukman83/catalog-scrap/internal/observability"
	"github.com/lukman83/catalog-scrap/internal/platform"
	"github.com/rs/zerolog"
)

// DefaultMaxPages bounds a crawl when the site never advertises a last page.
const DefaultMaxPages = 100

// StopReason records why a crawl ended.
type StopReason string

const (
	StopFetchFailed StopReason = "fetch_failed"
	StopEmptyPage   StopReason = "empty_page"
	StopLastPage    StopReason = "last_page"
	StopPageCap     StopReason = "page_cap"
)

// Extractor pulls candidates out of a page and names the strategy used.
// *extract.Chain is the production implementation.
type Extractor interface {
	Extract(doc *goquery.Document) ([]models.RawCandidate, string)
}

// Crawler walks the catalog one page at a time until a stop condition.
type Crawler struct {
	Source    platform.DocumentSource
	Extractor Extractor
	Builder   *RecordBuilder
	BaseURL   string
	// MaxPages caps the number of pages fetched; 0 disables the cap.
	MaxPages int
	Logger   zerolog.Logger
	Metrics  *observability.Metrics
}

// Result is the outcome of one crawl.
type Result struct {
	// Products are deduplicated, in page order.
	Products []models.Product
	// Pages counts successful fetches.
	Pages int
	// Raw counts records built before deduplication.
	Raw  int
	Stop StopReason
	// Err is the fetch failure that ended the crawl, if any.
	Err error
}

// Run crawls from page 1. Records gathered before a fetch failure are kept;
// canceling ctx surfaces as such a failure.
func (c *Crawler) Run(ctx context.Context) *Result {
	start := time.Now()
	res := &Result{}
	var records []models.Product

	for page := 1; ; page++ {
		if c.MaxPages > 0 && page > c.MaxPages {
			res.Stop = StopPageCap
			break
		}

		pageURL, err := PageURL(c.BaseURL, page)
		if err != nil {
			res.Stop, res.Err = StopFetchFailed, &platform.FetchError{URL: c.BaseURL, Err: err}
			break
		}

		platform.ReportProgressf(ctx, "Fetching page %d...", page)
		doc, err := c.Source.Fetch(ctx, pageURL)
		if err != nil {
			c.Logger.Warn().Err(err).Int("page", page).Str("kind", observability.ClassifyFetchError(err)).Msg("fetch failed, stopping")
			c.Metrics.FetchFailed(err)
			res.Stop, res.Err = StopFetchFailed, err
			break
		}
		res.Pages++
		c.Metrics.PageFetched(c.Source.Name())

		candidates, strategy := c.Extractor.Extract(doc)
		c.Metrics.Extracted(strategy, len(candidates))
		c.Logger.Debug().
			Str("url", pageURL).
			Int("page", page).
			Str("strategy", strategy).
			Int("candidates", len(candidates)).
			Msg("page extracted")

		if len(candidates) == 0 {
			res.Stop = StopEmptyPage
			break
		}
		for _, cand := range candidates {
			if p, ok := c.Builder.Build(cand); ok {
				records = append(records, p)
			}
		}
		platform.ReportProgressf(ctx, "Page %d: %d products so far", page, len(records))

		if last, ok := extract.MaxPages(doc); ok && page >= last {
			res.Stop = StopLastPage
			break
		}
	}

	res.Raw = len(records)
	res.Products = Dedupe(records)

	c.Metrics.RunFinished(string(res.Stop), len(res.Products), res.Raw-len(res.Products), time.Since(start))
	c.Logger.Info().
		Int("pages", res.Pages).
		Int("raw", res.Raw).
		Int("products", len(res.Products)).
		Str("stop", string(res.Stop)).
		Dur("elapsed", time.Since(start)).
		Msg("crawl finished")
	return res
}
