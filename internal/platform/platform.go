package platform

import (
	"context"
	"errors"
	"fmt"

	"github.com/PuerkitoBio/goquery"
	"github.com/lukman83/catalog-scrap/internal/models"
)

// DocumentSource turns a page URL into a parsed document.
type DocumentSource interface {
	Name() string
	Fetch(ctx context.Context, url string) (*goquery.Document, error)
}

// Strategy extracts raw candidates from a parsed page. Implementations must
// not keep state between calls.
type Strategy interface {
	Name() string
	Extract(doc *goquery.Document) []models.RawCandidate
}

// ErrUnparseable marks a response that arrived but could not be turned into
// a document, such as an empty body.
var ErrUnparseable = errors.New("unparseable document")

// FetchError reports a page that could not be turned into a document.
// Status is 0 when no HTTP response was received.
type FetchError struct {
	URL    string
	Status int
	Err    error
}

func (e *FetchError) Error() string {
	if e.Status > 0 {
		return fmt.Sprintf("fetch %s: status %d: %v", e.URL, e.Status, e.Err)
	}
	return fmt.Sprintf("fetch %s: %v", e.URL, e.Err)
}

func (e *FetchError) Unwrap() error { return e.Err }
