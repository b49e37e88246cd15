package observability

import (
	"context"
	"errors"

	"github.com/lukman83/catalog-scrap/internal/platform"
)

const (
	ErrorNetwork    = "network"
	ErrorHTTPStatus = "http_status"
	ErrorParse      = "parse"
	ErrorCanceled   = "canceled"
)

// ClassifyFetchError maps a page fetch failure to a metrics label.
// Returns "" for nil.
func ClassifyFetchError(err error) string {
	if err == nil {
		return ""
	}
	if errors.Is(err, context.Canceled) {
		return ErrorCanceled
	}
	if errors.Is(err, platform.ErrUnparseable) {
		return ErrorParse
	}
	var fe *platform.FetchError
	if errors.As(err, &fe) && fe.Status >= 400 {
		return ErrorHTTPStatus
	}
	return ErrorNetwork
}
