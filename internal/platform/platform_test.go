package platform

import (
	"context"
	"errors"
	"io"
	"testing"

	"github.com/PuerkitoBio/goquery"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubSource struct{ name string }

func (s stubSource) Name() string { return s.name }
func (s stubSource) Fetch(context.Context, string) (*goquery.Document, error) {
	return nil, errors.New("not implemented")
}

func TestFetchError(t *testing.T) {
	t.Parallel()

	err := error(&FetchError{URL: "https://example.com/?page=2", Status: 503, Err: io.ErrUnexpectedEOF})
	assert.Equal(t, "fetch https://example.com/?page=2: status 503: unexpected EOF", err.Error())
	assert.ErrorIs(t, err, io.ErrUnexpectedEOF)

	wrapped := errors.Join(errors.New("crawl"), err)
	var fe *FetchError
	require.ErrorAs(t, wrapped, &fe)
	assert.Equal(t, 503, fe.Status)

	noStatus := &FetchError{URL: "u", Err: context.Canceled}
	assert.Equal(t, "fetch u: context canceled", noStatus.Error())
}

func TestRegistry(t *testing.T) {
	Register("zz-test", func() (DocumentSource, error) { return stubSource{name: "zz-test"}, nil })
	Register("aa-test", func() (DocumentSource, error) { return nil, errors.New("no browser") })

	src, err := Get("zz-test")
	require.NoError(t, err)
	assert.Equal(t, "zz-test", src.Name())

	_, err = Get("aa-test")
	assert.EqualError(t, err, "no browser")

	_, err = Get("missing")
	assert.ErrorContains(t, err, `source "missing" not registered`)

	names := List()
	assert.Subset(t, names, []string{"aa-test", "zz-test"})
	assert.IsNonDecreasing(t, names)
}

func TestReportProgress(t *testing.T) {
	t.Parallel()

	ReportProgress(context.Background(), "ignored")
	ReportProgressf(context.Background(), "ignored %d", 1)

	var got []string
	ctx := WithProgress(context.Background(), func(msg string) { got = append(got, msg) })
	ReportProgress(ctx, "fetching")
	ReportProgressf(ctx, "page %d: %d products", 2, 5)
	assert.Equal(t, []string{"fetching", "page 2: 5 products"}, got)
}
