package mcp

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"

	"github.com/lukman83/catalog-scrap/internal/catalog"
	"github.com/lukman83/catalog-scrap/internal/extract"
	"github.com/lukman83/catalog-scrap/internal/models"
	"github.com/lukman83/catalog-scrap/internal/source"
	"github.com/lukman83/catalog-scrap/internal/storage"
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const catalogPage = `<html><body><div id="products">
<div class="product">
	<span class="product-name">iPhone 11</span> <span class="product-capacity">64GB</span>
	<span data-colour="Blue"></span>
	<img src="../images/iphone-11.png">
	<div class="my-8 block text-center text-lg">£699.99</div>
	<div class="my-4 text-sm block text-center">Availability: In Stock</div>
	<div class="my-4 text-sm block text-center">Delivery from 1 March 2024</div>
</div>
<div class="product">
	<span class="product-name">Nokia 3310</span> <span class="product-capacity">16MB</span>
	<span data-colour="Black"></span>
	<img src="../images/nokia.png">
	<div class="my-8 block text-center text-lg">£49.99</div>
	<div class="my-4 text-sm block text-center">Availability: Out of Stock</div>
</div>
<p>Page 1 of 1</p>
</div></body></html>`

func newTestService(t *testing.T) *catalog.Service {
	t.Helper()
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		fmt.Fprint(w, catalogPage)
	}))
	t.Cleanup(ts.Close)

	base := ts.URL + "/smartphones/"
	builder, err := catalog.NewRecordBuilder(base)
	require.NoError(t, err)

	crawler := catalog.Crawler{
		Source:    source.NewHTTPSource(source.HTTPOptions{Referer: base}),
		Extractor: extract.DefaultChain(),
		Builder:   builder,
		BaseURL:   base,
		MaxPages:  catalog.DefaultMaxPages,
	}
	out := storage.NewJSONFile(filepath.Join(t.TempDir(), "output.json"))
	return catalog.NewService(crawler, out, out, zerolog.Nop())
}

func callTool(args map[string]any) mcp.CallToolRequest {
	var req mcp.CallToolRequest
	req.Params.Arguments = args
	return req
}

func resultText(t *testing.T, res *mcp.CallToolResult) string {
	t.Helper()
	require.NotEmpty(t, res.Content)
	text, ok := res.Content[0].(mcp.TextContent)
	require.True(t, ok, "expected text content, got %T", res.Content[0])
	return text.Text
}

func TestListProducts_BeforeScrape(t *testing.T) {
	h := &toolHandlers{svc: newTestService(t)}

	res, err := h.handleListProducts(context.Background(), callTool(nil))
	require.NoError(t, err)
	assert.True(t, res.IsError)
	assert.Contains(t, resultText(t, res), "scrape_catalog")
}

func TestScrapeThenList(t *testing.T) {
	h := &toolHandlers{svc: newTestService(t)}
	ctx := context.Background()

	res, err := h.handleScrapeCatalog(ctx, callTool(nil))
	require.NoError(t, err)
	require.False(t, res.IsError, resultText(t, res))

	var summary scrapeSummary
	require.NoError(t, json.Unmarshal([]byte(resultText(t, res)), &summary))
	assert.NotEmpty(t, summary.RunID)
	assert.Equal(t, 2, summary.Count)
	assert.Equal(t, 1, summary.Pages)
	assert.Equal(t, string(catalog.StopLastPage), summary.Stop)

	t.Run("all", func(t *testing.T) {
		res, err := h.handleListProducts(ctx, callTool(nil))
		require.NoError(t, err)
		var products []models.Product
		require.NoError(t, json.Unmarshal([]byte(resultText(t, res)), &products))
		require.Len(t, products, 2)
		assert.Equal(t, "iPhone 11 64GB", products[0].Title)
		assert.True(t, strings.HasSuffix(models.Deref(products[0].ImageURL), "/images/iphone-11.png"))
	})

	t.Run("filtered with typed arguments", func(t *testing.T) {
		res, err := h.handleListProducts(ctx, callTool(map[string]any{
			"available":       true,
			"min_capacity_mb": float64(64000),
			"max_price":       float64(700),
		}))
		require.NoError(t, err)
		var products []models.Product
		require.NoError(t, json.Unmarshal([]byte(resultText(t, res)), &products))
		require.Len(t, products, 1)
		assert.Equal(t, "iPhone 11 64GB", products[0].Title)
	})

	t.Run("colour", func(t *testing.T) {
		res, err := h.handleListProducts(ctx, callTool(map[string]any{"colour": "BLACK"}))
		require.NoError(t, err)
		var products []models.Product
		require.NoError(t, json.Unmarshal([]byte(resultText(t, res)), &products))
		require.Len(t, products, 1)
		assert.Equal(t, "Nokia 3310 16MB", products[0].Title)
	})

	t.Run("invalid", func(t *testing.T) {
		res, err := h.handleListProducts(ctx, callTool(map[string]any{"limit": "lots"}))
		require.NoError(t, err)
		assert.True(t, res.IsError)
		assert.Contains(t, resultText(t, res), "limit")
	})
}

func TestArgString(t *testing.T) {
	req := callTool(map[string]any{
		"s": "x",
		"b": false,
		"f": float64(1500000),
		"n": nil,
	})
	assert.Equal(t, "x", argString(req, "s"))
	assert.Equal(t, "false", argString(req, "b"))
	assert.Equal(t, "1500000", argString(req, "f"))
	assert.Equal(t, "", argString(req, "n"))
	assert.Equal(t, "", argString(req, "missing"))
}

func TestBearerAuth(t *testing.T) {
	ok := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) { w.WriteHeader(http.StatusNoContent) })

	tests := []struct {
		name   string
		key    string
		header string
		want   int
	}{
		{"disabled", "", "", http.StatusNoContent},
		{"missing", "k", "", http.StatusUnauthorized},
		{"wrong", "k", "Bearer nope", http.StatusUnauthorized},
		{"basic scheme", "k", "Basic k", http.StatusUnauthorized},
		{"valid", "k", "Bearer k", http.StatusNoContent},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodPost, "/mcp", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			rec := httptest.NewRecorder()
			BearerAuth(tt.key, ok).ServeHTTP(rec, req)
			assert.Equal(t, tt.want, rec.Code)
		})
	}
}
