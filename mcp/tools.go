package mcp

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/lukman83/catalog-scrap/internal/catalog"
	"github.com/lukman83/catalog-scrap/internal/storage"
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
)

type toolHandlers struct {
	svc *catalog.Service
}

func registerTools(s *server.MCPServer, svc *catalog.Service) {
	h := &toolHandlers{svc: svc}

	// scrape_catalog
	scrapeTool := mcp.NewTool("scrape_catalog",
		mcp.WithDescription("Crawl the configured product catalog and store the normalized products"),
	)
	s.AddTool(scrapeTool, h.handleScrapeCatalog)

	// list_products
	listTool := mcp.NewTool("list_products",
		mcp.WithDescription("List products from the most recent scrape, optionally filtered"),
		mcp.WithBoolean("available",
			mcp.Description("Only products that are (true) or are not (false) in stock"),
		),
		mcp.WithString("colour",
			mcp.Description("Colour name, case-insensitive (e.g. blue)"),
		),
		mcp.WithNumber("min_capacity_mb",
			mcp.Description("Minimum storage capacity in MB (64GB = 65536)"),
		),
		mcp.WithNumber("max_price",
			mcp.Description("Maximum price in pounds"),
		),
		mcp.WithString("query",
			mcp.Description("Substring of the product title"),
		),
		mcp.WithNumber("limit",
			mcp.Description("Maximum number of products (default: all)"),
		),
	)
	s.AddTool(listTool, h.handleListProducts)
}

type scrapeSummary struct {
	RunID    string `json:"run_id"`
	Count    int    `json:"count"`
	Pages    int    `json:"pages"`
	Stop     string `json:"stop"`
	StopErr  string `json:"stop_error,omitempty"`
	Duration string `json:"duration"`
}

func (h *toolHandlers) handleScrapeCatalog(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	run, err := h.svc.Scrape(ctx)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("scrape error: %v", err)), nil
	}

	summary := scrapeSummary{
		RunID:    run.ID,
		Count:    len(run.Products),
		Pages:    run.Pages,
		Stop:     string(run.Stop),
		Duration: run.Duration.Round(time.Millisecond).String(),
	}
	if run.StopErr != nil {
		summary.StopErr = run.StopErr.Error()
	}
	data, _ := json.MarshalIndent(summary, "", "  ")
	return mcp.NewToolResultText(string(data)), nil
}

func (h *toolHandlers) handleListProducts(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	f, err := catalog.ParseFilter(
		argString(request, "available"),
		argString(request, "colour"),
		argString(request, "min_capacity_mb"),
		argString(request, "max_price"),
		argString(request, "query"),
		argString(request, "limit"),
	)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("invalid filter: %v", err)), nil
	}

	products, err := h.svc.Products(ctx, f)
	if errors.Is(err, storage.ErrNotFound) {
		return mcp.NewToolResultError("no catalog stored yet, run scrape_catalog first"), nil
	}
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("read error: %v", err)), nil
	}

	data, _ := json.MarshalIndent(products, "", "  ")
	return mcp.NewToolResultText(string(data)), nil
}

// argString renders a tool argument as the string form ParseFilter expects.
// Clients send numbers as float64 and flags as bool.
func argString(request mcp.CallToolRequest, key string) string {
	v, ok := request.GetArguments()[key]
	if !ok || v == nil {
		return ""
	}
	switch x := v.(type) {
	case string:
		return x
	case bool:
		return strconv.FormatBool(x)
	case float64:
		return strconv.FormatFloat(x, 'f', -1, 64)
	default:
		return fmt.Sprint(x)
	}
}
