package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/lukman83/catalog-scrap/internal/platform"
	"github.com/lukman83/catalog-scrap/internal/ui"
	"github.com/spf13/cobra"
)

var scrapeCmd = &cobra.Command{
	Use:   "scrape",
	Short: "Crawl the catalog and write the normalized products",
	Long: "Fetch catalog pages from page 1 until an empty page, the advertised last page or\n" +
		"the page cap, then write the deduplicated products. Ctrl-C stops the crawl and\n" +
		"keeps what was already collected.",
	RunE: runScrape,
}

func init() {
	scrapeCmd.Flags().String("format", "summary", "Output format: summary, json, table")
	rootCmd.AddCommand(scrapeCmd)
}

func runScrape(cmd *cobra.Command, args []string) error {
	format, _ := cmd.Flags().GetString("format")

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	a, err := buildApp(ctx)
	if err != nil {
		return err
	}
	defer a.Close()

	spin := ui.NewSpinner(os.Stderr)
	spin.Start(fmt.Sprintf("Scraping %s...", cfg.CatalogURL))
	run, err := a.svc.Scrape(platform.WithProgress(ctx, spin.Update))
	spin.Stop()
	if run == nil {
		return fmt.Errorf("scrape failed: %w", err)
	}

	switch format {
	case "json":
		if werr := printProductsJSON(cmd.OutOrStdout(), run.Products); werr != nil {
			return werr
		}
	case "table":
		printProductsTable(cmd.OutOrStdout(), run.Products)
	default:
		printRunSummary(cmd.OutOrStdout(), run, cfg.OutputPath)
	}

	if err != nil {
		return fmt.Errorf("scrape failed: %w", err)
	}
	return nil
}
