package cmd

import (
	"context"
	"errors"
	"fmt"

	"github.com/lukman83/catalog-scrap/internal/catalog"
	"github.com/lukman83/catalog-scrap/internal/storage"
	"github.com/spf13/cobra"
)

var productsCmd = &cobra.Command{
	Use:   "products",
	Short: "Show products from the last scrape",
	RunE:  runProducts,
}

func init() {
	productsCmd.Flags().String("available", "", "Filter by availability: true, false")
	productsCmd.Flags().String("colour", "", "Filter by colour")
	productsCmd.Flags().String("min-capacity-mb", "", "Minimum capacity in MB")
	productsCmd.Flags().String("max-price", "", "Maximum price")
	productsCmd.Flags().StringP("query", "q", "", "Title substring")
	productsCmd.Flags().String("limit", "", "Maximum number of products")
	productsCmd.Flags().String("format", "table", "Output format: json, table")
	rootCmd.AddCommand(productsCmd)
}

func runProducts(cmd *cobra.Command, args []string) error {
	flags := cmd.Flags()
	available, _ := flags.GetString("available")
	colour, _ := flags.GetString("colour")
	minCapacity, _ := flags.GetString("min-capacity-mb")
	maxPrice, _ := flags.GetString("max-price")
	query, _ := flags.GetString("query")
	limit, _ := flags.GetString("limit")
	format, _ := flags.GetString("format")

	f, err := catalog.ParseFilter(available, colour, minCapacity, maxPrice, query, limit)
	if err != nil {
		return err
	}

	ctx := context.Background()
	a, err := buildApp(ctx)
	if err != nil {
		return err
	}
	defer a.Close()

	products, err := a.svc.Products(ctx, f)
	if errors.Is(err, storage.ErrNotFound) {
		return fmt.Errorf("no catalog stored yet, run `catalog-scrap scrape` first")
	}
	if err != nil {
		return err
	}

	switch format {
	case "json":
		return printProductsJSON(cmd.OutOrStdout(), products)
	default:
		printProductsTable(cmd.OutOrStdout(), products)
	}
	return nil
}
