package cmd

import (
	"fmt"
	"io"
	"strconv"
	"time"

	"github.com/lukman83/catalog-scrap/internal/catalog"
	"github.com/lukman83/catalog-scrap/internal/models"
	"github.com/lukman83/catalog-scrap/internal/storage"
)

// printProductsTable prints products in a human-friendly card layout.
func printProductsTable(w io.Writer, products []models.Product) {
	if len(products) == 0 {
		fmt.Fprintln(w, "No products.")
		return
	}
	for i, p := range products {
		if i > 0 {
			fmt.Fprintln(w)
		}
		fmt.Fprintf(w, " %d. %s\n", i+1, truncate(p.Title, 60))

		line := "    Price: " + formatPrice(p.Price)
		if p.Colour != nil {
			line += "  |  Colour: " + *p.Colour
		}
		if p.CapacityMB != nil {
			line += "  |  Capacity: " + formatCapacity(*p.CapacityMB)
		}
		fmt.Fprintln(w, line)

		stock := "Out of stock"
		if p.IsAvailable {
			stock = "In stock"
		}
		if p.AvailabilityText != nil {
			stock += " (" + *p.AvailabilityText + ")"
		}
		fmt.Fprintf(w, "    %s\n", stock)

		if p.ShippingText != nil {
			ship := *p.ShippingText
			if p.ShippingDate != nil {
				ship += "  [" + *p.ShippingDate + "]"
			}
			fmt.Fprintf(w, "    %s\n", truncate(ship, 76))
		}
		if p.ImageURL != nil {
			fmt.Fprintf(w, "    %s\n", *p.ImageURL)
		}
	}
}

// printProductsJSON writes the same document as the JSON output file.
func printProductsJSON(w io.Writer, products []models.Product) error {
	data, err := storage.Encode(products)
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(w, string(data))
	return err
}

func printRunSummary(w io.Writer, run *catalog.Run, outputPath string) {
	fmt.Fprintf(w, "Run %s\n", run.ID)
	fmt.Fprintf(w, "  Pages:    %d\n", run.Pages)
	fmt.Fprintf(w, "  Products: %d (%d before dedupe)\n", len(run.Products), run.Raw)
	fmt.Fprintf(w, "  Stopped:  %s", run.Stop)
	if run.StopErr != nil {
		fmt.Fprintf(w, " (%v)", run.StopErr)
	}
	fmt.Fprintln(w)
	fmt.Fprintf(w, "  Took:     %s\n", run.Duration.Round(time.Millisecond))
	fmt.Fprintf(w, "  Output:   %s\n", outputPath)
}

// formatPrice formats a price as "£699.99", or "n/a" when unknown.
func formatPrice(p *float64) string {
	if p == nil {
		return "n/a"
	}
	return "£" + strconv.FormatFloat(*p, 'f', 2, 64)
}

// formatCapacity prints whole gigabytes as GB, anything else as MB.
func formatCapacity(mb int) string {
	if mb >= 1024 && mb%1024 == 0 {
		return strconv.Itoa(mb/1024) + "GB"
	}
	return strconv.Itoa(mb) + "MB"
}

func truncate(s string, max int) string {
	r := []rune(s)
	if len(r) <= max {
		return s
	}
	if max <= 3 {
		return string(r[:max])
	}
	return string(r[:max-3]) + "..."
}
