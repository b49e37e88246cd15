package cmd

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/lukman83/catalog-scrap/internal/api"
	"github.com/spf13/cobra"
)

var serveHTTPCmd = &cobra.Command{
	Use:   "serve-http",
	Short: "Start the HTTP API and MCP endpoint",
	Long: "Serve POST /scrape, GET /products, /metrics and the MCP streamable endpoint at /mcp.\n" +
		"Set CATALOG_API_KEY to require a bearer token for /scrape and /mcp.",
	RunE: runServeHTTP,
}

func init() {
	serveHTTPCmd.Flags().String("port", "", "HTTP port (default from $PORT or 8080)")
	rootCmd.AddCommand(serveHTTPCmd)
}

func runServeHTTP(cmd *cobra.Command, args []string) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	a, err := buildApp(ctx)
	if err != nil {
		return err
	}
	defer a.Close()

	port := cfg.HTTPPort
	if p, _ := cmd.Flags().GetString("port"); p != "" {
		port = p
	}
	addr := fmt.Sprintf(":%s", port)

	srv := api.NewServer(a.svc, api.Options{
		APIKey:   cfg.APIKey,
		Gatherer: a.registry,
		Logger:   logger,
	}).HTTPServer(addr)

	errCh := make(chan error, 1)
	go func() {
		logger.Info().Str("addr", addr).Bool("auth", cfg.APIKey != "").Msg("catalog HTTP server listening")
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	logger.Info().Msg("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}
