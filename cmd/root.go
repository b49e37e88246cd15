package cmd

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/lukman83/catalog-scrap/config"
	"github.com/lukman83/catalog-scrap/internal/catalog"
	"github.com/lukman83/catalog-scrap/internal/extract"
	"github.com/lukman83/catalog-scrap/internal/httputil"
	"github.com/lukman83/catalog-scrap/internal/observability"
	"github.com/lukman83/catalog-scrap/internal/platform"
	"github.com/lukman83/catalog-scrap/internal/polite"
	"github.com/lukman83/catalog-scrap/internal/source"
	"github.com/lukman83/catalog-scrap/internal/storage"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
)

var (
	cfg    *config.Config
	logger zerolog.Logger
)

var rootCmd = &cobra.Command{
	Use:   "catalog-scrap",
	Short: "Catalog Scrap - product catalog scraper CLI, HTTP API & MCP server",
	Long: "Crawls a paginated product catalog, normalizes every listing into a structured\n" +
		"record and writes the deduplicated result as JSON (and optionally Postgres/Redis).",
	SilenceUsage: true,
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	cobra.OnInitialize(initConfig)

	pf := rootCmd.PersistentFlags()
	pf.String("config", "", "Path to a YAML config file")
	pf.BoolP("verbose", "v", false, "Log every page at debug level")
	pf.Bool("log-json", false, "Write logs as JSON lines")
	pf.String("url", config.DefaultCatalogURL, "Catalog URL (page 1)")
	pf.StringP("output", "o", "output.json", "Path of the JSON output file")
	pf.Int("max-pages", catalog.DefaultMaxPages, "Maximum pages to fetch (0 = no cap)")
	pf.String("source", "http", "Document source: http, headless")
	pf.String("delay-profile", "normal", "Delay profile: cautious, normal, aggressive, none")
	pf.Bool("respect-robots", true, "Respect robots.txt rules")
	pf.String("user-agent", "", "Pin a User-Agent instead of rotating browser identities")
	pf.String("proxy-file", "", "Path to proxy list file")
	pf.String("debug-dir", "", "Directory receiving raw copies of every fetched page")
}

func initConfig() {
	cfg = config.DefaultConfig()

	flags := rootCmd.PersistentFlags()
	if path, _ := flags.GetString("config"); path != "" {
		if err := cfg.LoadFile(path); err != nil {
			fmt.Fprintln(os.Stderr, err)
			os.Exit(1)
		}
	}
	cfg.LoadFromEnv()

	// Override from flags the user actually set
	if flags.Changed("verbose") {
		cfg.Verbose, _ = flags.GetBool("verbose")
	}
	if flags.Changed("log-json") {
		cfg.LogJSON, _ = flags.GetBool("log-json")
	}
	if flags.Changed("url") {
		cfg.CatalogURL, _ = flags.GetString("url")
	}
	if flags.Changed("output") {
		cfg.OutputPath, _ = flags.GetString("output")
	}
	if flags.Changed("max-pages") {
		cfg.MaxPages, _ = flags.GetInt("max-pages")
	}
	if flags.Changed("source") {
		cfg.Source, _ = flags.GetString("source")
	}
	if flags.Changed("delay-profile") {
		cfg.DelayProfile, _ = flags.GetString("delay-profile")
	}
	if flags.Changed("respect-robots") {
		cfg.RespectRobots, _ = flags.GetBool("respect-robots")
	}
	if flags.Changed("user-agent") {
		cfg.UserAgent, _ = flags.GetString("user-agent")
	}
	if flags.Changed("proxy-file") {
		cfg.ProxyFile, _ = flags.GetString("proxy-file")
	}
	if flags.Changed("debug-dir") {
		cfg.DebugDir, _ = flags.GetString("debug-dir")
	}

	logger = observability.NewLogger(os.Stderr, cfg.Verbose, cfg.LogJSON)
}

// app is the wired pipeline shared by every command.
type app struct {
	svc      *catalog.Service
	registry *prometheus.Registry
	closers  []func()
}

func (a *app) Close() {
	for i := len(a.closers) - 1; i >= 0; i-- {
		a.closers[i]()
	}
}

// buildApp wires the polite HTTP stack, the document source, the extractor
// chain and the configured sinks into a catalog.Service.
func buildApp(ctx context.Context) (*app, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	profile, err := polite.ParseDelayProfile(cfg.DelayProfile)
	if err != nil {
		return nil, err
	}

	a := &app{registry: prometheus.NewRegistry()}
	a.registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	metrics := observability.NewMetrics(a.registry)

	transport, err := polite.NewTransport(nil, polite.Options{
		UserAgent:     cfg.UserAgent,
		DelayProfile:  profile,
		RatePerSecond: cfg.RatePerSecond,
		RateBurst:     cfg.RateBurst,
		RespectRobots: cfg.RespectRobots,
		ProxyFile:     cfg.ProxyFile,
		Logger:        logger,
	})
	if err != nil {
		return nil, fmt.Errorf("build transport: %w", err)
	}

	source.Register(
		source.HTTPOptions{
			Client:   httputil.NewHTTPClient(transport, cfg.Timeout),
			Referer:  cfg.CatalogURL,
			Retries:  cfg.Retries,
			DebugDir: cfg.DebugDir,
			Logger:   logger,
		},
		source.HeadlessOptions{
			Bin:       cfg.BrowserBin,
			UserAgent: cfg.UserAgent,
			Timeout:   cfg.Timeout,
			Logger:    logger,
		},
	)
	src, err := platform.Get(cfg.Source)
	if err != nil {
		return nil, err
	}
	if c, ok := src.(io.Closer); ok {
		a.closers = append(a.closers, func() { _ = c.Close() })
	}

	builder, err := catalog.NewRecordBuilder(cfg.CatalogURL)
	if err != nil {
		a.Close()
		return nil, fmt.Errorf("catalog url: %w", err)
	}

	jsonFile := storage.NewJSONFile(cfg.OutputPath)
	sinks := []storage.Sink{jsonFile}
	var reader storage.Reader = jsonFile

	if cfg.DatabaseURL != "" {
		if err := storage.Migrate(ctx, cfg.DatabaseURL); err != nil {
			a.Close()
			return nil, err
		}
		pg, err := storage.NewPostgresWriter(ctx, cfg.DatabaseURL)
		if err != nil {
			a.Close()
			return nil, err
		}
		a.closers = append(a.closers, pg.Close)
		sinks = append(sinks, pg)
		reader = pg
	}
	if cfg.RedisURL != "" {
		rw, err := storage.NewRedisWriter(cfg.RedisURL, cfg.RedisKey, cfg.RedisTTL)
		if err != nil {
			a.Close()
			return nil, err
		}
		a.closers = append(a.closers, func() { _ = rw.Close() })
		if err := rw.Ping(ctx); err != nil {
			a.Close()
			return nil, fmt.Errorf("redis: %w", err)
		}
		sinks = append(sinks, rw)
		reader = rw
	}

	fanout := &storage.Fanout{
		Sinks: sinks,
		OnFailure: func(sink string, err error) {
			metrics.SinkFailed(sink)
			logger.Warn().Err(err).Str("sink", sink).Msg("sink write failed")
		},
	}

	crawler := catalog.Crawler{
		Source:    src,
		Extractor: extract.NewChain(
			extract.NewCardStrategy(extract.DefaultCardLayout),
			&extract.HeadingStrategy{DebugDir: cfg.DebugDir, Logger: logger},
		),
		Builder:   builder,
		BaseURL:   cfg.CatalogURL,
		MaxPages:  cfg.MaxPages,
		Logger:    logger,
		Metrics:   metrics,
	}
	a.svc = catalog.NewService(crawler, fanout, reader, logger)

	logger.Debug().
		Str("source", src.Name()).
		Str("url", cfg.CatalogURL).
		Int("sinks", len(sinks)).
		Msg("pipeline ready")
	return a, nil
}
