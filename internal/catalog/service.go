package catalog

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/lukman83/catalog-scrap/internal/models"
	"github.com/lukman83/catalog-scrap/internal/storage"
	"github.com/rs/zerolog"
)

// ErrRunInProgress is returned when a scrape is requested while one runs.
var ErrRunInProgress = errors.New("a scrape is already running")

// Run summarizes one completed scrape.
type Run struct {
	ID       string
	Products []models.Product
	Pages    int
	Raw      int
	Stop     StopReason
	StopErr  error
	Duration time.Duration
}

// Service runs crawls and serves the stored catalog. It is shared by the
// CLI, the HTTP API and the MCP tools.
type Service struct {
	crawler Crawler
	sink    storage.Sink
	store   storage.Reader
	logger  zerolog.Logger

	mu sync.Mutex
}

// NewService uses crawler as a template for every run. Products go to sink
// and are read back from store.
func NewService(crawler Crawler, sink storage.Sink, store storage.Reader, logger zerolog.Logger) *Service {
	return &Service{crawler: crawler, sink: sink, store: store, logger: logger}
}

// Scrape crawls the catalog and writes the result. Only one scrape runs at
// a time; concurrent calls get ErrRunInProgress. Output is written even when
// ctx was canceled mid-crawl so the pages already fetched are not lost.
func (s *Service) Scrape(ctx context.Context) (*Run, error) {
	if !s.mu.TryLock() {
		return nil, ErrRunInProgress
	}
	defer s.mu.Unlock()

	runID := uuid.NewString()
	logger := s.logger.With().Str("run_id", runID).Logger()

	c := s.crawler
	c.Logger = logger
	start := time.Now()
	res := c.Run(ctx)

	run := &Run{
		ID:       runID,
		Products: res.Products,
		Pages:    res.Pages,
		Raw:      res.Raw,
		Stop:     res.Stop,
		StopErr:  res.Err,
		Duration: time.Since(start),
	}

	if err := s.sink.Write(context.WithoutCancel(ctx), runID, res.Products); err != nil {
		logger.Error().Err(err).Msg("writing output failed")
		return run, fmt.Errorf("write output: %w", err)
	}
	logger.Info().Int("products", len(res.Products)).Str("sink", s.sink.Name()).Msg("output written")
	return run, nil
}

// Products returns the stored catalog narrowed by f.
func (s *Service) Products(ctx context.Context, f Filter) ([]models.Product, error) {
	all, err := s.store.Read(ctx)
	if err != nil {
		return nil, err
	}
	return f.Apply(all), nil
}
