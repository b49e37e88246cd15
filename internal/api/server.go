package api

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog"

	"github.com/lukman83/catalog-scrap/internal/catalog"
	"github.com/lukman83/catalog-scrap/internal/observability"
	mcpserver "github.com/lukman83/catalog-scrap/mcp"
)

// Options configures a Server.
type Options struct {
	// APIKey guards POST /scrape and /mcp when set.
	APIKey string
	// Gatherer backs GET /metrics; nil leaves the route out.
	Gatherer prometheus.Gatherer
	Logger   zerolog.Logger
}

type Server struct {
	router *chi.Mux
	svc    *catalog.Service
	opts   Options
}

func NewServer(svc *catalog.Service, opts Options) *Server {
	s := &Server{
		router: chi.NewRouter(),
		svc:    svc,
		opts:   opts,
	}

	s.setupRoutes()
	return s
}

func (s *Server) setupRoutes() {
	s.router.Use(middleware.RequestID)
	s.router.Use(requestLogger(s.opts.Logger))
	s.router.Use(middleware.Recoverer)
	s.router.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{"GET", "POST", "DELETE", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Authorization", "Content-Type", "Mcp-Session-Id"},
	}))

	s.router.Get("/healthz", s.handleHealth)
	s.router.Get("/products", s.handleListProducts)
	if s.opts.Gatherer != nil {
		s.router.Handle("/metrics", observability.Handler(s.opts.Gatherer))
	}

	s.router.Group(func(r chi.Router) {
		r.Use(func(next http.Handler) http.Handler { return mcpserver.BearerAuth(s.opts.APIKey, next) })
		r.Post("/scrape", s.handleScrape)
		r.Handle("/mcp", mcpserver.Handler(s.svc))
	})
}

func (s *Server) Router() http.Handler {
	return s.router
}

// HTTPServer wraps the router with timeouts. Writes get a long deadline
// because POST /scrape answers only after the whole crawl.
func (s *Server) HTTPServer(addr string) *http.Server {
	return &http.Server{
		Addr:         addr,
		Handler:      s.router,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 15 * time.Minute,
		IdleTimeout:  120 * time.Second,
	}
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// requestLogger logs one line per request on logger.
func requestLogger(logger zerolog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
			start := time.Now()
			defer func() {
				logger.Info().
					Str("method", r.Method).
					Str("path", r.URL.Path).
					Int("status", ww.Status()).
					Int("bytes", ww.BytesWritten()).
					Str("request_id", middleware.GetReqID(r.Context())).
					Dur("elapsed", time.Since(start)).
					Msg("request")
			}()
			next.ServeHTTP(ww, r)
		})
	}
}

func respondJSON(w http.ResponseWriter, status int, payload interface{}) {
	response, _ := json.Marshal(payload)
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	w.Write(response)
}

func respondError(w http.ResponseWriter, status int, message string) {
	respondJSON(w, status, map[string]string{"error": message})
}
