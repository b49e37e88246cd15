package observability

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics groups the scraper's Prometheus collectors. A nil *Metrics is a
// valid no-op recorder.
type Metrics struct {
	PagesFetched  *prometheus.CounterVec
	FetchFailures *prometheus.CounterVec
	Candidates    *prometheus.CounterVec
	Products      prometheus.Counter
	Duplicates    prometheus.Counter
	Runs          *prometheus.CounterVec
	RunDuration   prometheus.Histogram
	SinkFailures  *prometheus.CounterVec
}

// NewMetrics registers all collectors on reg.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	f := promauto.With(reg)
	return &Metrics{
		PagesFetched: f.NewCounterVec(prometheus.CounterOpts{
			Name: "catalog_pages_fetched_total",
			Help: "Catalog pages fetched successfully, by document source.",
		}, []string{"source"}),
		FetchFailures: f.NewCounterVec(prometheus.CounterOpts{
			Name: "catalog_fetch_failures_total",
			Help: "Catalog page fetches that ended a crawl, by failure kind.",
		}, []string{"kind"}),
		Candidates: f.NewCounterVec(prometheus.CounterOpts{
			Name: "catalog_candidates_total",
			Help: "Raw product candidates extracted, by winning strategy.",
		}, []string{"strategy"}),
		Products: f.NewCounter(prometheus.CounterOpts{
			Name: "catalog_products_total",
			Help: "Products emitted after deduplication.",
		}),
		Duplicates: f.NewCounter(prometheus.CounterOpts{
			Name: "catalog_duplicates_total",
			Help: "Records dropped by deduplication.",
		}),
		Runs: f.NewCounterVec(prometheus.CounterOpts{
			Name: "catalog_runs_total",
			Help: "Completed crawls, by stop reason.",
		}, []string{"stop"}),
		RunDuration: f.NewHistogram(prometheus.HistogramOpts{
			Name:    "catalog_run_duration_seconds",
			Help:    "Wall time of a full crawl.",
			Buckets: prometheus.ExponentialBuckets(0.5, 2, 10),
		}),
		SinkFailures: f.NewCounterVec(prometheus.CounterOpts{
			Name: "catalog_sink_failures_total",
			Help: "Output sink writes that failed, by sink.",
		}, []string{"sink"}),
	}
}

func (m *Metrics) PageFetched(source string) {
	if m == nil {
		return
	}
	m.PagesFetched.WithLabelValues(source).Inc()
}

func (m *Metrics) FetchFailed(err error) {
	if m == nil {
		return
	}
	m.FetchFailures.WithLabelValues(ClassifyFetchError(err)).Inc()
}

func (m *Metrics) Extracted(strategy string, n int) {
	if m == nil || n == 0 {
		return
	}
	m.Candidates.WithLabelValues(strategy).Add(float64(n))
}

func (m *Metrics) RunFinished(stop string, products, duplicates int, elapsed time.Duration) {
	if m == nil {
		return
	}
	m.Products.Add(float64(products))
	m.Duplicates.Add(float64(duplicates))
	m.Runs.WithLabelValues(stop).Inc()
	m.RunDuration.Observe(elapsed.Seconds())
}

func (m *Metrics) SinkFailed(sink string) {
	if m == nil {
		return
	}
	m.SinkFailures.WithLabelValues(sink).Inc()
}

// Handler exposes g in the Prometheus text format.
func Handler(g prometheus.Gatherer) http.Handler {
	return promhttp.HandlerFor(g, promhttp.HandlerOpts{})
}
