package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	HTTPRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Total number of HTTP requests.",
		},
		[]string{"method", "path", "status"},
	)

	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "Duration of HTTP requests.",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "path", "status"},
	)

	FetchesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "fetches_total",
			Help: "Total number of upstream fetch attempts.",
		},
		[]string{"fetcher", "status"}, // status: success, timeout, bad_status, error
	)

	FetchDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "fetch_duration_seconds",
			Help:    "Duration of upstream fetches.",
			Buckets: []float64{0.25, 0.5, 1, 2, 5, 10, 30, 60},
		},
		[]string{"fetcher", "domain"},
	)

	SourceCourses = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "source_courses",
			Help: "Number of courses produced by each source in its latest run.",
		},
		[]string{"source"},
	)

	SourceScrapeDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "source_scrape_duration_seconds",
			Help:    "Duration of a full scrape of one source.",
			Buckets: []float64{1, 5, 10, 15, 30, 60, 120},
		},
		[]string{"source"},
	)

	SourceFailuresTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "source_failures_total",
			Help: "Total number of source runs that produced no courses.",
		},
		[]string{"source", "status"},
	)

	ItemsSkippedTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "source_items_skipped_total",
			Help: "Total number of listing items skipped during extraction.",
		},
		[]string{"source"},
	)

	AggregationsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "aggregations_total",
			Help: "Total number of aggregation runs.",
		},
		[]string{"trigger"},
	)

	CacheLookupsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "cache_lookups_total",
			Help: "Total number of course cache lookups.",
		},
		[]string{"result"}, // hit, miss, error
	)
)
