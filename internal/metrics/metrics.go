// Package metrics holds the Prometheus collectors of the service.
package metrics

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	SimilarityBuildDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "similarity_build_duration_seconds",
			Help:    "Time spent vectorizing a catalog snapshot and building its similarity matrix",
			Buckets: prometheus.ExponentialBuckets(0.001, 2, 14),
		},
		[]string{"kind"},
	)

	SimilarityIndexReuse = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "similarity_index_reuse_total",
			Help: "Requests served from a cached similarity index",
		},
		[]string{"kind"},
	)

	CatalogSize = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "catalog_items",
			Help: "Catalog size seen by the last recommendation request",
		},
		[]string{"kind"},
	)

	Recommendations = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "recommendations_total",
			Help: "Recommendation requests by outcome",
		},
		[]string{"kind", "outcome"},
	)

	RecommendationCache = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "recommendation_cache_total",
			Help: "Recommendation cache lookups by result",
		},
		[]string{"result"},
	)

	RatingWrites = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "rating_writes_total",
			Help: "Rating writes by outcome",
		},
		[]string{"kind", "outcome"},
	)

	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "HTTP request latency",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "route", "status"},
	)
)

// ObserveBuild records one index build or reuse.
func ObserveBuild(kind string, items int, reused bool, d time.Duration) {
	CatalogSize.WithLabelValues(kind).Set(float64(items))
	if reused {
		SimilarityIndexReuse.WithLabelValues(kind).Inc()
		return
	}
	SimilarityBuildDuration.WithLabelValues(kind).Observe(d.Seconds())
}

// ObserveHTTP records one served request.
func ObserveHTTP(method, route string, status int, d time.Duration) {
	HTTPRequestDuration.WithLabelValues(method, route, strconv.Itoa(status)).Observe(d.Seconds())
}
