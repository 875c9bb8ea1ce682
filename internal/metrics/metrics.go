// Package metrics holds Prometheus instruments that are used across the
// service.  All collectors are registered with the global registry, so
// importing this package in main.go is enough to expose them on /metrics.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

var (
	CatalogLoadTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "catalog_load_total",
			Help: "Cumulative number of successful catalog loads.",
		})

	CatalogLoadErrorsTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "catalog_load_errors_total",
			Help: "Cumulative number of failed catalog loads.",
		})

	CatalogVideos = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "catalog_videos",
			Help: "Number of videos in the published snapshot.",
		})

	CatalogCategories = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "catalog_categories",
			Help: "Number of distinct categories in the published snapshot.",
		})

	CatalogQueriesTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "catalog_queries_total",
			Help: "Catalog reads served, by kind.",
		}, []string{"kind"})

	SourceCacheTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "source_cache_total",
			Help: "Valkey document cache lookups, by result (hit, miss, error).",
		}, []string{"result"})

	ResponseCacheTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "response_cache_total",
			Help: "In-process API response cache lookups, by result (hit, miss).",
		}, []string{"result"})

	ResponseCacheEntries = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "response_cache_entries",
			Help: "Encoded API responses currently held in process memory.",
		})

	HTTPRequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "HTTP requests served, by method and status code.",
		}, []string{"method", "status"})
)

func init() {
	prometheus.MustRegister(
		CatalogLoadTotal,
		CatalogLoadErrorsTotal,
		CatalogVideos,
		CatalogCategories,
		CatalogQueriesTotal,
		SourceCacheTotal,
		ResponseCacheTotal,
		ResponseCacheEntries,
		HTTPRequestsTotal,
	)
}
