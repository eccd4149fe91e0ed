package cache

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// Hits tracks cache hits by key prefix
	Hits = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "storefront_cache_hits_total",
			Help: "Total number of cache hits",
		},
		[]string{"prefix"},
	)

	// Misses tracks cache misses by key prefix
	Misses = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "storefront_cache_misses_total",
			Help: "Total number of cache misses",
		},
		[]string{"prefix"},
	)

	// Errors tracks cache operation errors
	Errors = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "storefront_cache_errors_total",
			Help: "Total number of cache operation errors",
		},
		[]string{"operation"}, // "get", "set"
	)
)
