// SPDX-License-Identifier: MIT

package catalog

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	cacheHits = promauto.NewCounter(prometheus.CounterOpts{
		Name: "phantom_catalog_cache_hits_total",
		Help: "Product reads served from the catalog cache.",
	})
	cacheMisses = promauto.NewCounter(prometheus.CounterOpts{
		Name: "phantom_catalog_cache_misses_total",
		Help: "Product reads that went to the backend.",
	})
	backendFailures = promauto.NewCounter(prometheus.CounterOpts{
		Name: "phantom_catalog_backend_failures_total",
		Help: "Failed catalog backend requests.",
	})
)
