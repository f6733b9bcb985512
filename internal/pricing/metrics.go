// SPDX-License-Identifier: MIT

package pricing

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	quotesTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "phantom_pricing_quotes_total",
		Help: "Price quotes produced, by source (provider or fallback)",
	}, []string{"source"})

	providerLatency = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "phantom_pricing_provider_seconds",
		Help:    "Latency of pricing provider calls in seconds",
		Buckets: prometheus.ExponentialBuckets(0.005, 2.0, 11), // 5ms .. ~5s
	})

	auditDropped = promauto.NewCounter(prometheus.CounterOpts{
		Name: "phantom_pricing_audit_dropped_total",
		Help: "Price observations dropped because the audit queue was full",
	})

	auditFailures = promauto.NewCounter(prometheus.CounterOpts{
		Name: "phantom_pricing_audit_failures_total",
		Help: "Price observations the event bus rejected or timed out on",
	})
)
