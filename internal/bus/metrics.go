// SPDX-License-Identifier: MIT

package bus

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	publishTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "phantom_bus_publish_total",
		Help: "Events successfully handed to the event bus, by topic",
	}, []string{"topic"})

	publishFailures = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "phantom_bus_publish_failures_total",
		Help: "Publish attempts the event bus rejected or timed out, by topic",
	}, []string{"topic"})
)
