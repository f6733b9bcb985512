// SPDX-License-Identifier: MIT

package ingest

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	eventsAccepted = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "phantom_ingest_events_accepted_total",
		Help: "Interaction events accepted and forwarded to the bus, by event name",
	}, []string{"event_name"})

	eventsRejected = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "phantom_ingest_events_rejected_total",
		Help: "Interaction events rejected by schema validation, by offending field",
	}, []string{"field"})
)
