// SPDX-License-Identifier: MIT

package session

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	sessionsCreated = promauto.NewCounter(prometheus.CounterOpts{
		Name: "phantom_sessions_created_total",
		Help: "Sessions initialised in the in-memory store",
	})

	replicationDropped = promauto.NewCounter(prometheus.CounterOpts{
		Name: "phantom_session_replication_dropped_total",
		Help: "Session snapshots dropped because the replication queue was full",
	})

	replicationFailures = promauto.NewCounter(prometheus.CounterOpts{
		Name: "phantom_session_replication_failures_total",
		Help: "Session snapshots the system-of-record rejected or timed out on",
	})
)
