// SPDX-License-Identifier: MIT

// Package session owns the process-wide session registry. It is the source
// of truth on the request path; an optional system-of-record receives
// best-effort snapshots of every mutation.
package session

import (
	"time"
)

// Status of a session. Sessions are never deleted during their lifetime
// window, only marked stopped.
type Status string

const (
	StatusActive  Status = "active"
	StatusStopped Status = "stopped"
)

// Session correlates a visitor's actions across requests. The ID is an
// opaque server-generated token; clients never derive meaning from it.
type Session struct {
	ID           string    `json:"sessionId"`
	ExperimentID string    `json:"experimentId,omitempty"`
	StartedAt    time.Time `json:"startedAt"`
	Status       Status    `json:"status"`
}
