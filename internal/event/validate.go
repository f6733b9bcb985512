// SPDX-License-Identifier: MIT

package event

import (
	"fmt"
	"time"

	"github.com/phantomlabs/phantom/internal/config"
)

// ValidationError names the offending field of a rejected event. It is
// user-visible and intentionally free of internal detail.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid event: field %q %s", e.Field, e.Reason)
}

// Validate checks ev against the schema contract. It is a pure function of
// the event's fields: re-validating an accepted event always succeeds.
// Metadata is deliberately left unconstrained beyond being a mapping.
func Validate(ev Event) *ValidationError {
	if ev.SessionID == "" {
		return &ValidationError{Field: "sessionId", Reason: "must not be empty"}
	}
	if ev.StoreMode != config.ModeHotel && ev.StoreMode != config.ModeAirline {
		return &ValidationError{Field: "storeMode", Reason: fmt.Sprintf("must be %q or %q", config.ModeHotel, config.ModeAirline)}
	}
	if _, err := time.Parse(time.RFC3339, ev.TS); err != nil {
		return &ValidationError{Field: "ts", Reason: "must be a valid RFC 3339 timestamp"}
	}
	if ev.Page == "" {
		return &ValidationError{Field: "page", Reason: "must not be empty"}
	}
	if !KnownName(ev.EventName) {
		return &ValidationError{Field: "eventName", Reason: "is not a recognised event name"}
	}
	return nil
}
