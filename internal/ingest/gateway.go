// SPDX-License-Identifier: MIT

// Package ingest receives client-emitted interaction events, enriches them
// with server-known context, validates them and forwards them to the event
// bus.
package ingest

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.opentelemetry.io/otel/trace"

	"github.com/phantomlabs/phantom/internal/bus"
	"github.com/phantomlabs/phantom/internal/event"
	"github.com/phantomlabs/phantom/internal/log"
	"github.com/phantomlabs/phantom/internal/ratelimit"
	"github.com/phantomlabs/phantom/internal/telemetry"
)

// ErrRateLimited is returned when a session emits events faster than the
// configured per-session budget.
var ErrRateLimited = errors.New("ingest: session event rate exceeded")

// RequestContext carries transport-derived fields the client cannot be
// trusted to supply.
type RequestContext struct {
	UserAgent string
}

// Config holds gateway settings.
type Config struct {
	// StoreMode stamps events whose client left the mode empty.
	StoreMode string
	// PublishTimeout bounds the forward-to-bus call.
	PublishTimeout time.Duration
	// DevLogging logs every accepted event; never enabled in production.
	DevLogging bool
}

// Gateway validates and forwards interaction events. Unlike session
// replication, a failed forward is surfaced to the caller: there is no safe
// fallback value for a lost event.
type Gateway struct {
	cfg     Config
	bus     bus.Publisher
	limiter *ratelimit.SessionLimiter
	now     func() time.Time
}

// New creates a gateway publishing to the given bus. limiter may be nil to
// disable per-session limiting.
func New(cfg Config, publisher bus.Publisher, limiter *ratelimit.SessionLimiter) *Gateway {
	return &Gateway{
		cfg:     cfg,
		bus:     publisher,
		limiter: limiter,
		now:     time.Now,
	}
}

// Accept merges server context into the partially-formed event, validates
// it and forwards the canonical event to the bus. The returned event is the
// canonical form actually published.
//
// Error contract: *event.ValidationError for schema rejections,
// ErrRateLimited for throttled sessions, bus.ErrUnavailable (wrapped) when
// the sink cannot be reached.
func (g *Gateway) Accept(ctx context.Context, raw event.Event, rc RequestContext) (event.Event, error) {
	ev := raw

	// Server-side enrichment: client-declared storeMode survives only when
	// present, userAgent always comes from the transport layer, ts defaults
	// to receipt time.
	if ev.StoreMode == "" {
		ev.StoreMode = g.cfg.StoreMode
	}
	if rc.UserAgent != "" {
		ev.UserAgent = rc.UserAgent
	}
	if ev.TS == "" {
		ev.TS = g.now().UTC().Format(time.RFC3339)
	}

	if verr := event.Validate(ev); verr != nil {
		eventsRejected.WithLabelValues(verr.Field).Inc()
		return event.Event{}, verr
	}

	span := trace.SpanFromContext(ctx)
	span.SetAttributes(telemetry.AttributionAttributes(ev.SessionID, ev.ExperimentID, ev.StoreMode)...)
	span.SetAttributes(telemetry.EventAttributes(string(ev.EventName), ev.Page)...)

	if g.limiter != nil && !g.limiter.Allow(ev.SessionID) {
		return event.Event{}, ErrRateLimited
	}

	pubCtx, cancel := context.WithTimeout(ctx, g.cfg.PublishTimeout)
	defer cancel()
	if err := g.bus.Publish(pubCtx, bus.TopicInteractions, ev); err != nil {
		return event.Event{}, fmt.Errorf("ingest: forward event: %w", err)
	}

	eventsAccepted.WithLabelValues(string(ev.EventName)).Inc()

	if g.cfg.DevLogging {
		logger := log.WithComponentFromContext(ctx, "ingest")
		logger.Debug().
			Str(log.FieldSessionID, ev.SessionID).
			Str(log.FieldEventName, string(ev.EventName)).
			Str(log.FieldStoreMode, ev.StoreMode).
			Str(log.FieldPage, ev.Page).
			Msg("event accepted")
	}

	return ev, nil
}
