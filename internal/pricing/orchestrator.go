// SPDX-License-Identifier: MIT

// Package pricing produces price quotes for products, attributing every
// quote to a session and optionally an experiment. Provider failures are a
// designed degrade: the caller always gets a price.
package pricing

import (
	"context"
	"math"
	"math/rand/v2"
	"time"

	"go.opentelemetry.io/otel/trace"

	"github.com/phantomlabs/phantom/internal/log"
	"github.com/phantomlabs/phantom/internal/telemetry"
)

// Fallback price band in currency units. When the provider is unreachable
// the quote is drawn uniformly from [FallbackMin, FallbackMax) and rounded
// to cents: commercial continuity over correctness.
const (
	FallbackMin = 100.0
	FallbackMax = 1000.0
)

// Provider is the external pricing service the orchestrator calls on the
// request's critical path.
type Provider interface {
	Quote(ctx context.Context, productID, sessionID, experimentID string) (ProviderQuote, error)
}

// Quote is the caller-facing price. Consumers must treat it as stale once
// the configured threshold has elapsed since CachedAt.
type Quote struct {
	Price    float64   `json:"price"`
	Currency string    `json:"currency"`
	CachedAt time.Time `json:"cachedAt"`
}

// Request identifies what to price and for whom.
type Request struct {
	ProductID    string
	SessionID    string
	ExperimentID string
}

// Config holds orchestrator settings.
type Config struct {
	StoreMode string
	Currency  string
	// StaleAfter is exported to consumers as the quote staleness threshold.
	StaleAfter time.Duration
	// DevLogging logs every quote with the provider's auxiliary fields.
	DevLogging bool
}

// Orchestrator obtains prices from the provider, falls back locally and
// emits audit observations.
type Orchestrator struct {
	cfg      Config
	provider Provider
	audit    *AuditEmitter
	now      func() time.Time
	randF    func() float64
}

// NewOrchestrator creates an orchestrator. audit may be nil, which disables
// observation records (used in tests only; production always audits).
func NewOrchestrator(cfg Config, provider Provider, audit *AuditEmitter) *Orchestrator {
	return &Orchestrator{
		cfg:      cfg,
		provider: provider,
		audit:    audit,
		now:      time.Now,
		randF:    rand.Float64,
	}
}

// StaleAfter returns the staleness threshold consumers should apply to
// CachedAt.
func (o *Orchestrator) StaleAfter() time.Duration {
	return o.cfg.StaleAfter
}

// GetQuote implements the quote protocol: provider call on the critical
// path, pseudo-random fallback on any provider failure, unconditional
// cachedAt/currency stamping, fire-and-forget audit emission.
//
// The only caller-visible error is ErrMissingProduct.
func (o *Orchestrator) GetQuote(ctx context.Context, req Request) (Quote, error) {
	if req.ProductID == "" {
		return Quote{}, ErrMissingProduct
	}

	logger := log.WithComponentFromContext(ctx, "pricing")
	span := trace.SpanFromContext(ctx)
	ts := o.now().UTC()

	var price float64
	var aux ProviderQuote
	source := "provider"

	start := time.Now()
	pq, err := o.provider.Quote(ctx, req.ProductID, req.SessionID, req.ExperimentID)
	providerLatency.Observe(time.Since(start).Seconds())

	if err != nil {
		// A provider outage must not break the storefront.
		source = "fallback"
		price = o.fallbackPrice()
		span.SetAttributes(telemetry.ErrorAttributes(err, "provider_failure")...)
		logger.Warn().Err(err).
			Str(log.FieldProductID, req.ProductID).
			Float64(log.FieldPrice, price).
			Msg("pricing provider failed, using fallback price")
	} else {
		price = pq.Price
		aux = pq
	}
	quotesTotal.WithLabelValues(source).Inc()

	span.SetAttributes(telemetry.AttributionAttributes(req.SessionID, req.ExperimentID, o.cfg.StoreMode)...)
	span.SetAttributes(telemetry.PricingAttributes(req.ProductID, source, price)...)

	if req.SessionID != "" && o.audit != nil {
		o.audit.Emit(Observation{
			ProductID:    req.ProductID,
			Price:        price,
			SessionID:    req.SessionID,
			ExperimentID: req.ExperimentID,
			StoreMode:    o.cfg.StoreMode,
			TS:           ts.Format(time.RFC3339),
		})
	}

	if o.cfg.DevLogging {
		ev := logger.Debug().
			Str(log.FieldProductID, req.ProductID).
			Str(log.FieldSessionID, req.SessionID).
			Str(log.FieldExperimentID, req.ExperimentID).
			Str(log.FieldPriceSource, source).
			Float64(log.FieldPrice, price)
		if aux.BasePrice != nil {
			ev = ev.Float64("base_price", *aux.BasePrice)
		}
		if aux.Markup != nil {
			ev = ev.Float64("markup", *aux.Markup)
		}
		if aux.Elasticity != nil {
			ev = ev.Float64("elasticity", *aux.Elasticity)
		}
		ev.Msg("quote produced")
	}

	return Quote{
		Price:    price,
		Currency: o.cfg.Currency,
		CachedAt: ts,
	}, nil
}

func (o *Orchestrator) fallbackPrice() float64 {
	raw := FallbackMin + o.randF()*(FallbackMax-FallbackMin)
	return math.Round(raw*100) / 100
}
