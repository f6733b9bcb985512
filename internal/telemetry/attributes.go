// SPDX-License-Identifier: MIT

package telemetry

import (
	"go.opentelemetry.io/otel/attribute"
)

// Common attribute keys for consistent tracing across the application.
const (
	// HTTP attributes
	HTTPMethodKey     = "http.method"
	HTTPStatusCodeKey = "http.status_code"
	HTTPRouteKey      = "http.route"

	// Attribution attributes
	SessionIDKey    = "session.id"
	ExperimentIDKey = "experiment.id"
	StoreModeKey    = "store.mode"

	// Event attributes
	EventNameKey = "event.name"
	EventPageKey = "event.page"

	// Pricing attributes
	PricingProductKey = "pricing.product_id"
	PricingSourceKey  = "pricing.source"
	PricingPriceKey   = "pricing.price"

	// Error attributes
	ErrorKey     = "error"
	ErrorTypeKey = "error.type"
)

// AttributionAttributes creates session/experiment span attributes,
// omitting empty values.
func AttributionAttributes(sessionID, experimentID, storeMode string) []attribute.KeyValue {
	attrs := make([]attribute.KeyValue, 0, 3)
	if sessionID != "" {
		attrs = append(attrs, attribute.String(SessionIDKey, sessionID))
	}
	if experimentID != "" {
		attrs = append(attrs, attribute.String(ExperimentIDKey, experimentID))
	}
	if storeMode != "" {
		attrs = append(attrs, attribute.String(StoreModeKey, storeMode))
	}
	return attrs
}

// EventAttributes creates interaction event span attributes.
func EventAttributes(name, page string) []attribute.KeyValue {
	return []attribute.KeyValue{
		attribute.String(EventNameKey, name),
		attribute.String(EventPageKey, page),
	}
}

// PricingAttributes creates pricing span attributes.
func PricingAttributes(productID, source string, price float64) []attribute.KeyValue {
	return []attribute.KeyValue{
		attribute.String(PricingProductKey, productID),
		attribute.String(PricingSourceKey, source),
		attribute.Float64(PricingPriceKey, price),
	}
}

// ErrorAttributes creates error-related span attributes.
func ErrorAttributes(_ error, errorType string) []attribute.KeyValue {
	return []attribute.KeyValue{
		attribute.Bool(ErrorKey, true),
		attribute.String(ErrorTypeKey, errorType),
	}
}
