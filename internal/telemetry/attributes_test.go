// SPDX-License-Identifier: MIT
package telemetry

import (
	"errors"
	"testing"

	"go.opentelemetry.io/otel/attribute"
)

func TestAttributionAttributes(t *testing.T) {
	tests := []struct {
		name         string
		sessionID    string
		experimentID string
		storeMode    string
		wantLen      int
	}{
		{
			name:         "all fields",
			sessionID:    "s-1",
			experimentID: "e-1",
			storeMode:    "hotel",
			wantLen:      3,
		},
		{
			name:      "only session",
			sessionID: "s-1",
			wantLen:   1,
		},
		{
			name:    "empty fields",
			wantLen: 0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			attrs := AttributionAttributes(tt.sessionID, tt.experimentID, tt.storeMode)
			if len(attrs) != tt.wantLen {
				t.Errorf("Expected %d attributes, got %d", tt.wantLen, len(attrs))
			}
		})
	}
}

func TestEventAttributes(t *testing.T) {
	attrs := EventAttributes("add_to_cart", "/products/p1")

	if len(attrs) != 2 {
		t.Fatalf("Expected 2 attributes, got %d", len(attrs))
	}
	verifyAttribute(t, attrs, EventNameKey, "add_to_cart")
	verifyAttribute(t, attrs, EventPageKey, "/products/p1")
}

func TestPricingAttributes(t *testing.T) {
	attrs := PricingAttributes("p1", "fallback", 123.45)

	if len(attrs) != 3 {
		t.Fatalf("Expected 3 attributes, got %d", len(attrs))
	}
	verifyAttribute(t, attrs, PricingProductKey, "p1")
	verifyAttribute(t, attrs, PricingSourceKey, "fallback")
}

func TestErrorAttributes(t *testing.T) {
	attrs := ErrorAttributes(errors.New("boom"), "upstream_unavailable")

	if len(attrs) != 2 {
		t.Fatalf("Expected 2 attributes, got %d", len(attrs))
	}
	verifyAttribute(t, attrs, ErrorTypeKey, "upstream_unavailable")
}

func verifyAttribute(t *testing.T, attrs []attribute.KeyValue, key, want string) {
	t.Helper()
	for _, a := range attrs {
		if string(a.Key) == key {
			if got := a.Value.AsString(); got != want {
				t.Errorf("attribute %s: expected %q, got %q", key, want, got)
			}
			return
		}
	}
	t.Errorf("attribute %s not found", key)
}
