// SPDX-License-Identifier: MIT

package log

import (
	"context"
	"testing"
)

func TestRequestIDRoundTrip(t *testing.T) {
	ctx := ContextWithRequestID(context.Background(), "req-123")
	if got := RequestIDFromContext(ctx); got != "req-123" {
		t.Fatalf("expected req-123, got %q", got)
	}
}

func TestRequestIDMissing(t *testing.T) {
	if got := RequestIDFromContext(context.Background()); got != "" {
		t.Fatalf("expected empty request id, got %q", got)
	}
	if got := RequestIDFromContext(nil); got != "" { //nolint:staticcheck // nil ctx is part of the contract
		t.Fatalf("expected empty request id for nil ctx, got %q", got)
	}
}

func TestWithComponentDoesNotPanic(t *testing.T) {
	l := WithComponent("test")
	l.Debug().Msg("component logger works")

	l = WithComponentFromContext(ContextWithRequestID(context.Background(), "r1"), "test")
	l.Debug().Msg("context logger works")
}
