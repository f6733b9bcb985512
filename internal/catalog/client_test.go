// SPDX-License-Identifier: MIT

package catalog

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"net/url"
	"sync/atomic"
	"testing"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"

	"github.com/phantomlabs/phantom/internal/telemetry"
)

func TestProductsByTypeForwardsQuery(t *testing.T) {
	var gotPath, gotQuery string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotQuery = r.URL.RawQuery
		_, _ = w.Write([]byte(`[{"id":"p1"}]`))
	}))
	defer srv.Close()

	c := NewClient(srv.URL, time.Minute)
	defer c.Close()

	q := url.Values{"mode": {"hotel"}}
	doc, err := c.ProductsByType(context.Background(), "room", q)
	if err != nil {
		t.Fatalf("listing failed: %v", err)
	}
	if gotPath != "/api/products/type/room" {
		t.Errorf("wrong endpoint: %s", gotPath)
	}
	if gotQuery != "mode=hotel" {
		t.Errorf("query not forwarded: %q", gotQuery)
	}
	if string(doc) != `[{"id":"p1"}]` {
		t.Errorf("payload must pass through untouched, got %s", doc)
	}
}

func TestProductByIDCaches(t *testing.T) {
	var hits atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		hits.Add(1)
		_, _ = w.Write([]byte(`{"id":"p1","name":"Suite"}`))
	}))
	defer srv.Close()

	c := NewClient(srv.URL, time.Minute)
	defer c.Close()

	for i := 0; i < 3; i++ {
		if _, err := c.ProductByID(context.Background(), "p1"); err != nil {
			t.Fatal(err)
		}
	}
	if n := hits.Load(); n != 1 {
		t.Errorf("expected 1 backend hit, got %d", n)
	}
}

func TestDistinctQueriesNotConflated(t *testing.T) {
	var hits atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		hits.Add(1)
		_, _ = w.Write([]byte(`[]`))
	}))
	defer srv.Close()

	c := NewClient(srv.URL, time.Minute)
	defer c.Close()

	ctx := context.Background()
	if _, err := c.ProductsByType(ctx, "room", url.Values{"mode": {"hotel"}}); err != nil {
		t.Fatal(err)
	}
	if _, err := c.ProductsByType(ctx, "room", url.Values{"mode": {"airline"}}); err != nil {
		t.Fatal(err)
	}
	if n := hits.Load(); n != 2 {
		t.Errorf("different query strings must miss separately, got %d hits", n)
	}
}

func TestBackendDownSurfacesUnavailable(t *testing.T) {
	c := NewClient("http://127.0.0.1:1", 0)
	defer c.Close()

	_, err := c.ProductByID(context.Background(), "p1")
	if !errors.Is(err, ErrBackendUnavailable) {
		t.Fatalf("expected ErrBackendUnavailable, got %v", err)
	}
}

func TestNotFound(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	defer srv.Close()

	c := NewClient(srv.URL, 0)
	defer c.Close()

	_, err := c.ProductByID(context.Background(), "missing")
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestFetchRecordsSpan(t *testing.T) {
	sr := tracetest.NewSpanRecorder()
	tp := sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(sr))
	prev := otel.GetTracerProvider()
	otel.SetTracerProvider(tp)
	defer func() {
		otel.SetTracerProvider(prev)
		_ = tp.Shutdown(context.Background())
	}()

	c := NewClient("http://127.0.0.1:1", 0)
	defer c.Close()

	if _, err := c.ProductByID(context.Background(), "p1"); !errors.Is(err, ErrBackendUnavailable) {
		t.Fatalf("expected ErrBackendUnavailable, got %v", err)
	}

	ended := sr.Ended()
	if len(ended) != 1 {
		t.Fatalf("expected 1 span, got %d", len(ended))
	}
	if ended[0].Name() != "catalog.fetch" {
		t.Errorf("span name = %q, want catalog.fetch", ended[0].Name())
	}
	got := map[attribute.Key]attribute.Value{}
	for _, kv := range ended[0].Attributes() {
		got[kv.Key] = kv.Value
	}
	if !got[attribute.Key(telemetry.ErrorKey)].AsBool() {
		t.Error("backend failure must flag the span with error=true")
	}
	if v := got[attribute.Key(telemetry.ErrorTypeKey)].AsString(); v != "backend_unreachable" {
		t.Errorf("error.type attribute = %q, want backend_unreachable", v)
	}
}

func TestMalformedBackendBodyRejected(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`{broken`))
	}))
	defer srv.Close()

	c := NewClient(srv.URL, time.Minute)
	defer c.Close()

	_, err := c.ProductByID(context.Background(), "p1")
	if !errors.Is(err, ErrBackendUnavailable) {
		t.Fatalf("expected ErrBackendUnavailable for malformed body, got %v", err)
	}
}
