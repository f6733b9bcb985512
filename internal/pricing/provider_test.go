// SPDX-License-Identifier: MIT

package pricing

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

func TestProviderClientQuote(t *testing.T) {
	var gotPath, gotSession, gotExperiment string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotSession = r.URL.Query().Get("sessionId")
		gotExperiment = r.URL.Query().Get("experimentId")
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"price": 250.0, "base_price": 200, "markup": 0.25, "elasticity": -1.2}`))
	}))
	defer srv.Close()

	c := NewProviderClient(srv.URL, "hotel", time.Second)
	q, err := c.Quote(context.Background(), "p1", "S1", "E1")
	if err != nil {
		t.Fatalf("quote failed: %v", err)
	}

	if gotPath != "/api/hotel/price/p1" {
		t.Errorf("wrong endpoint: %s", gotPath)
	}
	if gotSession != "S1" || gotExperiment != "E1" {
		t.Errorf("context not forwarded: session=%q experiment=%q", gotSession, gotExperiment)
	}
	if q.Price != 250.0 {
		t.Errorf("expected price 250.0, got %v", q.Price)
	}
	if q.BasePrice == nil || *q.BasePrice != 200 {
		t.Errorf("auxiliary base_price not passed through: %v", q.BasePrice)
	}
}

func TestProviderClientOmitsEmptyContext(t *testing.T) {
	var gotQuery string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotQuery = r.URL.RawQuery
		_, _ = w.Write([]byte(`{"price": 1}`))
	}))
	defer srv.Close()

	c := NewProviderClient(srv.URL, "airline", time.Second)
	if _, err := c.Quote(context.Background(), "p1", "", ""); err != nil {
		t.Fatal(err)
	}
	if gotQuery != "" {
		t.Errorf("empty context must not produce query parameters, got %q", gotQuery)
	}
}

func TestProviderClientNonSuccessStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer srv.Close()

	c := NewProviderClient(srv.URL, "hotel", time.Second)
	_, err := c.Quote(context.Background(), "p1", "", "")
	if !errors.Is(err, ErrProviderError) {
		t.Fatalf("expected ErrProviderError, got %v", err)
	}
	var perr *ProviderError
	if !errors.As(err, &perr) || perr.Status != http.StatusServiceUnavailable {
		t.Fatalf("expected rich error with status 503, got %v", err)
	}
}

func TestProviderClientMalformedBody(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`not json`))
	}))
	defer srv.Close()

	c := NewProviderClient(srv.URL, "hotel", time.Second)
	_, err := c.Quote(context.Background(), "p1", "", "")
	if !errors.Is(err, ErrProviderBadResponse) {
		t.Fatalf("expected ErrProviderBadResponse, got %v", err)
	}
}

func TestProviderClientUnreachable(t *testing.T) {
	c := NewProviderClient("http://127.0.0.1:1", "hotel", 200*time.Millisecond)
	_, err := c.Quote(context.Background(), "p1", "", "")
	if !errors.Is(err, ErrProviderUnavailable) {
		t.Fatalf("expected ErrProviderUnavailable, got %v", err)
	}
}
