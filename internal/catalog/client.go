// SPDX-License-Identifier: MIT

// Package catalog proxies product reads to the commerce backend. Payloads
// are passed through opaquely so backend schema changes never require a
// deploy here; responses are cached briefly to absorb render storms.
package catalog

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"go.opentelemetry.io/otel/attribute"

	"github.com/phantomlabs/phantom/internal/cache"
	"github.com/phantomlabs/phantom/internal/log"
	"github.com/phantomlabs/phantom/internal/telemetry"
)

// ErrBackendUnavailable wraps any failure to obtain a product document from
// the backend.
var ErrBackendUnavailable = errors.New("catalog backend unavailable")

// ErrNotFound indicates the backend answered 404 for the requested product.
var ErrNotFound = errors.New("product not found")

// Client fetches product documents from the backend with a read-through TTL
// cache in front.
type Client struct {
	baseURL string
	http    *http.Client
	cache   *cache.Cache[json.RawMessage]
	ttl     time.Duration
}

// NewClient creates a catalog client. ttl controls how long responses are
// served from cache.
func NewClient(baseURL string, ttl time.Duration) *Client {
	return &Client{
		baseURL: baseURL,
		http:    &http.Client{Timeout: 5 * time.Second},
		cache:   cache.New[json.RawMessage](ttl),
		ttl:     ttl,
	}
}

// ProductsByType returns the backend's product listing for a product type.
// Residual query parameters (mode, filters) are forwarded verbatim and take
// part in the cache key.
func (c *Client) ProductsByType(ctx context.Context, productType string, query url.Values) (json.RawMessage, error) {
	target := fmt.Sprintf("%s/api/products/type/%s", c.baseURL, url.PathEscape(productType))
	if enc := query.Encode(); enc != "" {
		target += "?" + enc
	}
	return c.fetch(ctx, target)
}

// ProductByID returns a single product document.
func (c *Client) ProductByID(ctx context.Context, productID string) (json.RawMessage, error) {
	target := fmt.Sprintf("%s/api/products/%s", c.baseURL, url.PathEscape(productID))
	return c.fetch(ctx, target)
}

// Close releases the cache janitor.
func (c *Client) Close() {
	c.cache.Close()
}

func (c *Client) fetch(ctx context.Context, target string) (json.RawMessage, error) {
	if doc, ok := c.cache.Get(target); ok {
		cacheHits.Inc()
		return doc, nil
	}
	cacheMisses.Inc()

	ctx, span := telemetry.Tracer("phantom/catalog").Start(ctx, "catalog.fetch")
	defer span.End()
	span.SetAttributes(attribute.String("catalog.url", target))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, target, nil)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrBackendUnavailable, err)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		backendFailures.Inc()
		span.SetAttributes(telemetry.ErrorAttributes(err, "backend_unreachable")...)
		logger := log.WithComponentFromContext(ctx, "catalog")
		logger.Warn().Err(err).Msg("catalog backend request failed")
		return nil, fmt.Errorf("%w: %v", ErrBackendUnavailable, err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode == http.StatusNotFound {
		return nil, ErrNotFound
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		backendFailures.Inc()
		return nil, fmt.Errorf("%w: backend returned %d", ErrBackendUnavailable, resp.StatusCode)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, 4<<20))
	if err != nil {
		backendFailures.Inc()
		return nil, fmt.Errorf("%w: reading body: %v", ErrBackendUnavailable, err)
	}
	if !json.Valid(body) {
		backendFailures.Inc()
		return nil, fmt.Errorf("%w: backend returned malformed JSON", ErrBackendUnavailable)
	}

	c.cache.Set(target, body, c.ttl)
	return body, nil
}
