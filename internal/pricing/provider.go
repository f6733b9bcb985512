// SPDX-License-Identifier: MIT

package pricing

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"
)

// ProviderQuote is the provider's answer for one product. Everything beyond
// the price is auxiliary model output passed through opaquely; the core does
// not interpret it.
type ProviderQuote struct {
	Price      float64  `json:"price"`
	BasePrice  *float64 `json:"base_price,omitempty"`
	Markup     *float64 `json:"markup,omitempty"`
	Elasticity *float64 `json:"elasticity,omitempty"`
}

// ProviderClient talks to the external pricing provider at a mode-scoped
// endpoint, passing session/experiment context so the provider can apply
// experiment-specific pricing logic.
type ProviderClient struct {
	base string
	mode string
	http *http.Client
}

// NewProviderClient creates a client for the given provider base URL and
// store mode. timeout bounds every quote call.
func NewProviderClient(base, mode string, timeout time.Duration) *ProviderClient {
	return &ProviderClient{
		base: strings.TrimRight(base, "/"),
		mode: mode,
		http: &http.Client{Timeout: timeout},
	}
}

// Quote fetches a price for productID. sessionID and experimentID are
// forwarded as query parameters when present.
func (c *ProviderClient) Quote(ctx context.Context, productID, sessionID, experimentID string) (ProviderQuote, error) {
	q := url.Values{}
	if sessionID != "" {
		q.Set("sessionId", sessionID)
	}
	if experimentID != "" {
		q.Set("experimentId", experimentID)
	}
	u := fmt.Sprintf("%s/api/%s/price/%s", c.base, c.mode, url.PathEscape(productID))
	if enc := q.Encode(); enc != "" {
		u += "?" + enc
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return ProviderQuote{}, &ProviderError{Sentinel: ErrProviderUnavailable, ProductID: productID, Err: err}
	}
	req.Header.Set("Accept", "application/json")

	res, err := c.http.Do(req)
	if err != nil {
		return ProviderQuote{}, &ProviderError{Sentinel: ErrProviderUnavailable, ProductID: productID, Err: err}
	}
	defer res.Body.Close()

	if res.StatusCode != http.StatusOK {
		return ProviderQuote{}, &ProviderError{Sentinel: ErrProviderError, ProductID: productID, Status: res.StatusCode}
	}

	var quote ProviderQuote
	if err := json.NewDecoder(res.Body).Decode(&quote); err != nil {
		return ProviderQuote{}, &ProviderError{Sentinel: ErrProviderBadResponse, ProductID: productID, Err: err}
	}
	return quote, nil
}
