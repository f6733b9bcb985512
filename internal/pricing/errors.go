// SPDX-License-Identifier: MIT

package pricing

import (
	"errors"
	"fmt"
)

// ErrMissingProduct is the only caller-visible pricing error: a quote
// request without a product id. Provider failures are absorbed by the
// fallback path and never surfaced.
var ErrMissingProduct = errors.New("pricing: productId is required")

// Sentinel errors for errors.Is checks against the provider client.
var (
	ErrProviderUnavailable = errors.New("provider: host unreachable or transport failure")
	ErrProviderError       = errors.New("provider: non-success status")
	ErrProviderBadResponse = errors.New("provider: malformed response body")
)

// ProviderError wraps the sentinel errors with call context for logs.
type ProviderError struct {
	Sentinel  error
	ProductID string
	Status    int
	Err       error
}

func (e *ProviderError) Error() string {
	msg := fmt.Sprintf("pricing provider: product %s: %v", e.ProductID, e.Sentinel)
	if e.Status > 0 {
		msg = fmt.Sprintf("%s (HTTP %d)", msg, e.Status)
	}
	if e.Err != nil {
		msg = fmt.Sprintf("%s: %v", msg, e.Err)
	}
	return msg
}

func (e *ProviderError) Unwrap() error {
	return e.Sentinel
}
