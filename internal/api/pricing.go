// SPDX-License-Identifier: MIT

package api

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/phantomlabs/phantom/internal/pricing"
)

// handlePricing returns a quote for a product. The response is 200 whenever
// the request names a product; provider trouble is absorbed by the
// orchestrator's fallback.
func (s *Server) handlePricing(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	req := pricing.Request{
		ProductID:    q.Get("productId"),
		SessionID:    q.Get("sessionId"),
		ExperimentID: q.Get("experimentId"),
	}
	if req.SessionID == "" {
		if c, err := r.Cookie(SessionCookieName); err == nil {
			req.SessionID = c.Value
		}
	}

	quote, err := s.deps.Pricing.GetQuote(r.Context(), req)
	if err != nil {
		if errors.Is(err, pricing.ErrMissingProduct) {
			writeInvalidRequest(w, "productId is required")
			return
		}
		writeInternal(w)
		return
	}

	// Clients may cache the quote until the staleness threshold elapses.
	if stale := s.deps.Pricing.StaleAfter(); stale > 0 {
		w.Header().Set("Cache-Control", fmt.Sprintf("private, max-age=%d", int(stale.Seconds())))
	}
	writeJSON(w, http.StatusOK, quote)
}
