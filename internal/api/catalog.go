// SPDX-License-Identifier: MIT

package api

import (
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/phantomlabs/phantom/internal/catalog"
)

// handleProductsByType proxies the backend product listing. The type query
// parameter selects the vertical; remaining parameters pass through.
func (s *Server) handleProductsByType(w http.ResponseWriter, r *http.Request) {
	if s.deps.Catalog == nil {
		writeUpstreamUnavailable(w, "catalog backend not configured")
		return
	}

	q := r.URL.Query()
	productType := q.Get("type")
	if productType == "" {
		productType = s.cfg.StoreMode
	}
	q.Del("type")

	doc, err := s.deps.Catalog.ProductsByType(r.Context(), productType, q)
	if err != nil {
		writeUpstreamUnavailable(w, "catalog backend unavailable")
		return
	}

	w.Header().Set("Content-Type", "application/json")
	_, _ = w.Write(doc)
}

func (s *Server) handleProductByID(w http.ResponseWriter, r *http.Request) {
	if s.deps.Catalog == nil {
		writeUpstreamUnavailable(w, "catalog backend not configured")
		return
	}

	doc, err := s.deps.Catalog.ProductByID(r.Context(), chi.URLParam(r, "productID"))
	if err != nil {
		if errors.Is(err, catalog.ErrNotFound) {
			writeNotFound(w)
			return
		}
		writeUpstreamUnavailable(w, "catalog backend unavailable")
		return
	}

	w.Header().Set("Content-Type", "application/json")
	_, _ = w.Write(doc)
}
