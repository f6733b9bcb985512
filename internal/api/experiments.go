// SPDX-License-Identifier: MIT

package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/phantomlabs/phantom/internal/log"
)

// handleExperimentsList returns a snapshot of all live experiments.
func (s *Server) handleExperimentsList(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.deps.Experiments.All())
}

// handleExperimentStop marks an experiment stopped. Stopping an unknown id
// is a no-op, matching the registry semantics.
func (s *Server) handleExperimentStop(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "experimentID")

	exp, ok := s.deps.Experiments.StopByID(id)
	if !ok {
		writeNotFound(w)
		return
	}

	logger := log.WithComponentFromContext(r.Context(), "api")
	logger.Info().
		Str(log.FieldExperimentID, id).
		Msg("experiment stopped")

	writeJSON(w, http.StatusOK, exp)
}
