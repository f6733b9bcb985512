// SPDX-License-Identifier: MIT

package api

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/phantomlabs/phantom/internal/bus"
	"github.com/phantomlabs/phantom/internal/event"
	"github.com/phantomlabs/phantom/internal/ingest"
)

// handleIngest accepts one interaction event from the tracking agent.
func (s *Server) handleIngest(w http.ResponseWriter, r *http.Request) {
	var ev event.Event
	if err := json.NewDecoder(r.Body).Decode(&ev); err != nil {
		writeInvalidRequest(w, "malformed JSON body")
		return
	}

	// The agent usually sends the session token in the payload; the cookie
	// covers agents that rely on ambient credentials.
	if ev.SessionID == "" {
		if c, err := r.Cookie(SessionCookieName); err == nil {
			ev.SessionID = c.Value
		}
	}

	_, err := s.deps.Gateway.Accept(r.Context(), ev, ingest.RequestContext{
		UserAgent: r.UserAgent(),
	})
	if err != nil {
		var verr *event.ValidationError
		switch {
		case errors.As(err, &verr):
			writeValidationError(w, verr.Field, verr.Reason)
		case errors.Is(err, ingest.ErrRateLimited):
			writeJSON(w, http.StatusTooManyRequests, errorBody{Error: "rate_limit_exceeded"})
		case errors.Is(err, bus.ErrUnavailable):
			writeUpstreamUnavailable(w, "event bus unavailable")
		default:
			writeInternal(w)
		}
		return
	}

	writeJSON(w, http.StatusOK, map[string]bool{"success": true})
}
