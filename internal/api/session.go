// SPDX-License-Identifier: MIT

package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/google/uuid"

	"github.com/phantomlabs/phantom/internal/log"
	"github.com/phantomlabs/phantom/internal/session"
)

const sessionCookieTTL = 30 * 24 * time.Hour

type sessionResponse struct {
	SessionID    string `json:"sessionId"`
	ExperimentID string `json:"experimentId,omitempty"`
	StartedAt    string `json:"startedAt"`
	Status       string `json:"status"`
}

type bindRequest struct {
	ExperimentID string `json:"experimentId"`
}

func sessionJSON(s session.Session) sessionResponse {
	return sessionResponse{
		SessionID:    s.ID,
		ExperimentID: s.ExperimentID,
		StartedAt:    s.StartedAt.Format(time.RFC3339),
		Status:       string(s.Status),
	}
}

func (s *Server) setSessionCookie(w http.ResponseWriter, r *http.Request, id string) {
	http.SetCookie(w, &http.Cookie{
		Name:     SessionCookieName,
		Value:    id,
		Path:     "/",
		MaxAge:   int(sessionCookieTTL.Seconds()),
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
		Secure:   r.TLS != nil,
	})
}

// resolveSession returns the session for the request's cookie, creating one
// when the cookie is absent or refers to an unknown id. A returning visitor
// keeps their token across process restarts.
func (s *Server) resolveSession(w http.ResponseWriter, r *http.Request) (session.Session, bool) {
	if c, err := r.Cookie(SessionCookieName); err == nil && c.Value != "" {
		if sess, ok := s.deps.Sessions.Get(c.Value); ok {
			return sess, true
		}
		sess, err := s.deps.Sessions.Create(c.Value)
		if err == nil {
			s.setSessionCookie(w, r, sess.ID)
			return sess, true
		}
		// Raced creation under the same token: the stored session wins.
		if sess, ok := s.deps.Sessions.Get(c.Value); ok {
			return sess, true
		}
	}

	sess, err := s.deps.Sessions.Create(uuid.NewString())
	if err != nil {
		if errors.Is(err, session.ErrIdentifierCollision) {
			writeCollision(w)
			return session.Session{}, false
		}
		writeInternal(w)
		return session.Session{}, false
	}
	s.setSessionCookie(w, r, sess.ID)
	return sess, true
}

// handleSessionBootstrap establishes or resumes a session. Repeated calls
// with a valid token return the same session.
func (s *Server) handleSessionBootstrap(w http.ResponseWriter, r *http.Request) {
	sess, ok := s.resolveSession(w, r)
	if !ok {
		return
	}

	logger := log.WithComponentFromContext(r.Context(), "api")
	logger.Debug().
		Str(log.FieldSessionID, sess.ID).
		Msg("session bootstrapped")

	writeJSON(w, http.StatusOK, sessionJSON(sess))
}

// handleSessionBind attaches the caller's session to an experiment, creating
// the session first when the caller has no token yet.
func (s *Server) handleSessionBind(w http.ResponseWriter, r *http.Request) {
	var req bindRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeInvalidRequest(w, "malformed JSON body")
		return
	}
	if req.ExperimentID == "" {
		writeInvalidRequest(w, "experimentId is required")
		return
	}

	sess, ok := s.resolveSession(w, r)
	if !ok {
		return
	}

	s.deps.Experiments.Create(sess.ID, req.ExperimentID)
	sess, _ = s.deps.Sessions.Get(sess.ID)

	logger := log.WithComponentFromContext(r.Context(), "api")
	logger.Info().
		Str(log.FieldSessionID, sess.ID).
		Str(log.FieldExperimentID, req.ExperimentID).
		Msg("session bound to experiment")

	writeJSON(w, http.StatusOK, sessionJSON(sess))
}
