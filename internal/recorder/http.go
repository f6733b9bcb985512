// SPDX-License-Identifier: MIT

package recorder

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/phantomlabs/phantom/internal/session"
)

// HTTPRecorder posts session snapshots to a remote sink, one JSON document
// per mutation. The sink's schema is deliberately flat so spreadsheet-style
// backends can ingest it directly.
type HTTPRecorder struct {
	url   string
	token string
	http  *http.Client
}

// NewHTTPRecorder creates a recorder for the given sink URL. token is
// optional; when set it is sent as a bearer token.
func NewHTTPRecorder(url, token string) *HTTPRecorder {
	return &HTTPRecorder{
		url:   strings.TrimRight(url, "/"),
		token: token,
		http:  &http.Client{Timeout: 5 * time.Second},
	}
}

type snapshotDoc struct {
	SessionID    string `json:"sessionId"`
	ExperimentID string `json:"experimentId"`
	StartedAt    string `json:"startedAt"`
	Status       string `json:"status"`
}

func (r *HTTPRecorder) Record(ctx context.Context, s session.Session) error {
	doc := snapshotDoc{
		SessionID:    s.ID,
		ExperimentID: s.ExperimentID,
		StartedAt:    s.StartedAt.Format(time.RFC3339),
		Status:       string(s.Status),
	}
	body, err := json.Marshal(doc)
	if err != nil {
		return fmt.Errorf("recorder: marshal snapshot: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, r.url, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("recorder: build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if r.token != "" {
		req.Header.Set("Authorization", "Bearer "+r.token)
	}

	res, err := r.http.Do(req)
	if err != nil {
		return fmt.Errorf("recorder: post snapshot: %w", err)
	}
	defer func() {
		_, _ = io.Copy(io.Discard, res.Body)
		_ = res.Body.Close()
	}()

	if res.StatusCode < 200 || res.StatusCode > 299 {
		return fmt.Errorf("recorder: sink returned HTTP %d", res.StatusCode)
	}
	return nil
}

func (r *HTTPRecorder) Close() error { return nil }
