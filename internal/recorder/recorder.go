// SPDX-License-Identifier: MIT

// Package recorder ships session snapshots to the optional external
// system-of-record. All backends are best-effort: the session store logs
// failures and never blocks on them.
package recorder

import (
	"context"

	"github.com/phantomlabs/phantom/internal/session"
)

// Recorder persists session snapshots keyed by session id. Implementations
// must be safe for use from a single background worker goroutine.
type Recorder interface {
	Record(ctx context.Context, s session.Session) error
	Close() error
}
