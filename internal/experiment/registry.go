// SPDX-License-Identifier: MIT

// Package experiment tracks controlled experiments and their attached
// sessions. Registry writes always update the session store on the same
// path, keeping the two sides of the assignment consistent.
package experiment

import (
	"sort"
	"sync"
	"time"

	"github.com/phantomlabs/phantom/internal/log"
	"github.com/phantomlabs/phantom/internal/session"
)

// Status of an experiment.
type Status string

const (
	StatusActive  Status = "active"
	StatusStopped Status = "stopped"
)

// Experiment is a named treatment sessions can be assigned to. Membership
// grows monotonically while the experiment is active; stopping it does not
// detach sessions.
type Experiment struct {
	ID         string    `json:"experimentId"`
	Status     Status    `json:"status"`
	SessionIDs []string  `json:"sessionIds"`
	CreatedAt  time.Time `json:"createdAt"`
}

type record struct {
	status    Status
	members   map[string]struct{}
	createdAt time.Time
}

// Registry is the process-wide experiment registry. It owns its map
// exclusively; all linkage to sessions goes through the session store.
type Registry struct {
	mu       sync.RWMutex
	records  map[string]*record
	sessions *session.Store
	now      func() time.Time
}

// NewRegistry creates a registry bound to the session store it keeps
// consistent with.
func NewRegistry(sessions *session.Store) *Registry {
	return &Registry{
		records:  make(map[string]*record),
		sessions: sessions,
		now:      time.Now,
	}
}

// Create registers an experiment with the given session as a member and
// links the session to it. Creating an id that already exists attaches the
// session to the existing experiment instead of resetting it, so membership
// stays monotone; re-creation is deliberately not an error.
func (r *Registry) Create(sessionID, experimentID string) Experiment {
	r.mu.Lock()
	defer r.mu.Unlock()

	rec, exists := r.records[experimentID]
	if !exists {
		rec = &record{
			status:    StatusActive,
			members:   make(map[string]struct{}),
			createdAt: r.now().UTC(),
		}
		r.records[experimentID] = rec
		logger := log.WithComponent("experiment")
		logger.Info().
			Str(log.FieldExperimentID, experimentID).
			Str(log.FieldSessionID, sessionID).
			Msg("experiment started")
	}
	rec.members[sessionID] = struct{}{}
	r.sessions.SetExperiment(sessionID, experimentID)
	return r.snapshot(experimentID, rec)
}

// Attach adds a session to an existing experiment and links the session.
// Attaching to an unknown experiment creates it, mirroring the shared-link
// assignment flow where the experiment id arrives from outside.
func (r *Registry) Attach(sessionID, experimentID string) Experiment {
	return r.Create(sessionID, experimentID)
}

// StopByID flips the experiment to stopped. An absent id is a no-op.
func (r *Registry) StopByID(experimentID string) (Experiment, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()

	rec, ok := r.records[experimentID]
	if !ok {
		return Experiment{}, false
	}
	rec.status = StatusStopped
	logger := log.WithComponent("experiment")
	logger.Info().
		Str(log.FieldExperimentID, experimentID).
		Msg("experiment stopped")
	return r.snapshot(experimentID, rec), true
}

// Get returns a snapshot of one experiment.
func (r *Registry) Get(experimentID string) (Experiment, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	rec, ok := r.records[experimentID]
	if !ok {
		return Experiment{}, false
	}
	return r.snapshot(experimentID, rec), true
}

// All returns a snapshot of every experiment. Order is not significant.
func (r *Registry) All() []Experiment {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]Experiment, 0, len(r.records))
	for id, rec := range r.records {
		out = append(out, r.snapshot(id, rec))
	}
	return out
}

// snapshot copies a record into an immutable value. Caller holds r.mu.
func (r *Registry) snapshot(id string, rec *record) Experiment {
	members := make([]string, 0, len(rec.members))
	for sid := range rec.members {
		members = append(members, sid)
	}
	sort.Strings(members)
	return Experiment{
		ID:         id,
		Status:     rec.status,
		SessionIDs: members,
		CreatedAt:  rec.createdAt,
	}
}
