// SPDX-License-Identifier: MIT

package session

import (
	"context"
	"errors"
	"hash/fnv"
	"sync"
	"sync/atomic"
	"time"

	"github.com/phantomlabs/phantom/internal/log"
)

// ErrIdentifierCollision is returned when a freshly generated session id is
// already present in the store. With UUID identifiers this is effectively
// unreachable; when it happens it is surfaced as an internal error.
var ErrIdentifierCollision = errors.New("session: generated identifier already exists")

// Replicator receives session snapshots for the external system-of-record.
// Implementations must tolerate being called from a background worker;
// failures are logged, never propagated to the request path.
type Replicator interface {
	Record(ctx context.Context, s Session) error
}

const (
	shardCount       = 32
	replicaQueueSize = 128
	replicaTimeout   = 5 * time.Second
	dropLogEvery     = 100
)

type shard struct {
	mu       sync.Mutex
	sessions map[string]*Session
}

// Store is a sharded in-memory session registry. Writes to the same session
// id are serialized by its shard lock and reach the replicator in arrival
// order; writes to different shards do not contend.
type Store struct {
	shards [shardCount]*shard

	replicator Replicator
	queue      chan Session
	wg         sync.WaitGroup
	closeOnce  sync.Once
	dropCount  atomic.Uint64

	now func() time.Time
}

// NewStore creates a session store. replicator may be nil, which disables
// replication entirely without affecting core behaviour.
func NewStore(replicator Replicator) *Store {
	s := &Store{
		replicator: replicator,
		now:        time.Now,
	}
	for i := range s.shards {
		s.shards[i] = &shard{sessions: make(map[string]*Session)}
	}
	if replicator != nil {
		s.queue = make(chan Session, replicaQueueSize)
		s.wg.Add(1)
		go s.replicate()
	}
	return s
}

func (s *Store) shardFor(id string) *shard {
	h := fnv.New32a()
	_, _ = h.Write([]byte(id))
	return s.shards[h.Sum32()%shardCount]
}

// Get looks up a session without mutating anything. An absent id is not an
// error.
func (s *Store) Get(id string) (Session, bool) {
	sh := s.shardFor(id)
	sh.mu.Lock()
	defer sh.mu.Unlock()
	sess, ok := sh.sessions[id]
	if !ok {
		return Session{}, false
	}
	return *sess, true
}

// Create initialises a session for a freshly generated id.
func (s *Store) Create(id string) (Session, error) {
	sh := s.shardFor(id)
	sh.mu.Lock()
	defer sh.mu.Unlock()

	if _, exists := sh.sessions[id]; exists {
		return Session{}, ErrIdentifierCollision
	}
	sess := &Session{ID: id, StartedAt: s.now().UTC(), Status: StatusActive}
	sh.sessions[id] = sess
	sessionsCreated.Inc()
	s.enqueue(*sess)
	return *sess, nil
}

// SetExperiment attaches an experiment to the session, creating the session
// first if absent. A prior assignment is overwritten: last write wins, no
// merge.
func (s *Store) SetExperiment(id, experimentID string) Session {
	sh := s.shardFor(id)
	sh.mu.Lock()
	defer sh.mu.Unlock()

	sess, ok := sh.sessions[id]
	if !ok {
		sess = &Session{ID: id, StartedAt: s.now().UTC(), Status: StatusActive}
		sh.sessions[id] = sess
		sessionsCreated.Inc()
	}
	sess.ExperimentID = experimentID
	s.enqueue(*sess)
	return *sess
}

// Stop marks the session stopped. Absent sessions are a no-op.
func (s *Store) Stop(id string) (Session, bool) {
	sh := s.shardFor(id)
	sh.mu.Lock()
	defer sh.mu.Unlock()

	sess, ok := sh.sessions[id]
	if !ok {
		return Session{}, false
	}
	sess.Status = StatusStopped
	s.enqueue(*sess)
	return *sess, true
}

// Len reports the number of known sessions.
func (s *Store) Len() int {
	n := 0
	for _, sh := range s.shards {
		sh.mu.Lock()
		n += len(sh.sessions)
		sh.mu.Unlock()
	}
	return n
}

// enqueue hands a snapshot to the replication worker. The caller holds the
// shard lock, so snapshots of one session enter the queue in write order.
// A full queue drops the snapshot rather than blocking the request path.
func (s *Store) enqueue(snap Session) {
	if s.queue == nil {
		return
	}
	select {
	case s.queue <- snap:
	default:
		replicationDropped.Inc()
		if s.dropCount.Add(1)%dropLogEvery == 1 {
			logger := log.WithComponent("session")
			logger.Warn().
				Str(log.FieldSessionID, snap.ID).
				Msg("replication queue full, snapshot dropped")
		}
	}
}

func (s *Store) replicate() {
	defer s.wg.Done()
	logger := log.WithComponent("session")
	for snap := range s.queue {
		ctx, cancel := context.WithTimeout(context.Background(), replicaTimeout)
		if err := s.replicator.Record(ctx, snap); err != nil {
			replicationFailures.Inc()
			logger.Warn().Err(err).
				Str(log.FieldSessionID, snap.ID).
				Msg("session replication failed")
		}
		cancel()
	}
}

// Close drains the replication queue and stops the worker. Safe to call
// more than once.
func (s *Store) Close() {
	s.closeOnce.Do(func() {
		if s.queue != nil {
			close(s.queue)
			s.wg.Wait()
		}
	})
}
