// SPDX-License-Identifier: MIT

package session

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"go.uber.org/goleak"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

// recordingReplicator collects snapshots in arrival order.
type recordingReplicator struct {
	mu    sync.Mutex
	snaps []Session
	fail  bool
}

func (r *recordingReplicator) Record(_ context.Context, s Session) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.fail {
		return errors.New("sink down")
	}
	r.snaps = append(r.snaps, s)
	return nil
}

func (r *recordingReplicator) snapshots() []Session {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]Session, len(r.snaps))
	copy(out, r.snaps)
	return out
}

func TestCreateAndGet(t *testing.T) {
	s := NewStore(nil)
	defer s.Close()

	sess, err := s.Create("s-1")
	if err != nil {
		t.Fatalf("create failed: %v", err)
	}
	if sess.Status != StatusActive {
		t.Errorf("expected active status, got %s", sess.Status)
	}
	if sess.ExperimentID != "" {
		t.Errorf("fresh session must have no experiment, got %q", sess.ExperimentID)
	}

	got, ok := s.Get("s-1")
	if !ok {
		t.Fatal("expected session to be found")
	}
	if got.ID != "s-1" {
		t.Errorf("expected id s-1, got %s", got.ID)
	}

	if _, ok := s.Get("missing"); ok {
		t.Error("absent id must return not found, not a session")
	}
}

func TestCreateCollision(t *testing.T) {
	s := NewStore(nil)
	defer s.Close()

	if _, err := s.Create("dup"); err != nil {
		t.Fatal(err)
	}
	_, err := s.Create("dup")
	if !errors.Is(err, ErrIdentifierCollision) {
		t.Fatalf("expected ErrIdentifierCollision, got %v", err)
	}
}

func TestSetExperimentLastWriteWins(t *testing.T) {
	s := NewStore(nil)
	defer s.Close()

	s.SetExperiment("s-1", "E1")
	sess := s.SetExperiment("s-1", "E2")

	if sess.ExperimentID != "E2" {
		t.Fatalf("expected E2 after overwrite, got %s", sess.ExperimentID)
	}
	got, _ := s.Get("s-1")
	if got.ExperimentID != "E2" {
		t.Fatalf("store kept stale assignment %s", got.ExperimentID)
	}
}

func TestSetExperimentCreatesAbsentSession(t *testing.T) {
	s := NewStore(nil)
	defer s.Close()

	sess := s.SetExperiment("fresh", "E1")
	if sess.Status != StatusActive {
		t.Errorf("implicitly created session must be active, got %s", sess.Status)
	}
	if sess.StartedAt.IsZero() {
		t.Error("implicitly created session must have a start time")
	}
}

func TestStop(t *testing.T) {
	s := NewStore(nil)
	defer s.Close()

	if _, ok := s.Stop("missing"); ok {
		t.Fatal("stopping an absent session must be a no-op")
	}

	_, _ = s.Create("s-1")
	sess, ok := s.Stop("s-1")
	if !ok || sess.Status != StatusStopped {
		t.Fatalf("expected stopped session, got ok=%v status=%s", ok, sess.Status)
	}
}

func TestReplicationReceivesSnapshotsInWriteOrder(t *testing.T) {
	rep := &recordingReplicator{}
	s := NewStore(rep)

	_, _ = s.Create("s-1")
	s.SetExperiment("s-1", "E1")
	s.SetExperiment("s-1", "E2")
	_, _ = s.Stop("s-1")

	s.Close() // drains the queue

	snaps := rep.snapshots()
	if len(snaps) != 4 {
		t.Fatalf("expected 4 snapshots, got %d", len(snaps))
	}
	if snaps[1].ExperimentID != "E1" || snaps[2].ExperimentID != "E2" {
		t.Errorf("snapshots out of write order: %+v", snaps)
	}
	if snaps[3].Status != StatusStopped {
		t.Errorf("final snapshot must be stopped, got %s", snaps[3].Status)
	}
}

func TestReplicationFailureDoesNotAffectStore(t *testing.T) {
	rep := &recordingReplicator{fail: true}
	s := NewStore(rep)

	_, err := s.Create("s-1")
	if err != nil {
		t.Fatalf("mutation must not observe replication failures: %v", err)
	}
	if _, ok := s.Get("s-1"); !ok {
		t.Fatal("store state must be authoritative regardless of replication")
	}
	s.Close()
}

func TestConcurrentMutationAcrossKeys(t *testing.T) {
	s := NewStore(nil)
	defer s.Close()

	var wg sync.WaitGroup
	for i := 0; i < 64; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			id := fmt.Sprintf("s-%d", i)
			if _, err := s.Create(id); err != nil {
				t.Errorf("create %s: %v", id, err)
			}
			s.SetExperiment(id, "E1")
			if _, ok := s.Get(id); !ok {
				t.Errorf("lost session %s", id)
			}
		}(i)
	}
	wg.Wait()

	if s.Len() != 64 {
		t.Fatalf("expected 64 sessions, got %d", s.Len())
	}
}

func TestCloseIsIdempotent(t *testing.T) {
	s := NewStore(&recordingReplicator{})
	_, _ = s.Create("s-1")
	s.Close()
	s.Close()
}

func TestStartedAtIsUTC(t *testing.T) {
	s := NewStore(nil)
	defer s.Close()
	sess, _ := s.Create("s-1")
	if sess.StartedAt.Location() != time.UTC {
		t.Errorf("expected UTC start time, got %v", sess.StartedAt.Location())
	}
}
