// SPDX-License-Identifier: MIT

package recorder

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/dgraph-io/badger/v4"

	"github.com/phantomlabs/phantom/internal/session"
)

const sessionKeyPrefix = "sess:"

// BadgerRecorder mirrors session snapshots into a local badger database,
// keyed "sess:<id>". It serves deployments that want a durable
// system-of-record without an external service.
type BadgerRecorder struct {
	db *badger.DB
}

// OpenBadgerRecorder opens (or creates) the database at path.
func OpenBadgerRecorder(path string) (*BadgerRecorder, error) {
	opts := badger.DefaultOptions(path).WithLogger(nil)
	db, err := badger.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("recorder: open badger at %s: %w", path, err)
	}
	return &BadgerRecorder{db: db}, nil
}

func (r *BadgerRecorder) Record(_ context.Context, s session.Session) error {
	buf, err := json.Marshal(s)
	if err != nil {
		return fmt.Errorf("recorder: marshal snapshot: %w", err)
	}
	key := []byte(sessionKeyPrefix + s.ID)
	return r.db.Update(func(txn *badger.Txn) error {
		return txn.Set(key, buf)
	})
}

// Load reads the last recorded snapshot for a session id. Absent ids
// return ok=false without an error.
func (r *BadgerRecorder) Load(id string) (session.Session, bool, error) {
	var out session.Session
	err := r.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get([]byte(sessionKeyPrefix + id))
		if err != nil {
			return err
		}
		return item.Value(func(val []byte) error {
			return json.Unmarshal(val, &out)
		})
	})
	if err != nil {
		if errors.Is(err, badger.ErrKeyNotFound) {
			return session.Session{}, false, nil
		}
		return session.Session{}, false, err
	}
	return out, true, nil
}

func (r *BadgerRecorder) Close() error {
	return r.db.Close()
}
