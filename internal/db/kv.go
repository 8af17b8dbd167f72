package db

import (
	"database/sql"
	"time"
)

// The kv bucket is the shared-state primitive for concurrently open
// dashboard instances. Every row carries a monotonically increasing
// revision; consumers derive their state from the stored record and use
// CompareAndSwap where exactly one writer may advance it.

// KVGet returns the value and revision for a key. A missing key yields
// ok=false with revision 0.
func (db *DB) KVGet(key string) (value []byte, revision int64, ok bool, err error) {
	err = db.QueryRow(`SELECT value, revision FROM kv WHERE key = ?`, key).
		Scan(&value, &revision)
	if err == sql.ErrNoRows {
		return nil, 0, false, nil
	}
	if err != nil {
		return nil, 0, false, err
	}
	return value, revision, true, nil
}

// KVPut writes a value unconditionally, bumping the revision.
// Last writer wins.
func (db *DB) KVPut(key string, value []byte) error {
	now := time.Now().Format(time.RFC3339)
	_, err := db.Exec(`
		INSERT INTO kv (key, value, revision, updated_at) VALUES (?, ?, 1, ?)
		ON CONFLICT(key) DO UPDATE SET
			value = excluded.value,
			revision = kv.revision + 1,
			updated_at = excluded.updated_at
	`, key, value, now)
	return err
}

// KVCompareAndSwap writes value only if the row is still at oldRevision.
// Returns false when another writer got there first.
func (db *DB) KVCompareAndSwap(key string, value []byte, oldRevision int64) (bool, error) {
	now := time.Now().Format(time.RFC3339)
	res, err := db.Exec(`
		UPDATE kv SET value = ?, revision = revision + 1, updated_at = ?
		WHERE key = ? AND revision = ?
	`, value, now, key, oldRevision)
	if err != nil {
		return false, err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

// KVDelete removes a key. Deleting a missing key is not an error.
func (db *DB) KVDelete(key string) error {
	_, err := db.Exec(`DELETE FROM kv WHERE key = ?`, key)
	return err
}

// KVWatch polls a key at the given interval and invokes fn whenever the
// revision changes, including transitions to and from absence (fn receives
// a nil value and revision 0 for a deleted key). The returned function
// stops the watch. Polling stands in for storage change events: instances
// in other processes only share state through this database.
func (db *DB) KVWatch(key string, interval time.Duration, fn func(value []byte, revision int64)) func() {
	done := make(chan struct{})
	go func() {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()

		var last int64 = -1
		for {
			select {
			case <-done:
				return
			case <-ticker.C:
				value, revision, ok, err := db.KVGet(key)
				if err != nil {
					continue
				}
				if !ok {
					revision = 0
					value = nil
				}
				if revision != last {
					last = revision
					fn(value, revision)
				}
			}
		}
	}()
	return func() { close(done) }
}
