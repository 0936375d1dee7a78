// Package inventory implements the persistent per-agent detection index
// (spec §3 "Inventory record", §4.4, §6 "Persisted layout"). The store
// keys are a flat utf-8 string space ordered lexically, which every sweep
// operation (EventDeleteInventory's prefix scan, the Global/CleanAll
// sweeps) relies on; this repo uses bbolt for that property rather than
// the SQL stack the rest of the ecosystem favors, since nothing else in
// the retrieval pack offers an embedded ordered key-value engine (see
// DESIGN.md).
package inventory

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"time"

	"go.etcd.io/bbolt"

	"github.com/hostvuln/scanorch"
)

// bucketName is the single bbolt bucket this store keeps all records in;
// ordering and prefix scans are done over its keys directly, matching the
// "one directory per logical store, flat key space" layout spec §6
// describes for the inventory store specifically.
var bucketName = []byte("inventory")

// Record is the persisted value for one inventory key: the last detection
// record built for it, plus the time it was written.
type Record struct {
	Element   *scanorch.Element `json:"element"`
	StoredAt  time.Time         `json:"storedAt"`
	OSName    string            `json:"osName,omitempty"`
	ItemID    string            `json:"itemId,omitempty"`
	Remediate []string          `json:"remediatingHotfixes,omitempty"`
}

// Store is the persistent per-agent keyed index. Keys follow
// "<agent>_<packageItemId|osName>_<cveId>" (spec §3).
type Store struct {
	db *bbolt.DB
}

// Open opens (creating if necessary) a bbolt store at path.
func Open(path string) (*Store, error) {
	db, err := bbolt.Open(path, 0o600, &bbolt.Options{Timeout: 5 * time.Second})
	if err != nil {
		return nil, &scanorch.Error{Op: "inventory.Open", Kind: scanorch.ErrStoreAccessFailure, Inner: err}
	}
	err = db.Update(func(tx *bbolt.Tx) error {
		_, err := tx.CreateBucketIfNotExists(bucketName)
		return err
	})
	if err != nil {
		db.Close()
		return nil, &scanorch.Error{Op: "inventory.Open", Kind: scanorch.ErrStoreAccessFailure, Inner: err}
	}
	return &Store{db: db}, nil
}

// Close releases the underlying database file.
func (s *Store) Close() error { return s.db.Close() }

// Key assembles the inventory key for an agent/itemKey/cve triple.
func Key(agentID, itemKey, cveID string) string {
	return agentID + "_" + itemKey + "_" + cveID
}

// AgentPrefix is the key prefix shared by every record belonging to
// agentID.
func AgentPrefix(agentID string) string { return agentID + "_" }

// ItemPrefix is the key prefix shared by every record for one package or
// OS key on one agent.
func ItemPrefix(agentID, itemKey string) string { return agentID + "_" + itemKey + "_" }

// Get reports whether key exists, and its record if so.
func (s *Store) Get(ctx context.Context, key string) (Record, bool, error) {
	var rec Record
	var found bool
	err := s.db.View(func(tx *bbolt.Tx) error {
		b := tx.Bucket(bucketName)
		v := b.Get([]byte(key))
		if v == nil {
			return nil
		}
		found = true
		return json.Unmarshal(v, &rec)
	})
	if err != nil {
		return Record{}, false, &scanorch.Error{Op: "inventory.Get", Kind: scanorch.ErrStoreAccessFailure, Inner: err}
	}
	return rec, found, nil
}

// Put writes rec under key, overwriting any existing value.
func (s *Store) Put(ctx context.Context, key string, rec Record) error {
	buf, err := json.Marshal(rec)
	if err != nil {
		return &scanorch.Error{Op: "inventory.Put", Kind: scanorch.ErrStoreAccessFailure, Inner: err}
	}
	err = s.db.Update(func(tx *bbolt.Tx) error {
		return tx.Bucket(bucketName).Put([]byte(key), buf)
	})
	if err != nil {
		return &scanorch.Error{Op: "inventory.Put", Kind: scanorch.ErrStoreAccessFailure, Inner: err}
	}
	return nil
}

// Delete removes key. It is not an error for key to be absent.
func (s *Store) Delete(ctx context.Context, key string) error {
	err := s.db.Update(func(tx *bbolt.Tx) error {
		return tx.Bucket(bucketName).Delete([]byte(key))
	})
	if err != nil {
		return &scanorch.Error{Op: "inventory.Delete", Kind: scanorch.ErrStoreAccessFailure, Inner: err}
	}
	return nil
}

// VisitFunc is called once per (key, record) pair during a prefix walk.
// Returning an error halts the walk and is returned to the caller.
type VisitFunc func(key string, rec Record) error

// WalkPrefix visits every key with the given prefix in lexical order.
func (s *Store) WalkPrefix(ctx context.Context, prefix string, visit VisitFunc) error {
	err := s.db.View(func(tx *bbolt.Tx) error {
		c := tx.Bucket(bucketName).Cursor()
		p := []byte(prefix)
		for k, v := c.Seek(p); k != nil && bytes.HasPrefix(k, p); k, v = c.Next() {
			var rec Record
			if err := json.Unmarshal(v, &rec); err != nil {
				return fmt.Errorf("inventory: decode record %q: %w", k, err)
			}
			if err := visit(string(k), rec); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return &scanorch.Error{Op: "inventory.WalkPrefix", Kind: scanorch.ErrStoreAccessFailure, Inner: err}
	}
	return nil
}

// DeletePrefix removes every key with the given prefix, returning the
// removed keys. Used by CleanSingleAgentInventory / CleanAllAgentInventory
// (prefix "" for the latter) and by EventDeleteInventory's
// per-package sweep.
func (s *Store) DeletePrefix(ctx context.Context, prefix string) ([]string, error) {
	var removed []string
	err := s.db.Update(func(tx *bbolt.Tx) error {
		b := tx.Bucket(bucketName)
		c := b.Cursor()
		p := []byte(prefix)
		var keys [][]byte
		for k, _ := c.Seek(p); k != nil && bytes.HasPrefix(k, p); k, _ = c.Next() {
			kc := make([]byte, len(k))
			copy(kc, k)
			keys = append(keys, kc)
		}
		for _, k := range keys {
			if err := b.Delete(k); err != nil {
				return err
			}
			removed = append(removed, string(k))
		}
		return nil
	})
	if err != nil {
		return nil, &scanorch.Error{Op: "inventory.DeletePrefix", Kind: scanorch.ErrStoreAccessFailure, Inner: err}
	}
	return removed, nil
}

// Keys returns every key with the given prefix without decoding values,
// used by sync stages that only need to diff key sets.
func (s *Store) Keys(ctx context.Context, prefix string) ([]string, error) {
	var keys []string
	err := s.db.View(func(tx *bbolt.Tx) error {
		c := tx.Bucket(bucketName).Cursor()
		p := []byte(prefix)
		for k, _ := c.Seek(p); k != nil && bytes.HasPrefix(k, p); k, _ = c.Next() {
			keys = append(keys, string(k))
		}
		return nil
	})
	if err != nil {
		return nil, &scanorch.Error{Op: "inventory.Keys", Kind: scanorch.ErrStoreAccessFailure, Inner: err}
	}
	return keys, nil
}
