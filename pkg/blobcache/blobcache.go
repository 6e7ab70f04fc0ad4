// Package blobcache implements the on-disk cache backend the core treats
// as an opaque "KV blob store": hex(content_key) -> bytes, nothing more.
// It is BadgerDB-backed, the same embedded store the teacher wires up in
// its disk_eject example as a second-level cache behind arena-cache.
//
// © 2025 parcelgo authors. MIT License.
package blobcache

import (
	"encoding/binary"
	"encoding/hex"
	"fmt"

	badger "github.com/dgraph-io/badger/v4"
)

// Store is a content-addressed blob cache: Set(key, bytes), Get(key) ->
// (bytes, ok, err). Keys are the uint64 content hashes the core already
// computes (xxh3_64 over an asset's output);
// encoding them as hex keeps the store is human-inspectable on disk.
type Store struct {
	db *badger.DB
}

// Open opens (creating if absent) a Badger database rooted at dir.
func Open(dir string) (*Store, error) {
	db, err := badger.Open(badger.DefaultOptions(dir).WithLogger(nil))
	if err != nil {
		return nil, fmt.Errorf("blobcache: open %s: %w", dir, err)
	}
	return &Store{db: db}, nil
}

// Close releases the underlying database handle.
func (s *Store) Close() error { return s.db.Close() }

// Set stores value under key, overwriting any existing entry.
func (s *Store) Set(key uint64, value []byte) error {
	return s.db.Update(func(txn *badger.Txn) error {
		return txn.Set(encodeKey(key), value)
	})
}

// Get retrieves the value stored under key. ok is false if no entry
// exists; a Badger "key not found" error is not propagated as err.
func (s *Store) Get(key uint64) (value []byte, ok bool, err error) {
	err = s.db.View(func(txn *badger.Txn) error {
		item, getErr := txn.Get(encodeKey(key))
		if getErr == badger.ErrKeyNotFound {
			return nil
		}
		if getErr != nil {
			return getErr
		}
		ok = true
		return item.Value(func(b []byte) error {
			value = append([]byte(nil), b...)
			return nil
		})
	})
	return value, ok, err
}

// Delete removes key if present; deleting an absent key is not an error.
func (s *Store) Delete(key uint64) error {
	return s.db.Update(func(txn *badger.Txn) error {
		return txn.Delete(encodeKey(key))
	})
}

func encodeKey(key uint64) []byte {
	var raw [8]byte
	binary.BigEndian.PutUint64(raw[:], key)
	return []byte(hex.EncodeToString(raw[:]))
}
