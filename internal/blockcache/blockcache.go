// Package blockcache implements an optional on-disk cache of decompressed
// block payloads, keyed by a fingerprint of the owning file plus the
// block's index. It mirrors the teacher's prefetch.go caching strategy
// (a SQL-backed cache of previously-read byte ranges keyed by id/offset)
// but is backed by an embedded LSM engine already in the dependency
// graph (cockroachdb/pebble) instead of database/sql+sqlite, since this
// package has no need for prefetch.go's richer range-merging SQL schema:
// one key maps to exactly one fully-decompressed block.
package blockcache

import (
	"encoding/binary"
	"fmt"

	"github.com/cespare/xxhash/v2"
	"github.com/cockroachdb/pebble/v2"
)

// Cache is an on-disk cache of decompressed block payloads.
type Cache struct {
	db *pebble.DB
}

// Open opens (creating if necessary) a Cache rooted at dir.
func Open(dir string) (*Cache, error) {
	db, err := pebble.Open(dir, &pebble.Options{})
	if err != nil {
		return nil, fmt.Errorf("blockcache: open %s: %w", dir, err)
	}
	return &Cache{db: db}, nil
}

// Close releases the underlying database handle.
func (c *Cache) Close() error {
	if c == nil || c.db == nil {
		return nil
	}
	return c.db.Close()
}

// key derives the lookup key for block index of the file identified by
// fingerprint (e.g. an xxhash of its absolute path plus size/mtime).
func key(fingerprint uint64, index int) []byte {
	b := make([]byte, 16)
	binary.BigEndian.PutUint64(b[0:8], fingerprint)
	binary.BigEndian.PutUint64(b[8:16], uint64(index))
	return b
}

// Fingerprint hashes path-identifying bytes (callers typically pass the
// absolute path plus a size/mtime-derived salt) into the fingerprint Get
// and Put key on.
func Fingerprint(b []byte) uint64 { return xxhash.Sum64(b) }

// Get returns the cached decompressed payload for (fingerprint, index),
// if present. The returned slice is a copy and safe to retain.
func (c *Cache) Get(fingerprint uint64, index int) ([]byte, bool) {
	if c == nil || c.db == nil {
		return nil, false
	}
	v, closer, err := c.db.Get(key(fingerprint, index))
	if err != nil {
		return nil, false
	}
	defer closer.Close()
	out := make([]byte, len(v))
	copy(out, v)
	return out, true
}

// Put stores the decompressed payload for (fingerprint, index).
func (c *Cache) Put(fingerprint uint64, index int, payload []byte) error {
	if c == nil || c.db == nil {
		return nil
	}
	return c.db.Set(key(fingerprint, index), payload, pebble.NoSync)
}
