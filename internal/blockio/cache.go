package blockio

import (
	"encoding/binary"
	"sync"

	"github.com/cespare/xxhash/v2"
	"github.com/dgryski/go-tinylfu"
)

// DefaultCacheCapacity bounds how many block mappings a Cache keeps
// warm when the caller doesn't specify one.
const DefaultCacheCapacity = 32

// mapping is a live mmap (or heap-copy) region plus however it gets torn
// down.
type mapping struct {
	data  []byte
	unmap func() error
}

// Cache bounds the number of concurrently-mapped blocks kept warm across
// repeated BlockHandle Open/Close cycles on the same File, evicting the
// coldest mapping under TinyLFU admission once the capacity is exceeded.
// Grounded on the teacher's internal/spinner block cache
// (tinylfu.New[blkCacheKey, *block] with an OnEvict callback that tears
// down the evicted entry).
type Cache struct {
	mu sync.Mutex
	t  *tinylfu.T[int, *mapping]
}

// NewCache builds a Cache admitting up to capacity live mappings.
func NewCache(capacity int) *Cache {
	if capacity <= 0 {
		capacity = DefaultCacheCapacity
	}
	c := &Cache{}
	c.t = tinylfu.New[int, *mapping](capacity, capacity*10, hashBlockIndex,
		tinylfu.OnEvict(func(_ int, m *mapping) {
			if m != nil && m.unmap != nil {
				m.unmap()
			}
		}))
	return c
}

func hashBlockIndex(index int) uint64 {
	var b [8]byte
	binary.LittleEndian.PutUint64(b[:], uint64(index))
	return xxhash.Sum64(b[:])
}

func (c *Cache) get(index int) (*mapping, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.t.Get(index)
}

func (c *Cache) add(index int, m *mapping) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.t.Add(index, m)
}
