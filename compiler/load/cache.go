package load

import (
	"crypto/sha256"
	"sync"

	"github.com/vmihailenco/msgpack/v5"
)

// Cache memoizes parsed schemas by source content. It lets repeated
// loads of unchanged files (e.g. in watch mode) skip re-parsing, and
// keeps decoded schemas isolated per caller by round-tripping them
// through their encoded form.
type Cache struct {
	mu      sync.Mutex
	entries map[[sha256.Size]byte][]byte
}

// NewCache returns an empty schema cache.
func NewCache() *Cache {
	return &Cache{entries: make(map[[sha256.Size]byte][]byte)}
}

// Parse behaves like the package-level Parse, serving unchanged
// sources from the cache.
func (c *Cache) Parse(name string, src []byte) ([]*Schema, error) {
	key := sha256.Sum256(src)
	c.mu.Lock()
	buf, ok := c.entries[key]
	c.mu.Unlock()
	if ok {
		var schemas []*Schema
		if err := msgpack.Unmarshal(buf, &schemas); err == nil {
			return schemas, nil
		}
		// A corrupt entry falls through to a fresh parse.
	}
	schemas, err := Parse(name, src)
	if err != nil {
		return nil, err
	}
	if buf, err := msgpack.Marshal(schemas); err == nil {
		c.mu.Lock()
		c.entries[key] = buf
		c.mu.Unlock()
	}
	return schemas, nil
}

// Invalidate drops the cached entry for the given source, if any.
func (c *Cache) Invalidate(src []byte) {
	key := sha256.Sum256(src)
	c.mu.Lock()
	delete(c.entries, key)
	c.mu.Unlock()
}

// Len reports the number of cached sources.
func (c *Cache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.entries)
}
