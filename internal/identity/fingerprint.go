package identity

import (
	"fmt"
	"sync"
)

// FNV-1a 64-bit parameters. The fingerprint is an identity tag, not a
// security boundary: stable across runs and platforms, no collision
// guarantee required.
const (
	fnvOffset64 uint64 = 14695981039346656037
	fnvPrime64  uint64 = 1099511628211
)

// Fingerprint returns the FNV-1a 64-bit hash of secret rendered as 16
// zero-padded lowercase hex characters.
func Fingerprint(secret string) string {
	h := fnvOffset64
	for i := 0; i < len(secret); i++ {
		h ^= uint64(secret[i])
		h *= fnvPrime64
	}
	return fmt.Sprintf("%016x", h)
}

// Cache memoizes fingerprints keyed by the exact input string. It grows
// monotonically and is never evicted; callers own its lifetime. Safe
// for concurrent use.
type Cache struct {
	mu      sync.Mutex
	entries map[string]string
}

func NewCache() *Cache {
	return &Cache{entries: make(map[string]string)}
}

func (c *Cache) Fingerprint(secret string) string {
	c.mu.Lock()
	defer c.mu.Unlock()
	if fp, ok := c.entries[secret]; ok {
		return fp
	}
	fp := Fingerprint(secret)
	c.entries[secret] = fp
	return fp
}

// Len returns the number of memoized entries.
func (c *Cache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.entries)
}

// defaultCache backs normalizers constructed without an explicit cache.
var defaultCache = NewCache()
