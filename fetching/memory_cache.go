package fetching

import (
	"context"
	"sort"
	"strings"
	"sync"

	"github.com/leapstack-labs/id-translation/translation"
)

// MemoryCache is a process-local CacheAccess keyed on source, requested
// placeholders and requested ids. No pack dependency offers a general
// key-value cache, so this is a small stdlib map guarded by a mutex;
// intended for offline/test use and as documentation of the CacheAccess
// contract real backends (Redis, a local file cache) would implement.
type MemoryCache struct {
	mu      sync.RWMutex
	entries map[string]*translation.PlaceholderTranslations
}

// NewMemoryCache creates an empty cache.
func NewMemoryCache() *MemoryCache {
	return &MemoryCache{entries: map[string]*translation.PlaceholderTranslations{}}
}

// Load implements CacheAccess.
func (c *MemoryCache) Load(_ context.Context, instr FetchInstruction) (*translation.PlaceholderTranslations, bool, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	pt, ok := c.entries[cacheKey(instr)]
	return pt, ok, nil
}

// Store implements CacheAccess.
func (c *MemoryCache) Store(_ context.Context, instr FetchInstruction, translations *translation.PlaceholderTranslations) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries[cacheKey(instr)] = translations
	return nil
}

func cacheKey(instr FetchInstruction) string {
	var b strings.Builder
	b.WriteString(instr.Source)
	b.WriteString("|")
	b.WriteString(strings.Join(instr.Placeholders, ","))
	if instr.IsFetchAll() {
		b.WriteString("|*")
	} else {
		ids := make([]string, len(instr.IDs))
		for i, id := range instr.IDs {
			ids[i] = id.String()
		}
		sort.Strings(ids)
		b.WriteString("|")
		b.WriteString(strings.Join(ids, ","))
	}
	return b.String()
}
