package dataset

import (
	"sync"

	"github.com/verte-zerg/hitdash/internal/generator"
)

// Cache memoizes datasets by generation params: build once per distinct key, reuse after.
type Cache struct {
	mu      sync.Mutex
	entries map[string]*Dataset
	builds  int
}

// NewCache returns an empty cache.
func NewCache() *Cache {
	return &Cache{entries: map[string]*Dataset{}}
}

// Get returns the cached dataset for params, building it on first use.
// Failed builds are not cached.
func (c *Cache) Get(params generator.Params) (*Dataset, error) {
	key := params.Key()
	c.mu.Lock()
	defer c.mu.Unlock()
	if ds, ok := c.entries[key]; ok {
		return ds, nil
	}
	ds, err := Build(params)
	if err != nil {
		return nil, err
	}
	c.entries[key] = ds
	c.builds++
	return ds, nil
}

// Len returns the number of cached datasets.
func (c *Cache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.entries)
}

// Builds returns how many datasets were generated.
func (c *Cache) Builds() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.builds
}
