package cache

import (
	"sync"

	"github.com/bryanfinkel/satellite-backend-go/internal/models"
	"github.com/bryanfinkel/satellite-backend-go/internal/raster"
)

// Entry holds the full-resolution grid and metadata for one analysis
type Entry struct {
	Grid   raster.Grid
	Record models.AnalysisRecord
}

// AnalysisCache is the volatile tier of the dual-resolution store: a
// process-wide map of analysis id to full-resolution grid. It has no
// eviction policy and no persistence guarantee; everything in it is lost
// on restart. Safe for concurrent use.
type AnalysisCache struct {
	mu      sync.RWMutex
	entries map[string]Entry
}

// NewAnalysisCache creates an empty cache
func NewAnalysisCache() *AnalysisCache {
	return &AnalysisCache{
		entries: make(map[string]Entry),
	}
}

// Put inserts or replaces an entry
func (c *AnalysisCache) Put(id string, e Entry) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries[id] = e
}

// Get returns the entry for id and whether it was present. The grid is
// a copy, so callers mutating it cannot corrupt the cached full-resolution
// data through the shared backing arrays.
func (c *AnalysisCache) Get(id string) (Entry, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	e, ok := c.entries[id]
	if !ok {
		return Entry{}, false
	}
	e.Grid = e.Grid.Clone()
	return e, true
}

// Len returns the number of cached analyses
func (c *AnalysisCache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.entries)
}
