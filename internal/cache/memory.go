package cache

import (
	"context"
	"sync"

	"github.com/Anshuu-Sharma/LegalSetu-sub000/internal/models"
)

// MemoryCache is the in-process backend: a mutex-guarded map living for the
// lifetime of the process.
type MemoryCache struct {
	mu      sync.RWMutex
	entries map[string]*models.Analysis
}

func NewMemoryCache() *MemoryCache {
	return &MemoryCache{
		entries: make(map[string]*models.Analysis),
	}
}

func (c *MemoryCache) Get(ctx context.Context, fingerprint string) (*models.Analysis, bool, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	analysis, ok := c.entries[fingerprint]
	if !ok {
		return nil, false, nil
	}
	return analysis, true, nil
}

func (c *MemoryCache) Put(ctx context.Context, fingerprint string, analysis *models.Analysis) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.entries[fingerprint] = analysis
	return nil
}

func (c *MemoryCache) Delete(ctx context.Context, fingerprint string) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	delete(c.entries, fingerprint)
	return nil
}

// Len reports the number of cached analyses.
func (c *MemoryCache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.entries)
}
