package cache

import (
	"context"

	"golang.org/x/sync/singleflight"

	"github.com/Anshuu-Sharma/LegalSetu-sub000/internal/models"
)

// ComputeFunc produces the Analysis for a cache miss.
type ComputeFunc func(ctx context.Context) (*models.Analysis, error)

// Loader wraps a Cache with per-fingerprint single-flight de-duplication:
// for a given fingerprint the expensive compute path runs at most once
// concurrently, and every concurrent caller receives that one result.
type Loader struct {
	cache Cache
	group singleflight.Group
}

func NewLoader(cache Cache) *Loader {
	return &Loader{cache: cache}
}

// GetOrCompute returns the cached Analysis for fingerprint, or runs compute
// exactly once across concurrent callers and stores the result. A failed
// compute stores nothing, so the fingerprint stays absent and a later
// request retries.
func (l *Loader) GetOrCompute(ctx context.Context, fingerprint string, compute ComputeFunc) (*models.Analysis, error) {
	if analysis, ok, err := l.cache.Get(ctx, fingerprint); err != nil {
		return nil, err
	} else if ok {
		return analysis, nil
	}

	result, err, _ := l.group.Do(fingerprint, func() (interface{}, error) {
		// The flight is shared by every concurrent caller, so it must not
		// die with whichever caller happened to start it.
		flightCtx := context.WithoutCancel(ctx)

		// Re-check under the flight: a prior flight may have filled the
		// entry between our miss and this call.
		if analysis, ok, err := l.cache.Get(flightCtx, fingerprint); err != nil {
			return nil, err
		} else if ok {
			return analysis, nil
		}

		analysis, err := compute(flightCtx)
		if err != nil {
			return nil, err
		}

		if err := l.cache.Put(flightCtx, fingerprint, analysis); err != nil {
			return nil, err
		}
		return analysis, nil
	})
	if err != nil {
		return nil, err
	}

	return result.(*models.Analysis), nil
}

// Cache exposes the wrapped cache for read-only paths.
func (l *Loader) Cache() Cache {
	return l.cache
}
