package cache

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Anshuu-Sharma/LegalSetu-sub000/config"
	"github.com/Anshuu-Sharma/LegalSetu-sub000/internal/models"
	"github.com/Anshuu-Sharma/LegalSetu-sub000/pkg/logger"
)

func TestFingerprintDeterminism(t *testing.T) {
	a := Fingerprint("tenant shall pay rent", "en")
	b := Fingerprint("tenant shall pay rent", "en")
	assert.Equal(t, a, b)

	sum := sha256.Sum256([]byte("tenant shall pay rent::en"))
	assert.Equal(t, hex.EncodeToString(sum[:]), a)
}

func TestFingerprintLanguageQualified(t *testing.T) {
	assert.NotEqual(t, Fingerprint("same text", "en"), Fingerprint("same text", "hi"))
	assert.NotEqual(t, Fingerprint("text a", "en"), Fingerprint("text b", "en"))
}

func TestMemoryCachePutGet(t *testing.T) {
	c := NewMemoryCache()
	ctx := context.Background()

	_, ok, err := c.Get(ctx, "missing")
	require.NoError(t, err)
	assert.False(t, ok)

	analysis := &models.Analysis{Summary: "stored"}
	require.NoError(t, c.Put(ctx, "fp", analysis))

	got, ok, err := c.Get(ctx, "fp")
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, "stored", got.Summary)

	// Idempotent overwrite.
	require.NoError(t, c.Put(ctx, "fp", analysis))
	assert.Equal(t, 1, c.Len())

	require.NoError(t, c.Delete(ctx, "fp"))
	_, ok, err = c.Get(ctx, "fp")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestLoaderComputesOnceSequentially(t *testing.T) {
	loader := NewLoader(NewMemoryCache())
	ctx := context.Background()

	var calls int32
	compute := func(ctx context.Context) (*models.Analysis, error) {
		atomic.AddInt32(&calls, 1)
		return &models.Analysis{Summary: "computed"}, nil
	}

	first, err := loader.GetOrCompute(ctx, "fp", compute)
	require.NoError(t, err)
	second, err := loader.GetOrCompute(ctx, "fp", compute)
	require.NoError(t, err)

	assert.Equal(t, int32(1), atomic.LoadInt32(&calls))
	assert.Same(t, first, second)
}

func TestLoaderSingleFlightConcurrent(t *testing.T) {
	loader := NewLoader(NewMemoryCache())
	ctx := context.Background()

	var calls int32
	started := make(chan struct{})
	release := make(chan struct{})
	compute := func(ctx context.Context) (*models.Analysis, error) {
		atomic.AddInt32(&calls, 1)
		close(started)
		<-release
		return &models.Analysis{Summary: "shared"}, nil
	}

	results := make([]*models.Analysis, 2)
	errs := make([]error, 2)
	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		results[0], errs[0] = loader.GetOrCompute(ctx, "fp", compute)
	}()

	// Make sure the first flight is in progress before the second caller
	// arrives.
	<-started
	wg.Add(1)
	go func() {
		defer wg.Done()
		results[1], errs[1] = loader.GetOrCompute(ctx, "fp", compute)
	}()

	time.Sleep(10 * time.Millisecond)
	close(release)
	wg.Wait()

	require.NoError(t, errs[0])
	require.NoError(t, errs[1])

	assert.Equal(t, int32(1), atomic.LoadInt32(&calls))
	assert.Same(t, results[0], results[1])
}

func TestLoaderFlightSurvivesInitiatorCancel(t *testing.T) {
	loader := NewLoader(NewMemoryCache())

	started := make(chan struct{})
	release := make(chan struct{})
	var flightCtxErr error
	compute := func(ctx context.Context) (*models.Analysis, error) {
		close(started)
		<-release
		flightCtxErr = ctx.Err()
		return &models.Analysis{Summary: "shared"}, nil
	}

	initiatorCtx, cancel := context.WithCancel(context.Background())
	results := make([]*models.Analysis, 2)
	errs := make([]error, 2)
	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		results[0], errs[0] = loader.GetOrCompute(initiatorCtx, "fp", compute)
	}()

	<-started
	wg.Add(1)
	go func() {
		defer wg.Done()
		results[1], errs[1] = loader.GetOrCompute(context.Background(), "fp", compute)
	}()

	// The initiating caller walks away mid-flight; the waiter with a live
	// context must still get the result.
	cancel()
	time.Sleep(10 * time.Millisecond)
	close(release)
	wg.Wait()

	require.NoError(t, errs[1])
	require.NotNil(t, results[1])
	assert.Equal(t, "shared", results[1].Summary)
	assert.NoError(t, flightCtxErr, "the flight runs detached from the initiator's context")
}

func TestLoaderFailedComputeLeavesNoEntry(t *testing.T) {
	store := NewMemoryCache()
	loader := NewLoader(store)
	ctx := context.Background()

	boom := errors.New("engine down")
	_, err := loader.GetOrCompute(ctx, "fp", func(ctx context.Context) (*models.Analysis, error) {
		return nil, boom
	})
	require.ErrorIs(t, err, boom)

	_, ok, err := store.Get(ctx, "fp")
	require.NoError(t, err)
	assert.False(t, ok, "failed compute must not poison the cache")

	// A later request retries and can succeed.
	a, err := loader.GetOrCompute(ctx, "fp", func(ctx context.Context) (*models.Analysis, error) {
		return &models.Analysis{Summary: "recovered"}, nil
	})
	require.NoError(t, err)
	assert.Equal(t, "recovered", a.Summary)
}

func TestNewUnsupportedBackend(t *testing.T) {
	cfg := config.Default().Cache
	cfg.Backend = "dynamo"
	_, err := New(cfg, logger.NewTestLogger())
	assert.Error(t, err)
}
