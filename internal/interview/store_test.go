package interview

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"

	"alfredoptarigan/interview-simulator/internal/cache"
	"alfredoptarigan/interview-simulator/internal/models"
)

type brokenCache struct{}

var errCacheDown = errors.New("connection refused")

func (brokenCache) Get(context.Context, string) (*cache.Entry, error)              { return nil, errCacheDown }
func (brokenCache) Set(context.Context, string, *cache.Entry, time.Duration) error { return errCacheDown }
func (brokenCache) Delete(context.Context, string) error                           { return errCacheDown }
func (brokenCache) Close() error                                                   { return nil }

func TestStoreTreatsCacheErrorsAsMisses(t *testing.T) {
	env := newTestEnv(t, 3)
	started := env.start(t)

	core, logs := observer.New(zap.WarnLevel)
	store := NewSessionStore(env.repo, brokenCache{}, time.Hour, 3, zap.New(core))

	entry, err := store.Load(context.Background(), started.SessionID)

	require.NoError(t, err)
	assert.Equal(t, "Question 1?", entry.State.CurrentQuestion)
	assert.Equal(t, models.StatusInterviewing, entry.State.Status)
	assert.Nil(t, entry.Pending())
	assert.Equal(t, 1, logs.FilterMessage("Session cache read failed").Len())
	assert.Equal(t, 1, logs.FilterMessage("Session cache write failed").Len())
}

func TestStoreLoadReturnsIndependentCopies(t *testing.T) {
	env := newTestEnv(t, 3)
	started := env.start(t)
	require.NoError(t, env.cache.Delete(context.Background(), started.SessionID))
	store := NewSessionStore(env.repo, cache.Nop{}, time.Hour, 3, zap.NewNop())

	var wg sync.WaitGroup
	entries := make([]*cache.Entry, 4)
	for i := range entries {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			e, err := store.Load(context.Background(), started.SessionID)
			assert.NoError(t, err)
			entries[i] = e
		}(i)
	}
	wg.Wait()

	entries[0].State.CurrentQuestion = "mutated"
	for _, e := range entries[1:] {
		assert.Equal(t, "Question 1?", e.State.CurrentQuestion)
	}
}

func TestStoreLoadUnknownSession(t *testing.T) {
	env := newTestEnv(t, 3)

	_, err := env.svc.store.Load(context.Background(), "missing")

	assert.ErrorIs(t, err, ErrSessionNotFound)
}

func TestSessionLocksSerializeAndRelease(t *testing.T) {
	locks := newSessionLocks()

	unlock := locks.Lock("a")
	acquired := make(chan struct{})
	go func() {
		release := locks.Lock("a")
		close(acquired)
		release()
	}()

	select {
	case <-acquired:
		t.Fatal("second holder acquired a held lock")
	case <-time.After(50 * time.Millisecond):
	}

	// Other sessions are unaffected.
	locks.Lock("b")()

	unlock()
	select {
	case <-acquired:
	case <-time.After(time.Second):
		t.Fatal("lock was not released")
	}

	assert.Eventually(t, func() bool { return locks.size() == 0 }, time.Second, 10*time.Millisecond)
}
