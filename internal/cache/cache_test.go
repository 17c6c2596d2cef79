package cache

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"alfredoptarigan/interview-simulator/internal/models"
)

func newTestBadger(t *testing.T) SessionCache {
	t.Helper()
	c, err := NewBadger(BadgerConfig{InMemory: true})
	require.NoError(t, err)
	t.Cleanup(func() { c.Close() })
	return c
}

func TestKey(t *testing.T) {
	assert.Equal(t, "interview:abc123", Key("abc123"))
}

func TestBadgerRoundTrip(t *testing.T) {
	c := newTestBadger(t)
	ctx := context.Background()

	state := models.NewSessionState("s1", "resume", "jd", models.InterviewTechnical, models.DifficultyMid, "")
	state.CurrentQuestion = "What is a mutex?"
	pending := &models.PendingFollowUp{Question: "What is a mutex?", Answer: "A lock."}

	require.NoError(t, c.Set(ctx, "s1", NewEntry(state, pending), time.Hour))

	got, err := c.Get(ctx, "s1")
	require.NoError(t, err)
	assert.Equal(t, state, got.State)
	assert.Equal(t, pending, got.Pending())

	require.NoError(t, c.Delete(ctx, "s1"))
	_, err = c.Get(ctx, "s1")
	assert.ErrorIs(t, err, ErrCacheMiss)
}

func TestBadgerMiss(t *testing.T) {
	_, err := newTestBadger(t).Get(context.Background(), "nope")
	assert.ErrorIs(t, err, ErrCacheMiss)
}

func TestBadgerRequiresPath(t *testing.T) {
	_, err := NewBadger(BadgerConfig{})
	assert.Error(t, err)
}

func TestEntryWithoutPending(t *testing.T) {
	e := NewEntry(&models.SessionState{ID: "x"}, nil)
	assert.False(t, e.AwaitingFollowUp)
	assert.Nil(t, e.Pending())
}

func TestNopAlwaysMisses(t *testing.T) {
	var c SessionCache = Nop{}
	require.NoError(t, c.Set(context.Background(), "a", &Entry{}, time.Minute))
	_, err := c.Get(context.Background(), "a")
	assert.ErrorIs(t, err, ErrCacheMiss)
}
