package services

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type stubBackend struct {
	mu      sync.Mutex
	name    string
	replies []stubReply
	calls   int
}

type stubReply struct {
	text string
	err  error
}

func (s *stubBackend) Name() string { return s.name }

func (s *stubBackend) GenerateText(ctx context.Context, prompt string) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.calls++
	if len(s.replies) == 0 {
		return "", errors.New("unexpected call")
	}
	r := s.replies[0]
	if len(s.replies) > 1 {
		s.replies = s.replies[1:]
	}
	return r.text, r.err
}

type countingObserver struct {
	outcomes  []string
	fallbacks int
}

func (o *countingObserver) ObserveGeneration(backend, outcome string) {
	o.outcomes = append(o.outcomes, backend+":"+outcome)
}

func (o *countingObserver) ObserveFallback() { o.fallbacks++ }

func recordSleeps(t *testing.T) *[]time.Duration {
	t.Helper()
	var slept []time.Duration
	original := sleep
	sleep = func(d time.Duration) { slept = append(slept, d) }
	t.Cleanup(func() { sleep = original })
	return &slept
}

func newTestGateway(primary, fallback TextGenerator, obs GatewayObserver) *Gateway {
	return NewGateway(primary, fallback, GatewayConfig{RetryCount: 2, RetryDelay: 3 * time.Second}, obs, zap.NewNop())
}

func TestGatewayPrimarySuccess(t *testing.T) {
	slept := recordSleeps(t)
	primary := &stubBackend{name: "groq", replies: []stubReply{{text: "hello"}}}
	fallback := &stubBackend{name: "gemini", replies: []stubReply{{text: "fallback"}}}

	text, err := newTestGateway(primary, fallback, nil).Invoke(context.Background(), "prompt")

	require.NoError(t, err)
	assert.Equal(t, "hello", text)
	assert.Equal(t, 1, primary.calls)
	assert.Equal(t, 0, fallback.calls)
	assert.Empty(t, *slept)
}

func TestGatewayRetriesRateLimitWithLinearBackoff(t *testing.T) {
	slept := recordSleeps(t)
	primary := &stubBackend{name: "groq", replies: []stubReply{
		{err: errors.New("error, status code: 429, message: Rate limit reached")},
		{err: errors.New("Resource Exhausted")},
		{text: "third time"},
	}}
	fallback := &stubBackend{name: "gemini"}
	obs := &countingObserver{}

	text, err := newTestGateway(primary, fallback, obs).Invoke(context.Background(), "prompt")

	require.NoError(t, err)
	assert.Equal(t, "third time", text)
	assert.Equal(t, 3, primary.calls)
	assert.Equal(t, 0, fallback.calls)
	assert.Equal(t, []time.Duration{3 * time.Second, 6 * time.Second}, *slept)
	assert.Equal(t, []string{"groq:rate_limited", "groq:rate_limited", "groq:success"}, obs.outcomes)
}

func TestGatewayRateLimitExhaustedFallsBack(t *testing.T) {
	slept := recordSleeps(t)
	primary := &stubBackend{name: "groq", replies: []stubReply{{err: errors.New("quota exceeded")}}}
	fallback := &stubBackend{name: "gemini", replies: []stubReply{{text: "from fallback"}}}
	obs := &countingObserver{}

	text, err := newTestGateway(primary, fallback, obs).Invoke(context.Background(), "prompt")

	require.NoError(t, err)
	assert.Equal(t, "from fallback", text)
	assert.Equal(t, 3, primary.calls)
	assert.Equal(t, 1, fallback.calls)
	assert.Len(t, *slept, 2)
	assert.Equal(t, 1, obs.fallbacks)
}

func TestGatewayNonRateLimitErrorSkipsRetries(t *testing.T) {
	slept := recordSleeps(t)
	primary := &stubBackend{name: "groq", replies: []stubReply{{err: errors.New("invalid api key")}}}
	fallback := &stubBackend{name: "gemini", replies: []stubReply{{text: "ok"}}}

	text, err := newTestGateway(primary, fallback, nil).Invoke(context.Background(), "prompt")

	require.NoError(t, err)
	assert.Equal(t, "ok", text)
	assert.Equal(t, 1, primary.calls)
	assert.Empty(t, *slept)
}

func TestGatewayBothBackendsFail(t *testing.T) {
	recordSleeps(t)
	primary := &stubBackend{name: "groq", replies: []stubReply{{err: errors.New("boom")}}}
	fallback := &stubBackend{name: "gemini", replies: []stubReply{{err: errors.New("also boom")}}}

	_, err := newTestGateway(primary, fallback, nil).Invoke(context.Background(), "prompt")

	require.Error(t, err)
	assert.ErrorIs(t, err, ErrGenerationFailed)
	assert.Equal(t, 1, fallback.calls)
}

func TestGatewayWithoutFallback(t *testing.T) {
	recordSleeps(t)
	primary := &stubBackend{name: "gemini", replies: []stubReply{{err: errors.New("down")}}}

	_, err := newTestGateway(primary, nil, nil).Invoke(context.Background(), "prompt")

	assert.ErrorIs(t, err, ErrGenerationFailed)
}

func TestIsRateLimited(t *testing.T) {
	assert.True(t, isRateLimited(errors.New("HTTP 429 Too Many Requests")))
	assert.True(t, isRateLimited(errors.New("RATE LIMIT exceeded")))
	assert.False(t, isRateLimited(errors.New("RESOURCE_EXHAUSTED")))
	assert.True(t, isRateLimited(errors.New("resource exhausted")))
	assert.False(t, isRateLimited(errors.New("connection refused")))
}
