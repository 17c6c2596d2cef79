package logger

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

func TestTruncateForLog(t *testing.T) {
	assert.Equal(t, "abc", TruncateForLog("  abc  ", 10))
	assert.Equal(t, "ab...", TruncateForLog("abcdef", 2))
	assert.Equal(t, "", TruncateForLog("abc", 0))
	assert.Equal(t, "жё...", TruncateForLog("жёлтый", 2))
}

func TestNew(t *testing.T) {
	l, err := New(true, true)
	require.NoError(t, err)
	assert.True(t, l.Core().Enabled(zap.DebugLevel))

	l, err = New(false, false)
	require.NoError(t, err)
	assert.False(t, l.Core().Enabled(zap.DebugLevel))
}

type providerError struct{ msg string }

func (e *providerError) Error() string { return e.msg }

func TestErrorKindHidesMessage(t *testing.T) {
	core, logs := observer.New(zap.InfoLevel)
	l := zap.New(core)

	l.Error("call failed", ErrorKind(&providerError{msg: "secret key sk-123 rejected"}))
	l.Info("no error", ErrorKind(nil))

	entries := logs.All()
	require.Len(t, entries, 2)
	assert.Equal(t, "*logger.providerError", entries[0].ContextMap()["error_kind"])
	assert.Empty(t, entries[1].ContextMap())
	assert.NotContains(t, entries[0].ContextMap(), "error")
}
