package services

import (
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestChunkTextKeepsShortTextWhole(t *testing.T) {
	chunks := NewTextChunker().ChunkText("First paragraph.\n\nSecond paragraph.", 1000, 100)
	require.Len(t, chunks, 1)
	assert.Equal(t, "First paragraph.\n\nSecond paragraph.", chunks[0])
}

func TestChunkTextSplitsWithOverlap(t *testing.T) {
	para := strings.Repeat("word ", 30)
	text := strings.Join([]string{para, para, para, para}, "\n\n")

	chunks := NewTextChunker().ChunkText(text, 200, 20)

	require.Greater(t, len(chunks), 1)
	for i := 1; i < len(chunks); i++ {
		tail := lastRunes(chunks[i-1], 20)
		assert.True(t, strings.HasPrefix(chunks[i], tail), "chunk %d should start with overlap", i)
	}
}

func TestChunkTextSplitsLongParagraphBySentence(t *testing.T) {
	sentence := strings.Repeat("a", 60) + ". "
	chunks := NewTextChunker().ChunkText(strings.Repeat(sentence, 10), 150, 0)

	require.Greater(t, len(chunks), 1)
	for _, c := range chunks {
		assert.LessOrEqual(t, utf8.RuneCountInString(c), 150)
	}
}

func TestChunkTextEmpty(t *testing.T) {
	assert.Empty(t, NewTextChunker().ChunkText("\n\n  \n\n", 100, 10))
}
