package services

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type fakeEmbedder struct {
	err   error
	calls int
}

func (f *fakeEmbedder) GenerateEmbedding(ctx context.Context, text string) ([]float32, error) {
	f.calls++
	if f.err != nil {
		return nil, f.err
	}
	return []float32{0.1, 0.2}, nil
}

type fakeVectorStore struct {
	byType   map[string][]SearchResult
	upserts  []string
	deleted  []string
	searched []string
}

func (f *fakeVectorStore) InitCollection(ctx context.Context) error { return nil }

func (f *fakeVectorStore) UpsertChunk(ctx context.Context, sourceID, docType, text string, embedding []float32) error {
	f.upserts = append(f.upserts, docType+":"+sourceID)
	return nil
}

func (f *fakeVectorStore) SearchSimilar(ctx context.Context, queryEmbedding []float32, docType string, limit int) ([]SearchResult, error) {
	f.searched = append(f.searched, docType)
	return f.byType[docType], nil
}

func (f *fakeVectorStore) DeleteSource(ctx context.Context, sourceID string) error {
	f.deleted = append(f.deleted, sourceID)
	return nil
}

func TestRubricRetrieverSearchesTypeAndGeneral(t *testing.T) {
	store := &fakeVectorStore{byType: map[string][]SearchResult{
		"technical": {{Text: "Probe for trade-offs.", Score: 0.91}},
		"general":   {{Text: "Reward concrete examples.", Score: 0.5}},
	}}
	r := NewRubricRetriever(&fakeEmbedder{}, store, 2)

	ctx, err := r.RetrieveRubric(context.Background(), "technical", "How do you scale a cache?")

	require.NoError(t, err)
	assert.Equal(t, []string{"technical", "general"}, store.searched)
	assert.Contains(t, ctx, "--- Context 1 (Score: 0.91) ---\nProbe for trade-offs.")
	assert.Contains(t, ctx, "Reward concrete examples.")
}

func TestRubricRetrieverEmbeddingFailure(t *testing.T) {
	r := NewRubricRetriever(&fakeEmbedder{err: errors.New("quota")}, &fakeVectorStore{}, 0)
	_, err := r.RetrieveRubric(context.Background(), "behavioral", "q")
	assert.Error(t, err)
}

func TestFormatRAGContextEmpty(t *testing.T) {
	assert.Equal(t, "", FormatRAGContext(nil))
}

func TestRubricIngestorTextGuide(t *testing.T) {
	path := filepath.Join(t.TempDir(), "star-method.md")
	require.NoError(t, os.WriteFile(path, []byte("Situation.\n\nTask.\n\nAction.\n\nResult."), 0o600))

	store := &fakeVectorStore{}
	embedder := &fakeEmbedder{}
	ing := NewRubricIngestor(NewPDFParserService(), NewTextChunker(), embedder, store, zap.NewNop())

	n, err := ing.IngestFile(context.Background(), path, "behavioral")

	require.NoError(t, err)
	assert.Equal(t, 1, n)
	assert.Equal(t, []string{"star-method.md"}, store.deleted)
	assert.Equal(t, []string{"behavioral:star-method.md"}, store.upserts)
}

func TestRubricIngestorRejectsUnknownFormat(t *testing.T) {
	ing := NewRubricIngestor(NewPDFParserService(), NewTextChunker(), &fakeEmbedder{}, &fakeVectorStore{}, zap.NewNop())
	_, err := ing.IngestFile(context.Background(), "guide.docx", "general")
	assert.Error(t, err)
}

func TestRubricIngestorAllEmbeddingsFail(t *testing.T) {
	path := filepath.Join(t.TempDir(), "guide.txt")
	require.NoError(t, os.WriteFile(path, []byte("Some guidance."), 0o600))

	ing := NewRubricIngestor(NewPDFParserService(), NewTextChunker(), &fakeEmbedder{err: errors.New("down")}, &fakeVectorStore{}, zap.NewNop())
	_, err := ing.IngestFile(context.Background(), path, "general")
	assert.Error(t, err)
}
