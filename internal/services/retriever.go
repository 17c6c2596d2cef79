package services

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"go.uber.org/zap"
)

// GeneralRubricType tags guide chunks that apply to every interview type.
const GeneralRubricType = "general"

// RubricRetriever finds interview guide passages relevant to an answer.
type RubricRetriever struct {
	embedder Embedder
	store    QdrantService
	limit    int
}

func NewRubricRetriever(embedder Embedder, store QdrantService, limit int) *RubricRetriever {
	if limit <= 0 {
		limit = 3
	}
	return &RubricRetriever{embedder: embedder, store: store, limit: limit}
}

// RetrieveRubric returns formatted guide context for the interview type, or
// an empty string when nothing relevant is stored.
func (r *RubricRetriever) RetrieveRubric(ctx context.Context, interviewType, query string) (string, error) {
	embedding, err := r.embedder.GenerateEmbedding(ctx, query)
	if err != nil {
		return "", fmt.Errorf("failed to generate query embedding: %w", err)
	}

	var all []SearchResult
	for _, docType := range []string{interviewType, GeneralRubricType} {
		results, err := r.store.SearchSimilar(ctx, embedding, docType, r.limit)
		if err != nil {
			return "", fmt.Errorf("failed to search %s rubric: %w", docType, err)
		}
		all = append(all, results...)
	}

	return FormatRAGContext(all), nil
}

// FormatRAGContext renders search hits as numbered context blocks.
func FormatRAGContext(results []SearchResult) string {
	if len(results) == 0 {
		return ""
	}

	parts := make([]string, 0, len(results))
	for i, result := range results {
		parts = append(parts, fmt.Sprintf("--- Context %d (Score: %.2f) ---\n%s",
			i+1, result.Score, strings.TrimSpace(result.Text)))
	}

	return strings.Join(parts, "\n\n")
}

// RubricIngestor loads interview guides into the vector store.
type RubricIngestor struct {
	parser   PDFParserService
	chunker  TextChunker
	embedder Embedder
	store    QdrantService
	logger   *zap.Logger
}

func NewRubricIngestor(parser PDFParserService, chunker TextChunker, embedder Embedder, store QdrantService, log *zap.Logger) *RubricIngestor {
	return &RubricIngestor{parser: parser, chunker: chunker, embedder: embedder, store: store, logger: log}
}

// IngestFile replaces any previous chunks of path and returns how many
// chunks were stored.
func (i *RubricIngestor) IngestFile(ctx context.Context, path, docType string) (int, error) {
	text, err := i.readGuide(path)
	if err != nil {
		return 0, err
	}

	sourceID := filepath.Base(path)
	if err := i.store.DeleteSource(ctx, sourceID); err != nil {
		return 0, err
	}

	chunks := i.chunker.ChunkText(text, defaultChunkSize, defaultChunkOverlap)
	stored := 0
	for n, chunk := range chunks {
		embedding, err := i.embedder.GenerateEmbedding(ctx, chunk)
		if err != nil {
			i.logger.Warn("failed to embed chunk", zap.String("source", sourceID), zap.Int("chunk", n+1), zap.Error(err))
			continue
		}
		if err := i.store.UpsertChunk(ctx, sourceID, docType, chunk, embedding); err != nil {
			i.logger.Warn("failed to store chunk", zap.String("source", sourceID), zap.Int("chunk", n+1), zap.Error(err))
			continue
		}
		stored++
	}

	if stored == 0 && len(chunks) > 0 {
		return 0, fmt.Errorf("no chunks stored for %s", sourceID)
	}
	return stored, nil
}

func (i *RubricIngestor) readGuide(path string) (string, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".pdf":
		content, err := i.parser.ExtractTextWithMetaData(path)
		if err != nil {
			return "", err
		}
		return content.Text, nil
	case ".txt", ".md":
		data, err := os.ReadFile(path)
		if err != nil {
			return "", fmt.Errorf("failed to read guide: %w", err)
		}
		return string(data), nil
	default:
		return "", fmt.Errorf("unsupported guide format: %s", filepath.Ext(path))
	}
}
