package main

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"alfredoptarigan/interview-simulator/internal/services"
)

var ingestCmd = &cobra.Command{
	Use:   "ingest",
	Short: "Load interview guides (PDF, TXT, MD) into the rubric store",
	RunE:  runIngest,
}

func init() {
	ingestCmd.Flags().String("dir", "./reference_docs", "directory containing interview guides")
	ingestCmd.Flags().String("doc-type", services.GeneralRubricType, "guide type: behavioral, technical or general")
}

var guideTypes = map[string]bool{
	"behavioral":               true,
	"technical":                true,
	services.GeneralRubricType: true,
}

var guideExtensions = map[string]bool{".pdf": true, ".txt": true, ".md": true}

func runIngest(cmd *cobra.Command, _ []string) error {
	cfg := loadConfig(cmd)
	log, err := newLogger(cfg)
	if err != nil {
		return err
	}
	defer log.Sync()

	dir, _ := cmd.Flags().GetString("dir")
	docType, _ := cmd.Flags().GetString("doc-type")
	if !guideTypes[docType] {
		return fmt.Errorf("unsupported doc type %q", docType)
	}
	if cfg.LLM.GeminiAPIKey == "" || cfg.Qdrant.URL == "" {
		return errors.New("GEMINI_API_KEY and QDRANT_URL are required for ingestion")
	}

	ctx := cmd.Context()
	rt := &runtime{cfg: cfg, log: log}

	gemini, err := services.NewGeminiService(ctx, cfg.LLM.GeminiAPIKey, cfg.LLM.FallbackModel, cfg.LLM.EmbedModel, cfg.LLM.Temperature)
	if err != nil {
		return err
	}
	store, err := rt.newQdrant(ctx)
	if err != nil {
		return err
	}

	ingestor := services.NewRubricIngestor(services.NewPDFParserService(), services.NewTextChunker(), gemini, store, log.Named("ingest"))

	entries, err := os.ReadDir(dir)
	if err != nil {
		return fmt.Errorf("failed to read guide directory: %w", err)
	}

	log.Info("🚀 Starting guide ingestion", zap.String("dir", dir), zap.String("doc_type", docType))

	successCount, failCount := 0, 0
	for _, entry := range entries {
		if entry.IsDir() || !guideExtensions[strings.ToLower(filepath.Ext(entry.Name()))] {
			continue
		}

		path := filepath.Join(dir, entry.Name())
		chunks, err := ingestor.IngestFile(ctx, path, docType)
		if err != nil {
			log.Warn("❌ Failed to ingest guide", zap.String("file", entry.Name()), zap.Error(err))
			failCount++
			continue
		}

		log.Info("📄 Guide ingested", zap.String("file", entry.Name()), zap.Int("chunks", chunks))
		successCount++
	}

	log.Info("📊 Ingestion summary", zap.Int("successful", successCount), zap.Int("failed", failCount))
	if failCount > 0 {
		return fmt.Errorf("%d guides failed to ingest", failCount)
	}
	if successCount == 0 {
		log.Warn("⚠️ No guides found", zap.String("dir", dir))
	}
	return nil
}
