// Package app assembles the scoring pipeline from configuration. Both the API
// server and the CLI build their services here.
package app

import (
	"context"

	"go.uber.org/zap"

	"jobify/cv-scorer/internal/config"
	"jobify/cv-scorer/internal/services"
)

type Components struct {
	Analyzer     services.TextAnalyzer
	Parser       services.DocumentParser
	Fallback     services.FallbackScorer
	Orchestrator services.Orchestrator

	// Scorer is nil when no AI provider could be configured; documents are
	// then scored in degraded demo mode.
	Scorer services.AIScorer
	// Embedder and Rubrics are nil when rubric retrieval is disabled.
	Embedder services.Embedder
	Rubrics  services.RubricStore
}

// Build wires every service the pipeline needs. Optional integrations that
// fail to start are logged and left out.
func Build(ctx context.Context, cfg *config.Config, log *zap.Logger) (*Components, error) {
	analyzer := services.NewTextAnalyzer()
	parser := services.NewDocumentParser(
		services.NewPDFParserService(log),
		services.NewDOCXParserService(log),
		services.NewOCRService(services.NewExecRunner(log), services.OCRConfig{
			Binary:      cfg.OCR.Tesseract,
			Language:    cfg.OCR.Language,
			TessdataDir: cfg.OCR.TessdataDir,
		}, log),
		analyzer,
		log,
	)
	fallback := services.NewFallbackScorer(analyzer)
	log.Info("✅ Document pipeline initialized")

	c := &Components{
		Analyzer: analyzer,
		Parser:   parser,
		Fallback: fallback,
	}

	geminiCfg := services.GeminiConfig{
		APIKey:     cfg.Gemini.APIKey,
		Model:      cfg.Gemini.Model,
		EmbedModel: cfg.Gemini.EmbedModel,
	}
	claudeCfg := services.ClaudeConfig{
		APIKey:    cfg.Claude.APIKey,
		Model:     cfg.Claude.Model,
		MaxTokens: cfg.Claude.MaxTokens,
	}

	generator, err := services.NewTextGenerator(ctx, cfg.AI.Provider, geminiCfg, claudeCfg, log)
	if err != nil {
		log.Warn("⚠️ AI provider unavailable, scoring will use demo mode", zap.String("provider", cfg.AI.Provider), zap.Error(err))
	} else {
		log.Info("✅ AI provider initialized", zap.String("provider", generator.Provider()))
	}

	if cfg.RubricRetrievalEnabled() {
		c.Embedder, c.Rubrics = initRubrics(ctx, cfg, generator, geminiCfg, log)
	}

	if generator != nil {
		var retriever services.RubricRetriever
		if c.Embedder != nil && c.Rubrics != nil {
			retriever = services.NewRubricRetriever(c.Embedder, c.Rubrics, log)
		}

		scorer, err := services.NewAIScorer(generator, retriever, services.AIScorerConfig{
			Temperature:        cfg.AI.Temperature,
			MaxRetries:         cfg.AI.MaxRetries,
			RateLimitPerMinute: cfg.AI.RateLimitPerMinute,
		}, log)
		if err != nil {
			return nil, err
		}
		c.Scorer = scorer
	}

	c.Orchestrator = services.NewOrchestrator(c.Scorer, fallback, services.OrchestratorConfig{
		AITimeout:     cfg.Scoring.AITimeout,
		FallbackDelay: cfg.Scoring.FallbackDelay,
	}, log)

	return c, nil
}

func initRubrics(ctx context.Context, cfg *config.Config, generator services.TextGenerator, geminiCfg services.GeminiConfig, log *zap.Logger) (services.Embedder, services.RubricStore) {
	embedder, ok := generator.(services.Embedder)
	if !ok {
		gemini, err := services.NewGeminiService(ctx, geminiCfg, log)
		if err != nil {
			log.Warn("⚠️ Embeddings unavailable, rubric retrieval disabled", zap.Error(err))
			return nil, nil
		}
		embedder = gemini
	}

	store, err := services.NewQdrantService(cfg.Qdrant.URL, cfg.Qdrant.APIKey, cfg.Qdrant.Collection, log)
	if err != nil {
		log.Warn("⚠️ Qdrant unavailable, rubric retrieval disabled", zap.Error(err))
		return nil, nil
	}
	if err := store.InitCollection(ctx); err != nil {
		log.Warn("⚠️ Qdrant collection unavailable, rubric retrieval disabled", zap.Error(err))
		return nil, nil
	}

	log.Info("✅ Rubric retrieval enabled", zap.String("collection", cfg.Qdrant.Collection))
	return embedder, store
}
