package services

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/santhosh-tekuri/jsonschema/v5"
	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"jobify/cv-scorer/internal/logger"
	"jobify/cv-scorer/internal/models"
)

// AIScorer asks an external model for a CV/job fit score.
type AIScorer interface {
	Score(ctx context.Context, data models.CVScoringPromptData) (*models.GeminiCVScoringResponse, error)
	Provider() string
}

const scoreResponseSchema = `{
  "type": "object",
  "required": ["score"],
  "properties": {
    "score":           {"type": "number"},
    "summary":         {"type": ["string", "null"]},
    "strengths":       {"type": ["array", "null"], "items": {"type": "string"}},
    "weaknesses":      {"type": ["array", "null"], "items": {"type": "string"}},
    "matchingSkills":  {"type": ["array", "null"], "items": {"type": "string"}},
    "missingSkills":   {"type": ["array", "null"], "items": {"type": "string"}},
    "suggestions":     {"type": ["array", "null"], "items": {"type": "string"}},
    "experienceMatch": {"type": ["string", "null"]},
    "educationMatch":  {"type": ["string", "null"]}
  }
}`

type AIScorerConfig struct {
	Temperature        float32
	MaxRetries         int
	RateLimitPerMinute int
}

type aiScorer struct {
	generator     TextGenerator
	retriever     RubricRetriever
	promptBuilder *PromptBuilder
	limiter       *rate.Limiter
	schema        *jsonschema.Schema
	cfg           AIScorerConfig
	logger        *zap.Logger
}

// NewAIScorer wraps a text generator. retriever may be nil.
func NewAIScorer(generator TextGenerator, retriever RubricRetriever, cfg AIScorerConfig, logger *zap.Logger) (AIScorer, error) {
	schema, err := compileScoreSchema()
	if err != nil {
		return nil, err
	}

	if cfg.MaxRetries <= 0 {
		cfg.MaxRetries = 1
	}

	limit := rate.Inf
	if cfg.RateLimitPerMinute > 0 {
		limit = rate.Limit(float64(cfg.RateLimitPerMinute) / 60.0)
	}

	return &aiScorer{
		generator:     generator,
		retriever:     retriever,
		promptBuilder: NewPromptBuilder(),
		limiter:       rate.NewLimiter(limit, 1),
		schema:        schema,
		cfg:           cfg,
		logger:        logger,
	}, nil
}

func compileScoreSchema() (*jsonschema.Schema, error) {
	compiler := jsonschema.NewCompiler()
	if err := compiler.AddResource("score.json", strings.NewReader(scoreResponseSchema)); err != nil {
		return nil, fmt.Errorf("add schema: %w", err)
	}
	schema, err := compiler.Compile("score.json")
	if err != nil {
		return nil, fmt.Errorf("compile schema: %w", err)
	}
	return schema, nil
}

func (s *aiScorer) Provider() string {
	return s.generator.Provider()
}

// Score implements AIScorer.
func (s *aiScorer) Score(ctx context.Context, data models.CVScoringPromptData) (*models.GeminiCVScoringResponse, error) {
	rubricContext := ""
	if s.retriever != nil {
		rc, err := s.retriever.Retrieve(ctx, data.Job)
		if err != nil {
			s.logger.Warn("⚠️ Failed to retrieve rubric context", zap.Error(err))
		} else {
			rubricContext = rc
		}
	}

	prompt := s.promptBuilder.BuildCVScoringPrompt(data, rubricContext)
	s.logger.Debug("📝 CV scoring prompt built", zap.Int("chars", len(prompt)))

	response, err := s.generateWithRetry(ctx, prompt)
	if err != nil {
		return nil, err
	}

	s.logger.Info("✅ CV scoring response received",
		zap.String("provider", s.Provider()),
		zap.Int("chars", len(response)),
	)

	result, err := s.parseResponse(response)
	if err != nil {
		s.logger.Error("❌ Failed to parse CV scoring response",
			zap.Error(err),
			zap.String("response", logger.TruncateForLog(response, 500)),
		)
		return nil, err
	}

	return result, nil
}

func (s *aiScorer) generateWithRetry(ctx context.Context, prompt string) (string, error) {
	var lastErr error

	for attempt := 1; attempt <= s.cfg.MaxRetries; attempt++ {
		if err := s.limiter.Wait(ctx); err != nil {
			return "", fmt.Errorf("rate limiter: %w", err)
		}

		result, err := s.generator.GenerateText(ctx, prompt, s.cfg.Temperature)
		if err == nil {
			return result, nil
		}
		lastErr = err

		if ctx.Err() != nil {
			return "", fmt.Errorf("context cancelled: %w", ctx.Err())
		}

		if attempt < s.cfg.MaxRetries {
			s.logger.Warn("⚠️ AI attempt failed, retrying", zap.Int("attempt", attempt), zap.Error(err))
		}
	}

	return "", fmt.Errorf("failed after %d attempts: %w", s.cfg.MaxRetries, lastErr)
}

func (s *aiScorer) parseResponse(response string) (*models.GeminiCVScoringResponse, error) {
	jsonStr := extractJSON(response)

	var raw any
	if err := json.Unmarshal([]byte(jsonStr), &raw); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedResponse, err)
	}
	if err := s.schema.Validate(raw); err != nil {
		return nil, fmt.Errorf("%w: json does not match schema: %v", ErrMalformedResponse, err)
	}

	var result models.GeminiCVScoringResponse
	if err := json.Unmarshal([]byte(jsonStr), &result); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedResponse, err)
	}

	return &result, nil
}

// extractJSON pulls the JSON object out of text that may be wrapped in
// markdown fences or prose.
func extractJSON(text string) string {
	text = strings.ReplaceAll(text, "```json", "")
	text = strings.ReplaceAll(text, "```", "")

	start := strings.Index(text, "{")
	end := strings.LastIndex(text, "}")
	if start != -1 && end > start {
		return text[start : end+1]
	}

	return strings.TrimSpace(text)
}

// RubricRetriever returns prompt context for a job, or "" when nothing matches.
type RubricRetriever interface {
	Retrieve(ctx context.Context, job models.JobPayload) (string, error)
}

type rubricRetriever struct {
	embedder      Embedder
	store         RubricStore
	promptBuilder *PromptBuilder
	limit         int
	logger        *zap.Logger
}

func NewRubricRetriever(embedder Embedder, store RubricStore, logger *zap.Logger) RubricRetriever {
	return &rubricRetriever{
		embedder:      embedder,
		store:         store,
		promptBuilder: NewPromptBuilder(),
		limit:         3,
		logger:        logger,
	}
}

// Retrieve implements RubricRetriever. A failing doc type is skipped.
func (r *rubricRetriever) Retrieve(ctx context.Context, job models.JobPayload) (string, error) {
	var all []SearchResult
	var lastErr error

	for _, docType := range []string{DocTypeJobDescription, DocTypeCVRubric} {
		query := r.promptBuilder.BuildRetrievalQuery(docType, job)

		embedding, err := r.embedder.GenerateEmbedding(ctx, query)
		if err != nil {
			lastErr = fmt.Errorf("failed to generate query embedding: %w", err)
			continue
		}

		results, err := r.store.SearchSimilar(ctx, embedding, docType, r.limit)
		if err != nil {
			r.logger.Warn("⚠️ Rubric search failed", zap.String("doc_type", docType), zap.Error(err))
			lastErr = err
			continue
		}
		all = append(all, results...)
	}

	if len(all) == 0 && lastErr != nil {
		return "", lastErr
	}

	r.logger.Debug("🔍 Rubric context retrieved", zap.Int("chunks", len(all)))
	return FormatRAGContext(all), nil
}

// NewTextGenerator builds the generator selected by provider.
func NewTextGenerator(ctx context.Context, provider string, gemini GeminiConfig, claude ClaudeConfig, logger *zap.Logger) (TextGenerator, error) {
	switch strings.ToLower(provider) {
	case "", models.ProviderGemini:
		return NewGeminiService(ctx, gemini, logger)
	case models.ProviderClaude:
		return NewClaudeService(claude, logger)
	default:
		return nil, fmt.Errorf("%w: %q", ErrProviderNotAllowed, provider)
	}
}
