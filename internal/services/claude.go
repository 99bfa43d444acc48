package services

import (
	"context"
	"fmt"
	"strings"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"
	"go.uber.org/zap"
)

type ClaudeConfig struct {
	APIKey    string
	Model     string
	MaxTokens int
}

type claudeService struct {
	client    anthropic.Client
	model     anthropic.Model
	maxTokens int64
	logger    *zap.Logger
}

func NewClaudeService(cfg ClaudeConfig, logger *zap.Logger) (TextGenerator, error) {
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("claude API key is not configured")
	}

	model := anthropic.Model(cfg.Model)
	if cfg.Model == "" {
		model = anthropic.ModelClaude3_7SonnetLatest
	}
	if cfg.MaxTokens <= 0 {
		cfg.MaxTokens = 4096
	}

	return &claudeService{
		client:    anthropic.NewClient(option.WithAPIKey(cfg.APIKey)),
		model:     model,
		maxTokens: int64(cfg.MaxTokens),
		logger:    logger,
	}, nil
}

func (c *claudeService) Provider() string {
	return "claude"
}

// GenerateText implements TextGenerator.
func (c *claudeService) GenerateText(ctx context.Context, prompt string, temperature float32) (string, error) {
	response, err := c.client.Messages.New(ctx, anthropic.MessageNewParams{
		Model:       c.model,
		MaxTokens:   c.maxTokens,
		Temperature: anthropic.Float(float64(temperature)),
		Messages: []anthropic.MessageParam{{
			Content: []anthropic.ContentBlockParamUnion{{
				OfText: &anthropic.TextBlockParam{Text: prompt},
			}},
			Role: anthropic.MessageParamRoleUser,
		}},
	})
	if err != nil {
		c.logger.Error("❌ Claude API error", zap.Error(err))
		return "", fmt.Errorf("failed to generate text: %w", err)
	}

	var parts []string
	for _, block := range response.Content {
		if text := block.AsText().Text; text != "" {
			parts = append(parts, text)
		}
	}
	if len(parts) == 0 {
		return "", fmt.Errorf("no text content in Claude response")
	}

	c.logger.Debug("📊 Claude response received",
		zap.Int64("input_tokens", response.Usage.InputTokens),
		zap.Int64("output_tokens", response.Usage.OutputTokens),
	)
	return strings.Join(parts, "\n"), nil
}
