package llm

import (
	"context"
	"fmt"
	"os"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"

	"github.com/dhabedank/promptsmith/internal/core"
)

// AnthropicAPIAdapter uses the Anthropic API directly.
// Fallback when the Claude CLI is not available.
type AnthropicAPIAdapter struct {
	client    anthropic.Client
	config    Config
	maxTokens int
}

// NewAnthropicAPIAdapter creates an Anthropic API adapter.
func NewAnthropicAPIAdapter(config Config) (*AnthropicAPIAdapter, error) {
	apiKey := config.APIKey
	if apiKey == "" {
		apiKey = os.Getenv("ANTHROPIC_API_KEY")
	}
	if apiKey == "" {
		return nil, fmt.Errorf("ANTHROPIC_API_KEY not set")
	}

	client := anthropic.NewClient(option.WithAPIKey(apiKey))

	if config.Model == "" {
		config.Model = "claude-sonnet-4-5-20250929"
	}

	maxTokens := config.MaxTokens
	if maxTokens == 0 {
		maxTokens = 8192
	}

	return &AnthropicAPIAdapter{
		client:    client,
		config:    config,
		maxTokens: maxTokens,
	}, nil
}

func (a *AnthropicAPIAdapter) Name() string {
	return "anthropic-api"
}

func (a *AnthropicAPIAdapter) IsAvailable() bool {
	return os.Getenv("ANTHROPIC_API_KEY") != "" || a.config.APIKey != ""
}

func (a *AnthropicAPIAdapter) Analyze(ctx context.Context, req core.AnalyzeRequest) (*core.AnalysisResult, error) {
	output, err := a.generate(ctx, a.config.ModelForTask("analyze"), core.AnalyzeSystemPrompt, core.BuildAnalyzeUserPrompt(req))
	if err != nil {
		return nil, err
	}
	return ParseAnalysisResponse(output)
}

func (a *AnthropicAPIAdapter) Enhance(ctx context.Context, req core.EnhanceRequest) (*core.EnhanceResult, error) {
	output, err := a.generate(ctx, a.config.ModelForTask("enhance"), core.EnhanceSystemPrompt, core.BuildEnhanceUserPrompt(req))
	if err != nil {
		return nil, err
	}
	return ParseEnhanceResponse(output)
}

func (a *AnthropicAPIAdapter) generate(ctx context.Context, model, systemPrompt, userPrompt string) (string, error) {
	resp, err := a.client.Messages.New(ctx, anthropic.MessageNewParams{
		Model:     anthropic.Model(model),
		MaxTokens: int64(a.maxTokens),
		System: []anthropic.TextBlockParam{
			{Text: systemPrompt},
		},
		Messages: []anthropic.MessageParam{
			anthropic.NewUserMessage(anthropic.NewTextBlock(userPrompt)),
		},
	})
	if err != nil {
		return "", fmt.Errorf("anthropic API error: %w", err)
	}

	// Extract text from response
	var output string
	for _, block := range resp.Content {
		if block.Type == "text" {
			output += block.Text
		}
	}

	return output, nil
}
