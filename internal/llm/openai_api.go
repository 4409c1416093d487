package llm

import (
	"context"
	"fmt"
	"os"

	openai "github.com/openai/openai-go/v3"
	"github.com/openai/openai-go/v3/option"

	"github.com/dhabedank/promptsmith/internal/core"
)

// OpenAIAPIAdapter uses the OpenAI API directly.
type OpenAIAPIAdapter struct {
	client    openai.Client
	config    Config
	maxTokens int
}

// NewOpenAIAPIAdapter creates an OpenAI API adapter.
func NewOpenAIAPIAdapter(config Config) (*OpenAIAPIAdapter, error) {
	apiKey := config.APIKey
	if apiKey == "" {
		apiKey = os.Getenv("OPENAI_API_KEY")
	}
	if apiKey == "" {
		return nil, fmt.Errorf("OPENAI_API_KEY not set")
	}

	client := openai.NewClient(option.WithAPIKey(apiKey))

	if config.Model == "" {
		config.Model = "gpt-4o"
	}

	maxTokens := config.MaxTokens
	if maxTokens == 0 {
		maxTokens = 8192
	}

	return &OpenAIAPIAdapter{
		client:    client,
		config:    config,
		maxTokens: maxTokens,
	}, nil
}

func (a *OpenAIAPIAdapter) Name() string {
	return "openai-api"
}

func (a *OpenAIAPIAdapter) IsAvailable() bool {
	return os.Getenv("OPENAI_API_KEY") != "" || a.config.APIKey != ""
}

func (a *OpenAIAPIAdapter) Analyze(ctx context.Context, req core.AnalyzeRequest) (*core.AnalysisResult, error) {
	output, err := a.generate(ctx, a.config.ModelForTask("analyze"), core.AnalyzeSystemPrompt, core.BuildAnalyzeUserPrompt(req))
	if err != nil {
		return nil, err
	}
	return ParseAnalysisResponse(output)
}

func (a *OpenAIAPIAdapter) Enhance(ctx context.Context, req core.EnhanceRequest) (*core.EnhanceResult, error) {
	output, err := a.generate(ctx, a.config.ModelForTask("enhance"), core.EnhanceSystemPrompt, core.BuildEnhanceUserPrompt(req))
	if err != nil {
		return nil, err
	}
	return ParseEnhanceResponse(output)
}

func (a *OpenAIAPIAdapter) generate(ctx context.Context, model, systemPrompt, userPrompt string) (string, error) {
	resp, err := a.client.Chat.Completions.New(ctx, openai.ChatCompletionNewParams{
		Model: openai.ChatModel(model),
		Messages: []openai.ChatCompletionMessageParamUnion{
			openai.SystemMessage(systemPrompt),
			openai.UserMessage(userPrompt),
		},
		MaxCompletionTokens: openai.Int(int64(a.maxTokens)),
	})
	if err != nil {
		return "", fmt.Errorf("openai API error: %w", err)
	}

	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("openai API returned no choices")
	}

	return resp.Choices[0].Message.Content, nil
}
