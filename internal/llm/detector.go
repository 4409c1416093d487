package llm

import (
	"fmt"
	"os"
	"os/exec"
)

// ModelInfo describes an available model.
type ModelInfo struct {
	ID          string // Model identifier (e.g., "claude-sonnet-4-5-20250929")
	Name        string // Human-readable name (e.g., "Claude Sonnet 4.5")
	Description string // Brief description
	Provider    string // Provider name (e.g., "anthropic", "openai")
}

// claudeModels lists Claude models usable for analysis and enhancement.
var claudeModels = []ModelInfo{
	{ID: "claude-opus-4-5-20251101", Name: "Claude Opus 4.5", Description: "Premium model, maximum intelligence ($5/$25 per MTok)", Provider: "anthropic"},
	{ID: "claude-sonnet-4-5-20250929", Name: "Claude Sonnet 4.5", Description: "Best balance of speed and capability ($3/$15 per MTok)", Provider: "anthropic"},
	{ID: "claude-haiku-4-5-20251001", Name: "Claude Haiku 4.5", Description: "Fastest, most cost-effective ($1/$5 per MTok)", Provider: "anthropic"},
	{ID: "claude-sonnet-4-20250514", Name: "Claude Sonnet 4", Description: "Previous balanced model ($3/$15 per MTok)", Provider: "anthropic"},
}

// openaiModels lists OpenAI models usable via the API.
var openaiModels = []ModelInfo{
	{ID: "gpt-4o", Name: "GPT-4o", Description: "Fast multimodal model", Provider: "openai"},
	{ID: "gpt-4o-mini", Name: "GPT-4o Mini", Description: "Most cost-effective", Provider: "openai"},
	{ID: "o3-mini", Name: "O3 Mini", Description: "Fast reasoning model", Provider: "openai"},
}

// AvailableModels returns models grouped by provider based on what is
// reachable (CLI installed or API key set).
func AvailableModels() map[string][]ModelInfo {
	result := make(map[string][]ModelInfo)

	if _, err := exec.LookPath("claude"); err == nil {
		result["anthropic"] = claudeModels
	} else if os.Getenv("ANTHROPIC_API_KEY") != "" {
		result["anthropic"] = claudeModels
	}

	if os.Getenv("OPENAI_API_KEY") != "" {
		result["openai"] = openaiModels
	}

	return result
}

// AllModels returns a flat list of all available models.
func AllModels() []ModelInfo {
	available := AvailableModels()
	var result []ModelInfo

	// Claude models first (preferred)
	if models, ok := available["anthropic"]; ok {
		result = append(result, models...)
	}
	if models, ok := available["openai"]; ok {
		result = append(result, models...)
	}

	return result
}

// DetectBestAdapter finds the best available LLM adapter.
// Priority: Claude CLI > Anthropic API > OpenAI API
func DetectBestAdapter(config Config) (Adapter, error) {
	if config.PreferCLI {
		claude := NewClaudeCLIAdapter(config)
		if claude.IsAvailable() {
			return claude, nil
		}
	}

	anthropicAdapter, err := NewAnthropicAPIAdapter(config)
	if err == nil && anthropicAdapter.IsAvailable() {
		return anthropicAdapter, nil
	}

	openaiAdapter, err := NewOpenAIAPIAdapter(config)
	if err == nil && openaiAdapter.IsAvailable() {
		return openaiAdapter, nil
	}

	return nil, fmt.Errorf("no LLM adapter available - install Claude Code, or set ANTHROPIC_API_KEY or OPENAI_API_KEY")
}

// ListAvailableAdapters returns all adapters that could be used.
func ListAvailableAdapters(config Config) []string {
	available := []string{}

	claude := NewClaudeCLIAdapter(config)
	if claude.IsAvailable() {
		available = append(available, "claude-cli")
	}

	anthropicAdapter, _ := NewAnthropicAPIAdapter(config)
	if anthropicAdapter != nil && anthropicAdapter.IsAvailable() {
		available = append(available, "anthropic-api")
	}

	openaiAdapter, _ := NewOpenAIAPIAdapter(config)
	if openaiAdapter != nil && openaiAdapter.IsAvailable() {
		available = append(available, "openai-api")
	}

	return available
}
