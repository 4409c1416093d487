package llm

import (
	"context"

	"github.com/dhabedank/promptsmith/internal/core"
)

// Adapter is the interface all LLM adapters must implement.
type Adapter interface {
	// Name returns the adapter identifier for logging.
	Name() string

	// IsAvailable checks if this adapter can be used (CLI installed, API key set, etc.)
	IsAvailable() bool

	// Analyze asks the LLM for clarifying questions, variable candidates,
	// and a master command for the given prompt.
	Analyze(ctx context.Context, req core.AnalyzeRequest) (*core.AnalysisResult, error)

	// Enhance asks the LLM to rewrite the prompt using the user's answers
	// and relevant variables. Placeholder tokens must survive verbatim.
	Enhance(ctx context.Context, req core.EnhanceRequest) (*core.EnhanceResult, error)
}

// Config holds configuration for LLM adapters.
type Config struct {
	// PreferCLI prefers the Claude CLI over API access when available.
	PreferCLI bool

	// Model specifies which model to use (optional, adapter chooses default).
	Model string

	// Per-task model configuration. These override Model when set.
	AnalyzeModel string `yaml:"analyze_model"`
	EnhanceModel string `yaml:"enhance_model"`

	// APIKey for direct API access (optional if the CLI is used).
	APIKey string

	// MaxTokens limits response length.
	MaxTokens int
}

// ModelForTask returns the model to use for "analyze" or "enhance".
// Falls back to the default Model if no task-specific model is set.
func (c Config) ModelForTask(task string) string {
	switch task {
	case "analyze":
		if c.AnalyzeModel != "" {
			return c.AnalyzeModel
		}
	case "enhance":
		if c.EnhanceModel != "" {
			return c.EnhanceModel
		}
	}
	return c.Model
}

// DefaultConfig returns sensible defaults.
func DefaultConfig() Config {
	return Config{
		PreferCLI: true, // Use the CLI when available (already authenticated)
		MaxTokens: 8192,
	}
}
