package llm

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"strings"

	"github.com/dhabedank/promptsmith/internal/core"
)

// ClaudeCLIAdapter uses the Claude Code CLI for generation.
// This is preferred because users already have it authenticated.
type ClaudeCLIAdapter struct {
	config Config
}

// NewClaudeCLIAdapter creates a Claude CLI adapter.
func NewClaudeCLIAdapter(config Config) *ClaudeCLIAdapter {
	if config.Model == "" {
		config.Model = "claude-sonnet-4-5-20250929"
	}
	return &ClaudeCLIAdapter{config: config}
}

func (a *ClaudeCLIAdapter) Name() string {
	return "claude-cli"
}

// IsAvailable checks if the claude CLI is installed.
func (a *ClaudeCLIAdapter) IsAvailable() bool {
	_, err := exec.LookPath("claude")
	return err == nil
}

func (a *ClaudeCLIAdapter) Analyze(ctx context.Context, req core.AnalyzeRequest) (*core.AnalysisResult, error) {
	output, err := a.generateRaw(ctx, a.config.ModelForTask("analyze"), core.AnalyzeSystemPrompt, core.BuildAnalyzeUserPrompt(req))
	if err != nil {
		return nil, err
	}
	return ParseAnalysisResponse(output)
}

func (a *ClaudeCLIAdapter) Enhance(ctx context.Context, req core.EnhanceRequest) (*core.EnhanceResult, error) {
	output, err := a.generateRaw(ctx, a.config.ModelForTask("enhance"), core.EnhanceSystemPrompt, core.BuildEnhanceUserPrompt(req))
	if err != nil {
		return nil, err
	}
	return ParseEnhanceResponse(output)
}

func (a *ClaudeCLIAdapter) generateRaw(ctx context.Context, model, systemPrompt, userPrompt string) (string, error) {
	// Write the system prompt to a temp file (the CLI reads long prompts
	// from files better than from flags)
	systemFile, err := os.CreateTemp("", "promptsmith-system-*.txt")
	if err != nil {
		return "", fmt.Errorf("failed to create system prompt file: %w", err)
	}
	defer os.Remove(systemFile.Name())

	if _, err := systemFile.WriteString(systemPrompt); err != nil {
		return "", fmt.Errorf("failed to write system prompt: %w", err)
	}
	systemFile.Close()

	cmd := exec.CommandContext(ctx, "claude",
		"--model", model,
		"--system-prompt-file", systemFile.Name(),
		"--print",
		"--output-format", "text",
	)
	cmd.Stdin = strings.NewReader(userPrompt)

	output, err := cmd.Output()
	if err != nil {
		if exitErr, ok := err.(*exec.ExitError); ok {
			return "", fmt.Errorf("claude CLI failed: %s", string(exitErr.Stderr))
		}
		return "", fmt.Errorf("claude CLI failed: %w", err)
	}

	return string(output), nil
}
