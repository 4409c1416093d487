package llm

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/dhabedank/promptsmith/internal/core"
)

// extractJSON pulls the outermost JSON object out of raw LLM output, which
// may be wrapped in markdown fences or a CLI result envelope.
func extractJSON(output string) (string, error) {
	output = strings.TrimSpace(output)

	// Handle CLI wrapper
	if strings.HasPrefix(output, "{\"type\":") {
		var wrapper struct {
			Type    string `json:"type"`
			Result  string `json:"result"`
			IsError bool   `json:"is_error"`
		}
		if err := json.Unmarshal([]byte(output), &wrapper); err == nil {
			if wrapper.IsError {
				return "", fmt.Errorf("CLI returned error: %s", wrapper.Result)
			}
			output = wrapper.Result
		}
	}

	// Remove markdown fences if present
	if strings.HasPrefix(output, "```json") {
		output = strings.TrimPrefix(output, "```json")
		output = strings.TrimSuffix(output, "```")
		output = strings.TrimSpace(output)
	} else if strings.HasPrefix(output, "```") {
		output = strings.TrimPrefix(output, "```")
		output = strings.TrimSuffix(output, "```")
		output = strings.TrimSpace(output)
	}

	// Find JSON object
	start := strings.Index(output, "{")
	end := strings.LastIndex(output, "}")
	if start == -1 || end == -1 || end < start {
		return "", fmt.Errorf("no valid JSON found in response")
	}

	return output[start : end+1], nil
}

// ParseAnalysisResponse extracts and validates an AnalysisResult from LLM
// output.
func ParseAnalysisResponse(output string) (*core.AnalysisResult, error) {
	jsonStr, err := extractJSON(output)
	if err != nil {
		return nil, err
	}

	var result core.AnalysisResult
	if err := json.Unmarshal([]byte(jsonStr), &result); err != nil {
		return nil, fmt.Errorf("failed to parse analysis JSON: %w", err)
	}

	if len(result.Questions) == 0 && len(result.Variables) == 0 {
		return nil, fmt.Errorf("analysis returned no questions or variables")
	}

	// Questions need stable ids for answer tracking; fill any the model skipped.
	for i := range result.Questions {
		if result.Questions[i].ID == "" {
			result.Questions[i].ID = fmt.Sprintf("q%d", i+1)
		}
	}

	return &result, nil
}

// ParseEnhanceResponse extracts an EnhanceResult from LLM output. Models
// sometimes answer in plain text despite the JSON contract; in that case the
// whole output is taken as the enhanced prompt.
func ParseEnhanceResponse(output string) (*core.EnhanceResult, error) {
	jsonStr, err := extractJSON(output)
	if err != nil {
		text := strings.TrimSpace(output)
		if text == "" {
			return nil, fmt.Errorf("empty enhancement response")
		}
		return &core.EnhanceResult{EnhancedPrompt: text}, nil
	}

	var result core.EnhanceResult
	if err := json.Unmarshal([]byte(jsonStr), &result); err != nil {
		return nil, fmt.Errorf("failed to parse enhancement JSON: %w", err)
	}
	if strings.TrimSpace(result.EnhancedPrompt) == "" {
		return nil, fmt.Errorf("enhancement returned an empty prompt")
	}

	return &result, nil
}
