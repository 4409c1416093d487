package llm

import (
	"strings"
	"testing"
)

func TestExtractJSON(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    string
		wantErr bool
	}{
		{
			name:  "bare object",
			input: `{"questions": []}`,
			want:  `{"questions": []}`,
		},
		{
			name:  "json fence",
			input: "```json\n{\"a\": 1}\n```",
			want:  `{"a": 1}`,
		},
		{
			name:  "plain fence",
			input: "```\n{\"a\": 1}\n```",
			want:  `{"a": 1}`,
		},
		{
			name:  "prose around object",
			input: "Here you go:\n{\"a\": 1}\nHope that helps!",
			want:  `{"a": 1}`,
		},
		{
			name:  "cli wrapper",
			input: `{"type":"result","result":"{\"a\": 1}","is_error":false}`,
			want:  `{"a": 1}`,
		},
		{
			name:    "cli wrapped error",
			input:   `{"type":"result","result":"rate limited","is_error":true}`,
			wantErr: true,
		},
		{
			name:    "no json at all",
			input:   "sorry, I can't do that",
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := extractJSON(tt.input)
			if (err != nil) != tt.wantErr {
				t.Fatalf("extractJSON error = %v, wantErr %v", err, tt.wantErr)
			}
			if !tt.wantErr && got != tt.want {
				t.Errorf("extractJSON = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestParseAnalysisResponse(t *testing.T) {
	input := "```json\n" + `{
		"questions": [
			{"text": "Who is it for?"},
			{"id": "custom", "text": "What tone?"}
		],
		"variables": [
			{"name": "Topic", "value": "cats", "category": "Task"}
		],
		"master_command": "Write an article"
	}` + "\n```"

	result, err := ParseAnalysisResponse(input)
	if err != nil {
		t.Fatalf("ParseAnalysisResponse failed: %v", err)
	}

	if len(result.Questions) != 2 {
		t.Fatalf("questions = %d, want 2", len(result.Questions))
	}
	if result.Questions[0].ID != "q1" {
		t.Errorf("missing ids should be filled, got %q", result.Questions[0].ID)
	}
	if result.Questions[1].ID != "custom" {
		t.Errorf("model-provided ids should be kept, got %q", result.Questions[1].ID)
	}
	if len(result.Variables) != 1 || result.Variables[0].Name != "Topic" {
		t.Errorf("variables = %+v", result.Variables)
	}
	if result.MasterCommand != "Write an article" {
		t.Errorf("master command = %q", result.MasterCommand)
	}
}

func TestParseAnalysisResponseRequiresContent(t *testing.T) {
	if _, err := ParseAnalysisResponse(`{"questions": [], "variables": []}`); err == nil {
		t.Error("empty analysis should be an error")
	}
	if _, err := ParseAnalysisResponse("not json"); err == nil {
		t.Error("non-JSON output should be an error")
	}
}

func TestParseEnhanceResponse(t *testing.T) {
	result, err := ParseEnhanceResponse(`{"enhanced_prompt": "better prompt with {{value::abc}}"}`)
	if err != nil {
		t.Fatalf("ParseEnhanceResponse failed: %v", err)
	}
	if !strings.Contains(result.EnhancedPrompt, "{{value::abc}}") {
		t.Error("placeholder tokens must survive parsing")
	}
}

func TestParseEnhanceResponsePlainTextFallback(t *testing.T) {
	result, err := ParseEnhanceResponse("Just a rewritten prompt, no JSON.")
	if err != nil {
		t.Fatalf("plain text should fall back, got error: %v", err)
	}
	if result.EnhancedPrompt != "Just a rewritten prompt, no JSON." {
		t.Errorf("EnhancedPrompt = %q", result.EnhancedPrompt)
	}
}

func TestParseEnhanceResponseEmpty(t *testing.T) {
	if _, err := ParseEnhanceResponse("   "); err == nil {
		t.Error("empty output should be an error")
	}
	if _, err := ParseEnhanceResponse(`{"enhanced_prompt": ""}`); err == nil {
		t.Error("empty enhanced prompt should be an error")
	}
}

func TestModelForTask(t *testing.T) {
	cfg := Config{Model: "base", AnalyzeModel: "fast"}

	if got := cfg.ModelForTask("analyze"); got != "fast" {
		t.Errorf("analyze model = %q, want fast", got)
	}
	if got := cfg.ModelForTask("enhance"); got != "base" {
		t.Errorf("enhance model = %q, want the default", got)
	}
	if got := cfg.ModelForTask("unknown"); got != "base" {
		t.Errorf("unknown task = %q, want the default", got)
	}
}
