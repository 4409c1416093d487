package output

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/dhabedank/promptsmith/internal/core"
)

func TestJSONExportWritesFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "prompt.json")

	yes := true
	projection := &core.Projection{
		Prompt: "write about {{value::v1}}",
		Variables: []core.Variable{
			{ID: "v1", Name: "Topic", Value: "cats", IsRelevant: &yes, Code: "VAR_1"},
		},
		MasterCommand: "Write an article",
	}

	config := Config{OutputPath: path}
	adapter := NewJSONAdapter(config)
	if err := adapter.Export(projection, config); err != nil {
		t.Fatalf("Export failed: %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("reading export failed: %v", err)
	}

	var round core.Projection
	if err := json.Unmarshal(data, &round); err != nil {
		t.Fatalf("export is not valid JSON: %v", err)
	}
	if round.Prompt != projection.Prompt {
		t.Errorf("prompt = %q, tokens must survive export", round.Prompt)
	}
	if len(round.Variables) != 1 || round.Variables[0].Name != "Topic" {
		t.Errorf("variables = %+v", round.Variables)
	}
}

func TestJSONExportDryRunWritesNothing(t *testing.T) {
	path := filepath.Join(t.TempDir(), "prompt.json")

	config := Config{OutputPath: path, DryRun: true}
	adapter := NewJSONAdapter(config)
	if err := adapter.Export(&core.Projection{Prompt: "x"}, config); err != nil {
		t.Fatalf("Export failed: %v", err)
	}
	if _, err := os.Stat(path); !os.IsNotExist(err) {
		t.Error("dry-run must not create the output file")
	}
}
