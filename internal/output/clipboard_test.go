package output

import (
	"testing"

	"github.com/dhabedank/promptsmith/internal/core"
)

func TestClipboardExportResolvesTokens(t *testing.T) {
	var captured string
	orig := clipboardWriteAll
	clipboardWriteAll = func(text string) error {
		captured = text
		return nil
	}
	defer func() { clipboardWriteAll = orig }()

	yes := true
	projection := &core.Projection{
		Prompt: "write about {{value::v1}} today",
		Variables: []core.Variable{
			{ID: "v1", Name: "Topic", Value: "cats", IsRelevant: &yes},
		},
	}

	adapter := NewClipboardAdapter()
	if err := adapter.Export(projection, Config{}); err != nil {
		t.Fatalf("Export failed: %v", err)
	}
	if captured != "write about cats today" {
		t.Errorf("clipboard got %q", captured)
	}
}

func TestClipboardExportDryRun(t *testing.T) {
	called := false
	orig := clipboardWriteAll
	clipboardWriteAll = func(string) error {
		called = true
		return nil
	}
	defer func() { clipboardWriteAll = orig }()

	adapter := NewClipboardAdapter()
	err := adapter.Export(&core.Projection{Prompt: "hello"}, Config{DryRun: true})
	if err != nil {
		t.Fatalf("Export failed: %v", err)
	}
	if called {
		t.Error("dry-run must not touch the clipboard")
	}
}

func TestJSONAdapterAlwaysAvailable(t *testing.T) {
	ok, err := NewJSONAdapter(Config{}).IsAvailable()
	if !ok || err != nil {
		t.Errorf("IsAvailable = %v, %v", ok, err)
	}
}
