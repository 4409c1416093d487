package output

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/dhabedank/promptsmith/internal/core"
)

// JSONAdapter exports the prompt projection as JSON.
type JSONAdapter struct {
	outputPath string
	dryRun     bool
}

// NewJSONAdapter creates a JSON adapter.
func NewJSONAdapter(config Config) *JSONAdapter {
	return &JSONAdapter{
		outputPath: config.OutputPath,
		dryRun:     config.DryRun,
	}
}

func (a *JSONAdapter) Name() string {
	return "json"
}

func (a *JSONAdapter) IsAvailable() (bool, error) {
	return true, nil // Always available
}

func (a *JSONAdapter) Export(projection *core.Projection, config Config) error {
	output, err := json.MarshalIndent(projection, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal JSON: %w", err)
	}

	if a.dryRun {
		fmt.Println("[dry-run] Would write:")
		fmt.Println(string(output))
	} else if a.outputPath != "" {
		if err := os.WriteFile(a.outputPath, output, 0644); err != nil {
			return fmt.Errorf("failed to write file: %w", err)
		}
		fmt.Printf("Prompt written to %s\n", a.outputPath)
	} else {
		fmt.Println(string(output))
	}

	return nil
}
