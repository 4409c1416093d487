package output

import (
	"fmt"

	"github.com/atotto/clipboard"

	"github.com/dhabedank/promptsmith/internal/core"
)

// clipboardWriteAll is swappable for tests.
var clipboardWriteAll = clipboard.WriteAll

// ClipboardAdapter copies the resolved plain-text prompt to the system
// clipboard. Placeholder tokens are replaced by their current values before
// copying; the canonical tokenized text never leaves the app this way.
type ClipboardAdapter struct{}

// NewClipboardAdapter creates a clipboard adapter.
func NewClipboardAdapter() *ClipboardAdapter {
	return &ClipboardAdapter{}
}

func (a *ClipboardAdapter) Name() string {
	return "clipboard"
}

func (a *ClipboardAdapter) IsAvailable() (bool, error) {
	if clipboard.Unsupported {
		return false, fmt.Errorf("no clipboard utility found (install xclip or xsel)")
	}
	return true, nil
}

func (a *ClipboardAdapter) Export(projection *core.Projection, config Config) error {
	text := core.ResolveText(projection.Prompt, projection.Variables)

	if config.DryRun {
		fmt.Println("[dry-run] Would copy:")
		fmt.Println(text)
		return nil
	}

	if err := clipboardWriteAll(text); err != nil {
		return fmt.Errorf("failed to copy to clipboard: %w", err)
	}
	fmt.Println("Prompt copied to clipboard")
	return nil
}
