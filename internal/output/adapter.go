package output

import (
	"github.com/dhabedank/promptsmith/internal/core"
)

// Adapter is the interface all export adapters must implement.
type Adapter interface {
	// Name returns the adapter identifier for logging.
	Name() string

	// IsAvailable checks if the adapter can be used (e.g., clipboard present).
	IsAvailable() (bool, error)

	// Export writes the prompt projection to the target.
	Export(projection *core.Projection, config Config) error
}

// Config configures export adapter behavior.
type Config struct {
	// OutputPath is the destination file for file-based adapters.
	// Empty means stdout.
	OutputPath string

	// DryRun previews without writing anything.
	DryRun bool
}

// DefaultConfig returns sensible defaults.
func DefaultConfig() Config {
	return Config{
		OutputPath: "",
		DryRun:     false,
	}
}
