package cmd

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/dhabedank/promptsmith/internal/core"
	"github.com/dhabedank/promptsmith/internal/output"
)

var (
	exportPath string
	exportCopy bool
	exportDry  bool
)

// ExportCmd represents the export command.
var ExportCmd = &cobra.Command{
	Use:   "export <id>",
	Short: "Export a saved prompt as JSON or copy it as plain text",
	Long: `Export a saved prompt from the library.

By default the prompt is projected to JSON (prompt text with placeholder
tokens, relevant variables, master command) and written to stdout or
--output. With --copy the prompt is resolved to plain text and placed on
the clipboard instead.`,
	Args: cobra.ExactArgs(1),
	RunE: runExport,
}

func init() {
	ExportCmd.Flags().StringVarP(&exportPath, "output", "o", "", "Output file (default: stdout)")
	ExportCmd.Flags().BoolVarP(&exportCopy, "copy", "c", false, "Copy resolved plain text to the clipboard")
	ExportCmd.Flags().BoolVar(&exportDry, "dry-run", false, "Preview without writing anything")
	ExportCmd.Flags().StringVar(&dbPath, "db", "", "Library database path (default: ~/.promptsmith/library.db)")
}

func runExport(cmd *cobra.Command, args []string) error {
	ctx := context.Background()
	store, err := openStore(ctx)
	if err != nil {
		return err
	}
	defer store.Close()

	p, err := store.Load(ctx, args[0])
	if err != nil {
		return err
	}

	// A viewer session applies the same relevance filtering the wizard
	// uses, so exports match what the finalize screen shows.
	sess := core.NewViewerSession(p.PromptText, p.Variables, p.MasterCommand)
	projection := sess.Projection()

	config := output.Config{
		OutputPath: exportPath,
		DryRun:     exportDry,
	}

	var adapter output.Adapter
	if exportCopy {
		adapter = output.NewClipboardAdapter()
	} else {
		adapter = output.NewJSONAdapter(config)
	}

	if ok, err := adapter.IsAvailable(); !ok {
		return fmt.Errorf("%s adapter unavailable: %w", adapter.Name(), err)
	}

	return adapter.Export(&projection, config)
}
