package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/dhabedank/promptsmith/cmd"
	"github.com/dhabedank/promptsmith/internal/version"
)

var appVersion = "0.1.0"

func main() {
	rootCmd := &cobra.Command{
		Use:     "promptsmith",
		Short:   "Build, refine, and reuse LLM prompts from your terminal",
		Version: appVersion,
	}

	rootCmd.AddCommand(cmd.WizardCmd)
	rootCmd.AddCommand(cmd.LibraryCmd)
	rootCmd.AddCommand(cmd.ExportCmd)
	rootCmd.AddCommand(cmd.SetupCmd)

	if version.IsFirstRun() {
		version.PrintFirstRunNotice()
	}
	version.PrintUpdateNotice(version.CheckForUpdate(appVersion))

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
