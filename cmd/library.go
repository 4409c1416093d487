package cmd

import (
	"context"
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/dhabedank/promptsmith/internal/tui"
)

var openViewer bool

// LibraryCmd represents the library command group.
var LibraryCmd = &cobra.Command{
	Use:   "library",
	Short: "Manage your saved prompt library",
}

var libraryListCmd = &cobra.Command{
	Use:   "list",
	Short: "List saved prompts, newest first",
	RunE:  runLibraryList,
}

var libraryShowCmd = &cobra.Command{
	Use:   "show <id>",
	Short: "Show a saved prompt",
	Args:  cobra.ExactArgs(1),
	RunE:  runLibraryShow,
}

var libraryRenameCmd = &cobra.Command{
	Use:   "rename <id> <title>",
	Short: "Rename a saved prompt",
	Args:  cobra.ExactArgs(2),
	RunE:  runLibraryRename,
}

var libraryDuplicateCmd = &cobra.Command{
	Use:   "duplicate <id>",
	Short: "Duplicate a saved prompt",
	Args:  cobra.ExactArgs(1),
	RunE:  runLibraryDuplicate,
}

var libraryDeleteCmd = &cobra.Command{
	Use:   "delete <id>",
	Short: "Delete a saved prompt",
	Args:  cobra.ExactArgs(1),
	RunE:  runLibraryDelete,
}

func init() {
	LibraryCmd.PersistentFlags().StringVar(&dbPath, "db", "", "Library database path (default: ~/.promptsmith/library.db)")
	LibraryCmd.PersistentFlags().StringVarP(&userID, "user", "u", "", "Profile name for the library (default: local)")

	libraryShowCmd.Flags().BoolVar(&openViewer, "open", false, "Open the prompt in the read-only viewer")

	LibraryCmd.AddCommand(libraryListCmd)
	LibraryCmd.AddCommand(libraryShowCmd)
	LibraryCmd.AddCommand(libraryRenameCmd)
	LibraryCmd.AddCommand(libraryDuplicateCmd)
	LibraryCmd.AddCommand(libraryDeleteCmd)
}

func runLibraryList(cmd *cobra.Command, args []string) error {
	ctx := context.Background()
	store, err := openStore(ctx)
	if err != nil {
		return err
	}
	defer store.Close()

	prompts, err := store.ListByUser(ctx, resolveUserID())
	if err != nil {
		return err
	}
	if len(prompts) == 0 {
		fmt.Println("Library is empty. Save a prompt from the wizard first.")
		return nil
	}

	for _, p := range prompts {
		fmt.Printf("%s  %s  %s\n",
			tui.HelpStyle.Render(p.ID),
			tui.TitleStyle.Render(p.Title),
			tui.HelpStyle.Render(p.UpdatedAt.Format("2006-01-02 15:04")),
		)
	}
	return nil
}

func runLibraryShow(cmd *cobra.Command, args []string) error {
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

	if openViewer {
		prog := tea.NewProgram(tui.NewWizard(tui.Options{Viewer: p}), tea.WithAltScreen())
		if _, err := prog.Run(); err != nil {
			return fmt.Errorf("viewer failed: %w", err)
		}
		return nil
	}

	fmt.Println(tui.TitleStyle.Render(p.Title))
	if p.MasterCommand != "" {
		fmt.Printf("%s %s\n", tui.SubtitleStyle.Render("Master command:"), p.MasterCommand)
	}
	fmt.Println()
	fmt.Println(p.PromptText)
	if len(p.Variables) > 0 {
		fmt.Println()
		fmt.Println(tui.SubtitleStyle.Render("Variables:"))
		for _, v := range p.Variables {
			fmt.Printf("  %s %s = %q\n", tui.HelpStyle.Render(v.Code), v.Name, v.Value)
		}
	}
	return nil
}

func runLibraryRename(cmd *cobra.Command, args []string) error {
	ctx := context.Background()
	store, err := openStore(ctx)
	if err != nil {
		return err
	}
	defer store.Close()

	if err := store.Rename(ctx, args[0], args[1]); err != nil {
		return err
	}
	fmt.Printf("Renamed %s to %q\n", args[0], args[1])
	return nil
}

func runLibraryDuplicate(cmd *cobra.Command, args []string) error {
	ctx := context.Background()
	store, err := openStore(ctx)
	if err != nil {
		return err
	}
	defer store.Close()

	p, err := store.Duplicate(ctx, args[0])
	if err != nil {
		return err
	}
	fmt.Printf("Duplicated as %s (%s)\n", p.ID, p.Title)
	return nil
}

func runLibraryDelete(cmd *cobra.Command, args []string) error {
	ctx := context.Background()
	store, err := openStore(ctx)
	if err != nil {
		return err
	}
	defer store.Close()

	if err := store.Delete(ctx, args[0]); err != nil {
		return err
	}
	fmt.Printf("Deleted %s\n", args[0])
	return nil
}
