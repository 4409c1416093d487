package cmd

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/dhabedank/promptsmith/internal/library"
	"github.com/dhabedank/promptsmith/internal/llm"
	"github.com/dhabedank/promptsmith/internal/tui"
)

var (
	llmProvider  string
	llmModel     string
	analyzeModel string
	enhanceModel string
	templateName string
	contextFile  string
	websiteText  string
	imageNotes   string
	dbPath       string
	userID       string
	configFile   string
	resumeDraft  bool
)

// WizardCmd represents the wizard command.
var WizardCmd = &cobra.Command{
	Use:   "wizard",
	Short: "Build a prompt interactively",
	Long: `Run the three-stage prompt wizard.

Stage 1 (Capture): describe what you want the prompt to do.
Stage 2 (Refine):  answer clarifying questions and mark which suggested
                   variables matter. Select any phrase to turn it into a
                   reusable variable.
Stage 3 (Finalize): review the enhanced prompt, copy it, export it, or
                   save it to your library.`,
	RunE: runWizard,
}

func init() {
	// LLM options
	WizardCmd.Flags().StringVarP(&llmProvider, "llm", "l", "auto", "LLM provider (auto/claude-cli/anthropic-api/openai-api)")
	WizardCmd.Flags().StringVarP(&llmModel, "model", "m", "", "Model to use (provider-specific)")
	WizardCmd.Flags().StringVar(&analyzeModel, "analyze-model", "", "Model for prompt analysis (can be faster/cheaper)")
	WizardCmd.Flags().StringVar(&enhanceModel, "enhance-model", "", "Model for prompt enhancement")

	// Context options
	WizardCmd.Flags().StringVarP(&templateName, "template", "t", "", "System-prefix template name")
	WizardCmd.Flags().StringVar(&contextFile, "context-file", "", "File with background context for analysis")
	WizardCmd.Flags().StringVar(&websiteText, "website", "", "File with reference website text")
	WizardCmd.Flags().StringVar(&imageNotes, "image-notes", "", "Description of a reference image")

	// Library options
	WizardCmd.Flags().StringVar(&dbPath, "db", "", "Library database path (default: ~/.promptsmith/library.db)")
	WizardCmd.Flags().StringVarP(&userID, "user", "u", "", "Profile name for the library (default: local)")
	WizardCmd.Flags().BoolVar(&resumeDraft, "resume", false, "Resume from the last autosaved draft")

	// Config file
	WizardCmd.Flags().StringVar(&configFile, "config", "", "Config file (default: .promptsmith.yaml)")
}

func runWizard(cmd *cobra.Command, args []string) error {
	if err := loadConfig(cmd); err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	llmConfig := llm.Config{
		Model:        llmModel,
		AnalyzeModel: analyzeModel,
		EnhanceModel: enhanceModel,
		PreferCLI:    true,
	}

	adapter, err := createLLMAdapter(llmConfig)
	if err != nil {
		return fmt.Errorf("failed to create LLM adapter: %w", err)
	}
	fmt.Printf("Using LLM: %s\n", adapter.Name())

	ctx := context.Background()

	// The library is optional: the wizard still works without persistence.
	store, err := openStore(ctx)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Warning: library unavailable: %v\n", err)
		store = nil
	}
	if store != nil {
		defer store.Close()
	}

	opts := tui.Options{
		Adapter:  adapter,
		Config:   llmConfig,
		Store:    store,
		UserID:   resolveUserID(),
		Template: templateName,
	}

	if contextFile != "" {
		data, err := os.ReadFile(contextFile)
		if err != nil {
			return fmt.Errorf("failed to read context file: %w", err)
		}
		opts.ContextText = string(data)
		opts.Toggles.UseContext = true
	}
	if websiteText != "" {
		data, err := os.ReadFile(websiteText)
		if err != nil {
			return fmt.Errorf("failed to read website file: %w", err)
		}
		opts.WebsiteText = string(data)
		opts.Toggles.UseWebsite = true
	}
	if imageNotes != "" {
		opts.ImageNotes = imageNotes
		opts.Toggles.UseImage = true
	}

	if resumeDraft && store != nil {
		draft, err := store.LoadDraft(ctx, opts.UserID)
		if err != nil {
			return fmt.Errorf("failed to load draft: %w", err)
		}
		if draft != nil {
			opts.InitialText = draft.RawText
			fmt.Printf("Resumed draft from %s\n", draft.UpdatedAt.Format("2006-01-02 15:04"))
		}
	}

	p := tea.NewProgram(tui.NewWizard(opts), tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		return fmt.Errorf("wizard failed: %w", err)
	}
	return nil
}

// Config file structure
type configFileData struct {
	LLM          string `yaml:"llm"`
	Model        string `yaml:"model"`
	AnalyzeModel string `yaml:"analyze_model"`
	EnhanceModel string `yaml:"enhance_model"`
	Template     string `yaml:"template"`
	DB           string `yaml:"db"`
	User         string `yaml:"user"`
}

func loadConfig(cmd *cobra.Command) error {
	// Find config file
	configPath := configFile
	if configPath == "" {
		// Check .promptsmith.yaml in current dir
		if _, err := os.Stat(".promptsmith.yaml"); err == nil {
			configPath = ".promptsmith.yaml"
		} else if home, err := os.UserHomeDir(); err == nil {
			// Check ~/.promptsmith.yaml
			homePath := filepath.Join(home, ".promptsmith.yaml")
			if _, err := os.Stat(homePath); err == nil {
				configPath = homePath
			}
		}
	}

	if configPath == "" {
		return nil // No config file, use defaults
	}

	data, err := os.ReadFile(configPath)
	if err != nil {
		return fmt.Errorf("failed to read config file: %w", err)
	}

	var cfg configFileData
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return fmt.Errorf("failed to parse config file: %w", err)
	}

	// Apply config values only if flags weren't explicitly set
	if !cmd.Flags().Changed("llm") && cfg.LLM != "" {
		llmProvider = cfg.LLM
	}
	if !cmd.Flags().Changed("model") && cfg.Model != "" {
		llmModel = cfg.Model
	}
	if !cmd.Flags().Changed("analyze-model") && cfg.AnalyzeModel != "" {
		analyzeModel = cfg.AnalyzeModel
	}
	if !cmd.Flags().Changed("enhance-model") && cfg.EnhanceModel != "" {
		enhanceModel = cfg.EnhanceModel
	}
	if !cmd.Flags().Changed("template") && cfg.Template != "" {
		templateName = cfg.Template
	}
	if !cmd.Flags().Changed("db") && cfg.DB != "" {
		dbPath = cfg.DB
	}
	if !cmd.Flags().Changed("user") && cfg.User != "" {
		userID = cfg.User
	}

	return nil
}

func createLLMAdapter(config llm.Config) (llm.Adapter, error) {
	switch llmProvider {
	case "auto":
		return llm.DetectBestAdapter(config)
	case "claude-cli":
		adapter := llm.NewClaudeCLIAdapter(config)
		if !adapter.IsAvailable() {
			return nil, fmt.Errorf("Claude CLI not available - install Claude Code")
		}
		return adapter, nil
	case "anthropic-api":
		return llm.NewAnthropicAPIAdapter(config)
	case "openai-api":
		return llm.NewOpenAIAPIAdapter(config)
	default:
		return nil, fmt.Errorf("unknown LLM provider: %s", llmProvider)
	}
}

func resolveUserID() string {
	if userID != "" {
		return userID
	}
	return library.DefaultUserID
}

func resolveDBPath() (string, error) {
	if dbPath != "" {
		return dbPath, nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to resolve home directory: %w", err)
	}
	dir := filepath.Join(home, ".promptsmith")
	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", fmt.Errorf("failed to create data directory: %w", err)
	}
	return filepath.Join(dir, "library.db"), nil
}

func openStore(ctx context.Context) (*library.Store, error) {
	path, err := resolveDBPath()
	if err != nil {
		return nil, err
	}
	return library.Open(ctx, path)
}
