package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

var (
	settingsPath string
	outputDir    string
	provider     string
	model        string
	apiKey       string
	promptPath   string
	delaySeconds int
	maxRetries   int

	renameDir    string
	renamePrefix string
	renameExt    string

	sitemapDir  string
	sitemapBase string
)

var rootCmd = &cobra.Command{
	Use:   "appforge [app-name...]",
	Short: "Batch-generate single-file HTML apps with a completion API",
	Long: `Generates one self-contained HTML/CSS/JS app per name by prompting a
chat-completion service, pacing requests and retrying transient failures.
Without arguments the apps list from the settings file is used.`,
	Run: func(cmd *cobra.Command, args []string) {
		if err := godotenv.Load(); err != nil {
			log.Println("No .env file found")
		}

		if err := ensureConfigExists(); err != nil {
			log.Fatalf("Ensuring config files exist: %v", err)
		}

		settings, err := loadSettings(settingsPath)
		if err != nil {
			log.Fatalf("Loading settings: %v", err)
		}
		applyFlagOverrides(cmd, settings)

		key := apiKey
		if key == "" {
			key = os.Getenv(apiKeyEnv(settings.Generator.Provider))
		}
		if key == "" {
			log.Fatalf("API key required: use --api-key flag or %s environment variable", apiKeyEnv(settings.Generator.Provider))
		}

		generator, err := NewGenerator(settings.Generator, key)
		if err != nil {
			log.Fatalf("Creating generator: %v", err)
		}

		prompt, err := loadPromptTemplate(promptPath)
		if err != nil {
			log.Fatalf("Loading prompt template: %v", err)
		}

		driver, err := NewDriver(generator, DriverConfig{
			OutputDir:  settings.OutputDirectory,
			Delay:      settings.RequestDelay(),
			MaxRetries: settings.MaxRetries,
			Backoff:    settings.Backoff(),
			Prompt:     prompt,
		})
		if err != nil {
			log.Fatalf("Creating driver: %v", err)
		}

		items := workItems(args, settings.Apps)
		if len(items) == 0 {
			log.Fatal("No apps to generate: pass app names or configure an apps list")
		}

		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		// Per-item failures are already counted in the summary; the run
		// itself only fails on configuration problems.
		if _, err := driver.Run(ctx, items); err != nil {
			log.Fatalf("Run failed: %v", err)
		}
	},
}

var renameCmd = &cobra.Command{
	Use:   "rename",
	Short: "Renumber video files in a directory",
	Run: func(cmd *cobra.Command, args []string) {
		n, err := RenameVideos(renameDir, renamePrefix, renameExt)
		if err != nil {
			log.Fatalf("Rename failed: %v", err)
		}
		log.Printf("Sequence of %d file(s) in %s", n, renameDir)
	},
}

var sitemapCmd = &cobra.Command{
	Use:   "sitemap",
	Short: "Write a sitemap.xml for a directory of HTML pages",
	Run: func(cmd *cobra.Command, args []string) {
		n, err := GenerateSitemap(sitemapDir, sitemapBase)
		if err != nil {
			log.Fatalf("Sitemap generation failed: %v", err)
		}
		log.Printf("Wrote sitemap.xml with %d URL(s)", n)
	},
}

// applyFlagOverrides layers explicitly set flags over file settings.
func applyFlagOverrides(cmd *cobra.Command, settings *Settings) {
	if cmd.Flags().Changed("output") {
		settings.OutputDirectory = outputDir
	}
	if cmd.Flags().Changed("provider") {
		settings.Generator.Provider = provider
	}
	if cmd.Flags().Changed("model") {
		settings.Generator.Model = model
	}
	if cmd.Flags().Changed("delay") {
		settings.RequestDelaySeconds = delaySeconds
	}
	if cmd.Flags().Changed("retries") {
		settings.MaxRetries = maxRetries
	}
}

// apiKeyEnv names the environment variable holding the provider's key.
func apiKeyEnv(provider string) string {
	if provider == "anthropic" {
		return "ANTHROPIC_API_KEY"
	}
	return "OPENAI_API_KEY"
}

// workItems builds the run's item list from arguments or the settings default.
func workItems(args, defaults []string) []WorkItem {
	labels := args
	if len(labels) == 0 {
		labels = defaults
	}

	items := make([]WorkItem, 0, len(labels))
	for _, label := range labels {
		items = append(items, WorkItem{Label: label})
	}
	return items
}

func init() {
	rootCmd.Flags().StringVar(&settingsPath, "settings", getConfigPath("settings.yaml"), "Path to settings file")
	rootCmd.Flags().StringVar(&outputDir, "output", "", "Output directory for generated apps")
	rootCmd.Flags().StringVar(&provider, "provider", "", "Completion provider (openai or anthropic)")
	rootCmd.Flags().StringVar(&model, "model", "", "Model identifier (empty means provider default)")
	rootCmd.Flags().StringVar(&apiKey, "api-key", "", "Completion API key")
	rootCmd.Flags().StringVar(&promptPath, "prompt", "", "Path to custom prompt template file")
	rootCmd.Flags().IntVar(&delaySeconds, "delay", 5, "Seconds to wait between apps")
	rootCmd.Flags().IntVar(&maxRetries, "retries", 0, "Retry attempts per app after the first")

	renameCmd.Flags().StringVar(&renameDir, "dir", ".", "Directory containing the videos")
	renameCmd.Flags().StringVar(&renamePrefix, "prefix", "video", "Filename prefix")
	renameCmd.Flags().StringVar(&renameExt, "ext", ".mp4", "File extension to match")

	sitemapCmd.Flags().StringVar(&sitemapDir, "dir", ".", "Directory to walk for HTML pages")
	sitemapCmd.Flags().StringVar(&sitemapBase, "base-url", "https://example.org", "Base URL prefixed to every entry")

	rootCmd.AddCommand(renameCmd, sitemapCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}
