// stockcompare compares recent news and prices for up to four companies.
//
// Main CLI entrypoint using cobra command framework.
package main

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/seenimoa/stockcompare/api"
	"github.com/seenimoa/stockcompare/internal/compare"
	"github.com/seenimoa/stockcompare/internal/config"
	"github.com/seenimoa/stockcompare/internal/logging"
	"github.com/seenimoa/stockcompare/internal/report"
	"github.com/seenimoa/stockcompare/pkg/models"
)

// Build-time variables (set via -ldflags).
var (
	version = "dev"
	commit  = "unknown"
	date    = "unknown"
)

// Global config
var cfg *config.Config

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "stockcompare",
	Short: "Compare recent news and prices for up to four companies",
	Long: `stockcompare resolves each company name to a ticker, fetches today's news,
summarises it, scores it by keyword, plots a week of closing prices, and names
the company with the strongest positive signals.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		var err error
		configFile, _ := cmd.Flags().GetString("config")
		if configFile != "" {
			cfg, err = config.LoadFromFile(configFile)
		} else {
			cfg, err = config.Load()
		}
		if err != nil {
			return fmt.Errorf("failed to load config: %w", err)
		}
		if lvl, _ := cmd.Flags().GetString("log-level"); lvl != "" {
			cfg.Logging.Level = lvl
		}
		logging.Setup(cfg.Logging, os.Stderr)
		return nil
	},
}

func init() {
	rootCmd.PersistentFlags().String("config", "", "config file path (default: ./config/config.yaml)")
	rootCmd.PersistentFlags().String("log-level", "", "log level override (debug, info, warn, error)")

	rootCmd.AddCommand(versionCmd)
	rootCmd.AddCommand(compareCmd)
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(statusCmd)
}

// --- Version Command ---

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf("stockcompare %s\n", version)
		fmt.Printf("  commit:  %s\n", commit)
		fmt.Printf("  built:   %s\n", date)
	},
}

// --- Compare Command ---

var compareCmd = &cobra.Command{
	Use:   "compare [company names...]",
	Short: "Compare up to four companies",
	Long: `Compare up to four companies by name. Quote names that contain spaces.
Without arguments, or with --interactive, you are prompted for four names.`,
	Args: cobra.MaximumNArgs(models.MaxCompanies),
	RunE: func(cmd *cobra.Command, args []string) error {
		interactive, _ := cmd.Flags().GetBool("interactive")
		formatName, _ := cmd.Flags().GetString("format")
		out, _ := cmd.Flags().GetString("out")

		format, err := report.ParseFormat(formatName)
		if err != nil {
			return err
		}

		names := args
		if interactive || len(names) == 0 {
			names, err = promptForCompanies(names)
			if err != nil {
				return err
			}
		}

		pipeline, err := compare.FromConfig(cfg)
		if err != nil {
			return err
		}

		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		cmp, err := pipeline.Run(ctx, compare.Request{Names: names})
		if err != nil {
			return err
		}

		rendered, err := render(cmp, format)
		if err != nil {
			return err
		}
		if out == "" {
			_, err = fmt.Fprint(cmd.OutOrStdout(), rendered)
			return err
		}
		if err := os.WriteFile(out, []byte(rendered), 0o644); err != nil {
			return fmt.Errorf("writing report: %w", err)
		}
		slog.Info("report written", "path", out, "format", string(format))
		return nil
	},
}

func init() {
	compareCmd.Flags().BoolP("interactive", "i", false, "prompt for four company names")
	compareCmd.Flags().StringP("format", "f", string(report.FormatTerminal), "output format: terminal, text, html or json")
	compareCmd.Flags().StringP("out", "o", "", "write the report to a file instead of stdout")
}

// render formats a comparison in the requested output format.
func render(cmp *models.Comparison, format report.ReportFormat) (string, error) {
	switch format {
	case report.FormatJSON:
		data, err := json.MarshalIndent(cmp, "", "  ")
		if err != nil {
			return "", fmt.Errorf("encoding comparison: %w", err)
		}
		return string(data) + "\n", nil
	case report.FormatHTML:
		return report.GenerateHTML(cmp, report.DefaultReportConfig())
	case report.FormatText:
		return report.GenerateText(cmp, report.DefaultReportConfig())
	default:
		return report.Terminal(cmp), nil
	}
}

// --- Serve Command (API Server) ---

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP API server",
	RunE: func(cmd *cobra.Command, args []string) error {
		if port, _ := cmd.Flags().GetInt("port"); port > 0 {
			cfg.API.Port = port
		}
		api.Version = version

		srv, err := api.NewServer(cfg)
		if err != nil {
			return err
		}
		fmt.Printf("🌐 Starting stockcompare API server on %s\n", cfg.API.Addr())
		return srv.ListenAndServe(cfg.API.Addr())
	},
}

func init() {
	serveCmd.Flags().Int("port", 0, "listen port (overrides api.port)")
}

// --- Status Command ---

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show configuration and API key status",
	RunE: func(cmd *cobra.Command, args []string) error {
		fmt.Println("═══════════════════════════════════════")
		fmt.Println("  stockcompare Status")
		fmt.Println("═══════════════════════════════════════")
		fmt.Printf("  Version:       %s (%s)\n", version, commit)
		fmt.Println()

		fmt.Println("  Configuration:")
		fmt.Printf("    News:          %s\n", cfg.News.Provider)
		fmt.Printf("    Prices:        %s (%d days)\n", cfg.Prices.Provider, cfg.Prices.Days)
		fmt.Printf("    Summarizer:    %s\n", cfg.Summarizer.Strategy)
		if cfg.Summarizer.Strategy == "llm" {
			fmt.Printf("    LLM Provider:  %s (model: %s)\n", cfg.LLM.Provider, cfg.LLM.Model)
		}
		fmt.Printf("    Concurrency:   %d\n", cfg.Compare.Concurrency)
		fmt.Printf("    API Server:    %s\n", cfg.API.Addr())
		fmt.Println()

		fmt.Println("  API Keys:")
		for _, k := range config.CheckAPIKeys(cfg) {
			status := "❌ not set"
			if k.IsSet {
				status = fmt.Sprintf("✅ set (%s: %s)", k.Source, k.Masked)
			}
			if k.Required {
				status += " [required]"
			}
			fmt.Printf("    %-25s %s\n", k.Name+":", status)
		}

		fmt.Println("═══════════════════════════════════════")
		if err := cfg.Validate(); err != nil {
			return fmt.Errorf("configuration problem: %w", err)
		}
		return nil
	},
}

