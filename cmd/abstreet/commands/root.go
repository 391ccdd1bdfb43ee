package commands

import (
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/breezechen/abstreet/headless"
)

// Global flags, bound in init below.
var (
	apiURL   string
	timeout  time.Duration
	logLevel string
)

// Set via -ldflags at build time.
var (
	Version   = "dev"
	GitCommit = "none"
	BuildDate = "unknown"
)

var rootCmd = &cobra.Command{
	Use:   "abstreet",
	Short: "Experiment harness for a headless traffic simulation",
	Long: `abstreet drives a separately-hosted headless traffic simulation over
its HTTP API: run before/after signal-timing experiments, inspect and edit
traffic signals, and poke the simulated clock.

Start the simulation server first:

  cargo run --release --bin headless -- --port=1234

Then point this tool at it:

  abstreet ping
  abstreet experiment --signal 67`,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		configureLogging()
	},
	SilenceUsage:  true,
	SilenceErrors: true,
}

// Execute runs the root command. Called once from main.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "❌ %v\n", err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&apiURL, "api", "", "Headless API URL (default: ABSTREET_API_URL env var or http://localhost:1234)")
	rootCmd.PersistentFlags().DurationVar(&timeout, "timeout", 0, "Per-request HTTP timeout (0 = no timeout; goto-time can run for minutes)")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "warn", "Log level: debug, info, warn or error")
}

// AddCommand allows adding subcommands from other files.
func AddCommand(cmd *cobra.Command) {
	rootCmd.AddCommand(cmd)
}

// getAPIURL returns the server URL using the priority:
// 1. Command line flag (--api)
// 2. Environment variable (ABSTREET_API_URL)
// 3. Default (http://localhost:1234)
func getAPIURL() string {
	if apiURL != "" {
		return apiURL
	}

	if envURL := os.Getenv("ABSTREET_API_URL"); envURL != "" {
		return envURL
	}

	return headless.DefaultBaseURL
}

func newClient() *headless.Client {
	var opts []headless.Option
	if timeout > 0 {
		opts = append(opts, headless.WithTimeout(timeout))
	}
	return headless.NewClient(getAPIURL(), opts...)
}

func configureLogging() {
	level := slog.LevelWarn
	switch logLevel {
	case "debug":
		level = slog.LevelDebug
	case "info":
		level = slog.LevelInfo
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	}
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: level,
	})))
}
