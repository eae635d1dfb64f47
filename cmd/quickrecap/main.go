package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/alnah/quickrecap/internal/apierr"
	"github.com/alnah/quickrecap/internal/cli"
	"github.com/alnah/quickrecap/internal/config"
	"github.com/alnah/quickrecap/internal/lang"
	"github.com/alnah/quickrecap/internal/logging"
	"github.com/alnah/quickrecap/internal/summary"
	"github.com/alnah/quickrecap/internal/transcript"
	"github.com/alnah/quickrecap/internal/videoid"
	"github.com/alnah/quickrecap/internal/videoinfo"
)

// Injected at build time via ldflags.
var (
	version = "dev"
	commit  = "unknown"
)

// Exit codes.
const (
	ExitOK         = 0
	ExitGeneral    = 1
	ExitUsage      = 2
	ExitSetup      = 3
	ExitValidation = 4
	ExitSource     = 5
	ExitSummary    = 6
	ExitInterrupt  = 130
)

func main() {
	// Load .env file if present (ignore error if missing).
	_ = godotenv.Load()

	// Context with signal cancellation.
	ctx, cancel := signal.NotifyContext(context.Background(),
		syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	// Create the CLI environment with production defaults.
	env := cli.DefaultEnv()

	if err := newRootCmd(env).ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(exitCode(err))
	}
}

func newRootCmd(env *cli.Env) *cobra.Command {
	rootCmd := &cobra.Command{
		Use:     "quickrecap",
		Short:   "Summarize YouTube videos from their captions",
		Version: fmt.Sprintf("%s (commit: %s)", version, commit),
		// Silence Cobra's default error/usage printing; we handle it ourselves.
		SilenceErrors: true,
		SilenceUsage:  true,
	}

	rootCmd.AddCommand(cli.SummarizeCmd(env))
	rootCmd.AddCommand(cli.TranscriptCmd(env))
	rootCmd.AddCommand(cli.InfoCmd(env))
	rootCmd.AddCommand(cli.ServeCmd(env))
	rootCmd.AddCommand(cli.ConfigCmd(env))

	return rootCmd
}

// exitCode maps errors to process exit codes.
func exitCode(err error) int {
	if err == nil {
		return ExitOK
	}

	// Check for context cancellation (interrupt).
	if errors.Is(err, context.Canceled) {
		return ExitInterrupt
	}

	// Usage errors (ExitUsage = 2): Cobra flag/arg parsing errors.
	// Cobra doesn't expose typed errors, so we check for known error message patterns.
	if isCobraUsageError(err) {
		return ExitUsage
	}

	// Setup errors (ExitSetup = 3).
	if errors.Is(err, cli.ErrAPIKeyMissing) || errors.Is(err, cli.ErrInvalidProvider) ||
		errors.Is(err, cli.ErrInvalidConfig) || errors.Is(err, config.ErrInvalidKey) ||
		errors.Is(err, logging.ErrInvalidLevel) || errors.Is(err, logging.ErrInvalidFormat) ||
		errors.Is(err, summary.ErrEmptyAPIKey) || errors.Is(err, summary.ErrEmptyURL) {
		return ExitSetup
	}

	// Validation errors (ExitValidation = 4).
	if errors.Is(err, videoid.ErrInvalidURL) || errors.Is(err, summary.ErrInvalidFormat) ||
		errors.Is(err, lang.ErrInvalid) || errors.Is(err, cli.ErrOutputExists) ||
		errors.Is(err, cli.ErrInvalidMaxLength) || errors.Is(err, cli.ErrInvalidPort) {
		return ExitValidation
	}

	// Summary errors (ExitSummary = 6). Checked before source errors since a
	// failed generation may wrap an upstream API error.
	if errors.Is(err, summary.ErrGenerationFailed) || errors.Is(err, summary.ErrNoInput) {
		return ExitSummary
	}

	// Transcript and metadata errors (ExitSource = 5).
	if errors.Is(err, transcript.ErrNoTranscript) || errors.Is(err, transcript.ErrDisabled) ||
		errors.Is(err, transcript.ErrUnavailable) || errors.Is(err, transcript.ErrProvider) ||
		errors.Is(err, transcript.ErrEmpty) || errors.Is(err, videoinfo.ErrVideoInfo) ||
		errors.Is(err, apierr.ErrRateLimit) || errors.Is(err, apierr.ErrQuotaExceeded) ||
		errors.Is(err, apierr.ErrTimeout) || errors.Is(err, apierr.ErrAuthFailed) {
		return ExitSource
	}

	return ExitGeneral
}

// cobraUsageErrorPatterns contains error message substrings that indicate Cobra usage errors.
// These patterns are stable across Cobra versions (tested with v1.8+).
var cobraUsageErrorPatterns = []string{
	"required flag",             // Missing required flag
	"unknown flag",              // Flag doesn't exist
	"unknown shorthand",         // Short flag doesn't exist
	"unknown command",           // Subcommand doesn't exist
	"flag needs an argument",    // Flag provided without value
	"invalid argument",          // Invalid flag value type
	"if any flags in the group", // Mutually exclusive flag violation
	"accepts ",                  // Wrong number of arguments (e.g., "accepts 1 arg(s)")
	"requires at least",         // Too few arguments
	"requires at most",          // Too many arguments
}

// isCobraUsageError checks if an error is a Cobra usage/parsing error.
func isCobraUsageError(err error) bool {
	if err == nil {
		return false
	}
	errMsg := err.Error()
	for _, pattern := range cobraUsageErrorPatterns {
		if strings.Contains(errMsg, pattern) {
			return true
		}
	}
	return false
}
