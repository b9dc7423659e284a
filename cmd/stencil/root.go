// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"context"
	"errors"
	"fmt"
	"os"

	"stencil-cli/internal/config"
	"stencil-cli/internal/issue"

	"github.com/charmbracelet/fang"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/log"
	"github.com/muesli/termenv"
	"github.com/spf13/cobra"
)

var (
	// Version is the semantic version (set via -ldflags).
	Version = "dev"
	// Commit is the git commit hash (set via -ldflags).
	Commit = "unknown"
	// BuildDate is the build timestamp (set via -ldflags).
	BuildDate = "unknown"

	// verbose enables verbose output
	verbose bool
	// noColor disables colored output
	noColor bool

	// logger is the shared CLI logger. Level and color profile are adjusted
	// during initialization from flags and settings.
	logger = log.NewWithOptions(os.Stderr, log.Options{
		Prefix: "stencil",
	})

	// rootApp is the production composition root shared by all commands.
	rootApp = NewApp(Dependencies{})

	// rootCmd represents the base command when called without any subcommands
	rootCmd = &cobra.Command{
		Use:   "stencil",
		Short: "A starter template for command-line applications",
		Long: TitleStyle.Render("stencil") + SubtitleStyle.Render(" - A starter template for command-line applications") + `

stencil wires together argument parsing, interactive prompts, colored
logging, and a file-based configuration store so a new CLI project can
start from working plumbing instead of boilerplate.

Named configurations live under ~/.stencil/configs, one JSON file per
record, with an active pointer selecting the current one.

` + SubtitleStyle.Render("Examples:") + `
  stencil config create           Create a configuration interactively
  stencil config list             List all configurations
  stencil config use staging      Make 'staging' the active configuration
  stencil config current          Show the active configuration name
  stencil config delete           Pick a configuration to delete`,
	}
)

func init() {
	cobra.OnInitialize(initRootConfig)

	// Global flags
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable verbose output")
	rootCmd.PersistentFlags().BoolVar(&noColor, "no-color", false, "disable colored output")

	// Add subcommands
	rootCmd.AddCommand(newConfigCommand(rootApp))
}

// getVersionString returns a formatted version string for display.
func getVersionString() string {
	if Version == "dev" {
		return "dev (built from source)"
	}
	return fmt.Sprintf("%s (commit: %s, built: %s)", Version, Commit, BuildDate)
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	// fang supplies styled help/errors, --version, and signal handling.
	if err := fang.Execute(
		context.Background(),
		rootCmd,
		fang.WithVersion(getVersionString()),
		fang.WithNotifySignal(os.Interrupt),
	); err != nil {
		// An interrupt is a user decision, not a failure.
		if errors.Is(err, context.Canceled) {
			os.Exit(0)
		}
		var exitErr *ExitError
		if errors.As(err, &exitErr) {
			os.Exit(exitErr.Code)
		}
		os.Exit(1)
	}
}

// initRootConfig loads application settings and applies flag overrides.
func initRootConfig() {
	// First run: lay down a default settings file next to the store.
	settingsPath, pathErr := config.EnsureDefaultFile()
	if pathErr != nil {
		fmt.Fprintln(os.Stderr, WarningStyle.Render("Warning: ")+formatErrorForDisplay(pathErr, verbose))
	}

	settings, err := config.Load()
	if err != nil {
		// Always surface settings errors; defaults keep the CLI usable.
		fmt.Fprintln(os.Stderr, WarningStyle.Render("Warning: ")+formatErrorForDisplay(err, verbose))
	}

	applyVerbosity(settings)
	applyColorProfile(settings)

	// Debug-level, so it must come after the level has been applied.
	if pathErr == nil {
		logger.Debug("settings file", "path", settingsPath)
	}
}

// applyVerbosity merges the --verbose flag with the settings file and
// raises the logger level accordingly.
func applyVerbosity(settings *config.Settings) {
	if settings != nil && !verbose {
		verbose = settings.UI.Verbose
	}
	if verbose {
		logger.SetLevel(log.DebugLevel)
	}
}

// applyColorProfile resolves the effective color preference.
// --no-color wins, then the settings file.
func applyColorProfile(settings *config.Settings) {
	if noColor || (settings != nil && settings.UI.ColorScheme == config.ColorSchemeNever) {
		lipgloss.SetColorProfile(termenv.Ascii)
		logger.SetColorProfile(termenv.Ascii)
	} else if settings != nil && settings.UI.ColorScheme == config.ColorSchemeAlways {
		lipgloss.SetColorProfile(termenv.TrueColor)
		logger.SetColorProfile(termenv.TrueColor)
	}
}

// formatErrorForDisplay formats an error for user display.
// If the error is an ActionableError, its Format method renders suggestions;
// verbose mode shows the full error chain.
func formatErrorForDisplay(err error, verboseMode bool) string {
	var ae *issue.ActionableError
	if errors.As(err, &ae) {
		return ae.Format(verboseMode)
	}
	return err.Error()
}

// GetVerbose returns the verbose flag value
func GetVerbose() bool {
	return verbose
}
