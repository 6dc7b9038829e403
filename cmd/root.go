// Package cmd provides the CLI commands for Pillbox.
package cmd

import (
	"os"

	"github.com/spf13/cobra"

	apperrors "github.com/dhnguyen/pillbox/internal/errors"
	"github.com/dhnguyen/pillbox/internal/logging"
	"github.com/dhnguyen/pillbox/internal/output"
	"github.com/dhnguyen/pillbox/internal/runtime"
)

// Version information (set at build time via ldflags).
var (
	Version   = "dev"
	Commit    = "unknown"
	BuildTime = "unknown"
)

// Global flags.
var (
	flagFormat string
	flagColor  string
	flagDebug  bool
)

// ctx is the shared runtime context.
var ctx *runtime.Context

// rootCmd represents the base command when called without any subcommands.
var rootCmd = &cobra.Command{
	Use:   "pillbox",
	Short: "A medication reminder and adherence tracker",
	Long: `Pillbox keeps track of your medicines, reminds you when doses are due,
and records whether you took, skipped, or missed them.

Examples:
  pillbox med add Aspirin --qty 2 --at "10:00 AM" --at "08:00 PM"
  pillbox today
  pillbox take 1 --at "10:00 AM"
  pillbox stats month
  pillbox daemon start`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if cmd.Name() == "completion" || cmd.Name() == "help" {
			return nil
		}

		logging.Setup(os.Stderr, flagDebug)

		var format output.Format
		switch flagFormat {
		case "json":
			format = output.FormatJSON
		case "plain":
			format = output.FormatPlain
		default:
			format = output.FormatCLI
		}

		var colorMode output.ColorMode
		switch flagColor {
		case "always":
			colorMode = output.ColorAlways
		case "never":
			colorMode = output.ColorNever
		default:
			colorMode = output.ColorAuto
		}

		opts := runtime.DefaultOptions()
		opts.Format = format
		opts.ColorMode = colorMode
		opts.Debug = flagDebug

		var err error
		ctx, err = runtime.New(opts)
		return err
	},
	PersistentPostRunE: func(cmd *cobra.Command, args []string) error {
		if ctx != nil {
			return ctx.Close()
		}
		return nil
	},
	RunE: func(cmd *cobra.Command, args []string) error {
		// Default behavior: show today's schedule
		return runToday(cmd, args)
	},
}

// Execute runs the root command.
func Execute() error {
	if err := rootCmd.Execute(); err != nil {
		printError(err)
		return err
	}
	return nil
}

// printError renders an error with its suggestion in the active format.
func printError(err error) {
	if ctx != nil && ctx.IsJSON() {
		_ = ctx.Formatter.JSON(&output.ErrorResponse{
			Status:     "error",
			Error:      err.Error(),
			Suggestion: apperrors.GetSuggestion(err),
		})
		return
	}
	os.Stderr.WriteString("Error: " + apperrors.FormatError(err) + "\n")
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&flagFormat, "format", "f", "cli",
		"Output format: cli, json, plain")
	rootCmd.PersistentFlags().StringVar(&flagColor, "color", "auto",
		"Color output: auto, always, never")
	rootCmd.PersistentFlags().BoolVar(&flagDebug, "debug", false,
		"Enable debug output")

	rootCmd.AddCommand(versionCmd)
}

// versionCmd shows version information.
var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Run: func(cmd *cobra.Command, args []string) {
		cmd.Printf("pillbox %s\n", Version)
		cmd.Printf("  commit: %s\n", Commit)
		cmd.Printf("  built: %s\n", BuildTime)
	},
}
