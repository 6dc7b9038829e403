package cmd

import (
	"github.com/spf13/cobra"

	apperrors "github.com/dhnguyen/pillbox/internal/errors"
	"github.com/dhnguyen/pillbox/internal/output"
)

// Settings command flags.
var (
	settingsNickname string
	settingsTone     string
	settingsTheme    string
)

// settingsCmd manages user preferences.
var settingsCmd = &cobra.Command{
	Use:     "settings",
	Aliases: []string{"prefs"},
	Short:   "Show and change user preferences",
	Args:    cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		prefs, err := ctx.PrefsRepo.Get()
		if err != nil {
			return err
		}
		if ctx.IsJSON() {
			return ctx.Formatter.JSON(output.NewPreferencesOutput(prefs))
		}

		cli := ctx.CLIFormatter()
		cli.Title("Settings")
		name := prefs.Nickname
		if name == "" {
			name = "(not set)"
		}
		ctx.Formatter.Printf("  nickname: %s\n", name)
		ctx.Formatter.Printf("  reminder tone: %s\n", prefs.ReminderTone)
		ctx.Formatter.Printf("  theme: %s\n", prefs.Theme)
		if prefs.FirstLaunch {
			cli.Muted("First launch: set a nickname with 'pillbox settings set --nickname NAME'.")
		}
		return nil
	},
}

var settingsSetCmd = &cobra.Command{
	Use:   "set",
	Short: "Change preferences",
	Long: `Change one or more preferences.

Examples:
  pillbox settings set --nickname Dana
  pillbox settings set --tone "Meow meow" --theme Dark`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		flags := cmd.Flags()
		if !flags.Changed("nickname") && !flags.Changed("tone") && !flags.Changed("theme") {
			return apperrors.NewUserError("nothing to change",
				"Pass at least one of --nickname, --tone, --theme.")
		}

		prefs, err := ctx.PrefsRepo.Get()
		if err != nil {
			return err
		}
		if flags.Changed("nickname") {
			prefs.Nickname = settingsNickname
		}
		if flags.Changed("tone") {
			prefs.ReminderTone = settingsTone
		}
		if flags.Changed("theme") {
			prefs.Theme = settingsTheme
		}
		prefs.FirstLaunch = false
		if err := ctx.PrefsRepo.Update(prefs); err != nil {
			return err
		}

		if ctx.IsJSON() {
			return ctx.Formatter.JSON(output.NewPreferencesOutput(prefs))
		}
		ctx.CLIFormatter().Success("Settings saved")
		return nil
	},
}

func init() {
	settingsSetCmd.Flags().StringVar(&settingsNickname, "nickname", "", "Display name used in greetings")
	settingsSetCmd.Flags().StringVar(&settingsTone, "tone", "", "Reminder tone name")
	settingsSetCmd.Flags().StringVar(&settingsTheme, "theme", "", "UI theme (Light, Dark)")

	settingsCmd.AddCommand(settingsSetCmd)
	rootCmd.AddCommand(settingsCmd)
}
