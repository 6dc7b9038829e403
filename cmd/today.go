package cmd

import (
	"time"

	"github.com/spf13/cobra"

	apperrors "github.com/dhnguyen/pillbox/internal/errors"
	"github.com/dhnguyen/pillbox/internal/model"
	"github.com/dhnguyen/pillbox/internal/output"
	"github.com/dhnguyen/pillbox/internal/parser"
)

var todayDate string

// todayCmd shows the classified dose schedule for a day.
var todayCmd = &cobra.Command{
	Use:   "today",
	Short: "Show today's dose schedule",
	Long: `Show the day's doses grouped into overdue, upcoming, and done.

Examples:
  pillbox today
  pillbox today --date yesterday
  pillbox today --date "2026-08-01" -f json`,
	Args: cobra.NoArgs,
	RunE: runToday,
}

func runToday(cmd *cobra.Command, args []string) error {
	now := time.Now()
	day := now
	if todayDate != "" {
		parsed, err := parser.ParseDate(todayDate, now)
		if err != nil {
			return apperrors.NewUserErrorWithField("date", todayDate,
				"invalid date",
				"Use a date like '2026-01-15', 'today', or 'yesterday'.")
		}
		// A past day classifies at its end so unanswered slots read as
		// missed; today classifies at the current instant.
		if model.SameDay(parsed, now) {
			day = now
		} else {
			day = parsed.Add(23*time.Hour + 59*time.Minute)
		}
	}

	s, err := ctx.DaySchedule(day)
	if err != nil {
		return err
	}

	if ctx.IsJSON() {
		return ctx.Formatter.JSON(output.NewScheduleResponse(day, s))
	}

	cli := ctx.CLIFormatter()
	cli.Title("Doses for " + output.FormatDateHuman(day))
	cli.PrintDaySchedule(s)
	return nil
}

func init() {
	todayCmd.Flags().StringVar(&todayDate, "date", "", "Day to show (default today)")
	rootCmd.AddCommand(todayCmd)
}
