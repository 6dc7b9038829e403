package cmd

import (
	"time"

	"github.com/spf13/cobra"

	apperrors "github.com/dhnguyen/pillbox/internal/errors"
	"github.com/dhnguyen/pillbox/internal/model"
	"github.com/dhnguyen/pillbox/internal/output"
	"github.com/dhnguyen/pillbox/internal/parser"
	"github.com/dhnguyen/pillbox/internal/validate"
)

// Action command flags.
var (
	actionTimeLabel string
	actionDate      string
)

var takeCmd = &cobra.Command{
	Use:   "take <id>",
	Short: "Record a dose as taken",
	Long: `Record a dose as taken. Without --at the earliest unanswered slot
of the day is used.

Examples:
  pillbox take 1
  pillbox take 1 --at "10:00 AM"
  pillbox take 1 --at "10:00 AM" --date yesterday`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return runAction(args[0], "take")
	},
}

var skipCmd = &cobra.Command{
	Use:   "skip <id>",
	Short: "Record a dose as skipped",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return runAction(args[0], "skip")
	},
}

var snoozeCmd = &cobra.Command{
	Use:   "snooze <id>",
	Short: "Push a dose reminder out by the snooze delay",
	Long: `Defer a dose reminder. The slot stays unanswered until you take or
skip it; the daemon re-fires the reminder when the snooze elapses.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return runAction(args[0], "snooze")
	},
}

func runAction(idArg, action string) error {
	id, err := parseMedicineID(idArg)
	if err != nil {
		return err
	}

	now := time.Now()
	day := now
	if actionDate != "" {
		day, err = parser.ParseDate(actionDate, now)
		if err != nil {
			return apperrors.NewUserErrorWithField("date", actionDate,
				"invalid date",
				"Use a date like '2026-01-15', 'today', or 'yesterday'.")
		}
	}

	label := actionTimeLabel
	if label == "" {
		label, err = defaultSlot(id, day)
		if err != nil {
			return err
		}
	} else if err := validate.TimeLabel(label); err != nil {
		return err
	}

	var entry *model.HistoryEntry
	var snoozedTo time.Time
	switch action {
	case "take":
		entry, err = ctx.Responder.Confirm(id, day, label)
	case "skip":
		entry, err = ctx.Responder.Skip(id, day, label)
	case "snooze":
		snoozedTo, err = ctx.Responder.RemindLater(id, label)
	}
	if err != nil {
		return err
	}

	if ctx.IsJSON() {
		resp := &output.ActionResponse{
			Status:     "ok",
			Action:     action,
			MedicineID: id,
			TimeLabel:  label,
		}
		if entry != nil {
			resp.Entry = output.NewHistoryEntryOutput(entry)
		}
		if !snoozedTo.IsZero() {
			resp.SnoozedTo = snoozedTo.Format(time.RFC3339)
		}
		return ctx.Formatter.JSON(resp)
	}

	cli := ctx.CLIFormatter()
	switch action {
	case "take":
		cli.Success("Recorded " + label + " as taken")
	case "skip":
		cli.Success("Recorded " + label + " as skipped")
	case "snooze":
		cli.Success("Snoozed until " + output.FormatTimeLabel(snoozedTo))
	}
	return nil
}

// defaultSlot resolves the slot to act on when --at is omitted: the earliest
// slot of the day without a recorded outcome.
func defaultSlot(medicineID uint64, day time.Time) (string, error) {
	med, err := ctx.MedicineRepo.Get(medicineID)
	if err != nil {
		return "", err
	}
	entries, err := ctx.HistoryRepo.ListByDay(day)
	if err != nil {
		return "", err
	}
	answered := make(map[string]bool, len(entries))
	for _, entry := range entries {
		if entry.MedicineID == medicineID {
			answered[entry.TimeLabel] = true
		}
	}
	for _, label := range med.ReminderTimes {
		if !answered[label] {
			return label, nil
		}
	}
	return "", apperrors.NewUserError(
		"every dose of "+med.Name+" is already answered for that day",
		"Pass --at to re-record a specific slot, e.g. --at '10:00 AM'.")
}

func init() {
	for _, cmd := range []*cobra.Command{takeCmd, skipCmd, snoozeCmd} {
		cmd.Flags().StringVar(&actionTimeLabel, "at", "", "Reminder slot like '10:00 AM' (default earliest unanswered)")
	}
	takeCmd.Flags().StringVar(&actionDate, "date", "", "Day of the dose (default today)")
	skipCmd.Flags().StringVar(&actionDate, "date", "", "Day of the dose (default today)")

	rootCmd.AddCommand(takeCmd, skipCmd, snoozeCmd)
}
