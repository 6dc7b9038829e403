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

// History command flags.
var (
	historyMedicine uint64
	historyFrom     string
	historyTo       string
	historyStatus   string
	historyByID     uint64
)

// historyCmd is the parent for the adherence ledger.
var historyCmd = &cobra.Command{
	Use:     "history",
	Aliases: []string{"hist"},
	Short:   "Browse and edit the adherence ledger",
}

var historyListCmd = &cobra.Command{
	Use:     "list",
	Aliases: []string{"ls"},
	Short:   "List ledger entries",
	Long: `List adherence entries, newest filters first.

Examples:
  pillbox history list
  pillbox history list --med 1
  pillbox history list --from "last monday" --to today`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		now := time.Now()

		var entries []*model.HistoryEntry
		var err error
		switch {
		case historyFrom != "" || historyTo != "":
			start := time.Date(1970, 1, 1, 0, 0, 0, 0, now.Location())
			end := now
			if historyFrom != "" {
				start, err = parser.ParseDate(historyFrom, now)
				if err != nil {
					return apperrors.NewUserErrorWithField("from", historyFrom,
						"invalid date", "Use a date like '2026-01-15' or 'last monday'.")
				}
			}
			if historyTo != "" {
				end, err = parser.ParseDate(historyTo, now)
				if err != nil {
					return apperrors.NewUserErrorWithField("to", historyTo,
						"invalid date", "Use a date like '2026-01-15' or 'today'.")
				}
			}
			entries, err = ctx.HistoryRepo.ListByDateRange(start, end)
		case historyMedicine != 0:
			entries, err = ctx.HistoryRepo.ListByMedicine(historyMedicine)
		default:
			entries, err = ctx.HistoryRepo.ListAll()
		}
		if err != nil {
			return err
		}
		if historyMedicine != 0 {
			filtered := entries[:0]
			for _, entry := range entries {
				if entry.MedicineID == historyMedicine {
					filtered = append(filtered, entry)
				}
			}
			entries = filtered
		}

		if ctx.IsJSON() {
			return ctx.Formatter.JSON(output.NewHistoryResponse(entries))
		}

		cli := ctx.CLIFormatter()
		if len(entries) == 0 {
			cli.Muted("No history entries.")
			return nil
		}
		names, err := ctx.MedicineNames()
		if err != nil {
			return err
		}
		for _, entry := range entries {
			cli.PrintHistoryEntry(entry, names[entry.MedicineID])
		}
		return nil
	},
}

var historyLogCmd = &cobra.Command{
	Use:   "log <id>",
	Short: "Record a past dose by hand",
	Long: `Backfill a ledger entry for a medicine slot. Re-logging the same
slot replaces the earlier entry.

Examples:
  pillbox history log 1 --at "10:00 AM" --date yesterday --status taken
  pillbox history log 1 --at "08:00 PM" --status missed`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := parseMedicineID(args[0])
		if err != nil {
			return err
		}
		if _, err := ctx.MedicineRepo.Get(id); err != nil {
			return err
		}
		if actionTimeLabel == "" {
			return apperrors.NewUserError("a reminder slot is required",
				"Pass --at with a slot like '10:00 AM'.")
		}
		if err := validate.TimeLabel(actionTimeLabel); err != nil {
			return err
		}

		status := model.EntryStatus(historyStatus)
		if !model.IsValidEntryStatus(status) {
			return apperrors.NewUserErrorWithField("status", historyStatus,
				"invalid status", "Use one of: taken, skipped, missed.")
		}

		now := time.Now()
		day := now
		if actionDate != "" {
			day, err = parser.ParseDate(actionDate, now)
			if err != nil {
				return apperrors.NewUserErrorWithField("date", actionDate,
					"invalid date", "Use a date like '2026-01-15' or 'yesterday'.")
			}
		}

		entry, err := ctx.HistoryRepo.Record(id, day, actionTimeLabel, status)
		if err != nil {
			return err
		}

		if ctx.IsJSON() {
			return ctx.Formatter.JSON(output.NewHistoryEntryOutput(entry))
		}
		ctx.CLIFormatter().Success("Logged " + entry.Date + " " + entry.TimeLabel + " as " + string(status))
		return nil
	},
}

var historyDeleteCmd = &cobra.Command{
	Use:     "delete",
	Aliases: []string{"rm"},
	Short:   "Delete ledger entries",
	Long: `Delete a single entry by --id, or every entry of a medicine with --med.

Examples:
  pillbox history delete --id 42
  pillbox history delete --med 1`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		switch {
		case historyByID != 0:
			if err := ctx.HistoryRepo.DeleteByID(historyByID); err != nil {
				return err
			}
		case historyMedicine != 0:
			if err := ctx.HistoryRepo.DeleteByMedicine(historyMedicine); err != nil {
				return err
			}
		default:
			return apperrors.NewUserError("nothing selected for deletion",
				"Pass --id for one entry or --med for a medicine's full ledger.")
		}

		if ctx.IsJSON() {
			return ctx.Formatter.JSON(map[string]string{"status": "ok"})
		}
		ctx.CLIFormatter().Success("Deleted")
		return nil
	},
}

func init() {
	historyListCmd.Flags().Uint64Var(&historyMedicine, "med", 0, "Filter by medicine id")
	historyListCmd.Flags().StringVar(&historyFrom, "from", "", "Start date")
	historyListCmd.Flags().StringVar(&historyTo, "to", "", "End date")

	historyLogCmd.Flags().StringVar(&actionTimeLabel, "at", "", "Reminder slot like '10:00 AM'")
	historyLogCmd.Flags().StringVar(&actionDate, "date", "", "Day of the dose (default today)")
	historyLogCmd.Flags().StringVar(&historyStatus, "status", "taken", "Outcome: taken, skipped, missed")

	historyDeleteCmd.Flags().Uint64Var(&historyByID, "id", 0, "Entry id to delete")
	historyDeleteCmd.Flags().Uint64Var(&historyMedicine, "med", 0, "Delete all entries of this medicine id")

	historyCmd.AddCommand(historyListCmd, historyLogCmd, historyDeleteCmd)
	rootCmd.AddCommand(historyCmd)
}
