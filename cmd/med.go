package cmd

import (
	"strconv"
	"time"

	"github.com/spf13/cobra"

	apperrors "github.com/dhnguyen/pillbox/internal/errors"
	"github.com/dhnguyen/pillbox/internal/model"
	"github.com/dhnguyen/pillbox/internal/output"
	"github.com/dhnguyen/pillbox/internal/parser"
	"github.com/dhnguyen/pillbox/internal/validate"
)

// Medicine command flags.
var (
	medQuantity    int
	medUnit        string
	medAdvice      string
	medStart       string
	medEnd         string
	medTimes       []string
	medRepeat      string
	medNote        string
	medName        string
	medShowAll     bool
	medKeepHistory bool
)

// medCmd is the parent for medicine management.
var medCmd = &cobra.Command{
	Use:     "med",
	Aliases: []string{"medicine", "meds"},
	Short:   "Manage medicines",
	Long:    `Add, list, edit, pause, and delete medicines.`,
}

// parseMedicineID parses a medicine id argument.
func parseMedicineID(arg string) (uint64, error) {
	id, err := strconv.ParseUint(arg, 10, 64)
	if err != nil {
		return 0, apperrors.NewUserErrorWithField("id", arg,
			"invalid medicine id",
			"Use the numeric id shown by 'pillbox med list'.")
	}
	return id, nil
}

var medAddCmd = &cobra.Command{
	Use:   "add <name>",
	Short: "Add a medicine",
	Long: `Add a medicine with its dose and daily reminder times.

Examples:
  pillbox med add Aspirin --qty 2 --at "10:00 AM" --at "08:00 PM"
  pillbox med add Iron --unit milligram --qty 50 --advice "After meal" --end "next friday"`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		now := time.Now()

		start := now
		if medStart != "" {
			var err error
			start, err = parser.ParseDate(medStart, now)
			if err != nil {
				return apperrors.NewUserErrorWithField("start", medStart,
					"invalid start date",
					"Use a date like '2026-01-15', 'today', or 'next monday'.")
			}
		}

		med := model.NewMedicine(args[0], medQuantity, model.Unit(medUnit),
			model.IntakeAdvice(medAdvice), start, medTimes)
		med.Repeat = medRepeat
		med.Note = medNote

		if medEnd != "" {
			end, err := parser.ParseDate(medEnd, now)
			if err != nil {
				return apperrors.NewUserErrorWithField("end", medEnd,
					"invalid end date",
					"Use a date like '2026-01-15' or 'next friday'.")
			}
			med.EndDate = end
		}

		if err := validate.Medicine(med); err != nil {
			return err
		}
		if err := ctx.MedicineRepo.Create(med); err != nil {
			return err
		}

		if ctx.IsJSON() {
			return ctx.Formatter.JSON(output.NewMedicineOutput(med))
		}
		cli := ctx.CLIFormatter()
		cli.Success("Added " + med.Name)
		cli.PrintMedicine(med)
		return nil
	},
}

var medListCmd = &cobra.Command{
	Use:     "list",
	Aliases: []string{"ls"},
	Short:   "List medicines",
	Args:    cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		meds, err := ctx.Medicines()
		if err != nil {
			return err
		}
		if !medShowAll {
			active := meds[:0]
			for _, med := range meds {
				if med.Active {
					active = append(active, med)
				}
			}
			meds = active
		}

		if ctx.IsJSON() {
			return ctx.Formatter.JSON(output.NewMedicinesResponse(meds))
		}
		cli := ctx.CLIFormatter()
		if len(meds) == 0 {
			cli.Muted("No medicines yet. Add one with 'pillbox med add'.")
			return nil
		}
		for _, med := range meds {
			ctx.Formatter.Println(cli.MedicineLine(med))
		}
		return nil
	},
}

var medShowCmd = &cobra.Command{
	Use:   "show <id>",
	Short: "Show a medicine in detail",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := parseMedicineID(args[0])
		if err != nil {
			return err
		}
		med, err := ctx.MedicineRepo.Get(id)
		if err != nil {
			return err
		}
		if ctx.IsJSON() {
			return ctx.Formatter.JSON(output.NewMedicineOutput(med))
		}
		ctx.CLIFormatter().PrintMedicine(med)
		return nil
	},
}

var medEditCmd = &cobra.Command{
	Use:   "edit <id>",
	Short: "Edit a medicine",
	Long: `Edit fields of an existing medicine. Only the flags you pass change.
Passing --at replaces the full set of reminder times.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := parseMedicineID(args[0])
		if err != nil {
			return err
		}
		med, err := ctx.MedicineRepo.Get(id)
		if err != nil {
			return err
		}

		now := time.Now()
		flags := cmd.Flags()
		if flags.Changed("name") {
			med.Name = medName
		}
		if flags.Changed("qty") {
			med.Quantity = medQuantity
		}
		if flags.Changed("unit") {
			med.Unit = model.Unit(medUnit)
		}
		if flags.Changed("advice") {
			med.IntakeAdvice = model.IntakeAdvice(medAdvice)
		}
		if flags.Changed("start") {
			start, err := parser.ParseDate(medStart, now)
			if err != nil {
				return apperrors.NewUserErrorWithField("start", medStart,
					"invalid start date",
					"Use a date like '2026-01-15', 'today', or 'next monday'.")
			}
			med.StartDate = start
		}
		if flags.Changed("end") {
			if medEnd == "none" {
				med.EndDate = time.Time{}
			} else {
				end, err := parser.ParseDate(medEnd, now)
				if err != nil {
					return apperrors.NewUserErrorWithField("end", medEnd,
						"invalid end date",
						"Use a date like '2026-01-15', or 'none' to clear it.")
				}
				med.EndDate = end
			}
		}
		if flags.Changed("at") {
			med.ReminderTimes = medTimes
			med.NormalizeReminderTimes()
		}
		if flags.Changed("repeat") {
			med.Repeat = medRepeat
		}
		if flags.Changed("note") {
			med.Note = medNote
		}

		if err := validate.Medicine(med); err != nil {
			return err
		}
		if err := ctx.MedicineRepo.Update(med); err != nil {
			return err
		}

		if ctx.IsJSON() {
			return ctx.Formatter.JSON(output.NewMedicineOutput(med))
		}
		cli := ctx.CLIFormatter()
		cli.Success("Updated " + med.Name)
		cli.PrintMedicine(med)
		return nil
	},
}

var medPauseCmd = &cobra.Command{
	Use:     "pause <id>",
	Aliases: []string{"disable"},
	Short:   "Pause reminders for a medicine",
	Args:    cobra.ExactArgs(1),
	RunE:  func(cmd *cobra.Command, args []string) error { return setMedicineActive(args[0], false) },
}

var medResumeCmd = &cobra.Command{
	Use:     "resume <id>",
	Aliases: []string{"enable"},
	Short:   "Resume reminders for a medicine",
	Args:    cobra.ExactArgs(1),
	RunE:  func(cmd *cobra.Command, args []string) error { return setMedicineActive(args[0], true) },
}

func setMedicineActive(arg string, active bool) error {
	id, err := parseMedicineID(arg)
	if err != nil {
		return err
	}
	med, err := ctx.MedicineRepo.SetActive(id, active)
	if err != nil {
		return err
	}
	if ctx.IsJSON() {
		return ctx.Formatter.JSON(output.NewMedicineOutput(med))
	}
	cli := ctx.CLIFormatter()
	if active {
		cli.Success("Resumed " + med.Name)
	} else {
		cli.Success("Paused " + med.Name)
	}
	return nil
}

var medDeleteCmd = &cobra.Command{
	Use:     "delete <id>",
	Aliases: []string{"rm", "remove"},
	Short:   "Delete a medicine",
	Long: `Delete a medicine and its pending snoozes. The adherence history is
deleted too unless --keep-history is set.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := parseMedicineID(args[0])
		if err != nil {
			return err
		}
		med, err := ctx.MedicineRepo.Get(id)
		if err != nil {
			return err
		}
		if err := ctx.DeleteMedicine(id, medKeepHistory); err != nil {
			return err
		}
		if ctx.IsJSON() {
			return ctx.Formatter.JSON(map[string]interface{}{
				"status":       "ok",
				"deleted":      med.ID,
				"kept_history": medKeepHistory,
			})
		}
		ctx.CLIFormatter().Success("Deleted " + med.Name)
		return nil
	},
}

func init() {
	medAddCmd.Flags().IntVar(&medQuantity, "qty", 1, "Dose quantity")
	medAddCmd.Flags().StringVar(&medUnit, "unit", string(model.UnitPills), "Dose unit (pills, drop, milligram, ...)")
	medAddCmd.Flags().StringVar(&medAdvice, "advice", string(model.AdviceNone), "Intake advice (None, 'Before meal', 'With meal', 'After meal')")
	medAddCmd.Flags().StringVar(&medStart, "start", "", "Start date (default today)")
	medAddCmd.Flags().StringVar(&medEnd, "end", "", "End date (default unbounded)")
	medAddCmd.Flags().StringArrayVar(&medTimes, "at", nil, "Reminder time like '10:00 AM' (repeatable)")
	medAddCmd.Flags().StringVar(&medRepeat, "repeat", model.RepeatDaily, "Repeat rule (Daily, Weekly, Custom)")
	medAddCmd.Flags().StringVar(&medNote, "note", "", "Free-form note")

	medListCmd.Flags().BoolVarP(&medShowAll, "all", "a", false, "Include paused medicines")

	medEditCmd.Flags().StringVar(&medName, "name", "", "New name")
	medEditCmd.Flags().IntVar(&medQuantity, "qty", 0, "New dose quantity")
	medEditCmd.Flags().StringVar(&medUnit, "unit", "", "New dose unit")
	medEditCmd.Flags().StringVar(&medAdvice, "advice", "", "New intake advice")
	medEditCmd.Flags().StringVar(&medStart, "start", "", "New start date")
	medEditCmd.Flags().StringVar(&medEnd, "end", "", "New end date ('none' clears it)")
	medEditCmd.Flags().StringArrayVar(&medTimes, "at", nil, "Replacement reminder times (repeatable)")
	medEditCmd.Flags().StringVar(&medRepeat, "repeat", "", "New repeat rule")
	medEditCmd.Flags().StringVar(&medNote, "note", "", "New note")

	medDeleteCmd.Flags().BoolVar(&medKeepHistory, "keep-history", false, "Keep the adherence history")

	medCmd.AddCommand(medAddCmd, medListCmd, medShowCmd, medEditCmd,
		medPauseCmd, medResumeCmd, medDeleteCmd)
	rootCmd.AddCommand(medCmd)
}
