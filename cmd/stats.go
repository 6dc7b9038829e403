package cmd

import (
	"time"

	"github.com/spf13/cobra"

	apperrors "github.com/dhnguyen/pillbox/internal/errors"
	"github.com/dhnguyen/pillbox/internal/output"
	"github.com/dhnguyen/pillbox/internal/parser"
)

// statsCmd reports adherence percentages over a window.
var statsCmd = &cobra.Command{
	Use:   "stats [week|month|year|all]",
	Short: "Show adherence statistics",
	Long: `Show per-medicine and overall adherence over a reporting window.
Adherence counts taken doses against everything recorded in the window.

Examples:
  pillbox stats
  pillbox stats month
  pillbox stats all -f json`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		filter := "week"
		if len(args) == 1 {
			filter = args[0]
		}

		now := time.Now()
		window, err := parser.ParseStatsRange(filter, now)
		if err != nil {
			return apperrors.NewUserErrorWithField("range", filter,
				"invalid range", "Use one of: week, month, year, all.")
		}

		perMedicine, err := ctx.HistoryRepo.StatisticsByMedicine(window.Start, window.End)
		if err != nil {
			return err
		}
		overall, err := ctx.HistoryRepo.OverallStatistics(window.Start, window.End)
		if err != nil {
			return err
		}
		names, err := ctx.MedicineNames()
		if err != nil {
			return err
		}

		if ctx.IsJSON() {
			return ctx.Formatter.JSON(output.NewStatsResponse(
				window.Label, window.Start, window.End, perMedicine, names, overall))
		}

		cli := ctx.CLIFormatter()
		cli.Title("Adherence, " + window.Label)
		if overall.Total == 0 {
			cli.Muted("No history in this window.")
			return nil
		}
		cli.PrintStats(perMedicine, names, overall)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(statsCmd)
}
