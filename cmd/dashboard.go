package cmd

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/dhnguyen/pillbox/internal/model"
	"github.com/dhnguyen/pillbox/internal/tui"
)

// dashboardCmd runs the interactive day view.
var dashboardCmd = &cobra.Command{
	Use:     "dashboard",
	Aliases: []string{"ui"},
	Short:   "Open the interactive dashboard",
	Long: `Open a live terminal dashboard of today's doses. The view refreshes
as ledger entries land, so actions from other terminals show up without
a manual reload.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		watchCtx, cancel := context.WithCancel(cmd.Context())
		defer cancel()

		changes := make(chan struct{}, 1)
		go func() {
			defer close(changes)
			_ = ctx.DB.SubscribePrefix(watchCtx, model.PrefixHistory+":", func() {
				select {
				case changes <- struct{}{}:
				default:
				}
			})
		}()

		return tui.Run(tui.DashboardConfig{
			MedicineRepo: ctx.MedicineRepo,
			HistoryRepo:  ctx.HistoryRepo,
			Responder:    ctx.Responder,
			Changes:      changes,
		})
	},
}

func init() {
	rootCmd.AddCommand(dashboardCmd)
}
