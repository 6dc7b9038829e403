package cmd

import (
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/dhnguyen/pillbox/internal/daemon"
)

// Daemon command flags.
var (
	daemonForeground bool
	daemonLogLines   int
)

// daemonCmd is the parent for the background reminder service.
var daemonCmd = &cobra.Command{
	Use:   "daemon",
	Short: "Manage the background reminder daemon",
	Long: `The daemon keeps reminder timers armed and delivers dose
notifications to your webhooks. It re-reads the store every hour, so
edits made from the CLI are picked up without a restart.`,
}

var daemonStartCmd = &cobra.Command{
	Use:   "start",
	Short: "Start the daemon",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		d := daemon.NewDaemon(ctx.DB)

		if daemonForeground {
			if !ctx.IsJSON() {
				ctx.CLIFormatter().Muted("Running in foreground, Ctrl-C to stop.")
			}
			return d.Start(cmd.Context())
		}

		pid, err := d.StartBackground(flagDebug)
		if err != nil {
			return err
		}
		if ctx.IsJSON() {
			return ctx.Formatter.JSON(map[string]interface{}{
				"status": "ok",
				"pid":    pid,
			})
		}
		cli := ctx.CLIFormatter()
		cli.Success("Daemon started")
		ctx.Formatter.Printf("  pid: %d\n", pid)
		ctx.Formatter.Printf("  logs: %s\n", daemon.GetLogPath())
		return nil
	},
}

var daemonStopCmd = &cobra.Command{
	Use:   "stop",
	Short: "Stop the daemon",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		d := daemon.NewDaemon(ctx.DB)
		if err := d.Stop(); err != nil {
			return err
		}
		if ctx.IsJSON() {
			return ctx.Formatter.JSON(map[string]string{"status": "ok"})
		}
		ctx.CLIFormatter().Success("Daemon stopped")
		return nil
	},
}

var daemonStatusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show daemon status",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		status := daemon.NewDaemon(ctx.DB).GetStatus()

		if ctx.IsJSON() {
			return ctx.Formatter.JSON(status)
		}

		cli := ctx.CLIFormatter()
		if !status.Running {
			cli.Warning("Daemon is not running")
			cli.Muted("Start it with 'pillbox daemon start'.")
			return nil
		}
		cli.Success("Daemon is running")
		ctx.Formatter.Printf("  pid: %d\n", status.PID)
		if status.Uptime != "" {
			ctx.Formatter.Printf("  uptime: %s\n", status.Uptime)
		}
		return nil
	},
}

var daemonLogsCmd = &cobra.Command{
	Use:   "logs",
	Short: "Show the daemon log",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		data, err := os.ReadFile(daemon.GetLogPath())
		if err != nil {
			if os.IsNotExist(err) {
				ctx.CLIFormatter().Muted("No daemon log yet.")
				return nil
			}
			return err
		}

		lines := strings.Split(strings.TrimRight(string(data), "\n"), "\n")
		if daemonLogLines > 0 && len(lines) > daemonLogLines {
			lines = lines[len(lines)-daemonLogLines:]
		}
		for _, line := range lines {
			ctx.Formatter.Println(line)
		}
		return nil
	},
}

func init() {
	daemonStartCmd.Flags().BoolVar(&daemonForeground, "foreground", false, "Run in the foreground instead of forking")
	daemonLogsCmd.Flags().IntVarP(&daemonLogLines, "lines", "n", 50, "Number of trailing lines to show (0 for all)")

	daemonCmd.AddCommand(daemonStartCmd, daemonStopCmd, daemonStatusCmd, daemonLogsCmd)
	rootCmd.AddCommand(daemonCmd)
}
