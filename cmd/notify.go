package cmd

import (
	"context"
	"time"

	"github.com/spf13/cobra"

	"github.com/dhnguyen/pillbox/internal/model"
	"github.com/dhnguyen/pillbox/internal/output"
	"github.com/dhnguyen/pillbox/internal/validate"
)

// Notify command flags.
var (
	notifyType     string
	notifyTemplate string
)

// notifyCmd is the parent for webhook sink management.
var notifyCmd = &cobra.Command{
	Use:     "notify",
	Aliases: []string{"webhook", "webhooks"},
	Short:   "Manage notification webhooks",
	Long: `Manage the webhook sinks the daemon delivers dose reminders to.
Discord, Slack, and Teams URLs are recognized automatically; anything
else is treated as a generic JSON webhook.`,
}

var notifyAddCmd = &cobra.Command{
	Use:   "add <name> <url>",
	Short: "Add a webhook",
	Long: `Add a webhook sink.

Examples:
  pillbox notify add family https://discord.com/api/webhooks/123/abc
  pillbox notify add homelab https://hooks.example.net/dose --type generic`,
	Args: cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		name, url := args[0], args[1]

		webhookType := notifyType
		if webhookType == "" {
			webhookType = model.DetectWebhookType(url)
		}
		if err := validate.WebhookInput(name, webhookType, url); err != nil {
			return err
		}

		webhook := model.NewWebhook(name, webhookType, url)
		webhook.Template = notifyTemplate
		if err := ctx.WebhookRepo.Create(webhook); err != nil {
			return err
		}

		if ctx.IsJSON() {
			return ctx.Formatter.JSON(output.NewWebhookOutput(webhook))
		}
		cli := ctx.CLIFormatter()
		cli.Success("Added webhook " + name + " (" + webhookType + ")")
		return nil
	},
}

var notifyListCmd = &cobra.Command{
	Use:     "list",
	Aliases: []string{"ls"},
	Short:   "List webhooks",
	Args:    cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		webhooks, err := ctx.WebhookRepo.List()
		if err != nil {
			return err
		}

		if ctx.IsJSON() {
			outputs := make([]*output.WebhookOutput, len(webhooks))
			for i, webhook := range webhooks {
				outputs[i] = output.NewWebhookOutput(webhook)
			}
			return ctx.Formatter.JSON(map[string]interface{}{
				"webhooks":    outputs,
				"total_count": len(webhooks),
			})
		}

		cli := ctx.CLIFormatter()
		if len(webhooks) == 0 {
			cli.Muted("No webhooks configured. Add one with 'pillbox notify add'.")
			return nil
		}
		for _, webhook := range webhooks {
			cli.PrintWebhook(webhook)
		}
		return nil
	},
}

var notifyTestCmd = &cobra.Command{
	Use:   "test <name>",
	Short: "Send a test notification to a webhook",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		timeout, cancel := context.WithTimeout(cmd.Context(), 30*time.Second)
		defer cancel()

		result := ctx.Dispatcher.Test(timeout, args[0])
		if result.Error != nil {
			return result.Error
		}

		if ctx.IsJSON() {
			return ctx.Formatter.JSON(map[string]interface{}{
				"status":      "ok",
				"webhook":     result.WebhookName,
				"status_code": result.StatusCode,
				"duration_ms": result.Duration.Milliseconds(),
			})
		}
		ctx.CLIFormatter().Success("Delivered to " + result.WebhookName +
			" in " + result.Duration.Round(time.Millisecond).String())
		return nil
	},
}

var notifyEnableCmd = &cobra.Command{
	Use:   "enable <name>",
	Short: "Enable a webhook",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return setWebhookEnabled(args[0], true)
	},
}

var notifyDisableCmd = &cobra.Command{
	Use:   "disable <name>",
	Short: "Disable a webhook without deleting it",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return setWebhookEnabled(args[0], false)
	},
}

func setWebhookEnabled(name string, enabled bool) error {
	webhook, err := ctx.WebhookRepo.SetEnabled(name, enabled)
	if err != nil {
		return err
	}
	if ctx.IsJSON() {
		return ctx.Formatter.JSON(output.NewWebhookOutput(webhook))
	}
	cli := ctx.CLIFormatter()
	if enabled {
		cli.Success("Enabled " + webhook.Name)
	} else {
		cli.Success("Disabled " + webhook.Name)
	}
	return nil
}

var notifyRemoveCmd = &cobra.Command{
	Use:     "remove <name>",
	Aliases: []string{"rm", "delete"},
	Short:   "Delete a webhook",
	Args:    cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := ctx.WebhookRepo.Delete(args[0]); err != nil {
			return err
		}
		if ctx.IsJSON() {
			return ctx.Formatter.JSON(map[string]string{"status": "ok", "deleted": args[0]})
		}
		ctx.CLIFormatter().Success("Removed webhook " + args[0])
		return nil
	},
}

func init() {
	notifyAddCmd.Flags().StringVar(&notifyType, "type", "", "Webhook type: discord, slack, teams, generic (default auto-detect)")
	notifyAddCmd.Flags().StringVar(&notifyTemplate, "template", "", "Payload template for generic webhooks")

	notifyCmd.AddCommand(notifyAddCmd, notifyListCmd, notifyTestCmd,
		notifyEnableCmd, notifyDisableCmd, notifyRemoveCmd)
	rootCmd.AddCommand(notifyCmd)
}
