package notify

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/dhnguyen/pillbox/internal/logging"
	"github.com/dhnguyen/pillbox/internal/model"
	"github.com/dhnguyen/pillbox/internal/storage"
)

// Dispatcher fans a notification out to every enabled webhook sink.
type Dispatcher struct {
	webhookRepo *storage.WebhookRepo
	httpClient  *HTTPClient
}

// NewDispatcher creates a new notification dispatcher.
func NewDispatcher(webhookRepo *storage.WebhookRepo) *Dispatcher {
	return &Dispatcher{
		webhookRepo: webhookRepo,
		httpClient:  NewHTTPClient(),
	}
}

// DispatchResult contains the result of dispatching to a single webhook.
type DispatchResult struct {
	WebhookName string
	Success     bool
	StatusCode  int
	Duration    time.Duration
	Error       error
}

// Send delivers the notification to all enabled sinks concurrently.
func (d *Dispatcher) Send(ctx context.Context, n *model.Notification) []DispatchResult {
	webhooks, err := d.webhookRepo.ListEnabled()
	if err != nil {
		return []DispatchResult{{
			WebhookName: "all",
			Error:       fmt.Errorf("failed to list webhooks: %w", err),
		}}
	}
	if len(webhooks) == 0 {
		return nil
	}

	var wg sync.WaitGroup
	results := make([]DispatchResult, len(webhooks))
	for i, webhook := range webhooks {
		wg.Add(1)
		go func(idx int, wh *model.Webhook) {
			defer wg.Done()
			results[idx] = d.sendToWebhook(ctx, n, wh)
		}(i, webhook)
	}
	wg.Wait()
	return results
}

// SendTo delivers the notification to a single webhook by name.
func (d *Dispatcher) SendTo(ctx context.Context, n *model.Notification, webhookName string) DispatchResult {
	webhook, err := d.webhookRepo.Get(webhookName)
	if err != nil {
		return DispatchResult{WebhookName: webhookName, Error: err}
	}
	return d.sendToWebhook(ctx, n, webhook)
}

func (d *Dispatcher) sendToWebhook(ctx context.Context, n *model.Notification, webhook *model.Webhook) DispatchResult {
	result := DispatchResult{WebhookName: webhook.Name}

	var formatter Formatter
	if webhook.Type == model.WebhookTypeGeneric && webhook.Template != "" {
		formatter = NewGenericFormatter(webhook.Template)
	} else {
		formatter = GetFormatter(webhook.Type)
	}

	payload, err := formatter.Format(n)
	if err != nil {
		result.Error = fmt.Errorf("failed to format notification: %w", err)
		d.webhookRepo.MarkUsed(webhook.Name, result.Error)
		return result
	}

	sendResult := d.httpClient.Send(ctx, webhook.URL, formatter.ContentType(), payload)
	result.StatusCode = sendResult.StatusCode
	result.Duration = sendResult.Duration
	result.Error = sendResult.Error
	result.Success = sendResult.Error == nil

	d.webhookRepo.MarkUsed(webhook.Name, sendResult.Error)

	if result.Error != nil {
		logging.WarnLog("webhook delivery failed",
			logging.KeyWebhook, webhook.Name,
			logging.KeyError, result.Error)
	}
	return result
}

// DispatchDose builds and sends the reminder prompt for one due slot.
// Returns the dispatch id carried by the notification.
func (d *Dispatcher) DispatchDose(ctx context.Context, med *model.Medicine, timeLabel, dispatchID string, snoozed bool) []DispatchResult {
	n := model.NewDoseNotification(med, timeLabel, dispatchID)
	if snoozed {
		n.Type = model.NotifySnoozed
	}
	logging.InfoLog("dispatching dose reminder",
		logging.KeyMedicineID, med.ID,
		logging.KeyTimeLabel, timeLabel,
		logging.KeyDispatchID, dispatchID)
	return d.Send(ctx, n)
}

// Test sends a test notification to a specific webhook.
func (d *Dispatcher) Test(ctx context.Context, webhookName string) DispatchResult {
	n := model.NewNotification(
		model.NotifyTest,
		"Pillbox Test",
		"This is a test notification from Pillbox. If you see this, your webhook is configured correctly!",
	).WithField("Webhook", webhookName).WithField("Time", time.Now().Format("3:04 PM"))

	return d.SendTo(ctx, n, webhookName)
}

// HasEnabledWebhooks returns true if any sink is enabled.
func (d *Dispatcher) HasEnabledWebhooks() bool {
	webhooks, err := d.webhookRepo.ListEnabled()
	return err == nil && len(webhooks) > 0
}
