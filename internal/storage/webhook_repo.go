package storage

import (
	"sort"
	"time"

	apperrors "github.com/dhnguyen/pillbox/internal/errors"
	"github.com/dhnguyen/pillbox/internal/model"
)

// WebhookRepo provides webhook-specific database operations.
type WebhookRepo struct {
	db *DB
}

// NewWebhookRepo creates a new webhook repository.
func NewWebhookRepo(db *DB) *WebhookRepo {
	return &WebhookRepo{db: db}
}

// Create stores a new webhook. Fails if the name is already taken.
func (r *WebhookRepo) Create(webhook *model.Webhook) error {
	exists, err := r.db.Exists(webhook.GetKey())
	if err != nil {
		return apperrors.Wrap(err, "check webhook")
	}
	if exists {
		return apperrors.NewUserErrorWithField("name", webhook.Name,
			"a webhook with this name already exists",
			"Pick another name or delete the existing one first.")
	}
	if err := r.db.Set(webhook); err != nil {
		return apperrors.Wrap(err, "store webhook")
	}
	return nil
}

// Get retrieves a webhook by name.
func (r *WebhookRepo) Get(name string) (*model.Webhook, error) {
	webhook := &model.Webhook{}
	err := r.db.Get(model.GenerateWebhookKey(name), webhook)
	if err != nil {
		if IsErrKeyNotFound(err) {
			return nil, apperrors.ErrWebhookNotFound
		}
		return nil, apperrors.Wrap(err, "get webhook")
	}
	return webhook, nil
}

// List retrieves all webhooks sorted by name.
func (r *WebhookRepo) List() ([]*model.Webhook, error) {
	webhooks, err := GetAllByPrefix(r.db, model.PrefixWebhook+":", func() *model.Webhook {
		return &model.Webhook{}
	})
	if err != nil {
		return nil, apperrors.Wrap(err, "list webhooks")
	}
	sort.Slice(webhooks, func(i, j int) bool { return webhooks[i].Name < webhooks[j].Name })
	return webhooks, nil
}

// ListEnabled retrieves all enabled webhooks sorted by name.
func (r *WebhookRepo) ListEnabled() ([]*model.Webhook, error) {
	webhooks, err := r.List()
	if err != nil {
		return nil, err
	}
	var enabled []*model.Webhook
	for _, webhook := range webhooks {
		if webhook.IsEnabled() {
			enabled = append(enabled, webhook)
		}
	}
	return enabled, nil
}

// Delete removes a webhook by name.
func (r *WebhookRepo) Delete(name string) error {
	if _, err := r.Get(name); err != nil {
		return err
	}
	if err := r.db.Delete(model.GenerateWebhookKey(name)); err != nil {
		return apperrors.Wrap(err, "delete webhook")
	}
	return nil
}

// SetEnabled flips the enabled flag on a webhook.
func (r *WebhookRepo) SetEnabled(name string, enabled bool) (*model.Webhook, error) {
	webhook, err := r.Get(name)
	if err != nil {
		return nil, err
	}
	webhook.Enabled = enabled
	if err := r.db.Set(webhook); err != nil {
		return nil, apperrors.Wrap(err, "update webhook")
	}
	return webhook, nil
}

// MarkUsed records a delivery attempt outcome on the webhook.
func (r *WebhookRepo) MarkUsed(name string, deliveryErr error) {
	webhook, err := r.Get(name)
	if err != nil {
		return
	}
	webhook.LastUsed = time.Now()
	if deliveryErr != nil {
		webhook.LastError = deliveryErr.Error()
	} else {
		webhook.LastError = ""
	}
	// Best effort; delivery bookkeeping never fails the send.
	_ = r.db.Set(webhook)
}
