package notify

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "github.com/dhnguyen/pillbox/internal/errors"
	"github.com/dhnguyen/pillbox/internal/model"
	"github.com/dhnguyen/pillbox/internal/schedule"
	"github.com/dhnguyen/pillbox/internal/storage"
)

var noon = time.Date(2026, 3, 15, 12, 0, 0, 0, time.Local)

func setupTestDB(t *testing.T) *storage.DB {
	t.Helper()
	db, err := storage.Open(storage.Options{InMemory: true})
	require.NoError(t, err)
	t.Cleanup(func() {
		_ = db.Close()
	})
	return db
}

func doseNotification(t *testing.T) *model.Notification {
	t.Helper()
	med := model.NewMedicine("Aspirin", 2, model.UnitPills, model.AdviceBeforeMeal,
		noon, []string{"10:00 AM"})
	med.ID = 1
	return model.NewDoseNotification(med, "10:00 AM", "dispatch-1")
}

func TestDoseNotificationShape(t *testing.T) {
	n := doseNotification(t)

	assert.Equal(t, "Medication at 10:00 AM", n.Title)
	assert.Equal(t, "Aspirin 2 pills", n.Message)
	assert.Equal(t, "Before meal", n.Fields["Advice"])
	assert.Contains(t, n.Fields["Actions"], "pillbox take 1")
	assert.Contains(t, n.Fields["Actions"], "pillbox snooze 1")
}

func TestDiscordFormat(t *testing.T) {
	payload, err := (&DiscordFormatter{}).Format(doseNotification(t))
	require.NoError(t, err)

	var decoded discordPayload
	require.NoError(t, json.Unmarshal(payload, &decoded))
	require.Len(t, decoded.Embeds, 1)
	assert.Equal(t, "Medication at 10:00 AM", decoded.Embeds[0].Title)
	assert.Equal(t, "Aspirin 2 pills", decoded.Embeds[0].Description)
	assert.Equal(t, model.ColorWarning, decoded.Embeds[0].Color)
	assert.Equal(t, "Pillbox", decoded.Embeds[0].Footer.Text)
}

func TestSlackFormat(t *testing.T) {
	payload, err := (&SlackFormatter{}).Format(doseNotification(t))
	require.NoError(t, err)

	var decoded slackPayload
	require.NoError(t, json.Unmarshal(payload, &decoded))
	assert.Equal(t, "*Medication at 10:00 AM*", decoded.Text)
	require.NotEmpty(t, decoded.Blocks)
	assert.Equal(t, "header", decoded.Blocks[0].Type)
	require.Len(t, decoded.Attachments, 1)
	assert.Equal(t, "#FEE75C", decoded.Attachments[0].Color)
}

func TestTeamsFormat(t *testing.T) {
	payload, err := (&TeamsFormatter{}).Format(doseNotification(t))
	require.NoError(t, err)

	var decoded teamsPayload
	require.NoError(t, json.Unmarshal(payload, &decoded))
	assert.Equal(t, "MessageCard", decoded.Type)
	require.Len(t, decoded.Sections, 1)
	assert.Equal(t, "Medication at 10:00 AM", decoded.Sections[0].ActivityTitle)
}

func TestGenericFormatCarriesSlotPayload(t *testing.T) {
	payload, err := (&GenericFormatter{}).Format(doseNotification(t))
	require.NoError(t, err)

	var decoded genericPayload
	require.NoError(t, json.Unmarshal(payload, &decoded))
	assert.Equal(t, uint64(1), decoded.MedicineID)
	assert.Equal(t, "10:00 AM", decoded.TimeLabel)
	assert.Equal(t, "dispatch-1", decoded.DispatchID)
}

func TestGenericFormatWithTemplate(t *testing.T) {
	formatter := NewGenericFormatter(`{"text":"{{.Title}}"}`)
	payload, err := formatter.Format(doseNotification(t))
	require.NoError(t, err)
	assert.JSONEq(t, `{"text":"Medication at 10:00 AM"}`, string(payload))
}

func TestGetFormatterByType(t *testing.T) {
	assert.IsType(t, &DiscordFormatter{}, GetFormatter(model.WebhookTypeDiscord))
	assert.IsType(t, &SlackFormatter{}, GetFormatter(model.WebhookTypeSlack))
	assert.IsType(t, &TeamsFormatter{}, GetFormatter(model.WebhookTypeTeams))
	assert.IsType(t, &GenericFormatter{}, GetFormatter("unknown"))
}

func TestDispatcherFansOutToEnabledSinks(t *testing.T) {
	var hits atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	db := setupTestDB(t)
	repo := storage.NewWebhookRepo(db)
	require.NoError(t, repo.Create(model.NewWebhook("a", model.WebhookTypeGeneric, server.URL)))
	require.NoError(t, repo.Create(model.NewWebhook("b", model.WebhookTypeGeneric, server.URL)))
	disabled := model.NewWebhook("c", model.WebhookTypeGeneric, server.URL)
	disabled.Enabled = false
	require.NoError(t, repo.Create(disabled))

	dispatcher := NewDispatcher(repo)
	results := dispatcher.Send(context.Background(), doseNotification(t))

	require.Len(t, results, 2)
	for _, result := range results {
		assert.True(t, result.Success)
		assert.Equal(t, http.StatusOK, result.StatusCode)
	}
	assert.Equal(t, int32(2), hits.Load())
}

func TestDispatcherRecordsFailure(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
	}))
	defer server.Close()

	db := setupTestDB(t)
	repo := storage.NewWebhookRepo(db)
	require.NoError(t, repo.Create(model.NewWebhook("bad", model.WebhookTypeGeneric, server.URL)))

	dispatcher := NewDispatcher(repo)
	result := dispatcher.SendTo(context.Background(), doseNotification(t), "bad")

	assert.False(t, result.Success)
	assert.Equal(t, http.StatusBadRequest, result.StatusCode)

	hook, err := repo.Get("bad")
	require.NoError(t, err)
	assert.NotEmpty(t, hook.LastError)
	assert.False(t, hook.LastUsed.IsZero())
}

func TestDispatcherNoSinksIsNoop(t *testing.T) {
	db := setupTestDB(t)
	dispatcher := NewDispatcher(storage.NewWebhookRepo(db))

	results := dispatcher.Send(context.Background(), doseNotification(t))
	assert.Nil(t, results)
	assert.False(t, dispatcher.HasEnabledWebhooks())
}

type responderFixture struct {
	responder *Responder
	meds      *storage.MedicineRepo
	history   *storage.HistoryRepo
	snoozes   *storage.SnoozeRepo
	engine    *schedule.TimerEngine
}

func setupResponder(t *testing.T) *responderFixture {
	t.Helper()
	db := setupTestDB(t)
	meds := storage.NewMedicineRepo(db)
	history := storage.NewHistoryRepo(db)
	snoozes := storage.NewSnoozeRepo(db)
	engine := schedule.NewTimerEngine(func(schedule.Payload) {})
	t.Cleanup(engine.Stop)
	orch := schedule.NewOrchestrator(engine).WithClock(func() time.Time { return noon })
	responder := NewResponder(meds, history, snoozes).
		WithOrchestrator(orch).
		WithClock(func() time.Time { return noon })
	return &responderFixture{responder, meds, history, snoozes, engine}
}

func TestResponderConfirmWritesSingleEntry(t *testing.T) {
	fx := setupResponder(t)

	med := model.NewMedicine("Aspirin", 2, model.UnitPills, model.AdviceNone, noon, []string{"10:00 AM"})
	require.NoError(t, fx.meds.Create(med))

	entry, err := fx.responder.Confirm(med.ID, noon, "10:00 AM")
	require.NoError(t, err)
	assert.Equal(t, model.StatusTaken, entry.Status)

	entries, err := fx.history.ListByMedicine(med.ID)
	require.NoError(t, err)
	assert.Len(t, entries, 1)
	assert.Empty(t, fx.engine.Registrations())
}

func TestResponderSnoozePersistsAndArms(t *testing.T) {
	fx := setupResponder(t)

	med := model.NewMedicine("Aspirin", 2, model.UnitPills, model.AdviceNone, noon, []string{"10:00 AM"})
	require.NoError(t, fx.meds.Create(med))

	fireAt, err := fx.responder.RemindLater(med.ID, "10:00 AM")
	require.NoError(t, err)
	assert.Equal(t, noon.Add(30*time.Minute), fireAt)
	require.Len(t, fx.engine.Registrations(), 1)

	snooze, err := fx.snoozes.Get(med.ID, "10:00 AM")
	require.NoError(t, err)
	require.NotNil(t, snooze, "snooze survives in the store")
	assert.Equal(t, fireAt, snooze.FireAt)

	// Snoozing writes nothing to the ledger.
	entries, err := fx.history.ListByMedicine(med.ID)
	require.NoError(t, err)
	assert.Empty(t, entries)
}

func TestResponderSkipAfterSnoozeDropsTimer(t *testing.T) {
	fx := setupResponder(t)

	med := model.NewMedicine("Aspirin", 2, model.UnitPills, model.AdviceNone, noon, []string{"10:00 AM"})
	require.NoError(t, fx.meds.Create(med))

	_, err := fx.responder.RemindLater(med.ID, "10:00 AM")
	require.NoError(t, err)
	require.Len(t, fx.engine.Registrations(), 1)

	_, err = fx.responder.Skip(med.ID, noon, "10:00 AM")
	require.NoError(t, err)
	assert.Empty(t, fx.engine.Registrations(), "answered slot drops the pending snooze")

	snooze, err := fx.snoozes.Get(med.ID, "10:00 AM")
	require.NoError(t, err)
	assert.Nil(t, snooze)

	entries, err := fx.history.ListByMedicine(med.ID)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, model.StatusSkipped, entries[0].Status)
}

func TestResponderMissingMedicineIsError(t *testing.T) {
	fx := setupResponder(t)

	_, err := fx.responder.Confirm(42, noon, "10:00 AM")
	assert.ErrorIs(t, err, apperrors.ErrMedicineNotFound)

	entries, err := fx.history.ListAll()
	require.NoError(t, err)
	assert.Empty(t, entries)
}
