package storage

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "github.com/dhnguyen/pillbox/internal/errors"
	"github.com/dhnguyen/pillbox/internal/model"
)

func setupTestDB(t *testing.T) *DB {
	t.Helper()
	db, err := Open(Options{InMemory: true})
	require.NoError(t, err)
	t.Cleanup(func() {
		_ = db.Close()
	})
	return db
}

func testMedicine(name string) *model.Medicine {
	return model.NewMedicine(name, 2, model.UnitPills, model.AdviceNone,
		time.Date(2026, 1, 1, 0, 0, 0, 0, time.Local),
		[]string{"10:00 AM", "08:00 PM"})
}

func TestNextIDSequence(t *testing.T) {
	db := setupTestDB(t)

	first, err := db.NextID("medicine")
	require.NoError(t, err)
	second, err := db.NextID("medicine")
	require.NoError(t, err)
	other, err := db.NextID("history")
	require.NoError(t, err)

	assert.Equal(t, uint64(1), first)
	assert.Equal(t, uint64(2), second)
	assert.Equal(t, uint64(1), other, "sequences are independent")
}

func TestMedicineCreateAndGet(t *testing.T) {
	db := setupTestDB(t)
	repo := NewMedicineRepo(db)

	med := testMedicine("Aspirin")
	require.NoError(t, repo.Create(med))

	assert.Equal(t, uint64(1), med.ID)
	assert.Equal(t, "medicine:000000000001", med.Key)

	got, err := repo.Get(med.ID)
	require.NoError(t, err)
	assert.Equal(t, "Aspirin", got.Name)
	assert.Equal(t, []string{"10:00 AM", "08:00 PM"}, got.ReminderTimes)
	assert.True(t, got.Active)
}

func TestMedicineGetNotFound(t *testing.T) {
	db := setupTestDB(t)
	repo := NewMedicineRepo(db)

	_, err := repo.Get(42)
	assert.ErrorIs(t, err, apperrors.ErrMedicineNotFound)
}

func TestMedicineCreateNormalizesTimes(t *testing.T) {
	db := setupTestDB(t)
	repo := NewMedicineRepo(db)

	med := testMedicine("Iron")
	med.ReminderTimes = []string{"08:00 PM", "10:00 AM", "08:00 PM"}
	require.NoError(t, repo.Create(med))

	got, err := repo.Get(med.ID)
	require.NoError(t, err)
	assert.Equal(t, []string{"10:00 AM", "08:00 PM"}, got.ReminderTimes)
}

func TestMedicineUpdate(t *testing.T) {
	db := setupTestDB(t)
	repo := NewMedicineRepo(db)

	med := testMedicine("Aspirin")
	require.NoError(t, repo.Create(med))

	med.Name = "Aspirin Forte"
	med.Quantity = 1
	require.NoError(t, repo.Update(med))

	got, err := repo.Get(med.ID)
	require.NoError(t, err)
	assert.Equal(t, "Aspirin Forte", got.Name)
	assert.Equal(t, 1, got.Quantity)
}

func TestMedicineUpdateNotFound(t *testing.T) {
	db := setupTestDB(t)
	repo := NewMedicineRepo(db)

	med := testMedicine("Ghost")
	med.ID = 99
	err := repo.Update(med)
	assert.ErrorIs(t, err, apperrors.ErrMedicineNotFound)
}

func TestMedicineListSortedByID(t *testing.T) {
	db := setupTestDB(t)
	repo := NewMedicineRepo(db)

	require.NoError(t, repo.CreateAll([]*model.Medicine{
		testMedicine("C"), testMedicine("A"), testMedicine("B"),
	}))

	meds, err := repo.List()
	require.NoError(t, err)
	require.Len(t, meds, 3)
	assert.Equal(t, uint64(1), meds[0].ID)
	assert.Equal(t, "C", meds[0].Name)
	assert.Equal(t, uint64(3), meds[2].ID)
}

func TestMedicineListByDate(t *testing.T) {
	db := setupTestDB(t)
	repo := NewMedicineRepo(db)

	inWindow := testMedicine("Current")

	future := testMedicine("Future")
	future.StartDate = time.Date(2026, 6, 1, 0, 0, 0, 0, time.Local)

	ended := testMedicine("Ended")
	ended.EndDate = time.Date(2026, 1, 31, 0, 0, 0, 0, time.Local)

	paused := testMedicine("Paused")
	paused.Active = false

	require.NoError(t, repo.CreateAll([]*model.Medicine{inWindow, future, ended, paused}))

	day := time.Date(2026, 3, 15, 12, 0, 0, 0, time.Local)
	due, err := repo.ListByDate(day)
	require.NoError(t, err)
	require.Len(t, due, 1)
	assert.Equal(t, "Current", due[0].Name)
}

func TestMedicineEndDateInclusive(t *testing.T) {
	db := setupTestDB(t)
	repo := NewMedicineRepo(db)

	med := testMedicine("Course")
	med.EndDate = time.Date(2026, 3, 15, 0, 0, 0, 0, time.Local)
	require.NoError(t, repo.Create(med))

	lastDay := time.Date(2026, 3, 15, 23, 30, 0, 0, time.Local)
	due, err := repo.ListByDate(lastDay)
	require.NoError(t, err)
	assert.Len(t, due, 1, "the end date itself is in the window")

	dayAfter := time.Date(2026, 3, 16, 0, 0, 0, 0, time.Local)
	due, err = repo.ListByDate(dayAfter)
	require.NoError(t, err)
	assert.Empty(t, due)
}

func TestMedicineSetActive(t *testing.T) {
	db := setupTestDB(t)
	repo := NewMedicineRepo(db)

	med := testMedicine("Aspirin")
	require.NoError(t, repo.Create(med))

	paused, err := repo.SetActive(med.ID, false)
	require.NoError(t, err)
	assert.False(t, paused.Active)

	active, err := repo.ListActive()
	require.NoError(t, err)
	assert.Empty(t, active)
}

func TestMedicineDelete(t *testing.T) {
	db := setupTestDB(t)
	repo := NewMedicineRepo(db)

	med := testMedicine("Aspirin")
	require.NoError(t, repo.Create(med))
	require.NoError(t, repo.Delete(med.ID))

	_, err := repo.Get(med.ID)
	assert.ErrorIs(t, err, apperrors.ErrMedicineNotFound)

	assert.ErrorIs(t, repo.Delete(med.ID), apperrors.ErrMedicineNotFound)
}

func TestHistoryRecordUpsert(t *testing.T) {
	db := setupTestDB(t)
	repo := NewHistoryRepo(db)

	day := time.Date(2026, 3, 15, 0, 0, 0, 0, time.Local)

	first, err := repo.RecordTaken(1, day, "10:00 AM")
	require.NoError(t, err)
	assert.Equal(t, uint64(1), first.ID)

	// Same slot again flips the outcome without duplicating the entry.
	second, err := repo.RecordSkipped(1, day, "10:00 AM")
	require.NoError(t, err)
	assert.Equal(t, first.ID, second.ID, "upsert preserves the entry id")
	assert.Equal(t, first.Key, second.Key)

	entries, err := repo.ListByMedicine(1)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, model.StatusSkipped, entries[0].Status)
}

func TestHistorySlotsAreIndependent(t *testing.T) {
	db := setupTestDB(t)
	repo := NewHistoryRepo(db)

	day := time.Date(2026, 3, 15, 0, 0, 0, 0, time.Local)
	nextDay := day.AddDate(0, 0, 1)

	_, err := repo.RecordTaken(1, day, "10:00 AM")
	require.NoError(t, err)
	_, err = repo.RecordTaken(1, day, "08:00 PM")
	require.NoError(t, err)
	_, err = repo.RecordTaken(1, nextDay, "10:00 AM")
	require.NoError(t, err)
	_, err = repo.RecordTaken(2, day, "10:00 AM")
	require.NoError(t, err)

	entries, err := repo.ListAll()
	require.NoError(t, err)
	assert.Len(t, entries, 4)
}

func TestHistoryListByDateRange(t *testing.T) {
	db := setupTestDB(t)
	repo := NewHistoryRepo(db)

	for dayOffset := 0; dayOffset < 10; dayOffset++ {
		day := time.Date(2026, 3, 1, 0, 0, 0, 0, time.Local).AddDate(0, 0, dayOffset)
		_, err := repo.RecordTaken(1, day, "10:00 AM")
		require.NoError(t, err)
	}

	start := time.Date(2026, 3, 3, 0, 0, 0, 0, time.Local)
	end := time.Date(2026, 3, 5, 0, 0, 0, 0, time.Local)
	entries, err := repo.ListByDateRange(start, end)
	require.NoError(t, err)
	require.Len(t, entries, 3)
	assert.Equal(t, "2026-03-03", entries[0].Date)
	assert.Equal(t, "2026-03-05", entries[2].Date)
}

func TestHistoryStatistics(t *testing.T) {
	db := setupTestDB(t)
	repo := NewHistoryRepo(db)

	day := time.Date(2026, 3, 15, 0, 0, 0, 0, time.Local)

	_, err := repo.RecordTaken(1, day, "10:00 AM")
	require.NoError(t, err)
	_, err = repo.RecordMissed(1, day, "08:00 PM")
	require.NoError(t, err)
	_, err = repo.RecordTaken(1, day.AddDate(0, 0, 1), "10:00 AM")
	require.NoError(t, err)
	_, err = repo.RecordSkipped(2, day, "09:00 AM")
	require.NoError(t, err)

	perMed, err := repo.StatisticsByMedicine(day, day.AddDate(0, 0, 7))
	require.NoError(t, err)
	require.Len(t, perMed, 2)

	assert.Equal(t, uint64(1), perMed[0].MedicineID)
	assert.Equal(t, 3, perMed[0].Total)
	assert.Equal(t, 2, perMed[0].Taken)
	assert.Equal(t, 1, perMed[0].Missed)
	assert.InDelta(t, 66.6, perMed[0].AdherencePercent(), 0.1)

	assert.Equal(t, uint64(2), perMed[1].MedicineID)
	assert.Equal(t, 1, perMed[1].Skipped)

	overall, err := repo.OverallStatistics(day, day.AddDate(0, 0, 7))
	require.NoError(t, err)
	assert.Equal(t, 4, overall.Total)
	assert.Equal(t, 2, overall.Taken)
	assert.Equal(t, 1, overall.Missed)
	assert.Equal(t, 1, overall.Skipped)
	assert.InDelta(t, 50.0, overall.AdherencePercent(), 0.01)
}

func TestHistoryDeleteByMedicine(t *testing.T) {
	db := setupTestDB(t)
	repo := NewHistoryRepo(db)

	day := time.Date(2026, 3, 15, 0, 0, 0, 0, time.Local)
	_, err := repo.RecordTaken(1, day, "10:00 AM")
	require.NoError(t, err)
	_, err = repo.RecordTaken(1, day, "08:00 PM")
	require.NoError(t, err)
	_, err = repo.RecordTaken(2, day, "10:00 AM")
	require.NoError(t, err)

	require.NoError(t, repo.DeleteByMedicine(1))

	entries, err := repo.ListAll()
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, uint64(2), entries[0].MedicineID)
}

func TestHistoryDeleteByID(t *testing.T) {
	db := setupTestDB(t)
	repo := NewHistoryRepo(db)

	day := time.Date(2026, 3, 15, 0, 0, 0, 0, time.Local)
	entry, err := repo.RecordTaken(1, day, "10:00 AM")
	require.NoError(t, err)

	require.NoError(t, repo.DeleteByID(entry.ID))
	assert.ErrorIs(t, repo.DeleteByID(entry.ID), apperrors.ErrHistoryNotFound)
}

func TestPrefsDefaultsOnFirstAccess(t *testing.T) {
	db := setupTestDB(t)
	repo := NewPrefsRepo(db)

	prefs, err := repo.Get()
	require.NoError(t, err)
	assert.True(t, prefs.FirstLaunch)
	assert.Equal(t, model.DefaultReminderTone, prefs.ReminderTone)
	assert.Equal(t, model.DefaultTheme, prefs.Theme)
}

func TestPrefsMarkLaunched(t *testing.T) {
	db := setupTestDB(t)
	repo := NewPrefsRepo(db)

	_, err := repo.MarkLaunched("Dai")
	require.NoError(t, err)

	prefs, err := repo.Get()
	require.NoError(t, err)
	assert.False(t, prefs.FirstLaunch)
	assert.Equal(t, "Dai", prefs.Nickname)
}

func TestWebhookCreateDuplicate(t *testing.T) {
	db := setupTestDB(t)
	repo := NewWebhookRepo(db)

	hook := model.NewWebhook("alerts", model.WebhookTypeSlack, "https://hooks.slack.com/services/T/B/x")
	require.NoError(t, repo.Create(hook))

	err := repo.Create(model.NewWebhook("alerts", model.WebhookTypeSlack, "https://hooks.slack.com/services/T/B/y"))
	require.Error(t, err)
	assert.True(t, apperrors.IsUserError(err))
}

func TestWebhookListEnabled(t *testing.T) {
	db := setupTestDB(t)
	repo := NewWebhookRepo(db)

	require.NoError(t, repo.Create(model.NewWebhook("a", model.WebhookTypeSlack, "https://hooks.slack.com/a")))
	require.NoError(t, repo.Create(model.NewWebhook("b", model.WebhookTypeDiscord, "https://discord.com/api/webhooks/b")))

	_, err := repo.SetEnabled("a", false)
	require.NoError(t, err)

	enabled, err := repo.ListEnabled()
	require.NoError(t, err)
	require.Len(t, enabled, 1)
	assert.Equal(t, "b", enabled[0].Name)
}
