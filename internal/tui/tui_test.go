package tui

import (
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dhnguyen/pillbox/internal/model"
	"github.com/dhnguyen/pillbox/internal/notify"
	"github.com/dhnguyen/pillbox/internal/storage"
)

func setupDashboard(t *testing.T) (*DashboardModel, *storage.HistoryRepo) {
	t.Helper()
	db, err := storage.Open(storage.Options{InMemory: true})
	require.NoError(t, err)
	t.Cleanup(func() {
		_ = db.Close()
	})

	meds := storage.NewMedicineRepo(db)
	history := storage.NewHistoryRepo(db)
	snoozes := storage.NewSnoozeRepo(db)

	med := model.NewMedicine("Aspirin", 2, model.UnitPills, model.AdviceNone,
		time.Now().AddDate(0, 0, -1), []string{"10:00 AM", "11:59 PM"})
	require.NoError(t, meds.Create(med))

	m := NewDashboardModel(DashboardConfig{
		MedicineRepo: meds,
		HistoryRepo:  history,
		Responder:    notify.NewResponder(meds, history, snoozes),
	})
	m.loadData()
	m.width = 80
	m.height = 24
	return m, history
}

func TestDashboardLoadsSchedule(t *testing.T) {
	m, _ := setupDashboard(t)
	require.NotNil(t, m.schedule)
	assert.Equal(t, 2, m.schedule.Total())
	assert.Len(t, m.rows, 2)
}

func TestDashboardViewRendersSections(t *testing.T) {
	m, _ := setupDashboard(t)
	view := m.View()
	assert.Contains(t, view, "Pillbox")
	assert.Contains(t, view, "Aspirin")
	assert.Contains(t, view, "11:59 PM")
	assert.Contains(t, view, "q quit")
}

func TestDashboardNavigationBounds(t *testing.T) {
	m, _ := setupDashboard(t)

	m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("k")})
	assert.Equal(t, 0, m.cursor, "cannot move above the first row")

	m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("j")})
	assert.Equal(t, 1, m.cursor)
	m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("j")})
	assert.Equal(t, 1, m.cursor, "cannot move past the last row")
}

func TestDashboardTakeRecordsEntry(t *testing.T) {
	m, history := setupDashboard(t)

	m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("t")})

	entries, err := history.ListAll()
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, model.StatusTaken, entries[0].Status)
	assert.NotEmpty(t, m.message)
}

func TestDashboardQuitKey(t *testing.T) {
	m, _ := setupDashboard(t)
	_, cmd := m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("q")})
	require.NotNil(t, cmd)
	assert.Equal(t, tea.Quit(), cmd())
}
