package tui

import (
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/dhnguyen/pillbox/internal/model"
	"github.com/dhnguyen/pillbox/internal/notify"
	"github.com/dhnguyen/pillbox/internal/schedule"
	"github.com/dhnguyen/pillbox/internal/storage"
)

// tickMsg is sent when the timer ticks.
type tickMsg time.Time

// refreshMsg is sent when data needs to be refreshed.
type refreshMsg struct{}

// errMsg is sent when an error occurs.
type errMsg struct {
	err error
}

// DashboardModel is the bubbletea model for the day view.
type DashboardModel struct {
	// Data
	schedule *schedule.DaySchedule
	rows     []*model.Occurrence

	// Dependencies
	medicineRepo *storage.MedicineRepo
	historyRepo  *storage.HistoryRepo
	responder    *notify.Responder
	changes      <-chan struct{}

	// UI state
	cursor     int
	width      int
	height     int
	err        error
	message    string
	messageExp time.Time

	refreshInterval time.Duration
}

// DashboardConfig holds configuration for the dashboard.
type DashboardConfig struct {
	MedicineRepo *storage.MedicineRepo
	HistoryRepo  *storage.HistoryRepo
	Responder    *notify.Responder
	// Changes delivers a signal whenever the store mutates underneath the
	// dashboard, driving live refresh.
	Changes         <-chan struct{}
	RefreshInterval time.Duration
}

// NewDashboardModel creates a new dashboard model.
func NewDashboardModel(config DashboardConfig) *DashboardModel {
	if config.RefreshInterval == 0 {
		config.RefreshInterval = time.Second
	}
	return &DashboardModel{
		medicineRepo:    config.MedicineRepo,
		historyRepo:     config.HistoryRepo,
		responder:       config.Responder,
		changes:         config.Changes,
		refreshInterval: config.RefreshInterval,
	}
}

// Init initializes the model.
func (m *DashboardModel) Init() tea.Cmd {
	m.loadData()
	return tea.Batch(m.tickCmd(), m.waitForChangeCmd())
}

func (m *DashboardModel) tickCmd() tea.Cmd {
	return tea.Tick(m.refreshInterval, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

func (m *DashboardModel) waitForChangeCmd() tea.Cmd {
	if m.changes == nil {
		return nil
	}
	return func() tea.Msg {
		if _, ok := <-m.changes; !ok {
			return nil
		}
		return refreshMsg{}
	}
}

// loadData rebuilds today's schedule from the store.
func (m *DashboardModel) loadData() {
	now := time.Now()
	meds, err := m.medicineRepo.ListByDate(now)
	if err != nil {
		m.err = err
		return
	}
	entries, err := m.historyRepo.ListByDay(now)
	if err != nil {
		m.err = err
		return
	}
	m.err = nil
	m.schedule = schedule.BuildDaySchedule(meds, entries, now)
	m.rows = m.schedule.Occurrences()
	if m.cursor >= len(m.rows) {
		m.cursor = len(m.rows) - 1
	}
	if m.cursor < 0 {
		m.cursor = 0
	}
}

// Update handles messages and updates the model.
func (m *DashboardModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKeyPress(msg)

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case tickMsg:
		if !m.messageExp.IsZero() && time.Now().After(m.messageExp) {
			m.message = ""
			m.messageExp = time.Time{}
		}
		// Reclassify so a slot crossing its time flips to overdue live.
		m.loadData()
		return m, m.tickCmd()

	case refreshMsg:
		m.loadData()
		return m, m.waitForChangeCmd()

	case errMsg:
		m.err = msg.err
		return m, nil
	}

	return m, nil
}

func (m *DashboardModel) handleKeyPress(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q", "ctrl+c":
		return m, tea.Quit

	case "j", "down":
		if m.cursor < len(m.rows)-1 {
			m.cursor++
		}
		return m, nil

	case "k", "up":
		if m.cursor > 0 {
			m.cursor--
		}
		return m, nil

	case "t", "enter":
		return m, m.actOnSelected(func(occ *model.Occurrence) (string, error) {
			_, err := m.responder.Confirm(occ.Medicine.ID, time.Now(), occ.TimeLabel)
			return "Recorded as taken", err
		})

	case "s":
		return m, m.actOnSelected(func(occ *model.Occurrence) (string, error) {
			_, err := m.responder.Skip(occ.Medicine.ID, time.Now(), occ.TimeLabel)
			return "Recorded as skipped", err
		})

	case "z":
		return m, m.actOnSelected(func(occ *model.Occurrence) (string, error) {
			fireAt, err := m.responder.RemindLater(occ.Medicine.ID, occ.TimeLabel)
			if err != nil {
				return "", err
			}
			return fmt.Sprintf("Snoozed until %s", fireAt.Format("3:04 PM")), nil
		})

	case "r":
		m.loadData()
		m.setMessage("Refreshed", time.Second)
		return m, nil
	}

	return m, nil
}

func (m *DashboardModel) actOnSelected(action func(*model.Occurrence) (string, error)) tea.Cmd {
	if len(m.rows) == 0 || m.cursor >= len(m.rows) {
		m.setMessage("No dose selected", 2*time.Second)
		return nil
	}
	occ := m.rows[m.cursor]
	message, err := action(occ)
	if err != nil {
		m.err = err
		return nil
	}
	m.setMessage(message, 2*time.Second)
	m.loadData()
	return nil
}

func (m *DashboardModel) setMessage(message string, ttl time.Duration) {
	m.message = message
	m.messageExp = time.Now().Add(ttl)
}

// View renders the dashboard.
func (m *DashboardModel) View() string {
	if m.width == 0 {
		return "Loading..."
	}

	var sb strings.Builder
	now := time.Now()
	sb.WriteString(styleHeader.Render(fmt.Sprintf("Pillbox — %s", now.Format("Monday, Jan 2"))))
	sb.WriteString("\n")

	if m.err != nil {
		sb.WriteString(styleErr.Render("error: " + m.err.Error()))
		sb.WriteString("\n")
	}

	if m.schedule == nil || m.schedule.Total() == 0 {
		sb.WriteString(styleMuted.Render("No doses scheduled for today."))
		sb.WriteString("\n")
	} else {
		row := 0
		m.renderSection(&sb, styleSectionOverdue.Render("Overdue"), m.schedule.Overdue, &row)
		m.renderSection(&sb, styleSectionUpcoming.Render("Upcoming"), m.schedule.Upcoming, &row)
		m.renderSection(&sb, styleSectionDone.Render("Done"), m.schedule.Completed, &row)
	}

	if m.message != "" {
		sb.WriteString("\n")
		sb.WriteString(styleMessage.Render(m.message))
	}

	sb.WriteString("\n")
	sb.WriteString(styleHelp.Render("j/k move · t take · s skip · z snooze · r refresh · q quit"))
	return sb.String()
}

func (m *DashboardModel) renderSection(sb *strings.Builder, title string, occs []*model.Occurrence, row *int) {
	if len(occs) == 0 {
		return
	}
	sb.WriteString(title)
	sb.WriteString("\n")
	for _, occ := range occs {
		line := fmt.Sprintf("  %s %s  %s %s",
			statusMarker(occ.Status), occ.TimeLabel,
			occ.Medicine.Name, occ.Medicine.DoseLabel())
		if *row == m.cursor {
			line = styleSelected.Render(line)
		}
		sb.WriteString(line)
		sb.WriteString("\n")
		*row++
	}
}

func statusMarker(status model.Status) string {
	switch status {
	case model.StatusCompleted:
		return "✓"
	case model.StatusSkippedSlot:
		return "→"
	case model.StatusMissedSlot:
		return "✗"
	case model.StatusBeforeEating:
		return "◷"
	default:
		return "○"
	}
}

// Run starts the dashboard program.
func Run(config DashboardConfig) error {
	p := tea.NewProgram(NewDashboardModel(config), tea.WithAltScreen())
	_, err := p.Run()
	return err
}
