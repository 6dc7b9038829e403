package output

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/dhnguyen/pillbox/internal/model"
	"github.com/dhnguyen/pillbox/internal/schedule"
)

// Styles for CLI output.
var (
	colorPrimary = lipgloss.Color("#3B82F6") // Blue
	colorMuted   = lipgloss.Color("#6B7280") // Gray
	colorWarning = lipgloss.Color("#F59E0B") // Yellow
	colorError   = lipgloss.Color("#EF4444") // Red
	colorSuccess = lipgloss.Color("#10B981") // Green

	styleTitle = lipgloss.NewStyle().
			Bold(true).
			Foreground(colorPrimary)

	styleSuccess = lipgloss.NewStyle().
			Foreground(colorSuccess)

	styleWarning = lipgloss.NewStyle().
			Foreground(colorWarning)

	styleError = lipgloss.NewStyle().
			Foreground(colorError)

	styleMuted = lipgloss.NewStyle().
			Foreground(colorMuted)

	styleBold = lipgloss.NewStyle().
			Bold(true)
)

// CLIFormatter provides CLI-specific formatting.
type CLIFormatter struct {
	*Formatter
}

// NewCLIFormatter creates a new CLI formatter.
func NewCLIFormatter(f *Formatter) *CLIFormatter {
	return &CLIFormatter{Formatter: f}
}

func (c *CLIFormatter) render(style lipgloss.Style, text string) string {
	if c.IsColorEnabled() {
		return style.Render(text)
	}
	return text
}

// Title prints a title.
func (c *CLIFormatter) Title(text string) {
	c.Println(c.render(styleTitle, text))
}

// Success prints a success message.
func (c *CLIFormatter) Success(text string) {
	c.Println(c.render(styleSuccess, "✓ "+text))
}

// Warning prints a warning message.
func (c *CLIFormatter) Warning(text string) {
	c.Println(c.render(styleWarning, "! "+text))
}

// Error prints an error message.
func (c *CLIFormatter) Error(text string) {
	c.Println(c.render(styleError, "✗ "+text))
}

// Muted prints de-emphasized text.
func (c *CLIFormatter) Muted(text string) {
	c.Println(c.render(styleMuted, text))
}

// Rule prints a horizontal separator sized to the terminal.
func (c *CLIFormatter) Rule() {
	width := c.Width()
	if width > 60 {
		width = 60
	}
	c.Muted(strings.Repeat("─", width))
}

// MedicineLine renders a one-line medicine summary.
func (c *CLIFormatter) MedicineLine(med *model.Medicine) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "#%d %s", med.ID, c.render(styleBold, med.Name))
	fmt.Fprintf(&sb, "  %s", med.DoseLabel())
	if med.IntakeAdvice != model.AdviceNone {
		fmt.Fprintf(&sb, "  (%s)", med.IntakeAdvice)
	}
	fmt.Fprintf(&sb, "  at %s", strings.Join(med.ReminderTimes, ", "))
	if !med.Active {
		sb.WriteString(c.render(styleMuted, "  [paused]"))
	}
	return sb.String()
}

// PrintMedicine renders a full medicine card.
func (c *CLIFormatter) PrintMedicine(med *model.Medicine) {
	c.Println(c.MedicineLine(med))
	c.Printf("   starts %s", FormatDate(med.StartDate))
	if med.IsUnbounded() {
		c.Println(", no end date")
	} else {
		c.Printf(", ends %s\n", FormatDate(med.EndDate))
	}
	if med.Note != "" {
		c.Muted("   " + med.Note)
	}
}

// statusIcon maps a slot status to its display marker.
func (c *CLIFormatter) statusIcon(status model.Status) string {
	switch status {
	case model.StatusCompleted:
		return c.render(styleSuccess, "✓")
	case model.StatusSkippedSlot:
		return c.render(styleMuted, "→")
	case model.StatusMissedSlot:
		return c.render(styleError, "✗")
	case model.StatusBeforeEating:
		return c.render(styleWarning, "◷")
	default:
		return c.render(styleMuted, "○")
	}
}

// OccurrenceLine renders one slot row.
func (c *CLIFormatter) OccurrenceLine(occ *model.Occurrence) string {
	return fmt.Sprintf("  %s %s  %s %s",
		c.statusIcon(occ.Status),
		occ.TimeLabel,
		c.render(styleBold, occ.Medicine.Name),
		occ.Medicine.DoseLabel())
}

// PrintDaySchedule renders the sectioned day view.
func (c *CLIFormatter) PrintDaySchedule(s *schedule.DaySchedule) {
	if s.Total() == 0 {
		c.Muted("No doses scheduled for this day.")
		return
	}
	if len(s.Overdue) > 0 {
		c.Println(c.render(styleError, "Overdue"))
		for _, occ := range s.Overdue {
			c.Println(c.OccurrenceLine(occ))
		}
	}
	if len(s.Upcoming) > 0 {
		c.Println(c.render(styleWarning, "Upcoming"))
		for _, occ := range s.Upcoming {
			c.Println(c.OccurrenceLine(occ))
		}
	}
	if len(s.Completed) > 0 {
		c.Println(c.render(styleSuccess, "Done"))
		for _, occ := range s.Completed {
			c.Println(c.OccurrenceLine(occ))
		}
	}
}

// PrintHistoryEntry renders one ledger row.
func (c *CLIFormatter) PrintHistoryEntry(entry *model.HistoryEntry, medicineName string) {
	var marker string
	switch entry.Status {
	case model.StatusTaken:
		marker = c.render(styleSuccess, "taken  ")
	case model.StatusSkipped:
		marker = c.render(styleMuted, "skipped")
	default:
		marker = c.render(styleError, "missed ")
	}
	c.Printf("  %s %s  %s  %s\n", entry.Date, entry.TimeLabel, marker, medicineName)
}

// AdherenceBar renders a proportional bar for an adherence percentage.
func (c *CLIFormatter) AdherenceBar(percent float64, width int) string {
	if width <= 0 {
		width = 20
	}
	filled := int(percent / 100 * float64(width))
	if filled > width {
		filled = width
	}
	bar := strings.Repeat("█", filled) + strings.Repeat("░", width-filled)
	style := styleSuccess
	switch {
	case percent < 50:
		style = styleError
	case percent < 80:
		style = styleWarning
	}
	return c.render(style, bar)
}

// PrintStats renders per-medicine adherence rows plus the overall line.
func (c *CLIFormatter) PrintStats(perMedicine []*model.MedicineStats, names map[uint64]string, overall *model.OverallStats) {
	for _, stats := range perMedicine {
		name := names[stats.MedicineID]
		if name == "" {
			name = fmt.Sprintf("#%d", stats.MedicineID)
		}
		c.Printf("  %-24s %s %s  (%d taken, %d missed, %d skipped)\n",
			name,
			c.AdherenceBar(stats.AdherencePercent(), 20),
			FormatPercent(stats.AdherencePercent()),
			stats.Taken, stats.Missed, stats.Skipped)
	}
	if overall.Total > 0 {
		c.Rule()
		c.Printf("  %-24s %s %s  (%d of %d doses taken)\n",
			c.render(styleBold, "Overall"),
			c.AdherenceBar(overall.AdherencePercent(), 20),
			FormatPercent(overall.AdherencePercent()),
			overall.Taken, overall.Total)
	}
}

// PrintWebhook renders one webhook row.
func (c *CLIFormatter) PrintWebhook(webhook *model.Webhook) {
	state := c.render(styleSuccess, "enabled")
	if !webhook.IsEnabled() {
		state = c.render(styleMuted, "disabled")
	}
	c.Printf("  %-16s %-8s %s  %s\n", webhook.Name, webhook.Type, state, webhook.MaskedURL())
	if webhook.LastError != "" {
		c.Muted("    last error: " + webhook.LastError)
	}
}
