// Package tui provides the interactive terminal dashboard for Pillbox.
package tui

import "github.com/charmbracelet/lipgloss"

// Dashboard styles.
var (
	colorPrimary = lipgloss.Color("#3B82F6")
	colorMuted   = lipgloss.Color("#6B7280")
	colorWarning = lipgloss.Color("#F59E0B")
	colorError   = lipgloss.Color("#EF4444")
	colorSuccess = lipgloss.Color("#10B981")

	styleHeader = lipgloss.NewStyle().
			Bold(true).
			Foreground(colorPrimary).
			MarginBottom(1)

	styleSection = lipgloss.NewStyle().
			Bold(true).
			MarginTop(1)

	styleSectionOverdue = styleSection.
				Foreground(colorError)

	styleSectionUpcoming = styleSection.
				Foreground(colorWarning)

	styleSectionDone = styleSection.
				Foreground(colorSuccess)

	styleSelected = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#FFFFFF")).
			Background(colorPrimary)

	styleMuted = lipgloss.NewStyle().
			Foreground(colorMuted)

	styleMessage = lipgloss.NewStyle().
			Foreground(colorSuccess).
			Italic(true)

	styleErr = lipgloss.NewStyle().
			Foreground(colorError)

	styleHelp = lipgloss.NewStyle().
			Foreground(colorMuted).
			MarginTop(1)
)
