package model

import (
	"fmt"
	"time"
)

// NotificationType defines the type of notification.
type NotificationType string

// Notification types.
const (
	NotifyDose    NotificationType = "dose"
	NotifySnoozed NotificationType = "snoozed"
	NotifySummary NotificationType = "summary"
	NotifyTest    NotificationType = "test"
)

// Notification represents a notification to be presented.
type Notification struct {
	Type      NotificationType  `json:"type"`
	Title     string            `json:"title"`
	Message   string            `json:"message"`
	Fields    map[string]string `json:"fields,omitempty"`
	Timestamp time.Time         `json:"timestamp"`
	Color     int               `json:"color,omitempty"` // hex color for embeds

	// Dose reminder payload, set for NotifyDose and NotifySnoozed.
	MedicineID uint64 `json:"medicine_id,omitempty"`
	TimeLabel  string `json:"time_label,omitempty"`
	DispatchID string `json:"dispatch_id,omitempty"`
}

// NewNotification creates a new notification.
func NewNotification(t NotificationType, title, message string) *Notification {
	return &Notification{
		Type:      t,
		Title:     title,
		Message:   message,
		Fields:    make(map[string]string),
		Timestamp: time.Now(),
	}
}

// NewDoseNotification builds the reminder prompt for one due slot.
// Title and message follow the "Medication at {time}" / "{name} {qty} {unit}"
// shape the notification shade shows.
func NewDoseNotification(med *Medicine, timeLabel, dispatchID string) *Notification {
	n := NewNotification(
		NotifyDose,
		fmt.Sprintf("Medication at %s", timeLabel),
		fmt.Sprintf("%s %s", med.Name, med.DoseLabel()),
	)
	n.MedicineID = med.ID
	n.TimeLabel = timeLabel
	n.DispatchID = dispatchID
	if med.IntakeAdvice != AdviceNone {
		n.WithField("Advice", string(med.IntakeAdvice))
	}
	n.WithField("Actions", fmt.Sprintf(
		"pillbox take %d --at %q | pillbox skip %d --at %q | pillbox snooze %d --at %q",
		med.ID, timeLabel, med.ID, timeLabel, med.ID, timeLabel))
	return n
}

// WithField adds a field to the notification.
func (n *Notification) WithField(key, value string) *Notification {
	if n.Fields == nil {
		n.Fields = make(map[string]string)
	}
	n.Fields[key] = value
	return n
}

// WithColor sets the embed color.
func (n *Notification) WithColor(color int) *Notification {
	n.Color = color
	return n
}

// Notification colors (Discord-compatible hex values).
const (
	ColorSuccess = 0x57F287 // green
	ColorWarning = 0xFEE75C // yellow
	ColorInfo    = 0x5865F2 // blurple
	ColorError   = 0xED4245 // red
	ColorPrimary = 0x3498DB // blue
)

// DefaultColorForType returns the default color for a notification type.
func DefaultColorForType(t NotificationType) int {
	switch t {
	case NotifyDose:
		return ColorWarning
	case NotifySnoozed:
		return ColorInfo
	case NotifySummary:
		return ColorSuccess
	case NotifyTest:
		return ColorPrimary
	default:
		return ColorInfo
	}
}

// TypeLabel returns a human-readable label for the notification type.
func (n *Notification) TypeLabel() string {
	switch n.Type {
	case NotifyDose:
		return "Dose Reminder"
	case NotifySnoozed:
		return "Snoozed Reminder"
	case NotifySummary:
		return "Daily Summary"
	case NotifyTest:
		return "Test Notification"
	default:
		return "Notification"
	}
}
