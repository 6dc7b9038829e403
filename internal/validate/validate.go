// Package validate checks and sanitizes user-supplied medicine input.
package validate

import (
	"strings"
	"unicode"

	apperrors "github.com/dhnguyen/pillbox/internal/errors"
	"github.com/dhnguyen/pillbox/internal/model"
	"github.com/dhnguyen/pillbox/internal/parser"
)

// MaxNameLength is the maximum medicine name length.
const MaxNameLength = 128

// SanitizeName trims a medicine name and strips control characters.
func SanitizeName(name string) string {
	name = strings.TrimSpace(name)
	var sb strings.Builder
	for _, r := range name {
		if !unicode.IsControl(r) {
			sb.WriteRune(r)
		}
	}
	return sb.String()
}

// SanitizeNote cleans a note for safe storage.
func SanitizeNote(note string) string {
	note = strings.TrimSpace(note)
	note = strings.ReplaceAll(note, "\x00", "")
	note = strings.ReplaceAll(note, "\r\n", "\n")
	note = strings.ReplaceAll(note, "\r", "\n")
	return note
}

// Medicine validates a medicine record before it is stored. The record is
// sanitized in place.
func Medicine(med *model.Medicine) error {
	med.Name = SanitizeName(med.Name)
	med.Note = SanitizeNote(med.Note)

	if med.Name == "" {
		return apperrors.NewUserErrorWithField("name", med.Name,
			"medicine name is required",
			"Give the medicine a non-empty name.")
	}
	if len(med.Name) > MaxNameLength {
		return apperrors.NewUserErrorWithField("name", med.Name,
			"medicine name is too long",
			"Keep the name under 128 characters.")
	}
	if med.Quantity <= 0 {
		return apperrors.ErrInvalidQuantity
	}
	if !model.IsValidUnit(med.Unit) {
		return apperrors.ErrInvalidUnit
	}
	if !model.IsValidAdvice(med.IntakeAdvice) {
		return apperrors.ErrInvalidAdvice
	}
	if med.Repeat != "" && !model.IsValidRepeatRule(med.Repeat) {
		return apperrors.NewUserErrorWithField("repeat", med.Repeat,
			"invalid repeat rule",
			"Use one of: Daily, Weekly, Custom.")
	}
	if !med.IsUnbounded() && med.EndDate.Before(med.StartDate) {
		return apperrors.ErrEndBeforeStart
	}
	if len(med.ReminderTimes) == 0 {
		return apperrors.NewUserErrorWithField("times", "",
			"at least one reminder time is required",
			"Add a reminder time like '10:00 AM'.")
	}
	for _, label := range med.ReminderTimes {
		if !parser.IsValidTimeLabel(label) {
			return apperrors.NewUserErrorWithField("times", label,
				"invalid reminder time",
				"Use the 12-hour form like '10:00 AM' or '06:30 PM'.")
		}
	}
	return nil
}

// TimeLabel validates a single reminder label.
func TimeLabel(label string) error {
	if !parser.IsValidTimeLabel(label) {
		return apperrors.NewUserErrorWithField("time", label,
			"invalid reminder time",
			"Use the 12-hour form like '10:00 AM' or '06:30 PM'.")
	}
	return nil
}

// WebhookInput validates webhook creation input.
func WebhookInput(name, webhookType, url string) error {
	if !model.IsValidWebhookName(name) {
		return apperrors.NewUserErrorWithField("name", name,
			"invalid webhook name",
			"Use letters, digits, dashes, or underscores (max 50 chars).")
	}
	if !model.IsValidWebhookType(webhookType) {
		return apperrors.NewUserErrorWithField("type", webhookType,
			"invalid webhook type",
			"Use one of: discord, slack, teams, generic.")
	}
	if !strings.HasPrefix(url, "http://") && !strings.HasPrefix(url, "https://") {
		return apperrors.NewUserErrorWithField("url", url,
			"invalid webhook URL",
			"The URL must start with http:// or https://.")
	}
	return nil
}
