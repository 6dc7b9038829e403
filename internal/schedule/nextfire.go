// Package schedule derives reminder slots from medicines, resolves their
// display status, and drives the one-shot dispatch timers.
package schedule

import (
	"time"

	"github.com/dhnguyen/pillbox/internal/logging"
	"github.com/dhnguyen/pillbox/internal/parser"
)

// Fallback hour when a reminder label cannot be parsed. The slot still
// fires, just at a predictable morning time.
const (
	fallbackHour   = 9
	fallbackMinute = 0
)

// NextFireTime resolves a 12-hour label against the current instant and
// returns the next wall-clock time the slot should fire. A candidate at or
// after now fires today; only a strictly-past slot rolls to tomorrow.
// Unparsable labels fall back to 9:00 AM.
func NextFireTime(label string, now time.Time) time.Time {
	hour, minute, err := parser.ParseTimeLabel(label)
	if err != nil {
		logging.WarnLog("unparsable reminder label, using 9:00 AM fallback",
			logging.KeyTimeLabel, label,
			logging.KeyError, err)
		hour, minute = fallbackHour, fallbackMinute
	}

	fireAt := time.Date(now.Year(), now.Month(), now.Day(), hour, minute, 0, 0, now.Location())
	if fireAt.Before(now) {
		fireAt = fireAt.AddDate(0, 0, 1)
	}
	return fireAt
}

// SlotTimeToday resolves a label to its wall-clock instant on the given
// day without rolling forward. Used by the classifier to decide whether a
// slot has already passed. The second return is false when the label does
// not parse.
func SlotTimeToday(label string, day time.Time) (time.Time, bool) {
	hour, minute, err := parser.ParseTimeLabel(label)
	if err != nil {
		return time.Time{}, false
	}
	return time.Date(day.Year(), day.Month(), day.Day(), hour, minute, 0, 0, day.Location()), true
}
