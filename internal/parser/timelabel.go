// Package parser provides input parsing helpers for the Pillbox CLI.
package parser

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

// FormatError reports a malformed 12-hour time label. Callers decide the
// fallback; the scheduler and classifier substitute 9:00 AM and log it.
type FormatError struct {
	Label string
}

func (e *FormatError) Error() string {
	return fmt.Sprintf("invalid time label %q (want \"H:MM AM|PM\")", e.Label)
}

// timeLabelRegex matches the "H:MM AM|PM" grammar, H in 1..12 with an
// optional leading zero, marker case-insensitive.
var timeLabelRegex = regexp.MustCompile(`^(\d{1,2}):(\d{2})\s*([AaPp][Mm])$`)

// ParseTimeLabel converts a 12-hour label like "10:00 AM" into a 24-hour
// (hour, minute) pair. 12 AM maps to 0, 12 PM stays 12, PM hours 1..11 add
// 12. Any malformed input returns a *FormatError.
func ParseTimeLabel(label string) (hour, minute int, err error) {
	match := timeLabelRegex.FindStringSubmatch(strings.TrimSpace(label))
	if match == nil {
		return 0, 0, &FormatError{Label: label}
	}

	h, _ := strconv.Atoi(match[1])
	m, _ := strconv.Atoi(match[2])
	if h < 1 || h > 12 || m > 59 {
		return 0, 0, &FormatError{Label: label}
	}

	isPM := strings.EqualFold(match[3], "PM")
	switch {
	case isPM && h != 12:
		h += 12
	case !isPM && h == 12:
		h = 0
	}

	return h, m, nil
}

// FormatTimeLabel is the exact inverse of ParseTimeLabel for valid 24-hour
// pairs: FormatTimeLabel then ParseTimeLabel round-trips.
func FormatTimeLabel(hour, minute int) string {
	marker := "AM"
	h := hour
	switch {
	case hour == 0:
		h = 12
	case hour == 12:
		marker = "PM"
	case hour > 12:
		h = hour - 12
		marker = "PM"
	}
	return fmt.Sprintf("%02d:%02d %s", h, minute, marker)
}

// IsValidTimeLabel reports whether a label parses.
func IsValidTimeLabel(label string) bool {
	_, _, err := ParseTimeLabel(label)
	return err == nil
}
