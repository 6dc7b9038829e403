package parser

import (
	"fmt"
	"strings"
	"time"

	"github.com/markusmobius/go-dateparser"
)

// ParseDate parses a natural language calendar date ("today", "next monday",
// "2026-01-15"). The result is truncated to midnight local time.
func ParseDate(input string, now time.Time) (time.Time, error) {
	input = strings.TrimSpace(input)
	if input == "" {
		return time.Time{}, fmt.Errorf("date is required")
	}

	cfg := &dateparser.Configuration{
		CurrentTime: now,
	}
	result, err := dateparser.Parse(cfg, input)
	if err != nil {
		return time.Time{}, fmt.Errorf("could not parse date %q", input)
	}

	year, month, day := result.Time.Date()
	return time.Date(year, month, day, 0, 0, 0, 0, now.Location()), nil
}

// StatsRange names a reporting window for statistics.
type StatsRange struct {
	Start time.Time
	End   time.Time
	Label string
}

// ParseStatsRange resolves a range keyword (week, month, year, all) into an
// inclusive [start, end] date pair ending today. "all" returns a window wide
// enough to cover any recorded history.
func ParseStatsRange(filter string, now time.Time) (StatsRange, error) {
	end := endOfDay(now)

	switch strings.ToLower(strings.TrimSpace(filter)) {
	case "", "all":
		return StatsRange{Start: time.Date(1970, 1, 1, 0, 0, 0, 0, now.Location()), End: end, Label: "all time"}, nil
	case "week":
		return StatsRange{Start: startOfDay(now.AddDate(0, 0, -6)), End: end, Label: "last 7 days"}, nil
	case "month":
		return StatsRange{Start: startOfDay(now.AddDate(0, -1, 0)), End: end, Label: "last month"}, nil
	case "year":
		return StatsRange{Start: startOfDay(now.AddDate(-1, 0, 0)), End: end, Label: "last year"}, nil
	}
	return StatsRange{}, fmt.Errorf("invalid range %q: use week, month, year, or all", filter)
}

func startOfDay(t time.Time) time.Time {
	year, month, day := t.Date()
	return time.Date(year, month, day, 0, 0, 0, 0, t.Location())
}

func endOfDay(t time.Time) time.Time {
	year, month, day := t.Date()
	return time.Date(year, month, day, 23, 59, 59, 0, t.Location())
}
