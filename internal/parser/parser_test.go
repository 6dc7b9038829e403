package parser

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var noon = time.Date(2026, 3, 15, 12, 0, 0, 0, time.Local)

func TestParseTimeLabel(t *testing.T) {
	tests := []struct {
		label  string
		hour   int
		minute int
	}{
		{"10:00 AM", 10, 0},
		{"08:30 PM", 20, 30},
		{"12:00 AM", 0, 0},
		{"12:00 PM", 12, 0},
		{"1:05 pm", 13, 5},
		{"  11:59 PM  ", 23, 59},
	}
	for _, tt := range tests {
		hour, minute, err := ParseTimeLabel(tt.label)
		require.NoError(t, err, tt.label)
		assert.Equal(t, tt.hour, hour, tt.label)
		assert.Equal(t, tt.minute, minute, tt.label)
	}
}

func TestParseTimeLabelRejectsMalformed(t *testing.T) {
	for _, label := range []string{"", "25:00 AM", "13:00 PM", "10:75 AM", "10:00", "10 AM", "noonish"} {
		_, _, err := ParseTimeLabel(label)
		require.Error(t, err, label)
		var fe *FormatError
		assert.ErrorAs(t, err, &fe, label)
	}
}

func TestFormatTimeLabelRoundTrips(t *testing.T) {
	for hour := 0; hour < 24; hour++ {
		for minute := 0; minute < 60; minute++ {
			label := FormatTimeLabel(hour, minute)
			h, m, err := ParseTimeLabel(label)
			require.NoError(t, err, label)
			require.Equal(t, hour, h, label)
			require.Equal(t, minute, m, label)
		}
	}
	assert.Equal(t, "12:00 AM", FormatTimeLabel(0, 0))
	assert.Equal(t, "12:00 PM", FormatTimeLabel(12, 0))
}

func TestParseDate(t *testing.T) {
	day, err := ParseDate("2026-01-15", noon)
	require.NoError(t, err)
	assert.Equal(t, time.Date(2026, 1, 15, 0, 0, 0, 0, time.Local), day)

	today, err := ParseDate("today", noon)
	require.NoError(t, err)
	assert.Equal(t, time.Date(2026, 3, 15, 0, 0, 0, 0, time.Local), today)

	yesterday, err := ParseDate("yesterday", noon)
	require.NoError(t, err)
	assert.Equal(t, time.Date(2026, 3, 14, 0, 0, 0, 0, time.Local), yesterday)
}

func TestParseDateRejectsGarbage(t *testing.T) {
	_, err := ParseDate("", noon)
	assert.Error(t, err)
	_, err = ParseDate("not a date at all xyz", noon)
	assert.Error(t, err)
}

func TestParseStatsRange(t *testing.T) {
	week, err := ParseStatsRange("week", noon)
	require.NoError(t, err)
	assert.Equal(t, time.Date(2026, 3, 9, 0, 0, 0, 0, time.Local), week.Start)
	assert.Equal(t, time.Date(2026, 3, 15, 23, 59, 59, 0, time.Local), week.End)
	assert.Equal(t, "last 7 days", week.Label)

	month, err := ParseStatsRange("MONTH", noon)
	require.NoError(t, err)
	assert.Equal(t, time.Date(2026, 2, 15, 0, 0, 0, 0, time.Local), month.Start)

	all, err := ParseStatsRange("", noon)
	require.NoError(t, err)
	assert.True(t, all.Start.Before(time.Date(2000, 1, 1, 0, 0, 0, 0, time.Local)))

	_, err = ParseStatsRange("fortnight", noon)
	assert.Error(t, err)
}
