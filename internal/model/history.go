package model

import (
	"fmt"
	"time"
)

// EntryStatus is the recorded outcome of a dose.
type EntryStatus string

// Valid history entry statuses.
const (
	StatusTaken   EntryStatus = "taken"
	StatusMissed  EntryStatus = "missed"
	StatusSkipped EntryStatus = "skipped"
)

// IsValidEntryStatus checks if a status value is known.
func IsValidEntryStatus(s EntryStatus) bool {
	return s == StatusTaken || s == StatusMissed || s == StatusSkipped
}

// DateLayout is the calendar-date layout used in history keys.
const DateLayout = "2006-01-02"

// HistoryEntry records one adherence event for a (medicine, date, time label)
// slot. All read paths treat the entry as keyed by that triple; writing the
// same triple again replaces the previous entry.
type HistoryEntry struct {
	Key        string      `json:"key"`
	ID         uint64      `json:"id"`
	MedicineID uint64      `json:"medicine_id"`
	Date       string      `json:"date"`       // calendar date, DateLayout
	TimeLabel  string      `json:"time_label"` // e.g. "10:00 AM"
	Status     EntryStatus `json:"status"`
	RecordedAt time.Time   `json:"recorded_at"`
}

// SetKey sets the database key for this entry.
func (h *HistoryEntry) SetKey(key string) {
	h.Key = key
}

// GetKey returns the database key for this entry.
func (h *HistoryEntry) GetKey() string {
	return h.Key
}

// GenerateHistoryKey generates the database key for a (medicine, date, label)
// triple. The triple is the primary key, so inserts upsert naturally.
func GenerateHistoryKey(medicineID uint64, date, timeLabel string) string {
	return fmt.Sprintf("%s:%012d:%s:%s", PrefixHistory, medicineID, date, timeLabel)
}

// NewHistoryEntry creates an entry for the given slot and status.
func NewHistoryEntry(medicineID uint64, day time.Time, timeLabel string, status EntryStatus) *HistoryEntry {
	date := day.Format(DateLayout)
	return &HistoryEntry{
		Key:        GenerateHistoryKey(medicineID, date, timeLabel),
		MedicineID: medicineID,
		Date:       date,
		TimeLabel:  timeLabel,
		Status:     status,
		RecordedAt: time.Now(),
	}
}

// Day returns the entry's calendar date at midnight local time.
func (h *HistoryEntry) Day() (time.Time, error) {
	return time.ParseInLocation(DateLayout, h.Date, time.Local)
}

// SlotKey returns the lookup key "medicineID_timeLabel" used to match an
// entry against a reminder slot within a single day.
func (h *HistoryEntry) SlotKey() string {
	return SlotKey(h.MedicineID, h.TimeLabel)
}

// SlotKey builds the per-day slot lookup key for a medicine and time label.
func SlotKey(medicineID uint64, timeLabel string) string {
	return fmt.Sprintf("%d_%s", medicineID, timeLabel)
}

// MedicineStats holds adherence counts for one medicine over a range.
type MedicineStats struct {
	MedicineID uint64 `json:"medicine_id"`
	Total      int    `json:"total"`
	Taken      int    `json:"taken"`
	Missed     int    `json:"missed"`
	Skipped    int    `json:"skipped"`
}

// OverallStats holds adherence counts collapsed across all medicines.
type OverallStats struct {
	Total   int `json:"total"`
	Taken   int `json:"taken"`
	Missed  int `json:"missed"`
	Skipped int `json:"skipped"`
}

// AdherencePercent returns taken/total as a percentage, 0 if empty.
func (s *OverallStats) AdherencePercent() float64 {
	if s.Total == 0 {
		return 0
	}
	return float64(s.Taken) / float64(s.Total) * 100
}

// AdherencePercent returns taken/total as a percentage, 0 if empty.
func (s *MedicineStats) AdherencePercent() float64 {
	if s.Total == 0 {
		return 0
	}
	return float64(s.Taken) / float64(s.Total) * 100
}
