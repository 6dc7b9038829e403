package model

import (
	"fmt"
	"time"
)

// Snooze records a "remind me later" for one slot. It lives in the store
// so a snooze issued from a one-shot command still fires once the daemon
// reconciles. One snooze per slot; snoozing again moves the fire time.
type Snooze struct {
	Key        string    `json:"key"`
	MedicineID uint64    `json:"medicine_id"`
	TimeLabel  string    `json:"time_label"`
	FireAt     time.Time `json:"fire_at"`
	CreatedAt  time.Time `json:"created_at"`
}

// SetKey sets the database key for this snooze.
func (s *Snooze) SetKey(key string) {
	s.Key = key
}

// GetKey returns the database key for this snooze.
func (s *Snooze) GetKey() string {
	return s.Key
}

// GenerateSnoozeKey generates the database key for a slot's snooze.
func GenerateSnoozeKey(medicineID uint64, timeLabel string) string {
	return fmt.Sprintf("%s:%012d:%s", PrefixSnooze, medicineID, timeLabel)
}

// NewSnooze creates a snooze firing at the given time.
func NewSnooze(medicineID uint64, timeLabel string, fireAt time.Time) *Snooze {
	return &Snooze{
		Key:        GenerateSnoozeKey(medicineID, timeLabel),
		MedicineID: medicineID,
		TimeLabel:  timeLabel,
		FireAt:     fireAt,
		CreatedAt:  time.Now(),
	}
}

// Due reports whether the snooze should have fired by now.
func (s *Snooze) Due(now time.Time) bool {
	return !s.FireAt.After(now)
}
