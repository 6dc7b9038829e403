package model

import (
	"fmt"
	"sort"
	"time"

	"github.com/dhnguyen/pillbox/internal/parser"
)

// Unit is a dose unit.
type Unit string

// Valid dose units.
const (
	UnitPills       Unit = "pills"
	UnitAmpoule     Unit = "ampoule"
	UnitApplication Unit = "application"
	UnitDrop        Unit = "drop"
	UnitGram        Unit = "gram"
	UnitInjection   Unit = "injection"
	UnitMilligram   Unit = "milligram"
	UnitTeaspoon    Unit = "teaspoon"
)

// Units returns the valid dose units in display order.
func Units() []Unit {
	return []Unit{
		UnitPills, UnitAmpoule, UnitApplication, UnitDrop,
		UnitGram, UnitInjection, UnitMilligram, UnitTeaspoon,
	}
}

// IsValidUnit checks if a unit is one of the known dose units.
func IsValidUnit(u Unit) bool {
	for _, valid := range Units() {
		if u == valid {
			return true
		}
	}
	return false
}

// IntakeAdvice describes how a dose relates to meals.
type IntakeAdvice string

// Valid intake advice options.
const (
	AdviceNone       IntakeAdvice = "None"
	AdviceBeforeMeal IntakeAdvice = "Before meal"
	AdviceWithMeal   IntakeAdvice = "With meal"
	AdviceAfterMeal  IntakeAdvice = "After meal"
)

// AdviceOptions returns the valid intake advice options in display order.
func AdviceOptions() []IntakeAdvice {
	return []IntakeAdvice{AdviceNone, AdviceBeforeMeal, AdviceWithMeal, AdviceAfterMeal}
}

// IsValidAdvice checks if an intake advice value is known.
func IsValidAdvice(a IntakeAdvice) bool {
	for _, valid := range AdviceOptions() {
		if a == valid {
			return true
		}
	}
	return false
}

// Repeat rules. Only Daily is interpreted by the scheduler; Weekly and
// Custom are stored as labels for the edit form.
const (
	RepeatDaily  = "Daily"
	RepeatWeekly = "Weekly"
	RepeatCustom = "Custom"
)

// ValidRepeatRules returns the accepted repeat rule labels.
func ValidRepeatRules() []string {
	return []string{RepeatDaily, RepeatWeekly, RepeatCustom}
}

// IsValidRepeatRule checks if a repeat rule label is accepted.
func IsValidRepeatRule(rule string) bool {
	for _, valid := range ValidRepeatRules() {
		if rule == valid {
			return true
		}
	}
	return false
}

// Medicine represents a user-defined prescription record.
type Medicine struct {
	Key           string       `json:"key"`
	ID            uint64       `json:"id"`
	Name          string       `json:"name" validate:"required,max=128"`
	Quantity      int          `json:"quantity" validate:"required,gt=0"`
	Unit          Unit         `json:"unit"`
	IntakeAdvice  IntakeAdvice `json:"intake_advice"`
	StartDate     time.Time    `json:"start_date"`
	EndDate       time.Time    `json:"end_date,omitempty"` // zero means unbounded
	ReminderTimes []string     `json:"reminder_times"`     // 12-hour labels, e.g. "10:00 AM"
	Repeat        string       `json:"repeat"`
	Note          string       `json:"note,omitempty"`
	Active        bool         `json:"active"`
	CreatedAt     time.Time    `json:"created_at"`
}

// SetKey sets the database key for this medicine.
func (m *Medicine) SetKey(key string) {
	m.Key = key
}

// GetKey returns the database key for this medicine.
func (m *Medicine) GetKey() string {
	return m.Key
}

// GenerateMedicineKey generates a database key for a medicine id.
func GenerateMedicineKey(id uint64) string {
	return fmt.Sprintf("%s:%012d", PrefixMedicine, id)
}

// NewMedicine creates a new active medicine with normalized reminder times.
func NewMedicine(name string, quantity int, unit Unit, advice IntakeAdvice, startDate time.Time, reminderTimes []string) *Medicine {
	m := &Medicine{
		Name:          name,
		Quantity:      quantity,
		Unit:          unit,
		IntakeAdvice:  advice,
		StartDate:     Midnight(startDate),
		ReminderTimes: reminderTimes,
		Repeat:        RepeatDaily,
		Active:        true,
		CreatedAt:     time.Now(),
	}
	m.NormalizeReminderTimes()
	return m
}

// NormalizeReminderTimes deduplicates the reminder labels and sorts them in
// chronological order. Labels that fail to parse sort last, by raw string.
func (m *Medicine) NormalizeReminderTimes() {
	seen := make(map[string]bool, len(m.ReminderTimes))
	var labels []string
	for _, label := range m.ReminderTimes {
		if !seen[label] {
			seen[label] = true
			labels = append(labels, label)
		}
	}
	sort.SliceStable(labels, func(i, j int) bool {
		mi, errI := labelMinutes(labels[i])
		mj, errJ := labelMinutes(labels[j])
		if errI != nil || errJ != nil {
			if (errI == nil) != (errJ == nil) {
				return errI == nil
			}
			return labels[i] < labels[j]
		}
		return mi < mj
	})
	m.ReminderTimes = labels
}

func labelMinutes(label string) (int, error) {
	hour, minute, err := parser.ParseTimeLabel(label)
	if err != nil {
		return 0, err
	}
	return hour*60 + minute, nil
}

// HasReminderTime reports whether the label is one of the configured
// reminder times.
func (m *Medicine) HasReminderTime(label string) bool {
	for _, l := range m.ReminderTimes {
		if l == label {
			return true
		}
	}
	return false
}

// IsUnbounded returns true if the medicine has no end date.
func (m *Medicine) IsUnbounded() bool {
	return m.EndDate.IsZero()
}

// InWindow reports whether the given day falls inside the medicine's
// start/end window. The comparison is by calendar date.
func (m *Medicine) InWindow(day time.Time) bool {
	d := Midnight(day)
	if d.Before(Midnight(m.StartDate)) {
		return false
	}
	if !m.IsUnbounded() && d.After(Midnight(m.EndDate)) {
		return false
	}
	return true
}

// DoseLabel renders the dose as "2 pills".
func (m *Medicine) DoseLabel() string {
	return fmt.Sprintf("%d %s", m.Quantity, m.Unit)
}

// Midnight truncates a time to the start of its calendar day.
func Midnight(t time.Time) time.Time {
	year, month, day := t.Date()
	return time.Date(year, month, day, 0, 0, 0, 0, t.Location())
}

// SameDay checks if two times fall on the same calendar day.
func SameDay(a, b time.Time) bool {
	y1, m1, d1 := a.Date()
	y2, m2, d2 := b.Date()
	return y1 == y2 && m1 == m2 && d1 == d2
}
