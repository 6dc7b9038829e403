package output

import (
	"time"

	"github.com/dhnguyen/pillbox/internal/model"
	"github.com/dhnguyen/pillbox/internal/schedule"
)

// JSONFormatter provides JSON-specific formatting.
type JSONFormatter struct {
	*Formatter
}

// NewJSONFormatter creates a new JSON formatter.
func NewJSONFormatter(f *Formatter) *JSONFormatter {
	return &JSONFormatter{Formatter: f}
}

// ErrorResponse represents an error in JSON.
type ErrorResponse struct {
	Status     string `json:"status"`
	Error      string `json:"error"`
	Suggestion string `json:"suggestion,omitempty"`
}

// MedicineOutput represents a medicine in JSON output.
type MedicineOutput struct {
	ID            uint64   `json:"id"`
	Name          string   `json:"name"`
	Quantity      int      `json:"quantity"`
	Unit          string   `json:"unit"`
	IntakeAdvice  string   `json:"intake_advice"`
	StartDate     string   `json:"start_date"`
	EndDate       string   `json:"end_date,omitempty"`
	ReminderTimes []string `json:"reminder_times"`
	Repeat        string   `json:"repeat"`
	Note          string   `json:"note,omitempty"`
	Active        bool     `json:"active"`
}

// NewMedicineOutput creates a MedicineOutput from a Medicine.
func NewMedicineOutput(med *model.Medicine) *MedicineOutput {
	out := &MedicineOutput{
		ID:            med.ID,
		Name:          med.Name,
		Quantity:      med.Quantity,
		Unit:          string(med.Unit),
		IntakeAdvice:  string(med.IntakeAdvice),
		StartDate:     FormatDate(med.StartDate),
		ReminderTimes: med.ReminderTimes,
		Repeat:        med.Repeat,
		Note:          med.Note,
		Active:        med.Active,
	}
	if !med.IsUnbounded() {
		out.EndDate = FormatDate(med.EndDate)
	}
	return out
}

// MedicinesResponse represents the medicine list output in JSON.
type MedicinesResponse struct {
	Medicines  []*MedicineOutput `json:"medicines"`
	TotalCount int               `json:"total_count"`
}

// NewMedicinesResponse creates a MedicinesResponse from medicines.
func NewMedicinesResponse(meds []*model.Medicine) *MedicinesResponse {
	outputs := make([]*MedicineOutput, len(meds))
	for i, med := range meds {
		outputs[i] = NewMedicineOutput(med)
	}
	return &MedicinesResponse{Medicines: outputs, TotalCount: len(meds)}
}

// OccurrenceOutput represents one resolved slot in JSON output.
type OccurrenceOutput struct {
	MedicineID uint64 `json:"medicine_id"`
	Name       string `json:"name"`
	Dose       string `json:"dose"`
	TimeLabel  string `json:"time_label"`
	Status     string `json:"status"`
}

// NewOccurrenceOutput creates an OccurrenceOutput from an Occurrence.
func NewOccurrenceOutput(occ *model.Occurrence) *OccurrenceOutput {
	return &OccurrenceOutput{
		MedicineID: occ.Medicine.ID,
		Name:       occ.Medicine.Name,
		Dose:       occ.Medicine.DoseLabel(),
		TimeLabel:  occ.TimeLabel,
		Status:     string(occ.Status),
	}
}

// ScheduleResponse represents the day view output in JSON.
type ScheduleResponse struct {
	Date      string              `json:"date"`
	Overdue   []*OccurrenceOutput `json:"overdue"`
	Upcoming  []*OccurrenceOutput `json:"upcoming"`
	Completed []*OccurrenceOutput `json:"completed"`
}

// NewScheduleResponse creates a ScheduleResponse from a day schedule.
func NewScheduleResponse(day time.Time, s *schedule.DaySchedule) *ScheduleResponse {
	convert := func(occs []*model.Occurrence) []*OccurrenceOutput {
		outputs := make([]*OccurrenceOutput, len(occs))
		for i, occ := range occs {
			outputs[i] = NewOccurrenceOutput(occ)
		}
		return outputs
	}
	return &ScheduleResponse{
		Date:      FormatDate(day),
		Overdue:   convert(s.Overdue),
		Upcoming:  convert(s.Upcoming),
		Completed: convert(s.Completed),
	}
}

// HistoryEntryOutput represents a ledger entry in JSON output.
type HistoryEntryOutput struct {
	ID         uint64 `json:"id"`
	MedicineID uint64 `json:"medicine_id"`
	Date       string `json:"date"`
	TimeLabel  string `json:"time_label"`
	Status     string `json:"status"`
	RecordedAt string `json:"recorded_at"`
}

// NewHistoryEntryOutput creates a HistoryEntryOutput from an entry.
func NewHistoryEntryOutput(entry *model.HistoryEntry) *HistoryEntryOutput {
	return &HistoryEntryOutput{
		ID:         entry.ID,
		MedicineID: entry.MedicineID,
		Date:       entry.Date,
		TimeLabel:  entry.TimeLabel,
		Status:     string(entry.Status),
		RecordedAt: entry.RecordedAt.Format(time.RFC3339),
	}
}

// HistoryResponse represents the history list output in JSON.
type HistoryResponse struct {
	Entries    []*HistoryEntryOutput `json:"entries"`
	TotalCount int                   `json:"total_count"`
}

// NewHistoryResponse creates a HistoryResponse from entries.
func NewHistoryResponse(entries []*model.HistoryEntry) *HistoryResponse {
	outputs := make([]*HistoryEntryOutput, len(entries))
	for i, entry := range entries {
		outputs[i] = NewHistoryEntryOutput(entry)
	}
	return &HistoryResponse{Entries: outputs, TotalCount: len(entries)}
}

// ActionResponse represents a take/skip/snooze outcome in JSON.
type ActionResponse struct {
	Status     string              `json:"status"`
	Action     string              `json:"action"`
	MedicineID uint64              `json:"medicine_id"`
	TimeLabel  string              `json:"time_label"`
	Entry      *HistoryEntryOutput `json:"entry,omitempty"`
	SnoozedTo  string              `json:"snoozed_to,omitempty"`
}

// MedicineStatsOutput represents per-medicine stats in JSON output.
type MedicineStatsOutput struct {
	MedicineID uint64  `json:"medicine_id"`
	Name       string  `json:"name,omitempty"`
	Total      int     `json:"total"`
	Taken      int     `json:"taken"`
	Missed     int     `json:"missed"`
	Skipped    int     `json:"skipped"`
	Adherence  float64 `json:"adherence_percent"`
}

// StatsResponse represents the stats output in JSON.
type StatsResponse struct {
	Range       string                 `json:"range"`
	StartDate   string                 `json:"start_date"`
	EndDate     string                 `json:"end_date"`
	PerMedicine []*MedicineStatsOutput `json:"per_medicine"`
	Overall     *MedicineStatsOutput   `json:"overall"`
}

// NewStatsResponse creates a StatsResponse from aggregates.
func NewStatsResponse(rangeName string, start, end time.Time, perMedicine []*model.MedicineStats, names map[uint64]string, overall *model.OverallStats) *StatsResponse {
	outputs := make([]*MedicineStatsOutput, len(perMedicine))
	for i, stats := range perMedicine {
		outputs[i] = &MedicineStatsOutput{
			MedicineID: stats.MedicineID,
			Name:       names[stats.MedicineID],
			Total:      stats.Total,
			Taken:      stats.Taken,
			Missed:     stats.Missed,
			Skipped:    stats.Skipped,
			Adherence:  overallRound(stats.AdherencePercent()),
		}
	}
	return &StatsResponse{
		Range:       rangeName,
		StartDate:   FormatDate(start),
		EndDate:     FormatDate(end),
		PerMedicine: outputs,
		Overall: &MedicineStatsOutput{
			Total:     overall.Total,
			Taken:     overall.Taken,
			Missed:    overall.Missed,
			Skipped:   overall.Skipped,
			Adherence: overallRound(overall.AdherencePercent()),
		},
	}
}

func overallRound(p float64) float64 {
	return float64(int(p*10+0.5)) / 10
}

// PreferencesOutput represents user settings in JSON output.
type PreferencesOutput struct {
	FirstLaunch  bool   `json:"first_launch"`
	Nickname     string `json:"nickname,omitempty"`
	ReminderTone string `json:"reminder_tone"`
	Theme        string `json:"theme"`
}

// NewPreferencesOutput creates a PreferencesOutput from preferences.
func NewPreferencesOutput(prefs *model.Preferences) *PreferencesOutput {
	return &PreferencesOutput{
		FirstLaunch:  prefs.FirstLaunch,
		Nickname:     prefs.Nickname,
		ReminderTone: prefs.ReminderTone,
		Theme:        prefs.Theme,
	}
}

// WebhookOutput represents a webhook in JSON output.
type WebhookOutput struct {
	Name      string `json:"name"`
	Type      string `json:"type"`
	URL       string `json:"url"`
	Enabled   bool   `json:"enabled"`
	LastUsed  string `json:"last_used,omitempty"`
	LastError string `json:"last_error,omitempty"`
}

// NewWebhookOutput creates a WebhookOutput from a webhook.
func NewWebhookOutput(webhook *model.Webhook) *WebhookOutput {
	out := &WebhookOutput{
		Name:      webhook.Name,
		Type:      webhook.Type,
		URL:       webhook.MaskedURL(),
		Enabled:   webhook.Enabled,
		LastError: webhook.LastError,
	}
	if !webhook.LastUsed.IsZero() {
		out.LastUsed = webhook.LastUsed.Format(time.RFC3339)
	}
	return out
}
