package model

// Status is the resolved display state of one reminder slot. It is derived
// by the classifier and never persisted.
type Status string

// The closed set of slot statuses.
const (
	StatusPending      Status = "pending"       // slot not yet due
	StatusBeforeEating Status = "before-eating" // pending, conditioned on a meal
	StatusCompleted    Status = "completed"     // dose confirmed taken
	StatusSkippedSlot  Status = "skipped"       // dose explicitly skipped
	StatusMissedSlot   Status = "missed"        // slot passed without an answer
)

// Occurrence materializes one (medicine, time label, day) triple with its
// resolved status. It is recomputed on every read and used only for display
// and aggregation.
type Occurrence struct {
	Medicine  *Medicine `json:"medicine"`
	TimeLabel string    `json:"time_label"`
	Status    Status    `json:"status"`
	HistoryID uint64    `json:"history_id,omitempty"` // id of the backing entry, if any
}

// SlotKey returns the per-day identity of this occurrence.
func (o *Occurrence) SlotKey() string {
	return SlotKey(o.Medicine.ID, o.TimeLabel)
}

// IsAnswered returns true when the user has acted on the slot.
func (o *Occurrence) IsAnswered() bool {
	return o.Status == StatusCompleted || o.Status == StatusSkippedSlot
}
