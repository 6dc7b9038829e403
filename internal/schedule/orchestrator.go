package schedule

import (
	"time"

	"github.com/dhnguyen/pillbox/internal/logging"
	"github.com/dhnguyen/pillbox/internal/model"
)

// Orchestrator maps medicines onto engine registrations. Every mutation of
// a medicine funnels through Schedule, which cancels the medicine's
// existing timers before arming fresh ones, so a medicine never holds
// stale registrations.
type Orchestrator struct {
	engine Engine
	now    func() time.Time
}

// NewOrchestrator creates an orchestrator over the given engine.
func NewOrchestrator(engine Engine) *Orchestrator {
	return &Orchestrator{engine: engine, now: time.Now}
}

// WithClock overrides the time source, for tests.
func (o *Orchestrator) WithClock(now func() time.Time) *Orchestrator {
	o.now = now
	return o
}

// eligible reports whether the medicine should hold registrations at all.
func (o *Orchestrator) eligible(med *model.Medicine, now time.Time) bool {
	return med.Active && med.InWindow(now)
}

// Schedule cancels every timer the medicine holds, snoozes included, and
// registers one per reminder label. An inactive or out-of-window medicine
// ends up with no registrations. Returns the number of timers armed.
func (o *Orchestrator) Schedule(med *model.Medicine) int {
	now := o.now()
	o.Cancel(med.ID)

	if !o.eligible(med, now) {
		return 0
	}

	var armed int
	for _, label := range med.ReminderTimes {
		fireAt := NextFireTime(label, now)
		payload := Payload{MedicineID: med.ID, TimeLabel: label}
		if _, ok := o.engine.Register(ReminderTag(med.ID, label), fireAt, payload); ok {
			armed++
		}
	}

	logging.DebugLog("scheduled medicine",
		logging.KeyMedicineID, med.ID,
		"timers", armed)
	return armed
}

// ScheduleAll schedules every medicine in the slice. Returns the total
// number of timers armed.
func (o *Orchestrator) ScheduleAll(meds []*model.Medicine) int {
	var armed int
	for _, med := range meds {
		armed += o.Schedule(med)
	}
	return armed
}

// Cancel drops every timer held by the medicine, including a pending
// snooze. Returns the number cancelled.
func (o *Orchestrator) Cancel(medicineID uint64) int {
	cancelled := o.engine.CancelPrefix(MedicineTagPrefix(medicineID))
	for _, reg := range o.engine.Registrations() {
		// Snooze tags are per slot; match on the medicine portion.
		if hasSnoozeFor(reg.Tag, medicineID) && o.engine.Cancel(reg.Tag) {
			cancelled++
		}
	}
	return cancelled
}

func hasSnoozeFor(tag string, medicineID uint64) bool {
	prefix := SnoozeTag(medicineID, "")
	return len(tag) >= len(prefix) && tag[:len(prefix)] == prefix
}

// CancelSnooze drops a pending snooze timer for one slot, reporting
// whether one existed.
func (o *Orchestrator) CancelSnooze(medicineID uint64, timeLabel string) bool {
	return o.engine.Cancel(SnoozeTag(medicineID, timeLabel))
}

// RescheduleIn arms a one-shot snooze timer for the slot, replacing any
// pending snooze for the same slot.
func (o *Orchestrator) RescheduleIn(med *model.Medicine, timeLabel string, delay time.Duration) (time.Time, bool) {
	fireAt := o.now().Add(delay)
	payload := Payload{MedicineID: med.ID, TimeLabel: timeLabel, Snoozed: true}
	_, ok := o.engine.Register(SnoozeTag(med.ID, timeLabel), fireAt, payload)
	if ok {
		logging.InfoLog("snoozed slot",
			logging.KeyMedicineID, med.ID,
			logging.KeyTimeLabel, timeLabel,
			"fire_at", fireAt)
	}
	return fireAt, ok
}

// Rearm registers the next occurrence of a slot that just fired. Daily
// slots roll to the same label tomorrow.
func (o *Orchestrator) Rearm(med *model.Medicine, timeLabel string) bool {
	now := o.now()
	if !o.eligible(med, now.AddDate(0, 0, 1)) {
		return false
	}
	fireAt := NextFireTime(timeLabel, now)
	payload := Payload{MedicineID: med.ID, TimeLabel: timeLabel}
	_, ok := o.engine.Register(ReminderTag(med.ID, timeLabel), fireAt, payload)
	return ok
}
