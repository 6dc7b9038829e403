package notify

import (
	"time"

	"github.com/dhnguyen/pillbox/internal/config"
	apperrors "github.com/dhnguyen/pillbox/internal/errors"
	"github.com/dhnguyen/pillbox/internal/logging"
	"github.com/dhnguyen/pillbox/internal/model"
	"github.com/dhnguyen/pillbox/internal/schedule"
	"github.com/dhnguyen/pillbox/internal/storage"
)

// Responder handles the user's answer to a dispatched reminder. Each
// action resolves to exactly one ledger write or one snooze, never both.
// Snoozes persist in the store; the live timer is only armed when a
// daemon orchestrator is attached.
type Responder struct {
	medicines    *storage.MedicineRepo
	history      *storage.HistoryRepo
	snoozes      *storage.SnoozeRepo
	orchestrator *schedule.Orchestrator // nil outside the daemon
	now          func() time.Time
}

// NewResponder creates a responder over the given repositories.
func NewResponder(medicines *storage.MedicineRepo, history *storage.HistoryRepo, snoozes *storage.SnoozeRepo) *Responder {
	return &Responder{
		medicines: medicines,
		history:   history,
		snoozes:   snoozes,
		now:       time.Now,
	}
}

// WithOrchestrator attaches a live timer orchestrator, for the daemon.
func (r *Responder) WithOrchestrator(orch *schedule.Orchestrator) *Responder {
	r.orchestrator = orch
	return r
}

// WithClock overrides the time source, for tests.
func (r *Responder) WithClock(now func() time.Time) *Responder {
	r.now = now
	return r
}

// resolve loads the medicine behind a reminder. A reminder for a medicine
// deleted since dispatch resolves to a logged error the caller surfaces.
func (r *Responder) resolve(medicineID uint64) (*model.Medicine, error) {
	med, err := r.medicines.Get(medicineID)
	if err != nil {
		if apperrors.Is(err, apperrors.ErrMedicineNotFound) {
			logging.WarnLog("reminder action for missing medicine, ignoring",
				logging.KeyMedicineID, medicineID)
		}
		return nil, err
	}
	return med, nil
}

// Confirm records the slot as taken and drops any pending snooze for it.
func (r *Responder) Confirm(medicineID uint64, day time.Time, timeLabel string) (*model.HistoryEntry, error) {
	med, err := r.resolve(medicineID)
	if err != nil {
		return nil, err
	}
	entry, err := r.history.RecordTaken(med.ID, day, timeLabel)
	if err != nil {
		return nil, err
	}
	r.dropSnooze(med.ID, timeLabel)
	logging.InfoLog("dose confirmed",
		logging.KeyMedicineID, med.ID,
		logging.KeyTimeLabel, timeLabel)
	return entry, nil
}

// Skip records the slot as skipped and drops any pending snooze for it.
func (r *Responder) Skip(medicineID uint64, day time.Time, timeLabel string) (*model.HistoryEntry, error) {
	med, err := r.resolve(medicineID)
	if err != nil {
		return nil, err
	}
	entry, err := r.history.RecordSkipped(med.ID, day, timeLabel)
	if err != nil {
		return nil, err
	}
	r.dropSnooze(med.ID, timeLabel)
	logging.InfoLog("dose skipped",
		logging.KeyMedicineID, med.ID,
		logging.KeyTimeLabel, timeLabel)
	return entry, nil
}

// RemindLater pushes the slot out by the configured snooze delay without
// touching the ledger. The slot stays unanswered until the user acts.
func (r *Responder) RemindLater(medicineID uint64, timeLabel string) (time.Time, error) {
	med, err := r.resolve(medicineID)
	if err != nil {
		return time.Time{}, err
	}
	fireAt := r.now().Add(config.Global.Scheduler.SnoozeDelay)
	if _, err := r.snoozes.Set(med.ID, timeLabel, fireAt); err != nil {
		return time.Time{}, err
	}
	if r.orchestrator != nil {
		r.orchestrator.RescheduleIn(med, timeLabel, config.Global.Scheduler.SnoozeDelay)
	}
	logging.InfoLog("dose snoozed",
		logging.KeyMedicineID, med.ID,
		logging.KeyTimeLabel, timeLabel,
		"fire_at", fireAt)
	return fireAt, nil
}

func (r *Responder) dropSnooze(medicineID uint64, timeLabel string) {
	// An answered slot must not re-fire from an earlier "remind me later".
	if err := r.snoozes.Clear(medicineID, timeLabel); err != nil {
		logging.WarnLog("failed to clear snooze",
			logging.KeyMedicineID, medicineID,
			logging.KeyError, err)
	}
	if r.orchestrator != nil {
		r.orchestrator.CancelSnooze(medicineID, timeLabel)
	}
}
