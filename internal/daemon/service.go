package daemon

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/robfig/cron/v3"

	"github.com/dhnguyen/pillbox/internal/logging"
	"github.com/dhnguyen/pillbox/internal/model"
	"github.com/dhnguyen/pillbox/internal/notify"
	"github.com/dhnguyen/pillbox/internal/schedule"
	"github.com/dhnguyen/pillbox/internal/storage"
)

// Service is the in-process reminder engine. The timer engine holds
// one-shot dispatch timers; cron periodically re-derives every timer from
// the store so edits made by other processes are picked up without IPC.
type Service struct {
	cron         *cron.Cron
	engine       *schedule.TimerEngine
	orchestrator *schedule.Orchestrator
	dispatcher   *notify.Dispatcher
	medicineRepo *storage.MedicineRepo
	historyRepo  *storage.HistoryRepo
	snoozeRepo   *storage.SnoozeRepo
}

// NewService wires a service over the given database.
func NewService(db *storage.DB) *Service {
	s := &Service{
		cron:         cron.New(cron.WithSeconds()),
		medicineRepo: storage.NewMedicineRepo(db),
		historyRepo:  storage.NewHistoryRepo(db),
		snoozeRepo:   storage.NewSnoozeRepo(db),
		dispatcher:   notify.NewDispatcher(storage.NewWebhookRepo(db)),
	}
	s.engine = schedule.NewTimerEngine(s.fire)
	s.orchestrator = schedule.NewOrchestrator(s.engine)
	return s
}

// Orchestrator exposes the live orchestrator so responders inside the
// daemon can cancel and arm timers directly.
func (s *Service) Orchestrator() *schedule.Orchestrator {
	return s.orchestrator
}

// Start arms the initial timers and the cron reconciliation jobs.
func (s *Service) Start() error {
	s.reconcile()

	// Hourly sweep picks up edits made by one-shot commands.
	if _, err := s.cron.AddFunc("0 0 * * * *", s.reconcile); err != nil {
		return fmt.Errorf("failed to add hourly reconcile: %w", err)
	}

	// Midnight rollover re-derives the day's slots and reports yesterday.
	if _, err := s.cron.AddFunc("0 0 0 * * *", s.rollover); err != nil {
		return fmt.Errorf("failed to add midnight rollover: %w", err)
	}

	s.cron.Start()
	logging.InfoLog("reminder service started",
		"timers", len(s.engine.Registrations()))
	return nil
}

// Stop halts cron and disarms every timer.
func (s *Service) Stop() {
	ctx := s.cron.Stop()
	<-ctx.Done()
	s.engine.Stop()
	logging.InfoLog("reminder service stopped")
}

// Pending returns the currently armed registrations, for status output.
func (s *Service) Pending() []schedule.Registration {
	return s.engine.Registrations()
}

// reconcile re-derives all timers from the medicine table and the snooze
// records. Idempotent; registrations are keyed by stable tags.
func (s *Service) reconcile() {
	now := time.Now()

	meds, err := s.medicineRepo.ListActive()
	if err != nil {
		logging.ErrorLog("reconcile failed to list medicines", logging.KeyError, err)
		return
	}
	armed := s.orchestrator.ScheduleAll(meds)

	byID := make(map[uint64]*model.Medicine, len(meds))
	for _, med := range meds {
		byID[med.ID] = med
	}

	snoozes, err := s.snoozeRepo.List()
	if err != nil {
		logging.ErrorLog("reconcile failed to list snoozes", logging.KeyError, err)
		return
	}
	for _, snooze := range snoozes {
		med := byID[snooze.MedicineID]
		if med == nil {
			// Medicine deleted since the snooze was recorded.
			_ = s.snoozeRepo.Clear(snooze.MedicineID, snooze.TimeLabel)
			continue
		}
		if !med.HasReminderTime(snooze.TimeLabel) {
			// The slot was edited away; its snooze goes with it.
			_ = s.snoozeRepo.Clear(snooze.MedicineID, snooze.TimeLabel)
			continue
		}
		if snooze.Due(now) {
			s.dispatchSlot(med, snooze.TimeLabel, true)
			_ = s.snoozeRepo.Clear(snooze.MedicineID, snooze.TimeLabel)
			continue
		}
		s.orchestrator.RescheduleIn(med, snooze.TimeLabel, snooze.FireAt.Sub(now))
	}

	logging.DebugLog("reconciled timers", "timers", armed, "snoozes", len(snoozes))
}

// rollover runs just after midnight: fresh slots for the new day plus a
// summary of yesterday's adherence.
func (s *Service) rollover() {
	s.reconcile()
	s.sendDailySummary(time.Now().AddDate(0, 0, -1))
}

// fire handles one dispatch timer going off.
func (s *Service) fire(payload schedule.Payload) {
	med, err := s.medicineRepo.Get(payload.MedicineID)
	if err != nil {
		logging.WarnLog("timer fired for missing medicine",
			logging.KeyMedicineID, payload.MedicineID)
		return
	}

	s.dispatchSlot(med, payload.TimeLabel, payload.Snoozed)

	if payload.Snoozed {
		// The persisted snooze has served its purpose.
		_ = s.snoozeRepo.Clear(med.ID, payload.TimeLabel)
		return
	}
	// Daily slot rolls to the same label tomorrow.
	s.orchestrator.Rearm(med, payload.TimeLabel)
}

func (s *Service) dispatchSlot(med *model.Medicine, timeLabel string, snoozed bool) {
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()
	s.dispatcher.DispatchDose(ctx, med, timeLabel, uuid.New().String(), snoozed)
}

// sendDailySummary reports one day's adherence to the sinks.
func (s *Service) sendDailySummary(day time.Time) {
	if !s.dispatcher.HasEnabledWebhooks() {
		return
	}
	overall, err := s.historyRepo.OverallStatistics(day, day)
	if err != nil || overall.Total == 0 {
		return
	}

	n := model.NewNotification(
		model.NotifySummary,
		fmt.Sprintf("Daily Summary for %s", day.Format("Jan 2")),
		fmt.Sprintf("%d of %d doses taken (%.0f%%)",
			overall.Taken, overall.Total, overall.AdherencePercent()),
	)
	n.WithField("Missed", fmt.Sprintf("%d", overall.Missed))
	n.WithField("Skipped", fmt.Sprintf("%d", overall.Skipped))

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()
	s.dispatcher.Send(ctx, n)
}
