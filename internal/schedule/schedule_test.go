package schedule

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dhnguyen/pillbox/internal/model"
)

var noon = time.Date(2026, 3, 15, 12, 0, 0, 0, time.Local)

func med(id uint64, advice model.IntakeAdvice, labels ...string) *model.Medicine {
	m := model.NewMedicine("Aspirin", 2, model.UnitPills, advice,
		time.Date(2026, 1, 1, 0, 0, 0, 0, time.Local), labels)
	m.ID = id
	m.Key = model.GenerateMedicineKey(id)
	return m
}

func TestNextFireTimeLaterToday(t *testing.T) {
	fireAt := NextFireTime("08:00 PM", noon)
	assert.Equal(t, time.Date(2026, 3, 15, 20, 0, 0, 0, time.Local), fireAt)
}

func TestNextFireTimeRollsToTomorrow(t *testing.T) {
	fireAt := NextFireTime("10:00 AM", noon)
	assert.Equal(t, time.Date(2026, 3, 16, 10, 0, 0, 0, time.Local), fireAt)
}

func TestNextFireTimeExactNowFiresToday(t *testing.T) {
	// A candidate at exactly now is not past; it does not roll to tomorrow.
	fireAt := NextFireTime("12:00 PM", noon)
	assert.Equal(t, noon, fireAt)
}

func TestNextFireTimeFallback(t *testing.T) {
	// Unparsable labels fall back to 9:00 AM; at noon that is tomorrow.
	fireAt := NextFireTime("whenever", noon)
	assert.Equal(t, time.Date(2026, 3, 16, 9, 0, 0, 0, time.Local), fireAt)
}

func TestClassifyRecordedOutcomeWins(t *testing.T) {
	m := med(1, model.AdviceBeforeMeal, "10:00 AM")
	cases := []struct {
		recorded model.EntryStatus
		want     model.Status
	}{
		{model.StatusTaken, model.StatusCompleted},
		{model.StatusSkipped, model.StatusSkippedSlot},
		{model.StatusMissed, model.StatusMissedSlot},
	}
	for _, tc := range cases {
		entry := model.NewHistoryEntry(1, noon, "10:00 AM", tc.recorded)
		assert.Equal(t, tc.want, Classify(m, "10:00 AM", entry, noon))
	}
}

func TestClassifyElapsedSlotIsMissed(t *testing.T) {
	m := med(1, model.AdviceBeforeMeal, "10:00 AM")
	// No entry and the slot passed; advice does not rescue it.
	assert.Equal(t, model.StatusMissedSlot, Classify(m, "10:00 AM", nil, noon))
}

func TestClassifyExactSlotInstantIsMissed(t *testing.T) {
	m := med(1, model.AdviceNone, "12:00 PM")
	// Slot time equal to now counts as elapsed.
	assert.Equal(t, model.StatusMissedSlot, Classify(m, "12:00 PM", nil, noon))
}

func TestClassifyUnparsableLabelUsesMorningFallback(t *testing.T) {
	m := med(1, model.AdviceNone, "garbled")
	// Behaves like a 9:00 AM slot: missed at noon, pending before 9.
	assert.Equal(t, model.StatusMissedSlot, Classify(m, "garbled", nil, noon))

	eight := time.Date(2026, 3, 15, 8, 0, 0, 0, time.Local)
	assert.Equal(t, model.StatusPending, Classify(m, "garbled", nil, eight))
}

func TestClassifyPendingWithAdvice(t *testing.T) {
	m := med(1, model.AdviceBeforeMeal, "08:00 PM")
	assert.Equal(t, model.StatusBeforeEating, Classify(m, "08:00 PM", nil, noon))
}

func TestClassifyPendingWithoutAdvice(t *testing.T) {
	m := med(1, model.AdviceNone, "08:00 PM")
	assert.Equal(t, model.StatusPending, Classify(m, "08:00 PM", nil, noon))
}

func TestBuildDaySchedulePartitions(t *testing.T) {
	aspirin := med(1, model.AdviceNone, "10:00 AM", "08:00 PM")
	iron := med(2, model.AdviceBeforeMeal, "09:00 AM")

	taken := model.NewHistoryEntry(2, noon, "09:00 AM", model.StatusTaken)

	schedule := BuildDaySchedule(
		[]*model.Medicine{aspirin, iron},
		[]*model.HistoryEntry{taken},
		noon,
	)

	require.Len(t, schedule.Overdue, 1)
	assert.Equal(t, "10:00 AM", schedule.Overdue[0].TimeLabel)
	assert.Equal(t, uint64(1), schedule.Overdue[0].Medicine.ID)

	require.Len(t, schedule.Upcoming, 1)
	assert.Equal(t, "08:00 PM", schedule.Upcoming[0].TimeLabel)
	assert.Equal(t, model.StatusPending, schedule.Upcoming[0].Status)

	require.Len(t, schedule.Completed, 1)
	assert.Equal(t, model.StatusCompleted, schedule.Completed[0].Status)
	assert.Equal(t, taken.ID, schedule.Completed[0].HistoryID)
}

func TestBuildDayScheduleSkipsIneligible(t *testing.T) {
	paused := med(1, model.AdviceNone, "10:00 AM")
	paused.Active = false

	ended := med(2, model.AdviceNone, "10:00 AM")
	ended.EndDate = time.Date(2026, 2, 1, 0, 0, 0, 0, time.Local)

	schedule := BuildDaySchedule([]*model.Medicine{paused, ended}, nil, noon)
	assert.Zero(t, schedule.Total())
}

func TestBuildDayScheduleSortsByTime(t *testing.T) {
	m := med(1, model.AdviceNone, "02:00 PM", "08:00 PM", "06:00 PM")
	m.NormalizeReminderTimes()

	schedule := BuildDaySchedule([]*model.Medicine{m}, nil, noon)
	require.Len(t, schedule.Upcoming, 3)
	assert.Equal(t, "02:00 PM", schedule.Upcoming[0].TimeLabel)
	assert.Equal(t, "06:00 PM", schedule.Upcoming[1].TimeLabel)
	assert.Equal(t, "08:00 PM", schedule.Upcoming[2].TimeLabel)
}

func newTestEngine(fire FireFunc) *TimerEngine {
	if fire == nil {
		fire = func(Payload) {}
	}
	engine := NewTimerEngine(fire)
	engine.now = func() time.Time { return noon }
	return engine
}

func TestEngineSkipsPastFireTimes(t *testing.T) {
	engine := newTestEngine(nil)
	defer engine.Stop()

	_, ok := engine.Register("reminder_1_10:00 AM", noon.Add(-time.Hour), Payload{})
	assert.False(t, ok)
	assert.Empty(t, engine.Registrations())
}

func TestEngineReplacesExistingTag(t *testing.T) {
	engine := newTestEngine(nil)
	defer engine.Stop()

	tag := ReminderTag(1, "08:00 PM")
	firstID, ok := engine.Register(tag, noon.Add(time.Hour), Payload{MedicineID: 1})
	require.True(t, ok)
	secondID, ok := engine.Register(tag, noon.Add(2*time.Hour), Payload{MedicineID: 1})
	require.True(t, ok)
	assert.NotEqual(t, firstID, secondID)

	regs := engine.Registrations()
	require.Len(t, regs, 1)
	assert.Equal(t, secondID, regs[0].ID)
	assert.Equal(t, noon.Add(2*time.Hour), regs[0].FireAt)
}

func TestEngineCancelPrefix(t *testing.T) {
	engine := newTestEngine(nil)
	defer engine.Stop()

	engine.Register(ReminderTag(1, "10:00 AM"), noon.Add(time.Hour), Payload{})
	engine.Register(ReminderTag(1, "08:00 PM"), noon.Add(time.Hour), Payload{})
	engine.Register(ReminderTag(2, "10:00 AM"), noon.Add(time.Hour), Payload{})

	assert.Equal(t, 2, engine.CancelPrefix(MedicineTagPrefix(1)))
	regs := engine.Registrations()
	require.Len(t, regs, 1)
	assert.Equal(t, ReminderTag(2, "10:00 AM"), regs[0].Tag)
}

func TestEngineFiresAndForgets(t *testing.T) {
	var (
		mu    sync.Mutex
		fired []Payload
	)
	done := make(chan struct{})
	engine := NewTimerEngine(func(p Payload) {
		mu.Lock()
		fired = append(fired, p)
		mu.Unlock()
		close(done)
	})
	defer engine.Stop()

	_, ok := engine.Register(ReminderTag(1, "10:00 AM"), time.Now().Add(20*time.Millisecond),
		Payload{MedicineID: 1, TimeLabel: "10:00 AM"})
	require.True(t, ok)

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("timer did not fire")
	}

	mu.Lock()
	defer mu.Unlock()
	require.Len(t, fired, 1)
	assert.Equal(t, uint64(1), fired[0].MedicineID)
	assert.Empty(t, engine.Registrations(), "fired timer removes its registration")
}

func testOrchestrator(t *testing.T) (*Orchestrator, *TimerEngine) {
	t.Helper()
	engine := newTestEngine(nil)
	t.Cleanup(engine.Stop)
	orch := NewOrchestrator(engine).WithClock(func() time.Time { return noon })
	return orch, engine
}

func TestOrchestratorScheduleArmsFutureSlots(t *testing.T) {
	orch, engine := testOrchestrator(t)

	m := med(1, model.AdviceNone, "10:00 AM", "08:00 PM")
	armed := orch.Schedule(m)
	assert.Equal(t, 2, armed)

	regs := engine.Registrations()
	require.Len(t, regs, 2)
	// The morning slot already passed, so it rolls to tomorrow.
	assert.Equal(t, time.Date(2026, 3, 15, 20, 0, 0, 0, time.Local), regs[0].FireAt)
	assert.Equal(t, time.Date(2026, 3, 16, 10, 0, 0, 0, time.Local), regs[1].FireAt)
}

func TestOrchestratorScheduleIsIdempotent(t *testing.T) {
	orch, engine := testOrchestrator(t)

	m := med(1, model.AdviceNone, "08:00 PM")
	orch.Schedule(m)
	orch.Schedule(m)
	orch.Schedule(m)

	assert.Len(t, engine.Registrations(), 1)
}

func TestOrchestratorScheduleDropsIneligible(t *testing.T) {
	orch, engine := testOrchestrator(t)

	m := med(1, model.AdviceNone, "08:00 PM")
	require.Equal(t, 1, orch.Schedule(m))

	m.Active = false
	assert.Equal(t, 0, orch.Schedule(m))
	assert.Empty(t, engine.Registrations(), "deactivation clears pending timers")
}

func TestOrchestratorScheduleDropsPendingSnooze(t *testing.T) {
	orch, engine := testOrchestrator(t)

	m := med(1, model.AdviceNone, "10:00 AM")
	orch.Schedule(m)
	_, ok := orch.RescheduleIn(m, "10:00 AM", 30*time.Minute)
	require.True(t, ok)

	// An edit reschedules the medicine; the snooze timer must not survive.
	m.ReminderTimes = []string{"08:00 PM"}
	orch.Schedule(m)

	regs := engine.Registrations()
	require.Len(t, regs, 1)
	assert.Equal(t, ReminderTag(1, "08:00 PM"), regs[0].Tag)
}

func TestOrchestratorCancelIncludesSnooze(t *testing.T) {
	orch, engine := testOrchestrator(t)

	m := med(1, model.AdviceNone, "10:00 AM", "08:00 PM")
	orch.Schedule(m)
	_, ok := orch.RescheduleIn(m, "10:00 AM", 30*time.Minute)
	require.True(t, ok)

	other := med(2, model.AdviceNone, "08:00 PM")
	orch.Schedule(other)

	cancelled := orch.Cancel(1)
	assert.Equal(t, 3, cancelled)

	regs := engine.Registrations()
	require.Len(t, regs, 1)
	assert.Equal(t, ReminderTag(2, "08:00 PM"), regs[0].Tag)
}

func TestOrchestratorRescheduleIn(t *testing.T) {
	orch, engine := testOrchestrator(t)

	m := med(1, model.AdviceNone, "10:00 AM")
	fireAt, ok := orch.RescheduleIn(m, "10:00 AM", 30*time.Minute)
	require.True(t, ok)
	assert.Equal(t, noon.Add(30*time.Minute), fireAt)

	regs := engine.Registrations()
	require.Len(t, regs, 1)
	assert.Equal(t, SnoozeTag(1, "10:00 AM"), regs[0].Tag)
}

func TestOrchestratorRearm(t *testing.T) {
	orch, engine := testOrchestrator(t)

	m := med(1, model.AdviceNone, "10:00 AM")
	require.True(t, orch.Rearm(m, "10:00 AM"))

	regs := engine.Registrations()
	require.Len(t, regs, 1)
	assert.Equal(t, time.Date(2026, 3, 16, 10, 0, 0, 0, time.Local), regs[0].FireAt)

	// A course ending today has no tomorrow occurrence.
	m.EndDate = model.Midnight(noon)
	assert.False(t, orch.Rearm(m, "10:00 AM"))
}
