package schedule

import (
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/dhnguyen/pillbox/internal/logging"
)

// Payload carries the slot identity through a dispatch timer to the
// notification path.
type Payload struct {
	MedicineID uint64
	TimeLabel  string
	Snoozed    bool
}

// Registration describes one pending dispatch timer.
type Registration struct {
	ID     string
	Tag    string
	FireAt time.Time
}

// Engine registers and cancels one-shot dispatch timers. Tags are stable
// identities; registering an existing tag replaces the pending timer.
type Engine interface {
	// Register arms a timer for the tag. It reports false without arming
	// anything when fireAt is not in the future.
	Register(tag string, fireAt time.Time, payload Payload) (string, bool)
	// Cancel disarms the timer for the tag, reporting whether one existed.
	Cancel(tag string) bool
	// CancelPrefix disarms every timer whose tag has the prefix.
	CancelPrefix(prefix string) int
	// Registrations lists pending timers sorted by fire time.
	Registrations() []Registration
	// Stop disarms everything.
	Stop()
}

// ReminderTag returns the timer tag for a medicine's reminder slot.
func ReminderTag(medicineID uint64, timeLabel string) string {
	return fmt.Sprintf("reminder_%d_%s", medicineID, timeLabel)
}

// SnoozeTag returns the timer tag for a snoozed slot.
func SnoozeTag(medicineID uint64, timeLabel string) string {
	return fmt.Sprintf("snooze_%d_%s", medicineID, timeLabel)
}

// MedicineTagPrefix returns the prefix covering all of a medicine's
// reminder tags.
func MedicineTagPrefix(medicineID uint64) string {
	return fmt.Sprintf("reminder_%d_", medicineID)
}

// FireFunc handles a timer that has fired.
type FireFunc func(Payload)

type timerReg struct {
	id      string
	fireAt  time.Time
	payload Payload
	timer   *time.Timer
}

// TimerEngine is the in-process Engine backed by time.AfterFunc. A fired
// timer removes itself before invoking the handler, so the handler can
// re-register the same tag for the next day.
type TimerEngine struct {
	mu   sync.Mutex
	regs map[string]*timerReg
	fire FireFunc
	now  func() time.Time
}

// NewTimerEngine creates an engine dispatching to the given handler.
func NewTimerEngine(fire FireFunc) *TimerEngine {
	return &TimerEngine{
		regs: make(map[string]*timerReg),
		fire: fire,
		now:  time.Now,
	}
}

// Register implements Engine.
func (e *TimerEngine) Register(tag string, fireAt time.Time, payload Payload) (string, bool) {
	e.mu.Lock()
	defer e.mu.Unlock()

	delay := fireAt.Sub(e.now())
	if delay <= 0 {
		// A slot in the past never fires; the classifier reports it missed.
		logging.DebugLog("skipping non-future registration",
			"tag", tag, "fire_at", fireAt)
		return "", false
	}

	if existing, ok := e.regs[tag]; ok {
		existing.timer.Stop()
	}

	reg := &timerReg{
		id:      uuid.New().String(),
		fireAt:  fireAt,
		payload: payload,
	}
	reg.timer = time.AfterFunc(delay, func() {
		e.fired(tag, reg)
	})
	e.regs[tag] = reg

	logging.DebugLog("registered dispatch timer",
		"tag", tag,
		logging.KeyDispatchID, reg.id,
		"fire_at", fireAt)
	return reg.id, true
}

func (e *TimerEngine) fired(tag string, reg *timerReg) {
	e.mu.Lock()
	current, ok := e.regs[tag]
	if ok && current.id == reg.id {
		delete(e.regs, tag)
	}
	e.mu.Unlock()
	if !ok || current.id != reg.id {
		// Replaced or cancelled between firing and locking.
		return
	}
	e.fire(reg.payload)
}

// Cancel implements Engine.
func (e *TimerEngine) Cancel(tag string) bool {
	e.mu.Lock()
	defer e.mu.Unlock()

	reg, ok := e.regs[tag]
	if !ok {
		return false
	}
	reg.timer.Stop()
	delete(e.regs, tag)
	return true
}

// CancelPrefix implements Engine.
func (e *TimerEngine) CancelPrefix(prefix string) int {
	e.mu.Lock()
	defer e.mu.Unlock()

	var cancelled int
	for tag, reg := range e.regs {
		if strings.HasPrefix(tag, prefix) {
			reg.timer.Stop()
			delete(e.regs, tag)
			cancelled++
		}
	}
	return cancelled
}

// Registrations implements Engine.
func (e *TimerEngine) Registrations() []Registration {
	e.mu.Lock()
	defer e.mu.Unlock()

	regs := make([]Registration, 0, len(e.regs))
	for tag, reg := range e.regs {
		regs = append(regs, Registration{ID: reg.id, Tag: tag, FireAt: reg.fireAt})
	}
	sort.Slice(regs, func(i, j int) bool {
		if !regs[i].FireAt.Equal(regs[j].FireAt) {
			return regs[i].FireAt.Before(regs[j].FireAt)
		}
		return regs[i].Tag < regs[j].Tag
	})
	return regs
}

// Stop implements Engine.
func (e *TimerEngine) Stop() {
	e.mu.Lock()
	defer e.mu.Unlock()

	for tag, reg := range e.regs {
		reg.timer.Stop()
		delete(e.regs, tag)
	}
}
