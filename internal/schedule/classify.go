package schedule

import (
	"sort"
	"time"

	"github.com/dhnguyen/pillbox/internal/logging"
	"github.com/dhnguyen/pillbox/internal/model"
)

// Classify resolves the display status of one reminder slot for the day
// containing now. The decision order is fixed: a recorded outcome wins,
// then elapsed time, then meal advice, then pending.
func Classify(med *model.Medicine, timeLabel string, entry *model.HistoryEntry, now time.Time) model.Status {
	if entry != nil {
		switch entry.Status {
		case model.StatusTaken:
			return model.StatusCompleted
		case model.StatusSkipped:
			return model.StatusSkippedSlot
		default:
			return model.StatusMissedSlot
		}
	}

	slotTime, ok := SlotTimeToday(timeLabel, now)
	if !ok {
		// Same fallback as the scheduler: an unparsable label behaves like
		// a 9:00 AM slot rather than staying pending forever.
		logging.WarnLog("unparsable reminder label, using 9:00 AM fallback",
			logging.KeyMedicineID, med.ID,
			logging.KeyTimeLabel, timeLabel)
		slotTime = time.Date(now.Year(), now.Month(), now.Day(),
			fallbackHour, fallbackMinute, 0, 0, now.Location())
	}
	if !slotTime.After(now) {
		return model.StatusMissedSlot
	}

	if med.IntakeAdvice != model.AdviceNone {
		return model.StatusBeforeEating
	}
	return model.StatusPending
}

// DaySchedule is the classified view of one day's reminder slots.
type DaySchedule struct {
	Overdue   []*model.Occurrence `json:"overdue"`
	Upcoming  []*model.Occurrence `json:"upcoming"`
	Completed []*model.Occurrence `json:"completed"`
}

// Total returns the number of slots across all sections.
func (s *DaySchedule) Total() int {
	return len(s.Overdue) + len(s.Upcoming) + len(s.Completed)
}

// Occurrences returns all slots in section order.
func (s *DaySchedule) Occurrences() []*model.Occurrence {
	all := make([]*model.Occurrence, 0, s.Total())
	all = append(all, s.Overdue...)
	all = append(all, s.Upcoming...)
	all = append(all, s.Completed...)
	return all
}

// BuildDaySchedule expands the given medicines into slots for the day
// containing now, resolves each slot against the day's history entries,
// and partitions the result. Missed slots land in Overdue, answered slots
// in Completed, everything else in Upcoming. Each section sorts by slot
// time then medicine id.
func BuildDaySchedule(meds []*model.Medicine, entries []*model.HistoryEntry, now time.Time) *DaySchedule {
	bySlot := make(map[string]*model.HistoryEntry, len(entries))
	for _, entry := range entries {
		bySlot[entry.SlotKey()] = entry
	}

	schedule := &DaySchedule{}
	for _, med := range meds {
		if !med.Active || !med.InWindow(now) {
			continue
		}
		for _, label := range med.ReminderTimes {
			entry := bySlot[model.SlotKey(med.ID, label)]
			occ := &model.Occurrence{
				Medicine:  med,
				TimeLabel: label,
				Status:    Classify(med, label, entry, now),
			}
			if entry != nil {
				occ.HistoryID = entry.ID
			}

			switch occ.Status {
			case model.StatusMissedSlot:
				schedule.Overdue = append(schedule.Overdue, occ)
			case model.StatusCompleted, model.StatusSkippedSlot:
				schedule.Completed = append(schedule.Completed, occ)
			default:
				schedule.Upcoming = append(schedule.Upcoming, occ)
			}
		}
	}

	sortOccurrences(schedule.Overdue, now)
	sortOccurrences(schedule.Upcoming, now)
	sortOccurrences(schedule.Completed, now)
	return schedule
}

func sortOccurrences(occs []*model.Occurrence, day time.Time) {
	sort.SliceStable(occs, func(i, j int) bool {
		ti, okI := SlotTimeToday(occs[i].TimeLabel, day)
		tj, okJ := SlotTimeToday(occs[j].TimeLabel, day)
		if okI && okJ && !ti.Equal(tj) {
			return ti.Before(tj)
		}
		if okI != okJ {
			return okI
		}
		return occs[i].Medicine.ID < occs[j].Medicine.ID
	})
}
