package storage

import (
	"fmt"
	"sort"
	"time"

	apperrors "github.com/dhnguyen/pillbox/internal/errors"
	"github.com/dhnguyen/pillbox/internal/model"
)

// HistoryRepo provides adherence-ledger database operations. Entries are
// keyed by the (medicine, date, time label) triple, so recording the same
// slot twice replaces the earlier outcome instead of duplicating it.
type HistoryRepo struct {
	db *DB
}

// NewHistoryRepo creates a new history repository.
func NewHistoryRepo(db *DB) *HistoryRepo {
	return &HistoryRepo{db: db}
}

// medicinePrefix returns the key prefix covering one medicine's entries.
func medicinePrefix(medicineID uint64) string {
	return fmt.Sprintf("%s:%012d:", model.PrefixHistory, medicineID)
}

// Record upserts the outcome for one slot. If an entry for the triple
// already exists its numeric id is preserved; otherwise a new id is
// allocated.
func (r *HistoryRepo) Record(medicineID uint64, day time.Time, timeLabel string, status model.EntryStatus) (*model.HistoryEntry, error) {
	entry := model.NewHistoryEntry(medicineID, day, timeLabel, status)

	existing := &model.HistoryEntry{}
	err := r.db.Get(entry.Key, existing)
	switch {
	case err == nil:
		entry.ID = existing.ID
	case IsErrKeyNotFound(err):
		id, idErr := r.db.NextID(model.PrefixHistory)
		if idErr != nil {
			return nil, apperrors.Wrap(idErr, "allocate history id")
		}
		entry.ID = id
	default:
		return nil, apperrors.Wrap(err, "read history entry")
	}

	if err := r.db.Set(entry); err != nil {
		return nil, apperrors.Wrap(err, "store history entry")
	}
	return entry, nil
}

// RecordTaken marks a slot as taken.
func (r *HistoryRepo) RecordTaken(medicineID uint64, day time.Time, timeLabel string) (*model.HistoryEntry, error) {
	return r.Record(medicineID, day, timeLabel, model.StatusTaken)
}

// RecordSkipped marks a slot as skipped.
func (r *HistoryRepo) RecordSkipped(medicineID uint64, day time.Time, timeLabel string) (*model.HistoryEntry, error) {
	return r.Record(medicineID, day, timeLabel, model.StatusSkipped)
}

// RecordMissed marks a slot as missed.
func (r *HistoryRepo) RecordMissed(medicineID uint64, day time.Time, timeLabel string) (*model.HistoryEntry, error) {
	return r.Record(medicineID, day, timeLabel, model.StatusMissed)
}

// Insert stores a prepared entry, preserving an existing id on upsert.
func (r *HistoryRepo) Insert(entry *model.HistoryEntry) error {
	day, err := entry.Day()
	if err != nil {
		return apperrors.NewUserErrorWithField("date", entry.Date,
			"invalid history date", "Use the YYYY-MM-DD form.")
	}
	stored, err := r.Record(entry.MedicineID, day, entry.TimeLabel, entry.Status)
	if err != nil {
		return err
	}
	*entry = *stored
	return nil
}

// InsertAll stores a batch of entries.
func (r *HistoryRepo) InsertAll(entries []*model.HistoryEntry) error {
	for _, entry := range entries {
		if err := r.Insert(entry); err != nil {
			return err
		}
	}
	return nil
}

// Get retrieves the entry for one slot triple.
func (r *HistoryRepo) Get(medicineID uint64, date, timeLabel string) (*model.HistoryEntry, error) {
	entry := &model.HistoryEntry{}
	err := r.db.Get(model.GenerateHistoryKey(medicineID, date, timeLabel), entry)
	if err != nil {
		if IsErrKeyNotFound(err) {
			return nil, apperrors.ErrHistoryNotFound
		}
		return nil, apperrors.Wrap(err, "get history entry")
	}
	return entry, nil
}

// GetByID retrieves an entry by its numeric id. Ids are secondary to the
// triple key, so this walks the ledger.
func (r *HistoryRepo) GetByID(id uint64) (*model.HistoryEntry, error) {
	entries, err := r.ListAll()
	if err != nil {
		return nil, err
	}
	for _, entry := range entries {
		if entry.ID == id {
			return entry, nil
		}
	}
	return nil, apperrors.ErrHistoryNotFound
}

// Delete removes the entry for one slot triple.
func (r *HistoryRepo) Delete(medicineID uint64, date, timeLabel string) error {
	if _, err := r.Get(medicineID, date, timeLabel); err != nil {
		return err
	}
	key := model.GenerateHistoryKey(medicineID, date, timeLabel)
	if err := r.db.Delete(key); err != nil {
		return apperrors.Wrap(err, "delete history entry")
	}
	return nil
}

// DeleteByID removes an entry by its numeric id.
func (r *HistoryRepo) DeleteByID(id uint64) error {
	entry, err := r.GetByID(id)
	if err != nil {
		return err
	}
	if err := r.db.Delete(entry.Key); err != nil {
		return apperrors.Wrap(err, "delete history entry")
	}
	return nil
}

// DeleteByMedicine removes every entry for one medicine. Used by the
// medicine delete cascade.
func (r *HistoryRepo) DeleteByMedicine(medicineID uint64) error {
	if err := r.db.DeletePrefix(medicinePrefix(medicineID)); err != nil {
		return apperrors.Wrap(err, "delete medicine history")
	}
	return nil
}

// ListAll retrieves every entry sorted by date then medicine then label.
func (r *HistoryRepo) ListAll() ([]*model.HistoryEntry, error) {
	entries, err := GetAllByPrefix(r.db, model.PrefixHistory+":", func() *model.HistoryEntry {
		return &model.HistoryEntry{}
	})
	if err != nil {
		return nil, apperrors.Wrap(err, "list history")
	}
	sortEntries(entries)
	return entries, nil
}

// ListByMedicine retrieves one medicine's entries sorted by date.
func (r *HistoryRepo) ListByMedicine(medicineID uint64) ([]*model.HistoryEntry, error) {
	entries, err := GetAllByPrefix(r.db, medicinePrefix(medicineID), func() *model.HistoryEntry {
		return &model.HistoryEntry{}
	})
	if err != nil {
		return nil, apperrors.Wrap(err, "list medicine history")
	}
	sortEntries(entries)
	return entries, nil
}

// ListByDay retrieves all entries recorded for one calendar day.
func (r *HistoryRepo) ListByDay(day time.Time) ([]*model.HistoryEntry, error) {
	return r.ListByDateRange(day, day)
}

// ListByDateRange retrieves all entries whose date falls inside the
// inclusive [start, end] range. Dates use the sortable YYYY-MM-DD form, so
// the filter compares strings.
func (r *HistoryRepo) ListByDateRange(start, end time.Time) ([]*model.HistoryEntry, error) {
	all, err := r.ListAll()
	if err != nil {
		return nil, err
	}
	startDate := start.Format(model.DateLayout)
	endDate := end.Format(model.DateLayout)

	var entries []*model.HistoryEntry
	for _, entry := range all {
		if entry.Date >= startDate && entry.Date <= endDate {
			entries = append(entries, entry)
		}
	}
	return entries, nil
}

// StatisticsByMedicine aggregates per-medicine adherence counts over the
// inclusive date range, sorted by medicine id.
func (r *HistoryRepo) StatisticsByMedicine(start, end time.Time) ([]*model.MedicineStats, error) {
	entries, err := r.ListByDateRange(start, end)
	if err != nil {
		return nil, err
	}

	byMedicine := make(map[uint64]*model.MedicineStats)
	for _, entry := range entries {
		stats := byMedicine[entry.MedicineID]
		if stats == nil {
			stats = &model.MedicineStats{MedicineID: entry.MedicineID}
			byMedicine[entry.MedicineID] = stats
		}
		tally(entry.Status, &stats.Total, &stats.Taken, &stats.Missed, &stats.Skipped)
	}

	results := make([]*model.MedicineStats, 0, len(byMedicine))
	for _, stats := range byMedicine {
		results = append(results, stats)
	}
	sort.Slice(results, func(i, j int) bool {
		return results[i].MedicineID < results[j].MedicineID
	})
	return results, nil
}

// OverallStatistics aggregates adherence counts across all medicines.
func (r *HistoryRepo) OverallStatistics(start, end time.Time) (*model.OverallStats, error) {
	entries, err := r.ListByDateRange(start, end)
	if err != nil {
		return nil, err
	}
	stats := &model.OverallStats{}
	for _, entry := range entries {
		tally(entry.Status, &stats.Total, &stats.Taken, &stats.Missed, &stats.Skipped)
	}
	return stats, nil
}

func tally(status model.EntryStatus, total, taken, missed, skipped *int) {
	*total++
	switch status {
	case model.StatusTaken:
		*taken++
	case model.StatusMissed:
		*missed++
	case model.StatusSkipped:
		*skipped++
	}
}

func sortEntries(entries []*model.HistoryEntry) {
	sort.Slice(entries, func(i, j int) bool {
		if entries[i].Date != entries[j].Date {
			return entries[i].Date < entries[j].Date
		}
		if entries[i].MedicineID != entries[j].MedicineID {
			return entries[i].MedicineID < entries[j].MedicineID
		}
		return entries[i].TimeLabel < entries[j].TimeLabel
	})
}
