package storage

import (
	"fmt"
	"sort"
	"time"

	apperrors "github.com/dhnguyen/pillbox/internal/errors"
	"github.com/dhnguyen/pillbox/internal/model"
)

// SnoozeRepo manages persisted "remind me later" records.
type SnoozeRepo struct {
	db *DB
}

// NewSnoozeRepo creates a new snooze repository.
func NewSnoozeRepo(db *DB) *SnoozeRepo {
	return &SnoozeRepo{db: db}
}

// Set stores a snooze for the slot, replacing any earlier one.
func (r *SnoozeRepo) Set(medicineID uint64, timeLabel string, fireAt time.Time) (*model.Snooze, error) {
	snooze := model.NewSnooze(medicineID, timeLabel, fireAt)
	if err := r.db.Set(snooze); err != nil {
		return nil, apperrors.Wrap(err, "store snooze")
	}
	return snooze, nil
}

// Get retrieves the snooze for a slot, nil when none is pending.
func (r *SnoozeRepo) Get(medicineID uint64, timeLabel string) (*model.Snooze, error) {
	snooze := &model.Snooze{}
	err := r.db.Get(model.GenerateSnoozeKey(medicineID, timeLabel), snooze)
	if err != nil {
		if IsErrKeyNotFound(err) {
			return nil, nil
		}
		return nil, apperrors.Wrap(err, "get snooze")
	}
	return snooze, nil
}

// List retrieves all pending snoozes sorted by fire time.
func (r *SnoozeRepo) List() ([]*model.Snooze, error) {
	snoozes, err := GetAllByPrefix(r.db, model.PrefixSnooze+":", func() *model.Snooze {
		return &model.Snooze{}
	})
	if err != nil {
		return nil, apperrors.Wrap(err, "list snoozes")
	}
	sort.Slice(snoozes, func(i, j int) bool {
		return snoozes[i].FireAt.Before(snoozes[j].FireAt)
	})
	return snoozes, nil
}

// Clear removes the snooze for a slot if one exists.
func (r *SnoozeRepo) Clear(medicineID uint64, timeLabel string) error {
	if err := r.db.Delete(model.GenerateSnoozeKey(medicineID, timeLabel)); err != nil {
		return apperrors.Wrap(err, "clear snooze")
	}
	return nil
}

// ClearByMedicine removes every snooze held by a medicine.
func (r *SnoozeRepo) ClearByMedicine(medicineID uint64) error {
	prefix := fmt.Sprintf("%s:%012d:", model.PrefixSnooze, medicineID)
	if err := r.db.DeletePrefix(prefix); err != nil {
		return apperrors.Wrap(err, "clear medicine snoozes")
	}
	return nil
}
