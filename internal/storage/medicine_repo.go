package storage

import (
	"sort"
	"time"

	apperrors "github.com/dhnguyen/pillbox/internal/errors"
	"github.com/dhnguyen/pillbox/internal/model"
)

// MedicineRepo provides medicine-specific database operations.
type MedicineRepo struct {
	db *DB
}

// NewMedicineRepo creates a new medicine repository.
func NewMedicineRepo(db *DB) *MedicineRepo {
	return &MedicineRepo{db: db}
}

// Create assigns a new id to the medicine and stores it.
func (r *MedicineRepo) Create(med *model.Medicine) error {
	id, err := r.db.NextID(model.PrefixMedicine)
	if err != nil {
		return apperrors.Wrap(err, "allocate medicine id")
	}
	med.ID = id
	med.Key = model.GenerateMedicineKey(id)
	if med.CreatedAt.IsZero() {
		med.CreatedAt = time.Now()
	}
	med.NormalizeReminderTimes()
	if err := r.db.Set(med); err != nil {
		return apperrors.Wrap(err, "store medicine")
	}
	return nil
}

// CreateAll stores a batch of new medicines, assigning ids in order.
func (r *MedicineRepo) CreateAll(meds []*model.Medicine) error {
	for _, med := range meds {
		if err := r.Create(med); err != nil {
			return err
		}
	}
	return nil
}

// Get retrieves a medicine by id.
func (r *MedicineRepo) Get(id uint64) (*model.Medicine, error) {
	med := &model.Medicine{}
	err := r.db.Get(model.GenerateMedicineKey(id), med)
	if err != nil {
		if IsErrKeyNotFound(err) {
			return nil, apperrors.ErrMedicineNotFound
		}
		return nil, apperrors.Wrap(err, "get medicine")
	}
	return med, nil
}

// Update replaces the stored record for the medicine. The medicine must
// already have an id.
func (r *MedicineRepo) Update(med *model.Medicine) error {
	if _, err := r.Get(med.ID); err != nil {
		return err
	}
	med.Key = model.GenerateMedicineKey(med.ID)
	med.NormalizeReminderTimes()
	if err := r.db.Set(med); err != nil {
		return apperrors.Wrap(err, "update medicine")
	}
	return nil
}

// Delete removes the medicine record. History cleanup is the caller's
// responsibility so callers can choose to keep adherence data.
func (r *MedicineRepo) Delete(id uint64) error {
	if _, err := r.Get(id); err != nil {
		return err
	}
	if err := r.db.Delete(model.GenerateMedicineKey(id)); err != nil {
		return apperrors.Wrap(err, "delete medicine")
	}
	return nil
}

// List retrieves all medicines sorted by id.
func (r *MedicineRepo) List() ([]*model.Medicine, error) {
	meds, err := GetAllByPrefix(r.db, model.PrefixMedicine+":", func() *model.Medicine {
		return &model.Medicine{}
	})
	if err != nil {
		return nil, apperrors.Wrap(err, "list medicines")
	}
	sort.Slice(meds, func(i, j int) bool { return meds[i].ID < meds[j].ID })
	return meds, nil
}

// ListActive retrieves all active medicines sorted by id.
func (r *MedicineRepo) ListActive() ([]*model.Medicine, error) {
	meds, err := r.List()
	if err != nil {
		return nil, err
	}
	var active []*model.Medicine
	for _, med := range meds {
		if med.Active {
			active = append(active, med)
		}
	}
	return active, nil
}

// ListByDate retrieves active medicines whose start/end window covers the
// given day. These are the medicines that produce reminder slots that day.
func (r *MedicineRepo) ListByDate(day time.Time) ([]*model.Medicine, error) {
	meds, err := r.ListActive()
	if err != nil {
		return nil, err
	}
	var due []*model.Medicine
	for _, med := range meds {
		if med.InWindow(day) {
			due = append(due, med)
		}
	}
	return due, nil
}

// ListOverdueAsOf retrieves active medicines in window at the given instant.
// The caller classifies which of their slots have already passed.
func (r *MedicineRepo) ListOverdueAsOf(now time.Time) ([]*model.Medicine, error) {
	return r.ListByDate(now)
}

// SetActive flips the active flag on a medicine.
func (r *MedicineRepo) SetActive(id uint64, active bool) (*model.Medicine, error) {
	med, err := r.Get(id)
	if err != nil {
		return nil, err
	}
	if med.Active == active {
		return med, nil
	}
	med.Active = active
	if err := r.db.Set(med); err != nil {
		return nil, apperrors.Wrap(err, "update medicine")
	}
	return med, nil
}

// Count returns the number of stored medicines.
func (r *MedicineRepo) Count() (int, error) {
	keys, err := r.db.ListByPrefix(model.PrefixMedicine + ":")
	if err != nil {
		return 0, apperrors.Wrap(err, "count medicines")
	}
	return len(keys), nil
}
