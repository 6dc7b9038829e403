package storage

import (
	apperrors "github.com/dhnguyen/pillbox/internal/errors"
	"github.com/dhnguyen/pillbox/internal/model"
)

// PrefsRepo manages the singleton user preferences record.
type PrefsRepo struct {
	db *DB
}

// NewPrefsRepo creates a new preferences repository.
func NewPrefsRepo(db *DB) *PrefsRepo {
	return &PrefsRepo{db: db}
}

// Get retrieves the preferences, creating defaults on first access.
func (r *PrefsRepo) Get() (*model.Preferences, error) {
	prefs := &model.Preferences{}
	err := r.db.Get(model.KeyPreferences, prefs)
	if err == nil {
		return prefs, nil
	}
	if !IsErrKeyNotFound(err) {
		return nil, apperrors.Wrap(err, "get preferences")
	}

	prefs = model.NewPreferences()
	if err := r.db.Set(prefs); err != nil {
		return nil, apperrors.Wrap(err, "store preferences")
	}
	return prefs, nil
}

// Update stores the preferences record.
func (r *PrefsRepo) Update(prefs *model.Preferences) error {
	prefs.Key = model.KeyPreferences
	if err := r.db.Set(prefs); err != nil {
		return apperrors.Wrap(err, "store preferences")
	}
	return nil
}

// MarkLaunched clears the first-launch flag after onboarding.
func (r *PrefsRepo) MarkLaunched(nickname string) (*model.Preferences, error) {
	prefs, err := r.Get()
	if err != nil {
		return nil, err
	}
	prefs.FirstLaunch = false
	if nickname != "" {
		prefs.Nickname = nickname
	}
	if err := r.Update(prefs); err != nil {
		return nil, err
	}
	return prefs, nil
}
