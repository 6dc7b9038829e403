// Package runtime provides the application runtime context for Pillbox.
package runtime

import (
	"os"
	"time"

	"github.com/dhnguyen/pillbox/internal/model"
	"github.com/dhnguyen/pillbox/internal/notify"
	"github.com/dhnguyen/pillbox/internal/output"
	"github.com/dhnguyen/pillbox/internal/schedule"
	"github.com/dhnguyen/pillbox/internal/storage"
)

// Context holds the application runtime context.
type Context struct {
	DB        *storage.DB
	Formatter *output.Formatter

	// Repositories
	MedicineRepo *storage.MedicineRepo
	HistoryRepo  *storage.HistoryRepo
	PrefsRepo    *storage.PrefsRepo
	WebhookRepo  *storage.WebhookRepo
	SnoozeRepo   *storage.SnoozeRepo

	// Services
	Dispatcher *notify.Dispatcher
	Responder  *notify.Responder

	// Debug mode
	Debug bool
}

// Options configures the runtime context.
type Options struct {
	DBPath    string
	InMemory  bool
	Format    output.Format
	ColorMode output.ColorMode
	Debug     bool
}

// DefaultOptions returns default runtime options.
func DefaultOptions() Options {
	return Options{
		DBPath:    storage.DefaultPath(),
		InMemory:  false,
		Format:    output.FormatCLI,
		ColorMode: output.ColorAuto,
		Debug:     false,
	}
}

// New creates a new runtime context.
func New(opts Options) (*Context, error) {
	// Check for environment variable override
	if envPath := os.Getenv("PILLBOX_DATABASE"); envPath != "" {
		if envPath == ":memory:" {
			opts.InMemory = true
		} else {
			opts.DBPath = envPath
		}
	}

	db, err := storage.Open(storage.Options{
		Path:     opts.DBPath,
		InMemory: opts.InMemory,
	})
	if err != nil {
		return nil, err
	}

	medicineRepo := storage.NewMedicineRepo(db)
	historyRepo := storage.NewHistoryRepo(db)
	prefsRepo := storage.NewPrefsRepo(db)
	webhookRepo := storage.NewWebhookRepo(db)
	snoozeRepo := storage.NewSnoozeRepo(db)

	formatter := output.NewFormatter()
	formatter.Format = opts.Format
	formatter.ColorMode = opts.ColorMode

	return &Context{
		DB:           db,
		Formatter:    formatter,
		MedicineRepo: medicineRepo,
		HistoryRepo:  historyRepo,
		PrefsRepo:    prefsRepo,
		WebhookRepo:  webhookRepo,
		SnoozeRepo:   snoozeRepo,
		Dispatcher:   notify.NewDispatcher(webhookRepo),
		Responder:    notify.NewResponder(medicineRepo, historyRepo, snoozeRepo),
		Debug:        opts.Debug,
	}, nil
}

// Close closes the runtime context.
func (c *Context) Close() error {
	if c.DB != nil {
		return c.DB.Close()
	}
	return nil
}

// CLIFormatter returns a CLI formatter.
func (c *Context) CLIFormatter() *output.CLIFormatter {
	return output.NewCLIFormatter(c.Formatter)
}

// JSONFormatter returns a JSON formatter.
func (c *Context) JSONFormatter() *output.JSONFormatter {
	return output.NewJSONFormatter(c.Formatter)
}

// IsJSON returns true if output format is JSON.
func (c *Context) IsJSON() bool {
	return c.Formatter.Format == output.FormatJSON
}

// DaySchedule builds the classified slot view for the day containing the
// given instant.
func (c *Context) DaySchedule(now time.Time) (*schedule.DaySchedule, error) {
	meds, err := c.MedicineRepo.ListByDate(now)
	if err != nil {
		return nil, err
	}
	entries, err := c.HistoryRepo.ListByDay(now)
	if err != nil {
		return nil, err
	}
	return schedule.BuildDaySchedule(meds, entries, now), nil
}

// MedicineNames returns an id-to-name index for display joins.
func (c *Context) MedicineNames() (map[uint64]string, error) {
	meds, err := c.MedicineRepo.List()
	if err != nil {
		return nil, err
	}
	names := make(map[uint64]string, len(meds))
	for _, med := range meds {
		names[med.ID] = med.Name
	}
	return names, nil
}

// DeleteMedicine removes a medicine along with its snoozes and, unless
// keepHistory is set, its adherence ledger.
func (c *Context) DeleteMedicine(id uint64, keepHistory bool) error {
	if err := c.MedicineRepo.Delete(id); err != nil {
		return err
	}
	if err := c.SnoozeRepo.ClearByMedicine(id); err != nil {
		return err
	}
	if keepHistory {
		return nil
	}
	return c.HistoryRepo.DeleteByMedicine(id)
}

// Medicines is a convenience for commands that need the full list.
func (c *Context) Medicines() ([]*model.Medicine, error) {
	return c.MedicineRepo.List()
}
