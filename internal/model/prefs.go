package model

// Default preference values.
const (
	DefaultReminderTone = "Meow meow"
	DefaultTheme        = "Light"
)

// Preferences holds the flat key-value user settings (singleton).
// Read at startup, written on user change.
type Preferences struct {
	Key          string `json:"key"`
	FirstLaunch  bool   `json:"first_launch"`
	Nickname     string `json:"nickname,omitempty"`
	ReminderTone string `json:"reminder_tone"`
	ToneSource   string `json:"tone_source,omitempty"` // serialized sound locator
	Theme        string `json:"theme"`
}

// SetKey sets the database key for the preferences record.
func (p *Preferences) SetKey(key string) {
	p.Key = key
}

// GetKey returns the database key for the preferences record.
func (p *Preferences) GetKey() string {
	return p.Key
}

// NewPreferences creates the default preferences record.
func NewPreferences() *Preferences {
	return &Preferences{
		Key:          KeyPreferences,
		FirstLaunch:  true,
		ReminderTone: DefaultReminderTone,
		Theme:        DefaultTheme,
	}
}
