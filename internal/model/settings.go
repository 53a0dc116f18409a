package model

// Settings are the user-facing notification toggles. Sub-toggles are inert
// while Enabled is false.
type Settings struct {
	Enabled      bool
	Reminders    bool
	OverdueTasks bool
	Sound        bool
}

func DefaultSettings() Settings {
	return Settings{
		Enabled:      true,
		Reminders:    true,
		OverdueTasks: true,
		Sound:        true,
	}
}

// RemindersActive reports whether reminder notifications may fire.
func (s Settings) RemindersActive() bool {
	return s.Enabled && s.Reminders
}

// OverdueActive reports whether overdue notifications may fire.
func (s Settings) OverdueActive() bool {
	return s.Enabled && s.OverdueTasks
}
