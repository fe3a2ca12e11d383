package models

// Settings represents application-wide user preferences
type Settings struct {
	Timezone             string `json:"timezone"`              // IANA timezone name, or "Local" for the system timezone
	NotificationsEnabled bool   `json:"notifications_enabled"` // whether reminders are produced at all
	QuietHoursStart      string `json:"quiet_hours_start"`     // HH:MM, empty disables quiet hours
	QuietHoursEnd        string `json:"quiet_hours_end"`       // HH:MM
	Language             string `json:"language"`
	StreakVisibility     bool   `json:"streak_visibility"`
	StrictTransitions    bool   `json:"strict_transitions"` // reject task status changes outside the pending <-> done/skipped/postponed machine
}
