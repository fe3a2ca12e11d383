package constants

const (
	SettingTimezone             = "timezone"
	SettingNotificationsEnabled = "notifications_enabled"
	SettingQuietHoursStart      = "quiet_hours_start"
	SettingQuietHoursEnd        = "quiet_hours_end"
	SettingLanguage             = "language"
	SettingStreakVisibility     = "streak_visibility"
	SettingStrictTransitions    = "strict_transitions"

	// Default Settings Values
	DefaultTimezone             = "Local" // Use system local timezone by default
	DefaultNotificationsEnabled = true
	DefaultLanguage             = "en"
	DefaultStreakVisibility     = true
	DefaultStrictTransitions    = false
)
