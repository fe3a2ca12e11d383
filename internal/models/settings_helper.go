package models

import (
	"fmt"
	"strconv"

	"github.com/julianstephens/habitual/internal/constants"
)

// DefaultSettings returns the settings written on first initialization
func DefaultSettings() Settings {
	return Settings{
		Timezone:             constants.DefaultTimezone,
		NotificationsEnabled: constants.DefaultNotificationsEnabled,
		Language:             constants.DefaultLanguage,
		StreakVisibility:     constants.DefaultStreakVisibility,
		StrictTransitions:    constants.DefaultStrictTransitions,
	}
}

// MapToSettings converts a map of key-value pairs to a Settings struct.
// Keys missing from data keep their default values.
func MapToSettings(data map[string]string) (Settings, error) {
	settings := DefaultSettings()

	for key, value := range data {
		switch key {
		case constants.SettingTimezone:
			settings.Timezone = value
		case constants.SettingNotificationsEnabled:
			b, err := strconv.ParseBool(value)
			if err != nil {
				return Settings{}, fmt.Errorf("parsing %s: %w", key, err)
			}
			settings.NotificationsEnabled = b
		case constants.SettingQuietHoursStart:
			settings.QuietHoursStart = value
		case constants.SettingQuietHoursEnd:
			settings.QuietHoursEnd = value
		case constants.SettingLanguage:
			settings.Language = value
		case constants.SettingStreakVisibility:
			b, err := strconv.ParseBool(value)
			if err != nil {
				return Settings{}, fmt.Errorf("parsing %s: %w", key, err)
			}
			settings.StreakVisibility = b
		case constants.SettingStrictTransitions:
			b, err := strconv.ParseBool(value)
			if err != nil {
				return Settings{}, fmt.Errorf("parsing %s: %w", key, err)
			}
			settings.StrictTransitions = b
		}
	}

	return settings, nil
}

// SettingsToMap converts a Settings struct to its key-value representation
func SettingsToMap(settings Settings) map[string]string {
	return map[string]string{
		constants.SettingTimezone:             settings.Timezone,
		constants.SettingNotificationsEnabled: strconv.FormatBool(settings.NotificationsEnabled),
		constants.SettingQuietHoursStart:      settings.QuietHoursStart,
		constants.SettingQuietHoursEnd:        settings.QuietHoursEnd,
		constants.SettingLanguage:             settings.Language,
		constants.SettingStreakVisibility:     strconv.FormatBool(settings.StreakVisibility),
		constants.SettingStrictTransitions:    strconv.FormatBool(settings.StrictTransitions),
	}
}
