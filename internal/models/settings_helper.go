package models

import (
	"fmt"
	"strconv"

	"github.com/Naimy441/nutriuni/internal/constants"
)

// MapToSettings converts a map of key-value pairs to a Settings struct.
func MapToSettings(data map[string]string) (Settings, error) {
	settings := Settings{}

	for key, value := range data {
		switch key {
		case constants.SettingTimezone:
			settings.Timezone = value
		case constants.SettingQuickAccessCapacity:
			if _, err := fmt.Sscanf(value, "%d", &settings.QuickAccessCapacity); err != nil {
				return Settings{}, fmt.Errorf("parsing quick_access_capacity: %w", err)
			}
		case constants.SettingAutoBackup:
			settings.AutoBackup = value == "true"
		case constants.SettingTrayNotifications:
			settings.TrayNotifications = value == "true"
		case constants.SettingMenuDir:
			settings.MenuDir = value
		}
	}
	return settings, nil
}

// SettingsToMap converts a Settings struct to a map of key-value pairs.
func SettingsToMap(settings Settings) map[string]string {
	return map[string]string{
		constants.SettingTimezone:            settings.Timezone,
		constants.SettingQuickAccessCapacity: strconv.Itoa(settings.QuickAccessCapacity),
		constants.SettingAutoBackup:          strconv.FormatBool(settings.AutoBackup),
		constants.SettingTrayNotifications:   strconv.FormatBool(settings.TrayNotifications),
		constants.SettingMenuDir:             settings.MenuDir,
	}
}

// DefaultSettings returns the settings used when no settings file exists.
func DefaultSettings() Settings {
	return Settings{
		Timezone:            constants.DefaultTimezone,
		QuickAccessCapacity: constants.QuickAccessCapacity,
		AutoBackup:          constants.DefaultAutoBackup,
		TrayNotifications:   constants.DefaultTrayNotifications,
	}
}

// ApplyDefaultSettings applies default values to missing settings.
func ApplyDefaultSettings(settings *Settings) {
	if settings.Timezone == "" {
		settings.Timezone = constants.DefaultTimezone
	}
	if settings.QuickAccessCapacity <= 0 {
		settings.QuickAccessCapacity = constants.QuickAccessCapacity
	}
}
