package constants

const (
	// Settings file keys
	SettingTimezone            = "timezone"
	SettingQuickAccessCapacity = "quick_access_capacity"
	SettingAutoBackup          = "auto_backup"
	SettingTrayNotifications   = "tray_notifications"
	SettingMenuDir             = "menu_dir"

	SettingsFileName = "settings.yaml"

	// Default Settings Values
	DefaultTimezone          = "Local" // Use system local timezone by default
	DefaultAutoBackup        = true
	DefaultTrayNotifications = false
)
