package models

// Settings represents application-wide settings loaded from the settings file
type Settings struct {
	Timezone            string `yaml:"timezone" json:"timezone"`                           // IANA timezone name (e.g. "America/New_York", or "Local" for system timezone)
	QuickAccessCapacity int    `yaml:"quick_access_capacity" json:"quick_access_capacity"` // how many quick-access entries are kept
	AutoBackup          bool   `yaml:"auto_backup" json:"auto_backup"`                     // back up the database when the day rolls over
	TrayNotifications   bool   `yaml:"tray_notifications" json:"tray_notifications"`       // send the finished day's totals to the tray app
	MenuDir             string `yaml:"menu_dir,omitempty" json:"menu_dir,omitempty"`       // directory of restaurant menus overriding the bundled catalog
}
