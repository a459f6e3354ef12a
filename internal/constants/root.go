package constants

import "time"

// SessionState represents the current state of the TUI application
type SessionState int

// QuickAccessType classifies a quick-access entry
type QuickAccessType string

const (
	AppName            = "nutriuni"
	DefaultKeyringUser = "database-connection"
	DefaultConfigPath  = "~/.config/nutriuni/nutriuni.db"
	DBConnectionEnv    = "NUTRIUNI_DB_CONNECTION"
	Version            = "v0.3.0"

	// Backup constants
	MaxBackups       = 14
	BackupDirName    = "backups"
	BackupFilePrefix = "nutriuni-"
	BackupFileSuffix = ".db"

	// Notify constants
	NotifyMaxRetries       = 3
	NotifyRetryDelay       = 100 * time.Millisecond
	NotifierLockfileName   = "nutriuni-notifier.lock"
	NotificationDurationMs = 5000
	TrayAppIdentifier      = "com.naimy441.nutriuni"

	// Key-value store keyspace
	DailyLogKeyPrefix      = "nutrition_log_"
	QuickAccessKey         = "fast_access_items"
	BackgroundTimestampKey = "app_background_timestamp"
	NutritionGoalsKey      = "nutrition_goals"
	UserProfileKey         = "user_profile"
	OnboardingCompleteKey  = "onboarding_complete"

	// CustomMealRestaurant is the restaurant label of user-authored entries
	CustomMealRestaurant = "Custom Meal"

	// Quick access
	QuickAccessCapacity                   = 10
	QuickAccessCustom     QuickAccessType = "custom"
	QuickAccessRestaurant QuickAccessType = "restaurant"

	DefaultHistoryDays = 7
)

// Session States
const (
	StateToday SessionState = iota
	StateQuick
	StateHistory
	StateAddCustom
	StateConfirmClear
	StateOnboarding
)
