package constants

const (
	AppName            = "habitual"
	DefaultKeyringUser = "database-connection"
	DefaultConfigPath  = "~/.config/habitual/habitual.db"
	Version            = "v0.3.0"

	// KeyringConfigValue makes the CLI read its connection string from the OS keyring
	KeyringConfigValue = "keyring"

	// DateFormat is the standard date format used throughout the application (YYYY-MM-DD)
	DateFormat = "2006-01-02"

	// TimeFormat is the standard time format used throughout the application (HH:MM)
	TimeFormat = "15:04"

	// SchemaVersion is the version written into export documents. Imports of
	// documents with a higher version are refused.
	SchemaVersion = 1

	// Backup constants
	MaxBackups       = 14
	BackupDirName    = "backups"
	BackupFilePrefix = "habitual-"
	BackupFileSuffix = ".json"

	// Analytics windows
	DefaultCompletionWindowDays = 30
	DefaultTimeSpentWindowDays  = 7
	CompletionWindowDays        = 7
	MinCompletionsForSuggestion = 3

	// Weekly review thresholds, as completion percentages
	AtRiskThreshold = 50.0
	StarThreshold   = 80.0

	// DefaultReminderTime is used for pending tasks of habits without a notification schedule
	DefaultReminderTime = "08:00"
)
