package config

// AppName is used for the config directory and file names.
const AppName = "todolist"

// Default values.
const (
	DefaultTaskFile  = "tasks.txt"
	DefaultStorage   = "text"
	DefaultPriority  = "High"
	DefaultLogLevel  = "warn"
	DefaultLogFormat = "text"
)

// Config holds the full configuration for todolist.
type Config struct {
	// Storage
	TaskFile string `toml:"task_file"`
	Storage  string `toml:"storage"` // text, json, yaml or sqlite

	// Form
	DefaultPriority string `toml:"default_priority"`

	// Logging configuration
	LogLevel      string `toml:"log_level"`
	LogFormat     string `toml:"log_format"`
	LogTimestamps bool   `toml:"log_timestamps"`
	LogCaller     bool   `toml:"log_caller"`
	LogFile       string `toml:"log_file"`

	// Working directory (computed)
	WorkDir string `toml:"-"`

	// Config files that were applied, lowest priority first (computed)
	ConfigFiles []string `toml:"-"`
}
