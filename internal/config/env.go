package config

import (
	"os"
	"strings"
)

// loadFromEnv overrides config from environment variables.
func loadFromEnv(cfg *Config) {
	if v := os.Getenv("TODOLIST_FILE"); v != "" {
		cfg.TaskFile = v
	}
	if v := os.Getenv("TODOLIST_STORAGE"); v != "" {
		cfg.Storage = v
	}
	if v := os.Getenv("TODOLIST_DEFAULT_PRIORITY"); v != "" {
		cfg.DefaultPriority = v
	}

	// Logging configuration
	if v := os.Getenv("TODOLIST_LOG_LEVEL"); v != "" {
		cfg.LogLevel = v
	}
	if v := os.Getenv("TODOLIST_LOG_FORMAT"); v != "" {
		cfg.LogFormat = v
	}
	if v := os.Getenv("TODOLIST_LOG_TIMESTAMPS"); v != "" {
		cfg.LogTimestamps = boolFromString(v)
	}
	if v := os.Getenv("TODOLIST_LOG_CALLER"); v != "" {
		cfg.LogCaller = boolFromString(v)
	}
	if v := os.Getenv("TODOLIST_LOG_FILE"); v != "" {
		cfg.LogFile = v
	}
}

// boolFromString parses a boolean from a string.
func boolFromString(s string) bool {
	s = strings.ToLower(strings.TrimSpace(s))
	return s == "1" || s == "true" || s == "yes" || s == "on"
}
