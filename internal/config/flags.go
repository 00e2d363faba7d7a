package config

import "flag"

// parseFlags defines the global flags on fs and parses args.
// Flag defaults are the values resolved so far, so an unset flag keeps
// whatever the files and environment chose.
func parseFlags(cfg *Config, fs *flag.FlagSet, args []string) error {
	if fs == nil {
		fs = flag.NewFlagSet(AppName, flag.ContinueOnError)
	}

	// Storage
	fs.StringVar(&cfg.TaskFile, "file", cfg.TaskFile, "Path to the task file")
	fs.StringVar(&cfg.Storage, "storage", cfg.Storage, "Storage format (text, json, yaml, sqlite)")

	// Form
	fs.StringVar(&cfg.DefaultPriority, "priority", cfg.DefaultPriority, "Default priority for new tasks (High, Medium, Low)")

	// Logging
	fs.StringVar(&cfg.LogLevel, "log-level", cfg.LogLevel, "Log level (debug, info, warn, error)")
	fs.StringVar(&cfg.LogFormat, "log-format", cfg.LogFormat, "Log format (text, json, logfmt)")
	fs.BoolVar(&cfg.LogTimestamps, "log-timestamps", cfg.LogTimestamps, "Show timestamps in logs")
	fs.BoolVar(&cfg.LogCaller, "log-caller", cfg.LogCaller, "Show caller location in logs")
	fs.StringVar(&cfg.LogFile, "log-file", cfg.LogFile, "Write logs to this file instead of stderr")

	return fs.Parse(args)
}
