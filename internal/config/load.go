package config

import (
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"

	"github.com/nibzard/todolist-go/internal/storage"
	"github.com/nibzard/todolist-go/internal/todo"
)

// Load loads configuration from multiple sources in priority order:
// 1. Defaults
// 2. User config file
// 3. Project config file (todolist.toml or .todolist.toml in current directory)
// 4. Environment variables
// 5. CLI flags
func Load(fs *flag.FlagSet, args []string) (*Config, error) {
	cfg := &Config{}

	// 1. Set defaults
	setDefaults(cfg)

	// 2. Try to load from user config file
	if userConfigFile := findUserConfigFile(); userConfigFile != "" {
		if err := loadConfigFile(cfg, userConfigFile); err != nil {
			return nil, fmt.Errorf("loading user config file %s: %w", userConfigFile, err)
		}
	}

	// 3. Try to load from project config file (overrides user config)
	if projectConfigFile := findProjectConfigFile(); projectConfigFile != "" {
		if err := loadConfigFile(cfg, projectConfigFile); err != nil {
			return nil, fmt.Errorf("loading project config file %s: %w", projectConfigFile, err)
		}
	}

	// 4. Override from environment
	loadFromEnv(cfg)

	// 5. Parse CLI flags (they override everything)
	if err := parseFlags(cfg, fs, args); err != nil {
		return nil, fmt.Errorf("parsing flags: %w", err)
	}

	// 6. Compute derived values
	if err := finalizeConfig(cfg); err != nil {
		return nil, fmt.Errorf("finalizing config: %w", err)
	}

	return cfg, nil
}

// setDefaults fills cfg with built-in defaults.
func setDefaults(cfg *Config) {
	cfg.TaskFile = DefaultTaskFile
	cfg.Storage = DefaultStorage
	cfg.DefaultPriority = DefaultPriority
	cfg.LogLevel = DefaultLogLevel
	cfg.LogFormat = DefaultLogFormat
}

// loadConfigFile loads TOML config from the given file.
func loadConfigFile(cfg *Config, path string) error {
	md, err := toml.DecodeFile(path, cfg)
	if err != nil {
		return err
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, 0, len(undecoded))
		for _, k := range undecoded {
			keys = append(keys, k.String())
		}
		return fmt.Errorf("unknown keys: %s", strings.Join(keys, ", "))
	}
	cfg.ConfigFiles = append(cfg.ConfigFiles, path)
	return nil
}

// finalizeConfig computes derived values and validates settings.
func finalizeConfig(cfg *Config) error {
	kind, err := storage.ParseKind(cfg.Storage)
	if err != nil {
		return err
	}
	cfg.Storage = string(kind)

	priority, err := todo.ParsePriority(cfg.DefaultPriority)
	if err != nil {
		return fmt.Errorf("default_priority: %w", err)
	}
	cfg.DefaultPriority = string(priority)

	if strings.TrimSpace(cfg.TaskFile) == "" {
		return fmt.Errorf("task_file is empty")
	}

	// Expand ~ in paths
	cfg.TaskFile = expandPath(cfg.TaskFile)
	cfg.LogFile = expandPath(cfg.LogFile)

	// Determine working directory
	if cfg.WorkDir == "" {
		wd, err := os.Getwd()
		if err != nil {
			return fmt.Errorf("getting working directory: %w", err)
		}
		cfg.WorkDir = wd
	}

	// Make paths absolute if they're relative
	if !filepath.IsAbs(cfg.TaskFile) {
		cfg.TaskFile = filepath.Join(cfg.WorkDir, cfg.TaskFile)
	}
	if cfg.LogFile != "" && !filepath.IsAbs(cfg.LogFile) {
		cfg.LogFile = filepath.Join(cfg.WorkDir, cfg.LogFile)
	}

	return nil
}

// StorageKind returns the configured backend kind.
func (c *Config) StorageKind() storage.Kind {
	kind, err := storage.ParseKind(c.Storage)
	if err != nil {
		return storage.KindText
	}
	return kind
}

// Priority returns the configured default priority for new tasks.
func (c *Config) Priority() todo.Priority {
	p, err := todo.ParsePriority(c.DefaultPriority)
	if err != nil {
		return todo.PriorityHigh
	}
	return p
}
