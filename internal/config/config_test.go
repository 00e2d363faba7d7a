// Package config tests configuration loading.
package config

import (
	"flag"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/BurntSushi/toml"
)

// clearEnv unsets every TODOLIST_* variable for the duration of the test.
func clearEnv(t *testing.T) {
	t.Helper()
	for _, kv := range os.Environ() {
		key, _, _ := strings.Cut(kv, "=")
		if strings.HasPrefix(key, "TODOLIST_") {
			t.Setenv(key, "")
			os.Unsetenv(key)
		}
	}
}

// chdir switches to dir and isolates user config lookups.
func chdir(t *testing.T, dir string) {
	t.Helper()
	t.Setenv("XDG_CONFIG_HOME", filepath.Join(dir, "xdg"))
	t.Setenv("APPDATA", filepath.Join(dir, "xdg"))
	t.Setenv("HOME", dir)
	oldWd, err := os.Getwd()
	if err != nil {
		t.Fatal(err)
	}
	if err := os.Chdir(dir); err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { os.Chdir(oldWd) })
}

func TestDefaults(t *testing.T) {
	cfg := &Config{}
	setDefaults(cfg)

	if cfg.TaskFile != DefaultTaskFile {
		t.Errorf("TaskFile: got %q, want %q", cfg.TaskFile, DefaultTaskFile)
	}
	if cfg.Storage != "text" {
		t.Errorf("Storage: got %q, want text", cfg.Storage)
	}
	if cfg.DefaultPriority != "High" {
		t.Errorf("DefaultPriority: got %q, want High", cfg.DefaultPriority)
	}
	if cfg.LogLevel != "warn" {
		t.Errorf("LogLevel: got %q, want warn", cfg.LogLevel)
	}
}

func TestLoadDefaultsResolveAgainstWorkDir(t *testing.T) {
	clearEnv(t)
	dir := t.TempDir()
	chdir(t, dir)

	cfg, err := Load(flag.NewFlagSet("test", flag.ContinueOnError), nil)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	wd, _ := os.Getwd()
	if cfg.TaskFile != filepath.Join(wd, "tasks.txt") {
		t.Errorf("TaskFile: got %q, want tasks.txt in %s", cfg.TaskFile, wd)
	}
	if len(cfg.ConfigFiles) != 0 {
		t.Errorf("ConfigFiles: got %v, want none", cfg.ConfigFiles)
	}
}

func TestLoadFromEnv(t *testing.T) {
	clearEnv(t)
	t.Setenv("TODOLIST_FILE", "custom.json")
	t.Setenv("TODOLIST_STORAGE", "json")
	t.Setenv("TODOLIST_DEFAULT_PRIORITY", "low")
	t.Setenv("TODOLIST_LOG_LEVEL", "debug")
	t.Setenv("TODOLIST_LOG_TIMESTAMPS", "yes")

	cfg := &Config{}
	setDefaults(cfg)
	loadFromEnv(cfg)

	if cfg.TaskFile != "custom.json" {
		t.Errorf("TaskFile: got %q, want custom.json", cfg.TaskFile)
	}
	if cfg.Storage != "json" {
		t.Errorf("Storage: got %q, want json", cfg.Storage)
	}
	if cfg.DefaultPriority != "low" {
		t.Errorf("DefaultPriority: got %q, want low", cfg.DefaultPriority)
	}
	if cfg.LogLevel != "debug" {
		t.Errorf("LogLevel: got %q, want debug", cfg.LogLevel)
	}
	if !cfg.LogTimestamps {
		t.Error("LogTimestamps: got false, want true")
	}
}

func TestLoadConfigFile(t *testing.T) {
	tmpDir := t.TempDir()
	configFile := filepath.Join(tmpDir, "todolist.toml")

	content := []byte(`task_file = "custom.yaml"
storage = "yaml"
default_priority = "Medium"
`)
	if err := os.WriteFile(configFile, content, 0644); err != nil {
		t.Fatal(err)
	}

	cfg := &Config{}
	if err := loadConfigFile(cfg, configFile); err != nil {
		t.Fatalf("loadConfigFile: %v", err)
	}

	if cfg.TaskFile != "custom.yaml" {
		t.Errorf("TaskFile: got %q, want custom.yaml", cfg.TaskFile)
	}
	if cfg.Storage != "yaml" {
		t.Errorf("Storage: got %q, want yaml", cfg.Storage)
	}
	if cfg.DefaultPriority != "Medium" {
		t.Errorf("DefaultPriority: got %q, want Medium", cfg.DefaultPriority)
	}
	if len(cfg.ConfigFiles) != 1 || cfg.ConfigFiles[0] != configFile {
		t.Errorf("ConfigFiles: got %v", cfg.ConfigFiles)
	}
}

func TestLoadConfigFileUnknownKey(t *testing.T) {
	configFile := filepath.Join(t.TempDir(), "todolist.toml")
	if err := os.WriteFile(configFile, []byte("todo_file = \"x\"\n"), 0644); err != nil {
		t.Fatal(err)
	}
	err := loadConfigFile(&Config{}, configFile)
	if err == nil || !strings.Contains(err.Error(), "todo_file") {
		t.Errorf("expected unknown key error, got %v", err)
	}
}

func TestPriorityOrder(t *testing.T) {
	clearEnv(t)
	dir := t.TempDir()
	chdir(t, dir)

	userDir := filepath.Join(dir, "xdg", "todolist")
	if err := os.MkdirAll(userDir, 0755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(userDir, "todolist.toml"),
		[]byte("task_file = \"user.txt\"\nstorage = \"yaml\"\ndefault_priority = \"Low\"\n"), 0644); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile("todolist.toml",
		[]byte("task_file = \"project.txt\"\nstorage = \"json\"\n"), 0644); err != nil {
		t.Fatal(err)
	}
	t.Setenv("TODOLIST_STORAGE", "sqlite")

	cfg, err := Load(flag.NewFlagSet("test", flag.ContinueOnError), []string{"-file", "flag.db"})
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	wd, _ := os.Getwd()
	if cfg.TaskFile != filepath.Join(wd, "flag.db") {
		t.Errorf("TaskFile: got %q, want flag.db (flag wins)", cfg.TaskFile)
	}
	if cfg.Storage != "sqlite" {
		t.Errorf("Storage: got %q, want sqlite (env beats files)", cfg.Storage)
	}
	if cfg.DefaultPriority != "Low" {
		t.Errorf("DefaultPriority: got %q, want Low (only set in user file)", cfg.DefaultPriority)
	}
	if len(cfg.ConfigFiles) != 2 {
		t.Errorf("ConfigFiles: got %v, want user and project", cfg.ConfigFiles)
	}
}

func TestFinalizeConfigRejectsBadValues(t *testing.T) {
	tests := []struct {
		name   string
		modify func(*Config)
	}{
		{"unknown storage", func(c *Config) { c.Storage = "xml" }},
		{"unknown priority", func(c *Config) { c.DefaultPriority = "Urgent" }},
		{"empty task file", func(c *Config) { c.TaskFile = " " }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := &Config{WorkDir: t.TempDir()}
			setDefaults(cfg)
			tt.modify(cfg)
			if err := finalizeConfig(cfg); err == nil {
				t.Error("expected error, got nil")
			}
		})
	}
}

func TestFinalizeConfigNormalizes(t *testing.T) {
	dir := t.TempDir()
	cfg := &Config{WorkDir: dir}
	setDefaults(cfg)
	cfg.Storage = "YML"
	cfg.DefaultPriority = "medium"
	cfg.LogFile = "todo.log"

	if err := finalizeConfig(cfg); err != nil {
		t.Fatal(err)
	}
	if cfg.Storage != "yaml" {
		t.Errorf("Storage: got %q, want yaml", cfg.Storage)
	}
	if cfg.DefaultPriority != "Medium" {
		t.Errorf("DefaultPriority: got %q, want Medium", cfg.DefaultPriority)
	}
	if cfg.LogFile != filepath.Join(dir, "todo.log") {
		t.Errorf("LogFile: got %q", cfg.LogFile)
	}
	if cfg.TaskFile != filepath.Join(dir, "tasks.txt") {
		t.Errorf("TaskFile: got %q", cfg.TaskFile)
	}
}

func TestExpandPath(t *testing.T) {
	home, err := os.UserHomeDir()
	if err != nil {
		t.Skip("Cannot get home directory")
	}
	t.Setenv("TODOLIST_TEST_DIR", "/srv/data")

	tests := []struct {
		input string
		want  string
	}{
		{"~/test", filepath.Join(home, "test")},
		{"~", home},
		{"/absolute/path", "/absolute/path"},
		{"relative", "relative"},
		{"~other/x", "~other/x"},
		{"$TODOLIST_TEST_DIR/tasks.txt", "/srv/data/tasks.txt"},
		{"", ""},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got := expandPath(tt.input)
			if got != tt.want {
				t.Errorf("expandPath(%q): got %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

func TestParseFlags(t *testing.T) {
	cfg := &Config{}
	setDefaults(cfg)

	fs := flag.NewFlagSet("test", flag.ContinueOnError)
	args := []string{
		"--file", "flag-tasks.txt",
		"--storage", "json",
		"--log-level", "debug",
		"--log-caller",
		"ls",
	}

	if err := parseFlags(cfg, fs, args); err != nil {
		t.Fatalf("parseFlags: %v", err)
	}

	if cfg.TaskFile != "flag-tasks.txt" {
		t.Errorf("TaskFile: got %q, want flag-tasks.txt", cfg.TaskFile)
	}
	if cfg.Storage != "json" {
		t.Errorf("Storage: got %q, want json", cfg.Storage)
	}
	if cfg.LogLevel != "debug" {
		t.Errorf("LogLevel: got %q, want debug", cfg.LogLevel)
	}
	if !cfg.LogCaller {
		t.Error("LogCaller: got false, want true")
	}
	if got := fs.Args(); len(got) != 1 || got[0] != "ls" {
		t.Errorf("remaining args: got %v, want [ls]", got)
	}
}

func TestBoolFromString(t *testing.T) {
	tests := []struct {
		input string
		want  bool
	}{
		{"1", true},
		{"true", true},
		{"TRUE", true},
		{"yes", true},
		{"on", true},
		{"0", false},
		{"false", false},
		{"no", false},
		{"", false},
	}
	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			if got := boolFromString(tt.input); got != tt.want {
				t.Errorf("boolFromString(%q): got %v, want %v", tt.input, got, tt.want)
			}
		})
	}
}

func TestExampleConfigIsValid(t *testing.T) {
	cfg := &Config{}
	setDefaults(cfg)
	md, err := toml.Decode(ExampleConfig(), cfg)
	if err != nil {
		t.Fatalf("example config does not parse: %v", err)
	}
	if undecoded := md.Undecoded(); len(undecoded) != 0 {
		t.Errorf("example config has unknown keys: %v", undecoded)
	}
	cfg.WorkDir = t.TempDir()
	if err := finalizeConfig(cfg); err != nil {
		t.Errorf("example config does not finalize: %v", err)
	}
}

func TestStorageKindAndPriority(t *testing.T) {
	cfg := &Config{Storage: "sqlite", DefaultPriority: "Low"}
	if cfg.StorageKind() != "sqlite" {
		t.Errorf("StorageKind: got %q", cfg.StorageKind())
	}
	if cfg.Priority() != "Low" {
		t.Errorf("Priority: got %q", cfg.Priority())
	}

	bad := &Config{Storage: "xml", DefaultPriority: "?"}
	if bad.StorageKind() != "text" {
		t.Errorf("StorageKind fallback: got %q", bad.StorageKind())
	}
	if bad.Priority() != "High" {
		t.Errorf("Priority fallback: got %q", bad.Priority())
	}
}
