// Package config handles configuration loading and defaults.
//
// Configuration is loaded from multiple sources in priority order:
// 1. Built-in defaults
// 2. User config file (OS-specific config directory)
// 3. Project config file (todolist.toml or .todolist.toml in the working directory)
// 4. Environment variables (TODOLIST_*)
// 5. CLI flags
//
// Each level overrides the previous one, so CLI flags take precedence.
//
// User-level config locations:
// - Windows: %APPDATA%\todolist\todolist.toml
// - macOS: ~/Library/Application Support/todolist/todolist.toml
// - Linux/BSD: $XDG_CONFIG_HOME/todolist/todolist.toml or ~/.config/todolist/todolist.toml
//
// Project-level config locations (overrides user config):
// - ./todolist.toml (preferred)
// - ./.todolist.toml
//
// With no configuration at all the task list lives in tasks.txt in the
// working directory, in the line-per-task text format.
package config
