package config

// ExampleConfig returns an example configuration showing all available options.
func ExampleConfig() string {
	return `# todolist configuration file
# Values can be overridden by TODOLIST_* environment variables or CLI flags

# Task file (relative to the working directory)
task_file = "tasks.txt"

# Storage format:
#   text   - one task per line: name,due date,priority,status (default)
#   json   - structured JSON document, names may contain commas
#   yaml   - structured YAML document
#   sqlite - SQLite database
# Switching away from text changes the file format; use "todolist migrate".
storage = "text"

# Priority preselected in the form and used by "add" without -priority
default_priority = "High"

# Logging (debug, info, warn, error)
log_level = "warn"

# Log format (text, json, logfmt)
log_format = "text"

log_timestamps = false
log_caller = false

# Log file (the terminal form only logs when this is set)
# log_file = "~/.todolist.log"
`
}
