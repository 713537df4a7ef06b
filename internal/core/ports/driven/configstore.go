package driven

// ConfigStore provides keyed access to application configuration.
// Keys use dot notation, e.g. "storage.backend" or "mcp.port".
type ConfigStore interface {
	// Get retrieves a raw value and whether the key exists.
	Get(key string) (any, bool)

	// GetString returns the value as a string, or "" if absent or not a string.
	GetString(key string) string

	// GetInt returns the value as an int, or 0 if absent or not numeric.
	GetInt(key string) int

	// GetBool returns the value as a bool, or false if absent or not a bool.
	GetBool(key string) bool

	// Set stores a value and persists the configuration immediately.
	Set(key string, value any) error

	// Save persists the current configuration.
	Save() error

	// Load reads configuration from storage. A missing file is not an error.
	Load() error

	// Path returns the configuration file path.
	Path() string
}
