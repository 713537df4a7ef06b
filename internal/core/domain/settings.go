package domain

const unknownDescription = "Unknown"

// StorageBackend selects where the task document is persisted.
type StorageBackend string

// Available storage backends.
const (
	// StorageJSON keeps tasks in a single JSON document (default).
	StorageJSON StorageBackend = "json"

	// StorageSQLite keeps tasks in a SQLite database, rewritten per save in one transaction.
	StorageSQLite StorageBackend = "sqlite"

	// StorageMemory keeps tasks in memory only; nothing survives a restart.
	StorageMemory StorageBackend = "memory"
)

// IsValid returns true if the backend is recognised.
func (b StorageBackend) IsValid() bool {
	switch b {
	case StorageJSON, StorageSQLite, StorageMemory:
		return true
	default:
		return false
	}
}

// IsDurable returns true if tasks survive a process restart.
func (b StorageBackend) IsDurable() bool {
	return b == StorageJSON || b == StorageSQLite
}

// String returns the string representation.
func (b StorageBackend) String() string {
	return string(b)
}

// Description returns a human-readable description of the backend.
func (b StorageBackend) Description() string {
	switch b {
	case StorageJSON:
		return "JSON document"
	case StorageSQLite:
		return "SQLite database"
	case StorageMemory:
		return "In-memory (not persisted)"
	default:
		return unknownDescription
	}
}

// AllStorageBackends returns all available backends.
func AllStorageBackends() []StorageBackend {
	return []StorageBackend{StorageJSON, StorageSQLite, StorageMemory}
}

// StorageSettings configures task persistence.
type StorageSettings struct {
	// Backend selects the task store implementation.
	Backend StorageBackend

	// Dir is the directory holding the task document. Empty means ~/.tidy.
	Dir string
}

// LogSettings configures diagnostic output.
type LogSettings struct {
	// Verbose enables debug and info output on stderr.
	Verbose bool
}

// MCPSettings configures the tool server.
type MCPSettings struct {
	// Port serves MCP over HTTP when > 0; stdio otherwise.
	Port int
}

// AppSettings holds all user-configurable settings.
type AppSettings struct {
	Storage StorageSettings
	Log     LogSettings
	MCP     MCPSettings
}

// DefaultAppSettings returns sensible defaults.
func DefaultAppSettings() AppSettings {
	return AppSettings{
		Storage: StorageSettings{
			Backend: StorageJSON,
		},
	}
}
