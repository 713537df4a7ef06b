package services

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/custodia-labs/tidy/internal/core/domain"
	"github.com/custodia-labs/tidy/internal/core/ports/driven"
	"github.com/custodia-labs/tidy/internal/core/ports/driving"
)

// Ensure SettingsService implements the interface.
var _ driving.SettingsService = (*SettingsService)(nil)

// Config keys for settings storage.
const (
	KeyStorageBackend = "storage.backend"
	KeyStorageDir     = "storage.dir"
	KeyLogVerbose     = "log.verbose"
	KeyMCPPort        = "mcp.port"
)

const maxPort = 65535

// SettingsService maps config keys onto domain.AppSettings.
type SettingsService struct {
	configStore driven.ConfigStore
}

// NewSettingsService creates a new settings service.
func NewSettingsService(configStore driven.ConfigStore) *SettingsService {
	return &SettingsService{configStore: configStore}
}

// Get retrieves current application settings, filling unset keys with defaults.
func (s *SettingsService) Get() (*domain.AppSettings, error) {
	defaults := domain.DefaultAppSettings()

	return &domain.AppSettings{
		Storage: domain.StorageSettings{
			Backend: s.getBackend(defaults.Storage.Backend),
			Dir:     s.getString(KeyStorageDir, defaults.Storage.Dir),
		},
		Log: domain.LogSettings{
			Verbose: s.getBool(KeyLogVerbose, defaults.Log.Verbose),
		},
		MCP: domain.MCPSettings{
			Port: s.getInt(KeyMCPPort, defaults.MCP.Port),
		},
	}, nil
}

// Save persists application settings.
func (s *SettingsService) Save(settings *domain.AppSettings) error {
	if !settings.Storage.Backend.IsValid() {
		return fmt.Errorf("%w: storage backend %q", domain.ErrInvalidInput, settings.Storage.Backend)
	}
	if settings.MCP.Port < 0 || settings.MCP.Port > maxPort {
		return fmt.Errorf("%w: mcp port %d", domain.ErrInvalidInput, settings.MCP.Port)
	}

	if err := s.configStore.Set(KeyStorageBackend, settings.Storage.Backend.String()); err != nil {
		return fmt.Errorf("save storage backend: %w", err)
	}
	if err := s.configStore.Set(KeyStorageDir, settings.Storage.Dir); err != nil {
		return fmt.Errorf("save storage dir: %w", err)
	}
	if err := s.configStore.Set(KeyLogVerbose, settings.Log.Verbose); err != nil {
		return fmt.Errorf("save log verbose: %w", err)
	}
	if err := s.configStore.Set(KeyMCPPort, settings.MCP.Port); err != nil {
		return fmt.Errorf("save mcp port: %w", err)
	}
	return nil
}

// Set parses value for key and persists it.
func (s *SettingsService) Set(key, value string) error {
	value = strings.TrimSpace(value)

	switch key {
	case KeyStorageBackend:
		backend := domain.StorageBackend(strings.ToLower(value))
		if !backend.IsValid() {
			return fmt.Errorf("%w: %s must be one of %s", domain.ErrInvalidInput, key, backendList())
		}
		return s.configStore.Set(key, backend.String())

	case KeyStorageDir:
		return s.configStore.Set(key, value)

	case KeyLogVerbose:
		b, err := strconv.ParseBool(value)
		if err != nil {
			return fmt.Errorf("%w: %s must be true or false", domain.ErrInvalidInput, key)
		}
		return s.configStore.Set(key, b)

	case KeyMCPPort:
		port, err := strconv.Atoi(value)
		if err != nil || port < 0 || port > maxPort {
			return fmt.Errorf("%w: %s must be a port number (0 for stdio)", domain.ErrInvalidInput, key)
		}
		return s.configStore.Set(key, port)

	default:
		return fmt.Errorf("%w: unknown setting %q (known: %s)",
			domain.ErrInvalidInput, key, strings.Join(s.Keys(), ", "))
	}
}

// Keys returns the supported config keys in display order.
func (s *SettingsService) Keys() []string {
	return []string{KeyStorageBackend, KeyStorageDir, KeyLogVerbose, KeyMCPPort}
}

// Validate checks that the stored values are usable. Unlike Get, it
// reports bad values instead of falling back to defaults.
func (s *SettingsService) Validate() error {
	if raw := s.configStore.GetString(KeyStorageBackend); raw != "" {
		if !domain.StorageBackend(raw).IsValid() {
			return fmt.Errorf("%w: %s = %q", domain.ErrInvalidInput, KeyStorageBackend, raw)
		}
	}
	if port := s.configStore.GetInt(KeyMCPPort); port < 0 || port > maxPort {
		return fmt.Errorf("%w: %s = %d", domain.ErrInvalidInput, KeyMCPPort, port)
	}
	return nil
}

// GetDefaults returns default settings.
func (s *SettingsService) GetDefaults() domain.AppSettings {
	return domain.DefaultAppSettings()
}

// Path returns the configuration file path.
func (s *SettingsService) Path() string {
	return s.configStore.Path()
}

func (s *SettingsService) getString(key, defaultVal string) string {
	if val := s.configStore.GetString(key); val != "" {
		return val
	}
	return defaultVal
}

func (s *SettingsService) getInt(key string, defaultVal int) int {
	if val := s.configStore.GetInt(key); val != 0 {
		return val
	}
	return defaultVal
}

func (s *SettingsService) getBool(key string, defaultVal bool) bool {
	if _, exists := s.configStore.Get(key); !exists {
		return defaultVal
	}
	return s.configStore.GetBool(key)
}

func (s *SettingsService) getBackend(defaultVal domain.StorageBackend) domain.StorageBackend {
	backend := domain.StorageBackend(s.configStore.GetString(KeyStorageBackend))
	if !backend.IsValid() {
		return defaultVal
	}
	return backend
}

func backendList() string {
	all := domain.AllStorageBackends()
	names := make([]string, len(all))
	for i, b := range all {
		names[i] = b.String()
	}
	return strings.Join(names, ", ")
}
