package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestStorageBackend_IsValid(t *testing.T) {
	for _, b := range AllStorageBackends() {
		assert.True(t, b.IsValid(), "backend %s", b)
		assert.NotEqual(t, unknownDescription, b.Description())
	}
	assert.False(t, StorageBackend("postgres").IsValid())
	assert.Equal(t, unknownDescription, StorageBackend("postgres").Description())
}

func TestStorageBackend_IsDurable(t *testing.T) {
	assert.True(t, StorageJSON.IsDurable())
	assert.True(t, StorageSQLite.IsDurable())
	assert.False(t, StorageMemory.IsDurable())
}

func TestDefaultAppSettings(t *testing.T) {
	s := DefaultAppSettings()

	assert.Equal(t, StorageJSON, s.Storage.Backend)
	assert.Empty(t, s.Storage.Dir)
	assert.False(t, s.Log.Verbose)
	assert.Equal(t, 0, s.MCP.Port)
}
