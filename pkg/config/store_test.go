package config

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewFileStore_MissingFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.json")

	store, err := NewFileStore(path)
	require.NoError(t, err)

	assert.Equal(t, path, store.Path())
	assert.False(t, store.IsModified())
	section, err := store.GetSection("playback")
	require.NoError(t, err)
	assert.Empty(t, section)
}

func TestNewFileStore_DefaultPath(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)

	store, err := NewFileStore("")
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(home, ".coursepilot", "config.json"), store.Path())
}

func TestNewFileStore_InvalidJSON(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.json")
	require.NoError(t, os.WriteFile(path, []byte("{invalid"), 0644))

	_, err := NewFileStore(path)
	assert.Error(t, err)
}

func TestFileStore_SaveAndReload(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "config.json")
	store, err := NewFileStore(path)
	require.NoError(t, err)

	require.NoError(t, store.SetSection("playback", map[string]interface{}{"speed": 1.5}))
	assert.True(t, store.IsModified())
	require.NoError(t, store.Save())
	assert.False(t, store.IsModified())

	raw, err := os.ReadFile(path)
	require.NoError(t, err)
	var file map[string]interface{}
	require.NoError(t, json.Unmarshal(raw, &file))
	assert.Equal(t, storeVersion, file["version"])
	assert.Contains(t, file, "saved_at")

	_, err = os.Stat(path + ".tmp")
	assert.True(t, os.IsNotExist(err), "temp file is renamed away")

	reloaded, err := NewFileStore(path)
	require.NoError(t, err)
	section, err := reloaded.GetSection("playback")
	require.NoError(t, err)
	assert.Equal(t, 1.5, section["speed"])
}

func TestFileStore_CopiesSectionData(t *testing.T) {
	store, err := NewFileStore(filepath.Join(t.TempDir(), "config.json"))
	require.NoError(t, err)

	data := map[string]interface{}{"key": "value"}
	require.NoError(t, store.SetSection("s", data))
	data["key"] = "changed"

	got, _ := store.GetSection("s")
	assert.Equal(t, "value", got["key"])

	got["key"] = "changed again"
	again, _ := store.GetSection("s")
	assert.Equal(t, "value", again["key"])
}
